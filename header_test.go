package fits

import "testing"

func buildCards(t *testing.T, lines []string) []*Card {
	t.Helper()
	var cards []*Card
	for _, l := range lines {
		c, err := parseCard(padCard(l), 0, nil)
		if err != nil {
			t.Fatalf("parseCard(%q): %v", l, err)
		}
		cards = append(cards, c)
	}
	return cards
}

func TestFoldContinueJoinsSegmentsAndTrims(t *testing.T) {
	cards := buildCards(t, []string{
		`LONGSTR = 'abcdefgh&'`,
		`CONTINUE 'ijkl    '`,
	})
	folded := foldContinue(cards)
	if len(folded) != 1 {
		t.Fatalf("expected 1 folded card, got %d", len(folded))
	}
	if folded["LONGSTR"].Str != "abcdefghijkl" {
		t.Fatalf("folded value = %q, want %q", folded["LONGSTR"].Str, "abcdefghijkl")
	}
}

func TestFoldContinueChain(t *testing.T) {
	cards := buildCards(t, []string{
		`A       = 'one&'`,
		`CONTINUE 'two&'`,
		`CONTINUE 'three'`,
	})
	folded := foldContinue(cards)
	if len(folded) != 1 || folded["A"].Str != "onetwothree" {
		t.Fatalf("unexpected fold result: %+v", folded)
	}
}

func TestHeaderLookups(t *testing.T) {
	h := newHeader(buildCards(t, []string{
		"SIMPLE  =                    T",
		"BITPIX  =                   16",
		"NAXIS   =                    0",
	}))
	if !h.Bool("SIMPLE", false) {
		t.Fatal("expected SIMPLE true")
	}
	if h.Int("BITPIX", -1) != 16 {
		t.Fatal("expected BITPIX 16")
	}
	if h.Has("MISSING") {
		t.Fatal("did not expect MISSING to be present")
	}
}

func TestRequireOrderDetectsMissingAndOutOfOrder(t *testing.T) {
	h := newHeader(buildCards(t, []string{
		"BITPIX  =                   16",
		"SIMPLE  =                    T",
	}))
	if err := h.requireOrder([]string{"SIMPLE", "BITPIX"}); err == nil {
		t.Fatal("expected an out-of-order error")
	}

	h2 := newHeader(buildCards(t, []string{
		"SIMPLE  =                    T",
	}))
	if err := h2.requireOrder([]string{"SIMPLE", "BITPIX"}); err == nil {
		t.Fatal("expected a missing-keyword error")
	}
}
