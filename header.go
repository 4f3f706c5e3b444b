package fits

import (
	"io"
	"strings"
)

// Header is one HDU's card sequence. Cards holds the raw, untouched
// parse order exactly as emitted by the file — including CONTINUE
// entries — so CardAt(i) always returns the i-th card as written
// (spec invariant: index-based lookup is card-order preserving,
// including commentary). Key-based lookup is a second, separate view:
// values is built by folding CONTINUE chains, the way
// original_source/src/hdu/header/mod.rs keeps its raw `cards` sequence
// untouched while folding only its `values` map.
type Header struct {
	Cards  []*Card
	index  map[string][]int // keyword -> raw Cards indices, source order
	values map[string]*Card // keyword -> CONTINUE-folded value view
}

// readHeader consumes cards from br until END and aligns br to the next
// block boundary. It never reads past END. The raw card sequence is
// kept as-is; CONTINUE folding only affects keyword lookup.
func readHeader(br *blockReader, warnings chan<- Warning) (*Header, error) {
	var raw []*Card
	for {
		cardBytes, err := br.nextCard()
		if err != nil {
			if err == io.EOF && len(raw) > 0 {
				return nil, &MalformedHeaderError{Reason: "stream ended before END card"}
			}
			return nil, err
		}
		offset := br.offset - cardSize
		c, err := parseCard(cardBytes, offset, warnings)
		if err != nil {
			return nil, err
		}
		raw = append(raw, c)
		if c.Kind == CardEnd {
			break
		}
	}
	if err := br.skipToBlockBoundary(); err != nil {
		return nil, err
	}
	return newHeader(raw), nil
}

func newHeader(cards []*Card) *Header {
	h := &Header{
		Cards:  cards,
		index:  make(map[string][]int, len(cards)),
		values: foldContinue(cards),
	}
	for i, c := range cards {
		h.index[c.Keyword] = append(h.index[c.Keyword], i)
	}
	return h
}

// CardAt returns the i-th card exactly as parsed from the file,
// including CONTINUE entries in their original position.
func (h *Header) CardAt(i int) (*Card, bool) {
	if i < 0 || i >= len(h.Cards) {
		return nil, false
	}
	return h.Cards[i], true
}

// foldContinue scans the raw card sequence for CONTINUE-anchored string
// values ('...&' followed by one or more CONTINUE cards) and builds a
// keyword -> folded-value map; it never mutates or reorders the raw
// sequence itself. A trailing comment on any segment overrides the
// anchor's comment, matching the convention that the last comment wins.
func foldContinue(raw []*Card) map[string]*Card {
	values := make(map[string]*Card, len(raw))
	i := 0
	for i < len(raw) {
		card := raw[i]
		if card.Kind != CardValue {
			i++
			continue
		}
		if card.ValueKind != ValueString || !card.StrContinues {
			if _, exists := values[card.Keyword]; !exists {
				values[card.Keyword] = card
			}
			i++
			continue
		}
		merged := strings.TrimRight(card.Str, " ")
		merged = strings.TrimSuffix(merged, "&")
		comment := card.Comment
		j := i + 1
		for j < len(raw) && raw[j].Kind == CardContinue {
			seg := strings.TrimRight(raw[j].Str, " ")
			more := strings.HasSuffix(seg, "&")
			seg = strings.TrimSuffix(seg, "&")
			merged += seg
			if raw[j].Comment != "" {
				comment = raw[j].Comment
			}
			j++
			if !more {
				break
			}
		}
		next := *card
		next.Str = merged
		next.StrContinues = false
		next.Comment = comment
		if _, exists := values[card.Keyword]; !exists {
			values[card.Keyword] = &next
		}
		i = j
	}
	return values
}

// Get returns keyword's folded value card (CONTINUE chains already
// joined), if any.
func (h *Header) Get(keyword string) (*Card, bool) {
	c, ok := h.values[keyword]
	return c, ok
}

// All returns every raw card for keyword in source order (for COMMENT,
// HISTORY, or blank keywords, which may repeat).
func (h *Header) All(keyword string) []*Card {
	idx := h.index[keyword]
	cards := make([]*Card, len(idx))
	for i, p := range idx {
		cards[i] = h.Cards[p]
	}
	return cards
}

// Int returns keyword's integer value, or fallback if absent or not an
// integer-kinded card.
func (h *Header) Int(keyword string, fallback int64) int64 {
	c, ok := h.Get(keyword)
	if !ok || c.ValueKind != ValueInteger {
		return fallback
	}
	return c.Int
}

// Float returns keyword's floating value, accepting an integer card too
// (BSCALE/BZERO/BLANK-adjacent keywords are frequently written as
// integers when the value happens to be whole).
func (h *Header) Float(keyword string, fallback float64) float64 {
	c, ok := h.Get(keyword)
	if !ok {
		return fallback
	}
	switch c.ValueKind {
	case ValueFloat:
		return c.Float
	case ValueInteger:
		return float64(c.Int)
	default:
		return fallback
	}
}

// Str returns keyword's string value, or "" if absent or not a string.
func (h *Header) Str(keyword string) string {
	c, ok := h.Get(keyword)
	if !ok || c.ValueKind != ValueString {
		return ""
	}
	return c.Str
}

// Bool returns keyword's logical value, or fallback if absent.
func (h *Header) Bool(keyword string, fallback bool) bool {
	c, ok := h.Get(keyword)
	if !ok || c.ValueKind != ValueLogical {
		return fallback
	}
	return c.Bool
}

// Has reports whether keyword is present at all.
func (h *Header) Has(keyword string) bool {
	_, ok := h.Get(keyword)
	return ok
}

// requireOrder validates that each keyword in order is present and that
// their first occurrences follow the given order, the mandatory-card
// ordering FITS requires for SIMPLE/XTENSION, BITPIX, and NAXIS. It does
// not require these cards to lead the header or to be contiguous with the rest of the
// header, only that these specific keywords appear in this relative
// order among themselves.
func (h *Header) requireOrder(order []string) error {
	last := -1
	for _, kw := range order {
		idx, ok := h.index[kw]
		if !ok || len(idx) == 0 {
			return &MalformedHeaderError{Reason: "missing mandatory keyword " + kw}
		}
		if idx[0] <= last {
			return &MalformedHeaderError{Reason: "mandatory keyword " + kw + " out of order"}
		}
		last = idx[0]
	}
	return nil
}
