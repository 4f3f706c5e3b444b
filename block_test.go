package fits

import (
	"bytes"
	"io"
	"testing"
)

func makeBlocks(n int) []byte {
	return make([]byte, n*blockSize)
}

func TestBlockReaderNextCardAcrossBoundary(t *testing.T) {
	data := makeBlocks(2)
	copy(data[blockSize-cardSize:], []byte("END"))
	copy(data[blockSize:blockSize+8], []byte("SIMPLE  "))

	br := newBlockReader(bytes.NewReader(data))
	var cards [][]byte
	for i := 0; i < cardsPerBlock+1; i++ {
		c, err := br.nextCard()
		if err != nil {
			t.Fatalf("nextCard at %d: %v", i, err)
		}
		cards = append(cards, append([]byte{}, c...))
	}
	if string(cards[cardsPerBlock-1][:3]) != "END" {
		t.Fatalf("expected END as last card of first block, got %q", cards[cardsPerBlock-1][:3])
	}
	if string(cards[cardsPerBlock][:6]) != "SIMPLE" {
		t.Fatalf("expected SIMPLE as first card of second block, got %q", cards[cardsPerBlock][:6])
	}
}

func TestBlockReaderSkipToBlockBoundary(t *testing.T) {
	data := makeBlocks(2)
	br := newBlockReader(bytes.NewReader(data))
	if _, err := br.nextCard(); err != nil {
		t.Fatalf("nextCard: %v", err)
	}
	if err := br.skipToBlockBoundary(); err != nil {
		t.Fatalf("skipToBlockBoundary: %v", err)
	}
	if br.offset != blockSize {
		t.Fatalf("offset = %d, want %d", br.offset, blockSize)
	}
}

func TestBlockReaderReadHonorsBufferedBytes(t *testing.T) {
	data := makeBlocks(1)
	data[0], data[1], data[2] = 1, 2, 3
	br := newBlockReader(bytes.NewReader(data))
	if _, err := br.nextCard(); err != nil { // buffers the whole first block
		t.Fatalf("nextCard: %v", err)
	}
	// nextCard already advanced left by cardSize; reset manually is not
	// possible, so verify Read continues from the buffered cursor rather
	// than re-reading from the start.
	buf := make([]byte, 4)
	n, err := br.Read(buf)
	if err != nil && err != io.EOF {
		t.Fatalf("Read: %v", err)
	}
	if n != 4 {
		t.Fatalf("Read returned %d bytes, want 4", n)
	}
	if !bytes.Equal(buf, []byte{0, 0, 0, 0}) {
		t.Fatalf("Read returned %v, want the zero bytes after the first card, not %v", buf, data[:4])
	}
}
