package fits

import (
	"io"
)

// blockSize is the FITS logical block size in bytes; every header and
// data unit is padded to a multiple of it.
const blockSize = 2880

// cardSize is the fixed width of one header card.
const cardSize = 80

// cardsPerBlock is the number of 80-byte cards in one 2880-byte block.
const cardsPerBlock = blockSize / cardSize

// blockReader supplies 80-byte cards from a 2880-byte block stream over
// any buffered byte source, never losing bytes buffered across a read
// boundary. It mirrors the teacher's left/right double-cursor buffer,
// generalized to also report its absolute stream offset so the HDU
// stream engine (stream.go) can enforce block alignment (spec invariant
// 1) without a second accounting scheme.
type blockReader struct {
	r      io.Reader
	buf    [blockSize]byte
	left   int // next unread byte within buf
	right  int // valid bytes in buf (right <= blockSize for a full block)
	offset int64
	eof    bool
}

func newBlockReader(r io.Reader) *blockReader {
	return &blockReader{r: r}
}

// offsetAligned reports whether the reader's absolute position is a
// multiple of blockSize.
func (b *blockReader) offsetAligned() bool {
	return b.offset%blockSize == 0
}

// fill reads one full 2880-byte block into buf. A short final block (from
// a truncated stream) is kept; nextCard reports a MalformedCardError if a
// card runs past its last byte.
func (b *blockReader) fill() error {
	n, err := io.ReadFull(b.r, b.buf[:])
	b.left = 0
	b.right = n
	if err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			if n == 0 {
				b.eof = true
				return io.EOF
			}
			// A partial final block: bytes up to n are usable, but any
			// card reaching past n is a fatal premature EOF (§4.1).
			b.eof = true
			return nil
		}
		return &IoError{Offset: b.offset, Err: err}
	}
	return nil
}

// nextCard returns the next 80-byte card, refilling blocks as needed. It
// returns io.EOF only at a clean block boundary where the underlying
// source has nothing left; a short read in the middle of a card is a
// fatal MalformedCardError, never a silent truncation.
func (b *blockReader) nextCard() ([]byte, error) {
	if b.left >= b.right {
		if b.eof {
			return nil, io.EOF
		}
		if err := b.fill(); err != nil {
			return nil, err
		}
		if b.right == 0 {
			return nil, io.EOF
		}
	}
	if b.left+cardSize > b.right {
		return nil, &MalformedCardError{
			Offset: b.offset,
			Reason: "premature end of stream mid-card",
		}
	}
	card := b.buf[b.left : b.left+cardSize]
	b.left += cardSize
	b.offset += cardSize
	return card, nil
}

// Read implements io.Reader over the same left/right cursor nextCard
// uses, so data-unit reads (which aren't card-aligned) and header reads
// (which are) can share one underlying cursor and one offset count.
func (b *blockReader) Read(p []byte) (int, error) {
	total := 0
	for total < len(p) {
		if b.left < b.right {
			n := copy(p[total:], b.buf[b.left:b.right])
			b.left += n
			b.offset += int64(n)
			total += n
			continue
		}
		if b.eof {
			if total > 0 {
				return total, nil
			}
			return 0, io.EOF
		}
		if err := b.fill(); err != nil {
			if total > 0 {
				return total, nil
			}
			return 0, err
		}
	}
	return total, nil
}

// skipToBlockBoundary advances br to the next multiple of blockSize,
// discarding any unread bytes left in the current block (header padding
// after END, or data-unit padding after the last element).
func (b *blockReader) skipToBlockBoundary() error {
	rem := b.offset % blockSize
	if rem == 0 {
		return nil
	}
	return b.skip(blockSize - rem)
}

// skip advances past n bytes of data-unit payload without retaining
// them, used by the HDU stream engine to fast-forward past an HDU whose
// data the caller never consumed.
func (b *blockReader) skip(n int64) error {
	if n <= 0 {
		return nil
	}
	// Bytes already buffered but unread satisfy part of the skip first.
	buffered := int64(b.right - b.left)
	if buffered > 0 {
		take := buffered
		if take > n {
			take = n
		}
		b.left += int(take)
		b.offset += take
		n -= take
	}
	if n == 0 {
		return nil
	}
	if seeker, ok := b.r.(io.Seeker); ok {
		if _, err := seeker.Seek(n, io.SeekCurrent); err != nil {
			return &IoError{Offset: b.offset, Err: err}
		}
		b.offset += n
		b.left, b.right = 0, 0
		return nil
	}
	discarded, err := io.CopyN(io.Discard, b.r, n)
	b.offset += discarded
	if err != nil {
		return &IoError{Offset: b.offset, Err: err}
	}
	return nil
}
