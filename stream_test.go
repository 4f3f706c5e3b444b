package fits

import (
	"bytes"
	"io"
	"testing"
)

// buildMinimalFits assembles a single-HDU FITS file: one block of header
// cards padded with blank cards to 36 per block, followed by one block
// of BITPIX=8 image data padded with zeros.
func buildMinimalFits(t *testing.T, pixels []byte) []byte {
	t.Helper()
	lines := []string{
		"SIMPLE  =                    T",
		"BITPIX  =                    8",
		"NAXIS   =                    1",
	}
	lines = append(lines, "NAXIS1  =                    "+itoa(len(pixels)))
	lines = append(lines, "END")

	var header bytes.Buffer
	for _, l := range lines {
		header.Write(padCard(l))
	}
	for header.Len()%blockSize != 0 {
		header.Write(padCard(""))
	}

	var data bytes.Buffer
	data.Write(pixels)
	for data.Len()%blockSize != 0 {
		data.WriteByte(0)
	}

	var out bytes.Buffer
	out.Write(header.Bytes())
	out.Write(data.Bytes())
	return out.Bytes()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func TestHduStreamReadsPrimaryImageThenEOF(t *testing.T) {
	raw := buildMinimalFits(t, []byte{10, 20, 30, 40})
	stream := Open(bytes.NewReader(raw))

	h, err := stream.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if h.Kind() != HduPrimary {
		t.Fatalf("kind = %v", h.Kind())
	}
	desc, ok := h.Image()
	if !ok || desc.Naxis[0] != 4 {
		t.Fatalf("unexpected image descriptor: %+v", desc)
	}
	im, err := h.ImageData()
	if err != nil {
		t.Fatalf("ImageData: %v", err)
	}
	var got []byte
	for {
		s, err := im.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next sample: %v", err)
		}
		got = append(got, s.U8)
	}
	if !bytes.Equal(got, []byte{10, 20, 30, 40}) {
		t.Fatalf("got %v", got)
	}

	if _, err := stream.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF for second HDU, got %v", err)
	}
}

func TestHduStreamSkipsUnreadDataOnAdvance(t *testing.T) {
	raw := buildMinimalFits(t, []byte{1, 2, 3, 4})
	stream := Open(bytes.NewReader(raw))

	if _, err := stream.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	// Never touch the image data; Next must still skip past it cleanly.
	if _, err := stream.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}
