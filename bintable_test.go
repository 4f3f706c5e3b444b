package fits

import (
	"bytes"
	"io"
	"testing"
)

func TestDecodeFieldFixedTypes(t *testing.T) {
	fd := &FieldDescriptor{TypeCode: 'J', Repeat: 2}
	cell := []byte{0, 0, 0, 1, 0, 0, 0, 2}
	fv, err := decodeField(fd, cell)
	if err != nil {
		t.Fatalf("decodeField: %v", err)
	}
	if len(fv.Samples) != 2 || fv.Samples[0].I32 != 1 || fv.Samples[1].I32 != 2 {
		t.Fatalf("unexpected samples: %+v", fv.Samples)
	}
}

func TestDecodeFieldAsciiString(t *testing.T) {
	fd := &FieldDescriptor{TypeCode: 'A', Repeat: 6}
	fv, err := decodeField(fd, []byte("hi    "))
	if err != nil {
		t.Fatalf("decodeField: %v", err)
	}
	if fv.Str != "hi" {
		t.Fatalf("str = %q", fv.Str)
	}
}

func TestDecodeFieldBitArray(t *testing.T) {
	fd := &FieldDescriptor{TypeCode: 'X', Repeat: 4}
	fv, err := decodeField(fd, []byte{0b10110000})
	if err != nil {
		t.Fatalf("decodeField: %v", err)
	}
	want := []bool{true, false, true, true}
	for i, b := range want {
		if fv.Bits[i] != b {
			t.Fatalf("bit %d = %v, want %v", i, fv.Bits[i], b)
		}
	}
}

func TestRowReaderResolveVLAWithBufferedHeap(t *testing.T) {
	desc := &BinTableDescriptor{
		Naxis1: 8,
		Naxis2: 1,
		Fields: []FieldDescriptor{
			{Index: 1, TypeCode: 'P', Repeat: 1, IsVLA: true, HeapCode: 'J'},
		},
	}
	// Row: a P descriptor pointing at offset 0 in the heap, count 2.
	row := []byte{0, 0, 0, 2, 0, 0, 0, 0}
	heap := []byte{0, 0, 0, 10, 0, 0, 0, 20} // two int32 values: 10, 20

	rr := newRowReader(desc, bytes.NewReader(row), nil, 0, heap)
	fields, err := rr.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if _, err := rr.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF after one row, got %v", err)
	}
	samples, err := rr.ResolveVLA(fields[0])
	if err != nil {
		t.Fatalf("ResolveVLA: %v", err)
	}
	if len(samples) != 2 || samples[0].I32 != 10 || samples[1].I32 != 20 {
		t.Fatalf("unexpected vla samples: %+v", samples)
	}
}
