package fits

import "testing"

func TestClassifyImagePrimary(t *testing.T) {
	h := newHeader(buildCards(t, []string{
		"SIMPLE  =                    T",
		"BITPIX  =                  -32",
		"NAXIS   =                    2",
		"NAXIS1  =                  100",
		"NAXIS2  =                   50",
		"BSCALE  =                  2.0",
		"BZERO   =                  1.0",
		"END",
	}))
	kind, desc, err := classify(h, true)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if kind != HduPrimary {
		t.Fatalf("kind = %v", kind)
	}
	img := desc.(*ImageDescriptor)
	if img.ElemType != ElemF32 {
		t.Fatalf("elem type = %v", img.ElemType)
	}
	if img.ElementCount() != 5000 {
		t.Fatalf("element count = %d", img.ElementCount())
	}
	if img.DataBytes() != 5000*4 {
		t.Fatalf("data bytes = %d", img.DataBytes())
	}
	if img.PaddedDataBytes()%blockSize != 0 {
		t.Fatalf("padded data bytes not block aligned: %d", img.PaddedDataBytes())
	}
	if img.Bscale != 2.0 || img.Bzero != 1.0 {
		t.Fatalf("bscale/bzero = %v/%v", img.Bscale, img.Bzero)
	}
}

func TestClassifyMissingMandatoryKeyword(t *testing.T) {
	h := newHeader(buildCards(t, []string{
		"SIMPLE  =                    T",
		"BITPIX  =                   16",
		"END",
	}))
	if _, _, err := classify(h, true); err == nil {
		t.Fatal("expected error for missing NAXIS")
	}
}

func TestParseBinTformFixedAndVLA(t *testing.T) {
	fd, err := parseBinTform("24J")
	if err != nil {
		t.Fatalf("parseBinTform: %v", err)
	}
	if fd.Repeat != 24 || fd.TypeCode != 'J' {
		t.Fatalf("unexpected fd: %+v", fd)
	}

	fd2, err := parseBinTform("1PE")
	if err != nil {
		t.Fatalf("parseBinTform: %v", err)
	}
	if !fd2.IsVLA || fd2.VLAWide || fd2.HeapCode != 'E' {
		t.Fatalf("unexpected vla fd: %+v", fd2)
	}

	fd3, err := parseBinTform("1QB")
	if err != nil {
		t.Fatalf("parseBinTform: %v", err)
	}
	if !fd3.IsVLA || !fd3.VLAWide || fd3.HeapCode != 'B' {
		t.Fatalf("unexpected wide vla fd: %+v", fd3)
	}
}

func TestAsciiFieldWidth(t *testing.T) {
	if w := asciiFieldWidth("F8.2"); w != 8 {
		t.Fatalf("width = %d, want 8", w)
	}
	if w := asciiFieldWidth("I5"); w != 5 {
		t.Fatalf("width = %d, want 5", w)
	}
}
