package bytereader

import "testing"

func TestReadsBigEndianValues(t *testing.T) {
	data := []byte{
		0x01,                   // Uint8
		0xFF,                   // Int8 (-1)
		0x01, 0x02,             // Uint16
		0x80, 0x00,             // Int16 (-32768)
		0x00, 0x01, 0x02,       // Uint24
		0x00, 0x00, 0x01, 0x00, // Uint32
		't', 'a', 'g', ' ',     // Tag
	}
	r := New(data)

	if v, err := r.Uint8(); err != nil || v != 0x01 {
		t.Fatalf("Uint8 = %d, %v", v, err)
	}
	if v, err := r.Int8(); err != nil || v != -1 {
		t.Fatalf("Int8 = %d, %v", v, err)
	}
	if v, err := r.Uint16(); err != nil || v != 0x0102 {
		t.Fatalf("Uint16 = %d, %v", v, err)
	}
	if v, err := r.Int16(); err != nil || v != -32768 {
		t.Fatalf("Int16 = %d, %v", v, err)
	}
	if v, err := r.Uint24(); err != nil || v != 0x000102 {
		t.Fatalf("Uint24 = %d, %v", v, err)
	}
	if v, err := r.Uint32(); err != nil || v != 0x00000100 {
		t.Fatalf("Uint32 = %d, %v", v, err)
	}
	if v, err := r.Tag(); err != nil || v != "tag " {
		t.Fatalf("Tag = %q, %v", v, err)
	}
	if r.Remaining() != 0 {
		t.Fatalf("Remaining = %d, want 0", r.Remaining())
	}
}

func TestFixedPointScaling(t *testing.T) {
	r := New([]byte{0x40, 0x00, 0x00, 0x01, 0x00, 0x00})
	v, err := r.Fixed2Dot14()
	if err != nil || v != 1.0 {
		t.Fatalf("Fixed2Dot14 = %v, %v", v, err)
	}
	v, err = r.Fixed16Dot16()
	if err != nil || v != 1.0 {
		t.Fatalf("Fixed16Dot16 = %v, %v", v, err)
	}
}

func TestOutOfRangeReadsError(t *testing.T) {
	r := New([]byte{0x01, 0x02})
	if _, err := r.Uint32(); err == nil {
		t.Fatal("expected an error reading past the end of the buffer")
	}
	if err := r.SeekPos(-1); err == nil {
		t.Fatal("expected an error seeking to a negative position")
	}
	if err := r.SeekPos(10); err == nil {
		t.Fatal("expected an error seeking past the end of the buffer")
	}
}

func TestSkipAndSeek(t *testing.T) {
	r := New([]byte{0, 1, 2, 3, 4})
	if err := r.Skip(2); err != nil {
		t.Fatal(err)
	}
	if r.Pos() != 2 {
		t.Fatalf("Pos = %d, want 2", r.Pos())
	}
	b, err := r.Bytes(1)
	if err != nil || b[0] != 2 {
		t.Fatalf("Bytes = %v, %v", b, err)
	}
	if err := r.SeekPos(0); err != nil {
		t.Fatal(err)
	}
	if r.Pos() != 0 {
		t.Fatalf("Pos = %d, want 0", r.Pos())
	}
}
