package post

import "testing"

func be16s(v int16) []byte { return []byte{byte(uint16(v) >> 8), byte(uint16(v))} }
func be32(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func buildPost(version uint32, italicAngle int32, isFixedPitch uint32) []byte {
	return concat(
		be32(version),
		be32(uint32(italicAngle)),
		be16s(-100), // underlinePosition
		be16s(50),   // underlineThickness
		be32(isFixedPitch),
		make([]byte, 16), // minMemType42..maxMemType1
	)
}

func TestReadDecodesPostHeader(t *testing.T) {
	info, err := Read(buildPost(0x00020000, -1<<16, 1)) // -1.0 degree, fixed pitch
	if err != nil {
		t.Fatal(err)
	}
	if info.ItalicAngle != -1.0 {
		t.Errorf("ItalicAngle = %v, want -1.0", info.ItalicAngle)
	}
	if info.UnderlinePosition != -100 || info.UnderlineThickness != 50 {
		t.Errorf("underline metrics = %d/%d", info.UnderlinePosition, info.UnderlineThickness)
	}
	if !info.IsFixedPitch {
		t.Error("IsFixedPitch should be true")
	}
}

func TestReadRejectsUnsupportedVersion(t *testing.T) {
	if _, err := Read(buildPost(0x00040000, 0, 0)); err == nil {
		t.Fatal("expected an error for an unsupported post version")
	}
}

func TestReadRejectsShortInput(t *testing.T) {
	if _, err := Read(make([]byte, 10)); err == nil {
		t.Fatal("expected an error for a table shorter than 32 bytes")
	}
}
