package gpos

import "seehuhn.de/go/typeface/bytereader"

// valueFormat bits, in the fixed order their fields occupy a
// ValueRecord when present.
const (
	vfXPlacement uint16 = 0x0001
	vfYPlacement uint16 = 0x0002
	vfXAdvance   uint16 = 0x0004
	vfYAdvance   uint16 = 0x0008
	vfXPlaDevice uint16 = 0x0010
	vfYPlaDevice uint16 = 0x0020
	vfXAdvDevice uint16 = 0x0040
	vfYAdvDevice uint16 = 0x0080
)

// readXAdvance reads a ValueRecord for the given valueFormat and
// returns only its xAdvance field (0 if absent). Every other field
// present is still read, in its fixed binary order, so the reader
// ends up positioned correctly past the record; device offsets are
// irrelevant to kerning extraction and are skipped.
func readXAdvance(r *bytereader.Reader, valueFormat uint16) (int16, error) {
	var xAdvance int16
	bits := []uint16{vfXPlacement, vfYPlacement, vfXAdvance, vfYAdvance,
		vfXPlaDevice, vfYPlaDevice, vfXAdvDevice, vfYAdvDevice}
	for _, bit := range bits {
		if valueFormat&bit == 0 {
			continue
		}
		v, err := r.Int16()
		if err != nil {
			return 0, err
		}
		if bit == vfXAdvance {
			xAdvance = v
		}
	}
	return xAdvance, nil
}
