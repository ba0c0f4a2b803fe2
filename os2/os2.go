// Package os2 decodes the "OS/2" table. Only the fixed-size prefix
// through usWinDescent is read: later fields (added in OS/2 versions
// 1-5) are version-dependent in length and this module does not need
// them.
package os2

import (
	"fmt"

	"seehuhn.de/go/typeface/bytereader"
)

// fsSelection bits relevant to style classification.
const (
	fsSelectionItalic  = 1 << 0
	fsSelectionBold    = 1 << 5
	fsSelectionRegular = 1 << 6
	fsSelectionOblique = 1 << 9
)

// Info holds the OS/2 fields used by the orchestrator.
type Info struct {
	WeightClass uint16
	WidthClass  uint16

	IsItalic  bool
	IsBold    bool
	IsRegular bool
	IsOblique bool

	TypoAscender  int16
	TypoDescender int16
	TypoLineGap   int16
	WinAscent     uint16
	WinDescent    uint16
}

// Read decodes the "OS/2" table's version-0 prefix.
func Read(data []byte) (*Info, error) {
	if len(data) < 78 {
		return nil, fmt.Errorf("os2: table too short")
	}
	r := bytereader.New(data)

	if _, err := r.Uint16(); err != nil { // version
		return nil, err
	}
	if _, err := r.Int16(); err != nil { // xAvgCharWidth
		return nil, err
	}
	weightClass, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	widthClass, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	if _, err := r.Uint16(); err != nil { // fsType
		return nil, err
	}
	if err := r.Skip(2 * 10); err != nil { // sub/superscript + strikeout metrics
		return nil, err
	}
	if _, err := r.Int16(); err != nil { // sFamilyClass
		return nil, err
	}
	if err := r.Skip(10); err != nil { // panose
		return nil, err
	}
	if err := r.Skip(4 * 4); err != nil { // ulUnicodeRange1-4
		return nil, err
	}
	if _, err := r.Tag(); err != nil { // achVendID
		return nil, err
	}
	fsSelection, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	if err := r.Skip(2 * 2); err != nil { // usFirstCharIndex, usLastCharIndex
		return nil, err
	}
	typoAscender, err := r.Int16()
	if err != nil {
		return nil, err
	}
	typoDescender, err := r.Int16()
	if err != nil {
		return nil, err
	}
	typoLineGap, err := r.Int16()
	if err != nil {
		return nil, err
	}
	winAscent, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	winDescent, err := r.Uint16()
	if err != nil {
		return nil, err
	}

	return &Info{
		WeightClass:   weightClass,
		WidthClass:    widthClass,
		IsItalic:      fsSelection&fsSelectionItalic != 0,
		IsBold:        fsSelection&fsSelectionBold != 0,
		IsRegular:     fsSelection&fsSelectionRegular != 0,
		IsOblique:     fsSelection&fsSelectionOblique != 0,
		TypoAscender:  typoAscender,
		TypoDescender: typoDescender,
		TypoLineGap:   typoLineGap,
		WinAscent:     winAscent,
		WinDescent:    winDescent,
	}, nil
}
