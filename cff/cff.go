// Package cff decodes CFF and CFF2 font programs: the INDEX/DICT
// binary structures, FDArray/FDSelect for CID-keyed fonts, and the
// Type 2 CharString interpreter, lowering the result to the CFF
// subset of the command-string grammar ("m"/"l"/"b").
package cff

import (
	"fmt"

	"seehuhn.de/go/typeface/bytereader"
)

// PrivateInfo holds the decoded Private DICT fields needed to execute
// CharStrings for one font dict (there is exactly one for a non-CID
// font, and one per FD for a CID-keyed font).
type PrivateInfo struct {
	DefaultWidthX int32
	NominalWidthX int32
	LocalSubrs    [][]byte
}

// Font is a decoded CFF or CFF2 program.
type Font struct {
	CharStrings [][]byte
	GlobalSubrs [][]byte
	Private     []*PrivateInfo // index 0 used for non-CID fonts
	FDSelect    func(gid uint16) int
	IsCID       bool
	IsCFF2      bool
	NumRegions  int // CFF2 only; 0 for the default instance
}

// NumGlyphs returns the number of glyphs addressable by CharStrings.
func (f *Font) NumGlyphs() int {
	return len(f.CharStrings)
}

func (f *Font) privateFor(gid uint16) *PrivateInfo {
	idx := 0
	if f.FDSelect != nil {
		idx = f.FDSelect(gid)
	}
	if idx < 0 || idx >= len(f.Private) {
		return &PrivateInfo{}
	}
	return f.Private[idx]
}

// Decode parses a CFF1 font program. The "CFF " table's raw bytes are
// passed in full, starting at the header.
func Decode(data []byte) (*Font, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("cff: input too small")
	}
	hdrSize := data[2]
	if int(hdrSize) > len(data) {
		return nil, fmt.Errorf("cff: header size out of range")
	}
	r := bytereader.New(data)
	if err := r.SeekPos(int(hdrSize)); err != nil {
		return nil, err
	}

	if _, err := readIndex(r); err != nil { // Name INDEX, unused
		return nil, fmt.Errorf("cff: name index: %w", err)
	}
	topDicts, err := readIndex(r)
	if err != nil {
		return nil, fmt.Errorf("cff: top dict index: %w", err)
	}
	if len(topDicts) != 1 {
		return nil, fmt.Errorf("cff: expected exactly one top dict, got %d", len(topDicts))
	}
	stringIndex, err := readIndex(r)
	if err != nil {
		return nil, fmt.Errorf("cff: string index: %w", err)
	}
	globalSubrs, err := readIndex(r)
	if err != nil {
		return nil, fmt.Errorf("cff: global subr index: %w", err)
	}

	strs := &cffStrings{extra: stringIndex}
	top, err := decodeDict(topDicts[0], strs)
	if err != nil {
		return nil, fmt.Errorf("cff: top dict: %w", err)
	}

	charStringsOff, ok := top.getInt(opCharStrings, -1)
	if !ok || charStringsOff < 0 || int(charStringsOff) >= len(data) {
		return nil, fmt.Errorf("cff: missing or invalid CharStrings offset")
	}
	csr := bytereader.New(data)
	if err := csr.SeekPos(int(charStringsOff)); err != nil {
		return nil, err
	}
	charStrings, err := readIndex(csr)
	if err != nil {
		return nil, fmt.Errorf("cff: charstrings index: %w", err)
	}
	numGlyphs := len(charStrings)

	f := &Font{
		CharStrings: charStrings,
		GlobalSubrs: globalSubrs,
	}

	if _, isCID := top[opROS]; isCID {
		f.IsCID = true

		fdArrayOff, ok := top.getInt(opFDArray, -1)
		if !ok || fdArrayOff < 0 || int(fdArrayOff) >= len(data) {
			return nil, fmt.Errorf("cff: CID font missing FDArray")
		}
		far := bytereader.New(data)
		if err := far.SeekPos(int(fdArrayOff)); err != nil {
			return nil, err
		}
		fdDicts, err := readIndex(far)
		if err != nil {
			return nil, fmt.Errorf("cff: FDArray: %w", err)
		}
		for _, blob := range fdDicts {
			fd, err := decodeDict(blob, strs)
			if err != nil {
				return nil, fmt.Errorf("cff: font dict: %w", err)
			}
			priv, err := readPrivate(data, fd, false)
			if err != nil {
				return nil, fmt.Errorf("cff: private dict: %w", err)
			}
			f.Private = append(f.Private, priv)
		}

		fdSelectOff, ok := top.getInt(opFDSelect, -1)
		if !ok || fdSelectOff < 0 || int(fdSelectOff) >= len(data) {
			return nil, fmt.Errorf("cff: CID font missing FDSelect")
		}
		fsr := bytereader.New(data)
		if err := fsr.SeekPos(int(fdSelectOff)); err != nil {
			return nil, err
		}
		sel, err := readFDSelect(fsr, numGlyphs, len(f.Private))
		if err != nil {
			return nil, fmt.Errorf("cff: fdselect: %w", err)
		}
		f.FDSelect = sel
	} else {
		priv, err := readPrivate(data, top, false)
		if err != nil {
			return nil, fmt.Errorf("cff: private dict: %w", err)
		}
		f.Private = []*PrivateInfo{priv}
	}

	return f, nil
}

// DecodeCFF2 parses a CFF2 font program (the "CFF2" table's raw
// bytes). CFF2 CharStrings carry no width prefix; DefaultWidthX and
// NominalWidthX are always zero.
func DecodeCFF2(data []byte) (*Font, error) {
	if len(data) < 5 {
		return nil, fmt.Errorf("cff2: input too small")
	}
	hdrSize := data[2]
	topDictLength := uint16(data[3])<<8 | uint16(data[4])
	if int(hdrSize) > len(data) || int(hdrSize)+int(topDictLength) > len(data) {
		return nil, fmt.Errorf("cff2: header/top dict size out of range")
	}

	topDictBytes := data[hdrSize : int(hdrSize)+int(topDictLength)]
	strs := &cffStrings{}
	top, err := decodeDict(topDictBytes, strs)
	if err != nil {
		return nil, fmt.Errorf("cff2: top dict: %w", err)
	}

	r := bytereader.New(data)
	if err := r.SeekPos(int(hdrSize) + int(topDictLength)); err != nil {
		return nil, err
	}
	globalSubrs, err := readIndex2(r)
	if err != nil {
		return nil, fmt.Errorf("cff2: global subr index: %w", err)
	}

	charStringsOff, ok := top.getInt(opCharStrings, -1)
	if !ok || charStringsOff < 0 || int(charStringsOff) >= len(data) {
		return nil, fmt.Errorf("cff2: missing or invalid CharStrings offset")
	}
	csr := bytereader.New(data)
	if err := csr.SeekPos(int(charStringsOff)); err != nil {
		return nil, err
	}
	charStrings, err := readIndex2(csr)
	if err != nil {
		return nil, fmt.Errorf("cff2: charstrings index: %w", err)
	}
	numGlyphs := len(charStrings)

	f := &Font{
		CharStrings: charStrings,
		GlobalSubrs: globalSubrs,
		IsCFF2:      true,
	}

	if vstoreOff, ok := top.getInt(opVStore, -1); ok && vstoreOff >= 0 && int(vstoreOff) < len(data) {
		numRegions, err := readItemVariationStoreRegionCount(data[vstoreOff:])
		if err != nil {
			return nil, fmt.Errorf("cff2: vstore: %w", err)
		}
		f.NumRegions = numRegions
	}

	fdArrayOff, ok := top.getInt(opFDArray, -1)
	if !ok || fdArrayOff < 0 || int(fdArrayOff) >= len(data) {
		return nil, fmt.Errorf("cff2: missing FDArray")
	}
	far := bytereader.New(data)
	if err := far.SeekPos(int(fdArrayOff)); err != nil {
		return nil, err
	}
	fdDicts, err := readIndex2(far)
	if err != nil {
		return nil, fmt.Errorf("cff2: FDArray: %w", err)
	}
	for _, blob := range fdDicts {
		fd, err := decodeDict(blob, strs)
		if err != nil {
			return nil, fmt.Errorf("cff2: font dict: %w", err)
		}
		priv, err := readPrivate(data, fd, true)
		if err != nil {
			return nil, fmt.Errorf("cff2: private dict: %w", err)
		}
		priv.DefaultWidthX, priv.NominalWidthX = 0, 0
		f.Private = append(f.Private, priv)
	}

	if fdSelectOff, ok := top.getInt(opFDSelect, -1); ok && fdSelectOff >= 0 && int(fdSelectOff) < len(data) {
		fsr := bytereader.New(data)
		if err := fsr.SeekPos(int(fdSelectOff)); err != nil {
			return nil, err
		}
		sel, err := readFDSelect(fsr, numGlyphs, len(f.Private))
		if err != nil {
			return nil, fmt.Errorf("cff2: fdselect: %w", err)
		}
		f.FDSelect = sel
	}

	return f, nil
}

func readPrivate(fontData []byte, dict cffDict, wideCount bool) (*PrivateInfo, error) {
	priv := &PrivateInfo{}

	size, offset, ok := dict.getPair(opPrivate)
	if !ok {
		return priv, nil
	}
	if offset < 0 || int(offset)+int(size) > len(fontData) {
		return nil, fmt.Errorf("private dict offset out of range")
	}
	privDict, err := decodeDict(fontData[offset:offset+size], &cffStrings{})
	if err != nil {
		return nil, err
	}

	priv.DefaultWidthX, _ = privDict.getInt(opDefaultWidthX, 0)
	priv.NominalWidthX, _ = privDict.getInt(opNominalWidthX, 0)

	if subrsRel, ok := privDict.getInt(opSubrs, -1); ok && subrsRel >= 0 {
		abs := offset + subrsRel
		if abs < 0 || int(abs) >= len(fontData) {
			return nil, fmt.Errorf("local subrs offset out of range")
		}
		r := bytereader.New(fontData)
		if err := r.SeekPos(int(abs)); err != nil {
			return nil, err
		}
		subrs, err := readIndexCount(r, wideCount)
		if err != nil {
			return nil, fmt.Errorf("local subrs: %w", err)
		}
		priv.LocalSubrs = subrs
	}

	return priv, nil
}

func readItemVariationStoreRegionCount(data []byte) (int, error) {
	if len(data) < 8 {
		return 0, fmt.Errorf("item variation store too short")
	}
	r := bytereader.New(data)
	if _, err := r.Uint16(); err != nil { // format, always 1
		return 0, err
	}
	regionListOffset, err := r.Uint32()
	if err != nil {
		return 0, err
	}
	if int(regionListOffset)+4 > len(data) {
		return 0, fmt.Errorf("variation region list offset out of range")
	}
	rl := bytereader.New(data[regionListOffset:])
	if _, err := rl.Uint16(); err != nil { // axisCount
		return 0, err
	}
	regionCount, err := rl.Uint16()
	if err != nil {
		return 0, err
	}
	return int(regionCount), nil
}
