// Package typeface drives the whole font-to-record pipeline: it
// unwraps the container, parses the SFNT table directory and the
// metadata/cmap/outline/kerning tables, and assembles a language-
// neutral Record describing each requested character's advance width
// and outline command string, plus global metrics and kerning.
package typeface

import (
	"sort"

	"seehuhn.de/go/postscript/funit"

	"seehuhn.de/go/typeface/cff"
	"seehuhn.de/go/typeface/cmap"
	"seehuhn.de/go/typeface/glyf"
	"seehuhn.de/go/typeface/gpos"
	"seehuhn.de/go/typeface/head"
	"seehuhn.de/go/typeface/hmtx"
	"seehuhn.de/go/typeface/kern"
	"seehuhn.de/go/typeface/name"
	"seehuhn.de/go/typeface/os2"
	"seehuhn.de/go/typeface/post"
	"seehuhn.de/go/typeface/table"
	"seehuhn.de/go/typeface/woff"
)

// Options controls what Parse includes in the Record, and parameters
// a later shape.Build call needs from the same invocation.
type Options struct {
	// Characters restricts the output to these codepoints. A nil or
	// empty slice means "all codepoints the font's cmap maps".
	Characters []rune

	// RestrictCharSet is carried for forward compatibility; with no
	// Characters set, its value does not currently change behavior.
	RestrictCharSet bool

	// CurveSegments and ReverseWinding are not used by Parse itself;
	// they are carried here so a single Options value configures both
	// the parser and a later shape.Build call over its Record.
	CurveSegments  int
	ReverseWinding bool
}

// outlineReader abstracts over the TrueType and CFF outline sources
// so the per-character loop does not need to branch on format.
type outlineReader interface {
	lower(gid uint16) (string, error)
}

type glyfReader struct{ t *glyf.Table }

func (r glyfReader) lower(gid uint16) (string, error) {
	o, err := r.t.Outline(gid)
	if err != nil {
		return "", err
	}
	return glyf.Lower(o), nil
}

type cffReader struct{ f *cff.Font }

func (r cffReader) lower(gid uint16) (string, error) {
	g, err := r.f.Run(gid)
	if err != nil {
		return "", err
	}
	return cff.Lower(g), nil
}

// Parse converts a TrueType, OpenType (CFF or CFF2), or WOFF-wrapped
// font binary into a Record.
func Parse(data []byte, opts Options) (*Record, error) {
	sfntData := data
	if kind := woff.Sniff(data); kind != "" {
		if kind == "woff2" {
			return nil, unsupportedFormat("WOFF2 requires Brotli, which is unsupported")
		}
		unwrapped, err := woff.Unwrap(data)
		if err != nil {
			return nil, corruptContainer(err.Error())
		}
		sfntData = unwrapped
	}
	if len(sfntData) < 12 {
		return nil, inputTooSmall("buffer too short for an sfnt header")
	}

	dir, err := table.Parse(sfntData)
	if err != nil {
		return nil, inputTooSmall(err.Error())
	}

	headData := dir.Bytes("head")
	if headData == nil {
		return nil, missingTable("head")
	}
	headInfo, err := head.Read(headData)
	if err != nil {
		return nil, err
	}

	maxpData := dir.Bytes("maxp")
	if maxpData == nil {
		return nil, missingTable("maxp")
	}
	numGlyphs, err := table.ReadMaxp(maxpData)
	if err != nil {
		return nil, err
	}

	hheaData, hmtxData := dir.Bytes("hhea"), dir.Bytes("hmtx")
	if hheaData == nil {
		return nil, missingTable("hhea")
	}
	if hmtxData == nil {
		return nil, missingTable("hmtx")
	}
	hm, err := hmtx.Decode(hheaData, hmtxData, numGlyphs)
	if err != nil {
		return nil, err
	}

	var nameInfo *name.Info
	if nameData := dir.Bytes("name"); nameData != nil {
		nameInfo, _ = name.Decode(nameData) // optional; ignore decode errors
	}

	var os2Info *os2.Info
	if os2Data := dir.Bytes("OS/2"); os2Data != nil {
		os2Info, _ = os2.Read(os2Data)
	}

	underlinePosition := funit.Int16(int16(-0.1 * float64(headInfo.UnitsPerEm)))
	underlineThickness := funit.Int16(int16(0.05 * float64(headInfo.UnitsPerEm)))
	if postData := dir.Bytes("post"); postData != nil {
		if postInfo, err := post.Read(postData); err == nil {
			underlinePosition = funit.Int16(postInfo.UnderlinePosition)
			underlineThickness = funit.Int16(postInfo.UnderlineThickness)
		}
	}

	cmapData := dir.Bytes("cmap")
	if cmapData == nil {
		return nil, missingTable("cmap")
	}
	codepointToGID, err := cmap.Decode(cmapData)
	if err != nil {
		return nil, err
	}

	var reader outlineReader
	var formatName string
	switch {
	case dir.Has("glyf") && dir.Has("loca"):
		glyfTable, err := glyf.Decode(dir.Bytes("loca"), dir.Bytes("glyf"), numGlyphs, headInfo.IndexToLocLong)
		if err != nil {
			return nil, err
		}
		reader = glyfReader{glyfTable}
		formatName = "TrueType"
	case dir.Has("CFF2"):
		cffFont, err := cff.DecodeCFF2(dir.Bytes("CFF2"))
		if err != nil {
			return nil, err
		}
		reader = cffReader{cffFont}
		formatName = "CFF2/OTF"
	case dir.Has("CFF"):
		cffFont, err := cff.Decode(dir.Bytes("CFF"))
		if err != nil {
			return nil, err
		}
		reader = cffReader{cffFont}
		formatName = "CFF/OTF"
	default:
		return nil, unsupportedFormat("sfnt carries neither \"glyf\" nor \"CFF\"/\"CFF2\"")
	}

	glyphToChar := reverseCmap(codepointToGID)
	kerningByGID := extractKerning(dir)

	characters := opts.Characters
	if len(characters) == 0 {
		characters = make([]rune, 0, len(codepointToGID))
		for c := range codepointToGID {
			characters = append(characters, c)
		}
		sort.Slice(characters, func(i, j int) bool { return characters[i] < characters[j] })
	}

	glyphs := make(map[string]GlyphEntry, len(characters))
	var convertedGlyphs, errorGlyphs int
	for _, c := range characters {
		gid, ok := codepointToGID[c]
		if !ok || gid == 0 {
			continue
		}

		var advance int
		if int(gid) < len(hm.Widths) {
			advance = int(hm.Widths[gid])
		}

		cmds, err := reader.lower(gid)
		if err != nil {
			errorGlyphs++
			cmds = ""
		} else {
			convertedGlyphs++
		}

		glyphs[string(c)] = GlyphEntry{HA: advance, O: cmds}
	}

	kerning := projectKerning(kerningByGID, glyphToChar, glyphs)

	ascender := funit.Int16(hm.Ascent)
	descender := funit.Int16(hm.Descent)
	if ascender == 0 && descender == 0 && os2Info != nil {
		ascender = funit.Int16(os2Info.TypoAscender)
		descender = funit.Int16(os2Info.TypoDescender)
	}

	bbox := funit.Rect16{
		LLx: funit.Int16(headInfo.XMin), LLy: funit.Int16(headInfo.YMin),
		URx: funit.Int16(headInfo.XMax), URy: funit.Int16(headInfo.YMax),
	}

	record := &Record{
		Glyphs:             glyphs,
		FamilyName:         get(nameInfo, name.IDFamily),
		Ascender:           int(ascender),
		Descender:          int(descender),
		UnderlinePosition:  int(underlinePosition),
		UnderlineThickness: int(underlineThickness),
		BoundingBox: BoundingBox{
			XMin: int(bbox.LLx), YMin: int(bbox.LLy),
			XMax: int(bbox.URx), YMax: int(bbox.URy),
		},
		Resolution: int(headInfo.UnitsPerEm),
		Kerning:    kerning,
		OriginalFontInformation: FontInfo{
			Format:         formatName,
			FontFamily:     get(nameInfo, name.IDFamily),
			FontSubfamily:  get(nameInfo, name.IDSubfamily),
			FullName:       get(nameInfo, name.IDFullName),
			PostScriptName: get(nameInfo, name.IDPostScriptName),
			Version:        get(nameInfo, name.IDVersion),
			Copyright:      get(nameInfo, name.IDCopyright),
			Designer:       get(nameInfo, name.IDDesigner),
		},
		Meta: Meta{
			ConvertedGlyphs: convertedGlyphs,
			ErrorGlyphs:     errorGlyphs,
			TotalMapped:     len(codepointToGID),
			Type:            formatName,
		},
	}
	return record, nil
}

func get(info *name.Info, id uint16) string {
	if info == nil {
		return ""
	}
	return info.Get(id)
}

// reverseCmap builds glyph-id -> codepoint, preferring the smallest
// codepoint when several map to the same glyph.
func reverseCmap(codepointToGID map[rune]uint16) map[uint16]rune {
	codepoints := make([]rune, 0, len(codepointToGID))
	for c := range codepointToGID {
		codepoints = append(codepoints, c)
	}
	sort.Slice(codepoints, func(i, j int) bool { return codepoints[i] < codepoints[j] })

	reverse := make(map[uint16]rune, len(codepoints))
	for _, c := range codepoints {
		gid := codepointToGID[c]
		if gid == 0 {
			continue
		}
		if _, ok := reverse[gid]; !ok {
			reverse[gid] = c
		}
	}
	return reverse
}

// extractKerning prefers "GPOS" PairPos data over the legacy "kern"
// table, per spec.md's preference order; either source's errors are
// silently dropped rather than failing the parse.
func extractKerning(dir *table.Directory) map[gpos.Pair]int16 {
	if gposData := dir.Bytes("GPOS"); gposData != nil {
		if pairs, err := gpos.ExtractKerning(gposData); err == nil && len(pairs) > 0 {
			return pairs
		}
	}
	if kernData := dir.Bytes("kern"); kernData != nil {
		if pairs, err := kern.ExtractKerning(kernData); err == nil {
			result := make(map[gpos.Pair]int16, len(pairs))
			for p, v := range pairs {
				result[gpos.Pair{Left: p.Left, Right: p.Right}] = v
			}
			return result
		}
	}
	return nil
}

// projectKerning maps a glyph-id kerning table to the codepoint pairs
// that survive in the output, dropping entries whose characters are
// not actually present in glyphs.
func projectKerning(byGID map[gpos.Pair]int16, glyphToChar map[uint16]rune, glyphs map[string]GlyphEntry) map[string]map[string]int {
	if len(byGID) == 0 {
		return nil
	}
	kerning := make(map[string]map[string]int)
	for pair, value := range byGID {
		if value == 0 {
			continue
		}
		c1, ok := glyphToChar[pair.Left]
		if !ok {
			continue
		}
		c2, ok := glyphToChar[pair.Right]
		if !ok {
			continue
		}
		s1, s2 := string(c1), string(c2)
		if _, ok := glyphs[s1]; !ok {
			continue
		}
		if _, ok := glyphs[s2]; !ok {
			continue
		}
		if kerning[s1] == nil {
			kerning[s1] = make(map[string]int)
		}
		kerning[s1][s2] = int(value)
	}
	if len(kerning) == 0 {
		return nil
	}
	return kerning
}
