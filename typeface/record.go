package typeface

// GlyphEntry is one character's contribution to a Record: its advance
// width and its lowered outline command string.
type GlyphEntry struct {
	HA int    `json:"ha"`
	O  string `json:"o"`
}

// BoundingBox is the font-wide glyph bounding box, in font design
// units, taken from the "head" table.
type BoundingBox struct {
	XMin int `json:"xMin"`
	YMin int `json:"yMin"`
	XMax int `json:"xMax"`
	YMax int `json:"yMax"`
}

// FontInfo carries the subset of the "name" table's strings, plus the
// detected outline format, that downstream consumers use for
// provenance display.
type FontInfo struct {
	Format         string `json:"format"`
	FontFamily     string `json:"fontFamily"`
	FontSubfamily  string `json:"fontSubfamily"`
	FullName       string `json:"fullName"`
	PostScriptName string `json:"postScriptName"`
	Version        string `json:"version"`
	Copyright      string `json:"copyright"`
	Designer       string `json:"designer"`
}

// Meta carries parse-time bookkeeping: how many requested characters
// converted cleanly, how many hit a glyph-local error, and how many
// codepoints the font's cmap maps in total.
type Meta struct {
	ConvertedGlyphs int    `json:"convertedGlyphs"`
	ErrorGlyphs     int    `json:"errorGlyphs"`
	TotalMapped     int    `json:"totalMapped"`
	Type            string `json:"type"`
}

// Record is the language-neutral typeface record produced by Parse.
// Its JSON field names are normative for downstream consumers.
type Record struct {
	Glyphs                  map[string]GlyphEntry     `json:"glyphs"`
	FamilyName              string                    `json:"familyName"`
	Ascender                int                       `json:"ascender"`
	Descender               int                       `json:"descender"`
	UnderlinePosition       int                       `json:"underlinePosition"`
	UnderlineThickness      int                       `json:"underlineThickness"`
	BoundingBox             BoundingBox               `json:"boundingBox"`
	Resolution              int                       `json:"resolution"`
	Kerning                 map[string]map[string]int `json:"kerning"`
	OriginalFontInformation FontInfo                  `json:"original_font_information"`
	Meta                    Meta                      `json:"_meta"`
}
