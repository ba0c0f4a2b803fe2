package typeface

import "fmt"

// InputTooSmallError indicates the input buffer was too short to hold
// a valid SFNT/WOFF header, or a required table was truncated.
type InputTooSmallError struct {
	Reason string
}

func (err *InputTooSmallError) Error() string {
	return "typeface: input too small: " + err.Reason
}

func inputTooSmall(reason string) error {
	return &InputTooSmallError{reason}
}

// UnsupportedFormatError indicates a container or table format this
// module does not implement: WOFF2, or an SFNT carrying neither
// "glyf" nor "CFF"/"CFF2".
type UnsupportedFormatError struct {
	Reason string
}

func (err *UnsupportedFormatError) Error() string {
	return "typeface: unsupported format: " + err.Reason
}

func unsupportedFormat(reason string) error {
	return &UnsupportedFormatError{reason}
}

// CorruptContainerError indicates a WOFF checksum/length mismatch or
// an inflate failure while unwrapping the container.
type CorruptContainerError struct {
	Reason string
}

func (err *CorruptContainerError) Error() string {
	return "typeface: corrupt container: " + err.Reason
}

func corruptContainer(reason string) error {
	return &CorruptContainerError{reason}
}

// MissingTableError indicates a table required for parsing to proceed
// is absent from the table directory.
type MissingTableError struct {
	Tag string
}

func (err *MissingTableError) Error() string {
	return "typeface: missing required table " + err.Tag
}

func missingTable(tag string) error {
	return &MissingTableError{tag}
}

// UnsupportedCmapError indicates the cmap subtable this module
// selected has a format it does not decode.
type UnsupportedCmapError struct {
	Format uint16
}

func (err *UnsupportedCmapError) Error() string {
	return fmt.Sprintf("typeface: unsupported cmap format %d", err.Format)
}

// CompositeCycleError is a glyph-local error recording that a
// composite glyph's component graph contains a cycle. The orchestrator
// recovers from this per glyph rather than failing the whole parse.
type CompositeCycleError struct {
	GlyphID uint16
}

func (err *CompositeCycleError) Error() string {
	return fmt.Sprintf("typeface: glyph %d: composite glyph cycle", err.GlyphID)
}

// CharStringOverflowError is a glyph-local error recording that a CFF
// CharString exceeded the operand or call-stack depth limits.
type CharStringOverflowError struct {
	GlyphID uint16
}

func (err *CharStringOverflowError) Error() string {
	return fmt.Sprintf("typeface: glyph %d: charstring stack or call depth overflow", err.GlyphID)
}
