// Command typefacedump reads a single font file and writes its parsed
// typeface record to stdout as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"seehuhn.de/go/typeface/typeface"
)

func main() {
	restrict := flag.Bool("restrict", false, "set Options.RestrictCharSet (does not change the output; -chars alone limits it)")
	chars := flag.String("chars", "", "characters to report (default: every mapped codepoint)")
	segments := flag.Int("segments", 0, "set Options.CurveSegments (does not change the JSON record)")
	reverse := flag.Bool("reverse-winding", false, "set Options.ReverseWinding (does not change the JSON record)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [options] font-file\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading font file: %v\n", err)
		os.Exit(1)
	}

	opts := typeface.Options{
		RestrictCharSet: *restrict,
		CurveSegments:   *segments,
		ReverseWinding:  *reverse,
	}
	if *chars != "" {
		opts.Characters = []rune(*chars)
	}

	rec, err := typeface.Parse(data, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing font: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}
