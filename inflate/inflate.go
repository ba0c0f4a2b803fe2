// Package inflate implements RFC 1951 raw DEFLATE decompression.
//
// This is a from-scratch decoder rather than a wrapper around
// compress/flate: the WOFF container format specifies the exact
// per-table origLength up front, so the decoder here takes that size
// from the caller, pre-allocates its output buffer to it and stops
// decoding once it is reached, which is the behavior the container
// unwrapper in package woff depends on.
package inflate

import "fmt"

// codeLengthOrder is the permutation used to read the code-length
// alphabet's own code lengths in a dynamic Huffman block.
var codeLengthOrder = [19]int{16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15}

// lengthBase and lengthExtra give, for length codes 257..285
// (index 0..28), the base length and number of extra bits.
var lengthBase = [29]int{3, 4, 5, 6, 7, 8, 9, 10, 11, 13, 15, 17, 19, 23, 27, 31, 35, 43, 51, 59, 67, 83, 99, 115, 131, 163, 195, 227, 258}
var lengthExtra = [29]int{0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 0}

// distBase and distExtra give, for distance codes 0..29, the base
// distance and number of extra bits.
var distBase = [30]int{1, 2, 3, 4, 5, 7, 9, 13, 17, 25, 33, 49, 65, 97, 129, 193, 257, 385, 513, 769, 1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577}
var distExtra = [30]int{0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7, 8, 8, 9, 9, 10, 10, 11, 11, 12, 12, 13, 13}

// bitReader reads individual bits LSB-first, as DEFLATE requires.
type bitReader struct {
	data []byte
	pos  int // byte position
	bit  uint
	acc  uint32
	nacc uint
}

func newBitReader(data []byte) *bitReader {
	return &bitReader{data: data}
}

func (r *bitReader) readBits(n uint) (uint32, error) {
	for r.nacc < n {
		if r.pos >= len(r.data) {
			return 0, fmt.Errorf("inflate: unexpected end of input")
		}
		r.acc |= uint32(r.data[r.pos]) << r.nacc
		r.pos++
		r.nacc += 8
	}
	v := r.acc & ((1 << n) - 1)
	r.acc >>= n
	r.nacc -= n
	return v, nil
}

func (r *bitReader) alignToByte() {
	r.acc = 0
	r.nacc = 0
}

// huffTree is a canonical Huffman decoder built from a list of code
// lengths, using the standard bit-reversed-canonical-code construction.
type huffTree struct {
	// counts[l] is the number of codes of length l.
	counts [16]int
	// symbols lists symbols in order of (length, original index).
	symbols []int
}

func buildHuffTree(lengths []int) *huffTree {
	h := &huffTree{}
	for _, l := range lengths {
		h.counts[l]++
	}
	h.counts[0] = 0

	offsets := make([]int, 16)
	for i := 1; i < 16; i++ {
		offsets[i] = offsets[i-1] + h.counts[i-1]
	}
	h.symbols = make([]int, len(lengths))
	used := make([]int, 16)
	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		h.symbols[offsets[l]+used[l]] = sym
		used[l]++
	}
	return h
}

// decode reads one symbol using the canonical Huffman algorithm:
// grow the code one bit at a time, comparing against the count of
// codes at each length.
func (h *huffTree) decode(r *bitReader) (int, error) {
	var code, first, index int
	for l := 1; l < 16; l++ {
		bit, err := r.readBits(1)
		if err != nil {
			return 0, err
		}
		code |= int(bit)
		count := h.counts[l]
		if code-first < count {
			return h.symbols[index+(code-first)], nil
		}
		index += count
		first += count
		first <<= 1
		code <<= 1
	}
	return 0, fmt.Errorf("inflate: invalid Huffman code")
}

var fixedLitTree *huffTree
var fixedDistTree *huffTree

func init() {
	lengths := make([]int, 288)
	for i := 0; i < 144; i++ {
		lengths[i] = 8
	}
	for i := 144; i < 256; i++ {
		lengths[i] = 9
	}
	for i := 256; i < 280; i++ {
		lengths[i] = 7
	}
	for i := 280; i < 288; i++ {
		lengths[i] = 8
	}
	fixedLitTree = buildHuffTree(lengths)

	distLengths := make([]int, 30)
	for i := range distLengths {
		distLengths[i] = 5
	}
	fixedDistTree = buildHuffTree(distLengths)
}

// Inflate decompresses a raw RFC 1951 DEFLATE stream. outSize, when
// nonzero, bounds the decompressed output: decoding stops once that
// many bytes have been produced, and an oversized claim in a hostile
// stream cannot force an unbounded allocation.
func Inflate(data []byte, outSize int) ([]byte, error) {
	r := newBitReader(data)
	var out []byte
	if outSize > 0 {
		out = make([]byte, 0, outSize)
	}

	for {
		bfinal, err := r.readBits(1)
		if err != nil {
			return nil, err
		}
		btype, err := r.readBits(2)
		if err != nil {
			return nil, err
		}

		switch btype {
		case 0: // stored
			r.alignToByte()
			if r.pos+4 > len(r.data) {
				return nil, fmt.Errorf("inflate: truncated stored block header")
			}
			length := int(r.data[r.pos]) | int(r.data[r.pos+1])<<8
			r.pos += 4 // LEN and ~LEN
			if r.pos+length > len(r.data) {
				return nil, fmt.Errorf("inflate: truncated stored block")
			}
			out = append(out, r.data[r.pos:r.pos+length]...)
			r.pos += length

		case 1: // fixed Huffman
			if err := inflateBlock(r, fixedLitTree, fixedDistTree, &out, outSize); err != nil {
				return nil, err
			}

		case 2: // dynamic Huffman
			litTree, distTree, err := readDynamicTrees(r)
			if err != nil {
				return nil, err
			}
			if err := inflateBlock(r, litTree, distTree, &out, outSize); err != nil {
				return nil, err
			}

		default:
			return nil, fmt.Errorf("inflate: invalid block type 3")
		}

		if outSize > 0 && len(out) >= outSize {
			return out[:outSize], nil
		}
		if bfinal == 1 {
			break
		}
	}

	if outSize > 0 && len(out) != outSize {
		return nil, fmt.Errorf("inflate: produced %d bytes, expected %d", len(out), outSize)
	}
	return out, nil
}

func readDynamicTrees(r *bitReader) (lit, dist *huffTree, err error) {
	hlit, err := r.readBits(5)
	if err != nil {
		return nil, nil, err
	}
	hdist, err := r.readBits(5)
	if err != nil {
		return nil, nil, err
	}
	hclen, err := r.readBits(4)
	if err != nil {
		return nil, nil, err
	}

	nLit := int(hlit) + 257
	nDist := int(hdist) + 1
	nCLen := int(hclen) + 4

	clLengths := make([]int, 19)
	for i := 0; i < nCLen; i++ {
		v, err := r.readBits(3)
		if err != nil {
			return nil, nil, err
		}
		clLengths[codeLengthOrder[i]] = int(v)
	}
	clTree := buildHuffTree(clLengths)

	allLengths := make([]int, 0, nLit+nDist)
	for len(allLengths) < nLit+nDist {
		sym, err := clTree.decode(r)
		if err != nil {
			return nil, nil, err
		}
		switch {
		case sym < 16:
			allLengths = append(allLengths, sym)
		case sym == 16:
			if len(allLengths) == 0 {
				return nil, nil, fmt.Errorf("inflate: repeat code with no previous length")
			}
			rep, err := r.readBits(2)
			if err != nil {
				return nil, nil, err
			}
			prev := allLengths[len(allLengths)-1]
			for i := 0; i < int(rep)+3; i++ {
				allLengths = append(allLengths, prev)
			}
		case sym == 17:
			rep, err := r.readBits(3)
			if err != nil {
				return nil, nil, err
			}
			for i := 0; i < int(rep)+3; i++ {
				allLengths = append(allLengths, 0)
			}
		case sym == 18:
			rep, err := r.readBits(7)
			if err != nil {
				return nil, nil, err
			}
			for i := 0; i < int(rep)+11; i++ {
				allLengths = append(allLengths, 0)
			}
		default:
			return nil, nil, fmt.Errorf("inflate: invalid code-length symbol %d", sym)
		}
	}
	if len(allLengths) != nLit+nDist {
		return nil, nil, fmt.Errorf("inflate: code-length run overshoots literal/distance totals")
	}

	lit = buildHuffTree(allLengths[:nLit])
	dist = buildHuffTree(allLengths[nLit:])
	return lit, dist, nil
}

func inflateBlock(r *bitReader, litTree, distTree *huffTree, out *[]byte, limit int) error {
	for {
		if limit > 0 && len(*out) >= limit {
			return nil
		}
		sym, err := litTree.decode(r)
		if err != nil {
			return err
		}
		switch {
		case sym < 256:
			*out = append(*out, byte(sym))
		case sym == 256:
			return nil
		case sym <= 285:
			idx := sym - 257
			extra, err := r.readBits(uint(lengthExtra[idx]))
			if err != nil {
				return err
			}
			length := lengthBase[idx] + int(extra)

			distSym, err := distTree.decode(r)
			if err != nil {
				return err
			}
			if distSym >= len(distBase) {
				return fmt.Errorf("inflate: invalid distance symbol %d", distSym)
			}
			distExtraBits, err := r.readBits(uint(distExtra[distSym]))
			if err != nil {
				return err
			}
			distance := distBase[distSym] + int(distExtraBits)

			if distance > len(*out) {
				return fmt.Errorf("inflate: back-reference distance %d exceeds output so far (%d)", distance, len(*out))
			}
			start := len(*out) - distance
			for i := 0; i < length; i++ {
				*out = append(*out, (*out)[start+i])
			}
		default:
			return fmt.Errorf("inflate: invalid literal/length symbol %d", sym)
		}
	}
}
