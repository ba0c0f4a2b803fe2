package cff

import "fmt"

// dictOp identifies a CFF DICT operator: one-byte operators use their
// byte value directly (0-21, 24-25); two-byte operators (12 <b>) are encoded
// as 1200+b to keep a single numeric key space.
type dictOp int

const (
	opCharStrings   dictOp = 17
	opPrivate       dictOp = 18
	opSubrs         dictOp = 19
	opDefaultWidthX dictOp = 20
	opNominalWidthX dictOp = 21
	opROS           dictOp = 1230 // 12 30
	opFDArray       dictOp = 1236 // 12 36
	opFDSelect      dictOp = 1237 // 12 37
	opVStore        dictOp = 24   // CFF2 top dict only
)

// cffDict maps each operator that appeared in a DICT to its operand
// stack at the point the operator was flushed.
type cffDict map[dictOp][]float64

// getInt returns the single integer operand for op, or def if op was
// not present.
func (d cffDict) getInt(op dictOp, def int32) (int32, bool) {
	vals, ok := d[op]
	if !ok || len(vals) == 0 {
		return def, false
	}
	return int32(vals[len(vals)-1]), true
}

// getPair returns a two-operand (size, offset) entry such as Private.
func (d cffDict) getPair(op dictOp) (int32, int32, bool) {
	vals, ok := d[op]
	if !ok || len(vals) != 2 {
		return 0, 0, false
	}
	return int32(vals[0]), int32(vals[1]), true
}

// cffStrings carries the extra strings from the font's String INDEX.
// decodeDict accepts it but does not consult it: SID operands are kept
// as plain numbers, since no decoded field requires the resolved string.
type cffStrings struct {
	extra [][]byte
}

func decodeDict(buf []byte, _ *cffStrings) (cffDict, error) {
	d := make(cffDict)
	var stack []float64

	flush := func(op dictOp) {
		d[op] = stack
		stack = nil
	}

	i := 0
	for i < len(buf) {
		b0 := buf[i]
		switch {
		case b0 <= 21 || b0 == 24 || b0 == 25:
			if b0 == 12 {
				if i+1 >= len(buf) {
					return nil, fmt.Errorf("cff: dict truncated escape operator")
				}
				flush(dictOp(1200) + dictOp(buf[i+1]))
				i += 2
			} else {
				flush(dictOp(b0))
				i++
			}
		case b0 == 28:
			if i+2 >= len(buf) {
				return nil, fmt.Errorf("cff: dict truncated int16 operand")
			}
			v := int16(uint16(buf[i+1])<<8 | uint16(buf[i+2]))
			stack = append(stack, float64(v))
			i += 3
		case b0 == 29:
			if i+4 >= len(buf) {
				return nil, fmt.Errorf("cff: dict truncated int32 operand")
			}
			v := int32(uint32(buf[i+1])<<24 | uint32(buf[i+2])<<16 | uint32(buf[i+3])<<8 | uint32(buf[i+4]))
			stack = append(stack, float64(v))
			i += 5
		case b0 == 30:
			rest, v, err := decodeDictReal(buf[i+1:])
			if err != nil {
				return nil, err
			}
			stack = append(stack, v)
			i += 1 + len(rest)
		case b0 >= 32 && b0 <= 246:
			stack = append(stack, float64(int(b0)-139))
			i++
		case b0 >= 247 && b0 <= 250:
			if i+1 >= len(buf) {
				return nil, fmt.Errorf("cff: dict truncated operand")
			}
			stack = append(stack, float64((int(b0)-247)*256+int(buf[i+1])+108))
			i += 2
		case b0 >= 251 && b0 <= 254:
			if i+1 >= len(buf) {
				return nil, fmt.Errorf("cff: dict truncated operand")
			}
			stack = append(stack, float64(-(int(b0)-251)*256-int(buf[i+1])-108))
			i += 2
		default:
			return nil, fmt.Errorf("cff: dict operand byte %d reserved", b0)
		}
	}
	return d, nil
}

// decodeDictReal decodes a real-number operand encoded as packed BCD
// nibbles, returning the consumed bytes (not including the leading
// 0x1e marker, already stripped by the caller) and the decoded value.
func decodeDictReal(buf []byte) ([]byte, float64, error) {
	var text []byte
	for i, b := range buf {
		for _, nibble := range [2]byte{b >> 4, b & 0x0f} {
			switch nibble {
			case 0x0, 0x1, 0x2, 0x3, 0x4, 0x5, 0x6, 0x7, 0x8, 0x9:
				text = append(text, '0'+nibble)
			case 0xa:
				text = append(text, '.')
			case 0xb:
				text = append(text, 'e')
			case 0xc:
				text = append(text, 'e', '-')
			case 0xe:
				text = append(text, '-')
			case 0xf:
				v, err := parseFloatBytes(text)
				if err != nil {
					return nil, 0, err
				}
				return buf[:i+1], v, nil
			default:
				return nil, 0, fmt.Errorf("cff: dict real operand has reserved nibble %d", nibble)
			}
		}
	}
	return nil, 0, fmt.Errorf("cff: dict real operand missing terminator nibble")
}

func parseFloatBytes(b []byte) (float64, error) {
	if len(b) == 0 {
		return 0, nil
	}
	var v float64
	neg := false
	i := 0
	if b[i] == '-' {
		neg = true
		i++
	}
	for ; i < len(b) && b[i] >= '0' && b[i] <= '9'; i++ {
		v = v*10 + float64(b[i]-'0')
	}
	if i < len(b) && b[i] == '.' {
		i++
		frac := 0.1
		for ; i < len(b) && b[i] >= '0' && b[i] <= '9'; i++ {
			v += float64(b[i]-'0') * frac
			frac /= 10
		}
	}
	if i < len(b) && b[i] == 'e' {
		i++
		expNeg := false
		if i < len(b) && b[i] == '-' {
			expNeg = true
			i++
		}
		exp := 0
		for ; i < len(b) && b[i] >= '0' && b[i] <= '9'; i++ {
			exp = exp*10 + int(b[i]-'0')
		}
		for ; exp > 0; exp-- {
			if expNeg {
				v /= 10
			} else {
				v *= 10
			}
		}
	}
	if neg {
		v = -v
	}
	return v, nil
}
