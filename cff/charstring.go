package cff

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Command opcodes in a decoded glyph path. cmdClose never appears in
// the lowered command string (the grammar has no explicit close
// token); it exists only to mark subpath boundaries while building Cmds.
const (
	CmdMove  byte = 'm'
	CmdLine  byte = 'l'
	CmdCubic byte = 'b'
	cmdClose byte = 0
)

// Command is one step of a decoded CFF glyph path.
type Command struct {
	Op   byte
	Args []float64
}

// Glyph is a fully interpreted CharString: its drawing commands and
// its advance width (nominalWidthX + the width operand, or
// defaultWidthX if no width operand was present).
type Glyph struct {
	Cmds  []Command
	Width int32
}

// ErrCharStringOverflow is returned when a CharString's operand stack
// or subroutine call depth exceeds the limits this interpreter
// enforces (513 operands, 10 nested calls).
var ErrCharStringOverflow = fmt.Errorf("cff: charstring stack or call depth overflow")

// Run interprets the CharString for gid and returns its decoded path.
func (f *Font) Run(gid uint16) (*Glyph, error) {
	if int(gid) >= len(f.CharStrings) {
		return nil, fmt.Errorf("cff: glyph id %d out of range", gid)
	}
	priv := f.privateFor(gid)
	m := &machine{
		global:        f.GlobalSubrs,
		local:         priv.LocalSubrs,
		nominalWidthX: priv.NominalWidthX,
		width:         priv.DefaultWidthX,
		numRegions:    f.NumRegions,
	}
	if err := m.run(f.CharStrings[gid]); err != nil {
		return nil, err
	}
	return &Glyph{Cmds: m.cmds, Width: m.width}, nil
}

// Lower converts a decoded glyph into the "m"/"l"/"b" subset of the
// command-string grammar.
func Lower(g *Glyph) string {
	var tokens []string
	for _, c := range g.Cmds {
		if c.Op == cmdClose {
			continue
		}
		tokens = append(tokens, string(c.Op))
		for _, a := range c.Args {
			tokens = append(tokens, strconv.FormatFloat(a, 'g', -1, 64))
		}
	}
	return strings.Join(tokens, " ")
}

type frame struct {
	code []byte
	ip   int
}

type machine struct {
	local, global [][]byte
	nominalWidthX int32
	numRegions    int

	stack     []float64
	frames    []frame
	transient [32]float64

	x, y      float64
	nStems    int
	haveWidth bool
	open      bool
	width     int32
	cmds      []Command
	err       error
}

func (m *machine) run(code []byte) error {
	m.frames = append(m.frames, frame{code: code})
	for len(m.frames) > 0 {
		if m.err != nil {
			return m.err
		}
		top := &m.frames[len(m.frames)-1]
		if top.ip >= len(top.code) {
			m.frames = m.frames[:len(m.frames)-1]
			continue
		}
		done, err := m.step(top)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
	if m.open {
		m.cmds = append(m.cmds, Command{Op: cmdClose})
	}
	return nil
}

// step executes a single operator or number token at the frame's
// current instruction pointer. It returns done=true once endchar has
// finalized the glyph.
func (m *machine) step(top *frame) (bool, error) {
	b0 := top.code[top.ip]
	top.ip++

	if v, ok, err := m.decodeNumber(top, b0); ok {
		if err != nil {
			return false, err
		}
		m.push(v)
		return false, m.err
	}

	switch b0 {
	case 1, 3, 18, 23: // hstem, vstem, hstemhm, vstemhm
		m.takeWidthIfPresent(0, true)
		m.nStems += len(m.stack) / 2
		m.stack = m.stack[:0]

	case 19, 20: // hintmask, cntrmask
		if !m.haveWidth {
			m.takeWidthIfPresent(0, true)
		}
		if len(m.stack) > 0 {
			m.nStems += len(m.stack) / 2
			m.stack = m.stack[:0]
		}
		nBytes := (m.nStems + 7) / 8
		if top.ip+nBytes > len(top.code) {
			return false, fmt.Errorf("cff: hintmask truncated")
		}
		top.ip += nBytes

	case 21: // rmoveto
		m.takeWidthIfPresent(2, false)
		a := m.lastN(2)
		m.rMoveTo(a[0], a[1])
		m.clearStack()
	case 22: // hmoveto
		m.takeWidthIfPresent(1, false)
		a := m.lastN(1)
		m.rMoveTo(a[0], 0)
		m.clearStack()
	case 4: // vmoveto
		m.takeWidthIfPresent(1, false)
		a := m.lastN(1)
		m.rMoveTo(0, a[0])
		m.clearStack()

	case 5: // rlineto
		for i := 0; i+1 < len(m.stack); i += 2 {
			m.rLineTo(m.stack[i], m.stack[i+1])
		}
		m.clearStack()
	case 6: // hlineto
		m.altLine(true)
	case 7: // vlineto
		m.altLine(false)

	case 8: // rrcurveto
		for i := 0; i+5 < len(m.stack); i += 6 {
			m.rCurveTo6(m.stack[i : i+6])
		}
		m.clearStack()
	case 24: // rcurveline
		s := m.stack
		i := 0
		for len(s)-i >= 8 {
			m.rCurveTo6(s[i : i+6])
			i += 6
		}
		if len(s)-i == 2 {
			m.rLineTo(s[i], s[i+1])
		} else if len(s)-i == 6 {
			m.rCurveTo6(s[i : i+6])
		}
		m.clearStack()
	case 25: // rlinecurve
		s := m.stack
		i := 0
		for len(s)-i >= 8 {
			m.rLineTo(s[i], s[i+1])
			i += 2
		}
		if len(s)-i == 6 {
			m.rCurveTo6(s[i : i+6])
		}
		m.clearStack()

	case 26: // vvcurveto
		s := m.stack
		i := 0
		dx1 := 0.0
		if len(s)%4 == 1 {
			dx1 = s[0]
			i = 1
		}
		for len(s)-i >= 4 {
			m.rCurveTo(dx1, s[i], s[i+1], s[i+2], 0, s[i+3])
			dx1 = 0
			i += 4
		}
		m.clearStack()
	case 27: // hhcurveto
		s := m.stack
		i := 0
		dy1 := 0.0
		if len(s)%4 == 1 {
			dy1 = s[0]
			i = 1
		}
		for len(s)-i >= 4 {
			m.rCurveTo(s[i], dy1, s[i+1], s[i+2], s[i+3], 0)
			dy1 = 0
			i += 4
		}
		m.clearStack()

	case 30: // vhcurveto
		m.altCurve(true)
	case 31: // hvcurveto
		m.altCurve(false)

	case 10: // callsubr
		idx := int(m.pop())
		code, ok := getSubr(m.local, idx)
		if ok {
			if len(m.frames) > 10 {
				m.err = ErrCharStringOverflow
				return false, m.err
			}
			m.frames = append(m.frames, frame{code: code})
		}
	case 29: // callgsubr
		idx := int(m.pop())
		code, ok := getSubr(m.global, idx)
		if ok {
			if len(m.frames) > 10 {
				m.err = ErrCharStringOverflow
				return false, m.err
			}
			m.frames = append(m.frames, frame{code: code})
		}
	case 11: // return
		m.frames = m.frames[:len(m.frames)-1]

	case 14: // endchar
		m.takeWidthEndchar()
		m.stack = m.stack[:0]
		if m.open {
			m.cmds = append(m.cmds, Command{Op: cmdClose})
			m.open = false
		}
		return true, nil

	case 15: // vsindex (CFF2)
		m.pop()
	case 16: // blend (CFF2)
		n := int(m.pop())
		if n < 0 {
			n = 0
		}
		total := n * m.numRegions
		if total > len(m.stack) {
			total = len(m.stack)
		}
		m.stack = m.stack[:len(m.stack)-total]

	case 12: // two-byte escape operator
		if top.ip >= len(top.code) {
			return false, fmt.Errorf("cff: truncated escape operator")
		}
		b1 := top.code[top.ip]
		top.ip++
		m.escapeOp(b1)

	default:
		// Unknown or reserved operator: drop whatever operands were
		// accumulated and keep interpreting the rest of the glyph.
		m.stack = m.stack[:0]
	}

	return false, m.err
}

func (m *machine) escapeOp(b1 byte) {
	switch b1 {
	case 3: // and
		b, a := m.pop(), m.pop()
		m.push(boolf(a != 0 && b != 0))
	case 4: // or
		b, a := m.pop(), m.pop()
		m.push(boolf(a != 0 || b != 0))
	case 5: // not
		a := m.pop()
		m.push(boolf(a == 0))
	case 9: // abs
		m.push(math.Abs(m.pop()))
	case 10: // add
		b, a := m.pop(), m.pop()
		m.push(a + b)
	case 11: // sub
		b, a := m.pop(), m.pop()
		m.push(a - b)
	case 12: // div
		b, a := m.pop(), m.pop()
		if b == 0 {
			m.push(0)
		} else {
			m.push(a / b)
		}
	case 14: // neg
		m.push(-m.pop())
	case 15: // eq
		b, a := m.pop(), m.pop()
		m.push(boolf(a == b))
	case 18: // drop
		m.pop()
	case 21: // put
		val, idx := m.pop(), int(m.pop())
		if idx >= 0 && idx < len(m.transient) {
			m.transient[idx] = val
		}
	case 22: // get
		idx := int(m.pop())
		if idx >= 0 && idx < len(m.transient) {
			m.push(m.transient[idx])
		} else {
			m.push(0)
		}
	case 23: // ifelse
		v2, v1, s2, s1 := m.pop(), m.pop(), m.pop(), m.pop()
		if s1 <= s2 {
			m.push(v1)
		} else {
			m.push(v2)
		}
	case 24: // random, deterministic placeholder: CharStrings rarely rely on it for outline shape
		m.push(0.5)
	case 25: // mul
		b, a := m.pop(), m.pop()
		m.push(a * b)
	case 26: // sqrt
		m.push(math.Sqrt(math.Abs(m.pop())))
	case 27: // dup
		a := m.pop()
		m.push(a)
		m.push(a)
	case 28: // exch
		b, a := m.pop(), m.pop()
		m.push(b)
		m.push(a)
	case 29: // index
		idx := int(m.pop())
		if idx < 0 {
			idx = 0
		}
		pos := len(m.stack) - 1 - idx
		if pos < 0 || pos >= len(m.stack) {
			m.push(0)
		} else {
			m.push(m.stack[pos])
		}
	case 30: // roll
		j := int(m.pop())
		n := int(m.pop())
		m.roll(n, j)
	case 34: // hflex
		m.hflex()
	case 35: // flex
		m.flex()
	case 36: // hflex1
		m.hflex1()
	case 37: // flex1
		m.flex1()
	default:
		m.stack = m.stack[:0]
	}
}

func boolf(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func (m *machine) roll(n, j int) {
	if n <= 0 || n > len(m.stack) {
		return
	}
	s := m.stack[len(m.stack)-n:]
	j = ((j % n) + n) % n
	rolled := make([]float64, n)
	for i, v := range s {
		rolled[(i+j)%n] = v
	}
	copy(s, rolled)
}

func (m *machine) decodeNumber(top *frame, b0 byte) (float64, bool, error) {
	switch {
	case b0 == 28:
		if top.ip+1 >= len(top.code) {
			return 0, true, fmt.Errorf("cff: truncated int16 operand")
		}
		v := int16(uint16(top.code[top.ip])<<8 | uint16(top.code[top.ip+1]))
		top.ip += 2
		return float64(v), true, nil
	case b0 == 255:
		if top.ip+3 >= len(top.code) {
			return 0, true, fmt.Errorf("cff: truncated fixed operand")
		}
		bits := uint32(top.code[top.ip])<<24 | uint32(top.code[top.ip+1])<<16 | uint32(top.code[top.ip+2])<<8 | uint32(top.code[top.ip+3])
		top.ip += 4
		return float64(int32(bits)) / 65536.0, true, nil
	case b0 >= 32 && b0 <= 246:
		return float64(int(b0) - 139), true, nil
	case b0 >= 247 && b0 <= 250:
		if top.ip >= len(top.code) {
			return 0, true, fmt.Errorf("cff: truncated operand")
		}
		v := float64((int(b0)-247)*256 + int(top.code[top.ip]) + 108)
		top.ip++
		return v, true, nil
	case b0 >= 251 && b0 <= 254:
		if top.ip >= len(top.code) {
			return 0, true, fmt.Errorf("cff: truncated operand")
		}
		v := float64(-(int(b0)-251)*256 - int(top.code[top.ip]) - 108)
		top.ip++
		return v, true, nil
	default:
		return 0, false, nil
	}
}

func (m *machine) pop() float64 {
	if len(m.stack) == 0 {
		return 0
	}
	v := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return v
}

func (m *machine) push(v float64) {
	if m.err != nil {
		return
	}
	if len(m.stack) >= 513 {
		m.err = ErrCharStringOverflow
		return
	}
	m.stack = append(m.stack, v)
}

func (m *machine) clearStack() {
	m.stack = m.stack[:0]
}

// lastN returns the last n stack values in order, zero-padded on the
// left if fewer than n are present.
func (m *machine) lastN(n int) []float64 {
	out := make([]float64, n)
	s := m.stack
	if len(s) >= n {
		copy(out, s[len(s)-n:])
	} else {
		copy(out[n-len(s):], s)
	}
	return out
}

func (m *machine) altLine(startHorizontal bool) {
	horiz := startHorizontal
	for _, v := range m.stack {
		if horiz {
			m.rLineTo(v, 0)
		} else {
			m.rLineTo(0, v)
		}
		horiz = !horiz
	}
	m.clearStack()
}

// altCurve implements vhcurveto/hvcurveto: curves alternate between a
// vertical and a horizontal start tangent, with an optional final
// extra coordinate on the very last curve's endpoint.
func (m *machine) altCurve(startVertical bool) {
	s := m.stack
	vertical := startVertical
	i := 0
	for len(s)-i >= 4 {
		remaining := len(s) - i
		extra := 0.0
		take := 4
		if remaining == 5 {
			extra = s[i+4]
			take = 5
		}
		v0, v1, v2, v3 := s[i], s[i+1], s[i+2], s[i+3]
		if vertical {
			m.rCurveTo(0, v0, v1, v2, v3, extra)
		} else {
			m.rCurveTo(v0, 0, v1, v2, extra, v3)
		}
		i += take
		vertical = !vertical
	}
	m.clearStack()
}

func (m *machine) rCurveTo6(a []float64) {
	m.rCurveTo(a[0], a[1], a[2], a[3], a[4], a[5])
}

func (m *machine) rMoveTo(dx, dy float64) {
	if m.open {
		m.cmds = append(m.cmds, Command{Op: cmdClose})
	}
	m.x += dx
	m.y += dy
	m.cmds = append(m.cmds, Command{Op: CmdMove, Args: []float64{m.x, m.y}})
	m.open = true
}

func (m *machine) rLineTo(dx, dy float64) {
	m.x += dx
	m.y += dy
	m.cmds = append(m.cmds, Command{Op: CmdLine, Args: []float64{m.x, m.y}})
}

func (m *machine) rCurveTo(dx1, dy1, dx2, dy2, dx3, dy3 float64) {
	x1, y1 := m.x+dx1, m.y+dy1
	x2, y2 := x1+dx2, y1+dy2
	m.x, m.y = x2+dx3, y2+dy3
	m.cmds = append(m.cmds, Command{Op: CmdCubic, Args: []float64{x1, y1, x2, y2, m.x, m.y}})
}

// takeWidthIfPresent consumes the leading width operand, if present,
// exactly once: for stem hint operators any extra (odd) operand is
// the width; for moveto operators an operand count one more than
// expected is the width.
func (m *machine) takeWidthIfPresent(expected int, pairwise bool) {
	if m.haveWidth {
		return
	}
	m.haveWidth = true
	n := len(m.stack)
	extra := false
	if pairwise {
		extra = n%2 == 1
	} else {
		extra = n == expected+1
	}
	if extra {
		m.width = m.nominalWidthX + int32(m.stack[0])
		m.stack = m.stack[1:]
	}
}

func (m *machine) takeWidthEndchar() {
	if m.haveWidth {
		return
	}
	m.haveWidth = true
	n := len(m.stack)
	if n == 1 || n == 5 {
		m.width = m.nominalWidthX + int32(m.stack[0])
		m.stack = m.stack[1:]
	}
}

func bias(n int) int {
	switch {
	case n < 1240:
		return 107
	case n < 33900:
		return 1131
	default:
		return 32768
	}
}

func getSubr(subrs [][]byte, idx int) ([]byte, bool) {
	i := idx + bias(len(subrs))
	if i < 0 || i >= len(subrs) {
		return nil, false
	}
	return subrs[i], true
}

func (m *machine) hflex() {
	a := m.lastN(7)
	dx1, dx2, dy2, dx3, dx4, dx5, dx6 := a[0], a[1], a[2], a[3], a[4], a[5], a[6]
	m.rCurveTo(dx1, 0, dx2, dy2, dx3, 0)
	m.rCurveTo(dx4, 0, dx5, -dy2, dx6, 0)
	m.clearStack()
}

func (m *machine) flex() {
	a := m.lastN(13)
	m.rCurveTo(a[0], a[1], a[2], a[3], a[4], a[5])
	m.rCurveTo(a[6], a[7], a[8], a[9], a[10], a[11])
	m.clearStack()
}

func (m *machine) hflex1() {
	a := m.lastN(9)
	dx1, dy1, dx2, dy2, dx3, dx4, dx5, dy5, dx6 := a[0], a[1], a[2], a[3], a[4], a[5], a[6], a[7], a[8]
	m.rCurveTo(dx1, dy1, dx2, dy2, dx3, 0)
	m.rCurveTo(dx4, 0, dx5, dy5, dx6, -(dy1 + dy2 + dy5))
	m.clearStack()
}

func (m *machine) flex1() {
	a := m.lastN(11)
	dx1, dy1, dx2, dy2, dx3, dy3, dx4, dy4, dx5, dy5, d6 := a[0], a[1], a[2], a[3], a[4], a[5], a[6], a[7], a[8], a[9], a[10]
	m.rCurveTo(dx1, dy1, dx2, dy2, dx3, dy3)
	dx := dx1 + dx2 + dx3 + dx4 + dx5
	dy := dy1 + dy2 + dy3 + dy4 + dy5
	if math.Abs(dx) > math.Abs(dy) {
		m.rCurveTo(dx4, dy4, dx5, dy5, d6, -dy)
	} else {
		m.rCurveTo(dx4, dy4, dx5, dy5, -dx, d6)
	}
	m.clearStack()
}
