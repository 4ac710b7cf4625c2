package shell

import (
	"strconv"

	"go.creack.net/charsh/op"
)

// printInt writes an integer in the given base with the display prefix
// the shell uses: 0x for 16, 0b for 2, a leading 0 for 8, plain decimal
// otherwise.
func (s *Shell) printInt(v Value, base int) {
	n := int64(v)
	if n < 0 && base != 10 {
		s.ios.WriteByte('-')
		n = -n
	}
	switch base {
	case 16:
		s.ios.WriteString("0x")
		s.ios.WriteString(strconv.FormatInt(n, 16))
	case 2:
		s.ios.WriteString("0b")
		s.ios.WriteString(strconv.FormatInt(n, 2))
	case 8:
		s.ios.WriteString("0")
		s.ios.WriteString(strconv.FormatInt(n, 8))
	default:
		s.ios.WriteString(strconv.FormatInt(n, 10))
	}
}

// traceLine prints one "cycle:region:offset:name:" line followed by the
// stack, before the opcode at pos executes.
func (s *Shell) traceLine(r Region, pos Value, c byte) {
	s.printInt(Value(s.cycle), 10)
	s.ios.WriteByte(':')
	s.ios.WriteString(r.String())
	s.ios.WriteByte(':')
	s.printInt(pos, 10)
	s.ios.WriteByte(':')
	s.ios.WriteString(op.Name(c, s.fullNames))
	s.ios.WriteByte(':')
	s.printStack()
}

// caretDump re-prints a failed DATA line with a caret under the failing
// position. ROM and NVM sources are skipped: their text cannot be
// reliably re-shown.
func (s *Shell) caretDump(lineStart Value, pos Value) {
	end := lineStart
	for int(end) < len(s.data) && s.data[end] != 0 {
		s.ios.WriteByte(s.data[end])
		end++
	}
	if end == lineStart || s.data[end-1] != '\n' {
		s.ios.WriteByte('\n')
	}
	for i := lineStart; i < pos; i++ {
		s.ios.WriteByte(' ')
	}
	s.ios.WriteString("^--?\n")
}
