// Package explain renders a script as one annotated instruction per
// line: position, source text, long opcode name and stack effect. It is
// a reading aid, not an execution path: nothing here touches the
// interpreter state.
package explain

import (
	"fmt"
	"strings"

	"go.creack.net/charsh/op"
)

func isDigit(c byte, base int) bool {
	switch base {
	case 2:
		return c == '0' || c == '1'
	case 16:
		return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
	default:
		return c >= '0' && c <= '9'
	}
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// matchDelim returns the position just past the delimiter matching
// script[i], or -1 when unbalanced. script[i] must be the opening
// delimiter.
func matchDelim(script string, i int, open, close byte) int {
	depth := 0
	for ; i < len(script); i++ {
		switch script[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

// Annotate returns the annotated listing of a script.
func Annotate(script string) string {
	out := &strings.Builder{}

	emit := func(pos int, src, name, effect string) {
		fmt.Fprintf(out, "%4d  %-12s %-10s %s\n", pos, src, name, strings.TrimSpace(effect))
	}

	i := 0
	for i < len(script) {
		c := script[i]
		start := i

		switch {
		case c == ' ' || c == ',' || c == '\n':
			i++
			continue

		case c == '-' && i+1 < len(script) && isDigit(script[i+1], 10):
			i++
			fallthrough
		case isDigit(c, 10):
			base := 10
			if script[start] == '0' && i+1 < len(script) {
				switch script[i+1] {
				case 'x':
					base, i = 16, i+2
				case 'b':
					base, i = 2, i+2
				}
			}
			for i < len(script) && isDigit(script[i], base) {
				i++
			}
			emit(start, script[start:i], "literal", "-- x")
			continue

		case c == '`':
			i++
			for i < len(script) && isAlnum(script[i]) {
				i++
			}
			emit(start, script[start:i], "ident", "-- addr")
			continue

		case c == '\'':
			i += 2
			if i > len(script) {
				i = len(script)
			}
			emit(start, script[start:i], "char", "-- char")
			continue

		case c == '{':
			end := matchDelim(script, i, '{', '}')
			if end < 0 {
				emit(start, "{", "block", "unbalanced")
				i++
				continue
			}
			emit(start, ellipsis(script[i:end]), "block", fmt.Sprintf("-- block (%d bytes)", end-i-2))
			i = end
			continue

		case c == '(':
			end := matchDelim(script, i, '(', ')')
			if end < 0 {
				emit(start, "(", "string", "unbalanced")
				i++
				continue
			}
			emit(start, ellipsis(script[i:end]), "string", "prints body")
			i = end
			continue
		}

		i++
		if oc, ok := op.Lookup(c); ok {
			emit(start, string(c), oc.Name, oc.Comment)
		} else {
			emit(start, string(c), "unknown", "")
		}
	}
	return out.String()
}

func ellipsis(s string) string {
	if len(s) <= 12 {
		return s
	}
	return s[:9] + "..."
}
