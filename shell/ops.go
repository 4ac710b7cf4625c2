package shell

import "go.creack.net/charsh/op"

func asBool(b bool) Value {
	if b {
		return -1
	}
	return 0
}

// step executes one regular opcode. It returns errUnknownOp for
// characters that have no meaning here (the executor then consults the
// trap hook), or the propagated failure of a sub-script.
func (s *Shell) step(c byte) error {
	switch c {
	// Arithmetic.
	case '+':
		val := s.pop()
		s.setTos(s.tos + val)
	case '-':
		val := s.pop()
		s.push(s.pop() - val)
	case '*':
		val := s.pop()
		s.setTos(s.tos * val)
	case '/':
		val := s.pop()
		s.setTos(s.tos / val)
	case '%':
		val := s.pop()
		s.push(s.pop() % val)
	case 'h':
		// Scale: the intermediate product is widened so that x*y does
		// not overflow before the division.
		z := s.pop()
		y := s.pop()
		s.setTos(Value(int64(s.tos) * int64(y) / int64(z)))
	case 'n':
		s.setTos(-s.tos)

	// Comparison, canonical booleans.
	case '=':
		val := s.pop()
		s.setTos(asBool(s.tos == val))
	case '#':
		val := s.pop()
		s.setTos(asBool(s.tos != val))
	case '<':
		val := s.pop()
		s.setTos(asBool(s.tos < val))
	case '>':
		val := s.pop()
		s.setTos(asBool(s.tos > val))
	case 'F':
		s.push(0)
	case 'T':
		s.push(-1)

	// Bitwise.
	case '~':
		s.setTos(^s.tos)
	case '&':
		val := s.pop()
		s.setTos(s.tos & val)
	case '|':
		val := s.pop()
		s.setTos(s.tos | val)
	case '^':
		val := s.pop()
		s.setTos(s.tos ^ val)

	// Memory.
	case '@':
		s.setTos(s.readCell(s.tos))
	case '!':
		addr := s.pop()
		val := s.pop()
		s.writeCell(addr, val)

	// Stack.
	case 'u':
		s.push(s.tos)
	case 'q':
		if s.tos != 0 {
			s.push(s.tos)
		}
	case 'd':
		s.drop()
	case 'c':
		// The count is dropped too, by the trailing drop.
		if n := int(s.tos); n > 0 && n < s.depth() {
			s.sp += n
		}
		s.drop()
	case 'o':
		v := s.stk[s.stackCell(s.sp)]
		s.push(v)
	case 's':
		i := s.stackCell(s.sp)
		s.tos, s.stk[i] = s.stk[i], s.tos
	case 'r':
		i, j := s.stackCell(s.sp), s.stackCell(s.sp+1)
		val := s.tos
		s.tos = s.stk[j]
		s.stk[j] = s.stk[i]
		s.stk[i] = val
	case 'p':
		s.pick()
	case 'g':
		s.roll()
	case 'j':
		s.push(Value(s.depth()))
	case 'C':
		s.clear()

	// Frame.
	case '\\':
		s.frame()
	case '$':
		s.local()

	// Control.
	case 'i':
		script := s.pop()
		if s.pop() != 0 {
			if err := s.exec(script); err != nil {
				return err
			}
		}
	case 'e':
		elseB := s.pop()
		ifB := s.pop()
		script := elseB
		if s.pop() != 0 {
			script = ifB
		}
		if err := s.exec(script); err != nil {
			return err
		}
	case 'l':
		script := s.pop()
		for n := s.pop(); n > 0; n-- {
			if err := s.exec(script); err != nil {
				return err
			}
		}
	case 'w':
		script := s.pop()
		for {
			if err := s.exec(script); err != nil {
				return err
			}
			if s.pop() == 0 {
				break
			}
		}
	case 'x':
		if err := s.exec(s.pop()); err != nil {
			return err
		}
	case ':':
		if err := s.exec(s.readCell(s.pop())); err != nil {
			return err
		}
	case 'y':
		s.board.Yield()

	// Stream I/O.
	case '.':
		s.printInt(s.pop(), s.printBase)
		s.ios.WriteByte(' ')
	case 'b':
		s.printBase = int(s.pop())
		switch s.printBase {
		case 2, 8, 10, 16:
		default:
			s.printBase = 10
		}
	case 'm':
		s.ios.WriteByte('\n')
	case 'v':
		s.ios.WriteByte(byte(s.pop()))
	case 'k':
		for {
			val := s.ios.ReadByte()
			if val >= 0 {
				s.push(Value(val))
				break
			}
			s.board.Yield()
		}
	case 'K':
		if val := s.ios.ReadByte(); val < 0 {
			s.push(0)
		} else {
			s.push(Value(val))
			s.push(-1)
		}
	case '?':
		s.printInt(s.readCell(s.pop()), s.printBase)
		s.ios.WriteByte(' ')
	case 't':
		name, ok := s.dict.name(int(s.pop()))
		if ok {
			s.ios.WriteString(name)
		}
		s.push(asBool(ok))
	case 'S':
		s.printStack()
	case 'Z':
		s.trace = !s.trace

	// Board.
	case 'A':
		s.setTos(Value(s.board.AnalogRead(int(s.tos))))
	case 'D':
		s.board.Delay(int(s.pop()))
	case 'E':
		// Periodic timer: true once per period, using the variable at
		// addr to remember the last trigger.
		addr := s.pop()
		period := s.pop()
		now := Value(s.board.Millis())
		if uint32(now-s.readCell(addr)) >= uint32(period) {
			s.writeCell(addr, now)
			s.push(-1)
		} else {
			s.push(0)
		}
	case 'H':
		s.board.DigitalWrite(int(s.pop()), 1)
	case 'L':
		s.board.DigitalWrite(int(s.pop()), 0)
	case 'I':
		s.board.PinMode(int(s.pop()), op.ModeInput)
	case 'U':
		s.board.PinMode(int(s.pop()), op.ModeInputPullup)
	case 'O':
		s.board.PinMode(int(s.pop()), op.ModeOutput)
	case 'M':
		s.push(Value(s.board.Millis()))
	case 'N':
		// No operation.
	case 'P':
		pin := int(s.pop())
		s.board.AnalogWrite(pin, int(s.pop()))
	case 'R':
		pin := int(s.pop())
		s.push(asBool(s.board.DigitalRead(pin) != 0))
	case 'W':
		pin := int(s.pop())
		s.board.DigitalWrite(pin, int(s.pop()))
	case 'X':
		pin := int(s.pop())
		s.board.DigitalWrite(pin, s.board.DigitalRead(pin)^1)

	// Dictionary persistence.
	case 'z':
		addr := s.pop()
		s.dict.persist(int(addr), s.readCell(addr))
	case 'a':
		bytes, entries := s.dict.stats()
		s.push(bytes)
		s.push(entries)
	case 'f':
		s.dict.forget(int(s.pop()))

	default:
		return errUnknownOp
	}
	return nil
}
