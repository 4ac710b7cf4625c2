// Package shell implements a character-coded concatenative script
// interpreter: a stack machine whose instructions are printable
// characters, driven over a character stream or from stored scripts.
// Scripts can live in three address spaces, identified by the range of
// the script pointer: mutable DATA memory, read-only ROM and the
// persistent NVM byte store.
package shell

import (
	"errors"
	"fmt"

	"go.creack.net/charsh/board"
	"go.creack.net/charsh/op"
)

// Config carries the construction parameters of a shell.
type Config struct {
	StackMax    int  // Max stack depth, defaults to op.StackMax.
	VarMax      int  // Variable table size, defaults to op.VarMax.
	FullOpNames bool // Trace with long opcode names.

	Board board.HostIO // Physical I/O collaborator, defaults to a 16 pin Sim.
	NVM   board.NVM    // Persistent store; nil keeps the dictionary volatile.
}

// Shell is one interpreter instance. It is single threaded: a host with
// multiple concurrent drivers must serialize access.
type Shell struct {
	cfg Config
	ios Stream

	cells  []Value // Variable table, then the stack window.
	stk    []Value // cells[varMax:], the stack area.
	sp     int     // Index into stk of the element below tos.
	fp     int     // Frame pointer, moved only by '\'.
	tos    Value
	marker int
	varMax int

	data     []byte // DATA region image.
	hwm      int    // First free DATA byte.
	lineBase int    // Scratch area for the current input line.

	rom []byte

	nvm   board.NVM
	dict  dictionary
	board board.HostIO

	trace     bool
	fullNames bool
	cycle     int
	printBase int

	// Most recent '{' capture, consumed by ';'.
	lastBlock struct {
		start  Value // Tagged pointer.
		length Value
	}

	// Trap is the host-extension hook invoked by the '_' opcode. The
	// default rejects, surfacing the position of the '_'.
	Trap TrapFunc
}

var errUnknownOp = errors.New("unknown opcode")

// New constructs a shell over the given stream.
func New(ios Stream, cfg Config) *Shell {
	if cfg.StackMax <= 0 {
		cfg.StackMax = op.StackMax
	}
	if cfg.VarMax <= 0 {
		cfg.VarMax = op.VarMax
	}
	if cfg.Board == nil {
		cfg.Board = board.NewSim(16)
	}
	s := &Shell{
		cfg:       cfg,
		ios:       ios,
		cells:     make([]Value, cfg.VarMax+cfg.StackMax),
		varMax:    cfg.VarMax,
		marker:    -1,
		data:      make([]byte, op.NVMBase),
		hwm:       1, // Address 0 stays unused so that no valid DATA pointer is 0.
		lineBase:  op.NVMBase - op.LineMax,
		rom:       []byte{0}, // Same for ROM offset 0.
		nvm:       cfg.NVM,
		board:     cfg.Board,
		fullNames: cfg.FullOpNames,
		printBase: 10,
	}
	s.stk = s.cells[cfg.VarMax:]
	s.sp = len(s.stk)
	s.fp = len(s.stk)
	if cfg.NVM != nil {
		d := newNVMDict(cfg.NVM, cfg.VarMax)
		d.load(s.cells[:cfg.VarMax])
		s.dict = d
	} else {
		s.dict = newRAMDict(cfg.VarMax)
	}
	return s
}

// SetTrace sets trace mode.
func (s *Shell) SetTrace(flag bool) { s.trace = flag }

// GetTrace returns trace mode.
func (s *Shell) GetTrace() bool { return s.trace }

// Cycle returns the opcode counter since the last top-level line.
func (s *Shell) Cycle() int { return s.cycle }

// Def seeds a dictionary entry with a value before execution begins,
// creating the entry when needed. Returns the variable index, -1 when
// the dictionary is full.
func (s *Shell) Def(name string, val Value) int {
	idx := s.dict.find([]byte(name))
	if idx < 0 {
		idx = s.dict.add([]byte(name))
	}
	if idx >= 0 {
		s.writeCell(Value(idx), val)
	}
	return idx
}

// DefScript seeds a dictionary entry with a ROM script.
func (s *Shell) DefScript(name, script string) int {
	return s.Def(name, s.AddROM(script))
}

// Lookup returns the variable index of a name, -1 when unknown.
func (s *Shell) Lookup(name string) int {
	return s.dict.find([]byte(name))
}

// Name returns the dictionary name of a variable index, for viewers.
func (s *Shell) Name(idx int) (string, bool) { return s.dict.name(idx) }

// Entries returns the dictionary entry count.
func (s *Shell) Entries() int { return s.dict.count() }

// Read returns the value of a variable cell.
func (s *Shell) Read(addr Value) Value { return s.readCell(addr) }

// Write sets the value of a variable cell.
func (s *Shell) Write(addr, val Value) { s.writeCell(addr, val) }

// ReadLine assembles one input line without blocking: it moves at most
// one byte from the stream into buf and reports whether a full newline
// terminated line is now buffered.
func (s *Shell) ReadLine(buf *[]byte) bool {
	c := s.ios.ReadByte()
	if c < 0 {
		return false
	}
	*buf = append(*buf, byte(c))
	return byte(c) == '\n'
}

// ExecuteLine interns the line in the DATA scratch area and executes it
// as a fresh top-level script. In trace mode a failure re-prints the
// line with a caret under the failing position.
func (s *Shell) ExecuteLine(line []byte) error {
	start, ok := s.internLine(line)
	if !ok {
		return fmt.Errorf("line too long: %d bytes", len(line))
	}
	s.cycle = 0
	err := s.exec(start)
	if err == nil {
		s.cycle = 0
		return nil
	}
	var serr *ScriptError
	if s.trace && errors.As(err, &serr) && serr.Region == Data &&
		serr.Pos >= start && int(serr.Pos) < len(s.data) {
		s.caretDump(start, serr.Pos)
	}
	return err
}

// Execute runs a stored script given its tagged pointer as a fresh
// top-level entry.
func (s *Shell) Execute(script Value) error {
	s.cycle = 0
	err := s.exec(script)
	if err == nil {
		s.cycle = 0
	}
	return err
}

// exec runs one script to its terminator (or closing '}'), recursing for
// captured blocks. On failure the frame pointer is restored and the
// innermost failing position is returned unchanged to every caller.
func (s *Shell) exec(script Value) error {
	reg := RegionOf(script)
	read := s.reader(reg)
	ip := reg.toLocal(script)
	savedFP := s.fp

	ret := func(err error) error {
		s.fp = savedFP
		return err
	}
	fail := func(pos Value, c byte) error {
		return ret(&ScriptError{Script: script, Pos: pos, Op: c, Region: reg})
	}

	neg := false
	base := Value(10)

	for {
		c := read(ip)
		ip++
		if c == 0 {
			return ret(nil)
		}

		// Negative-number escape: '-' directly followed by a decimal
		// digit starts a literal, otherwise it is the subtraction op.
		if c == '-' {
			if n := read(ip); n >= '0' && n <= '9' {
				neg = true
				c = n
				ip++
			}
		} else if c == '0' {
			// Base prefix.
			switch read(ip) {
			case 'x':
				base = 16
				ip++
				c = read(ip)
				ip++
			case 'b':
				base = 2
				ip++
				c = read(ip)
				ip++
			}
		}

		// Literal number.
		if isDigit(c, base) {
			val := Value(0)
			for isDigit(c, base) {
				if base == 16 && c >= 'a' {
					val = val*base + Value(c-'a') + 10
				} else {
					val = val*base + Value(c-'0')
				}
				c = read(ip)
				ip++
			}
			if neg {
				val = -val
				neg = false
			}
			s.push(val)
			base = 10
			if c == 0 {
				return ret(nil)
			}
		}

		// Noise.
		if c == ' ' || c == ',' {
			continue
		}

		// Newline displays as the N no-op.
		if c == '\n' {
			c = 'N'
		}

		s.cycle++
		if s.trace {
			s.traceLine(reg, ip-1, c)
		}

		// Special forms.
		switch c {
		case '}':
			return ret(nil)

		case ';':
			block := s.pop()
			addr := s.pop()
			s.writeCell(addr, s.defBlock(block))
			continue

		case '`':
			var name []byte
			for {
				n := read(ip)
				if !isAlnumByte(n) {
					break
				}
				name = append(name, n)
				ip++
			}
			idx := -1
			if len(name) > 0 {
				idx = s.dict.find(name)
				if idx < 0 {
					idx = s.dict.add(name)
				}
			}
			s.push(Value(idx))
			continue

		case '\'':
			if n := read(ip); n != 0 {
				s.push(Value(n))
				ip++
			}
			continue

		case '{':
			open := ip - 1
			s.push(reg.toLinear(ip))
			depth := 1
			for depth != 0 {
				n := read(ip)
				ip++
				if n == 0 {
					return fail(open, '{')
				}
				if n == '{' {
					depth++
				} else if n == '}' {
					depth--
				}
			}
			s.lastBlock.start = reg.toLinear(open + 1)
			s.lastBlock.length = ip - open - 2
			continue

		case '(':
			open := ip - 1
			depth := 1
			for depth != 0 {
				n := read(ip)
				ip++
				if n == 0 {
					return fail(open, '(')
				}
				if n == '(' {
					depth++
				} else if n == ')' {
					depth--
				}
				if depth > 0 {
					s.ios.WriteByte(n)
				}
			}
			continue

		case '[':
			if s.marker == -1 {
				s.marker = s.depth()
				continue
			}
			// Active marker: '[' falls through as an unknown opcode.

		case ']':
			if s.marker != -1 {
				s.push(Value(s.depth() - s.marker))
				s.marker = -1
				continue
			}
		}

		// Regular opcode.
		err := s.step(c)
		if err == nil {
			continue
		}
		if !errors.Is(err, errUnknownOp) {
			return ret(err) // Inner failure, propagated unchanged.
		}
		if c == op.TrapCode && s.Trap != nil {
			if next, ok := s.Trap(s, reg.toLinear(ip)); ok {
				ip = reg.toLocal(next)
				continue
			}
		}
		return fail(ip-1, c)
	}
}

// defBlock resolves the pointer stored by ';'. ROM and NVM blocks are
// immutable, their pointer is stored as is. A DATA block is copied out
// of its (possibly scratch) source into a fresh allocation, using the
// length remembered by the last '{' capture.
func (s *Shell) defBlock(block Value) Value {
	if RegionOf(block) != Data {
		return block
	}
	n := s.lastBlock.length
	if n < 0 {
		n = 0
	}
	dst := s.alloc(n + 1)
	if dst == 0 {
		return 0
	}
	src := int(block)
	for i := Value(0); i < n; i++ {
		if src+int(i) < len(s.data) {
			s.data[dst+i] = s.data[src+int(i)]
		}
	}
	s.data[dst+n] = 0
	return dst
}

func isDigit(c byte, base Value) bool {
	switch base {
	case 2:
		return c == '0' || c == '1'
	case 16:
		return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
	default:
		return c >= '0' && c <= '9'
	}
}

func isAlnumByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
