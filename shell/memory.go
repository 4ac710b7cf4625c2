package shell

import "go.creack.net/charsh/op"

// Value is the machine integer of the shell. Script pointers and
// booleans use the same encoding: negative pointers are ROM, pointers at
// or above op.NVMBase are NVM, the rest is DATA; true is -1, false 0.
type Value = int32

// Region identifies the address space a script pointer refers to.
type Region int

const (
	Data Region = iota
	ROM
	NVM
)

func (r Region) String() string {
	switch r {
	case Data:
		return "D"
	case ROM:
		return "R"
	case NVM:
		return "N"
	default:
		return "?"
	}
}

// RegionOf decodes the tag of a script pointer.
func RegionOf(p Value) Region {
	switch {
	case p < 0:
		return ROM
	case p >= op.NVMBase:
		return NVM
	default:
		return Data
	}
}

// toLocal strips the region tag from a script pointer.
func (r Region) toLocal(p Value) Value {
	switch r {
	case ROM:
		return -p
	case NVM:
		return p - op.NVMBase
	default:
		return p
	}
}

// toLinear encodes a local address back into the tagged form used on the
// stack.
func (r Region) toLinear(local Value) Value {
	switch r {
	case ROM:
		return -local
	case NVM:
		return local + op.NVMBase
	default:
		return local
	}
}

// reader returns the byte reader for the given region, captured for the
// duration of one exec call. Out-of-range reads yield 0, which the
// executor treats as the script terminator.
func (s *Shell) reader(r Region) func(Value) byte {
	switch r {
	case ROM:
		return func(local Value) byte {
			if local < 0 || int(local) >= len(s.rom) {
				return 0
			}
			return s.rom[local]
		}
	case NVM:
		return func(local Value) byte {
			if s.nvm == nil || local < 0 || int(local) >= s.nvm.Size() {
				return 0
			}
			return s.nvm.ReadByte(int(local))
		}
	default:
		return func(local Value) byte {
			if local < 0 || int(local) >= len(s.data) {
				return 0
			}
			return s.data[local]
		}
	}
}

// alloc reserves n bytes in the DATA region and returns their address,
// or 0 when the region is exhausted. Allocations grow from the bottom;
// the line scratch area at the top is never handed out. Allocations are
// never reclaimed, not even by forget.
func (s *Shell) alloc(n Value) Value {
	if n <= 0 || s.hwm+int(n) > s.lineBase {
		return 0
	}
	addr := Value(s.hwm)
	s.hwm += int(n)
	return addr
}

// internLine copies the line into the DATA scratch area and returns its
// address. The scratch area is reused by every top-level line, so block
// pointers into it are only valid until the next line.
func (s *Shell) internLine(line []byte) (Value, bool) {
	if len(line)+1 > len(s.data)-s.lineBase {
		return 0, false
	}
	copy(s.data[s.lineBase:], line)
	s.data[s.lineBase+len(line)] = 0
	return Value(s.lineBase), true
}

// AddROM appends a script to the read-only region and returns its tagged
// pointer. ROM scripts survive for the life of the shell and may be
// stored in the dictionary directly.
func (s *Shell) AddROM(script string) Value {
	start := Value(len(s.rom))
	s.rom = append(s.rom, script...)
	s.rom = append(s.rom, 0)
	return ROM.toLinear(start)
}

// ScriptByte reads one script byte through the tagged pointer p. Trap
// hooks use it to consume their suffix of the script.
func (s *Shell) ScriptByte(p Value) byte {
	r := RegionOf(p)
	return s.reader(r)(r.toLocal(p))
}

// readCell reads a variable cell. The addressable window covers the
// variable table and, above it, the stack cells so that frame locals
// ($ with @/!) can be reached. Everything else reads 0.
func (s *Shell) readCell(addr Value) Value {
	if addr < 0 || int(addr) >= len(s.cells) {
		return 0
	}
	return s.cells[addr]
}

// writeCell writes a variable cell. Out-of-range writes are dropped.
func (s *Shell) writeCell(addr, val Value) {
	if addr < 0 || int(addr) >= len(s.cells) {
		return
	}
	s.cells[addr] = val
}
