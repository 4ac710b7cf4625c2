package op

import "strings"

// Address-space tagging. A script pointer is a plain value; the region is
// derived from its range: negative values are ROM offsets (negated),
// values at or above NVMBase are NVM offsets (shifted down), everything
// else is a raw DATA address.
const NVMBase = 0x4000

// Default interpreter settings.
const (
	StackMax = 16  // Max observable stack depth.
	VarMax   = 32  // Variable table size, which is also the dictionary capacity.
	LineMax  = 128 // Scratch region reserved in DATA for the current input line.
)

// Pin modes, passed through to the board collaborator by 'I', 'U' and 'O'.
const (
	ModeInput = iota
	ModeOutput
	ModeInputPullup
)

// TrapCode is the host-extension opcode. When encountered, the rest of
// the script is handed to the shell's trap hook.
const TrapCode = '_'

// OpCode describes a single character instruction.
type OpCode struct {
	Code    byte
	Name    string // Long name, used by trace when full names are enabled.
	Comment string // Stack effect, "before -- after" notation.
}

func (oc OpCode) String() string { return oc.Name }

// Effect splits the stack-effect comment of the form "before -- after".
func (oc OpCode) Effect() (before, after string) {
	before, after, _ = strings.Cut(oc.Comment, "--")
	return strings.TrimSpace(before), strings.TrimSpace(after)
}

var byCode = func() [256]*OpCode {
	var t [256]*OpCode
	for i := range OpCodeTable {
		t[OpCodeTable[i].Code] = &OpCodeTable[i]
	}
	return t
}()

// Lookup returns the opcode definition for the given character.
func Lookup(c byte) (OpCode, bool) {
	if byCode[c] == nil {
		return OpCode{}, false
	}
	return *byCode[c], true
}

// Name returns the display name for the given character: the long name
// when full is set and the character is known, the character itself
// otherwise.
func Name(c byte, full bool) string {
	if full {
		if e := byCode[c]; e != nil {
			return e.Name
		}
	}
	return string(c)
}
