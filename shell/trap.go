package shell

// TrapFunc is the host-extension hook. When the '_' opcode is hit, the
// hook receives the tagged address of the byte following it. It may
// consume any suffix of the script (including calling back into Execute
// for sub-scripts) and returns the tagged address where interpretation
// resumes. Returning ok=false aborts the script like any other failing
// opcode.
type TrapFunc func(s *Shell, ip Value) (next Value, ok bool)
