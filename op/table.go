package op

// OpCodeTable lists every character instruction with its long name and
// stack effect. Special forms handled by the tokenizer ({, (, [, ], `,
// ', ;) are included so that trace and explain can name them.
var OpCodeTable = []OpCode{
	// Arithmetic.
	{'+', "add", "x y -- x+y"},
	{'-', "sub", "x y -- x-y"},
	{'*', "mul", "x y -- x*y"},
	{'/', "div", "x y -- x/y"},
	{'%', "mod", "x y -- x%y"},
	{'h', "scale", "x y z -- x*y/z"},
	{'n', "neg", "x -- -x"},

	// Comparison. Results are canonical booleans (-1/0).
	{'=', "eq", "x y -- x==y"},
	{'#', "ne", "x y -- x!=y"},
	{'<', "lt", "x y -- x<y"},
	{'>', "gt", "x y -- x>y"},
	{'F', "false", "-- 0"},
	{'T', "true", "-- -1"},

	// Bitwise.
	{'~', "not", "x -- ~x"},
	{'&', "and", "x y -- x&y"},
	{'|', "or", "x y -- x|y"},
	{'^', "xor", "x y -- x^y"},

	// Memory.
	{'@', "fetch", "addr -- val"},
	{'!', "store", "val addr --"},

	// Stack.
	{'u', "dup", "x -- x x"},
	{'q', "?dup", "x -- x x | 0"},
	{'d', "drop", "x --"},
	{'c', "ndrop", "xn..x1 n --"},
	{'o', "over", "x y -- x y x"},
	{'s', "swap", "x y -- y x"},
	{'r', "rot", "x y z -- y z x"},
	{'p', "pick", "xn..x1 n -- xn..x1 xn"},
	{'g', "roll", "xn..x1 n -- xn-1..x1 xn"},
	{'j', "depth", "-- n"},
	{'C', "clear", "xn..x1 --"},

	// Frame.
	{'\\', "frame", "n --"},
	{'$', "local", "n -- addr"},

	// Tokenizer forms.
	{'{', "block", "-- block"},
	{'}', "end", "--"},
	{'(', "string", "--"},
	{'[', "mark", "--"},
	{']', "count", "-- n"},
	{'`', "ident", "-- addr"},
	{'\'', "char", "-- char"},
	{';', "def", "addr block --"},

	// Control.
	{'i', "if", "flag block --"},
	{'e', "ifelse", "flag if else --"},
	{'l', "loop", "n block --"},
	{'w', "while", "block --"},
	{'x', "exec", "script --"},
	{':', "call", "addr --"},
	{'y', "yield", "--"},

	// Stream I/O.
	{'.', "print", "x --"},
	{'b', "base", "base --"},
	{'m', "cr", "--"},
	{'v', "emit", "char --"},
	{'k', "key", "-- char"},
	{'K', "?key", "-- [char -1] | 0"},
	{'?', "value", "addr --"},
	{'t', "name", "addr -- flag"},
	{'S', "stack", "--"},
	{'Z', "trace", "--"},

	// Board.
	{'A', "adc", "pin -- sample"},
	{'D', "delay", "ms --"},
	{'E', "expired", "period addr -- flag"},
	{'H', "high", "pin --"},
	{'I', "input", "pin --"},
	{'L', "low", "pin --"},
	{'M', "millis", "-- ms"},
	{'N', "nop", "--"},
	{'O', "output", "pin --"},
	{'P', "pwm", "val pin --"},
	{'R', "read", "pin -- flag"},
	{'U', "pullup", "pin --"},
	{'W', "write", "val pin --"},
	{'X', "toggle", "pin --"},

	// Dictionary persistence.
	{'z', "persist", "addr --"},
	{'a', "dict", "-- bytes entries"},
	{'f', "forget", "addr --"},

	// Host extension.
	{'_', "trap", "--"},
}
