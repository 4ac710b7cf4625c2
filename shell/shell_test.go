package shell_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"go.creack.net/charsh/board"
	"go.creack.net/charsh/op"
	"go.creack.net/charsh/shell"
)

// newShell returns a shell over a captured output buffer and a
// deterministic simulated board: delays don't sleep and the clock
// advances 10ms per read.
func newShell(t *testing.T, cfg shell.Config) (*shell.Shell, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	if cfg.Board == nil {
		sim := board.NewSim(20)
		sim.SleepFn = func(time.Duration) {}
		ms := uint32(0)
		sim.MillisFn = func() uint32 { ms += 10; return ms }
		cfg.Board = sim
	}
	return shell.New(shell.NewChanStream(out), cfg), out
}

func run(t *testing.T, sh *shell.Shell, line string) {
	t.Helper()
	if err := sh.ExecuteLine([]byte(line + "\n")); err != nil {
		t.Fatalf("execute %q: %s", line, err)
	}
}

func wantStack(t *testing.T, sh *shell.Shell, want ...shell.Value) {
	t.Helper()
	got := sh.Stack()
	if len(got) != len(want) {
		t.Fatalf("stack depth: got %d %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stack: got %v, want %v", got, want)
		}
	}
}

func TestScenarios(t *testing.T) {
	for _, tc := range []struct {
		name    string
		scripts []string
		stack   []shell.Value
		out     string
	}{
		{"add-print", []string{"1 2 3 +."}, []shell.Value{1}, "5 "},
		{"rot", []string{"1 2 3r"}, []shell.Value{2, 3, 1}, ""},
		{"divmod", []string{"10 3 / 10 3 %"}, []shell.Value{3, 1}, ""},
		{"block-exec", []string{"5 { 2 * } x"}, []shell.Value{10}, ""},
		{"ifelse-true", []string{"T { F } { T } e"}, []shell.Value{0}, ""},
		{"ifelse-false", []string{"F { F } { T } e"}, []shell.Value{-1}, ""},
		{"variable", []string{"42`x!`x@"}, []shell.Value{42}, ""},
		{"bases", []string{"0xff 0b101 &"}, []shell.Value{5}, ""},
		{"print-string", []string{"(hello) 7"}, []shell.Value{7}, "hello"},
		{"marker", []string{"[ 1 2 3 ]"}, []shell.Value{1, 2, 3, 3}, ""},
		{"negative", []string{"-7 3 -"}, []shell.Value{-10}, ""},
		{"scale", []string{"1000 3000 100h"}, []shell.Value{30000}, ""},
		{"if-taken", []string{"T {42} i"}, []shell.Value{42}, ""},
		{"if-skipped", []string{"F {42} i"}, nil, ""},
		{"loop", []string{"0 10{1+u.}l d"}, nil, "1 2 3 4 5 6 7 8 9 10 "},
		{"while", []string{"5 { 1- u }w"}, []shell.Value{0}, ""},
		{"char-literal", []string{"'A"}, []shell.Value{65}, ""},
		{"emit", []string{"'B v"}, nil, "B"},
		{"nested-blocks", []string{"3 {{1+}x 2*}x"}, []shell.Value{8}, ""},
		{"nested-string", []string{"(a(b)c)"}, nil, "a(b)c"},
		{"def-and-call", []string{"`f { 2 * } ;", "5 `f @ x", "7 `f :"}, []shell.Value{10, 14}, ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			sh, out := newShell(t, shell.Config{})
			for _, line := range tc.scripts {
				run(t, sh, line)
			}
			wantStack(t, sh, tc.stack...)
			if out.String() != tc.out {
				t.Errorf("output: got %q, want %q", out.String(), tc.out)
			}
		})
	}
}

func TestUnknownOpcode(t *testing.T) {
	sh, out := newShell(t, shell.Config{})
	sh.SetTrace(true)

	err := sh.ExecuteLine([]byte("1 2 Q\n"))
	if err == nil {
		t.Fatal("expected failure")
	}
	var serr *shell.ScriptError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *ScriptError, got %T", err)
	}
	if serr.Op != 'Q' {
		t.Errorf("failing op: got %q, want 'Q'", serr.Op)
	}
	if serr.Offset() != 4 {
		t.Errorf("failing offset: got %d, want 4", serr.Offset())
	}
	// The caret dump underlines the failing position.
	if !strings.Contains(out.String(), "1 2 Q\n    ^--?\n") {
		t.Errorf("missing caret dump in output:\n%s", out.String())
	}
}

func TestFailurePropagation(t *testing.T) {
	sh, _ := newShell(t, shell.Config{})

	// The inner block fails; the outer exec must report the inner
	// position unchanged.
	err := sh.ExecuteLine([]byte("T { Q } i 5\n"))
	if err == nil {
		t.Fatal("expected failure")
	}
	var serr *shell.ScriptError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *ScriptError, got %T", err)
	}
	if serr.Op != 'Q' {
		t.Errorf("failing op: got %q, want 'Q'", serr.Op)
	}
	if serr.Offset() != 1 {
		t.Errorf("failing offset within block: got %d, want 1", serr.Offset())
	}
}

func TestUnmatchedBlock(t *testing.T) {
	sh, _ := newShell(t, shell.Config{})
	err := sh.ExecuteLine([]byte("1 {2\n"))
	var serr *shell.ScriptError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *ScriptError, got %v", err)
	}
	if serr.Op != '{' || serr.Offset() != 2 {
		t.Errorf("got op %q offset %d, want '{' at 2", serr.Op, serr.Offset())
	}
}

func TestTraceOutput(t *testing.T) {
	sh, out := newShell(t, shell.Config{})
	sh.SetTrace(true)

	// Literals, spaces and commas don't count as cycles; '+', 'm' and
	// the newline (shown as N) do.
	run(t, sh, "1 2, + m")
	lines := strings.Count(out.String(), ":D:")
	if lines != 3 {
		t.Errorf("trace lines: got %d, want 3:\n%s", lines, out.String())
	}
	if sh.Cycle() != 0 {
		t.Errorf("cycle counter not reset: %d", sh.Cycle())
	}
	if !strings.Contains(out.String(), ":+:") {
		t.Errorf("missing '+' trace line:\n%s", out.String())
	}
}

func TestTraceFullNames(t *testing.T) {
	sh, out := newShell(t, shell.Config{FullOpNames: true})
	sh.SetTrace(true)
	run(t, sh, "1 2 +")
	if !strings.Contains(out.String(), ":add:") {
		t.Errorf("expected long opcode name in trace:\n%s", out.String())
	}
}

func TestTraceToggleOpcode(t *testing.T) {
	sh, _ := newShell(t, shell.Config{})
	run(t, sh, "Z")
	if !sh.GetTrace() {
		t.Error("Z did not enable trace")
	}
	run(t, sh, "Z")
	if sh.GetTrace() {
		t.Error("Z did not disable trace")
	}
}

func TestPrintBase(t *testing.T) {
	sh, out := newShell(t, shell.Config{})
	run(t, sh, "16b 255. 10b 255.")
	if got, want := out.String(), "0xff 255 "; got != want {
		t.Errorf("output: got %q, want %q", got, want)
	}
}

func TestStackPrint(t *testing.T) {
	sh, out := newShell(t, shell.Config{})
	run(t, sh, "1 2 3 S")
	if got, want := out.String(), "3: 1 2 3\n"; got != want {
		t.Errorf("output: got %q, want %q", got, want)
	}
}

func TestROMScript(t *testing.T) {
	sh, _ := newShell(t, shell.Config{})

	p := sh.AddROM("1 2 +")
	if p >= 0 {
		t.Fatalf("ROM pointer not negative: %d", p)
	}
	if err := sh.Execute(p); err != nil {
		t.Fatal(err)
	}
	wantStack(t, sh, 3)

	// Block capture inside ROM keeps the ROM tag.
	sh2, _ := newShell(t, shell.Config{})
	if err := sh2.Execute(sh2.AddROM("5{3+}x")); err != nil {
		t.Fatal(err)
	}
	wantStack(t, sh2, 8)
}

func TestDefScript(t *testing.T) {
	sh, _ := newShell(t, shell.Config{})
	sh.DefScript("dbl", "2*")
	run(t, sh, "21`dbl:")
	wantStack(t, sh, 42)
}

func TestNVMScript(t *testing.T) {
	nvm := board.NewMemNVM(512)
	sh, _ := newShell(t, shell.Config{NVM: nvm})

	// Hand-place a script in the NVM heap area and run it through its
	// tagged pointer.
	const addr = 400
	nvm.UpdateBlock([]byte("7 7+\x00"), addr)
	if err := sh.Execute(shell.Value(op.NVMBase + addr)); err != nil {
		t.Fatal(err)
	}
	wantStack(t, sh, 14)
}

func TestTrapHook(t *testing.T) {
	sh, _ := newShell(t, shell.Config{})
	sh.Trap = func(s *shell.Shell, ip shell.Value) (shell.Value, bool) {
		// Consume one byte and push its code.
		c := s.ScriptByte(ip)
		if c == 0 {
			return 0, false
		}
		s.Push(shell.Value(c))
		return ip + 1, true
	}
	run(t, sh, "_A_B+")
	wantStack(t, sh, 'A'+'B')
}

func TestTrapDefaultFails(t *testing.T) {
	sh, _ := newShell(t, shell.Config{})
	err := sh.ExecuteLine([]byte("1_\n"))
	var serr *shell.ScriptError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *ScriptError, got %v", err)
	}
	if serr.Op != '_' {
		t.Errorf("failing op: got %q, want '_'", serr.Op)
	}
}

func TestReadLine(t *testing.T) {
	out := &bytes.Buffer{}
	stream := shell.NewChanStream(out)
	sh := shell.New(stream, shell.Config{})

	stream.Feed([]byte("1 2+\n"))
	var buf []byte
	done := false
	for range 16 {
		if sh.ReadLine(&buf) {
			done = true
			break
		}
	}
	if !done {
		t.Fatal("ReadLine never saw the newline")
	}
	if string(buf) != "1 2+\n" {
		t.Fatalf("assembled line: got %q", buf)
	}
	if err := sh.ExecuteLine(buf); err != nil {
		t.Fatal(err)
	}
	wantStack(t, sh, 3)
}

func TestNonBlockingRead(t *testing.T) {
	out := &bytes.Buffer{}
	stream := shell.NewChanStream(out)
	sh := shell.New(stream, shell.Config{})

	// Empty stream: K pushes 0.
	if err := sh.ExecuteLine([]byte("K\n")); err != nil {
		t.Fatal(err)
	}
	wantStack(t, sh, 0)

	stream.Feed([]byte("Z"))
	if err := sh.ExecuteLine([]byte("d K\n")); err != nil {
		t.Fatal(err)
	}
	wantStack(t, sh, 'Z', -1)
}

func TestBlockingRead(t *testing.T) {
	out := &bytes.Buffer{}
	stream := shell.NewChanStream(out)
	sh := shell.New(stream, shell.Config{})

	go func() {
		time.Sleep(10 * time.Millisecond)
		stream.Feed([]byte("q"))
	}()
	if err := sh.ExecuteLine([]byte("k\n")); err != nil {
		t.Fatal(err)
	}
	wantStack(t, sh, 'q')
}

func TestTimerExpired(t *testing.T) {
	sim := board.NewSim(4)
	ms := uint32(0)
	sim.MillisFn = func() uint32 { return ms }
	sh, _ := newShell(t, shell.Config{Board: sim})

	// The slot at addr 0 starts zeroed, so the first check past the
	// period triggers and rearms the timer.
	ms = 200
	run(t, sh, "100 0 E")
	wantStack(t, sh, -1)
	run(t, sh, "C")

	ms = 250
	run(t, sh, "100 0 E")
	wantStack(t, sh, 0)
	run(t, sh, "C")

	ms = 350
	run(t, sh, "100 0 E")
	wantStack(t, sh, -1)
}
