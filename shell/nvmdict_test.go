package shell_test

import (
	"testing"

	"go.creack.net/charsh/board"
	"go.creack.net/charsh/op"
	"go.creack.net/charsh/shell"
)

func TestNVMDictionaryPersists(t *testing.T) {
	nvm := board.NewMemNVM(512)

	sh, _ := newShell(t, shell.Config{NVM: nvm})
	run(t, sh, "42`x! `x z")
	run(t, sh, "`y d 7`y! `y z")

	// A fresh shell over the same store sees the persisted entries.
	sh2, _ := newShell(t, shell.Config{NVM: nvm})
	if sh2.Entries() != 2 {
		t.Fatalf("entries after reload: got %d, want 2", sh2.Entries())
	}
	if idx := sh2.Lookup("x"); idx != 0 {
		t.Fatalf("lookup(x): got %d, want 0", idx)
	}
	if got := sh2.Read(0); got != 42 {
		t.Errorf("persisted x: got %d, want 42", got)
	}
	if got := sh2.Read(1); got != 7 {
		t.Errorf("persisted y: got %d, want 7", got)
	}
}

func TestNVMDictionaryBlankImage(t *testing.T) {
	sh, _ := newShell(t, shell.Config{NVM: board.NewMemNVM(512)})
	if sh.Entries() != 0 {
		t.Fatalf("blank image entries: got %d, want 0", sh.Entries())
	}

	// The header is initialized on construct: dp points at the heap.
	run(t, sh, "a")
	wantStack(t, sh, shell.Value(op.NVMHeapOffset(op.VarMax)), 0)
}

func TestNVMDictionaryUnpersistedValueStaysVolatile(t *testing.T) {
	nvm := board.NewMemNVM(512)

	sh, _ := newShell(t, shell.Config{NVM: nvm})
	run(t, sh, "42`x!") // No z: the cell is not written back.

	sh2, _ := newShell(t, shell.Config{NVM: nvm})
	if sh2.Entries() != 1 {
		t.Fatalf("entries: got %d, want 1", sh2.Entries())
	}
	if got := sh2.Read(0); got != 0 {
		t.Errorf("unpersisted value: got %d, want 0", got)
	}
}

func TestNVMDictionaryCellWidth(t *testing.T) {
	nvm := board.NewMemNVM(512)

	sh, _ := newShell(t, shell.Config{NVM: nvm})
	// Persisted cells are 16-bit: values are truncated on write and
	// sign-extended on load.
	sh.Def("big", 70000)
	run(t, sh, "`big z")
	sh.Def("neg", -2)
	run(t, sh, "`neg z")

	sh2, _ := newShell(t, shell.Config{NVM: nvm})
	bigVal := int32(70000)
	wantTruncated := int16(bigVal)
	if got := sh2.Read(0); got != shell.Value(wantTruncated) {
		t.Errorf("truncated value: got %d, want %d", got, wantTruncated)
	}
	if got := sh2.Read(1); got != -2 {
		t.Errorf("negative value: got %d, want -2", got)
	}
}

func TestNVMDictionaryForgetReclaimsHeap(t *testing.T) {
	nvm := board.NewMemNVM(512)

	sh, _ := newShell(t, shell.Config{NVM: nvm})
	run(t, sh, "`first d `second d")
	run(t, sh, "a")
	dp := sh.Stack()[0]
	run(t, sh, "C 1f a")
	wantStack(t, sh, shell.Value(op.NVMHeapOffset(op.VarMax)+len("first")+1), 1)
	if got := sh.Stack()[0]; got >= dp {
		t.Errorf("heap not reclaimed: dp %d, was %d", got, dp)
	}

	// The forget survives a reload.
	sh2, _ := newShell(t, shell.Config{NVM: nvm})
	if sh2.Entries() != 1 {
		t.Errorf("entries after reload: got %d, want 1", sh2.Entries())
	}
	if sh2.Lookup("second") != -1 {
		t.Error("forgotten entry still resolves after reload")
	}
}
