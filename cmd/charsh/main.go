// Package main is the serial-console front end of the shell: it runs
// the script files given on the command line, then turns stdin/stdout
// into the shell stream.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"go.creack.net/charsh/assets"
	"go.creack.net/charsh/board"
	"go.creack.net/charsh/cli"
	"go.creack.net/charsh/explain"
	"go.creack.net/charsh/shell"
)

func runFile(sh *shell.Shell, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read script %q: %w", path, err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}
		if err := sh.ExecuteLine([]byte(line + "\n")); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

func run() error {
	opts, err := cli.ParseConfig()
	if err != nil {
		return err
	}

	if opts.Explain {
		for _, path := range opts.Scripts {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read script %q: %w", path, err)
			}
			fmt.Printf("%s:\n%s", path, explain.Annotate(string(data)))
		}
		return nil
	}

	cfg := shell.Config{
		StackMax:    opts.StackMax,
		VarMax:      opts.VarMax,
		FullOpNames: opts.FullNames,
		Board:       board.NewSim(opts.Pins),
	}
	var nvm *board.FileNVM
	if opts.NVMPath != "" {
		nvm, err = board.OpenFileNVM(opts.NVMPath, opts.NVMSize)
		if err != nil {
			return err
		}
		cfg.NVM = nvm
	}

	stream := shell.NewIOStream(os.Stdin, os.Stdout)
	sh := shell.New(stream, cfg)
	sh.SetTrace(opts.Trace)

	// The embedded examples are available as `<name>: calls.
	for name, src := range assets.Scripts() {
		sh.DefScript(name, src)
	}

	for _, path := range opts.Scripts {
		if err := runFile(sh, path); err != nil {
			return err
		}
	}

	banner := color.New(color.FgCyan)
	errc := color.New(color.FgRed)
	banner.Println("charsh: character script shell (ctrl-d to exit)")

	var buf []byte
	for {
		if !sh.ReadLine(&buf) {
			if stream.EOF() {
				break
			}
			time.Sleep(2 * time.Millisecond)
			continue
		}
		if err := sh.ExecuteLine(buf); err != nil {
			errc.Fprintf(os.Stderr, "? %s\n", err)
		}
		buf = buf[:0]
	}

	if nvm != nil {
		if err := nvm.Err(); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	log.SetFlags(0)
	if err := run(); err != nil {
		log.Fatalf("fail: %s.", err)
	}
}
