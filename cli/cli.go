// Package cli provides the functions to parse the non-standard CLI
// flags shared by the charsh front ends, and the optional charsh.toml
// configuration file.
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.creack.net/charsh/op"
)

// Options is the resolved configuration of a front end.
type Options struct {
	Scripts []string // Script files to execute before the console.

	StackMax  int
	VarMax    int
	Pins      int
	Trace     bool
	FullNames bool
	NVMPath   string // Empty keeps the dictionary volatile.
	NVMSize   int

	Explain bool // Annotate the script files instead of running them.
}

func defaults() *Options {
	return &Options{
		StackMax: op.StackMax,
		VarMax:   op.VarMax,
		Pins:     20,
		NVMSize:  1024,
	}
}

func parse(args []string) (*Options, error) {
	o := defaults()

	// The config file applies first so that flags override it.
	cfgPath := "charsh.toml"
	explicitCfg := false
	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		if args[i] == "-f" && i+1 < len(args) {
			cfgPath = args[i+1]
			explicitCfg = true
			i++
			continue
		}
		rest = append(rest, args[i])
	}
	if err := loadFile(cfgPath, o, explicitCfg); err != nil {
		return nil, err
	}

	for i := 0; i < len(rest); i++ {
		arg := rest[i]
		switch {
		case arg == "-t":
			o.Trace = true
		case arg == "-names":
			o.FullNames = true
		case arg == "-e":
			o.Explain = true
		case arg == "-nvm" && i+1 < len(rest):
			o.NVMPath = rest[i+1]
			i++
		case arg == "-stack" && i+1 < len(rest):
			n, err := strconv.Atoi(rest[i+1])
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("invalid value for -stack flag: %q", rest[i+1])
			}
			o.StackMax = n
			i++
		case arg == "-vars" && i+1 < len(rest):
			n, err := strconv.Atoi(rest[i+1])
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("invalid value for -vars flag: %q", rest[i+1])
			}
			o.VarMax = n
			i++
		case strings.HasPrefix(arg, "-"):
			return nil, fmt.Errorf("unknown flag: %q", arg)
		default:
			o.Scripts = append(o.Scripts, arg)
		}
	}
	return o, nil
}

// ParseConfig parses os.Args and the config file.
func ParseConfig() (*Options, error) {
	o, err := parse(os.Args[1:])
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return o, nil
}
