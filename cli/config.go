package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// fileConfig is the charsh.toml schema. Every field is optional.
type fileConfig struct {
	Stack     int    `toml:"stack"`
	Vars      int    `toml:"vars"`
	Pins      int    `toml:"pins"`
	Trace     bool   `toml:"trace"`
	FullNames bool   `toml:"full_names"`
	NVM       string `toml:"nvm"`
	NVMSize   int    `toml:"nvm_size"`
}

// loadFile merges the config file at path into o. A missing file is
// only an error when the user named it explicitly.
func loadFile(path string, o *Options, explicit bool) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("failed to load config %q: %w", path, err)
	}
	if fc.Stack > 0 {
		o.StackMax = fc.Stack
	}
	if fc.Vars > 0 {
		o.VarMax = fc.Vars
	}
	if fc.Pins > 0 {
		o.Pins = fc.Pins
	}
	if fc.Trace {
		o.Trace = true
	}
	if fc.FullNames {
		o.FullNames = true
	}
	if fc.NVM != "" {
		o.NVMPath = fc.NVM
	}
	if fc.NVMSize > 0 {
		o.NVMSize = fc.NVMSize
	}
	return nil
}
