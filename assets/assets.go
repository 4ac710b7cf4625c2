// Package assets embeds the example scripts shipped with the shell.
// Each file is one script; the front ends define a dictionary entry per
// file so that e.g. `blink: runs scripts/blink.csh.
package assets

import (
	"embed"
	"strings"
)

//go:embed scripts
var scriptsFS embed.FS

// Scripts returns the embedded example scripts, keyed by name (file
// base without extension).
func Scripts() map[string]string {
	entries, err := scriptsFS.ReadDir("scripts")
	if err != nil {
		return nil
	}
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		buf, err := scriptsFS.ReadFile("scripts/" + e.Name())
		if err != nil {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".csh")
		out[name] = strings.TrimRight(string(buf), "\n")
	}
	return out
}
