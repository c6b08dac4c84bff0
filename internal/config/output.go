package config

import (
	"path/filepath"
	"strings"
)

// DefaultOutputFileName derives the output file name for a compiled
// target: the base name with its extension replaced by "html" when
// document output is selected, "js" otherwise. An extensionless base
// gets the extension appended. Pure; performs no I/O.
func DefaultOutputFileName(cfg *Config, base string) string {
	ext := ".js"
	if cfg.OutputHTML {
		ext = ".html"
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + ext
}
