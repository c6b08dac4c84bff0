package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputFileNameScript(t *testing.T) {
	cfg := Default("lib", "target")
	assert.Equal(t, "program.js", DefaultOutputFileName(&cfg, "program.hs"))
	assert.Equal(t, "a.b.js", DefaultOutputFileName(&cfg, "a.b.c"))
	assert.Equal(t, filepath.Join("out", "app.js"), DefaultOutputFileName(&cfg, filepath.Join("out", "app.hs")))
}

func TestOutputFileNameDocument(t *testing.T) {
	cfg := Default("lib", "target")
	cfg.OutputHTML = true
	assert.Equal(t, "program.html", DefaultOutputFileName(&cfg, "program.hs"))
	assert.Equal(t, "program.html", DefaultOutputFileName(&cfg, "program.js"))
}

func TestOutputFileNameExtensionless(t *testing.T) {
	cfg := Default("lib", "target")
	assert.Equal(t, "program.js", DefaultOutputFileName(&cfg, "program"))

	cfg.OutputHTML = true
	assert.Equal(t, "program.html", DefaultOutputFileName(&cfg, "program"))
}
