package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doofin/haste-compiler/internal/codegen"
)

// writeSettings writes a settings file into a temp dir and returns its path.
func writeSettings(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "haste.cue")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadFileOverridesSubset(t *testing.T) {
	path := writeSettings(t, `
haste: {
	start:         "onexec"
	optimize:      false
	whole_program: true
	with_js:       ["jquery.js", "ui.js"]
}
`)

	base := Default("lib", "target")
	cfg, err := LoadFile(path, base)
	require.NoError(t, err)

	assert.Equal(t, codegen.StartASAP, cfg.AppStart.Mode())
	assert.False(t, cfg.Optimize)
	assert.True(t, cfg.WholeProgramOpts)
	assert.Equal(t, []string{"jquery.js", "ui.js"}, cfg.JSExternals)

	// Absent keys keep the base values.
	assert.True(t, cfg.ProperTailCalls)
	assert.Equal(t, "imul(a, b)", cfg.MultiplyInt("a", "b"))

	// The base record is never mutated.
	assert.Equal(t, codegen.StartOnLoad, base.AppStart.Mode())
	assert.True(t, base.Optimize)
}

func TestLoadFileCustomStartTemplate(t *testing.T) {
	path := writeSettings(t, `
haste: start: "document.addEventListener('DOMContentLoaded', $HASTE_MAIN);"
`)

	cfg, err := LoadFile(path, Default("lib", "target"))
	require.NoError(t, err)
	assert.Equal(t, codegen.StartCustom, cfg.AppStart.Mode())
	assert.Equal(t,
		"document.addEventListener('DOMContentLoaded', hasteMain);",
		cfg.AppStart.Render("hasteMain"))
}

func TestLoadFileMainSymbol(t *testing.T) {
	path := writeSettings(t, `haste: main: "My.App.start"`)

	cfg, err := LoadFile(path, Default("lib", "target"))
	require.NoError(t, err)
	assert.Equal(t, "My.App", cfg.MainModule)
	assert.Equal(t, "start", cfg.MainFunc)
}

func TestLoadFileBadMainSymbol(t *testing.T) {
	path := writeSettings(t, `haste: main: "main"`)

	_, err := LoadFile(path, Default("lib", "target"))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeBadValue, loadErr.Code)
}

func TestLoadFileUnsafeInts(t *testing.T) {
	path := writeSettings(t, `haste: unsafe_ints: true`)

	cfg, err := LoadFile(path, Default("lib", "target"))
	require.NoError(t, err)
	assert.Equal(t, "(a * b)", cfg.MultiplyInt("a", "b"))
	assert.Equal(t, "x", cfg.WrapIntResult("x"))
}

func TestLoadFileFastMultiplyKeepsTruncation(t *testing.T) {
	path := writeSettings(t, `haste: fast_multiply: true`)

	cfg, err := LoadFile(path, Default("lib", "target"))
	require.NoError(t, err)
	assert.Equal(t, "(a * b)", cfg.MultiplyInt("a", "b"))
	assert.Equal(t, "(x | 0)", cfg.WrapIntResult("x"))
}

func TestLoadFileLibraryMode(t *testing.T) {
	path := writeSettings(t, `haste: library: true`)

	cfg, err := LoadFile(path, Default("lib", "target"))
	require.NoError(t, err)
	assert.Equal(t, LinkLibrary, cfg.LinkMode)
}

func TestLoadFileDebugLib(t *testing.T) {
	path := writeSettings(t, `haste: debug_lib: true`)

	cfg, err := LoadFile(path, Default("lib", "target"))
	require.NoError(t, err)
	require.NotEmpty(t, cfg.RuntimeLibs)
	assert.Equal(t, DebugRuntimeLib("lib"), cfg.RuntimeLibs[len(cfg.RuntimeLibs)-1])
}

func TestLoadFileUnknownKey(t *testing.T) {
	path := writeSettings(t, `haste: optimise: true`)

	_, err := LoadFile(path, Default("lib", "target"))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeUnknownKey, loadErr.Code)
	assert.Contains(t, loadErr.Message, "optimise")
}

func TestLoadFileBadValueType(t *testing.T) {
	path := writeSettings(t, `haste: optimize: "yes"`)

	_, err := LoadFile(path, Default("lib", "target"))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeBadValue, loadErr.Code)
}

func TestLoadFileMissingHasteStruct(t *testing.T) {
	path := writeSettings(t, `settings: optimize: true`)

	_, err := LoadFile(path, Default("lib", "target"))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeParse, loadErr.Code)
}

func TestLoadFileMissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.cue"), Default("lib", "target"))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
}

func TestLoadErrorRendersPosition(t *testing.T) {
	err := &LoadError{Code: ErrCodeBadValue, Message: "boom"}
	assert.Equal(t, "SETTINGS_BAD_VALUE: boom", err.Error())
}

func TestLoadFileErrorLeavesBaseIntact(t *testing.T) {
	path := writeSettings(t, `haste: optimise: true`)

	base := Default("lib", "target")
	cfg, err := LoadFile(path, base)
	require.Error(t, err)
	assert.True(t, cfg.Optimize)

	// errors.Is on a positioned error still finds the LoadError.
	var loadErr *LoadError
	assert.True(t, errors.As(err, &loadErr))
}
