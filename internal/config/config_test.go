package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doofin/haste-compiler/internal/codegen"
)

func TestDefaultConservativeBaseline(t *testing.T) {
	cfg := Default("/usr/lib/haste", "/usr/lib/haste/target")

	// Code shape: always-correct policies.
	assert.Equal(t, codegen.StartOnLoad, cfg.AppStart.Mode())
	assert.Equal(t, "(x | 0)", cfg.WrapIntResult("x"))
	assert.Equal(t, "imul(a, b)", cfg.MultiplyInt("a", "b"))
	assert.Equal(t, "Main", cfg.MainModule)
	assert.Equal(t, "main", cfg.MainFunc)

	// Link and output.
	assert.True(t, cfg.PerformLink)
	assert.Equal(t, LinkExecutable, cfg.LinkMode)
	assert.False(t, cfg.OutputHTML)
	assert.True(t, cfg.UseStrict)
	require.NotNil(t, cfg.OutputFileName)
	assert.Equal(t, "app.js", cfg.OutputFileName(&cfg, "app.hs"))

	// Optimizations: cheap ones on, expensive ones opt-in.
	assert.True(t, cfg.Optimize)
	assert.True(t, cfg.ProperTailCalls)
	assert.False(t, cfg.WholeProgramOpts)
	assert.False(t, cfg.FlowAnalysis)

	// Diagnostics all off.
	assert.False(t, cfg.Verbose)
	assert.False(t, cfg.TracePrimops)
	assert.False(t, cfg.AnnotateSymbols)
	assert.False(t, cfg.AnnotateExternals)
	assert.Nil(t, cfg.Trace)
}

func TestDefaultUsesExplicitPaths(t *testing.T) {
	cfg := Default("/opt/haste/lib", "/opt/haste/lib/js")
	assert.Equal(t, "/opt/haste/lib", cfg.LibDir)
	assert.Equal(t, "/opt/haste/lib/js", cfg.TargetLibDir)
	for _, lib := range cfg.RuntimeLibs {
		assert.Equal(t, "/opt/haste/lib", filepath.Dir(lib))
	}
}

func TestStandardRuntimeLibs(t *testing.T) {
	libs := StandardRuntimeLibs("lib")
	require.Len(t, libs, 17)
	// rts.js bootstraps the heap and must come first.
	assert.Equal(t, filepath.Join("lib", "rts.js"), libs[0])
	assert.NotContains(t, libs, filepath.Join("lib", "debug.js"))
}

func TestDebugRuntimeLib(t *testing.T) {
	assert.Equal(t, filepath.Join("lib", "debug.js"), DebugRuntimeLib("lib"))
}

func TestDefaultReturnsIndependentRecords(t *testing.T) {
	a := Default("lib", "target")
	b := Default("lib", "target")

	a.RuntimeLibs[0] = "clobbered"
	a.Optimize = false

	assert.Equal(t, filepath.Join("lib", "rts.js"), b.RuntimeLibs[0])
	assert.True(t, b.Optimize)
}

func TestOverrideByCopy(t *testing.T) {
	base := Default("lib", "target")

	custom := base
	custom.AppStart = codegen.ASAP()
	custom.MultiplyInt = codegen.FastMultiply

	// The base record is untouched by the copy's overrides.
	assert.Equal(t, codegen.StartOnLoad, base.AppStart.Mode())
	assert.Equal(t, "imul(a, b)", base.MultiplyInt("a", "b"))
	assert.Equal(t, "(a * b)", custom.MultiplyInt("a", "b"))
}
