package config

import (
	"path/filepath"

	"github.com/doofin/haste-compiler/internal/codegen"
)

// LinkMode selects what the linker produces.
type LinkMode int

const (
	// LinkExecutable produces a directly runnable program.
	LinkExecutable LinkMode = iota

	// LinkLibrary produces a reusable bundle. Downstream phases may
	// ignore the start policy in this mode; no validation enforces that.
	LinkLibrary
)

// Dumper is the capability the diagnostic trace hook needs from compiler
// internals: render yourself as human-readable text. Which internal types
// satisfy it is up to the surrounding compiler.
type Dumper interface {
	Dump() string
}

// Config is the option record threaded through a compilation run. It is
// built once per invocation and read by every downstream phase;
// customization copies the default instance and overrides fields, it
// never mutates a record other phases can see. No field-interdependency
// validation is performed — nonsensical combinations are the caller's
// problem.
type Config struct {
	// Paths.

	// LibDir is the system library directory holding the runtime files.
	LibDir string
	// TargetLibDir is the per-target library directory.
	TargetLibDir string
	// UserLibDirs are extra library search paths, highest priority first.
	UserLibDirs []string
	// RuntimeLibs is the ordered list of runtime files the linker
	// bundles before the compiled program. Opaque here; the linker
	// reads them.
	RuntimeLibs []string
	// JSExternals are script files spliced verbatim into the output,
	// in order. Opaque pass-through.
	JSExternals []string
	// ClosurePath locates an external minifier to run over the output.
	// Empty means no minification. Uninterpreted here.
	ClosurePath string
	// ClosureFlags are extra arguments for the minifier.
	ClosureFlags []string

	// Link and output shape.

	// PerformLink links an executable immediately after compilation.
	PerformLink bool
	// LinkMode selects executable or library output.
	LinkMode LinkMode
	// OutputHTML embeds the program in an HTML document instead of a
	// bare script, and switches the output extension accordingly.
	OutputHTML bool
	// WrapNamespace wraps the whole program in its own namespace so it
	// does not leak symbols into the host page.
	WrapNamespace bool
	// UseStrict emits a strict-mode prologue.
	UseStrict bool
	// PrettyPrint emits readable output with indentation and line
	// breaks instead of the compact default.
	PrettyPrint bool
	// OutputFileName derives the on-disk output name from a base name.
	// Pure; callers write the file.
	OutputFileName func(cfg *Config, base string) string

	// Code-shape policies.

	// AppStart decides how the entry point is invoked at startup. The
	// linker renders it exactly once per executable target.
	AppStart codegen.StartPolicy
	// MainModule and MainFunc name the entry point whose runtime symbol
	// the linker hands to AppStart.
	MainModule string
	MainFunc   string
	// WrapIntResult rewrites the result of an addition/subtraction/shift
	// class primitive to restore 32-bit wrap-around.
	WrapIntResult func(expr string) string
	// MultiplyInt encodes a 32-bit integer multiplication.
	MultiplyInt func(a, b string) string
	// FullUnicode selects the complete unicode tables over the cheap
	// ASCII-biased ones. Costs output size; the linker picks the
	// runtime file.
	FullUnicode bool

	// Optimization toggles.

	// Optimize enables the generic optimization passes.
	Optimize bool
	// ProperTailCalls guarantees tail calls run in constant stack space.
	ProperTailCalls bool
	// LoopifyTailRecursion turns self tail calls into loops.
	LoopifyTailRecursion bool
	// WholeProgramOpts enables cross-module optimization. Opt-in; costs
	// link-time memory and wall clock.
	WholeProgramOpts bool
	// FlowAnalysis enables flow-analysis driven optimizations. Opt-in.
	FlowAnalysis bool
	// TailChainBound caps how many tail calls run before bouncing on
	// the trampoline.
	TailChainBound int
	// OverwriteScrutinees reuses scrutinee storage in case expressions.
	OverwriteScrutinees bool

	// Diagnostics.

	// Verbose enables progress chatter on stderr.
	Verbose bool
	// TracePrimops logs every primitive operation as it is encoded.
	TracePrimops bool
	// AnnotateSymbols comments emitted definitions with their source
	// names.
	AnnotateSymbols bool
	// AnnotateExternals marks spliced external code in the output.
	AnnotateExternals bool
	// Trace, when non-nil, receives internal state dumps from phases
	// that have something to show. Nil disables tracing entirely.
	Trace func(phase string, d Dumper)
}

// standardRuntimeFiles is the fixed ordered runtime bundle. Order
// matters: later files refer to definitions from earlier ones.
var standardRuntimeFiles = []string{
	"rts.js",
	"floatdecode.js",
	"endian.js",
	"stdlib.js",
	"MVar.js",
	"StableName.js",
	"Integer.js",
	"long.js",
	"md5.js",
	"array.js",
	"pointers.js",
	"cheap-unicode.js",
	"Handle.js",
	"Weak.js",
	"Foreign.js",
	"spt.js",
	"Canvas.js",
}

// debugRuntimeFile is the optional tracing/assertion library.
const debugRuntimeFile = "debug.js"

// StandardRuntimeLibs returns the fixed runtime bundle resolved against
// the system library directory.
func StandardRuntimeLibs(libDir string) []string {
	libs := make([]string, len(standardRuntimeFiles))
	for i, f := range standardRuntimeFiles {
		libs[i] = filepath.Join(libDir, f)
	}
	return libs
}

// DebugRuntimeLib returns the optional debug library path.
func DebugRuntimeLib(libDir string) string {
	return filepath.Join(libDir, debugRuntimeFile)
}

// Default returns the conservative baseline configuration: every choice
// favors correctness over speed, diagnostics off. Install paths are
// passed explicitly so the record can be built without environment
// lookups.
func Default(libDir, targetLibDir string) Config {
	return Config{
		LibDir:          libDir,
		TargetLibDir:    targetLibDir,
		RuntimeLibs:     StandardRuntimeLibs(libDir),
		PerformLink:     true,
		LinkMode:        LinkExecutable,
		UseStrict:       true,
		OutputFileName:  DefaultOutputFileName,
		AppStart:        codegen.OnLoad(),
		MainModule:      "Main",
		MainFunc:        "main",
		WrapIntResult:   codegen.TruncateInt,
		MultiplyInt:     codegen.SafeMultiply,
		Optimize:        true,
		ProperTailCalls: true,
		TailChainBound:  10,
	}
}
