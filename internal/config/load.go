package config

import (
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/doofin/haste-compiler/internal/codegen"
)

// Settings-file error codes.
const (
	ErrCodeNotFound   = "SETTINGS_NOT_FOUND"
	ErrCodeParse      = "SETTINGS_PARSE"
	ErrCodeUnknownKey = "SETTINGS_UNKNOWN_KEY"
	ErrCodeBadValue   = "SETTINGS_BAD_VALUE"
)

// LoadError is an error in a settings file, with source position when
// the CUE evaluator provides one.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// settingKeys is the closed set of keys the "haste" struct may contain.
var settingKeys = map[string]bool{
	"start":                true,
	"main":                 true,
	"html":                 true,
	"link":                 true,
	"library":              true,
	"namespace":            true,
	"strict":               true,
	"pretty":               true,
	"full_unicode":         true,
	"optimize":             true,
	"proper_tailcalls":     true,
	"loopify":              true,
	"whole_program":        true,
	"flow_analysis":        true,
	"tail_chain_bound":     true,
	"overwrite_scrutinees": true,
	"fast_multiply":        true,
	"unsafe_ints":          true,
	"verbose":              true,
	"trace_primops":        true,
	"annotate_symbols":     true,
	"annotate_externals":   true,
	"lib_dirs":             true,
	"with_js":              true,
	"closure":              true,
	"closure_flags":        true,
	"debug_lib":            true,
}

// LoadFile reads a CUE settings file and returns a copy of base with the
// file's overrides applied. Keys that are absent leave the base value
// untouched; unknown keys are rejected so typos do not silently become
// no-ops. The settings live under a top-level "haste" struct:
//
//	haste: {
//		start:    "onexec"
//		optimize: true
//		with_js:  ["jquery.js"]
//	}
func LoadFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading settings file: %v", err)}
	}

	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return base, formatCUEError(err)
	}

	root := value.LookupPath(cue.ParsePath("haste"))
	if !root.Exists() {
		return base, &LoadError{
			Code:    ErrCodeParse,
			Message: "settings file has no top-level \"haste\" struct",
			Pos:     value.Pos(),
		}
	}

	iter, err := root.Fields()
	if err != nil {
		return base, formatCUEError(err)
	}
	for iter.Next() {
		if !settingKeys[iter.Label()] {
			return base, &LoadError{
				Code:    ErrCodeUnknownKey,
				Message: fmt.Sprintf("unknown setting %q", iter.Label()),
				Pos:     iter.Value().Pos(),
			}
		}
	}

	return applySettings(root, base)
}

// applySettings copies base and overrides each field whose key is
// present. base is passed by value, so the caller's record is never
// mutated.
func applySettings(root cue.Value, base Config) (Config, error) {
	cfg := base

	if s, ok, err := stringSetting(root, "start"); err != nil {
		return base, err
	} else if ok {
		cfg.AppStart = codegen.ParseStartPolicy(s)
	}

	if s, ok, err := stringSetting(root, "main"); err != nil {
		return base, err
	} else if ok {
		mod, fn, err := splitMainSymbol(s, root)
		if err != nil {
			return base, err
		}
		cfg.MainModule, cfg.MainFunc = mod, fn
	}

	boolFields := []struct {
		key string
		dst *bool
	}{
		{"html", &cfg.OutputHTML},
		{"link", &cfg.PerformLink},
		{"namespace", &cfg.WrapNamespace},
		{"strict", &cfg.UseStrict},
		{"pretty", &cfg.PrettyPrint},
		{"full_unicode", &cfg.FullUnicode},
		{"optimize", &cfg.Optimize},
		{"proper_tailcalls", &cfg.ProperTailCalls},
		{"loopify", &cfg.LoopifyTailRecursion},
		{"whole_program", &cfg.WholeProgramOpts},
		{"flow_analysis", &cfg.FlowAnalysis},
		{"overwrite_scrutinees", &cfg.OverwriteScrutinees},
		{"verbose", &cfg.Verbose},
		{"trace_primops", &cfg.TracePrimops},
		{"annotate_symbols", &cfg.AnnotateSymbols},
		{"annotate_externals", &cfg.AnnotateExternals},
	}
	for _, f := range boolFields {
		if b, ok, err := boolSetting(root, f.key); err != nil {
			return base, err
		} else if ok {
			*f.dst = b
		}
	}

	if b, ok, err := boolSetting(root, "library"); err != nil {
		return base, err
	} else if ok && b {
		cfg.LinkMode = LinkLibrary
	}

	if b, ok, err := boolSetting(root, "fast_multiply"); err != nil {
		return base, err
	} else if ok && b {
		cfg.MultiplyInt = codegen.FastMultiply
	}

	// unsafe_ints is the all-or-nothing escape hatch: native multiply
	// and no result truncation.
	if b, ok, err := boolSetting(root, "unsafe_ints"); err != nil {
		return base, err
	} else if ok && b {
		cfg.MultiplyInt = codegen.FastMultiply
		cfg.WrapIntResult = codegen.PassthroughInt
	}

	if n, ok, err := intSetting(root, "tail_chain_bound"); err != nil {
		return base, err
	} else if ok {
		cfg.TailChainBound = n
	}

	if ss, ok, err := stringListSetting(root, "lib_dirs"); err != nil {
		return base, err
	} else if ok {
		cfg.UserLibDirs = ss
	}

	if ss, ok, err := stringListSetting(root, "with_js"); err != nil {
		return base, err
	} else if ok {
		cfg.JSExternals = append(cfg.JSExternals, ss...)
	}

	if s, ok, err := stringSetting(root, "closure"); err != nil {
		return base, err
	} else if ok {
		cfg.ClosurePath = s
	}

	if ss, ok, err := stringListSetting(root, "closure_flags"); err != nil {
		return base, err
	} else if ok {
		cfg.ClosureFlags = ss
	}

	if b, ok, err := boolSetting(root, "debug_lib"); err != nil {
		return base, err
	} else if ok && b {
		cfg.RuntimeLibs = append(cfg.RuntimeLibs, DebugRuntimeLib(cfg.LibDir))
	}

	return cfg, nil
}

// splitMainSymbol splits "Some.Module.main" at the last dot into module
// and function names.
func splitMainSymbol(s string, root cue.Value) (string, string, error) {
	i := strings.LastIndex(s, ".")
	if i <= 0 || i == len(s)-1 {
		return "", "", &LoadError{
			Code:    ErrCodeBadValue,
			Message: fmt.Sprintf("main must look like \"Module.function\", got %q", s),
			Pos:     root.LookupPath(cue.ParsePath("main")).Pos(),
		}
	}
	return s[:i], s[i+1:], nil
}

func stringSetting(root cue.Value, key string) (string, bool, error) {
	v := root.LookupPath(cue.ParsePath(key))
	if !v.Exists() {
		return "", false, nil
	}
	s, err := v.String()
	if err != nil {
		return "", false, badValue(key, "string", v)
	}
	return s, true, nil
}

func boolSetting(root cue.Value, key string) (bool, bool, error) {
	v := root.LookupPath(cue.ParsePath(key))
	if !v.Exists() {
		return false, false, nil
	}
	b, err := v.Bool()
	if err != nil {
		return false, false, badValue(key, "bool", v)
	}
	return b, true, nil
}

func intSetting(root cue.Value, key string) (int, bool, error) {
	v := root.LookupPath(cue.ParsePath(key))
	if !v.Exists() {
		return 0, false, nil
	}
	n, err := v.Int64()
	if err != nil {
		return 0, false, badValue(key, "int", v)
	}
	return int(n), true, nil
}

func stringListSetting(root cue.Value, key string) ([]string, bool, error) {
	v := root.LookupPath(cue.ParsePath(key))
	if !v.Exists() {
		return nil, false, nil
	}
	iter, err := v.List()
	if err != nil {
		return nil, false, badValue(key, "list of strings", v)
	}
	var ss []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, false, badValue(key, "list of strings", v)
		}
		ss = append(ss, s)
	}
	return ss, true, nil
}

func badValue(key, want string, v cue.Value) error {
	return &LoadError{
		Code:    ErrCodeBadValue,
		Message: fmt.Sprintf("setting %q must be a %s", key, want),
		Pos:     v.Pos(),
	}
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := cueerrors.Positions(firstErr)
	if len(positions) > 0 {
		return &LoadError{
			Code:    ErrCodeParse,
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return &LoadError{Code: ErrCodeParse, Message: firstErr.Error()}
}
