package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doofin/haste-compiler/internal/codegen"
	"github.com/doofin/haste-compiler/internal/config"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Output string // optional file to write the YAML dump to
}

// ConfigView is the serializable projection of the effective
// configuration. The record itself carries behavior (function-valued
// policies), so the view names each policy by probing what it renders.
type ConfigView struct {
	LibDir        string   `json:"libdir" yaml:"libdir"`
	TargetLibDir  string   `json:"target_libdir" yaml:"target_libdir"`
	UserLibDirs   []string `json:"lib_dirs,omitempty" yaml:"lib_dirs,omitempty"`
	RuntimeLibs   []string `json:"runtime_libs" yaml:"runtime_libs"`
	JSExternals   []string `json:"with_js,omitempty" yaml:"with_js,omitempty"`
	Closure       string   `json:"closure,omitempty" yaml:"closure,omitempty"`
	ClosureFlags  []string `json:"closure_flags,omitempty" yaml:"closure_flags,omitempty"`
	PerformLink   bool     `json:"link" yaml:"link"`
	LinkMode      string   `json:"link_mode" yaml:"link_mode"`
	OutputFile    string   `json:"output_file" yaml:"output_file"`
	WrapNamespace bool     `json:"namespace" yaml:"namespace"`
	UseStrict     bool     `json:"strict" yaml:"strict"`
	Start         string   `json:"start" yaml:"start"`
	StartTemplate string   `json:"start_template,omitempty" yaml:"start_template,omitempty"`
	MainSymbol    string   `json:"main" yaml:"main"`
	TruncateInts  bool     `json:"truncate_ints" yaml:"truncate_ints"`
	Multiply      string   `json:"multiply" yaml:"multiply"`
	Optimize      bool     `json:"optimize" yaml:"optimize"`
	ProperTC      bool     `json:"proper_tailcalls" yaml:"proper_tailcalls"`
	WholeProgram  bool     `json:"whole_program" yaml:"whole_program"`
	FlowAnalysis  bool     `json:"flow_analysis" yaml:"flow_analysis"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Show the configuration a compilation run would use after applying
the settings file and flag overrides to the defaults.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the configuration as YAML to a file")

	return cmd
}

func runShow(opts *ShowOptions, cmd *cobra.Command) error {
	formatter := formatterFor(opts.RootOptions, cmd)

	cfg, err := opts.BuildConfig()
	if err != nil {
		_ = formatter.Error(errCodeOf(err), err.Error(), nil)
		return NewExitError(ExitFailure, err.Error())
	}

	if opts.Settings != "" {
		formatter.VerboseLog("Applied settings file %s", opts.Settings)
	}

	view := newConfigView(&cfg)

	if opts.Output != "" {
		if err := writeViewFile(view, opts.Output); err != nil {
			_ = formatter.Error("SHOW_WRITE_FAILED", fmt.Sprintf("writing %s: %v", opts.Output, err), nil)
			return NewExitError(ExitCommandError, err.Error())
		}
		formatter.VerboseLog("Wrote configuration to %s", opts.Output)
	}

	if opts.Format == "text" {
		writeViewText(formatter.Writer, view)
		return nil
	}
	return formatter.Success(view)
}

// newConfigView projects cfg into its serializable form.
func newConfigView(cfg *config.Config) ConfigView {
	view := ConfigView{
		LibDir:        cfg.LibDir,
		TargetLibDir:  cfg.TargetLibDir,
		UserLibDirs:   cfg.UserLibDirs,
		RuntimeLibs:   cfg.RuntimeLibs,
		JSExternals:   cfg.JSExternals,
		Closure:       cfg.ClosurePath,
		ClosureFlags:  cfg.ClosureFlags,
		PerformLink:   cfg.PerformLink,
		LinkMode:      "executable",
		OutputFile:    cfg.OutputFileName(cfg, cfg.MainModule),
		WrapNamespace: cfg.WrapNamespace,
		UseStrict:     cfg.UseStrict,
		MainSymbol:    cfg.MainModule + "." + cfg.MainFunc,
		Optimize:      cfg.Optimize,
		ProperTC:      cfg.ProperTailCalls,
		WholeProgram:  cfg.WholeProgramOpts,
		FlowAnalysis:  cfg.FlowAnalysis,
	}

	if cfg.LinkMode == config.LinkLibrary {
		view.LinkMode = "library"
	}

	switch cfg.AppStart.Mode() {
	case codegen.StartASAP:
		view.Start = "asap"
	case codegen.StartOnLoad:
		view.Start = "onload"
	case codegen.StartCustom:
		view.Start = "custom"
		view.StartTemplate = cfg.AppStart.Template()
	}

	// Probe the function-valued policies: the record carries behavior,
	// not names.
	view.TruncateInts = cfg.WrapIntResult("x") == codegen.TruncateInt("x")
	view.Multiply = "native"
	if cfg.MultiplyInt("a", "b") == codegen.SafeMultiply("a", "b") {
		view.Multiply = "imul"
	}

	return view
}

// writeViewText renders the view as stable "key = value" lines.
func writeViewText(w io.Writer, view ConfigView) {
	fmt.Fprintf(w, "start = %s\n", view.Start)
	if view.StartTemplate != "" {
		fmt.Fprintf(w, "start_template = %s\n", view.StartTemplate)
	}
	fmt.Fprintf(w, "main = %s\n", view.MainSymbol)
	fmt.Fprintf(w, "output_file = %s\n", view.OutputFile)
	fmt.Fprintf(w, "link = %t\n", view.PerformLink)
	fmt.Fprintf(w, "link_mode = %s\n", view.LinkMode)
	fmt.Fprintf(w, "namespace = %t\n", view.WrapNamespace)
	fmt.Fprintf(w, "strict = %t\n", view.UseStrict)
	fmt.Fprintf(w, "truncate_ints = %t\n", view.TruncateInts)
	fmt.Fprintf(w, "multiply = %s\n", view.Multiply)
	fmt.Fprintf(w, "optimize = %t\n", view.Optimize)
	fmt.Fprintf(w, "proper_tailcalls = %t\n", view.ProperTC)
	fmt.Fprintf(w, "whole_program = %t\n", view.WholeProgram)
	fmt.Fprintf(w, "flow_analysis = %t\n", view.FlowAnalysis)
	fmt.Fprintf(w, "libdir = %s\n", view.LibDir)
	fmt.Fprintf(w, "runtime_libs = %d\n", len(view.RuntimeLibs))
	for _, js := range view.JSExternals {
		fmt.Fprintf(w, "with_js = %s\n", js)
	}
	if view.Closure != "" {
		fmt.Fprintf(w, "closure = %s\n", view.Closure)
	}
}

// writeViewFile writes the YAML dump of the view.
func writeViewFile(view ConfigView, path string) error {
	data, err := yaml.Marshal(view)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// errCodeOf maps a settings error to its stable code for structured
// output.
func errCodeOf(err error) string {
	var loadErr *config.LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code
	}
	return "CONFIG_ERROR"
}
