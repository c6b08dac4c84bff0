package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/doofin/haste-compiler/internal/codegen"
	"github.com/doofin/haste-compiler/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose      bool
	Format       string // "json" | "text" | "yaml"
	LibDir       string // system library directory
	TargetLibDir string // per-target library directory
	Settings     string // optional CUE settings file
	RunToken     string // generated per invocation

	// Per-run overrides applied after the settings file.
	Start      string // start policy selector or custom template
	HTML       bool
	Library    bool
	NoLink     bool
	FastMult   bool
	UnsafeInts bool
	NoOpt      bool
	DebugLib   bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command for the hastec driver.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "hastec",
		Short: "hastec - Haskell to JavaScript compiler driver",
		Long: `Driver for the haste compiler configuration.

Builds the per-run option record (defaults, then settings file, then
flags) and exposes the code-shape policies it carries: entry-point
start code, 32-bit arithmetic encoding, output naming and the runtime
library bundle.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			opts.RunToken = uuid.NewString()
			if opts.TargetLibDir == "" {
				opts.TargetLibDir = opts.LibDir
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text|yaml)")
	cmd.PersistentFlags().StringVar(&opts.LibDir, "libdir", "/usr/lib/haste", "system library directory")
	cmd.PersistentFlags().StringVar(&opts.TargetLibDir, "target-libdir", "", "per-target library directory (defaults to --libdir)")
	cmd.PersistentFlags().StringVar(&opts.Settings, "settings", "", "CUE settings file")

	// Override flags, applied after the settings file.
	cmd.PersistentFlags().StringVar(&opts.Start, "start", "", "start policy: asap, onexec, onload, or a custom template")
	cmd.PersistentFlags().BoolVar(&opts.HTML, "output-html", false, "produce an HTML document instead of a bare script")
	cmd.PersistentFlags().BoolVar(&opts.Library, "library", false, "produce a reusable library bundle")
	cmd.PersistentFlags().BoolVar(&opts.NoLink, "no-link", false, "compile without linking an executable")
	cmd.PersistentFlags().BoolVar(&opts.FastMult, "fast-mult", false, "native multiplication (imprecise past 2^53 products)")
	cmd.PersistentFlags().BoolVar(&opts.UnsafeInts, "unsafe-ints", false, "native multiplication and no 32-bit result truncation")
	cmd.PersistentFlags().BoolVar(&opts.NoOpt, "no-opt", false, "disable the generic optimization passes")
	cmd.PersistentFlags().BoolVar(&opts.DebugLib, "debug-lib", false, "bundle the debug runtime library")

	// Add subcommands
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewStartCommand(opts))
	cmd.AddCommand(NewLibsCommand(opts))

	return cmd
}

// BuildConfig assembles the effective configuration for this invocation:
// conservative defaults, then the settings file (if any), then flag
// overrides. Each layer copies; nothing mutates a record a previous
// layer handed out.
func (o *RootOptions) BuildConfig() (config.Config, error) {
	cfg := config.Default(o.LibDir, o.TargetLibDir)

	if o.Settings != "" {
		loaded, err := config.LoadFile(o.Settings, cfg)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	return applyFlagOverrides(o, cfg), nil
}

// applyFlagOverrides layers the per-run flag overrides over cfg and
// returns the result. Unset flags leave the incoming values alone, so
// settings-file choices survive unless explicitly overridden.
func applyFlagOverrides(o *RootOptions, cfg config.Config) config.Config {
	if o.Start != "" {
		cfg.AppStart = codegen.ParseStartPolicy(o.Start)
	}
	if o.HTML {
		cfg.OutputHTML = true
	}
	if o.Library {
		cfg.LinkMode = config.LinkLibrary
	}
	if o.NoLink {
		cfg.PerformLink = false
	}
	if o.FastMult {
		cfg.MultiplyInt = codegen.FastMultiply
	}
	if o.UnsafeInts {
		cfg.MultiplyInt = codegen.FastMultiply
		cfg.WrapIntResult = codegen.PassthroughInt
	}
	if o.NoOpt {
		cfg.Optimize = false
	}
	if o.DebugLib {
		cfg.RuntimeLibs = append(cfg.RuntimeLibs, config.DebugRuntimeLib(cfg.LibDir))
	}
	cfg.Verbose = cfg.Verbose || o.Verbose
	return cfg
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// formatterFor builds the standard formatter for a command, sending
// verbose chatter to stderr so structured output stays parseable.
func formatterFor(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
		RunToken:  opts.RunToken,
	}
}
