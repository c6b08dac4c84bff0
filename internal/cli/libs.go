package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// LibsResult is the payload for structured libs output.
type LibsResult struct {
	RuntimeLibs []string `json:"runtime_libs" yaml:"runtime_libs"`
	JSExternals []string `json:"with_js,omitempty" yaml:"with_js,omitempty"`
}

// NewLibsCommand creates the libs command.
func NewLibsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "libs",
		Short: "List the runtime files the linker would bundle",
		Long: `List the ordered runtime library bundle plus any external scripts
spliced into the output, after settings and flag overrides. Pass
--debug-lib to include the debug runtime library.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLibs(rootOpts, cmd)
		},
	}

	return cmd
}

func runLibs(opts *RootOptions, cmd *cobra.Command) error {
	formatter := formatterFor(opts, cmd)

	cfg, err := opts.BuildConfig()
	if err != nil {
		_ = formatter.Error(errCodeOf(err), err.Error(), nil)
		return NewExitError(ExitFailure, err.Error())
	}

	formatter.VerboseLog("Bundle of %d runtime file(s)", len(cfg.RuntimeLibs))

	if opts.Format == "text" {
		for _, lib := range cfg.RuntimeLibs {
			fmt.Fprintln(formatter.Writer, lib)
		}
		for _, js := range cfg.JSExternals {
			fmt.Fprintln(formatter.Writer, js)
		}
		return nil
	}
	return formatter.Success(LibsResult{
		RuntimeLibs: cfg.RuntimeLibs,
		JSExternals: cfg.JSExternals,
	})
}
