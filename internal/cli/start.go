package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/doofin/haste-compiler/internal/codegen"
)

// StartResult is the payload for structured start output.
type StartResult struct {
	Symbol   string `json:"symbol" yaml:"symbol"`
	Policy   string `json:"policy" yaml:"policy"`
	Fragment string `json:"fragment" yaml:"fragment"`
}

// NewStartCommand creates the start command.
func NewStartCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start <symbol>",
		Short: "Render the entry-point start fragment",
		Long: `Render the code fragment that invokes (or schedules) the program's
entry point, exactly as the linker would emit it for the given runtime
symbol under the effective start policy.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runStart(opts *RootOptions, symbol string, cmd *cobra.Command) error {
	formatter := formatterFor(opts, cmd)

	if symbol == "" {
		_ = formatter.Error("START_EMPTY_SYMBOL", "entry symbol must be non-empty", nil)
		return NewExitError(ExitCommandError, "entry symbol must be non-empty")
	}

	cfg, err := opts.BuildConfig()
	if err != nil {
		_ = formatter.Error(errCodeOf(err), err.Error(), nil)
		return NewExitError(ExitFailure, err.Error())
	}

	policy := cfg.AppStart
	if policy.Mode() == codegen.StartCustom && !strings.Contains(policy.Template(), codegen.MainMarker) {
		// The contract keeps the output verbatim; only tell the user.
		formatter.VerboseLog("start template has no %s marker, entry point will not be invoked", codegen.MainMarker)
	}

	fragment := policy.Render(symbol)

	if opts.Format == "text" {
		// The fragment itself, ready to paste.
		return formatter.Success(fragment)
	}
	return formatter.Success(StartResult{
		Symbol:   symbol,
		Policy:   policyName(policy),
		Fragment: fragment,
	})
}

// policyName maps a policy back to its selector spelling.
func policyName(p codegen.StartPolicy) string {
	switch p.Mode() {
	case codegen.StartOnLoad:
		return "onload"
	case codegen.StartCustom:
		return "custom"
	default:
		return "asap"
	}
}
