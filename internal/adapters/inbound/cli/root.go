package cli

import (
	"github.com/spf13/cobra"

	"github.com/addonhub/devhub/internal/bootstrap"
)

var (
	version = "dev"
	commit  = "none"
)

type rootOptions struct {
	projectPath string
	logLevel    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "devhub",
		Short: "Compare add-on validation results across versions",
		Long: "devhub normalizes static-analysis output for add-on uploads, compares it against the " +
			"previous approved version and tracks which signing warnings a reviewer has accepted.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.projectPath, "path", ".", "Project directory holding .devhub.yaml and the store")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides .devhub.yaml")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newProcessCmd(opts))
	cmd.AddCommand(newCompareCmd(opts))
	cmd.AddCommand(newAnnotateCmd(opts))
	cmd.AddCommand(newAnnotationsCmd(opts))
	cmd.AddCommand(newInheritCmd(opts))
	cmd.AddCommand(newApproveCmd(opts))
	cmd.AddCommand(newShowCmd(opts))
	cmd.AddCommand(newHistoryCmd(opts))
	cmd.AddCommand(newMCPCmd(opts))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}

func (o *rootOptions) open(cmd *cobra.Command) (*bootstrap.Services, error) {
	return bootstrap.Open(o.projectPath, bootstrap.Options{
		LogOutput: cmd.ErrOrStderr(),
		LogLevel:  o.logLevel,
	})
}
