package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/addonhub/devhub/internal/adapters/outbound/tui"
)

func newApproveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "approve <file-hash>",
		Short: "Mark a stored validation approved",
		Long:  "Mark a stored validation approved so later versions of the add-on are compared against it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			if err := svc.Validations.Approve(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "approved %s\n", args[0])
			return nil
		},
	}
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	var (
		jsonOutput bool
		annotated  bool
	)

	cmd := &cobra.Command{
		Use:   "show <file-hash>",
		Short: "Show a stored validation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			stored, display, err := svc.Validations.Stored(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				if annotated {
					return writeJSON(cmd.OutOrStdout(), stored)
				}
				return writeJSON(cmd.OutOrStdout(), display)
			}
			r := display
			if annotated {
				r = stored.Result
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderResult(r))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&annotated, "annotated", false, "Show the stored annotated result instead of the display result")
	return cmd
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history <addon-guid>",
		Short: "List stored validations of an add-on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			vs, err := svc.Validations.History(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), vs)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(vs))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
