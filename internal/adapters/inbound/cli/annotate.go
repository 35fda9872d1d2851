package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAnnotateCmd(opts *rootOptions) *cobra.Command {
	var (
		index         int
		ignore        bool
		clearDecision bool
	)

	cmd := &cobra.Command{
		Use:   "annotate <file-hash>",
		Short: "Record whether a stored message should be ignored in later versions",
		Long: "Record a reviewer decision for one message of a stored validation. Later versions " +
			"that match the message inherit the decision.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("index") {
				return fmt.Errorf("--index is required")
			}

			svc, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			var value *bool
			if !clearDecision {
				value = &ignore
			}
			key, err := svc.Annotations.AnnotateStored(cmd.Context(), args[0], index, value)
			if err != nil {
				return fmt.Errorf("annotate failed: %w", err)
			}

			state := "cleared"
			if value != nil {
				state = fmt.Sprintf("ignore_duplicates=%t", *value)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", state, key)
			return nil
		},
	}

	cmd.Flags().IntVar(&index, "index", 0, "Position of the message in the stored result")
	cmd.Flags().BoolVar(&ignore, "ignore", true, "Ignore the message in later versions")
	cmd.Flags().BoolVar(&clearDecision, "clear", false, "Remove the decision and fall back to the default")

	return cmd
}

func newAnnotationsCmd(opts *rootOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "annotations <file-hash>",
		Short: "List the annotations stored for a package version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			list, err := svc.Annotations.List(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), list)
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no annotations")
				return nil
			}
			for _, a := range list {
				state := "unset"
				if a.IgnoreDuplicates != nil {
					state = fmt.Sprintf("%t", *a.IgnoreDuplicates)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-5s %s\n", state, a.MessageKey)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newInheritCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inherit <from-file-hash> <to-file-hash>",
		Short: "Copy annotations from one package version to another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			n, err := svc.Annotations.Inherit(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "copied %d annotations\n", n)
			return nil
		},
	}
}
