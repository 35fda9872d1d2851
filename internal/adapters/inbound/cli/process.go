package cli

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/addonhub/devhub/internal/adapters/outbound/linterjson"
	"github.com/addonhub/devhub/internal/adapters/outbound/tui"
	"github.com/addonhub/devhub/internal/application"
	"github.com/addonhub/devhub/internal/domain"
)

func newProcessCmd(opts *rootOptions) *cobra.Command {
	var (
		fileHash      string
		previousHash  string
		addonGUID     string
		addonVersion  string
		channel       string
		compatibility bool
		jsonOutput    bool
		annotated     bool
	)

	cmd := &cobra.Command{
		Use:   "process <output.json>",
		Short: "Process analysis output and compare it with the previous version",
		Long: "Normalize analysis tool output, compare it with the previous approved version of the " +
			"same add-on, store the annotated result and print it in display form.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, hash, err := readOutput(args[0])
			if err != nil {
				if errors.Is(err, domain.ErrMalformedLinterOutput) {
					_ = writeResult(cmd.OutOrStdout(), domain.ExceptionResult(), jsonOutput)
				}
				return err
			}
			if fileHash == "" {
				fileHash = hash
			}

			svc, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			resp, err := svc.Validations.Validate(cmd.Context(), application.ValidateRequest{
				Raw:              raw,
				FileHash:         fileHash,
				PreviousFileHash: previousHash,
				AddonGUID:        addonGUID,
				Version:          addonVersion,
				Channel:          domain.Channel(channel),
				IsCompatibility:  compatibility,
			})
			if err != nil {
				if errors.Is(err, domain.ErrMalformedLinterOutput) {
					_ = writeResult(cmd.OutOrStdout(), domain.ExceptionResult(), jsonOutput)
				}
				return fmt.Errorf("processing failed: %w", err)
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			r := resp.Display
			if annotated {
				r = resp.Annotated
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderResult(r))
			fmt.Fprintf(cmd.OutOrStdout(), "  file hash %s", resp.FileHash)
			if resp.PreviousFileHash != "" {
				fmt.Fprintf(cmd.OutOrStdout(), ", compared with %s", resp.PreviousFileHash)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().StringVar(&fileHash, "file-hash", "", "Package version identifier (defaults to the sha256 of the output file)")
	cmd.Flags().StringVar(&previousHash, "previous", "", "File hash of the version to compare with (skips the lookup)")
	cmd.Flags().StringVar(&addonGUID, "addon", "", "Add-on GUID, used to find the previous version")
	cmd.Flags().StringVar(&addonVersion, "addon-version", "", "Add-on version string, used to find the previous version")
	cmd.Flags().StringVar(&channel, "channel", "", "Distribution channel: listed or unlisted (defaults to .devhub.yaml)")
	cmd.Flags().BoolVar(&compatibility, "compat", false, "Treat the output as a compatibility check")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output annotated and display results as JSON")
	cmd.Flags().BoolVar(&annotated, "annotated", false, "Render the annotated result instead of the display result")

	return cmd
}

func newCompareCmd(opts *rootOptions) *cobra.Command {
	var (
		compatibility bool
		jsonOutput    bool
	)

	cmd := &cobra.Command{
		Use:   "compare <previous.json> <next.json>",
		Short: "Compare two analysis outputs without storing anything",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			previous, _, err := readOutput(args[0])
			if err != nil {
				return err
			}
			next, _, err := readOutput(args[1])
			if err != nil {
				return err
			}

			svc, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			resp, err := svc.Validations.Compare(cmd.Context(), previous, next, compatibility)
			if err != nil {
				return fmt.Errorf("compare failed: %w", err)
			}
			return writeResult(cmd.OutOrStdout(), resp.Display, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&compatibility, "compat", false, "Treat the outputs as compatibility checks")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the display result as JSON")

	return cmd
}

// readOutput reads and decodes an analysis output file and returns it with
// the sha256 of its content.
func readOutput(path string) (map[string]any, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}
	raw, err := linterjson.Decode(data)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	sum := sha256.Sum256(data)
	return raw, hex.EncodeToString(sum[:]), nil
}

func writeResult(w io.Writer, r *domain.Result, asJSON bool) error {
	if asJSON {
		return writeJSON(w, r)
	}
	fmt.Fprint(w, tui.RenderResult(r))
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
