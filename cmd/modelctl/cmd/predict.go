package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirMaid/CloudCS-Lab1/internal/dto"
	apperrors "github.com/KirMaid/CloudCS-Lab1/internal/pkg/errors"
)

func newPredictCommand(opts *globalOptions) *cobra.Command {
	var (
		body      string
		inputFile string
	)

	cmd := &cobra.Command{
		Use:   "predict MODEL",
		Short: "Classify one observation with a local model",
		Long: `Classify one observation with a local model.

The observation uses the same JSON body as POST /predictions and is read
from --json, from --file, or from stdin when neither is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readObservation(cmd, body, inputFile)
			if err != nil {
				return err
			}

			record, err := dto.ParseFeatureRecord(data)
			if err != nil {
				if appErr := apperrors.GetAppError(err); appErr != nil {
					for _, f := range appErr.Fields {
						fmt.Fprintf(cmd.ErrOrStderr(), "%v: %s (%s)\n", f.Loc, f.Msg, f.Type)
					}
				}
				return fmt.Errorf("invalid observation")
			}

			tree, err := opts.loadTree(cmd, args[0])
			if err != nil {
				return err
			}

			species, err := tree.Infer(cmd.Context(), record.AsMap())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), species)
			return nil
		},
	}

	cmd.Flags().StringVar(&body, "json", "", "Observation as a JSON object")
	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "Read the observation from a file")
	cmd.MarkFlagsMutuallyExclusive("json", "file")

	return cmd
}

func readObservation(cmd *cobra.Command, body, inputFile string) ([]byte, error) {
	switch {
	case body != "":
		return []byte(body), nil
	case inputFile != "":
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read observation: %w", err)
		}
		return data, nil
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read observation from stdin: %w", err)
		}
		return data, nil
	}
}
