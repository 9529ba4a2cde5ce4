package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirMaid/CloudCS-Lab1/internal/model"
)

func newConvertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert SRC DST",
		Short: "Re-encode a model as JSON or YAML",
		Long: `Re-encode a model file. The formats of SRC and DST follow their
extensions (.json, .yaml or .yml). The tree is validated before it is written.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, dst := args[0], args[1]

			srcFormat, err := model.FormatFor(src)
			if err != nil {
				return err
			}
			dstFormat, err := model.FormatFor(dst)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(src)
			if err != nil {
				return fmt.Errorf("failed to read model: %w", err)
			}
			tree, err := model.DecodeTree(data, srcFormat)
			if err != nil {
				return err
			}

			out, err := model.EncodeTree(tree, dstFormat)
			if err != nil {
				return err
			}
			if err := os.WriteFile(dst, out, 0o644); err != nil {
				return fmt.Errorf("failed to write model: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d nodes)\n", dst, len(tree.Nodes))
			return nil
		},
	}
}
