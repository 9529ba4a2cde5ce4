package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newInspectCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect MODEL",
		Short: "Print the features, classes and depth of a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := opts.loadTree(cmd, args[0])
			if err != nil {
				return err
			}

			leaves := 0
			for _, n := range tree.Nodes {
				if n.Leaf {
					leaves++
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "model:    %s\n", args[0])
			fmt.Fprintf(out, "features: %s\n", strings.Join(tree.Features, ", "))
			fmt.Fprintf(out, "classes:  %s\n", strings.Join(tree.Classes(), ", "))
			fmt.Fprintf(out, "nodes:    %d (%d leaves)\n", len(tree.Nodes), leaves)
			fmt.Fprintf(out, "depth:    %d\n", tree.Depth())
			return nil
		},
	}
}
