package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KirMaid/CloudCS-Lab1/internal/model"
	"github.com/KirMaid/CloudCS-Lab1/internal/pkg/logger"
)

// Version is set at build time
var Version = "0.1.0"

type globalOptions struct {
	timeout time.Duration
	verbose bool
}

// NewRootCommand builds the modelctl command tree
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "modelctl",
		Short: "Inspect penguin classifier models and run offline predictions",
		Long: `modelctl works with the decision tree models served by the penguin API.

Commands:
  inspect     - Print the features, classes and depth of a model
  predict     - Classify one observation with a local model
  convert     - Re-encode a model as JSON or YAML
  hash-token  - Print a bcrypt hash for AUTH_TOKEN_HASH

Example:
  modelctl inspect models/penguins.json
  modelctl predict models/penguins.yaml --json '{"culmen_length_mm":36.7,...}'
  modelctl convert models/penguins.json models/penguins.yaml`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Timeout for fetching remote models")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newInspectCommand(opts))
	root.AddCommand(newPredictCommand(opts))
	root.AddCommand(newConvertCommand())
	root.AddCommand(newHashTokenCommand())

	return root
}

// Execute runs the CLI
func Execute() error {
	return NewRootCommand().Execute()
}

func (o *globalOptions) logger() *zap.Logger {
	if !o.verbose {
		return zap.NewNop()
	}
	l, err := logger.New(logger.Config{Level: "debug", Format: "console"})
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// loadTree fetches and decodes a model from a file path or an http(s) URL
func (o *globalOptions) loadTree(cmd *cobra.Command, location string) (*model.DecisionTree, error) {
	log := o.logger()
	provider := model.NewTreeProvider(model.Sources{
		HTTP: model.NewHTTPSource(o.timeout, nil),
	}, log)

	m, err := provider.Load(cmd.Context(), location)
	if err != nil {
		return nil, err
	}
	tree, ok := m.(*model.DecisionTree)
	if !ok {
		return nil, fmt.Errorf("%s is not a decision tree model", location)
	}
	return tree, nil
}
