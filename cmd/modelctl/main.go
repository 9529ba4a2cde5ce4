// modelctl inspects penguin classifier models and runs offline predictions
package main

import (
	"os"

	"github.com/KirMaid/CloudCS-Lab1/cmd/modelctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
