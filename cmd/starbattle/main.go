package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "starbattle",
		Short: "Star Battle puzzle hint and auto-solve engine",
	}

	root.AddCommand(newHintCmd())
	root.AddCommand(newSolveCmd())
	root.AddCommand(newTechniquesCmd())
	root.AddCommand(newServeCmd())
	return root
}
