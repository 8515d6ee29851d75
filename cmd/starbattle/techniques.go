package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"starbattle/internal/schema"
)

func newTechniquesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "techniques",
		Short: "List every registered deduction technique in priority order",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range schema.NewRegistry().All() {
				fmt.Printf("%3d  %s\n", s.Priority(), s.ID())
			}
			return nil
		},
	}
	return cmd
}
