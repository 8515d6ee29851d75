package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"starbattle/internal/puzzlefmt"
)

func newSolveCmd() *cobra.Command {
	var (
		file           string
		starsPerLine   int
		starsPerRegion int
		patternsDir    string
		maxSteps       int
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Auto-solve a puzzle, applying hints until stuck or solved",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readPuzzle(file)
			if err != nil {
				return err
			}
			_, board, err := puzzlefmt.Parse(text, starsPerLine, starsPerRegion)
			if err != nil {
				return err
			}
			eng, err := buildEngine(patternsDir)
			if err != nil {
				return err
			}
			result, err := eng.AutoSolve(context.Background(), board, maxSteps)
			if err != nil {
				return err
			}
			fmt.Printf("status: %s (%d iterations)\n", result.Status, result.Iterations)
			fmt.Println(puzzlefmt.Render(board))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "puzzle file, - for stdin")
	cmd.Flags().IntVar(&starsPerLine, "stars-per-line", 2, "stars required per row/column")
	cmd.Flags().IntVar(&starsPerRegion, "stars-per-region", 2, "stars required per region")
	cmd.Flags().StringVar(&patternsDir, "patterns", "", "directory of entanglement pattern files")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "auto-solve iteration ceiling (0 = engine default)")
	return cmd
}
