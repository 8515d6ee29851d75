package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"starbattle/internal/explain"
	"starbattle/internal/puzzlefmt"
)

func newHintCmd() *cobra.Command {
	var (
		file           string
		starsPerLine   int
		starsPerRegion int
		patternsDir    string
	)

	cmd := &cobra.Command{
		Use:   "hint",
		Short: "Find the next hint for a puzzle",
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
			hint, err := eng.FindNextHint(context.Background(), board)
			if err != nil {
				return err
			}
			if hint == nil {
				fmt.Println("no hint found")
				return nil
			}
			fmt.Printf("technique: %s\n", hint.TechniqueID)
			fmt.Printf("explanation: %s\n", hint.Explanation)
			for _, d := range hint.Deductions {
				fmt.Printf("  cell %s: %s\n", explain.CellLabel(board.Def, d.Cell), deductionWord(d))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "puzzle file, - for stdin")
	cmd.Flags().IntVar(&starsPerLine, "stars-per-line", 2, "stars required per row/column")
	cmd.Flags().IntVar(&starsPerRegion, "stars-per-region", 2, "stars required per region")
	cmd.Flags().StringVar(&patternsDir, "patterns", "", "directory of entanglement pattern files")
	return cmd
}
