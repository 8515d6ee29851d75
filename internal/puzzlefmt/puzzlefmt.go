// Package puzzlefmt parses and renders the puzzle string form external
// callers use to hand a board to the engine (spec.md §6 "Puzzle input
// (string form)"). There is no pack precedent for a bespoke
// regex-per-token text grammar, so parsing stays on the standard
// library's regexp/strings/bufio rather than reaching for a generic
// parser-combinator dependency that would fit nothing else in the repo.
package puzzlefmt

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"starbattle/internal/model"
)

// tokenPattern matches one cell token: a single region digit followed by
// an optional star/empty suffix (spec.md §6 "<digit>(s|x)?"). Region ids
// are 0-9 only; anything longer is rejected rather than silently parsed
// as a multi-digit id outside that range.
var tokenPattern = regexp.MustCompile(`^([0-9])([sx]?)$`)

// Parse reads a puzzle string (N lines of N space-separated tokens) and
// the board's star quotas, returning the definition and initial board
// state (spec.md §6). Region digit 0 is remapped to region id 10, per
// spec: "0 is canonically remapped to region 10 for output".
func Parse(text string, starsPerLine, starsPerRegion int) (*model.PuzzleDefinition, *model.BoardState, error) {
	lines := splitNonEmptyLines(text)
	n := len(lines)
	if n == 0 {
		return nil, nil, fmt.Errorf("%w: puzzle text has no lines", model.ErrInvalidInput)
	}

	regionOf := make([]int, n*n)
	marks := make([]model.CellState, n*n)

	for row, line := range lines {
		tokens := strings.Fields(line)
		if len(tokens) != n {
			return nil, nil, fmt.Errorf("%w: row %d has %d tokens, want %d", model.ErrInvalidInput, row, len(tokens), n)
		}
		for col, tok := range tokens {
			m := tokenPattern.FindStringSubmatch(tok)
			if m == nil {
				return nil, nil, fmt.Errorf("%w: row %d col %d: malformed token %q", model.ErrInvalidInput, row, col, tok)
			}
			regionID, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, nil, fmt.Errorf("%w: row %d col %d: %v", model.ErrInvalidInput, row, col, err)
			}
			if regionID == 0 {
				regionID = 10
			}
			cellID := row*n + col
			regionOf[cellID] = regionID
			switch m[2] {
			case "s":
				marks[cellID] = model.Star
			case "x":
				marks[cellID] = model.Empty
			default:
				marks[cellID] = model.Unknown
			}
		}
	}

	def, err := model.NewPuzzleDefinition(n, starsPerLine, starsPerRegion, regionOf)
	if err != nil {
		return nil, nil, err
	}
	board, err := model.NewBoardState(def, marks)
	if err != nil {
		return nil, nil, err
	}
	return def, board, nil
}

// splitNonEmptyLines splits text on newlines, trimming surrounding
// whitespace and discarding blank lines, so trailing newlines or
// Windows line endings in hand-edited fixtures do not register as an
// extra (empty) row.
func splitNonEmptyLines(text string) []string {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// Render renders b back to the string form Parse accepts, the inverse
// mapping region id 10 back to the digit "0" it was parsed from.
func Render(b *model.BoardState) string {
	def := b.Def
	var sb strings.Builder
	for row := 0; row < def.Size; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for col := 0; col < def.Size; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			cellID := def.CellID(row, col)
			region := def.RegionOf(cellID)
			if region == 10 {
				region = 0
			}
			sb.WriteString(strconv.Itoa(region))
			switch b.Cell(cellID) {
			case model.Star:
				sb.WriteByte('s')
			case model.Empty:
				sb.WriteByte('x')
			}
		}
	}
	return sb.String()
}
