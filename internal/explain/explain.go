// Package explain turns an ExplanationInstance's typed steps into plain
// human-readable sentences (spec.md §2 component 9, §4.3.2, §6). It is
// the only component that builds prose; schemas and the entanglement
// engine only ever emit the typed step tree. The renderer is grounded
// on sudoku-api/internal/core.Move.Explanation's role (one human sentence
// per move) generalized from one hand-built string per technique to a
// phrasing dictionary dispatching on a closed set of step kinds, since
// spec.md §6 fixes that set across dozens of schemas.
package explain

import (
	"fmt"
	"sort"
	"strings"

	"starbattle/internal/model"
)

// Render turns every step of inst into one sentence each, joined into a
// short paragraph. Unknown step kinds are rendered verbatim rather than
// causing an error, since the dispatcher must never fail on account of
// prose (spec.md §4.3.2: "adding a new step kind requires extending the
// renderer exhaustively" describes a maintenance obligation, not a
// runtime one).
func Render(inst model.ExplanationInstance) string {
	sentences := make([]string, 0, len(inst.Steps))
	for _, step := range inst.Steps {
		sentences = append(sentences, renderStep(step))
	}
	return strings.Join(sentences, " ")
}

func renderStep(step model.ExplanationStep) string {
	switch step.Kind {
	case model.StepCountStarsInBand:
		return sentenceCountStarsInBand(step)
	case model.StepCountRegionQuota:
		return sentenceCountRegionQuota(step)
	case model.StepCountRemainingStars:
		return sentenceCountRemainingStars(step)
	case model.StepIdentifyCandidateBlocks:
		return sentenceIdentifyCandidateBlocks(step)
	case model.StepApplyPigeonhole:
		return sentenceApplyPigeonhole(step)
	case model.StepFixRegionBandQuota:
		return sentenceFixRegionBandQuota(step)
	case model.StepAssignCageStars:
		return sentenceAssignCageStars(step)
	case model.StepEliminateOtherRegionCells:
		return sentenceEliminateOtherRegionCells(step)
	default:
		return fmt.Sprintf("(%s)", step.Kind)
	}
}

func sentenceCountStarsInBand(step model.ExplanationStep) string {
	band, _ := step.Entities["band"].(string)
	needed, _ := step.Entities["starsNeeded"].(int)
	if band == "" {
		band = "this band"
	}
	return fmt.Sprintf("%s needs %s.", capitalize(band), starsPhrase(needed))
}

func sentenceCountRegionQuota(step model.ExplanationStep) string {
	if region, ok := step.Entities["region"]; ok {
		quota, _ := step.Entities["quota"].(int)
		return fmt.Sprintf("Region %s must place %s.", regionLabel(region), starsPhrase(quota))
	}
	total, _ := step.Entities["totalStars"].(int)
	return fmt.Sprintf("Together these regions must place %s.", starsPhrase(total))
}

func sentenceCountRemainingStars(step model.ExplanationStep) string {
	remaining, _ := step.Entities["remainingStars"].(int)
	target, _ := step.Entities["targetRegion"].(string)
	if target == "" {
		target = "this group"
	}
	return fmt.Sprintf("%s still needs %s.", capitalize(target), starsPhrase(remaining))
}

func sentenceIdentifyCandidateBlocks(step model.ExplanationStep) string {
	count, _ := step.Entities["blockCount"].(int)
	return fmt.Sprintf("Exactly %d candidate 2x2 block%s remain%s for the band's unplaced stars.",
		count, plural(count), verbS(count))
}

func sentenceApplyPigeonhole(step model.ExplanationStep) string {
	note, _ := step.Entities["note"].(string)
	if note == "" {
		return "By the pigeonhole principle, this placement is forced."
	}
	return fmt.Sprintf("By the pigeonhole principle: %s.", note)
}

func sentenceFixRegionBandQuota(step model.ExplanationStep) string {
	region := step.Entities["region"]
	band, _ := step.Entities["band"].(string)
	quota, _ := step.Entities["quota"].(int)
	return fmt.Sprintf("Region %s must place exactly %s in %s.", regionLabel(region), starsPhrase(quota), band)
}

func sentenceAssignCageStars(step model.ExplanationStep) string {
	region := step.Entities["region"]
	blocks, _ := step.Entities["blocks"].([]int)
	return fmt.Sprintf("Region %s's remaining stars must each occupy one of %s.", regionLabel(region), blockListPhrase(blocks))
}

func sentenceEliminateOtherRegionCells(step model.ExplanationStep) string {
	cells, _ := step.Entities["cells"].([]int)
	note, hasNote := step.Entities["note"].(string)
	sentence := fmt.Sprintf("%s %s eliminated.", cellListPhrase(cells), beVerb(len(cells)))
	if hasNote && note != "" {
		sentence += " " + capitalize(note) + "."
	}
	return sentence
}

func starsPhrase(n int) string {
	if n == 1 {
		return "1 more star"
	}
	return fmt.Sprintf("%d more stars", n)
}

func regionLabel(region any) string {
	switch v := region.(type) {
	case int:
		return RegionLetter(v)
	case string:
		return v
	default:
		return fmt.Sprintf("%v", region)
	}
}

// RegionLetter maps a region id to the display letter the UI uses
// (spec.md §4.6 "regions as region A (letter mapping from region id)").
// Region ids wrap past 26 as AA, AB, ... the way spreadsheet columns do.
func RegionLetter(rid int) string {
	if rid < 0 {
		rid = 0
	}
	letters := ""
	n := rid
	for {
		letters = string(rune('A'+n%26)) + letters
		n = n/26 - 1
		if n < 0 {
			break
		}
	}
	return letters
}

// CellLabel renders a cell id as "C3"-style row-letter + 1-based column
// (spec.md §4.6).
func CellLabel(def *model.PuzzleDefinition, cellID int) string {
	row, col := def.RowCol(cellID)
	return fmt.Sprintf("%s%d", string(rune('A'+row)), col+1)
}

func cellListPhrase(cells []int) string {
	if len(cells) == 0 {
		return "no cells"
	}
	sorted := append([]int(nil), cells...)
	sort.Ints(sorted)
	labels := make([]string, len(sorted))
	for i, c := range sorted {
		labels[i] = fmt.Sprintf("cell %d", c)
	}
	return strings.Join(labels, ", ")
}

func blockListPhrase(blocks []int) string {
	if len(blocks) == 0 {
		return "no blocks"
	}
	labels := make([]string, len(blocks))
	for i, b := range blocks {
		labels[i] = fmt.Sprintf("2x2 block %d", b)
	}
	return strings.Join(labels, ", ")
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func verbS(n int) string {
	if n == 1 {
		return "s"
	}
	return ""
}

func beVerb(n int) string {
	if n == 1 {
		return "is"
	}
	return "are"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
