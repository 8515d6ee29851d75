package entanglement

import (
	"fmt"
	"hash/fnv"
	"sort"
)

// fingerprint derives a deterministic 6-hex-character identity for a
// pattern or rule's canonicalized content (spec.md §4.4 "Pattern
// identity"): sorted coordinate lists and sorted feature lists, each
// token hashed independently and combined with a commutative operator
// so that two patterns differing only in the order their token lists
// were constructed in still collide to the same fingerprint.
func fingerprint(stars []Coord, extra []Coord, features []string) string {
	tokens := make([]string, 0, len(stars)+len(extra)+len(features))
	for _, c := range sortedCoords(stars) {
		tokens = append(tokens, fmt.Sprintf("s:%d,%d", c.Row, c.Col))
	}
	for _, c := range sortedCoords(extra) {
		tokens = append(tokens, fmt.Sprintf("x:%d,%d", c.Row, c.Col))
	}
	feats := append([]string(nil), features...)
	sort.Strings(feats)
	for _, f := range feats {
		tokens = append(tokens, "f:"+f)
	}

	var acc uint32
	for _, t := range tokens {
		h := fnv.New32a()
		_, _ = h.Write([]byte(t))
		acc ^= h.Sum32()
	}
	return fmt.Sprintf("%06x", acc&0xFFFFFF)
}

func sortedCoords(cs []Coord) []Coord {
	out := append([]Coord(nil), cs...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}
