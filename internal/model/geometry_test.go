package model

import "testing"

func TestNeighbors8Corners(t *testing.T) {
	def, err := NewPuzzleDefinition(4, 1, 1, quadrantRegionMap())
	if err != nil {
		t.Fatalf("NewPuzzleDefinition: %v", err)
	}

	corner := def.CellID(0, 0)
	got := Neighbors8(def, corner)
	if len(got) != 3 {
		t.Fatalf("Neighbors8(corner) = %v, want 3 neighbors", got)
	}

	center := def.CellID(1, 1)
	got = Neighbors8(def, center)
	if len(got) != 8 {
		t.Fatalf("Neighbors8(center) = %v, want 8 neighbors", got)
	}
}

func TestAdjacent8Diagonal(t *testing.T) {
	def, err := NewPuzzleDefinition(4, 1, 1, quadrantRegionMap())
	if err != nil {
		t.Fatalf("NewPuzzleDefinition: %v", err)
	}
	a := def.CellID(1, 1)
	b := def.CellID(2, 2)
	if !Adjacent8(def, a, b) {
		t.Fatal("diagonal neighbors should be 8-adjacent")
	}
	c := def.CellID(3, 3)
	if Adjacent8(def, a, c) {
		t.Fatal("cells two rows and columns apart should not be 8-adjacent")
	}
	if Adjacent8(def, a, a) {
		t.Fatal("a cell should never be adjacent to itself")
	}
}

func TestApplyD4IsClosedUnderComposition(t *testing.T) {
	const size = 5
	// Four quarter-turns return every point to its start.
	r, c := 1, 2
	for i := 0; i < 4; i++ {
		r, c = ApplyD4(Rotate90, r, c, size)
	}
	if r != 1 || c != 2 {
		t.Fatalf("four Rotate90 applications = (%d,%d), want (1,2)", r, c)
	}
}

func TestApplyD4EachTransformationStaysInBounds(t *testing.T) {
	const size = 5
	for _, transform := range AllD4 {
		for r := 0; r < size; r++ {
			for c := 0; c < size; c++ {
				nr, nc := ApplyD4(transform, r, c, size)
				if nr < 0 || nr >= size || nc < 0 || nc >= size {
					t.Fatalf("ApplyD4(%v, %d, %d) = (%d,%d), out of bounds", transform, r, c, nr, nc)
				}
			}
		}
	}
}
