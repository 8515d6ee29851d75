package puzzlefmt

import (
	"errors"
	"strings"
	"testing"

	"starbattle/internal/model"
)

const quadrantText = "" +
	"1 1 2 2\n" +
	"1 1 2 2\n" +
	"3 3 4 4\n" +
	"3 3 4 4"

func TestParseQuadrantBoard(t *testing.T) {
	def, b, err := Parse(quadrantText, 1, 1)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if def.Size != 4 {
		t.Fatalf("Size = %d, want 4", def.Size)
	}
	if got := def.RegionOf(def.CellID(0, 0)); got != 1 {
		t.Errorf("RegionOf(0,0) = %d, want 1", got)
	}
	if got := def.RegionOf(def.CellID(3, 3)); got != 4 {
		t.Errorf("RegionOf(3,3) = %d, want 4", got)
	}
	for cell := 0; cell < def.CellCount(); cell++ {
		if b.Cell(cell) != model.Unknown {
			t.Fatalf("cell %d = %v, want Unknown (no s/x suffixes in fixture)", cell, b.Cell(cell))
		}
	}
}

func TestParseStarAndEmptyMarks(t *testing.T) {
	text := "1s 1x 2 2\n1 1 2 2\n3 3 4 4\n3 3 4 4"
	_, b, err := Parse(text, 1, 1)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if b.Cell(0) != model.Star {
		t.Errorf("cell 0 = %v, want Star", b.Cell(0))
	}
	if b.Cell(1) != model.Empty {
		t.Errorf("cell 1 = %v, want Empty", b.Cell(1))
	}
}

func TestParseRegionZeroRemapsToTen(t *testing.T) {
	text := "0 1 2 2\n1 1 2 2\n3 3 4 4\n3 3 4 4"
	def, _, err := Parse(text, 1, 1)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := def.RegionOf(def.CellID(0, 0)); got != 10 {
		t.Fatalf("region 0 should remap to 10, got %d", got)
	}
}

func TestParseRejectsWrongRowLength(t *testing.T) {
	text := "1 1 2\n1 1 2 2\n3 3 4 4\n3 3 4 4"
	_, _, err := Parse(text, 1, 1)
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for a short row, got %v", err)
	}
}

func TestParseRejectsMalformedToken(t *testing.T) {
	text := "1 1 2z 2\n1 1 2 2\n3 3 4 4\n3 3 4 4"
	_, _, err := Parse(text, 1, 1)
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for a malformed token, got %v", err)
	}
}

func TestParseRejectsMultiDigitRegionID(t *testing.T) {
	text := "1 1 2 2\n1 1 2 2\n3 3 4 4\n3 3 15 4"
	_, _, err := Parse(text, 1, 1)
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for an out-of-range region id, got %v", err)
	}
}

func TestParseRejectsEmptyInput(t *testing.T) {
	_, _, err := Parse("   \n  \n", 1, 1)
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank input, got %v", err)
	}
}

func TestRenderRoundTrip(t *testing.T) {
	_, b, err := Parse(quadrantText, 1, 1)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	rendered := Render(b)
	want := "1 1 2 2\n1 1 2 2\n3 3 4 4\n3 3 4 4"
	if rendered != want {
		t.Fatalf("Render =\n%s\nwant\n%s", rendered, want)
	}
}

func TestRenderIncludesStarAndEmptySuffixes(t *testing.T) {
	_, b, err := Parse(quadrantText, 1, 1)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := b.SetCell(b.Def.CellID(0, 0), model.Star); err != nil {
		t.Fatalf("SetCell: %v", err)
	}
	if err := b.SetCell(b.Def.CellID(0, 1), model.Empty); err != nil {
		t.Fatalf("SetCell: %v", err)
	}
	rendered := Render(b)
	firstLine := strings.SplitN(rendered, "\n", 2)[0]
	if firstLine != "1s 1x 2 2" {
		t.Fatalf("first line = %q, want %q", firstLine, "1s 1x 2 2")
	}
}

func TestRenderRegionTenRoundTripsToZero(t *testing.T) {
	text := "0 1 2 2\n1 1 2 2\n3 3 4 4\n3 3 4 4"
	_, b, err := Parse(text, 1, 1)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	rendered := Render(b)
	firstLine := strings.SplitN(rendered, "\n", 2)[0]
	if firstLine != "0 1 2 2" {
		t.Fatalf("first line = %q, want %q", firstLine, "0 1 2 2")
	}
}
