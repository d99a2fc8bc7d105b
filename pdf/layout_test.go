package pdf

import (
	"testing"

	rscpdf "rsc.io/pdf"
)

// glyphRun simulates per-glyph parser output for one word.
func glyphRun(x, y float64, s string) []rscpdf.Text {
	var out []rscpdf.Text
	for i, r := range s {
		out = append(out, rscpdf.Text{
			S: string(r), X: x + float64(i)*6, Y: y, W: 6, FontSize: 12,
		})
	}
	return out
}

func mkLine(y float64, words ...word) line {
	return line{y: y, words: words}
}

func mkWord(x, y float64, text string) word {
	return word{text: text, x: x, y: y, width: float64(len(text)) * 5, fontSize: 10}
}

func TestTableRegions(t *testing.T) {
	lines := []line{
		mkLine(700, mkWord(50, 700, "heading")),
		mkLine(680, mkWord(50, 680, "a"), mkWord(200, 680, "b")),
		mkLine(660, mkWord(50, 660, "c"), mkWord(200, 660, "d")),
		mkLine(640, mkWord(50, 640, "closing"), mkWord(60, 640, "prose")), // still multi-word
		mkLine(620, mkWord(50, 620, "single")),
		mkLine(600, mkWord(50, 600, "alone"), mkWord(200, 600, "pair")),
	}
	regions := tableRegions(lines)
	if len(regions) != 1 {
		t.Fatalf("regions = %d, want 1 (trailing single-line run dropped)", len(regions))
	}
	if len(regions[0]) != 3 {
		t.Errorf("region lines = %d, want 3", len(regions[0]))
	}
}

func TestLayout_BuildTable_AlignedColumns(t *testing.T) {
	region := []line{
		mkLine(700, mkWord(50, 700, "Name"), mkWord(200, 700, "Qty"), mkWord(300, 700, "Price")),
		mkLine(680, mkWord(50, 680, "alpha"), mkWord(200, 680, "3"), mkWord(300, 680, "1.50")),
		mkLine(660, mkWord(50, 660, "beta"), mkWord(200, 660, "7"), mkWord(300, 660, "2.25")),
	}
	tbl := layoutStrategy{}.buildTable(region)
	if tbl == nil {
		t.Fatal("buildTable() = nil, want a table for aligned columns")
	}
	if tbl.RowCount() != 3 || tbl.ColCount() != 3 {
		t.Fatalf("shape = %dx%d, want 3x3", tbl.RowCount(), tbl.ColCount())
	}
	if got := tbl.Rows[1][0].Text; got != "alpha" {
		t.Errorf("cell[1][0] = %q, want alpha", got)
	}
	if got := tbl.Rows[2][2].Text; got != "2.25" {
		t.Errorf("cell[2][2] = %q, want 2.25", got)
	}
	if !tbl.Origin.Confidence.Valid {
		t.Error("layout tables should carry known confidence")
	}
}

func TestLayout_BuildTable_RejectsScatter(t *testing.T) {
	// Word lefts spread evenly with no repeated columns; every left becomes
	// its own cluster and occupancy collapses.
	region := []line{
		mkLine(700, mkWord(50, 700, "a"), mkWord(120, 700, "b")),
		mkLine(680, mkWord(260, 680, "c"), mkWord(330, 680, "d")),
		mkLine(660, mkWord(470, 660, "e"), mkWord(540, 660, "f")),
	}
	if tbl := (layoutStrategy{}).buildTable(region); tbl != nil {
		t.Errorf("buildTable() accepted scattered prose: %+v", tbl)
	}
}

func TestWhitespace_LineCells(t *testing.T) {
	ln := mkLine(700,
		mkWord(50, 700, "alpha"),
		mkWord(80, 700, "beta"), // narrow gap, same cell
		mkWord(300, 700, "gamma"),
	)
	cells := lineCells(ln)
	if len(cells) != 2 {
		t.Fatalf("cells = %v, want 2", cells)
	}
	if cells[0] != "alpha beta" || cells[1] != "gamma" {
		t.Errorf("cells = %v, want [alpha beta, gamma]", cells)
	}
}

func TestWhitespace_SplitAtGaps(t *testing.T) {
	lines := []line{
		mkLine(700, mkWord(50, 700, "h1"), mkWord(300, 700, "h2")),
		mkLine(680, mkWord(50, 680, "v1"), mkWord(300, 680, "v2")),
		mkLine(660, mkWord(50, 660, "paragraph")),
		mkLine(640, mkWord(50, 640, "x"), mkWord(300, 640, "y")),
	}
	tables := splitAtGaps(lines)
	if len(tables) != 1 {
		t.Fatalf("tables = %d, want 1 (single trailing row is not a table)", len(tables))
	}
	tbl := tables[0]
	if tbl.RowCount() != 2 {
		t.Errorf("rows = %d, want 2", tbl.RowCount())
	}
	if tbl.Origin.Confidence.Valid {
		t.Error("whitespace tables should carry unknown confidence")
	}
}

func TestMergeRuns_JoinsAdjacentGlyphs(t *testing.T) {
	// Simulates per-glyph output: H e l l o on one baseline, gap, then World.
	texts := glyphRun(100, 700, "Hello")
	texts = append(texts, glyphRun(200, 700, "World")...)
	words := mergeRuns(texts)
	if len(words) != 2 {
		t.Fatalf("words = %d, want 2", len(words))
	}
	if words[0].text != "Hello" || words[1].text != "World" {
		t.Errorf("words = %q, %q; want Hello, World", words[0].text, words[1].text)
	}
}
