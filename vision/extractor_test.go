package vision

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/tsawler/tablecast/model"
	"github.com/tsawler/tablecast/ocr"
)

// fakeRecognizer returns the same scripted words for every region.
type fakeRecognizer struct {
	words []ocr.Word
	err   error
	calls int
	modes []ocr.PageSegMode
}

func (f *fakeRecognizer) RecognizeWords(data []byte) ([]ocr.Word, error) {
	f.calls++
	return f.words, f.err
}

func (f *fakeRecognizer) SetPageSegMode(mode ocr.PageSegMode) error {
	f.modes = append(f.modes, mode)
	return nil
}

// gridImagePNG renders a white 300x300 image with a ruled 2x2 grid.
func gridImagePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 300, 300))
	for y := 0; y < 300; y++ {
		for x := 0; x < 300; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	for _, pos := range []int{20, 150, 280} {
		for thick := 0; thick < 3; thick++ {
			for i := 0; i < 300; i++ {
				img.SetGray(i, pos+thick, color.Gray{Y: 0})
				img.SetGray(pos+thick, i, color.Gray{Y: 0})
			}
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

// blankImagePNG renders an all-white image.
func blankImagePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 200, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

func TestExtract_RuledGrid(t *testing.T) {
	rec := &fakeRecognizer{words: []ocr.Word{
		{Text: "cell", X: 5, Y: 5, Width: 30, Height: 10, Confidence: 0.9},
	}}
	out, err := New(rec, 0.3).Extract(context.Background(), gridImagePNG(t))
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}
	if len(out.Tables) != 1 {
		t.Fatalf("tables = %d, want 1", len(out.Tables))
	}
	tbl := out.Tables[0]
	if tbl.RowCount() != 2 || tbl.ColCount() != 2 {
		t.Fatalf("shape = %dx%d, want 2x2", tbl.RowCount(), tbl.ColCount())
	}
	for _, row := range tbl.Rows {
		for _, c := range row {
			if c.Text != "cell" {
				t.Errorf("cell = %q, want cell", c.Text)
			}
		}
	}
	if rec.calls != 4 {
		t.Errorf("recognizer called %d times, want once per cell (4)", rec.calls)
	}
	if got := tbl.Origin.Confidence.Or(0); got != 0.9 {
		t.Errorf("confidence = %v, want mean word confidence 0.9", got)
	}
	if tbl.Origin.Strategy != StrategyName {
		t.Errorf("strategy = %q, want %q", tbl.Origin.Strategy, StrategyName)
	}
	if len(rec.modes) != 1 || rec.modes[0] != ocr.PSM_SINGLE_BLOCK {
		t.Errorf("modes = %v, want single block segmentation for cell crops", rec.modes)
	}
}

func TestExtract_FallbackFromWordPositions(t *testing.T) {
	rec := &fakeRecognizer{words: []ocr.Word{
		{Text: "Name", X: 10, Y: 10, Width: 40, Height: 10, Confidence: 0.9},
		{Text: "Qty", X: 100, Y: 10, Width: 30, Height: 10, Confidence: 0.9},
		{Text: "alpha", X: 10, Y: 50, Width: 45, Height: 10, Confidence: 0.8},
		{Text: "3", X: 100, Y: 50, Width: 10, Height: 10, Confidence: 0.8},
	}}
	out, err := New(rec, 0.3).Extract(context.Background(), blankImagePNG(t))
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}
	tbl := out.Tables[0]
	if tbl.RowCount() != 2 || tbl.ColCount() != 2 {
		t.Fatalf("shape = %dx%d, want 2x2", tbl.RowCount(), tbl.ColCount())
	}
	if tbl.Rows[0][0].Text != "Name" || tbl.Rows[1][1].Text != "3" {
		t.Errorf("cells = %v, want positional layout preserved", tbl.Rows)
	}
	if len(out.Warnings) == 0 {
		t.Error("fallback extraction should warn about the missing grid")
	}
	if len(rec.modes) != 1 || rec.modes[0] != ocr.PSM_AUTO {
		t.Errorf("modes = %v, want automatic segmentation for whole-image recognition", rec.modes)
	}
}

func TestExtract_LowConfidenceWordsFiltered(t *testing.T) {
	rec := &fakeRecognizer{words: []ocr.Word{
		{Text: "noise", X: 10, Y: 10, Width: 40, Height: 10, Confidence: 0.05},
	}}
	_, err := New(rec, 0.3).Extract(context.Background(), blankImagePNG(t))
	if model.TagOf(err) != model.TagNoTableDetected {
		t.Errorf("tag = %v, want NoTableDetected once noise is filtered", model.TagOf(err))
	}
}

func TestExtract_NoWordsIsNoTableDetected(t *testing.T) {
	rec := &fakeRecognizer{}
	_, err := New(rec, 0.3).Extract(context.Background(), blankImagePNG(t))
	if model.TagOf(err) != model.TagNoTableDetected {
		t.Errorf("tag = %v, want NoTableDetected", model.TagOf(err))
	}
}

func TestExtract_InvalidImage(t *testing.T) {
	rec := &fakeRecognizer{}
	_, err := New(rec, 0.3).Extract(context.Background(), []byte("definitely not an image"))
	if model.TagOf(err) != model.TagInvalidImage {
		t.Errorf("tag = %v, want InvalidImage", model.TagOf(err))
	}
	if rec.calls != 0 {
		t.Errorf("recognizer called %d times on undecodable input, want 0", rec.calls)
	}
}

func TestGroupIntoRows(t *testing.T) {
	words := []ocr.Word{
		{Text: "b", X: 50, Y: 52, Height: 10},
		{Text: "a", X: 10, Y: 50, Height: 10},
		{Text: "c", X: 10, Y: 100, Height: 10},
	}
	rows := groupIntoRows(words)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if len(rows[0]) != 2 {
		t.Errorf("first row words = %d, want 2", len(rows[0]))
	}
}
