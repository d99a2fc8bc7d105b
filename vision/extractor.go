package vision

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"
	"time"

	"github.com/tsawler/tablecast/model"
	"github.com/tsawler/tablecast/ocr"
)

// StrategyName identifies tables produced by this extractor.
const StrategyName = "image-ocr"

// Recognizer is the OCR surface the extractor needs. *ocr.Client satisfies
// it; tests substitute fakes so they run without Tesseract installed.
type Recognizer interface {
	RecognizeWords(imageData []byte) ([]ocr.Word, error)
	SetPageSegMode(mode ocr.PageSegMode) error
}

// Extractor extracts tables from raster images via OCR.
type Extractor struct {
	rec               Recognizer
	minCellConfidence float64
}

// New creates an image extractor. Words recognized below minCellConfidence
// (in [0, 1]) are discarded.
func New(rec Recognizer, minCellConfidence float64) *Extractor {
	return &Extractor{rec: rec, minCellConfidence: minCellConfidence}
}

// Name returns the extractor identifier.
func (e *Extractor) Name() string { return StrategyName }

// Extract decodes the image, normalizes it, and extracts one table. Ruled
// grids are read cell by cell; images without a ruled grid fall back to
// whole-image recognition with positional row and column inference.
func (e *Extractor) Extract(ctx context.Context, data []byte) (*model.ExtractionOutcome, error) {
	start := time.Now()

	img, err := decodeImage(data)
	if err != nil {
		return nil, model.WrapError(model.TagInvalidImage, err, "decoding image")
	}

	gray, mask := preprocess(img)

	var (
		table    *model.Table
		warnings []string
	)
	if g := detectGrid(mask); g != nil {
		table, err = e.extractGridded(ctx, gray, g)
		if err != nil {
			return nil, err
		}
	}

	if table == nil {
		table, err = e.extractUnruled(ctx, gray)
		if err != nil {
			return nil, err
		}
		if table != nil {
			warnings = append(warnings, "no ruled grid detected; table inferred from text positions")
		}
	}

	if table == nil {
		return nil, model.NewError(model.TagNoTableDetected, "no table structure detected in image")
	}

	tables := []*model.Table{table}
	return &model.ExtractionOutcome{
		Tables:    tables,
		Succeeded: true,
		Elapsed:   time.Since(start),
		Warnings:  warnings,
		Raw:       model.MeasureRaw(tables),
	}, nil
}

// extractGridded crops each grid cell and recognizes it independently. Each
// crop holds a single block of text, so the engine is switched to single
// block segmentation for the duration. Returns nil when the grid turns out
// to contain no recognizable text.
func (e *Extractor) extractGridded(ctx context.Context, gray *image.Gray, g *grid) (*model.Table, error) {
	if err := e.rec.SetPageSegMode(ocr.PSM_SINGLE_BLOCK); err != nil {
		return nil, model.WrapError(model.TagExtractionFailed, err, "configuring cell recognition")
	}

	rows := make([][]string, g.rows())
	var confidences []float64
	sawText := false

	for r := 0; r < g.rows(); r++ {
		rows[r] = make([]string, g.cols())
		for c := 0; c < g.cols(); c++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			words, err := e.recognizeRegion(gray, g.cellRect(r, c))
			if err != nil {
				return nil, model.WrapError(model.TagExtractionFailed, err, "recognizing cell (%d,%d)", r, c)
			}

			text, confs := joinWords(words, e.minCellConfidence)
			rows[r][c] = text
			if text != "" {
				sawText = true
				confidences = append(confidences, confs...)
			}
		}
	}

	if !sawText {
		return nil, nil
	}

	table := model.NewTable(model.Origin{
		Strategy:   StrategyName,
		Confidence: model.KnownConfidence(meanOf(confidences)),
	})
	for _, row := range rows {
		table.AppendRow(row...)
	}
	return table, nil
}

// recognizeRegion re-encodes one region of the preprocessed image as PNG and
// runs OCR on it.
func (e *Extractor) recognizeRegion(gray *image.Gray, rect image.Rectangle) ([]ocr.Word, error) {
	sub := gray.SubImage(rect)
	var buf bytes.Buffer
	if err := png.Encode(&buf, sub); err != nil {
		return nil, err
	}
	return e.rec.RecognizeWords(buf.Bytes())
}

// cellRect returns the pixel rectangle of grid cell (r, c), inset a little
// so the rule lines themselves stay out of the OCR input.
func (g *grid) cellRect(r, c int) image.Rectangle {
	const inset = 2
	rect := image.Rect(g.colBounds[c], g.rowBounds[r], g.colBounds[c+1], g.rowBounds[r+1])
	if rect.Dx() > 2*inset && rect.Dy() > 2*inset {
		rect = rect.Inset(inset)
	}
	return rect
}

// joinWords concatenates words left to right, dropping those below the
// confidence floor, and returns the confidences of the kept words.
func joinWords(words []ocr.Word, minConfidence float64) (string, []float64) {
	var (
		parts []string
		confs []float64
	)
	for _, w := range words {
		if w.Confidence < minConfidence {
			continue
		}
		parts = append(parts, w.Text)
		confs = append(confs, w.Confidence)
	}
	return strings.Join(parts, " "), confs
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
