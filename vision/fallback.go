package vision

import (
	"context"
	"image"
	"sort"
	"strings"

	"github.com/tsawler/tablecast/model"
	"github.com/tsawler/tablecast/ocr"
)

// extractUnruled recognizes the whole image and infers table structure from
// word positions: words sharing a baseline band form a row, and left edges
// cluster into columns. Returns nil when the words do not form at least a
// 2x2 table.
func (e *Extractor) extractUnruled(ctx context.Context, gray *image.Gray) (*model.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Whole-image recognition needs full layout analysis, unlike the single
	// block mode used for cell crops.
	if err := e.rec.SetPageSegMode(ocr.PSM_AUTO); err != nil {
		return nil, model.WrapError(model.TagExtractionFailed, err, "configuring image recognition")
	}

	words, err := e.recognizeRegion(gray, gray.Bounds())
	if err != nil {
		return nil, model.WrapError(model.TagExtractionFailed, err, "recognizing image")
	}

	var kept []ocr.Word
	for _, w := range words {
		if w.Confidence >= e.minCellConfidence {
			kept = append(kept, w)
		}
	}
	if len(kept) < 4 {
		return nil, nil
	}

	rows := groupIntoRows(kept)
	if len(rows) < 2 {
		return nil, nil
	}

	colCenters := columnCenters(kept)
	if len(colCenters) < 2 {
		return nil, nil
	}

	var confidences []float64
	for _, w := range kept {
		confidences = append(confidences, w.Confidence)
	}

	table := model.NewTable(model.Origin{
		Strategy:   StrategyName,
		Confidence: model.KnownConfidence(meanOf(confidences)),
	})
	for _, rowWords := range rows {
		cells := make([][]string, len(colCenters))
		sort.Slice(rowWords, func(i, j int) bool { return rowWords[i].X < rowWords[j].X })
		for _, w := range rowWords {
			col := nearestColumn(float64(w.X), colCenters)
			cells[col] = append(cells[col], w.Text)
		}
		values := make([]string, len(colCenters))
		for i, parts := range cells {
			values[i] = strings.Join(parts, " ")
		}
		table.AppendRow(values...)
	}
	return table, nil
}

// groupIntoRows clusters words into horizontal bands by vertical center,
// ordered top to bottom. The band tolerance scales with the median word
// height so the grouping adapts to font size.
func groupIntoRows(words []ocr.Word) [][]ocr.Word {
	tol := 0.6 * medianHeight(words)
	if tol < 2 {
		tol = 2
	}

	sorted := make([]ocr.Word, len(words))
	copy(sorted, words)
	sort.Slice(sorted, func(i, j int) bool {
		return verticalCenter(sorted[i]) < verticalCenter(sorted[j])
	})

	var rows [][]ocr.Word
	var current []ocr.Word
	var currentCenter float64
	for _, w := range sorted {
		c := verticalCenter(w)
		if current == nil || c-currentCenter > tol {
			if current != nil {
				rows = append(rows, current)
			}
			current = []ocr.Word{w}
		} else {
			current = append(current, w)
		}
		currentCenter = c
	}
	if current != nil {
		rows = append(rows, current)
	}
	return rows
}

// columnCenters clusters word left edges into column positions. A generous
// tolerance absorbs ragged alignment without collapsing adjacent columns.
func columnCenters(words []ocr.Word) []float64 {
	tol := 1.5 * medianHeight(words)
	if tol < 4 {
		tol = 4
	}

	lefts := make([]float64, 0, len(words))
	for _, w := range words {
		lefts = append(lefts, float64(w.X))
	}
	return clusterValues(lefts, tol)
}

// clusterValues groups sorted values whose neighbors lie within tolerance
// and returns the mean of each group.
func clusterValues(values []float64, tolerance float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var centers []float64
	sum := sorted[0]
	count := 1
	prev := sorted[0]
	for _, v := range sorted[1:] {
		if v-prev > tolerance {
			centers = append(centers, sum/float64(count))
			sum, count = 0, 0
		}
		sum += v
		count++
		prev = v
	}
	centers = append(centers, sum/float64(count))
	return centers
}

func nearestColumn(x float64, centers []float64) int {
	best := 0
	bestDist := -1.0
	for i, c := range centers {
		d := x - c
		if d < 0 {
			d = -d
		}
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func verticalCenter(w ocr.Word) float64 {
	return float64(w.Y) + float64(w.Height)/2
}

func medianHeight(words []ocr.Word) float64 {
	heights := make([]int, 0, len(words))
	for _, w := range words {
		heights = append(heights, w.Height)
	}
	sort.Ints(heights)
	if len(heights) == 0 {
		return 0
	}
	return float64(heights[len(heights)/2])
}

