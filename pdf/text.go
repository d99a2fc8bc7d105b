package pdf

import (
	"bytes"
	"sort"
	"strings"

	rscpdf "rsc.io/pdf"

	"github.com/tsawler/tablecast/model"
)

// word is one positioned word in PDF user space. PDF y grows upward, so
// larger y means higher on the page.
type word struct {
	text     string
	x, y     float64
	width    float64
	fontSize float64
}

func (w word) right() float64 { return w.x + w.width }

// line is a baseline-aligned run of words, ordered left to right.
type line struct {
	y     float64
	words []word
}

// extractPageWords reads positioned text from every page and merges adjacent
// glyph runs into words. The underlying parser panics on malformed input, so
// failures surface as MalformedDocument errors via recover.
func extractPageWords(data []byte) (pages [][]word, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = model.NewError(model.TagMalformedDocument, "parsing PDF: %v", r)
		}
	}()

	reader, err := rscpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, model.WrapError(model.TagMalformedDocument, err, "opening PDF")
	}

	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, nil)
			continue
		}
		pages = append(pages, mergeRuns(page.Content().Text))
	}
	return pages, nil
}

// mergeRuns joins adjacent text runs that share a baseline into words.
// A horizontal gap wider than a fraction of the font size ends the word.
func mergeRuns(texts []rscpdf.Text) []word {
	if len(texts) == 0 {
		return nil
	}

	runs := make([]rscpdf.Text, len(texts))
	copy(runs, texts)
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].Y != runs[j].Y {
			return runs[i].Y > runs[j].Y
		}
		return runs[i].X < runs[j].X
	})

	var words []word
	cur := word{
		text:     runs[0].S,
		x:        runs[0].X,
		y:        runs[0].Y,
		width:    runs[0].W,
		fontSize: runs[0].FontSize,
	}
	for _, t := range runs[1:] {
		sameBaseline := abs(t.Y-cur.y) < 0.2*maxf(cur.fontSize, 1)
		gap := t.X - cur.right()
		if sameBaseline && gap < 0.3*maxf(cur.fontSize, 1) {
			cur.text += t.S
			cur.width = t.X + t.W - cur.x
			continue
		}
		appendWord(&words, cur)
		cur = word{text: t.S, x: t.X, y: t.Y, width: t.W, fontSize: t.FontSize}
	}
	appendWord(&words, cur)
	return words
}

func appendWord(words *[]word, w word) {
	w.text = strings.TrimSpace(w.text)
	if w.text != "" {
		*words = append(*words, w)
	}
}

// groupLines buckets words into baseline lines ordered top to bottom, words
// within a line ordered left to right.
func groupLines(words []word) []line {
	if len(words) == 0 {
		return nil
	}

	sorted := make([]word, len(words))
	copy(sorted, words)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].y != sorted[j].y {
			return sorted[i].y > sorted[j].y
		}
		return sorted[i].x < sorted[j].x
	})

	var lines []line
	for _, w := range sorted {
		tol := 0.5 * maxf(w.fontSize, 1)
		if n := len(lines); n > 0 && abs(lines[n-1].y-w.y) <= tol {
			lines[n-1].words = append(lines[n-1].words, w)
			continue
		}
		lines = append(lines, line{y: w.y, words: []word{w}})
	}
	for i := range lines {
		ws := lines[i].words
		sort.Slice(ws, func(a, b int) bool { return ws[a].x < ws[b].x })
	}
	return lines
}

// clusterValues groups sorted values whose successive gaps stay within
// tolerance, returning each group's mean.
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

func nearestIndex(v float64, centers []float64) int {
	best, bestDist := 0, -1.0
	for i, c := range centers {
		d := abs(v - c)
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func averageFontSize(words []word) float64 {
	if len(words) == 0 {
		return 10
	}
	sum := 0.0
	for _, w := range words {
		sum += w.fontSize
	}
	avg := sum / float64(len(words))
	if avg <= 0 {
		return 10
	}
	return avg
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// joinCell concatenates word texts in reading order for one table cell.
func joinCell(parts []string) string {
	return strings.TrimSpace(strings.Join(parts, " "))
}
