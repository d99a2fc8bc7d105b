package pdf

import (
	"context"

	"github.com/tsawler/tablecast/model"
)

// layoutStrategy detects tables from text positions alone. Consecutive lines
// holding multiple words form candidate regions; word left edges across a
// region are clustered into columns, and tables whose words align well with
// those columns are kept.
type layoutStrategy struct{}

func (layoutStrategy) Name() string { return "layout" }

func (s layoutStrategy) Extract(ctx context.Context, data []byte) ([]*model.Table, error) {
	pages, err := extractPageWords(data)
	if err != nil {
		return nil, err
	}

	var tables []*model.Table
	for _, words := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, region := range tableRegions(groupLines(words)) {
			if t := s.buildTable(region); t != nil {
				tables = append(tables, t)
			}
		}
	}
	return tables, nil
}

// tableRegions returns maximal runs of consecutive lines that each hold two
// or more words. Runs shorter than two lines cannot be tables.
func tableRegions(lines []line) [][]line {
	var regions [][]line
	var run []line
	flush := func() {
		if len(run) >= 2 {
			regions = append(regions, run)
		}
		run = nil
	}
	for _, ln := range lines {
		if len(ln.words) >= 2 {
			run = append(run, ln)
		} else {
			flush()
		}
	}
	flush()
	return regions
}

// buildTable turns one region into a table, or nil when its words do not
// align into at least two columns.
func (layoutStrategy) buildTable(region []line) *model.Table {
	var all []word
	for _, ln := range region {
		all = append(all, ln.words...)
	}

	tol := 1.5 * averageFontSize(all)
	var lefts []float64
	for _, w := range all {
		lefts = append(lefts, w.x)
	}
	centers := clusterValues(lefts, tol)
	if len(centers) < 2 {
		return nil
	}

	aligned := 0
	for _, w := range all {
		if abs(w.x-centers[nearestIndex(w.x, centers)]) <= tol/2 {
			aligned++
		}
	}
	alignment := float64(aligned) / float64(len(all))

	rows := make([][][]string, len(region))
	filled := 0
	for i, ln := range region {
		rows[i] = make([][]string, len(centers))
		for _, w := range ln.words {
			col := nearestIndex(w.x, centers)
			rows[i][col] = append(rows[i][col], w.text)
		}
		for _, cell := range rows[i] {
			if len(cell) > 0 {
				filled++
			}
		}
	}
	occupancy := float64(filled) / float64(len(region)*len(centers))

	// Sparse or badly aligned regions are prose, not tables.
	if occupancy < 0.4 || alignment < 0.5 {
		return nil
	}

	confidence := 0.5*occupancy + 0.5*alignment
	table := model.NewTable(model.Origin{
		Strategy:   "pdf-layout",
		Confidence: model.KnownConfidence(confidence),
	})
	for _, row := range rows {
		values := make([]string, len(row))
		for i, cell := range row {
			values[i] = joinCell(cell)
		}
		table.AppendRow(values...)
	}
	return table
}
