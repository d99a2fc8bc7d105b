package pdf

import (
	"context"

	"github.com/tsawler/tablecast/model"
)

// whitespaceStrategy splits reconstructed text lines at wide horizontal gaps.
// It makes no attempt to verify column alignment, so its tables carry
// unknown confidence and are resolved against the viability threshold only
// at comparison time.
type whitespaceStrategy struct{}

func (whitespaceStrategy) Name() string { return "whitespace" }

func (s whitespaceStrategy) Extract(ctx context.Context, data []byte) ([]*model.Table, error) {
	pages, err := extractPageWords(data)
	if err != nil {
		return nil, err
	}

	var tables []*model.Table
	for _, words := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tables = append(tables, splitAtGaps(groupLines(words))...)
	}
	return tables, nil
}

// splitAtGaps converts each line into cells separated by gaps wider than
// about two character widths, then groups consecutive multi-cell lines into
// tables.
func splitAtGaps(lines []line) []*model.Table {
	var tables []*model.Table
	var rows [][]string

	flush := func() {
		if len(rows) >= 2 {
			t := model.NewTable(model.Origin{
				Strategy:   "pdf-whitespace",
				Confidence: model.UnknownConfidence(),
			})
			for _, r := range rows {
				t.AppendRow(r...)
			}
			tables = append(tables, t)
		}
		rows = nil
	}

	for _, ln := range lines {
		cells := lineCells(ln)
		if len(cells) >= 2 {
			rows = append(rows, cells)
		} else {
			flush()
		}
	}
	flush()
	return tables
}

// lineCells splits one line's words into cells wherever the horizontal gap
// between neighbors exceeds the gap threshold.
func lineCells(ln line) []string {
	if len(ln.words) == 0 {
		return nil
	}
	gapThreshold := 1.5 * averageFontSize(ln.words)

	var cells []string
	current := []string{ln.words[0].text}
	prev := ln.words[0]
	for _, w := range ln.words[1:] {
		if w.x-prev.right() > gapThreshold {
			cells = append(cells, joinCell(current))
			current = nil
		}
		current = append(current, w.text)
		prev = w
	}
	cells = append(cells, joinCell(current))
	return cells
}
