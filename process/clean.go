package process

import (
	"fmt"

	"github.com/tsawler/tablecast/model"
)

// Clean normalizes and rectangularizes raw tables. Input tables are not
// modified. Tables that end up with no rows after cleaning are dropped from
// the output. The returned warnings describe lossy adjustments (truncated
// rows).
func Clean(tables []*model.Table) ([]*model.Table, []string) {
	var out []*model.Table
	var warnings []string

	for i, t := range tables {
		cleaned, w := cleanTable(t, i)
		warnings = append(warnings, w...)
		if cleaned.RowCount() > 0 {
			out = append(out, cleaned)
		}
	}
	return out, warnings
}

// cleanTable applies the cleaning steps to one table, in order: per-cell
// normalization, empty-row removal, empty-column removal, then padding or
// truncation to the modal column count.
func cleanTable(t *model.Table, index int) (*model.Table, []string) {
	var warnings []string

	work := &model.Table{Origin: t.Origin}
	for _, row := range t.Rows {
		cells := make([]model.Cell, len(row))
		empty := true
		for j, c := range row {
			cells[j] = model.Cell{Text: Normalize(c.Text)}
			if cells[j].Text != "" {
				empty = false
			}
		}
		if !empty {
			work.Rows = append(work.Rows, cells)
		}
	}

	dropEmptyColumns(work)

	mode := work.ModalColumnCount()
	if mode == 0 {
		return &model.Table{Origin: t.Origin}, warnings
	}

	truncated := 0
	for i, row := range work.Rows {
		switch {
		case len(row) < mode:
			padded := make([]model.Cell, mode)
			copy(padded, row)
			work.Rows[i] = padded
		case len(row) > mode:
			// Keep only trailing cells that are empty anyway; dropping
			// populated cells is reported.
			for _, c := range row[mode:] {
				if c.Text != "" {
					truncated++
				}
			}
			work.Rows[i] = row[:mode]
		}
	}
	if truncated > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"table %d: truncated %d cell(s) beyond the modal column count", index+1, truncated))
	}

	// Truncation can empty out a row whose only content sat beyond the modal
	// width. Drop such rows now so a second Clean is a no-op.
	kept := work.Rows[:0]
	for _, row := range work.Rows {
		empty := true
		for _, c := range row {
			if c.Text != "" {
				empty = false
				break
			}
		}
		if !empty {
			kept = append(kept, row)
		}
	}
	work.Rows = kept

	return work, warnings
}

// dropEmptyColumns removes columns that are empty across every row of the
// table. Column positions are judged over the table's widest row; rows
// shorter than a column index simply have no cell there.
func dropEmptyColumns(t *model.Table) {
	width := t.ColCount()
	if width == 0 {
		return
	}

	keep := make([]bool, width)
	for _, row := range t.Rows {
		for j, c := range row {
			if c.Text != "" {
				keep[j] = true
			}
		}
	}

	allKept := true
	for _, k := range keep {
		if !k {
			allKept = false
			break
		}
	}
	if allKept {
		return
	}

	for i, row := range t.Rows {
		var cells []model.Cell
		for j, c := range row {
			if keep[j] {
				cells = append(cells, c)
			}
		}
		t.Rows[i] = cells
	}
}
