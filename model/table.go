package model

// Cell is a single table cell. An empty Text is the explicit empty-cell
// marker; cells are never absent from a row.
type Cell struct {
	Text string
}

// Confidence is an optional confidence value in [0,1]. Strategies that
// cannot self-score leave Valid false ("unknown"); the distinction between
// a measured low confidence and no measurement is preserved until the point
// of comparison, where Or supplies the default.
type Confidence struct {
	Value float64
	Valid bool
}

// KnownConfidence returns a measured confidence value.
func KnownConfidence(v float64) Confidence {
	return Confidence{Value: v, Valid: true}
}

// UnknownConfidence returns the "no measurement available" marker.
func UnknownConfidence() Confidence {
	return Confidence{}
}

// Or returns the measured value, or def if no measurement is available.
func (c Confidence) Or(def float64) float64 {
	if c.Valid {
		return c.Value
	}
	return def
}

// Origin records which extractor strategy produced a table and how much
// that strategy trusts its own output.
type Origin struct {
	Strategy   string
	Confidence Confidence
}

// Table is the canonical representation of one extracted table.
//
// Before cleaning, rows may be jagged (extractor output follows the source
// layout). After process.Clean, every row has identical length.
type Table struct {
	Rows   [][]Cell
	Origin Origin
}

// NewTable creates an empty table attributed to the given origin.
func NewTable(origin Origin) *Table {
	return &Table{Origin: origin}
}

// AppendRow adds a row of cell values in source order.
func (t *Table) AppendRow(values ...string) {
	row := make([]Cell, len(values))
	for i, v := range values {
		row[i] = Cell{Text: v}
	}
	t.Rows = append(t.Rows, row)
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the widest row's length. For a rectangularized table
// this equals every row's length.
func (t *Table) ColCount() int {
	max := 0
	for _, row := range t.Rows {
		if len(row) > max {
			max = len(row)
		}
	}
	return max
}

// CellCount returns the total number of cells across all rows.
func (t *Table) CellCount() int {
	n := 0
	for _, row := range t.Rows {
		n += len(row)
	}
	return n
}

// NonEmptyCellCount returns the number of cells whose text is not the
// empty marker.
func (t *Table) NonEmptyCellCount() int {
	n := 0
	for _, row := range t.Rows {
		for _, c := range row {
			if c.Text != "" {
				n++
			}
		}
	}
	return n
}

// IsRectangular reports whether every row has the same length. Tables with
// no rows are trivially rectangular.
func (t *Table) IsRectangular() bool {
	if len(t.Rows) == 0 {
		return true
	}
	w := len(t.Rows[0])
	for _, row := range t.Rows[1:] {
		if len(row) != w {
			return false
		}
	}
	return true
}

// ModalColumnCount returns the most frequent row length. Ties are broken
// toward the wider count so no populated cells are discarded unnecessarily.
func (t *Table) ModalColumnCount() int {
	if len(t.Rows) == 0 {
		return 0
	}
	counts := make(map[int]int)
	widest := 0
	for _, row := range t.Rows {
		counts[len(row)]++
		if len(row) > widest {
			widest = len(row)
		}
	}
	mode, best := 0, 0
	for w := 0; w <= widest; w++ {
		if n := counts[w]; n > best || (n == best && n > 0) {
			mode, best = w, n
		}
	}
	return mode
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{Origin: t.Origin, Rows: make([][]Cell, len(t.Rows))}
	for i, row := range t.Rows {
		out.Rows[i] = make([]Cell, len(row))
		copy(out.Rows[i], row)
	}
	return out
}
