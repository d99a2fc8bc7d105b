package model

import "time"

// RawMetrics captures structure signals measured on raw extractor output,
// before cleaning. Consistency in particular must be measured here:
// rectangularization forces it to 1.0 by construction, so the post-clean
// value carries no information.
type RawMetrics struct {
	// Consistency is the fraction of raw rows whose column count equals
	// the modal column count, across all tables in the outcome.
	Consistency float64

	// TotalRows and TotalCells describe the raw output size.
	TotalRows  int
	TotalCells int
}

// MeasureRaw computes RawMetrics over raw (possibly jagged) tables.
func MeasureRaw(tables []*Table) RawMetrics {
	m := RawMetrics{Consistency: 1.0}
	matching, total := 0, 0
	for _, t := range tables {
		mode := t.ModalColumnCount()
		for _, row := range t.Rows {
			total++
			m.TotalCells += len(row)
			if len(row) == mode {
				matching++
			}
		}
	}
	m.TotalRows = total
	if total > 0 {
		m.Consistency = float64(matching) / float64(total)
	}
	return m
}

// ExtractionOutcome is the result of one strategy attempt (or, for document
// extractors, the single native extraction). It is created by a strategy
// invocation, consumed by the cascade controller, and discarded once the
// cascade commits to one outcome.
type ExtractionOutcome struct {
	Tables        []*Table
	Succeeded     bool
	FailureReason Tag
	Elapsed       time.Duration
	Warnings      []string

	// Raw holds pre-cleaning structure metrics for the tables above.
	Raw RawMetrics
}

// TotalCells returns the number of cells across all tables in the outcome.
func (o *ExtractionOutcome) TotalCells() int {
	n := 0
	for _, t := range o.Tables {
		n += t.CellCount()
	}
	return n
}

// NonEmptyTableCount returns the number of tables holding at least one
// non-empty cell.
func (o *ExtractionOutcome) NonEmptyTableCount() int {
	n := 0
	for _, t := range o.Tables {
		if t.NonEmptyCellCount() > 0 {
			n++
		}
	}
	return n
}

// AggregateConfidence returns the mean per-table origin confidence, with
// unknown confidences defaulting to unknownDefault. Returns 0 for an
// outcome with no tables.
func (o *ExtractionOutcome) AggregateConfidence(unknownDefault float64) float64 {
	if len(o.Tables) == 0 {
		return 0
	}
	sum := 0.0
	for _, t := range o.Tables {
		sum += t.Origin.Confidence.Or(unknownDefault)
	}
	return sum / float64(len(o.Tables))
}
