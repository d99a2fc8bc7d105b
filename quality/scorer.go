// Package quality computes objective quality metrics over a cleaned table
// set and attaches warnings when metrics fall below configured thresholds.
//
// Consistency is scored from the raw, pre-cleaning extraction: after
// rectangularization every row has the modal width by construction, so the
// post-clean value would always be 1.0 and carry no signal.
package quality

import (
	"github.com/tsawler/tablecast/model"
)

// Thresholds are the warning cutoffs for each metric.
type Thresholds struct {
	MinCompleteness float64
	MinConsistency  float64
	MinAccuracy     float64
}

// DefaultThresholds returns the standard warning cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinCompleteness: 0.5,
		MinConsistency:  0.7,
		MinAccuracy:     0.6,
	}
}

// Scorer computes QualityMetrics. It is a pure function holder: scoring has
// no side effects and no state beyond the thresholds.
type Scorer struct {
	thresholds Thresholds
}

// NewScorer creates a Scorer with the given thresholds.
func NewScorer(t Thresholds) *Scorer {
	return &Scorer{thresholds: t}
}

// Score computes metrics over the cleaned tables plus the raw metrics
// captured during extraction, and returns any threshold warnings.
//
// Completeness is the non-empty cell fraction of the cleaned output.
// AccuracyScore is the mean origin confidence of the cleaned tables, with
// unknown confidence defaulting to 0.5; document-native origins report 1.0.
func (s *Scorer) Score(cleaned []*model.Table, raw model.RawMetrics) (model.QualityMetrics, []string) {
	m := model.QualityMetrics{
		Consistency: clamp01(raw.Consistency),
	}

	totalCells, nonEmpty := 0, 0
	confSum := 0.0
	for _, t := range cleaned {
		totalCells += t.CellCount()
		nonEmpty += t.NonEmptyCellCount()
		confSum += t.Origin.Confidence.Or(0.5)
	}
	if totalCells > 0 {
		m.Completeness = clamp01(float64(nonEmpty) / float64(totalCells))
	}
	if len(cleaned) > 0 {
		m.AccuracyScore = clamp01(confSum / float64(len(cleaned)))
	}

	var warnings []string
	if len(cleaned) > 0 {
		if m.Completeness < s.thresholds.MinCompleteness {
			warnings = append(warnings, "low completeness")
		}
		if m.Consistency < s.thresholds.MinConsistency {
			warnings = append(warnings, "irregular row structure; review recommended")
		}
		if m.AccuracyScore < s.thresholds.MinAccuracy {
			warnings = append(warnings, "low-confidence extraction")
		}
	}

	return m, warnings
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
