package quality

import (
	"testing"

	"github.com/tsawler/tablecast/model"
)

func scoredTable(conf model.Confidence, rows ...[]string) *model.Table {
	t := model.NewTable(model.Origin{Strategy: "test", Confidence: conf})
	for _, r := range rows {
		t.AppendRow(r...)
	}
	return t
}

func TestScore_Completeness(t *testing.T) {
	s := NewScorer(DefaultThresholds())
	tbl := scoredTable(model.KnownConfidence(1),
		[]string{"a", "b"},
		[]string{"c", ""},
	)
	m, _ := s.Score([]*model.Table{tbl}, model.RawMetrics{Consistency: 1})
	if m.Completeness != 0.75 {
		t.Errorf("Completeness = %v, want 0.75", m.Completeness)
	}
}

func TestScore_ConsistencyComesFromRaw(t *testing.T) {
	s := NewScorer(DefaultThresholds())
	tbl := scoredTable(model.KnownConfidence(1), []string{"a"})
	m, _ := s.Score([]*model.Table{tbl}, model.RawMetrics{Consistency: 0.6})
	if m.Consistency != 0.6 {
		t.Errorf("Consistency = %v, want raw 0.6", m.Consistency)
	}
}

func TestScore_AccuracyUnknownDefaults(t *testing.T) {
	s := NewScorer(DefaultThresholds())
	known := scoredTable(model.KnownConfidence(0.9), []string{"a"})
	unknown := scoredTable(model.UnknownConfidence(), []string{"b"})
	m, _ := s.Score([]*model.Table{known, unknown}, model.RawMetrics{Consistency: 1})
	want := (0.9 + 0.5) / 2
	if diff := m.AccuracyScore - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("AccuracyScore = %v, want %v", m.AccuracyScore, want)
	}
}

func TestScore_ThresholdWarnings(t *testing.T) {
	s := NewScorer(Thresholds{MinCompleteness: 0.9, MinConsistency: 0.9, MinAccuracy: 0.95})
	tbl := scoredTable(model.KnownConfidence(0.4),
		[]string{"a", ""},
		[]string{"", ""},
	)
	_, warnings := s.Score([]*model.Table{tbl}, model.RawMetrics{Consistency: 0.5})
	if len(warnings) != 3 {
		t.Errorf("warnings = %v, want all three threshold warnings", warnings)
	}
}

func TestScore_NoTablesNoWarnings(t *testing.T) {
	s := NewScorer(DefaultThresholds())
	m, warnings := s.Score(nil, model.RawMetrics{})
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none for empty result", warnings)
	}
	if m.Completeness != 0 || m.AccuracyScore != 0 {
		t.Errorf("metrics = %+v, want zeros", m)
	}
}
