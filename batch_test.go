package tablecast

import (
	"context"
	"testing"
	"time"

	"github.com/tsawler/tablecast/format"
	"github.com/tsawler/tablecast/model"
)

type slowExtractor struct{ delay time.Duration }

func (slowExtractor) Name() string { return "slow" }
func (s slowExtractor) Extract(ctx context.Context, data []byte) (*model.ExtractionOutcome, error) {
	time.Sleep(s.delay)
	table := model.NewTable(model.Origin{Strategy: "slow", Confidence: model.KnownConfidence(1)})
	table.AppendRow("a", "b")
	return &model.ExtractionOutcome{
		Tables:    []*model.Table{table},
		Succeeded: true,
		Raw:       model.MeasureRaw([]*model.Table{table}),
	}, nil
}

func TestConvertBatch_OrderAndIsolation(t *testing.T) {
	c := testConverter(t)
	inputs := []Input{
		{FileID: "a", Filename: "a.html", Data: []byte(tableHTML)},
		{FileID: "b", Filename: "b.txt", Data: []byte("not a table format")},
		{FileID: "c", Filename: "c.html", Data: []byte(tableHTML)},
	}

	batch := c.ConvertBatch(context.Background(), inputs)

	if batch.TotalFiles != 3 {
		t.Fatalf("TotalFiles = %d, want 3", batch.TotalFiles)
	}
	if batch.SuccessfulConversions != 2 || batch.FailedConversions != 1 {
		t.Errorf("counts = %d/%d, want 2 successes and 1 failure",
			batch.SuccessfulConversions, batch.FailedConversions)
	}
	for i, in := range inputs {
		if batch.Results[i] == nil || batch.Results[i].FileID != in.FileID {
			t.Errorf("Results[%d] = %+v, want FileID %q", i, batch.Results[i], in.FileID)
		}
	}
	if batch.Results[1].Success {
		t.Error("unsupported input should fail without affecting its neighbors")
	}
	if !batch.Results[0].Success || !batch.Results[2].Success {
		t.Error("valid inputs should succeed despite a failing sibling")
	}
}

func TestConvertBatch_OrderUnderUnequalDurations(t *testing.T) {
	// The first input finishes last; its result must still land first.
	c := testConverter(t)
	c.dispatcher.Register(format.XLSX, slowExtractor{delay: 50 * time.Millisecond})

	inputs := []Input{
		{FileID: "slow", Filename: "slow.xlsx", Data: []byte("x")},
		{FileID: "fast1", Filename: "fast1.html", Data: []byte(tableHTML)},
		{FileID: "fast2", Filename: "fast2.html", Data: []byte(tableHTML)},
	}
	batch := c.ConvertBatch(context.Background(), inputs)

	if batch.SuccessfulConversions != 3 {
		t.Fatalf("successes = %d, want 3", batch.SuccessfulConversions)
	}
	for i, in := range inputs {
		if batch.Results[i].FileID != in.FileID {
			t.Errorf("Results[%d].FileID = %q, want %q", i, batch.Results[i].FileID, in.FileID)
		}
	}
}

func TestConvertBatch_Empty(t *testing.T) {
	c := testConverter(t)
	batch := c.ConvertBatch(context.Background(), nil)
	if batch.TotalFiles != 0 || len(batch.Results) != 0 {
		t.Errorf("batch = %+v, want empty", batch)
	}
}

func TestConvertBatch_Canceled(t *testing.T) {
	c := testConverter(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inputs := make([]Input, 20)
	for i := range inputs {
		inputs[i] = Input{FileID: "f", Filename: "f.html", Data: []byte(tableHTML)}
	}

	batch := c.ConvertBatch(ctx, inputs)
	if batch.TotalFiles != 20 {
		t.Fatalf("TotalFiles = %d, want 20", batch.TotalFiles)
	}
	for i, r := range batch.Results {
		if r == nil {
			t.Fatalf("Results[%d] is nil; every slot must carry a result", i)
		}
	}
	if batch.FailedConversions == 0 {
		t.Error("canceled batch should report undispatched files as failures")
	}
}

func TestConvertBatch_WorkerFloor(t *testing.T) {
	// A worker count of zero in configuration must not deadlock the pool.
	c := testConverter(t)
	c.cfg.Batch.Workers = 0

	batch := c.ConvertBatch(context.Background(), []Input{
		{FileID: "solo", Filename: "solo.html", Data: []byte(tableHTML)},
	})
	if batch.SuccessfulConversions != 1 {
		t.Errorf("successes = %d, want 1", batch.SuccessfulConversions)
	}
}
