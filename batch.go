package tablecast

import (
	"context"
	"sync"

	"github.com/tsawler/tablecast/internal/logging"
	"github.com/tsawler/tablecast/model"
)

// ConvertBatch converts the inputs concurrently with a bounded worker pool
// and returns per-file results in submission order. Each file is isolated:
// one failure never affects the others. The worker count comes from
// configuration; a batch of fewer files uses fewer workers.
func (c *Converter) ConvertBatch(ctx context.Context, inputs []Input) *model.BatchResult {
	workers := c.cfg.Batch.Workers
	if workers > len(inputs) {
		workers = len(inputs)
	}
	if workers < 1 {
		workers = 1
	}

	c.log.Info("starting batch conversion",
		logging.F(logging.FieldWorkers, workers),
		logging.F("files", len(inputs)))

	results := make([]*model.ConversionResult, len(inputs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = c.Convert(ctx, inputs[i])
			}
		}()
	}

	for i := range inputs {
		select {
		case jobs <- i:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			// Files never dispatched get a classified cancellation result
			// instead of a nil slot.
			for j := range results {
				if results[j] == nil {
					results[j] = model.FailedResult(inputs[j].FileID,
						model.WrapError(model.TagInternalError, ctx.Err(), "batch canceled"))
				}
			}
			return summarize(results)
		}
	}
	close(jobs)
	wg.Wait()

	return summarize(results)
}

func summarize(results []*model.ConversionResult) *model.BatchResult {
	batch := &model.BatchResult{
		Results:    results,
		TotalFiles: len(results),
	}
	for _, r := range results {
		if r != nil && r.Success {
			batch.SuccessfulConversions++
		} else {
			batch.FailedConversions++
		}
	}
	return batch
}
