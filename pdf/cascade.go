package pdf

import (
	"context"
	"errors"
	"time"

	"github.com/tsawler/tablecast/internal/logging"
	"github.com/tsawler/tablecast/model"
)

// unknownDefault is the confidence assigned to unknown-confidence tables
// when an outcome is compared against the viability threshold. It applies
// only at comparison time; the tables themselves keep their unknown marker.
const unknownDefault = 0.5

// Strategy is one way of pulling tables out of a PDF. Strategies return raw
// jagged tables; cleaning happens downstream.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, data []byte) ([]*model.Table, error)
}

// Extractor runs the strategy cascade. It implements the same extractor
// contract as the document-native packages.
type Extractor struct {
	strategies []Strategy
	threshold  float64
	timeout    time.Duration
	log        logging.Logger
}

// New builds a cascade from strategy names in priority order. Unknown names
// are skipped with a warning so configuration typos degrade instead of
// failing every PDF.
func New(order []string, threshold float64, timeout time.Duration, log logging.Logger) *Extractor {
	var strategies []Strategy
	for _, name := range order {
		s := strategyByName(name)
		if s == nil {
			log.Warn("unknown PDF strategy in configuration, skipping",
				logging.F(logging.FieldStrategy, name))
			continue
		}
		strategies = append(strategies, s)
	}
	return &Extractor{
		strategies: strategies,
		threshold:  threshold,
		timeout:    timeout,
		log:        log,
	}
}

func strategyByName(name string) Strategy {
	switch name {
	case "layout":
		return layoutStrategy{}
	case "lattice":
		return latticeStrategy{}
	case "whitespace":
		return whitespaceStrategy{}
	}
	return nil
}

// Name returns the extractor identifier.
func (e *Extractor) Name() string { return "pdf-cascade" }

// Extract tries each strategy in order and commits to the first outcome with
// at least one non-empty table whose aggregate confidence meets the
// viability threshold. When no attempt qualifies, the attempt that produced
// the most cells is returned best-effort with a warning; when every attempt
// failed or found nothing, the failure is classified and returned.
func (e *Extractor) Extract(ctx context.Context, data []byte) (*model.ExtractionOutcome, error) {
	var (
		best          *model.ExtractionOutcome
		bestCells     int
		lastErr       error
		ranToEnd      bool
		malformedOnly = true
	)

	for _, s := range e.strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		outcome, err := e.attempt(ctx, s, data)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			e.log.Warn("extraction strategy failed",
				logging.F(logging.FieldStrategy, s.Name()),
				logging.F(logging.FieldError, err.Error()))
			lastErr = err
			if model.TagOf(err) != model.TagMalformedDocument {
				malformedOnly = false
			}
			continue
		}
		ranToEnd = true
		malformedOnly = false

		confidence := outcome.AggregateConfidence(unknownDefault)
		e.log.Debug("extraction strategy completed",
			logging.F(logging.FieldStrategy, s.Name()),
			logging.F(logging.FieldTables, len(outcome.Tables)),
			logging.F(logging.FieldDuration, outcome.Elapsed.Milliseconds()))

		if outcome.NonEmptyTableCount() >= 1 && confidence >= e.threshold {
			return outcome, nil
		}
		if cells := outcome.TotalCells(); cells > bestCells {
			best, bestCells = outcome, cells
		}
	}

	if best != nil && bestCells > 0 {
		best.Warnings = append(best.Warnings,
			"low-confidence extraction; no strategy met the viability threshold")
		return best, nil
	}
	if ranToEnd {
		return nil, model.NewError(model.TagExtractionFailed, "no strategy extracted any tables")
	}
	if lastErr != nil {
		if malformedOnly {
			return nil, lastErr
		}
		return nil, model.WrapError(model.TagExtractionFailed, lastErr, "every extraction strategy failed")
	}
	return nil, model.NewError(model.TagExtractionFailed, "no extraction strategies configured")
}

// attempt runs one strategy with a timeout. Strategies that overrun keep
// running in a goroutine until they notice the canceled context; their late
// result is discarded through the buffered channel.
func (e *Extractor) attempt(parent context.Context, s Strategy, data []byte) (*model.ExtractionOutcome, error) {
	ctx, cancel := context.WithTimeout(parent, e.timeout)
	defer cancel()

	type result struct {
		tables []*model.Table
		err    error
	}
	ch := make(chan result, 1)
	start := time.Now()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- result{err: model.NewError(model.TagInternalError,
					"strategy %q panicked: %v", s.Name(), r)}
			}
		}()
		tables, err := s.Extract(ctx, data)
		ch <- result{tables: tables, err: err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			if errors.Is(res.err, context.DeadlineExceeded) && parent.Err() == nil {
				return nil, model.WrapError(model.TagStrategyTimeout, res.err,
					"strategy %q exceeded its %s time limit", s.Name(), e.timeout)
			}
			return nil, res.err
		}
		return &model.ExtractionOutcome{
			Tables:    res.tables,
			Succeeded: true,
			Elapsed:   time.Since(start),
			Raw:       model.MeasureRaw(res.tables),
		}, nil
	case <-ctx.Done():
		if parent.Err() != nil {
			return nil, parent.Err()
		}
		return nil, model.NewError(model.TagStrategyTimeout,
			"strategy %q exceeded its %s time limit", s.Name(), e.timeout)
	}
}
