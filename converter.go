package tablecast

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tsawler/tablecast/config"
	"github.com/tsawler/tablecast/docx"
	"github.com/tsawler/tablecast/format"
	"github.com/tsawler/tablecast/htmltable"
	"github.com/tsawler/tablecast/internal/logging"
	"github.com/tsawler/tablecast/model"
	"github.com/tsawler/tablecast/ocr"
	"github.com/tsawler/tablecast/pdf"
	"github.com/tsawler/tablecast/process"
	"github.com/tsawler/tablecast/quality"
	"github.com/tsawler/tablecast/vision"
	"github.com/tsawler/tablecast/xlsx"
)

// Input is one file to convert. Data is the complete file content; the
// converter never touches the filesystem.
type Input struct {
	FileID   string
	Filename string
	Data     []byte
}

// Converter runs the conversion pipeline. It is safe for concurrent use.
type Converter struct {
	cfg        config.Config
	log        logging.Logger
	dispatcher *format.Dispatcher
	scorer     *quality.Scorer
	ocrClient  *ocr.Client
}

// New builds a Converter from validated configuration. When OCR support is
// unavailable (not compiled in or Tesseract missing), image conversion is
// disabled and image inputs fail with an unsupported-format error; all other
// formats work normally.
func New(cfg *config.Config, log logging.Logger) (*Converter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	c := &Converter{
		cfg: *cfg,
		log: log,
		scorer: quality.NewScorer(quality.Thresholds{
			MinCompleteness: cfg.Quality.MinCompleteness,
			MinConsistency:  cfg.Quality.MinConsistency,
			MinAccuracy:     cfg.Quality.MinAccuracy,
		}),
		dispatcher: format.NewDispatcher(),
	}

	c.dispatcher.Register(format.PDF, pdf.New(
		cfg.PDF.StrategyOrder,
		cfg.PDF.ViabilityThreshold,
		cfg.PDF.StrategyTimeout,
		log,
	))
	c.dispatcher.Register(format.DOCX, docx.New())
	c.dispatcher.Register(format.XLSX, xlsx.New())
	c.dispatcher.Register(format.HTML, htmltable.New())

	client, err := ocr.New()
	if err != nil {
		log.Warn("OCR unavailable; image conversion disabled",
			logging.F(logging.FieldError, err.Error()))
	} else {
		if err := client.SetLanguage(cfg.Image.Language); err != nil {
			client.Close()
			return nil, fmt.Errorf("configuring OCR language: %w", err)
		}
		c.ocrClient = client
		c.dispatcher.Register(format.Image, vision.New(client, cfg.Image.MinCellConfidence))
	}

	return c, nil
}

// Close releases resources held by the converter.
func (c *Converter) Close() error {
	if c.ocrClient != nil {
		return c.ocrClient.Close()
	}
	return nil
}

// Convert runs the full pipeline on one input and always returns a result:
// errors, including panics in extraction code, come back as failed results
// with a classified error tag, never as a crash.
func (c *Converter) Convert(ctx context.Context, in Input) (result *model.ConversionResult) {
	start := time.Now()
	log := c.log.WithField(logging.FieldFileID, in.FileID)

	defer func() {
		if r := recover(); r != nil {
			log.Error("conversion panicked",
				logging.F(logging.FieldError, fmt.Sprint(r)))
			result = model.FailedResult(in.FileID,
				model.NewError(model.TagInternalError, "internal error: %v", r))
		}
	}()

	extractor, detected, err := c.dispatcher.Extractor(in.Filename, in.Data)
	if err != nil {
		return c.failed(log, in.FileID, err)
	}
	log = log.WithField(logging.FieldFormat, detected.String())
	log.Debug("dispatching extraction",
		logging.F(logging.FieldStrategy, extractor.Name()),
		logging.F(logging.FieldFilename, in.Filename))

	outcome, err := extractor.Extract(ctx, in.Data)
	if err != nil {
		return c.failed(log, in.FileID, err)
	}

	cleaned, cleanWarnings := process.Clean(outcome.Tables)
	metrics, qualityWarnings := c.scorer.Score(cleaned, outcome.Raw)

	csvText, err := process.Serialize(cleaned)
	if err != nil {
		return c.failed(log, in.FileID,
			model.WrapError(model.TagInternalError, err, "serializing CSV"))
	}

	warnings := append([]string{}, outcome.Warnings...)
	warnings = append(warnings, cleanWarnings...)
	warnings = append(warnings, qualityWarnings...)

	elapsed := time.Since(start)
	result = &model.ConversionResult{
		Success: true,
		FileID:  in.FileID,
		CSVText: csvText,
		Stats: model.ConversionStats{
			TablesFound:    len(cleaned),
			TotalRows:      totalRows(cleaned),
			TotalColumns:   totalColumns(cleaned),
			AccuracyScore:  metrics.AccuracyScore,
			ProcessingTime: elapsed.Seconds(),
		},
		Metrics:  metrics,
		Warnings: warnings,
	}

	log.Info("conversion complete",
		logging.F(logging.FieldTables, len(cleaned)),
		logging.F(logging.FieldRows, result.Stats.TotalRows),
		logging.F(logging.FieldDuration, elapsed.Milliseconds()),
		logging.F(logging.FieldWarnings, len(warnings)))
	return result
}

// failed classifies err and logs the failure. Unclassified errors become
// InternalError so the result envelope always carries a known tag.
func (c *Converter) failed(log logging.Logger, fileID string, err error) *model.ConversionResult {
	var cerr *model.ConversionError
	if !errors.As(err, &cerr) {
		cerr = model.WrapError(model.TagInternalError, err, "unclassified failure")
	}
	// StrategyTimeout never escapes a single strategy attempt; if it does,
	// report the outward-facing extraction failure instead.
	if cerr.Tag == model.TagStrategyTimeout {
		cerr = model.WrapError(model.TagExtractionFailed, cerr, "extraction timed out")
	}

	log.Warn("conversion failed",
		logging.F(logging.FieldError, string(cerr.Tag)))
	return model.FailedResult(fileID, cerr)
}

func totalRows(tables []*model.Table) int {
	n := 0
	for _, t := range tables {
		n += t.RowCount()
	}
	return n
}

// totalColumns reports the widest table's column count, the most useful
// single number when tables differ in shape.
func totalColumns(tables []*model.Table) int {
	widest := 0
	for _, t := range tables {
		if w := t.ColCount(); w > widest {
			widest = w
		}
	}
	return widest
}
