// Package tablecast converts tabular content from documents (PDF, DOCX,
// XLSX, HTML) and images into CSV with quality metrics.
//
// The entry point is the Converter:
//
//	cfg := config.Default()
//	log := logging.New(cfg.Log.Level, cfg.Log.Format)
//	conv, err := tablecast.New(&cfg, log)
//	if err != nil { ... }
//	defer conv.Close()
//
//	result := conv.Convert(ctx, tablecast.Input{
//		FileID:   "invoice-7",
//		Filename: "invoice.pdf",
//		Data:     data,
//	})
//	if result.Success {
//		fmt.Print(result.CSVText)
//	}
//
// Every conversion runs the same pipeline: format detection and dispatch,
// extraction (a strategy cascade for PDFs, native readers for structured
// documents, OCR for images), cleaning to rectangular tables, quality
// scoring, and CSV serialization. Failures are reported as classified
// results rather than panics; a file that contains no tables is a successful
// conversion with empty CSV.
package tablecast
