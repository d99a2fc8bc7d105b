// Package docx extracts tables from Microsoft Word (.docx) documents.
//
// DOCX tables are explicit structure: every w:tbl element carries its rows
// and cells in document order, so extraction needs no interpretation and
// reports confidence 1.0. A document with no tables is a successful, empty
// extraction, not an error.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"strconv"
	"time"

	"github.com/tsawler/tablecast/model"
)

// StrategyName identifies tables produced by this extractor.
const StrategyName = "docx-native"

// Extractor extracts tables from DOCX bytes.
type Extractor struct{}

// New creates a DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns the extractor identifier.
func (e *Extractor) Name() string { return StrategyName }

// Extract parses the DOCX container and returns every table in document
// order. Container or XML parse failures are MalformedDocument errors.
func (e *Extractor) Extract(ctx context.Context, data []byte) (*model.ExtractionOutcome, error) {
	start := time.Now()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, model.WrapError(model.TagMalformedDocument, err, "opening DOCX container")
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return nil, model.WrapError(model.TagMalformedDocument, err, "opening word/document.xml")
			}
			docXML, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return nil, model.WrapError(model.TagMalformedDocument, err, "reading word/document.xml")
			}
			break
		}
	}
	if docXML == nil {
		return nil, model.NewError(model.TagMalformedDocument, "DOCX container has no word/document.xml")
	}

	var doc documentXML
	if err := xml.Unmarshal(docXML, &doc); err != nil {
		return nil, model.WrapError(model.TagMalformedDocument, err, "parsing word/document.xml")
	}

	tables := make([]*model.Table, 0, len(doc.Body.Tables))
	for _, tbl := range doc.Body.Tables {
		if t := parseTable(tbl); t.RowCount() > 0 {
			tables = append(tables, t)
		}
	}

	outcome := &model.ExtractionOutcome{
		Tables:    tables,
		Succeeded: true,
		Elapsed:   time.Since(start),
		Raw:       model.MeasureRaw(tables),
	}
	return outcome, nil
}

// parseTable converts one w:tbl into a table, preserving row and cell
// order exactly as stored. Cells spanning extra grid columns (gridSpan)
// contribute empty cells so later rows keep their column positions;
// vertical-merge continuation cells stay empty.
func parseTable(tbl tableXML) *model.Table {
	t := model.NewTable(model.Origin{
		Strategy:   StrategyName,
		Confidence: model.KnownConfidence(1.0),
	})

	for _, row := range tbl.Rows {
		var values []string
		for _, cell := range row.Cells {
			values = append(values, cellText(cell))
			for s := 1; s < gridSpan(cell); s++ {
				values = append(values, "")
			}
		}
		t.AppendRow(values...)
	}
	return t
}

// cellText joins the cell's paragraph run text with newlines between
// paragraphs, matching how Word renders multi-paragraph cells.
func cellText(cell cellXML) string {
	var parts []string
	for _, p := range cell.Paragraphs {
		var sb bytes.Buffer
		for _, r := range p.Runs {
			for _, txt := range r.Text {
				sb.WriteString(txt.Value)
			}
		}
		if sb.Len() > 0 {
			parts = append(parts, sb.String())
		}
	}
	var out bytes.Buffer
	for i, p := range parts {
		if i > 0 {
			out.WriteByte('\n')
		}
		out.WriteString(p)
	}
	return out.String()
}

// gridSpan returns the number of grid columns the cell occupies (minimum 1).
func gridSpan(cell cellXML) int {
	if cell.Properties.GridSpan.Val == "" {
		return 1
	}
	n, err := strconv.Atoi(cell.Properties.GridSpan.Val)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
