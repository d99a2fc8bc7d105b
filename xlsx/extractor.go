// Package xlsx extracts tables from Microsoft Excel (.xlsx) workbooks.
//
// Spreadsheets are already tabular: each non-empty worksheet becomes one
// table, in workbook sheet order, with confidence 1.0. Cells are placed by
// their A1 references so gaps in sparse rows become explicit empty cells.
package xlsx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/tsawler/tablecast/model"
)

// StrategyName identifies tables produced by this extractor.
const StrategyName = "xlsx-native"

// Extractor extracts tables from XLSX bytes.
type Extractor struct{}

// New creates an XLSX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns the extractor identifier.
func (e *Extractor) Name() string { return StrategyName }

// Extract parses the workbook and returns one table per non-empty sheet.
func (e *Extractor) Extract(ctx context.Context, data []byte) (*model.ExtractionOutcome, error) {
	start := time.Now()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, model.WrapError(model.TagMalformedDocument, err, "opening XLSX container")
	}

	shared, err := readSharedStrings(zr)
	if err != nil {
		return nil, err
	}

	sheets, err := sheetPaths(zr)
	if err != nil {
		return nil, err
	}

	var tables []*model.Table
	for _, sheetPath := range sheets {
		raw, err := readZipFile(zr, sheetPath)
		if err != nil {
			return nil, model.WrapError(model.TagMalformedDocument, err, "reading %s", sheetPath)
		}
		t, err := parseSheet(raw, shared)
		if err != nil {
			return nil, err
		}
		if t.RowCount() > 0 {
			tables = append(tables, t)
		}
	}

	return &model.ExtractionOutcome{
		Tables:    tables,
		Succeeded: true,
		Elapsed:   time.Since(start),
		Raw:       model.MeasureRaw(tables),
	}, nil
}

// sheetPaths resolves worksheet part names in workbook order via the
// workbook relationships. Workbooks without a parseable relationship part
// fall back to lexical sheet order.
func sheetPaths(zr *zip.Reader) ([]string, error) {
	wb, err := readZipFile(zr, "xl/workbook.xml")
	if err != nil {
		return nil, model.WrapError(model.TagMalformedDocument, err, "reading xl/workbook.xml")
	}
	var workbook workbookXML
	if err := xml.Unmarshal(wb, &workbook); err != nil {
		return nil, model.WrapError(model.TagMalformedDocument, err, "parsing xl/workbook.xml")
	}

	rels := map[string]string{}
	if raw, err := readZipFile(zr, "xl/_rels/workbook.xml.rels"); err == nil {
		var r relationshipsXML
		if err := xml.Unmarshal(raw, &r); err == nil {
			for _, rel := range r.Relationships {
				rels[rel.ID] = rel.Target
			}
		}
	}

	var out []string
	for _, sheet := range workbook.Sheets.Sheets {
		if target, ok := rels[sheet.RID]; ok {
			if !strings.HasPrefix(target, "/") {
				target = path.Join("xl", target)
			} else {
				target = strings.TrimPrefix(target, "/")
			}
			out = append(out, target)
		}
	}
	if len(out) > 0 {
		return out, nil
	}

	// Fallback: every worksheet part, lexically ordered.
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "xl/worksheets/") && strings.HasSuffix(f.Name, ".xml") {
			out = append(out, f.Name)
		}
	}
	sort.Strings(out)
	if len(out) == 0 {
		return nil, model.NewError(model.TagMalformedDocument, "workbook contains no worksheets")
	}
	return out, nil
}

// parseSheet converts one worksheet into a table. The row is widened to the
// rightmost populated cell; untouched positions are explicit empty cells.
func parseSheet(raw []byte, shared []string) (*model.Table, error) {
	var sheet worksheetXML
	if err := xml.Unmarshal(raw, &sheet); err != nil {
		return nil, model.WrapError(model.TagMalformedDocument, err, "parsing worksheet")
	}

	t := model.NewTable(model.Origin{
		Strategy:   StrategyName,
		Confidence: model.KnownConfidence(1.0),
	})

	for _, row := range sheet.Data.Rows {
		var values []string
		for _, c := range row.Cells {
			col := columnIndex(c.Ref)
			for len(values) <= col {
				values = append(values, "")
			}
			values[col] = cellValue(c, shared)
		}
		t.AppendRow(values...)
	}
	return t, nil
}

// cellValue resolves a cell's displayed value by type: shared string,
// inline string, boolean, or the literal value text.
func cellValue(c cellXML, shared []string) string {
	switch c.Type {
	case "s":
		idx := 0
		for _, r := range c.Value {
			if r < '0' || r > '9' {
				return c.Value
			}
			idx = idx*10 + int(r-'0')
		}
		if idx < len(shared) {
			return shared[idx]
		}
		return ""
	case "inlineStr":
		return c.Inline.Text
	case "b":
		if c.Value == "1" {
			return "TRUE"
		}
		return "FALSE"
	default:
		return c.Value
	}
}

// columnIndex converts the letter part of an A1 reference to a zero-based
// column index. Unparseable references map to column 0.
func columnIndex(ref string) int {
	col := 0
	for _, r := range ref {
		if r >= 'A' && r <= 'Z' {
			col = col*26 + int(r-'A'+1)
		} else if r >= 'a' && r <= 'z' {
			col = col*26 + int(r-'a'+1)
		} else {
			break
		}
	}
	if col == 0 {
		return 0
	}
	return col - 1
}

// readSharedStrings loads xl/sharedStrings.xml if present. Rich-text runs
// within one entry are concatenated.
func readSharedStrings(zr *zip.Reader) ([]string, error) {
	raw, err := readZipFile(zr, "xl/sharedStrings.xml")
	if err != nil {
		return nil, nil // optional part
	}
	var sst sharedStringsXML
	if err := xml.Unmarshal(raw, &sst); err != nil {
		return nil, model.WrapError(model.TagMalformedDocument, err, "parsing xl/sharedStrings.xml")
	}
	out := make([]string, len(sst.Items))
	for i, item := range sst.Items {
		if item.Text != nil {
			out[i] = *item.Text
			continue
		}
		var sb strings.Builder
		for _, run := range item.Runs {
			sb.WriteString(run.Text)
		}
		out[i] = sb.String()
	}
	return out, nil
}

func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, io.ErrUnexpectedEOF
}
