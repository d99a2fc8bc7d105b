// Package htmltable extracts tables from HTML documents.
//
// HTML tables are explicit markup, so extraction walks the parse tree and
// reports confidence 1.0. HTML parsing is error-tolerant by design; a page
// without tables is a successful, empty extraction.
package htmltable

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/tsawler/tablecast/model"
)

// StrategyName identifies tables produced by this extractor.
const StrategyName = "html-native"

// Extractor extracts tables from HTML bytes.
type Extractor struct{}

// New creates an HTML extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns the extractor identifier.
func (e *Extractor) Name() string { return StrategyName }

// Extract parses the document and returns every <table> in document order.
func (e *Extractor) Extract(ctx context.Context, data []byte) (*model.ExtractionOutcome, error) {
	start := time.Now()

	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, model.WrapError(model.TagMalformedDocument, err, "parsing HTML")
	}

	var tables []*model.Table
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "table" {
			if t := parseTable(n); t.RowCount() > 0 {
				tables = append(tables, t)
			}
			// Nested tables inside this one are folded into its cell text.
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return &model.ExtractionOutcome{
		Tables:    tables,
		Succeeded: true,
		Elapsed:   time.Since(start),
		Raw:       model.MeasureRaw(tables),
	}, nil
}

// parseTable converts a <table> element into a table. Rows are collected
// from thead/tbody/tfoot in document order; colspan pads with empty cells
// to preserve column positions.
func parseTable(table *html.Node) *model.Table {
	t := model.NewTable(model.Origin{
		Strategy:   StrategyName,
		Confidence: model.KnownConfidence(1.0),
	})

	var rows []*html.Node
	var collectRows func(n *html.Node)
	collectRows = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "tr":
				rows = append(rows, c)
			case "thead", "tbody", "tfoot":
				collectRows(c)
			}
		}
	}
	collectRows(table)

	for _, tr := range rows {
		var values []string
		for c := tr.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
				continue
			}
			values = append(values, textContent(c))
			for s := 1; s < colSpan(c); s++ {
				values = append(values, "")
			}
		}
		if len(values) > 0 {
			t.AppendRow(values...)
		}
	}
	return t
}

// textContent returns the concatenated text of a node's subtree with
// whitespace collapsed.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			return
		}
		if n.Type == html.ElementNode && n.Data == "br" {
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// colSpan returns the cell's colspan attribute (minimum 1).
func colSpan(n *html.Node) int {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, "colspan") {
			if v, err := strconv.Atoi(strings.TrimSpace(a.Val)); err == nil && v > 1 {
				return v
			}
		}
	}
	return 1
}
