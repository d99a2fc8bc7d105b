package pdf

import (
	"bytes"
	"context"
	"io"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/tsawler/tablecast/model"
)

// latticeStrategy finds ruled tables. It parses each page's content stream
// for line and rectangle operators, clusters them into grids, and places the
// stream's positioned text into the cells the grid bounds.
type latticeStrategy struct{}

func (latticeStrategy) Name() string { return "lattice" }

func (s latticeStrategy) Extract(ctx context.Context, data []byte) ([]*model.Table, error) {
	conf := pdfmodel.NewDefaultConfiguration()
	pctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, model.WrapError(model.TagMalformedDocument, err, "reading PDF")
	}

	var tables []*model.Table
	for pageNr := 1; pageNr <= pctx.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		r, err := pdfcpu.ExtractPageContent(pctx, pageNr)
		if err != nil || r == nil {
			continue
		}
		raw, err := io.ReadAll(r)
		if err != nil || len(raw) == 0 {
			continue
		}

		content := parseContentStream(raw)
		tables = append(tables, gridTables(content)...)
	}
	return tables, nil
}

// gridTables builds one table per ruled grid found on a page. Horizontal
// rule positions are split into clusters wherever the vertical gap jumps
// well past the typical row spacing; each cluster is matched with the
// vertical rules crossing its span.
func gridTables(content *pageContent) []*model.Table {
	var hy []float64
	var vSegs []segment
	for _, seg := range content.segments {
		if seg.horizontal() {
			hy = append(hy, seg.y1)
		} else if seg.vertical() {
			vSegs = append(vSegs, seg)
		}
	}

	rowLines := clusterValues(hy, 2.0)
	if len(rowLines) < 3 {
		return nil
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(rowLines))) // top of page first

	var tables []*model.Table
	for _, cluster := range splitRowClusters(rowLines) {
		if len(cluster) < 3 {
			continue
		}
		top, bottom := cluster[0], cluster[len(cluster)-1]

		var xs []float64
		for _, seg := range vSegs {
			lo, hi := minf(seg.y1, seg.y2), maxf(seg.y1, seg.y2)
			if hi >= bottom-2 && lo <= top+2 {
				xs = append(xs, seg.x1)
			}
		}
		colLines := clusterValues(xs, 2.0)
		if len(colLines) < 3 {
			continue
		}

		if t := fillGrid(cluster, colLines, content.texts); t != nil {
			tables = append(tables, t)
		}
	}
	return tables
}

// splitRowClusters divides descending horizontal rule positions into
// separate tables wherever a gap exceeds three times the median row spacing.
func splitRowClusters(rows []float64) [][]float64 {
	if len(rows) < 2 {
		return [][]float64{rows}
	}

	gaps := make([]float64, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		gaps = append(gaps, rows[i-1]-rows[i])
	}
	sorted := make([]float64, len(gaps))
	copy(sorted, gaps)
	sort.Float64s(sorted)
	median := sorted[len(sorted)/2]

	var clusters [][]float64
	start := 0
	for i, gap := range gaps {
		if median > 0 && gap > 3*median {
			clusters = append(clusters, rows[start:i+1])
			start = i + 1
		}
	}
	clusters = append(clusters, rows[start:])
	return clusters
}

// fillGrid assigns text items to the cells bounded by descending row lines
// and ascending column lines. Returns nil when every cell is empty.
func fillGrid(rowLines, colLines []float64, texts []textItem) *model.Table {
	rows := len(rowLines) - 1
	cols := len(colLines) - 1

	cells := make([][][]string, rows)
	for r := range cells {
		cells[r] = make([][]string, cols)
	}

	filled := 0
	for _, item := range texts {
		r := rowIndex(item.y, rowLines)
		c := colIndex(item.x, colLines)
		if r < 0 || c < 0 {
			continue
		}
		if len(cells[r][c]) == 0 {
			filled++
		}
		cells[r][c] = append(cells[r][c], item.text)
	}
	if filled == 0 {
		return nil
	}

	occupancy := float64(filled) / float64(rows*cols)
	table := model.NewTable(model.Origin{
		Strategy:   "pdf-lattice",
		Confidence: model.KnownConfidence(0.6 + 0.4*occupancy),
	})
	for r := 0; r < rows; r++ {
		values := make([]string, cols)
		for c := 0; c < cols; c++ {
			values[c] = joinCell(cells[r][c])
		}
		table.AppendRow(values...)
	}
	return table
}

// rowIndex finds which band of descending row lines contains y, or -1.
func rowIndex(y float64, rowLines []float64) int {
	for i := 0; i < len(rowLines)-1; i++ {
		if y <= rowLines[i] && y > rowLines[i+1] {
			return i
		}
	}
	return -1
}

// colIndex finds which band of ascending column lines contains x, or -1.
func colIndex(x float64, colLines []float64) int {
	for i := 0; i < len(colLines)-1; i++ {
		if x >= colLines[i] && x < colLines[i+1] {
			return i
		}
	}
	return -1
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
