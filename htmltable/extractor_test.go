package htmltable

import (
	"context"
	"testing"
)

func extract(t *testing.T, doc string) [][]string {
	t.Helper()
	out, err := New().Extract(context.Background(), []byte(doc))
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}
	if len(out.Tables) != 1 {
		t.Fatalf("tables = %d, want 1", len(out.Tables))
	}
	rows := make([][]string, len(out.Tables[0].Rows))
	for i, row := range out.Tables[0].Rows {
		for _, c := range row {
			rows[i] = append(rows[i], c.Text)
		}
	}
	return rows
}

func TestExtract_SimpleTable(t *testing.T) {
	rows := extract(t, `<html><body><table>
		<tr><th>Name</th><th>Qty</th></tr>
		<tr><td>alpha</td><td>3</td></tr>
	</table></body></html>`)
	want := [][]string{{"Name", "Qty"}, {"alpha", "3"}}
	for i := range want {
		for j := range want[i] {
			if rows[i][j] != want[i][j] {
				t.Errorf("cell[%d][%d] = %q, want %q", i, j, rows[i][j], want[i][j])
			}
		}
	}
}

func TestExtract_TheadTbodyTfoot(t *testing.T) {
	rows := extract(t, `<table>
		<thead><tr><th>h</th></tr></thead>
		<tbody><tr><td>b</td></tr></tbody>
		<tfoot><tr><td>f</td></tr></tfoot>
	</table>`)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3 (head, body, foot)", len(rows))
	}
	if rows[0][0] != "h" || rows[1][0] != "b" || rows[2][0] != "f" {
		t.Errorf("rows = %v, want section order preserved", rows)
	}
}

func TestExtract_ColspanPadsCells(t *testing.T) {
	rows := extract(t, `<table>
		<tr><td colspan="2">wide</td><td>c</td></tr>
		<tr><td>1</td><td>2</td><td>3</td></tr>
	</table>`)
	if len(rows[0]) != 3 {
		t.Fatalf("first row width = %d, want 3", len(rows[0]))
	}
	if rows[0][0] != "wide" || rows[0][1] != "" || rows[0][2] != "c" {
		t.Errorf("row = %v, want [wide,\"\",c]", rows[0])
	}
}

func TestExtract_CollapsesWhitespaceInCells(t *testing.T) {
	rows := extract(t, `<table><tr><td>
		spread
		across   lines
	</td></tr></table>`)
	if rows[0][0] != "spread across lines" {
		t.Errorf("cell = %q, want collapsed whitespace", rows[0][0])
	}
}

func TestExtract_NestedMarkupInCell(t *testing.T) {
	rows := extract(t, `<table><tr><td><b>bold</b> and <i>italic</i></td></tr></table>`)
	if rows[0][0] != "bold and italic" {
		t.Errorf("cell = %q, want flattened inline markup", rows[0][0])
	}
}

func TestExtract_NoTables(t *testing.T) {
	out, err := New().Extract(context.Background(), []byte(`<html><body><p>text only</p></body></html>`))
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}
	if !out.Succeeded || len(out.Tables) != 0 {
		t.Errorf("want successful empty extraction, got %+v", out)
	}
}
