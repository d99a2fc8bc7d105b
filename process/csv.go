package process

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/tsawler/tablecast/model"
)

// Serialize renders cleaned tables as CSV text. The output uses standard
// comma delimiting and double-quote escaping, ends with a trailing newline,
// and carries no BOM. With more than one table, each table becomes a
// section preceded by a generated "Table N" header (1-based, source order)
// and separated from the previous section by one blank row.
func Serialize(tables []*model.Table) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	for i, t := range tables {
		if len(tables) > 1 {
			if i > 0 {
				if err := w.Write([]string{""}); err != nil {
					return "", fmt.Errorf("writing separator: %w", err)
				}
			}
			if err := w.Write([]string{fmt.Sprintf("Table %d", i+1)}); err != nil {
				return "", fmt.Errorf("writing section header: %w", err)
			}
		}
		for _, row := range t.Rows {
			record := make([]string, len(row))
			for j, c := range row {
				record[j] = c.Text
			}
			if err := w.Write(record); err != nil {
				return "", fmt.Errorf("writing row: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing csv: %w", err)
	}
	return sb.String(), nil
}
