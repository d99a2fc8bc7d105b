package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tsawler/tablecast"
	"github.com/tsawler/tablecast/format"
	"github.com/tsawler/tablecast/model"
)

// reportRow is one line of the batch summary report.
type reportRow struct {
	FileID       string  `csv:"file_id"`
	Filename     string  `csv:"filename"`
	Success      bool    `csv:"success"`
	Tables       int     `csv:"tables_found"`
	Rows         int     `csv:"total_rows"`
	Completeness float64 `csv:"completeness"`
	Consistency  float64 `csv:"consistency"`
	Accuracy     float64 `csv:"accuracy_score"`
	Error        string  `csv:"error"`
}

func newBatchCmd(a *app) *cobra.Command {
	var (
		outputDir string
		report    string
	)

	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Convert every supported file in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			inputs, names, err := collectInputs(dir)
			if err != nil {
				return err
			}
			if len(inputs) == 0 {
				return fmt.Errorf("no supported files found in %s", dir)
			}

			conv, err := tablecast.New(&a.cfg, a.log)
			if err != nil {
				return err
			}
			defer conv.Close()

			batch := conv.ConvertBatch(cmd.Context(), inputs)

			if outputDir != "" {
				if err := os.MkdirAll(outputDir, 0o755); err != nil {
					return err
				}
				for i, r := range batch.Results {
					if !r.Success {
						continue
					}
					base := strings.TrimSuffix(names[i], filepath.Ext(names[i]))
					dest := filepath.Join(outputDir, base+".csv")
					if err := os.WriteFile(dest, []byte(r.CSVText), 0o644); err != nil {
						return fmt.Errorf("writing %s: %w", dest, err)
					}
				}
			}

			if report != "" {
				if err := writeReport(report, batch, names); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d files: %d converted, %d failed\n",
				batch.TotalFiles, batch.SuccessfulConversions, batch.FailedConversions)
			if batch.FailedConversions > 0 && outputDir == "" && report == "" {
				return fmt.Errorf("%d conversions failed", batch.FailedConversions)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "write per-file CSVs into this directory")
	cmd.Flags().StringVar(&report, "report", "", "write a CSV summary report to this file")
	return cmd
}

// collectInputs gathers supported files from dir in lexical order, so batch
// results are deterministic for a given directory state.
func collectInputs(dir string) ([]tablecast.Input, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if format.Detect(e.Name()) == format.Unknown {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	inputs := make([]tablecast.Input, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", name, err)
		}
		inputs = append(inputs, tablecast.Input{
			FileID:   uuid.NewString(),
			Filename: name,
			Data:     data,
		})
	}
	return inputs, names, nil
}

func writeReport(path string, batch *model.BatchResult, names []string) error {
	rows := make([]*reportRow, 0, len(batch.Results))
	for i, r := range batch.Results {
		row := &reportRow{
			FileID:       r.FileID,
			Filename:     names[i],
			Success:      r.Success,
			Tables:       r.Stats.TablesFound,
			Rows:         r.Stats.TotalRows,
			Completeness: r.Metrics.Completeness,
			Consistency:  r.Metrics.Consistency,
			Accuracy:     r.Metrics.AccuracyScore,
		}
		if r.Error != nil {
			row.Error = *r.Error
		}
		rows = append(rows, row)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalFile(&rows, f)
}
