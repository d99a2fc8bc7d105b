package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tsawler/tablecast"
)

func newConvertCmd(a *app) *cobra.Command {
	var (
		output    string
		showStats bool
	)

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert one file to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			conv, err := tablecast.New(&a.cfg, a.log)
			if err != nil {
				return err
			}
			defer conv.Close()

			result := conv.Convert(cmd.Context(), tablecast.Input{
				FileID:   uuid.NewString(),
				Filename: filepath.Base(path),
				Data:     data,
			})

			if showStats {
				enc := json.NewEncoder(cmd.ErrOrStderr())
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return err
				}
			}

			if !result.Success {
				return fmt.Errorf("conversion failed: %s", result.Message)
			}

			if output == "" {
				fmt.Fprint(cmd.OutOrStdout(), result.CSVText)
				return nil
			}
			return os.WriteFile(output, []byte(result.CSVText), 0o644)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write CSV to this file instead of stdout")
	cmd.Flags().BoolVar(&showStats, "stats", false, "print the full result envelope as JSON to stderr")
	return cmd
}
