package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tsawler/tablecast/config"
	"github.com/tsawler/tablecast/internal/logging"
)

// app carries the shared state commands need after configuration loads.
type app struct {
	cfg config.Config
	log logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var (
		cfgPath   string
		logLevel  string
		logFormat string
	)

	root := &cobra.Command{
		Use:   "tablecast",
		Short: "Convert tables in documents and images to CSV",
		Long: `tablecast extracts tabular data from PDF, DOCX, XLSX, and HTML
documents and from raster images, and writes it out as CSV together
with quality metrics describing how trustworthy the extraction is.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env file is fine; explicit flags and environment
			// still apply.
			_ = godotenv.Load()

			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			if logFormat != "" {
				cfg.Log.Format = logFormat
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			a.cfg = cfg
			a.log = logging.New(cfg.Log.Level, cfg.Log.Format)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")

	root.AddCommand(newConvertCmd(a))
	root.AddCommand(newBatchCmd(a))
	return root
}
