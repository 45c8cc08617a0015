package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/profitcalc/profitcalc/internal/config"
	"github.com/profitcalc/profitcalc/internal/ledger"
	"github.com/profitcalc/profitcalc/internal/logging"
	"github.com/profitcalc/profitcalc/internal/profit"
	"github.com/profitcalc/profitcalc/internal/report"
)

func newCalculateCommand() *cobra.Command {
	var format string
	var sheet string
	var ignoreCase bool

	cmd := &cobra.Command{
		Use:   "calculate <file>",
		Short: "Calculate profit from a CSV or XLSX ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("format") {
				cfg.Output.Format = format
			}
			if cmd.Flags().Changed("ignore-case") {
				cfg.Rules.IgnoreCase = ignoreCase
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}

			logger := logging.New(cfg.Logging, cmd.ErrOrStderr())
			return runCalculate(cmd.OutOrStdout(), logger, cfg, args[0], sheet)
		},
	}

	cmd.Flags().StringVar(&format, "format", report.FormatText, "output format (text or json)")
	cmd.Flags().StringVar(&sheet, "sheet", "", "XLSX sheet to read (default: first sheet)")
	cmd.Flags().BoolVar(&ignoreCase, "ignore-case", false, "match deposit/withdrawal markers case-insensitively")

	return cmd
}

func runCalculate(out io.Writer, logger *slog.Logger, cfg *config.Config, path, sheet string) error {
	registry := ledger.NewRegistry()
	registry.Register(&ledger.CSVReader{})
	registry.Register(&ledger.XLSXReader{Sheet: sheet})

	ds, err := ledger.ReadFile(path, registry)
	if err != nil {
		return err
	}
	logger.Debug("ledger loaded", slog.String("file", path), slog.Int("rows", len(ds.Rows)))

	summary, err := profit.Calculate(ds, cfg.CalculatorRules())
	if err != nil {
		logger.Debug("calculation failed", slog.String("kind", string(profit.KindOf(err))))
		if cfg.Output.Format == report.FormatJSON {
			if werr := report.WriteErrorJSON(out, err); werr != nil {
				return fmt.Errorf("writing error: %w", werr)
			}
		}
		return err
	}

	if err := report.Write(out, cfg.Output.Format, summary); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}
