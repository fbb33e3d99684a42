package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"StockLens/internal/saver"
)

func newExportCmd(ro *RootOptions) *cobra.Command {
	var (
		exchange string
		format   string
		outPath  string
	)

	cmd := &cobra.Command{
		Use:   "export SYMBOL[.EXCHANGE]",
		Short: "Export stored daily bars as csv, json or parquet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := saver.New(format)
			if s == nil {
				return fmt.Errorf("unsupported --format %q (use csv, json or parquet)", format)
			}

			// Export reads the database only, so any provider will do.
			cfg, log, err := ro.load("store")
			if err != nil {
				return err
			}
			symbol, ex := cfg.SplitTicker(args[0])
			if exchange != "" {
				ex = strings.ToUpper(strings.TrimSpace(exchange))
			}

			rec := newRecorder(cfg, log)
			defer rec.Close()

			bars, err := rec.LoadBars(cmd.Context(), symbol, ex)
			if err != nil {
				return fmt.Errorf("load bars: %w", err)
			}
			if len(bars) == 0 {
				return fmt.Errorf("no stored bars for %s.%s; run analyze first", symbol, ex)
			}

			if outPath == "" {
				outPath = fmt.Sprintf("%s.%s.%s", symbol, ex, s.Extension())
			}
			if err := s.Save(saver.RowsFromBars(ex, bars), outPath); err != nil {
				return fmt.Errorf("save %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bars to %s\n", len(bars), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&exchange, "exchange", "", "Exchange code (overrides the ticker suffix)")
	cmd.Flags().StringVar(&format, "format", "csv", "Output format: csv|json|parquet")
	cmd.Flags().StringVar(&outPath, "out", "", "Output file (default SYMBOL.EXCHANGE.<ext>)")
	return cmd
}
