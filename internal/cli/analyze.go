package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"StockLens/internal/model"
)

func newAnalyzeCmd(ro *RootOptions) *cobra.Command {
	var (
		exchange string
		offline  bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "analyze SYMBOL[.EXCHANGE]",
		Short: "Fetch a ticker and print its indicators",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := ""
			if offline {
				provider = "store"
			}
			cfg, log, err := ro.load(provider)
			if err != nil {
				return err
			}

			symbol, ex := cfg.SplitTicker(args[0])
			if exchange != "" {
				ex = strings.ToUpper(strings.TrimSpace(exchange))
			}

			a, err := newApp(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			analysis, err := a.collector.Analyze(cmd.Context(), symbol, ex)
			if err != nil {
				return err
			}
			if _, err := a.recorder.RecordAnalysis(cmd.Context(), analysis); err != nil {
				log.Warn("record analysis failed", "err", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(analysis)
			}
			return printAnalysis(out, analysis)
		},
	}

	cmd.Flags().StringVar(&exchange, "exchange", "", "Exchange code (overrides the ticker suffix)")
	cmd.Flags().BoolVar(&offline, "offline", false, "Analyze stored bars only, without a network provider")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full analysis as JSON")
	return cmd
}

func printAnalysis(w io.Writer, a *model.Analysis) error {
	r := a.Indicators
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", a.Ticker(), a.Current.Day().Format("2006-01-02"))
	fmt.Fprintf(tw, "Price\t%.2f (%+.2f%%)\n", r.CurrentPrice, r.DayChangePercent)
	fmt.Fprintf(tw, "SMA 20/50/200\t%.2f / %.2f / %.2f\n", r.SMA20, r.SMA50, r.SMA200)
	fmt.Fprintf(tw, "EMA 12/26\t%.2f / %.2f\n", r.EMA12, r.EMA26)
	fmt.Fprintf(tw, "RSI 14\t%.2f\t%s\n", r.RSI14, r.RSITrend)
	fmt.Fprintf(tw, "MACD\t%.4f / %.4f / %.4f\t%s\n", r.MACDLine, r.MACDSignal, r.MACDHistogram, r.MACDState)
	fmt.Fprintf(tw, "Bollinger\t%.2f / %.2f / %.2f\t%%B %.2f\n", r.BollingerLower, r.BollingerMiddle, r.BollingerUpper, r.BollingerPercentB)
	fmt.Fprintf(tw, "Volume avg 20\t%d (%+.1f%%)\n", r.AverageVolume20, r.VolumeChangePercent)
	fmt.Fprintf(tw, "OBV\t%d\t%s\n", r.LastOBV(), r.OBVTrend)
	fmt.Fprintf(tw, "52 week\t%.2f - %.2f\n", r.Week52Low, r.Week52High)
	fmt.Fprintf(tw, "vs SMA 50/200\t%s / %s\n", r.PriceVsSMA50, r.PriceVsSMA200)
	return tw.Flush()
}
