package notifier

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"StockLens/internal/model"
)

// FormatAnalysis renders one analysis as a Telegram HTML message.
func FormatAnalysis(a *model.Analysis) string {
	var b strings.Builder
	r := a.Indicators

	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s\n\n", html.EscapeString(a.Ticker()), a.RetrievedAt.Format("2006-01-02")))

	b.WriteString(fmt.Sprintf("Price: %.2f (%+.2f%%)\n", r.CurrentPrice, r.DayChangePercent))
	b.WriteString(fmt.Sprintf("SMA20/50/200: %s / %s / %s\n", num(r.SMA20), num(r.SMA50), num(r.SMA200)))
	b.WriteString(fmt.Sprintf("EMA12/26: %s / %s\n", num(r.EMA12), num(r.EMA26)))
	b.WriteString(fmt.Sprintf("vs SMA50: %s | vs SMA200: %s\n\n", position(r.PriceVsSMA50), position(r.PriceVsSMA200)))

	b.WriteString(fmt.Sprintf("RSI14: %.1f (%s)\n", r.RSI14, r.RSITrend))
	b.WriteString(fmt.Sprintf("MACD: %.3f / %.3f / %+.3f (%s)\n", r.MACDLine, r.MACDSignal, r.MACDHistogram, r.MACDState))
	b.WriteString(fmt.Sprintf("Bollinger: %s - %s (%%B %.2f)\n", num(r.BollingerLower), num(r.BollingerUpper), r.BollingerPercentB))
	b.WriteString(fmt.Sprintf("Volume: avg20 %d (%+.1f%%) | OBV %s\n", r.AverageVolume20, r.VolumeChangePercent, r.OBVTrend))
	b.WriteString(fmt.Sprintf("52w: %s - %s\n", num(r.Week52Low), num(r.Week52High)))

	if line := alertLine(r); line != "" {
		b.WriteString("\n" + line + "\n")
	}
	return b.String()
}

// maxMessageLen is Telegram's limit on one message, in characters.
const maxMessageLen = 4096

// FormatDigest renders per-ticker messages plus a line listing the tickers
// that failed, packed into as few messages as fit under Telegram's length
// limit. A ticker's block is never split across messages.
func FormatDigest(analyses []*model.Analysis, failed []string) []string {
	parts := make([]string, 0, len(analyses)+1)
	for _, a := range analyses {
		parts = append(parts, FormatAnalysis(a))
	}
	if len(failed) > 0 {
		parts = append(parts, "❌ Refresh failed: "+html.EscapeString(strings.Join(failed, ", ")))
	}
	return packMessages(parts, maxMessageLen)
}

// packMessages joins parts with newlines, starting a new message whenever the
// next part would push the current one past limit characters.
func packMessages(parts []string, limit int) []string {
	var (
		msgs []string
		cur  strings.Builder
		n    int
	)
	for _, p := range parts {
		pn := utf8.RuneCountInString(p)
		if n > 0 && n+1+pn > limit {
			msgs = append(msgs, cur.String())
			cur.Reset()
			n = 0
		}
		if n > 0 {
			cur.WriteString("\n")
			n++
		}
		cur.WriteString(p)
		n += pn
	}
	if n > 0 {
		msgs = append(msgs, cur.String())
	}
	return msgs
}

// FormatError renders a failed lookup for a ticker. Both the ticker and the
// error text are escaped since provider errors may carry HTML bodies.
func FormatError(ticker string, err error) string {
	return fmt.Sprintf("❌ %s: %s", html.EscapeString(ticker), html.EscapeString(err.Error()))
}

// FormatWatchlist lists the configured tickers.
func FormatWatchlist(tickers []string) string {
	if len(tickers) == 0 {
		return "📋 Watchlist is empty"
	}
	var b strings.Builder
	b.WriteString("📋 <b>Watchlist</b>\n")
	for _, t := range tickers {
		b.WriteString("  • " + html.EscapeString(t) + "\n")
	}
	return b.String()
}

func alertLine(r model.IndicatorReport) string {
	switch r.RSITrend {
	case model.TrendOverbought:
		return fmt.Sprintf("⚠️ RSI overbought (%.1f)", r.RSI14)
	case model.TrendOversold:
		return fmt.Sprintf("⚠️ RSI oversold (%.1f)", r.RSI14)
	}
	return ""
}

// num prints a price, or "n/a" for indicators left at zero by short history.
func num(v float64) string {
	if v == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

func position(p model.Position) string {
	if p == "" {
		return "n/a"
	}
	return string(p)
}
