// Package saver exports stored price bars to flat files.
package saver

import (
	"strings"

	"StockLens/internal/model"
)

// Row is the export DTO for one daily bar. Prices are kept as decimal
// strings so exports round-trip exactly.
type Row struct {
	Symbol   string `json:"symbol" parquet:"symbol"`
	Exchange string `json:"exchange" parquet:"exchange"`
	Date     string `json:"date" parquet:"date"`
	Open     string `json:"open" parquet:"open"`
	High     string `json:"high" parquet:"high"`
	Low      string `json:"low" parquet:"low"`
	Close    string `json:"close" parquet:"close"`
	Volume   int64  `json:"volume" parquet:"volume"`
}

// Saver writes rows to a file in one format.
type Saver interface {
	Save(rows []Row, path string) error
	Extension() string
}

// New returns the saver for format (csv, parquet, json), or nil if the
// format is not supported.
func New(format string) Saver {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVSaver{}
	case "parquet":
		return ParquetSaver{}
	case "json":
		return JSONSaver{}
	default:
		return nil
	}
}

// RowsFromBars converts bars of one ticker into export rows, keeping order.
func RowsFromBars(exchange string, bars []model.PriceBar) []Row {
	rows := make([]Row, len(bars))
	for i, b := range bars {
		rows[i] = Row{
			Symbol:   b.Symbol,
			Exchange: exchange,
			Date:     b.Day().Format("2006-01-02"),
			Open:     b.Open.String(),
			High:     b.High.String(),
			Low:      b.Low.String(),
			Close:    b.Close.String(),
			Volume:   b.Volume,
		}
	}
	return rows
}
