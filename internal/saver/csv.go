package saver

import (
	"encoding/csv"
	"os"
	"strconv"
)

// CSVSaver writes rows as CSV (header: symbol,exchange,date,open,high,low,close,volume).
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

func (CSVSaver) Save(rows []Row, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)

	if err := w.Write([]string{"symbol", "exchange", "date", "open", "high", "low", "close", "volume"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write([]string{
			r.Symbol,
			r.Exchange,
			r.Date,
			r.Open,
			r.High,
			r.Low,
			r.Close,
			strconv.FormatInt(r.Volume, 10),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
