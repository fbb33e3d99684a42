package saver

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockLens/internal/model"
)

func sampleRows() []Row {
	bars := []model.PriceBar{
		{
			Symbol: "NKT",
			Date:   time.Date(2025, 1, 2, 14, 30, 0, 0, time.UTC),
			Open:   decimal.RequireFromString("402.1"),
			High:   decimal.RequireFromString("410.55"),
			Low:    decimal.RequireFromString("400"),
			Close:  decimal.RequireFromString("409.123456"),
			Volume: 152340,
		},
		{
			Symbol: "NKT",
			Date:   time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC),
			Open:   decimal.RequireFromString("409.2"),
			High:   decimal.RequireFromString("411"),
			Low:    decimal.RequireFromString("405.5"),
			Close:  decimal.RequireFromString("406.8"),
			Volume: 98000,
		},
	}
	return RowsFromBars("CO", bars)
}

func TestRowsFromBars(t *testing.T) {
	rows := sampleRows()
	require.Len(t, rows, 2)
	assert.Equal(t, Row{
		Symbol: "NKT", Exchange: "CO", Date: "2025-01-02",
		Open: "402.1", High: "410.55", Low: "400", Close: "409.123456", Volume: 152340,
	}, rows[0])
}

func TestNew(t *testing.T) {
	assert.IsType(t, CSVSaver{}, New("csv"))
	assert.IsType(t, ParquetSaver{}, New(" Parquet "))
	assert.IsType(t, JSONSaver{}, New("JSON"))
	assert.Nil(t, New("xlsx"))
}

func TestCSVSaver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.csv")
	require.NoError(t, CSVSaver{}.Save(sampleRows(), path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, []string{"symbol", "exchange", "date", "open", "high", "low", "close", "volume"}, records[0])
	assert.Equal(t, []string{"NKT", "CO", "2025-01-03", "409.2", "411", "405.5", "406.8", "98000"}, records[2])
}

func TestJSONSaver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.json")
	require.NoError(t, JSONSaver{}.Save(sampleRows(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got []Row
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, sampleRows(), got)
}

func TestParquetSaver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.parquet")
	require.NoError(t, ParquetSaver{}.Save(sampleRows(), path))

	got, err := parquet.ReadFile[Row](path)
	require.NoError(t, err)
	assert.Equal(t, sampleRows(), got)
}
