package recorder

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"StockLens/internal/model"
)

const dateLayout = "2006-01-02"

// SQLiteRecorder persists price bars and analyses to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log *slog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log *slog.Logger) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the API read while the scheduler writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info("sqlite recorder opened", "path", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS price_bars (
			symbol   TEXT NOT NULL,
			exchange TEXT NOT NULL,
			date     TEXT NOT NULL,
			open     TEXT NOT NULL,
			high     TEXT NOT NULL,
			low      TEXT NOT NULL,
			close    TEXT NOT NULL,
			volume   INTEGER NOT NULL,
			UNIQUE (symbol, exchange, date)
		)`,

		`CREATE TABLE IF NOT EXISTS analyses (
			id             TEXT PRIMARY KEY,
			symbol         TEXT NOT NULL,
			exchange       TEXT NOT NULL,
			computed_at    INTEGER NOT NULL,
			current_price  REAL,
			sma_20         REAL,
			sma_50         REAL,
			sma_200        REAL,
			ema_12         REAL,
			ema_26         REAL,
			rsi_14         REAL,
			rsi_trend      TEXT,
			macd_line      REAL,
			macd_signal    REAL,
			macd_histogram REAL,
			macd_state     TEXT,
			bb_upper       REAL,
			bb_middle      REAL,
			bb_lower       REAL,
			bb_percent_b   REAL,
			avg_volume_20  INTEGER,
			obv_last       INTEGER,
			obv_trend      TEXT,
			payload        TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_ticker ON analyses(symbol, exchange, computed_at)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) SaveBars(ctx context.Context, symbol, exchange string, bars []model.PriceBar) (int, error) {
	if len(bars) == 0 {
		r.log.Warn("attempted to save empty historical data", "symbol", symbol)
		return 0, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO price_bars
		(symbol, exchange, date, open, high, low, close, volume)
		VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	saved := 0
	for _, b := range bars {
		res, err := stmt.ExecContext(ctx, symbol, exchange, b.Day().Format(dateLayout),
			b.Open.String(), b.High.String(), b.Low.String(), b.Close.String(), b.Volume)
		if err != nil {
			return 0, fmt.Errorf("insert bar %s: %w", b.Day().Format(dateLayout), err)
		}
		if n, err := res.RowsAffected(); err == nil {
			saved += int(n)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	if saved > 0 {
		r.log.Info("saved new historical bars", "symbol", symbol, "exchange", exchange, "count", saved)
	} else {
		r.log.Debug("no new historical bars to save", "symbol", symbol, "exchange", exchange)
	}
	return saved, nil
}

func (r *SQLiteRecorder) LoadBars(ctx context.Context, symbol, exchange string) ([]model.PriceBar, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT date, open, high, low, close, volume
		FROM price_bars WHERE symbol = ? AND exchange = ? ORDER BY date ASC`, symbol, exchange)
	if err != nil {
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	var bars []model.PriceBar
	for rows.Next() {
		var (
			date                   string
			open, high, low, close string
			volume                 int64
		)
		if err := rows.Scan(&date, &open, &high, &low, &close, &volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		b := model.PriceBar{Symbol: symbol, Volume: volume}
		if b.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("parse date %q: %w", date, err)
		}
		for _, f := range []struct {
			dst *decimal.Decimal
			src string
		}{{&b.Open, open}, {&b.High, high}, {&b.Low, low}, {&b.Close, close}} {
			if *f.dst, err = decimal.NewFromString(f.src); err != nil {
				return nil, fmt.Errorf("parse price %q: %w", f.src, err)
			}
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

func (r *SQLiteRecorder) RecordAnalysis(ctx context.Context, a *model.Analysis) (string, error) {
	payload, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("encode analysis: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := ulid.Make().String()
	ind := a.Indicators
	_, err = r.db.ExecContext(ctx, `INSERT INTO analyses
		(id, symbol, exchange, computed_at, current_price,
		 sma_20, sma_50, sma_200, ema_12, ema_26,
		 rsi_14, rsi_trend, macd_line, macd_signal, macd_histogram, macd_state,
		 bb_upper, bb_middle, bb_lower, bb_percent_b,
		 avg_volume_20, obv_last, obv_trend, payload)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		id, a.Symbol, a.Exchange, a.RetrievedAt.UnixNano(), ind.CurrentPrice,
		ind.SMA20, ind.SMA50, ind.SMA200, ind.EMA12, ind.EMA26,
		ind.RSI14, string(ind.RSITrend), ind.MACDLine, ind.MACDSignal, ind.MACDHistogram, string(ind.MACDState),
		ind.BollingerUpper, ind.BollingerMiddle, ind.BollingerLower, ind.BollingerPercentB,
		ind.AverageVolume20, ind.LastOBV(), string(ind.OBVTrend), string(payload),
	)
	if err != nil {
		return "", fmt.Errorf("insert analysis: %w", err)
	}
	return id, nil
}

func (r *SQLiteRecorder) LatestAnalysis(ctx context.Context, symbol, exchange string) (*model.Analysis, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM analyses
		WHERE symbol = ? AND exchange = ? ORDER BY computed_at DESC, id DESC LIMIT 1`,
		symbol, exchange).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query analysis: %w", err)
	}
	var a model.Analysis
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	return &a, nil
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}
