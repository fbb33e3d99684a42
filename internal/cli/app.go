package cli

import (
	"context"
	"fmt"
	"log/slog"

	"StockLens/internal/cache"
	"StockLens/internal/collector"
	"StockLens/internal/config"
	"StockLens/internal/metrics"
	"StockLens/internal/recorder"
)

// app bundles the long-lived components built from a Config.
type app struct {
	cfg       *config.Config
	log       *slog.Logger
	metrics   *metrics.Metrics
	cache     cache.Cache
	recorder  recorder.Recorder
	collector *collector.Collector
}

func newApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log, metrics: metrics.New(nil)}
	a.recorder = newRecorder(cfg, log)
	a.cache = newCache(ctx, cfg, log)

	fetcher, err := newFetcher(cfg, a.recorder)
	if err != nil {
		a.Close()
		return nil, err
	}
	log.Info("data source ready", "provider", fetcher.Name())

	a.collector = collector.NewCollector(fetcher, a.cache, a.recorder, a.metrics, log, collector.Options{
		HistoryYears: cfg.DataSource.HistoryYears,
		MaxRetries:   cfg.DataSource.MaxRetries,
		CacheTTL:     cfg.CacheTTL(),
	})
	return a, nil
}

func (a *app) Close() {
	if err := a.cache.Close(); err != nil {
		a.log.Warn("close cache", "err", err)
	}
	if err := a.recorder.Close(); err != nil {
		a.log.Warn("close recorder", "err", err)
	}
}

func newFetcher(cfg *config.Config, rec recorder.Recorder) (collector.Fetcher, error) {
	ds := cfg.DataSource
	switch ds.Provider {
	case "eodhd":
		return collector.NewEODHDFetcher(ds.BaseURL, ds.APIKey, cfg.Proxy, cfg.FetchTimeout()), nil
	case "yahoo":
		return collector.NewYahooFetcher(cfg.Proxy, cfg.FetchTimeout()), nil
	case "mock":
		return &collector.MockFetcher{Price: 100}, nil
	case "store":
		return &collector.StoreFetcher{Recorder: rec}, nil
	default:
		return nil, fmt.Errorf("unknown data provider %q", ds.Provider)
	}
}

func newCache(ctx context.Context, cfg *config.Config, log *slog.Logger) cache.Cache {
	switch cfg.Cache.Backend {
	case "redis":
		rc, err := cache.NewRedis(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			log.Warn("init redis cache failed, using memory", "addr", cfg.Cache.RedisAddr, "err", err)
			return cache.NewMemory()
		}
		return rc
	case "none":
		return cache.NewNoop()
	default:
		return cache.NewMemory()
	}
}

func newRecorder(cfg *config.Config, log *slog.Logger) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
	if err != nil {
		log.Warn("init sqlite recorder failed, using noop", "err", err)
		return recorder.NewNoopRecorder()
	}
	return sr
}
