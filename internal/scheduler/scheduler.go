package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/robfig/cron/v3"

	"StockLens/internal/model"
	"StockLens/internal/notifier"
	"StockLens/internal/recorder"
)

// Analyzer produces analyses for tickers. *collector.Collector implements it.
type Analyzer interface {
	Analyze(ctx context.Context, symbol, exchange string) (*model.Analysis, error)
	Refresh(ctx context.Context, symbol, exchange string) (*model.Analysis, error)
}

// TickerSplitter turns "AAPL.US" into its symbol and exchange.
type TickerSplitter func(ticker string) (symbol, exchange string)

type retrySender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages all cron tasks and answers chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Analyzer  Analyzer
	Sender    notifier.Sender
	Recorder  recorder.Recorder
	Watchlist []string
	Split     TickerSplitter
	Ctx       context.Context

	log *slog.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, an Analyzer, sender notifier.Sender, rec recorder.Recorder,
	watchlist []string, split TickerSplitter, log *slog.Logger) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Analyzer:  an,
		Sender:    sender,
		Recorder:  rec,
		Watchlist: watchlist,
		Split:     split,
		Ctx:       ctx,
		log:       log.With("component", "scheduler"),
	}
}

// Register adds the watchlist refresh task.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info("scheduler started", "entries", len(s.Cron.Entries()))
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// RunRefreshNow executes the refresh task immediately.
func (s *Scheduler) RunRefreshNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	if len(s.Watchlist) == 0 {
		s.log.Debug("watchlist empty, nothing to refresh")
		return
	}
	s.log.Info("running watchlist refresh", "tickers", len(s.Watchlist))

	var (
		analyses []*model.Analysis
		failed   []string
	)
	for _, ticker := range s.Watchlist {
		symbol, exchange := s.Split(ticker)
		a, err := s.Analyzer.Refresh(s.Ctx, symbol, exchange)
		if err != nil {
			s.log.Error("refresh failed", "ticker", ticker, "err", err)
			failed = append(failed, ticker)
			continue
		}
		if _, err := s.Recorder.RecordAnalysis(s.Ctx, a); err != nil {
			s.log.Error("record analysis failed", "ticker", ticker, "err", err)
		}
		analyses = append(analyses, a)
	}

	for _, msg := range notifier.FormatDigest(analyses, failed) {
		s.trySend(msg)
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	switch strings.ToLower(fields[0]) {
	case "/quote":
		if len(fields) < 2 {
			return "Usage: /quote SYMBOL[.EXCHANGE]"
		}
		symbol, exchange := s.Split(fields[1])
		a, err := s.Analyzer.Analyze(ctx, symbol, exchange)
		if err != nil {
			s.log.Warn("quote failed", "ticker", fields[1], "err", err)
			return notifier.FormatError(symbol+"."+exchange, err)
		}
		return notifier.FormatAnalysis(a)
	case "/watchlist":
		return notifier.FormatWatchlist(s.Watchlist)
	case "/refresh":
		s.refreshTask()
		return ""
	default:
		return helpText
	}
}

const helpText = "Available commands:\n• /quote SYMBOL[.EXCHANGE]\n• /watchlist\n• /refresh"

func (s *Scheduler) trySend(text string) {
	var err error
	if rs, ok := s.Sender.(retrySender); ok {
		err = rs.SendWithRetry(s.Ctx, text, 3)
	} else {
		err = s.Sender.Send(s.Ctx, text)
	}
	if err != nil {
		s.log.Error("send notification failed", "err", err)
	}
}
