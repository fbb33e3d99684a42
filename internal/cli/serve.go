package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"StockLens/internal/api"
	"StockLens/internal/notifier"
	"StockLens/internal/scheduler"
)

func newServeCmd(ro *RootOptions) *cobra.Command {
	var runOnStart bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the watchlist scheduler and the Telegram bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := ro.load("")
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			var (
				sender notifier.Sender = notifier.LogSender{Log: log}
				tn     *notifier.TelegramNotifier
			)
			if cfg.TelegramEnabled() {
				tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
				sender = tn
			} else {
				log.Info("telegram not configured, notifications go to the log")
			}

			sched := scheduler.NewScheduler(ctx, a.collector, sender, a.recorder, cfg.Watchlist, cfg.SplitTicker, log)
			if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			if tn != nil {
				go tn.StartPolling(ctx, sched.HandleCommand)
				log.Info("telegram polling started")
			}
			if runOnStart {
				log.Info("run-on-start enabled, refreshing watchlist now")
				go sched.RunRefreshNow()
			}

			srv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           api.NewServer(a.collector, cfg.DataSource.Exchange, a.metrics, log).Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				log.Info("http server listening", "addr", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("http server: %w", err)
				}
			case <-ctx.Done():
				log.Info("shutdown signal received, stopping")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("http shutdown: %w", err)
			}
			log.Info("stocklens stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "Refresh the watchlist immediately on start")
	return cmd
}
