// Package api serves analyses over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"StockLens/internal/calculator"
	"StockLens/internal/collector"
	"StockLens/internal/metrics"
	"StockLens/internal/model"
)

// Analyzer produces an analysis for a ticker. *collector.Collector implements it.
type Analyzer interface {
	Analyze(ctx context.Context, symbol, exchange string) (*model.Analysis, error)
}

// Server holds the API dependencies.
type Server struct {
	analyzer        Analyzer
	defaultExchange string
	metrics         *metrics.Metrics
	log             *slog.Logger
}

// NewServer creates a Server. defaultExchange is used when a request has no
// exchange query parameter.
func NewServer(an Analyzer, defaultExchange string, m *metrics.Metrics, log *slog.Logger) *Server {
	if m == nil {
		m = metrics.New(nil)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		analyzer:        an,
		defaultExchange: strings.ToUpper(strings.TrimSpace(defaultExchange)),
		metrics:         m,
		log:             log.With("component", "api"),
	}
}

// Handler returns the routed, instrumented HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /api/stock/{symbol}", s.instrument("stock", s.handleStock))
	mux.Handle("GET /api/stock/{symbol}/indicators", s.instrument("indicators", s.handleIndicators))
	mux.Handle("GET /healthz", s.instrument("healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}))
	mux.Handle("GET /metrics", s.metrics.Handler())
	return mux
}

// indicatorsResponse is the body of the indicators-only endpoint.
type indicatorsResponse struct {
	Symbol       string                `json:"symbol"`
	CurrentPrice float64               `json:"current_price"`
	Indicators   model.IndicatorReport `json:"indicators"`
	RetrievedAt  time.Time             `json:"retrieved_at"`
}

func (s *Server) handleStock(w http.ResponseWriter, r *http.Request) {
	a, ok := s.analyze(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleIndicators(w http.ResponseWriter, r *http.Request) {
	a, ok := s.analyze(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, indicatorsResponse{
		Symbol:       a.Symbol,
		CurrentPrice: a.Indicators.CurrentPrice,
		Indicators:   a.Indicators,
		RetrievedAt:  a.RetrievedAt,
	})
}

// analyze resolves the ticker from the request and writes the error response
// itself when anything fails.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) (*model.Analysis, bool) {
	symbol := strings.ToUpper(strings.TrimSpace(r.PathValue("symbol")))
	exchange := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("exchange")))
	if exchange == "" {
		exchange = s.defaultExchange
	}
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "Symbol is required")
		return nil, false
	}
	if exchange == "" {
		writeError(w, http.StatusBadRequest, "Exchange is required")
		return nil, false
	}

	a, err := s.analyzer.Analyze(r.Context(), symbol, exchange)
	if err != nil {
		status, msg := classify(err)
		if status >= http.StatusInternalServerError {
			s.log.Error("analysis failed", "symbol", symbol, "exchange", exchange, "err", err)
		} else {
			s.log.Warn("analysis rejected", "symbol", symbol, "exchange", exchange, "status", status, "err", err)
		}
		writeError(w, status, msg)
		return nil, false
	}
	return a, true
}

func classify(err error) (int, string) {
	var inputErr *calculator.InputError
	switch {
	case errors.Is(err, collector.ErrInvalidTicker):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, collector.ErrNoData):
		return http.StatusNotFound, err.Error()
	case errors.As(err, &inputErr):
		return http.StatusUnprocessableEntity, inputErr.Error()
	default:
		return http.StatusInternalServerError, "An error occurred while processing the request"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(route string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		h(sw, r)
		s.metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(sw.code)).Inc()
	})
}
