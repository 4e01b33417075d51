package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"cryptodash/internal/gateway"
	"cryptodash/internal/market"
	"cryptodash/internal/overview"
)

const (
	maxLimit   = 250
	maxSymbols = 20
)

// marketData is the part of the gateway the handlers use.
type marketData interface {
	ListTopCoins(ctx context.Context, limit int) ([]market.CoinQuote, market.Source)
	HistoricalSeries(ctx context.Context, ticker string, days int) ([]market.HistoricalPoint, market.Source)
	CoinDetails(ctx context.Context, id string) (*market.CoinQuote, market.Source)
}

type coinsResponse struct {
	Coins  []market.CoinQuote `json:"coins"`
	Source market.Source      `json:"source"`
}

type coinResponse struct {
	Coin   *market.CoinQuote `json:"coin"`
	Source market.Source     `json:"source"`
}

type historyResponse struct {
	Symbol string                   `json:"symbol"`
	Days   int                      `json:"days"`
	Points []market.HistoricalPoint `json:"points"`
	Source market.Source            `json:"source"`
}

func newMux(md marketData, logger zerolog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /api/coins", func(w http.ResponseWriter, r *http.Request) {
		handleCoins(w, r, md, logger)
	})
	mux.HandleFunc("GET /api/coins/{id}", func(w http.ResponseWriter, r *http.Request) {
		handleCoin(w, r, md, logger)
	})
	mux.HandleFunc("GET /api/history/{symbol}", func(w http.ResponseWriter, r *http.Request) {
		handleHistory(w, r, md, logger)
	})
	mux.HandleFunc("GET /api/overview", func(w http.ResponseWriter, r *http.Request) {
		handleOverview(w, r, md, logger)
	})
	return mux
}

func handleCoins(w http.ResponseWriter, r *http.Request, md marketData, logger zerolog.Logger) {
	limit, err := intParam(r, "limit", gateway.DefaultLimit, 0, maxLimit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	coins, source := md.ListTopCoins(r.Context(), limit)
	writeJSON(w, logger, http.StatusOK, source, coinsResponse{Coins: coins, Source: source})
}

func handleCoin(w http.ResponseWriter, r *http.Request, md marketData, logger zerolog.Logger) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		http.Error(w, "missing coin id", http.StatusBadRequest)
		return
	}
	coin, source := md.CoinDetails(r.Context(), id)
	if coin == nil {
		w.Header().Set("X-Data-Source", string(source))
		http.Error(w, fmt.Sprintf("coin %q not found", id), http.StatusNotFound)
		return
	}
	writeJSON(w, logger, http.StatusOK, source, coinResponse{Coin: coin, Source: source})
}

func handleHistory(w http.ResponseWriter, r *http.Request, md marketData, logger zerolog.Logger) {
	symbol := strings.ToUpper(strings.TrimSpace(r.PathValue("symbol")))
	if symbol == "" {
		http.Error(w, "missing symbol", http.StatusBadRequest)
		return
	}
	days, err := intParam(r, "days", gateway.DefaultDays, 1, gateway.MaxDays)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	points, source := md.HistoricalSeries(r.Context(), symbol, days)
	writeJSON(w, logger, http.StatusOK, source, historyResponse{Symbol: symbol, Days: days, Points: points, Source: source})
}

func handleOverview(w http.ResponseWriter, r *http.Request, md marketData, logger zerolog.Logger) {
	limit, err := intParam(r, "limit", gateway.DefaultLimit, 0, maxLimit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	days, err := intParam(r, "days", gateway.DefaultDays, 1, gateway.MaxDays)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	symbols := []string{"BTC", "ETH"}
	if q := r.URL.Query().Get("symbols"); strings.TrimSpace(q) != "" {
		symbols = splitCSV(strings.ToUpper(q))
	}
	if len(symbols) > maxSymbols {
		http.Error(w, fmt.Sprintf("too many symbols (max %d)", maxSymbols), http.StatusBadRequest)
		return
	}

	// fan-out: one goroutine for the coin list and one per series
	var (
		coins       []market.CoinQuote
		coinsSource market.Source
		mu          sync.Mutex
		series      = make([]overview.Series, 0, len(symbols))
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(4)
	g.Go(func() error {
		coins, coinsSource = md.ListTopCoins(ctx, limit)
		return nil
	})
	for _, sym := range symbols {
		g.Go(func() error {
			points, source := md.HistoricalSeries(ctx, sym, days)
			s := overview.SummarizeSeries(sym, points, source)
			mu.Lock()
			series = append(series, s)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	ov := overview.Build(coins, coinsSource, series)
	writeJSON(w, logger, http.StatusOK, ov.Source, ov)
}

func writeJSON(w http.ResponseWriter, logger zerolog.Logger, status int, source market.Source, v any) {
	w.Header().Set("X-Data-Source", string(source))
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		logger.Warn().Err(err).Msg("writing response")
	}
}

// intParam reads an integer query parameter, returning def when absent.
func intParam(r *http.Request, name string, def, lo, hi int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("%s must be between %d and %d", name, lo, hi)
	}
	return v, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
