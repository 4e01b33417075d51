package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cryptodash/internal/config"
	"cryptodash/internal/gateway"
	"cryptodash/internal/httpx"
	"cryptodash/internal/logging"
	"cryptodash/internal/market"
	"cryptodash/internal/market/coingecko"
)

type seriesOut struct {
	Symbol string                   `json:"symbol"`
	Source market.Source            `json:"source"`
	Points []market.HistoricalPoint `json:"points"`
}

type output struct {
	Coins       []market.CoinQuote `json:"coins"`
	CoinsSource market.Source      `json:"coins_source"`
	Series      []seriesOut        `json:"series,omitempty"`
}

func main() {
	var (
		limit      int
		symbolsCSV string
		days       int
		timeout    int
		configPath string
	)
	flag.IntVar(&limit, "limit", gateway.DefaultLimit, "number of top coins to list")
	flag.StringVar(&symbolsCSV, "symbols", "", "comma-separated tickers to fetch history for (e.g. BTC,ETH)")
	flag.IntVar(&days, "days", gateway.DefaultDays, "history window in days")
	flag.IntVar(&timeout, "timeout", 0, "overall timeout seconds (0 uses config)")
	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to config.json or config.yaml (optional)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	// logs go to stderr so stdout stays valid JSON
	logger := logging.NewWithWriter(cfg.Log, os.Stderr)
	if err != nil {
		logger.Fatal().Err(err).Msg("config")
	}
	if timeout > 0 {
		cfg.Server.RequestTimeoutSec = timeout
	}
	reqTimeout := time.Duration(cfg.Server.RequestTimeoutSec) * time.Second

	httpClient := httpx.New(reqTimeout, logging.Component(logger, "upstream"))
	httpClient.UserAgent = cfg.CoinGecko.UserAgent
	api := coingecko.NewClient(
		cfg.CoinGecko.APIKey,
		coingecko.WithBaseURL(cfg.CoinGecko.BaseURL),
		coingecko.WithHTTPClient(httpClient),
	)
	symbols := cfg.Market.SymbolMap()
	prices := cfg.Market.ReferencePriceTable()
	gw := gateway.New(api, gateway.Config{
		Symbols:         &symbols,
		ReferencePrices: &prices,
	}, logging.Component(logger, "gateway"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*reqTimeout)
	defer cancel()

	var out output
	out.Coins, out.CoinsSource = gw.ListTopCoins(ctx, limit)
	logger.Info().Int("coins", len(out.Coins)).Str("source", string(out.CoinsSource)).Msg("top coins")

	tickers := splitCSV(strings.ToUpper(symbolsCSV))
	type result struct {
		idx int
		s   seriesOut
	}
	ch := make(chan result, len(tickers))
	for i, t := range tickers {
		go func() {
			pts, src := gw.HistoricalSeries(ctx, t, days)
			ch <- result{idx: i, s: seriesOut{Symbol: t, Source: src, Points: pts}}
		}()
	}
	out.Series = make([]seriesOut, len(tickers))
	for range tickers {
		r := <-ch
		logger.Info().Str("symbol", r.s.Symbol).Int("points", len(r.s.Points)).Str("source", string(r.s.Source)).Msg("history")
		out.Series[r.idx] = r.s
	}

	if err := writeOutput(os.Stdout, out); err != nil {
		logger.Fatal().Err(err).Msg("encoding output")
	}
}

// writeOutput prints out as indented JSON. Nothing is written on error.
func writeOutput(w io.Writer, out output) error {
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
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
