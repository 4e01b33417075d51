package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cryptodash/internal/config"
	"cryptodash/internal/gateway"
	"cryptodash/internal/httpx"
	"cryptodash/internal/logging"
	"cryptodash/internal/market/coingecko"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	logger := logging.New(cfg.Log)
	if err != nil {
		logger.Fatal().Err(err).Msg("config")
	}
	if cfg.CoinGecko.APIKey == "" {
		logger.Info().Msg("COINGECKO_API_KEY not set; using the public rate limit")
	}

	httpClient := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec)*time.Second, logging.Component(logger, "upstream"))
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

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           newHandler(gw, logging.Component(logger, "http")),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Strs("symbols", symbols.Tickers()).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server")
		}
	}()

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("shutdown")
	}
}
