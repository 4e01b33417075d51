package gateway

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"cryptodash/internal/fallback"
	"cryptodash/internal/market"
	"cryptodash/internal/market/coingecko"
)

const (
	// DefaultLimit is used when ListTopCoins gets a negative limit.
	DefaultLimit = 10
	// DefaultDays is used when HistoricalSeries gets a non-positive window.
	DefaultDays = 7
	// MaxDays is the widest window HistoricalSeries requests; larger ones are clamped.
	MaxDays = fallback.MaxDays
)

// Quotes are reported under USD, so the provider is always asked for USD.
const vsCurrency = "usd"

// ErrNotResolved is reported when a ticker has no provider identifier.
var ErrNotResolved = errors.New("ticker not resolved")

// MarketsAPI is the subset of the CoinGecko client used by the gateway.
//
//go:generate mockgen -package=gateway_test -destination=mock_markets_api_test.go -source=gateway.go MarketsAPI
type MarketsAPI interface {
	CoinsMarkets(ctx context.Context, params coingecko.MarketsParams) ([]coingecko.Market, error)
	MarketChart(ctx context.Context, id string, params coingecko.ChartParams) (*coingecko.MarketChart, error)
}

// Config holds the immutable tables the gateway works from. Zero values
// select the built-in defaults.
type Config struct {
	Symbols         *market.SymbolMap
	ReferencePrices *market.ReferencePrices
	Samples         []market.CoinQuote
	Rand            fallback.RandSource
	Now             func() time.Time
}

// Gateway fetches market data and substitutes placeholder data when the
// provider cannot be reached or returns something unusable. Its methods never
// fail; the returned market.Source tells live data from fallback data.
type Gateway struct {
	api     MarketsAPI
	symbols market.SymbolMap
	samples []market.CoinQuote
	series  *fallback.Generator
	logger  zerolog.Logger
}

// New creates a Gateway.
func New(api MarketsAPI, cfg Config, logger zerolog.Logger) *Gateway {
	symbols := market.DefaultSymbolMap()
	if cfg.Symbols != nil {
		symbols = *cfg.Symbols
	}
	prices := market.DefaultReferencePrices()
	if cfg.ReferencePrices != nil {
		prices = *cfg.ReferencePrices
	}
	samples := cfg.Samples
	if samples == nil {
		samples = fallback.DefaultSamples()
	}
	return &Gateway{
		api:     api,
		symbols: symbols,
		samples: samples,
		series:  fallback.NewGenerator(prices, cfg.Rand, cfg.Now),
		logger:  logger,
	}
}

// ResolveProviderID maps a ticker to the provider identifier.
func (g *Gateway) ResolveProviderID(ticker string) (string, bool) {
	return g.symbols.Lookup(ticker)
}

// Symbols returns the tickers the gateway can resolve.
func (g *Gateway) Symbols() []string {
	return g.symbols.Tickers()
}

// ListTopCoins returns the top limit coins by market capitalization, in rank order.
func (g *Gateway) ListTopCoins(ctx context.Context, limit int) ([]market.CoinQuote, market.Source) {
	if limit == 0 {
		return []market.CoinQuote{}, market.SourceLive
	}
	if limit < 0 {
		limit = DefaultLimit
	}

	markets, err := g.api.CoinsMarkets(ctx, coingecko.MarketsParams{
		VsCurrency:            vsCurrency,
		Order:                 "market_cap_desc",
		PerPage:               limit,
		Page:                  1,
		Sparkline:             false,
		PriceChangePercentage: []string{"1h", "24h", "7d"},
	})
	if err != nil {
		g.logFallback(err).Int("limit", limit).Msg("fetching top coins failed, serving sample data")
		return fallback.TopCoins(g.samples, limit), market.SourceFallback
	}

	out := make([]market.CoinQuote, 0, len(markets))
	for _, m := range markets {
		out = append(out, normalize(m))
	}
	return out, market.SourceLive
}

// HistoricalSeries returns the price series of ticker over the last days days.
func (g *Gateway) HistoricalSeries(ctx context.Context, ticker string, days int) ([]market.HistoricalPoint, market.Source) {
	if days <= 0 {
		days = DefaultDays
	}
	days = min(days, MaxDays)

	id, ok := g.ResolveProviderID(ticker)
	if !ok {
		g.logFallback(ErrNotResolved).Str("ticker", ticker).Int("days", days).Msg("unknown ticker, serving synthetic series")
		return g.series.Series(ticker, days), market.SourceFallback
	}

	chart, err := g.api.MarketChart(ctx, id, coingecko.ChartParams{
		VsCurrency: vsCurrency,
		Days:       days,
		Interval:   Interval(days),
	})
	if err != nil {
		g.logFallback(err).Str("ticker", ticker).Str("id", id).Int("days", days).Msg("fetching historical series failed, serving synthetic series")
		return g.series.Series(ticker, days), market.SourceFallback
	}

	out := make([]market.HistoricalPoint, 0, len(chart.Prices))
	for _, p := range chart.Prices {
		out = append(out, market.HistoricalPoint{
			Date:  market.FormatDate(p.Time),
			Price: p.Price,
		})
	}
	return out, market.SourceLive
}

// CoinDetails returns a single coin by provider identifier. It returns nil
// when the coin is unknown to both the provider and the sample set.
func (g *Gateway) CoinDetails(ctx context.Context, id string) (*market.CoinQuote, market.Source) {
	markets, err := g.api.CoinsMarkets(ctx, coingecko.MarketsParams{
		VsCurrency:            vsCurrency,
		IDs:                   []string{id},
		PerPage:               1,
		Page:                  1,
		PriceChangePercentage: []string{"1h", "24h", "7d"},
	})
	if err != nil {
		g.logFallback(err).Str("id", id).Msg("fetching coin details failed, serving sample data")
		if coin, ok := fallback.FindCoin(g.samples, id); ok {
			return &coin, market.SourceFallback
		}
		return nil, market.SourceFallback
	}

	for _, m := range markets {
		if m.ID == id {
			coin := normalize(m)
			return &coin, market.SourceLive
		}
	}
	return nil, market.SourceLive
}

// Interval picks the chart granularity for a window of days.
func Interval(days int) string {
	if days <= 1 {
		return coingecko.IntervalHourly
	}
	return coingecko.IntervalDaily
}

func normalize(m coingecko.Market) market.CoinQuote {
	return market.CoinQuote{
		ID:     m.ID,
		Name:   m.Name,
		Symbol: strings.ToUpper(m.Symbol),
		Slug:   m.ID,
		Quote: market.Quotes{USD: market.USDQuote{
			Price:            m.CurrentPrice,
			Volume24h:        m.TotalVolume,
			PercentChange1h:  m.PriceChangePercentage1hInCurrency,
			PercentChange24h: m.PriceChangePercentage24hInCurrency,
			PercentChange7d:  m.PriceChangePercentage7dInCurrency,
			MarketCap:        m.MarketCap,
		}},
	}
}

func (g *Gateway) logFallback(err error) *zerolog.Event {
	return g.logger.Warn().Err(err).Str("kind", FailureKind(err))
}

// FailureKind classifies err as "resolution", "malformed" or "transport".
func FailureKind(err error) string {
	switch {
	case errors.Is(err, ErrNotResolved):
		return "resolution"
	case errors.Is(err, coingecko.ErrMalformedResponse):
		return "malformed"
	default:
		return "transport"
	}
}
