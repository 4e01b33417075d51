package market

import (
	"maps"
	"slices"
)

// SymbolMap maps upper-case tickers (e.g. "BTC") to provider identifiers (e.g. "bitcoin").
// It is immutable once built and safe for concurrent reads.
type SymbolMap struct {
	ids map[string]string
}

// NewSymbolMap copies m into a new SymbolMap. Empty keys and values are dropped.
func NewSymbolMap(m map[string]string) SymbolMap {
	ids := make(map[string]string, len(m))
	for ticker, id := range m {
		if ticker == "" || id == "" {
			continue
		}
		ids[ticker] = id
	}
	return SymbolMap{ids: ids}
}

// DefaultSymbolMap returns the built-in CoinGecko mapping.
func DefaultSymbolMap() SymbolMap {
	return NewSymbolMap(map[string]string{
		"BTC":   "bitcoin",
		"ETH":   "ethereum",
		"XRP":   "ripple",
		"BNB":   "binancecoin",
		"USDT":  "tether",
		"USDC":  "usd-coin",
		"DOGE":  "dogecoin",
		"MATIC": "matic-network",
		"SOL":   "solana",
		"ADA":   "cardano",
	})
}

// Lookup resolves ticker with an exact, case-sensitive match.
func (s SymbolMap) Lookup(ticker string) (string, bool) {
	id, ok := s.ids[ticker]
	return id, ok
}

// Len reports the number of mapped tickers.
func (s SymbolMap) Len() int { return len(s.ids) }

// Tickers returns the mapped tickers in sorted order.
func (s SymbolMap) Tickers() []string {
	return slices.Sorted(maps.Keys(s.ids))
}

// DefaultReferencePrice is used for tickers missing from a ReferencePrices table.
const DefaultReferencePrice = 100.0

// ReferencePrices holds the per-ticker base prices used to synthesize placeholder series.
type ReferencePrices struct {
	prices   map[string]float64
	fallback float64
}

// NewReferencePrices copies m. A non-positive def is replaced by DefaultReferencePrice.
func NewReferencePrices(m map[string]float64, def float64) ReferencePrices {
	if def <= 0 {
		def = DefaultReferencePrice
	}
	prices := make(map[string]float64, len(m))
	for ticker, p := range m {
		if p > 0 {
			prices[ticker] = p
		}
	}
	return ReferencePrices{prices: prices, fallback: def}
}

// DefaultReferencePrices returns the built-in reference prices.
func DefaultReferencePrices() ReferencePrices {
	return NewReferencePrices(map[string]float64{
		"BTC": 65000,
		"ETH": 3500,
		"SOL": 150,
		"ADA": 0.45,
	}, DefaultReferencePrice)
}

// WithDefault returns a copy using def for unknown tickers.
func (r ReferencePrices) WithDefault(def float64) ReferencePrices {
	return NewReferencePrices(r.prices, def)
}

// Price returns the base price for ticker, or the table default when unknown.
func (r ReferencePrices) Price(ticker string) float64 {
	if p, ok := r.prices[ticker]; ok {
		return p
	}
	if r.fallback <= 0 {
		return DefaultReferencePrice
	}
	return r.fallback
}
