package market

import "time"

// Source tags where a result came from so callers can tell real data from placeholders.
type Source string

const (
	// SourceLive marks data returned by the upstream market-data API.
	SourceLive Source = "live"
	// SourceFallback marks synthetic or built-in sample data.
	SourceFallback Source = "fallback"
)

// USDQuote is the USD price snapshot of a coin.
type USDQuote struct {
	Price            float64 `json:"price"`
	Volume24h        float64 `json:"volume_24h"`
	PercentChange1h  float64 `json:"percent_change_1h"`
	PercentChange24h float64 `json:"percent_change_24h"`
	PercentChange7d  float64 `json:"percent_change_7d"`
	MarketCap        float64 `json:"market_cap"`
}

// Quotes groups per-currency snapshots. Only USD is populated.
type Quotes struct {
	USD USDQuote `json:"USD"`
}

// CoinQuote is the normalized shape handed to dashboard consumers.
// Symbol is always upper case and Slug equals the provider identifier.
// Live quotes always carry a provider price; volume, market cap and the
// percent changes are zero when the provider reports them as null.
type CoinQuote struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Slug   string `json:"slug"`
	Quote  Quotes `json:"quote"`
}

// HistoricalPoint is a single price observation.
type HistoricalPoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// ISOLayout formats timestamps the way browsers render Date.toISOString.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// FormatDate renders t as a UTC ISO-8601 string with millisecond precision.
func FormatDate(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}
