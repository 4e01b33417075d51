package fallback

import (
	"math/rand/v2"
	"sync"
	"time"

	"cryptodash/internal/market"
)

// RandSource yields uniform values in [0, 1).
type RandSource interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// lockedRand serializes access to a source that may not be goroutine safe,
// such as a seeded *rand.Rand.
type lockedRand struct {
	mu  sync.Mutex
	src RandSource
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}

// Generator produces placeholder price series. Each point is the reference
// price scaled by an independent multiplier in [0.9, 1.1).
type Generator struct {
	prices market.ReferencePrices
	rnd    RandSource
	now    func() time.Time
}

// NewGenerator builds a Generator. A nil rnd uses the process-wide source,
// a nil now uses time.Now.
func NewGenerator(prices market.ReferencePrices, rnd RandSource, now func() time.Time) *Generator {
	if rnd == nil {
		rnd = globalRand{}
	} else {
		rnd = &lockedRand{src: rnd}
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{prices: prices, rnd: rnd, now: now}
}

// MaxDays bounds the window of a synthetic series.
const MaxDays = 365

// Series returns days+1 points, one per day from days ago through today.
// days is clamped to [0, MaxDays].
func (g *Generator) Series(ticker string, days int) []market.HistoricalPoint {
	days = max(0, min(days, MaxDays))
	base := g.prices.Price(ticker)
	now := g.now()

	out := make([]market.HistoricalPoint, 0, days+1)
	for i := days; i >= 0; i-- {
		out = append(out, market.HistoricalPoint{
			Date:  market.FormatDate(now.AddDate(0, 0, -i)),
			Price: base * (0.9 + g.rnd.Float64()*0.2),
		})
	}
	return out
}

// TopCoins returns a copy of the first min(limit, len(samples)) samples.
func TopCoins(samples []market.CoinQuote, limit int) []market.CoinQuote {
	if limit <= 0 {
		return []market.CoinQuote{}
	}
	n := min(limit, len(samples))
	out := make([]market.CoinQuote, n)
	copy(out, samples[:n])
	return out
}

// FindCoin returns the sample whose slug is id.
func FindCoin(samples []market.CoinQuote, id string) (market.CoinQuote, bool) {
	for _, c := range samples {
		if c.Slug == id {
			return c, true
		}
	}
	return market.CoinQuote{}, false
}

// DefaultSamples returns the built-in sample set ordered by market cap.
func DefaultSamples() []market.CoinQuote {
	return []market.CoinQuote{
		{
			ID: "bitcoin", Name: "Bitcoin", Symbol: "BTC", Slug: "bitcoin",
			Quote: market.Quotes{USD: market.USDQuote{
				Price:            65000,
				Volume24h:        30_000_000_000,
				PercentChange1h:  0.5,
				PercentChange24h: 2.1,
				PercentChange7d:  5.4,
				MarketCap:        1_200_000_000_000,
			}},
		},
		{
			ID: "ethereum", Name: "Ethereum", Symbol: "ETH", Slug: "ethereum",
			Quote: market.Quotes{USD: market.USDQuote{
				Price:            3500,
				Volume24h:        15_000_000_000,
				PercentChange1h:  0.3,
				PercentChange24h: 1.8,
				PercentChange7d:  4.2,
				MarketCap:        420_000_000_000,
			}},
		},
		{
			ID: "tether", Name: "Tether", Symbol: "USDT", Slug: "tether",
			Quote: market.Quotes{USD: market.USDQuote{
				Price:            1,
				Volume24h:        45_000_000_000,
				PercentChange1h:  0,
				PercentChange24h: 0.01,
				PercentChange7d:  -0.02,
				MarketCap:        110_000_000_000,
			}},
		},
		{
			ID: "binancecoin", Name: "BNB", Symbol: "BNB", Slug: "binancecoin",
			Quote: market.Quotes{USD: market.USDQuote{
				Price:            580,
				Volume24h:        1_800_000_000,
				PercentChange1h:  -0.2,
				PercentChange24h: 0.9,
				PercentChange7d:  -1.3,
				MarketCap:        85_000_000_000,
			}},
		},
		{
			ID: "solana", Name: "Solana", Symbol: "SOL", Slug: "solana",
			Quote: market.Quotes{USD: market.USDQuote{
				Price:            150,
				Volume24h:        3_200_000_000,
				PercentChange1h:  0.8,
				PercentChange24h: -3.1,
				PercentChange7d:  7.6,
				MarketCap:        68_000_000_000,
			}},
		},
	}
}
