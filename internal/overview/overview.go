package overview

import (
	"sort"

	"github.com/shopspring/decimal"

	"cryptodash/internal/market"
)

// Mover is a coin singled out by its 24h change.
type Mover struct {
	Symbol           string  `json:"symbol"`
	Name             string  `json:"name"`
	Price            float64 `json:"price"`
	PercentChange24h float64 `json:"percent_change_24h"`
}

// Market summarizes a list of coins.
type Market struct {
	Coins          int             `json:"coins"`
	TotalMarketCap decimal.Decimal `json:"total_market_cap"`
	TotalVolume24h decimal.Decimal `json:"total_volume_24h"`
	TopGainer      *Mover          `json:"top_gainer,omitempty"`
	TopLoser       *Mover          `json:"top_loser,omitempty"`
}

// Series summarizes one historical price series.
type Series struct {
	Symbol        string          `json:"symbol"`
	Source        market.Source   `json:"source"`
	Points        int             `json:"points"`
	From          string          `json:"from,omitempty"`
	To            string          `json:"to,omitempty"`
	First         float64         `json:"first"`
	Last          float64         `json:"last"`
	Min           float64         `json:"min"`
	Max           float64         `json:"max"`
	PercentChange decimal.Decimal `json:"percent_change"`
}

// Overview is the dashboard landing summary.
type Overview struct {
	Source market.Source `json:"source"`
	Market Market        `json:"market"`
	Series []Series      `json:"series"`
}

// Summarize totals market cap and volume and picks the top movers.
// On equal changes the earlier (higher ranked) coin wins.
func Summarize(coins []market.CoinQuote) Market {
	out := Market{
		Coins:          len(coins),
		TotalMarketCap: decimal.Zero,
		TotalVolume24h: decimal.Zero,
	}
	for _, c := range coins {
		usd := c.Quote.USD
		out.TotalMarketCap = out.TotalMarketCap.Add(decimal.NewFromFloat(usd.MarketCap))
		out.TotalVolume24h = out.TotalVolume24h.Add(decimal.NewFromFloat(usd.Volume24h))

		m := &Mover{Symbol: c.Symbol, Name: c.Name, Price: usd.Price, PercentChange24h: usd.PercentChange24h}
		if out.TopGainer == nil || m.PercentChange24h > out.TopGainer.PercentChange24h {
			out.TopGainer = m
		}
		if out.TopLoser == nil || m.PercentChange24h < out.TopLoser.PercentChange24h {
			out.TopLoser = m
		}
	}
	return out
}

// SummarizeSeries computes range and change of a series ordered by date.
// PercentChange is rounded to two places and zero when the first price is zero.
func SummarizeSeries(symbol string, points []market.HistoricalPoint, source market.Source) Series {
	out := Series{Symbol: symbol, Source: source, Points: len(points), PercentChange: decimal.Zero}
	if len(points) == 0 {
		return out
	}
	out.From = points[0].Date
	out.To = points[len(points)-1].Date
	out.First = points[0].Price
	out.Last = points[len(points)-1].Price
	out.Min, out.Max = out.First, out.First
	for _, p := range points[1:] {
		out.Min = min(out.Min, p.Price)
		out.Max = max(out.Max, p.Price)
	}

	first := decimal.NewFromFloat(out.First)
	if !first.IsZero() {
		out.PercentChange = decimal.NewFromFloat(out.Last).
			Sub(first).
			Div(first).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	return out
}

// Build assembles an Overview. The overview is fallback if any part of it is.
// Series are sorted by symbol.
func Build(coins []market.CoinQuote, coinsSource market.Source, series []Series) Overview {
	source := coinsSource
	for _, s := range series {
		if s.Source == market.SourceFallback {
			source = market.SourceFallback
		}
	}
	sorted := make([]Series, len(series))
	copy(sorted, series)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Symbol < sorted[j].Symbol })
	return Overview{
		Source: source,
		Market: Summarize(coins),
		Series: sorted,
	}
}
