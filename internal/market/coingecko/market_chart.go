package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	IntervalHourly = "hourly"
	IntervalDaily  = "daily"
)

// PricePoint is a single [timestamp, price] pair of a market chart.
type PricePoint struct {
	Time  time.Time
	Price float64
}

// MarketChart is the decoded /coins/{id}/market_chart response. Only prices are kept.
type MarketChart struct {
	Prices []PricePoint
}

// ChartParams are the query parameters of /coins/{id}/market_chart.
type ChartParams struct {
	VsCurrency string
	Days       int
	// Interval is IntervalHourly, IntervalDaily, or empty for provider auto-granularity.
	Interval string
}

// MarketChart retrieves the historical price series of a coin.
func (c *Client) MarketChart(ctx context.Context, id string, params ChartParams) (*MarketChart, error) {
	if id == "" {
		return nil, fmt.Errorf("market chart: empty coin id")
	}

	query := url.Values{}
	vs := params.VsCurrency
	if vs == "" {
		vs = "usd"
	}
	query.Set("vs_currency", vs)
	query.Set("days", strconv.Itoa(params.Days))
	if params.Interval != "" {
		query.Set("interval", params.Interval)
	}

	path := "/coins/" + url.PathEscape(id) + "/market_chart"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, query), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	res, err := c.get(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	// {
	//   "prices": [[1711843200000, 69702.3087473573], ...],
	//   "market_caps": [...],
	//   "total_volumes": [...]
	// }
	var body struct {
		Prices [][]*float64 `json:"prices"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding market chart response: %w: %w", ErrMalformedResponse, err)
	}
	if body.Prices == nil {
		return nil, fmt.Errorf("decoding market chart response: %w: missing prices", ErrMalformedResponse)
	}

	chart := &MarketChart{Prices: make([]PricePoint, 0, len(body.Prices))}
	for i, pair := range body.Prices {
		if len(pair) != 2 {
			return nil, fmt.Errorf("price %d: %w: want [timestamp, price], got %d values", i, ErrMalformedResponse, len(pair))
		}
		if pair[0] == nil || pair[1] == nil {
			return nil, fmt.Errorf("price %d: %w: null timestamp or price", i, ErrMalformedResponse)
		}
		chart.Prices = append(chart.Prices, PricePoint{
			Time:  time.UnixMilli(int64(*pair[0])).UTC(),
			Price: *pair[1],
		})
	}
	return chart, nil
}
