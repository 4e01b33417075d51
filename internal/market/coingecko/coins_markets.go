package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Market is one row of the /coins/markets response. CurrentPrice is always
// present; the other nullable numbers decode as zero.
type Market struct {
	ID                                 string  `json:"id"`
	Symbol                             string  `json:"symbol"`
	Name                               string  `json:"name"`
	CurrentPrice                       float64 `json:"current_price"`
	MarketCap                          float64 `json:"market_cap"`
	MarketCapRank                      int     `json:"market_cap_rank"`
	TotalVolume                        float64 `json:"total_volume"`
	PriceChangePercentage1hInCurrency  float64 `json:"price_change_percentage_1h_in_currency"`
	PriceChangePercentage24hInCurrency float64 `json:"price_change_percentage_24h_in_currency"`
	PriceChangePercentage7dInCurrency  float64 `json:"price_change_percentage_7d_in_currency"`
}

// marketRow shadows current_price so a null price can be told from zero.
type marketRow struct {
	Market
	Price *float64 `json:"current_price"`
}

// MarketsParams are the query parameters of /coins/markets.
type MarketsParams struct {
	VsCurrency string
	// Order defaults to market_cap_desc.
	Order   string
	PerPage int
	// Page defaults to 1.
	Page      int
	Sparkline bool
	// PriceChangePercentage lists windows such as "1h", "24h", "7d".
	PriceChangePercentage []string
	// IDs restricts the result to the given provider identifiers.
	IDs []string
}

func (p MarketsParams) values() url.Values {
	query := url.Values{}
	vs := p.VsCurrency
	if vs == "" {
		vs = "usd"
	}
	query.Set("vs_currency", vs)
	order := p.Order
	if order == "" {
		order = "market_cap_desc"
	}
	query.Set("order", order)
	if p.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(p.PerPage))
	}
	page := p.Page
	if page <= 0 {
		page = 1
	}
	query.Set("page", strconv.Itoa(page))
	query.Set("sparkline", strconv.FormatBool(p.Sparkline))
	if len(p.PriceChangePercentage) > 0 {
		query.Set("price_change_percentage", strings.Join(p.PriceChangePercentage, ","))
	}
	if len(p.IDs) > 0 {
		query.Set("ids", strings.Join(p.IDs, ","))
	}
	return query
}

// CoinsMarkets lists coins with their market data, in the order requested by params.Order.
func (c *Client) CoinsMarkets(ctx context.Context, params MarketsParams) ([]Market, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/coins/markets", params.values()), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	res, err := c.get(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var rows []marketRow
	if err := json.NewDecoder(res.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decoding markets response: %w: %w", ErrMalformedResponse, err)
	}
	if rows == nil {
		return nil, fmt.Errorf("decoding markets response: %w: null body", ErrMalformedResponse)
	}
	markets := make([]Market, 0, len(rows))
	for i, row := range rows {
		m := row.Market
		if m.ID == "" || m.Symbol == "" || m.Name == "" {
			return nil, fmt.Errorf("market %d: %w: missing id, symbol or name", i, ErrMalformedResponse)
		}
		if row.Price == nil {
			return nil, fmt.Errorf("market %d (%s): %w: null current_price", i, m.ID, ErrMalformedResponse)
		}
		m.CurrentPrice = *row.Price
		markets = append(markets, m)
	}
	return markets, nil
}
