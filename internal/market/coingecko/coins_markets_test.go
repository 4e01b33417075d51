package coingecko_test

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"cryptodash/internal/market/coingecko"
)

var mockMarketsResponse = []map[string]any{
	{
		"id":                                     "bitcoin",
		"symbol":                                 "btc",
		"name":                                   "Bitcoin",
		"current_price":                          67187.34,
		"market_cap":                             1322735000000.0,
		"market_cap_rank":                        1,
		"total_volume":                           31214000000.0,
		"price_change_percentage_1h_in_currency":  0.12,
		"price_change_percentage_24h_in_currency": -1.4,
		"price_change_percentage_7d_in_currency":  3.9,
	},
	{
		"id":                                     "ethereum",
		"symbol":                                 "eth",
		"name":                                   "Ethereum",
		"current_price":                          3511.2,
		"market_cap":                             421000000000.0,
		"market_cap_rank":                        2,
		"total_volume":                           15000000000.0,
		"price_change_percentage_1h_in_currency":  nil,
		"price_change_percentage_24h_in_currency": 2.5,
		"price_change_percentage_7d_in_currency":  -0.8,
	},
}

func TestCoinsMarkets(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, http.MethodGet, req.Method)
			require.True(t, strings.HasSuffix(req.URL.Path, "/coins/markets"))
			query := req.URL.Query()
			require.Equal(t, "usd", query.Get("vs_currency"))
			require.Equal(t, "market_cap_desc", query.Get("order"))
			require.Equal(t, "2", query.Get("per_page"))
			require.Equal(t, "1", query.Get("page"))
			require.Equal(t, "false", query.Get("sparkline"))
			require.Equal(t, "1h,24h,7d", query.Get("price_change_percentage"))
			require.False(t, query.Has("ids"))
			return jsonResponse(t, mockMarketsResponse), nil
		}).
		Times(1)

	// Arrange: setup a new client
	client := coingecko.NewClient("", coingecko.WithHTTPClient(httpClient))

	// Act: call CoinsMarkets
	markets, err := client.CoinsMarkets(t.Context(), coingecko.MarketsParams{
		PerPage:               2,
		PriceChangePercentage: []string{"1h", "24h", "7d"},
	})
	require.NoError(t, err)

	// Assert: rows are decoded in response order
	require.Len(t, markets, 2)
	require.Equal(t, "bitcoin", markets[0].ID)
	require.Equal(t, "btc", markets[0].Symbol)
	require.InEpsilon(t, 67187.34, markets[0].CurrentPrice, 0.0001)
	require.InEpsilon(t, 31214000000.0, markets[0].TotalVolume, 0.0001)
	require.InEpsilon(t, -1.4, markets[0].PriceChangePercentage24hInCurrency, 0.0001)
	require.Equal(t, "ethereum", markets[1].ID)
	require.Zero(t, markets[1].PriceChangePercentage1hInCurrency)
}

func TestCoinsMarkets_IDs(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "bitcoin,ethereum", req.URL.Query().Get("ids"))
			return jsonResponse(t, mockMarketsResponse), nil
		}).
		Times(1)

	client := coingecko.NewClient("", coingecko.WithHTTPClient(httpClient))
	_, err := client.CoinsMarkets(t.Context(), coingecko.MarketsParams{IDs: []string{"bitcoin", "ethereum"}})
	require.NoError(t, err)
}

func TestCoinsMarkets_ErrCreatingRequest(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: the request never leaves the client
	httpClient.EXPECT().
		Do(gomock.Any()).
		Times(0)

	client := coingecko.NewClient("", coingecko.WithHTTPClient(httpClient), coingecko.WithBaseURL(string([]rune{0x7f})))

	markets, err := client.CoinsMarkets(t.Context(), coingecko.MarketsParams{PerPage: 1})
	require.Error(t, err)
	require.Nil(t, markets)
}

func TestCoinsMarkets_ErrPerformingRequest(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			return nil, fmt.Errorf("connection refused")
		}).
		Times(1)

	client := coingecko.NewClient("", coingecko.WithHTTPClient(httpClient))

	markets, err := client.CoinsMarkets(t.Context(), coingecko.MarketsParams{PerPage: 1})
	require.ErrorContains(t, err, "connection refused")
	require.NotErrorIs(t, err, coingecko.ErrMalformedResponse)
	require.Nil(t, markets)
}

func TestCoinsMarkets_ErrUnexpectedStatusCode(t *testing.T) {
	t.Parallel()

	for _, code := range []int{http.StatusBadRequest, http.StatusForbidden, http.StatusTooManyRequests, http.StatusInternalServerError} {
		t.Run(http.StatusText(code), func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			httpClient := NewMockHTTPClient(ctrl)

			httpClient.EXPECT().
				Do(gomock.Any()).
				DoAndReturn(func(req *http.Request) (*http.Response, error) {
					return &http.Response{
						StatusCode: code,
						Body:       io.NopCloser(strings.NewReader(`{"error":"nope"}`)),
					}, nil
				}).
				Times(1)

			client := coingecko.NewClient("", coingecko.WithHTTPClient(httpClient))

			markets, err := client.CoinsMarkets(t.Context(), coingecko.MarketsParams{PerPage: 1})
			require.Nil(t, markets)

			var statusErr *coingecko.StatusError
			require.True(t, errors.As(err, &statusErr))
			require.Equal(t, code, statusErr.StatusCode)
			require.Equal(t, `{"error":"nope"}`, statusErr.Body)
		})
	}
}

func TestCoinsMarkets_ErrMalformed(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"not json":       `<html>`,
		"object":         `{"status":"ok"}`,
		"null":           `null`,
		"missing symbol": `[{"id":"bitcoin","name":"Bitcoin"}]`,
		"null price":     `[{"id":"bitcoin","symbol":"btc","name":"Bitcoin","current_price":null}]`,
		"missing price":  `[{"id":"bitcoin","symbol":"btc","name":"Bitcoin"}]`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			httpClient := NewMockHTTPClient(ctrl)

			httpClient.EXPECT().
				Do(gomock.Any()).
				Return(&http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(strings.NewReader(body)),
				}, nil).
				Times(1)

			client := coingecko.NewClient("", coingecko.WithHTTPClient(httpClient))

			markets, err := client.CoinsMarkets(t.Context(), coingecko.MarketsParams{PerPage: 1})
			require.ErrorIs(t, err, coingecko.ErrMalformedResponse)
			require.Nil(t, markets)
		})
	}
}
