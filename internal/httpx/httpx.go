package httpx

import (
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Client wraps http.Client with tuned transport defaults, default headers and
// per-request debug logging. It satisfies coingecko.HTTPClient.
type Client struct {
	HTTP      *http.Client
	UserAgent string
	Headers   map[string]string
	Logger    zerolog.Logger
}

func New(timeout time.Duration, logger zerolog.Logger) *Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		ForceAttemptHTTP2:     true,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   3 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: 5 * time.Second,
	}
	return &Client{
		HTTP:      &http.Client{Timeout: timeout, Transport: transport},
		UserAgent: "cryptodash/1.0",
		Logger:    logger,
	}
}

// Do sends req after filling in headers the caller left unset.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	for k, v := range c.Headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}

	start := time.Now()
	res, err := c.HTTP.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.Logger.Debug().Err(err).Str("method", req.Method).Str("path", req.URL.Path).Dur("elapsed", elapsed).Msg("upstream request failed")
		return nil, err
	}
	c.Logger.Debug().Str("method", req.Method).Str("path", req.URL.Path).Int("status", res.StatusCode).Dur("elapsed", elapsed).Msg("upstream request")
	return res, nil
}
