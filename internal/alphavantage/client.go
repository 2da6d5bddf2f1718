// Package alphavantage implements the extraction client for the Alpha
// Vantage daily time series API. Every response is classified into exactly
// one outcome: a usable payload, or one of the typed errors in errors.go.
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const seriesKey = "Time Series (Daily)"

// Payload is a successfully fetched daily series for one symbol. Raw holds
// the verbatim response body for archiving; Series maps date strings to
// provider field labels ("1. open" .. "5. volume") and their string values.
type Payload struct {
	Symbol string
	Raw    []byte
	Series map[string]map[string]string
}

type Client struct {
	client     *http.Client
	endpoint   string
	apiKey     string
	outputSize string
}

// New creates a Client with the given options applied.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		client:     &http.Client{Timeout: 30 * time.Second},
		endpoint:   "https://www.alphavantage.co/query",
		apiKey:     apiKey,
		outputSize: "compact",
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Option configures a Client.
type Option func(*Client)

// WithClient sets the HTTP client.
func WithClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithEndpoint overrides the default query endpoint.
func WithEndpoint(ep string) Option {
	return func(c *Client) { c.endpoint = ep }
}

// WithOutputSize sets the outputsize parameter ("compact" for the most
// recent ~100 points, "full" for the whole history).
func WithOutputSize(size string) Option {
	return func(c *Client) { c.outputSize = size }
}

// envelope covers every response shape the provider returns: a time series,
// an explicit error, or a rate-limit notice.
type envelope struct {
	ErrorMessage string                       `json:"Error Message"`
	Note         string                       `json:"Note"`
	Information  string                       `json:"Information"`
	Series       map[string]map[string]string `json:"Time Series (Daily)"`
}

// FetchDaily issues one request for the symbol's daily series and classifies
// the response. Only a nil error carries data.
func (c *Client) FetchDaily(ctx context.Context, symbol string) (*Payload, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol cannot be empty")
	}

	params := url.Values{}
	params.Set("function", "TIME_SERIES_DAILY")
	params.Set("symbol", symbol)
	params.Set("outputsize", c.outputSize)
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Symbol: symbol, Err: err}
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return nil, &TransportError{Symbol: symbol, Err: fmt.Errorf("HTTP %d", res.StatusCode)}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &TransportError{Symbol: symbol, Err: err}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &DecodeError{Symbol: symbol, Err: err}
	}

	switch {
	case env.ErrorMessage != "":
		return nil, &DomainError{Symbol: symbol, Message: env.ErrorMessage}
	case env.Note != "":
		return nil, &RateLimitError{Symbol: symbol, Note: env.Note}
	case env.Information != "":
		return nil, &RateLimitError{Symbol: symbol, Note: env.Information}
	case len(env.Series) == 0:
		// No error indicator and no series key either.
		return nil, &DomainError{Symbol: symbol, Message: "response contains no daily time series"}
	}

	return &Payload{Symbol: symbol, Raw: body, Series: env.Series}, nil
}
