package alphavantage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return New("test-key",
		WithEndpoint(ts.URL),
		WithClient(ts.Client()),
	)
}

func TestFetchDaily(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "TIME_SERIES_DAILY", q.Get("function"))
		assert.Equal(t, "AAPL", q.Get("symbol"))
		assert.Equal(t, "compact", q.Get("outputsize"))
		assert.Equal(t, "test-key", q.Get("apikey"))

		_, _ = w.Write([]byte(`{
			"Meta Data": {"2. Symbol": "AAPL"},
			"Time Series (Daily)": {
				"2024-01-02": {"1. open": "100.00", "2. high": "106.00", "3. low": "99.50", "4. close": "105.00", "5. volume": "48201835"}
			}
		}`))
	})

	payload, err := c.FetchDaily(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Len(t, payload.Series, 1)
	assert.Equal(t, "AAPL", payload.Symbol)
	assert.Equal(t, "100.00", payload.Series["2024-01-02"]["1. open"])
	assert.Contains(t, string(payload.Raw), "Meta Data")
}

func TestFetchDaily_DomainError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Error Message": "Invalid API call for symbol NOPE"}`))
	})

	_, err := c.FetchDaily(context.Background(), "NOPE")
	var domainErr *DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOPE", domainErr.Symbol)
	assert.Contains(t, domainErr.Message, "Invalid API call")
}

func TestFetchDaily_RateLimited(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`))
	})

	_, err := c.FetchDaily(context.Background(), "AAPL")
	var rateErr *RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.Contains(t, rateErr.Note, "5 calls per minute")
}

func TestFetchDaily_InformationIsRateLimited(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Information": "API rate limit reached"}`))
	})

	_, err := c.FetchDaily(context.Background(), "AAPL")
	var rateErr *RateLimitError
	require.ErrorAs(t, err, &rateErr)
}

func TestFetchDaily_TransportFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.FetchDaily(context.Background(), "AAPL")
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
}

func TestFetchDaily_DecodeFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	})

	_, err := c.FetchDaily(context.Background(), "AAPL")
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestFetchDaily_MissingSeriesIsDomainError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Meta Data": {"2. Symbol": "AAPL"}}`))
	})

	_, err := c.FetchDaily(context.Background(), "AAPL")
	var domainErr *DomainError
	require.ErrorAs(t, err, &domainErr)
}

func TestFetchDaily_EmptySymbol(t *testing.T) {
	c := New("test-key")
	_, err := c.FetchDaily(context.Background(), "")
	require.Error(t, err)
}
