package alphavantage

import "fmt"

// DomainError is an explicit error reported by the provider for the request,
// e.g. an unknown symbol.
type DomainError struct {
	Symbol  string
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("provider error for %s: %s", e.Symbol, e.Message)
}

// RateLimitError is a soft quota notice from the provider. The payload
// carries no data; the next scheduled run retries.
type RateLimitError struct {
	Symbol string
	Note   string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("provider rate limit for %s: %s", e.Symbol, e.Note)
}

// TransportError is a network or protocol-level failure: unreachable host,
// timeout, or a non-2xx status.
type TransportError struct {
	Symbol string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed for %s: %v", e.Symbol, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError means the response body was not parseable as the expected
// structure.
type DecodeError struct {
	Symbol string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode failed for %s: %v", e.Symbol, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
