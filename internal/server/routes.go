package server

import (
	"net/http"

	"stocketl/internal/quote"
)

// NewHandler creates the full HTTP handler with routes and middleware.
// Exported for use in tests (e.g., httptest.NewServer).
func NewHandler(quoteSvc *quote.Service) http.Handler {
	return newMux(quoteSvc)
}

func newMux(quoteSvc *quote.Service) http.Handler {
	h := &handler{quoteSvc: quoteSvc}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("GET /api/v1/quotes", h.getQuotes)
	mux.HandleFunc("GET /api/v1/stats", h.getStats)

	// Apply middleware stack: recovery -> requestID -> logging
	var handler http.Handler = mux
	handler = logging(handler)
	handler = requestID(handler)
	handler = recovery(handler)

	return handler
}
