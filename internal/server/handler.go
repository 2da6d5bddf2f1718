package server

import (
	"net/http"
	"strings"
	"time"

	"stocketl/internal/apperror"
	"stocketl/internal/quote"
)

const dateFormat = "2006-01-02"

type handler struct {
	quoteSvc *quote.Service
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) getQuotes(w http.ResponseWriter, r *http.Request) {
	req := quote.QueryRequest{
		Symbol: strings.ToUpper(r.URL.Query().Get("symbol")),
	}

	var err error
	if v := r.URL.Query().Get("startDate"); v != "" {
		req.StartDate, err = time.Parse(dateFormat, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid startDate format, expected YYYY-MM-DD")
			return
		}
	}
	if v := r.URL.Query().Get("endDate"); v != "" {
		req.EndDate, err = time.Parse(dateFormat, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid endDate format, expected YYYY-MM-DD")
			return
		}
	}

	quotes, err := h.quoteSvc.Query(r.Context(), req)
	if err != nil {
		if ae, ok := err.(*apperror.AppError); ok {
			writeError(w, ae.HTTPStatus(), ae.Message())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, quotes)
}

func (h *handler) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.quoteSvc.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
