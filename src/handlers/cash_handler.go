// backend/src/handlers/cash_handler.go
package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/username/cartera/backend/src/logger"
	"github.com/username/cartera/backend/src/models"
	"github.com/username/cartera/backend/src/processors"
	"github.com/username/cartera/backend/src/services"
)

type CashHandler struct {
	db          *sql.DB
	cashService services.CashService
}

func NewCashHandler(db *sql.DB, cashService services.CashService) *CashHandler {
	return &CashHandler{db: db, cashService: cashService}
}

func (h *CashHandler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	balances, err := h.cashService.Balance()
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to compute cash balance", "error", err)
		sendJSONError(w, "Failed to compute cash balance", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string][]models.CurrencyBalance{"balances": balances})
}

// cashSeriesParams validates the shared query surface of the two cash series
// endpoints.
func cashSeriesParams(r *http.Request) (interval, from, to string, err error) {
	query := r.URL.Query()
	interval = query.Get("interval")
	if interval == "" {
		interval = "day"
	}
	if from, err = processors.ParseDate(query.Get("from")); err != nil {
		return
	}
	to, err = processors.ParseDate(query.Get("to"))
	return
}

func (h *CashHandler) HandleCashSeries(w http.ResponseWriter, r *http.Request) {
	interval, from, to, err := cashSeriesParams(r)
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	series, err := h.cashService.CashSeries(interval, from, to)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCashInterval) {
			sendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to build cash series", "error", err)
		sendJSONError(w, "Failed to build cash series", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"interval": interval, "series": series})
}

func (h *CashHandler) HandleTransfersSeries(w http.ResponseWriter, r *http.Request) {
	interval, from, to, err := cashSeriesParams(r)
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	series, err := h.cashService.TransfersSeries(interval, from, to)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCashInterval) {
			sendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to build transfers series", "error", err)
		sendJSONError(w, "Failed to build transfers series", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"interval": interval, "series": series})
}

func (h *CashHandler) HandleNetTransfers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from, err := processors.ParseDate(query.Get("from"))
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	to, err := processors.ParseDate(query.Get("to"))
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	totals, err := h.cashService.NetTransfers(from, to)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to compute net transfers", "error", err)
		sendJSONError(w, "Failed to compute net transfers", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{
		"base_currency": resolveBaseCurrency(h.db, query.Get("base")),
		"totals":        totals,
	})
}
