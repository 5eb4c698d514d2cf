// backend/src/handlers/fx_handler.go
package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/username/cartera/backend/src/logger"
	"github.com/username/cartera/backend/src/model"
	"github.com/username/cartera/backend/src/models"
	"github.com/username/cartera/backend/src/processors"
	"github.com/username/cartera/backend/src/services"
)

type FxHandler struct {
	db        *sql.DB
	fxService services.FxService
}

func NewFxHandler(db *sql.DB, fxService services.FxService) *FxHandler {
	return &FxHandler{db: db, fxService: fxService}
}

type setFxRatePayload struct {
	BaseCurrency  string  `json:"base_currency"`
	QuoteCurrency string  `json:"quote_currency"`
	Rate          float64 `json:"rate"`
	Date          string  `json:"date"`
}

// HandleSetRate stores a manual rate, for pairs the provider does not quote.
func (h *FxHandler) HandleSetRate(w http.ResponseWriter, r *http.Request) {
	var payload setFxRatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	base := strings.ToUpper(strings.TrimSpace(payload.BaseCurrency))
	quote := strings.ToUpper(strings.TrimSpace(payload.QuoteCurrency))
	if base == "" || quote == "" || base == quote {
		sendJSONError(w, "Invalid currency pair", http.StatusBadRequest)
		return
	}
	if payload.Rate <= 0 {
		sendJSONError(w, "Rate must be positive", http.StatusBadRequest)
		return
	}
	date, err := processors.ParseDate(payload.Date)
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}

	if err := model.UpsertFxRate(h.db, models.FxRate{
		BaseCurrency:  base,
		QuoteCurrency: quote,
		Date:          date,
		Rate:          payload.Rate,
	}); err != nil {
		logger.FromContext(r.Context()).Error("Failed to store fx rate", "error", err)
		sendJSONError(w, "Failed to store fx rate", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{
		"status":         "ok",
		"base_currency":  base,
		"quote_currency": quote,
		"date":           date,
		"rate":           payload.Rate,
	})
}

type currenciesPayload struct {
	Tickers []string `json:"tickers"`
}

// HandleSync refreshes rates for the given currencies against the configured
// base; with an empty list it covers every currency found in the books.
func (h *FxHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	var payload currenciesPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	baseCurrency := resolveBaseCurrency(h.db, "")

	currencies := payload.Tickers
	if len(currencies) == 0 {
		inUse, err := model.DistinctCurrencies(h.db)
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to list currencies", "error", err)
			sendJSONError(w, "Failed to list currencies", http.StatusInternalServerError)
			return
		}
		currencies = inUse
	}

	summary, err := h.fxService.SyncRates(baseCurrency, currencies)
	if err != nil {
		if errors.Is(err, services.ErrNoCurrencies) {
			sendJSONError(w, "No currencies to sync", http.StatusBadRequest)
			return
		}
		logger.FromContext(r.Context()).Error("FX sync failed", "error", err)
		sendJSONError(w, "FX sync failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{
		"status":        "ok",
		"base_currency": baseCurrency,
		"updated":       summary,
	})
}
