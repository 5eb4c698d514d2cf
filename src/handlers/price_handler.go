// backend/src/handlers/price_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/username/cartera/backend/src/logger"
	"github.com/username/cartera/backend/src/services"
)

type PriceHandler struct {
	priceService services.PriceService
}

func NewPriceHandler(priceService services.PriceService) *PriceHandler {
	return &PriceHandler{priceService: priceService}
}

type tickersPayload struct {
	Tickers []string `json:"tickers"`
}

func (h *PriceHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	var payload tickersPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	summary, err := h.priceService.SyncPrices(payload.Tickers)
	if err != nil {
		if errors.Is(err, services.ErrNoTickers) {
			sendJSONError(w, "No tickers to sync", http.StatusBadRequest)
			return
		}
		logger.FromContext(r.Context()).Error("Price sync failed", "error", err)
		sendJSONError(w, "Price sync failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"status": "ok", "updated": summary})
}

func (h *PriceHandler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	var payload tickersPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	latest, err := h.priceService.LatestPrices(payload.Tickers)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to load latest prices", "error", err)
		sendJSONError(w, "Failed to load latest prices", http.StatusInternalServerError)
		return
	}
	writeJSON(w, latest)
}

func (h *PriceHandler) HandleSeries(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	series, err := h.priceService.PriceSeries(ticker)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to load price series", "ticker", ticker, "error", err)
		sendJSONError(w, "Failed to load price series", http.StatusInternalServerError)
		return
	}
	writeJSON(w, series)
}
