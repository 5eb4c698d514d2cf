// backend/src/handlers/portfolio_handler.go
package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/username/cartera/backend/src/logger"
	"github.com/username/cartera/backend/src/processors"
	"github.com/username/cartera/backend/src/services"
)

type PortfolioHandler struct {
	db            *sql.DB
	seriesService services.SeriesService
}

func NewPortfolioHandler(db *sql.DB, seriesService services.SeriesService) *PortfolioHandler {
	return &PortfolioHandler{
		db:            db,
		seriesService: seriesService,
	}
}

func (h *PortfolioHandler) HandleValueSeries(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	interval, err := processors.ParseInterval(query.Get("interval"))
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
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
	baseCurrency := resolveBaseCurrency(h.db, query.Get("base"))

	result, err := h.seriesService.ValueSeries(services.SeriesParams{
		Interval:     interval,
		From:         from,
		To:           to,
		BaseCurrency: baseCurrency,
	})
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to build value series", "error", err)
		sendJSONError(w, "Failed to build value series", http.StatusInternalServerError)
		return
	}
	writeJSON(w, result)
}

func (h *PortfolioHandler) HandleCurrentValue(w http.ResponseWriter, r *http.Request) {
	baseCurrency := resolveBaseCurrency(h.db, r.URL.Query().Get("base"))

	value, err := h.seriesService.CurrentValue(baseCurrency)
	if err != nil {
		var rateErr *processors.RateNotFoundError
		if errors.As(err, &rateErr) {
			sendJSONError(w, rateErr.Error(), http.StatusBadRequest)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to compute portfolio value", "error", err)
		sendJSONError(w, "Failed to compute portfolio value", http.StatusInternalServerError)
		return
	}
	writeJSON(w, value)
}
