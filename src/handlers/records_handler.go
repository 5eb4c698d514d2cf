// backend/src/handlers/records_handler.go
package handlers

import (
	"database/sql"
	"net/http"

	"github.com/username/cartera/backend/src/logger"
	"github.com/username/cartera/backend/src/model"
)

// RecordsHandler serves the raw stored records for inspection in the UI.
type RecordsHandler struct {
	db *sql.DB
}

func NewRecordsHandler(db *sql.DB) *RecordsHandler {
	return &RecordsHandler{db: db}
}

func (h *RecordsHandler) HandleListTrades(w http.ResponseWriter, r *http.Request) {
	trades, err := model.GetTradesOrdered(h.db)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list trades", "error", err)
		sendJSONError(w, "Failed to list trades", http.StatusInternalServerError)
		return
	}
	writeJSON(w, trades)
}

func (h *RecordsHandler) HandleListTransfers(w http.ResponseWriter, r *http.Request) {
	transfers, err := model.GetTransfersOrdered(h.db)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list transfers", "error", err)
		sendJSONError(w, "Failed to list transfers", http.StatusInternalServerError)
		return
	}
	writeJSON(w, transfers)
}

func (h *RecordsHandler) HandleListDividends(w http.ResponseWriter, r *http.Request) {
	dividends, err := model.GetDividendsOrdered(h.db)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list dividends", "error", err)
		sendJSONError(w, "Failed to list dividends", http.StatusInternalServerError)
		return
	}
	writeJSON(w, dividends)
}
