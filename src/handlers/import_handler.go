// backend/src/handlers/import_handler.go
package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/username/cartera/backend/src/logger"
	"github.com/username/cartera/backend/src/parsers/flex"
	"github.com/username/cartera/backend/src/services"
)

type ImportHandler struct {
	db            *sql.DB
	importService services.ImportService
	fxService     services.FxService
}

func NewImportHandler(db *sql.DB, importService services.ImportService, fxService services.FxService) *ImportHandler {
	return &ImportHandler{
		db:            db,
		importService: importService,
		fxService:     fxService,
	}
}

type rowsPayload struct {
	Rows []map[string]any `json:"rows"`
}

// HandleImport accepts either a JSON rows payload or a raw CSV body, keyed by
// the kind path segment (trades, transfers, dividends). Trade imports kick off
// an FX refresh for the currencies they introduce.
func (h *ImportHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")

	var (
		rows   []map[string]any
		source string
	)
	if strings.Contains(r.Header.Get("Content-Type"), "text/csv") {
		parsed, err := flex.NewParser().Parse(r.Body)
		if err != nil {
			sendJSONError(w, "Failed to parse CSV body", http.StatusBadRequest)
			return
		}
		rows = parsed
		source = "csv"
	} else {
		var payload rowsPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			sendJSONError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		rows = payload.Rows
		source = "json"
	}

	summary, err := h.importService.ImportRows(kind, source, rows)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoRows):
			sendJSONError(w, "No rows to import", http.StatusBadRequest)
		case errors.Is(err, services.ErrUnknownImportKind):
			sendJSONError(w, err.Error(), http.StatusBadRequest)
		default:
			logger.FromContext(r.Context()).Error("Import failed", "kind", kind, "error", err)
			sendJSONError(w, "Import failed", http.StatusInternalServerError)
		}
		return
	}

	if kind == "trades" && len(summary.Currencies) > 0 {
		baseCurrency := resolveBaseCurrency(h.db, "")
		currencies := summary.Currencies
		go func() {
			if _, err := h.fxService.SyncRates(baseCurrency, currencies); err != nil && !errors.Is(err, services.ErrNoCurrencies) {
				logger.L.Warn("Post-import FX sync failed", "error", err)
			}
		}()
	}

	writeJSON(w, map[string]any{
		"status":  "ok",
		"rows":    summary.TotalRows,
		"summary": summary,
	})
}
