// backend/src/handlers/config_handler.go
package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/username/cartera/backend/src/logger"
	"github.com/username/cartera/backend/src/model"
)

type ConfigHandler struct {
	db *sql.DB
}

func NewConfigHandler(db *sql.DB) *ConfigHandler {
	return &ConfigHandler{db: db}
}

func (h *ConfigHandler) HandleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"base_currency": resolveBaseCurrency(h.db, ""),
	})
}

type baseCurrencyPayload struct {
	Currency string `json:"currency"`
}

func (h *ConfigHandler) HandleSetBaseCurrency(w http.ResponseWriter, r *http.Request) {
	var payload baseCurrencyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	currency := strings.ToUpper(strings.TrimSpace(payload.Currency))
	if len(currency) < 3 || len(currency) > 6 {
		sendJSONError(w, "Invalid base currency", http.StatusBadRequest)
		return
	}
	if err := model.SetConfigValue(h.db, baseCurrencyConfigKey, currency); err != nil {
		logger.FromContext(r.Context()).Error("Failed to store base currency", "error", err)
		sendJSONError(w, "Failed to store base currency", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"status": "ok", "base_currency": currency})
}
