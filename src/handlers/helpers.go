// backend/src/handlers/helpers.go
package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/username/cartera/backend/src/config"
	"github.com/username/cartera/backend/src/logger"
	"github.com/username/cartera/backend/src/model"
)

const baseCurrencyConfigKey = "base_currency"

func sendJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	logger.L.Warn("Sending JSON error to client", "message", message, "statusCode", statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

// resolveBaseCurrency picks the request override when given, else the stored
// configuration, else the configured default.
func resolveBaseCurrency(db *sql.DB, override string) string {
	if override != "" {
		return strings.ToUpper(strings.TrimSpace(override))
	}
	def := "USD"
	if config.Cfg != nil && config.Cfg.DefaultBaseCurrency != "" {
		def = config.Cfg.DefaultBaseCurrency
	}
	value, err := model.GetConfigValue(db, baseCurrencyConfigKey, def)
	if err != nil || value == "" {
		return strings.ToUpper(def)
	}
	return strings.ToUpper(value)
}
