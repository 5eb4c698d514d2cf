// backend/src/model/fx.go
package model

import (
	"database/sql"
	"strings"

	"github.com/username/cartera/backend/src/models"
)

// FxRateAtOrBefore returns the rate for (base, quote) with the greatest stored
// date not exceeding date, or false when no such rate exists.
func FxRateAtOrBefore(db *sql.DB, base, quote, date string) (float64, bool, error) {
	var rate float64
	err := db.QueryRow(`
		SELECT rate FROM fx_rates
		WHERE base_currency = ? AND quote_currency = ? AND date <= ?
		ORDER BY date DESC LIMIT 1`,
		strings.ToUpper(base), strings.ToUpper(quote), date).Scan(&rate)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return rate, true, nil
}

// LatestFxRate returns the newest stored rate for (base, quote) regardless of
// date, used by the point-in-time snapshot valuation.
func LatestFxRate(db *sql.DB, base, quote string) (float64, bool, error) {
	var rate float64
	err := db.QueryRow(`
		SELECT rate FROM fx_rates
		WHERE base_currency = ? AND quote_currency = ?
		ORDER BY date DESC LIMIT 1`,
		strings.ToUpper(base), strings.ToUpper(quote)).Scan(&rate)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return rate, true, nil
}

// UpsertFxRate stores a rate, replacing an existing row for the same
// (base, quote, date).
func UpsertFxRate(db *sql.DB, r models.FxRate) error {
	_, err := db.Exec(`
		INSERT INTO fx_rates (base_currency, quote_currency, date, rate)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(base_currency, quote_currency, date) DO UPDATE SET rate = excluded.rate`,
		strings.ToUpper(r.BaseCurrency), strings.ToUpper(r.QuoteCurrency), r.Date, r.Rate)
	return err
}
