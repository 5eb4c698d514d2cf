// backend/src/model/dividend.go
package model

import (
	"database/sql"
	"encoding/json"

	"github.com/username/cartera/backend/src/models"
)

// GetDividendsOrdered returns every dividend ordered by datetime ascending.
func GetDividendsOrdered(db *sql.DB) ([]models.Dividend, error) {
	rows, err := db.Query(`
		SELECT action_id, COALESCE(ticker, ''), currency, datetime, amount, gross, tax, COALESCE(issuer_country, '')
		FROM dividends ORDER BY datetime ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var dividends []models.Dividend
	for rows.Next() {
		var d models.Dividend
		var gross, tax sql.NullFloat64
		if err := rows.Scan(&d.ActionID, &d.Ticker, &d.Currency, &d.DateTime, &d.Amount, &gross, &tax, &d.IssuerCountry); err != nil {
			return nil, err
		}
		if gross.Valid {
			d.Gross = &gross.Float64
		}
		if tax.Valid {
			d.Tax = &tax.Float64
		}
		dividends = append(dividends, d)
	}
	return dividends, rows.Err()
}

// InsertDividend stores a dividend, ignoring duplicates by action_id.
func InsertDividend(db *sql.DB, d models.Dividend, raw map[string]any) (bool, error) {
	rawJSON, _ := json.Marshal(raw)
	var gross, tax any
	if d.Gross != nil {
		gross = *d.Gross
	}
	if d.Tax != nil {
		tax = *d.Tax
	}
	res, err := db.Exec(`
		INSERT OR IGNORE INTO dividends (action_id, ticker, currency, datetime, amount, gross, tax, issuer_country, raw_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ActionID, nullable(d.Ticker), d.Currency, d.DateTime, d.Amount, gross, tax, nullable(d.IssuerCountry), string(rawJSON))
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

// SumDividendsByCurrency returns total dividend amounts grouped by currency.
func SumDividendsByCurrency(db *sql.DB) (map[string]float64, error) {
	rows, err := db.Query("SELECT UPPER(currency), SUM(amount) FROM dividends GROUP BY UPPER(currency)")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	totals := make(map[string]float64)
	for rows.Next() {
		var currency string
		var total sql.NullFloat64
		if err := rows.Scan(&currency, &total); err != nil {
			return nil, err
		}
		totals[currency] = total.Float64
	}
	return totals, rows.Err()
}
