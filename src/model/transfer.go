// backend/src/model/transfer.go
package model

import (
	"database/sql"
	"encoding/json"

	"github.com/username/cartera/backend/src/models"
)

// GetTransfersOrdered returns every transfer ordered by datetime ascending.
func GetTransfersOrdered(db *sql.DB) ([]models.Transfer, error) {
	rows, err := db.Query(`
		SELECT transaction_id, currency, datetime, amount, COALESCE(origin, ?), COALESCE(kind, 'unknown')
		FROM transfers ORDER BY datetime ASC`, models.OriginExternal)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var transfers []models.Transfer
	for rows.Next() {
		var t models.Transfer
		if err := rows.Scan(&t.TransactionID, &t.Currency, &t.DateTime, &t.Amount, &t.Origin, &t.Kind); err != nil {
			return nil, err
		}
		transfers = append(transfers, t)
	}
	return transfers, rows.Err()
}

// InsertTransfer stores a transfer, ignoring duplicates by transaction_id.
func InsertTransfer(db *sql.DB, t models.Transfer, raw map[string]any) (bool, error) {
	rawJSON, _ := json.Marshal(raw)
	origin := t.Origin
	if origin == "" {
		origin = models.OriginExternal
	}
	res, err := db.Exec(`
		INSERT OR IGNORE INTO transfers (transaction_id, currency, datetime, amount, origin, kind, raw_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.TransactionID, t.Currency, t.DateTime, t.Amount, origin, t.Kind, string(rawJSON))
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

// SumTransfersByCurrency returns total transfer amounts grouped by currency.
func SumTransfersByCurrency(db *sql.DB) (map[string]float64, error) {
	rows, err := db.Query("SELECT UPPER(currency), SUM(amount) FROM transfers GROUP BY UPPER(currency)")
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

// SumExternalTransfersByCurrency returns only externally contributed capital,
// grouped by currency, optionally bounded by [from, to] datetimes.
func SumExternalTransfersByCurrency(db *sql.DB, from, to string) (map[string]float64, error) {
	query := "SELECT UPPER(currency), SUM(amount) FROM transfers WHERE origin = ?"
	args := []any{models.OriginExternal}
	if from != "" {
		query += " AND datetime >= ?"
		args = append(args, from)
	}
	if to != "" {
		query += " AND datetime <= ?"
		args = append(args, to)
	}
	query += " GROUP BY UPPER(currency)"
	rows, err := db.Query(query, args...)
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
