// backend/src/model/price.go
package model

import (
	"database/sql"

	"github.com/username/cartera/backend/src/models"
)

// GetPriceHistory returns the stored price series for one ticker in ascending
// date order.
func GetPriceHistory(db *sql.DB, ticker string) ([]models.PricePoint, error) {
	rows, err := db.Query(
		"SELECT ticker, date, close, provisional FROM prices WHERE ticker = ? ORDER BY date ASC",
		ticker)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var points []models.PricePoint
	for rows.Next() {
		var p models.PricePoint
		var provisional int
		if err := rows.Scan(&p.Ticker, &p.Date, &p.Close, &provisional); err != nil {
			return nil, err
		}
		p.Provisional = provisional != 0
		points = append(points, p)
	}
	return points, rows.Err()
}

// LatestPrice returns the most recent price point for a ticker, or false when
// none is stored.
func LatestPrice(db *sql.DB, ticker string) (models.PricePoint, bool, error) {
	var p models.PricePoint
	var provisional int
	err := db.QueryRow(
		"SELECT ticker, date, close, provisional FROM prices WHERE ticker = ? ORDER BY date DESC LIMIT 1",
		ticker).Scan(&p.Ticker, &p.Date, &p.Close, &provisional)
	if err == sql.ErrNoRows {
		return p, false, nil
	}
	if err != nil {
		return p, false, err
	}
	p.Provisional = provisional != 0
	return p, true, nil
}

// LastPriceEntry returns the newest stored date and its provisional flag for a
// ticker. The sync uses it to decide where to resume fetching.
func LastPriceEntry(db *sql.DB, ticker string) (string, bool, error) {
	var date string
	var provisional int
	err := db.QueryRow(
		"SELECT date, provisional FROM prices WHERE ticker = ? ORDER BY date DESC LIMIT 1",
		ticker).Scan(&date, &provisional)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return date, provisional != 0, nil
}

// UpsertPrice stores a price point, replacing an existing row for the same
// (ticker, date) so provisional closes settle in place.
func UpsertPrice(db *sql.DB, p models.PricePoint) error {
	provisional := 0
	if p.Provisional {
		provisional = 1
	}
	_, err := db.Exec(`
		INSERT INTO prices (ticker, date, close, provisional)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(ticker, date) DO UPDATE SET close = excluded.close, provisional = excluded.provisional`,
		p.Ticker, p.Date, p.Close, provisional)
	return err
}
