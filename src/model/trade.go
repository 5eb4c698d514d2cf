// backend/src/model/trade.go
package model

import (
	"database/sql"
	"encoding/json"

	"github.com/username/cartera/backend/src/models"
)

// GetTradesOrdered returns every trade ordered by datetime ascending, the
// order the position reconstructor requires.
func GetTradesOrdered(db *sql.DB) ([]models.Trade, error) {
	rows, err := db.Query(`
		SELECT trade_id, COALESCE(ticker, ''), COALESCE(quantity, 0), COALESCE(purchase, 0),
		       COALESCE(datetime, ''), COALESCE(commission, 0), COALESCE(commission_currency, ''),
		       COALESCE(currency, ''), COALESCE(isin, ''), COALESCE(asset_class, '')
		FROM trades ORDER BY datetime ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var trades []models.Trade
	for rows.Next() {
		var t models.Trade
		if err := rows.Scan(&t.TradeID, &t.Ticker, &t.Quantity, &t.Purchase, &t.DateTime,
			&t.Commission, &t.CommissionCurrency, &t.Currency, &t.ISIN, &t.AssetClass); err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// GetStockTrades returns only STK trades, used by the cash endpoints where
// option premiums are handled separately.
func GetStockTrades(db *sql.DB) ([]models.Trade, error) {
	rows, err := db.Query(`
		SELECT trade_id, COALESCE(ticker, ''), COALESCE(quantity, 0), COALESCE(purchase, 0),
		       COALESCE(datetime, ''), COALESCE(commission, 0), COALESCE(commission_currency, ''),
		       COALESCE(currency, ''), COALESCE(isin, ''), COALESCE(asset_class, '')
		FROM trades WHERE asset_class = 'STK' ORDER BY datetime ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var trades []models.Trade
	for rows.Next() {
		var t models.Trade
		if err := rows.Scan(&t.TradeID, &t.Ticker, &t.Quantity, &t.Purchase, &t.DateTime,
			&t.Commission, &t.CommissionCurrency, &t.Currency, &t.ISIN, &t.AssetClass); err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// InsertTrade stores a trade, ignoring duplicates by trade_id.
func InsertTrade(db *sql.DB, t models.Trade, raw map[string]any) (bool, error) {
	rawJSON, _ := json.Marshal(raw)
	res, err := db.Exec(`
		INSERT OR IGNORE INTO trades (trade_id, ticker, quantity, purchase, datetime, commission,
		    commission_currency, currency, isin, asset_class, raw_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, nullable(t.Ticker), t.Quantity, t.Purchase, nullable(t.DateTime), t.Commission,
		nullable(t.CommissionCurrency), nullable(t.Currency), nullable(t.ISIN), nullable(t.AssetClass), string(rawJSON))
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

// MinTradeDate returns the earliest trade datetime for a ticker, or "" when
// the ticker was never traded.
func MinTradeDate(db *sql.DB, ticker string) (string, error) {
	var min sql.NullString
	err := db.QueryRow("SELECT MIN(datetime) FROM trades WHERE ticker = ?", ticker).Scan(&min)
	if err != nil {
		return "", err
	}
	return min.String, nil
}

// DistinctCurrencies returns every currency referenced by trades, transfers or
// dividends, uppercased. Used to decide which FX pairs need syncing.
func DistinctCurrencies(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`
		SELECT DISTINCT UPPER(currency) FROM trades WHERE currency IS NOT NULL AND currency != ''
		UNION
		SELECT DISTINCT UPPER(currency) FROM transfers WHERE currency IS NOT NULL AND currency != ''
		UNION
		SELECT DISTINCT UPPER(currency) FROM dividends WHERE currency IS NOT NULL AND currency != ''`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var currencies []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		currencies = append(currencies, c)
	}
	return currencies, rows.Err()
}

// MinCurrencyDate returns the earliest trade or transfer datetime in the given
// currency, the natural start for an FX rate backfill.
func MinCurrencyDate(db *sql.DB, currency string) (string, error) {
	var transferMin, tradeMin sql.NullString
	if err := db.QueryRow("SELECT MIN(datetime) FROM transfers WHERE currency = ?", currency).Scan(&transferMin); err != nil {
		return "", err
	}
	if err := db.QueryRow("SELECT MIN(datetime) FROM trades WHERE currency = ?", currency).Scan(&tradeMin); err != nil {
		return "", err
	}
	switch {
	case transferMin.Valid && tradeMin.Valid:
		if transferMin.String < tradeMin.String {
			return transferMin.String, nil
		}
		return tradeMin.String, nil
	case transferMin.Valid:
		return transferMin.String, nil
	case tradeMin.Valid:
		return tradeMin.String, nil
	}
	return "", nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
