// backend/src/services/import_service.go
package services

import (
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/username/cartera/backend/src/logger"
	"github.com/username/cartera/backend/src/model"
	"github.com/username/cartera/backend/src/models"
)

type importServiceImpl struct {
	db *sql.DB
}

func NewImportService(db *sql.DB) ImportService {
	return &importServiceImpl{db: db}
}

// firstValue returns the first non-blank value among the candidate keys.
// Broker exports disagree on header names, so every field is looked up
// through a candidate list.
func firstValue(row map[string]any, keys ...string) string {
	for _, key := range keys {
		if raw, ok := row[key]; ok && raw != nil {
			if text := strings.TrimSpace(fmt.Sprintf("%v", raw)); text != "" {
				return text
			}
		}
	}
	return ""
}

// parseFloat accepts numbers and strings, tolerating a comma decimal separator.
func parseFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	text := strings.ReplaceAll(strings.TrimSpace(fmt.Sprintf("%v", raw)), ",", ".")
	if text == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseDateTime normalizes export timestamps to RFC 3339 UTC. It accepts unix
// seconds, ISO layouts with or without time, the semicolon-joined
// "YYYYMMDD;HHMMSS" variant collapsed to a space, and DD/MM/YYYY.
func parseDateTime(raw any) (string, bool) {
	switch v := raw.(type) {
	case nil:
		return "", false
	case float64:
		return time.Unix(int64(v), 0).UTC().Format(time.RFC3339), true
	case int:
		return time.Unix(int64(v), 0).UTC().Format(time.RFC3339), true
	case int64:
		return time.Unix(v, 0).UTC().Format(time.RFC3339), true
	}
	clean := strings.TrimSpace(strings.ReplaceAll(fmt.Sprintf("%v", raw), ";", " "))
	if clean == "" {
		return "", false
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if dt, err := time.Parse(layout, clean); err == nil {
			return dt.UTC().Format(time.RFC3339), true
		}
	}
	// DD/MM/YYYY with an optional HH:MM:SS part.
	parts := strings.Fields(clean)
	dateTokens := strings.Split(parts[0], "/")
	if len(dateTokens) != 3 {
		return "", false
	}
	day, err1 := strconv.Atoi(dateTokens[0])
	month, err2 := strconv.Atoi(dateTokens[1])
	year, err3 := strconv.Atoi(dateTokens[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return "", false
	}
	hours, minutes, seconds := 0, 0, 0
	if len(parts) > 1 {
		timeTokens := strings.Split(parts[1], ":")
		if len(timeTokens) > 0 {
			hours, _ = strconv.Atoi(timeTokens[0])
		}
		if len(timeTokens) > 1 {
			minutes, _ = strconv.Atoi(timeTokens[1])
		}
		if len(timeTokens) > 2 {
			seconds, _ = strconv.Atoi(timeTokens[2])
		}
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	dt := time.Date(year, time.Month(month), day, hours, minutes, seconds, 0, time.UTC)
	return dt.Format(time.RFC3339), true
}

func formatID(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// buildTransfer validates one export row; a row without id, currency, date or
// amount is skipped rather than failing the batch.
func buildTransfer(row map[string]any) (models.Transfer, bool) {
	txID := firstValue(row, "TransactionID", "TransactionId", "ID", "Id")
	if txID == "" {
		return models.Transfer{}, false
	}
	currency := strings.ToUpper(firstValue(row, "CurrencyPrimary", "Currency"))
	if currency == "" {
		return models.Transfer{}, false
	}
	dt, ok := parseDateTime(rawValue(row, "Date/Time", "DateTime", "Date"))
	if !ok {
		return models.Transfer{}, false
	}
	amount, ok := parseFloat(rawValue(row, "Amount", "amount"))
	if !ok {
		return models.Transfer{}, false
	}
	origin := strings.ToLower(firstValue(row, "Origin", "origin"))
	if origin != models.OriginInternal {
		origin = models.OriginExternal
	}
	return models.Transfer{
		TransactionID: txID,
		Currency:      currency,
		DateTime:      dt,
		Amount:        amount,
		Origin:        origin,
		Kind:          strings.ToLower(firstValue(row, "Type", "Kind", "kind")),
	}, true
}

func buildTrade(row map[string]any) (models.Trade, bool) {
	tradeID := firstValue(row, "TradeID", "trade_id")
	ticker := strings.ToUpper(firstValue(row, "Ticker", "ticker"))
	qty, qtyOK := parseFloat(rawValue(row, "Quantity", "quantity"))
	price, priceOK := parseFloat(rawValue(row, "PurchasePrice", "purchase", "purchasePrice"))

	var dt string
	if raw := firstValue(row, "DateTime", "dateTime", "Date"); raw != "" {
		if strings.Contains(raw, "T") {
			dt = raw
		} else if parsed, ok := parseDateTime(raw); ok {
			dt = parsed
		}
	}
	commission, _ := parseFloat(rawValue(row, "Commission", "commission"))

	if tradeID == "" {
		if ticker == "" || !qtyOK || !priceOK {
			return models.Trade{}, false
		}
		tradeID = ticker + "|" + formatID(qty) + "|" + formatID(price)
	}
	return models.Trade{
		TradeID:            tradeID,
		Ticker:             ticker,
		Quantity:           qty,
		Purchase:           price,
		DateTime:           dt,
		Commission:         commission,
		CommissionCurrency: strings.ToUpper(firstValue(row, "CommissionCurrency", "commissionCurrency")),
		Currency:           strings.ToUpper(firstValue(row, "CurrencyPrimary", "currencyPrimary", "Currency")),
		ISIN:               strings.ToUpper(firstValue(row, "ISIN", "isin")),
		AssetClass:         strings.ToUpper(firstValue(row, "AssetClass", "assetClass")),
	}, true
}

func buildDividend(row map[string]any) (models.Dividend, bool) {
	actionID := firstValue(row, "ActionID", "ActionId", "ID", "Id", "action_id")
	if actionID == "" {
		return models.Dividend{}, false
	}
	currency := strings.ToUpper(firstValue(row, "CurrencyPrimary", "Currency", "currency"))
	if currency == "" {
		return models.Dividend{}, false
	}
	dt, ok := parseDateTime(rawValue(row, "Date/Time", "DateTime", "PaymentDate", "Payment Date", "Date", "datetime"))
	if !ok {
		return models.Dividend{}, false
	}
	var grossPtr, taxPtr *float64
	gross, grossOK := parseFloat(rawValue(row, "GrossAmount", "grossAmount", "gross"))
	if grossOK {
		grossPtr = &gross
	}
	tax, taxOK := parseFloat(rawValue(row, "Tax", "tax"))
	if taxOK {
		taxPtr = &tax
	}
	amount, amountOK := parseFloat(rawValue(row, "Amount", "amount"))
	if !amountOK {
		if !grossOK {
			return models.Dividend{}, false
		}
		amount = gross + tax
	}
	return models.Dividend{
		ActionID:      actionID,
		Ticker:        strings.ToUpper(firstValue(row, "Ticker", "Symbol", "Underlying", "Asset", "ticker")),
		Currency:      currency,
		DateTime:      dt,
		Amount:        amount,
		Gross:         grossPtr,
		Tax:           taxPtr,
		IssuerCountry: strings.ToUpper(firstValue(row, "IssuerCountryCode", "Country", "issuer_country")),
	}, true
}

// rawValue is firstValue without the string flattening, for fields whose
// numeric type matters to the parser.
func rawValue(row map[string]any, keys ...string) any {
	for _, key := range keys {
		if raw, ok := row[key]; ok && raw != nil {
			if text, isText := raw.(string); isText && strings.TrimSpace(text) == "" {
				continue
			}
			return raw
		}
	}
	return nil
}

func (s *importServiceImpl) ImportRows(kind, source string, rows []map[string]any) (*ImportSummary, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	switch kind {
	case "trades", "transfers", "dividends":
	default:
		return nil, ErrUnknownImportKind
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	batchID, err := model.CreateImportBatch(s.db, kind, source)
	if err != nil {
		return nil, err
	}
	logger.L.Info("Starting import", "kind", kind, "batch_id", batchID, "rows", len(rows))

	inserted := 0
	currencySet := make(map[string]struct{})
	for i, row := range rows {
		if err := model.InsertImportRow(s.db, batchID, i, row); err != nil {
			return nil, err
		}
		var (
			added    bool
			rowErr   error
			currency string
		)
		switch kind {
		case "transfers":
			if rec, ok := buildTransfer(row); ok {
				added, rowErr = model.InsertTransfer(s.db, rec, row)
				currency = rec.Currency
			}
		case "trades":
			if rec, ok := buildTrade(row); ok {
				added, rowErr = model.InsertTrade(s.db, rec, row)
				currency = rec.Currency
			}
		case "dividends":
			if rec, ok := buildDividend(row); ok {
				added, rowErr = model.InsertDividend(s.db, rec, row)
				currency = rec.Currency
			}
		}
		if rowErr != nil {
			return nil, rowErr
		}
		if added {
			inserted++
			if currency != "" {
				currencySet[currency] = struct{}{}
			}
		}
	}

	if err := model.FinishImportBatch(s.db, batchID, len(rows)); err != nil {
		return nil, err
	}

	currencies := make([]string, 0, len(currencySet))
	for currency := range currencySet {
		currencies = append(currencies, currency)
	}
	sort.Strings(currencies)

	logger.L.Info("Import finished", "kind", kind, "batch_id", batchID,
		"rows", len(rows), "inserted", inserted)
	return &ImportSummary{
		BatchID:    batchID,
		TotalRows:  len(rows),
		Inserted:   inserted,
		Currencies: currencies,
	}, nil
}
