// backend/src/services/import_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/cartera/backend/src/models"
)

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		want   string
		wantOK bool
	}{
		{"rfc3339", "2024-01-10T14:30:00Z", "2024-01-10T14:30:00Z", true},
		{"iso with space", "2024-01-10 14:30:00", "2024-01-10T14:30:00Z", true},
		{"plain date", "2024-01-10", "2024-01-10T00:00:00Z", true},
		{"semicolon separator", "2024-01-10;14:30:00", "2024-01-10T14:30:00Z", true},
		{"dd/mm/yyyy", "10/01/2024", "2024-01-10T00:00:00Z", true},
		{"dd/mm/yyyy with time", "10/01/2024 14:30:05", "2024-01-10T14:30:05Z", true},
		{"unix seconds", float64(1704931200), "2024-01-11T00:00:00Z", true},
		{"empty", "", "", false},
		{"nil", nil, "", false},
		{"garbage", "soon", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := parseDateTime(tc.input)
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestParseFloat(t *testing.T) {
	got, ok := parseFloat("1234.5")
	assert.True(t, ok)
	assert.Equal(t, 1234.5, got)

	got, ok = parseFloat("12,5")
	assert.True(t, ok)
	assert.Equal(t, 12.5, got, "comma decimal separator is accepted")

	got, ok = parseFloat(float64(-3))
	assert.True(t, ok)
	assert.Equal(t, -3.0, got)

	_, ok = parseFloat(nil)
	assert.False(t, ok)
	_, ok = parseFloat("")
	assert.False(t, ok)
	_, ok = parseFloat("n/a")
	assert.False(t, ok)
}

func TestBuildTransfer(t *testing.T) {
	rec, ok := buildTransfer(map[string]any{
		"TransactionID":   "tx-1",
		"CurrencyPrimary": "usd",
		"Date/Time":       "2024-01-10;14:30:00",
		"Amount":          "1000,50",
	})
	require.True(t, ok)
	assert.Equal(t, "tx-1", rec.TransactionID)
	assert.Equal(t, "USD", rec.Currency)
	assert.Equal(t, "2024-01-10T14:30:00Z", rec.DateTime)
	assert.Equal(t, 1000.50, rec.Amount)
	assert.Equal(t, models.OriginExternal, rec.Origin, "transfers default to external capital")

	rec, ok = buildTransfer(map[string]any{
		"ID":       "tx-2",
		"Currency": "EUR",
		"Date":     "2024-01-11",
		"Amount":   float64(-400),
		"Origin":   "internal",
	})
	require.True(t, ok)
	assert.Equal(t, models.OriginInternal, rec.Origin)

	// Required fields gate the row instead of failing the batch.
	for _, row := range []map[string]any{
		{"Currency": "USD", "Date": "2024-01-10", "Amount": "10"},
		{"TransactionID": "x", "Date": "2024-01-10", "Amount": "10"},
		{"TransactionID": "x", "Currency": "USD", "Amount": "10"},
		{"TransactionID": "x", "Currency": "USD", "Date": "2024-01-10"},
	} {
		_, ok := buildTransfer(row)
		assert.False(t, ok)
	}
}

func TestBuildTrade(t *testing.T) {
	rec, ok := buildTrade(map[string]any{
		"TradeID":            "t-1",
		"Ticker":             "aapl",
		"Quantity":           "10",
		"PurchasePrice":      "150,25",
		"DateTime":           "2024-01-10 14:30:00",
		"Commission":         "-1,5",
		"CommissionCurrency": "usd",
		"CurrencyPrimary":    "usd",
		"AssetClass":         "stk",
	})
	require.True(t, ok)
	assert.Equal(t, "t-1", rec.TradeID)
	assert.Equal(t, "AAPL", rec.Ticker)
	assert.Equal(t, 10.0, rec.Quantity)
	assert.Equal(t, 150.25, rec.Purchase)
	assert.Equal(t, "2024-01-10T14:30:00Z", rec.DateTime)
	assert.Equal(t, -1.5, rec.Commission)
	assert.Equal(t, "STK", rec.AssetClass)
}

func TestBuildTradeSyntheticID(t *testing.T) {
	rec, ok := buildTrade(map[string]any{
		"Ticker":        "MSFT",
		"Quantity":      "2",
		"PurchasePrice": "410.5",
		"Date":          "2024-01-10",
	})
	require.True(t, ok)
	assert.Equal(t, "MSFT|2|410.5", rec.TradeID)

	// Without an identity and without the fallback components, skip.
	_, ok = buildTrade(map[string]any{"Ticker": "MSFT", "Quantity": "2"})
	assert.False(t, ok)
}

func TestBuildTradeKeepsISODateTimeVerbatim(t *testing.T) {
	rec, ok := buildTrade(map[string]any{
		"TradeID":  "t-2",
		"Ticker":   "AAPL",
		"DateTime": "2024-01-10T14:30:00+01:00",
	})
	require.True(t, ok)
	assert.Equal(t, "2024-01-10T14:30:00+01:00", rec.DateTime)
}

func TestBuildDividend(t *testing.T) {
	rec, ok := buildDividend(map[string]any{
		"ActionID":        "d-1",
		"Ticker":          "o",
		"CurrencyPrimary": "USD",
		"PaymentDate":     "2024-01-15",
		"GrossAmount":     "10",
		"Tax":             "-1,5",
	})
	require.True(t, ok)
	assert.Equal(t, "d-1", rec.ActionID)
	assert.Equal(t, "O", rec.Ticker)
	// With no explicit amount, gross plus tax is the net payout.
	assert.InDelta(t, 8.5, rec.Amount, 1e-9)
	require.NotNil(t, rec.Gross)
	assert.Equal(t, 10.0, *rec.Gross)
	require.NotNil(t, rec.Tax)
	assert.Equal(t, -1.5, *rec.Tax)

	_, ok = buildDividend(map[string]any{
		"ActionID": "d-2",
		"Currency": "USD",
		"Date":     "2024-01-15",
	})
	assert.False(t, ok, "a dividend without any amount is skipped")
}
