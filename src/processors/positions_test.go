// backend/src/processors/positions_test.go
package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/cartera/backend/src/models"
)

type fakePriceSource struct {
	histories map[string][]models.PricePoint
}

func (f *fakePriceSource) PriceHistory(ticker string) ([]models.PricePoint, error) {
	return f.histories[ticker], nil
}

func TestCollectTradesAndCash(t *testing.T) {
	trades := []models.Trade{
		{Ticker: "AAPL", Quantity: 10, Purchase: 100, DateTime: "2024-01-10T14:30:00Z", Currency: "usd"},
		{Ticker: "AAPL", Quantity: -4, Purchase: 110, DateTime: "2024-02-01 09:00:00", Currency: "USD"},
		{Ticker: "SAN", Quantity: 20, Purchase: 4, DateTime: "2024-01-10", Currency: "EUR"},
		{Ticker: "", Quantity: 5, Purchase: 1, DateTime: "2024-01-10", Currency: "USD"},
		{Ticker: "BAD", Quantity: 5, Purchase: 1, DateTime: "not-a-date", Currency: "USD"},
	}

	events, tickerCurrency, cashDeltas := CollectTradesAndCash(trades)

	require.Len(t, events["AAPL"], 2)
	assert.Equal(t, "2024-01-10", events["AAPL"][0].Date)
	assert.Equal(t, "2024-02-01", events["AAPL"][1].Date)
	require.Len(t, events["SAN"], 1)
	assert.NotContains(t, events, "")
	assert.NotContains(t, events, "BAD")

	assert.Equal(t, "USD", tickerCurrency["AAPL"])
	assert.Equal(t, "EUR", tickerCurrency["SAN"])

	// Buys drain cash, sells add it back.
	assert.InDelta(t, -1000.0, cashDeltas["2024-01-10"]["USD"], 1e-9)
	assert.InDelta(t, -80.0, cashDeltas["2024-01-10"]["EUR"], 1e-9)
	assert.InDelta(t, 440.0, cashDeltas["2024-02-01"]["USD"], 1e-9)
}

func TestBuildValueByDateReplaysQuantity(t *testing.T) {
	events := map[string][]TradeEvent{
		"AAPL": {
			{Date: "2024-01-10", Quantity: 10, Currency: "USD", Price: 100},
			{Date: "2024-01-20", Quantity: -10, Currency: "USD", Price: 110},
		},
	}
	prices := &fakePriceSource{histories: map[string][]models.PricePoint{
		"AAPL": {
			{Ticker: "AAPL", Date: "2024-01-05", Close: 95},
			{Ticker: "AAPL", Date: "2024-01-12", Close: 105},
			{Ticker: "AAPL", Date: "2024-01-20", Close: 110},
			{Ticker: "AAPL", Date: "2024-01-25", Close: 120},
		},
	}}
	resolver := NewRateResolver(&fakeFxSource{})
	missing := NewMissingData()

	valueByDate, err := BuildValueByDate(prices, events, map[string]string{"AAPL": "USD"}, "USD", resolver, missing)
	require.NoError(t, err)

	// Before the first trade there is no position, after the full sale
	// the zero quantity contributes no entry at all.
	assert.NotContains(t, valueByDate, "2024-01-05")
	assert.InDelta(t, 1050.0, valueByDate["2024-01-12"], 1e-9)
	assert.NotContains(t, valueByDate, "2024-01-20")
	assert.NotContains(t, valueByDate, "2024-01-25")
	assert.False(t, missing.HasAny())
}

func TestBuildValueByDateConvertsToBase(t *testing.T) {
	events := map[string][]TradeEvent{
		"SAN": {{Date: "2024-01-10", Quantity: 100, Currency: "EUR", Price: 4}},
	}
	prices := &fakePriceSource{histories: map[string][]models.PricePoint{
		"SAN": {{Ticker: "SAN", Date: "2024-01-15", Close: 4.5}},
	}}
	source := &fakeFxSource{rows: []fxRow{{"USD", "EUR", "2024-01-01", 1.1}}}
	missing := NewMissingData()

	valueByDate, err := BuildValueByDate(prices, events, map[string]string{"SAN": "EUR"}, "USD", NewRateResolver(source), missing)
	require.NoError(t, err)
	assert.InDelta(t, 495.0, valueByDate["2024-01-15"], 1e-9)
}

func TestBuildValueByDateMissingHistory(t *testing.T) {
	events := map[string][]TradeEvent{
		"NVDA": {
			{Date: "2024-02-05", Quantity: 3, Currency: "USD", Price: 600},
			{Date: "2024-03-01", Quantity: 2, Currency: "USD", Price: 650},
		},
	}
	prices := &fakePriceSource{histories: map[string][]models.PricePoint{}}
	missing := NewMissingData()

	valueByDate, err := BuildValueByDate(prices, events, map[string]string{"NVDA": "USD"}, "USD", NewRateResolver(&fakeFxSource{}), missing)
	require.NoError(t, err)
	assert.Empty(t, valueByDate)

	entries := missing.PriceEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, "NVDA", entries[0].Ticker)
	assert.Equal(t, "2024-02-05", entries[0].Date, "gap is anchored at the first trade date")
}

func TestBuildValueByDateMissingFxSkipsDay(t *testing.T) {
	events := map[string][]TradeEvent{
		"SAN": {{Date: "2024-01-10", Quantity: 100, Currency: "EUR", Price: 4}},
	}
	prices := &fakePriceSource{histories: map[string][]models.PricePoint{
		"SAN": {{Ticker: "SAN", Date: "2024-01-15", Close: 4.5}},
	}}
	missing := NewMissingData()

	valueByDate, err := BuildValueByDate(prices, events, map[string]string{"SAN": "EUR"}, "USD", NewRateResolver(&fakeFxSource{}), missing)
	require.NoError(t, err)
	assert.NotContains(t, valueByDate, "2024-01-15")

	fx := missing.FxEntries()
	require.Len(t, fx, 1)
	assert.Equal(t, "EUR", fx[0].QuoteCurrency)
}
