// backend/src/services/cash_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/cartera/backend/src/models"
)

func TestTradeCashFlow(t *testing.T) {
	tests := []struct {
		name  string
		trade models.Trade
		want  float64
	}{
		{
			"buy drains cash and commission",
			models.Trade{Quantity: 10, Purchase: 100, Commission: -2, Currency: "USD", CommissionCurrency: "USD"},
			-998, // -(10*100) - (-2)
		},
		{
			"sell adds cash",
			models.Trade{Quantity: -5, Purchase: 110, Currency: "USD"},
			550,
		},
		{
			"foreign commission is not folded",
			models.Trade{Quantity: 10, Purchase: 100, Commission: -2, Currency: "USD", CommissionCurrency: "EUR"},
			-1000,
		},
		{
			"blank commission currency follows trade currency",
			models.Trade{Quantity: 1, Purchase: 50, Commission: -1, Currency: "EUR"},
			-49,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, tradeCashFlow(tc.trade), 1e-9)
		})
	}
}

func TestBuildCashSeriesDaily(t *testing.T) {
	flows := []cashFlow{
		{currency: "usd", datetime: "2024-01-05T10:00:00Z", amount: 1000},
		{currency: "USD", datetime: "2024-01-05T16:00:00Z", amount: -200},
		{currency: "USD", datetime: "2024-01-08", amount: 300},
		{currency: "EUR", datetime: "2024-01-06", amount: 500},
		{currency: "USD", datetime: "broken", amount: 999},
	}
	series := buildCashSeries(flows, false, "", "")

	require.Len(t, series, 2)
	usd := series["USD"]
	require.Len(t, usd, 2)
	assert.Equal(t, models.CashSeriesPoint{Date: "2024-01-05", Amount: 800, Cumulative: 800}, usd[0])
	assert.Equal(t, models.CashSeriesPoint{Date: "2024-01-08", Amount: 300, Cumulative: 1100}, usd[1])

	eur := series["EUR"]
	require.Len(t, eur, 1)
	assert.Equal(t, 500.0, eur[0].Cumulative)
}

func TestBuildCashSeriesMonthlyBucketsAtMonthStart(t *testing.T) {
	flows := []cashFlow{
		{currency: "USD", datetime: "2024-01-05", amount: 1000},
		{currency: "USD", datetime: "2024-01-20", amount: 500},
		{currency: "USD", datetime: "2024-02-03", amount: 250},
	}
	series := buildCashSeries(flows, true, "", "")

	usd := series["USD"]
	require.Len(t, usd, 2)
	assert.Equal(t, "2024-01-01", usd[0].Date)
	assert.Equal(t, 1500.0, usd[0].Amount)
	assert.Equal(t, "2024-02-01", usd[1].Date)
	assert.Equal(t, 1750.0, usd[1].Cumulative)
}

func TestBuildCashSeriesBounds(t *testing.T) {
	flows := []cashFlow{
		{currency: "USD", datetime: "2024-01-05", amount: 100},
		{currency: "USD", datetime: "2024-02-05", amount: 200},
		{currency: "USD", datetime: "2024-03-05", amount: 400},
	}
	series := buildCashSeries(flows, false, "2024-02-01", "2024-02-28")

	usd := series["USD"]
	require.Len(t, usd, 1)
	assert.Equal(t, "2024-02-05", usd[0].Date)
	assert.Equal(t, 200.0, usd[0].Cumulative, "cumulative starts inside the window")
}

func TestBuildCashSeriesBlankCurrency(t *testing.T) {
	flows := []cashFlow{{currency: "", datetime: "2024-01-05", amount: 10}}
	series := buildCashSeries(flows, false, "", "")
	require.Contains(t, series, "N/A")
}

func TestParseCashInterval(t *testing.T) {
	monthly, err := parseCashInterval("")
	require.NoError(t, err)
	assert.False(t, monthly)

	monthly, err = parseCashInterval("Month")
	require.NoError(t, err)
	assert.True(t, monthly)

	_, err = parseCashInterval("week")
	assert.ErrorIs(t, err, ErrInvalidCashInterval)
}
