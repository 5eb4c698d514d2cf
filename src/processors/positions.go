// backend/src/processors/positions.go
package processors

import (
	"strings"

	"github.com/username/cartera/backend/src/models"
)

// TradeEvent is one position change on a calendar day, derived from a stored trade.
type TradeEvent struct {
	Date     string
	Quantity float64
	Currency string
	Price    float64
}

// PriceSource answers per-ticker price history lookups against the store.
type PriceSource interface {
	// PriceHistory returns all price points for the ticker in ascending
	// date order.
	PriceHistory(ticker string) ([]models.PricePoint, error)
}

// CollectTradesAndCash walks trades in date order and produces the three
// position inputs: trade events grouped by ticker, each ticker's currency
// (first non-empty one observed), and the trade-settlement cash deltas by
// (day, currency): every trade moves -quantity*price of cash on its day.
func CollectTradesAndCash(trades []models.Trade) (map[string][]TradeEvent, map[string]string, map[string]map[string]float64) {
	grouped := make(map[string][]TradeEvent)
	tickerCurrency := make(map[string]string)
	cashDeltas := make(map[string]map[string]float64)

	for _, trade := range trades {
		if trade.Ticker == "" {
			continue
		}
		day, ok := dayOf(trade.DateTime)
		if !ok {
			continue
		}
		currency := strings.ToUpper(trade.Currency)
		grouped[trade.Ticker] = append(grouped[trade.Ticker], TradeEvent{
			Date:     day,
			Quantity: trade.Quantity,
			Currency: currency,
			Price:    trade.Purchase,
		})
		if cashDeltas[day] == nil {
			cashDeltas[day] = make(map[string]float64)
		}
		cashDeltas[day][currency] -= trade.Quantity * trade.Purchase
		if _, seen := tickerCurrency[trade.Ticker]; !seen && currency != "" {
			tickerCurrency[trade.Ticker] = currency
		}
	}
	return grouped, tickerCurrency, cashDeltas
}

// BuildValueByDate reconstructs each ticker's held quantity as of every known
// price date and accumulates the base-currency position value per day across
// tickers. Days where the accumulated quantity is exactly zero contribute no
// entry at all, so a later forward-fill is not clobbered with zeros. A traded
// ticker with no price history records a single missing-price gap anchored at
// its first trade date and is left out entirely.
func BuildValueByDate(prices PriceSource, trades map[string][]TradeEvent, tickerCurrency map[string]string, baseCurrency string, resolver *RateResolver, missing *MissingData) (map[string]float64, error) {
	valueByDate := make(map[string]float64)
	for ticker, events := range trades {
		history, err := prices.PriceHistory(ticker)
		if err != nil {
			return nil, err
		}
		if len(history) == 0 {
			if len(events) > 0 {
				missing.AddPrice(events[0].Date, ticker)
			}
			continue
		}
		currency := tickerCurrency[ticker]
		if currency == "" {
			currency = baseCurrency
		}
		idx := 0
		qty := 0.0
		for _, point := range history {
			if _, ok := dayOf(point.Date); !ok {
				continue
			}
			for idx < len(events) && events[idx].Date <= point.Date {
				qty += events[idx].Quantity
				idx++
			}
			if qty == 0 {
				continue
			}
			converted, ok := resolver.ConvertLenient(qty*point.Close, currency, baseCurrency, point.Date, missing)
			if !ok {
				continue
			}
			valueByDate[point.Date] += converted
		}
	}
	return valueByDate, nil
}
