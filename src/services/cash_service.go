// backend/src/services/cash_service.go
package services

import (
	"database/sql"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/username/cartera/backend/src/model"
	"github.com/username/cartera/backend/src/models"
)

type cashServiceImpl struct {
	db *sql.DB
}

func NewCashService(db *sql.DB) CashService {
	return &cashServiceImpl{db: db}
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// tradeCashFlow is the settlement delta of one stock trade: buys are negative,
// sells positive, commission folded in when billed in the trade currency.
func tradeCashFlow(t models.Trade) float64 {
	flow := -(t.Quantity * t.Purchase)
	commCurrency := strings.ToUpper(t.CommissionCurrency)
	if commCurrency == "" || commCurrency == strings.ToUpper(t.Currency) {
		flow -= t.Commission
	}
	return flow
}

func (s *cashServiceImpl) Balance() ([]models.CurrencyBalance, error) {
	totals, err := model.SumTransfersByCurrency(s.db)
	if err != nil {
		return nil, err
	}

	dividendTotals, err := model.SumDividendsByCurrency(s.db)
	if err != nil {
		return nil, err
	}
	for currency, total := range dividendTotals {
		totals[currency] += total
	}

	trades, err := model.GetStockTrades(s.db)
	if err != nil {
		return nil, err
	}
	for _, t := range trades {
		currency := strings.ToUpper(t.Currency)
		if currency == "" {
			continue
		}
		totals[currency] += tradeCashFlow(t)
	}

	currencies := make([]string, 0, len(totals))
	for currency := range totals {
		currencies = append(currencies, currency)
	}
	sort.Strings(currencies)

	balances := make([]models.CurrencyBalance, 0, len(currencies))
	for _, currency := range currencies {
		balances = append(balances, models.CurrencyBalance{
			Currency: currency,
			Balance:  round4(totals[currency]),
		})
	}
	return balances, nil
}

// cashFlow is one dated cash movement in its own currency.
type cashFlow struct {
	currency string
	datetime string
	amount   float64
}

// bucketDay maps a day to its series key: the day itself, or the first day of
// its month for the monthly view.
func bucketDay(day string, monthly bool) string {
	if !monthly {
		return day
	}
	d, err := time.Parse("2006-01-02", day)
	if err != nil {
		return day
	}
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}

// buildCashSeries groups flows per currency and bucket and attaches a running
// cumulative per currency. Flows outside [from, to] are skipped.
func buildCashSeries(flows []cashFlow, monthly bool, from, to string) map[string][]models.CashSeriesPoint {
	perCurrency := make(map[string]map[string]float64)
	for _, f := range flows {
		if len(f.datetime) < 10 {
			continue
		}
		day := f.datetime[:10]
		if _, err := time.Parse("2006-01-02", day); err != nil {
			continue
		}
		if from != "" && day < from {
			continue
		}
		if to != "" && day > to {
			continue
		}
		currency := strings.ToUpper(f.currency)
		if currency == "" {
			currency = "N/A"
		}
		byDate, ok := perCurrency[currency]
		if !ok {
			byDate = make(map[string]float64)
			perCurrency[currency] = byDate
		}
		byDate[bucketDay(day, monthly)] += f.amount
	}

	result := make(map[string][]models.CashSeriesPoint, len(perCurrency))
	for currency, byDate := range perCurrency {
		days := make([]string, 0, len(byDate))
		for day := range byDate {
			days = append(days, day)
		}
		sort.Strings(days)

		cumulative := 0.0
		points := make([]models.CashSeriesPoint, 0, len(days))
		for _, day := range days {
			cumulative += byDate[day]
			points = append(points, models.CashSeriesPoint{
				Date:       day,
				Amount:     round4(byDate[day]),
				Cumulative: round4(cumulative),
			})
		}
		result[currency] = points
	}
	return result
}

func parseCashInterval(interval string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(interval)) {
	case "", "day":
		return false, nil
	case "month":
		return true, nil
	}
	return false, ErrInvalidCashInterval
}

func (s *cashServiceImpl) TransfersSeries(interval, from, to string) (map[string][]models.CashSeriesPoint, error) {
	monthly, err := parseCashInterval(interval)
	if err != nil {
		return nil, err
	}

	transfers, err := model.GetTransfersOrdered(s.db)
	if err != nil {
		return nil, err
	}
	flows := make([]cashFlow, 0, len(transfers))
	for _, t := range transfers {
		flows = append(flows, cashFlow{currency: t.Currency, datetime: t.DateTime, amount: t.Amount})
	}
	return buildCashSeries(flows, monthly, from, to), nil
}

func (s *cashServiceImpl) CashSeries(interval, from, to string) (map[string][]models.CashSeriesPoint, error) {
	monthly, err := parseCashInterval(interval)
	if err != nil {
		return nil, err
	}

	transfers, err := model.GetTransfersOrdered(s.db)
	if err != nil {
		return nil, err
	}
	dividends, err := model.GetDividendsOrdered(s.db)
	if err != nil {
		return nil, err
	}
	trades, err := model.GetStockTrades(s.db)
	if err != nil {
		return nil, err
	}

	var flows []cashFlow
	for _, t := range transfers {
		flows = append(flows, cashFlow{currency: t.Currency, datetime: t.DateTime, amount: t.Amount})
	}
	for _, d := range dividends {
		flows = append(flows, cashFlow{currency: d.Currency, datetime: d.DateTime, amount: d.Amount})
	}
	for _, t := range trades {
		if t.Currency == "" {
			continue
		}
		flows = append(flows, cashFlow{currency: t.Currency, datetime: t.DateTime, amount: tradeCashFlow(t)})
	}
	return buildCashSeries(flows, monthly, from, to), nil
}

func (s *cashServiceImpl) NetTransfers(from, to string) ([]models.CurrencyTotal, error) {
	totals, err := model.SumExternalTransfersByCurrency(s.db, from, to)
	if err != nil {
		return nil, err
	}
	currencies := make([]string, 0, len(totals))
	for currency := range totals {
		currencies = append(currencies, currency)
	}
	sort.Strings(currencies)

	out := make([]models.CurrencyTotal, 0, len(currencies))
	for _, currency := range currencies {
		out = append(out, models.CurrencyTotal{Currency: currency, Total: totals[currency]})
	}
	return out, nil
}
