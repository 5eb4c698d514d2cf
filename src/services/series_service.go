// backend/src/services/series_service.go
package services

import (
	"database/sql"
	"math"
	"sort"
	"strings"

	"github.com/username/cartera/backend/src/logger"
	"github.com/username/cartera/backend/src/model"
	"github.com/username/cartera/backend/src/models"
	"github.com/username/cartera/backend/src/processors"
)

// storeFxSource feeds the rate resolver from the fx_rates table.
type storeFxSource struct {
	db *sql.DB
}

func (s storeFxSource) RateAtOrBefore(base, quote, date string) (float64, bool, error) {
	return model.FxRateAtOrBefore(s.db, base, quote, date)
}

// storePriceSource feeds the position builder from the prices table.
type storePriceSource struct {
	db *sql.DB
}

func (s storePriceSource) PriceHistory(ticker string) ([]models.PricePoint, error) {
	return model.GetPriceHistory(s.db, ticker)
}

type seriesServiceImpl struct {
	db        *sql.DB
	scheduler SyncScheduler
}

func NewSeriesService(db *sql.DB, scheduler SyncScheduler) SeriesService {
	return &seriesServiceImpl{db: db, scheduler: scheduler}
}

func (s *seriesServiceImpl) ValueSeries(params SeriesParams) (*models.SeriesResult, error) {
	baseCurrency := strings.ToUpper(params.BaseCurrency)
	resolver := processors.NewRateResolver(storeFxSource{db: s.db})
	missing := processors.NewMissingData()

	trades, err := model.GetTradesOrdered(s.db)
	if err != nil {
		return nil, err
	}
	tradeEvents, tickerCurrency, cashDeltas := processors.CollectTradesAndCash(trades)

	valueByDate, err := processors.BuildValueByDate(storePriceSource{db: s.db}, tradeEvents, tickerCurrency, baseCurrency, resolver, missing)
	if err != nil {
		return nil, err
	}

	transfers, err := model.GetTransfersOrdered(s.db)
	if err != nil {
		return nil, err
	}
	transferByDate, cashBalances := processors.CollectTransfersAndCash(transfers, baseCurrency, cashDeltas, resolver, missing)

	buckets := processors.BuildBuckets(params.From, params.To, params.Interval, valueByDate, transferByDate, cashBalances)
	series := processors.BuildSeries(resolver, buckets, baseCurrency, missing)

	syncInProgress := missing.HasAny()
	if syncInProgress && s.scheduler != nil {
		if s.scheduler.Schedule(missing) {
			logger.L.Info("Scheduled background sync for missing market data",
				"missing_fx", len(missing.FxEntries()), "missing_prices", len(missing.PriceEntries()))
		}
	}

	if series == nil {
		series = []models.SeriesPoint{}
	}
	return &models.SeriesResult{
		BaseCurrency:   baseCurrency,
		Interval:       string(params.Interval),
		From:           params.From,
		To:             params.To,
		Series:         series,
		SyncInProgress: syncInProgress,
		MissingFx:      missing.FxEntries(),
		MissingPrices:  missing.PriceEntries(),
	}, nil
}

// convertAtLatestRate applies the most recent stored rate, failing hard when
// the pair has never been synced.
func (s *seriesServiceImpl) convertAtLatestRate(amount float64, fromCurrency, baseCurrency string) (float64, error) {
	if strings.EqualFold(fromCurrency, baseCurrency) {
		return amount, nil
	}
	rate, ok, err := model.LatestFxRate(s.db, strings.ToUpper(baseCurrency), strings.ToUpper(fromCurrency))
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, &processors.RateNotFoundError{From: strings.ToUpper(fromCurrency), To: strings.ToUpper(baseCurrency)}
	}
	return amount * rate, nil
}

func (s *seriesServiceImpl) CurrentValue(baseCurrency string) (*models.PortfolioValue, error) {
	baseCurrency = strings.ToUpper(baseCurrency)

	totals, err := model.SumTransfersByCurrency(s.db)
	if err != nil {
		return nil, err
	}
	currencies := make([]string, 0, len(totals))
	for currency := range totals {
		currencies = append(currencies, currency)
	}
	sort.Strings(currencies)

	cashBase := 0.0
	cashBreakdown := []models.CashBreakdown{}
	for _, currency := range currencies {
		converted, err := s.convertAtLatestRate(totals[currency], currency, baseCurrency)
		if err != nil {
			return nil, err
		}
		cashBase += converted
		cashBreakdown = append(cashBreakdown, models.CashBreakdown{
			Currency:   currency,
			Amount:     totals[currency],
			AmountBase: converted,
		})
	}

	trades, err := model.GetTradesOrdered(s.db)
	if err != nil {
		return nil, err
	}
	type positionInfo struct {
		qty      float64
		currency string
	}
	positions := make(map[string]*positionInfo)
	for _, t := range trades {
		if t.Ticker == "" {
			continue
		}
		info, ok := positions[t.Ticker]
		if !ok {
			info = &positionInfo{currency: strings.ToUpper(t.Currency)}
			positions[t.Ticker] = info
		}
		info.qty += t.Quantity
		if info.currency == "" && t.Currency != "" {
			info.currency = strings.ToUpper(t.Currency)
		}
	}
	var tickers []string
	for ticker, info := range positions {
		if math.Abs(info.qty) > 1e-9 {
			tickers = append(tickers, ticker)
		}
	}
	sort.Strings(tickers)

	positionsBase := 0.0
	positionsBreakdown := []models.PositionBreakdown{}
	for _, ticker := range tickers {
		info := positions[ticker]
		price, ok, err := model.LatestPrice(s.db, ticker)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		value := info.qty * price.Close
		currency := info.currency
		if currency == "" {
			currency = baseCurrency
		}
		converted, err := s.convertAtLatestRate(value, currency, baseCurrency)
		if err != nil {
			return nil, err
		}
		positionsBase += converted
		positionsBreakdown = append(positionsBreakdown, models.PositionBreakdown{
			Ticker:    ticker,
			Quantity:  info.qty,
			Price:     price.Close,
			Currency:  currency,
			Value:     value,
			ValueBase: converted,
		})
	}

	return &models.PortfolioValue{
		BaseCurrency:  baseCurrency,
		CashBase:      cashBase,
		PositionsBase: positionsBase,
		TotalBase:     cashBase + positionsBase,
		Cash:          cashBreakdown,
		Positions:     positionsBreakdown,
	}, nil
}
