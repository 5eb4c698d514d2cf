// backend/src/services/price_service.go
package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/cartera/backend/src/logger"
	"github.com/username/cartera/backend/src/model"
	"github.com/username/cartera/backend/src/models"
)

// aliasSuffixes are exchange suffixes tried when the bare symbol has no
// history on Yahoo (European and LatAm listings mostly).
var aliasSuffixes = []string{"", ".SW", ".SA", ".MX", ".BR", ".TW", ".TO", ".L"}

type priceServiceImpl struct {
	db         *sql.DB
	yahoo      *yahooClient
	recentSync *cache.Cache
	pace       time.Duration
}

func NewPriceService(db *sql.DB, timeout, pace time.Duration) PriceService {
	return &priceServiceImpl{
		db:         db,
		yahoo:      newYahooClient(timeout),
		recentSync: cache.New(10*time.Minute, 30*time.Minute),
		pace:       pace,
	}
}

func normalizeTicker(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

// fetchHistoryWithAliases tries the bare symbol first and then the known
// exchange suffixes, returning the first non-empty history.
func (s *priceServiceImpl) fetchHistoryWithAliases(ticker string, start, end time.Time) []dailyClose {
	for _, suffix := range aliasSuffixes {
		alias := ticker + suffix
		rows, _, err := s.yahoo.fetchDailyHistory(alias, start, end)
		if err != nil {
			logger.L.Warn("Failed to download price history", "alias", alias, "error", err)
			continue
		}
		if len(rows) == 0 {
			logger.L.Info("Empty price history", "alias", alias)
			continue
		}
		logger.L.Info("Downloaded price history", "ticker", ticker, "alias", alias, "rows", len(rows))
		return rows
	}
	logger.L.Warn("No price history found on any alias", "ticker", ticker)
	return nil
}

// syncSingleTicker refreshes one ticker's stored history. The window starts at
// the first trade date; incremental runs resume from the last stored entry,
// re-fetching it when it was provisional, with a 3-day overlap to pick up late
// corrections. Today's close is stored as provisional.
func (s *priceServiceImpl) syncSingleTicker(ticker string) (int, error) {
	start, err := model.MinTradeDate(s.db, ticker)
	if err != nil {
		return 0, err
	}
	if start == "" {
		return 0, nil
	}
	startDate, err := time.Parse("2006-01-02", start)
	if err != nil {
		return 0, nil
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	fetchFrom := startDate
	lastDate, provisional, err := model.LastPriceEntry(s.db, ticker)
	if err != nil {
		return 0, err
	}
	if lastDate != "" {
		last, perr := time.Parse("2006-01-02", lastDate)
		if perr != nil {
			last = today
		}
		if provisional {
			fetchFrom = last
		} else {
			fetchFrom = last.AddDate(0, 0, 1)
		}
	}
	if fetchFrom.After(today) {
		return 0, nil
	}
	if fetchFrom.After(startDate) {
		if overlap := fetchFrom.AddDate(0, 0, -3); overlap.After(startDate) {
			fetchFrom = overlap
		} else {
			fetchFrom = startDate
		}
	}

	logger.L.Info("Syncing prices", "ticker", ticker,
		"from", fetchFrom.Format("2006-01-02"), "to", today.Format("2006-01-02"))
	rows := s.fetchHistoryWithAliases(ticker, fetchFrom, today)
	if len(rows) == 0 {
		return 0, nil
	}

	todayStr := today.Format("2006-01-02")
	inserted := 0
	for _, row := range rows {
		if err := model.UpsertPrice(s.db, models.PricePoint{
			Ticker:      ticker,
			Date:        row.Date,
			Close:       row.Close,
			Provisional: row.Date >= todayStr,
		}); err != nil {
			return inserted, fmt.Errorf("failed to store price for %s on %s: %w", ticker, row.Date, err)
		}
		inserted++
	}
	return inserted, nil
}

func (s *priceServiceImpl) SyncPrices(tickers []string) (map[string]int, error) {
	var normalized []string
	seen := make(map[string]bool)
	for _, raw := range tickers {
		ticker := normalizeTicker(raw)
		if ticker == "" || seen[ticker] {
			continue
		}
		seen[ticker] = true
		normalized = append(normalized, ticker)
	}
	if len(normalized) == 0 {
		return nil, ErrNoTickers
	}

	summary := make(map[string]int, len(normalized))
	for i, ticker := range normalized {
		if _, found := s.recentSync.Get(ticker); found {
			summary[ticker] = 0
			continue
		}
		count, err := s.syncSingleTicker(ticker)
		if err != nil {
			logger.L.Error("Price sync failed", "ticker", ticker, "error", err)
			summary[ticker] = 0
			continue
		}
		summary[ticker] = count
		s.recentSync.Set(ticker, true, cache.DefaultExpiration)
		if i < len(normalized)-1 {
			time.Sleep(s.pace)
		}
	}
	logger.L.Info("Price sync summary", "summary", summary)
	return summary, nil
}

func (s *priceServiceImpl) LatestPrices(tickers []string) (map[string]models.PricePoint, error) {
	out := make(map[string]models.PricePoint)
	for _, raw := range tickers {
		ticker := normalizeTicker(raw)
		if ticker == "" {
			continue
		}
		if _, done := out[ticker]; done {
			continue
		}
		price, ok, err := model.LatestPrice(s.db, ticker)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out[ticker] = price
	}
	return out, nil
}

func (s *priceServiceImpl) PriceSeries(ticker string) ([]models.PricePoint, error) {
	ticker = normalizeTicker(ticker)
	if ticker == "" {
		return []models.PricePoint{}, nil
	}
	series, err := model.GetPriceHistory(s.db, ticker)
	if err != nil {
		return nil, err
	}
	if series == nil {
		series = []models.PricePoint{}
	}
	return series, nil
}
