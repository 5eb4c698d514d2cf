// backend/src/services/fx_service.go
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

type fxServiceImpl struct {
	db         *sql.DB
	yahoo      *yahooClient
	recentSync *cache.Cache
	pace       time.Duration
}

func NewFxService(db *sql.DB, timeout, pace time.Duration) FxService {
	return &fxServiceImpl{
		db:         db,
		yahoo:      newYahooClient(timeout),
		recentSync: cache.New(10*time.Minute, 30*time.Minute),
		pace:       pace,
	}
}

// syncPair downloads the daily BASEQUOTE=X history from the first date the
// quote currency appears in the books and upserts every close.
func (s *fxServiceImpl) syncPair(base, quote string) (int, error) {
	start, err := model.MinCurrencyDate(s.db, quote)
	if err != nil {
		return 0, err
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	startDate := today
	if start != "" {
		if parsed, perr := time.Parse("2006-01-02", start); perr == nil {
			startDate = parsed
		}
	}

	symbol := fmt.Sprintf("%s%s=X", base, quote)
	rows, _, err := s.yahoo.fetchDailyHistory(symbol, startDate, today)
	if err != nil {
		return 0, fmt.Errorf("failed to download fx history for %s: %w", symbol, err)
	}
	if len(rows) == 0 {
		logger.L.Info("Empty fx history", "symbol", symbol)
		return 0, nil
	}

	inserted := 0
	for _, row := range rows {
		if err := model.UpsertFxRate(s.db, models.FxRate{
			BaseCurrency:  base,
			QuoteCurrency: quote,
			Date:          row.Date,
			Rate:          row.Close,
		}); err != nil {
			return inserted, fmt.Errorf("failed to store rate %s/%s on %s: %w", base, quote, row.Date, err)
		}
		inserted++
	}
	return inserted, nil
}

func (s *fxServiceImpl) SyncRates(baseCurrency string, quotes []string) (map[string]int, error) {
	base := strings.ToUpper(strings.TrimSpace(baseCurrency))
	var normalized []string
	seen := make(map[string]bool)
	for _, raw := range quotes {
		quote := strings.ToUpper(strings.TrimSpace(raw))
		if quote == "" || quote == base || seen[quote] {
			continue
		}
		seen[quote] = true
		normalized = append(normalized, quote)
	}
	if len(normalized) == 0 {
		return nil, ErrNoCurrencies
	}

	summary := make(map[string]int, len(normalized))
	for i, quote := range normalized {
		pair := base + "/" + quote
		if _, found := s.recentSync.Get(pair); found {
			summary[pair] = 0
			continue
		}
		count, err := s.syncPair(base, quote)
		if err != nil {
			logger.L.Error("FX sync failed", "pair", pair, "error", err)
			summary[pair] = 0
			continue
		}
		summary[pair] = count
		s.recentSync.Set(pair, true, cache.DefaultExpiration)
		if i < len(normalized)-1 {
			time.Sleep(s.pace)
		}
	}
	logger.L.Info("FX sync summary", "summary", summary)
	return summary, nil
}
