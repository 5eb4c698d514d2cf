// backend/src/services/sync_service.go
package services

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/username/cartera/backend/src/logger"
	"github.com/username/cartera/backend/src/processors"
)

const (
	taskKindPrice = "price"
	taskKindFx    = "fx"
)

type syncTask struct {
	key    string
	kind   string
	ticker string
	base   string
	quote  string
}

// SyncService runs market-data refreshes on a single background worker.
// Gaps are de-duplicated per (kind, date, identity) so repeated series
// requests over the same holes enqueue nothing new while the task is queued
// or running; once the worker has handled a task its key is forgotten, so a
// gap the provider failed to fill is re-enqueued by the next request that
// still reports it. Enqueueing never blocks the caller: when the queue is
// full the task is dropped and reported again later.
type SyncService struct {
	prices  PriceService
	fx      FxService
	queue   chan syncTask
	limiter *rate.Limiter

	mu   sync.Mutex
	seen map[string]struct{}
}

func NewSyncService(prices PriceService, fx FxService, queueSize int, perSecond float64) *SyncService {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &SyncService{
		prices:  prices,
		fx:      fx,
		queue:   make(chan syncTask, queueSize),
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
		seen:    make(map[string]struct{}),
	}
}

// Start launches the worker goroutine. Call once at boot.
func (s *SyncService) Start() {
	go s.run()
}

func (s *SyncService) run() {
	for task := range s.queue {
		if err := s.limiter.Wait(context.Background()); err != nil {
			return
		}
		s.process(task)
		s.forget(task.key)
	}
}

func (s *SyncService) forget(key string) {
	s.mu.Lock()
	delete(s.seen, key)
	s.mu.Unlock()
}

func (s *SyncService) process(task syncTask) {
	switch task.kind {
	case taskKindPrice:
		summary, err := s.prices.SyncPrices([]string{task.ticker})
		if err != nil {
			logger.L.Warn("Background price sync failed", "ticker", task.ticker, "error", err)
			return
		}
		logger.L.Info("Background price sync done", "ticker", task.ticker, "summary", summary)
	case taskKindFx:
		summary, err := s.fx.SyncRates(task.base, []string{task.quote})
		if err != nil {
			logger.L.Warn("Background fx sync failed", "base", task.base, "quote", task.quote, "error", err)
			return
		}
		logger.L.Info("Background fx sync done", "base", task.base, "quote", task.quote, "summary", summary)
	}
}

func (s *SyncService) enqueue(key string, task syncTask) bool {
	s.mu.Lock()
	if _, dup := s.seen[key]; dup {
		s.mu.Unlock()
		return false
	}
	s.seen[key] = struct{}{}
	s.mu.Unlock()

	select {
	case s.queue <- task:
		return true
	default:
		s.forget(key)
		logger.L.Warn("Sync queue full, dropping task", "kind", task.kind, "key", key)
		return false
	}
}

// Schedule turns a missing-data report into queued sync tasks. Returns true
// when at least one new task was accepted.
func (s *SyncService) Schedule(missing *processors.MissingData) bool {
	if missing == nil {
		return false
	}
	scheduled := false
	for _, e := range missing.PriceEntries() {
		key := taskKindPrice + "|" + e.Date + "|" + e.Ticker
		if s.enqueue(key, syncTask{key: key, kind: taskKindPrice, ticker: e.Ticker}) {
			scheduled = true
		}
	}
	for _, e := range missing.FxEntries() {
		key := taskKindFx + "|" + e.Date + "|" + e.BaseCurrency + "|" + e.QuoteCurrency
		if s.enqueue(key, syncTask{key: key, kind: taskKindFx, base: e.BaseCurrency, quote: e.QuoteCurrency}) {
			scheduled = true
		}
	}
	return scheduled
}
