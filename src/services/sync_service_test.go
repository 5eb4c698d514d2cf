// backend/src/services/sync_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/username/cartera/backend/src/models"
	"github.com/username/cartera/backend/src/processors"
)

type mockPriceService struct {
	mock.Mock
}

func (m *mockPriceService) SyncPrices(tickers []string) (map[string]int, error) {
	args := m.Called(tickers)
	summary, _ := args.Get(0).(map[string]int)
	return summary, args.Error(1)
}

func (m *mockPriceService) LatestPrices(tickers []string) (map[string]models.PricePoint, error) {
	args := m.Called(tickers)
	latest, _ := args.Get(0).(map[string]models.PricePoint)
	return latest, args.Error(1)
}

func (m *mockPriceService) PriceSeries(ticker string) ([]models.PricePoint, error) {
	args := m.Called(ticker)
	series, _ := args.Get(0).([]models.PricePoint)
	return series, args.Error(1)
}

type mockFxService struct {
	mock.Mock
}

func (m *mockFxService) SyncRates(baseCurrency string, quotes []string) (map[string]int, error) {
	args := m.Called(baseCurrency, quotes)
	summary, _ := args.Get(0).(map[string]int)
	return summary, args.Error(1)
}

func missingWithGaps() *processors.MissingData {
	missing := processors.NewMissingData()
	missing.AddPrice("2024-02-05", "NVDA")
	missing.AddFx("2024-01-05", "USD", "EUR")
	return missing
}

func TestScheduleIsIdempotentPerGap(t *testing.T) {
	svc := NewSyncService(&mockPriceService{}, &mockFxService{}, 16, 100)

	assert.True(t, svc.Schedule(missingWithGaps()))
	// The same report again enqueues nothing new.
	assert.False(t, svc.Schedule(missingWithGaps()))
	assert.Len(t, svc.queue, 2)
}

func TestScheduleNeverBlocksWhenQueueFull(t *testing.T) {
	svc := NewSyncService(&mockPriceService{}, &mockFxService{}, 1, 100)

	first := processors.NewMissingData()
	first.AddPrice("2024-02-05", "NVDA")
	require.True(t, svc.Schedule(first))

	// Queue is full now; the overflow gap is dropped, not blocked on, and
	// stays schedulable for a later request.
	second := processors.NewMissingData()
	second.AddPrice("2024-02-06", "AMD")
	assert.False(t, svc.Schedule(second))

	<-svc.queue
	assert.True(t, svc.Schedule(second), "a dropped gap must be retryable once there is room")
}

func TestScheduleRetriesGapAfterFailedSync(t *testing.T) {
	prices := &mockPriceService{}
	prices.On("SyncPrices", []string{"NVDA"}).Return(nil, assert.AnError)

	svc := NewSyncService(prices, &mockFxService{}, 16, 100)

	missing := processors.NewMissingData()
	missing.AddPrice("2024-02-05", "NVDA")
	require.True(t, svc.Schedule(missing))
	assert.False(t, svc.Schedule(missing))

	// The worker handles the task but the provider errors out; the gap must
	// be schedulable again once the next request still reports it.
	task := <-svc.queue
	svc.process(task)
	svc.forget(task.key)

	assert.True(t, svc.Schedule(missing), "a gap left unfilled by a failed sync must be retryable")
	prices.AssertExpectations(t)
}

func TestScheduleNilOrEmptyMissing(t *testing.T) {
	svc := NewSyncService(&mockPriceService{}, &mockFxService{}, 16, 100)

	assert.False(t, svc.Schedule(nil))
	assert.False(t, svc.Schedule(processors.NewMissingData()))
	assert.Empty(t, svc.queue)
}

func TestProcessDispatchesToServices(t *testing.T) {
	prices := &mockPriceService{}
	fx := &mockFxService{}
	prices.On("SyncPrices", []string{"NVDA"}).Return(map[string]int{"NVDA": 5}, nil)
	fx.On("SyncRates", "USD", []string{"EUR"}).Return(map[string]int{"USD/EUR": 3}, nil)

	svc := NewSyncService(prices, fx, 16, 100)
	svc.process(syncTask{kind: taskKindPrice, ticker: "NVDA"})
	svc.process(syncTask{kind: taskKindFx, base: "USD", quote: "EUR"})

	prices.AssertExpectations(t)
	fx.AssertExpectations(t)
}
