// backend/src/services/interfaces.go
package services

import (
	"errors"

	"github.com/username/cartera/backend/src/models"
	"github.com/username/cartera/backend/src/processors"
)

// Define common service errors
var (
	ErrNoRows              = errors.New("no rows to import")
	ErrUnknownImportKind   = errors.New("unknown import kind, use trades|transfers|dividends")
	ErrNoCurrencies        = errors.New("no currencies to sync")
	ErrNoTickers           = errors.New("no tickers to sync")
	ErrInvalidCashInterval = errors.New("invalid interval, use day|month")
)

// SeriesParams are the validated inputs of one value-series computation.
type SeriesParams struct {
	Interval     processors.Interval
	From         string
	To           string
	BaseCurrency string
}

// SeriesService computes portfolio valuations from the store.
type SeriesService interface {
	// ValueSeries builds the bucketed value series with forward-fill and a
	// missing-data report; it degrades gracefully on FX/price gaps.
	ValueSeries(params SeriesParams) (*models.SeriesResult, error)
	// CurrentValue is the latest-rate snapshot valuation. It uses strict
	// conversion: a missing rate is an error, not a zero.
	CurrentValue(baseCurrency string) (*models.PortfolioValue, error)
}

// CashService exposes the FX-free cash views.
type CashService interface {
	Balance() ([]models.CurrencyBalance, error)
	CashSeries(interval, from, to string) (map[string][]models.CashSeriesPoint, error)
	TransfersSeries(interval, from, to string) (map[string][]models.CashSeriesPoint, error)
	NetTransfers(from, to string) ([]models.CurrencyTotal, error)
}

// PriceService syncs and serves per-ticker price histories.
type PriceService interface {
	SyncPrices(tickers []string) (map[string]int, error)
	LatestPrices(tickers []string) (map[string]models.PricePoint, error)
	PriceSeries(ticker string) ([]models.PricePoint, error)
}

// FxService syncs conversion rates for currency pairs against a base currency.
type FxService interface {
	SyncRates(baseCurrency string, quotes []string) (map[string]int, error)
}

// ImportSummary reports the outcome of one import batch.
type ImportSummary struct {
	BatchID    int64    `json:"batch_id"`
	TotalRows  int      `json:"total_rows"`
	Inserted   int      `json:"inserted"`
	Currencies []string `json:"currencies"`
}

// ImportService normalizes broker export rows into stored records.
type ImportService interface {
	ImportRows(kind, source string, rows []map[string]any) (*ImportSummary, error)
}

// SyncScheduler accepts a missing-data report and arranges background
// refreshes. Implementations must be idempotent per reported gap and must
// never block the request path.
type SyncScheduler interface {
	Schedule(missing *processors.MissingData) bool
}
