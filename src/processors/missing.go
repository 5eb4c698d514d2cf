// backend/src/processors/missing.go
package processors

import (
	"sort"

	"github.com/username/cartera/backend/src/models"
)

type fxGap struct {
	date, base, quote string
}

type priceGap struct {
	date, ticker string
}

// MissingData collects every FX rate and price history the series computation
// needed but could not resolve. One instance is created per computation and
// threaded explicitly through the pipeline; it is never shared across requests.
type MissingData struct {
	fx     map[fxGap]struct{}
	prices map[priceGap]struct{}
}

func NewMissingData() *MissingData {
	return &MissingData{
		fx:     make(map[fxGap]struct{}),
		prices: make(map[priceGap]struct{}),
	}
}

func (m *MissingData) AddFx(date, base, quote string) {
	m.fx[fxGap{date: date, base: base, quote: quote}] = struct{}{}
}

func (m *MissingData) AddPrice(date, ticker string) {
	m.prices[priceGap{date: date, ticker: ticker}] = struct{}{}
}

// HasAny reports whether at least one gap was recorded.
func (m *MissingData) HasAny() bool {
	return len(m.fx) > 0 || len(m.prices) > 0
}

// FxEntries returns the de-duplicated FX gaps sorted by (date, base, quote).
func (m *MissingData) FxEntries() []models.MissingFxEntry {
	out := make([]models.MissingFxEntry, 0, len(m.fx))
	for gap := range m.fx {
		out = append(out, models.MissingFxEntry{
			Date:          gap.date,
			BaseCurrency:  gap.base,
			QuoteCurrency: gap.quote,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].BaseCurrency != out[j].BaseCurrency {
			return out[i].BaseCurrency < out[j].BaseCurrency
		}
		return out[i].QuoteCurrency < out[j].QuoteCurrency
	})
	return out
}

// PriceEntries returns the de-duplicated price gaps sorted by (date, ticker).
func (m *MissingData) PriceEntries() []models.MissingPriceEntry {
	out := make([]models.MissingPriceEntry, 0, len(m.prices))
	for gap := range m.prices {
		out = append(out, models.MissingPriceEntry{Date: gap.date, Ticker: gap.ticker})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Ticker < out[j].Ticker
	})
	return out
}
