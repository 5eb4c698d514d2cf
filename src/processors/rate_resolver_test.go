// backend/src/processors/rate_resolver_test.go
package processors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fxRow struct {
	base, quote, date string
	rate              float64
}

// fakeFxSource implements at-or-before lookups over an in-memory rate table.
type fakeFxSource struct {
	rows    []fxRow
	err     error
	lookups int
}

func (f *fakeFxSource) RateAtOrBefore(base, quote, date string) (float64, bool, error) {
	f.lookups++
	if f.err != nil {
		return 0, false, f.err
	}
	best := ""
	rate := 0.0
	for _, row := range f.rows {
		if row.base != base || row.quote != quote || row.date > date {
			continue
		}
		if row.date > best {
			best = row.date
			rate = row.rate
		}
	}
	if best == "" {
		return 0, false, nil
	}
	return rate, true, nil
}

func TestRateIdentityWithoutLookup(t *testing.T) {
	source := &fakeFxSource{err: errors.New("must not be consulted")}
	resolver := NewRateResolver(source)

	for _, pair := range [][2]string{{"USD", "USD"}, {"eur", "EUR"}, {"Usd", "usD"}} {
		rate, ok, err := resolver.Rate(pair[0], pair[1], "2024-03-01")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 1.0, rate)
	}
	assert.Equal(t, 0, source.lookups, "equal currencies must not reach the store")
}

func TestRateEmptyCurrency(t *testing.T) {
	resolver := NewRateResolver(&fakeFxSource{})

	_, ok, err := resolver.Rate("", "EUR", "2024-03-01")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = resolver.Rate("USD", "", "2024-03-01")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRateAtOrBefore(t *testing.T) {
	source := &fakeFxSource{rows: []fxRow{
		{"USD", "EUR", "2024-01-10", 1.08},
		{"USD", "EUR", "2024-01-20", 1.10},
		{"USD", "EUR", "2024-02-01", 1.12},
	}}
	resolver := NewRateResolver(source)

	tests := []struct {
		name     string
		date     string
		wantRate float64
		wantOK   bool
	}{
		{"exact date", "2024-01-20", 1.10, true},
		{"between entries uses earlier", "2024-01-25", 1.10, true},
		{"after last uses last", "2024-06-01", 1.12, true},
		{"before first has none", "2024-01-05", 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rate, ok, err := resolver.Rate("USD", "EUR", tc.date)
			require.NoError(t, err)
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, tc.wantRate, rate)
			}
		})
	}
}

func TestConvertStrictMissingRate(t *testing.T) {
	resolver := NewRateResolver(&fakeFxSource{})

	_, err := resolver.Convert(100, "gbp", "usd", "2024-03-01")
	require.Error(t, err)

	var rateErr *RateNotFoundError
	require.True(t, errors.As(err, &rateErr))
	assert.Equal(t, "GBP", rateErr.From)
	assert.Equal(t, "USD", rateErr.To)
	assert.Equal(t, "2024-03-01", rateErr.Date)
}

func TestConvertStrictAppliesRate(t *testing.T) {
	source := &fakeFxSource{rows: []fxRow{{"USD", "EUR", "2024-01-10", 1.10}}}
	resolver := NewRateResolver(source)

	got, err := resolver.Convert(200, "EUR", "USD", "2024-01-15")
	require.NoError(t, err)
	assert.InDelta(t, 220.0, got, 1e-9)
}

func TestConvertLenientRecordsGap(t *testing.T) {
	resolver := NewRateResolver(&fakeFxSource{})
	missing := NewMissingData()

	got, ok := resolver.ConvertLenient(50, "chf", "usd", "2024-03-01", missing)
	assert.False(t, ok)
	assert.Equal(t, 0.0, got)
	require.True(t, missing.HasAny())

	entries := missing.FxEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, "2024-03-01", entries[0].Date)
	assert.Equal(t, "USD", entries[0].BaseCurrency)
	assert.Equal(t, "CHF", entries[0].QuoteCurrency)
}

func TestConvertLenientTreatsSourceErrorAsGap(t *testing.T) {
	resolver := NewRateResolver(&fakeFxSource{err: errors.New("db closed")})
	missing := NewMissingData()

	_, ok := resolver.ConvertLenient(50, "EUR", "USD", "2024-03-01", missing)
	assert.False(t, ok)
	assert.True(t, missing.HasAny())
}

func TestMissingDataDeduplicatesAndSorts(t *testing.T) {
	missing := NewMissingData()
	missing.AddFx("2024-02-01", "USD", "EUR")
	missing.AddFx("2024-01-01", "USD", "GBP")
	missing.AddFx("2024-02-01", "USD", "EUR")
	missing.AddFx("2024-01-01", "USD", "CHF")
	missing.AddPrice("2024-03-01", "MSFT")
	missing.AddPrice("2024-01-01", "AAPL")
	missing.AddPrice("2024-03-01", "MSFT")

	fx := missing.FxEntries()
	require.Len(t, fx, 3)
	assert.Equal(t, "CHF", fx[0].QuoteCurrency)
	assert.Equal(t, "GBP", fx[1].QuoteCurrency)
	assert.Equal(t, "2024-02-01", fx[2].Date)

	prices := missing.PriceEntries()
	require.Len(t, prices, 2)
	assert.Equal(t, "AAPL", prices[0].Ticker)
	assert.Equal(t, "MSFT", prices[1].Ticker)
}
