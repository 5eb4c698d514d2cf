// backend/src/processors/rate_resolver.go
package processors

import (
	"fmt"
	"strings"
)

// FxSource answers point-in-time rate lookups against the store.
type FxSource interface {
	// RateAtOrBefore returns the stored rate for (base, quote) with the
	// greatest date not exceeding date, or false when none exists. Future
	// rates are never consulted and no interpolation happens.
	RateAtOrBefore(base, quote, date string) (float64, bool, error)
}

// RateNotFoundError is the strict-mode conversion failure. It is distinct from
// a zero rate so callers can surface the exact missing pair to the client.
type RateNotFoundError struct {
	From string
	To   string
	Date string
}

func (e *RateNotFoundError) Error() string {
	if e.Date == "" {
		return fmt.Sprintf("no exchange rate for %s->%s", e.From, e.To)
	}
	return fmt.Sprintf("no exchange rate for %s->%s at or before %s", e.From, e.To, e.Date)
}

// RateResolver resolves currency conversion factors as of a given date.
type RateResolver struct {
	source FxSource
}

func NewRateResolver(source FxSource) *RateResolver {
	return &RateResolver{source: source}
}

// Rate returns the conversion factor such that amount_in_quote * rate equals
// amount_in_base. Equal currencies short-circuit to 1.0 without a lookup.
func (r *RateResolver) Rate(base, quote, date string) (float64, bool, error) {
	if base == "" || quote == "" {
		return 0, false, nil
	}
	if strings.EqualFold(base, quote) {
		return 1.0, true, nil
	}
	return r.source.RateAtOrBefore(strings.ToUpper(base), strings.ToUpper(quote), date)
}

// Convert is the strict conversion used by on-demand valuation: a missing rate
// is an explicit error, never a silent zero.
func (r *RateResolver) Convert(amount float64, fromCurrency, baseCurrency, date string) (float64, error) {
	rate, ok, err := r.Rate(baseCurrency, fromCurrency, date)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, &RateNotFoundError{
			From: strings.ToUpper(fromCurrency),
			To:   strings.ToUpper(baseCurrency),
			Date: date,
		}
	}
	return amount * rate, nil
}

// ConvertLenient is the series-construction conversion: an unresolvable rate is
// recorded into missing and reported as absent, and the computation carries on.
func (r *RateResolver) ConvertLenient(amount float64, fromCurrency, baseCurrency, date string, missing *MissingData) (float64, bool) {
	rate, ok, err := r.Rate(baseCurrency, fromCurrency, date)
	if err != nil || !ok {
		missing.AddFx(date, strings.ToUpper(baseCurrency), strings.ToUpper(fromCurrency))
		return 0, false
	}
	return amount * rate, true
}
