// backend/src/processors/buckets.go
package processors

import (
	"errors"
	"strings"
	"time"
)

// Interval is a reporting period granularity for the value series.
type Interval string

const (
	IntervalDay     Interval = "day"
	IntervalWeek    Interval = "week"
	IntervalMonth   Interval = "month"
	IntervalQuarter Interval = "quarter"
	IntervalYear    Interval = "year"
)

// ErrInvalidInterval rejects unsupported interval names before any computation.
var ErrInvalidInterval = errors.New("invalid interval, use day|week|month|quarter|year")

// ParseInterval validates a request-supplied interval name. Empty defaults to day.
func ParseInterval(value string) (Interval, error) {
	switch Interval(strings.ToLower(strings.TrimSpace(value))) {
	case "":
		return IntervalDay, nil
	case IntervalDay:
		return IntervalDay, nil
	case IntervalWeek:
		return IntervalWeek, nil
	case IntervalMonth:
		return IntervalMonth, nil
	case IntervalQuarter:
		return IntervalQuarter, nil
	case IntervalYear:
		return IntervalYear, nil
	}
	return "", ErrInvalidInterval
}

// PeriodEnd maps a calendar day to the last day of its reporting period.
// Weeks start on Monday and end on Sunday; quarters are the 3-month blocks
// starting in January.
func PeriodEnd(d time.Time, interval Interval) time.Time {
	switch interval {
	case IntervalWeek:
		offset := (int(d.Weekday()) + 6) % 7
		return d.AddDate(0, 0, 6-offset)
	case IntervalMonth:
		first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		return first.AddDate(0, 1, -1)
	case IntervalQuarter:
		endMonth := time.Month(((int(d.Month())-1)/3)*3 + 3)
		first := time.Date(d.Year(), endMonth, 1, 0, 0, 0, 0, time.UTC)
		return first.AddDate(0, 1, -1)
	case IntervalYear:
		return time.Date(d.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	default:
		return d
	}
}

// Bucket is one reporting period under construction. Transfers is the period's
// own contributed-capital delta, not a running total; Value is the last
// price-derived total observed inside the period; Cash is the per-currency
// balance snapshot as of the period's last constituent day.
type Bucket struct {
	Transfers float64
	Value     float64
	HasValue  bool
	Cash      map[string]float64
}

// BuildBuckets walks every calendar day of the observed range, clipped to the
// optional [from, to] bound (and extended to to when it lies beyond the last
// observed date), and folds each day into its period-end bucket. No day is
// skipped, so the cash snapshot carries across periods with no events of
// their own.
func BuildBuckets(from, to string, interval Interval, valueByDate map[string]float64, transferByDate map[string]float64, cashBalances map[string]map[string]float64) map[string]*Bucket {
	daySet := make(map[string]struct{})
	collect := func(day string) {
		if from != "" && day < from {
			return
		}
		if to != "" && day > to {
			return
		}
		daySet[day] = struct{}{}
	}
	for day := range valueByDate {
		collect(day)
	}
	for day := range transferByDate {
		collect(day)
	}
	for day := range cashBalances {
		collect(day)
	}

	buckets := make(map[string]*Bucket)
	if len(daySet) == 0 {
		return buckets
	}
	days := sortedDays(daySet)
	minDay, maxDay := days[0], days[len(days)-1]
	if to != "" && to > maxDay {
		maxDay = to
	}

	current, _ := time.Parse(dateLayout, minDay)
	last, _ := time.Parse(dateLayout, maxDay)
	cash := make(map[string]float64)
	for !current.After(last) {
		day := current.Format(dateLayout)
		key := PeriodEnd(current, interval).Format(dateLayout)
		bucket := buckets[key]
		if bucket == nil {
			bucket = &Bucket{}
			buckets[key] = bucket
		}
		if delta, ok := transferByDate[day]; ok {
			bucket.Transfers += delta
		}
		if value, ok := valueByDate[day]; ok {
			bucket.Value = value
			bucket.HasValue = true
		}
		if snapshot, ok := cashBalances[day]; ok {
			cash = snapshot
		}
		bucket.Cash = make(map[string]float64, len(cash))
		for currency, balance := range cash {
			bucket.Cash[currency] = balance
		}
		current = current.AddDate(0, 0, 1)
	}
	return buckets
}
