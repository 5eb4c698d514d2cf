// backend/src/processors/series.go
package processors

import (
	"sort"

	"github.com/username/cartera/backend/src/models"
)

// BuildSeries walks buckets by ascending period end and emits one point each,
// maintaining the cumulative contributed capital and the forward-filled last
// known position value. Cash snapshots are converted leniently at the period
// end: a currency without a resolvable rate stays in the raw cash map but is
// omitted from the converted one, so the total degrades instead of lying.
func BuildSeries(resolver *RateResolver, buckets map[string]*Bucket, baseCurrency string, missing *MissingData) []models.SeriesPoint {
	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]models.SeriesPoint, 0, len(keys))
	cumulativeTransfers := 0.0
	lastPositionsValue := 0.0
	for _, periodEnd := range keys {
		bucket := buckets[periodEnd]
		cumulativeTransfers += bucket.Transfers
		if bucket.HasValue {
			lastPositionsValue = bucket.Value
		}
		cash := make(map[string]float64, len(bucket.Cash))
		cashBase := make(map[string]float64, len(bucket.Cash))
		cashTotalBase := 0.0
		for currency, balance := range bucket.Cash {
			cash[currency] = balance
			converted, ok := resolver.ConvertLenient(balance, currency, baseCurrency, periodEnd, missing)
			if !ok {
				continue
			}
			cashBase[currency] = converted
			cashTotalBase += converted
		}
		totalValue := lastPositionsValue + cashTotalBase
		pnlPct := 0.0
		if cumulativeTransfers > 0 {
			pnlPct = totalValue / cumulativeTransfers * 100
		}
		out = append(out, models.SeriesPoint{
			Date:          periodEnd,
			ValueBase:     totalValue,
			TransfersBase: bucket.Transfers,
			PnlPct:        pnlPct,
			Cash:          cash,
			CashBase:      cashBase,
		})
	}
	return out
}
