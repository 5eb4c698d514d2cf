// backend/src/processors/cash.go
package processors

import (
	"strings"

	"github.com/username/cartera/backend/src/models"
)

// CollectTransfersAndCash folds transfers into the trade-settlement cash
// deltas and produces two outputs: the contributed-capital-by-day map (only
// external transfers, converted leniently to base currency) and cumulative
// per-currency cash balances by day. cashDeltas is consumed: the transfer
// amounts are merged into it before the cumulative walk.
func CollectTransfersAndCash(transfers []models.Transfer, baseCurrency string, cashDeltas map[string]map[string]float64, resolver *RateResolver, missing *MissingData) (map[string]float64, map[string]map[string]float64) {
	transferByDate := make(map[string]float64)
	if cashDeltas == nil {
		cashDeltas = make(map[string]map[string]float64)
	}

	for _, transfer := range transfers {
		day, ok := dayOf(transfer.DateTime)
		if !ok {
			continue
		}
		currency := strings.ToUpper(transfer.Currency)
		if cashDeltas[day] == nil {
			cashDeltas[day] = make(map[string]float64)
		}
		cashDeltas[day][currency] += transfer.Amount
		if transfer.Origin == models.OriginExternal {
			converted, ok := resolver.ConvertLenient(transfer.Amount, currency, baseCurrency, day, missing)
			if ok {
				transferByDate[day] += converted
			}
		}
	}

	// Deltas become cumulative balances by an explicit ascending-date walk
	// with a carried running balance per currency.
	daySet := make(map[string]struct{}, len(cashDeltas))
	for day := range cashDeltas {
		daySet[day] = struct{}{}
	}
	running := make(map[string]float64)
	balances := make(map[string]map[string]float64, len(cashDeltas))
	for _, day := range sortedDays(daySet) {
		for currency, delta := range cashDeltas[day] {
			running[currency] += delta
		}
		snapshot := make(map[string]float64, len(running))
		for currency, balance := range running {
			snapshot[currency] = balance
		}
		balances[day] = snapshot
	}
	return transferByDate, balances
}
