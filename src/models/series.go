// backend/src/models/series.go
package models

// SeriesPoint is one bucket row of the portfolio value series, in base currency.
type SeriesPoint struct {
	Date          string             `json:"date"`
	ValueBase     float64            `json:"value_base"`
	TransfersBase float64            `json:"transfers_base"`
	PnlPct        float64            `json:"pnl_pct"`
	Cash          map[string]float64 `json:"cash"`
	CashBase      map[string]float64 `json:"cash_base"`
}

// MissingFxEntry identifies one FX rate the series needed but the store lacks.
type MissingFxEntry struct {
	Date          string `json:"date"`
	BaseCurrency  string `json:"base_currency"`
	QuoteCurrency string `json:"quote_currency"`
}

// MissingPriceEntry identifies a traded ticker with no usable price history,
// anchored at its first trade date.
type MissingPriceEntry struct {
	Date   string `json:"date"`
	Ticker string `json:"ticker"`
}

// SeriesResult is the full response of one series computation. SyncInProgress
// tells the caller that gaps were found and a background refresh was scheduled.
type SeriesResult struct {
	BaseCurrency   string              `json:"base_currency"`
	Interval       string              `json:"interval"`
	From           string              `json:"from"`
	To             string              `json:"to"`
	Series         []SeriesPoint       `json:"series"`
	SyncInProgress bool                `json:"sync_in_progress"`
	MissingFx      []MissingFxEntry    `json:"missing_fx"`
	MissingPrices  []MissingPriceEntry `json:"missing_prices"`
}

// CashBreakdown is one currency's contribution to the point-in-time valuation.
type CashBreakdown struct {
	Currency   string  `json:"currency"`
	Amount     float64 `json:"amount"`
	AmountBase float64 `json:"amount_base"`
}

// PositionBreakdown is one held ticker's contribution to the point-in-time valuation.
type PositionBreakdown struct {
	Ticker    string  `json:"ticker"`
	Quantity  float64 `json:"qty"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	Value     float64 `json:"value"`
	ValueBase float64 `json:"value_base"`
}

// PortfolioValue is the latest-rate snapshot valuation (no history, strict FX).
type PortfolioValue struct {
	BaseCurrency  string              `json:"base_currency"`
	CashBase      float64             `json:"cash_base"`
	PositionsBase float64             `json:"positions_base"`
	TotalBase     float64             `json:"total_base"`
	Cash          []CashBreakdown     `json:"cash"`
	Positions     []PositionBreakdown `json:"positions"`
}

// CurrencyBalance is one currency's cash total without FX conversion.
type CurrencyBalance struct {
	Currency string  `json:"currency"`
	Balance  float64 `json:"balance"`
}

// CurrencyTotal is a per-currency sum over a date window.
type CurrencyTotal struct {
	Currency string  `json:"currency"`
	Total    float64 `json:"total"`
}

// CashSeriesPoint is one day or month of a per-currency cash series.
type CashSeriesPoint struct {
	Date       string  `json:"date"`
	Amount     float64 `json:"amount"`
	Cumulative float64 `json:"cumulative"`
}
