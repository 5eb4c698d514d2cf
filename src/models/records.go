// backend/src/models/records.go
package models

// Transfer origin classification. Only external transfers count toward the
// contributed-capital baseline; internal ones (FX conversions, moves between
// accounts) only shift the per-currency cash composition.
const (
	OriginExternal = "external"
	OriginInternal = "internal"
)

// Trade is one signed position change for a ticker. Quantity is positive for
// acquisitions and negative for disposals; Purchase is the unit price in Currency.
type Trade struct {
	TradeID            string  `json:"trade_id"`
	Ticker             string  `json:"ticker"`
	Quantity           float64 `json:"quantity"`
	Purchase           float64 `json:"purchase"`
	DateTime           string  `json:"datetime"`
	Commission         float64 `json:"commission"`
	CommissionCurrency string  `json:"commission_currency"`
	Currency           string  `json:"currency"`
	ISIN               string  `json:"isin"`
	AssetClass         string  `json:"asset_class"`
}

// Transfer is a signed cash movement in a single currency.
type Transfer struct {
	TransactionID string  `json:"transaction_id"`
	Currency      string  `json:"currency"`
	DateTime      string  `json:"datetime"`
	Amount        float64 `json:"amount"`
	Origin        string  `json:"origin"`
	Kind          string  `json:"kind"`
}

// PricePoint is one daily close for a ticker. Provisional marks a same-day
// price that has not settled yet and will be re-fetched by the next sync.
type PricePoint struct {
	Ticker      string  `json:"ticker"`
	Date        string  `json:"date"`
	Close       float64 `json:"close"`
	Provisional bool    `json:"provisional"`
}

// FxRate converts amounts in QuoteCurrency into BaseCurrency:
// amount_in_quote * Rate = amount_in_base.
type FxRate struct {
	BaseCurrency  string  `json:"base_currency"`
	QuoteCurrency string  `json:"quote_currency"`
	Date          string  `json:"date"`
	Rate          float64 `json:"rate"`
}

// Dividend is a cash distribution. Dividends feed the cash balance endpoints
// but are deliberately not folded into the valuation series.
type Dividend struct {
	ActionID      string   `json:"action_id"`
	Ticker        string   `json:"ticker"`
	Currency      string   `json:"currency"`
	DateTime      string   `json:"datetime"`
	Amount        float64  `json:"amount"`
	Gross         *float64 `json:"gross"`
	Tax           *float64 `json:"tax"`
	IssuerCountry string   `json:"issuer_country"`
}
