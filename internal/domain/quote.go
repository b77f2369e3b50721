package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Quote represents one fetched price snapshot for a coin in the domain layer.
// Numbers are kept as decimals so the values reported by the market-data API
// are persisted digit-for-digit.
type Quote struct {
	CoinID           string          `json:"coin_id"`
	VsCurrency       string          `json:"vs_currency"`
	Price            decimal.Decimal `json:"price"`
	PercentChange24h decimal.Decimal `json:"percent_change_24h"`
	MarketCap        decimal.Decimal `json:"market_cap"`
	Volume24h        decimal.Decimal `json:"volume_24h"`
	FetchedAt        time.Time       `json:"fetched_at"`
}

// Validate ensures the quote carries the fields every consumer relies on.
// Numeric ranges are not checked.
func (q *Quote) Validate() error {
	if q.CoinID == "" {
		return errors.New("quote coin id cannot be empty")
	}
	if q.VsCurrency == "" {
		return errors.New("quote currency cannot be empty")
	}
	if q.FetchedAt.IsZero() {
		return errors.New("quote fetch time must be set")
	}
	return nil
}

// MarketCapBillions returns the market cap scaled to billions of the quote currency
func (q *Quote) MarketCapBillions() decimal.Decimal {
	return q.MarketCap.Div(billion)
}

// VolumeBillions returns the 24h volume scaled to billions of the quote currency
func (q *Quote) VolumeBillions() decimal.Decimal {
	return q.Volume24h.Div(billion)
}

var billion = decimal.NewFromInt(1_000_000_000)
