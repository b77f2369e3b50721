package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestQuote_Validate(t *testing.T) {
	fetchedAt := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		quote   Quote
		wantErr bool
		errMsg  string
	}{
		{
			name: "Complete quote should pass",
			quote: Quote{
				CoinID:     "ripple",
				VsCurrency: "usd",
				Price:      decimal.RequireFromString("3.12"),
				FetchedAt:  fetchedAt,
			},
			wantErr: false,
		},
		{
			name: "Zero numbers are allowed",
			quote: Quote{
				CoinID:     "ripple",
				VsCurrency: "usd",
				FetchedAt:  fetchedAt,
			},
			wantErr: false,
		},
		{
			name: "Missing coin id should fail",
			quote: Quote{
				VsCurrency: "usd",
				FetchedAt:  fetchedAt,
			},
			wantErr: true,
			errMsg:  "quote coin id cannot be empty",
		},
		{
			name: "Missing currency should fail",
			quote: Quote{
				CoinID:    "ripple",
				FetchedAt: fetchedAt,
			},
			wantErr: true,
			errMsg:  "quote currency cannot be empty",
		},
		{
			name: "Missing fetch time should fail",
			quote: Quote{
				CoinID:     "ripple",
				VsCurrency: "usd",
			},
			wantErr: true,
			errMsg:  "quote fetch time must be set",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.quote.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.errMsg, err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuote_Billions(t *testing.T) {
	q := Quote{
		MarketCap: decimal.RequireFromString("186400000000"),
		Volume24h: decimal.RequireFromString("4250000000"),
	}

	assert.True(t, decimal.RequireFromString("186.4").Equal(q.MarketCapBillions()))
	assert.True(t, decimal.RequireFromString("4.25").Equal(q.VolumeBillions()))
}

func TestMetricsKeysFor(t *testing.T) {
	keys := MetricsKeysFor("usd")

	assert.Equal(t, "price_usd", keys.Price)
	assert.Equal(t, "price_change_24h_pct", keys.Change24h)
	assert.Equal(t, "market_cap_usd", keys.MarketCap)
	assert.Equal(t, "volume_24h_usd", keys.Volume24h)
	assert.Equal(t, "last_updated", keys.LastUpdated)

	eur := MetricsKeysFor("eur")
	assert.Equal(t, "price_eur", eur.Price)
	assert.Equal(t, "market_cap_eur", eur.MarketCap)

	upper := MetricsKeysFor(" USD ")
	assert.Equal(t, keys, upper)
}

func TestErrors_Unwrap(t *testing.T) {
	fetchErr := fmt.Errorf("cycle 2: %w", &FetchError{Op: "decode", Err: ErrCoinNotFound})

	var fe *FetchError
	assert.True(t, errors.As(fetchErr, &fe))
	assert.Equal(t, "decode", fe.Op)
	assert.True(t, errors.Is(fetchErr, ErrCoinNotFound))
	assert.Contains(t, fetchErr.Error(), "fetch quote: decode: coin not found")

	persistErr := &PersistError{Op: "parse", Path: "dash.json", Err: ErrNotObject}
	assert.True(t, errors.Is(persistErr, ErrNotObject))
	assert.Equal(t, "persist dashboard dash.json: parse: not a JSON object", persistErr.Error())
}
