package coingecko

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atcwiz/xrp-dashboard/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, "ripple", "usd", 2*time.Second)
	client.now = func() time.Time { return time.Date(2026, 10, 17, 12, 30, 0, 0, time.FixedZone("CEST", 7200)) }
	return client
}

func TestFetchQuote_Success(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{
			"ids":                 r.URL.Query().Get("ids"),
			"vs_currencies":       r.URL.Query().Get("vs_currencies"),
			"include_24hr_change": r.URL.Query().Get("include_24hr_change"),
			"include_market_cap":  r.URL.Query().Get("include_market_cap"),
			"include_24hr_vol":    r.URL.Query().Get("include_24hr_vol"),
		}
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ripple":{"usd":3.12,"usd_market_cap":186412345678.91234,"usd_24h_vol":4251234567.123,"usd_24h_change":-1.2345678901234567}}`))
	})

	quote, err := client.FetchQuote(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/simple/price", gotPath)
	assert.Equal(t, map[string]string{
		"ids":                 "ripple",
		"vs_currencies":       "usd",
		"include_24hr_change": "true",
		"include_market_cap":  "true",
		"include_24hr_vol":    "true",
	}, gotQuery)

	assert.Equal(t, "ripple", quote.CoinID)
	assert.Equal(t, "usd", quote.VsCurrency)
	assert.Equal(t, "3.12", quote.Price.String())
	assert.Equal(t, "186412345678.91234", quote.MarketCap.String())
	assert.Equal(t, "4251234567.123", quote.Volume24h.String())
	assert.Equal(t, "-1.2345678901234567", quote.PercentChange24h.String())
	assert.Equal(t, time.Date(2026, 10, 17, 10, 30, 0, 0, time.UTC), quote.FetchedAt)
}

func TestFetchQuote_NumbersMatchExactly(t *testing.T) {
	values := []string{"0.000000012345678901", "123456789012345678901234567890", "2.5", "-0.75"}

	for _, v := range values {
		t.Run(v, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"ripple":{"usd":` + v + `,"usd_market_cap":` + v + `,"usd_24h_vol":` + v + `,"usd_24h_change":` + v + `}}`))
			})

			quote, err := client.FetchQuote(context.Background())
			require.NoError(t, err)

			want := decimal.RequireFromString(v)
			assert.True(t, want.Equal(quote.Price), "price %s != %s", quote.Price, v)
			assert.True(t, want.Equal(quote.MarketCap))
			assert.True(t, want.Equal(quote.Volume24h))
			assert.True(t, want.Equal(quote.PercentChange24h))
			assert.Equal(t, want.String(), quote.Price.String())
		})
	}
}

func TestFetchQuote_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantOp  string
		wantErr error
	}{
		{
			name:   "Non-200 status",
			status: http.StatusTooManyRequests,
			body:   `{"status":{"error_code":429}}`,
			wantOp: "status",
		},
		{
			name:   "Invalid JSON",
			status: http.StatusOK,
			body:   `{"ripple":`,
			wantOp: "decode",
		},
		{
			name:   "Non-numeric field",
			status: http.StatusOK,
			body:   `{"ripple":{"usd":"three","usd_market_cap":1,"usd_24h_vol":1,"usd_24h_change":1}}`,
			wantOp: "decode",
		},
		{
			name:    "Coin missing",
			status:  http.StatusOK,
			body:    `{}`,
			wantOp:  "decode",
			wantErr: domain.ErrCoinNotFound,
		},
		{
			name:    "Field missing",
			status:  http.StatusOK,
			body:    `{"ripple":{"usd":3.12,"usd_market_cap":1,"usd_24h_change":1}}`,
			wantOp:  "decode",
			wantErr: domain.ErrMissingField,
		},
		{
			name:    "Null field",
			status:  http.StatusOK,
			body:    `{"ripple":{"usd":null,"usd_market_cap":1,"usd_24h_vol":1,"usd_24h_change":1}}`,
			wantOp:  "decode",
			wantErr: domain.ErrMissingField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			quote, err := client.FetchQuote(context.Background())
			assert.Nil(t, quote)
			require.Error(t, err)

			var fetchErr *domain.FetchError
			require.True(t, errors.As(err, &fetchErr), "error should be a FetchError")
			assert.Equal(t, tt.wantOp, fetchErr.Op)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestFetchQuote_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "ripple", "usd", 50*time.Millisecond)

	_, err := client.FetchQuote(context.Background())
	require.Error(t, err)

	var fetchErr *domain.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "request", fetchErr.Op)
}

func TestFetchQuote_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(url, "ripple", "usd", time.Second)

	_, err := client.FetchQuote(context.Background())

	var fetchErr *domain.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "request", fetchErr.Op)
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient("", "ripple", "USD", 0)

	endpoint, err := client.endpoint()
	require.NoError(t, err)
	assert.Contains(t, endpoint, DefaultBaseURL+"/simple/price?")
	assert.Contains(t, endpoint, "vs_currencies=usd")
}
