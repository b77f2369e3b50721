package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/shopspring/decimal"

	"github.com/atcwiz/xrp-dashboard/internal/domain"
)

// DefaultBaseURL is the public CoinGecko API root (no key required)
const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// maxBodyBytes bounds the response we are willing to decode
const maxBodyBytes = 1 << 20

// Client implements domain.QuoteFetcher against the CoinGecko simple/price endpoint
type Client struct {
	baseURL    string
	coinID     string
	vsCurrency string
	httpClient *http.Client
	now        func() time.Time
}

// NewClient creates a new CoinGecko client.
// A zero timeout leaves the request bounded only by the caller's context.
func NewClient(baseURL, coinID, vsCurrency string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		coinID:     coinID,
		vsCurrency: strings.ToLower(vsCurrency),
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
}

// simplePriceResponse is keyed by coin id, then by field name (usd, usd_market_cap, ...)
type simplePriceResponse map[string]map[string]*decimal.Decimal

// FetchQuote issues one GET to simple/price and converts the response into a Quote.
// There is no retry: a single attempt per call.
func (c *Client) FetchQuote(ctx context.Context) (*domain.Quote, error) {
	endpoint, err := c.endpoint()
	if err != nil {
		return nil, &domain.FetchError{Op: "request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &domain.FetchError{Op: "request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	glog.V(1).Infof("GET %s", endpoint)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.FetchError{Op: "request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.FetchError{Op: "status", Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &domain.FetchError{Op: "read", Err: err}
	}

	var payload simplePriceResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &domain.FetchError{Op: "decode", Err: err}
	}

	quote, err := c.toQuote(payload)
	if err != nil {
		return nil, &domain.FetchError{Op: "decode", Err: err}
	}

	if err := quote.Validate(); err != nil {
		return nil, &domain.FetchError{Op: "validate", Err: err}
	}

	return quote, nil
}

func (c *Client) endpoint() (string, error) {
	u, err := url.Parse(c.baseURL + "/simple/price")
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}
	q := u.Query()
	q.Set("ids", c.coinID)
	q.Set("vs_currencies", c.vsCurrency)
	q.Set("include_24hr_change", "true")
	q.Set("include_market_cap", "true")
	q.Set("include_24hr_vol", "true")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) toQuote(payload simplePriceResponse) (*domain.Quote, error) {
	fields, ok := payload[c.coinID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCoinNotFound, c.coinID)
	}

	get := func(name string) (decimal.Decimal, error) {
		v, ok := fields[name]
		if !ok || v == nil {
			return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrMissingField, name)
		}
		return *v, nil
	}

	price, err := get(c.vsCurrency)
	if err != nil {
		return nil, err
	}
	change, err := get(c.vsCurrency + "_24h_change")
	if err != nil {
		return nil, err
	}
	marketCap, err := get(c.vsCurrency + "_market_cap")
	if err != nil {
		return nil, err
	}
	volume, err := get(c.vsCurrency + "_24h_vol")
	if err != nil {
		return nil, err
	}

	return &domain.Quote{
		CoinID:           c.coinID,
		VsCurrency:       c.vsCurrency,
		Price:            price,
		PercentChange24h: change,
		MarketCap:        marketCap,
		Volume24h:        volume,
		FetchedAt:        c.now().UTC(),
	}, nil
}
