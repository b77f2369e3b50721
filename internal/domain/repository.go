package domain

import (
	"context"
)

// QuoteFetcher defines the interface for the market-data source
type QuoteFetcher interface {
	// FetchQuote performs a single request and returns the current quote.
	// Failures are reported as *FetchError.
	FetchQuote(ctx context.Context) (*Quote, error)
}

// DashboardRepository defines the interface for dashboard document persistence operations
type DashboardRepository interface {
	// UpdateMarketMetrics replaces the owned current_market_metrics keys with the quote.
	// All other content of the document is preserved. Failures are reported as *PersistError.
	UpdateMarketMetrics(ctx context.Context, quote *Quote) error

	// Load reads the typed view of the document
	Load(ctx context.Context) (*Dashboard, error)

	// Raw returns the document bytes as stored
	Raw(ctx context.Context) ([]byte, error)
}

// QuoteCache defines the interface for the latest-quote cache
type QuoteCache interface {
	// SetLatest stores the quote as the latest one
	SetLatest(ctx context.Context, quote *Quote) error

	// GetLatest returns the latest quote, or nil if none is cached
	GetLatest(ctx context.Context) (*Quote, error)
}
