package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Top-level sections of the dashboard document
const (
	SectionMarketMetrics = "current_market_metrics"
	SectionScenarios     = "scenario_projections"
	SectionTriggers      = "trigger_dashboard"
)

// MetricsKeys names the keys of the current_market_metrics section that the
// updater owns. Every other key of the document belongs to a human editor.
type MetricsKeys struct {
	Price       string
	Change24h   string
	MarketCap   string
	Volume24h   string
	LastUpdated string
}

// MetricsKeysFor returns the owned metric keys for a quote currency,
// e.g. price_usd / market_cap_usd / volume_24h_usd for "usd" or "USD".
func MetricsKeysFor(vsCurrency string) MetricsKeys {
	vsCurrency = strings.ToLower(strings.TrimSpace(vsCurrency))
	return MetricsKeys{
		Price:       "price_" + vsCurrency,
		Change24h:   "price_change_24h_pct",
		MarketCap:   "market_cap_" + vsCurrency,
		Volume24h:   "volume_24h_" + vsCurrency,
		LastUpdated: "last_updated",
	}
}

// MarketMetrics is the typed view of the current_market_metrics section
type MarketMetrics struct {
	Price             decimal.Decimal `json:"price"`
	PriceChange24hPct decimal.Decimal `json:"price_change_24h_pct"`
	MarketCap         decimal.Decimal `json:"market_cap"`
	Volume24h         decimal.Decimal `json:"volume_24h"`
	LastUpdated       string          `json:"last_updated"`
}

// ScenarioProjection is a manually curated price forecast.
// PriceTargets is keyed by horizon, e.g. "12_months" or "60_months".
type ScenarioProjection struct {
	Probability  decimal.Decimal            `json:"probability"`
	PriceTargets map[string]decimal.Decimal `json:"price_targets"`
	Description  string                     `json:"description"`
}

// Trigger is a manually tracked milestone
type Trigger struct {
	Name          string          `json:"trigger_name"`
	Status        string          `json:"status"`
	CompletionPct decimal.Decimal `json:"completion_pct"`
	TargetDate    string          `json:"target_date"`
	ImpactOnPrice string          `json:"impact_on_price"`
}

// Dashboard is the read model of the dashboard document.
// It only covers the sections the updater and its summaries understand.
type Dashboard struct {
	Metrics   MarketMetrics
	Scenarios map[string]ScenarioProjection
	Triggers  map[string]Trigger
}
