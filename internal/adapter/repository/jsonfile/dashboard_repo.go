package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/renameio/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/atcwiz/xrp-dashboard/internal/domain"
)

// dashboardRepository implements domain.DashboardRepository on a single JSON file
type dashboardRepository struct {
	path string
	keys domain.MetricsKeys
}

// NewDashboardRepository creates a new dashboard repository for the document at path.
// vsCurrency selects the owned metric keys (price_usd, market_cap_usd, ...).
func NewDashboardRepository(path, vsCurrency string) domain.DashboardRepository {
	return &dashboardRepository{
		path: path,
		keys: domain.MetricsKeysFor(vsCurrency),
	}
}

// UpdateMarketMetrics rewrites the owned keys of current_market_metrics in place.
// Values are spliced into the existing bytes, so every other section keeps its exact
// formatting. The result replaces the file through a temp file and rename.
func (r *dashboardRepository) UpdateMarketMetrics(ctx context.Context, quote *domain.Quote) error {
	if err := ctx.Err(); err != nil {
		return r.persistErr("update", err)
	}

	info, err := os.Stat(r.path)
	if err != nil {
		return r.persistErr("read", err)
	}
	doc, err := os.ReadFile(r.path)
	if err != nil {
		return r.persistErr("read", err)
	}

	if err := r.checkDocument(doc); err != nil {
		return err
	}

	section := domain.SectionMarketMetrics + "."
	updates := []struct {
		key string
		raw string
	}{
		{r.keys.Price, quote.Price.String()},
		{r.keys.Change24h, quote.PercentChange24h.String()},
		{r.keys.MarketCap, quote.MarketCap.String()},
		{r.keys.Volume24h, quote.Volume24h.String()},
		{r.keys.LastUpdated, jsonString(quote.FetchedAt.UTC().Format(time.RFC3339))},
	}
	for _, u := range updates {
		doc, err = sjson.SetRawBytes(doc, section+u.key, []byte(u.raw))
		if err != nil {
			return r.persistErr("update", fmt.Errorf("failed to set %s: %w", u.key, err))
		}
	}

	if err := renameio.WriteFile(r.path, doc, info.Mode().Perm()); err != nil {
		return r.persistErr("write", err)
	}

	return nil
}

// checkDocument rejects anything the splice could corrupt: invalid JSON,
// a non-object document, or a non-object metrics section.
func (r *dashboardRepository) checkDocument(doc []byte) error {
	if !json.Valid(doc) {
		return r.persistErr("parse", errors.New("invalid JSON"))
	}

	root := gjson.ParseBytes(doc)
	if !root.IsObject() {
		return r.persistErr("parse", domain.ErrNotObject)
	}

	metrics := root.Get(domain.SectionMarketMetrics)
	if metrics.Exists() && !metrics.IsObject() {
		return r.persistErr("parse", fmt.Errorf("%s: %w", domain.SectionMarketMetrics, domain.ErrNotObject))
	}

	return nil
}

// documentView mirrors the sections of the document that Load understands
type documentView struct {
	Metrics   map[string]json.RawMessage           `json:"current_market_metrics"`
	Scenarios map[string]domain.ScenarioProjection `json:"scenario_projections"`
	Triggers  map[string]domain.Trigger            `json:"trigger_dashboard"`
}

// Load reads the typed view of the document
func (r *dashboardRepository) Load(ctx context.Context) (*domain.Dashboard, error) {
	doc, err := r.Raw(ctx)
	if err != nil {
		return nil, err
	}

	var view documentView
	if err := json.Unmarshal(doc, &view); err != nil {
		return nil, r.persistErr("parse", err)
	}

	metrics, err := r.parseMetrics(view.Metrics)
	if err != nil {
		return nil, r.persistErr("parse", err)
	}

	dashboard := &domain.Dashboard{
		Metrics:   metrics,
		Scenarios: view.Scenarios,
		Triggers:  view.Triggers,
	}
	if dashboard.Scenarios == nil {
		dashboard.Scenarios = map[string]domain.ScenarioProjection{}
	}
	if dashboard.Triggers == nil {
		dashboard.Triggers = map[string]domain.Trigger{}
	}

	return dashboard, nil
}

func (r *dashboardRepository) parseMetrics(raw map[string]json.RawMessage) (domain.MarketMetrics, error) {
	var metrics domain.MarketMetrics

	targets := []struct {
		key string
		dst any
	}{
		{r.keys.Price, &metrics.Price},
		{r.keys.Change24h, &metrics.PriceChange24hPct},
		{r.keys.MarketCap, &metrics.MarketCap},
		{r.keys.Volume24h, &metrics.Volume24h},
		{r.keys.LastUpdated, &metrics.LastUpdated},
	}
	for _, t := range targets {
		v, ok := raw[t.key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, t.dst); err != nil {
			return metrics, fmt.Errorf("failed to parse %s.%s: %w", domain.SectionMarketMetrics, t.key, err)
		}
	}

	return metrics, nil
}

// Raw returns the document bytes as stored
func (r *dashboardRepository) Raw(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, r.persistErr("read", err)
	}
	doc, err := os.ReadFile(r.path)
	if err != nil {
		return nil, r.persistErr("read", err)
	}
	return doc, nil
}

func (r *dashboardRepository) persistErr(op string, err error) error {
	return &domain.PersistError{Op: op, Path: r.path, Err: err}
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
