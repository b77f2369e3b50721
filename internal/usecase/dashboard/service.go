package dashboard

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/atcwiz/xrp-dashboard/internal/domain"
)

// DefaultHorizon is the price-target horizon used when none is requested
const DefaultHorizon = "60_months"

var hundred = decimal.NewFromInt(100)

// ScenarioSummary is one scenario evaluated at a horizon
type ScenarioSummary struct {
	Key         string          `json:"key"`
	Probability decimal.Decimal `json:"probability"`
	Target      decimal.Decimal `json:"target"`
	HasTarget   bool            `json:"has_target"`
	UpsidePct   decimal.Decimal `json:"upside_pct"`
	Description string          `json:"description"`
}

// TriggerSummary is one trigger in completion order
type TriggerSummary struct {
	Key           string          `json:"key"`
	Name          string          `json:"name"`
	Status        string          `json:"status"`
	CompletionPct decimal.Decimal `json:"completion_pct"`
	TargetDate    string          `json:"target_date"`
}

// Summary represents the aggregated view of the dashboard document
type Summary struct {
	Metrics           domain.MarketMetrics `json:"metrics"`
	Horizon           string               `json:"horizon"`
	Scenarios         []ScenarioSummary    `json:"scenarios"`
	WeightedTarget    decimal.Decimal      `json:"weighted_target"`
	ProbabilityMass   decimal.Decimal      `json:"probability_mass"`
	Triggers          []TriggerSummary     `json:"triggers"`
	AverageCompletion decimal.Decimal      `json:"average_completion_pct"`
}

// DashboardService handles dashboard-related operations
type DashboardService struct {
	DashboardRepo domain.DashboardRepository
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(dashboardRepo domain.DashboardRepository) *DashboardService {
	return &DashboardService{
		DashboardRepo: dashboardRepo,
	}
}

// GetSummary aggregates the dashboard document
// Logic:
//   - Scenarios: sorted by probability (desc, then key), target taken at the horizon,
//     upside measured against the current price (zero when the price is unknown)
//   - WeightedTarget: sum of probability * target over scenarios that define the horizon
//   - ProbabilityMass: sum of those probabilities
//   - Triggers: sorted by completion (desc, then key); AverageCompletion over all triggers
func (s *DashboardService) GetSummary(ctx context.Context, horizon string) (*Summary, error) {
	if horizon == "" {
		horizon = DefaultHorizon
	}

	doc, err := s.DashboardRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}

	price := doc.Metrics.Price

	// 1. Scenarios
	scenarios := make([]ScenarioSummary, 0, len(doc.Scenarios))
	weighted := decimal.Zero
	mass := decimal.Zero
	for key, sc := range doc.Scenarios {
		summary := ScenarioSummary{
			Key:         key,
			Probability: sc.Probability,
			Description: sc.Description,
		}
		if target, ok := sc.PriceTargets[horizon]; ok {
			summary.Target = target
			summary.HasTarget = true
			if price.IsPositive() {
				summary.UpsidePct = target.Sub(price).Div(price).Mul(hundred).Round(2)
			}
			weighted = weighted.Add(sc.Probability.Mul(target))
			mass = mass.Add(sc.Probability)
		}
		scenarios = append(scenarios, summary)
	}
	sort.Slice(scenarios, func(i, j int) bool {
		if !scenarios[i].Probability.Equal(scenarios[j].Probability) {
			return scenarios[i].Probability.GreaterThan(scenarios[j].Probability)
		}
		return scenarios[i].Key < scenarios[j].Key
	})

	// 2. Triggers
	triggers := make([]TriggerSummary, 0, len(doc.Triggers))
	completion := decimal.Zero
	for key, tr := range doc.Triggers {
		triggers = append(triggers, TriggerSummary{
			Key:           key,
			Name:          tr.Name,
			Status:        tr.Status,
			CompletionPct: tr.CompletionPct,
			TargetDate:    tr.TargetDate,
		})
		completion = completion.Add(tr.CompletionPct)
	}
	sort.Slice(triggers, func(i, j int) bool {
		if !triggers[i].CompletionPct.Equal(triggers[j].CompletionPct) {
			return triggers[i].CompletionPct.GreaterThan(triggers[j].CompletionPct)
		}
		return triggers[i].Key < triggers[j].Key
	})

	average := decimal.Zero
	if len(triggers) > 0 {
		average = completion.Div(decimal.NewFromInt(int64(len(triggers)))).Round(2)
	}

	return &Summary{
		Metrics:           doc.Metrics,
		Horizon:           horizon,
		Scenarios:         scenarios,
		WeightedTarget:    weighted,
		ProbabilityMass:   mass,
		Triggers:          triggers,
		AverageCompletion: average,
	}, nil
}
