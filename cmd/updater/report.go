package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/atcwiz/xrp-dashboard/internal/domain"
	"github.com/atcwiz/xrp-dashboard/internal/usecase/dashboard"
)

const ruleWidth = 70

func printBanner(w io.Writer, now time.Time) {
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(w, "%s\nXRP Dashboard Update - %s\n%s\n", rule, now.Format("2006-01-02 15:04:05"), rule)
}

// printQuote renders the quote the way the dashboard shows it:
// price to 4 places, change to 2, market cap and volume in billions.
func printQuote(w io.Writer, quote *domain.Quote) {
	cur := strings.ToUpper(quote.VsCurrency)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.Append([]string{"Price", fmt.Sprintf("%s %s", quote.Price.StringFixed(4), cur)})
	table.Append([]string{"24h Change", signed(quote.PercentChange24h.StringFixed(2)) + "%"})
	table.Append([]string{"Market Cap", fmt.Sprintf("%sB %s", quote.MarketCapBillions().StringFixed(2), cur)})
	table.Append([]string{"Volume 24h", fmt.Sprintf("%sB %s", quote.VolumeBillions().StringFixed(2), cur)})
	table.Append([]string{"Fetched At", quote.FetchedAt.Format(time.RFC3339)})
	table.Render()
}

func printSummary(w io.Writer, summary *dashboard.Summary) {
	fmt.Fprintf(w, "Current price: %s (24h %s%%)\n\n",
		summary.Metrics.Price.StringFixed(4), signed(summary.Metrics.PriceChange24hPct.StringFixed(2)))

	scenarios := tablewriter.NewWriter(w)
	scenarios.SetHeader([]string{"Scenario", "Probability", "Target " + summary.Horizon, "Upside"})
	for _, s := range summary.Scenarios {
		target, upside := "-", "-"
		if s.HasTarget {
			target = s.Target.String()
			upside = signed(s.UpsidePct.StringFixed(2)) + "%"
		}
		scenarios.Append([]string{s.Key, s.Probability.Shift(2).StringFixed(0) + "%", target, upside})
	}
	scenarios.SetFooter([]string{"Weighted", summary.ProbabilityMass.Shift(2).StringFixed(0) + "%", summary.WeightedTarget.StringFixed(2), ""})
	scenarios.Render()

	fmt.Fprintln(w)

	triggers := tablewriter.NewWriter(w)
	triggers.SetHeader([]string{"Trigger", "Status", "Completion", "Target Date"})
	for _, tr := range summary.Triggers {
		name := tr.Name
		if name == "" {
			name = tr.Key
		}
		triggers.Append([]string{name, tr.Status, tr.CompletionPct.String() + "%", tr.TargetDate})
	}
	triggers.SetFooter([]string{"Average", "", summary.AverageCompletion.String() + "%", ""})
	triggers.Render()
}

func signed(s string) string {
	if strings.HasPrefix(s, "-") {
		return s
	}
	return "+" + s
}
