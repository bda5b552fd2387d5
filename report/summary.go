package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"poeflow/models"
	"poeflow/storage"
)

// Printer renders analysis output for the terminal. Prices are formatted
// through the rates captured with the snapshot, so a run's report always
// uses the divine rate it was analyzed with.
type Printer struct {
	w     io.Writer
	rates models.Rates
}

func NewPrinter(w io.Writer, rates models.Rates) *Printer {
	return &Printer{w: w, rates: rates}
}

// Summary prints the ranked opportunity table. Results are assumed to be
// pre-sorted by the runner.
func (p *Printer) Summary(results []models.AnalysisResult, league string) {
	fmt.Fprintf(p.w, "\nTrading opportunities for %s (1 div = %s)\n\n", league, p.rates.FormatChaos(p.rates.DivineToChaos))
	if len(results) == 0 {
		fmt.Fprintln(p.w, "No profitable opportunities found.")
		return
	}

	tw := tabwriter.NewWriter(p.w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSTRATEGY\tPROFIT/FLIP\tCOST\tRISK\tPROFIT/HR")
	for i, r := range results {
		perHour := p.rates.FormatChaos(r.ProfitPerHourEst)
		if r.LongTerm {
			perHour = "long term"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			r.StrategyName,
			p.rates.FormatChaos(r.ProfitPerFlip),
			p.rates.FormatChaos(r.InputCost),
			r.RiskProfile,
			perHour,
		)
	}
	tw.Flush()
}

// Breakdown prints the full detail view for one result: strategy details
// in a stable order, the shopping list, and the bulk trade URL.
func (p *Printer) Breakdown(r models.AnalysisResult) {
	fmt.Fprintf(p.w, "\n--- %s ---\n", r.StrategyName)
	fmt.Fprintf(p.w, "Profit per flip: %s\n", p.rates.FormatChaos(r.ProfitPerFlip))
	fmt.Fprintf(p.w, "Input cost: %s\n", p.rates.FormatChaos(r.InputCost))
	fmt.Fprintf(p.w, "Risk profile: %s\n", r.RiskProfile)
	if r.LongTerm {
		if r.ProfitWithCorruptionEV != nil {
			fmt.Fprintf(p.w, "Total expected profit: %s\n", p.rates.FormatChaos(*r.ProfitWithCorruptionEV))
		}
	} else {
		fmt.Fprintf(p.w, "Profit per hour: %s\n", p.rates.FormatChaos(r.ProfitPerHourEst))
	}
	if r.LiquidityScore != nil {
		fmt.Fprintf(p.w, "Liquidity score: %.2f\n", *r.LiquidityScore)
	}

	keys := make([]string, 0, len(r.Details))
	for k := range r.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(p.w, "%s: %s\n", k, p.formatDetail(r.Details[k]))
	}

	if len(r.ShoppingList) > 0 {
		fmt.Fprintln(p.w, "Shopping list:")
		for _, item := range r.ShoppingList {
			fmt.Fprintf(p.w, "  - %s\n", item)
		}
	}
	if r.TradeURL != "" {
		fmt.Fprintf(p.w, "Trade URL: %s\n", r.TradeURL)
	}
}

func (p *Printer) formatDetail(v interface{}) string {
	switch val := v.(type) {
	case float64:
		return p.rates.FormatChaos(val)
	case []string:
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// trendWindow caps the trend view at the most recent runs.
const trendWindow = 10

// Trend prints the profit trajectory of one strategy across past runs,
// oldest first, limited to the last trendWindow entries.
func (p *Printer) Trend(strategyName string, records []storage.TradeRecord) {
	fmt.Fprintf(p.w, "\nTrend for %s\n", strategyName)
	if len(records) == 0 {
		fmt.Fprintln(p.w, "No history recorded yet.")
		return
	}
	if len(records) > trendWindow {
		records = records[len(records)-trendWindow:]
	}

	tw := tabwriter.NewWriter(p.w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tPROFIT/FLIP\tPROFIT/HR\tRISK")
	for _, rec := range records {
		perHour := p.rates.FormatChaos(rec.ProfitPerHourEst)
		if rec.LongTerm {
			perHour = "long term"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			rec.Timestamp.Format("2006-01-02 15:04"),
			p.rates.FormatChaos(rec.ProfitPerFlip),
			perHour,
			rec.RiskProfile,
		)
	}
	tw.Flush()
}
