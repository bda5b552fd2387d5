package models

// AnalysisResult holds the outcome of a single strategy evaluation for one
// opportunity. Results are only constructed for profitable opportunities
// and are never mutated after creation.
type AnalysisResult struct {
	StrategyName           string
	ProfitPerFlip          float64
	InputCost              float64
	Volatility             float64
	RiskProfile            string
	ProfitPerHourEst       float64
	LiquidityScore         *float64
	ShoppingList           []string
	Details                map[string]interface{}
	LongTerm               bool
	TradeURL               string
	ProfitWithCorruptionEV *float64
}

// RankKey is the composite sort key used by the runner: hourly profit for
// flip-style results, corruption-adjusted profit for long-term ones,
// falling back to per-flip profit when no corruption figure is present.
func (r AnalysisResult) RankKey() float64 {
	if !r.LongTerm {
		return r.ProfitPerHourEst
	}
	if r.ProfitWithCorruptionEV != nil {
		return *r.ProfitWithCorruptionEV
	}
	return r.ProfitPerFlip
}

// Float64Ptr returns a pointer to v. Convenience for the optional
// result fields.
func Float64Ptr(v float64) *float64 {
	return &v
}
