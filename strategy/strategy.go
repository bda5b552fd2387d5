package strategy

import (
	"poeflow/models"
)

// Strategy is a single profitability calculator. Analyze reads the shared
// snapshot and returns zero or more ranked opportunities; it must not
// mutate the snapshot.
type Strategy interface {
	Name() string
	Analyze(snapshot models.MarketSnapshot, league string) []models.AnalysisResult
}
