package strategy

import (
	"fmt"
	"regexp"
	"sort"

	"poeflow/config"
	"poeflow/models"
)

// PricedItem is a named price used in result detail maps.
type PricedItem struct {
	Name       string
	ChaosValue float64
}

// ScarabFullGamble treats the whole scarab pool as a single 3-to-1
// gamble: buy the floor, vendor three, collect the pool's expected value.
type ScarabFullGamble struct {
	cfg *config.Config
}

func NewScarabFullGamble(cfg *config.Config) *ScarabFullGamble {
	return &ScarabFullGamble{cfg: cfg}
}

func (s *ScarabFullGamble) Name() string {
	return "Scarab Full Gamble"
}

func (s *ScarabFullGamble) Analyze(snapshot models.MarketSnapshot, league string) []models.AnalysisResult {
	pool := snapshot[models.CategoryScarab]
	if len(pool) == 0 {
		return nil
	}

	prices := make([]float64, len(pool))
	for i, l := range pool {
		prices[i] = l.ChaosValue
	}

	cheapest := minOf(prices)
	avgReturn := mean(prices)
	cost := 3 * cheapest
	profit := avgReturn - cost
	if profit <= 0 {
		return nil
	}

	liquidity := 0.0
	if avgReturn > 0 {
		liquidity = cheapest / avgReturn
	}

	var shoppingList []string
	for _, l := range pool {
		if l.ChaosValue < avgReturn/3 {
			shoppingList = append(shoppingList, l.Name)
		}
	}

	jackpots := make([]PricedItem, len(pool))
	for i, l := range pool {
		jackpots[i] = PricedItem{Name: l.Name, ChaosValue: l.ChaosValue}
	}
	sort.SliceStable(jackpots, func(i, j int) bool { return jackpots[i].ChaosValue > jackpots[j].ChaosValue })
	if n := s.cfg.Analysis.NumJackpotsToDisplay; len(jackpots) > n {
		jackpots = jackpots[:n]
	}

	stdDev := populationStdDev(prices)

	return []models.AnalysisResult{{
		StrategyName:     "Scarab: Full Gamble",
		ProfitPerFlip:    profit,
		InputCost:        cheapest,
		Volatility:       stdDev,
		RiskProfile:      RiskProfile(stdDev, s.cfg.Analysis.ProfitVolatilityRiskThresholds),
		ProfitPerHourEst: profit * s.cfg.Analysis.AssumedFlipsPerHour,
		LiquidityScore:   models.Float64Ptr(liquidity),
		ShoppingList:     shoppingList,
		TradeURL:         bulkTradeURL(s.cfg.API.TradeURLBase, shoppingList, league),
		Details: map[string]interface{}{
			"Jackpots":                  jackpots,
			"Pool Size":                 len(pool),
			"Recommended Max Buy Price": avgReturn / 3,
		},
	}}
}

// Scarab names follow either "<Type> Scarab" or "Scarab of <Type>".
var scarabTypeRe = regexp.MustCompile(`(\w+)\sScarab|Scarab\sof\s(\w+)`)

func extractScarabType(name string) string {
	m := scarabTypeRe.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return m[1]
	}
	return m[2]
}

// ScarabByType evaluates the 3-to-1 recipe per scarab type, surfacing the
// higher-variance gambles the full-pool strategy averages away.
type ScarabByType struct {
	cfg *config.Config
}

func NewScarabByType(cfg *config.Config) *ScarabByType {
	return &ScarabByType{cfg: cfg}
}

func (s *ScarabByType) Name() string {
	return "Scarab Flip by Type"
}

func (s *ScarabByType) Analyze(snapshot models.MarketSnapshot, league string) []models.AnalysisResult {
	pool := snapshot[models.CategoryScarab]
	if len(pool) == 0 {
		return nil
	}

	groups := make(map[string][]models.Listing)
	for _, l := range pool {
		scarabType := extractScarabType(l.Name)
		if scarabType == "" {
			continue
		}
		groups[scarabType] = append(groups[scarabType], l)
	}

	return analyzeGroups(s.cfg, groups, func(group string) string {
		return fmt.Sprintf("Scarab Type: %s", group)
	}, league)
}
