package strategy

import (
	"sort"

	"poeflow/config"
	"poeflow/models"
)

// analyzeGroups evaluates the 3-to-1 recipe for each pool of listings
// sharing a sub-category. Pools of one listing carry no flip opportunity
// and are skipped; so is any pool whose expected return does not beat
// three times its floor price.
func analyzeGroups(cfg *config.Config, groups map[string][]models.Listing, label func(group string) string, league string) []models.AnalysisResult {
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	tolerance := cfg.Analysis.ShoppingListPriceToleranceChaos
	flipsPerHour := cfg.Analysis.AssumedFlipsPerHour

	var results []models.AnalysisResult
	for _, key := range keys {
		pool := groups[key]
		if len(pool) <= 1 {
			continue
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
			continue
		}

		var shoppingList []string
		for _, l := range pool {
			if l.ChaosValue <= cheapest+tolerance {
				shoppingList = append(shoppingList, l.Name)
			}
		}

		liquidity := 0.0
		if avgReturn > 0 {
			liquidity = cheapest / avgReturn
		}
		stdDev := populationStdDev(prices)

		results = append(results, models.AnalysisResult{
			StrategyName:     label(key),
			ProfitPerFlip:    profit,
			InputCost:        cheapest,
			Volatility:       stdDev,
			RiskProfile:      RiskProfile(stdDev, cfg.Analysis.ProfitVolatilityRiskThresholds),
			ProfitPerHourEst: profit * flipsPerHour,
			LiquidityScore:   models.Float64Ptr(liquidity),
			ShoppingList:     shoppingList,
			TradeURL:         bulkTradeURL(cfg.API.TradeURLBase, shoppingList, league),
			Details: map[string]interface{}{
				"Jackpot":       maxOf(prices),
				"Pool Size":     len(pool),
				"Cost per Flip": cost,
			},
		})
	}
	return results
}
