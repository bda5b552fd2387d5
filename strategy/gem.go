package strategy

import (
	"fmt"
	"sort"
	"strings"

	"poeflow/config"
	"poeflow/logger"
	"poeflow/models"
)

// GemInvest evaluates buying three level-1 quality-0 copies of a gem,
// leveling them through the vendor recipe into a 20/20, then corrupting
// it. This is a long-term position, not a repeatable flip, so it is
// ranked on total expected profit rather than hourly rate.
type GemInvest struct {
	cfg *config.Config
	log *logger.Log
}

func NewGemInvest(cfg *config.Config) *GemInvest {
	return &GemInvest{cfg: cfg, log: logger.GetLogger()}
}

func (s *GemInvest) Name() string {
	return "Gem Leveling & Corruption"
}

// Awakened gems sit in their own price tier and cannot be vendored three
// to one; they are excluded from the pool.
func isHighTierGem(name string) bool {
	return strings.HasPrefix(name, "Awakened ")
}

type gemVariants struct {
	buyL1Q0   map[string]float64
	sellL20   map[string]float64
	corruptUp map[string]float64 // level 21, quality 20
	corruptDn map[string]float64 // level 19, quality 20
	corruptQ  map[string]float64 // level 20, quality 23
}

func collectVariants(pool []models.Listing) gemVariants {
	v := gemVariants{
		buyL1Q0:   make(map[string]float64),
		sellL20:   make(map[string]float64),
		corruptUp: make(map[string]float64),
		corruptDn: make(map[string]float64),
		corruptQ:  make(map[string]float64),
	}
	put := func(m map[string]float64, name string, price float64) {
		if _, seen := m[name]; !seen {
			m[name] = price
		}
	}
	for _, l := range pool {
		if isHighTierGem(l.Name) {
			continue
		}
		switch {
		case !l.Corrupted && l.GemLevel == 1 && l.GemQuality == 0:
			put(v.buyL1Q0, l.Name, l.ChaosValue)
		case !l.Corrupted && l.GemLevel == 20 && l.GemQuality == 20:
			put(v.sellL20, l.Name, l.ChaosValue)
		case l.Corrupted && l.GemLevel == 21 && l.GemQuality == 20:
			put(v.corruptUp, l.Name, l.ChaosValue)
		case l.Corrupted && l.GemLevel == 19 && l.GemQuality == 20:
			put(v.corruptDn, l.Name, l.ChaosValue)
		case l.Corrupted && l.GemLevel == 20 && l.GemQuality == 23:
			put(v.corruptQ, l.Name, l.ChaosValue)
		}
	}
	return v
}

func (s *GemInvest) Analyze(snapshot models.MarketSnapshot, league string) []models.AnalysisResult {
	gems := snapshot[models.CategoryGem]
	currency := snapshot[models.CategoryCurrency]
	if len(gems) == 0 || len(currency) == 0 {
		return nil
	}

	vaalPrice, found := 0.0, false
	for _, l := range currency {
		if l.Name == "Vaal Orb" {
			vaalPrice, found = l.ChaosValue, true
			break
		}
	}
	if !found {
		s.log.WithComponent("gem_invest").Warn("could not find Vaal Orb price, skipping gem strategy")
		return nil
	}

	variants := collectVariants(gems)
	probs := s.cfg.Strategies.GemCorruption.Probabilities
	probUp := probs.LevelChange / 2
	probDown := probs.LevelChange / 2
	probQuality := probs.QualityChange

	type candidate struct {
		name         string
		buy          float64
		sell         float64
		inputCost    float64
		vendorProfit float64
		corruptionEV float64
		total        float64
	}

	var candidates []candidate
	for name, buy := range variants.buyL1Q0 {
		sell, ok := variants.sellL20[name]
		if !ok {
			continue
		}

		// Three copies feed the vendor recipe.
		inputCost := 3 * buy
		vendorProfit := sell - inputCost

		// Outcomes whose corrupted variant is not on the market contribute
		// nothing, good or bad, to the expected value.
		ev := -vaalPrice
		if p, ok := variants.corruptUp[name]; ok {
			ev += probUp * (p - sell)
		}
		if p, ok := variants.corruptDn[name]; ok {
			ev += probDown * (p - sell)
		}
		if p, ok := variants.corruptQ[name]; ok {
			ev += probQuality * (p - sell)
		}

		total := vendorProfit + ev
		if total <= s.cfg.Strategies.GemCorruption.MinProfitThreshold {
			continue
		}
		candidates = append(candidates, candidate{
			name:         name,
			buy:          buy,
			sell:         sell,
			inputCost:    inputCost,
			vendorProfit: vendorProfit,
			corruptionEV: ev,
			total:        total,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].total != candidates[j].total {
			return candidates[i].total > candidates[j].total
		}
		return candidates[i].name < candidates[j].name
	})
	if limit := s.cfg.Strategies.GemCorruption.MaxResults; len(candidates) > limit {
		candidates = candidates[:limit]
	}

	results := make([]models.AnalysisResult, 0, len(candidates))
	for _, c := range candidates {
		total := c.total
		results = append(results, models.AnalysisResult{
			StrategyName:     fmt.Sprintf("Gem Invest: %s", c.name),
			ProfitPerFlip:    c.vendorProfit,
			InputCost:        c.inputCost,
			Volatility:       0,
			RiskProfile:      "Investment",
			ProfitPerHourEst: 0,
			ShoppingList:     []string{fmt.Sprintf("%s (Level 1, 0%% Quality)", c.name)},
			TradeURL:         bulkTradeURL(s.cfg.API.TradeURLBase, []string{c.name}, league),
			Details: map[string]interface{}{
				"Buy Price (L1Q0)":     c.buy,
				"Vendor Recipe Profit": c.vendorProfit,
				"Corruption EV":        c.corruptionEV,
				"Sell Price (L20Q20)":  c.sell,
				"Sell Price (L21Q20)":  variants.corruptUp[c.name],
				"Sell Price (L19Q20)":  variants.corruptDn[c.name],
				"Sell Price (L20Q23)":  variants.corruptQ[c.name],
			},
			LongTerm:               true,
			ProfitWithCorruptionEV: models.Float64Ptr(total),
		})
	}
	return results
}
