package strategy

import (
	"fmt"
	"strings"

	"poeflow/config"
	"poeflow/models"
)

// extractTribe pulls the tribe out of a tattoo name, the first word after
// "of the". Names without the marker carry no tribe.
func extractTribe(name string) string {
	_, after, found := strings.Cut(name, " of the ")
	if !found {
		return ""
	}
	fields := strings.Fields(after)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// TattooFlip evaluates the 3-to-1 vendor recipe for tattoos by tribe.
// Journey tattoos are excluded, they do not participate in the recipe.
type TattooFlip struct {
	cfg *config.Config
}

func NewTattooFlip(cfg *config.Config) *TattooFlip {
	return &TattooFlip{cfg: cfg}
}

func (s *TattooFlip) Name() string {
	return "Tattoo Flip"
}

func (s *TattooFlip) Analyze(snapshot models.MarketSnapshot, league string) []models.AnalysisResult {
	pool := snapshot[models.CategoryTattoo]
	if len(pool) == 0 {
		return nil
	}

	groups := make(map[string][]models.Listing)
	for _, l := range pool {
		if strings.Contains(l.Name, "Journey") {
			continue
		}
		tribe := extractTribe(l.Name)
		if tribe == "" {
			continue
		}
		groups[tribe] = append(groups[tribe], l)
	}

	return analyzeGroups(s.cfg, groups, func(group string) string {
		return fmt.Sprintf("Tattoo: %s", group)
	}, league)
}
