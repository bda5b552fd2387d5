package strategy

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"poeflow/models"
)

type stubStrategy struct {
	name    string
	results []models.AnalysisResult
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Analyze(models.MarketSnapshot, string) []models.AnalysisResult {
	return s.results
}

type panicStrategy struct{}

func (panicStrategy) Name() string { return "panics" }

func (panicStrategy) Analyze(models.MarketSnapshot, string) []models.AnalysisResult {
	panic("boom")
}

func flipResult(name string, perHour float64) models.AnalysisResult {
	return models.AnalysisResult{StrategyName: name, ProfitPerHourEst: perHour}
}

func TestRunAllRanksFlipsAndInvestmentsTogether(t *testing.T) {
	invest := models.AnalysisResult{
		StrategyName:           "invest",
		LongTerm:               true,
		ProfitWithCorruptionEV: models.Float64Ptr(65),
	}
	runner := NewRunnerWith(
		&stubStrategy{name: "flips", results: []models.AnalysisResult{
			flipResult("slow", 50),
			flipResult("fast", 80),
		}},
		&stubStrategy{name: "gems", results: []models.AnalysisResult{invest}},
	)

	all := runner.RunAll(models.MarketSnapshot{}, "Standard")
	if len(all) != 3 {
		t.Fatalf("expected 3 results, got %d", len(all))
	}
	got := []string{all[0].StrategyName, all[1].StrategyName, all[2].StrategyName}
	want := []string{"fast", "invest", "slow"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ranking order = %v, want %v", got, want)
		}
	}
}

func TestRunAllTieBreakFollowsRegistrationOrder(t *testing.T) {
	runner := NewRunnerWith(
		&stubStrategy{name: "first", results: []models.AnalysisResult{flipResult("a", 40)}},
		&stubStrategy{name: "second", results: []models.AnalysisResult{flipResult("b", 40)}},
	)

	all := runner.RunAll(models.MarketSnapshot{}, "Standard")
	if len(all) != 2 {
		t.Fatalf("expected 2 results, got %d", len(all))
	}
	if all[0].StrategyName != "a" || all[1].StrategyName != "b" {
		t.Errorf("tie-break order = [%s, %s], want [a, b]", all[0].StrategyName, all[1].StrategyName)
	}
}

func TestRunAllContainsPanics(t *testing.T) {
	runner := NewRunnerWith(
		panicStrategy{},
		&stubStrategy{name: "ok", results: []models.AnalysisResult{flipResult("ok", 10)}},
	)

	all := runner.RunAll(models.MarketSnapshot{}, "Standard")
	if len(all) != 1 || all[0].StrategyName != "ok" {
		t.Fatalf("expected the surviving strategy's result, got %v", all)
	}
}

func TestBulkTradeURL(t *testing.T) {
	got := bulkTradeURL("https://trade.example/exchange/", []string{"Gilded Breach Scarab"}, "Standard")
	if !strings.HasPrefix(got, "https://trade.example/exchange/Standard?q=") {
		t.Fatalf("unexpected url prefix: %s", got)
	}

	raw, err := url.QueryUnescape(strings.SplitN(got, "?q=", 2)[1])
	if err != nil {
		t.Fatalf("unescape: %v", err)
	}
	var query tradeQuery
	if err := json.Unmarshal([]byte(raw), &query); err != nil {
		t.Fatalf("unmarshal query: %v", err)
	}
	if query.Exchange.Status.Option != "online" {
		t.Errorf("status = %q, want online", query.Exchange.Status.Option)
	}
	if len(query.Exchange.Have) != 1 || query.Exchange.Have[0] != "chaos" {
		t.Errorf("have = %v, want [chaos]", query.Exchange.Have)
	}
	if len(query.Exchange.Want) != 1 || query.Exchange.Want[0] != "Gilded Breach Scarab" {
		t.Errorf("want = %v", query.Exchange.Want)
	}
}

func TestBulkTradeURLEmptyList(t *testing.T) {
	if got := bulkTradeURL("https://trade.example/exchange/", nil, "Standard"); got != "N/A" {
		t.Errorf("expected N/A for empty shopping list, got %s", got)
	}
}
