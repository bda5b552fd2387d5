package report

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"poeflow/models"
	"poeflow/storage"
)

func sampleResults() []models.AnalysisResult {
	return []models.AnalysisResult{
		{
			StrategyName:     "Scarab: Full Gamble",
			ProfitPerFlip:    9,
			InputCost:        1,
			RiskProfile:      "Low",
			ProfitPerHourEst: 1080,
			LiquidityScore:   models.Float64Ptr(0.08),
			ShoppingList:     []string{"Rusted Sulphite Scarab"},
			TradeURL:         "https://trade.example/exchange/Standard?q=x",
			Details:          map[string]interface{}{"Pool Size": 3},
		},
		{
			StrategyName:           "Gem Invest: Forbidden Rite",
			ProfitPerFlip:          70,
			InputCost:              30,
			RiskProfile:            "Investment",
			LongTerm:               true,
			ProfitWithCorruptionEV: models.Float64Ptr(65),
		},
	}
}

func TestSummaryListsRankedResults(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, models.DefaultRates())

	p.Summary(sampleResults(), "Standard")
	out := buf.String()

	if !strings.Contains(out, "Scarab: Full Gamble") {
		t.Errorf("summary missing flip strategy:\n%s", out)
	}
	if !strings.Contains(out, "Gem Invest: Forbidden Rite") {
		t.Errorf("summary missing gem strategy:\n%s", out)
	}
	if !strings.Contains(out, "long term") {
		t.Errorf("long-term result not flagged in hourly column:\n%s", out)
	}
	if strings.Index(out, "Scarab: Full Gamble") > strings.Index(out, "Gem Invest") {
		t.Errorf("summary reordered the pre-ranked results:\n%s", out)
	}
}

func TestSummaryEmptyResults(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, models.DefaultRates())

	p.Summary(nil, "Standard")
	if !strings.Contains(buf.String(), "No profitable opportunities") {
		t.Errorf("missing empty-results message:\n%s", buf.String())
	}
}

func TestSummaryUsesDivineUnitsAboveRate(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, models.Rates{DivineToChaos: 200})

	p.Summary(sampleResults(), "Standard")
	// 1080c per hour is above the 200c divine rate.
	if !strings.Contains(buf.String(), "5.40 div") {
		t.Errorf("hourly profit not converted to divine units:\n%s", buf.String())
	}
}

func TestBreakdownIncludesDetailsAndTradeURL(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, models.DefaultRates())

	p.Breakdown(sampleResults()[0])
	out := buf.String()

	if !strings.Contains(out, "Pool Size: 3") {
		t.Errorf("breakdown missing details:\n%s", out)
	}
	if !strings.Contains(out, "Rusted Sulphite Scarab") {
		t.Errorf("breakdown missing shopping list:\n%s", out)
	}
	if !strings.Contains(out, "https://trade.example/exchange/Standard?q=x") {
		t.Errorf("breakdown missing trade url:\n%s", out)
	}
}

func TestTrendWindowCapsAtTen(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, models.DefaultRates())

	var records []storage.TradeRecord
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		records = append(records, storage.TradeRecord{
			Timestamp:     base.Add(time.Duration(i) * time.Hour),
			StrategyName:  "Scarab: Full Gamble",
			League:        "Standard",
			ProfitPerFlip: float64(i),
			RiskProfile:   "Low",
		})
	}

	p.Trend("Scarab: Full Gamble", records)
	out := buf.String()

	if strings.Contains(out, "2026-08-01 04:00") {
		t.Errorf("trend included entries outside the window:\n%s", out)
	}
	if !strings.Contains(out, "2026-08-01 05:00") || !strings.Contains(out, "2026-08-01 14:00") {
		t.Errorf("trend missing expected window entries:\n%s", out)
	}
}

func TestTrendEmptyHistory(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, models.DefaultRates())

	p.Trend("Scarab: Full Gamble", nil)
	if !strings.Contains(buf.String(), "No history recorded yet.") {
		t.Errorf("missing empty-history message:\n%s", buf.String())
	}
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opportunities.xlsx")
	if err := WriteXLSX(path, sampleResults(), "Standard"); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to reopen spreadsheet: %v", err)
	}
	defer f.Close()

	header, err := f.GetCellValue(xlsxSheet, "A1")
	if err != nil {
		t.Fatalf("failed to read header cell: %v", err)
	}
	if header != "Rank" {
		t.Errorf("header A1 = %q, want Rank", header)
	}

	name, err := f.GetCellValue(xlsxSheet, "B2")
	if err != nil {
		t.Fatalf("failed to read strategy cell: %v", err)
	}
	if name != "Scarab: Full Gamble" {
		t.Errorf("B2 = %q, want first-ranked strategy", name)
	}

	longTerm, err := f.GetCellValue(xlsxSheet, "I3")
	if err != nil {
		t.Fatalf("failed to read long-term cell: %v", err)
	}
	if longTerm != "TRUE" {
		t.Errorf("I3 = %q, want TRUE", longTerm)
	}
}
