package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"poeflow/logger"
	"poeflow/models"
)

const xlsxSheet = "Opportunities"

var xlsxHeader = []string{
	"Rank",
	"Strategy",
	"Profit per Flip (c)",
	"Input Cost (c)",
	"Volatility",
	"Risk Profile",
	"Profit per Hour (c)",
	"Liquidity Score",
	"Long Term",
	"Profit with Corruption EV (c)",
	"Shopping List",
	"Trade URL",
}

// WriteXLSX exports the ranked results to a spreadsheet for sharing
// outside the terminal. Values stay in raw chaos so the sheet can be
// sorted and charted.
func WriteXLSX(path string, results []models.AnalysisResult, league string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(xlsxSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	for col, title := range xlsxHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to compute header cell: %w", err)
		}
		if err := f.SetCellValue(xlsxSheet, cell, title); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, r := range results {
		row := []interface{}{
			i + 1,
			r.StrategyName,
			r.ProfitPerFlip,
			r.InputCost,
			r.Volatility,
			r.RiskProfile,
			r.ProfitPerHourEst,
			nil,
			r.LongTerm,
			nil,
			strings.Join(r.ShoppingList, "; "),
			r.TradeURL,
		}
		if r.LiquidityScore != nil {
			row[7] = *r.LiquidityScore
		}
		if r.ProfitWithCorruptionEV != nil {
			row[9] = *r.ProfitWithCorruptionEV
		}

		for col, value := range row {
			if value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("failed to compute cell: %w", err)
			}
			if err := f.SetCellValue(xlsxSheet, cell, value); err != nil {
				return fmt.Errorf("failed to write row %d: %w", i+1, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save spreadsheet: %w", err)
	}

	logger.GetLogger().WithComponent("report").WithFields(logger.Fields{
		"path":    path,
		"league":  league,
		"results": len(results),
	}).Info("spreadsheet exported")
	return nil
}
