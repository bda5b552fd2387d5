package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	glogger "gorm.io/gorm/logger"

	"poeflow/logger"
	"poeflow/models"
)

// TradeRecord is one persisted strategy result. The composite primary key
// makes re-inserting the same run a no-op, so callers can log the same
// snapshot twice without duplicating history.
type TradeRecord struct {
	Timestamp              time.Time `gorm:"primaryKey;column:timestamp"`
	StrategyName           string    `gorm:"primaryKey;column:strategy_name"`
	League                 string    `gorm:"primaryKey;column:league"`
	ProfitPerFlip          float64   `gorm:"column:profit_per_flip"`
	InputCost              float64   `gorm:"column:input_cost"`
	Volatility             float64   `gorm:"column:volatility"`
	RiskProfile            string    `gorm:"column:risk_profile"`
	ProfitPerHourEst       float64   `gorm:"column:profit_per_hour_est"`
	LiquidityScore         *float64  `gorm:"column:liquidity_score"`
	LongTerm               bool      `gorm:"column:long_term"`
	ProfitWithCorruptionEV *float64  `gorm:"column:profit_with_corruption_ev"`
}

func (TradeRecord) TableName() string {
	return "trade_results"
}

// Store persists analysis results to a local sqlite database for trend
// tracking across runs.
type Store struct {
	db  *gorm.DB
	log *logger.Log
}

// Open creates the database file (and its parent directory) if needed and
// migrates the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if err := db.AutoMigrate(&TradeRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate trade_results: %w", err)
	}

	return &Store{db: db, log: logger.GetLogger()}, nil
}

// Append logs one run's results under a single shared timestamp. Rows whose
// (timestamp, strategy_name, league) already exist are silently skipped.
func (s *Store) Append(results []models.AnalysisResult, league string) (int, error) {
	return s.appendAt(time.Now().UTC().Truncate(time.Second), results, league)
}

func (s *Store) appendAt(ts time.Time, results []models.AnalysisResult, league string) (int, error) {
	if len(results) == 0 {
		return 0, nil
	}

	records := make([]TradeRecord, 0, len(results))
	for _, r := range results {
		records = append(records, TradeRecord{
			Timestamp:              ts,
			StrategyName:           r.StrategyName,
			League:                 league,
			ProfitPerFlip:          r.ProfitPerFlip,
			InputCost:              r.InputCost,
			Volatility:             r.Volatility,
			RiskProfile:            r.RiskProfile,
			ProfitPerHourEst:       r.ProfitPerHourEst,
			LiquidityScore:         r.LiquidityScore,
			LongTerm:               r.LongTerm,
			ProfitWithCorruptionEV: r.ProfitWithCorruptionEV,
		})
	}

	tx := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&records)
	if tx.Error != nil {
		return 0, fmt.Errorf("failed to insert trade records: %w", tx.Error)
	}

	inserted := int(tx.RowsAffected)
	if skipped := len(records) - inserted; skipped > 0 {
		logger.IncrementDBDuplicate(skipped)
		s.log.WithComponent("storage").WithFields(logger.Fields{
			"skipped": skipped,
		}).Debug("duplicate trade records ignored")
	}
	logger.IncrementDBInsert(inserted)
	return inserted, nil
}

// History returns every stored record for one strategy in one league,
// oldest first.
func (s *Store) History(strategyName, league string) ([]TradeRecord, error) {
	var records []TradeRecord
	tx := s.db.
		Where("strategy_name = ? AND league = ?", strategyName, league).
		Order("timestamp asc").
		Find(&records)
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to query trade history: %w", tx.Error)
	}
	return records, nil
}

// Close releases the underlying sqlite handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
