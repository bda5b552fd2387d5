package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Poeflow    AppConfig        `yaml:"poeflow"`
	API        APIConfig        `yaml:"api"`
	Cache      CacheConfig      `yaml:"cache"`
	Analysis   AnalysisConfig   `yaml:"analysis"`
	Strategies StrategiesConfig `yaml:"strategies"`
	Storage    StorageConfig    `yaml:"storage"`
	Logging    LoggingConfig    `yaml:"logging"`
	Report     ReportConfig     `yaml:"report"`
}

type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type APIConfig struct {
	BaseURL           string        `yaml:"base_url"`
	TradeURLBase      string        `yaml:"trade_url_base"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond int           `yaml:"requests_per_second"`
	ItemBlacklist     []string      `yaml:"item_blacklist"`
	MinimumListings   int           `yaml:"minimum_listings"`
}

type CacheConfig struct {
	Dir string        `yaml:"dir"`
	TTL time.Duration `yaml:"ttl"`
}

type AnalysisConfig struct {
	DefaultLeague                   string             `yaml:"default_league"`
	AssumedFlipsPerHour             float64            `yaml:"assumed_flips_per_hour"`
	ShoppingListPriceToleranceChaos float64            `yaml:"shopping_list_price_tolerance_chaos"`
	NumJackpotsToDisplay            int                `yaml:"num_jackpots_to_display"`
	ProfitVolatilityRiskThresholds  map[string]float64 `yaml:"profit_volatility_risk_thresholds"`
}

type StrategiesConfig struct {
	GemCorruption GemCorruptionConfig `yaml:"gem_corruption"`
}

type GemCorruptionConfig struct {
	Probabilities      GemProbabilities `yaml:"probabilities"`
	MinProfitThreshold float64          `yaml:"min_profit_threshold"`
	MaxResults         int              `yaml:"max_results"`
}

// GemProbabilities are the corruption outcome probabilities. LevelChange
// covers both directions and is split evenly between +1 and -1 level.
type GemProbabilities struct {
	LevelChange   float64 `yaml:"level_change"`
	QualityChange float64 `yaml:"quality_change"`
	NoChange      float64 `yaml:"no_change"`
}

type StorageConfig struct {
	Database DatabaseConfig `yaml:"database"`
	Archive  ArchiveConfig  `yaml:"archive"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type ArchiveConfig struct {
	Enabled bool     `yaml:"enabled"`
	Dir     string   `yaml:"dir"`
	S3      S3Config `yaml:"s3"`
}

type S3Config struct {
	Enabled         bool   `yaml:"enabled"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	PathStyle       bool   `yaml:"path_style"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
	MaxAge int    `yaml:"max_age"`
}

type ReportConfig struct {
	Interval time.Duration `yaml:"interval"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Config{}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&config)

	// Override S3 settings from environment variables if available
	if config.Storage.Archive.S3.Enabled {
		if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" {
			config.Storage.Archive.S3.AccessKeyID = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" {
			config.Storage.Archive.S3.SecretAccessKey = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_REGION"); v != "" {
			config.Storage.Archive.S3.Region = strings.TrimSpace(v)
		}
		if v := os.Getenv("S3_BUCKET"); v != "" {
			config.Storage.Archive.S3.Bucket = strings.TrimSpace(v)
		}
	}
	config.Storage.Archive.S3.Bucket = strings.TrimSpace(config.Storage.Archive.S3.Bucket)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func applyDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "https://poe.ninja/api/data/"
	}
	if cfg.API.TradeURLBase == "" {
		cfg.API.TradeURLBase = "https://www.pathofexile.com/trade/exchange/"
	}
	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = 15 * time.Second
	}
	if cfg.API.RequestsPerSecond <= 0 {
		cfg.API.RequestsPerSecond = 4
	}
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = "cache"
	}
	if cfg.Cache.TTL <= 0 {
		cfg.Cache.TTL = 15 * time.Minute
	}
	if cfg.Analysis.DefaultLeague == "" {
		cfg.Analysis.DefaultLeague = "Standard"
	}
	if cfg.Analysis.AssumedFlipsPerHour <= 0 {
		cfg.Analysis.AssumedFlipsPerHour = 120
	}
	if cfg.Analysis.ShoppingListPriceToleranceChaos <= 0 {
		cfg.Analysis.ShoppingListPriceToleranceChaos = 2.0
	}
	if cfg.Analysis.NumJackpotsToDisplay <= 0 {
		cfg.Analysis.NumJackpotsToDisplay = 5
	}
	if len(cfg.Analysis.ProfitVolatilityRiskThresholds) == 0 {
		cfg.Analysis.ProfitVolatilityRiskThresholds = map[string]float64{
			"Low":    5,
			"Medium": 15,
			"High":   30,
		}
	}
	if cfg.Strategies.GemCorruption.Probabilities == (GemProbabilities{}) {
		cfg.Strategies.GemCorruption.Probabilities = GemProbabilities{
			LevelChange:   0.25,
			QualityChange: 0.25,
			NoChange:      0.5,
		}
	}
	if cfg.Strategies.GemCorruption.MinProfitThreshold <= 0 {
		cfg.Strategies.GemCorruption.MinProfitThreshold = 10
	}
	if cfg.Strategies.GemCorruption.MaxResults <= 0 {
		cfg.Strategies.GemCorruption.MaxResults = 15
	}
	if cfg.Storage.Database.Path == "" {
		cfg.Storage.Database.Path = "data/historical_trades.db"
	}
	if cfg.Storage.Archive.Dir == "" {
		cfg.Storage.Archive.Dir = "archive"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
	if cfg.Report.Interval <= 0 {
		cfg.Report.Interval = 30 * time.Second
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Poeflow.Name == "" {
		return fmt.Errorf("poeflow.name is required")
	}

	if cfg.Poeflow.Version == "" {
		return fmt.Errorf("poeflow.version is required")
	}

	if cfg.API.MinimumListings < 0 {
		return fmt.Errorf("api.minimum_listings must not be negative")
	}

	for profile, threshold := range cfg.Analysis.ProfitVolatilityRiskThresholds {
		if threshold <= 0 {
			return fmt.Errorf("analysis.profit_volatility_risk_thresholds[%s] must be greater than 0", profile)
		}
	}

	probs := cfg.Strategies.GemCorruption.Probabilities
	for name, p := range map[string]float64{
		"level_change":   probs.LevelChange,
		"quality_change": probs.QualityChange,
		"no_change":      probs.NoChange,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("strategies.gem_corruption.probabilities.%s must be within [0, 1]", name)
		}
	}
	if sum := probs.LevelChange + probs.QualityChange + probs.NoChange; sum > 1.0001 {
		return fmt.Errorf("strategies.gem_corruption.probabilities must not sum above 1, got %.3f", sum)
	}

	if cfg.Storage.Archive.S3.Enabled {
		if cfg.Storage.Archive.S3.Bucket == "" {
			return fmt.Errorf("storage.archive.s3.bucket is required when S3 is enabled")
		}
		if cfg.Storage.Archive.S3.Region == "" {
			return fmt.Errorf("storage.archive.s3.region is required when S3 is enabled")
		}
		if !isValidS3Bucket(cfg.Storage.Archive.S3.Bucket) {
			return fmt.Errorf("storage.archive.s3.bucket '%s' is invalid", cfg.Storage.Archive.S3.Bucket)
		}
	}

	return nil
}

var s3BucketRegexp = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)

func isValidS3Bucket(name string) bool {
	if len(name) < 3 || len(name) > 63 {
		return false
	}
	if strings.Contains(name, "..") || strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return false
	}
	return s3BucketRegexp.MatchString(name)
}
