package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"poeflow/archive"
	"poeflow/config"
	"poeflow/logger"
	"poeflow/market"
	"poeflow/report"
	"poeflow/storage"
	"poeflow/strategy"
)

func main() {
	log := logger.GetLogger()

	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	configPath := flag.String("config", "config/config.yml", "Path to configuration file")
	league := flag.String("league", "", "League to analyze (overrides configuration)")
	logDB := flag.Bool("log-db", false, "Persist this run's results to the trade history database")
	history := flag.String("history", "", "Print the profit trend for the named strategy")
	xlsxPath := flag.String("xlsx", "", "Export the ranked results to an xlsx file")
	details := flag.Int("details", 3, "Number of top results to show a full breakdown for")

	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("Failed to configure logger")
		os.Exit(1)
	}

	if *league == "" {
		*league = cfg.Analysis.DefaultLeague
	}

	log.WithFields(logger.Fields{
		"service": cfg.Poeflow.Name,
		"version": cfg.Poeflow.Version,
		"league":  *league,
	}).Info("starting poeflow")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if strings.ToLower(cfg.Logging.Level) == "report" {
		logger.StartReport(ctx, log, cfg.Report.Interval)
	}

	gateway := market.NewGateway(cfg)
	snapshot, rates := gateway.FetchAll(ctx, *league)

	runner := strategy.NewRunner(cfg)
	results := runner.RunAll(snapshot, *league)

	printer := report.NewPrinter(os.Stdout, rates)
	printer.Summary(results, *league)

	limit := *details
	if limit > len(results) {
		limit = len(results)
	}
	for _, r := range results[:limit] {
		printer.Breakdown(r)
	}

	if *xlsxPath != "" {
		if err := report.WriteXLSX(*xlsxPath, results, *league); err != nil {
			log.WithError(err).Error("Failed to export spreadsheet")
			os.Exit(1)
		}
	}

	if *logDB || *history != "" {
		store, err := storage.Open(cfg.Storage.Database.Path)
		if err != nil {
			log.WithError(err).Error("Failed to open trade history database")
			os.Exit(1)
		}
		defer store.Close()

		if *logDB {
			inserted, err := store.Append(results, *league)
			if err != nil {
				log.WithError(err).Error("Failed to persist results")
				os.Exit(1)
			}
			log.WithFields(logger.Fields{"inserted": inserted}).Info("results persisted")
		}

		if *history != "" {
			records, err := store.History(*history, *league)
			if err != nil {
				log.WithError(err).Error("Failed to query trade history")
				os.Exit(1)
			}
			printer.Trend(*history, records)
		}
	}

	if cfg.Storage.Archive.Enabled {
		archiver, err := archive.NewArchiver(cfg)
		if err != nil {
			log.WithError(err).Error("Failed to initialize snapshot archiver")
			os.Exit(1)
		}
		written, err := archiver.ArchiveSnapshot(ctx, snapshot, *league)
		if err != nil {
			log.WithError(err).Warn("Failed to archive snapshot")
		} else {
			log.WithFields(logger.Fields{"files": len(written)}).Info("snapshot archived")
		}
	}

	log.Info("poeflow finished")
}
