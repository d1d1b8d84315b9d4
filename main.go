package main

import (
	"fmt"
	"os"
	"time"

	"price-intel/config"
	"price-intel/scraper"
	"price-intel/services"
	"price-intel/storage"
	"price-intel/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Retail Price Intelligence Pipeline starting ===")
	logger.Info("Config — catalog: %s | request delay: %dms", cfg.CatalogPath, cfg.RequestDelayMs)

	catalog, err := storage.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		logger.Error("Failed to load product catalog: %v", err)
		os.Exit(1)
	}
	logger.Info("Loaded %d catalog rows", len(catalog))

	obsCSV, err := storage.NewObservationCSV(cfg.PriceLogPath)
	if err != nil {
		logger.Error("Failed to create price log CSV: %v", err)
		os.Exit(1)
	}
	defer obsCSV.Close()

	compCSV, err := storage.NewComparisonCSV(cfg.ComparisonPath)
	if err != nil {
		logger.Error("Failed to create comparison CSV: %v", err)
		os.Exit(1)
	}
	defer compCSV.Close()

	pgWriter, err := storage.NewPostgresWriter(cfg.DSN(), &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   2 * time.Second,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL: %v", err)
		logger.Error("Make sure Docker is running: docker compose up -d")
		os.Exit(1)
	}
	defer pgWriter.Close()

	runner := scraper.NewRunner(cfg, logger)
	observations := runner.Run(catalog)

	if len(observations) == 0 {
		logger.Error("No observations were recorded. Exiting.")
		os.Exit(1)
	}

	if err := obsCSV.WriteObservations(observations); err != nil {
		logger.Error("Price log CSV write failed: %v", err)
	} else {
		logger.Info("Price log saved to %s", cfg.PriceLogPath)
	}

	if err := pgWriter.WriteObservations(observations); err != nil {
		logger.Error("PostgreSQL observation write failed: %v", err)
	}

	comparer := services.NewComparer(logger)
	results := comparer.Compare(observations)

	if err := compCSV.WriteComparisons(results); err != nil {
		logger.Error("Comparison CSV write failed: %v", err)
	} else {
		logger.Info("Comparison results saved to %s", cfg.ComparisonPath)
	}

	if err := pgWriter.WriteComparisons(results); err != nil {
		logger.Error("PostgreSQL comparison write failed: %v", err)
	}

	dbResults, err := pgWriter.FetchComparisons()
	if err != nil {
		logger.Error("Failed to fetch comparisons from DB for summary: %v", err)
		dbResults = results
	}

	summarySvc := services.NewSummaryService(logger)
	report := summarySvc.Generate(dbResults)
	summarySvc.Print(report)

	fmt.Printf("  Done. Price log → %s | Comparison → %s | PostgreSQL (price_comparisons)\n\n",
		cfg.PriceLogPath, cfg.ComparisonPath)
}
