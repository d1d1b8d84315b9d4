package scraper

import (
	"context"
	"time"

	"price-intel/config"
	"price-intel/models"
	"price-intel/utils"
)

// Runner drives the extraction pass: one catalog row at a time, in order,
// with a fixed delay between requests. There is no retry — a failed
// extraction is recorded and the run moves on.
type Runner struct {
	cfg      *config.Config
	logger   *utils.Logger
	registry Registry
	limiter  *utils.RateLimiter
}

// NewRunner creates a Runner with the full site adapter registry.
func NewRunner(cfg *config.Config, logger *utils.Logger) *Runner {
	return &Runner{
		cfg:      cfg,
		logger:   logger,
		registry: NewRegistry(logger),
		limiter:  utils.NewRateLimiter(cfg.RequestDelayMs),
	}
}

// Run scrapes every catalog row and returns the observation log, one row per
// (product, site). Rows for unknown sites and failed extractions carry an
// empty price and a sentinel stock value; no row is ever dropped.
func (r *Runner) Run(catalog []models.Product) []models.Observation {
	r.logger.Info("Running scrapers — %d catalog rows", len(catalog))

	allocCtx, cancel := NewAllocator(context.Background(), r.cfg.ChromeBin)
	defer cancel()

	log := make([]models.Observation, 0, len(catalog))

	for _, p := range catalog {
		r.limiter.Wait()
		r.logger.Info("Scraping: %s | %s", p.ProductName, p.Site)

		price, stock := r.extract(allocCtx, p)

		log = append(log, models.Observation{
			Timestamp:   time.Now(),
			ProductID:   p.ProductID,
			ProductName: p.ProductName,
			Site:        p.Site,
			Price:       price,
			Stock:       stock,
		})
	}

	r.logger.Info("Scraping complete — %d observations", len(log))
	return log
}

// extract dispatches to the matching adapter. A panicking adapter must not
// take the run down, so it degrades to an Error observation.
func (r *Runner) extract(ctx context.Context, p models.Product) (price, stock string) {
	adapter, ok := r.registry.Lookup(p.Site)
	if !ok {
		r.logger.Warn("Unsupported site %q for %s", p.Site, p.ProductName)
		return "", "Unsupported"
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Scraping failed for %s | %s: %v", p.Site, p.ProductName, rec)
			price, stock = "", "Error"
		}
	}()

	return adapter.Extract(ctx, p.URL)
}
