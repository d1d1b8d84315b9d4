package storage

import "price-intel/models"

// ObservationWriter persists the raw scraped price log.
type ObservationWriter interface {
	WriteObservations(log []models.Observation) error
	Close() error
}

// ComparisonWriter persists the derived per-product decision table.
type ComparisonWriter interface {
	WriteComparisons(rows []*models.ProductComparison) error
	Close() error
}
