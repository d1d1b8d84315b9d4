package storage

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"price-intel/models"
)

const timestampLayout = "2006-01-02 15:04:05"

// ObservationCSV writes the raw price log to a CSV file.
// It is safe for concurrent use.
type ObservationCSV struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewObservationCSV creates (or truncates) the price log CSV and writes the
// header row. Intermediate directories are created automatically.
func NewObservationCSV(path string) (*ObservationCSV, error) {
	f, w, err := createCSV(path, []string{
		"timestamp", "product_id", "product_name", "site", "price", "stock",
	})
	if err != nil {
		return nil, err
	}
	return &ObservationCSV{file: f, writer: w}, nil
}

// WriteObservations appends every observation row. Missing prices serialize
// as empty cells.
func (c *ObservationCSV) WriteObservations(log []models.Observation) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, o := range log {
		row := []string{
			o.Timestamp.Format(timestampLayout),
			o.ProductID,
			o.ProductName,
			o.Site,
			o.Price,
			o.Stock,
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write observation row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *ObservationCSV) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

// ComparisonCSV writes the per-product decision table to a CSV file.
type ComparisonCSV struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

func NewComparisonCSV(path string) (*ComparisonCSV, error) {
	f, w, err := createCSV(path, []string{
		"product_id", "product_name",
		"reliance_price", "amazon_price", "flipkart_price",
		"market_min_price", "price_gap", "gap_percent",
		"pricing_position", "action_recommended",
		"reliance_stock_status", "amazon_stock_status", "flipkart_stock_status",
		"stock_opportunity",
	})
	if err != nil {
		return nil, err
	}
	return &ComparisonCSV{file: f, writer: w}, nil
}

func (c *ComparisonCSV) WriteComparisons(rows []*models.ProductComparison) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range rows {
		row := []string{
			r.ProductID,
			r.ProductName,
			nullStr(r.ReliancePrice),
			nullStr(r.AmazonPrice),
			nullStr(r.FlipkartPrice),
			nullStr(r.MarketMinPrice),
			nullStr(r.PriceGap),
			nullStr(r.GapPercent),
			r.PricingPosition,
			r.ActionRecommended,
			r.RelianceStock,
			r.AmazonStock,
			r.FlipkartStock,
			r.StockOpportunity,
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write comparison row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

func (c *ComparisonCSV) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

func createCSV(path string, header []string) (*os.File, *csv.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return f, w, nil
}

// nullStr serializes a nullable numeric for a sheet sink: null becomes an
// empty cell, never "NaN" or "Inf".
func nullStr(v sql.NullFloat64) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Float64, 'f', -1, 64)
}
