package storage

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"price-intel/models"
	"price-intel/utils"
)

// PostgresWriter persists observations and comparison results to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter. The ping is retried because the
// database container may still be coming up.
func NewPostgresWriter(dsn string, retry *utils.RetryConfig) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do("postgres-ping", db.Ping); err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS price_observations (
			id           SERIAL PRIMARY KEY,
			captured_at  TIMESTAMPTZ  NOT NULL,
			product_id   VARCHAR(64)  NOT NULL,
			product_name TEXT         NOT NULL,
			site         VARCHAR(64)  NOT NULL,
			price        NUMERIC(12,2),
			stock        TEXT         NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_observations_product ON price_observations(product_id);
		CREATE INDEX IF NOT EXISTS idx_observations_site    ON price_observations(site);

		CREATE TABLE IF NOT EXISTS price_comparisons (
			id                 SERIAL PRIMARY KEY,
			product_id         VARCHAR(64) NOT NULL,
			product_name       TEXT        NOT NULL,
			reliance_price     NUMERIC(12,2),
			amazon_price       NUMERIC(12,2),
			flipkart_price     NUMERIC(12,2),
			market_min_price   NUMERIC(12,2),
			price_gap          NUMERIC(12,2),
			gap_percent        NUMERIC(8,2),
			pricing_position   VARCHAR(40) NOT NULL,
			action_recommended VARCHAR(40) NOT NULL,
			reliance_stock     TEXT        NOT NULL DEFAULT '',
			amazon_stock       TEXT        NOT NULL DEFAULT '',
			flipkart_stock     TEXT        NOT NULL DEFAULT '',
			stock_opportunity  TEXT        NOT NULL DEFAULT '',
			created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_comparisons_product  ON price_comparisons(product_id);
		CREATE INDEX IF NOT EXISTS idx_comparisons_position ON price_comparisons(pricing_position);
	`)
	return err
}

// WriteObservations replaces the stored price log with the current run's.
func (pw *PostgresWriter) WriteObservations(log []models.Observation) error {
	if len(log) == 0 {
		return nil
	}

	if _, err := pw.db.Exec("DELETE FROM price_observations"); err != nil {
		return fmt.Errorf("postgres: clear observations: %w", err)
	}

	const batchSize = 50
	for i := 0; i < len(log); i += batchSize {
		end := i + batchSize
		if end > len(log) {
			end = len(log)
		}
		if err := pw.insertObservationBatch(log[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertObservationBatch(batch []models.Observation) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*6)

	for idx, o := range batch {
		base := idx * 6
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6))

		// Empty price means the extraction found nothing; store NULL.
		price := sql.NullString{String: o.Price, Valid: o.Price != ""}
		valueArgs = append(valueArgs,
			o.Timestamp, o.ProductID, o.ProductName, o.Site, price, o.Stock)
	}

	query := fmt.Sprintf(`
		INSERT INTO price_observations (captured_at, product_id, product_name, site, price, stock)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	if err != nil {
		return fmt.Errorf("postgres: insert observations: %w", err)
	}
	return nil
}

// WriteComparisons replaces the stored decision table with the current run's.
func (pw *PostgresWriter) WriteComparisons(rows []*models.ProductComparison) error {
	if len(rows) == 0 {
		return nil
	}

	if _, err := pw.db.Exec("DELETE FROM price_comparisons"); err != nil {
		return fmt.Errorf("postgres: clear comparisons: %w", err)
	}

	const batchSize = 50
	for i := 0; i < len(rows); i += batchSize {
		end := i + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := pw.insertComparisonBatch(rows[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertComparisonBatch(batch []*models.ProductComparison) error {
	const cols = 14
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, r := range batch {
		base := idx * cols
		placeholders := make([]string, cols)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")

		valueArgs = append(valueArgs,
			r.ProductID, r.ProductName,
			r.ReliancePrice, r.AmazonPrice, r.FlipkartPrice,
			r.MarketMinPrice, r.PriceGap, r.GapPercent,
			r.PricingPosition, r.ActionRecommended,
			r.RelianceStock, r.AmazonStock, r.FlipkartStock,
			r.StockOpportunity)
	}

	query := fmt.Sprintf(`
		INSERT INTO price_comparisons (
			product_id, product_name,
			reliance_price, amazon_price, flipkart_price,
			market_min_price, price_gap, gap_percent,
			pricing_position, action_recommended,
			reliance_stock, amazon_stock, flipkart_stock,
			stock_opportunity
		)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	if err != nil {
		return fmt.Errorf("postgres: insert comparisons: %w", err)
	}
	return nil
}

// FetchComparisons retrieves the stored decision table — used by the summary
// report.
func (pw *PostgresWriter) FetchComparisons() ([]*models.ProductComparison, error) {
	rows, err := pw.db.Query(`
		SELECT product_id, product_name,
		       reliance_price, amazon_price, flipkart_price,
		       market_min_price, price_gap, gap_percent,
		       pricing_position, action_recommended,
		       reliance_stock, amazon_stock, flipkart_stock,
		       stock_opportunity
		FROM price_comparisons
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch comparisons: %w", err)
	}
	defer rows.Close()

	var results []*models.ProductComparison
	for rows.Next() {
		r := &models.ProductComparison{}
		if err := rows.Scan(
			&r.ProductID, &r.ProductName,
			&r.ReliancePrice, &r.AmazonPrice, &r.FlipkartPrice,
			&r.MarketMinPrice, &r.PriceGap, &r.GapPercent,
			&r.PricingPosition, &r.ActionRecommended,
			&r.RelianceStock, &r.AmazonStock, &r.FlipkartStock,
			&r.StockOpportunity,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
