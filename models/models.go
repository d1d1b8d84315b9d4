package models

import (
	"database/sql"
	"time"
)

// Site names as they appear in the product master sheet. Matching against
// the catalog is case-insensitive; these are the canonical forms used in
// output columns.
const (
	SiteReliance = "Reliance Digital"
	SiteAmazon   = "Amazon"
	SiteFlipkart = "Flipkart"
)

// Product is one row of the product master catalog: a single product URL on
// a single site. Loaded once per run and never mutated.
type Product struct {
	ProductID   string
	ProductName string
	Site        string
	URL         string
}

// Observation is one scraped data point for a (product, site) pair.
// Price is the raw normalized digit string from the page; empty means the
// price could not be extracted. Stock is free-form scraped text, with a few
// sentinel values ("Error", "Blocked", "Price not found", "Unsupported").
type Observation struct {
	Timestamp   time.Time
	ProductID   string
	ProductName string
	Site        string
	Price       string
	Stock       string
}

// ProductComparison is the per-product decision row derived from the full
// observation log. Nullable numerics stay invalid rather than defaulting to
// zero: a missing competitor price must never look like a free product.
type ProductComparison struct {
	ProductID   string
	ProductName string

	ReliancePrice sql.NullFloat64
	AmazonPrice   sql.NullFloat64
	FlipkartPrice sql.NullFloat64

	MarketMinPrice sql.NullFloat64
	PriceGap       sql.NullFloat64
	GapPercent     sql.NullFloat64

	PricingPosition   string
	ActionRecommended string

	RelianceStock string
	AmazonStock   string
	FlipkartStock string

	StockOpportunity string
}

// RunSummary holds the computed analytics over one comparison run.
type RunSummary struct {
	TotalProducts      int
	PricedProducts     int
	OverpricedCount    int
	UnderpricedCount   int
	CompetitiveCount   int
	StockOpportunities int
	WidestPositiveGap  *ProductComparison
	WidestNegativeGap  *ProductComparison
}
