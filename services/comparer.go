package services

import (
	"database/sql"
	"math"
	"strconv"
	"strings"

	"price-intel/models"
	"price-intel/utils"
)

// Pricing position and action labels. Thresholds are symmetric at ±5% of
// the market minimum.
const (
	PositionOverpriced  = "Overpriced vs Market"
	PositionUnderpriced = "Underpriced vs Market"
	PositionCompetitive = "Competitive"

	ActionDecrease = "Decrease Reliance Price"
	ActionIncrease = "Increase Reliance Price"
	ActionMaintain = "Maintain Reliance Price"

	NoStockOpportunity = "No stock-based opportunity"

	gapThresholdPercent = 5.0
)

// Comparer turns the flat observation log into one decision row per product:
// market reference price, gap metrics, pricing position and stock-led
// opportunity. Missing or malformed data degrades to null fields and the
// neutral classification, never to an error.
type Comparer struct {
	logger *utils.Logger
}

func NewComparer(logger *utils.Logger) *Comparer {
	return &Comparer{logger: logger}
}

// Compare groups observations by (product_id, product_name) in first-seen
// order and derives the comparison row for each product. Running it twice on
// the same log yields identical output.
func (c *Comparer) Compare(log []models.Observation) []*models.ProductComparison {
	c.logger.Info("Running price comparison over %d observations", len(log))

	type key struct{ id, name string }

	var order []key
	groups := make(map[key][]models.Observation)
	for _, o := range log {
		k := key{o.ProductID, o.ProductName}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], o)
	}

	results := make([]*models.ProductComparison, 0, len(order))
	for _, k := range order {
		row := &models.ProductComparison{ProductID: k.id, ProductName: k.name}

		// Pivot: first observation per site wins; sites with no
		// observation stay null/empty rather than dropping the product.
		var seenReliance, seenAmazon, seenFlipkart bool
		for _, o := range groups[k] {
			switch {
			case !seenReliance && strings.EqualFold(strings.TrimSpace(o.Site), models.SiteReliance):
				seenReliance = true
				row.ReliancePrice = parsePrice(o.Price)
				row.RelianceStock = o.Stock
			case !seenAmazon && strings.EqualFold(strings.TrimSpace(o.Site), models.SiteAmazon):
				seenAmazon = true
				row.AmazonPrice = parsePrice(o.Price)
				row.AmazonStock = o.Stock
			case !seenFlipkart && strings.EqualFold(strings.TrimSpace(o.Site), models.SiteFlipkart):
				seenFlipkart = true
				row.FlipkartPrice = parsePrice(o.Price)
				row.FlipkartStock = o.Stock
			}
		}

		row.MarketMinPrice = nullMin(row.AmazonPrice, row.FlipkartPrice)
		row.PriceGap = nullSub(row.ReliancePrice, row.MarketMinPrice)
		row.GapPercent = gapPercent(row.PriceGap, row.MarketMinPrice)

		switch {
		case row.GapPercent.Valid && row.GapPercent.Float64 > gapThresholdPercent:
			row.PricingPosition = PositionOverpriced
			row.ActionRecommended = ActionDecrease
		case row.GapPercent.Valid && row.GapPercent.Float64 < -gapThresholdPercent:
			row.PricingPosition = PositionUnderpriced
			row.ActionRecommended = ActionIncrease
		default:
			// Includes rows with no computable gap.
			row.PricingPosition = PositionCompetitive
			row.ActionRecommended = ActionMaintain
		}

		row.StockOpportunity = stockOpportunity(row.RelianceStock, row.AmazonStock, row.FlipkartStock)

		results = append(results, row)
	}

	c.logger.Info("Comparison complete — %d products", len(results))
	return results
}

// parsePrice converts a scraped price string to a nullable numeric.
// Anything unparseable (or non-finite) is null, never an error.
func parsePrice(raw string) sql.NullFloat64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return sql.NullFloat64{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

// nullMin returns the minimum of the non-null values, or null if all are.
func nullMin(values ...sql.NullFloat64) sql.NullFloat64 {
	min := sql.NullFloat64{}
	for _, v := range values {
		if !v.Valid {
			continue
		}
		if !min.Valid || v.Float64 < min.Float64 {
			min = v
		}
	}
	return min
}

func nullSub(a, b sql.NullFloat64) sql.NullFloat64 {
	if !a.Valid || !b.Valid {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: a.Float64 - b.Float64, Valid: true}
}

// gapPercent computes gap/reference×100 rounded to 2 decimals. A null or
// zero reference yields null — division by zero is missing data here.
func gapPercent(gap, reference sql.NullFloat64) sql.NullFloat64 {
	if !gap.Valid || !reference.Valid || reference.Float64 == 0 {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: round2(gap.Float64 / reference.Float64 * 100), Valid: true}
}

// stockOpportunity evaluates the ordered opportunity rules; first match
// wins. Matching is case-insensitive substring because stock text is
// free-form scraped copy, not a controlled vocabulary.
func stockOpportunity(reliance, amazon, flipkart string) string {
	relianceIn := containsFold(reliance, "in stock")
	amazonOut := containsFold(amazon, "out of stock")
	flipkartOut := containsFold(flipkart, "out of stock")

	switch {
	case relianceIn && amazonOut && flipkartOut:
		return "Increase Reliance Price (all competitors OOS)"
	case relianceIn && amazonOut:
		return "Increase Reliance Price (Amazon OOS)"
	case relianceIn && flipkartOut:
		return "Increase Reliance Price (Flipkart OOS)"
	}
	return NoStockOpportunity
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
