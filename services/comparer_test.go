package services

import (
	"reflect"
	"testing"
	"time"

	"price-intel/models"
	"price-intel/utils"
)

func newTestComparer() *Comparer { return NewComparer(utils.NewLogger()) }

func obs(id, name, site, price, stock string) models.Observation {
	return models.Observation{
		Timestamp:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		ProductID:   id,
		ProductName: name,
		Site:        site,
		Price:       price,
		Stock:       stock,
	}
}

func TestCompareOverpriced(t *testing.T) {
	log := []models.Observation{
		obs("P1", "Mixer", "Reliance Digital", "1000", "In Stock"),
		obs("P1", "Mixer", "Amazon", "900", "In Stock"),
		obs("P1", "Mixer", "Flipkart", "", "Price not found"),
	}

	rows := newTestComparer().Compare(log)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]

	if !r.MarketMinPrice.Valid || r.MarketMinPrice.Float64 != 900 {
		t.Errorf("MarketMinPrice = %+v; want 900", r.MarketMinPrice)
	}
	if !r.PriceGap.Valid || r.PriceGap.Float64 != 100 {
		t.Errorf("PriceGap = %+v; want 100", r.PriceGap)
	}
	if !r.GapPercent.Valid || r.GapPercent.Float64 != 11.11 {
		t.Errorf("GapPercent = %+v; want 11.11", r.GapPercent)
	}
	if r.PricingPosition != PositionOverpriced {
		t.Errorf("PricingPosition = %q; want %q", r.PricingPosition, PositionOverpriced)
	}
	if r.ActionRecommended != ActionDecrease {
		t.Errorf("ActionRecommended = %q; want %q", r.ActionRecommended, ActionDecrease)
	}
}

func TestCompareCompetitive(t *testing.T) {
	log := []models.Observation{
		obs("P1", "Mixer", "Reliance Digital", "1000", "In Stock"),
		obs("P1", "Mixer", "Amazon", "1050", "In Stock"),
		obs("P1", "Mixer", "Flipkart", "980", "In Stock"),
	}

	r := newTestComparer().Compare(log)[0]

	if !r.MarketMinPrice.Valid || r.MarketMinPrice.Float64 != 980 {
		t.Errorf("MarketMinPrice = %+v; want 980", r.MarketMinPrice)
	}
	if !r.GapPercent.Valid || r.GapPercent.Float64 != 2.04 {
		t.Errorf("GapPercent = %+v; want 2.04", r.GapPercent)
	}
	if r.PricingPosition != PositionCompetitive || r.ActionRecommended != ActionMaintain {
		t.Errorf("got (%q, %q); want Competitive/Maintain", r.PricingPosition, r.ActionRecommended)
	}
}

func TestCompareUnderpriced(t *testing.T) {
	log := []models.Observation{
		obs("P1", "Mixer", "Reliance Digital", "800", "In Stock"),
		obs("P1", "Mixer", "Amazon", "1000", "In Stock"),
	}

	r := newTestComparer().Compare(log)[0]

	if !r.GapPercent.Valid || r.GapPercent.Float64 != -20 {
		t.Errorf("GapPercent = %+v; want -20", r.GapPercent)
	}
	if r.PricingPosition != PositionUnderpriced || r.ActionRecommended != ActionIncrease {
		t.Errorf("got (%q, %q); want Underpriced/Increase", r.PricingPosition, r.ActionRecommended)
	}
}

func TestCompareAllCompetitorPricesMissing(t *testing.T) {
	log := []models.Observation{
		obs("P1", "Mixer", "Reliance Digital", "1000", "In Stock"),
		obs("P1", "Mixer", "Amazon", "", "Error"),
		obs("P1", "Mixer", "Flipkart", "not-a-number", "In Stock"),
	}

	r := newTestComparer().Compare(log)[0]

	if r.MarketMinPrice.Valid {
		t.Errorf("MarketMinPrice should be null, got %v", r.MarketMinPrice.Float64)
	}
	if r.PriceGap.Valid || r.GapPercent.Valid {
		t.Error("gap metrics should be null when the market reference is null")
	}
	if r.PricingPosition != PositionCompetitive || r.ActionRecommended != ActionMaintain {
		t.Errorf("missing gap must classify neutral; got (%q, %q)", r.PricingPosition, r.ActionRecommended)
	}
}

func TestComparePartialCompetitorPrices(t *testing.T) {
	log := []models.Observation{
		obs("P1", "Mixer", "Amazon", "", "Error"),
		obs("P1", "Mixer", "Flipkart", "450", "In Stock"),
	}

	r := newTestComparer().Compare(log)[0]

	if !r.MarketMinPrice.Valid || r.MarketMinPrice.Float64 != 450 {
		t.Errorf("MarketMinPrice = %+v; want 450 (null competitor ignored)", r.MarketMinPrice)
	}
	if r.ReliancePrice.Valid {
		t.Error("ReliancePrice should be null when Reliance was never observed")
	}
	if r.PriceGap.Valid {
		t.Error("PriceGap should be null when the Reliance price is null")
	}
}

func TestCompareZeroMarketPrice(t *testing.T) {
	log := []models.Observation{
		obs("P1", "Mixer", "Reliance Digital", "1000", "In Stock"),
		obs("P1", "Mixer", "Amazon", "0", "In Stock"),
	}

	r := newTestComparer().Compare(log)[0]

	if r.GapPercent.Valid {
		t.Errorf("GapPercent should be null for a zero divisor, got %v", r.GapPercent.Float64)
	}
	if r.PricingPosition != PositionCompetitive {
		t.Errorf("zero-divisor row must classify neutral; got %q", r.PricingPosition)
	}
}

func TestCompareUnsupportedSiteRowSurvives(t *testing.T) {
	log := []models.Observation{
		obs("P1", "Mixer", "Croma", "", "Unsupported"),
	}

	rows := newTestComparer().Compare(log)
	if len(rows) != 1 {
		t.Fatalf("product with only an unsupported-site row must still appear; got %d rows", len(rows))
	}
	r := rows[0]
	if r.ReliancePrice.Valid || r.AmazonPrice.Valid || r.FlipkartPrice.Valid {
		t.Error("all site prices should be null")
	}
	if r.StockOpportunity != NoStockOpportunity {
		t.Errorf("StockOpportunity = %q; want %q", r.StockOpportunity, NoStockOpportunity)
	}
}

func TestCompareDuplicateObservationFirstWins(t *testing.T) {
	log := []models.Observation{
		obs("P1", "Mixer", "Amazon", "900", "In Stock"),
		obs("P1", "Mixer", "Amazon", "111", "Out of Stock"),
	}

	r := newTestComparer().Compare(log)[0]

	if !r.AmazonPrice.Valid || r.AmazonPrice.Float64 != 900 {
		t.Errorf("AmazonPrice = %+v; want first occurrence 900", r.AmazonPrice)
	}
	if r.AmazonStock != "In Stock" {
		t.Errorf("AmazonStock = %q; want first occurrence", r.AmazonStock)
	}
}

func TestCompareDeterministic(t *testing.T) {
	log := []models.Observation{
		obs("P2", "Kettle", "Reliance Digital", "2000", "In Stock"),
		obs("P1", "Mixer", "Reliance Digital", "1000", "In Stock"),
		obs("P2", "Kettle", "Amazon", "1500", "Out of Stock"),
		obs("P1", "Mixer", "Flipkart", "990", "In Stock"),
	}

	c := newTestComparer()
	first := c.Compare(log)
	second := c.Compare(log)

	if !reflect.DeepEqual(first, second) {
		t.Error("Compare is not deterministic for identical input")
	}
	if first[0].ProductID != "P2" || first[1].ProductID != "P1" {
		t.Errorf("rows must follow first-seen order; got %q, %q", first[0].ProductID, first[1].ProductID)
	}
}

func TestStockOpportunityRuleChain(t *testing.T) {
	tests := []struct {
		name                       string
		reliance, amazon, flipkart string
		want                       string
	}{
		{"all competitors OOS", "In Stock", "Out of Stock", "Currently Out of Stock", "Increase Reliance Price (all competitors OOS)"},
		{"amazon only OOS", "In Stock", "Out of Stock", "In Stock", "Increase Reliance Price (Amazon OOS)"},
		{"flipkart only OOS", "In Stock", "In Stock", "Out of Stock", "Increase Reliance Price (Flipkart OOS)"},
		{"reliance not in stock", "Out of Stock", "Out of Stock", "Out of Stock", NoStockOpportunity},
		{"everyone in stock", "In Stock", "In Stock", "In Stock", NoStockOpportunity},
		{"free-form casing", "in stock", "OUT OF STOCK", "", "Increase Reliance Price (Amazon OOS)"},
		{"missing statuses", "", "", "", NoStockOpportunity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stockOpportunity(tt.reliance, tt.amazon, tt.flipkart)
			if got != tt.want {
				t.Errorf("stockOpportunity(%q, %q, %q) = %q; want %q",
					tt.reliance, tt.amazon, tt.flipkart, got, tt.want)
			}
		})
	}
}

func TestStockOpportunityPrecedence(t *testing.T) {
	// Amazon OOS alone must yield the Amazon-specific message even though
	// the all-OOS rule's Amazon condition is also satisfied.
	got := stockOpportunity("In Stock", "Out of Stock", "In Stock")
	want := "Increase Reliance Price (Amazon OOS)"
	if got != want {
		t.Errorf("got %q; want %q", got, want)
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw   string
		want  float64
		valid bool
	}{
		{"1299", 1299, true},
		{"1299.50", 1299.50, true},
		{" 450 ", 450, true},
		{"", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
	}

	for _, tt := range tests {
		got := parsePrice(tt.raw)
		if got.Valid != tt.valid || (tt.valid && got.Float64 != tt.want) {
			t.Errorf("parsePrice(%q) = %+v; want (%v, valid=%v)", tt.raw, got, tt.want, tt.valid)
		}
	}
}

func TestRound2Negative(t *testing.T) {
	if got := round2(-11.114); got != -11.11 {
		t.Errorf("round2(-11.114) = %v; want -11.11", got)
	}
	if got := round2(-11.116); got != -11.12 {
		t.Errorf("round2(-11.116) = %v; want -11.12", got)
	}
}
