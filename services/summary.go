package services

import (
	"fmt"
	"strings"

	"price-intel/models"
	"price-intel/utils"
)

type SummaryService struct {
	logger *utils.Logger
}

func NewSummaryService(logger *utils.Logger) *SummaryService {
	return &SummaryService{logger: logger}
}

func (s *SummaryService) Generate(rows []*models.ProductComparison) *models.RunSummary {
	summary := &models.RunSummary{}

	if len(rows) == 0 {
		return summary
	}

	summary.TotalProducts = len(rows)

	for _, r := range rows {
		if r.ReliancePrice.Valid {
			summary.PricedProducts++
		}

		switch r.PricingPosition {
		case PositionOverpriced:
			summary.OverpricedCount++
		case PositionUnderpriced:
			summary.UnderpricedCount++
		case PositionCompetitive:
			summary.CompetitiveCount++
		}

		if r.StockOpportunity != NoStockOpportunity {
			summary.StockOpportunities++
		}

		if r.GapPercent.Valid {
			if r.GapPercent.Float64 > 0 {
				if summary.WidestPositiveGap == nil ||
					r.GapPercent.Float64 > summary.WidestPositiveGap.GapPercent.Float64 {
					summary.WidestPositiveGap = r
				}
			}
			if r.GapPercent.Float64 < 0 {
				if summary.WidestNegativeGap == nil ||
					r.GapPercent.Float64 < summary.WidestNegativeGap.GapPercent.Float64 {
					summary.WidestNegativeGap = r
				}
			}
		}
	}

	return summary
}

func (s *SummaryService) Print(r *models.RunSummary) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📊 PRICING INTELLIGENCE SUMMARY\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Products compared      : \033[1m%d\033[0m\n", r.TotalProducts)
	fmt.Printf("  With Reliance price    : \033[1m%d\033[0m\n", r.PricedProducts)
	fmt.Println()

	fmt.Printf("\033[1;33m  Pricing Position\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Overpriced vs market   : \033[1;31m%d\033[0m\n", r.OverpricedCount)
	fmt.Printf("  Underpriced vs market  : \033[1;32m%d\033[0m\n", r.UnderpricedCount)
	fmt.Printf("  Competitive            : \033[1m%d\033[0m\n", r.CompetitiveCount)
	fmt.Println()

	if r.WidestPositiveGap != nil {
		fmt.Printf("\033[1;33m  Widest Overpricing\033[0m\n")
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  %s\n", truncate(r.WidestPositiveGap.ProductName, 50))
		fmt.Printf("  Gap vs market : \033[1;31m+%.2f%%\033[0m\n", r.WidestPositiveGap.GapPercent.Float64)
		fmt.Println()
	}

	if r.WidestNegativeGap != nil {
		fmt.Printf("\033[1;33m  Widest Underpricing\033[0m\n")
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  %s\n", truncate(r.WidestNegativeGap.ProductName, 50))
		fmt.Printf("  Gap vs market : \033[1;32m%.2f%%\033[0m\n", r.WidestNegativeGap.GapPercent.Float64)
		fmt.Println()
	}

	fmt.Printf("\033[1;33m  Stock Opportunities\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.StockOpportunities == 0 {
		fmt.Printf("  No stock-based opportunities this run\n")
	} else {
		fmt.Printf("  Products with a stock-led price opportunity: \033[1m%d\033[0m\n",
			r.StockOpportunities)
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
