package scraper

import (
	"context"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"price-intel/models"
	"price-intel/utils"
)

// amazonPriceSelectors is a priority-ordered fallback chain; the first
// selector that yields an all-digit price after normalization wins.
var amazonPriceSelectors = []string{
	"span.a-price-whole",
	"span.a-offscreen",
	"#priceblock_ourprice",
	"#priceblock_dealprice",
	"#corePrice_feature_div span.a-price-whole",
}

// AmazonAdapter extracts price and availability from Amazon product pages.
type AmazonAdapter struct {
	logger *utils.Logger
}

func NewAmazon(logger *utils.Logger) *AmazonAdapter {
	return &AmazonAdapter{logger: logger}
}

func (a *AmazonAdapter) Site() string { return models.SiteAmazon }

// Extract loads the product page and reads price and stock. The long settle
// sleep is deliberate: the price widget is rendered client-side well after
// navigation completes.
func (a *AmazonAdapter) Extract(ctx context.Context, url string) (string, string) {
	tabCtx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, 90*time.Second)
	defer cancelTimeout()

	var priceTexts []string
	var availability string

	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(8*time.Second),
		chromedp.Evaluate(selectorTextsJS(amazonPriceSelectors), &priceTexts),
		chromedp.Evaluate(elementTextJS("#availability span"), &availability),
	)
	if err != nil {
		a.logger.Warn("[amazon] extraction failed for %s: %v", url, err)
		return "", "Error"
	}

	price := firstPrice(priceTexts, normalizeAmazonPrice)

	stock := "Unknown"
	if s := strings.TrimSpace(availability); s != "" {
		stock = s
	}

	return price, stock
}

// normalizeAmazonPrice strips the currency symbol, thousands separators,
// newlines and the decimal point; the result must be pure digits.
func normalizeAmazonPrice(raw string) string {
	r := strings.NewReplacer(",", "", "₹", "", "\n", "", ".", "")
	s := strings.TrimSpace(r.Replace(raw))
	if !allDigits(s) {
		return ""
	}
	return s
}
