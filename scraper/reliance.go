package scraper

import (
	"context"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"price-intel/models"
	"price-intel/utils"
)

const reliancePriceSelector = "div[class*='price']"

// RelianceAdapter extracts price and availability from Reliance Digital
// product pages. Availability has no dedicated element, so it is read from
// the rendered body text.
type RelianceAdapter struct {
	logger *utils.Logger
}

func NewReliance(logger *utils.Logger) *RelianceAdapter {
	return &RelianceAdapter{logger: logger}
}

func (r *RelianceAdapter) Site() string { return models.SiteReliance }

func (r *RelianceAdapter) Extract(ctx context.Context, url string) (string, string) {
	tabCtx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, 60*time.Second)
	defer cancelTimeout()

	var bodyText string
	var priceText string

	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible("h1", chromedp.ByQuery),
		chromedp.Sleep(2*time.Second),
		chromedp.Evaluate(bodyTextJS, &bodyText),
		chromedp.Evaluate(elementTextJS(reliancePriceSelector), &priceText),
	)
	if err != nil {
		r.logger.Warn("[reliance] extraction failed for %s: %v", url, err)
		return "", "Error"
	}

	stock := "In Stock"
	if strings.Contains(strings.ToLower(bodyText), "currently unavailable") {
		stock = "Out of Stock"
	}

	return normalizeReliancePrice(priceText), stock
}

// normalizeReliancePrice strips the currency symbol, separators, newlines
// and the ".00" paise suffix Reliance renders on every price.
func normalizeReliancePrice(raw string) string {
	r := strings.NewReplacer("₹", "", ",", "", "\n", "")
	s := strings.TrimSpace(r.Replace(raw))
	s = strings.TrimSuffix(s, ".00")
	s = strings.TrimSpace(s)
	if !hasDigit(s) {
		return ""
	}
	return s
}
