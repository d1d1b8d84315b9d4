package scraper

import (
	"context"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"price-intel/models"
	"price-intel/utils"
)

// flipkartPriceSelectors covers the rotating obfuscated class names Flipkart
// ships; ordered by how recently each variant was observed in the wild.
var flipkartPriceSelectors = []string{
	"._30jeq3",
	"._16Jk6d",
	"._3I9_wc",
	".Nx9bqj",
	"div._25b18c ._30jeq3",
	"div.hZ3P6w.bnqy13",
}

const flipkartUnavailableSelector = "._16FRp0"

// FlipkartAdapter extracts price and availability from Flipkart product
// pages, including captcha/verification wall detection.
type FlipkartAdapter struct {
	logger *utils.Logger
}

func NewFlipkart(logger *utils.Logger) *FlipkartAdapter {
	return &FlipkartAdapter{logger: logger}
}

func (f *FlipkartAdapter) Site() string { return models.SiteFlipkart }

func (f *FlipkartAdapter) Extract(ctx context.Context, url string) (string, string) {
	tabCtx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, 60*time.Second)
	defer cancelTimeout()

	var priceTexts []string
	var unavailable string
	var bodyText string

	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(6*time.Second),
		chromedp.Evaluate(selectorTextsJS(flipkartPriceSelectors), &priceTexts),
		chromedp.Evaluate(elementTextJS(flipkartUnavailableSelector), &unavailable),
		chromedp.Evaluate(bodyTextJS, &bodyText),
	)
	if err != nil {
		f.logger.Warn("[flipkart] extraction failed for %s: %v", url, err)
		return "", "Error"
	}

	price := firstPrice(priceTexts, normalizeFlipkartPrice)

	if price == "" {
		lower := strings.ToLower(bodyText)
		if strings.Contains(lower, "captcha") || strings.Contains(lower, "verify") {
			return "", "Blocked"
		}
		return "", "Price not found"
	}

	// No unavailability banner means the product is buyable.
	stock := "In Stock"
	if s := strings.TrimSpace(unavailable); s != "" {
		stock = s
	}

	return price, stock
}

func normalizeFlipkartPrice(raw string) string {
	r := strings.NewReplacer("₹", "", ",", "")
	s := strings.TrimSpace(r.Replace(raw))
	if !hasDigit(s) {
		return ""
	}
	return s
}
