package scraper

import (
	"context"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"unicode"

	"github.com/chromedp/chromedp"
)

// NewAllocator sets up a headless Chrome exec allocator shared by all
// adapters for one run. The returned cancel func tears down the browser.
func NewAllocator(parent context.Context, chromeBin string) (context.Context, context.CancelFunc) {
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)

	// Suppress chromedp log noise
	silentCtx, cancelSilent := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	return silentCtx, func() {
		cancelSilent()
		cancelAlloc()
	}
}

// selectorTextsJS builds a JS expression yielding the innerText of the first
// match for each selector, in chain order. Selectors with no match yield "".
func selectorTextsJS(selectors []string) string {
	quoted := make([]string, len(selectors))
	for i, s := range selectors {
		quoted[i] = strconv.Quote(s)
	}

	return `(function() {
		var sels = [` + strings.Join(quoted, ",") + `];
		return sels.map(function(sel) {
			var el = document.querySelector(sel);
			return el ? el.innerText : "";
		});
	})()`
}

// elementTextJS builds a JS expression yielding the innerText of the first
// match for a single selector, or "" if absent.
func elementTextJS(selector string) string {
	return `(function() {
		var el = document.querySelector(` + strconv.Quote(selector) + `);
		return el ? el.innerText : "";
	})()`
}

const bodyTextJS = `document.body ? document.body.innerText : ""`

// firstPrice walks a selector fallback chain greedily: the first text that
// survives normalization wins, later candidates are ignored.
func firstPrice(texts []string, normalize func(string) string) string {
	for _, t := range texts {
		if p := normalize(t); p != "" {
			return p
		}
	}
	return ""
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
