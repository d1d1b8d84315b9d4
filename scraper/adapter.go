package scraper

import (
	"context"
	"strings"

	"price-intel/utils"
)

// Adapter is the uniform contract every site scraper implements: given a
// product URL it returns a normalized price string and a stock label.
// Adapters never return an error — extraction failures collapse into an
// empty price plus a sentinel stock value ("Error", "Blocked",
// "Price not found").
type Adapter interface {
	Site() string
	Extract(ctx context.Context, url string) (price, stock string)
}

// Registry maps lowercase site names to their adapters. Adding a site means
// adding an adapter here, not touching the runner.
type Registry map[string]Adapter

// NewRegistry builds the registry of known site adapters.
func NewRegistry(logger *utils.Logger) Registry {
	adapters := []Adapter{
		NewAmazon(logger),
		NewFlipkart(logger),
		NewReliance(logger),
	}

	reg := make(Registry, len(adapters))
	for _, a := range adapters {
		reg[strings.ToLower(a.Site())] = a
	}
	return reg
}

// Lookup resolves a catalog site name case-insensitively.
func (r Registry) Lookup(site string) (Adapter, bool) {
	a, ok := r[strings.ToLower(strings.TrimSpace(site))]
	return a, ok
}
