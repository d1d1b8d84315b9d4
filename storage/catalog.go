package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"price-intel/models"
)

var catalogColumns = []string{"product_id", "product_name", "site", "url"}

// LoadCatalog reads the product master CSV. A missing required column or an
// empty sheet is the one condition that aborts the whole run; everything
// downstream degrades row by row instead.
func LoadCatalog(path string) ([]models.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("catalog: parse %q: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("catalog: %q is empty", path)
	}

	index := make(map[string]int, len(records[0]))
	for i, col := range records[0] {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range catalogColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("catalog: required column %q missing in %q", col, path)
		}
	}

	field := func(row []string, col string) string {
		i := index[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	products := make([]models.Product, 0, len(records)-1)
	for _, row := range records[1:] {
		p := models.Product{
			ProductID:   field(row, "product_id"),
			ProductName: field(row, "product_name"),
			Site:        field(row, "site"),
			URL:         field(row, "url"),
		}
		if p.ProductID == "" && p.ProductName == "" && p.Site == "" && p.URL == "" {
			continue
		}
		products = append(products, p)
	}

	if len(products) == 0 {
		return nil, fmt.Errorf("catalog: %q has no product rows", path)
	}

	return products, nil
}
