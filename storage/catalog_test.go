package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products_master.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCatalog(t *testing.T) {
	path := writeTempCSV(t,
		"product_id,product_name,site,url\n"+
			"P1,Mixer Grinder,Reliance Digital,https://example.com/r1\n"+
			"P1,Mixer Grinder,Amazon,https://example.com/a1\n"+
			"P1,Mixer Grinder,Flipkart,https://example.com/f1\n")

	products, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(products))
	}
	if products[1].Site != "Amazon" || products[1].ProductID != "P1" {
		t.Errorf("row 1 parsed wrong: %+v", products[1])
	}
}

func TestLoadCatalogHeaderCaseInsensitive(t *testing.T) {
	path := writeTempCSV(t,
		"Product_ID,Product_Name,Site,URL\n"+
			"P1,Kettle,Amazon,https://example.com/a\n")

	products, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if products[0].ProductName != "Kettle" {
		t.Errorf("got %+v", products[0])
	}
}

func TestLoadCatalogMissingColumn(t *testing.T) {
	path := writeTempCSV(t,
		"product_id,product_name,url\n"+
			"P1,Kettle,https://example.com/a\n")

	if _, err := LoadCatalog(path); err == nil {
		t.Fatal("expected error for missing site column")
	}
}

func TestLoadCatalogEmpty(t *testing.T) {
	path := writeTempCSV(t, "product_id,product_name,site,url\n")

	if _, err := LoadCatalog(path); err == nil {
		t.Fatal("expected error for catalog with no rows")
	}
}

func TestLoadCatalogMissingFile(t *testing.T) {
	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
