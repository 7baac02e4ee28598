package catalog

import (
	"testing"

	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal"
)

func TestNormalizePriority(t *testing.T) {
	rec := internal.CatalogRecord{
		"BrandName":        "Ignored",
		"Brand Name":       "Almaisar",
		"ItemCode":         "",
		"item_code":        "A-100",
		"UOM":              "CTN",
		"Warehouse UOM":    "",
		"Barcode":          float64(6281234567890),
		"ITEM DESCRIPTION": "تمر",
	}
	got := Normalize(rec)
	want := internal.NormalizedItem{
		BrandName:       "Almaisar",
		ItemCode:        "A-100",
		ItemDescription: "تمر",
		UOM:             "CTN",
		Barcode:         "6281234567890",
	}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestNormalizeMissingFields(t *testing.T) {
	got := Normalize(internal.CatalogRecord{"Other": "x"})
	if got != (internal.NormalizedItem{}) {
		t.Fatalf("got %+v", got)
	}
}

func TestFindByBarcode(t *testing.T) {
	rows := []internal.CatalogRecord{
		{"Item Code": "X0", "Item Barcode": "111"},
		{"Item Code": "X1", "Item Barcode": "999"},
		{"Item Code": "X2", "Item Barcode": "999"},
	}
	rec, ok := FindByBarcode(rows, "999")
	if !ok {
		t.Fatalf("not found")
	}
	if Normalize(rec).ItemCode != "X1" {
		t.Fatalf("first match expected, got %v", rec)
	}
}

func TestFindCaseAndWhitespace(t *testing.T) {
	rows := []internal.CatalogRecord{{"Item Code": "abc123", "Barcode": "5"}}
	if _, ok := FindByCode(rows, " ABC123 "); !ok {
		t.Fatalf("expected trimmed case-insensitive match")
	}
}

func TestFindBlankNeverMatches(t *testing.T) {
	rows := []internal.CatalogRecord{{"Item Code": "", "Item Barcode": ""}}
	if _, ok := FindByCode(rows, "   "); ok {
		t.Fatalf("blank input matched")
	}
	if _, ok := FindByBarcode(rows, ""); ok {
		t.Fatalf("blank input matched")
	}
}

func TestLookupDoesNotMixColumns(t *testing.T) {
	rows := []internal.CatalogRecord{{"Item Code": "12345", "Item Barcode": "999"}}
	if _, ok := Lookup(rows, "12345", internal.SearchBarcode); ok {
		t.Fatalf("barcode search matched an item code")
	}
	if _, ok := Lookup(rows, "999", internal.SearchItemCode); ok {
		t.Fatalf("code search matched a barcode")
	}
	item, ok := Lookup(rows, "999", internal.SearchBarcode)
	if !ok || item.ItemCode != "12345" {
		t.Fatalf("got %+v ok=%v", item, ok)
	}
}

func TestHasItemCodeColumn(t *testing.T) {
	cases := []struct {
		headers []string
		want    bool
	}{
		{headers: []string{"Brand", "ITEM CODE"}, want: true},
		{headers: []string{"item_code"}, want: true},
		{headers: []string{"Code", "Item"}, want: false},
		{headers: nil, want: false},
	}
	for _, tc := range cases {
		if got := HasItemCodeColumn(tc.headers); got != tc.want {
			t.Fatalf("%v: got %v", tc.headers, got)
		}
	}
}
