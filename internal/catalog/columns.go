package catalog

import (
	"strings"

	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/util"
)

type Field string

const (
	FieldBrandName       Field = "brandName"
	FieldItemCode        Field = "itemCode"
	FieldItemDescription Field = "itemDescription"
	FieldUOM             Field = "uom"
	FieldBarcode         Field = "barcode"
)

// headerCandidates lists, per canonical field, the header spellings seen in
// master files. Order is priority: the first non-empty candidate wins.
var headerCandidates = map[Field][]string{
	FieldBrandName:       {"Brand Name", "BrandName", "brand_name", "BRAND NAME"},
	FieldItemCode:        {"Item Code", "ItemCode", "item_code", "ITEM CODE"},
	FieldItemDescription: {"Item Description", "ItemDescription", "item_description", "ITEM DESCRIPTION"},
	FieldUOM:             {"Warehouse UOM", "UOM", "uom", "WAREHOUSE UOM"},
	FieldBarcode:         {"Item Barcode", "Barcode", "barcode", "ITEM BARCODE"},
}

// FieldValue returns the first non-empty value among the field's candidate headers.
func FieldValue(rec internal.CatalogRecord, field Field) string {
	for _, header := range headerCandidates[field] {
		raw, ok := rec[header]
		if !ok {
			continue
		}
		if value := util.Stringify(raw); value != "" {
			return value
		}
	}
	return ""
}

func Normalize(rec internal.CatalogRecord) internal.NormalizedItem {
	return internal.NormalizedItem{
		BrandName:       FieldValue(rec, FieldBrandName),
		ItemCode:        FieldValue(rec, FieldItemCode),
		ItemDescription: FieldValue(rec, FieldItemDescription),
		UOM:             FieldValue(rec, FieldUOM),
		Barcode:         FieldValue(rec, FieldBarcode),
	}
}

// HasItemCodeColumn reports whether any header mentions both "item" and "code".
func HasItemCodeColumn(headers []string) bool {
	for _, h := range headers {
		lower := strings.ToLower(h)
		if strings.Contains(lower, "item") && strings.Contains(lower, "code") {
			return true
		}
	}
	return false
}
