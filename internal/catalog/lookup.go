package catalog

import (
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/util"
)

func FindByBarcode(rows []internal.CatalogRecord, code string) (internal.CatalogRecord, bool) {
	return findBy(rows, FieldBarcode, code)
}

func FindByCode(rows []internal.CatalogRecord, code string) (internal.CatalogRecord, bool) {
	return findBy(rows, FieldItemCode, code)
}

// Lookup searches one column only. Barcode input never matches item codes and vice versa.
func Lookup(rows []internal.CatalogRecord, code string, kind internal.SearchKind) (internal.NormalizedItem, bool) {
	var (
		rec internal.CatalogRecord
		ok  bool
	)
	switch kind {
	case internal.SearchItemCode:
		rec, ok = FindByCode(rows, code)
	default:
		rec, ok = FindByBarcode(rows, code)
	}
	if !ok {
		return internal.NormalizedItem{}, false
	}
	return Normalize(rec), true
}

func findBy(rows []internal.CatalogRecord, field Field, code string) (internal.CatalogRecord, bool) {
	needle := util.NormalizeKey(code)
	if needle == "" {
		return nil, false
	}
	for _, rec := range rows {
		if util.NormalizeKey(FieldValue(rec, field)) == needle {
			return rec, true
		}
	}
	return nil, false
}
