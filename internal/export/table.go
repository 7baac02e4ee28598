package export

import (
	"strconv"

	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal"
)

var baseColumns = []string{"#", "Brand Name", "Item Code", "Item Description", "UOM"}

const descriptionColumn = 3

type Table struct {
	Columns []string
	Rows    [][]string
	// Slots is the number of Qty/Exp column pairs.
	Slots int
}

// QuantitySlots is the largest quantity count across items, at least 1.
func QuantitySlots(items []internal.ScannedItem) int {
	slots := 1
	for _, it := range items {
		if len(it.Quantities) > slots {
			slots = len(it.Quantities)
		}
	}
	return slots
}

func BuildTable(items []internal.ScannedItem) Table {
	slots := QuantitySlots(items)

	columns := append([]string(nil), baseColumns...)
	for i := 1; i <= slots; i++ {
		n := strconv.Itoa(i)
		columns = append(columns, "Qty "+n, "Exp "+n)
	}

	rows := make([][]string, 0, len(items))
	for i, it := range items {
		row := []string{strconv.Itoa(i + 1), it.BrandName, it.ItemCode, it.ItemDescription, it.UOM}
		for s := 0; s < slots; s++ {
			if s < len(it.Quantities) {
				q := it.Quantities[s]
				row = append(row, q.Quantity, FormatDate(q.Expiry))
			} else {
				row = append(row, "", "")
			}
		}
		rows = append(rows, row)
	}

	return Table{Columns: columns, Rows: rows, Slots: slots}
}
