package entry

import (
	"strconv"
	"strings"
	"time"

	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal"
)

// Complete reports whether day, month and year are all filled in.
func Complete(row internal.QuantityRow) bool {
	return strings.TrimSpace(row.Day) != "" && strings.TrimSpace(row.Month) != "" && strings.TrimSpace(row.Year) != ""
}

// Expiry builds the local-midnight date of a complete row. It fails when a part
// is not a number or when the day overflows the month (31 Feb).
func Expiry(row internal.QuantityRow, loc *time.Location) (time.Time, bool) {
	if !Complete(row) {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(strings.TrimSpace(row.Day))
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(strings.TrimSpace(row.Month))
	if err != nil || month < 0 || month > 11 {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(strings.TrimSpace(row.Year))
	if err != nil || year < 1 {
		return time.Time{}, false
	}
	if day < 1 {
		return time.Time{}, false
	}

	d := time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, loc)
	if d.Day() != day || d.Month() != time.Month(month+1) || d.Year() != year {
		return time.Time{}, false
	}
	return d, true
}

// Valid reports whether the row holds a real calendar date that is today or later.
func Valid(row internal.QuantityRow, now time.Time) bool {
	d, ok := Expiry(row, now.Location())
	if !ok {
		return false
	}
	return !d.Before(Midnight(now))
}

// Commit turns a row into a committed entry when it has a quantity and a valid date.
func Commit(row internal.QuantityRow, now time.Time) (internal.QuantityEntry, bool) {
	if strings.TrimSpace(row.Quantity) == "" || !Valid(row, now) {
		return internal.QuantityEntry{}, false
	}
	d, _ := Expiry(row, now.Location())
	return internal.QuantityEntry{
		Quantity: strings.TrimSpace(row.Quantity),
		Expiry:   d.Format(time.RFC3339),
	}, true
}

func Midnight(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// RowFor splits a date into the editable day / 0-indexed month / year fields.
func RowFor(quantity string, d time.Time) internal.QuantityRow {
	return internal.QuantityRow{
		Quantity: quantity,
		Day:      strconv.Itoa(d.Day()),
		Month:    strconv.Itoa(int(d.Month()) - 1),
		Year:     strconv.Itoa(d.Year()),
	}
}
