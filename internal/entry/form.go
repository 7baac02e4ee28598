package entry

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/util"
)

const MinRows = 3

var (
	ErrInvalidRow        = errors.New("please select valid future dates for all expiry fields")
	ErrNothingToSave     = errors.New("please fill at least one quantity with a valid future expiry date")
	ErrLastRowIncomplete = errors.New("fill the last quantity row with a valid date before adding another")
	ErrMinRows           = fmt.Errorf("at least %d quantity rows are kept", MinRows)
	ErrRowIndex          = errors.New("quantity row out of range")
	ErrUnknownField      = errors.New("unknown quantity row field")
)

// RowError names the row that blocked a save.
type RowError struct {
	Index int
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Index+1, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

type RowField string

const (
	FieldQuantity RowField = "quantity"
	FieldDay      RowField = "day"
	FieldMonth    RowField = "month"
	FieldYear     RowField = "year"
)

// Form is the quantity/expiry editor for one found item.
type Form struct {
	rows []internal.QuantityRow
}

func NewForm() *Form {
	return &Form{rows: make([]internal.QuantityRow, MinRows)}
}

// FormFromRows starts a form from prefilled rows, padded to MinRows.
func FormFromRows(rows []internal.QuantityRow) *Form {
	f := &Form{rows: append([]internal.QuantityRow(nil), rows...)}
	for len(f.rows) < MinRows {
		f.rows = append(f.rows, internal.QuantityRow{})
	}
	return f
}

func (f *Form) Rows() []internal.QuantityRow {
	return append([]internal.QuantityRow(nil), f.rows...)
}

func (f *Form) Len() int {
	return len(f.rows)
}

// Set updates one field. Quantities are normalized to plain decimals.
func (f *Form) Set(i int, field RowField, value string) error {
	if i < 0 || i >= len(f.rows) {
		return ErrRowIndex
	}
	row := f.rows[i]
	switch field {
	case FieldQuantity:
		q, err := util.NormalizeQuantity(value)
		if err != nil {
			return err
		}
		row.Quantity = q
	case FieldDay:
		row.Day = strings.TrimSpace(value)
	case FieldMonth:
		row.Month = strings.TrimSpace(value)
	case FieldYear:
		row.Year = strings.TrimSpace(value)
	default:
		return ErrUnknownField
	}
	f.rows[i] = row
	return nil
}

func (f *Form) AddRow(now time.Time) error {
	last := f.rows[len(f.rows)-1]
	if strings.TrimSpace(last.Quantity) == "" || !Valid(last, now) {
		return ErrLastRowIncomplete
	}
	f.rows = append(f.rows, internal.QuantityRow{})
	return nil
}

func (f *Form) RemoveRow(i int) error {
	if i < 0 || i >= len(f.rows) {
		return ErrRowIndex
	}
	if len(f.rows) <= MinRows {
		return ErrMinRows
	}
	f.rows = append(f.rows[:i], f.rows[i+1:]...)
	return nil
}

// Collect returns the committable entries in row order. A row with a quantity
// and a complete but invalid date refuses the whole save.
func (f *Form) Collect(now time.Time) ([]internal.QuantityEntry, error) {
	return Collect(f.rows, now)
}

func (f *Form) Reset() {
	f.rows = make([]internal.QuantityRow, MinRows)
}

func Collect(rows []internal.QuantityRow, now time.Time) ([]internal.QuantityEntry, error) {
	for i, row := range rows {
		if strings.TrimSpace(row.Quantity) != "" && Complete(row) && !Valid(row, now) {
			return nil, &RowError{Index: i, Err: ErrInvalidRow}
		}
	}

	out := []internal.QuantityEntry{}
	for _, row := range rows {
		if entry, ok := Commit(row, now); ok {
			out = append(out, entry)
		}
	}
	if len(out) == 0 {
		return nil, ErrNothingToSave
	}
	return out, nil
}
