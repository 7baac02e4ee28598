package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Inventory"

// signature cells sit in these columns of the spreadsheet footer
const (
	leftSignatureCol  = 0
	midSignatureCol   = 3
	rightSignatureCol = 6
)

// BuildSheet lays the report out as spreadsheet rows: title, blank, header,
// items, two blanks, signatures.
func BuildSheet(report Report) [][]any {
	table := BuildTable(report.Items)

	rows := [][]any{{report.Title}, {}}

	header := make([]any, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c
	}
	rows = append(rows, header)

	for i, r := range table.Rows {
		row := make([]any, len(r))
		for j, cell := range r {
			row[j] = cell
		}
		row[0] = i + 1
		rows = append(rows, row)
	}

	rows = append(rows, []any{}, []any{})
	return append(rows, signatureRows(report.UseAlternateSignatureBlock())...)
}

func signatureRows(alternate bool) [][]any {
	row := func(cells map[int]string) []any {
		out := make([]any, rightSignatureCol+1)
		for i := range out {
			out[i] = ""
		}
		for col, v := range cells {
			out[col] = v
		}
		return out
	}

	if alternate {
		return [][]any{
			{declarationText},
			{},
			row(map[int]string{leftSignatureCol: inventorySignature, rightSignatureCol: declarantSignature}),
			row(map[int]string{leftSignatureCol: signatureLine, rightSignatureCol: signatureLine}),
		}
	}
	return [][]any{
		row(map[int]string{1: teamSignatures[0], midSignatureCol: teamSignatures[1], rightSignatureCol: teamSignatures[2]}),
		row(map[int]string{1: signatureLabelLine, midSignatureCol: signatureLabelLine, rightSignatureCol: signatureLabelLine}),
	}
}

var baseWidths = []float64{4, 15, 12, 35, 8}

func sheetBytes(report Report) ([]byte, error) {
	f, err := workbook(BuildSheet(report), QuantitySlots(report.Items))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func workbook(rows [][]any, slots int) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		_ = f.Close()
		return nil, err
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow(sheetName, cell, &r); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	widths := append([]float64(nil), baseWidths...)
	for i := 0; i < slots; i++ {
		widths = append(widths, 8, 14)
	}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheetName, col, col, w); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return f, nil
}
