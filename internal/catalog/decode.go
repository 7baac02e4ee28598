package catalog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/util"
)

var (
	ErrUnsupportedFile = errors.New("please select an Excel (.xlsx, .xls) or CSV file")
	ErrEmptyCatalog    = errors.New("the file appears to be empty or invalid")
	ErrNoItemCode      = errors.New("file must contain an Item Code column")
)

func SourceFor(fileName string) (internal.CatalogSource, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx", ".xls", ".xlsm":
		return internal.SourceXLSX, nil
	case ".csv":
		return internal.SourceCSV, nil
	case ".html", ".htm":
		return internal.SourceHTML, nil
	default:
		return "", ErrUnsupportedFile
	}
}

// Decode turns a master file into catalog rows and checks that it is usable:
// at least one row and an item-code column in the header.
func Decode(fileName string, content []byte, charset string) ([]internal.CatalogRecord, error) {
	source, err := SourceFor(fileName)
	if err != nil {
		return nil, err
	}

	var headers []string
	var rows []internal.CatalogRecord
	switch source {
	case internal.SourceXLSX:
		headers, rows, err = decodeXLSX(content)
	case internal.SourceCSV:
		headers, rows, err = decodeCSV(content, charset)
	case internal.SourceHTML:
		headers, rows, err = decodeHTML(content)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(fileName), err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyCatalog
	}
	if !HasItemCodeColumn(headers) {
		return nil, ErrNoItemCode
	}
	return rows, nil
}

func decodeXLSX(content []byte) ([]string, []internal.CatalogRecord, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, nil
	}
	sheet := sheets[0]
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, err
	}

	headerAt := -1
	for i, row := range rows {
		if !blankRow(row) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return nil, nil, nil
	}
	headers := uniqueHeaders(rows[headerAt])

	out := make([]internal.CatalogRecord, 0, len(rows)-headerAt-1)
	for i := headerAt + 1; i < len(rows); i++ {
		cells := rows[i]
		if blankRow(cells) {
			continue
		}
		rec := internal.CatalogRecord{}
		for c, header := range headers {
			if header == "" {
				continue
			}
			raw := ""
			if c < len(cells) {
				raw = cells[c]
			}
			rec[header] = xlsxValue(f, sheet, c, i, raw)
		}
		out = append(out, rec)
	}
	return headers, out, nil
}

// xlsxValue keeps numeric cells as numbers and everything else as text.
func xlsxValue(f *excelize.File, sheet string, col, row int, raw string) any {
	if raw == "" {
		return ""
	}
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return raw
	}
	typ, err := f.GetCellType(sheet, cell)
	if err != nil {
		return raw
	}
	if typ != excelize.CellTypeNumber && typ != excelize.CellTypeUnset {
		return raw
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}
	return raw
}

func decodeCSV(content []byte, charset string) ([]string, []internal.CatalogRecord, error) {
	text, err := decodeText(content, charset)
	if err != nil {
		return nil, nil, err
	}

	r := csv.NewReader(strings.NewReader(text))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var headers []string
	out := []internal.CatalogRecord{}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		if headers == nil {
			if blankRow(record) {
				continue
			}
			headers = uniqueHeaders(record)
			continue
		}
		// short rows are dropped, as are blank lines
		if len(record) < len(headers) || blankRow(record) {
			continue
		}
		rec := internal.CatalogRecord{}
		for c, header := range headers {
			if header == "" {
				continue
			}
			rec[header] = strings.TrimSpace(record[c])
		}
		out = append(out, rec)
	}
	return headers, out, nil
}

// decodeText converts CSV bytes to UTF-8. "auto" honours a BOM, accepts valid
// UTF-8, and otherwise assumes Windows-1256 (Arabic).
func decodeText(content []byte, charset string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(charset))
	var enc encoding.Encoding
	switch name {
	case "", "auto":
		switch {
		case hasUTF16BOM(content):
			enc = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
		case utf8.Valid(content):
			enc = unicode.UTF8BOM
		default:
			enc = charmap.Windows1256
		}
	default:
		var err error
		enc, err = htmlindex.Get(name)
		if err != nil {
			return "", fmt.Errorf("unknown charset %q: %w", charset, err)
		}
	}

	decoder := unicode.BOMOverride(enc.NewDecoder())
	out, _, err := transform.Bytes(decoder, content)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func hasUTF16BOM(content []byte) bool {
	return len(content) >= 2 && ((content[0] == 0xFF && content[1] == 0xFE) || (content[0] == 0xFE && content[1] == 0xFF))
}

func decodeHTML(content []byte) ([]string, []internal.CatalogRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, nil, err
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, nil, nil
	}
	rows := table.Find("tr")
	if rows.Length() < 2 {
		return nil, nil, nil
	}

	raw := []string{}
	rows.First().Find("th,td").Each(func(_ int, cell *goquery.Selection) {
		raw = append(raw, util.NormalizeSpaces(cell.Text()))
	})
	headers := uniqueHeaders(raw)

	out := []internal.CatalogRecord{}
	rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
		cells := []string{}
		row.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, util.NormalizeSpaces(cell.Text()))
		})
		if blankRow(cells) {
			return
		}
		rec := internal.CatalogRecord{}
		for c, header := range headers {
			if header == "" {
				continue
			}
			value := ""
			if c < len(cells) {
				value = cells[c]
			}
			rec[header] = value
		}
		out = append(out, rec)
	})
	return headers, out, nil
}

// uniqueHeaders trims header cells and suffixes repeats with _1, _2, ...
func uniqueHeaders(cells []string) []string {
	seen := map[string]int{}
	out := make([]string, len(cells))
	for i, c := range cells {
		h := strings.TrimSpace(strings.Trim(strings.TrimSpace(c), `"`))
		h = strings.TrimPrefix(h, "\ufeff")
		if h == "" {
			continue
		}
		if n, ok := seen[h]; ok {
			seen[h] = n + 1
			h = h + "_" + strconv.Itoa(n+1)
		} else {
			seen[h] = 0
		}
		out[i] = h
	}
	return out
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
