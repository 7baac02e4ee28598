package export

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"

	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/config"
)

var reportDay = time.Date(2026, time.March, 1, 9, 30, 0, 0, time.Local)

func sampleItems() []internal.ScannedItem {
	return []internal.ScannedItem{
		{
			NormalizedItem: internal.NormalizedItem{BrandName: "Acme", ItemCode: "X1", ItemDescription: "زيت زيتون", UOM: "PCS", Barcode: "999"},
			ID:             "a",
			Quantities: []internal.QuantityEntry{
				{Quantity: "5", Expiry: time.Date(2027, time.January, 2, 0, 0, 0, 0, time.Local).Format(time.RFC3339)},
			},
		},
		{
			NormalizedItem: internal.NormalizedItem{ItemCode: "Y2"},
			ID:             "b",
			Quantities: []internal.QuantityEntry{
				{Quantity: "1", Expiry: "2027-02-03"},
				{Quantity: "2", Expiry: "2027-03-04"},
				{Quantity: "3", Expiry: "garbage"},
				{Quantity: "4", Expiry: ""},
			},
		},
	}
}

func TestFormatDate(t *testing.T) {
	cases := map[string]string{
		"2026-01-20":         "20/Jan/2026",
		"2026-12-05T00:00:00": "05/Dec/2026",
		"":                   "",
		"not a date":         "",
	}
	for in, want := range cases {
		if got := FormatDate(in); got != want {
			t.Fatalf("FormatDate(%q)=%q want %q", in, got, want)
		}
	}

	local := time.Date(2026, time.July, 9, 0, 0, 0, 0, time.Local).Format(time.RFC3339)
	if got := FormatDate(local); got != "09/Jul/2026" {
		t.Fatalf("rfc3339=%q", got)
	}
}

func TestDisplayDateRoundTrip(t *testing.T) {
	for d := time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local); d.Year() == 2026; d = d.AddDate(0, 0, 17) {
		s := FormatTime(d)
		back, err := ParseDisplayDate(s)
		if err != nil {
			t.Fatal(err)
		}
		if !back.Equal(d) {
			t.Fatalf("%s -> %v want %v", s, back, d)
		}
	}
	for _, bad := range []string{"31/Feb/2026", "1/Foo/2026", "2026-01-01", "aa/Jan/2026"} {
		if _, err := ParseDisplayDate(bad); err == nil {
			t.Fatalf("accepted %q", bad)
		}
	}
}

func TestNames(t *testing.T) {
	if got := SafeFilename("Shaab / Food!!"); got != "Shaab_Food" {
		t.Fatalf("safe=%q", got)
	}
	if got := Filename(SafeFilename("Shaab / Food!!"), reportDay, "pdf"); got != "Shaab_Food_20260301_0930.pdf" {
		t.Fatalf("filename=%q", got)
	}
	if got := Filename(SafeFilename("مخزن"), reportDay, ".xlsx"); got != "inventory_report_20260301_0930.xlsx" {
		t.Fatalf("fallback=%q", got)
	}
	if got := DisplayTitle("Shaab - Food", "123"); got != "Shaab - Food - 123" {
		t.Fatalf("title=%q", got)
	}
	if got := DisplayTitle("Shaab - Food", ""); got != "Shaab - Food" {
		t.Fatalf("title=%q", got)
	}
	if got := CleanReferenceCode("CV-12 34x567890123"); got != "1234567890" {
		t.Fatalf("ref=%q", got)
	}
}

func TestBuildTable(t *testing.T) {
	table := BuildTable(sampleItems())
	if table.Slots != 4 {
		t.Fatalf("slots=%d", table.Slots)
	}
	if len(table.Columns) != 5+8 || table.Columns[11] != "Qty 4" || table.Columns[12] != "Exp 4" {
		t.Fatalf("columns=%v", table.Columns)
	}
	first := table.Rows[0]
	if first[0] != "1" || first[2] != "X1" || first[5] != "5" || first[6] != "02/Jan/2027" || first[7] != "" {
		t.Fatalf("first=%v", first)
	}
	second := table.Rows[1]
	if second[1] != "" || second[6] != "03/Feb/2027" || second[10] != "" || second[11] != "4" {
		t.Fatalf("second=%v", second)
	}

	empty := BuildTable(nil)
	if empty.Slots != 1 || len(empty.Columns) != 7 || len(empty.Rows) != 0 {
		t.Fatalf("empty=%+v", empty)
	}
}

func TestRenderMarkupDefaultSignatures(t *testing.T) {
	report := NewReport("Shaab - Food", "", sampleItems(), reportDay)
	html, err := RenderMarkup(report)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}

	if got := doc.Find("h1").Text(); got != "Shaab - Food" {
		t.Fatalf("h1=%q", got)
	}
	if got := doc.Find(".date").Text(); got != "Date: 01/Mar/2026 | Total Items: 2" {
		t.Fatalf("date=%q", got)
	}
	if n := doc.Find("tbody tr").Length(); n != 2 {
		t.Fatalf("rows=%d", n)
	}
	desc := doc.Find("tbody tr").First().Find("td").Eq(3)
	if dir, _ := desc.Attr("dir"); dir != "rtl" || desc.Text() != "زيت زيتون" {
		t.Fatalf("description dir=%q text=%q", dir, desc.Text())
	}
	var titles []string
	doc.Find(".signature-title").Each(func(_ int, s *goquery.Selection) {
		titles = append(titles, s.Text())
	})
	if strings.Join(titles, ",") != "Warehouse Team,Sales Team,Control Team" {
		t.Fatalf("titles=%v", titles)
	}
	if doc.Find(".declaration").Length() != 0 {
		t.Fatalf("unexpected declaration")
	}
	if doc.Find("img.logo").Length() != 0 {
		t.Fatalf("unexpected logo")
	}
}

func TestRenderMarkupAlternateSignatures(t *testing.T) {
	report := NewReport("Tajiyat", "42", sampleItems(), reportDay)
	report.LogoDataURI = "data:image/png;base64,iVBORw0KGgo="
	html, err := RenderMarkup(report)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.Find("h1").Text(); got != "Tajiyat - 42" {
		t.Fatalf("h1=%q", got)
	}
	decl := doc.Find(".declaration")
	if dir, _ := decl.Attr("dir"); dir != "rtl" || !strings.Contains(decl.Text(), "اقر بان البضائع") {
		t.Fatalf("declaration=%q", decl.Text())
	}
	if n := doc.Find(".signature-box").Length(); n != 2 {
		t.Fatalf("boxes=%d", n)
	}
	if src, _ := doc.Find("img.logo").Attr("src"); src != report.LogoDataURI {
		t.Fatalf("logo=%q", src)
	}
}

func TestRenderMarkupEscapes(t *testing.T) {
	items := []internal.ScannedItem{{NormalizedItem: internal.NormalizedItem{ItemCode: "<b>x</b>"}, Quantities: []internal.QuantityEntry{{Quantity: "1"}}}}
	html, err := RenderMarkup(NewReport("A & B", "", items, reportDay))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(html, "<b>x</b>") || !strings.Contains(html, "A &amp; B") {
		t.Fatalf("not escaped")
	}
}

func TestBuildSheet(t *testing.T) {
	rows := BuildSheet(NewReport("Shaab - Food", "", sampleItems(), reportDay))
	// title, blank, header, 2 items, 2 blanks, 2 signature rows
	if len(rows) != 9 {
		t.Fatalf("rows=%d", len(rows))
	}
	if rows[0][0] != "Shaab - Food" || len(rows[1]) != 0 || rows[2][0] != "#" {
		t.Fatalf("head=%v", rows[:3])
	}
	if rows[3][0] != 1 || rows[4][0] != 2 {
		t.Fatalf("sequence=%v %v", rows[3][0], rows[4][0])
	}
	if rows[7][1] != "Warehouse Team" || rows[7][3] != "Sales Team" || rows[7][6] != "Control Team" {
		t.Fatalf("signatures=%v", rows[7])
	}
	if rows[8][1] != signatureLabelLine {
		t.Fatalf("signature line=%v", rows[8])
	}

	alt := BuildSheet(NewReport("Shaab - Food", "7", sampleItems(), reportDay))
	if len(alt) != 11 || alt[7][0] != declarationText {
		t.Fatalf("alt=%v", alt[7:])
	}
	if alt[9][0] != inventorySignature || alt[9][6] != declarantSignature || alt[10][6] != signatureLine {
		t.Fatalf("alt signatures=%v %v", alt[9], alt[10])
	}
}

func TestSheetBytes(t *testing.T) {
	raw, err := sheetBytes(NewReport("Shaab - Food", "", sampleItems(), reportDay))
	if err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if f.GetSheetName(0) != sheetName {
		t.Fatalf("sheet=%q", f.GetSheetName(0))
	}
	v, _ := f.GetCellValue(sheetName, "C4")
	if v != "X1" {
		t.Fatalf("C4=%q", v)
	}
	w, _ := f.GetColWidth(sheetName, "D")
	if w != 35 {
		t.Fatalf("width D=%v", w)
	}
	w, _ = f.GetColWidth(sheetName, "M")
	if w != 14 {
		t.Fatalf("width M=%v", w)
	}
}

type memRuns struct{ runs []internal.ExportRun }

func (m *memRuns) InsertExportRun(run internal.ExportRun) error {
	m.runs = append(m.runs, run)
	return nil
}

type fakeRenderer struct{ markup string }

func (f *fakeRenderer) PDF(_ context.Context, markup string) ([]byte, error) {
	f.markup = markup
	return []byte("%PDF-1.4"), nil
}

type recordSink struct{ paths []string }

func (r *recordSink) Share(_ context.Context, path, mimeType string) (string, error) {
	r.paths = append(r.paths, path+"|"+mimeType)
	return "test", nil
}

func newTestExporter(t *testing.T, store Store, renderer Renderer) *Exporter {
	t.Helper()
	e, err := NewExporter(store, renderer, config.Config{OutputDir: t.TempDir(), PDFLandscape: true}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	e.now = func() time.Time { return reportDay }
	return e
}

func TestExportEmptySessionWritesNothing(t *testing.T) {
	store := &memRuns{}
	e := newTestExporter(t, store, &fakeRenderer{})
	if _, err := e.Export(context.Background(), nil, Request{Format: internal.FormatPDF, Warehouse: "W"}); !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("err=%v", err)
	}
	entries, _ := os.ReadDir(e.outDir)
	if len(entries) != 0 || len(store.runs) != 0 {
		t.Fatalf("files=%d runs=%d", len(entries), len(store.runs))
	}
}

func TestExportFormats(t *testing.T) {
	store := &memRuns{}
	renderer := &fakeRenderer{}
	sink := &recordSink{}
	e := newTestExporter(t, store, renderer)

	res, err := e.Export(context.Background(), sampleItems(), Request{Format: internal.FormatPDF, Warehouse: "Shaab / Food!!", ReferenceCode: "12", Sink: sink})
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(res.Path) != "Shaab_Food_20260301_0930.pdf" {
		t.Fatalf("path=%s", res.Path)
	}
	if !strings.Contains(renderer.markup, "Shaab / Food!! - 12") || !strings.Contains(renderer.markup, "landscape") {
		t.Fatalf("markup title missing")
	}
	if len(sink.paths) != 1 || !strings.HasSuffix(sink.paths[0], "|application/pdf") {
		t.Fatalf("sink=%v", sink.paths)
	}
	if len(store.runs) != 1 || store.runs[0].TraceID == "" || store.runs[0].ItemCount != 2 || store.runs[0].SharedVia != "test" {
		t.Fatalf("runs=%+v", store.runs)
	}

	res, err = e.Export(context.Background(), sampleItems(), Request{Format: internal.FormatXLSX, Warehouse: "Shaab"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := excelize.OpenFile(res.Path); err != nil {
		t.Fatalf("xlsx unreadable: %v", err)
	}

	res, err = e.Export(context.Background(), sampleItems(), Request{Format: internal.FormatHTML, Warehouse: "Shaab"})
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := os.ReadFile(res.Path)
	if !bytes.Contains(raw, []byte("<h1>Shaab</h1>")) {
		t.Fatalf("html=%s", raw)
	}

	if _, err := e.Export(context.Background(), sampleItems(), Request{Format: "docx"}); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("err=%v", err)
	}
}

type failingSink struct{}

func (failingSink) Share(context.Context, string, string) (string, error) {
	return "", errors.New("smtp: connection refused")
}

func TestExportShareFailureLeavesNothing(t *testing.T) {
	store := &memRuns{}
	e := newTestExporter(t, store, &fakeRenderer{})
	_, err := e.Export(context.Background(), sampleItems(), Request{Format: internal.FormatHTML, Warehouse: "Shaab", Sink: failingSink{}})
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("err=%v", err)
	}
	entries, _ := os.ReadDir(e.outDir)
	if len(entries) != 0 || len(store.runs) != 0 {
		t.Fatalf("files=%d runs=%d", len(entries), len(store.runs))
	}
}
