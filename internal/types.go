package internal

// CatalogRecord is one row of a loaded master file, keyed by the original header text.
// Values are strings or numbers depending on the source cell.
type CatalogRecord map[string]any

type SearchKind string

const (
	SearchBarcode  SearchKind = "barcode"
	SearchItemCode SearchKind = "itemCode"
)

type CatalogSource string

const (
	SourceXLSX CatalogSource = "xlsx"
	SourceCSV  CatalogSource = "csv"
	SourceHTML CatalogSource = "html"
)

type NormalizedItem struct {
	BrandName       string `json:"brandName"`
	ItemCode        string `json:"itemCode"`
	ItemDescription string `json:"itemDescription"`
	UOM             string `json:"uom"`
	Barcode         string `json:"barcode"`
}

// QuantityRow is the editable state of one quantity line. Month is 0-indexed.
type QuantityRow struct {
	Quantity string `json:"quantity"`
	Day      string `json:"day"`
	Month    string `json:"month"`
	Year     string `json:"year"`
}

type QuantityEntry struct {
	Quantity string `json:"quantity"`
	Expiry   string `json:"expiry"`
}

type ScannedItem struct {
	NormalizedItem
	ID             string          `json:"id"`
	ScanDate       string          `json:"scanDate"`
	Quantities     []QuantityEntry `json:"quantities"`
	ScannedBarcode string          `json:"scannedBarcode"`
}

type CatalogState struct {
	Locked    bool   `json:"locked"`
	Warehouse string `json:"warehouse"`
	FileName  string `json:"fileName"`
	Rows      int    `json:"rows"`
	LoadedAt  string `json:"loadedAt,omitempty"`
}

type ExportFormat string

const (
	FormatPDF  ExportFormat = "pdf"
	FormatHTML ExportFormat = "html"
	FormatXLSX ExportFormat = "xlsx"
)

type ExportRun struct {
	ID        int    `db:"id" json:"id"`
	TraceID   string `db:"traceId" json:"traceId"`
	Format    string `db:"format" json:"format"`
	Title     string `db:"title" json:"title"`
	ItemCount int    `db:"itemCount" json:"itemCount"`
	Path      string `db:"path" json:"path"`
	SharedVia string `db:"sharedVia" json:"sharedVia"`
	CreatedAt string `db:"createdAt" json:"createdAt"`
}
