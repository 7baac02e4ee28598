package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/catalog"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/entry"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/export"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/session"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/share"
)

const maxUpload = 64 << 20

type errorBody struct {
	Error string `json:"error"`
	Row   *int   `json:"row,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// fail maps service errors onto status codes. Unknown errors are I/O failures.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var rowErr *entry.RowError
	switch {
	case errors.As(err, &rowErr):
		row := rowErr.Index
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: rowErr.Err.Error(), Row: &row})
	case errors.Is(err, catalog.ErrLocked):
		writeError(w, http.StatusLocked, err.Error())
	case errors.Is(err, catalog.ErrWrongSecret):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, catalog.ErrUnsupportedFile),
		errors.Is(err, catalog.ErrEmptyCatalog),
		errors.Is(err, catalog.ErrNoItemCode),
		errors.Is(err, entry.ErrNothingToSave),
		errors.Is(err, export.ErrNothingToExport),
		errors.Is(err, export.ErrUnknownFormat),
		errors.Is(err, share.ErrNoRecipient):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

type catalogInfo struct {
	internal.CatalogState
	Title string `json:"title"`
}

func (s *Server) getCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, catalogInfo{CatalogState: s.catalog.Info(), Title: s.catalog.Warehouse()})
}

type loadURLRequest struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// loadCatalog takes a multipart "file" upload or a JSON {"url": ...} body.
func (s *Server) loadCatalog(w http.ResponseWriter, r *http.Request) {
	var (
		state internal.CatalogState
		err   error
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		state, err = s.loadUpload(r)
	} else {
		var req loadURLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.URL) == "" {
			writeError(w, http.StatusBadRequest, "send a multipart file or a JSON body with url")
			return
		}
		state, err = s.catalog.LoadURL(r.Context(), req.URL, req.Name)
	}
	s.metrics.CatalogLoad(err)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, state)
}

func (s *Server) loadUpload(r *http.Request) (internal.CatalogState, error) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		return internal.CatalogState{}, fmt.Errorf("%w: %v", catalog.ErrEmptyCatalog, err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return internal.CatalogState{}, fmt.Errorf("%w: %v", catalog.ErrEmptyCatalog, err)
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUpload))
	if err != nil {
		return internal.CatalogState{}, err
	}
	return s.catalog.Load(r.Context(), header.Filename, content)
}

type unlockRequest struct {
	Password string `json:"password"`
}

func (s *Server) unlockCatalog(w http.ResponseWriter, r *http.Request) {
	var req unlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.catalog.Unlock(req.Password); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.catalog.Info())
}

type lookupResult struct {
	Kind internal.SearchKind     `json:"kind"`
	Code string                  `json:"code"`
	Item internal.NormalizedItem `json:"item"`
}

// searchTerm picks the barcode when both are given, like the scan field does.
func searchTerm(barcode, code string) (string, internal.SearchKind, bool) {
	if strings.TrimSpace(barcode) != "" {
		return barcode, internal.SearchBarcode, true
	}
	if strings.TrimSpace(code) != "" {
		return code, internal.SearchItemCode, true
	}
	return "", "", false
}

func notFoundMessage(kind internal.SearchKind) string {
	if kind == internal.SearchBarcode {
		return "Barcode not found in master data"
	}
	return "Item code not found in master data"
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	term, kind, ok := searchTerm(q.Get("barcode"), q.Get("code"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Please enter a barcode or item code")
		return
	}
	item, found := s.catalog.Lookup(term, kind)
	s.metrics.Lookup(string(kind), found)
	if !found {
		writeError(w, http.StatusNotFound, notFoundMessage(kind))
		return
	}
	writeJSON(w, http.StatusOK, lookupResult{Kind: kind, Code: strings.TrimSpace(term), Item: item})
}

type scannerRequest struct {
	Text string `json:"text"`
}

func (s *Server) scannerInput(w http.ResponseWriter, r *http.Request) {
	var req scannerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	value := s.wedge.Input(req.Text)
	if value != req.Text {
		s.metrics.Dedup()
	}
	writeJSON(w, http.StatusOK, map[string]string{"value": value})
}

func (s *Server) listItems(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Items())
}

type saveRequest struct {
	Barcode    string                 `json:"barcode"`
	Code       string                 `json:"code"`
	Quantities []internal.QuantityRow `json:"quantities"`
}

func (s *Server) saveItem(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	term, kind, ok := searchTerm(req.Barcode, req.Code)
	if !ok {
		writeError(w, http.StatusBadRequest, "Please enter a barcode or item code")
		return
	}
	item, found := s.catalog.Lookup(term, kind)
	if !found {
		writeError(w, http.StatusNotFound, notFoundMessage(kind))
		return
	}

	// Rows past the first three are added the way the form adds them: only
	// after the previous row holds a quantity and a valid date.
	form := entry.NewForm()
	for i, row := range req.Quantities {
		if i >= form.Len() {
			if err := form.AddRow(s.now()); err != nil {
				prev := i - 1
				writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error(), Row: &prev})
				return
			}
		}
		fields := map[entry.RowField]string{
			entry.FieldQuantity: row.Quantity,
			entry.FieldDay:      row.Day,
			entry.FieldMonth:    row.Month,
			entry.FieldYear:     row.Year,
		}
		for field, value := range fields {
			if err := form.Set(i, field, value); err != nil {
				writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error(), Row: &i})
				return
			}
		}
	}

	quantities, err := form.Collect(s.now())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	saved, err := s.session.Save(item, quantities, term)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Remove(mux.Vars(r)["id"]); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) clearItems(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Clear(); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type exportRequest struct {
	Format    internal.ExportFormat `json:"format"`
	Warehouse string                `json:"warehouse"`
	Ref       string                `json:"ref"`
	Share     string                `json:"share"`
	To        []string              `json:"to"`
}

func (s *Server) sink(kind string, to []string) (share.Sink, error) {
	switch kind {
	case "":
		return nil, nil
	case "dir":
		return share.DirSink{Dir: s.cfg.ShareDir}, nil
	case "mail":
		return share.NewMailSink(s.cfg, to)
	}
	return nil, fmt.Errorf("unknown share target %q", kind)
}

// exportReport writes the report and streams the file back.
func (s *Server) exportReport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Format == "" {
		req.Format = internal.FormatPDF
	}
	if strings.TrimSpace(req.Warehouse) == "" {
		req.Warehouse = s.catalog.Warehouse()
	}
	sink, err := s.sink(req.Share, req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.exporter.Export(r.Context(), s.session.Items(), export.Request{
		Format:        req.Format,
		Warehouse:     req.Warehouse,
		ReferenceCode: req.Ref,
		Sink:          sink,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	f, err := os.Open(res.Path)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", share.MimeType(res.Path))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(res.Path)))
	w.Header().Set("X-Trace-Id", res.Run.TraceID)
	if res.SharedVia != "" {
		w.Header().Set("X-Shared-Via", res.SharedVia)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, f)
}

func (s *Server) exportHistory(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive number")
			return
		}
		limit = n
	}
	if s.history == nil {
		writeJSON(w, http.StatusOK, []internal.ExportRun{})
		return
	}
	runs, err := s.history.ListExportRuns(limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}
