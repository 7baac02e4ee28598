package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/catalog"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/config"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/export"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/logger"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/metrics"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/scanner"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/session"
)

type HistoryStore interface {
	ListExportRuns(limit int) ([]internal.ExportRun, error)
}

type Deps struct {
	Catalog  *catalog.Service
	Session  *session.Service
	Exporter *export.Exporter
	History  HistoryStore
	Metrics  *metrics.Metrics
	Log      *slog.Logger
}

type Server struct {
	catalog  *catalog.Service
	session  *session.Service
	exporter *export.Exporter
	history  HistoryStore
	wedge    *scanner.Wedge
	metrics  *metrics.Metrics
	cfg      config.Config
	log      *slog.Logger
	now      func() time.Time
}

func NewServer(cfg config.Config, d Deps) *Server {
	log := d.Log
	if log == nil {
		log = logger.Discard()
	}
	return &Server{
		catalog:  d.Catalog,
		session:  d.Session,
		exporter: d.Exporter,
		history:  d.History,
		wedge:    scanner.NewWedge(cfg.WedgeWindowMs),
		metrics:  d.Metrics,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods("GET")
	if s.cfg.MetricsEnabled && s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler()).Methods("GET")
	}

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/catalog", s.getCatalog).Methods("GET")
	api.HandleFunc("/catalog", s.loadCatalog).Methods("POST")
	api.HandleFunc("/catalog/unlock", s.unlockCatalog).Methods("POST")
	api.HandleFunc("/lookup", s.lookup).Methods("GET")
	api.HandleFunc("/scanner/input", s.scannerInput).Methods("POST")
	api.HandleFunc("/items", s.listItems).Methods("GET")
	api.HandleFunc("/items", s.saveItem).Methods("POST")
	api.HandleFunc("/items", s.clearItems).Methods("DELETE")
	api.HandleFunc("/items/{id}", s.removeItem).Methods("DELETE")
	api.HandleFunc("/export", s.exportReport).Methods("POST")
	api.HandleFunc("/export/history", s.exportHistory).Methods("GET")
	return r
}
