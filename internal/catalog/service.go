package catalog

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/config"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/logger"
)

type Store interface {
	ReadCatalog() ([]internal.CatalogRecord, error)
	ReadCatalogState() (internal.CatalogState, error)
	WriteCatalog(rows []internal.CatalogRecord, state internal.CatalogState) error
	ClearCatalog() error
}

// Service owns the loaded catalog. Rows are replaced wholesale on load and
// never edited in place.
type Service struct {
	mu      sync.Mutex
	store   Store
	fetcher *Fetcher
	gate    *Gate
	cfg     config.Config
	log     *slog.Logger
	now     func() time.Time

	rows  []internal.CatalogRecord
	state internal.CatalogState
}

func NewService(store Store, cfg config.Config, log *slog.Logger) (*Service, error) {
	if log == nil {
		log = logger.Discard()
	}
	state, err := store.ReadCatalogState()
	if err != nil {
		return nil, err
	}
	rows, err := store.ReadCatalog()
	if err != nil {
		return nil, err
	}
	gate, err := NewGate(cfg.UnlockSecretHash, cfg.UnlockSecret, state.Locked)
	if err != nil {
		return nil, err
	}
	return &Service{
		store:   store,
		fetcher: NewFetcher(cfg, log),
		gate:    gate,
		cfg:     cfg,
		log:     log,
		now:     time.Now,
		rows:    rows,
		state:   state,
	}, nil
}

// Load decodes and stores a master file. It fails with ErrLocked while a catalog is locked in.
func (s *Service) Load(ctx context.Context, fileName string, content []byte) (internal.CatalogState, error) {
	if err := ctx.Err(); err != nil {
		return internal.CatalogState{}, err
	}
	if s.gate.Locked() {
		return internal.CatalogState{}, ErrLocked
	}

	rows, err := Decode(fileName, content, s.cfg.CSVCharset)
	if err != nil {
		return internal.CatalogState{}, err
	}

	state := internal.CatalogState{
		Locked:    true,
		Warehouse: WarehouseName(fileName, s.cfg.DefaultWarehouse),
		FileName:  filepath.Base(fileName),
		Rows:      len(rows),
		LoadedAt:  s.now().UTC().Format(time.RFC3339),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gate.Locked() {
		return internal.CatalogState{}, ErrLocked
	}
	if err := s.store.WriteCatalog(rows, state); err != nil {
		return internal.CatalogState{}, err
	}
	s.rows = rows
	s.state = state
	s.gate.Lock()

	s.log.Info("catalog loaded", "file", state.FileName, "rows", state.Rows, "warehouse", state.Warehouse)
	return state, nil
}

// LoadURL downloads a master file and loads it. nameOverride replaces the
// file name taken from the response when set.
func (s *Service) LoadURL(ctx context.Context, rawURL, nameOverride string) (internal.CatalogState, error) {
	if s.gate.Locked() {
		return internal.CatalogState{}, ErrLocked
	}
	name, body, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return internal.CatalogState{}, err
	}
	if strings.TrimSpace(nameOverride) != "" {
		name = nameOverride
	}
	if name == "" {
		return internal.CatalogState{}, errors.New("cannot tell the file type: pass a file name")
	}
	return s.Load(ctx, name, body)
}

// Unlock checks the secret, then drops the stored catalog so another file can be loaded.
func (s *Service) Unlock(secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	wasLocked := s.gate.Locked()
	if err := s.gate.Unlock(secret); err != nil {
		s.log.Warn("catalog unlock rejected")
		return err
	}
	if err := s.store.ClearCatalog(); err != nil {
		if wasLocked {
			s.gate.Lock()
		}
		return err
	}
	s.rows = nil
	s.state = internal.CatalogState{}
	s.log.Info("catalog unlocked")
	return nil
}

func (s *Service) Info() internal.CatalogState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.state
	state.Locked = s.gate.Locked()
	return state
}

func (s *Service) Rows() []internal.CatalogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows
}

// Warehouse is the report title taken from the loaded file, or the configured default.
func (s *Service) Warehouse() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(s.state.Warehouse) == "" {
		return s.cfg.DefaultWarehouse
	}
	return s.state.Warehouse
}

func (s *Service) Lookup(code string, kind internal.SearchKind) (internal.NormalizedItem, bool) {
	return Lookup(s.Rows(), code, kind)
}

// WarehouseName strips directory and extension from a catalog file name.
func WarehouseName(fileName, fallback string) string {
	base := filepath.Base(strings.TrimSpace(fileName))
	if base == "." || base == string(filepath.Separator) {
		base = ""
	}
	name := strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
	if name == "" {
		if fallback == "" {
			return config.DefaultWarehouse
		}
		return fallback
	}
	return name
}
