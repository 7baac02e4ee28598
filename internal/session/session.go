package session

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/logger"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/metrics"
)

var (
	ErrNoQuantities = errors.New("an item needs at least one quantity")
	ErrNotFound     = errors.New("item not in session")
)

type Store interface {
	ReadItems() ([]internal.ScannedItem, error)
	WriteItems(items []internal.ScannedItem) error
	ClearItems() error
}

// Service keeps the ordered list of scanned items. The store is written
// before memory, so a failed write leaves the session as it was.
type Service struct {
	mu      sync.Mutex
	store   Store
	items   []internal.ScannedItem
	log     *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	newID   func() string
}

func NewService(store Store, log *slog.Logger, m *metrics.Metrics) (*Service, error) {
	if log == nil {
		log = logger.Discard()
	}
	items, err := store.ReadItems()
	if err != nil {
		return nil, err
	}
	return &Service{
		store:   store,
		items:   items,
		log:     log,
		metrics: m,
		now:     time.Now,
		newID:   uuid.NewString,
	}, nil
}

// Save appends a new item. scanned is the code the user searched with.
func (s *Service) Save(item internal.NormalizedItem, quantities []internal.QuantityEntry, scanned string) (internal.ScannedItem, error) {
	if len(quantities) == 0 {
		return internal.ScannedItem{}, ErrNoQuantities
	}

	saved := internal.ScannedItem{
		NormalizedItem: item,
		ID:             s.newID(),
		ScanDate:       s.now().UTC().Format(time.RFC3339),
		Quantities:     append([]internal.QuantityEntry(nil), quantities...),
		ScannedBarcode: strings.TrimSpace(scanned),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]internal.ScannedItem, 0, len(s.items)+1)
	next = append(next, s.items...)
	next = append(next, saved)
	if err := s.store.WriteItems(next); err != nil {
		return internal.ScannedItem{}, err
	}
	s.items = next
	s.metrics.Saved(len(next))
	s.log.Info("item saved", "id", saved.ID, "itemCode", saved.ItemCode, "quantities", len(saved.Quantities))
	return saved, nil
}

func (s *Service) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]internal.ScannedItem, 0, len(s.items))
	for _, it := range s.items {
		if it.ID != id {
			next = append(next, it)
		}
	}
	if len(next) == len(s.items) {
		return ErrNotFound
	}
	if err := s.store.WriteItems(next); err != nil {
		return err
	}
	s.items = next
	s.metrics.Removed(1, len(next))
	s.log.Info("item removed", "id", id)
	return nil
}

func (s *Service) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.ClearItems(); err != nil {
		return err
	}
	n := len(s.items)
	s.items = nil
	s.metrics.Removed(n, 0)
	s.log.Info("session cleared", "items", n)
	return nil
}

// Items returns the session in scan order.
func (s *Service) Items() []internal.ScannedItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]internal.ScannedItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
