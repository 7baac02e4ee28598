package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal"
)

const (
	keyCatalogRows  = "catalog.rows"
	keyCatalogState = "catalog.state"
	keySessionItems = "session.items"
)

type DB struct {
	conn *sqlx.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// one connection: every mutation rewrites a whole blob
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS export_runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  format TEXT NOT NULL,
  title TEXT NOT NULL,
  itemCount INTEGER NOT NULL,
  path TEXT NOT NULL,
  sharedVia TEXT NOT NULL DEFAULT '',
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_export_runs_createdAt ON export_runs(createdAt);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.Get(&value, `SELECT value FROM metadata WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func (d *DB) DeleteMetadata(keys ...string) error {
	tx, err := d.conn.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, key := range keys {
		if _, err := tx.Exec(`DELETE FROM metadata WHERE key = ?`, key); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (d *DB) getJSON(key string, out any) (bool, error) {
	raw, err := d.GetMetadata(key)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal([]byte(*raw), out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (d *DB) setJSON(key string, value any) error {
	blob, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return d.SetMetadata(key, string(blob))
}

func (d *DB) ReadItems() ([]internal.ScannedItem, error) {
	items := []internal.ScannedItem{}
	if _, err := d.getJSON(keySessionItems, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (d *DB) WriteItems(items []internal.ScannedItem) error {
	if items == nil {
		items = []internal.ScannedItem{}
	}
	return d.setJSON(keySessionItems, items)
}

func (d *DB) ClearItems() error {
	return d.DeleteMetadata(keySessionItems)
}

func (d *DB) ReadCatalog() ([]internal.CatalogRecord, error) {
	rows := []internal.CatalogRecord{}
	if _, err := d.getJSON(keyCatalogRows, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// WriteCatalog replaces the stored rows and the catalog state in one transaction.
func (d *DB) WriteCatalog(rows []internal.CatalogRecord, state internal.CatalogState) error {
	rowsJSON, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode %s: %w", keyCatalogRows, err)
	}
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode %s: %w", keyCatalogState, err)
	}

	tx, err := d.conn.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const q = `
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`
	if _, err := tx.Exec(q, keyCatalogRows, string(rowsJSON)); err != nil {
		return err
	}
	if _, err := tx.Exec(q, keyCatalogState, string(stateJSON)); err != nil {
		return err
	}
	return tx.Commit()
}

func (d *DB) ClearCatalog() error {
	return d.DeleteMetadata(keyCatalogRows, keyCatalogState)
}

func (d *DB) ReadCatalogState() (internal.CatalogState, error) {
	var state internal.CatalogState
	if _, err := d.getJSON(keyCatalogState, &state); err != nil {
		return internal.CatalogState{}, err
	}
	return state, nil
}

func (d *DB) InsertExportRun(run internal.ExportRun) error {
	_, err := d.conn.NamedExec(`
INSERT INTO export_runs (traceId, format, title, itemCount, path, sharedVia)
VALUES (:traceId, :format, :title, :itemCount, :path, :sharedVia)
`, run)
	return err
}

func (d *DB) ListExportRuns(limit int) ([]internal.ExportRun, error) {
	if limit <= 0 {
		limit = 50
	}
	out := []internal.ExportRun{}
	err := d.conn.Select(&out, `
SELECT id, traceId, format, title, itemCount, path, sharedVia, createdAt
FROM export_runs ORDER BY id DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	return out, nil
}
