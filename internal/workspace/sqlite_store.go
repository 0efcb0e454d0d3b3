package workspace

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists window items in a local sqlite database, for
// single-node installs that want durability without postgres.
type SQLiteStore struct {
	db *sql.DB

	schemaOnce sync.Once
	schemaErr  error
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = filepath.Join("data", "scriptdeck.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// sqlite handles one writer at a time.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) ensureSchema(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("store is nil")
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS window_items (
  item_id TEXT PRIMARY KEY,
  title TEXT NOT NULL DEFAULT 'Untitled',
  item_type TEXT NOT NULL DEFAULT 'text',
  content TEXT NOT NULL DEFAULT '',
  connections TEXT NOT NULL DEFAULT '[]',
  created_at_unix_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_window_items_created_at ON window_items (created_at_unix_ms);
`)
	})
	return s.schemaErr
}

func (s *SQLiteStore) Put(ctx context.Context, item WindowItem) (WindowItem, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return WindowItem{}, err
	}
	item = normalizeItem(item)
	if item.ID == "" {
		return WindowItem{}, fmt.Errorf("item id is required")
	}
	if item.CreatedAtUnixMs == 0 {
		item.CreatedAtUnixMs = time.Now().UnixMilli()
	}
	conns, err := encodeConnections(item.Connections)
	if err != nil {
		return WindowItem{}, err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO window_items (item_id, title, item_type, content, connections, created_at_unix_ms)
VALUES (?,?,?,?,?,?)
ON CONFLICT (item_id)
DO UPDATE SET title=excluded.title,
  item_type=excluded.item_type,
  content=excluded.content,
  connections=excluded.connections`,
		item.ID, item.Title, item.Type, item.Content, string(conns), item.CreatedAtUnixMs)
	if err != nil {
		return WindowItem{}, err
	}
	got, ok, err := s.Get(ctx, item.ID)
	if err != nil {
		return WindowItem{}, err
	}
	if !ok {
		return WindowItem{}, fmt.Errorf("item %s not found after write", item.ID)
	}
	return got, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (WindowItem, bool, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return WindowItem{}, false, err
	}
	id = normalizeItemID(id)
	if id == "" {
		return WindowItem{}, false, fmt.Errorf("item id is required")
	}
	row := s.db.QueryRowContext(ctx, `SELECT item_id, title, item_type, content, connections, created_at_unix_ms
FROM window_items WHERE item_id = ?`, id)
	return scanItem(row)
}

func (s *SQLiteStore) List(ctx context.Context) ([]WindowItem, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT item_id, title, item_type, content, connections, created_at_unix_ms
FROM window_items ORDER BY created_at_unix_ms ASC, item_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WindowItem
	for rows.Next() {
		item, ok, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, item)
		}
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	id = normalizeItemID(id)
	if id == "" {
		return fmt.Errorf("item id is required")
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM window_items WHERE item_id = ?`, id)
	return err
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
