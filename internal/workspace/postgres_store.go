package workspace

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresStore persists window items in postgres via the pgx stdlib driver.
type PostgresStore struct {
	db *sql.DB

	schemaOnce sync.Once
	schemaErr  error
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
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
  connections JSONB NOT NULL DEFAULT '[]',
  created_at_unix_ms BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_window_items_created_at ON window_items (created_at_unix_ms);
`)
	})
	return s.schemaErr
}

func (s *PostgresStore) Put(ctx context.Context, item WindowItem) (WindowItem, error) {
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
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (item_id)
DO UPDATE SET title=EXCLUDED.title,
  item_type=EXCLUDED.item_type,
  content=EXCLUDED.content,
  connections=EXCLUDED.connections`,
		item.ID, item.Title, item.Type, item.Content, conns, item.CreatedAtUnixMs)
	if err != nil {
		return WindowItem{}, err
	}
	return s.fetch(ctx, item.ID)
}

func (s *PostgresStore) fetch(ctx context.Context, id string) (WindowItem, error) {
	row := s.db.QueryRowContext(ctx, `SELECT item_id, title, item_type, content, connections, created_at_unix_ms
FROM window_items WHERE item_id = $1`, id)
	item, ok, err := scanItem(row)
	if err != nil {
		return WindowItem{}, err
	}
	if !ok {
		return WindowItem{}, fmt.Errorf("item %s not found after write", id)
	}
	return item, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (WindowItem, bool, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return WindowItem{}, false, err
	}
	id = normalizeItemID(id)
	if id == "" {
		return WindowItem{}, false, fmt.Errorf("item id is required")
	}
	row := s.db.QueryRowContext(ctx, `SELECT item_id, title, item_type, content, connections, created_at_unix_ms
FROM window_items WHERE item_id = $1`, id)
	return scanItem(row)
}

func (s *PostgresStore) List(ctx context.Context) ([]WindowItem, error) {
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

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	id = normalizeItemID(id)
	if id == "" {
		return fmt.Errorf("item id is required")
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM window_items WHERE item_id = $1`, id)
	return err
}

func (s *PostgresStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (WindowItem, bool, error) {
	var (
		item  WindowItem
		conns []byte
	)
	err := row.Scan(&item.ID, &item.Title, &item.Type, &item.Content, &conns, &item.CreatedAtUnixMs)
	if err == sql.ErrNoRows {
		return WindowItem{}, false, nil
	}
	if err != nil {
		return WindowItem{}, false, err
	}
	item.Connections, err = decodeConnections(conns)
	if err != nil {
		return WindowItem{}, false, err
	}
	return item, true, nil
}

func encodeConnections(conns []Connection) ([]byte, error) {
	if len(conns) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(conns)
}

func decodeConnections(raw []byte) ([]Connection, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var conns []Connection
	if err := json.Unmarshal(raw, &conns); err != nil {
		return nil, err
	}
	if len(conns) == 0 {
		return nil, nil
	}
	return conns, nil
}
