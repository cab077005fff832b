package indexdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB is a small read-model index of persisted saves. It never participates
// in sim determinism; it exists so operators can list what a session wrote
// without opening the save files.
type DB struct {
	db *sql.DB
}

type SaveRow struct {
	ID        int64
	Name      string
	Tick      uint64
	Path      string
	Entities  int
	Resources int
	CreatedAt string
}

func Open(path string) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{db: db}, nil
}

func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS saves (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	tick INTEGER NOT NULL,
	path TEXT NOT NULL,
	entities INTEGER NOT NULL,
	resources INTEGER NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_saves_name ON saves(name);
`)
	return err
}

func (d *DB) RecordSave(row SaveRow) error {
	_, err := d.db.Exec(
		`INSERT INTO saves(name, tick, path, entities, resources, created_at) VALUES(?,?,?,?,?,?)`,
		row.Name, row.Tick, row.Path, row.Entities, row.Resources, row.CreatedAt,
	)
	return err
}

// Saves returns all recorded saves, oldest first.
func (d *DB) Saves() ([]SaveRow, error) {
	rows, err := d.db.Query(
		`SELECT id, name, tick, path, entities, resources, created_at FROM saves ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SaveRow
	for rows.Next() {
		var r SaveRow
		if err := rows.Scan(&r.ID, &r.Name, &r.Tick, &r.Path, &r.Entities, &r.Resources, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (d *DB) Close() error { return d.db.Close() }
