// Package store provides the SQLite backend: a local rtdb.Namespace over a
// nodes table plus the account table used by the local auth gate.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/theirongolddev/paisa/internal/auth"
	"github.com/theirongolddev/paisa/internal/rtdb"

	_ "modernc.org/sqlite" // register sqlite driver
)

// DB is a SQLite database holding namespace nodes and local accounts.
type DB struct {
	db *sql.DB
}

var (
	_ rtdb.Namespace    = (*DB)(nil)
	_ auth.AccountStore = (*DB)(nil)
)

// Open opens or creates the database at dbPath and migrates it.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	if err := migrateUp(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Push inserts value under a new key at the end of path.
func (d *DB) Push(ctx context.Context, path string, value any) (string, error) {
	data, err := rtdb.Encode(value)
	if err != nil {
		return "", &rtdb.RemoteError{Op: "push", Path: path, Err: err}
	}
	key := rtdb.NewKey()

	_, err = sq.Insert("nodes").
		Columns("path", "node_key", "value", "updated_at").
		Values(path, key, string(data), now()).
		RunWith(d.db).
		ExecContext(ctx)
	if err != nil {
		return "", &rtdb.RemoteError{Op: "push", Path: path, Err: err}
	}
	return key, nil
}

// Children returns the children of path in insertion order.
func (d *DB) Children(ctx context.Context, path string) ([]rtdb.Child, error) {
	rows, err := sq.Select("node_key", "value").
		From("nodes").
		Where(sq.Eq{"path": path}).
		OrderBy("seq").
		RunWith(d.db).
		QueryContext(ctx)
	if err != nil {
		return nil, &rtdb.RemoteError{Op: "get", Path: path, Err: err}
	}
	defer func() { _ = rows.Close() }()

	var children []rtdb.Child
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, &rtdb.RemoteError{Op: "get", Path: path, Err: err}
		}
		children = append(children, rtdb.Child{Key: key, Value: json.RawMessage(value)})
	}
	if err := rows.Err(); err != nil {
		return nil, &rtdb.RemoteError{Op: "get", Path: path, Err: err}
	}
	return children, nil
}

// ChildrenOrderedBy returns the children of path ordered by field.
func (d *DB) ChildrenOrderedBy(ctx context.Context, path, field string) ([]rtdb.Child, error) {
	children, err := d.Children(ctx, path)
	if err != nil {
		return nil, err
	}
	rtdb.OrderByField(children, field)
	return children, nil
}

// Update merges value into path/key inside a transaction.
func (d *DB) Update(ctx context.Context, path, key string, value any) error {
	patch, err := rtdb.Encode(value)
	if err != nil {
		return &rtdb.RemoteError{Op: "update", Path: path, Err: err}
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return &rtdb.RemoteError{Op: "update", Path: path, Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	var current string
	err = sq.Select("value").
		From("nodes").
		Where(sq.Eq{"path": path, "node_key": key}).
		RunWith(tx).
		QueryRowContext(ctx).
		Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return &rtdb.RemoteError{Op: "update", Path: path + "/" + key, Err: rtdb.ErrNotFound}
	}
	if err != nil {
		return &rtdb.RemoteError{Op: "update", Path: path, Err: err}
	}

	merged, err := rtdb.Merge(json.RawMessage(current), patch)
	if err != nil {
		return &rtdb.RemoteError{Op: "update", Path: path, Err: err}
	}

	_, err = sq.Update("nodes").
		Set("value", string(merged)).
		Set("updated_at", now()).
		Where(sq.Eq{"path": path, "node_key": key}).
		RunWith(tx).
		ExecContext(ctx)
	if err != nil {
		return &rtdb.RemoteError{Op: "update", Path: path, Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &rtdb.RemoteError{Op: "update", Path: path, Err: err}
	}
	return nil
}

// Remove deletes path/key.
func (d *DB) Remove(ctx context.Context, path, key string) error {
	res, err := sq.Delete("nodes").
		Where(sq.Eq{"path": path, "node_key": key}).
		RunWith(d.db).
		ExecContext(ctx)
	if err != nil {
		return &rtdb.RemoteError{Op: "remove", Path: path, Err: err}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &rtdb.RemoteError{Op: "remove", Path: path + "/" + key, Err: rtdb.ErrNotFound}
	}
	return nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
