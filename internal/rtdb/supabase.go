package rtdb

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/supabase-community/supabase-go"
)

const nodesTable = "nodes"

// Supabase stores children as rows of a "nodes" table reached through
// PostgREST:
//
//	create table nodes (path text, key text, value jsonb, primary key (path, key));
type Supabase struct {
	client *supabase.Client
}

type nodeRow struct {
	Path  string          `json:"path"`
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// NewSupabase creates a namespace for the project at url. accessToken is the
// signed-in user's JWT; row level security sees that user.
func NewSupabase(url, anonKey, accessToken string) (*Supabase, error) {
	opts := &supabase.ClientOptions{}
	if accessToken != "" {
		opts.Headers = map[string]string{"Authorization": "Bearer " + accessToken}
	}
	client, err := supabase.NewClient(url, anonKey, opts)
	if err != nil {
		return nil, fmt.Errorf("rtdb: creating supabase client: %w", err)
	}
	return &Supabase{client: client}, nil
}

// Push inserts a row with a UUIDv7 key.
func (s *Supabase) Push(_ context.Context, path string, value any) (string, error) {
	data, err := Encode(value)
	if err != nil {
		return "", &RemoteError{Op: "push", Path: path, Err: err}
	}
	row := nodeRow{Path: path, Key: NewKey(), Value: data}
	if _, _, err := s.client.From(nodesTable).Insert(row, false, "", "minimal", "").Execute(); err != nil {
		return "", &RemoteError{Op: "push", Path: path, Err: err}
	}
	return row.Key, nil
}

// Children selects every row under path, ordered by key.
func (s *Supabase) Children(_ context.Context, path string) ([]Child, error) {
	rows, err := s.rows("get", path, "")
	if err != nil {
		return nil, err
	}
	children := make([]Child, len(rows))
	for i, r := range rows {
		children[i] = Child{Key: r.Key, Value: r.Value}
	}
	SortByKey(children)
	return children, nil
}

// ChildrenOrderedBy selects every row under path and orders them by field.
func (s *Supabase) ChildrenOrderedBy(ctx context.Context, path, field string) ([]Child, error) {
	children, err := s.Children(ctx, path)
	if err != nil {
		return nil, err
	}
	OrderByField(children, field)
	return children, nil
}

// Update reads the current row, merges value, and writes it back.
func (s *Supabase) Update(_ context.Context, path, key string, value any) error {
	patch, err := Encode(value)
	if err != nil {
		return &RemoteError{Op: "update", Path: path, Err: err}
	}
	rows, err := s.rows("update", path, key)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return &RemoteError{Op: "update", Path: path + "/" + key, Err: ErrNotFound}
	}
	merged, err := Merge(rows[0].Value, patch)
	if err != nil {
		return &RemoteError{Op: "update", Path: path, Err: err}
	}
	_, _, err = s.client.From(nodesTable).
		Update(map[string]json.RawMessage{"value": merged}, "minimal", "").
		Eq("path", path).
		Eq("key", key).
		Execute()
	if err != nil {
		return &RemoteError{Op: "update", Path: path, Err: err}
	}
	return nil
}

// Remove deletes the row at path/key.
func (s *Supabase) Remove(_ context.Context, path, key string) error {
	data, _, err := s.client.From(nodesTable).
		Delete("representation", "").
		Eq("path", path).
		Eq("key", key).
		Execute()
	if err != nil {
		return &RemoteError{Op: "remove", Path: path, Err: err}
	}
	var deleted []nodeRow
	if err := json.Unmarshal(data, &deleted); err != nil {
		return &RemoteError{Op: "remove", Path: path, Message: "malformed response", Err: err}
	}
	if len(deleted) == 0 {
		return &RemoteError{Op: "remove", Path: path + "/" + key, Err: ErrNotFound}
	}
	return nil
}

func (s *Supabase) rows(op, path, key string) ([]nodeRow, error) {
	q := s.client.From(nodesTable).
		Select("path,key,value", "", false).
		Eq("path", path)
	if key != "" {
		q = q.Eq("key", key)
	}
	data, _, err := q.Execute()
	if err != nil {
		return nil, &RemoteError{Op: op, Path: path, Err: err}
	}
	var rows []nodeRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, &RemoteError{Op: op, Path: path, Message: "malformed response", Err: err}
	}
	return rows, nil
}
