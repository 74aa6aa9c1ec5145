package rtdb

import (
	"context"
	"slices"
	"sync"
)

// Memory is an in-process Namespace. Children keep insertion order.
type Memory struct {
	mu    sync.Mutex
	nodes map[string][]Child
}

// NewMemory returns an empty in-memory namespace.
func NewMemory() *Memory {
	return &Memory{nodes: make(map[string][]Child)}
}

// Push appends value under a new key.
func (m *Memory) Push(_ context.Context, path string, value any) (string, error) {
	data, err := Encode(value)
	if err != nil {
		return "", &RemoteError{Op: "push", Path: path, Err: err}
	}
	key := NewKey()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes[path] = append(m.nodes[path], Child{Key: key, Value: data})
	return key, nil
}

// Children returns a copy of the children at path.
func (m *Memory) Children(_ context.Context, path string) ([]Child, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.nodes[path]), nil
}

// ChildrenOrderedBy returns the children at path ordered by field.
func (m *Memory) ChildrenOrderedBy(ctx context.Context, path, field string) ([]Child, error) {
	children, err := m.Children(ctx, path)
	if err != nil {
		return nil, err
	}
	OrderByField(children, field)
	return children, nil
}

// Update merges value into path/key.
func (m *Memory) Update(_ context.Context, path, key string, value any) error {
	patch, err := Encode(value)
	if err != nil {
		return &RemoteError{Op: "update", Path: path, Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	children := m.nodes[path]
	i := slices.IndexFunc(children, func(c Child) bool { return c.Key == key })
	if i < 0 {
		return &RemoteError{Op: "update", Path: path + "/" + key, Err: ErrNotFound}
	}
	merged, err := Merge(children[i].Value, patch)
	if err != nil {
		return &RemoteError{Op: "update", Path: path, Err: err}
	}
	children[i].Value = merged
	return nil
}

// Remove deletes path/key.
func (m *Memory) Remove(_ context.Context, path, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	children := m.nodes[path]
	i := slices.IndexFunc(children, func(c Child) bool { return c.Key == key })
	if i < 0 {
		return &RemoteError{Op: "remove", Path: path + "/" + key, Err: ErrNotFound}
	}
	m.nodes[path] = slices.Delete(children, i, i+1)
	return nil
}
