// Package rtdb is a small client for per-user hierarchical JSON namespaces.
// Paths look like "users/{uid}/expenses" and each path holds an ordered set of
// keyed children, mirroring the Firebase Realtime Database data model.
package rtdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrUnauthorized indicates the auth token was rejected by the store.
	ErrUnauthorized = errors.New("rtdb: unauthorized (token expired or rules denied access)")
	// ErrNotFound indicates the addressed child does not exist.
	ErrNotFound = errors.New("rtdb: not found")
	// ErrNoUser is returned when a path is requested without a user ID.
	ErrNoUser = errors.New("rtdb: empty user id")
	// ErrInvalidKey is returned for a child key that would address a
	// different path.
	ErrInvalidKey = errors.New("rtdb: invalid key")
)

// Child is one keyed entry under a path.
type Child struct {
	Key   string
	Value json.RawMessage
}

// Namespace is the data collaborator contract shared by every backend.
type Namespace interface {
	// Push stores value under a freshly generated key and returns the key.
	Push(ctx context.Context, path string, value any) (string, error)
	// Children returns every child of path in insertion order.
	Children(ctx context.Context, path string) ([]Child, error)
	// ChildrenOrderedBy returns every child ordered by the given field.
	ChildrenOrderedBy(ctx context.Context, path, field string) ([]Child, error)
	// Update merges the fields of value into the child at path/key.
	Update(ctx context.Context, path, key string, value any) error
	// Remove deletes the child at path/key.
	Remove(ctx context.Context, path, key string) error
}

// RemoteError reports a failed call to the data collaborator, including
// responses that could not be decoded.
type RemoteError struct {
	Op      string
	Path    string
	Status  int
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	var b strings.Builder
	b.WriteString("rtdb: ")
	b.WriteString(e.Op)
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, ": status %d", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *RemoteError) Unwrap() error { return e.Err }

// UserPath builds "users/{uid}/{child}". Every stored record is reached
// through it so no path escapes the signed-in user's namespace.
func UserPath(uid, child string) (string, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return "", ErrNoUser
	}
	if strings.Contains(uid, "/") {
		return "", fmt.Errorf("rtdb: invalid user id %q", uid)
	}
	return "users/" + uid + "/" + strings.Trim(child, "/"), nil
}

// ValidKey rejects keys that are blank or contain a character Firebase
// forbids in keys. A "/" would let the key step outside its parent path.
func ValidKey(key string) error {
	if strings.TrimSpace(key) == "" || strings.ContainsAny(key, "/.#$[]") {
		return fmt.Errorf("%w %q", ErrInvalidKey, key)
	}
	return nil
}

// NewKey returns a time-ordered key for backends that do not generate their
// own. UUIDv7 strings sort in creation order.
func NewKey() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Encode marshals a value for storage. Raw JSON passes through unchanged.
func Encode(value any) (json.RawMessage, error) {
	if raw, ok := value.(json.RawMessage); ok {
		if !json.Valid(raw) {
			return nil, errors.New("rtdb: invalid raw json")
		}
		return raw, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("rtdb: encoding value: %w", err)
	}
	return data, nil
}

// Merge applies the top-level fields of patch over current. When either side
// is not a JSON object the patch replaces current entirely.
func Merge(current, patch json.RawMessage) (json.RawMessage, error) {
	var base, upd map[string]json.RawMessage
	if json.Unmarshal(current, &base) != nil || base == nil {
		return patch, nil
	}
	if json.Unmarshal(patch, &upd) != nil || upd == nil {
		return patch, nil
	}
	for k, v := range upd {
		if string(v) == "null" {
			delete(base, k)
			continue
		}
		base[k] = v
	}
	out, err := json.Marshal(base)
	if err != nil {
		return nil, fmt.Errorf("rtdb: merging value: %w", err)
	}
	return out, nil
}
