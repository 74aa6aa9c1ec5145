package rtdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	requestTimeout = 10 * time.Second
	maxBodySize    = 4 << 20 // 4 MB
)

// Firebase talks to the Realtime Database REST API. Every request carries the
// signed-in user's ID token so database rules apply.
type Firebase struct {
	baseURL string
	idToken string
	http    *http.Client
}

// NewFirebase creates a client for databaseURL authenticated with idToken.
func NewFirebase(databaseURL, idToken string) *Firebase {
	return &Firebase{
		baseURL: strings.TrimRight(strings.TrimSpace(databaseURL), "/"),
		idToken: idToken,
		http:    &http.Client{},
	}
}

// Push POSTs value and returns the generated push ID.
func (f *Firebase) Push(ctx context.Context, path string, value any) (string, error) {
	data, err := Encode(value)
	if err != nil {
		return "", &RemoteError{Op: "push", Path: path, Err: err}
	}
	body, err := f.do(ctx, "push", http.MethodPost, path, nil, data)
	if err != nil {
		return "", err
	}

	var resp struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.Name == "" {
		return "", &RemoteError{Op: "push", Path: path, Message: "response carried no key", Err: err}
	}
	return resp.Name, nil
}

// Children GETs path. The REST API returns an unordered object, so children
// are sorted by push ID to recover insertion order.
func (f *Firebase) Children(ctx context.Context, path string) ([]Child, error) {
	children, err := f.get(ctx, "get", path, nil)
	if err != nil {
		return nil, err
	}
	SortByKey(children)
	return children, nil
}

// ChildrenOrderedBy GETs path with orderBy set. The server filters but still
// answers with an object, so the order is re-applied locally.
func (f *Firebase) ChildrenOrderedBy(ctx context.Context, path, field string) ([]Child, error) {
	q := url.Values{}
	q.Set("orderBy", `"`+field+`"`)
	children, err := f.get(ctx, "query", path, q)
	if err != nil {
		return nil, err
	}
	OrderByField(children, field)
	return children, nil
}

// Update PATCHes path/key with the fields of value.
func (f *Firebase) Update(ctx context.Context, path, key string, value any) error {
	if err := ValidKey(key); err != nil {
		return &RemoteError{Op: "update", Path: path, Err: err}
	}
	data, err := Encode(value)
	if err != nil {
		return &RemoteError{Op: "update", Path: path, Err: err}
	}
	_, err = f.do(ctx, "update", http.MethodPatch, path+"/"+key, nil, data)
	return err
}

// Remove DELETEs path/key.
func (f *Firebase) Remove(ctx context.Context, path, key string) error {
	if err := ValidKey(key); err != nil {
		return &RemoteError{Op: "remove", Path: path, Err: err}
	}
	_, err := f.do(ctx, "remove", http.MethodDelete, path+"/"+key, nil, nil)
	return err
}

func (f *Firebase) get(ctx context.Context, op, path string, q url.Values) ([]Child, error) {
	body, err := f.do(ctx, op, http.MethodGet, path, q, nil)
	if err != nil {
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &RemoteError{Op: op, Path: path, Message: "malformed response", Err: err}
	}
	children := make([]Child, 0, len(raw))
	for k, v := range raw {
		children = append(children, Child{Key: k, Value: v})
	}
	return children, nil
}

// do performs an authenticated request against path and returns the body.
func (f *Firebase) do(ctx context.Context, op, method, path string, q url.Values, payload []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	if q == nil {
		q = url.Values{}
	}
	if f.idToken != "" {
		q.Set("auth", f.idToken)
	}
	endpoint := f.baseURL + "/" + escapePath(path) + ".json"
	if enc := q.Encode(); enc != "" {
		endpoint += "?" + enc
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, &RemoteError{Op: op, Path: path, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	//nolint:gosec // URL is built from configured databaseURL
	resp, err := f.http.Do(req)
	if err != nil {
		return nil, &RemoteError{Op: op, Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &RemoteError{Op: op, Path: path, Status: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, &RemoteError{Op: op, Path: path, Status: resp.StatusCode, Message: errorMessage(body), Err: ErrUnauthorized}
	case http.StatusNotFound:
		return nil, &RemoteError{Op: op, Path: path, Status: resp.StatusCode, Err: ErrNotFound}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RemoteError{Op: op, Path: path, Status: resp.StatusCode, Message: errorMessage(body)}
	}
	return body, nil
}

// errorMessage extracts {"error": "..."} from a failure body.
func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}

func escapePath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
