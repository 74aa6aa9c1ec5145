package auth

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
	identityToolkitURL = "https://identitytoolkit.googleapis.com/v1"
	requestTimeout     = 15 * time.Second
	maxBodySize        = 1 << 20 // 1 MB
)

// Firebase authenticates with email/password against the Identity Toolkit
// REST API.
type Firebase struct {
	apiKey   string
	endpoint string
	http     *http.Client
}

// NewFirebase creates a gate for the project owning apiKey.
func NewFirebase(apiKey string) *Firebase {
	return NewFirebaseAt(identityToolkitURL, apiKey)
}

// NewFirebaseAt is NewFirebase with a custom endpoint, such as the auth
// emulator.
func NewFirebaseAt(endpoint, apiKey string) *Firebase {
	return &Firebase{
		apiKey:   strings.TrimSpace(apiKey),
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     &http.Client{},
	}
}

type firebaseCredentials struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type firebaseToken struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
}

// SignIn calls accounts:signInWithPassword.
func (f *Firebase) SignIn(ctx context.Context, email, password string) (Session, error) {
	return f.call(ctx, OpSignIn, "accounts:signInWithPassword", email, password)
}

// SignUp calls accounts:signUp and returns the new account's session.
func (f *Firebase) SignUp(ctx context.Context, email, password string) (Session, error) {
	return f.call(ctx, OpSignUp, "accounts:signUp", email, password)
}

func (f *Firebase) call(ctx context.Context, op, method, email, password string) (Session, error) {
	email, err := checkCredentials(op, email, password)
	if err != nil {
		return Session{}, err
	}

	payload, err := json.Marshal(firebaseCredentials{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return Session{}, &Error{Op: op, Message: err.Error(), Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	endpoint := f.endpoint + "/" + method + "?key=" + url.QueryEscape(f.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return Session{}, &Error{Op: op, Message: err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	//nolint:gosec // endpoint is a constant or configured emulator URL
	resp, err := f.http.Do(req)
	if err != nil {
		return Session{}, &Error{Op: op, Message: err.Error(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return Session{}, &Error{Op: op, Message: err.Error(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Session{}, &Error{Op: op, Message: firebaseMessage(resp.StatusCode, body)}
	}

	var tok firebaseToken
	if err := json.Unmarshal(body, &tok); err != nil {
		return Session{}, &Error{Op: op, Message: "malformed response", Err: err}
	}
	if tok.LocalID == "" {
		return Session{}, &Error{Op: op, Message: "response carried no user id"}
	}
	if tok.Email == "" {
		tok.Email = email
	}
	return Session{UserID: tok.LocalID, Email: tok.Email, IDToken: tok.IDToken}, nil
}

// firebaseMessage pulls error.message out of an Identity Toolkit error body,
// e.g. "INVALID_LOGIN_CREDENTIALS" or "WEAK_PASSWORD : Password should be at
// least 6 characters".
func firebaseMessage(status int, body []byte) string {
	var e struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return fmt.Sprintf("unexpected status %d", status)
}
