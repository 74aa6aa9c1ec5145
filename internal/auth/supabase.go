package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Supabase authenticates against a project's GoTrue endpoints.
type Supabase struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewSupabase creates a gate for the project at projectURL using its anon key.
func NewSupabase(projectURL, apiKey string) *Supabase {
	return &Supabase{
		baseURL: strings.TrimRight(strings.TrimSpace(projectURL), "/") + "/auth/v1",
		apiKey:  strings.TrimSpace(apiKey),
		http:    &http.Client{},
	}
}

type goTrueUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// goTrueResponse covers both the token response and the bare user returned
// by signup when email confirmation is on.
type goTrueResponse struct {
	AccessToken string      `json:"access_token"`
	User        *goTrueUser `json:"user"`
	ID          string      `json:"id"`
	Email       string      `json:"email"`
}

// SignIn exchanges email and password for an access token.
func (s *Supabase) SignIn(ctx context.Context, email, password string) (Session, error) {
	return s.call(ctx, OpSignIn, "/token?grant_type=password", email, password)
}

// SignUp creates the account. Projects that require email confirmation
// return no access token; the session then carries only the user ID.
func (s *Supabase) SignUp(ctx context.Context, email, password string) (Session, error) {
	return s.call(ctx, OpSignUp, "/signup", email, password)
}

func (s *Supabase) call(ctx context.Context, op, path, email, password string) (Session, error) {
	email, err := checkCredentials(op, email, password)
	if err != nil {
		return Session{}, err
	}

	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return Session{}, &Error{Op: op, Message: err.Error(), Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return Session{}, &Error{Op: op, Message: err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", s.apiKey)

	//nolint:gosec // URL comes from configuration
	resp, err := s.http.Do(req)
	if err != nil {
		return Session{}, &Error{Op: op, Message: err.Error(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return Session{}, &Error{Op: op, Message: err.Error(), Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Session{}, &Error{Op: op, Message: goTrueMessage(resp.StatusCode, body)}
	}

	var r goTrueResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return Session{}, &Error{Op: op, Message: "malformed response", Err: err}
	}
	sess := Session{Email: email, IDToken: r.AccessToken}
	switch {
	case r.User != nil && r.User.ID != "":
		sess.UserID = r.User.ID
		if r.User.Email != "" {
			sess.Email = r.User.Email
		}
	case r.ID != "":
		sess.UserID = r.ID
	default:
		return Session{}, &Error{Op: op, Message: "response carried no user id"}
	}
	return sess, nil
}

// goTrueMessage reads whichever message field this GoTrue version sends.
func goTrueMessage(status int, body []byte) string {
	var e struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
		Error            string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil {
		for _, m := range []string{e.Msg, e.ErrorDescription, e.Message, e.Error} {
			if m != "" {
				return m
			}
		}
	}
	return fmt.Sprintf("unexpected status %d", status)
}
