package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupabaseSignIn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon", r.Header.Get("apikey"))
		_, _ = io.WriteString(w, `{"access_token":"jwt","user":{"id":"u-9","email":"s@example.com"}}`)
	}))
	defer srv.Close()

	sess, err := NewSupabase(srv.URL, "anon").SignIn(context.Background(), "s@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, Session{UserID: "u-9", Email: "s@example.com", IDToken: "jwt"}, sess)
}

func TestSupabaseSignUpWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)
		_, _ = io.WriteString(w, `{"id":"u-10","email":"s@example.com"}`)
	}))
	defer srv.Close()

	sess, err := NewSupabase(srv.URL, "anon").SignUp(context.Background(), "s@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "u-10", sess.UserID)
	assert.Empty(t, sess.IDToken)
}

func TestSupabaseErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"invalid_grant","error_description":"Invalid login credentials"}`)
	}))
	defer srv.Close()

	_, err := NewSupabase(srv.URL, "anon").SignIn(context.Background(), "s@example.com", "bad")
	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Invalid login credentials", ae.Message)
}
