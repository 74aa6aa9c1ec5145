// Package auth signs users in against an identity provider and returns the
// session the rest of the app uses to reach that user's data.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Operations recorded on Error.
const (
	OpSignIn = "sign in"
	OpSignUp = "sign up"
)

var (
	// ErrMissingCredentials is wrapped by Error when email or password is blank.
	ErrMissingCredentials = errors.New("auth: email and password are required")
	// ErrEmailExists is returned by an AccountStore for a duplicate email.
	ErrEmailExists = errors.New("auth: email already registered")
	// ErrAccountNotFound is returned by an AccountStore for an unknown email.
	ErrAccountNotFound = errors.New("auth: account not found")
)

// Session identifies the signed-in user. It lives only as long as the
// expense screen and is never written to disk.
type Session struct {
	UserID  string
	Email   string
	IDToken string
}

// Gate is the authentication collaborator.
type Gate interface {
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignUp(ctx context.Context, email, password string) (Session, error)
}

// Error is a failed sign-in or sign-up. Message is what the provider said,
// unmodified, and is what the user sees.
type Error struct {
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return "auth: " + e.Op + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// checkCredentials performs the only local validation: both fields set.
func checkCredentials(op, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", &Error{Op: op, Message: "Email and password are required.", Err: ErrMissingCredentials}
	}
	return email, nil
}

// Account is a locally stored credential.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// AccountStore persists local accounts.
type AccountStore interface {
	CreateAccount(ctx context.Context, a Account) error
	AccountByEmail(ctx context.Context, email string) (Account, error)
}
