package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength matches the hosted provider's password policy.
const MinPasswordLength = 6

// Provider-compatible failure messages.
const (
	msgInvalidEmail       = "INVALID_EMAIL"
	msgWeakPassword       = "WEAK_PASSWORD : Password should be at least 6 characters"
	msgEmailExists        = "EMAIL_EXISTS"
	msgInvalidCredentials = "INVALID_LOGIN_CREDENTIALS"
)

// Local authenticates against accounts kept in an AccountStore with bcrypt
// password hashes. It speaks the same failure messages as Firebase.
type Local struct {
	accounts AccountStore
	cost     int
}

// NewLocal creates a gate over accounts.
func NewLocal(accounts AccountStore) *Local {
	return &Local{accounts: accounts, cost: bcrypt.DefaultCost}
}

// SignIn verifies the password of an existing account.
func (l *Local) SignIn(ctx context.Context, email, password string) (Session, error) {
	email, err := checkCredentials(OpSignIn, email, password)
	if err != nil {
		return Session{}, err
	}
	email = strings.ToLower(email)

	a, err := l.accounts.AccountByEmail(ctx, email)
	if errors.Is(err, ErrAccountNotFound) {
		return Session{}, &Error{Op: OpSignIn, Message: msgInvalidCredentials, Err: err}
	}
	if err != nil {
		return Session{}, &Error{Op: OpSignIn, Message: err.Error(), Err: err}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return Session{}, &Error{Op: OpSignIn, Message: msgInvalidCredentials, Err: err}
	}
	return Session{UserID: a.ID, Email: a.Email}, nil
}

// SignUp creates an account and returns its session.
func (l *Local) SignUp(ctx context.Context, email, password string) (Session, error) {
	email, err := checkCredentials(OpSignUp, email, password)
	if err != nil {
		return Session{}, err
	}
	email = strings.ToLower(email)

	if at := strings.Index(email, "@"); at <= 0 || at == len(email)-1 {
		return Session{}, &Error{Op: OpSignUp, Message: msgInvalidEmail}
	}
	if len(password) < MinPasswordLength {
		return Session{}, &Error{Op: OpSignUp, Message: msgWeakPassword}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), l.cost)
	if err != nil {
		return Session{}, &Error{Op: OpSignUp, Message: err.Error(), Err: err}
	}
	a := Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := l.accounts.CreateAccount(ctx, a); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return Session{}, &Error{Op: OpSignUp, Message: msgEmailExists, Err: err}
		}
		return Session{}, &Error{Op: OpSignUp, Message: err.Error(), Err: err}
	}
	return Session{UserID: a.ID, Email: a.Email}, nil
}

// MemoryAccounts is an AccountStore that forgets everything on exit.
type MemoryAccounts struct {
	mu      sync.Mutex
	byEmail map[string]Account
}

// NewMemoryAccounts returns an empty account store.
func NewMemoryAccounts() *MemoryAccounts {
	return &MemoryAccounts{byEmail: make(map[string]Account)}
}

func (m *MemoryAccounts) CreateAccount(_ context.Context, a Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[a.Email]; ok {
		return ErrEmailExists
	}
	m.byEmail[a.Email] = a
	return nil
}

func (m *MemoryAccounts) AccountByEmail(_ context.Context, email string) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byEmail[email]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return a, nil
}
