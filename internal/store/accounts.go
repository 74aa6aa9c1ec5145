package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/theirongolddev/paisa/internal/auth"
)

// CreateAccount inserts a local account. Emails are unique.
func (d *DB) CreateAccount(ctx context.Context, a auth.Account) error {
	res, err := sq.Insert("accounts").
		Columns("id", "email", "password_hash", "created_at").
		Values(a.ID, a.Email, a.PasswordHash, a.CreatedAt.UTC().Format(time.RFC3339)).
		Suffix("ON CONFLICT(email) DO NOTHING").
		RunWith(d.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("inserting account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("inserting account: %w", err)
	}
	if n == 0 {
		return auth.ErrEmailExists
	}
	return nil
}

// AccountByEmail looks up an account by its normalized email.
func (d *DB) AccountByEmail(ctx context.Context, email string) (auth.Account, error) {
	var (
		a       auth.Account
		created string
	)
	err := sq.Select("id", "email", "password_hash", "created_at").
		From("accounts").
		Where(sq.Eq{"email": email}).
		RunWith(d.db).
		QueryRowContext(ctx).
		Scan(&a.ID, &a.Email, &a.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.Account{}, auth.ErrAccountNotFound
	}
	if err != nil {
		return auth.Account{}, fmt.Errorf("querying account: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, created); err == nil {
		a.CreatedAt = t
	}
	return a, nil
}
