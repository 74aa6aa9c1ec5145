package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestLocal() *Local {
	l := NewLocal(NewMemoryAccounts())
	l.cost = bcrypt.MinCost
	return l
}

func authMessage(t *testing.T, err error) string {
	t.Helper()
	var ae *Error
	require.ErrorAs(t, err, &ae)
	return ae.Message
}

func TestLocalSignUpThenSignIn(t *testing.T) {
	ctx := context.Background()
	l := newTestLocal()

	up, err := l.SignUp(ctx, "Me@Example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, up.UserID)
	assert.Equal(t, "me@example.com", up.Email)

	in, err := l.SignIn(ctx, "me@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, up.UserID, in.UserID)
}

func TestLocalFailures(t *testing.T) {
	ctx := context.Background()
	l := newTestLocal()

	_, err := l.SignUp(ctx, "me@example.com", "123")
	assert.Equal(t, msgWeakPassword, authMessage(t, err))

	_, err = l.SignUp(ctx, "not-an-email", "secret1")
	assert.Equal(t, msgInvalidEmail, authMessage(t, err))

	_, err = l.SignUp(ctx, "me@example.com", "secret1")
	require.NoError(t, err)
	_, err = l.SignUp(ctx, "me@example.com", "secret2")
	assert.Equal(t, msgEmailExists, authMessage(t, err))

	_, err = l.SignIn(ctx, "me@example.com", "wrong-pw")
	assert.Equal(t, msgInvalidCredentials, authMessage(t, err))

	_, err = l.SignIn(ctx, "nobody@example.com", "secret1")
	assert.Equal(t, msgInvalidCredentials, authMessage(t, err))

	_, err = l.SignIn(ctx, "", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}
