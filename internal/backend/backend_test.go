package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/paisa/internal/auth"
	"github.com/theirongolddev/paisa/internal/config"
	"github.com/theirongolddev/paisa/internal/expense"
	"github.com/theirongolddev/paisa/internal/rtdb"
)

func TestTypes(t *testing.T) {
	assert.Equal(t, []string{"firebase", "supabase", "sqlite", "memory"}, TypeStrings())
	assert.True(t, SQLite.IsValid())
	assert.False(t, Type("mongo").IsValid())
}

func TestOpenRejectsBadConfig(t *testing.T) {
	_, err := Open(context.Background(), Config{Type: "mongo"}, nil)
	assert.Error(t, err)

	_, err = Open(context.Background(), Config{Type: Firebase}, nil)
	assert.ErrorContains(t, err, "missing apiKey")
}

func TestOpenFirebase(t *testing.T) {
	env := config.Env{Firebase: config.FirebaseEnv{
		APIKey: "k", AuthDomain: "p.firebaseapp.com", ProjectID: "p",
		DatabaseURL: "https://p.firebaseio.com", StorageBucket: "p.appspot.com",
	}}
	b, err := Open(context.Background(), Config{Type: Firebase, Env: env}, nil)
	require.NoError(t, err)
	defer func() { _ = b.Close() }()

	ns, err := b.Namespace(testSession)
	require.NoError(t, err)
	assert.IsType(t, &rtdb.Firebase{}, ns)
}

func TestMemoryBackendEndToEnd(t *testing.T) {
	ctx := context.Background()
	b, err := Open(ctx, Config{Type: Memory}, nil)
	require.NoError(t, err)
	defer func() { _ = b.Close() }()

	sess, err := b.Gate.SignUp(ctx, "me@example.com", "secret1")
	require.NoError(t, err)

	tr, err := b.Tracker(sess)
	require.NoError(t, err)
	_, err = tr.CreateExpense(ctx, expense.Draft{Title: "Coffee", Amount: "4.50", Date: "2024-01-10", Category: "Food"})
	require.NoError(t, err)

	again, err := b.Gate.SignIn(ctx, "me@example.com", "secret1")
	require.NoError(t, err)
	tr2, err := b.Tracker(again)
	require.NoError(t, err)
	exps, err := tr2.ListExpenses(ctx)
	require.NoError(t, err)
	assert.Len(t, exps, 1)
}

func TestSQLiteBackendPersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "paisa.db")

	b, err := Open(ctx, Config{Type: SQLite, SQLitePath: path}, nil)
	require.NoError(t, err)
	sess, err := b.Gate.SignUp(ctx, "me@example.com", "secret1")
	require.NoError(t, err)
	tr, err := b.Tracker(sess)
	require.NoError(t, err)
	require.NoError(t, tr.AddCategory(ctx, "Food"))
	require.NoError(t, b.Close())

	b, err = Open(ctx, Config{Type: SQLite, SQLitePath: path}, nil)
	require.NoError(t, err)
	defer func() { _ = b.Close() }()
	sess, err = b.Gate.SignIn(ctx, "me@example.com", "secret1")
	require.NoError(t, err)
	tr, err = b.Tracker(sess)
	require.NoError(t, err)
	cats, err := tr.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Food"}, cats)
}

var testSession = auth.Session{UserID: "u1", Email: "u1@example.com", IDToken: "tok"}
