package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneybook/internal/core"
)

func backends(t *testing.T) map[string]Backend {
	t.Helper()
	dir := t.TempDir()

	fb, err := NewFileBackend(filepath.Join(dir, "files"))
	require.NoError(t, err)

	sb, err := NewSQLiteRepository(filepath.Join(dir, "db", "moneybook.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sb.Close() })

	return map[string]Backend{"file": fb, "sqlite": sb}
}

func sampleSnapshot() core.Snapshot {
	return core.Snapshot{
		Transactions: []core.SnapshotTransaction{
			{Kind: core.Income, Amount: "1000", Category: "Salary"},
			{Kind: core.Expense, Amount: "150.5", Category: "Food"},
			{Kind: core.Expense, Amount: "20", Category: "Taxi"},
		},
		Budgets: map[string]string{"Food": "500", "Taxi": "100"},
	}
}

func TestBackendEmpty(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			creds, err := b.LoadCredentials(ctx)
			require.NoError(t, err)
			assert.Empty(t, creds)

			_, err = b.ReadWallet(ctx, "nobody")
			assert.ErrorIs(t, err, ErrNotFound)

			_, err = b.ReadWallet(ctx, " ")
			assert.ErrorIs(t, err, ErrInvalidLogin)
		})
	}
}

func TestBackendCommitAndRead(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			err := b.Commit(ctx, Batch{
				Credentials: map[string]core.Credential{
					"alice": {Login: "alice", Password: "pw1"},
				},
				Wallets: map[string]core.Snapshot{
					"alice": sampleSnapshot(),
				},
			})
			require.NoError(t, err)

			creds, err := b.LoadCredentials(ctx)
			require.NoError(t, err)
			assert.Equal(t, map[string]core.Credential{"alice": {Login: "alice", Password: "pw1"}}, creds)

			got, err := b.ReadWallet(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, sampleSnapshot(), got)

			// Overwrite is idempotent and replaces the whole record.
			shorter := core.Snapshot{
				Transactions: []core.SnapshotTransaction{{Kind: core.Income, Amount: "1", Category: "Gift"}},
				Budgets:      map[string]string{},
			}
			require.NoError(t, b.Commit(ctx, Batch{Wallets: map[string]core.Snapshot{"alice": shorter}}))
			require.NoError(t, b.Commit(ctx, Batch{Wallets: map[string]core.Snapshot{"alice": shorter}}))

			got, err = b.ReadWallet(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, shorter, got)

			// Credentials are untouched by a wallet-only batch.
			creds, err = b.LoadCredentials(ctx)
			require.NoError(t, err)
			assert.Len(t, creds, 1)
		})
	}
}

func TestBackendEmptyBatchIsNoop(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, b.Commit(ctx, Batch{}))
			creds, err := b.LoadCredentials(ctx)
			require.NoError(t, err)
			assert.Empty(t, creds)
		})
	}
}

func TestSQLiteBatchIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "atomic.db"))
	require.NoError(t, err)
	defer repo.Close()

	require.NoError(t, repo.Commit(ctx, Batch{Wallets: map[string]core.Snapshot{"alice": sampleSnapshot()}}))

	// bob's row violates the kind CHECK constraint, so alice's update must not land either.
	err = repo.Commit(ctx, Batch{
		Credentials: map[string]core.Credential{"bob": {Login: "bob", Password: "x"}},
		Wallets: map[string]core.Snapshot{
			"alice": {Transactions: nil, Budgets: map[string]string{}},
			"bob":   {Transactions: []core.SnapshotTransaction{{Kind: "BAD", Amount: "1", Category: "X"}}},
		},
	})
	require.Error(t, err)

	got, err := repo.ReadWallet(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot(), got)

	_, err = repo.ReadWallet(ctx, "bob")
	assert.ErrorIs(t, err, ErrNotFound)

	creds, err := repo.LoadCredentials(ctx)
	require.NoError(t, err)
	assert.Empty(t, creds)
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reopen.db")

	repo, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	require.NoError(t, repo.Commit(ctx, Batch{
		Credentials: map[string]core.Credential{"alice": {Login: "alice", Password: "pw"}},
		Wallets:     map[string]core.Snapshot{"alice": sampleSnapshot()},
	}))
	require.NoError(t, repo.Close())

	repo, err = NewSQLiteRepository(path)
	require.NoError(t, err)
	defer repo.Close()

	got, err := repo.ReadWallet(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot(), got)
}

func TestRunMigrations(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "schema.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	version, err := RunMigrations(db)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	version, err = RunMigrations(db)
	require.NoError(t, err, "already migrated")
	assert.Equal(t, uint(1), version)

	require.NoError(t, db.Ping(), "connection stays open")
	exists, err := New(db).WalletExists(context.Background(), "alice")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFileBackendRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fb, err := NewFileBackend(dir)
	require.NoError(t, err)

	require.NoError(t, fb.Commit(ctx, Batch{Wallets: map[string]core.Snapshot{"alice": sampleSnapshot()}}))

	// A directory where users.json should be makes the credential write fail
	// after alice's wallet has already been replaced.
	require.NoError(t, os.Mkdir(filepath.Join(dir, usersFile), 0755))

	err = fb.Commit(ctx, Batch{
		Credentials: map[string]core.Credential{"alice": {Login: "alice", Password: "pw"}},
		Wallets: map[string]core.Snapshot{
			"alice": {Budgets: map[string]string{}},
			"carol": sampleSnapshot(),
		},
	})
	require.Error(t, err)

	got, err := fb.ReadWallet(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot(), got)

	_, err = fb.ReadWallet(ctx, "carol")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileBackendCorruptFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fb, err := NewFileBackend(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, usersFile), []byte("{not json"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alice"+walletSuffix), []byte("garbage"), 0644))

	_, err = fb.LoadCredentials(ctx)
	assert.Error(t, err)

	_, err = fb.ReadWallet(ctx, "alice")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestFileBackendEscapesLogins(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fb, err := NewFileBackend(dir)
	require.NoError(t, err)

	require.NoError(t, fb.Commit(ctx, Batch{Wallets: map[string]core.Snapshot{"../evil": sampleSnapshot()}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "..%2Fevil"+walletSuffix, entries[0].Name())

	got, err := fb.ReadWallet(ctx, "../evil")
	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot(), got)
}
