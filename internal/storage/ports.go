// Package storage persists credentials and wallet snapshots, one record per
// login, on the local file system or in SQLite.
package storage

import (
	"context"
	"errors"

	"moneybook/internal/core"
)

var (
	// ErrNotFound is returned by ReadWallet when no record exists for a login.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidLogin is returned for logins that cannot be used as a record key.
	ErrInvalidLogin = errors.New("invalid login")
)

type (
	// Batch is a set of writes applied all together or not at all.
	Batch struct {
		// Credentials, when non-nil, is the complete credential set to persist.
		Credentials map[string]core.Credential
		// Wallets maps logins to the snapshot to store for them.
		Wallets map[string]core.Snapshot
	}

	CredentialReader interface {
		// LoadCredentials returns every stored credential keyed by login.
		LoadCredentials(ctx context.Context) (map[string]core.Credential, error)
	}

	WalletReader interface {
		// ReadWallet returns the stored snapshot or ErrNotFound.
		ReadWallet(ctx context.Context, login string) (core.Snapshot, error)
	}

	Committer interface {
		Commit(ctx context.Context, b Batch) error
	}

	// Backend is what the account store needs from durable storage.
	Backend interface {
		CredentialReader
		WalletReader
		Committer
		Close() error
	}
)

// IsEmpty reports whether b would write nothing.
func (b Batch) IsEmpty() bool {
	return b.Credentials == nil && len(b.Wallets) == 0
}
