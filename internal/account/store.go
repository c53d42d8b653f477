// Package account keeps registered users and their wallets, loading wallets
// from durable storage on demand and writing them back on request.
package account

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"moneybook/internal/core"
	"moneybook/internal/log"
	"moneybook/internal/storage"
)

var (
	ErrLoginTaken   = errors.New("login already registered")
	ErrUnknownLogin = errors.New("unknown login")
)

// Store maps logins to credentials and to wallets. Wallets live in an arena
// keyed by login and are read from the backend the first time they are needed.
// A Store is meant for a single caller and is not safe for concurrent use.
type Store struct {
	backend     storage.Backend
	registry    *core.Registry
	logger      *log.Logger
	credentials map[string]core.Credential
	wallets     map[string]*core.Wallet
}

// NewStore loads the credential set from backend. If that fails the store
// starts with no users; the failure is logged and returned alongside the
// usable store.
func NewStore(ctx context.Context, backend storage.Backend, registry *core.Registry, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.Discard()
	}
	s := &Store{
		backend:     backend,
		registry:    registry,
		logger:      logger.WithComponent(log.ComponentAccount),
		credentials: map[string]core.Credential{},
		wallets:     map[string]*core.Wallet{},
	}

	creds, err := backend.LoadCredentials(ctx)
	if err != nil {
		s.logger.LogError(ctx, "Failed to load credentials, starting empty", err, log.OpLoad, nil)
		return s, fmt.Errorf("load credentials: %w", err)
	}
	s.credentials = creds
	s.logger.DebugContext(ctx, "Credentials loaded", log.FieldCount, len(creds))
	return s, nil
}

// Register creates the user and an empty wallet and persists both in one
// batch. Nothing changes in memory unless the batch is committed.
func (s *Store) Register(ctx context.Context, login, password string) error {
	if _, ok := s.credentials[login]; ok {
		return ErrLoginTaken
	}
	cred := core.Credential{Login: login, Password: password}
	wallet := core.NewWallet()

	creds := maps.Clone(s.credentials)
	creds[login] = cred
	err := s.backend.Commit(ctx, storage.Batch{
		Credentials: creds,
		Wallets:     map[string]core.Snapshot{login: wallet.Snapshot()},
	})
	if err != nil {
		s.logger.LogError(ctx, "Failed to persist registration", err, log.OpRegister, log.NewFields().WithLogin(login))
		return fmt.Errorf("persist registration: %w", err)
	}

	s.credentials = creds
	s.wallets[login] = wallet
	s.logger.InfoContext(ctx, "User registered", log.FieldLogin, login)
	return nil
}

// Authenticate returns the credential when password matches exactly.
func (s *Store) Authenticate(login, password string) (core.Credential, bool) {
	c, ok := s.credentials[login]
	if !ok || !c.Matches(password) {
		return core.Credential{}, false
	}
	return c, true
}

func (s *Store) Exists(login string) bool {
	_, ok := s.credentials[login]
	return ok
}

// Len returns the number of registered users.
func (s *Store) Len() int {
	return len(s.credentials)
}

// LoadWallet reads login's wallet from the backend into the arena, replacing
// any copy already there. The returned wallet is never nil: when the record is
// missing it is empty, and when it cannot be read or decoded it is empty and
// the error says why.
func (s *Store) LoadWallet(ctx context.Context, login string) (*core.Wallet, error) {
	w, err := s.readWallet(ctx, login)
	s.wallets[login] = w
	return w, err
}

func (s *Store) readWallet(ctx context.Context, login string) (*core.Wallet, error) {
	snap, err := s.backend.ReadWallet(ctx, login)
	if errors.Is(err, storage.ErrNotFound) {
		return core.NewWallet(), nil
	}
	if err != nil {
		s.logger.LogError(ctx, "Failed to read wallet, using an empty one", err, log.OpLoad, log.NewFields().WithLogin(login))
		return core.NewWallet(), fmt.Errorf("read wallet %s: %w", login, err)
	}
	w, err := core.RestoreWallet(snap, s.registry)
	if err != nil {
		s.logger.LogError(ctx, "Failed to decode wallet, using an empty one", err, log.OpLoad, log.NewFields().WithLogin(login))
		return core.NewWallet(), fmt.Errorf("decode wallet %s: %w", login, err)
	}
	return w, nil
}

// Wallet returns login's wallet from the arena, loading it first if needed.
func (s *Store) Wallet(ctx context.Context, login string) (*core.Wallet, error) {
	if w, ok := s.wallets[login]; ok {
		return w, nil
	}
	return s.LoadWallet(ctx, login)
}

// loaded reports whether login's wallet is in the arena.
func (s *Store) loaded(login string) bool {
	_, ok := s.wallets[login]
	return ok
}

// Evict drops login's wallet from the arena without saving it.
func (s *Store) Evict(login string) {
	delete(s.wallets, login)
}

// SaveWallet overwrites the stored record for login with the arena copy.
func (s *Store) SaveWallet(ctx context.Context, login string) error {
	return s.SaveWallets(ctx, login)
}

// SaveWallets writes the arena copies of every given login in one batch.
func (s *Store) SaveWallets(ctx context.Context, logins ...string) error {
	snaps := make(map[string]core.Snapshot, len(logins))
	for _, login := range logins {
		w, ok := s.wallets[login]
		if !ok {
			return fmt.Errorf("save wallet %s: %w", login, ErrUnknownLogin)
		}
		snaps[login] = w.Snapshot()
	}
	return s.commitWallets(ctx, snaps)
}

// Persist writes the given wallets in one batch. They need not be the arena
// copies and the arena is left as it is.
func (s *Store) Persist(ctx context.Context, wallets map[string]*core.Wallet) error {
	snaps := make(map[string]core.Snapshot, len(wallets))
	for login, w := range wallets {
		if !s.Exists(login) {
			return fmt.Errorf("persist wallet %s: %w", login, ErrUnknownLogin)
		}
		snaps[login] = w.Snapshot()
	}
	return s.commitWallets(ctx, snaps)
}

func (s *Store) commitWallets(ctx context.Context, snaps map[string]core.Snapshot) error {
	if err := s.backend.Commit(ctx, storage.Batch{Wallets: snaps}); err != nil {
		s.logger.LogError(ctx, "Failed to save wallets", err, log.OpSave, log.NewFields().With(log.FieldCount, len(snaps)))
		return fmt.Errorf("save wallets: %w", err)
	}
	s.logger.DebugContext(ctx, "Wallets saved", log.FieldCount, len(snaps))
	return nil
}

// SaveCredentials persists the whole credential set as one unit.
func (s *Store) SaveCredentials(ctx context.Context) error {
	if err := s.backend.Commit(ctx, storage.Batch{Credentials: maps.Clone(s.credentials)}); err != nil {
		s.logger.LogError(ctx, "Failed to save credentials", err, log.OpSave, nil)
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}
