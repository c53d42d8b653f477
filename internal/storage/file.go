package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"moneybook/internal/core"
)

const (
	usersFile    = "users.json"
	walletSuffix = "_wallet.json"
)

// FileBackend keeps users.json plus one <login>_wallet.json per user in a
// directory. Every file is replaced through a temporary file and a rename.
type FileBackend struct {
	dir string
}

type fileCredential struct {
	Password string `json:"password"`
}

func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

func (b *FileBackend) Dir() string {
	return b.dir
}

// LoadCredentials implements CredentialReader. A missing users file means no users.
func (b *FileBackend) LoadCredentials(_ context.Context) (map[string]core.Credential, error) {
	data, err := os.ReadFile(filepath.Join(b.dir, usersFile))
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]core.Credential{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}

	var stored map[string]fileCredential
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("decode users file: %w", err)
	}
	out := make(map[string]core.Credential, len(stored))
	for login, c := range stored {
		out[login] = core.Credential{Login: login, Password: c.Password}
	}
	return out, nil
}

// ReadWallet implements WalletReader.
func (b *FileBackend) ReadWallet(_ context.Context, login string) (core.Snapshot, error) {
	path, err := b.walletPath(login)
	if err != nil {
		return core.Snapshot{}, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return core.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("read wallet file: %w", err)
	}
	var s core.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return core.Snapshot{}, fmt.Errorf("decode wallet file: %w", err)
	}
	return s, nil
}

// Commit implements Committer. Wallets are written before the users file so a
// registered login always has a wallet record. When a write fails, the files
// already replaced by this batch get their previous content back.
func (b *FileBackend) Commit(ctx context.Context, batch Batch) error {
	if batch.IsEmpty() {
		return nil
	}

	type write struct {
		path string
		data []byte
	}
	var writes []write

	logins := make([]string, 0, len(batch.Wallets))
	for login := range batch.Wallets {
		logins = append(logins, login)
	}
	slices.Sort(logins)
	for _, login := range logins {
		path, err := b.walletPath(login)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(batch.Wallets[login], "", "  ")
		if err != nil {
			return fmt.Errorf("encode wallet %s: %w", login, err)
		}
		writes = append(writes, write{path: path, data: data})
	}
	if batch.Credentials != nil {
		stored := make(map[string]fileCredential, len(batch.Credentials))
		for login, c := range batch.Credentials {
			stored[login] = fileCredential{Password: c.Password}
		}
		data, err := json.MarshalIndent(stored, "", "  ")
		if err != nil {
			return fmt.Errorf("encode users: %w", err)
		}
		writes = append(writes, write{path: filepath.Join(b.dir, usersFile), data: data})
	}

	var done []previous
	for _, w := range writes {
		prev, err := snapshotFile(w.path)
		if err != nil {
			b.rollback(ctx, done)
			return err
		}
		if err := writeFileAtomic(w.path, w.data); err != nil {
			b.rollback(ctx, done)
			return fmt.Errorf("write %s: %w", filepath.Base(w.path), err)
		}
		done = append(done, prev)
	}
	return nil
}

// Close implements Backend. There is nothing to release.
func (b *FileBackend) Close() error {
	return nil
}

func (b *FileBackend) walletPath(login string) (string, error) {
	if strings.TrimSpace(login) == "" {
		return "", ErrInvalidLogin
	}
	return filepath.Join(b.dir, url.PathEscape(login)+walletSuffix), nil
}

// previous is the content a file had before a batch touched it.
type previous struct {
	path    string
	data    []byte
	existed bool
}

func snapshotFile(path string) (previous, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return previous{path: path}, nil
	}
	if err != nil {
		return previous{}, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return previous{path: path, data: data, existed: true}, nil
}

func (b *FileBackend) rollback(ctx context.Context, done []previous) {
	for i := len(done) - 1; i >= 0; i-- {
		p := done[i]
		var err error
		if p.existed {
			err = writeFileAtomic(p.path, p.data)
		} else {
			err = os.Remove(p.path)
		}
		if err != nil {
			slog.ErrorContext(ctx, "Failed to roll back file", "path", p.path, "error", err)
		}
	}
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
