package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"moneybook/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository stores credentials and wallets in a SQLite database.
// A wallet is a row in wallets plus its ordered transactions and budgets.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer at a time; batches rely on a single transaction.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	repo := &SQLiteRepository{
		db:      db,
		queries: New(db),
	}

	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadCredentials implements CredentialReader
func (r *SQLiteRepository) LoadCredentials(ctx context.Context) (map[string]core.Credential, error) {
	rows, err := r.queries.ListCredentials(ctx)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	out := make(map[string]core.Credential, len(rows))
	for _, row := range rows {
		out[row.Login] = core.Credential{Login: row.Login, Password: row.Password}
	}
	return out, nil
}

// ReadWallet implements WalletReader
func (r *SQLiteRepository) ReadWallet(ctx context.Context, login string) (core.Snapshot, error) {
	if strings.TrimSpace(login) == "" {
		return core.Snapshot{}, ErrInvalidLogin
	}
	exists, err := r.queries.WalletExists(ctx, login)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("check wallet: %w", err)
	}
	if !exists {
		return core.Snapshot{}, ErrNotFound
	}

	txRows, err := r.queries.ListWalletTransactions(ctx, login)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("list wallet transactions: %w", err)
	}
	budgetRows, err := r.queries.ListWalletBudgets(ctx, login)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("list wallet budgets: %w", err)
	}

	s := core.Snapshot{
		Transactions: make([]core.SnapshotTransaction, 0, len(txRows)),
		Budgets:      make(map[string]string, len(budgetRows)),
	}
	for _, row := range txRows {
		s.Transactions = append(s.Transactions, core.SnapshotTransaction{
			Kind:     core.Kind(row.Kind),
			Amount:   row.Amount,
			Category: row.Category,
		})
	}
	for _, row := range budgetRows {
		s.Budgets[row.Category] = row.Amount
	}
	return s, nil
}

// Commit implements Committer. The whole batch runs in one SQL transaction.
func (r *SQLiteRepository) Commit(ctx context.Context, b Batch) error {
	if b.IsEmpty() {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)

	logins := make([]string, 0, len(b.Wallets))
	for login := range b.Wallets {
		logins = append(logins, login)
	}
	slices.Sort(logins)
	for _, login := range logins {
		if err := writeWallet(ctx, q, login, b.Wallets[login]); err != nil {
			return err
		}
	}

	if b.Credentials != nil {
		for login, c := range b.Credentials {
			if err := q.UpsertCredential(ctx, login, c.Password); err != nil {
				return fmt.Errorf("upsert credential %s: %w", login, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	slog.DebugContext(ctx, "Batch committed to SQLite",
		"wallets", len(b.Wallets),
		"credentials", len(b.Credentials))

	return nil
}

func writeWallet(ctx context.Context, q *Queries, login string, s core.Snapshot) error {
	if strings.TrimSpace(login) == "" {
		return ErrInvalidLogin
	}
	if err := q.TouchWallet(ctx, login); err != nil {
		return fmt.Errorf("touch wallet %s: %w", login, err)
	}
	if err := q.DeleteWalletTransactions(ctx, login); err != nil {
		return fmt.Errorf("clear wallet transactions %s: %w", login, err)
	}
	if err := q.DeleteWalletBudgets(ctx, login); err != nil {
		return fmt.Errorf("clear wallet budgets %s: %w", login, err)
	}
	for i, t := range s.Transactions {
		row := TransactionRow{
			Position: int64(i),
			Kind:     string(t.Kind),
			Amount:   t.Amount,
			Category: t.Category,
		}
		if err := q.InsertWalletTransaction(ctx, login, row); err != nil {
			return fmt.Errorf("insert wallet transaction %s/%d: %w", login, i, err)
		}
	}
	for category, amount := range s.Budgets {
		if err := q.InsertWalletBudget(ctx, login, BudgetRow{Category: category, Amount: amount}); err != nil {
			return fmt.Errorf("insert wallet budget %s/%s: %w", login, category, err)
		}
	}
	return nil
}
