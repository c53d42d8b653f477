package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type (
	CredentialRow struct {
		Login    string
		Password string
	}

	TransactionRow struct {
		Position int64
		Kind     string
		Amount   string
		Category string
	}

	BudgetRow struct {
		Category string
		Amount   string
	}
)

const listCredentials = `SELECT login, password FROM credentials ORDER BY login`

func (q *Queries) ListCredentials(ctx context.Context) ([]CredentialRow, error) {
	rows, err := q.db.QueryContext(ctx, listCredentials)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CredentialRow
	for rows.Next() {
		var i CredentialRow
		if err := rows.Scan(&i.Login, &i.Password); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const upsertCredential = `INSERT INTO credentials (login, password) VALUES (?, ?)
ON CONFLICT(login) DO UPDATE SET password = excluded.password`

func (q *Queries) UpsertCredential(ctx context.Context, login, password string) error {
	_, err := q.db.ExecContext(ctx, upsertCredential, login, password)
	return err
}

const walletExists = `SELECT COUNT(*) FROM wallets WHERE login = ?`

func (q *Queries) WalletExists(ctx context.Context, login string) (bool, error) {
	var n int64
	if err := q.db.QueryRowContext(ctx, walletExists, login).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

const touchWallet = `INSERT INTO wallets (login) VALUES (?)
ON CONFLICT(login) DO UPDATE SET updated_at = CURRENT_TIMESTAMP`

func (q *Queries) TouchWallet(ctx context.Context, login string) error {
	_, err := q.db.ExecContext(ctx, touchWallet, login)
	return err
}

const listWalletTransactions = `SELECT position, kind, amount, category FROM wallet_transactions
WHERE login = ? ORDER BY position`

func (q *Queries) ListWalletTransactions(ctx context.Context, login string) ([]TransactionRow, error) {
	rows, err := q.db.QueryContext(ctx, listWalletTransactions, login)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TransactionRow
	for rows.Next() {
		var i TransactionRow
		if err := rows.Scan(&i.Position, &i.Kind, &i.Amount, &i.Category); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listWalletBudgets = `SELECT category, amount FROM wallet_budgets WHERE login = ? ORDER BY category`

func (q *Queries) ListWalletBudgets(ctx context.Context, login string) ([]BudgetRow, error) {
	rows, err := q.db.QueryContext(ctx, listWalletBudgets, login)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []BudgetRow
	for rows.Next() {
		var i BudgetRow
		if err := rows.Scan(&i.Category, &i.Amount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const deleteWalletTransactions = `DELETE FROM wallet_transactions WHERE login = ?`

func (q *Queries) DeleteWalletTransactions(ctx context.Context, login string) error {
	_, err := q.db.ExecContext(ctx, deleteWalletTransactions, login)
	return err
}

const deleteWalletBudgets = `DELETE FROM wallet_budgets WHERE login = ?`

func (q *Queries) DeleteWalletBudgets(ctx context.Context, login string) error {
	_, err := q.db.ExecContext(ctx, deleteWalletBudgets, login)
	return err
}

const insertWalletTransaction = `INSERT INTO wallet_transactions (login, position, kind, amount, category)
VALUES (?, ?, ?, ?, ?)`

func (q *Queries) InsertWalletTransaction(ctx context.Context, login string, row TransactionRow) error {
	_, err := q.db.ExecContext(ctx, insertWalletTransaction, login, row.Position, row.Kind, row.Amount, row.Category)
	return err
}

const insertWalletBudget = `INSERT INTO wallet_budgets (login, category, amount) VALUES (?, ?, ?)`

func (q *Queries) InsertWalletBudget(ctx context.Context, login string, row BudgetRow) error {
	_, err := q.db.ExecContext(ctx, insertWalletBudget, login, row.Category, row.Amount)
	return err
}
