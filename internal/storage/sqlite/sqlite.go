// Package sqlite implements storage.Store on a local SQLite database via
// modernc.org/sqlite, with golang-migrate managing the schema.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/cofre-dev/cofre/internal/finance"
	"github.com/cofre-dev/cofre/internal/model"
	"github.com/cofre-dev/cofre/internal/storage"
)

const timeLayout = time.RFC3339Nano

// Store is the SQLite-backed storage.Store.
type Store struct {
	db *sql.DB
}

var _ storage.Store = (*Store)(nil)

// Open opens (creating if needed) the database at dbPath and migrates it.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) InsertAccount(ctx context.Context, a model.Account) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, name, bank, branch, number, type,
			initial_balance, balance, shared_with_alzi, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Bank, a.Branch, a.Number, string(a.Type),
		a.InitialBalance.String(), a.Balance.String(), boolInt(a.SharedWithAlzi), boolInt(a.Active),
		a.CreatedAt.UTC().Format(timeLayout), a.UpdatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (s *Store) GetAccount(ctx context.Context, id string) (model.Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, bank, branch, number, type,
			initial_balance, balance, shared_with_alzi, active, created_at, updated_at
		FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, fmt.Errorf("account %s: %w", id, finance.ErrNotFound)
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]model.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, bank, branch, number, type,
			initial_balance, balance, shared_with_alzi, active, created_at, updated_at
		FROM accounts ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *Store) UpdateAccount(ctx context.Context, a model.Account) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE accounts SET name = ?, bank = ?, branch = ?, number = ?, type = ?,
			initial_balance = ?, balance = ?, shared_with_alzi = ?, active = ?, updated_at = ?
		WHERE id = ?`,
		a.Name, a.Bank, a.Branch, a.Number, string(a.Type),
		a.InitialBalance.String(), a.Balance.String(), boolInt(a.SharedWithAlzi), boolInt(a.Active),
		a.UpdatedAt.UTC().Format(timeLayout), a.ID)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return requireRow(res, "account", a.ID)
}

func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return requireRow(res, "account", id)
}

func (s *Store) InsertCard(ctx context.Context, c model.Card) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cards (id, name, bank, brand, card_limit, available_limit,
			linked_account_id, due_day, closing_day, shared_with_alzi, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Bank, string(c.Brand), c.Limit.String(), c.AvailableLimit.String(),
		c.LinkedAccountID, c.DueDay, c.ClosingDay, boolInt(c.SharedWithAlzi), boolInt(c.Active),
		c.CreatedAt.UTC().Format(timeLayout), c.UpdatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert card: %w", err)
	}
	return nil
}

func (s *Store) GetCard(ctx context.Context, id string) (model.Card, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, bank, brand, card_limit, available_limit,
			linked_account_id, due_day, closing_day, shared_with_alzi, active, created_at, updated_at
		FROM cards WHERE id = ?`, id)
	c, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Card{}, fmt.Errorf("card %s: %w", id, finance.ErrNotFound)
	}
	if err != nil {
		return model.Card{}, fmt.Errorf("get card: %w", err)
	}
	return c, nil
}

func (s *Store) ListCards(ctx context.Context) ([]model.Card, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, bank, brand, card_limit, available_limit,
			linked_account_id, due_day, closing_day, shared_with_alzi, active, created_at, updated_at
		FROM cards ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	var cards []model.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (s *Store) UpdateCard(ctx context.Context, c model.Card) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE cards SET name = ?, bank = ?, brand = ?, card_limit = ?, available_limit = ?,
			linked_account_id = ?, due_day = ?, closing_day = ?, shared_with_alzi = ?, active = ?, updated_at = ?
		WHERE id = ?`,
		c.Name, c.Bank, string(c.Brand), c.Limit.String(), c.AvailableLimit.String(),
		c.LinkedAccountID, c.DueDay, c.ClosingDay, boolInt(c.SharedWithAlzi), boolInt(c.Active),
		c.UpdatedAt.UTC().Format(timeLayout), c.ID)
	if err != nil {
		return fmt.Errorf("update card: %w", err)
	}
	return requireRow(res, "card", c.ID)
}

func (s *Store) DeleteCard(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	return requireRow(res, "card", id)
}

func (s *Store) InsertTransaction(ctx context.Context, t model.Transaction) error {
	installments, err := json.Marshal(t.Installments)
	if err != nil {
		return fmt.Errorf("encode installments: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, description, value, kind, date, category,
			account_id, card_id, installments, notes, status, shared_with_alzi, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Description, t.Value.String(), string(t.Kind), t.Date.UTC().Format(timeLayout),
		t.Category, t.AccountID, t.CardID, string(installments), t.Notes, string(t.Status),
		boolInt(t.SharedWithAlzi), t.CreatedAt.UTC().Format(timeLayout), t.UpdatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id string) (model.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, description, value, kind, date, category,
			account_id, card_id, installments, notes, status, shared_with_alzi, created_at, updated_at
		FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, fmt.Errorf("transaction %s: %w", id, finance.ErrNotFound)
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (s *Store) ListTransactions(ctx context.Context, f storage.TransactionFilter) ([]model.Transaction, error) {
	query := `
		SELECT id, description, value, kind, date, category,
			account_id, card_id, installments, notes, status, shared_with_alzi, created_at, updated_at
		FROM transactions WHERE 1=1`
	var args []any
	if f.AccountID != "" {
		query += " AND account_id = ?"
		args = append(args, f.AccountID)
	}
	if f.CardID != "" {
		query += " AND card_id = ?"
		args = append(args, f.CardID)
	}
	if !f.From.IsZero() {
		query += " AND date >= ?"
		args = append(args, f.From.UTC().Format(timeLayout))
	}
	if !f.To.IsZero() {
		query += " AND date < ?"
		args = append(args, f.To.UTC().Format(timeLayout))
	}
	if f.SharedOnly {
		query += " AND shared_with_alzi = 1"
	}
	query += " ORDER BY date, created_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

func (s *Store) UpdateTransaction(ctx context.Context, t model.Transaction) error {
	installments, err := json.Marshal(t.Installments)
	if err != nil {
		return fmt.Errorf("encode installments: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions SET description = ?, value = ?, kind = ?, date = ?, category = ?,
			account_id = ?, card_id = ?, installments = ?, notes = ?, status = ?,
			shared_with_alzi = ?, updated_at = ?
		WHERE id = ?`,
		t.Description, t.Value.String(), string(t.Kind), t.Date.UTC().Format(timeLayout),
		t.Category, t.AccountID, t.CardID, string(installments), t.Notes, string(t.Status),
		boolInt(t.SharedWithAlzi), t.UpdatedAt.UTC().Format(timeLayout), t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res, "transaction", t.ID)
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res, "transaction", id)
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (model.Account, error) {
	var (
		a                    model.Account
		typ                  string
		initial, balance     string
		shared, active       int
		createdAt, updatedAt string
	)
	if err := row.Scan(&a.ID, &a.Name, &a.Bank, &a.Branch, &a.Number, &typ,
		&initial, &balance, &shared, &active, &createdAt, &updatedAt); err != nil {
		return model.Account{}, err
	}
	var err error
	if a.InitialBalance, err = decimal.NewFromString(initial); err != nil {
		return model.Account{}, fmt.Errorf("initial balance: %w", err)
	}
	if a.Balance, err = decimal.NewFromString(balance); err != nil {
		return model.Account{}, fmt.Errorf("balance: %w", err)
	}
	if a.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return model.Account{}, fmt.Errorf("created_at: %w", err)
	}
	if a.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return model.Account{}, fmt.Errorf("updated_at: %w", err)
	}
	a.Type = model.AccountType(typ)
	a.SharedWithAlzi = shared != 0
	a.Active = active != 0
	return a, nil
}

func scanCard(row scanner) (model.Card, error) {
	var (
		c                    model.Card
		brand                string
		limit, available     string
		shared, active       int
		createdAt, updatedAt string
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Bank, &brand, &limit, &available,
		&c.LinkedAccountID, &c.DueDay, &c.ClosingDay, &shared, &active, &createdAt, &updatedAt); err != nil {
		return model.Card{}, err
	}
	var err error
	if c.Limit, err = decimal.NewFromString(limit); err != nil {
		return model.Card{}, fmt.Errorf("limit: %w", err)
	}
	if c.AvailableLimit, err = decimal.NewFromString(available); err != nil {
		return model.Card{}, fmt.Errorf("available limit: %w", err)
	}
	if c.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return model.Card{}, fmt.Errorf("created_at: %w", err)
	}
	if c.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return model.Card{}, fmt.Errorf("updated_at: %w", err)
	}
	c.Brand = model.CardBrand(brand)
	c.SharedWithAlzi = shared != 0
	c.Active = active != 0
	return c, nil
}

func scanTransaction(row scanner) (model.Transaction, error) {
	var (
		t                    model.Transaction
		value, kind, date    string
		installments, status string
		shared               int
		createdAt, updatedAt string
	)
	if err := row.Scan(&t.ID, &t.Description, &value, &kind, &date, &t.Category,
		&t.AccountID, &t.CardID, &installments, &t.Notes, &status, &shared,
		&createdAt, &updatedAt); err != nil {
		return model.Transaction{}, err
	}
	var err error
	if t.Value, err = decimal.NewFromString(value); err != nil {
		return model.Transaction{}, fmt.Errorf("value: %w", err)
	}
	if t.Date, err = time.Parse(timeLayout, date); err != nil {
		return model.Transaction{}, fmt.Errorf("date: %w", err)
	}
	if err = json.Unmarshal([]byte(installments), &t.Installments); err != nil {
		return model.Transaction{}, fmt.Errorf("installments: %w", err)
	}
	if t.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return model.Transaction{}, fmt.Errorf("created_at: %w", err)
	}
	if t.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return model.Transaction{}, fmt.Errorf("updated_at: %w", err)
	}
	t.Kind = model.TransactionKind(kind)
	t.Status = model.TransactionStatus(status)
	t.SharedWithAlzi = shared != 0
	return t, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// requireRow turns a zero-row write into ErrNotFound.
func requireRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, finance.ErrNotFound)
	}
	return nil
}
