// Package storage is the sqlite-backed store for categories, transactions
// and recurring items. The schema and the default-category seed live in
// embedded migrations; the engine in internal/report never touches this
// package, it only consumes the rows loaded here.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"finctl/internal/core"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
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

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- categories ---

const categoryColumns = "id, name, icon, color, type, is_default, user_id, created_at"

// ListCategories returns the categories visible to a user: all defaults plus
// the user's own custom ones.
func (r *SQLiteRepository) ListCategories(ctx context.Context, userID int64) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE is_default = 1 OR user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategory loads a category visible to the user (default or owned).
func (r *SQLiteRepository) GetCategory(ctx context.Context, id, userID int64) (core.Category, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE id = ? AND (is_default = 1 OR user_id = ?)`, id, userID)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.ErrNotFound
	}
	return c, err
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (name, icon, color, type, is_default, user_id)
		VALUES (?, ?, ?, ?, 0, ?)`,
		c.Name, c.Icon, c.Color, string(c.Type), c.UserID)
	if err != nil {
		return 0, fmt.Errorf("create category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("category insert id: %w", err)
	}

	slog.InfoContext(ctx, "Category created",
		"id", id, "name", c.Name, "type", c.Type, "user_id", c.UserID)
	return id, nil
}

// UpdateCategory updates name, icon and color of a user-owned custom
// category. Ownership is enforced in the WHERE clause; defaults never match.
func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE categories
		SET name = ?, icon = ?, color = ?
		WHERE id = ? AND user_id = ? AND is_default = 0`,
		c.Name, c.Icon, c.Color, c.ID, c.UserID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM categories
		WHERE id = ? AND user_id = ? AND is_default = 0`, id, userID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireRow(res)
}

// CountCategoryRefs returns how many transactions and recurring items still
// reference a category for the given user.
func (r *SQLiteRepository) CountCategoryRefs(ctx context.Context, categoryID, userID int64) (transactions, recurring int64, err error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM transactions WHERE category_id = ? AND user_id = ?),
			(SELECT COUNT(*) FROM recurring_items WHERE category_id = ? AND user_id = ?)`,
		categoryID, userID, categoryID, userID)
	if err := row.Scan(&transactions, &recurring); err != nil {
		return 0, 0, fmt.Errorf("count category references: %w", err)
	}
	return transactions, recurring, nil
}

// --- transactions ---

const transactionColumns = "id, description, amount_cents, type, category_id, transaction_date, user_id, created_at"

func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID int64) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE user_id = ?
		ORDER BY transaction_date DESC, created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id, userID int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = ? AND user_id = ?`, id, userID)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	return t, err
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (description, amount_cents, type, category_id, transaction_date, user_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.Description, t.Amount.Cents, string(t.Type), t.CategoryID,
		t.Date.Format(dateLayout), t.UserID)
	if err != nil {
		return 0, fmt.Errorf("create transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("transaction insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", id, "description", t.Description,
		"amount_cents", t.Amount.Cents, "type", t.Type,
		"date", t.Date.Format(dateLayout), "user_id", t.UserID)
	return id, nil
}

// UpdateTransaction rewrites a transaction's mutable fields and bumps its
// version for the export pipeline. Ownership enforced in the WHERE clause.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET description = ?, amount_cents = ?, type = ?, category_id = ?,
		    transaction_date = ?, export_status = 'pending', version = version + 1
		WHERE id = ? AND user_id = ?`,
		t.Description, t.Amount.Cents, string(t.Type), t.CategoryID,
		t.Date.Format(dateLayout), t.ID, t.UserID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res)
}

// TransactionVersion returns the current export version of a transaction.
func (r *SQLiteRepository) TransactionVersion(ctx context.Context, id int64) (int64, error) {
	var version int64
	err := r.db.QueryRowContext(ctx,
		`SELECT version FROM transactions WHERE id = ?`, id).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, core.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("transaction version: %w", err)
	}
	return version, nil
}

// MarkExported flags a transaction as picked up by the export worker, but
// only if it still carries the version the event was published for.
func (r *SQLiteRepository) MarkExported(ctx context.Context, id, version int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET export_status = 'exported'
		WHERE id = ? AND version = ?`, id, version)
	if err != nil {
		return fmt.Errorf("mark exported: %w", err)
	}
	return requireRow(res)
}

// MarkExportError flags a transaction whose export failed.
func (r *SQLiteRepository) MarkExportError(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET export_status = 'error' WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark export error: %w", err)
	}
	return nil
}

// PendingExport identifies a transaction still awaiting export.
type PendingExport struct {
	ID      int64
	Version int64
}

// PendingExports returns transactions whose latest version has not been
// exported yet, oldest first, capped at limit. The worker sweeps these to
// recover from dropped events.
func (r *SQLiteRepository) PendingExports(ctx context.Context, limit int) ([]PendingExport, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, version FROM transactions
		WHERE export_status = 'pending'
		ORDER BY id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending exports: %w", err)
	}
	defer rows.Close()

	var pending []PendingExport
	for rows.Next() {
		var p PendingExport
		if err := rows.Scan(&p.ID, &p.Version); err != nil {
			return nil, fmt.Errorf("scan pending export: %w", err)
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// --- recurring items ---

const recurringColumns = "id, description, amount_cents, type, category_id, user_id, frequency, start_date, end_date, is_active, notes"

func (r *SQLiteRepository) ListRecurringItems(ctx context.Context, userID int64) ([]core.RecurringItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+recurringColumns+`
		FROM recurring_items
		WHERE user_id = ?
		ORDER BY type DESC, description ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list recurring items: %w", err)
	}
	defer rows.Close()

	var items []core.RecurringItem
	for rows.Next() {
		item, err := scanRecurring(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *SQLiteRepository) GetRecurringItem(ctx context.Context, id, userID int64) (core.RecurringItem, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+recurringColumns+`
		FROM recurring_items
		WHERE id = ? AND user_id = ?`, id, userID)
	item, err := scanRecurring(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.RecurringItem{}, core.ErrNotFound
	}
	return item, err
}

func (r *SQLiteRepository) CreateRecurringItem(ctx context.Context, item core.RecurringItem) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO recurring_items
			(description, amount_cents, type, category_id, user_id, frequency, start_date, end_date, is_active, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Description, item.Amount.Cents, string(item.Type), item.CategoryID,
		item.UserID, string(item.Frequency), item.StartDate.Format(dateLayout),
		nullableDate(item.EndDate), boolToInt(item.IsActive), nullableString(item.Notes))
	if err != nil {
		return 0, fmt.Errorf("create recurring item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("recurring insert id: %w", err)
	}

	slog.InfoContext(ctx, "Recurring item saved",
		"id", id, "description", item.Description,
		"amount_cents", item.Amount.Cents, "frequency", item.Frequency,
		"user_id", item.UserID)
	return id, nil
}

func (r *SQLiteRepository) UpdateRecurringItem(ctx context.Context, item core.RecurringItem) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE recurring_items
		SET description = ?, amount_cents = ?, type = ?, category_id = ?,
		    frequency = ?, start_date = ?, end_date = ?, is_active = ?, notes = ?
		WHERE id = ? AND user_id = ?`,
		item.Description, item.Amount.Cents, string(item.Type), item.CategoryID,
		string(item.Frequency), item.StartDate.Format(dateLayout),
		nullableDate(item.EndDate), boolToInt(item.IsActive), nullableString(item.Notes),
		item.ID, item.UserID)
	if err != nil {
		return fmt.Errorf("update recurring item: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteRecurringItem(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM recurring_items WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete recurring item: %w", err)
	}
	return requireRow(res)
}

// --- scanning helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (core.Category, error) {
	var (
		c         core.Category
		typ       string
		isDefault int64
		createdAt time.Time
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Icon, &c.Color, &typ, &isDefault, &c.UserID, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Category{}, err
		}
		return core.Category{}, fmt.Errorf("scan category: %w", err)
	}
	c.Type = core.ItemType(typ)
	c.IsDefault = isDefault != 0
	c.CreatedAt = createdAt
	return c, nil
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t         core.Transaction
		typ, date string
		createdAt time.Time
	)
	if err := row.Scan(&t.ID, &t.Description, &t.Amount.Cents, &typ, &t.CategoryID, &date, &t.UserID, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, err
		}
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction date %q: %w", date, err)
	}
	t.Type = core.ItemType(typ)
	t.Date = core.Date{Time: parsed}
	t.CreatedAt = createdAt
	return t, nil
}

func scanRecurring(row rowScanner) (core.RecurringItem, error) {
	var (
		item             core.RecurringItem
		typ, freq, start string
		end, notes       sql.NullString
		active           int64
	)
	if err := row.Scan(&item.ID, &item.Description, &item.Amount.Cents, &typ, &item.CategoryID,
		&item.UserID, &freq, &start, &end, &active, &notes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.RecurringItem{}, err
		}
		return core.RecurringItem{}, fmt.Errorf("scan recurring item: %w", err)
	}
	startDate, err := time.Parse(dateLayout, start)
	if err != nil {
		return core.RecurringItem{}, fmt.Errorf("parse start date %q: %w", start, err)
	}
	item.Type = core.ItemType(typ)
	item.Frequency = core.Frequency(freq)
	item.StartDate = core.Date{Time: startDate}
	if end.Valid && end.String != "" {
		endDate, err := time.Parse(dateLayout, end.String)
		if err != nil {
			return core.RecurringItem{}, fmt.Errorf("parse end date %q: %w", end.String, err)
		}
		item.EndDate = core.Date{Time: endDate}
	}
	item.IsActive = active != 0
	item.Notes = notes.String
	return item, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func nullableDate(d core.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.Format(dateLayout)
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
