package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/productdb/backend/internal/model"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const productsSchemaSQLite = `
CREATE TABLE IF NOT EXISTS products (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    price NUMERIC NOT NULL DEFAULT 0,
    description TEXT NOT NULL DEFAULT ''
);

CREATE UNIQUE INDEX IF NOT EXISTS products_name_key ON products(name);
`

// SQLite is the embedded product store, used for local runs and tests.
type SQLite struct {
	DB             *sql.DB
	AcquireTimeout time.Duration
}

// NewSQLite opens dsn with the modernc driver. In-memory databases are pinned
// to a single connection because every connection would otherwise get its own
// empty database.
func NewSQLite(ctx context.Context, dsn string, maxConns int, acquireTimeout time.Duration) (*SQLite, error) {
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		maxConns = 1
	}
	if maxConns > 0 {
		sqlDB.SetMaxOpenConns(maxConns)
		sqlDB.SetMaxIdleConns(maxConns)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping sqlite: %w", err)
	}

	return &SQLite{DB: sqlDB, AcquireTimeout: acquireTimeout}, nil
}

func (s *SQLite) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return classifySQLite(s.DB.PingContext(ctx))
}

func (s *SQLite) Close() {
	_ = s.DB.Close()
}

func (s *SQLite) EnsureProductSchema(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, productsSchemaSQLite); err != nil {
		return fmt.Errorf("failed to create products schema: %w", err)
	}
	return nil
}

func (s *SQLite) ListProducts(ctx context.Context) ([]model.Product, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.DB.QueryContext(ctx, `SELECT id, name, price, description FROM products ORDER BY id`)
	if err != nil {
		return nil, classifySQLite(err)
	}
	defer func() { _ = rows.Close() }()

	list := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Description); err != nil {
			return nil, classifySQLite(err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, classifySQLite(err)
	}
	return list, nil
}

func (s *SQLite) GetProductByID(ctx context.Context, id int64) (*model.Product, error) {
	return s.getProduct(ctx, `SELECT id, name, price, description FROM products WHERE id = ?`, id)
}

func (s *SQLite) GetProductByName(ctx context.Context, name string) (*model.Product, error) {
	return s.getProduct(ctx, `SELECT id, name, price, description FROM products WHERE name = ?`, name)
}

func (s *SQLite) getProduct(ctx context.Context, query string, arg any) (*model.Product, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var p model.Product
	err := s.DB.QueryRowContext(ctx, query, arg).Scan(&p.ID, &p.Name, &p.Price, &p.Description)
	if err != nil {
		return nil, classifySQLite(err)
	}
	return &p, nil
}

func (s *SQLite) InsertProduct(ctx context.Context, in model.ProductInput) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO products (name, price, description) VALUES (?, ?, ?)`,
		in.Name, in.Price, in.Description,
	)
	if err != nil {
		return 0, classifySQLite(err)
	}
	return res.LastInsertId()
}

func (s *SQLite) UpdateProduct(ctx context.Context, id int64, in model.ProductInput) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.DB.ExecContext(ctx,
		`UPDATE products SET name = ?, price = ?, description = ? WHERE id = ?`,
		in.Name, in.Price, in.Description, id,
	)
	if err != nil {
		return classifySQLite(err)
	}
	return requireAffected(res)
}

func (s *SQLite) DeleteProduct(ctx context.Context, id int64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.DB.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return classifySQLite(err)
	}
	return requireAffected(res)
}

func (s *SQLite) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.AcquireTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.AcquireTimeout)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func classifySQLite(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %v", ErrDuplicate, err)
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_CANTOPEN:
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
