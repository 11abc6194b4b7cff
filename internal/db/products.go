package db

import (
	"context"
	"fmt"

	"github.com/productdb/backend/internal/model"
)

const productsSchemaPostgres = `
	CREATE TABLE IF NOT EXISTS products (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		price DOUBLE PRECISION NOT NULL DEFAULT 0,
		description TEXT NOT NULL DEFAULT ''
	)
`

const productsNameIndex = `CREATE UNIQUE INDEX IF NOT EXISTS products_name_key ON products(name)`

func (db *Postgres) EnsureProductSchema(ctx context.Context) error {
	conn, err := db.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	for _, query := range []string{productsSchemaPostgres, productsNameIndex} {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to create products schema: %w", err)
		}
	}
	return nil
}

func (db *Postgres) ListProducts(ctx context.Context) ([]model.Product, error) {
	conn, err := db.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
		SELECT id, name, price, description
		FROM products
		ORDER BY id
	`)
	if err != nil {
		return nil, classifyPostgres(err)
	}
	defer rows.Close()

	list := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Description); err != nil {
			return nil, classifyPostgres(err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyPostgres(err)
	}
	return list, nil
}

func (db *Postgres) GetProductByID(ctx context.Context, id int64) (*model.Product, error) {
	return db.getProduct(ctx, `
		SELECT id, name, price, description
		FROM products
		WHERE id = $1
	`, id)
}

func (db *Postgres) GetProductByName(ctx context.Context, name string) (*model.Product, error) {
	return db.getProduct(ctx, `
		SELECT id, name, price, description
		FROM products
		WHERE name = $1
	`, name)
}

func (db *Postgres) getProduct(ctx context.Context, query string, arg any) (*model.Product, error) {
	conn, err := db.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	var p model.Product
	err = conn.QueryRow(ctx, query, arg).Scan(&p.ID, &p.Name, &p.Price, &p.Description)
	if err != nil {
		return nil, classifyPostgres(err)
	}
	return &p, nil
}

func (db *Postgres) InsertProduct(ctx context.Context, in model.ProductInput) (int64, error) {
	conn, err := db.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	var id int64
	err = conn.QueryRow(ctx, `
		INSERT INTO products (name, price, description)
		VALUES ($1, $2, $3)
		RETURNING id
	`, in.Name, in.Price, in.Description).Scan(&id)
	if err != nil {
		return 0, classifyPostgres(err)
	}
	return id, nil
}

// UpdateProduct overwrites every mutable field. ErrNotFound means no row had the id.
func (db *Postgres) UpdateProduct(ctx context.Context, id int64, in model.ProductInput) error {
	conn, err := db.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
		UPDATE products
		SET name = $1, price = $2, description = $3
		WHERE id = $4
	`, in.Name, in.Price, in.Description, id)
	if err != nil {
		return classifyPostgres(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *Postgres) DeleteProduct(ctx context.Context, id int64) error {
	conn, err := db.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return classifyPostgres(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
