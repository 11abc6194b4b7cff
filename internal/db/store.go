package db

import (
	"context"
	"fmt"

	"github.com/productdb/backend/internal/config"
	"github.com/productdb/backend/internal/model"
)

// Store is the process-wide product table handle shared by all requests.
type Store interface {
	Ping(ctx context.Context) error
	Close()
	EnsureProductSchema(ctx context.Context) error

	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProductByID(ctx context.Context, id int64) (*model.Product, error)
	GetProductByName(ctx context.Context, name string) (*model.Product, error)
	InsertProduct(ctx context.Context, in model.ProductInput) (int64, error)
	UpdateProduct(ctx context.Context, id int64, in model.ProductInput) error
	DeleteProduct(ctx context.Context, id int64) error
}

var (
	_ Store = (*Postgres)(nil)
	_ Store = (*SQLite)(nil)
)

// Open connects the backend selected by cfg.Driver and makes sure the
// products table exists.
func Open(ctx context.Context, cfg config.DBConfig) (Store, error) {
	var (
		store Store
		err   error
	)
	switch cfg.Driver {
	case config.DriverPostgres:
		store, err = NewPostgres(ctx, cfg)
	case config.DriverSQLite:
		store, err = NewSQLite(ctx, cfg.SQLitePath, int(cfg.MaxConns), cfg.AcquireTimeout)
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := store.EnsureProductSchema(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}
