package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/productdb/backend/internal/db"
	"github.com/productdb/backend/internal/model"
)

type ProductRepo interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProductByID(ctx context.Context, id int64) (*model.Product, error)
	GetProductByName(ctx context.Context, name string) (*model.Product, error)
	InsertProduct(ctx context.Context, in model.ProductInput) (int64, error)
	UpdateProduct(ctx context.Context, id int64, in model.ProductInput) error
	DeleteProduct(ctx context.Context, id int64) error
}

type ProductService struct {
	repo ProductRepo
}

func NewProductService(repo ProductRepo) *ProductService {
	return &ProductService{repo: repo}
}

func (s *ProductService) List(ctx context.Context) ([]model.Product, error) {
	list, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if list == nil {
		list = []model.Product{}
	}
	return list, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (*model.Product, error) {
	p, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return p, nil
}

// Create rejects a name that is already taken, then inserts. The unique index
// on name catches inserts that race past the lookup.
func (s *ProductService) Create(ctx context.Context, in model.ProductInput) (int64, error) {
	if strings.TrimSpace(in.Name) == "" {
		return 0, ErrInvalidInput
	}

	_, err := s.repo.GetProductByName(ctx, in.Name)
	switch {
	case err == nil:
		return 0, ErrConflict
	case !errors.Is(err, db.ErrNotFound):
		return 0, mapStoreError(err)
	}

	id, err := s.repo.InsertProduct(ctx, in)
	if err != nil {
		return 0, mapStoreError(err)
	}
	return id, nil
}

// Update overwrites name, price and description of an existing product. A row
// deleted between the lookup and the write still reports ErrNotFound.
func (s *ProductService) Update(ctx context.Context, id int64, in model.ProductInput) error {
	if _, err := s.repo.GetProductByID(ctx, id); err != nil {
		return mapStoreError(err)
	}
	if strings.TrimSpace(in.Name) == "" {
		return ErrInvalidInput
	}
	if err := s.repo.UpdateProduct(ctx, id, in); err != nil {
		return mapStoreError(err)
	}
	return nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetProductByID(ctx, id); err != nil {
		return mapStoreError(err)
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return mapStoreError(err)
	}
	return nil
}

// mapStoreError keeps the driver error in the chain for operator logs while
// exposing only the service sentinel to callers.
func mapStoreError(err error) error {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, db.ErrDuplicate):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case errors.Is(err, db.ErrUnavailable):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		return fmt.Errorf("product store: %w", err)
	}
}
