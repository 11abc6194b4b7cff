package db

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/productdb/backend/internal/config"
	"github.com/productdb/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	ctx := context.Background()

	store, err := NewSQLite(ctx, "file::memory:", 4, 0)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	require.NoError(t, store.EnsureProductSchema(ctx))
	return store
}

func TestSQLiteListEmpty(t *testing.T) {
	store := newTestSQLite(t)

	list, err := store.ListProducts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestSQLiteRoundTrip(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()

	in := model.ProductInput{Name: "Widget", Price: 9.99, Description: "x"}
	id, err := store.InsertProduct(ctx, in)
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := store.GetProductByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.Product{ID: id, Name: "Widget", Price: 9.99, Description: "x"}, *got)

	byName, err := store.GetProductByName(ctx, "Widget")
	require.NoError(t, err)
	assert.Equal(t, id, byName.ID)

	require.NoError(t, store.UpdateProduct(ctx, id, model.ProductInput{Name: "Widget2", Price: 10.99, Description: "y"}))
	got, err = store.GetProductByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Widget2", got.Name)
	assert.InDelta(t, 10.99, got.Price, 0.0001)
	assert.Equal(t, "y", got.Description)

	require.NoError(t, store.DeleteProduct(ctx, id))
	_, err = store.GetProductByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteUniqueName(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()

	_, err := store.InsertProduct(ctx, model.ProductInput{Name: "Widget", Price: 1})
	require.NoError(t, err)

	_, err = store.InsertProduct(ctx, model.ProductInput{Name: "Widget", Price: 2})
	assert.ErrorIs(t, err, ErrDuplicate)

	list, err := store.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSQLiteConcurrentDuplicateInsert(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()

	const writers = 8
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		ok, dupes  int
		unexpected []error
	)
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.InsertProduct(ctx, model.ProductInput{Name: "Race"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrDuplicate):
				dupes++
			default:
				unexpected = append(unexpected, err)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, unexpected)
	assert.Equal(t, 1, ok)
	assert.Equal(t, writers-1, dupes)
}

func TestSQLiteMissingRows(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()

	_, err := store.GetProductByID(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetProductByName(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.UpdateProduct(ctx, 42, model.ProductInput{Name: "x"}), ErrNotFound)
	assert.ErrorIs(t, store.DeleteProduct(ctx, 42), ErrNotFound)
}

func TestSQLiteRenameOntoExistingName(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()

	_, err := store.InsertProduct(ctx, model.ProductInput{Name: "A"})
	require.NoError(t, err)
	idB, err := store.InsertProduct(ctx, model.ProductInput{Name: "B"})
	require.NoError(t, err)

	err = store.UpdateProduct(ctx, idB, model.ProductInput{Name: "A"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestSQLiteClosedStoreFails(t *testing.T) {
	store := newTestSQLite(t)
	store.Close()

	_, err := store.ListProducts(context.Background())
	require.Error(t, err)
}

func TestOpenSQLite(t *testing.T) {
	store, err := Open(context.Background(), config.DBConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: "file::memory:",
	})
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Ping(context.Background()))
	list, err := store.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DBConfig{Driver: "oracle"})
	assert.Error(t, err)
}
