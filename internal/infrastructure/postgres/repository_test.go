package postgres

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
	"github.com/jhoicas/Catalogo-api/pkg/config"
)

// Requiere una base PostgreSQL desechable: CATALOG_TEST_DATABASE_URL=postgres://...
func newTestRunner(t *testing.T) (*TxRunner, *pgxpool.Pool) {
	t.Helper()
	dsn := os.Getenv("CATALOG_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("CATALOG_TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 8})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE product_materials, products, categories, materials`)
	require.NoError(t, err)
	return NewTxRunner(pool), pool
}

func newProduct(sku string, cat *entity.Category, mats ...*entity.Material) *entity.Product {
	now := time.Now().UTC().Truncate(time.Microsecond)
	p := &entity.Product{
		ID:         uuid.New().String(),
		SKU:        sku,
		Name:       "Producto " + sku,
		CategoryID: cat.ID,
		Price:      decimal.RequireFromString("450.00"),
		Status:     entity.ProductStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, m := range mats {
		p.MaterialIDs = append(p.MaterialIDs, m.ID)
	}
	return p
}

func TestPostgres_CatalogoCompleto(t *testing.T) {
	runner, _ := newTestRunner(t)
	ctx := context.Background()

	var chairs *entity.Category
	var wood, steel *entity.Material
	require.NoError(t, runner.Run(ctx, func(repos repository.Repositories) error {
		var err error
		var created bool
		chairs, created, err = repos.Categories.GetOrCreate(ctx, "Chairs")
		require.True(t, created)
		if err != nil {
			return err
		}
		again, created, err := repos.Categories.GetOrCreate(ctx, "Chairs")
		require.False(t, created)
		require.Equal(t, chairs.ID, again.ID)
		if wood, _, err = repos.Materials.GetOrCreate(ctx, "Wood"); err != nil {
			return err
		}
		steel, _, err = repos.Materials.GetOrCreate(ctx, "Steel")
		return err
	}))

	p := newProduct("C-1", chairs, steel, wood)
	require.NoError(t, runner.Run(ctx, func(repos repository.Repositories) error {
		return repos.Products.Create(ctx, p)
	}))

	err := runner.Run(ctx, func(repos repository.Repositories) error {
		return repos.Products.Create(ctx, newProduct("C-1", chairs))
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has(domain.ViolationDuplicateSKU))

	require.NoError(t, runner.ReadSnapshot(ctx, func(repos repository.Repositories) error {
		got, err := repos.Products.GetByID(ctx, p.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Chairs", got.CategoryName())
		assert.Equal(t, []string{steel.ID, wood.ID}, got.MaterialIDs)
		assert.True(t, got.Price.Equal(p.Price))
		assert.False(t, got.HasMedia())

		page, err := repos.Products.Query(ctx, repository.ProductQuery{
			Filter: repository.ProductFilter{Name: "c-1", MaterialID: wood.ID},
			Page:   repository.PageRequest{Page: 1, Size: 10},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Total)

		missing, err := repos.Products.GetByID(ctx, "no-es-uuid")
		assert.NoError(t, err)
		assert.Nil(t, missing)
		return nil
	}))

	require.NoError(t, runner.Run(ctx, func(repos repository.Repositories) error {
		return repos.Products.Delete(ctx, p.ID)
	}))
	err = runner.Run(ctx, func(repos repository.Repositories) error {
		return repos.Products.Delete(ctx, p.ID)
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestPostgres_CreacionesConcurrentesMismoSKU(t *testing.T) {
	runner, _ := newTestRunner(t)
	ctx := context.Background()

	var cat *entity.Category
	require.NoError(t, runner.Run(ctx, func(repos repository.Repositories) error {
		var err error
		cat, _, err = repos.Categories.GetOrCreate(ctx, "Tables")
		return err
	}))

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = runner.Run(ctx, func(repos repository.Repositories) error {
				return repos.Products.Create(ctx, newProduct("T-1", cat))
			})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrDuplicateSKU)
	}
	assert.Equal(t, 1, ok)
}

func TestPostgres_RollbackSinEscriturasParciales(t *testing.T) {
	runner, _ := newTestRunner(t)
	ctx := context.Background()

	err := runner.Run(ctx, func(repos repository.Repositories) error {
		cat, _, err := repos.Categories.GetOrCreate(ctx, "Temporal")
		if err != nil {
			return err
		}
		p := newProduct("R-1", cat)
		p.MaterialIDs = []string{uuid.New().String()}
		return repos.Products.Create(ctx, p)
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has(domain.ViolationUnknownMaterial))

	require.NoError(t, runner.ReadSnapshot(ctx, func(repos repository.Repositories) error {
		cats, err := repos.Categories.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, cats)
		all, err := repos.Products.ListAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
		return nil
	}))
}

func TestPostgres_VersionDelCatalogoYPrecioFueraDeRango(t *testing.T) {
	runner, _ := newTestRunner(t)
	ctx := context.Background()

	version := func() int64 {
		var v int64
		require.NoError(t, runner.ReadSnapshot(ctx, func(repos repository.Repositories) error {
			var err error
			v, err = repos.Products.CatalogVersion(ctx)
			return err
		}))
		return v
	}

	var cat *entity.Category
	require.NoError(t, runner.Run(ctx, func(repos repository.Repositories) error {
		var err error
		cat, _, err = repos.Categories.GetOrCreate(ctx, "Lamps")
		return err
	}))
	v0 := version()

	p := newProduct("L-1", cat)
	require.NoError(t, runner.Run(ctx, func(repos repository.Repositories) error {
		return repos.Products.Create(ctx, p)
	}))
	v1 := version()
	assert.Greater(t, v1, v0)

	// Una mutación fallida no avanza la versión.
	huge := newProduct("L-2", cat)
	huge.Price = decimal.RequireFromString("1e20")
	err := runner.Run(ctx, func(repos repository.Repositories) error {
		return repos.Products.Create(ctx, huge)
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has(domain.ViolationPriceOutOfRange))
	assert.Equal(t, v1, version())

	require.NoError(t, runner.Run(ctx, func(repos repository.Repositories) error {
		return repos.Products.Delete(ctx, p.ID)
	}))
	assert.Greater(t, version(), v1)
}
