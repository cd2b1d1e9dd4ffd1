package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/infrastructure/cache"
	"github.com/jhoicas/Catalogo-api/internal/infrastructure/memory"
	"github.com/jhoicas/Catalogo-api/pkg/logger"
)

type catalogFixture struct {
	products *ProductUseCase
	taxonomy *TaxonomyUseCase
	stats    *StatisticsUseCase
	pdf      *fakePDF
	cache    *countingCache
}

// countingCache cuenta los snapshots guardados; cada Set es un cálculo completo.
type countingCache struct {
	*cache.LocalStatisticsCache
	sets   atomic.Int32
	setErr error
}

func (c *countingCache) Set(ctx context.Context, version int64, stats *entity.CatalogStatistics) error {
	c.sets.Add(1)
	if c.setErr != nil {
		return c.setErr
	}
	return c.LocalStatisticsCache.Set(ctx, version, stats)
}

type fakePDF struct {
	got *entity.CatalogStatistics
	err error
}

func (f *fakePDF) GenerateStatisticsPDF(_ context.Context, s *entity.CatalogStatistics, _ time.Time) ([]byte, error) {
	f.got = s
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.3 fake"), nil
}

func newCatalogFixture() *catalogFixture {
	store := memory.NewStore()
	statsCache := &countingCache{LocalStatisticsCache: cache.NewLocalStatisticsCache()}
	log := logger.Nop()
	pdf := &fakePDF{}
	return &catalogFixture{
		products: NewProductUseCase(store, log),
		taxonomy: NewTaxonomyUseCase(store, log),
		stats:    NewStatisticsUseCase(store, statsCache, pdf, log),
		pdf:      pdf,
		cache:    statsCache,
	}
}

func price(s string) json.RawMessage {
	return json.RawMessage(s)
}

func (f *catalogFixture) category(t *testing.T, name string) string {
	t.Helper()
	c, _, err := f.taxonomy.GetOrCreateCategory(context.Background(), dto.CreateCategoryRequest{CategoryName: name})
	require.NoError(t, err)
	return c.CategoryID
}

func (f *catalogFixture) material(t *testing.T, name string) string {
	t.Helper()
	m, _, err := f.taxonomy.GetOrCreateMaterial(context.Background(), dto.CreateMaterialRequest{MaterialName: name})
	require.NoError(t, err)
	return m.MaterialID
}

func TestCatalog_Escenarios(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture()
	chairs := f.category(t, "Chairs")
	wood := f.material(t, "Wood")

	// A: alta y estadísticas
	created, err := f.products.Create(ctx, dto.ProductRequest{
		SKU: "C-1", ProductName: "Oak Chair", CategoryID: chairs,
		MaterialIDs: []string{wood}, Price: price("450.00"), Status: "active",
	})
	require.NoError(t, err)
	assert.Equal(t, "Chairs", created.Category.CategoryName)
	require.Len(t, created.Materials, 1)
	assert.Equal(t, "Wood", created.Materials[0].MaterialName)

	st, err := f.stats.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.TotalProducts)
	assert.Equal(t, 1, st.ActiveProducts)
	assert.Equal(t, "450.00", st.TotalValue.String())
	assert.Equal(t, 1, st.PriceRangeCount["0-500"][0].Count)
	require.Len(t, st.CategoryHighestPrice, 1)
	assert.Equal(t, "Chairs", st.CategoryHighestPrice[0].Category[0].CategoryName)
	assert.Equal(t, "450.00", st.CategoryHighestPrice[0].HighestPrice.String())
	assert.Equal(t, 1, st.CategoryHighestPrice[0].ProductCount)
	require.Len(t, st.ProductsWithNoMedia, 1)
	assert.Equal(t, created.ID, st.ProductsWithNoMedia[0].ID)

	// B: SKU duplicado
	_, err = f.products.Create(ctx, dto.ProductRequest{
		SKU: "C-1", ProductName: "Otra", CategoryID: chairs,
		MaterialIDs: []string{wood}, Price: price("10"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicateSKU))
	list, err := f.products.List(ctx, dto.ProductListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.TotalProducts)

	// C: cambio de precio mueve el rango
	_, err = f.products.Update(ctx, created.ID, dto.ProductRequest{
		ProductName: "Oak Chair", CategoryID: chairs,
		MaterialIDs: []string{wood}, Price: price("1200.00"), Status: "active",
	})
	require.NoError(t, err)
	st, err = f.stats.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, st.PriceRangeCount["0-500"][0].Count)
	assert.Equal(t, 1, st.PriceRangeCount["1000+"][0].Count)
	assert.Equal(t, "1200.00", st.CategoryHighestPrice[0].HighestPrice.String())

	// D: borrado deja todo en cero
	require.NoError(t, f.products.Delete(ctx, created.ID))
	list, err = f.products.List(ctx, dto.ProductListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, list.TotalProducts)
	assert.Empty(t, list.Products)
	st, err = f.stats.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, st.TotalProducts)
	assert.Equal(t, "0.00", st.TotalValue.String())
	for _, r := range entity.PriceRanges {
		assert.Equal(t, 0, st.PriceRangeCount[string(r)][0].Count)
	}
	assert.Empty(t, st.CategoryHighestPrice)
	assert.Empty(t, st.ProductsWithNoMedia)
}

func TestProductUseCase_UpdateIgnoraCambioDeSKU(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture()
	cat := f.category(t, "Tables")
	mat := f.material(t, "Steel")
	p, err := f.products.Create(ctx, dto.ProductRequest{
		SKU: "T-1", ProductName: "Mesa", CategoryID: cat, MaterialIDs: []string{mat}, Price: price("99.999"),
	})
	require.NoError(t, err)
	assert.Equal(t, "100.00", p.Price.String())
	assert.Equal(t, "active", p.Status)

	up, err := f.products.Update(ctx, p.ID, dto.ProductRequest{
		SKU: "T-OTRO", ProductName: "Mesa grande", CategoryID: cat, MaterialIDs: []string{mat},
		Price: price(`"150"`), Status: "INACTIVE",
	})
	require.NoError(t, err)
	assert.Equal(t, "T-1", up.SKU)
	assert.Equal(t, "Mesa grande", up.ProductName)

	got, err := f.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "T-1", got.SKU)
	assert.Equal(t, "inactive", got.Status)
	assert.Equal(t, p.CreatedAt, got.CreatedAt)
}

func TestProductUseCase_ValidacionNoPersisteNada(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture()
	cat := f.category(t, "Chairs")

	_, err := f.products.Create(ctx, dto.ProductRequest{
		SKU: "X-1", ProductName: "", CategoryID: cat,
		MaterialIDs: []string{"no-existe"}, Price: price("-1"), Status: "archived",
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has(domain.ViolationRequired))
	assert.True(t, verr.Has(domain.ViolationUnknownMaterial))
	assert.True(t, verr.Has(domain.ViolationNegativePrice))
	assert.True(t, verr.Has(domain.ViolationInvalidStatus))
	assert.True(t, errors.Is(err, domain.ErrReferentialIntegrity))

	list, err := f.products.List(ctx, dto.ProductListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, list.TotalProducts)
}

func TestProductUseCase_NoEncontrado(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture()

	_, err := f.products.GetByID(ctx, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.products.Update(ctx, "nada", dto.ProductRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.products.Delete(ctx, "nada"), domain.ErrNotFound)
}

func TestProductUseCase_ListFiltraOrdenaYPagina(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture()
	chairs := f.category(t, "Chairs")
	tables := f.category(t, "Tables")
	wood := f.material(t, "Wood")
	steel := f.material(t, "Steel")

	seed := []dto.ProductRequest{
		{SKU: "C-1", ProductName: "Oak Chair", CategoryID: chairs, MaterialIDs: []string{wood}, Price: price("450")},
		{SKU: "C-2", ProductName: "Steel Chair", CategoryID: chairs, MaterialIDs: []string{steel}, Price: price("300"), Status: "inactive"},
		{SKU: "T-1", ProductName: "Oak Table", CategoryID: tables, MaterialIDs: []string{wood, steel}, Price: price("900")},
	}
	for _, in := range seed {
		_, err := f.products.Create(ctx, in)
		require.NoError(t, err)
	}

	res, err := f.products.List(ctx, dto.ProductListRequest{ProductName: "oak", Sort: "-price"})
	require.NoError(t, err)
	require.Len(t, res.Products, 2)
	assert.Equal(t, "T-1", res.Products[0].SKU)
	assert.Equal(t, 2, res.TotalProducts)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, dto.DefaultLimit, res.Limit)

	res, err = f.products.List(ctx, dto.ProductListRequest{MaterialID: steel, Status: "active"})
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "T-1", res.Products[0].SKU)

	// material_ids es el parámetro del front-end y tiene prioridad sobre material_id.
	res, err = f.products.List(ctx, dto.ProductListRequest{MaterialIDs: wood, MaterialID: steel})
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalProducts)
	assert.Equal(t, "C-1", res.Products[0].SKU)
	assert.Equal(t, "T-1", res.Products[1].SKU)

	res, err = f.products.List(ctx, dto.ProductListRequest{Page: 2, Limit: 2, Sort: "SKU", Order: "asc"})
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "T-1", res.Products[0].SKU)
	assert.Equal(t, 3, res.TotalProducts)

	_, err = f.products.List(ctx, dto.ProductListRequest{Sort: "cost"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.products.List(ctx, dto.ProductListRequest{Status: "archived"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTaxonomyUseCase_GetOrCreate(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture()

	first, created, err := f.taxonomy.GetOrCreateCategory(ctx, dto.CreateCategoryRequest{CategoryName: "  Chairs "})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Chairs", first.CategoryName)

	again, created, err := f.taxonomy.GetOrCreateCategory(ctx, dto.CreateCategoryRequest{CategoryName: "Chairs"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.CategoryID, again.CategoryID)

	_, _, err = f.taxonomy.GetOrCreateMaterial(ctx, dto.CreateMaterialRequest{MaterialName: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	cats, err := f.taxonomy.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 1)
	mats, err := f.taxonomy.ListMaterials(ctx)
	require.NoError(t, err)
	assert.Empty(t, mats)
}

func TestStatisticsUseCase_Report(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture()
	cat := f.category(t, "Chairs")
	mat := f.material(t, "Wood")
	_, err := f.products.Create(ctx, dto.ProductRequest{
		SKU: "C-1", ProductName: "Oak Chair", CategoryID: cat, MaterialIDs: []string{mat},
		Price: price("450"), MediaURL: "https://cdn.example.com/c1.jpg",
	})
	require.NoError(t, err)

	out, name, err := f.stats.Report(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(out), "%PDF")
	assert.Regexp(t, `^estadisticas_catalogo_\d{8}_\d{6}\.pdf$`, name)
	require.NotNil(t, f.pdf.got)
	assert.Equal(t, 1, f.pdf.got.TotalProducts)
	assert.Empty(t, f.pdf.got.ProductsWithoutMedia)

	f.pdf.err = errors.New("fuente no disponible")
	_, _, err = f.stats.Report(ctx)
	assert.Error(t, err)
}

func TestStatisticsUseCase_CacheSeInvalidaConMutaciones(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture()
	cat := f.category(t, "Chairs")
	mat := f.material(t, "Wood")

	_, err := f.stats.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), f.cache.sets.Load())

	// Sin mutaciones: se sirve el snapshot cacheado.
	_, err = f.stats.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), f.cache.sets.Load())

	// Crear una categoría no cambia el conjunto de productos.
	f.category(t, "Tables")
	_, err = f.stats.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), f.cache.sets.Load())

	_, err = f.products.Create(ctx, dto.ProductRequest{
		SKU: "C-1", ProductName: "Oak Chair", CategoryID: cat, MaterialIDs: []string{mat}, Price: price("450"),
	})
	require.NoError(t, err)

	st, err := f.stats.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.TotalProducts)
	assert.Equal(t, int32(2), f.cache.sets.Load())
}

func TestStatisticsUseCase_FalloDeCacheNoSirveDatosViejos(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture()
	cat := f.category(t, "Chairs")
	mat := f.material(t, "Wood")

	st, err := f.stats.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, st.TotalProducts)

	// El cache deja de aceptar escrituras: conserva el snapshot del catálogo vacío.
	f.cache.setErr = errors.New("redis caído")

	created, err := f.products.Create(ctx, dto.ProductRequest{
		SKU: "C-1", ProductName: "Oak Chair", CategoryID: cat, MaterialIDs: []string{mat}, Price: price("450"),
	})
	require.NoError(t, err)
	st, err = f.stats.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.TotalProducts)
	assert.Equal(t, "450.00", st.TotalValue.String())

	_, err = f.products.Update(ctx, created.ID, dto.ProductRequest{
		ProductName: "Oak Chair", CategoryID: cat, MaterialIDs: []string{mat}, Price: price("1200"),
	})
	require.NoError(t, err)
	st, err = f.stats.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.PriceRangeCount["1000+"][0].Count)

	require.NoError(t, f.products.Delete(ctx, created.ID))
	st, err = f.stats.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, st.TotalProducts)
}

func TestStatisticsUseCase_CacheCompartidoEntreInstancias(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	shared := cache.NewLocalStatisticsCache()
	log := logger.Nop()
	taxonomy := NewTaxonomyUseCase(store, log)
	statsA := NewStatisticsUseCase(store, shared, nil, log)
	statsB := NewStatisticsUseCase(store, shared, nil, log)

	_, err := statsA.Get(ctx)
	require.NoError(t, err)

	// Otra instancia (o el importador) muta el almacenamiento sin tocar el cache.
	cat, _, err := taxonomy.GetOrCreateCategory(ctx, dto.CreateCategoryRequest{CategoryName: "Chairs"})
	require.NoError(t, err)
	mat, _, err := taxonomy.GetOrCreateMaterial(ctx, dto.CreateMaterialRequest{MaterialName: "Wood"})
	require.NoError(t, err)
	_, err = NewProductUseCase(store, log).Create(ctx, dto.ProductRequest{
		SKU: "C-1", ProductName: "Oak Chair", CategoryID: cat.CategoryID,
		MaterialIDs: []string{mat.MaterialID}, Price: price("450"),
	})
	require.NoError(t, err)

	for _, uc := range []*StatisticsUseCase{statsA, statsB} {
		st, err := uc.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, st.TotalProducts)
	}
}

func TestStatisticsUseCase_ConcurrenciaConsistente(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture()
	cat := f.category(t, "Chairs")
	mat := f.material(t, "Wood")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, _ = f.products.Create(ctx, dto.ProductRequest{
				SKU: "C-" + string(rune('A'+i)), ProductName: "Silla", CategoryID: cat,
				MaterialIDs: []string{mat}, Price: price("100"),
			})
		}(i)
		go func() {
			defer wg.Done()
			st, err := f.stats.Get(ctx)
			if !assert.NoError(t, err) {
				return
			}
			// totalValue siempre corresponde al mismo conjunto que totalProducts.
			assert.Equal(t, decimal.NewFromInt(int64(100*st.TotalProducts)).StringFixed(2), st.TotalValue.String())
			total := 0
			for _, b := range st.PriceRangeCount {
				total += b[0].Count
			}
			assert.Equal(t, st.TotalProducts, total)
		}()
	}
	wg.Wait()

	st, err := f.stats.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, st.TotalProducts)
}

func TestStatisticsUseCase_SinCache(t *testing.T) {
	store := memory.NewStore()
	uc := NewStatisticsUseCase(store, nil, nil, logger.Nop())
	st, err := uc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, st.TotalProducts)

	_, _, err = uc.Report(context.Background())
	assert.Error(t, err)
}
