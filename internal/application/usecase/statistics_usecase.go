package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/domain/catalog"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
	"github.com/jhoicas/Catalogo-api/pkg/logger"
)

// StatisticsUseCase agregados del catálogo calculados sobre una única instantánea.
type StatisticsUseCase struct {
	tx        TxRunner
	cache     StatisticsCache
	generator StatisticsPDFGenerator
	group     singleflight.Group
	log       *logger.Logger
	now       func() time.Time
}

// NewStatisticsUseCase construye el caso de uso. cache y generator pueden ser nil.
func NewStatisticsUseCase(tx TxRunner, cache StatisticsCache, generator StatisticsPDFGenerator, log *logger.Logger) *StatisticsUseCase {
	return &StatisticsUseCase{
		tx:        tx,
		cache:     cache,
		generator: generator,
		log:       log.Component("statistics"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Get calcula las estadísticas. Todos los campos provienen del mismo conjunto de productos.
func (uc *StatisticsUseCase) Get(ctx context.Context) (*dto.StatisticsResponse, error) {
	stats, err := uc.compute(ctx)
	if err != nil {
		return nil, err
	}
	return toStatisticsResponse(stats), nil
}

// Report genera el reporte PDF de estadísticas. Devuelve los bytes y el nombre sugerido.
func (uc *StatisticsUseCase) Report(ctx context.Context) ([]byte, string, error) {
	if uc.generator == nil {
		return nil, "", fmt.Errorf("statistics report: generador PDF no configurado")
	}
	stats, err := uc.compute(ctx)
	if err != nil {
		return nil, "", err
	}
	at := uc.now()
	pdfBytes, err := uc.generator.GenerateStatisticsPDF(ctx, stats, at)
	if err != nil {
		uc.log.Error().Err(err).Msg("generación de PDF fallida")
		return nil, "", fmt.Errorf("statistics report: %w", err)
	}
	return pdfBytes, "estadisticas_catalogo_" + at.Format("20060102_150405") + ".pdf", nil
}

// compute sirve el snapshot cacheado de la versión actual del catálogo o lo calcula una
// sola vez aunque lleguen peticiones concurrentes. Sin cache calcula siempre.
func (uc *StatisticsUseCase) compute(ctx context.Context) (*entity.CatalogStatistics, error) {
	if uc.cache == nil {
		stats, _, err := uc.snapshot(ctx)
		return stats, err
	}
	var version int64
	err := uc.tx.ReadSnapshot(ctx, func(repos repository.Repositories) error {
		var err error
		version, err = repos.Products.CatalogVersion(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("statistics: %w", err)
	}
	if stats, ok, err := uc.cache.Get(ctx, version); err != nil {
		uc.log.Warn().Err(err).Int64("version", version).Msg("lectura de cache fallida")
	} else if ok {
		return stats, nil
	}

	ch := uc.group.DoChan(strconv.FormatInt(version, 10), func() (any, error) {
		// El cálculo compartido no depende de la cancelación de quien lo inició.
		bg := context.WithoutCancel(ctx)
		stats, seen, err := uc.snapshot(bg)
		if err != nil {
			return nil, err
		}
		// Se guarda bajo la versión leída junto con los productos, nunca bajo una anterior.
		if err := uc.cache.Set(bg, seen, stats); err != nil {
			uc.log.Warn().Err(err).Int64("version", seen).Msg("escritura de cache fallida")
		}
		return stats, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*entity.CatalogStatistics), nil
	}
}

// snapshot calcula las estadísticas y devuelve la versión del catálogo de esa misma instantánea.
func (uc *StatisticsUseCase) snapshot(ctx context.Context) (*entity.CatalogStatistics, int64, error) {
	var (
		products []*entity.Product
		version  int64
	)
	err := uc.tx.ReadSnapshot(ctx, func(repos repository.Repositories) error {
		var err error
		if products, err = repos.Products.ListAll(ctx); err != nil {
			return err
		}
		version, err = repos.Products.CatalogVersion(ctx)
		return err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("statistics: %w", err)
	}
	stats := catalog.ComputeStatistics(products)
	uc.log.Debug().Int("products", stats.TotalProducts).Int64("version", version).Msg("estadísticas calculadas")
	return stats, version, nil
}

func toStatisticsResponse(s *entity.CatalogStatistics) *dto.StatisticsResponse {
	out := &dto.StatisticsResponse{
		TotalProducts:        s.TotalProducts,
		ActiveProducts:       s.ActiveProducts,
		TotalValue:           dto.NewMoney(s.TotalValue),
		PriceRangeCount:      make(map[string][]dto.PriceRangeBucket, len(entity.PriceRanges)),
		CategoryHighestPrice: make([]dto.CategoryHighestPriceResponse, 0, len(s.CategoryHighestPrice)),
		ProductsWithNoMedia:  make([]dto.ProductWithNoMediaResponse, 0, len(s.ProductsWithoutMedia)),
	}
	for _, r := range entity.PriceRanges {
		out.PriceRangeCount[string(r)] = []dto.PriceRangeBucket{{Count: s.PriceRangeCount[r]}}
	}
	for _, c := range s.CategoryHighestPrice {
		out.CategoryHighestPrice = append(out.CategoryHighestPrice, dto.CategoryHighestPriceResponse{
			CategoryID:   c.CategoryID,
			Category:     []dto.CategoryNameRef{{CategoryName: c.CategoryName}},
			HighestPrice: dto.NewMoney(c.HighestPrice),
			ProductCount: c.ProductCount,
		})
	}
	for _, p := range s.ProductsWithoutMedia {
		out.ProductsWithNoMedia = append(out.ProductsWithNoMedia, dto.ProductWithNoMediaResponse{
			ID:           p.ID,
			SKU:          p.SKU,
			ProductName:  p.Name,
			CategoryName: p.CategoryName,
			Price:        dto.NewMoney(p.Price),
		})
	}
	return out
}
