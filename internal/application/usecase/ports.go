package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

// TxRunner ejecuta operaciones de catálogo con atomicidad.
//
// Run serializa las mutaciones: fn ve un estado consistente y sus escrituras se
// confirman solo si devuelve nil. ReadSnapshot entrega una vista consistente de solo
// lectura que puede correr en paralelo con otras lecturas y mutaciones.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repositories) error) error
	ReadSnapshot(ctx context.Context, fn func(repos repository.Repositories) error) error
}

// StatisticsPDFGenerator puerto de salida para el reporte PDF de estadísticas.
type StatisticsPDFGenerator interface {
	GenerateStatisticsPDF(ctx context.Context, stats *entity.CatalogStatistics, generatedAt time.Time) ([]byte, error)
}

// StatisticsCache guarda snapshots de estadísticas por versión del catálogo
// (ProductRepository.CatalogVersion). Una entrada solo es válida para la versión
// con la que se guardó.
type StatisticsCache interface {
	Get(ctx context.Context, version int64) (*entity.CatalogStatistics, bool, error)
	Set(ctx context.Context, version int64, stats *entity.CatalogStatistics) error
}
