package cache

import (
	"context"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/pkg/config"
)

// StatisticsCache conjunto de operaciones que ofrecen ambas implementaciones.
type StatisticsCache interface {
	Get(ctx context.Context, version int64) (*entity.CatalogStatistics, bool, error)
	Set(ctx context.Context, version int64, stats *entity.CatalogStatistics) error
}

// Open elige el cache de estadísticas: Redis si hay dirección configurada y cache de
// proceso en otro caso. La función devuelta libera los recursos.
func Open(ctx context.Context, cfg config.CacheConfig) (StatisticsCache, func(), error) {
	if cfg.RedisAddr != "" {
		client, err := NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisStatisticsCache(client, cfg.TTL), func() { _ = client.Close() }, nil
	}
	return NewLocalStatisticsCache(), func() {}, nil
}
