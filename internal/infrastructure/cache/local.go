package cache

import (
	"context"
	"sync"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

// LocalStatisticsCache cache de proceso. Guarda solo el snapshot de la versión más alta vista.
type LocalStatisticsCache struct {
	mu     sync.Mutex
	stored int64
	stats  *entity.CatalogStatistics
}

// NewLocalStatisticsCache construye un cache vacío.
func NewLocalStatisticsCache() *LocalStatisticsCache {
	return &LocalStatisticsCache{}
}

func (c *LocalStatisticsCache) Get(_ context.Context, version int64) (*entity.CatalogStatistics, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stats == nil || c.stored != version {
		return nil, false, nil
	}
	return c.stats, true, nil
}

func (c *LocalStatisticsCache) Set(_ context.Context, version int64, stats *entity.CatalogStatistics) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	// Un cálculo lento de una versión vieja no reemplaza uno más nuevo.
	if c.stats == nil || version >= c.stored {
		c.stored, c.stats = version, stats
	}
	return nil
}
