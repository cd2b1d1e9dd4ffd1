// Package cache implementa el cache de estadísticas del catálogo. Cada snapshot se
// guarda bajo la versión del catálogo leída en la misma instantánea que lo produjo;
// la versión la mantiene el almacenamiento, no el cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

const keyPrefix = "catalog:statistics:"

// NewRedisClient crea el cliente y verifica la conexión.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: ping: %w", err)
	}
	return client, nil
}

// RedisStatisticsCache cache compartido entre instancias.
type RedisStatisticsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStatisticsCache construye el cache. ttl acota la vida de cada snapshot guardado.
func NewRedisStatisticsCache(client *redis.Client, ttl time.Duration) *RedisStatisticsCache {
	return &RedisStatisticsCache{client: client, ttl: ttl}
}

// Get devuelve el snapshot guardado para la versión, si existe.
func (c *RedisStatisticsCache) Get(ctx context.Context, version int64) (*entity.CatalogStatistics, bool, error) {
	payload, err := c.client.Get(ctx, key(version)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var stats entity.CatalogStatistics
	if err := json.Unmarshal(payload, &stats); err != nil {
		return nil, false, fmt.Errorf("cache: decodificar estadísticas: %w", err)
	}
	return &stats, true, nil
}

// Set guarda el snapshot calculado para la versión.
func (c *RedisStatisticsCache) Set(ctx context.Context, version int64, stats *entity.CatalogStatistics) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(version), raw, c.ttl).Err()
}

func key(version int64) string {
	return keyPrefix + strconv.FormatInt(version, 10)
}
