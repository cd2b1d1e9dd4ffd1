package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
	"github.com/jhoicas/Catalogo-api/pkg/config"
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	return r.run(ctx, pgx.TxOptions{}, fn)
}

// ReadSnapshot ejecuta fn en una transacción REPEATABLE READ de solo lectura: todas las
// consultas del callback ven el mismo snapshot.
func (r *TxRunner) ReadSnapshot(ctx context.Context, fn func(repos repository.Repositories) error) error {
	return r.run(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

func (r *TxRunner) run(ctx context.Context, opts pgx.TxOptions, fn func(repos repository.Repositories) error) error {
	tx, err := r.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(Repositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Repositories construye los repositorios sobre un Querier (pool o tx).
func Repositories(q Querier) repository.Repositories {
	return repository.Repositories{
		Categories: NewCategoryRepository(q),
		Materials:  NewMaterialRepository(q),
		Products:   NewProductRepository(q),
	}
}

// Open crea el pool, aplica migraciones si está configurado y devuelve el runner listo.
// La función devuelta libera el pool.
func Open(ctx context.Context, cfg config.DBConfig) (*TxRunner, func(), error) {
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Migrate {
		if err := Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
	}
	return NewTxRunner(pool), pool.Close, nil
}
