package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/Catalogo-api/internal/application/usecase"
	"github.com/jhoicas/Catalogo-api/internal/infrastructure/cache"
	"github.com/jhoicas/Catalogo-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Catalogo-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Catalogo-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Catalogo-api/internal/interfaces/http"
	"github.com/jhoicas/Catalogo-api/pkg/config"
	"github.com/jhoicas/Catalogo-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	var txRunner usecase.TxRunner
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		txRunner = memory.NewStore()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		runner, closePool, err := postgres.Open(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer closePool()
		txRunner = runner
	}

	statsCache, closeCache, err := cache.Open(ctx, cfg.Cache)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer closeCache()

	productUC := usecase.NewProductUseCase(txRunner, log)
	taxonomyUC := usecase.NewTaxonomyUseCase(txRunner, log)
	statisticsUC := usecase.NewStatisticsUseCase(txRunner, statsCache, infrapdf.NewStatisticsPDFGenerator(), log)

	app := httpRouter.NewApp(cfg, log, httpRouter.RouterDeps{
		ProductUC:    productUC,
		TaxonomyUC:   taxonomyUC,
		StatisticsUC: statisticsUC,
		StoreDriver:  cfg.Store.Driver,
	})

	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr()).Msg("servidor HTTP escuchando")
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
