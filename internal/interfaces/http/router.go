package http

import (
	"os"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/application/usecase"
	"github.com/jhoicas/Catalogo-api/pkg/config"
	"github.com/jhoicas/Catalogo-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC    *usecase.ProductUseCase
	TaxonomyUC   *usecase.TaxonomyUseCase
	StatisticsUC *usecase.StatisticsUseCase
	StoreDriver  string
}

// NewApp crea la aplicación Fiber con los middlewares comunes y las rutas registradas.
func NewApp(cfg *config.Config, log *logger.Logger, deps RouterDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})
	app.Use(requestid.New())
	app.Use(RequestLogger(log.Component("http")))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.HTTP.AllowOrigins}))

	// Swagger UI en http://localhost:<port>/docs (solo si el archivo existe)
	if path := cfg.Docs.SwaggerPath; path != "" {
		if _, err := os.Stat(path); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: path,
				Path:     "docs",
				Title:    "Catálogo API",
			}))
		} else {
			log.Warn().Str("path", path).Msg("swagger deshabilitado: archivo no encontrado")
		}
	}

	Router(app, deps)
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok", Store: deps.StoreDriver})
	})

	api := app.Group("/api")

	// /statistics antes de /:id para que no se interprete como ID
	products := api.Group("/products")
	statsHandler := NewStatisticsHandler(deps.StatisticsUC)
	products.Get("/statistics", statsHandler.Get)
	products.Get("/statistics/pdf", statsHandler.Report)

	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	taxonomyHandler := NewTaxonomyHandler(deps.TaxonomyUC)
	categories := api.Group("/categories")
	categories.Get("/", taxonomyHandler.ListCategories)
	categories.Post("/", taxonomyHandler.CreateCategory)

	materials := api.Group("/materials")
	materials.Get("/", taxonomyHandler.ListMaterials)
	materials.Post("/", taxonomyHandler.CreateMaterial)
}
