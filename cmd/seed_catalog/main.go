// seed_catalog importa productos desde un CSV usando los mismos casos de uso que la API,
// de modo que cada fila pasa por la validación del catálogo.
//
// Uso: go run ./cmd/seed_catalog [-latin1] [ruta/catalogo.csv]
// Columnas: sku,product_name,category,materials,price,status,media_url
// materials separa los nombres con "|". Categorías y materiales se crean si no existen.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Catalogo-api/internal/application/usecase"
	"github.com/jhoicas/Catalogo-api/internal/infrastructure/memory"
	"github.com/jhoicas/Catalogo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Catalogo-api/pkg/config"
	"github.com/jhoicas/Catalogo-api/pkg/logger"
)

func main() {
	latin1 := flag.Bool("latin1", false, "el archivo está codificado en ISO-8859-1")
	flag.Parse()
	csvPath := "catalogo.csv"
	if flag.NArg() > 0 {
		csvPath = flag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var r io.Reader = f
	if *latin1 {
		r = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}

	ctx := context.Background()
	var txRunner usecase.TxRunner
	if cfg.Store.Driver == config.StoreDriverMemory {
		txRunner = memory.NewStore()
		log.Warn().Msg("almacenamiento en memoria: la importación solo valida el archivo")
	} else {
		runner, closePool, err := postgres.Open(ctx, cfg.DB)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
			os.Exit(1)
		}
		defer closePool()
		txRunner = runner
	}

	imp := &importer{
		taxonomy: usecase.NewTaxonomyUseCase(txRunner, log),
		products: usecase.NewProductUseCase(txRunner, log),
		log:      log.Component("seed"),
	}
	res, err := imp.Import(ctx, r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Importar CSV: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Importados: %d  Omitidos: %d\n", res.Imported, len(res.Skipped))
	for _, s := range res.Skipped {
		fmt.Printf("  línea %d (%s): %s\n", s.Line, s.SKU, s.Reason)
	}
}
