package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/application/usecase"
	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/pkg/logger"
)

const (
	colSKU = iota
	colName
	colCategory
	colMaterials
	colPrice
	colStatus
	colMediaURL
	numCols
)

type importer struct {
	taxonomy *usecase.TaxonomyUseCase
	products *usecase.ProductUseCase
	log      *logger.Logger
}

type skippedRow struct {
	Line   int
	SKU    string
	Reason string
}

type importResult struct {
	Imported int
	Skipped  []skippedRow
}

// Import procesa el CSV fila a fila. Una fila inválida se omite sin abortar el resto;
// solo los errores de lectura o de almacenamiento detienen la importación.
func (imp *importer) Import(ctx context.Context, r io.Reader) (*importResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	res := &importResult{}
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("línea %d: %w", line, err)
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "sku") {
			continue
		}
		if len(rec) < colPrice+1 {
			res.Skipped = append(res.Skipped, skippedRow{Line: line, SKU: rec[0], Reason: "columnas insuficientes"})
			continue
		}
		for len(rec) < numCols {
			rec = append(rec, "")
		}

		req, reason, err := imp.toRequest(ctx, rec)
		if err != nil {
			return res, fmt.Errorf("línea %d: %w", line, err)
		}
		if reason != "" {
			res.Skipped = append(res.Skipped, skippedRow{Line: line, SKU: rec[colSKU], Reason: reason})
			continue
		}

		if _, err := imp.products.Create(ctx, req); err != nil {
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				return res, fmt.Errorf("línea %d: %w", line, err)
			}
			res.Skipped = append(res.Skipped, skippedRow{Line: line, SKU: rec[colSKU], Reason: verr.Error()})
			continue
		}
		res.Imported++
	}
	imp.log.Info().Int("imported", res.Imported).Int("skipped", len(res.Skipped)).Msg("importación terminada")
	return res, nil
}

// toRequest resuelve categoría y materiales por nombre (get-or-create) y arma el payload.
// reason no vacío indica que la fila debe omitirse.
func (imp *importer) toRequest(ctx context.Context, rec []string) (dto.ProductRequest, string, error) {
	req := dto.ProductRequest{
		SKU:         rec[colSKU],
		ProductName: rec[colName],
		Status:      rec[colStatus],
		MediaURL:    rec[colMediaURL],
	}

	price, err := decimal.NewFromString(strings.TrimSpace(rec[colPrice]))
	if err != nil {
		return req, "precio inválido: " + rec[colPrice], nil
	}
	req.Price = json.RawMessage(price.String())

	if name := strings.TrimSpace(rec[colCategory]); name != "" {
		cat, _, err := imp.taxonomy.GetOrCreateCategory(ctx, dto.CreateCategoryRequest{CategoryName: name})
		if err != nil {
			return req, "", err
		}
		req.CategoryID = cat.CategoryID
	}
	for _, name := range strings.Split(rec[colMaterials], "|") {
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		mat, _, err := imp.taxonomy.GetOrCreateMaterial(ctx, dto.CreateMaterialRequest{MaterialName: name})
		if err != nil {
			return req, "", err
		}
		req.MaterialIDs = append(req.MaterialIDs, mat.MaterialID)
	}
	return req, "", nil
}
