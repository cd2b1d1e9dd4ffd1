// Package pdf genera el reporte imprimible de estadísticas del catálogo.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de generación                        │
//	│  RESUMEN: Total productos / Activos / Valor total            │
//	│  RANGOS DE PRECIO: 0-500 | 501-1000 | 1000+                  │
//	│  TABLA: Categoría | Precio más alto | Productos              │
//	│  TABLA: SKU | Producto | Categoría | Precio (sin media)      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// StatisticsPDFGenerator implementa usecase.StatisticsPDFGenerator usando Maroto v2.
type StatisticsPDFGenerator struct{}

// NewStatisticsPDFGenerator construye el generador.
func NewStatisticsPDFGenerator() *StatisticsPDFGenerator { return &StatisticsPDFGenerator{} }

// GenerateStatisticsPDF genera el PDF y devuelve sus bytes.
func (g *StatisticsPDFGenerator) GenerateStatisticsPDF(
	ctx context.Context,
	stats *entity.CatalogStatistics,
	generatedAt time.Time,
) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if stats == nil {
		return nil, fmt.Errorf("pdf: estadísticas vacías")
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Estadísticas del catálogo", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(stats))
	m.AddRows(priceRangeRows(stats.PriceRangeCount)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("PRECIO MÁS ALTO POR CATEGORÍA"))
	m.AddRows(tableHeader([]string{"Categoría", "Precio más alto", "Productos"}, []int{6, 3, 3}))
	if len(stats.CategoryHighestPrice) == 0 {
		m.AddRows(emptyRow("Sin productos registrados"))
	}
	for _, c := range stats.CategoryHighestPrice {
		m.AddRows(row.New(6).Add(
			cell(c.CategoryName, 6, align.Left),
			cell(formatMoney(c.HighestPrice), 3, align.Right),
			cell(strconv.Itoa(c.ProductCount), 3, align.Right),
		))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitle("PRODUCTOS SIN IMAGEN"))
	m.AddRows(tableHeader([]string{"SKU", "Producto", "Categoría", "Precio"}, []int{2, 5, 3, 2}))
	if len(stats.ProductsWithoutMedia) == 0 {
		m.AddRows(emptyRow("Todos los productos tienen imagen"))
	}
	for _, p := range stats.ProductsWithoutMedia {
		m.AddRows(row.New(6).Add(
			cell(p.SKU, 2, align.Left),
			cell(p.Name, 5, align.Left),
			cell(p.CategoryName, 3, align.Left),
			cell(formatMoney(p.Price), 2, align.Right),
		))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(at time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("ESTADÍSTICAS DEL CATÁLOGO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 4, Color: colorGray,
			}),
		),
	)
}

func summaryRow(s *entity.CatalogStatistics) core.Row {
	box := func(label, value string) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{Size: 8, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 12, Top: 6}),
		)
	}
	return row.New(16).Add(
		box("Total productos", strconv.Itoa(s.TotalProducts)),
		box("Productos activos", strconv.Itoa(s.ActiveProducts)),
		box("Valor total", formatMoney(s.TotalValue)),
	)
}

func priceRangeRows(counts entity.PriceRangeCount) []core.Row {
	cols := make([]core.Col, 0, len(entity.PriceRanges))
	for _, r := range entity.PriceRanges {
		cols = append(cols, col.New(4).Add(
			text.New(string(r), props.Text{Size: 8, Color: colorGray, Align: align.Center, Top: 1}),
			text.New(strconv.Itoa(counts[r]), props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Center, Top: 6}),
		))
	}
	return []core.Row{
		sectionTitle("RANGOS DE PRECIO"),
		row.New(14).Add(cols...),
	}
}

func sectionTitle(s string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2}),
	))
}

func tableHeader(labels []string, sizes []int) core.Row {
	cols := make([]core.Col, 0, len(labels))
	for i, l := range labels {
		a := align.Left
		if i == len(labels)-1 {
			a = align.Right
		}
		cols = append(cols, col.New(sizes[i]).Add(text.New(l, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		})))
	}
	return row.New(7).Add(cols...)
}

func cell(s string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
}

func emptyRow(msg string) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 8, Color: colorGray, Top: 1, Left: 1}),
	))
}

// formatMoney "$" + miles con punto y 2 decimales con coma.
// Ej: 1200.5 → "$1.200,50"
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	intPart, frac, _ := strings.Cut(d.StringFixed(2), ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + "$" + string(buf) + "," + frac
}
