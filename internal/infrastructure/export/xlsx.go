package export

import (
	"context"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/comparador-racao/backend/internal/domain"
)

const filterSheet = "Filtros"

var productHeaders = []string{
	"id", "nome", "marca", "especie", "porte", "idade", "tipo",
	"preco", "peso", "preco_kg", "qualidade", "custobeneficio",
	"proteina", "gordura", "fibra", "umidade", "calcio", "fosforo",
	"link_origem",
}

// XLSXSink writes a spreadsheet snapshot of the catalog for manual review
type XLSXSink struct {
	path string
}

// NewXLSXSink creates a sink writing to path
func NewXLSXSink(path string) *XLSXSink {
	return &XLSXSink{path: path}
}

func (s *XLSXSink) Name() string {
	return "xlsx:" + s.path
}

// Save writes one row per product on the first sheet and the filter options on a second one
func (s *XLSXSink) Save(ctx context.Context, products []domain.Product, options domain.FilterOptions) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, h := range productHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i := range products {
		if err := ctx.Err(); err != nil {
			return err
		}
		p := &products[i]
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		a := p.Analise
		if a == nil {
			a = &domain.Analysis{}
		}
		set(1, p.ID)
		set(2, derefString(p.Nome))
		set(3, derefString(p.Marca))
		set(4, derefString(p.Especie))
		set(5, derefString(p.Porte))
		set(6, derefString(p.Idade))
		set(7, derefString(p.Tipo))
		set(8, derefString(p.Preco))
		set(9, derefString(p.Peso))
		set(10, derefFloat(p.PrecoNormalizado))
		set(11, a.Qualidade)
		set(12, a.CustoBeneficio)
		set(13, a.Proteina)
		set(14, a.Gordura)
		set(15, a.Fibra)
		set(16, a.Umidade)
		set(17, a.Calcio)
		set(18, a.Fosforo)
		set(19, p.LinkOrigem)
	}

	if _, err := f.NewSheet(filterSheet); err != nil {
		return err
	}
	for col, c := range domain.Categories {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(filterSheet, cell, string(c))
		for row, v := range options.Values(c) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(filterSheet, cell, v)
		}
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return f.SaveAs(s.path)
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func derefFloat(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
