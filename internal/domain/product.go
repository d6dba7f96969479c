package domain

// RawProduct is one scraped catalog entry as it appears in the JSONL input.
// Every field except LinkOrigem may be null.
type RawProduct struct {
	Nome           *string           `json:"nome"`
	Marca          *string           `json:"marca"`
	Preco          *string           `json:"preco"`
	Peso           *string           `json:"peso"`
	Descricao      *string           `json:"descricao"`
	Imagem         *string           `json:"imagem"`
	Ingredientes   *string           `json:"ingredientes"`
	Especie        *string           `json:"especie"`
	Porte          *string           `json:"porte"`
	Idade          *string           `json:"idade"`
	Tipo           *string           `json:"tipo"`
	Raca           *string           `json:"raca"`
	Corante        *string           `json:"corante"`
	Transgenico    *string           `json:"transgenico"`
	Especificacoes map[string]string `json:"especificacoes"`
	LinkOrigem     string            `json:"link_origem"`
}

// Product is a RawProduct enriched with an id and the computed analysis block
type Product struct {
	RawProduct

	ID               string    `json:"id"`
	PrecoNormalizado *float64  `json:"preco_normalizado,omitempty"` // price per kg
	PesoNormalizado  *float64  `json:"peso_normalizado,omitempty"`  // kg
	Analise          *Analysis `json:"analise,omitempty"`
}

// Quality returns the quality score, 0 when the analysis block is absent
func (p *Product) Quality() int {
	if p.Analise == nil {
		return 0
	}
	return p.Analise.Qualidade
}

// CostBenefit returns the cost-benefit score, 0 when the analysis block is absent
func (p *Product) CostBenefit() float64 {
	if p.Analise == nil {
		return 0
	}
	return p.Analise.CustoBeneficio
}

// Field returns the categorical field backing a filter category
func (p *RawProduct) Field(c Category) *string {
	switch c {
	case CategorySpecies:
		return p.Especie
	case CategoryBrand:
		return p.Marca
	case CategorySize:
		return p.Porte
	case CategoryAge:
		return p.Idade
	case CategoryType:
		return p.Tipo
	default:
		return nil
	}
}

// Category names one of the five filterable product fields.
// The values double as JSON keys of FilterOptions and FilterState.
type Category string

const (
	CategorySpecies Category = "especies"
	CategoryBrand   Category = "marcas"
	CategorySize    Category = "portes"
	CategoryAge     Category = "idades"
	CategoryType    Category = "tipos"
)

// Categories lists the filter categories in sidebar order
var Categories = []Category{CategorySpecies, CategoryBrand, CategorySize, CategoryAge, CategoryType}

// ParseCategory validates a category name
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", ErrInvalidRequest
}

// FilterOptions holds the distinct values of each category, in order of first appearance
type FilterOptions struct {
	Especies []string `json:"especies"`
	Marcas   []string `json:"marcas"`
	Portes   []string `json:"portes"`
	Idades   []string `json:"idades"`
	Tipos    []string `json:"tipos"`
}

// Values returns the option list for a category
func (o *FilterOptions) Values(c Category) []string {
	switch c {
	case CategorySpecies:
		return o.Especies
	case CategoryBrand:
		return o.Marcas
	case CategorySize:
		return o.Portes
	case CategoryAge:
		return o.Idades
	case CategoryType:
		return o.Tipos
	default:
		return nil
	}
}

// ItemCounts maps each category to value -> number of products carrying it
type ItemCounts map[Category]map[string]int

// NewFilterOptions scans products for the distinct non-null value of each category
func NewFilterOptions(products []Product) FilterOptions {
	seen := make(map[Category]map[string]bool, len(Categories))
	values := make(map[Category][]string, len(Categories))
	for _, c := range Categories {
		seen[c] = make(map[string]bool)
		values[c] = []string{}
	}

	for i := range products {
		for _, c := range Categories {
			v := products[i].Field(c)
			if v == nil || *v == "" || seen[c][*v] {
				continue
			}
			seen[c][*v] = true
			values[c] = append(values[c], *v)
		}
	}

	return FilterOptions{
		Especies: values[CategorySpecies],
		Marcas:   values[CategoryBrand],
		Portes:   values[CategorySize],
		Idades:   values[CategoryAge],
		Tipos:    values[CategoryType],
	}
}
