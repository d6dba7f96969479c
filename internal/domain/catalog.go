package domain

// MaxCompared is the maximum number of products in a comparison set
const MaxCompared = 3

// SortKey selects one of the catalog orderings
type SortKey string

const (
	SortPriceAsc    SortKey = "price-asc"
	SortPriceDesc   SortKey = "price-desc"
	SortQualityDesc SortKey = "quality-desc"
	SortValueDesc   SortKey = "value-desc"

	DefaultSort = SortQualityDesc
)

// FilterState is the active selection per category. An empty list imposes no constraint.
type FilterState struct {
	Especies []string `json:"especies"`
	Marcas   []string `json:"marcas"`
	Portes   []string `json:"portes"`
	Idades   []string `json:"idades"`
	Tipos    []string `json:"tipos"`
}

// Selected returns the selected values for a category
func (f FilterState) Selected(c Category) []string {
	switch c {
	case CategorySpecies:
		return f.Especies
	case CategoryBrand:
		return f.Marcas
	case CategorySize:
		return f.Portes
	case CategoryAge:
		return f.Idades
	case CategoryType:
		return f.Tipos
	default:
		return nil
	}
}

// SetSelected replaces the selected values of a category
func (f *FilterState) SetSelected(c Category, values []string) {
	switch c {
	case CategorySpecies:
		f.Especies = values
	case CategoryBrand:
		f.Marcas = values
	case CategorySize:
		f.Portes = values
	case CategoryAge:
		f.Idades = values
	case CategoryType:
		f.Tipos = values
	}
}

// IsEmpty reports whether no category has a selection
func (f FilterState) IsEmpty() bool {
	for _, c := range Categories {
		if len(f.Selected(c)) > 0 {
			return false
		}
	}
	return true
}

// SessionState is the persisted form of a browse session.
// Compared holds origin URLs in insertion order.
type SessionState struct {
	ID       string      `json:"id"`
	Filters  FilterState `json:"filters"`
	Sort     SortKey     `json:"sort"`
	Compared []string    `json:"compared"`
}
