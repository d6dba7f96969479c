package usecase

import (
	"fmt"
	"sort"

	"github.com/comparador-racao/backend/internal/domain"
)

const similarProductsLimit = 4

// ParseSortKey validates a sort option. An empty string selects the default ordering.
func ParseSortKey(s string) (domain.SortKey, error) {
	switch key := domain.SortKey(s); key {
	case "":
		return domain.DefaultSort, nil
	case domain.SortPriceAsc, domain.SortPriceDesc, domain.SortQualityDesc, domain.SortValueDesc:
		return key, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidSortKey, s)
	}
}

// ApplyFilters narrows products category by category. A category with an empty
// selection imposes no constraint; otherwise the product field must be non-null
// and selected. Input order is preserved.
func ApplyFilters(products []domain.Product, state domain.FilterState) []domain.Product {
	result := make([]domain.Product, len(products))
	copy(result, products)

	for _, c := range domain.Categories {
		selected := state.Selected(c)
		if len(selected) == 0 {
			continue
		}
		allowed := make(map[string]bool, len(selected))
		for _, v := range selected {
			allowed[v] = true
		}

		kept := result[:0:0]
		for _, p := range result {
			if v := p.Field(c); v != nil && allowed[*v] {
				kept = append(kept, p)
			}
		}
		result = kept
	}

	return result
}

// SortProducts returns a stably sorted copy of products
func SortProducts(products []domain.Product, key domain.SortKey) []domain.Product {
	sorted := make([]domain.Product, len(products))
	copy(sorted, products)

	var less func(a, b *domain.Product) bool
	switch key {
	case domain.SortPriceAsc:
		less = func(a, b *domain.Product) bool { return displayPrice(a) < displayPrice(b) }
	case domain.SortPriceDesc:
		less = func(a, b *domain.Product) bool { return displayPrice(a) > displayPrice(b) }
	case domain.SortQualityDesc:
		less = func(a, b *domain.Product) bool { return a.Quality() > b.Quality() }
	case domain.SortValueDesc:
		less = func(a, b *domain.Product) bool { return a.CostBenefit() > b.CostBenefit() }
	default:
		return sorted
	}

	sort.SliceStable(sorted, func(i, j int) bool { return less(&sorted[i], &sorted[j]) })
	return sorted
}

// displayPrice is the listed price, 0 when missing or unparseable
func displayPrice(p *domain.Product) float64 {
	price, ok := ExtractPrice(deref(p.Preco))
	if !ok {
		return 0
	}
	return price
}

// CountItems counts products per category value
func CountItems(products []domain.Product) domain.ItemCounts {
	counts := make(domain.ItemCounts, len(domain.Categories))
	for _, c := range domain.Categories {
		counts[c] = make(map[string]int)
	}
	for i := range products {
		for _, c := range domain.Categories {
			if v := products[i].Field(c); v != nil && *v != "" {
				counts[c][*v]++
			}
		}
	}
	return counts
}

// SimilarProducts returns up to limit products sharing species or brand with target
func SimilarProducts(target *domain.Product, all []domain.Product, limit int) []domain.Product {
	similar := make([]domain.Product, 0, limit)
	for _, p := range all {
		if len(similar) >= limit {
			break
		}
		if p.ID == target.ID {
			continue
		}
		if sameValue(p.Especie, target.Especie) || sameValue(p.Marca, target.Marca) {
			similar = append(similar, p)
		}
	}
	return similar
}

// sameValue compares two nullable fields; two nulls are equal
func sameValue(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// QualityVerdict classifies a quality score for the detail summary
func QualityVerdict(quality int) string {
	switch {
	case quality > 80:
		return "excelente"
	case quality > 70:
		return "boa"
	default:
		return "regular"
	}
}

// ProductDetail is a single product with its detail-page extras
type ProductDetail struct {
	Product *domain.Product  `json:"product"`
	Verdict string           `json:"verdict"`
	Similar []domain.Product `json:"similar"`
}

// ListQuery selects and orders a catalog listing
type ListQuery struct {
	Filters domain.FilterState
	Sort    domain.SortKey
	Search  string
}

// CatalogListing is a filtered, sorted view of the catalog
type CatalogListing struct {
	Products []domain.Product   `json:"products"`
	Total    int                `json:"total"`
	Sort     domain.SortKey     `json:"sort"`
	Filters  domain.FilterState `json:"filters"`
	Search   string             `json:"search,omitempty"`
}

// FilterSidebar feeds the filter sidebar: options and per-value counts
type FilterSidebar struct {
	Options domain.FilterOptions `json:"options"`
	Counts  domain.ItemCounts    `json:"counts"`
}

// CatalogService serves read-only catalog queries
type CatalogService struct {
	catalog domain.CatalogRepository
}

// NewCatalogService creates a catalog service over a loaded catalog
func NewCatalogService(catalog domain.CatalogRepository) *CatalogService {
	return &CatalogService{catalog: catalog}
}

// List filters, optionally searches, then sorts the full catalog
func (s *CatalogService) List(q ListQuery) *CatalogListing {
	key := q.Sort
	if key == "" {
		key = domain.DefaultSort
	}
	filters := normalizeFilterState(q.Filters)
	matched := Search(ApplyFilters(s.catalog.All(), filters), q.Search)
	visible := SortProducts(matched, key)
	return &CatalogListing{
		Products: visible,
		Total:    len(visible),
		Sort:     key,
		Filters:  filters,
		Search:   q.Search,
	}
}

// Get looks up a product by id together with similar products
func (s *CatalogService) Get(id string) (*ProductDetail, error) {
	product, err := s.catalog.FindByID(id)
	if err != nil {
		return nil, err
	}
	return &ProductDetail{
		Product: product,
		Verdict: QualityVerdict(product.Quality()),
		Similar: SimilarProducts(product, s.catalog.All(), similarProductsLimit),
	}, nil
}

// Sidebar returns the filter options and counts for the whole catalog
func (s *CatalogService) Sidebar() *FilterSidebar {
	return &FilterSidebar{
		Options: s.catalog.FilterOptions(),
		Counts:  CountItems(s.catalog.All()),
	}
}
