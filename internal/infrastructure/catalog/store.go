package catalog

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/comparador-racao/backend/internal/domain"
)

// Store is the read-only, in-memory enriched catalog with id and URL indexes
// built once at load time
type Store struct {
	products []domain.Product
	byID     map[string]int
	byURL    map[string]int
	options  domain.FilterOptions
}

// NewStore indexes an already loaded product list.
// When two products share an id or URL, the first one wins the index entry.
func NewStore(products []domain.Product) *Store {
	s := &Store{
		products: products,
		byID:     make(map[string]int, len(products)),
		byURL:    make(map[string]int, len(products)),
		options:  domain.NewFilterOptions(products),
	}

	for i := range products {
		if _, dup := s.byID[products[i].ID]; dup {
			log.Printf("[CATALOG] Duplicate id %q at position %d, keeping first", products[i].ID, i)
		} else {
			s.byID[products[i].ID] = i
		}
		if _, dup := s.byURL[products[i].LinkOrigem]; !dup {
			s.byURL[products[i].LinkOrigem] = i
		}
	}

	return s
}

// Load reads the products JSON array written by the enrichment pipeline
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to decode catalog %s: %w", path, err)
	}

	return NewStore(products), nil
}

// All returns the full product list. Callers must treat it as read-only.
func (s *Store) All() []domain.Product {
	return s.products
}

// FindByID looks up a product by id
func (s *Store) FindByID(id string) (*domain.Product, error) {
	i, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}
	p := s.products[i]
	return &p, nil
}

// FindByURL looks up a product by origin URL
func (s *Store) FindByURL(link string) (*domain.Product, error) {
	i, ok := s.byURL[link]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, link)
	}
	p := s.products[i]
	return &p, nil
}

// FilterOptions returns the distinct category values of the catalog
func (s *Store) FilterOptions() domain.FilterOptions {
	return s.options
}

// Size returns the number of loaded products
func (s *Store) Size() int {
	return len(s.products)
}
