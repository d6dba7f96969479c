package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/comparador-racao/backend/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data     map[string][]byte
	getError error
	setError error
	setCalls int
	lastTTL  time.Duration
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string][]byte),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.setCalls++
	m.lastTTL = ttl
	if m.setError != nil {
		return m.setError
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = data
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// MockCatalog is a mock implementation of domain.CatalogRepository over a fixed list
type MockCatalog struct {
	products []domain.Product
}

func NewMockCatalog(products ...domain.Product) *MockCatalog {
	return &MockCatalog{products: products}
}

func (m *MockCatalog) All() []domain.Product { return m.products }

func (m *MockCatalog) FindByID(id string) (*domain.Product, error) {
	for i := range m.products {
		if m.products[i].ID == id {
			p := m.products[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
}

func (m *MockCatalog) FindByURL(link string) (*domain.Product, error) {
	for i := range m.products {
		if m.products[i].LinkOrigem == link {
			p := m.products[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, link)
}

func (m *MockCatalog) FilterOptions() domain.FilterOptions {
	return domain.NewFilterOptions(m.products)
}

// MockSink records what the pipeline hands over
type MockSink struct {
	name     string
	saveErr  error
	saved    []domain.Product
	options  domain.FilterOptions
	saveCall int
}

func (m *MockSink) Name() string { return m.name }

func (m *MockSink) Save(ctx context.Context, products []domain.Product, options domain.FilterOptions) error {
	m.saveCall++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = products
	m.options = options
	return nil
}

func str(s string) *string { return &s }

// product builds a catalog entry with the fields the engine looks at
func product(id, marca, especie, preco string, quality int, costBenefit float64) domain.Product {
	p := domain.Product{
		RawProduct: domain.RawProduct{
			Nome:       str("Ração " + marca + " " + id),
			Marca:      str(marca),
			LinkOrigem: "https://www.cobasi.com.br/" + id + "/p",
		},
		ID:      id,
		Analise: &domain.Analysis{Qualidade: quality, CustoBeneficio: costBenefit},
	}
	if especie != "" {
		p.Especie = str(especie)
	}
	if preco != "" {
		p.Preco = str(preco)
	}
	return p
}

func ids(products []domain.Product) []string {
	out := make([]string, len(products))
	for i := range products {
		out[i] = products[i].ID
	}
	return out
}
