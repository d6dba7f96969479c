package usecase

import (
	"sort"

	"github.com/comparador-racao/backend/internal/domain"
)

// ComparisonSet is an ordered selection of at most domain.MaxCompared products.
// Products are identified by origin URL, not by id.
type ComparisonSet struct {
	items []domain.Product
}

// NewComparisonSet creates a comparison set seeded with products, ignoring
// duplicates and anything past the size limit
func NewComparisonSet(products ...domain.Product) *ComparisonSet {
	c := &ComparisonSet{}
	for _, p := range products {
		if c.Contains(p.LinkOrigem) || len(c.items) >= domain.MaxCompared {
			continue
		}
		c.items = append(c.items, p)
	}
	return c
}

// Toggle removes the product if present, otherwise adds it.
// Adding to a full set returns domain.ErrComparisonFull and leaves the set unchanged.
func (c *ComparisonSet) Toggle(p domain.Product) (added bool, err error) {
	for i := range c.items {
		if c.items[i].LinkOrigem == p.LinkOrigem {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			return false, nil
		}
	}
	if len(c.items) >= domain.MaxCompared {
		return false, domain.ErrComparisonFull
	}
	c.items = append(c.items, p)
	return true, nil
}

// Contains reports whether a product with the given origin URL is selected
func (c *ComparisonSet) Contains(link string) bool {
	for i := range c.items {
		if c.items[i].LinkOrigem == link {
			return true
		}
	}
	return false
}

// Items returns the selected products in insertion order
func (c *ComparisonSet) Items() []domain.Product {
	items := make([]domain.Product, len(c.items))
	copy(items, c.items)
	return items
}

// Links returns the origin URLs in insertion order
func (c *ComparisonSet) Links() []string {
	links := make([]string, len(c.items))
	for i := range c.items {
		links[i] = c.items[i].LinkOrigem
	}
	return links
}

func (c *ComparisonSet) Len() int { return len(c.items) }

func (c *ComparisonSet) Clear() { c.items = nil }

// CompareView orders compared products best quality first for side-by-side display
func CompareView(products []domain.Product) []domain.Product {
	view := make([]domain.Product, len(products))
	copy(view, products)
	sort.SliceStable(view, func(i, j int) bool { return view[i].Quality() > view[j].Quality() })
	return view
}
