package usecase

import (
	"github.com/comparador-racao/backend/internal/domain"
)

// Browser is the interactive state of one catalog session: the full product
// list, the active filters, the sort key and the comparison set. Every filter
// or sort change recomputes the visible list from the full list.
//
// A Browser is not safe for concurrent use.
type Browser struct {
	all     []domain.Product
	filters domain.FilterState
	sortKey domain.SortKey
	compare *ComparisonSet
	visible []domain.Product
}

// NewBrowser starts a session with no filters and the default ordering
func NewBrowser(products []domain.Product) *Browser {
	b := &Browser{
		all:     products,
		sortKey: domain.DefaultSort,
		compare: NewComparisonSet(),
	}
	b.recompute()
	return b
}

func (b *Browser) recompute() {
	b.visible = SortProducts(ApplyFilters(b.all, b.filters), b.sortKey)
}

// SetFilters replaces the whole filter state
func (b *Browser) SetFilters(state domain.FilterState) {
	b.filters = normalizeFilterState(state)
	b.recompute()
}

// ToggleFilter checks or unchecks one value of a category
func (b *Browser) ToggleFilter(c domain.Category, value string, checked bool) {
	current := b.filters.Selected(c)
	idx := -1
	for i, v := range current {
		if v == value {
			idx = i
			break
		}
	}

	switch {
	case checked && idx < 0:
		next := make([]string, len(current), len(current)+1)
		copy(next, current)
		b.filters.SetSelected(c, append(next, value))
	case !checked && idx >= 0:
		next := make([]string, 0, len(current)-1)
		next = append(next, current[:idx]...)
		b.filters.SetSelected(c, append(next, current[idx+1:]...))
	default:
		return
	}
	b.recompute()
}

// ClearFilters drops every selection
func (b *Browser) ClearFilters() {
	b.filters = domain.FilterState{}
	b.recompute()
}

// SetSort changes the ordering
func (b *Browser) SetSort(key domain.SortKey) {
	b.sortKey = key
	b.recompute()
}

// ToggleCompare adds or removes a product from the comparison set
func (b *Browser) ToggleCompare(p domain.Product) (bool, error) {
	return b.compare.Toggle(p)
}

func (b *Browser) ClearCompare() { b.compare.Clear() }

// Visible returns the filtered, sorted products
func (b *Browser) Visible() []domain.Product {
	visible := make([]domain.Product, len(b.visible))
	copy(visible, b.visible)
	return visible
}

func (b *Browser) Filters() domain.FilterState { return b.filters }

func (b *Browser) Sort() domain.SortKey { return b.sortKey }

func (b *Browser) Comparison() *ComparisonSet { return b.compare }

// normalizeFilterState removes duplicate and empty values, keeping first occurrence order
func normalizeFilterState(state domain.FilterState) domain.FilterState {
	var out domain.FilterState
	for _, c := range domain.Categories {
		selected := state.Selected(c)
		if len(selected) == 0 {
			continue
		}
		seen := make(map[string]bool, len(selected))
		values := make([]string, 0, len(selected))
		for _, v := range selected {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			values = append(values, v)
		}
		out.SetSelected(c, values)
	}
	return out
}
