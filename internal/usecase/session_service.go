package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/comparador-racao/backend/internal/domain"
)

// SessionServiceConfig holds configuration for browse sessions
type SessionServiceConfig struct {
	TTL time.Duration
}

// SessionView is what a session renders: the visible grid and the comparison tray
type SessionView struct {
	ID       string             `json:"id"`
	Filters  domain.FilterState `json:"filters"`
	Sort     domain.SortKey     `json:"sort"`
	Products []domain.Product   `json:"products"`
	Total    int                `json:"total"`
	Compared []domain.Product   `json:"compared"`
}

// SessionService keeps one Browser state per session in the cache.
// Every access extends the session's lifetime by the configured TTL.
type SessionService struct {
	catalog domain.CatalogRepository
	cache   domain.CacheRepository
	ttl     time.Duration

	// serializes load-modify-save cycles
	mu sync.Mutex
}

// NewSessionService creates a session service with dependencies
func NewSessionService(
	catalog domain.CatalogRepository,
	cache domain.CacheRepository,
	config SessionServiceConfig,
) *SessionService {
	ttl := config.TTL
	if ttl == 0 {
		ttl = 2 * time.Hour
	}
	return &SessionService{
		catalog: catalog,
		cache:   cache,
		ttl:     ttl,
	}
}

func sessionKey(id string) string {
	return "session:" + id
}

// Create starts a new session with empty filters and the default ordering
func (s *SessionService) Create(ctx context.Context) (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := &domain.SessionState{
		ID:   uuid.NewString(),
		Sort: domain.DefaultSort,
	}
	if err := s.save(ctx, state); err != nil {
		return nil, err
	}
	log.Printf("[SESSION] Created session %s", state.ID)

	return s.view(state.ID, s.restore(state)), nil
}

// View returns the current state of a session
func (s *SessionService) View(ctx context.Context, id string) (*SessionView, error) {
	return s.update(ctx, id, func(b *Browser) error { return nil })
}

// SetFilters replaces the session's filter state
func (s *SessionService) SetFilters(ctx context.Context, id string, filters domain.FilterState) (*SessionView, error) {
	return s.update(ctx, id, func(b *Browser) error {
		b.SetFilters(filters)
		return nil
	})
}

// ToggleFilter checks or unchecks a single filter value
func (s *SessionService) ToggleFilter(ctx context.Context, id string, c domain.Category, value string, checked bool) (*SessionView, error) {
	return s.update(ctx, id, func(b *Browser) error {
		b.ToggleFilter(c, value, checked)
		return nil
	})
}

// ClearFilters drops every filter selection of the session
func (s *SessionService) ClearFilters(ctx context.Context, id string) (*SessionView, error) {
	return s.update(ctx, id, func(b *Browser) error {
		b.ClearFilters()
		return nil
	})
}

// SetSort changes the session's ordering
func (s *SessionService) SetSort(ctx context.Context, id string, key domain.SortKey) (*SessionView, error) {
	return s.update(ctx, id, func(b *Browser) error {
		b.SetSort(key)
		return nil
	})
}

// ToggleCompare adds or removes a product from the session's comparison set.
// When the set is full the returned error wraps domain.ErrComparisonFull and
// the view reflects the unchanged session.
func (s *SessionService) ToggleCompare(ctx context.Context, id, productID string) (*SessionView, bool, error) {
	product, err := s.catalog.FindByID(productID)
	if err != nil {
		return nil, false, err
	}

	var added bool
	var toggleErr error
	view, err := s.update(ctx, id, func(b *Browser) error {
		added, toggleErr = b.ToggleCompare(*product)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return view, added, toggleErr
}

// ClearCompare empties the session's comparison set
func (s *SessionService) ClearCompare(ctx context.Context, id string) (*SessionView, error) {
	return s.update(ctx, id, func(b *Browser) error {
		b.ClearCompare()
		return nil
	})
}

// Comparison returns the compared products ordered for side-by-side display
func (s *SessionService) Comparison(ctx context.Context, id string) ([]domain.Product, error) {
	view, err := s.View(ctx, id)
	if err != nil {
		return nil, err
	}
	return CompareView(view.Compared), nil
}

// End removes a session before its TTL runs out
func (s *SessionService) End(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey(id)
	exists, err := s.cache.Exists(ctx, key)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to end session %s: %w", id, err)
	}

	log.Printf("[SESSION] Ended session %s", id)
	return nil
}

// update loads a session, applies fn and saves the result
func (s *SessionService) update(ctx context.Context, id string, fn func(b *Browser) error) (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	browser := s.restore(state)
	if err := fn(browser); err != nil {
		return nil, err
	}

	state.Filters = browser.Filters()
	state.Sort = browser.Sort()
	state.Compared = browser.Comparison().Links()
	if err := s.save(ctx, state); err != nil {
		return nil, err
	}

	return s.view(id, browser), nil
}

func (s *SessionService) load(ctx context.Context, id string) (*domain.SessionState, error) {
	data, err := s.cache.Get(ctx, sessionKey(id))
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
		}
		return nil, err
	}

	var state domain.SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	return &state, nil
}

func (s *SessionService) save(ctx context.Context, state *domain.SessionState) error {
	if err := s.cache.Set(ctx, sessionKey(state.ID), state, s.ttl); err != nil {
		return fmt.Errorf("failed to store session %s: %w", state.ID, err)
	}
	return nil
}

// restore rebuilds a Browser from persisted state. Compared products that are
// no longer in the catalog are dropped.
func (s *SessionService) restore(state *domain.SessionState) *Browser {
	browser := NewBrowser(s.catalog.All())
	browser.SetFilters(state.Filters)
	if state.Sort != "" {
		browser.SetSort(state.Sort)
	}

	for _, link := range state.Compared {
		product, err := s.catalog.FindByURL(link)
		if err != nil {
			log.Printf("[SESSION] Dropping compared product %s from session %s: %v", link, state.ID, err)
			continue
		}
		if _, err := browser.ToggleCompare(*product); err != nil {
			log.Printf("[SESSION] Dropping compared product %s from session %s: %v", link, state.ID, err)
		}
	}
	return browser
}

func (s *SessionService) view(id string, b *Browser) *SessionView {
	visible := b.Visible()
	return &SessionView{
		ID:       id,
		Filters:  b.Filters(),
		Sort:     b.Sort(),
		Products: visible,
		Total:    len(visible),
		Compared: b.Comparison().Items(),
	}
}
