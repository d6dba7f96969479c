package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comparador-racao/backend/internal/domain"
)

func newTestSessionService(t *testing.T) (*SessionService, *MockCacheRepository, *MockCatalog) {
	t.Helper()
	cache := NewMockCacheRepository()
	catalog := NewMockCatalog(sampleCatalog()...)
	service := NewSessionService(catalog, cache, SessionServiceConfig{TTL: 30 * time.Minute})
	return service, cache, catalog
}

func TestSessionService(t *testing.T) {
	ctx := context.Background()

	t.Run("create starts with the full catalog", func(t *testing.T) {
		service, cache, _ := newTestSessionService(t)

		view, err := service.Create(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, view.ID)
		assert.Equal(t, domain.DefaultSort, view.Sort)
		assert.Equal(t, 5, view.Total)
		assert.Empty(t, view.Compared)
		assert.Equal(t, 30*time.Minute, cache.lastTTL)

		exists, _ := cache.Exists(ctx, "session:"+view.ID)
		assert.True(t, exists)
	})

	t.Run("default TTL", func(t *testing.T) {
		service := NewSessionService(NewMockCatalog(), NewMockCacheRepository(), SessionServiceConfig{})
		assert.Equal(t, 2*time.Hour, service.ttl)
	})

	t.Run("state persists between calls", func(t *testing.T) {
		service, _, _ := newTestSessionService(t)
		created, err := service.Create(ctx)
		require.NoError(t, err)

		_, err = service.SetFilters(ctx, created.ID, domain.FilterState{Especies: []string{"cachorro"}})
		require.NoError(t, err)
		_, err = service.SetSort(ctx, created.ID, domain.SortPriceDesc)
		require.NoError(t, err)

		view, err := service.View(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.SortPriceDesc, view.Sort)
		assert.Equal(t, []string{"golden-adulto", "pedigree-carne"}, ids(view.Products))
	})

	t.Run("toggle filter and clear", func(t *testing.T) {
		service, _, _ := newTestSessionService(t)
		created, err := service.Create(ctx)
		require.NoError(t, err)

		view, err := service.ToggleFilter(ctx, created.ID, domain.CategoryBrand, "Whiskas", true)
		require.NoError(t, err)
		assert.Equal(t, []string{"whiskas-peixe"}, ids(view.Products))

		view, err = service.ClearFilters(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, view.Total)
	})

	t.Run("comparison is limited and ordered by quality", func(t *testing.T) {
		service, _, _ := newTestSessionService(t)
		created, err := service.Create(ctx)
		require.NoError(t, err)

		for _, id := range []string{"pedigree-carne", "premier-gato", "golden-adulto"} {
			_, added, err := service.ToggleCompare(ctx, created.ID, id)
			require.NoError(t, err)
			assert.True(t, added)
		}

		view, added, err := service.ToggleCompare(ctx, created.ID, "whiskas-peixe")
		assert.False(t, added)
		assert.True(t, errors.Is(err, domain.ErrComparisonFull))
		require.NotNil(t, view)
		assert.Len(t, view.Compared, 3)

		compared, err := service.Comparison(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"premier-gato", "golden-adulto", "pedigree-carne"}, ids(compared))

		view, err = service.ClearCompare(ctx, created.ID)
		require.NoError(t, err)
		assert.Empty(t, view.Compared)
	})

	t.Run("toggle twice removes", func(t *testing.T) {
		service, _, _ := newTestSessionService(t)
		created, err := service.Create(ctx)
		require.NoError(t, err)

		_, added, err := service.ToggleCompare(ctx, created.ID, "golden-adulto")
		require.NoError(t, err)
		assert.True(t, added)

		view, added, err := service.ToggleCompare(ctx, created.ID, "golden-adulto")
		require.NoError(t, err)
		assert.False(t, added)
		assert.Empty(t, view.Compared)
	})

	t.Run("unknown product", func(t *testing.T) {
		service, _, _ := newTestSessionService(t)
		created, err := service.Create(ctx)
		require.NoError(t, err)

		_, _, err = service.ToggleCompare(ctx, created.ID, "nope")
		assert.True(t, errors.Is(err, domain.ErrProductNotFound))
	})

	t.Run("unknown session", func(t *testing.T) {
		service, _, _ := newTestSessionService(t)

		_, err := service.View(ctx, "missing")
		assert.True(t, errors.Is(err, domain.ErrSessionNotFound))
	})

	t.Run("end removes the session", func(t *testing.T) {
		service, cache, _ := newTestSessionService(t)
		created, err := service.Create(ctx)
		require.NoError(t, err)

		require.NoError(t, service.End(ctx, created.ID))
		exists, _ := cache.Exists(ctx, "session:"+created.ID)
		assert.False(t, exists)

		_, err = service.View(ctx, created.ID)
		assert.True(t, errors.Is(err, domain.ErrSessionNotFound))

		err = service.End(ctx, created.ID)
		assert.True(t, errors.Is(err, domain.ErrSessionNotFound))
	})

	t.Run("cache errors propagate", func(t *testing.T) {
		service, cache, _ := newTestSessionService(t)
		created, err := service.Create(ctx)
		require.NoError(t, err)

		cache.getError = errors.New("cache down")
		_, err = service.View(ctx, created.ID)
		require.Error(t, err)
		assert.False(t, errors.Is(err, domain.ErrSessionNotFound))

		cache.getError = nil
		cache.setError = errors.New("cache full")
		_, err = service.SetSort(ctx, created.ID, domain.SortPriceAsc)
		assert.Error(t, err)
	})

	t.Run("compared products missing from the catalog are dropped", func(t *testing.T) {
		service, cache, _ := newTestSessionService(t)

		require.NoError(t, cache.Set(ctx, "session:old", domain.SessionState{
			ID:       "old",
			Sort:     domain.SortValueDesc,
			Compared: []string{"https://www.cobasi.com.br/golden-adulto/p", "https://www.cobasi.com.br/removed/p"},
		}, time.Minute))

		view, err := service.View(ctx, "old")
		require.NoError(t, err)
		assert.Equal(t, []string{"golden-adulto"}, ids(view.Compared))
		assert.Equal(t, domain.SortValueDesc, view.Sort)
	})
}
