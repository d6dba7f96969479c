package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comparador-racao/backend/internal/domain"
	"github.com/comparador-racao/backend/internal/usecase"
)

const catalogPath = "/api/v1/products"

// filterParams maps listing query parameters to filter categories
var filterParams = []struct {
	param    string
	category domain.Category
}{
	{"especie", domain.CategorySpecies},
	{"marca", domain.CategoryBrand},
	{"porte", domain.CategorySize},
	{"idade", domain.CategoryAge},
	{"tipo", domain.CategoryType},
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	catalog  *usecase.CatalogService
	sessions *usecase.SessionService
}

// NewHandler creates a new HTTP handler
func NewHandler(catalog *usecase.CatalogService, sessions *usecase.SessionService) *Handler {
	return &Handler{
		catalog:  catalog,
		sessions: sessions,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "comparador-racao-backend",
		"version": "1.0.0",
	})
}

// ListProducts returns the filtered and sorted catalog
func (h *Handler) ListProducts(c *gin.Context) {
	key, err := usecase.ParseSortKey(c.Query("sort"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var filters domain.FilterState
	for _, fp := range filterParams {
		if values := c.QueryArray(fp.param); len(values) > 0 {
			filters.SetSelected(fp.category, values)
		}
	}

	listing := h.catalog.List(usecase.ListQuery{
		Filters: filters,
		Sort:    key,
		Search:  c.Query("q"),
	})
	c.JSON(http.StatusOK, listing)
}

// GetProduct returns one product with its verdict and similar products.
// Unknown ids get an explicit not-found body with a link back to the catalog.
func (h *Handler) GetProduct(c *gin.Context) {
	detail, err := h.catalog.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Produto não encontrado",
				"back":  catalogPath,
			})
			return
		}
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Filters returns the filter options and per-value counts
func (h *Handler) Filters(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Sidebar())
}

// CreateSession starts a new browse session
func (h *Handler) CreateSession(c *gin.Context) {
	view, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// GetSession returns the current view of a session
func (h *Handler) GetSession(c *gin.Context) {
	view, err := h.sessions.View(c.Request.Context(), c.Param("sid"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SetSessionFilters replaces the session's filter selection
func (h *Handler) SetSessionFilters(c *gin.Context) {
	var filters domain.FilterState
	if err := c.ShouldBindJSON(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	view, err := h.sessions.SetFilters(c.Request.Context(), c.Param("sid"), filters)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type toggleFilterRequest struct {
	Category string `json:"category" binding:"required"`
	Value    string `json:"value" binding:"required"`
	Checked  bool   `json:"checked"`
}

// ToggleSessionFilter checks or unchecks one filter value, like a sidebar checkbox
func (h *Handler) ToggleSessionFilter(c *gin.Context) {
	var req toggleFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	category, err := domain.ParseCategory(req.Category)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown filter category: " + req.Category})
		return
	}

	view, err := h.sessions.ToggleFilter(c.Request.Context(), c.Param("sid"), category, req.Value, req.Checked)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ClearSessionFilters drops every filter selection
func (h *Handler) ClearSessionFilters(c *gin.Context) {
	view, err := h.sessions.ClearFilters(c.Request.Context(), c.Param("sid"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type sortRequest struct {
	Sort string `json:"sort" binding:"required"`
}

// SetSessionSort changes the session's ordering
func (h *Handler) SetSessionSort(c *gin.Context) {
	var req sortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	key, err := usecase.ParseSortKey(req.Sort)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.sessions.SetSort(c.Request.Context(), c.Param("sid"), key)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ToggleCompare adds or removes a product from the session's comparison set
func (h *Handler) ToggleCompare(c *gin.Context) {
	view, added, err := h.sessions.ToggleCompare(c.Request.Context(), c.Param("sid"), c.Param("id"))
	if errors.Is(err, domain.ErrComparisonFull) {
		c.JSON(http.StatusConflict, gin.H{
			"error":   domain.ComparisonFullNotice,
			"session": view,
		})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"added":   added,
		"session": view,
	})
}

// GetComparison returns the compared products ordered for side-by-side display
func (h *Handler) GetComparison(c *gin.Context) {
	products, err := h.sessions.Comparison(c.Request.Context(), c.Param("sid"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    len(products),
	})
}

// ClearComparison empties the session's comparison set
func (h *Handler) ClearComparison(c *gin.Context) {
	view, err := h.sessions.ClearCompare(c.Request.Context(), c.Param("sid"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// EndSession discards a browse session
func (h *Handler) EndSession(c *gin.Context) {
	if err := h.sessions.End(c.Request.Context(), c.Param("sid")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrInvalidSortKey):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	default:
		log.Printf("[HTTP] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
