package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apptravel "github.com/dms/backend/internal/application/travel"
)

// CatalogHandler serves the travel rule catalog: trip categories, their
// allowance rules and the remuneration rate table
type CatalogHandler struct {
	BaseHandler
	catalogService *apptravel.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService *apptravel.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler:    NewBaseHandler(logger),
		catalogService: catalogService,
	}
}

// RegisterRoutes registers catalog routes on the given group
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	categories := rg.Group("/trip-categories")
	{
		categories.POST("", h.CreateCategory)
		categories.GET("", h.ListCategories)
		categories.GET("/:id", h.GetCategory)
	}
	rg.GET("/allowances", h.ListAllowances)

	remunerations := rg.Group("/remunerations")
	{
		remunerations.POST("", h.CreateRemuneration)
		remunerations.GET("", h.ListRemunerations)
	}
}

// CreateCategory handles POST /trip-categories
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req apptravel.CreateCategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.catalogService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetCategory handles GET /trip-categories/:id
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.catalogService.GetCategory(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, resp)
}

// ListCategories handles GET /trip-categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, categories)
}

// ListAllowances handles GET /allowances
func (h *CatalogHandler) ListAllowances(c *gin.Context) {
	categoryID, ok := h.UUIDQuery(c, "category_id")
	if !ok {
		return
	}

	allowances, err := h.catalogService.ListAllowances(c.Request.Context(), categoryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, allowances)
}

// CreateRemuneration handles POST /remunerations
func (h *CatalogHandler) CreateRemuneration(c *gin.Context) {
	var req apptravel.CreateRemunerationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.catalogService.CreateRemuneration(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListRemunerations handles GET /remunerations
func (h *CatalogHandler) ListRemunerations(c *gin.Context) {
	gradeLevelID, ok := h.UUIDQuery(c, "grade_level_id")
	if !ok {
		return
	}

	remunerations, err := h.catalogService.ListRemunerations(c.Request.Context(), gradeLevelID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, remunerations)
}
