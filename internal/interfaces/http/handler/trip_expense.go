package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apptravel "github.com/dms/backend/internal/application/travel"
)

// TripExpenseHandler serves the expense derivation endpoints
type TripExpenseHandler struct {
	BaseHandler
	expenseService *apptravel.ExpenseService
}

// NewTripExpenseHandler creates a new TripExpenseHandler
func NewTripExpenseHandler(expenseService *apptravel.ExpenseService, logger *zap.Logger) *TripExpenseHandler {
	return &TripExpenseHandler{
		BaseHandler:    NewBaseHandler(logger),
		expenseService: expenseService,
	}
}

// RegisterRoutes registers expense routes on the given group
func (h *TripExpenseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	trips := rg.Group("/trips")
	{
		trips.POST("/:id/expenses/derive", h.Derive)
		trips.GET("/:id/expenses", h.List)
	}
}

// Derive handles POST /trips/:id/expenses/derive. The body is optional:
// an empty body derives with the trip's own grade level.
func (h *TripExpenseHandler) Derive(c *gin.Context) {
	tripID, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req apptravel.DeriveExpensesRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.HandleError(c, err)
		return
	}

	resp, err := h.expenseService.DeriveExpenses(c.Request.Context(), tripID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, resp)
}

// List handles GET /trips/:id/expenses
func (h *TripExpenseHandler) List(c *gin.Context) {
	tripID, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	expenses, err := h.expenseService.GetExpenses(c.Request.Context(), tripID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, expenses)
}
