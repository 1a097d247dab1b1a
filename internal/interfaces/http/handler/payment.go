package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appledger "github.com/dms/backend/internal/application/ledger"
	"github.com/dms/backend/internal/interfaces/http/dto"
)

// PaymentHandler serves payment and journal-type catalog endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *appledger.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *appledger.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler:    NewBaseHandler(logger),
		paymentService: paymentService,
	}
}

// RegisterRoutes registers payment routes on the given group
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.POST("", h.Create)
		payments.GET("", h.List)
		payments.GET("/:id", h.Get)
	}
	journalTypes := rg.Group("/journal-types")
	{
		journalTypes.POST("", h.CreateJournalType)
		journalTypes.GET("", h.ListJournalTypes)
	}
}

// Create handles POST /payments
func (h *PaymentHandler) Create(c *gin.Context) {
	var req appledger.CreatePaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.paymentService.CreatePayment(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.paymentService.GetPayment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, resp)
}

// List handles GET /payments
func (h *PaymentHandler) List(c *gin.Context) {
	req := appledger.ListPaymentsRequest{
		Page:     queryInt(c, "page", 0),
		PageSize: queryInt(c, "page_size", 0),
		OrderBy:  c.Query("order_by"),
		OrderDir: c.Query("order_dir"),
		Search:   c.Query("search"),
	}

	if paymentType := c.Query("type"); paymentType != "" {
		req.Type = &paymentType
	}
	if status := c.Query("status"); status != "" {
		req.Status = &status
	}
	from, ok := queryDate(c, "from_date")
	if !ok {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidRequest, "Query parameter from_date must be YYYY-MM-DD")
		return
	}
	req.FromDate = from

	to, ok := queryDate(c, "to_date")
	if !ok {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidRequest, "Query parameter to_date must be YYYY-MM-DD")
		return
	}
	req.ToDate = to

	result, err := h.paymentService.ListPayments(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paginated(c, result.Items, dto.NewMeta(result.Page, result.PageSize, result.Total))
}

// CreateJournalType handles POST /journal-types
func (h *PaymentHandler) CreateJournalType(c *gin.Context) {
	var req appledger.CreateJournalTypeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.paymentService.CreateJournalType(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListJournalTypes handles GET /journal-types
func (h *PaymentHandler) ListJournalTypes(c *gin.Context) {
	rules, err := h.paymentService.ListJournalTypes(c.Request.Context(), c.Query("category"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, rules)
}
