package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appledger "github.com/dms/backend/internal/application/ledger"
)

// PostingHandler serves transaction generation and trial balance endpoints
type PostingHandler struct {
	BaseHandler
	postingService      *appledger.PostingService
	trialBalanceService *appledger.TrialBalanceService
}

// NewPostingHandler creates a new PostingHandler
func NewPostingHandler(
	postingService *appledger.PostingService,
	trialBalanceService *appledger.TrialBalanceService,
	logger *zap.Logger,
) *PostingHandler {
	return &PostingHandler{
		BaseHandler:         NewBaseHandler(logger),
		postingService:      postingService,
		trialBalanceService: trialBalanceService,
	}
}

// RegisterRoutes registers posting routes on the given group
func (h *PostingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.POST("/:id/transactions/generate", h.Generate)
		payments.GET("/:id/transactions", h.List)
		payments.GET("/:id/trial-balance", h.TrialBalance)
		payments.GET("/:id/amounts", h.PreviewAmounts)
	}
}

// Generate handles POST /payments/:id/transactions/generate
func (h *PostingHandler) Generate(c *gin.Context) {
	paymentID, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req appledger.GenerateTransactionsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.postingService.GenerateTransactions(c.Request.Context(), paymentID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List handles GET /payments/:id/transactions
func (h *PostingHandler) List(c *gin.Context) {
	paymentID, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	transactions, err := h.postingService.GetTransactions(c.Request.Context(), paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, transactions)
}

// TrialBalance handles GET /payments/:id/trial-balance
func (h *PostingHandler) TrialBalance(c *gin.Context) {
	paymentID, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.trialBalanceService.GetTrialBalance(c.Request.Context(), paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, resp)
}

// PreviewAmounts handles GET /payments/:id/amounts
func (h *PostingHandler) PreviewAmounts(c *gin.Context) {
	paymentID, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	amounts, err := h.postingService.PreviewAmounts(c.Request.Context(), paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, amounts)
}
