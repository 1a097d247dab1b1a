package ledger

import (
	"context"
	"time"

	"github.com/dms/backend/internal/domain/ledger"
	"github.com/dms/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentService manages approved payments and the journal-type rule
// catalog they are posted against. Transaction generation lives in
// PostingService.
type PaymentService struct {
	paymentRepo     ledger.PaymentRepository
	journalTypeRepo ledger.JournalTypeRepository
	eventPublisher  shared.EventPublisher
	logger          *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo ledger.PaymentRepository,
	journalTypeRepo ledger.JournalTypeRepository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		paymentRepo:     paymentRepo,
		journalTypeRepo: journalTypeRepo,
		eventPublisher:  eventPublisher,
		logger:          logger,
	}
}

// ===================== Request DTOs =====================

// CreateExpenditureRequest represents the third-party expenditure attached
// to a payment
type CreateExpenditureRequest struct {
	AdminFeeAmount string `json:"admin_fee_amount"`
	SubTotalAmount string `json:"sub_total_amount"`
	Currency       string `json:"currency"`
}

// CreatePaymentRequest represents a request to create a payment
type CreatePaymentRequest struct {
	Type                string                    `json:"type" binding:"required,oneof=staff third-party"`
	TotalApprovedAmount string                    `json:"total_approved_amount" binding:"required"`
	Narration           string                    `json:"narration" binding:"required"`
	ResourceID          uuid.UUID                 `json:"resource_id" binding:"required"`
	ResourceType        string                    `json:"resource_type" binding:"required"`
	PaymentMethod       string                    `json:"payment_method"`
	Currency            string                    `json:"currency"`
	Expenditure         *CreateExpenditureRequest `json:"expenditure,omitempty"`
}

// ListPaymentsRequest represents payment list filters
type ListPaymentsRequest struct {
	Type     *string
	Status   *string
	FromDate *time.Time
	ToDate   *time.Time
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
}

// CreateJournalTypeRequest represents a request to create a posting rule
type CreateJournalTypeRequest struct {
	Name                string    `json:"name" binding:"required"`
	Precedence          int       `json:"precedence"`
	BaseSelector        string    `json:"base_selector" binding:"required"`
	RateType            string    `json:"rate_type" binding:"required"`
	Rate                string    `json:"rate"`
	FixedAmount         string    `json:"fixed_amount"`
	Rounding            string    `json:"rounding"`
	Kind                string    `json:"kind"`
	Type                string    `json:"type"`
	Benefactor          string    `json:"benefactor"`
	EntityID            uuid.UUID `json:"entity_id"`
	LedgerID            uuid.UUID `json:"ledger_id"`
	ChartOfAccountID    uuid.UUID `json:"chart_of_account_id"`
	IsVAT               bool      `json:"is_vat"`
	Category            string    `json:"category"`
	CreateContraEntries bool      `json:"create_contra_entries"`
	Flag                string    `json:"flag"`
}

// ===================== Response DTOs =====================

// ExpenditureResponse represents an attached expenditure
type ExpenditureResponse struct {
	ID             uuid.UUID       `json:"id"`
	AdminFeeAmount decimal.Decimal `json:"admin_fee_amount"`
	SubTotalAmount decimal.Decimal `json:"sub_total_amount"`
	Currency       string          `json:"currency"`
}

// PaymentResponse represents a payment
type PaymentResponse struct {
	ID                  uuid.UUID            `json:"id"`
	Type                string               `json:"type"`
	TotalApprovedAmount decimal.Decimal      `json:"total_approved_amount"`
	Narration           string               `json:"narration"`
	ResourceID          uuid.UUID            `json:"resource_id"`
	ResourceType        string               `json:"resource_type"`
	PaymentMethod       string               `json:"payment_method"`
	Currency            string               `json:"currency"`
	Status              string               `json:"status"`
	Expenditure         *ExpenditureResponse `json:"expenditure,omitempty"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

// JournalTypeResponse represents a posting rule
type JournalTypeResponse struct {
	ID                  uuid.UUID       `json:"id"`
	Name                string          `json:"name"`
	Precedence          int             `json:"precedence"`
	BaseSelector        string          `json:"base_selector"`
	RateType            string          `json:"rate_type"`
	Rate                decimal.Decimal `json:"rate"`
	FixedAmount         decimal.Decimal `json:"fixed_amount"`
	Rounding            string          `json:"rounding"`
	Kind                string          `json:"kind"`
	Type                string          `json:"type"`
	Benefactor          string          `json:"benefactor"`
	IsVAT               bool            `json:"is_vat"`
	Category            string          `json:"category"`
	CreateContraEntries bool            `json:"create_contra_entries"`
	Flag                string          `json:"flag,omitempty"`
}

// ===================== Service Methods =====================

// CreatePayment creates a payment, with its expenditure attached when given
func (s *PaymentService) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*PaymentResponse, error) {
	amount, err := decimal.NewFromString(req.TotalApprovedAmount)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Approved amount is not a valid decimal")
	}

	payment, err := ledger.NewPayment(
		ledger.PaymentType(req.Type),
		amount,
		req.Narration,
		req.ResourceID,
		req.ResourceType,
	)
	if err != nil {
		return nil, err
	}

	if req.PaymentMethod != "" {
		method := ledger.PaymentMethod(req.PaymentMethod)
		if !method.IsValid() {
			return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
		}
		payment.PaymentMethod = method
	}
	if req.Currency != "" {
		payment.Currency = req.Currency
	}

	if req.Expenditure != nil {
		expenditure, err := toExpenditure(req.Expenditure)
		if err != nil {
			return nil, err
		}
		payment.AttachExpenditure(expenditure)
	}

	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}

	s.logger.Info("created payment",
		zap.String("payment_id", payment.ID.String()),
		zap.String("type", payment.Type.String()),
		zap.String("amount", payment.TotalApprovedAmount.String()))

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, payment.GetDomainEvents()...); err != nil {
			s.logger.Warn("failed to publish payment events", zap.Error(err))
		}
		payment.ClearDomainEvents()
	}

	return toPaymentResponse(payment), nil
}

// GetPayment returns a payment by ID, with its expenditure
func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, shared.ErrNotFound
	}
	return toPaymentResponse(payment), nil
}

// ListPayments returns payments matching the filter, paginated
func (s *PaymentService) ListPayments(ctx context.Context, req ListPaymentsRequest) (*shared.Paginated[PaymentResponse], error) {
	filter := toPaymentFilter(req)

	payments, err := s.paymentRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.paymentRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = *toPaymentResponse(&payments[i])
	}

	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// CreateJournalType creates a posting rule in the catalog
func (s *PaymentService) CreateJournalType(ctx context.Context, req CreateJournalTypeRequest) (*JournalTypeResponse, error) {
	jt, err := ledger.NewJournalType(
		req.Name,
		req.Precedence,
		ledger.BaseSelector(req.BaseSelector),
		ledger.RateType(req.RateType),
	)
	if err != nil {
		return nil, err
	}

	if req.Rate != "" {
		rate, err := decimal.NewFromString(req.Rate)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_RATE", "Rate is not a valid decimal")
		}
		jt.Rate = rate
	}
	if req.FixedAmount != "" {
		fixed, err := decimal.NewFromString(req.FixedAmount)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_FIXED_AMOUNT", "Fixed amount is not a valid decimal")
		}
		jt.FixedAmount = fixed
	}
	if req.Rounding != "" {
		rounding := ledger.RoundingMode(req.Rounding)
		if !rounding.IsValid() {
			return nil, shared.NewDomainError("INVALID_ROUNDING", "Rounding mode is not valid")
		}
		jt.Rounding = rounding
	}
	if req.Kind != "" {
		jt.Kind = ledger.JournalKind(req.Kind)
	}
	if req.Type != "" {
		entryType := ledger.EntryType(req.Type)
		if !entryType.IsValid() {
			return nil, shared.NewDomainError("INVALID_ENTRY_TYPE", "Entry type is not valid")
		}
		jt.Type = entryType
	}
	if req.Benefactor != "" {
		jt.Benefactor = ledger.Benefactor(req.Benefactor)
	}
	if req.Category != "" {
		jt.Category = req.Category
	}
	jt.EntityID = req.EntityID
	jt.LedgerID = req.LedgerID
	jt.ChartOfAccountID = req.ChartOfAccountID
	jt.IsVAT = req.IsVAT
	jt.PostingRules = ledger.PostingRules{CreateContraEntries: req.CreateContraEntries}
	jt.Flag = req.Flag

	if err := s.journalTypeRepo.Save(ctx, jt); err != nil {
		return nil, err
	}

	return toJournalTypeResponse(jt), nil
}

// ListJournalTypes returns the rule catalog, optionally scoped to a
// payment category (plus the default rules)
func (s *PaymentService) ListJournalTypes(ctx context.Context, category string) ([]JournalTypeResponse, error) {
	var (
		rules []ledger.JournalType
		err   error
	)
	if category != "" {
		rules, err = s.journalTypeRepo.FindByCategory(ctx, category)
	} else {
		rules, err = s.journalTypeRepo.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]JournalTypeResponse, len(rules))
	for i := range rules {
		responses[i] = *toJournalTypeResponse(&rules[i])
	}
	return responses, nil
}

// ===================== Helper Functions =====================

func toExpenditure(req *CreateExpenditureRequest) (*ledger.Expenditure, error) {
	adminFee := decimal.Zero
	subTotal := decimal.Zero
	var err error

	if req.AdminFeeAmount != "" {
		adminFee, err = decimal.NewFromString(req.AdminFeeAmount)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "Admin fee amount is not a valid decimal")
		}
	}
	if req.SubTotalAmount != "" {
		subTotal, err = decimal.NewFromString(req.SubTotalAmount)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "Sub total amount is not a valid decimal")
		}
	}

	return &ledger.Expenditure{
		BaseEntity:     shared.NewBaseEntity(),
		AdminFeeAmount: adminFee,
		SubTotalAmount: subTotal,
		Currency:       req.Currency,
	}, nil
}

func toPaymentFilter(req ListPaymentsRequest) ledger.PaymentFilter {
	base := shared.DefaultFilter()
	if req.Page > 0 {
		base.Page = req.Page
	}
	if req.PageSize > 0 {
		base.PageSize = req.PageSize
	}
	if req.OrderBy != "" {
		base.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		base.OrderDir = req.OrderDir
	}
	base.Search = req.Search

	filter := ledger.PaymentFilter{
		Filter:   base,
		FromDate: req.FromDate,
		ToDate:   req.ToDate,
	}
	if req.Type != nil {
		paymentType := ledger.PaymentType(*req.Type)
		filter.Type = &paymentType
	}
	if req.Status != nil {
		status := ledger.PaymentStatus(*req.Status)
		filter.Status = &status
	}
	return filter
}

func toPaymentResponse(payment *ledger.Payment) *PaymentResponse {
	resp := &PaymentResponse{
		ID:                  payment.ID,
		Type:                payment.Type.String(),
		TotalApprovedAmount: payment.TotalApprovedAmount,
		Narration:           payment.Narration,
		ResourceID:          payment.ResourceID,
		ResourceType:        payment.ResourceType,
		PaymentMethod:       payment.EffectivePaymentMethod().String(),
		Currency:            payment.EffectiveCurrency(),
		Status:              payment.Status.String(),
		CreatedAt:           payment.CreatedAt,
		UpdatedAt:           payment.UpdatedAt,
	}
	if payment.Expenditure != nil {
		resp.Expenditure = &ExpenditureResponse{
			ID:             payment.Expenditure.ID,
			AdminFeeAmount: payment.Expenditure.AdminFeeAmount,
			SubTotalAmount: payment.Expenditure.SubTotalAmount,
			Currency:       payment.Expenditure.Currency,
		}
	}
	return resp
}

func toJournalTypeResponse(jt *ledger.JournalType) *JournalTypeResponse {
	return &JournalTypeResponse{
		ID:                  jt.ID,
		Name:                jt.Name,
		Precedence:          jt.Precedence,
		BaseSelector:        jt.BaseSelector.String(),
		RateType:            jt.RateType.String(),
		Rate:                jt.Rate,
		FixedAmount:         jt.FixedAmount,
		Rounding:            jt.Rounding.String(),
		Kind:                jt.Kind.String(),
		Type:                jt.Type.String(),
		Benefactor:          jt.Benefactor.String(),
		IsVAT:               jt.IsVAT,
		Category:            jt.Category,
		CreateContraEntries: jt.PostingRules.CreateContraEntries,
		Flag:                jt.Flag,
	}
}
