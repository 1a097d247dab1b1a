package travel

import (
	"context"
	"time"

	"github.com/dms/backend/internal/domain/shared"
	"github.com/dms/backend/internal/domain/travel"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ExpenseService orchestrates expense derivation for trips: it loads the
// trip with its category allowances, runs the generator against the
// remuneration catalog, and replaces the trip's persisted expenses with
// the freshly derived list.
type ExpenseService struct {
	tripRepo         travel.TripRepository
	remunerationRepo travel.RemunerationRepository
	expenseRepo      travel.ExpenseRepository
	eventPublisher   shared.EventPublisher
	logger           *zap.Logger
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(
	tripRepo travel.TripRepository,
	remunerationRepo travel.RemunerationRepository,
	expenseRepo travel.ExpenseRepository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *ExpenseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpenseService{
		tripRepo:         tripRepo,
		remunerationRepo: remunerationRepo,
		expenseRepo:      expenseRepo,
		eventPublisher:   eventPublisher,
		logger:           logger,
	}
}

// ===================== Request DTOs =====================

// DeriveExpensesRequest represents a request to derive expenses for a trip
type DeriveExpensesRequest struct {
	// GradeLevelID overrides the trip's own grade level when set, for
	// deriving on behalf of a delegate
	GradeLevelID *uuid.UUID `json:"grade_level_id,omitempty"`
}

// ===================== Response DTOs =====================

// ExpenseResponse represents a derived expense line item
type ExpenseResponse struct {
	ID               uuid.UUID       `json:"id"`
	Identifier       string          `json:"identifier"`
	TripID           uuid.UUID       `json:"trip_id"`
	ParentID         *uuid.UUID      `json:"parent_id,omitempty"`
	AllowanceID      uuid.UUID       `json:"allowance_id"`
	RemunerationID   uuid.UUID       `json:"remuneration_id"`
	Type             string          `json:"type"`
	StartDate        time.Time       `json:"start_date"`
	EndDate          time.Time       `json:"end_date"`
	NoOfDays         int             `json:"no_of_days"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	TotalAmountSpent decimal.Decimal `json:"total_amount_spent"`
	Description      string          `json:"description"`
}

// DeriveExpensesResponse represents the result of expense derivation
type DeriveExpensesResponse struct {
	TripID      uuid.UUID         `json:"trip_id"`
	Expenses    []ExpenseResponse `json:"expenses"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	DerivedAt   time.Time         `json:"derived_at"`
}

// ===================== Service Methods =====================

// DeriveExpenses derives the expense line items for a trip and replaces any
// previously derived set. Derivation is idempotent over the same inputs.
func (s *ExpenseService) DeriveExpenses(
	ctx context.Context,
	tripID uuid.UUID,
	req DeriveExpensesRequest,
) (*DeriveExpensesResponse, error) {
	trip, err := s.tripRepo.FindByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, shared.ErrNotFound
	}

	gradeLevelID := trip.GradeLevelID
	if req.GradeLevelID != nil && *req.GradeLevelID != uuid.Nil {
		gradeLevelID = *req.GradeLevelID
	}

	catalog, err := s.remunerationRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	remunerations := make([]*travel.Remuneration, len(catalog))
	for i := range catalog {
		remunerations[i] = &catalog[i]
	}

	generator, err := travel.NewExpenseGenerator(trip, remunerations, gradeLevelID,
		travel.WithGeneratorLogger(s.logger))
	if err != nil {
		return nil, err
	}

	expenses := generator.Derive()

	if err := s.expenseRepo.ReplaceForTrip(ctx, trip.ID, expenses); err != nil {
		return nil, err
	}

	s.logger.Info("derived trip expenses",
		zap.String("trip_id", trip.ID.String()),
		zap.Int("expense_count", len(expenses)))

	if s.eventPublisher != nil {
		event := travel.NewTripExpensesDerivedEvent(trip, expenses)
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish expense derivation event", zap.Error(err))
		}
	}

	return s.toDeriveResponse(trip.ID, expenses), nil
}

// GetExpenses returns a trip's persisted expenses, in derivation order
func (s *ExpenseService) GetExpenses(ctx context.Context, tripID uuid.UUID) ([]ExpenseResponse, error) {
	expenses, err := s.expenseRepo.FindByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	responses := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		responses[i] = toExpenseResponse(&expenses[i])
	}
	return responses, nil
}

// ===================== Helper Functions =====================

func (s *ExpenseService) toDeriveResponse(tripID uuid.UUID, expenses []*travel.Expense) *DeriveExpensesResponse {
	responses := make([]ExpenseResponse, len(expenses))
	total := decimal.Zero
	for i, e := range expenses {
		responses[i] = toExpenseResponse(e)
		total = total.Add(e.TotalAmountSpent)
	}

	return &DeriveExpensesResponse{
		TripID:      tripID,
		Expenses:    responses,
		TotalAmount: total,
		DerivedAt:   time.Now(),
	}
}

func toExpenseResponse(e *travel.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:               e.ID,
		Identifier:       e.Identifier,
		TripID:           e.TripID,
		ParentID:         e.ParentID,
		AllowanceID:      e.AllowanceID,
		RemunerationID:   e.RemunerationID,
		Type:             e.Type.String(),
		StartDate:        e.StartDate,
		EndDate:          e.EndDate,
		NoOfDays:         e.NoOfDays,
		UnitPrice:        e.UnitPrice,
		TotalAmountSpent: e.TotalAmountSpent,
		Description:      e.Description,
	}
}
