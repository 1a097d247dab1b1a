package travel

import (
	"context"
	"time"

	"github.com/dms/backend/internal/domain/shared"
	"github.com/dms/backend/internal/domain/shared/valueobject"
	"github.com/dms/backend/internal/domain/travel"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogService manages the travel rule catalog: trip categories with
// their allowance lists, and the remuneration rate table the expense
// generator resolves against.
type CatalogService struct {
	categoryRepo     travel.TripCategoryRepository
	allowanceRepo    travel.AllowanceRepository
	remunerationRepo travel.RemunerationRepository
	logger           *zap.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(
	categoryRepo travel.TripCategoryRepository,
	allowanceRepo travel.AllowanceRepository,
	remunerationRepo travel.RemunerationRepository,
	logger *zap.Logger,
) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		categoryRepo:     categoryRepo,
		allowanceRepo:    allowanceRepo,
		remunerationRepo: remunerationRepo,
		logger:           logger,
	}
}

// ===================== Request DTOs =====================

// CreateAllowanceRequest represents one allowance rule inside a category
type CreateAllowanceRequest struct {
	Name              string     `json:"name" binding:"required"`
	Label             string     `json:"label"`
	DepartureCityID   *uuid.UUID `json:"departure_city_id,omitempty"`
	DestinationCityID *uuid.UUID `json:"destination_city_id,omitempty"`
	PaymentBasis      string     `json:"payment_basis" binding:"required"`
	PaymentRoute      string     `json:"payment_route" binding:"required"`
}

// CreateCategoryRequest represents a request to create a trip category
type CreateCategoryRequest struct {
	Name          string                   `json:"name" binding:"required"`
	Mode          string                   `json:"mode" binding:"required,oneof=flight road"`
	Accommodation string                   `json:"accommodation" binding:"required,oneof=residence non-residence"`
	Allowances    []CreateAllowanceRequest `json:"allowances"`
}

// CreateRemunerationRequest represents a request to create a rate entry
type CreateRemunerationRequest struct {
	AllowanceID    uuid.UUID  `json:"allowance_id" binding:"required"`
	GradeLevelID   uuid.UUID  `json:"grade_level_id" binding:"required"`
	Amount         string     `json:"amount" binding:"required"`
	Currency       string     `json:"currency"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}

// ===================== Response DTOs =====================

// AllowanceResponse represents an allowance rule
type AllowanceResponse struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	Label             string     `json:"label"`
	ParentID          *uuid.UUID `json:"parent_id,omitempty"`
	DepartureCityID   uuid.UUID  `json:"departure_city_id"`
	DestinationCityID uuid.UUID  `json:"destination_city_id"`
	PaymentBasis      string     `json:"payment_basis"`
	PaymentRoute      string     `json:"payment_route"`
}

// CategoryResponse represents a trip category with its allowances
type CategoryResponse struct {
	ID            uuid.UUID           `json:"id"`
	Name          string              `json:"name"`
	Mode          string              `json:"mode"`
	Accommodation string              `json:"accommodation"`
	Allowances    []AllowanceResponse `json:"allowances"`
}

// RemunerationResponse represents a rate entry
type RemunerationResponse struct {
	ID             uuid.UUID       `json:"id"`
	AllowanceID    uuid.UUID       `json:"allowance_id"`
	GradeLevelID   uuid.UUID       `json:"grade_level_id"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	StartDate      *time.Time      `json:"start_date,omitempty"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
}

// ===================== Service Methods =====================

// CreateCategory creates a trip category with its allowance rules. Allowance
// labels are validated against the closed label set at this boundary so a
// bad catalog entry never reaches derivation.
func (s *CatalogService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	category, err := travel.NewTripCategory(
		req.Name,
		travel.TransportMode(req.Mode),
		travel.AccommodationType(req.Accommodation),
	)
	if err != nil {
		return nil, err
	}

	for _, a := range req.Allowances {
		allowance, err := travel.NewAllowance(
			a.Name,
			travel.AllowanceLabel(a.Label),
			travel.PaymentBasis(a.PaymentBasis),
			travel.PaymentRoute(a.PaymentRoute),
		)
		if err != nil {
			return nil, err
		}
		if a.DepartureCityID != nil && a.DestinationCityID != nil {
			allowance.SetCityPair(*a.DepartureCityID, *a.DestinationCityID)
		}
		category.AttachAllowance(allowance)
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("created trip category",
		zap.String("category_id", category.ID.String()),
		zap.String("name", category.Name),
		zap.Int("allowance_count", len(category.Allowances)))

	return toCategoryResponse(category), nil
}

// GetCategory returns a category with its allowance list
func (s *CatalogService) GetCategory(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, shared.ErrNotFound
	}
	return toCategoryResponse(category), nil
}

// ListCategories returns the full category catalog
func (s *CatalogService) ListCategories(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = *toCategoryResponse(&categories[i])
	}
	return responses, nil
}

// ListAllowances returns all allowance rules, or a single category's list
func (s *CatalogService) ListAllowances(ctx context.Context, categoryID *uuid.UUID) ([]AllowanceResponse, error) {
	var (
		allowances []travel.Allowance
		err        error
	)
	if categoryID != nil && *categoryID != uuid.Nil {
		allowances, err = s.allowanceRepo.FindByCategory(ctx, *categoryID)
	} else {
		allowances, err = s.allowanceRepo.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]AllowanceResponse, len(allowances))
	for i := range allowances {
		responses[i] = toAllowanceResponse(&allowances[i])
	}
	return responses, nil
}

// CreateRemuneration creates a rate entry for an (allowance, grade level)
// pair. Omitted validity bounds are open-ended.
func (s *CatalogService) CreateRemuneration(ctx context.Context, req CreateRemunerationRequest) (*RemunerationResponse, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Remuneration amount is not a valid decimal")
	}

	currency := valueobject.Currency(req.Currency)
	if req.Currency == "" {
		currency = valueobject.NGN
	}
	money, err := valueobject.NewMoney(amount, currency)
	if err != nil {
		return nil, err
	}

	var startDate, expirationDate time.Time
	if req.StartDate != nil {
		startDate = *req.StartDate
	}
	if req.ExpirationDate != nil {
		expirationDate = *req.ExpirationDate
	}

	remuneration, err := travel.NewRemuneration(req.AllowanceID, req.GradeLevelID, money, startDate, expirationDate)
	if err != nil {
		return nil, err
	}

	if err := s.remunerationRepo.Save(ctx, remuneration); err != nil {
		return nil, err
	}

	return toRemunerationResponse(remuneration), nil
}

// ListRemunerations returns the rate catalog, optionally scoped to a grade level
func (s *CatalogService) ListRemunerations(ctx context.Context, gradeLevelID *uuid.UUID) ([]RemunerationResponse, error) {
	var (
		rates []travel.Remuneration
		err   error
	)
	if gradeLevelID != nil && *gradeLevelID != uuid.Nil {
		rates, err = s.remunerationRepo.FindByGradeLevel(ctx, *gradeLevelID)
	} else {
		rates, err = s.remunerationRepo.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]RemunerationResponse, len(rates))
	for i := range rates {
		responses[i] = *toRemunerationResponse(&rates[i])
	}
	return responses, nil
}

// ===================== Helper Functions =====================

func toCategoryResponse(category *travel.TripCategory) *CategoryResponse {
	allowances := make([]AllowanceResponse, len(category.Allowances))
	for i, a := range category.Allowances {
		allowances[i] = toAllowanceResponse(a)
	}
	return &CategoryResponse{
		ID:            category.ID,
		Name:          category.Name,
		Mode:          category.Mode.String(),
		Accommodation: category.Accommodation.String(),
		Allowances:    allowances,
	}
}

func toAllowanceResponse(a *travel.Allowance) AllowanceResponse {
	return AllowanceResponse{
		ID:                a.ID,
		Name:              a.Name,
		Label:             a.Label.String(),
		ParentID:          a.ParentID,
		DepartureCityID:   a.DepartureCityID,
		DestinationCityID: a.DestinationCityID,
		PaymentBasis:      a.PaymentBasis.String(),
		PaymentRoute:      a.PaymentRoute.String(),
	}
}

func toRemunerationResponse(r *travel.Remuneration) *RemunerationResponse {
	resp := &RemunerationResponse{
		ID:           r.ID,
		AllowanceID:  r.AllowanceID,
		GradeLevelID: r.GradeLevelID,
		Amount:       r.Amount,
		Currency:     r.Currency,
	}
	if !r.StartDate.IsZero() {
		start := r.StartDate
		resp.StartDate = &start
	}
	if !r.ExpirationDate.IsZero() {
		exp := r.ExpirationDate
		resp.ExpirationDate = &exp
	}
	return resp
}
