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

// TripService manages the trip lifecycle: creation against the category
// catalog, lookup and listing. Expense derivation lives in ExpenseService.
type TripService struct {
	tripRepo       travel.TripRepository
	categoryRepo   travel.TripCategoryRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewTripService creates a new TripService
func NewTripService(
	tripRepo travel.TripRepository,
	categoryRepo travel.TripCategoryRepository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *TripService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TripService{
		tripRepo:       tripRepo,
		categoryRepo:   categoryRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// ===================== Request DTOs =====================

// CreateTripRequest represents a request to create a trip
type CreateTripRequest struct {
	StaffID           uuid.UUID  `json:"staff_id" binding:"required"`
	GradeLevelID      uuid.UUID  `json:"grade_level_id" binding:"required"`
	DepartureCityID   uuid.UUID  `json:"departure_city_id" binding:"required"`
	DestinationCityID uuid.UUID  `json:"destination_city_id" binding:"required"`
	AirportID         *uuid.UUID `json:"airport_id,omitempty"`
	CategoryID        *uuid.UUID `json:"category_id,omitempty"`
	PerDiemCategoryID *uuid.UUID `json:"per_diem_category_id,omitempty"`
	Route             string     `json:"route" binding:"required,oneof=one-way return"`
	DepartureDate     time.Time  `json:"departure_date" binding:"required"`
	ReturnDate        time.Time  `json:"return_date" binding:"required"`
	DistanceKM        *float64   `json:"distance_km,omitempty"`
	Purpose           string     `json:"purpose"`
}

// ListTripsRequest represents trip list filters
type ListTripsRequest struct {
	StaffID  *uuid.UUID
	Status   *string
	FromDate *time.Time
	ToDate   *time.Time
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
}

// ===================== Response DTOs =====================

// TripResponse represents a trip
type TripResponse struct {
	ID                uuid.UUID       `json:"id"`
	StaffID           uuid.UUID       `json:"staff_id"`
	GradeLevelID      uuid.UUID       `json:"grade_level_id"`
	DepartureCityID   uuid.UUID       `json:"departure_city_id"`
	DestinationCityID uuid.UUID       `json:"destination_city_id"`
	AirportID         uuid.UUID       `json:"airport_id"`
	CategoryID        uuid.UUID       `json:"category_id"`
	CategoryName      string          `json:"category_name,omitempty"`
	PerDiemCategoryID uuid.UUID       `json:"per_diem_category_id"`
	Route             string          `json:"route"`
	DepartureDate     time.Time       `json:"departure_date"`
	ReturnDate        time.Time       `json:"return_date"`
	DistanceKM        decimal.Decimal `json:"distance_km"`
	Purpose           string          `json:"purpose"`
	Status            string          `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ===================== Service Methods =====================

// CreateTrip creates a trip, resolving its category from the catalog when
// one is referenced
func (s *TripService) CreateTrip(ctx context.Context, req CreateTripRequest) (*TripResponse, error) {
	trip, err := travel.NewTrip(
		req.StaffID,
		req.GradeLevelID,
		req.DepartureCityID,
		req.DestinationCityID,
		travel.RouteMode(req.Route),
		req.DepartureDate,
		req.ReturnDate,
	)
	if err != nil {
		return nil, err
	}

	if req.AirportID != nil {
		trip.AirportID = *req.AirportID
	}
	if req.PerDiemCategoryID != nil {
		trip.PerDiemCategoryID = *req.PerDiemCategoryID
	}
	if req.DistanceKM != nil {
		trip.DistanceKM = decimal.NewFromFloat(*req.DistanceKM)
	}
	trip.Purpose = req.Purpose

	if req.CategoryID != nil && *req.CategoryID != uuid.Nil {
		category, err := s.categoryRepo.FindByID(ctx, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		trip.AssignCategory(category)
	}

	if err := s.tripRepo.Save(ctx, trip); err != nil {
		return nil, err
	}

	s.logger.Info("created trip",
		zap.String("trip_id", trip.ID.String()),
		zap.String("staff_id", trip.StaffID.String()),
		zap.String("route", trip.Route.String()))

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, trip.GetDomainEvents()...); err != nil {
			s.logger.Warn("failed to publish trip events", zap.Error(err))
		}
		trip.ClearDomainEvents()
	}

	return toTripResponse(trip), nil
}

// GetTrip returns a trip by ID, with its category resolved
func (s *TripService) GetTrip(ctx context.Context, id uuid.UUID) (*TripResponse, error) {
	trip, err := s.tripRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, shared.ErrNotFound
	}
	return toTripResponse(trip), nil
}

// ListTrips returns trips matching the filter, paginated
func (s *TripService) ListTrips(ctx context.Context, req ListTripsRequest) (*shared.Paginated[TripResponse], error) {
	filter := toTripFilter(req)

	trips, err := s.tripRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.tripRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]TripResponse, len(trips))
	for i := range trips {
		responses[i] = *toTripResponse(&trips[i])
	}

	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// ===================== Helper Functions =====================

func toTripFilter(req ListTripsRequest) travel.TripFilter {
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

	filter := travel.TripFilter{
		Filter:   base,
		StaffID:  req.StaffID,
		FromDate: req.FromDate,
		ToDate:   req.ToDate,
	}
	if req.Status != nil {
		status := travel.TripStatus(*req.Status)
		filter.Status = &status
	}
	return filter
}

func toTripResponse(trip *travel.Trip) *TripResponse {
	resp := &TripResponse{
		ID:                trip.ID,
		StaffID:           trip.StaffID,
		GradeLevelID:      trip.GradeLevelID,
		DepartureCityID:   trip.DepartureCityID,
		DestinationCityID: trip.DestinationCityID,
		AirportID:         trip.AirportID,
		CategoryID:        trip.CategoryID,
		PerDiemCategoryID: trip.PerDiemCategoryID,
		Route:             trip.Route.String(),
		DepartureDate:     trip.DepartureDate,
		ReturnDate:        trip.ReturnDate,
		DistanceKM:        trip.DistanceKM,
		Purpose:           trip.Purpose,
		Status:            trip.Status.String(),
		CreatedAt:         trip.CreatedAt,
		UpdatedAt:         trip.UpdatedAt,
	}
	if trip.Category != nil {
		resp.CategoryName = trip.Category.Name
	}
	return resp
}
