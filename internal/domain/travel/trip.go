package travel

import (
	"time"

	"github.com/dms/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RouteMode represents whether a trip is one-way or return
type RouteMode string

const (
	RouteOneWay RouteMode = "one-way"
	RouteReturn RouteMode = "return"
)

// IsValid checks if the mode is a valid RouteMode
func (r RouteMode) IsValid() bool {
	switch r {
	case RouteOneWay, RouteReturn:
		return true
	}
	return false
}

// String returns the string representation of RouteMode
func (r RouteMode) String() string {
	return string(r)
}

// TransportMode represents the means of transport for a trip category
type TransportMode string

const (
	TransportFlight TransportMode = "flight"
	TransportRoad   TransportMode = "road"
)

// IsValid checks if the mode is a valid TransportMode
func (m TransportMode) IsValid() bool {
	switch m {
	case TransportFlight, TransportRoad:
		return true
	}
	return false
}

// String returns the string representation of TransportMode
func (m TransportMode) String() string {
	return string(m)
}

// AccommodationType represents the accommodation arrangement for a trip category
type AccommodationType string

const (
	AccommodationResidence    AccommodationType = "residence"
	AccommodationNonResidence AccommodationType = "non-residence"
)

// IsValid checks if the type is a valid AccommodationType
func (a AccommodationType) IsValid() bool {
	switch a {
	case AccommodationResidence, AccommodationNonResidence:
		return true
	}
	return false
}

// String returns the string representation of AccommodationType
func (a AccommodationType) String() string {
	return string(a)
}

// TripStatus represents the lifecycle state of a trip
type TripStatus string

const (
	TripStatusDraft     TripStatus = "DRAFT"
	TripStatusSubmitted TripStatus = "SUBMITTED"
	TripStatusApproved  TripStatus = "APPROVED"
	TripStatusCompleted TripStatus = "COMPLETED"
	TripStatusCancelled TripStatus = "CANCELLED"
)

// IsValid checks if the status is a valid TripStatus
func (s TripStatus) IsValid() bool {
	switch s {
	case TripStatusDraft, TripStatusSubmitted, TripStatusApproved,
		TripStatusCompleted, TripStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of TripStatus
func (s TripStatus) String() string {
	return string(s)
}

// TripCategory defines the travel class a trip belongs to: how staff travel
// (flight vs road), how they are accommodated, and which allowance rules
// are attached. Allowance resolution during expense derivation only ever
// searches a category's own allowance list.
type TripCategory struct {
	shared.BaseEntity
	Name          string            `json:"name"`
	Mode          TransportMode     `json:"mode"`
	Accommodation AccommodationType `json:"accommodation"`
	Allowances    []*Allowance      `json:"allowances"`
}

// NewTripCategory creates a new trip category
func NewTripCategory(name string, mode TransportMode, accommodation AccommodationType) (*TripCategory, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY_NAME", "Trip category name cannot be empty")
	}
	if !mode.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSPORT_MODE", "Transport mode is not valid")
	}
	if !accommodation.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACCOMMODATION_TYPE", "Accommodation type is not valid")
	}

	return &TripCategory{
		BaseEntity:    shared.NewBaseEntity(),
		Name:          name,
		Mode:          mode,
		Accommodation: accommodation,
	}, nil
}

// AttachAllowance adds an allowance rule to the category
func (c *TripCategory) AttachAllowance(allowance *Allowance) {
	c.Allowances = append(c.Allowances, allowance)
	c.Touch()
}

// Trip represents a staff travel request aggregate root
type Trip struct {
	shared.BaseAggregateRoot
	StaffID           uuid.UUID       `json:"staff_id"`
	GradeLevelID      uuid.UUID       `json:"grade_level_id"`
	DepartureCityID   uuid.UUID       `json:"departure_city_id"`
	DestinationCityID uuid.UUID       `json:"destination_city_id"`
	AirportID         uuid.UUID       `json:"airport_id"`
	CategoryID        uuid.UUID       `json:"category_id"`
	Category          *TripCategory   `json:"category,omitempty"`
	PerDiemCategoryID uuid.UUID       `json:"per_diem_category_id"`
	Route             RouteMode       `json:"route"`
	DepartureDate     time.Time       `json:"departure_date"`
	ReturnDate        time.Time       `json:"return_date"`
	DistanceKM        decimal.Decimal `json:"distance_km"`
	Purpose           string          `json:"purpose"`
	Status            TripStatus      `json:"status"`
}

// NewTrip creates a new trip. Departure and return dates are calendar dates;
// any time component is truncated.
func NewTrip(
	staffID uuid.UUID,
	gradeLevelID uuid.UUID,
	departureCityID uuid.UUID,
	destinationCityID uuid.UUID,
	route RouteMode,
	departureDate time.Time,
	returnDate time.Time,
) (*Trip, error) {
	if staffID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STAFF", "Staff ID cannot be empty")
	}
	if gradeLevelID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_GRADE_LEVEL", "Grade level ID cannot be empty")
	}
	if departureCityID == uuid.Nil || destinationCityID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CITY", "Departure and destination cities are required")
	}
	if !route.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROUTE", "Route mode is not valid")
	}
	if !departureDate.IsZero() && !returnDate.IsZero() && returnDate.Before(departureDate) {
		return nil, shared.NewDomainError("INVALID_TRIP_DATES", "Return date cannot be before departure date")
	}

	trip := &Trip{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StaffID:           staffID,
		GradeLevelID:      gradeLevelID,
		DepartureCityID:   departureCityID,
		DestinationCityID: destinationCityID,
		Route:             route,
		DepartureDate:     truncateToDate(departureDate),
		ReturnDate:        truncateToDate(returnDate),
		Status:            TripStatusDraft,
	}

	trip.AddDomainEvent(NewTripCreatedEvent(trip))

	return trip, nil
}

// AssignCategory attaches the resolved trip category
func (t *Trip) AssignCategory(category *TripCategory) {
	t.Category = category
	if category != nil {
		t.CategoryID = category.ID
	}
	t.Touch()
}

// HasDates returns true when both departure and return dates are set
func (t *Trip) HasDates() bool {
	return !t.DepartureDate.IsZero() && !t.ReturnDate.IsZero()
}

// DurationDays returns the number of whole days between departure and return
func (t *Trip) DurationDays() int {
	return daysBetween(t.DepartureDate, t.ReturnDate)
}

// truncateToDate drops the time component, keeping the calendar date in UTC
func truncateToDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the number of whole calendar days from a to b
func daysBetween(a, b time.Time) int {
	return int(truncateToDate(b).Sub(truncateToDate(a)).Hours() / 24)
}
