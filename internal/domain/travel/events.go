package travel

import (
	"time"

	"github.com/dms/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TripCreatedEvent is raised when a new trip is created
type TripCreatedEvent struct {
	shared.BaseDomainEvent
	TripID        uuid.UUID `json:"trip_id"`
	StaffID       uuid.UUID `json:"staff_id"`
	Route         RouteMode `json:"route"`
	DepartureDate time.Time `json:"departure_date"`
	ReturnDate    time.Time `json:"return_date"`
}

// EventType returns the event type name
func (e *TripCreatedEvent) EventType() string {
	return "TripCreated"
}

// NewTripCreatedEvent creates a new TripCreatedEvent
func NewTripCreatedEvent(trip *Trip) *TripCreatedEvent {
	return &TripCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("TripCreated", "Trip", trip.ID),
		TripID:          trip.ID,
		StaffID:         trip.StaffID,
		Route:           trip.Route,
		DepartureDate:   trip.DepartureDate,
		ReturnDate:      trip.ReturnDate,
	}
}

// TripExpensesDerivedEvent is raised when expense derivation completes for a trip
type TripExpensesDerivedEvent struct {
	shared.BaseDomainEvent
	TripID        uuid.UUID       `json:"trip_id"`
	GradeLevelID  uuid.UUID       `json:"grade_level_id"`
	ExpenseCount  int             `json:"expense_count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TransportMode string          `json:"transport_mode,omitempty"`
}

// EventType returns the event type name
func (e *TripExpensesDerivedEvent) EventType() string {
	return "TripExpensesDerived"
}

// NewTripExpensesDerivedEvent creates a new TripExpensesDerivedEvent
func NewTripExpensesDerivedEvent(trip *Trip, expenses []*Expense) *TripExpensesDerivedEvent {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.TotalAmountSpent)
	}
	mode := ""
	if trip.Category != nil {
		mode = trip.Category.Mode.String()
	}
	return &TripExpensesDerivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("TripExpensesDerived", "Trip", trip.ID),
		TripID:          trip.ID,
		GradeLevelID:    trip.GradeLevelID,
		ExpenseCount:    len(expenses),
		TotalAmount:     total,
		TransportMode:   mode,
	}
}
