package travel

import (
	"context"
	"time"

	"github.com/dms/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TripFilter defines filtering options for trip queries
type TripFilter struct {
	shared.Filter
	StaffID  *uuid.UUID  // Filter by staff member
	Status   *TripStatus // Filter by lifecycle status
	FromDate *time.Time  // Filter by departure date range start
	ToDate   *time.Time  // Filter by departure date range end
}

// TripRepository defines the interface for trip persistence
type TripRepository interface {
	// FindByID finds a trip by ID, with its category and allowances preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*Trip, error)

	// FindAll finds trips matching the filter
	FindAll(ctx context.Context, filter TripFilter) ([]Trip, error)

	// FindByStaff finds trips for a staff member
	FindByStaff(ctx context.Context, staffID uuid.UUID, filter TripFilter) ([]Trip, error)

	// Save creates or updates a trip
	Save(ctx context.Context, trip *Trip) error

	// Delete soft deletes a trip
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts trips matching the filter
	Count(ctx context.Context, filter TripFilter) (int64, error)
}

// TripCategoryRepository defines the interface for trip category persistence
type TripCategoryRepository interface {
	// FindByID finds a category by ID with its allowance list
	FindByID(ctx context.Context, id uuid.UUID) (*TripCategory, error)

	// FindAll returns all categories
	FindAll(ctx context.Context) ([]TripCategory, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *TripCategory) error
}

// AllowanceRepository defines the interface for allowance rule persistence
type AllowanceRepository interface {
	// FindByID finds an allowance by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Allowance, error)

	// FindByCategory finds all allowances attached to a trip category, in catalog order
	FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]Allowance, error)

	// FindAll returns all allowance rules
	FindAll(ctx context.Context) ([]Allowance, error)

	// Save creates or updates an allowance
	Save(ctx context.Context, allowance *Allowance) error
}

// RemunerationRepository defines the interface for remuneration rate persistence
type RemunerationRepository interface {
	// FindByID finds a remuneration by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Remuneration, error)

	// FindAll returns the full rate catalog, in catalog order
	FindAll(ctx context.Context) ([]Remuneration, error)

	// FindByGradeLevel finds all rates for a grade level
	FindByGradeLevel(ctx context.Context, gradeLevelID uuid.UUID) ([]Remuneration, error)

	// Save creates or updates a remuneration
	Save(ctx context.Context, remuneration *Remuneration) error
}

// ExpenseRepository defines the interface for derived expense persistence
type ExpenseRepository interface {
	// FindByTrip returns the expenses derived for a trip, in derivation order
	FindByTrip(ctx context.Context, tripID uuid.UUID) ([]Expense, error)

	// ReplaceForTrip atomically deletes a trip's existing expenses and saves
	// the freshly derived list
	ReplaceForTrip(ctx context.Context, tripID uuid.UUID, expenses []*Expense) error

	// DeleteByTrip deletes all expenses derived for a trip
	DeleteByTrip(ctx context.Context, tripID uuid.UUID) error
}
