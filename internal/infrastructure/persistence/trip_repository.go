package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/dms/backend/internal/domain/shared"
	"github.com/dms/backend/internal/domain/travel"
	"github.com/dms/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTripRepository implements travel.TripRepository using GORM.
type GormTripRepository struct {
	db *gorm.DB
}

// NewGormTripRepository creates a new GormTripRepository.
func NewGormTripRepository(db *gorm.DB) *GormTripRepository {
	return &GormTripRepository{db: db}
}

// FindByID finds a trip by ID with its category and the category's
// allowances preloaded.
func (r *GormTripRepository) FindByID(ctx context.Context, id uuid.UUID) (*travel.Trip, error) {
	var model models.TripModel
	if err := r.db.WithContext(ctx).
		Preload("Category.Allowances").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds trips matching the filter.
func (r *GormTripRepository) FindAll(ctx context.Context, filter travel.TripFilter) ([]travel.Trip, error) {
	var tripModels []models.TripModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.TripModel{}), filter)
	if err := query.Find(&tripModels).Error; err != nil {
		return nil, err
	}

	trips := make([]travel.Trip, len(tripModels))
	for i := range tripModels {
		trips[i] = *tripModels[i].ToDomain()
	}
	return trips, nil
}

// FindByStaff finds trips for a staff member.
func (r *GormTripRepository) FindByStaff(ctx context.Context, staffID uuid.UUID, filter travel.TripFilter) ([]travel.Trip, error) {
	filter.StaffID = &staffID
	return r.FindAll(ctx, filter)
}

// Save creates or updates a trip.
func (r *GormTripRepository) Save(ctx context.Context, trip *travel.Trip) error {
	model := models.TripModelFromDomain(trip)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a trip.
func (r *GormTripRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TripModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts trips matching the filter.
func (r *GormTripRepository) Count(ctx context.Context, filter travel.TripFilter) (int64, error) {
	var count int64
	query := r.applyConditions(r.db.WithContext(ctx).Model(&models.TripModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormTripRepository) applyFilter(query *gorm.DB, filter travel.TripFilter) *gorm.DB {
	query = r.applyConditions(query, filter)

	sortField := ValidateSortField(filter.OrderBy, TripSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if offset := filter.Offset(); offset > 0 {
			query = query.Offset(offset)
		}
	}
	return query
}

func (r *GormTripRepository) applyConditions(query *gorm.DB, filter travel.TripFilter) *gorm.DB {
	if filter.StaffID != nil {
		query = query.Where("staff_id = ?", *filter.StaffID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("departure_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("departure_date <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		query = query.Where("purpose ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}
