package persistence

import (
	"context"
	"errors"

	"github.com/dms/backend/internal/domain/shared"
	"github.com/dms/backend/internal/domain/travel"
	"github.com/dms/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTripCategoryRepository implements travel.TripCategoryRepository
// using GORM.
type GormTripCategoryRepository struct {
	db *gorm.DB
}

// NewGormTripCategoryRepository creates a new GormTripCategoryRepository.
func NewGormTripCategoryRepository(db *gorm.DB) *GormTripCategoryRepository {
	return &GormTripCategoryRepository{db: db}
}

// FindByID finds a category by ID with its allowance list.
func (r *GormTripCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*travel.TripCategory, error) {
	var model models.TripCategoryModel
	if err := r.db.WithContext(ctx).
		Preload("Allowances", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all categories with their allowance lists.
func (r *GormTripCategoryRepository) FindAll(ctx context.Context) ([]travel.TripCategory, error) {
	var categoryModels []models.TripCategoryModel
	if err := r.db.WithContext(ctx).
		Preload("Allowances", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Order("name ASC").
		Find(&categoryModels).Error; err != nil {
		return nil, err
	}

	categories := make([]travel.TripCategory, len(categoryModels))
	for i := range categoryModels {
		categories[i] = *categoryModels[i].ToDomain()
	}
	return categories, nil
}

// Save creates or updates a category together with its attached
// allowances.
func (r *GormTripCategoryRepository) Save(ctx context.Context, category *travel.TripCategory) error {
	model := models.TripCategoryModelFromDomain(category)
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Save(model).Error
}
