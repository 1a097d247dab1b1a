package persistence

import (
	"context"
	"errors"

	"github.com/dms/backend/internal/domain/shared"
	"github.com/dms/backend/internal/domain/travel"
	"github.com/dms/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRemunerationRepository implements travel.RemunerationRepository
// using GORM.
type GormRemunerationRepository struct {
	db *gorm.DB
}

// NewGormRemunerationRepository creates a new GormRemunerationRepository.
func NewGormRemunerationRepository(db *gorm.DB) *GormRemunerationRepository {
	return &GormRemunerationRepository{db: db}
}

// FindByID finds a remuneration by ID.
func (r *GormRemunerationRepository) FindByID(ctx context.Context, id uuid.UUID) (*travel.Remuneration, error) {
	var model models.RemunerationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns the full rate catalog in catalog order.
func (r *GormRemunerationRepository) FindAll(ctx context.Context) ([]travel.Remuneration, error) {
	var remunerationModels []models.RemunerationModel
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&remunerationModels).Error; err != nil {
		return nil, err
	}

	remunerations := make([]travel.Remuneration, len(remunerationModels))
	for i := range remunerationModels {
		remunerations[i] = *remunerationModels[i].ToDomain()
	}
	return remunerations, nil
}

// FindByGradeLevel finds all rates for a grade level.
func (r *GormRemunerationRepository) FindByGradeLevel(ctx context.Context, gradeLevelID uuid.UUID) ([]travel.Remuneration, error) {
	var remunerationModels []models.RemunerationModel
	if err := r.db.WithContext(ctx).
		Where("grade_level_id = ?", gradeLevelID).
		Order("created_at ASC").
		Find(&remunerationModels).Error; err != nil {
		return nil, err
	}

	remunerations := make([]travel.Remuneration, len(remunerationModels))
	for i := range remunerationModels {
		remunerations[i] = *remunerationModels[i].ToDomain()
	}
	return remunerations, nil
}

// Save creates or updates a remuneration.
func (r *GormRemunerationRepository) Save(ctx context.Context, remuneration *travel.Remuneration) error {
	model := models.RemunerationModelFromDomain(remuneration)
	return r.db.WithContext(ctx).Save(model).Error
}
