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

// GormAllowanceRepository implements travel.AllowanceRepository using GORM.
type GormAllowanceRepository struct {
	db *gorm.DB
}

// NewGormAllowanceRepository creates a new GormAllowanceRepository.
func NewGormAllowanceRepository(db *gorm.DB) *GormAllowanceRepository {
	return &GormAllowanceRepository{db: db}
}

// FindByID finds an allowance by ID.
func (r *GormAllowanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*travel.Allowance, error) {
	var model models.AllowanceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCategory finds all allowances attached to a trip category, in
// catalog order.
func (r *GormAllowanceRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]travel.Allowance, error) {
	var allowanceModels []models.AllowanceModel
	if err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("created_at ASC").
		Find(&allowanceModels).Error; err != nil {
		return nil, err
	}

	allowances := make([]travel.Allowance, len(allowanceModels))
	for i := range allowanceModels {
		allowances[i] = *allowanceModels[i].ToDomain()
	}
	return allowances, nil
}

// FindAll returns all allowance rules in catalog order.
func (r *GormAllowanceRepository) FindAll(ctx context.Context) ([]travel.Allowance, error) {
	var allowanceModels []models.AllowanceModel
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&allowanceModels).Error; err != nil {
		return nil, err
	}

	allowances := make([]travel.Allowance, len(allowanceModels))
	for i := range allowanceModels {
		allowances[i] = *allowanceModels[i].ToDomain()
	}
	return allowances, nil
}

// Save creates or updates an allowance.
func (r *GormAllowanceRepository) Save(ctx context.Context, allowance *travel.Allowance) error {
	model := models.AllowanceModelFromDomain(allowance)
	return r.db.WithContext(ctx).Save(model).Error
}
