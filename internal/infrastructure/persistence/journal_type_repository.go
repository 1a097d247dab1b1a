package persistence

import (
	"context"
	"errors"

	"github.com/dms/backend/internal/domain/ledger"
	"github.com/dms/backend/internal/domain/shared"
	"github.com/dms/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormJournalTypeRepository implements ledger.JournalTypeRepository using
// GORM.
type GormJournalTypeRepository struct {
	db *gorm.DB
}

// NewGormJournalTypeRepository creates a new GormJournalTypeRepository.
func NewGormJournalTypeRepository(db *gorm.DB) *GormJournalTypeRepository {
	return &GormJournalTypeRepository{db: db}
}

// FindByID finds a journal type by ID.
func (r *GormJournalTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.JournalType, error) {
	var model models.JournalTypeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns the full rule catalog in catalog order. Precedence
// ordering is applied by the generator, not here, so catalog order stays
// available as the tie-breaker.
func (r *GormJournalTypeRepository) FindAll(ctx context.Context) ([]ledger.JournalType, error) {
	var journalTypeModels []models.JournalTypeModel
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&journalTypeModels).Error; err != nil {
		return nil, err
	}

	journalTypes := make([]ledger.JournalType, len(journalTypeModels))
	for i := range journalTypeModels {
		journalTypes[i] = *journalTypeModels[i].ToDomain()
	}
	return journalTypes, nil
}

// FindByCategory finds rules matching a payment category or the default
// category.
func (r *GormJournalTypeRepository) FindByCategory(ctx context.Context, category string) ([]ledger.JournalType, error) {
	var journalTypeModels []models.JournalTypeModel
	if err := r.db.WithContext(ctx).
		Where("category = ? OR category = ?", category, ledger.CategoryDefault).
		Order("created_at ASC").
		Find(&journalTypeModels).Error; err != nil {
		return nil, err
	}

	journalTypes := make([]ledger.JournalType, len(journalTypeModels))
	for i := range journalTypeModels {
		journalTypes[i] = *journalTypeModels[i].ToDomain()
	}
	return journalTypes, nil
}

// Save creates or updates a journal type.
func (r *GormJournalTypeRepository) Save(ctx context.Context, journalType *ledger.JournalType) error {
	model := models.JournalTypeModelFromDomain(journalType)
	return r.db.WithContext(ctx).Save(model).Error
}
