package persistence

import (
	"context"

	"github.com/dms/backend/internal/domain/travel"
	"github.com/dms/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormExpenseRepository implements travel.ExpenseRepository using GORM.
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository.
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// FindByTrip returns the expenses derived for a trip in derivation order.
func (r *GormExpenseRepository) FindByTrip(ctx context.Context, tripID uuid.UUID) ([]travel.Expense, error) {
	var expenseModels []models.ExpenseModel
	if err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("position ASC").
		Find(&expenseModels).Error; err != nil {
		return nil, err
	}

	expenses := make([]travel.Expense, len(expenseModels))
	for i := range expenseModels {
		expenses[i] = *expenseModels[i].ToDomain()
	}
	return expenses, nil
}

// ReplaceForTrip atomically deletes a trip's existing expenses and saves
// the freshly derived list. Re-derivation replaces rather than appends.
func (r *GormExpenseRepository) ReplaceForTrip(ctx context.Context, tripID uuid.UUID, expenses []*travel.Expense) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ExpenseModel{}, "trip_id = ?", tripID).Error; err != nil {
			return err
		}
		if len(expenses) == 0 {
			return nil
		}

		expenseModels := make([]models.ExpenseModel, len(expenses))
		for i, expense := range expenses {
			expenseModels[i] = *models.ExpenseModelFromDomain(expense, i)
		}
		return tx.Create(&expenseModels).Error
	})
}

// DeleteByTrip deletes all expenses derived for a trip.
func (r *GormExpenseRepository) DeleteByTrip(ctx context.Context, tripID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.ExpenseModel{}, "trip_id = ?", tripID).Error
}
