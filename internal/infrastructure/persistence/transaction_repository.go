package persistence

import (
	"context"

	"github.com/dms/backend/internal/domain/ledger"
	"github.com/dms/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTransactionRepository implements ledger.TransactionRepository using
// GORM.
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository.
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByPayment returns the transactions generated for a payment in
// generation order.
func (r *GormTransactionRepository) FindByPayment(ctx context.Context, paymentID uuid.UUID) ([]ledger.Transaction, error) {
	var transactionModels []models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Order("position ASC").
		Find(&transactionModels).Error; err != nil {
		return nil, err
	}

	transactions := make([]ledger.Transaction, len(transactionModels))
	for i := range transactionModels {
		transactions[i] = *transactionModels[i].ToDomain()
	}
	return transactions, nil
}

// ReplaceForPayment atomically deletes a payment's existing transactions
// and saves the freshly generated list. Regeneration replaces rather than
// appends.
func (r *GormTransactionRepository) ReplaceForPayment(ctx context.Context, paymentID uuid.UUID, transactions []*ledger.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.TransactionModel{}, "payment_id = ?", paymentID).Error; err != nil {
			return err
		}
		if len(transactions) == 0 {
			return nil
		}

		transactionModels := make([]models.TransactionModel, len(transactions))
		for i, transaction := range transactions {
			transactionModels[i] = *models.TransactionModelFromDomain(transaction, i)
		}
		return tx.Create(&transactionModels).Error
	})
}

// DeleteByPayment deletes all transactions generated for a payment.
func (r *GormTransactionRepository) DeleteByPayment(ctx context.Context, paymentID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.TransactionModel{}, "payment_id = ?", paymentID).Error
}
