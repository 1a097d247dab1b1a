package ledger

import (
	"context"
	"time"

	"github.com/dms/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PaymentFilter defines filtering options for payment queries
type PaymentFilter struct {
	shared.Filter
	Type     *PaymentType   // Filter by payment type
	Status   *PaymentStatus // Filter by posting status
	FromDate *time.Time     // Filter by creation date range start
	ToDate   *time.Time     // Filter by creation date range end
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// FindByID finds a payment by ID, with its expenditure preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindAll finds payments matching the filter
	FindAll(ctx context.Context, filter PaymentFilter) ([]Payment, error)

	// Save creates or updates a payment
	Save(ctx context.Context, payment *Payment) error

	// Count counts payments matching the filter
	Count(ctx context.Context, filter PaymentFilter) (int64, error)
}

// JournalTypeRepository defines the interface for journal-type rule persistence
type JournalTypeRepository interface {
	// FindByID finds a journal type by ID
	FindByID(ctx context.Context, id uuid.UUID) (*JournalType, error)

	// FindAll returns the full rule catalog, in catalog order
	FindAll(ctx context.Context) ([]JournalType, error)

	// FindByCategory finds rules matching a payment category or the default
	FindByCategory(ctx context.Context, category string) ([]JournalType, error)

	// Save creates or updates a journal type
	Save(ctx context.Context, journalType *JournalType) error
}

// TransactionRepository defines the interface for derived transaction persistence
type TransactionRepository interface {
	// FindByPayment returns the transactions generated for a payment, in
	// generation order
	FindByPayment(ctx context.Context, paymentID uuid.UUID) ([]Transaction, error)

	// ReplaceForPayment atomically deletes a payment's existing transactions
	// and saves the freshly generated list
	ReplaceForPayment(ctx context.Context, paymentID uuid.UUID, transactions []*Transaction) error

	// DeleteByPayment deletes all transactions generated for a payment
	DeleteByPayment(ctx context.Context, paymentID uuid.UUID) error
}
