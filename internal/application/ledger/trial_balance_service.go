package ledger

import (
	"context"

	"github.com/dms/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TrialBalanceService computes trial-balance views over a payment's
// persisted transactions
type TrialBalanceService struct {
	transactionRepo ledger.TransactionRepository
	tolerance       decimal.Decimal
}

// NewTrialBalanceService creates a new TrialBalanceService
func NewTrialBalanceService(transactionRepo ledger.TransactionRepository, tolerance decimal.Decimal) *TrialBalanceService {
	if tolerance.LessThanOrEqual(decimal.Zero) {
		tolerance = ledger.DefaultBalanceTolerance
	}
	return &TrialBalanceService{
		transactionRepo: transactionRepo,
		tolerance:       tolerance,
	}
}

// PaymentTrialBalanceResponse is the trial balance of one payment's
// transaction set, with the partitioned entries included for display
type PaymentTrialBalanceResponse struct {
	PaymentID uuid.UUID             `json:"payment_id"`
	Left      []TransactionResponse `json:"left"`
	Right     []TransactionResponse `json:"right"`
	TrialBalanceResponse
}

// GetTrialBalance loads a payment's transactions and computes their trial
// balance. Always returns a structurally valid result; an unbalanced set
// is reported through IsBalanced, never as an error.
func (s *TrialBalanceService) GetTrialBalance(ctx context.Context, paymentID uuid.UUID) (*PaymentTrialBalanceResponse, error) {
	rows, err := s.transactionRepo.FindByPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	transactions := make([]*ledger.Transaction, len(rows))
	for i := range rows {
		transactions[i] = &rows[i]
	}

	balance := ledger.ComputeTrialBalance(transactions, s.tolerance)

	return &PaymentTrialBalanceResponse{
		PaymentID:            paymentID,
		Left:                 toTransactionResponses(balance.Left),
		Right:                toTransactionResponses(balance.Right),
		TrialBalanceResponse: toTrialBalanceResponse(balance),
	}, nil
}
