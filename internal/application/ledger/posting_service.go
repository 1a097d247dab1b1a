package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"

	"github.com/dms/backend/internal/domain/ledger"
	"github.com/dms/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PostingConfig holds posting behavior settings
type PostingConfig struct {
	// Tolerance is the trial-balance variance below which a transaction
	// set is considered balanced
	Tolerance decimal.Decimal

	// RequireBalanced refuses to persist an unbalanced transaction set
	RequireBalanced bool

	// LegacyBankersRounding reproduces the historical bankers-rounding
	// behavior for wire compatibility with older postings
	LegacyBankersRounding bool

	// Idempotency controls duplicate-posting detection
	Idempotency shared.IdempotencyConfig
}

// DefaultPostingConfig returns the default posting configuration
func DefaultPostingConfig() PostingConfig {
	return PostingConfig{
		Tolerance:   ledger.DefaultBalanceTolerance,
		Idempotency: shared.DefaultIdempotencyConfig(),
	}
}

// PostingService orchestrates transaction generation for payments: it loads
// the payment and rule catalog, runs the generator, verifies the trial
// balance, and replaces the payment's persisted transactions. Duplicate
// generation requests are detected through the idempotency store.
type PostingService struct {
	paymentRepo      ledger.PaymentRepository
	journalTypeRepo  ledger.JournalTypeRepository
	transactionRepo  ledger.TransactionRepository
	idempotencyStore shared.IdempotencyStore
	eventPublisher   shared.EventPublisher
	config           PostingConfig
	generator        *ledger.TransactionGenerator
	logger           *zap.Logger
}

// NewPostingService creates a new PostingService
func NewPostingService(
	paymentRepo ledger.PaymentRepository,
	journalTypeRepo ledger.JournalTypeRepository,
	transactionRepo ledger.TransactionRepository,
	idempotencyStore shared.IdempotencyStore,
	eventPublisher shared.EventPublisher,
	config PostingConfig,
	logger *zap.Logger,
) *PostingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Tolerance.LessThanOrEqual(decimal.Zero) {
		config.Tolerance = ledger.DefaultBalanceTolerance
	}
	if config.Idempotency.TTL <= 0 {
		config.Idempotency.TTL = shared.DefaultIdempotencyConfig().TTL
	}

	var opts []ledger.TransactionGeneratorOption
	opts = append(opts, ledger.WithLogger(logger))
	if config.LegacyBankersRounding {
		opts = append(opts, ledger.WithLegacyBankersRounding())
	}

	return &PostingService{
		paymentRepo:      paymentRepo,
		journalTypeRepo:  journalTypeRepo,
		transactionRepo:  transactionRepo,
		idempotencyStore: idempotencyStore,
		eventPublisher:   eventPublisher,
		config:           config,
		generator:        ledger.NewTransactionGenerator(opts...),
		logger:           logger,
	}
}

// ===================== Request DTOs =====================

// GenerateTransactionsRequest represents a request to generate transactions
// for a payment
type GenerateTransactionsRequest struct {
	JournalTypeIDs []uuid.UUID `json:"journal_type_ids" binding:"required,min=1"`
}

// ===================== Response DTOs =====================

// TransactionResponse represents a generated transaction
type TransactionResponse struct {
	ID              uuid.UUID        `json:"id"`
	JournalTypeID   uuid.UUID        `json:"journal_type_id"`
	PaymentID       uuid.UUID        `json:"payment_id"`
	Type            string           `json:"type"`
	Amount          decimal.Decimal  `json:"amount"`
	DebitAmount     *decimal.Decimal `json:"debit_amount,omitempty"`
	CreditAmount    *decimal.Decimal `json:"credit_amount,omitempty"`
	Narration       string           `json:"narration"`
	BeneficiaryID   uuid.UUID        `json:"beneficiary_id"`
	BeneficiaryType string           `json:"beneficiary_type"`
	PaymentMethod   string           `json:"payment_method"`
	Currency        string           `json:"currency"`
	TrailBalance    string           `json:"trail_balance"`
	IsContra        bool             `json:"is_contra"`
}

// TrialBalanceResponse represents the balance verification of a transaction set
type TrialBalanceResponse struct {
	TotalDebits  decimal.Decimal `json:"total_debits"`
	TotalCredits decimal.Decimal `json:"total_credits"`
	LeftTotal    decimal.Decimal `json:"left_total"`
	RightTotal   decimal.Decimal `json:"right_total"`
	Variance     decimal.Decimal `json:"variance"`
	Tolerance    decimal.Decimal `json:"tolerance"`
	IsBalanced   bool            `json:"is_balanced"`
}

// GenerateTransactionsResponse represents the result of transaction generation
type GenerateTransactionsResponse struct {
	PaymentID    uuid.UUID             `json:"payment_id"`
	Transactions []TransactionResponse `json:"transactions"`
	TrialBalance TrialBalanceResponse  `json:"trial_balance"`
	GeneratedAt  time.Time             `json:"generated_at"`
}

// ===================== Service Methods =====================

// GenerateTransactions generates and persists the transaction set for a
// payment from the selected journal types. Repeating the same request
// within the idempotency window returns ErrDuplicatePosting.
func (s *PostingService) GenerateTransactions(
	ctx context.Context,
	paymentID uuid.UUID,
	req GenerateTransactionsRequest,
) (*GenerateTransactionsResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, shared.ErrNotFound
	}

	var heldKey string
	if s.config.Idempotency.Enabled && s.idempotencyStore != nil {
		key := postingKey(paymentID, req.JournalTypeIDs)
		fresh, err := s.idempotencyStore.MarkProcessed(ctx, key, s.config.Idempotency.TTL)
		if err != nil {
			// the idempotency store is an optimization, not a gate
			s.logger.Warn("idempotency store unavailable, continuing", zap.Error(err))
		} else if !fresh {
			return nil, shared.ErrDuplicatePosting
		} else {
			heldKey = key
		}
	}

	resp, err := s.generate(ctx, payment, req)
	if err != nil && heldKey != "" {
		// nothing was persisted, let an identical retry through
		if relErr := s.idempotencyStore.Release(ctx, heldKey); relErr != nil {
			s.logger.Warn("failed to release idempotency key", zap.Error(relErr))
		}
	}
	return resp, err
}

func (s *PostingService) generate(
	ctx context.Context,
	payment *ledger.Payment,
	req GenerateTransactionsRequest,
) (*GenerateTransactionsResponse, error) {
	catalogRows, err := s.journalTypeRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	catalog := make([]*ledger.JournalType, len(catalogRows))
	for i := range catalogRows {
		catalog[i] = &catalogRows[i]
	}

	transactions := s.generator.Generate(payment, catalog, req.JournalTypeIDs)
	balance := ledger.ComputeTrialBalance(transactions, s.config.Tolerance)

	if s.config.RequireBalanced && !balance.IsBalanced {
		s.logger.Warn("refusing unbalanced posting",
			zap.String("payment_id", payment.ID.String()),
			zap.String("variance", balance.Variance.String()))
		return nil, shared.ErrUnbalancedPosting
	}

	if err := s.transactionRepo.ReplaceForPayment(ctx, payment.ID, transactions); err != nil {
		return nil, err
	}

	if err := payment.MarkPosted(); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}

	s.logger.Info("generated payment transactions",
		zap.String("payment_id", payment.ID.String()),
		zap.Int("transaction_count", len(transactions)),
		zap.Bool("is_balanced", balance.IsBalanced))

	if s.eventPublisher != nil {
		event := ledger.NewTransactionsGeneratedEvent(payment, transactions, balance)
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish posting event", zap.Error(err))
		}
	}

	return &GenerateTransactionsResponse{
		PaymentID:    payment.ID,
		Transactions: toTransactionResponses(transactions),
		TrialBalance: toTrialBalanceResponse(balance),
		GeneratedAt:  time.Now(),
	}, nil
}

// GetTransactions returns a payment's persisted transactions, in
// generation order
func (s *PostingService) GetTransactions(ctx context.Context, paymentID uuid.UUID) ([]TransactionResponse, error) {
	rows, err := s.transactionRepo.FindByPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	transactions := make([]*ledger.Transaction, len(rows))
	for i := range rows {
		transactions[i] = &rows[i]
	}
	return toTransactionResponses(transactions), nil
}

// PreviewAmounts computes the gross/taxable bases for a payment without
// generating transactions
func (s *PostingService) PreviewAmounts(ctx context.Context, paymentID uuid.UUID) (*ledger.Amounts, error) {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, shared.ErrNotFound
	}

	catalogRows, err := s.journalTypeRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	catalog := make([]*ledger.JournalType, len(catalogRows))
	for i := range catalogRows {
		catalog[i] = &catalogRows[i]
	}

	amounts := ledger.ComputeAmounts(payment, catalog)
	return &amounts, nil
}

// ===================== Helper Functions =====================

// postingKey derives the idempotency key for one generation request: the
// payment plus the selected rule set, order-independent
func postingKey(paymentID uuid.UUID, journalTypeIDs []uuid.UUID) string {
	ids := make([]string, len(journalTypeIDs))
	for i, id := range journalTypeIDs {
		ids[i] = id.String()
	}
	sort.Strings(ids)

	sum := sha256.Sum256([]byte(paymentID.String() + ":" + strings.Join(ids, ",")))
	return "posting:" + hex.EncodeToString(sum[:])
}

func toTransactionResponses(transactions []*ledger.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(transactions))
	for i, txn := range transactions {
		resp := TransactionResponse{
			ID:              txn.ID,
			JournalTypeID:   txn.JournalTypeID,
			PaymentID:       txn.PaymentID,
			Type:            txn.Type.String(),
			Amount:          txn.Amount,
			Narration:       txn.Narration,
			BeneficiaryID:   txn.BeneficiaryID,
			BeneficiaryType: txn.BeneficiaryType,
			PaymentMethod:   txn.PaymentMethod.String(),
			Currency:        txn.Currency,
			TrailBalance:    txn.TrailBalance.String(),
			IsContra:        txn.IsContra,
		}
		if txn.DebitAmount.Valid {
			d := txn.DebitAmount.Decimal
			resp.DebitAmount = &d
		}
		if txn.CreditAmount.Valid {
			c := txn.CreditAmount.Decimal
			resp.CreditAmount = &c
		}
		responses[i] = resp
	}
	return responses
}

func toTrialBalanceResponse(balance *ledger.TrialBalanceResult) TrialBalanceResponse {
	return TrialBalanceResponse{
		TotalDebits:  balance.TotalDebits,
		TotalCredits: balance.TotalCredits,
		LeftTotal:    balance.LeftTotal,
		RightTotal:   balance.RightTotal,
		Variance:     balance.Variance,
		Tolerance:    balance.Tolerance,
		IsBalanced:   balance.IsBalanced,
	}
}
