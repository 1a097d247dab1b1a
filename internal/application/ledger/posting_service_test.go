package ledger

import (
	"context"
	"testing"
	"time"

	domain "github.com/dms/backend/internal/domain/ledger"
	"github.com/dms/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePaymentRepo struct {
	payments map[uuid.UUID]*domain.Payment
}

func (r *fakePaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Payment, error) {
	return r.payments[id], nil
}
func (r *fakePaymentRepo) FindAll(context.Context, domain.PaymentFilter) ([]domain.Payment, error) {
	return nil, nil
}
func (r *fakePaymentRepo) Save(_ context.Context, payment *domain.Payment) error {
	r.payments[payment.ID] = payment
	return nil
}
func (r *fakePaymentRepo) Count(context.Context, domain.PaymentFilter) (int64, error) { return 0, nil }

type fakeJournalTypeRepo struct {
	rules []domain.JournalType
}

func (r *fakeJournalTypeRepo) FindByID(context.Context, uuid.UUID) (*domain.JournalType, error) {
	return nil, nil
}
func (r *fakeJournalTypeRepo) FindAll(context.Context) ([]domain.JournalType, error) {
	return r.rules, nil
}
func (r *fakeJournalTypeRepo) FindByCategory(context.Context, string) ([]domain.JournalType, error) {
	return nil, nil
}
func (r *fakeJournalTypeRepo) Save(context.Context, *domain.JournalType) error { return nil }

type fakeTransactionRepo struct {
	stored map[uuid.UUID][]domain.Transaction
}

func (r *fakeTransactionRepo) FindByPayment(_ context.Context, paymentID uuid.UUID) ([]domain.Transaction, error) {
	return r.stored[paymentID], nil
}
func (r *fakeTransactionRepo) ReplaceForPayment(_ context.Context, paymentID uuid.UUID, transactions []*domain.Transaction) error {
	rows := make([]domain.Transaction, len(transactions))
	for i, txn := range transactions {
		rows[i] = *txn
	}
	r.stored[paymentID] = rows
	return nil
}
func (r *fakeTransactionRepo) DeleteByPayment(_ context.Context, paymentID uuid.UUID) error {
	delete(r.stored, paymentID)
	return nil
}

type fakeIdempotencyStore struct {
	seen map[string]bool
}

func (s *fakeIdempotencyStore) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	if s.seen[key] {
		return false, nil
	}
	s.seen[key] = true
	return true, nil
}
func (s *fakeIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	return s.seen[key], nil
}
func (s *fakeIdempotencyStore) Release(_ context.Context, key string) error {
	delete(s.seen, key)
	return nil
}
func (s *fakeIdempotencyStore) Close() error { return nil }

type postingFixture struct {
	svc      *PostingService
	payment  *domain.Payment
	rules    *fakeJournalTypeRepo
	txns     *fakeTransactionRepo
	payments *fakePaymentRepo
}

func newPostingFixture(t *testing.T, config PostingConfig) *postingFixture {
	t.Helper()

	payment, err := domain.NewPayment(domain.PaymentStaff, decimal.NewFromInt(100000), "Test", uuid.New(), "Staff")
	require.NoError(t, err)

	payments := &fakePaymentRepo{payments: map[uuid.UUID]*domain.Payment{payment.ID: payment}}
	rules := &fakeJournalTypeRepo{}
	txns := &fakeTransactionRepo{stored: make(map[uuid.UUID][]domain.Transaction)}

	svc := NewPostingService(payments, rules, txns,
		&fakeIdempotencyStore{seen: make(map[string]bool)},
		nil, config, nil)

	return &postingFixture{svc: svc, payment: payment, rules: rules, txns: txns, payments: payments}
}

func contraRule(t *testing.T) *domain.JournalType {
	t.Helper()
	rule, err := domain.NewJournalType("Withholding Tax", 1, domain.BaseGross, domain.RatePercent)
	require.NoError(t, err)
	rule.Rate = decimal.NewFromInt(10)
	rule.Kind = domain.KindDeduct
	rule.Benefactor = domain.BenefactorEntity
	rule.EntityID = uuid.New()
	rule.PostingRules = domain.PostingRules{CreateContraEntries: true}
	return rule
}

func TestPostingService_GenerateTransactions(t *testing.T) {
	f := newPostingFixture(t, DefaultPostingConfig())
	rule := contraRule(t)
	f.rules.rules = []domain.JournalType{*rule}

	resp, err := f.svc.GenerateTransactions(context.Background(), f.payment.ID,
		GenerateTransactionsRequest{JournalTypeIDs: []uuid.UUID{rule.ID}})
	require.NoError(t, err)

	require.Len(t, resp.Transactions, 2)
	assert.True(t, resp.TrialBalance.IsBalanced)
	assert.True(t, resp.TrialBalance.LeftTotal.Equal(decimal.NewFromInt(10000)))
	assert.True(t, resp.TrialBalance.RightTotal.Equal(decimal.NewFromInt(10000)))

	// transactions were persisted and the payment was posted
	assert.Len(t, f.txns.stored[f.payment.ID], 2)
	assert.Equal(t, domain.PaymentStatusPosted, f.payments.payments[f.payment.ID].Status)
}

func TestPostingService_DuplicateRequestRejected(t *testing.T) {
	f := newPostingFixture(t, DefaultPostingConfig())
	rule := contraRule(t)
	f.rules.rules = []domain.JournalType{*rule}

	req := GenerateTransactionsRequest{JournalTypeIDs: []uuid.UUID{rule.ID}}

	_, err := f.svc.GenerateTransactions(context.Background(), f.payment.ID, req)
	require.NoError(t, err)

	_, err = f.svc.GenerateTransactions(context.Background(), f.payment.ID, req)
	assert.ErrorIs(t, err, shared.ErrDuplicatePosting)
}

func TestPostingService_IdempotencyKeyIsOrderIndependent(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	paymentID := uuid.New()

	assert.Equal(t,
		postingKey(paymentID, []uuid.UUID{a, b}),
		postingKey(paymentID, []uuid.UUID{b, a}))
	assert.NotEqual(t,
		postingKey(paymentID, []uuid.UUID{a}),
		postingKey(paymentID, []uuid.UUID{b}))
	assert.NotEqual(t,
		postingKey(paymentID, []uuid.UUID{a}),
		postingKey(uuid.New(), []uuid.UUID{a}))
}

func TestPostingService_RequireBalancedRefusesUnbalanced(t *testing.T) {
	config := DefaultPostingConfig()
	config.RequireBalanced = true
	f := newPostingFixture(t, config)

	// a deduction without a contra entry cannot balance
	rule, err := domain.NewJournalType("Levy", 1, domain.BaseGross, domain.RatePercent)
	require.NoError(t, err)
	rule.Rate = decimal.NewFromInt(5)
	rule.Kind = domain.KindDeduct
	f.rules.rules = []domain.JournalType{*rule}

	_, err = f.svc.GenerateTransactions(context.Background(), f.payment.ID,
		GenerateTransactionsRequest{JournalTypeIDs: []uuid.UUID{rule.ID}})
	assert.ErrorIs(t, err, shared.ErrUnbalancedPosting)

	// nothing was persisted
	assert.Empty(t, f.txns.stored[f.payment.ID])
	assert.Equal(t, domain.PaymentStatusPending, f.payments.payments[f.payment.ID].Status)
}

func TestPostingService_RefusedPostingDoesNotHoldIdempotencyKey(t *testing.T) {
	config := DefaultPostingConfig()
	config.RequireBalanced = true
	f := newPostingFixture(t, config)

	rule, err := domain.NewJournalType("Levy", 1, domain.BaseGross, domain.RatePercent)
	require.NoError(t, err)
	rule.Rate = decimal.NewFromInt(5)
	rule.Kind = domain.KindDeduct
	f.rules.rules = []domain.JournalType{*rule}

	req := GenerateTransactionsRequest{JournalTypeIDs: []uuid.UUID{rule.ID}}

	_, err = f.svc.GenerateTransactions(context.Background(), f.payment.ID, req)
	require.ErrorIs(t, err, shared.ErrUnbalancedPosting)

	// after the rule is fixed, the identical request must go through
	rule.PostingRules = domain.PostingRules{CreateContraEntries: true}
	rule.Benefactor = domain.BenefactorEntity
	rule.EntityID = uuid.New()
	f.rules.rules = []domain.JournalType{*rule}

	resp, err := f.svc.GenerateTransactions(context.Background(), f.payment.ID, req)
	require.NoError(t, err)
	assert.Len(t, resp.Transactions, 2)
	assert.True(t, resp.TrialBalance.IsBalanced)
}

func TestPostingService_PaymentNotFound(t *testing.T) {
	f := newPostingFixture(t, DefaultPostingConfig())

	_, err := f.svc.GenerateTransactions(context.Background(), uuid.New(),
		GenerateTransactionsRequest{JournalTypeIDs: []uuid.UUID{uuid.New()}})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestTrialBalanceService_GetTrialBalance(t *testing.T) {
	f := newPostingFixture(t, DefaultPostingConfig())
	rule := contraRule(t)
	f.rules.rules = []domain.JournalType{*rule}

	_, err := f.svc.GenerateTransactions(context.Background(), f.payment.ID,
		GenerateTransactionsRequest{JournalTypeIDs: []uuid.UUID{rule.ID}})
	require.NoError(t, err)

	tbSvc := NewTrialBalanceService(f.txns, decimal.Zero)
	balance, err := tbSvc.GetTrialBalance(context.Background(), f.payment.ID)
	require.NoError(t, err)

	assert.Len(t, balance.Left, 1)
	assert.Len(t, balance.Right, 1)
	assert.True(t, balance.IsBalanced)
	assert.True(t, balance.Variance.IsZero())
}

func TestTrialBalanceService_EmptyPayment(t *testing.T) {
	txns := &fakeTransactionRepo{stored: make(map[uuid.UUID][]domain.Transaction)}
	svc := NewTrialBalanceService(txns, decimal.Zero)

	balance, err := svc.GetTrialBalance(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, balance.IsBalanced)
	assert.Empty(t, balance.Left)
	assert.Empty(t, balance.Right)
}
