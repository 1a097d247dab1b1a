package persistence

import (
	"context"
	"testing"

	"github.com/dms/backend/internal/domain/ledger"
	"github.com/dms/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPersistedPayment(t *testing.T) *ledger.Payment {
	t.Helper()
	payment, err := ledger.NewPayment(
		ledger.PaymentStaff,
		decimal.NewFromInt(100000),
		"March travel settlement",
		uuid.New(),
		"staff",
	)
	require.NoError(t, err)
	return payment
}

func TestGormPaymentRepository_SaveAndFindByID(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewGormPaymentRepository(db)

	payment := newPersistedPayment(t)
	payment.AttachExpenditure(&ledger.Expenditure{
		BaseEntity:     shared.NewBaseEntity(),
		AdminFeeAmount: decimal.NewFromInt(5000),
		SubTotalAmount: decimal.NewFromInt(95000),
		Currency:       "NGN",
	})
	require.NoError(t, repo.Save(ctx, payment))

	found, err := repo.FindByID(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.PaymentStaff, found.Type)
	assert.True(t, found.TotalApprovedAmount.Equal(decimal.NewFromInt(100000)))
	assert.Equal(t, ledger.PaymentStatusPending, found.Status)
	require.NotNil(t, found.Expenditure, "expenditure should be preloaded")
	assert.True(t, found.Expenditure.AdminFeeAmount.Equal(decimal.NewFromInt(5000)))
}

func TestGormPaymentRepository_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPaymentRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormPaymentRepository_FilterByStatus(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewGormPaymentRepository(db)

	pending := newPersistedPayment(t)
	posted := newPersistedPayment(t)
	require.NoError(t, posted.MarkPosted())
	require.NoError(t, repo.Save(ctx, pending))
	require.NoError(t, repo.Save(ctx, posted))

	status := ledger.PaymentStatusPosted
	payments, err := repo.FindAll(ctx, ledger.PaymentFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, posted.ID, payments[0].ID)

	count, err := repo.Count(ctx, ledger.PaymentFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGormTransactionRepository_ReplaceForPayment(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewGormTransactionRepository(db)

	paymentID := uuid.New()
	makeTxn := func(entryType ledger.EntryType, amount int64) *ledger.Transaction {
		txn := &ledger.Transaction{
			BaseEntity:       shared.NewBaseEntity(),
			JournalTypeID:    uuid.New(),
			PaymentID:        paymentID,
			ChartOfAccountID: uuid.New(),
			LedgerID:         uuid.New(),
			Type:             entryType,
			Amount:           decimal.NewFromInt(amount),
			Narration:        "Withholding Tax - March travel settlement",
			BeneficiaryID:    uuid.New(),
			BeneficiaryType:  "staff",
			PaymentMethod:    ledger.MethodBankTransfer,
			Currency:         "NGN",
			TrailBalance:     ledger.SideFor(entryType),
		}
		if entryType == ledger.EntryDebit {
			txn.DebitAmount = decimal.NewNullDecimal(decimal.NewFromInt(amount))
		} else {
			txn.CreditAmount = decimal.NewNullDecimal(decimal.NewFromInt(amount))
		}
		return txn
	}

	first := []*ledger.Transaction{
		makeTxn(ledger.EntryDebit, 10000),
		makeTxn(ledger.EntryCredit, 10000),
	}
	require.NoError(t, repo.ReplaceForPayment(ctx, paymentID, first))

	stored, err := repo.FindByPayment(ctx, paymentID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, ledger.EntryDebit, stored[0].Type, "generation order preserved")
	assert.True(t, stored[0].DebitAmount.Valid)
	assert.False(t, stored[0].CreditAmount.Valid)
	assert.True(t, stored[1].CreditAmount.Valid)

	// Regeneration replaces the previous run.
	second := []*ledger.Transaction{makeTxn(ledger.EntryDebit, 500)}
	require.NoError(t, repo.ReplaceForPayment(ctx, paymentID, second))

	stored, err = repo.FindByPayment(ctx, paymentID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].Amount.Equal(decimal.NewFromInt(500)))
}

func TestGormJournalTypeRepository_Catalog(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewGormJournalTypeRepository(db)

	vat, err := ledger.NewJournalType("VAT", 1, ledger.BaseTaxable, ledger.RatePercent)
	require.NoError(t, err)
	vat.Rate = decimal.NewFromFloat(7.5)
	vat.IsVAT = true
	vat.Category = "third-party"

	wht, err := ledger.NewJournalType("Withholding Tax", 2, ledger.BaseGross, ledger.RatePercent)
	require.NoError(t, err)
	wht.Rate = decimal.NewFromInt(10)

	require.NoError(t, repo.Save(ctx, vat))
	require.NoError(t, repo.Save(ctx, wht))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	thirdParty, err := repo.FindByCategory(ctx, "third-party")
	require.NoError(t, err)
	require.Len(t, thirdParty, 2, "default-category rules apply to every payment type")

	found, err := repo.FindByID(ctx, vat.ID)
	require.NoError(t, err)
	assert.True(t, found.IsVAT)
	assert.True(t, found.Rate.Equal(decimal.NewFromFloat(7.5)))
}
