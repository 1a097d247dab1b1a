package ledger

import (
	"github.com/dms/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TrailBalanceSide is the trial-balance column a transaction lands in.
// Left corresponds to debit.
type TrailBalanceSide string

const (
	TrailLeft  TrailBalanceSide = "left"
	TrailRight TrailBalanceSide = "right"
)

// String returns the string representation of TrailBalanceSide
func (s TrailBalanceSide) String() string {
	return string(s)
}

// SideFor returns the trial-balance side for an entry type
func SideFor(entryType EntryType) TrailBalanceSide {
	if entryType == EntryDebit {
		return TrailLeft
	}
	return TrailRight
}

// Transaction is a derived ledger entry produced by transaction generation.
// Exactly one of DebitAmount/CreditAmount is set, mirroring Amount; both are
// nullable because transactions loaded from upstream systems may predate the
// split columns, in which case trial balancing falls back to Amount.
type Transaction struct {
	shared.BaseEntity
	JournalTypeID    uuid.UUID           `json:"journal_type_id"`
	PaymentID        uuid.UUID           `json:"payment_id"`
	ChartOfAccountID uuid.UUID           `json:"chart_of_account_id"`
	LedgerID         uuid.UUID           `json:"ledger_id"`
	Type             EntryType           `json:"type"`
	Amount           decimal.Decimal     `json:"amount"`
	DebitAmount      decimal.NullDecimal `json:"debit_amount"`
	CreditAmount     decimal.NullDecimal `json:"credit_amount"`
	Narration        string              `json:"narration"`
	BeneficiaryID    uuid.UUID           `json:"beneficiary_id"`
	BeneficiaryType  string              `json:"beneficiary_type"`
	PaymentMethod    PaymentMethod       `json:"payment_method"`
	Currency         string              `json:"currency"`
	TrailBalance     TrailBalanceSide    `json:"trail_balance"`
	IsContra         bool                `json:"is_contra"`
	Flag             string              `json:"flag"`
}

// IsDebit returns true for debit entries
func (t *Transaction) IsDebit() bool {
	return t.Type == EntryDebit
}

// DisplayDebit returns the debit amount for display, falling back to Amount
// when the split column was never populated
func (t *Transaction) DisplayDebit() decimal.Decimal {
	if t.DebitAmount.Valid {
		return t.DebitAmount.Decimal
	}
	return t.Amount
}

// DisplayCredit returns the credit amount for display, falling back to
// Amount when the split column was never populated
func (t *Transaction) DisplayCredit() decimal.Decimal {
	if t.CreditAmount.Valid {
		return t.CreditAmount.Decimal
	}
	return t.Amount
}
