package ledger

import (
	"github.com/dms/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BaseSelector determines which computed payment amount a journal type
// rates against
type BaseSelector string

const (
	BaseGross      BaseSelector = "GROSS"
	BaseTaxable    BaseSelector = "TAXABLE"
	BaseNonTaxable BaseSelector = "NON-TAXABLE"
	BaseCustom     BaseSelector = "CUSTOM"
)

// IsValid checks if the selector is a valid BaseSelector
func (b BaseSelector) IsValid() bool {
	switch b {
	case BaseGross, BaseTaxable, BaseNonTaxable, BaseCustom:
		return true
	}
	return false
}

// String returns the string representation of BaseSelector
func (b BaseSelector) String() string {
	return string(b)
}

// RateType determines how a journal type's amount is computed
type RateType string

const (
	RatePercent RateType = "percent"
	RateFixed   RateType = "fixed"
)

// IsValid checks if the type is a valid RateType
func (r RateType) IsValid() bool {
	switch r {
	case RatePercent, RateFixed:
		return true
	}
	return false
}

// String returns the string representation of RateType
func (r RateType) String() string {
	return string(r)
}

// RoundingMode determines how a computed transaction amount is rounded
type RoundingMode string

const (
	RoundingNone    RoundingMode = ""
	RoundingHalfUp  RoundingMode = "half_up"
	RoundingBankers RoundingMode = "bankers"
)

// IsValid checks if the mode is a valid RoundingMode
func (r RoundingMode) IsValid() bool {
	switch r {
	case RoundingNone, RoundingHalfUp, RoundingBankers:
		return true
	}
	return false
}

// String returns the string representation of RoundingMode
func (r RoundingMode) String() string {
	return string(r)
}

// JournalKind determines whether a journal type deducts from or adds to
// the payment
type JournalKind string

const (
	KindDeduct JournalKind = "deduct"
	KindAdd    JournalKind = "add"
	KindInfo   JournalKind = "info"
)

// String returns the string representation of JournalKind
func (k JournalKind) String() string {
	return string(k)
}

// EntryType is the debit/credit side of a transaction
type EntryType string

const (
	EntryDebit  EntryType = "debit"
	EntryCredit EntryType = "credit"
	EntryBoth   EntryType = "both"
)

// IsValid checks if the type is a valid EntryType
func (e EntryType) IsValid() bool {
	switch e {
	case EntryDebit, EntryCredit, EntryBoth:
		return true
	}
	return false
}

// String returns the string representation of EntryType
func (e EntryType) String() string {
	return string(e)
}

// Opposite returns the opposing entry type. Both has no opposite and is
// returned unchanged.
func (e EntryType) Opposite() EntryType {
	switch e {
	case EntryDebit:
		return EntryCredit
	case EntryCredit:
		return EntryDebit
	}
	return e
}

// Benefactor determines whose identity is attached to a transaction as
// beneficiary
type Benefactor string

const (
	BenefactorEntity   Benefactor = "entity"
	BenefactorResource Benefactor = "resource"
)

// String returns the string representation of Benefactor
func (b Benefactor) String() string {
	return string(b)
}

// CategoryDefault matches any payment type when set as a journal type's category
const CategoryDefault = "default"

// PostingRules holds per-journal-type posting behavior flags
type PostingRules struct {
	CreateContraEntries bool `json:"create_contra_entries"`
}

// JournalType is a rule definition for transaction generation. Rules are
// evaluated in ascending precedence order; ties keep catalog order.
type JournalType struct {
	shared.BaseEntity
	Name             string          `json:"name"`
	Precedence       int             `json:"precedence"`
	BaseSelector     BaseSelector    `json:"base_selector"`
	RateType         RateType        `json:"rate_type"`
	Rate             decimal.Decimal `json:"rate"`
	FixedAmount      decimal.Decimal `json:"fixed_amount"`
	Rounding         RoundingMode    `json:"rounding"`
	Kind             JournalKind     `json:"kind"`
	Type             EntryType       `json:"type"`
	Benefactor       Benefactor      `json:"benefactor"`
	EntityID         uuid.UUID       `json:"entity_id"`
	LedgerID         uuid.UUID       `json:"ledger_id"`
	ChartOfAccountID uuid.UUID       `json:"chart_of_account_id"`
	IsVAT            bool            `json:"is_vat"`
	Category         string          `json:"category"`
	PostingRules     PostingRules    `json:"posting_rules"`
	Flag             string          `json:"flag"`
}

// NewJournalType creates a new journal type rule
func NewJournalType(name string, precedence int, selector BaseSelector, rateType RateType) (*JournalType, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_JOURNAL_TYPE_NAME", "Journal type name cannot be empty")
	}
	if !selector.IsValid() {
		return nil, shared.NewDomainError("INVALID_BASE_SELECTOR", "Base selector is not valid")
	}
	if !rateType.IsValid() {
		return nil, shared.NewDomainError("INVALID_RATE_TYPE", "Rate type is not valid")
	}

	return &JournalType{
		BaseEntity:   shared.NewBaseEntity(),
		Name:         name,
		Precedence:   precedence,
		BaseSelector: selector,
		RateType:     rateType,
		Category:     CategoryDefault,
	}, nil
}

// AppliesTo returns true if the journal type's category matches the payment
// type, or is the default category
func (j *JournalType) AppliesTo(paymentType PaymentType) bool {
	return j.Category == string(paymentType) || j.Category == CategoryDefault
}
