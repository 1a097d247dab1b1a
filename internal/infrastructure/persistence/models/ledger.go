package models

import (
	"github.com/dms/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentModel is the persistence model for the Payment aggregate root.
type PaymentModel struct {
	AggregateModel
	Type                ledger.PaymentType   `gorm:"type:varchar(20);not null;index"`
	TotalApprovedAmount decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Narration           string               `gorm:"type:text"`
	ResourceID          uuid.UUID            `gorm:"type:uuid;not null;index"`
	ResourceType        string               `gorm:"type:varchar(50);not null"`
	PaymentMethod       ledger.PaymentMethod `gorm:"type:varchar(30);not null;default:'bank-transfer'"`
	Currency            string               `gorm:"type:varchar(3);not null;default:'NGN'"`
	Status              ledger.PaymentStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Expenditure         *ExpenditureModel    `gorm:"foreignKey:PaymentID"`
}

// TableName returns the table name for PaymentModel.
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the model to a domain Payment.
func (m *PaymentModel) ToDomain() *ledger.Payment {
	payment := &ledger.Payment{
		Type:                m.Type,
		TotalApprovedAmount: m.TotalApprovedAmount,
		Narration:           m.Narration,
		ResourceID:          m.ResourceID,
		ResourceType:        m.ResourceType,
		PaymentMethod:       m.PaymentMethod,
		Currency:            m.Currency,
		Status:              m.Status,
	}
	m.PopulateAggregateRoot(&payment.BaseAggregateRoot)
	if m.Expenditure != nil {
		payment.Expenditure = m.Expenditure.ToDomain()
	}
	return payment
}

// PaymentModelFromDomain builds a persistence model from a domain Payment.
func PaymentModelFromDomain(payment *ledger.Payment) *PaymentModel {
	model := &PaymentModel{
		Type:                payment.Type,
		TotalApprovedAmount: payment.TotalApprovedAmount,
		Narration:           payment.Narration,
		ResourceID:          payment.ResourceID,
		ResourceType:        payment.ResourceType,
		PaymentMethod:       payment.PaymentMethod,
		Currency:            payment.Currency,
		Status:              payment.Status,
	}
	model.FromDomainAggregateRoot(payment.BaseAggregateRoot)
	if payment.Expenditure != nil {
		model.Expenditure = ExpenditureModelFromDomain(payment.Expenditure)
	}
	return model
}

// ExpenditureModel is the persistence model for payment expenditures.
type ExpenditureModel struct {
	BaseModel
	PaymentID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	AdminFeeAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SubTotalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Currency       string          `gorm:"type:varchar(3);not null;default:'NGN'"`
}

// TableName returns the table name for ExpenditureModel.
func (ExpenditureModel) TableName() string {
	return "expenditures"
}

// ToDomain converts the model to a domain Expenditure.
func (m *ExpenditureModel) ToDomain() *ledger.Expenditure {
	return &ledger.Expenditure{
		BaseEntity:     m.BaseModel.ToDomain(),
		PaymentID:      m.PaymentID,
		AdminFeeAmount: m.AdminFeeAmount,
		SubTotalAmount: m.SubTotalAmount,
		Currency:       m.Currency,
	}
}

// ExpenditureModelFromDomain builds a persistence model from a domain
// Expenditure.
func ExpenditureModelFromDomain(expenditure *ledger.Expenditure) *ExpenditureModel {
	model := &ExpenditureModel{
		PaymentID:      expenditure.PaymentID,
		AdminFeeAmount: expenditure.AdminFeeAmount,
		SubTotalAmount: expenditure.SubTotalAmount,
		Currency:       expenditure.Currency,
	}
	model.FromDomainBaseEntity(expenditure.BaseEntity)
	return model
}

// JournalTypeModel is the persistence model for journal-type rules.
type JournalTypeModel struct {
	BaseModel
	Name                string              `gorm:"type:varchar(200);not null"`
	Precedence          int                 `gorm:"not null;default:0;index"`
	BaseSelector        ledger.BaseSelector `gorm:"type:varchar(20);not null"`
	RateType            ledger.RateType     `gorm:"type:varchar(20);not null"`
	Rate                decimal.Decimal     `gorm:"type:decimal(9,4);not null;default:0"`
	FixedAmount         decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Rounding            ledger.RoundingMode `gorm:"type:varchar(20)"`
	Kind                ledger.JournalKind  `gorm:"type:varchar(20);not null"`
	Type                ledger.EntryType    `gorm:"type:varchar(10);not null"`
	Benefactor          ledger.Benefactor   `gorm:"type:varchar(20);not null;default:'resource'"`
	EntityID            uuid.UUID           `gorm:"type:uuid"`
	LedgerID            uuid.UUID           `gorm:"type:uuid;not null"`
	ChartOfAccountID    uuid.UUID           `gorm:"type:uuid;not null"`
	IsVAT               bool                `gorm:"not null;default:false"`
	Category            string              `gorm:"type:varchar(50);not null;default:'default';index"`
	CreateContraEntries bool                `gorm:"not null;default:false"`
	Flag                string              `gorm:"type:varchar(50)"`
}

// TableName returns the table name for JournalTypeModel.
func (JournalTypeModel) TableName() string {
	return "journal_types"
}

// ToDomain converts the model to a domain JournalType.
func (m *JournalTypeModel) ToDomain() *ledger.JournalType {
	return &ledger.JournalType{
		BaseEntity:       m.BaseModel.ToDomain(),
		Name:             m.Name,
		Precedence:       m.Precedence,
		BaseSelector:     m.BaseSelector,
		RateType:         m.RateType,
		Rate:             m.Rate,
		FixedAmount:      m.FixedAmount,
		Rounding:         m.Rounding,
		Kind:             m.Kind,
		Type:             m.Type,
		Benefactor:       m.Benefactor,
		EntityID:         m.EntityID,
		LedgerID:         m.LedgerID,
		ChartOfAccountID: m.ChartOfAccountID,
		IsVAT:            m.IsVAT,
		Category:         m.Category,
		PostingRules:     ledger.PostingRules{CreateContraEntries: m.CreateContraEntries},
		Flag:             m.Flag,
	}
}

// JournalTypeModelFromDomain builds a persistence model from a domain
// JournalType.
func JournalTypeModelFromDomain(journalType *ledger.JournalType) *JournalTypeModel {
	model := &JournalTypeModel{
		Name:                journalType.Name,
		Precedence:          journalType.Precedence,
		BaseSelector:        journalType.BaseSelector,
		RateType:            journalType.RateType,
		Rate:                journalType.Rate,
		FixedAmount:         journalType.FixedAmount,
		Rounding:            journalType.Rounding,
		Kind:                journalType.Kind,
		Type:                journalType.Type,
		Benefactor:          journalType.Benefactor,
		EntityID:            journalType.EntityID,
		LedgerID:            journalType.LedgerID,
		ChartOfAccountID:    journalType.ChartOfAccountID,
		IsVAT:               journalType.IsVAT,
		Category:            journalType.Category,
		CreateContraEntries: journalType.PostingRules.CreateContraEntries,
		Flag:                journalType.Flag,
	}
	model.FromDomainBaseEntity(journalType.BaseEntity)
	return model
}

// TransactionModel is the persistence model for generated ledger
// transactions. DebitAmount and CreditAmount are nullable: exactly one is
// set on rows written by the generator, and legacy rows may have neither.
type TransactionModel struct {
	BaseModel
	JournalTypeID    uuid.UUID               `gorm:"type:uuid;not null;index"`
	PaymentID        uuid.UUID               `gorm:"type:uuid;not null;index"`
	ChartOfAccountID uuid.UUID               `gorm:"type:uuid;not null"`
	LedgerID         uuid.UUID               `gorm:"type:uuid;not null"`
	Type             ledger.EntryType        `gorm:"type:varchar(10);not null"`
	Amount           decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	DebitAmount      decimal.NullDecimal     `gorm:"type:decimal(18,4)"`
	CreditAmount     decimal.NullDecimal     `gorm:"type:decimal(18,4)"`
	Narration        string                  `gorm:"type:text"`
	BeneficiaryID    uuid.UUID               `gorm:"type:uuid"`
	BeneficiaryType  string                  `gorm:"type:varchar(50)"`
	PaymentMethod    ledger.PaymentMethod    `gorm:"type:varchar(30);not null;default:'bank-transfer'"`
	Currency         string                  `gorm:"type:varchar(3);not null;default:'NGN'"`
	TrailBalance     ledger.TrailBalanceSide `gorm:"type:varchar(10);not null"`
	IsContra         bool                    `gorm:"not null;default:false"`
	Flag             string                  `gorm:"type:varchar(50)"`
	Position         int                     `gorm:"not null;default:0;index"`
}

// TableName returns the table name for TransactionModel.
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts the model to a domain Transaction.
func (m *TransactionModel) ToDomain() *ledger.Transaction {
	return &ledger.Transaction{
		BaseEntity:       m.BaseModel.ToDomain(),
		JournalTypeID:    m.JournalTypeID,
		PaymentID:        m.PaymentID,
		ChartOfAccountID: m.ChartOfAccountID,
		LedgerID:         m.LedgerID,
		Type:             m.Type,
		Amount:           m.Amount,
		DebitAmount:      m.DebitAmount,
		CreditAmount:     m.CreditAmount,
		Narration:        m.Narration,
		BeneficiaryID:    m.BeneficiaryID,
		BeneficiaryType:  m.BeneficiaryType,
		PaymentMethod:    m.PaymentMethod,
		Currency:         m.Currency,
		TrailBalance:     m.TrailBalance,
		IsContra:         m.IsContra,
		Flag:             m.Flag,
	}
}

// TransactionModelFromDomain builds a persistence model from a domain
// Transaction. Position preserves the generation order within the payment.
func TransactionModelFromDomain(transaction *ledger.Transaction, position int) *TransactionModel {
	model := &TransactionModel{
		JournalTypeID:    transaction.JournalTypeID,
		PaymentID:        transaction.PaymentID,
		ChartOfAccountID: transaction.ChartOfAccountID,
		LedgerID:         transaction.LedgerID,
		Type:             transaction.Type,
		Amount:           transaction.Amount,
		DebitAmount:      transaction.DebitAmount,
		CreditAmount:     transaction.CreditAmount,
		Narration:        transaction.Narration,
		BeneficiaryID:    transaction.BeneficiaryID,
		BeneficiaryType:  transaction.BeneficiaryType,
		PaymentMethod:    transaction.PaymentMethod,
		Currency:         transaction.Currency,
		TrailBalance:     transaction.TrailBalance,
		IsContra:         transaction.IsContra,
		Flag:             transaction.Flag,
		Position:         position,
	}
	model.FromDomainBaseEntity(transaction.BaseEntity)
	return model
}
