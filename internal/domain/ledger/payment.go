package ledger

import (
	"github.com/dms/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentType distinguishes staff payments from third-party payments
type PaymentType string

const (
	PaymentStaff      PaymentType = "staff"
	PaymentThirdParty PaymentType = "third-party"
)

// IsValid checks if the type is a valid PaymentType
func (p PaymentType) IsValid() bool {
	switch p {
	case PaymentStaff, PaymentThirdParty:
		return true
	}
	return false
}

// String returns the string representation of PaymentType
func (p PaymentType) String() string {
	return string(p)
}

// PaymentMethod represents how a payment is settled
type PaymentMethod string

const (
	MethodBankTransfer PaymentMethod = "bank-transfer"
	MethodCheque       PaymentMethod = "cheque"
	MethodCash         PaymentMethod = "cash"
)

// DefaultPaymentMethod is used when a payment carries no explicit method
const DefaultPaymentMethod = MethodBankTransfer

// IsValid checks if the method is a valid PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodBankTransfer, MethodCheque, MethodCash:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// PaymentStatus represents the posting lifecycle of a payment
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPosted  PaymentStatus = "POSTED"
	PaymentStatusVoided  PaymentStatus = "VOIDED"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPosted, PaymentStatusVoided:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// Expenditure is the optional third-party expenditure attached to a payment.
// Its admin fee (or, failing that, sub total) is the taxable base for VAT
// uplift.
type Expenditure struct {
	shared.BaseEntity
	PaymentID      uuid.UUID       `json:"payment_id"`
	AdminFeeAmount decimal.Decimal `json:"admin_fee_amount"`
	SubTotalAmount decimal.Decimal `json:"sub_total_amount"`
	Currency       string          `json:"currency"`
}

// TaxableBase returns admin fee when positive, otherwise the sub total
func (e *Expenditure) TaxableBase() decimal.Decimal {
	if e.AdminFeeAmount.IsPositive() {
		return e.AdminFeeAmount
	}
	return e.SubTotalAmount
}

// Payment represents an approved payment aggregate root awaiting posting
type Payment struct {
	shared.BaseAggregateRoot
	Type                PaymentType     `json:"type"`
	TotalApprovedAmount decimal.Decimal `json:"total_approved_amount"`
	Narration           string          `json:"narration"`
	ResourceID          uuid.UUID       `json:"resource_id"`
	ResourceType        string          `json:"resource_type"`
	PaymentMethod       PaymentMethod   `json:"payment_method"`
	Currency            string          `json:"currency"`
	Expenditure         *Expenditure    `json:"expenditure,omitempty"`
	Status              PaymentStatus   `json:"status"`
}

// NewPayment creates a new payment
func NewPayment(
	paymentType PaymentType,
	totalApprovedAmount decimal.Decimal,
	narration string,
	resourceID uuid.UUID,
	resourceType string,
) (*Payment, error) {
	if !paymentType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_TYPE", "Payment type is not valid")
	}
	if totalApprovedAmount.LessThan(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Approved amount cannot be negative")
	}
	if narration == "" {
		return nil, shared.NewDomainError("INVALID_NARRATION", "Payment narration cannot be empty")
	}

	payment := &Payment{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		Type:                paymentType,
		TotalApprovedAmount: totalApprovedAmount,
		Narration:           narration,
		ResourceID:          resourceID,
		ResourceType:        resourceType,
		Status:              PaymentStatusPending,
	}

	payment.AddDomainEvent(NewPaymentCreatedEvent(payment))

	return payment, nil
}

// AttachExpenditure links a third-party expenditure to the payment
func (p *Payment) AttachExpenditure(expenditure *Expenditure) {
	if expenditure != nil {
		expenditure.PaymentID = p.ID
	}
	p.Expenditure = expenditure
}

// EffectivePaymentMethod returns the payment's method, defaulting to bank transfer
func (p *Payment) EffectivePaymentMethod() PaymentMethod {
	if p.PaymentMethod == "" {
		return DefaultPaymentMethod
	}
	return p.PaymentMethod
}

// EffectiveCurrency returns the attached expenditure's currency when present,
// otherwise the default currency
func (p *Payment) EffectiveCurrency() string {
	if p.Expenditure != nil && p.Expenditure.Currency != "" {
		return p.Expenditure.Currency
	}
	return p.OwnCurrency()
}

// OwnCurrency returns the payment's own currency, ignoring any attached
// expenditure, defaulting to NGN
func (p *Payment) OwnCurrency() string {
	if p.Currency == "" {
		return "NGN"
	}
	return p.Currency
}

// MarkPosted transitions the payment to posted
func (p *Payment) MarkPosted() error {
	if p.Status == PaymentStatusVoided {
		return shared.NewDomainError("INVALID_STATE", "Cannot post a voided payment")
	}
	p.Status = PaymentStatusPosted
	p.AddDomainEvent(NewPaymentPostedEvent(p))
	return nil
}
