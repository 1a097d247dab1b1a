package ledger

import (
	"github.com/dms/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentCreatedEvent is raised when a new payment is created
type PaymentCreatedEvent struct {
	shared.BaseDomainEvent
	PaymentID uuid.UUID       `json:"payment_id"`
	Type      PaymentType     `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Narration string          `json:"narration"`
}

// EventType returns the event type name
func (e *PaymentCreatedEvent) EventType() string {
	return "PaymentCreated"
}

// NewPaymentCreatedEvent creates a new PaymentCreatedEvent
func NewPaymentCreatedEvent(payment *Payment) *PaymentCreatedEvent {
	return &PaymentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentCreated", "Payment", payment.ID),
		PaymentID:       payment.ID,
		Type:            payment.Type,
		Amount:          payment.TotalApprovedAmount,
		Narration:       payment.Narration,
	}
}

// PaymentPostedEvent is raised when a payment's transactions are posted
type PaymentPostedEvent struct {
	shared.BaseDomainEvent
	PaymentID uuid.UUID   `json:"payment_id"`
	Type      PaymentType `json:"type"`
}

// EventType returns the event type name
func (e *PaymentPostedEvent) EventType() string {
	return "PaymentPosted"
}

// NewPaymentPostedEvent creates a new PaymentPostedEvent
func NewPaymentPostedEvent(payment *Payment) *PaymentPostedEvent {
	return &PaymentPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentPosted", "Payment", payment.ID),
		PaymentID:       payment.ID,
		Type:            payment.Type,
	}
}

// TransactionsGeneratedEvent is raised when transaction generation completes
// for a payment
type TransactionsGeneratedEvent struct {
	shared.BaseDomainEvent
	PaymentID        uuid.UUID       `json:"payment_id"`
	PaymentType      PaymentType     `json:"payment_type"`
	TransactionCount int             `json:"transaction_count"`
	TotalDebits      decimal.Decimal `json:"total_debits"`
	TotalCredits     decimal.Decimal `json:"total_credits"`
	IsBalanced       bool            `json:"is_balanced"`
}

// EventType returns the event type name
func (e *TransactionsGeneratedEvent) EventType() string {
	return "TransactionsGenerated"
}

// NewTransactionsGeneratedEvent creates a new TransactionsGeneratedEvent
func NewTransactionsGeneratedEvent(payment *Payment, transactions []*Transaction, balance *TrialBalanceResult) *TransactionsGeneratedEvent {
	return &TransactionsGeneratedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("TransactionsGenerated", "Payment", payment.ID),
		PaymentID:        payment.ID,
		PaymentType:      payment.Type,
		TransactionCount: len(transactions),
		TotalDebits:      balance.TotalDebits,
		TotalCredits:     balance.TotalCredits,
		IsBalanced:       balance.IsBalanced,
	}
}
