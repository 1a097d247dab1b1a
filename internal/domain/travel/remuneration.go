package travel

import (
	"time"

	"github.com/dms/backend/internal/domain/shared"
	"github.com/dms/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Remuneration is the monetary rate for one (allowance, grade level) pair,
// valid within an optional date window
type Remuneration struct {
	shared.BaseEntity
	AllowanceID    uuid.UUID       `json:"allowance_id"`
	GradeLevelID   uuid.UUID       `json:"grade_level_id"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	StartDate      time.Time       `json:"start_date"`
	ExpirationDate time.Time       `json:"expiration_date"`
}

// NewRemuneration creates a new remuneration rate
func NewRemuneration(
	allowanceID uuid.UUID,
	gradeLevelID uuid.UUID,
	amount valueobject.Money,
	startDate time.Time,
	expirationDate time.Time,
) (*Remuneration, error) {
	if allowanceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ALLOWANCE", "Allowance ID cannot be empty")
	}
	if gradeLevelID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_GRADE_LEVEL", "Grade level ID cannot be empty")
	}
	if amount.Amount().LessThan(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Remuneration amount cannot be negative")
	}
	if !startDate.IsZero() && !expirationDate.IsZero() && expirationDate.Before(startDate) {
		return nil, shared.NewDomainError("INVALID_VALIDITY_WINDOW", "Expiration date cannot be before start date")
	}

	return &Remuneration{
		BaseEntity:     shared.NewBaseEntity(),
		AllowanceID:    allowanceID,
		GradeLevelID:   gradeLevelID,
		Amount:         amount.Amount(),
		Currency:       string(amount.Currency()),
		StartDate:      truncateToDate(startDate),
		ExpirationDate: truncateToDate(expirationDate),
	}, nil
}

// ActiveAt returns true if the remuneration's validity window covers the
// given date. Zero bounds are open-ended.
func (r *Remuneration) ActiveAt(date time.Time) bool {
	d := truncateToDate(date)
	if !r.StartDate.IsZero() && d.Before(r.StartDate) {
		return false
	}
	if !r.ExpirationDate.IsZero() && d.After(r.ExpirationDate) {
		return false
	}
	return true
}

// AmountMoney returns the rate as Money
func (r *Remuneration) AmountMoney() valueobject.Money {
	cur := valueobject.Currency(r.Currency)
	if cur == "" {
		cur = valueobject.DefaultCurrency
	}
	m, err := valueobject.NewMoney(r.Amount, cur)
	if err != nil {
		return valueobject.NewMoneyNGN(r.Amount)
	}
	return m
}

// rateKey is the composite lookup key for remuneration rates
type rateKey struct {
	allowanceID  uuid.UUID
	gradeLevelID uuid.UUID
}

// RemunerationIndex provides O(1) rate lookups by (allowance, grade level).
// When several rates share a key, the first in catalog order wins.
type RemunerationIndex struct {
	byKey map[rateKey][]*Remuneration
}

// NewRemunerationIndex builds an index over the given remuneration catalog
func NewRemunerationIndex(remunerations []*Remuneration) *RemunerationIndex {
	idx := &RemunerationIndex{byKey: make(map[rateKey][]*Remuneration, len(remunerations))}
	for _, r := range remunerations {
		if r == nil {
			continue
		}
		key := rateKey{r.AllowanceID, r.GradeLevelID}
		idx.byKey[key] = append(idx.byKey[key], r)
	}
	return idx
}

// Lookup returns the first remuneration for (allowanceID, gradeLevelID)
// whose validity window covers asOf, or nil if no rate is configured
func (i *RemunerationIndex) Lookup(allowanceID, gradeLevelID uuid.UUID, asOf time.Time) *Remuneration {
	for _, r := range i.byKey[rateKey{allowanceID, gradeLevelID}] {
		if r.ActiveAt(asOf) {
			return r
		}
	}
	return nil
}
