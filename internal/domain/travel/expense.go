package travel

import (
	"time"

	"github.com/dms/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseType classifies which derivation leg produced an expense
type ExpenseType string

const (
	ExpenseFlightTakeoff ExpenseType = "flight-takeoff"
	ExpenseFlightLand    ExpenseType = "flight-land"
	ExpenseRoadTrip      ExpenseType = "road-trip"
	ExpenseIntracity     ExpenseType = "intracity"
	ExpensePerDiem       ExpenseType = "per-diem"
	ExpenseWallet        ExpenseType = "wallet"
)

// IsValid checks if the type is a valid ExpenseType
func (t ExpenseType) IsValid() bool {
	switch t {
	case ExpenseFlightTakeoff, ExpenseFlightLand, ExpenseRoadTrip,
		ExpenseIntracity, ExpensePerDiem, ExpenseWallet:
		return true
	}
	return false
}

// String returns the string representation of ExpenseType
func (t ExpenseType) String() string {
	return string(t)
}

// Expense is a derived line item produced by expense derivation. Expenses
// are value objects: created once by the generator and never mutated by it.
type Expense struct {
	shared.BaseEntity
	Identifier           string          `json:"identifier"`
	TripID               uuid.UUID       `json:"trip_id"`
	ParentID             *uuid.UUID      `json:"parent_id"`
	AllowanceID          uuid.UUID       `json:"allowance_id"`
	RemunerationID       uuid.UUID       `json:"remuneration_id"`
	Type                 ExpenseType     `json:"type"`
	StartDate            time.Time       `json:"start_date"`
	EndDate              time.Time       `json:"end_date"`
	NoOfDays             int             `json:"no_of_days"`
	TotalDistanceCovered decimal.Decimal `json:"total_distance_covered"`
	UnitPrice            decimal.Decimal `json:"unit_price"`
	TotalAmountSpent     decimal.Decimal `json:"total_amount_spent"`
	Description          string          `json:"description"`
}
