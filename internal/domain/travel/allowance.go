package travel

import (
	"fmt"

	"github.com/dms/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AllowanceLabel is a stable semantic key identifying well-known allowance
// rules. Labels form a closed set validated when the catalog is indexed, so
// a typo in rule configuration fails loudly instead of silently deriving
// zero expenses.
type AllowanceLabel string

const (
	LabelIntracity      AllowanceLabel = "intracity"
	LabelOutOfPocket    AllowanceLabel = "out-of-pocket-allowance"
	LabelAirportShuttle AllowanceLabel = "airport-shuttle"
	LabelYenagoaAirport AllowanceLabel = "yenagoa-airport"
)

// IsValid checks if the label is a member of the closed label set.
// The empty label is valid: most allowances are looked up by id or city
// pair and carry no label at all.
func (l AllowanceLabel) IsValid() bool {
	switch l {
	case "", LabelIntracity, LabelOutOfPocket, LabelAirportShuttle, LabelYenagoaAirport:
		return true
	}
	return false
}

// String returns the string representation of AllowanceLabel
func (l AllowanceLabel) String() string {
	return string(l)
}

// PaymentBasis determines how an allowance's day count is interpreted
type PaymentBasis string

const (
	BasisWeekdays PaymentBasis = "weekdays"
	BasisDays     PaymentBasis = "days"
	BasisNights   PaymentBasis = "nights"
	BasisFixed    PaymentBasis = "fixed"
	BasisKM       PaymentBasis = "km"
)

// IsValid checks if the basis is a valid PaymentBasis
func (b PaymentBasis) IsValid() bool {
	switch b {
	case BasisWeekdays, BasisDays, BasisNights, BasisFixed, BasisKM:
		return true
	}
	return false
}

// String returns the string representation of PaymentBasis
func (b PaymentBasis) String() string {
	return string(b)
}

// PaymentRoute determines whether an allowance pays once, per round trip,
// or is computed from trip attributes
type PaymentRoute string

const (
	RouteOneOff     PaymentRoute = "one-off"
	RouteRoundTrip  PaymentRoute = "round-trip"
	RouteComputable PaymentRoute = "computable"
)

// IsValid checks if the route is a valid PaymentRoute
func (r PaymentRoute) IsValid() bool {
	switch r {
	case RouteOneOff, RouteRoundTrip, RouteComputable:
		return true
	}
	return false
}

// String returns the string representation of PaymentRoute
func (r PaymentRoute) String() string {
	return string(r)
}

// Allowance is a rule definition for a travel entitlement. An allowance is
// resolved by id, by stable label, or by (departure, destination) city pair.
type Allowance struct {
	shared.BaseEntity
	Name              string         `json:"name"`
	Label             AllowanceLabel `json:"label"`
	ParentID          *uuid.UUID     `json:"parent_id"`
	DepartureCityID   uuid.UUID      `json:"departure_city_id"`
	DestinationCityID uuid.UUID      `json:"destination_city_id"`
	PaymentBasis      PaymentBasis   `json:"payment_basis"`
	PaymentRoute      PaymentRoute   `json:"payment_route"`
}

// NewAllowance creates a new allowance rule
func NewAllowance(name string, label AllowanceLabel, basis PaymentBasis, route PaymentRoute) (*Allowance, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ALLOWANCE_NAME", "Allowance name cannot be empty")
	}
	if !label.IsValid() {
		return nil, shared.NewDomainError("INVALID_ALLOWANCE_LABEL",
			fmt.Sprintf("Allowance label %q is not a known label", label))
	}
	if !basis.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_BASIS", "Payment basis is not valid")
	}
	if !route.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_ROUTE", "Payment route is not valid")
	}

	return &Allowance{
		BaseEntity:   shared.NewBaseEntity(),
		Name:         name,
		Label:        label,
		PaymentBasis: basis,
		PaymentRoute: route,
	}, nil
}

// SetCityPair scopes the allowance to a specific city pair
func (a *Allowance) SetCityPair(departureCityID, destinationCityID uuid.UUID) {
	a.DepartureCityID = departureCityID
	a.DestinationCityID = destinationCityID
}

// cityPair is the composite lookup key for city-pair-scoped allowances
type cityPair struct {
	departure   uuid.UUID
	destination uuid.UUID
}

// AllowanceIndex provides O(1) allowance lookups by id, label, and city
// pair. It is built once per derivation from a category's own allowance
// list; where two allowances share a key, the first in catalog order wins.
type AllowanceIndex struct {
	byID       map[uuid.UUID]*Allowance
	byLabel    map[AllowanceLabel]*Allowance
	byCityPair map[cityPair]*Allowance
}

// NewAllowanceIndex builds an index over the given allowances, validating
// every label against the closed label set
func NewAllowanceIndex(allowances []*Allowance) (*AllowanceIndex, error) {
	idx := &AllowanceIndex{
		byID:       make(map[uuid.UUID]*Allowance, len(allowances)),
		byLabel:    make(map[AllowanceLabel]*Allowance),
		byCityPair: make(map[cityPair]*Allowance),
	}

	for _, a := range allowances {
		if a == nil {
			continue
		}
		if !a.Label.IsValid() {
			return nil, shared.NewDomainError("INVALID_ALLOWANCE_LABEL",
				fmt.Sprintf("Allowance %q carries unknown label %q", a.Name, a.Label))
		}

		if _, ok := idx.byID[a.ID]; !ok {
			idx.byID[a.ID] = a
		}
		if a.Label != "" {
			if _, ok := idx.byLabel[a.Label]; !ok {
				idx.byLabel[a.Label] = a
			}
		}
		if a.DepartureCityID != uuid.Nil && a.DestinationCityID != uuid.Nil {
			key := cityPair{a.DepartureCityID, a.DestinationCityID}
			if _, ok := idx.byCityPair[key]; !ok {
				idx.byCityPair[key] = a
			}
		}
	}

	return idx, nil
}

// ByID returns the allowance with the given id, or nil
func (i *AllowanceIndex) ByID(id uuid.UUID) *Allowance {
	return i.byID[id]
}

// ByLabel returns the allowance carrying the given label, or nil
func (i *AllowanceIndex) ByLabel(label AllowanceLabel) *Allowance {
	return i.byLabel[label]
}

// ByCityPair returns the allowance scoped to the given city pair, or nil
func (i *AllowanceIndex) ByCityPair(departureCityID, destinationCityID uuid.UUID) *Allowance {
	return i.byCityPair[cityPair{departureCityID, destinationCityID}]
}

// Len returns the number of distinct allowances indexed by id
func (i *AllowanceIndex) Len() int {
	return len(i.byID)
}
