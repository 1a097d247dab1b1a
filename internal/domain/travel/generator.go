package travel

import (
	"fmt"
	"time"

	"github.com/dms/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// IdentifierFunc allocates an opaque unique token for a derived expense.
// Injectable so tests can produce deterministic identifiers.
type IdentifierFunc func() string

// ExpenseGenerator derives an ordered list of expense line items from a
// trip, its category's allowance rules, and the remuneration catalog.
// Construction fails fast on missing trip dates, a missing category, or an
// unknown allowance label; derivation itself never fails. An allowance
// that resolves but has no remuneration for the staff grade level emits no
// expense ("no configured rate means no charge").
type ExpenseGenerator struct {
	trip          *Trip
	gradeLevelID  uuid.UUID
	allowances    *AllowanceIndex
	remunerations *RemunerationIndex
	newIdentifier IdentifierFunc
	logger        *zap.Logger
}

// GeneratorOption configures an ExpenseGenerator
type GeneratorOption func(*ExpenseGenerator)

// WithIdentifierFunc overrides identifier allocation
func WithIdentifierFunc(fn IdentifierFunc) GeneratorOption {
	return func(g *ExpenseGenerator) {
		if fn != nil {
			g.newIdentifier = fn
		}
	}
}

// WithGeneratorLogger attaches a logger for derivation diagnostics
func WithGeneratorLogger(logger *zap.Logger) GeneratorOption {
	return func(g *ExpenseGenerator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewExpenseGenerator builds a generator for one trip. The remuneration
// catalog and the category's allowance list are treated as read-only.
func NewExpenseGenerator(
	trip *Trip,
	remunerations []*Remuneration,
	gradeLevelID uuid.UUID,
	opts ...GeneratorOption,
) (*ExpenseGenerator, error) {
	if trip == nil {
		return nil, shared.NewDomainError("INVALID_TRIP", "Trip cannot be nil")
	}
	if !trip.HasDates() {
		return nil, shared.NewDomainError("INVALID_TRIP_DATES", "Trip departure and return dates are required")
	}
	if trip.Category == nil {
		return nil, shared.NewDomainError("MISSING_TRIP_CATEGORY", "Trip has no resolved category")
	}
	if gradeLevelID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_GRADE_LEVEL", "Grade level ID cannot be empty")
	}

	idx, err := NewAllowanceIndex(trip.Category.Allowances)
	if err != nil {
		return nil, err
	}

	g := &ExpenseGenerator{
		trip:          trip,
		gradeLevelID:  gradeLevelID,
		allowances:    idx,
		remunerations: NewRemunerationIndex(remunerations),
		newIdentifier: uuid.NewString,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Derive produces the ordered expense list. Phase order, and expense order
// within a phase, is load-bearing: downstream totals and display depend on
// list position.
func (g *ExpenseGenerator) Derive() []*Expense {
	startDate := g.trip.DepartureDate.AddDate(0, 0, -1)
	endDate := g.trip.ReturnDate.AddDate(0, 0, 1)

	var expenses []*Expense
	expenses = append(expenses, g.deriveTransport(startDate, endDate)...)
	expenses = append(expenses, g.deriveIntracity()...)
	expenses = append(expenses, g.deriveAccommodation(startDate, endDate)...)
	return expenses
}

// deriveTransport emits the travel-leg expenses around the buffer dates
func (g *ExpenseGenerator) deriveTransport(startDate, endDate time.Time) []*Expense {
	if g.trip.Category.Mode == TransportFlight {
		return g.deriveFlightLegs(startDate, endDate)
	}
	return g.deriveRoadLegs(startDate, endDate)
}

func (g *ExpenseGenerator) deriveFlightLegs(startDate, endDate time.Time) []*Expense {
	var expenses []*Expense

	same := g.allowances.ByCityPair(g.trip.DepartureCityID, g.trip.AirportID)

	var allowance *Allowance
	if g.trip.DepartureCityID != g.trip.AirportID || (same != nil && same.Label == LabelYenagoaAirport) {
		allowance = g.allowances.ByCityPair(g.trip.DepartureCityID, g.trip.AirportID)
	} else {
		allowance = g.allowances.ByLabel(LabelAirportShuttle)
	}

	expenses = append(expenses, g.flightPair(allowance, startDate, endDate)...)

	if g.trip.Route == RouteReturn {
		shuttle := g.allowances.ByLabel(LabelAirportShuttle)
		expenses = append(expenses, g.flightPair(shuttle, startDate, endDate)...)
	}

	return expenses
}

// flightPair emits a takeoff/land pair for one resolved airport allowance
func (g *ExpenseGenerator) flightPair(allowance *Allowance, startDate, endDate time.Time) []*Expense {
	if allowance == nil {
		g.logger.Debug("no airport allowance resolved, skipping flight legs",
			zap.String("trip_id", g.trip.ID.String()))
		return nil
	}

	var expenses []*Expense
	if takeoff := g.buildExpense(allowance, ExpenseFlightTakeoff, startDate, startDate, 1, allowance.Name); takeoff != nil {
		expenses = append(expenses, takeoff)
	}
	if land := g.buildExpense(allowance, ExpenseFlightLand, endDate, endDate, 1, allowance.Name+" (Return)"); land != nil {
		expenses = append(expenses, land)
	}
	return expenses
}

func (g *ExpenseGenerator) deriveRoadLegs(startDate, endDate time.Time) []*Expense {
	allowance := g.allowances.ByCityPair(g.trip.DepartureCityID, g.trip.DestinationCityID)
	if allowance == nil {
		g.logger.Debug("no road allowance for city pair, skipping transport phase",
			zap.String("trip_id", g.trip.ID.String()))
		return nil
	}

	var expenses []*Expense
	if leg := g.buildExpense(allowance, ExpenseRoadTrip, startDate, startDate, 1, allowance.Name); leg != nil {
		expenses = append(expenses, leg)
	}
	if g.trip.Route == RouteReturn {
		if leg := g.buildExpense(allowance, ExpenseRoadTrip, endDate, endDate, 1, allowance.Name+" (Return)"); leg != nil {
			expenses = append(expenses, leg)
		}
	}
	return expenses
}

// deriveIntracity emits the intracity shuttle expense spanning the actual
// trip dates (no buffer days)
func (g *ExpenseGenerator) deriveIntracity() []*Expense {
	allowance := g.allowances.ByLabel(LabelIntracity)
	if allowance == nil {
		return nil
	}

	num := daysBetween(g.trip.DepartureDate, g.trip.ReturnDate) + 1
	description := fmt.Sprintf("Intracity Shuttle for %d days", num)

	expense := g.buildExpense(allowance, ExpenseIntracity, g.trip.DepartureDate, g.trip.ReturnDate, num, description)
	if expense == nil {
		return nil
	}
	return []*Expense{expense}
}

// deriveAccommodation emits the per-diem or out-of-pocket expense over the
// buffered date range
func (g *ExpenseGenerator) deriveAccommodation(startDate, endDate time.Time) []*Expense {
	if g.trip.Category.Accommodation == AccommodationNonResidence {
		allowance := g.allowances.ByID(g.trip.PerDiemCategoryID)
		if allowance == nil {
			return nil
		}

		numOfDays := daysBetween(startDate, endDate) + 1
		rate := g.remunerations.Lookup(allowance.ID, g.gradeLevelID, g.trip.DepartureDate)
		if rate == nil {
			return nil
		}
		description := fmt.Sprintf("Per Diem for %d nights at %s per night!", numOfDays, rate.AmountMoney().Format())

		expense := g.buildExpense(allowance, ExpensePerDiem, startDate, endDate, numOfDays, description)
		if expense == nil {
			return nil
		}
		return []*Expense{expense}
	}

	allowance := g.allowances.ByLabel(LabelOutOfPocket)
	if allowance == nil {
		return nil
	}

	numOfDays := daysBetween(startDate, endDate)
	rate := g.remunerations.Lookup(allowance.ID, g.gradeLevelID, g.trip.DepartureDate)
	if rate == nil {
		return nil
	}
	description := fmt.Sprintf("Out of Pocket Allowance for %d nights at NGN%s per day", numOfDays, rate.Amount.StringFixed(2))

	expense := g.buildExpense(allowance, ExpenseWallet, startDate, endDate, numOfDays, description)
	if expense == nil {
		return nil
	}
	return []*Expense{expense}
}

// buildExpense is the shared construction helper used by every phase. A
// missing remuneration for (allowance, grade level) yields nil: that leg
// simply emits nothing.
func (g *ExpenseGenerator) buildExpense(
	allowance *Allowance,
	expenseType ExpenseType,
	startDate, endDate time.Time,
	noOfDays int,
	description string,
) *Expense {
	remuneration := g.remunerations.Lookup(allowance.ID, g.gradeLevelID, g.trip.DepartureDate)
	if remuneration == nil {
		g.logger.Debug("no remuneration for allowance at grade level, skipping",
			zap.String("allowance_id", allowance.ID.String()),
			zap.String("grade_level_id", g.gradeLevelID.String()))
		return nil
	}

	total := remuneration.Amount.Mul(decimal.NewFromInt(int64(noOfDays)))

	return &Expense{
		BaseEntity:           shared.NewBaseEntity(),
		Identifier:           g.newIdentifier(),
		TripID:               g.trip.ID,
		ParentID:             allowance.ParentID,
		AllowanceID:          allowance.ID,
		RemunerationID:       remuneration.ID,
		Type:                 expenseType,
		StartDate:            startDate,
		EndDate:              endDate,
		NoOfDays:             noOfDays,
		TotalDistanceCovered: g.trip.DistanceKM,
		UnitPrice:            remuneration.Amount,
		TotalAmountSpent:     total,
		Description:          description,
	}
}
