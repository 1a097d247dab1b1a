package travel

import (
	"fmt"
	"testing"
	"time"

	"github.com/dms/backend/internal/domain/shared"
	"github.com/dms/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type generatorFixture struct {
	trip          *Trip
	category      *TripCategory
	remunerations []*Remuneration
	gradeLevelID  uuid.UUID
}

func newFixture(t *testing.T, mode TransportMode, accommodation AccommodationType, route RouteMode) *generatorFixture {
	t.Helper()

	category, err := NewTripCategory("Standard Travel", mode, accommodation)
	require.NoError(t, err)

	gradeLevelID := uuid.New()
	trip, err := NewTrip(
		uuid.New(),
		gradeLevelID,
		uuid.New(),
		uuid.New(),
		route,
		date(2024, time.January, 1),
		date(2024, time.January, 5),
	)
	require.NoError(t, err)
	trip.AirportID = uuid.New()
	trip.AssignCategory(category)

	return &generatorFixture{
		trip:         trip,
		category:     category,
		gradeLevelID: gradeLevelID,
	}
}

// addAllowance attaches an allowance to the fixture category and registers a
// remuneration rate for the fixture grade level
func (f *generatorFixture) addAllowance(t *testing.T, name string, label AllowanceLabel, rate float64) *Allowance {
	t.Helper()

	allowance, err := NewAllowance(name, label, BasisDays, RouteComputable)
	require.NoError(t, err)
	f.category.AttachAllowance(allowance)

	if rate > 0 {
		f.addRate(t, allowance, rate)
	}
	return allowance
}

func (f *generatorFixture) addRate(t *testing.T, allowance *Allowance, rate float64) *Remuneration {
	t.Helper()

	rem, err := NewRemuneration(
		allowance.ID,
		f.gradeLevelID,
		valueobject.NewMoneyNGNFromFloat(rate),
		time.Time{},
		time.Time{},
	)
	require.NoError(t, err)
	f.remunerations = append(f.remunerations, rem)
	return rem
}

func (f *generatorFixture) derive(t *testing.T, opts ...GeneratorOption) []*Expense {
	t.Helper()
	gen, err := NewExpenseGenerator(f.trip, f.remunerations, f.gradeLevelID, opts...)
	require.NoError(t, err)
	return gen.Derive()
}

func TestNewExpenseGenerator_Validation(t *testing.T) {
	t.Run("missing dates is fatal", func(t *testing.T) {
		f := newFixture(t, TransportRoad, AccommodationResidence, RouteOneWay)
		f.trip.ReturnDate = time.Time{}

		_, err := NewExpenseGenerator(f.trip, f.remunerations, f.gradeLevelID)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TRIP_DATES", domainErr.Code)
	})

	t.Run("missing category is fatal", func(t *testing.T) {
		f := newFixture(t, TransportRoad, AccommodationResidence, RouteOneWay)
		f.trip.Category = nil

		_, err := NewExpenseGenerator(f.trip, f.remunerations, f.gradeLevelID)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "MISSING_TRIP_CATEGORY", domainErr.Code)
	})

	t.Run("unknown allowance label is rejected at construction", func(t *testing.T) {
		f := newFixture(t, TransportRoad, AccommodationResidence, RouteOneWay)
		rogue := &Allowance{Name: "Typo Rule", Label: AllowanceLabel("intracty")}
		f.category.AttachAllowance(rogue)

		_, err := NewExpenseGenerator(f.trip, f.remunerations, f.gradeLevelID)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_ALLOWANCE_LABEL", domainErr.Code)
	})

	t.Run("nil trip is fatal", func(t *testing.T) {
		_, err := NewExpenseGenerator(nil, nil, uuid.New())
		assert.Error(t, err)
	})
}

func TestDerive_Idempotence(t *testing.T) {
	f := newFixture(t, TransportRoad, AccommodationResidence, RouteReturn)
	road := f.addAllowance(t, "Road Transport", "", 3000)
	road.SetCityPair(f.trip.DepartureCityID, f.trip.DestinationCityID)
	f.addAllowance(t, "Intracity Shuttle", LabelIntracity, 500)

	first := f.derive(t)
	second := f.derive(t)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].AllowanceID, second[i].AllowanceID)
		assert.Equal(t, first[i].Type, second[i].Type)
		assert.Equal(t, first[i].NoOfDays, second[i].NoOfDays)
		assert.True(t, first[i].TotalAmountSpent.Equal(second[i].TotalAmountSpent))
		assert.Equal(t, first[i].Description, second[i].Description)
		assert.Equal(t, first[i].StartDate, second[i].StartDate)
		assert.Equal(t, first[i].EndDate, second[i].EndDate)
		// identifiers are unique per call, never reused across calls
		assert.NotEqual(t, first[i].Identifier, second[i].Identifier)
	}
}

func TestDerive_FlightTransport(t *testing.T) {
	setup := func(t *testing.T, route RouteMode) *generatorFixture {
		f := newFixture(t, TransportFlight, AccommodationResidence, route)
		cityToAirport := f.addAllowance(t, "City To Airport", "", 2000)
		cityToAirport.SetCityPair(f.trip.DepartureCityID, f.trip.AirportID)
		f.addAllowance(t, "Airport Shuttle", LabelAirportShuttle, 1500)
		return f
	}

	t.Run("return trip emits two takeoff/land pairs", func(t *testing.T) {
		f := setup(t, RouteReturn)
		expenses := f.derive(t)

		require.Len(t, expenses, 4)
		assert.Equal(t, ExpenseFlightTakeoff, expenses[0].Type)
		assert.Equal(t, ExpenseFlightLand, expenses[1].Type)
		assert.Equal(t, ExpenseFlightTakeoff, expenses[2].Type)
		assert.Equal(t, ExpenseFlightLand, expenses[3].Type)

		// takeoff on the buffer day before departure, landing on the buffer
		// day after return
		assert.Equal(t, date(2023, time.December, 31), expenses[0].StartDate)
		assert.Equal(t, date(2024, time.January, 6), expenses[1].StartDate)

		assert.Contains(t, expenses[1].Description, " (Return)")
		assert.Equal(t, "Airport Shuttle", expenses[2].Description)
	})

	t.Run("one-way trip emits a single pair", func(t *testing.T) {
		f := setup(t, RouteOneWay)
		expenses := f.derive(t)

		require.Len(t, expenses, 2)
		assert.Equal(t, ExpenseFlightTakeoff, expenses[0].Type)
		assert.Equal(t, ExpenseFlightLand, expenses[1].Type)
	})

	t.Run("departure city equals airport falls back to shuttle", func(t *testing.T) {
		f := newFixture(t, TransportFlight, AccommodationResidence, RouteOneWay)
		f.trip.AirportID = f.trip.DepartureCityID
		f.addAllowance(t, "Airport Shuttle", LabelAirportShuttle, 1500)

		expenses := f.derive(t)
		require.Len(t, expenses, 2)
		assert.Equal(t, "Airport Shuttle", expenses[0].Description)
	})

	t.Run("yenagoa airport rule keeps the city-pair allowance", func(t *testing.T) {
		f := newFixture(t, TransportFlight, AccommodationResidence, RouteOneWay)
		f.trip.AirportID = f.trip.DepartureCityID
		yenagoa := f.addAllowance(t, "Yenagoa Airport", LabelYenagoaAirport, 4000)
		yenagoa.SetCityPair(f.trip.DepartureCityID, f.trip.AirportID)
		f.addAllowance(t, "Airport Shuttle", LabelAirportShuttle, 1500)

		expenses := f.derive(t)
		require.Len(t, expenses, 2)
		assert.Equal(t, "Yenagoa Airport", expenses[0].Description)
	})

	t.Run("no resolving allowance emits nothing", func(t *testing.T) {
		f := newFixture(t, TransportFlight, AccommodationResidence, RouteOneWay)
		assert.Empty(t, f.derive(t))
	})
}

func TestDerive_RoadTransport(t *testing.T) {
	setup := func(t *testing.T, route RouteMode) *generatorFixture {
		f := newFixture(t, TransportRoad, AccommodationResidence, route)
		road := f.addAllowance(t, "Road Transport", "", 3000)
		road.SetCityPair(f.trip.DepartureCityID, f.trip.DestinationCityID)
		return f
	}

	t.Run("one-way emits one leg", func(t *testing.T) {
		f := setup(t, RouteOneWay)
		expenses := f.derive(t)

		require.Len(t, expenses, 1)
		assert.Equal(t, ExpenseRoadTrip, expenses[0].Type)
		assert.Equal(t, "Road Transport", expenses[0].Description)
	})

	t.Run("return emits two legs on the same allowance", func(t *testing.T) {
		f := setup(t, RouteReturn)
		expenses := f.derive(t)

		require.Len(t, expenses, 2)
		assert.Equal(t, expenses[0].AllowanceID, expenses[1].AllowanceID)
		assert.Equal(t, "Road Transport (Return)", expenses[1].Description)
		assert.Equal(t, date(2023, time.December, 31), expenses[0].StartDate)
		assert.Equal(t, date(2024, time.January, 6), expenses[1].StartDate)
	})
}

func TestDerive_MissingRateSkipsLeg(t *testing.T) {
	f := newFixture(t, TransportRoad, AccommodationResidence, RouteOneWay)
	road := f.addAllowance(t, "Road Transport", "", 3000)
	road.SetCityPair(f.trip.DepartureCityID, f.trip.DestinationCityID)
	// intracity allowance attached but no rate configured for this grade level
	f.addAllowance(t, "Intracity Shuttle", LabelIntracity, 0)

	withoutRate := f.derive(t)
	require.Len(t, withoutRate, 1)

	intracity := f.category.Allowances[1]
	f.addRate(t, intracity, 500)

	withRate := f.derive(t)
	assert.Len(t, withRate, len(withoutRate)+1)
}

func TestDerive_IntracityScenario(t *testing.T) {
	// 2024-01-01 .. 2024-01-05 is a 4-day span, paid as 5 intracity days
	f := newFixture(t, TransportRoad, AccommodationResidence, RouteOneWay)
	f.addAllowance(t, "Intracity Shuttle", LabelIntracity, 500)

	expenses := f.derive(t)

	require.Len(t, expenses, 1)
	e := expenses[0]
	assert.Equal(t, ExpenseIntracity, e.Type)
	assert.Equal(t, 5, e.NoOfDays)
	assert.True(t, e.TotalAmountSpent.Equal(decimal.NewFromInt(2500)),
		"expected 2500, got %s", e.TotalAmountSpent)
	assert.Equal(t, "Intracity Shuttle for 5 days", e.Description)
	assert.Equal(t, date(2024, time.January, 1), e.StartDate)
	assert.Equal(t, date(2024, time.January, 5), e.EndDate)
}

func TestDerive_Accommodation(t *testing.T) {
	t.Run("non-residence pays per diem over buffered nights plus one", func(t *testing.T) {
		f := newFixture(t, TransportRoad, AccommodationNonResidence, RouteOneWay)
		perDiem := f.addAllowance(t, "Per Diem", "", 10000)
		f.trip.PerDiemCategoryID = perDiem.ID

		expenses := f.derive(t)

		require.Len(t, expenses, 1)
		e := expenses[0]
		assert.Equal(t, ExpensePerDiem, e.Type)
		// buffered range 2023-12-31 .. 2024-01-06 is 6 days, paid as 7 nights
		assert.Equal(t, 7, e.NoOfDays)
		assert.True(t, e.TotalAmountSpent.Equal(decimal.NewFromInt(70000)))
		assert.Equal(t, "Per Diem for 7 nights at NGN10,000.00 per night!", e.Description)
	})

	t.Run("residence pays out of pocket without the extra night", func(t *testing.T) {
		f := newFixture(t, TransportRoad, AccommodationResidence, RouteOneWay)
		f.addAllowance(t, "Out of Pocket", LabelOutOfPocket, 2000)

		expenses := f.derive(t)

		require.Len(t, expenses, 1)
		e := expenses[0]
		assert.Equal(t, ExpenseWallet, e.Type)
		assert.Equal(t, 6, e.NoOfDays)
		assert.True(t, e.TotalAmountSpent.Equal(decimal.NewFromInt(12000)))
		assert.Equal(t, "Out of Pocket Allowance for 6 nights at NGN2000.00 per day", e.Description)
	})
}

func TestDerive_CustomIdentifierFunc(t *testing.T) {
	f := newFixture(t, TransportRoad, AccommodationResidence, RouteOneWay)
	f.addAllowance(t, "Intracity Shuttle", LabelIntracity, 500)

	var seq int
	expenses := f.derive(t, WithIdentifierFunc(func() string {
		seq++
		return fmt.Sprintf("EXP-%04d", seq)
	}))

	require.Len(t, expenses, 1)
	assert.Equal(t, "EXP-0001", expenses[0].Identifier)
}

func TestDerive_ExpiredRemunerationIgnored(t *testing.T) {
	f := newFixture(t, TransportRoad, AccommodationResidence, RouteOneWay)
	intracity := f.addAllowance(t, "Intracity Shuttle", LabelIntracity, 0)

	expired, err := NewRemuneration(
		intracity.ID,
		f.gradeLevelID,
		valueobject.NewMoneyNGNFromFloat(500),
		date(2020, time.January, 1),
		date(2022, time.December, 31),
	)
	require.NoError(t, err)
	f.remunerations = append(f.remunerations, expired)

	assert.Empty(t, f.derive(t))

	current, err := NewRemuneration(
		intracity.ID,
		f.gradeLevelID,
		valueobject.NewMoneyNGNFromFloat(750),
		date(2023, time.January, 1),
		time.Time{},
	)
	require.NoError(t, err)
	f.remunerations = append(f.remunerations, current)

	expenses := f.derive(t)
	require.Len(t, expenses, 1)
	assert.True(t, expenses[0].UnitPrice.Equal(decimal.NewFromInt(750)))
}
