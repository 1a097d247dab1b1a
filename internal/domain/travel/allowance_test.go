package travel

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowanceLabel_IsValid(t *testing.T) {
	valid := []AllowanceLabel{"", LabelIntracity, LabelOutOfPocket, LabelAirportShuttle, LabelYenagoaAirport}
	for _, l := range valid {
		assert.True(t, l.IsValid(), "label %q should be valid", l)
	}

	invalid := []AllowanceLabel{"intracty", "out-of-pocket", "shuttle", "INTRACITY"}
	for _, l := range invalid {
		assert.False(t, l.IsValid(), "label %q should be invalid", l)
	}
}

func TestNewAllowance(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		a, err := NewAllowance("Road Transport", "", BasisDays, RouteComputable)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, a.ID)
	})

	t.Run("unknown label", func(t *testing.T) {
		_, err := NewAllowance("Typo", AllowanceLabel("intracty"), BasisDays, RouteComputable)
		assert.Error(t, err)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := NewAllowance("", "", BasisDays, RouteComputable)
		assert.Error(t, err)
	})

	t.Run("invalid basis", func(t *testing.T) {
		_, err := NewAllowance("Rule", "", PaymentBasis("hourly"), RouteComputable)
		assert.Error(t, err)
	})
}

func TestAllowanceIndex(t *testing.T) {
	depCity := uuid.New()
	destCity := uuid.New()

	first, err := NewAllowance("First Pair Rule", "", BasisDays, RouteComputable)
	require.NoError(t, err)
	first.SetCityPair(depCity, destCity)

	second, err := NewAllowance("Second Pair Rule", "", BasisDays, RouteComputable)
	require.NoError(t, err)
	second.SetCityPair(depCity, destCity)

	shuttle, err := NewAllowance("Airport Shuttle", LabelAirportShuttle, BasisFixed, RouteOneOff)
	require.NoError(t, err)

	idx, err := NewAllowanceIndex([]*Allowance{first, second, shuttle, nil})
	require.NoError(t, err)

	t.Run("lookup by id", func(t *testing.T) {
		assert.Equal(t, shuttle, idx.ByID(shuttle.ID))
		assert.Nil(t, idx.ByID(uuid.New()))
	})

	t.Run("lookup by label", func(t *testing.T) {
		assert.Equal(t, shuttle, idx.ByLabel(LabelAirportShuttle))
		assert.Nil(t, idx.ByLabel(LabelIntracity))
	})

	t.Run("city pair first match wins", func(t *testing.T) {
		assert.Equal(t, first, idx.ByCityPair(depCity, destCity))
		assert.Nil(t, idx.ByCityPair(destCity, depCity))
	})

	t.Run("length skips nil entries", func(t *testing.T) {
		assert.Equal(t, 3, idx.Len())
	})

	t.Run("unknown label fails index build", func(t *testing.T) {
		rogue := &Allowance{Name: "Rogue", Label: AllowanceLabel("not-a-label")}
		_, err := NewAllowanceIndex([]*Allowance{rogue})
		assert.Error(t, err)
	})
}
