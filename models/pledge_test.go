package models

import (
	"testing"

	"github.com/link360/pool-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPledgeStatusTransitions(t *testing.T) {
	cases := []struct {
		from    PledgeStatus
		to      PledgeStatus
		allowed bool
	}{
		{PledgeStatusPledged, PledgeStatusConfirmed, true},
		{PledgeStatusPledged, PledgeStatusWithdrawn, true},
		{PledgeStatusPledged, PledgeStatusShipped, false},
		{PledgeStatusPledged, PledgeStatusPledged, false},
		{PledgeStatusConfirmed, PledgeStatusShipped, true},
		{PledgeStatusConfirmed, PledgeStatusWithdrawn, true},
		{PledgeStatusConfirmed, PledgeStatusPledged, false},
		{PledgeStatusWithdrawn, PledgeStatusPledged, false},
		{PledgeStatusWithdrawn, PledgeStatusConfirmed, false},
		{PledgeStatusShipped, PledgeStatusWithdrawn, false},
		{PledgeStatusShipped, PledgeStatusConfirmed, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestPledgeStatusCountsTowardFill(t *testing.T) {
	assert.True(t, PledgeStatusPledged.CountsTowardFill())
	assert.True(t, PledgeStatusConfirmed.CountsTowardFill())
	assert.True(t, PledgeStatusShipped.CountsTowardFill())
	assert.False(t, PledgeStatusWithdrawn.CountsTowardFill())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ama@example.com", NormalizeEmail("  Ama@Example.COM "))
	assert.Equal(t, "ama@example.com", NormalizeEmail("ama@example.com"))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestPledgeCargoDescription(t *testing.T) {
	t.Run("StandardBox", func(t *testing.T) {
		p := &Pledge{ItemMode: ItemModeStandardBox, StandardBoxCode: utils.ToPtr("M")}
		cargo, err := p.CargoDescription()
		require.NoError(t, err)
		assert.Equal(t, StandardBox{Code: "M"}, cargo)
	})

	t.Run("CustomDimensions", func(t *testing.T) {
		p := &Pledge{
			ItemMode: ItemModeCustomDims,
			LengthIn: utils.ToPtr(10.0),
			WidthIn:  utils.ToPtr(12.0),
			HeightIn: utils.ToPtr(14.0),
		}
		cargo, err := p.CargoDescription()
		require.NoError(t, err)
		assert.Equal(t, CustomDimensions{LengthIn: 10, WidthIn: 12, HeightIn: 14}, cargo)
	})

	t.Run("Estimate", func(t *testing.T) {
		p := &Pledge{ItemMode: ItemModeEstimate, EstimateSize: utils.ToPtr("large")}
		cargo, err := p.CargoDescription()
		require.NoError(t, err)
		assert.Equal(t, RoughEstimate{Category: "large"}, cargo)
	})

	t.Run("MissingBoxCode", func(t *testing.T) {
		p := &Pledge{ItemMode: ItemModeStandardBox}
		_, err := p.CargoDescription()
		assert.Error(t, err)
	})

	t.Run("MissingDimension", func(t *testing.T) {
		p := &Pledge{
			ItemMode: ItemModeCustomDims,
			LengthIn: utils.ToPtr(10.0),
			WidthIn:  utils.ToPtr(12.0),
		}
		_, err := p.CargoDescription()
		assert.Error(t, err)
	})

	t.Run("MissingEstimateSize", func(t *testing.T) {
		p := &Pledge{ItemMode: ItemModeEstimate}
		_, err := p.CargoDescription()
		assert.Error(t, err)
	})

	t.Run("UnknownMode", func(t *testing.T) {
		p := &Pledge{ItemMode: ItemMode("pallet")}
		_, err := p.CargoDescription()
		assert.Error(t, err)
	})
}

func TestPledgePickupSelection(t *testing.T) {
	t.Run("InCity", func(t *testing.T) {
		p := &Pledge{PickupZone: PickupZoneInCity}
		pickup, err := p.PickupSelection()
		require.NoError(t, err)
		assert.Equal(t, InCityPickup{}, pickup)
	})

	t.Run("OutOfCity", func(t *testing.T) {
		p := &Pledge{PickupZone: PickupZoneOutOfCity, PickupCity: utils.ToPtr("Kumasi")}
		pickup, err := p.PickupSelection()
		require.NoError(t, err)
		assert.Equal(t, OutOfCityPickup{City: "Kumasi"}, pickup)
	})

	t.Run("UnknownZone", func(t *testing.T) {
		p := &Pledge{PickupZone: PickupZone("offshore")}
		_, err := p.PickupSelection()
		assert.Error(t, err)
	})
}

func TestPledgeApplyQuote(t *testing.T) {
	p := &Pledge{}
	p.ApplyQuote(Quote{
		VolumeCubicInches: 27648,
		VolumeCubicFeet:   16,
		ShippingCost:      400.90,
		PickupFee:         25,
		HeavySurcharge:    50,
		Total:             475.90,
	})

	assert.Equal(t, 27648.0, p.ComputedIn3)
	assert.Equal(t, 16.0, p.ComputedFt3)
	assert.Equal(t, 400.90, p.EstShippingCost)
	assert.Equal(t, 25.0, p.EstPickupFee)
	assert.Equal(t, 50.0, p.HeavySurcharge)
	assert.Equal(t, 475.90, p.EstTotal)
}

func TestPledgeStatusValuer(t *testing.T) {
	v, err := PledgeStatusConfirmed.Value()
	require.NoError(t, err)
	assert.Equal(t, "confirmed", v)

	_, err = PledgeStatus("lost").Value()
	assert.Error(t, err)

	var s PledgeStatus
	require.NoError(t, s.Scan("shipped"))
	assert.Equal(t, PledgeStatusShipped, s)

	require.NoError(t, s.Scan([]byte("pledged")))
	assert.Equal(t, PledgeStatusPledged, s)
}
