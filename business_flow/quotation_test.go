package businessflow

import (
	"testing"

	"github.com/link360/pool-api/models"
	"github.com/link360/pool-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig() models.PricingConfig {
	return models.DefaultPricingConfig()
}

func TestBuildQuote(t *testing.T) {
	cfg := defaultConfig()

	t.Run("LargeBoxInCity", func(t *testing.T) {
		quote, err := BuildQuote(QuoteInput{
			Cargo:    models.StandardBox{Code: "L"},
			Pickup:   models.InCityPickup{},
			Quantity: 1,
		}, cfg)
		require.NoError(t, err)

		// 24 x 24 x 48 = 27648 in3, 16 ft3
		assert.Equal(t, 27648.0, quote.VolumeCubicInches)
		assert.Equal(t, 16.0, quote.VolumeCubicFeet)
		assert.Equal(t, 400.90, quote.ShippingCost)
		assert.Equal(t, 25.0, quote.PickupFee)
		assert.Equal(t, 0.0, quote.HeavySurcharge)
		assert.Equal(t, 425.90, quote.Total)
	})

	t.Run("CustomDimensionsOutOfCity", func(t *testing.T) {
		quote, err := BuildQuote(QuoteInput{
			Cargo:    models.CustomDimensions{LengthIn: 10, WidthIn: 10, HeightIn: 10},
			Pickup:   models.OutOfCityPickup{City: "Kumasi"},
			Quantity: 1,
		}, cfg)
		require.NoError(t, err)

		assert.Equal(t, 1000.0, quote.VolumeCubicInches)
		assert.Equal(t, 14.50, quote.ShippingCost)
		assert.Equal(t, 40.0, quote.PickupFee) // 25 base + 15 per box
		assert.Equal(t, 54.50, quote.Total)
	})

	t.Run("OutOfCityFeeScalesWithQuantity", func(t *testing.T) {
		quote, err := BuildQuote(QuoteInput{
			Cargo:    models.StandardBox{Code: "S"},
			Pickup:   models.OutOfCityPickup{City: "Tamale"},
			Quantity: 3,
		}, cfg)
		require.NoError(t, err)

		// 25 base + 3 x 15
		assert.Equal(t, 70.0, quote.PickupFee)
		// 18^3 = 5832 in3 per box
		assert.Equal(t, 17496.0, quote.VolumeCubicInches)
	})

	t.Run("EstimateCategories", func(t *testing.T) {
		cases := map[string]float64{
			"small":  2 * models.CubicInchesPerCubicFoot,
			"medium": 4 * models.CubicInchesPerCubicFoot,
			"large":  8 * models.CubicInchesPerCubicFoot,
		}
		for category, wantIn3 := range cases {
			quote, err := BuildQuote(QuoteInput{
				Cargo:    models.RoughEstimate{Category: category},
				Pickup:   models.InCityPickup{},
				Quantity: 1,
			}, cfg)
			require.NoError(t, err, category)
			assert.Equal(t, wantIn3, quote.VolumeCubicInches, category)
		}
	})

	t.Run("StandardBoxTable", func(t *testing.T) {
		volumes := map[string]float64{
			"S":  5832,
			"M":  13824,
			"L":  27648,
			"TV": 15552,
		}
		for code, wantIn3 := range volumes {
			quote, err := BuildQuote(QuoteInput{
				Cargo:    models.StandardBox{Code: code},
				Pickup:   models.InCityPickup{},
				Quantity: 1,
			}, cfg)
			require.NoError(t, err, code)
			assert.Equal(t, wantIn3, quote.VolumeCubicInches, code)
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		input := QuoteInput{
			Cargo:    models.CustomDimensions{LengthIn: 13.5, WidthIn: 21.25, HeightIn: 9.75},
			Pickup:   models.OutOfCityPickup{City: "Takoradi"},
			Quantity: 2,
		}
		first, err := BuildQuote(input, cfg)
		require.NoError(t, err)
		for i := 0; i < 10; i++ {
			again, err := BuildQuote(input, cfg)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	})

	t.Run("TotalIsSumOfRoundedParts", func(t *testing.T) {
		quote, err := BuildQuote(QuoteInput{
			Cargo:    models.CustomDimensions{LengthIn: 7, WidthIn: 11, HeightIn: 13},
			Pickup:   models.InCityPickup{},
			Quantity: 1,
		}, cfg)
		require.NoError(t, err)
		assert.InDelta(t, quote.ShippingCost+quote.PickupFee+quote.HeavySurcharge, quote.Total, 0.005)
	})

	t.Run("UnknownBoxCode", func(t *testing.T) {
		_, err := BuildQuote(QuoteInput{
			Cargo:    models.StandardBox{Code: "XL"},
			Pickup:   models.InCityPickup{},
			Quantity: 1,
		}, cfg)
		require.Error(t, err)
		assert.True(t, IsInvalidCargoSpec(err))
	})

	t.Run("UnknownEstimateCategory", func(t *testing.T) {
		_, err := BuildQuote(QuoteInput{
			Cargo:    models.RoughEstimate{Category: "gigantic"},
			Pickup:   models.InCityPickup{},
			Quantity: 1,
		}, cfg)
		require.Error(t, err)
		assert.True(t, IsInvalidCargoSpec(err))
	})

	t.Run("NonPositiveDimensions", func(t *testing.T) {
		_, err := BuildQuote(QuoteInput{
			Cargo:    models.CustomDimensions{LengthIn: 0, WidthIn: 10, HeightIn: 10},
			Pickup:   models.InCityPickup{},
			Quantity: 1,
		}, cfg)
		require.Error(t, err)
		assert.True(t, IsInvalidCargoSpec(err))
	})

	t.Run("NonPositiveQuantity", func(t *testing.T) {
		_, err := BuildQuote(QuoteInput{
			Cargo:    models.StandardBox{Code: "S"},
			Pickup:   models.InCityPickup{},
			Quantity: 0,
		}, cfg)
		require.Error(t, err)
		assert.True(t, IsInvalidCargoSpec(err))
	})
}

func TestSurchargeRules(t *testing.T) {
	t.Run("OffByDefault", func(t *testing.T) {
		cfg := defaultConfig()
		quote, err := BuildQuote(QuoteInput{
			Cargo:    models.StandardBox{Code: "M"},
			Pickup:   models.InCityPickup{},
			Quantity: 1,
			WeightLb: utils.ToPtr(500.0),
		}, cfg)
		require.NoError(t, err)
		assert.Equal(t, 0.0, quote.HeavySurcharge)
	})

	t.Run("FlatOverThreshold", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.SurchargeMode = models.SurchargeModeFlat

		quote, err := BuildQuote(QuoteInput{
			Cargo:    models.StandardBox{Code: "M"},
			Pickup:   models.InCityPickup{},
			Quantity: 1,
			WeightLb: utils.ToPtr(151.0),
		}, cfg)
		require.NoError(t, err)
		assert.Equal(t, 50.0, quote.HeavySurcharge)
	})

	t.Run("FlatAtThresholdDoesNotCharge", func(t *testing.T) {
		rule := FlatSurcharge{ThresholdLb: 150, Fee: 50}
		assert.Equal(t, 0.0, rule.Apply(utils.ToPtr(150.0)))
		assert.Equal(t, 0.0, rule.Apply(nil))
	})

	t.Run("PerPoundOverThreshold", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.SurchargeMode = models.SurchargeModePerLb

		quote, err := BuildQuote(QuoteInput{
			Cargo:    models.StandardBox{Code: "M"},
			Pickup:   models.InCityPickup{},
			Quantity: 1,
			WeightLb: utils.ToPtr(200.0),
		}, cfg)
		require.NoError(t, err)
		// (200 - 150) x 0.75
		assert.Equal(t, 37.50, quote.HeavySurcharge)
	})

	t.Run("TieredBrackets", func(t *testing.T) {
		rule := NewTieredSurcharge(150)
		assert.Equal(t, 0.0, rule.Apply(utils.ToPtr(150.0)))
		assert.Equal(t, 50.0, rule.Apply(utils.ToPtr(180.0)))
		assert.Equal(t, 50.0, rule.Apply(utils.ToPtr(200.0)))
		assert.Equal(t, 100.0, rule.Apply(utils.ToPtr(250.0)))
		assert.Equal(t, 100.0, rule.Apply(utils.ToPtr(300.0)))
		assert.Equal(t, 150.0, rule.Apply(utils.ToPtr(450.0)))
		assert.Equal(t, 0.0, rule.Apply(nil))
	})

	t.Run("NoWeightNeverCharges", func(t *testing.T) {
		for _, mode := range []models.SurchargeMode{
			models.SurchargeModeOff,
			models.SurchargeModeFlat,
			models.SurchargeModePerLb,
			models.SurchargeModeTiered,
		} {
			cfg := defaultConfig()
			cfg.SurchargeMode = mode
			quote, err := BuildQuote(QuoteInput{
				Cargo:    models.StandardBox{Code: "M"},
				Pickup:   models.InCityPickup{},
				Quantity: 1,
			}, cfg)
			require.NoError(t, err, mode)
			assert.Equal(t, 0.0, quote.HeavySurcharge, mode)
		}
	})
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, 400.90, roundCents(400.8960))
	assert.Equal(t, 0.13, roundCents(0.125))
	assert.Equal(t, 0.38, roundCents(0.375))
	assert.Equal(t, 14.50, roundCents(14.5))
}
