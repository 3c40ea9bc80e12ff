package businessflow

import (
	"context"
	"testing"

	"github.com/link360/pool-api/config"
	"github.com/link360/pool-api/models"
	"github.com/link360/pool-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSettingsRepo serves the pricing settings row from memory
type fakeSettingsRepo struct {
	row *models.AdminSettings
}

func (f *fakeSettingsRepo) Latest(_ context.Context) (*models.AdminSettings, error) {
	return f.row, nil
}

func (f *fakeSettingsRepo) Save(_ context.Context, settings *models.AdminSettings) error {
	f.row = settings
	return nil
}

func (f *fakeSettingsRepo) Update(_ context.Context, settings *models.AdminSettings) error {
	f.row = settings
	return nil
}

func TestFallbackPricingConfig(t *testing.T) {
	fallback := FallbackPricingConfig(config.IntakeConfig{
		SurchargeMode:    "flat",
		HeavyThresholdLb: 180,
	})

	defaults := models.DefaultPricingConfig()
	assert.Equal(t, models.SurchargeModeFlat, fallback.SurchargeMode)
	assert.Equal(t, 180.0, fallback.HeavyThresholdLb)
	assert.Equal(t, defaults.RatePerIn3, fallback.RatePerIn3)
	assert.Equal(t, defaults.InCityStopFee, fallback.InCityStopFee)
}

func TestCachedPricingSource(t *testing.T) {
	ctx := context.Background()

	t.Run("FallbackAppliesWhenNoSettingsRow", func(t *testing.T) {
		fallback := FallbackPricingConfig(config.IntakeConfig{
			SurchargeMode:    "flat",
			HeavyThresholdLb: 150,
		})
		source := NewCachedPricingSource(&fakeSettingsRepo{}, nil, nil, fallback)

		cfg, err := source.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.SurchargeModeFlat, cfg.SurchargeMode)

		quote, err := BuildQuote(QuoteInput{
			Cargo:    models.StandardBox{Code: "M"},
			Pickup:   models.InCityPickup{},
			Quantity: 1,
			WeightLb: utils.ToPtr(200.0),
		}, cfg)
		require.NoError(t, err)
		assert.Equal(t, cfg.HeavyFlatFee, quote.HeavySurcharge)
	})

	t.Run("SettingsRowOverridesFallback", func(t *testing.T) {
		row := &models.AdminSettings{}
		row.FromPricingConfig(models.DefaultPricingConfig())
		row.ID = 1

		fallback := FallbackPricingConfig(config.IntakeConfig{SurchargeMode: "flat", HeavyThresholdLb: 150})
		source := NewCachedPricingSource(&fakeSettingsRepo{row: row}, nil, nil, fallback)

		cfg, err := source.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.SurchargeModeOff, cfg.SurchargeMode)
	})
}
