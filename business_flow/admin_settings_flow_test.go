package businessflow

import (
	"context"
	"testing"

	"github.com/link360/pool-api/app/dto"
	"github.com/link360/pool-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminSettingsFlow(t *testing.T) {
	ctx := context.Background()

	t.Run("GetSettingsReturnsEffectiveConfig", func(t *testing.T) {
		cfg := models.DefaultPricingConfig()
		cfg.InCityStopFee = 30

		flow := NewAdminSettingsFlow(nil, nil, StaticPricingSource{Config: cfg}, nil)

		settings, err := flow.GetSettings(ctx)
		require.NoError(t, err)
		assert.Equal(t, 30.0, settings.InCityStopFee)
		assert.Equal(t, cfg.RatePerIn3, settings.RatePerIn3)
		assert.Equal(t, string(cfg.SurchargeMode), settings.SurchargeMode)
	})

	t.Run("RejectsNonPositiveRate", func(t *testing.T) {
		flow := NewAdminSettingsFlow(nil, nil, StaticPricingSource{Config: models.DefaultPricingConfig()}, nil)

		req := &dto.PricingSettingsDTO{RatePerIn3: 0, SurchargeMode: "off"}
		_, err := flow.UpdateSettings(ctx, req, 1, testMetadata())
		require.Error(t, err)
		assert.True(t, IsInvalidPricingSettings(err))
	})

	t.Run("RejectsUnknownSurchargeMode", func(t *testing.T) {
		flow := NewAdminSettingsFlow(nil, nil, StaticPricingSource{Config: models.DefaultPricingConfig()}, nil)

		req := &dto.PricingSettingsDTO{RatePerIn3: 0.0145, SurchargeMode: "by_volume"}
		_, err := flow.UpdateSettings(ctx, req, 1, testMetadata())
		require.Error(t, err)
		assert.True(t, IsInvalidPricingSettings(err))
	})
}
