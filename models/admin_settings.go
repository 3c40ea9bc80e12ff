package models

import (
	"time"

	"gorm.io/gorm"
)

// Default pricing knobs, used to seed the settings row and as fallback when
// no row exists yet
const (
	DefaultRatePerIn3         = 0.0145
	DefaultInCityStopFee      = 25.0
	DefaultOutOfCityBaseFee   = 25.0
	DefaultOutOfCityPerBoxFee = 15.0
	DefaultHeavyThresholdLb   = 150.0
	DefaultHeavyFlatFee       = 50.0
	DefaultHeavyPerLbOverFee  = 0.75
)

// SurchargeMode selects how the optional heavy-item surcharge is computed
type SurchargeMode string

const (
	SurchargeModeOff    SurchargeMode = "off"
	SurchargeModeFlat   SurchargeMode = "flat"
	SurchargeModePerLb  SurchargeMode = "per_lb_over"
	SurchargeModeTiered SurchargeMode = "tiered"
)

// Valid checks if the mode is valid
func (m SurchargeMode) Valid() bool {
	switch m {
	case SurchargeModeOff, SurchargeModeFlat, SurchargeModePerLb, SurchargeModeTiered:
		return true
	default:
		return false
	}
}

// PricingConfig is the knob set the quotation engine prices against. It is a
// plain value, detached from storage, so the engine stays pure.
type PricingConfig struct {
	RatePerIn3         float64       `json:"rate_per_in3"`
	InCityStopFee      float64       `json:"in_city_stop_fee"`
	OutOfCityBaseFee   float64       `json:"out_of_city_base_fee"`
	OutOfCityPerBoxFee float64       `json:"out_of_city_per_box_fee"`
	SurchargeMode      SurchargeMode `json:"surcharge_mode"`
	HeavyThresholdLb   float64       `json:"heavy_threshold_lb"`
	HeavyFlatFee       float64       `json:"heavy_flat_fee"`
	HeavyPerLbOverFee  float64       `json:"heavy_per_lb_over_fee"`
}

// DefaultPricingConfig returns the built-in pricing knobs
func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		RatePerIn3:         DefaultRatePerIn3,
		InCityStopFee:      DefaultInCityStopFee,
		OutOfCityBaseFee:   DefaultOutOfCityBaseFee,
		OutOfCityPerBoxFee: DefaultOutOfCityPerBoxFee,
		SurchargeMode:      SurchargeModeOff,
		HeavyThresholdLb:   DefaultHeavyThresholdLb,
		HeavyFlatFee:       DefaultHeavyFlatFee,
		HeavyPerLbOverFee:  DefaultHeavyPerLbOverFee,
	}
}

// AdminSettings is the single-row table holding operator-tunable pricing.
// Reads go through the cache-backed pricing source; writes invalidate it.
type AdminSettings struct {
	ID                 uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	RatePerIn3         float64       `gorm:"not null" json:"rate_per_in3"`
	InCityStopFee      float64       `gorm:"not null" json:"in_city_stop_fee"`
	OutOfCityBaseFee   float64       `gorm:"not null" json:"out_of_city_base_fee"`
	OutOfCityPerBoxFee float64       `gorm:"not null" json:"out_of_city_per_box_fee"`
	SurchargeMode      SurchargeMode `gorm:"not null;size:20;default:'off'" json:"surcharge_mode"`
	HeavyThresholdLb   float64       `gorm:"not null" json:"heavy_threshold_lb"`
	HeavyFlatFee       float64       `gorm:"not null" json:"heavy_flat_fee"`
	HeavyPerLbOverFee  float64       `gorm:"not null" json:"heavy_per_lb_over_fee"`
	UpdatedByAdminID   *uint         `json:"updated_by_admin_id,omitempty"`
	CreatedAt          time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          *time.Time    `json:"updated_at,omitempty"`
}

// TableName returns the table name for AdminSettings
func (AdminSettings) TableName() string {
	return "admin_settings"
}

// BeforeCreate hook for AdminSettings
func (s *AdminSettings) BeforeCreate(tx *gorm.DB) error {
	if s.SurchargeMode == "" {
		s.SurchargeMode = SurchargeModeOff
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	return nil
}

// ToPricingConfig projects the settings row onto the engine's knob set
func (s *AdminSettings) ToPricingConfig() PricingConfig {
	return PricingConfig{
		RatePerIn3:         s.RatePerIn3,
		InCityStopFee:      s.InCityStopFee,
		OutOfCityBaseFee:   s.OutOfCityBaseFee,
		OutOfCityPerBoxFee: s.OutOfCityPerBoxFee,
		SurchargeMode:      s.SurchargeMode,
		HeavyThresholdLb:   s.HeavyThresholdLb,
		HeavyFlatFee:       s.HeavyFlatFee,
		HeavyPerLbOverFee:  s.HeavyPerLbOverFee,
	}
}

// FromPricingConfig copies the knob set onto the settings row
func (s *AdminSettings) FromPricingConfig(cfg PricingConfig) {
	s.RatePerIn3 = cfg.RatePerIn3
	s.InCityStopFee = cfg.InCityStopFee
	s.OutOfCityBaseFee = cfg.OutOfCityBaseFee
	s.OutOfCityPerBoxFee = cfg.OutOfCityPerBoxFee
	s.SurchargeMode = cfg.SurchargeMode
	s.HeavyThresholdLb = cfg.HeavyThresholdLb
	s.HeavyFlatFee = cfg.HeavyFlatFee
	s.HeavyPerLbOverFee = cfg.HeavyPerLbOverFee
}
