package businessflow

import (
	"github.com/link360/pool-api/models"
)

// SurchargeRule prices the optional heavy-item fee. A rule sees only the
// declared weight; everything else about the quote is already settled when
// it runs.
type SurchargeRule interface {
	Apply(weightLb *float64) float64
}

// NoSurcharge never charges
type NoSurcharge struct{}

func (NoSurcharge) Apply(*float64) float64 { return 0 }

// FlatSurcharge charges a fixed fee once the declared weight crosses the threshold
type FlatSurcharge struct {
	ThresholdLb float64
	Fee         float64
}

func (r FlatSurcharge) Apply(weightLb *float64) float64 {
	if weightLb == nil || *weightLb <= r.ThresholdLb {
		return 0
	}
	return r.Fee
}

// PerPoundSurcharge charges per pound over the threshold
type PerPoundSurcharge struct {
	ThresholdLb float64
	PerLbFee    float64
}

func (r PerPoundSurcharge) Apply(weightLb *float64) float64 {
	if weightLb == nil || *weightLb <= r.ThresholdLb {
		return 0
	}
	return (*weightLb - r.ThresholdLb) * r.PerLbFee
}

// surchargeTier is one step of the tiered rule
type surchargeTier struct {
	maxLb float64
	fee   float64
}

// TieredSurcharge charges a stepped fee by weight bracket once over the threshold
type TieredSurcharge struct {
	ThresholdLb float64
	tiers       []surchargeTier
}

// NewTieredSurcharge builds the standard weight brackets over the threshold
func NewTieredSurcharge(thresholdLb float64) TieredSurcharge {
	return TieredSurcharge{
		ThresholdLb: thresholdLb,
		tiers: []surchargeTier{
			{maxLb: 200, fee: 50},
			{maxLb: 300, fee: 100},
		},
	}
}

func (r TieredSurcharge) Apply(weightLb *float64) float64 {
	if weightLb == nil || *weightLb <= r.ThresholdLb {
		return 0
	}
	for _, tier := range r.tiers {
		if *weightLb <= tier.maxLb {
			return tier.fee
		}
	}
	return 150
}

// SurchargeForConfig selects the rule the pricing config asks for
func SurchargeForConfig(cfg models.PricingConfig) SurchargeRule {
	switch cfg.SurchargeMode {
	case models.SurchargeModeFlat:
		return FlatSurcharge{ThresholdLb: cfg.HeavyThresholdLb, Fee: cfg.HeavyFlatFee}
	case models.SurchargeModePerLb:
		return PerPoundSurcharge{ThresholdLb: cfg.HeavyThresholdLb, PerLbFee: cfg.HeavyPerLbOverFee}
	case models.SurchargeModeTiered:
		return NewTieredSurcharge(cfg.HeavyThresholdLb)
	default:
		return NoSurcharge{}
	}
}
