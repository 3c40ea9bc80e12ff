package businessflow

import (
	"math"

	"github.com/link360/pool-api/models"
)

// QuoteInput is the full description the engine prices: what the cargo is,
// how it gets picked up, how many of it, and (optionally) how heavy it is.
type QuoteInput struct {
	Cargo    models.CargoDescription
	Pickup   models.PickupSelection
	Quantity int
	WeightLb *float64
}

// roundCents rounds half-up at the cent, matching how the public calculator
// displays prices so previews and stored quotes never disagree by a cent.
func roundCents(x float64) float64 {
	return math.Round(x*100) / 100
}

// unitVolumeCubicInches resolves one unit of cargo to cubic inches
func unitVolumeCubicInches(cargo models.CargoDescription) (float64, error) {
	switch c := cargo.(type) {
	case models.StandardBox:
		dims, ok := models.StandardBoxes[c.Code]
		if !ok {
			return 0, NewBusinessError("UNKNOWN_BOX_CODE", "unknown standard box code "+c.Code, ErrInvalidCargoSpec)
		}
		return dims.VolumeCubicInches(), nil
	case models.CustomDimensions:
		if c.LengthIn <= 0 || c.WidthIn <= 0 || c.HeightIn <= 0 {
			return 0, NewBusinessError("NON_POSITIVE_DIMENSION", "custom dimensions must be positive", ErrInvalidCargoSpec)
		}
		return c.LengthIn * c.WidthIn * c.HeightIn, nil
	case models.RoughEstimate:
		ft3, ok := models.EstimateCategoryFt3[c.Category]
		if !ok {
			return 0, NewBusinessError("UNKNOWN_ESTIMATE_CATEGORY", "unknown estimate category "+c.Category, ErrInvalidCargoSpec)
		}
		return ft3 * models.CubicInchesPerCubicFoot, nil
	default:
		return 0, NewBusinessError("UNKNOWN_CARGO_MODE", "unknown cargo description", ErrInvalidCargoSpec)
	}
}

// pickupFee resolves the pickup selection to its fee for the given quantity
func pickupFee(pickup models.PickupSelection, quantity int, cfg models.PricingConfig) (float64, error) {
	switch pickup.(type) {
	case models.InCityPickup:
		return cfg.InCityStopFee, nil
	case models.OutOfCityPickup:
		return cfg.OutOfCityBaseFee + cfg.OutOfCityPerBoxFee*float64(quantity), nil
	default:
		return 0, NewBusinessError("UNKNOWN_PICKUP_ZONE", "unknown pickup selection", ErrInvalidCargoSpec)
	}
}

// BuildQuote prices a cargo description. It is pure: same input and config
// always produce the same quote, and nothing is read from or written to
// storage. Shipping cost is volume times rate rounded at the cent; the total
// is the sum of the already-rounded parts.
func BuildQuote(in QuoteInput, cfg models.PricingConfig) (models.Quote, error) {
	if in.Quantity < 1 {
		return models.Quote{}, NewBusinessError("NON_POSITIVE_QUANTITY", "quantity must be at least 1", ErrInvalidCargoSpec)
	}

	unitIn3, err := unitVolumeCubicInches(in.Cargo)
	if err != nil {
		return models.Quote{}, err
	}
	volumeIn3 := unitIn3 * float64(in.Quantity)

	fee, err := pickupFee(in.Pickup, in.Quantity, cfg)
	if err != nil {
		return models.Quote{}, err
	}

	shipping := roundCents(volumeIn3 * cfg.RatePerIn3)
	fee = roundCents(fee)
	surcharge := roundCents(SurchargeForConfig(cfg).Apply(in.WeightLb))

	return models.Quote{
		VolumeCubicInches: volumeIn3,
		VolumeCubicFeet:   volumeIn3 / models.CubicInchesPerCubicFoot,
		ShippingCost:      shipping,
		PickupFee:         fee,
		HeavySurcharge:    surcharge,
		Total:             roundCents(shipping + fee + surcharge),
	}, nil
}
