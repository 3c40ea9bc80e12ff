package businessflow

import (
	"github.com/link360/pool-api/app/dto"
	"github.com/link360/pool-api/models"
)

// CargoFromSpec checks the mode-conditional shape of a cargo spec and builds
// the tagged description from it. Tag-level validation has already run by the
// time this is called; this layer enforces the rules that depend on which
// mode was chosen.
func CargoFromSpec(spec dto.CargoSpec) (models.CargoDescription, error) {
	mode := models.ItemMode(spec.ItemMode)
	if !mode.Valid() {
		return nil, NewValidationError("cargo.item_mode", "item_mode must be standard_box, custom_dims or estimate")
	}

	switch mode {
	case models.ItemModeStandardBox:
		if spec.StandardBoxCode == nil {
			return nil, NewValidationError("cargo.standard_box_code", "standard_box_code is required for standard_box mode")
		}
		if _, ok := models.StandardBoxes[*spec.StandardBoxCode]; !ok {
			return nil, NewValidationError("cargo.standard_box_code", "unknown standard box code")
		}
		return models.StandardBox{Code: *spec.StandardBoxCode}, nil

	case models.ItemModeCustomDims:
		if spec.LengthIn == nil || spec.WidthIn == nil || spec.HeightIn == nil {
			return nil, NewValidationError("cargo", "length_in, width_in and height_in are required for custom_dims mode")
		}
		if *spec.LengthIn <= 0 || *spec.WidthIn <= 0 || *spec.HeightIn <= 0 {
			return nil, NewValidationError("cargo", "dimensions must be positive")
		}
		return models.CustomDimensions{
			LengthIn: *spec.LengthIn,
			WidthIn:  *spec.WidthIn,
			HeightIn: *spec.HeightIn,
		}, nil

	default: // models.ItemModeEstimate
		if spec.EstimateSize == nil {
			return nil, NewValidationError("cargo.estimate_size", "estimate_size is required for estimate mode")
		}
		if _, ok := models.EstimateCategoryFt3[*spec.EstimateSize]; !ok {
			return nil, NewValidationError("cargo.estimate_size", "estimate_size must be small, medium or large")
		}
		return models.RoughEstimate{Category: *spec.EstimateSize}, nil
	}
}

// PickupFromRequest builds the tagged pickup selection from the flat request fields
func PickupFromRequest(zone string, city *string) (models.PickupSelection, error) {
	switch models.PickupZone(zone) {
	case models.PickupZoneInCity:
		return models.InCityPickup{}, nil
	case models.PickupZoneOutOfCity:
		if city == nil || *city == "" {
			return nil, NewValidationError("pickup_city", "pickup_city is required for out_of_city pickups")
		}
		return models.OutOfCityPickup{City: *city}, nil
	default:
		return nil, NewValidationError("pickup_zone", "pickup_zone must be in_city or out_of_city")
	}
}

// QuoteInputFromSpec assembles the engine input from validated request parts
func QuoteInputFromSpec(spec dto.CargoSpec, zone string, city *string) (QuoteInput, error) {
	cargo, err := CargoFromSpec(spec)
	if err != nil {
		return QuoteInput{}, err
	}
	pickup, err := PickupFromRequest(zone, city)
	if err != nil {
		return QuoteInput{}, err
	}
	if spec.Quantity < 1 {
		return QuoteInput{}, NewValidationError("cargo.quantity", "quantity must be at least 1")
	}
	return QuoteInput{
		Cargo:    cargo,
		Pickup:   pickup,
		Quantity: spec.Quantity,
		WeightLb: spec.WeightLb,
	}, nil
}
