// Package models contains domain entities and business models for the pool shipping system
package models

import (
	"database/sql/driver"
	"fmt"
)

// ItemMode represents how a submitter describes their cargo's size
type ItemMode string

const (
	ItemModeStandardBox ItemMode = "standard_box"
	ItemModeCustomDims  ItemMode = "custom_dims"
	ItemModeEstimate    ItemMode = "estimate"
)

// String returns the string representation of the mode
func (m ItemMode) String() string {
	return string(m)
}

// Valid checks if the mode is valid
func (m ItemMode) Valid() bool {
	switch m {
	case ItemModeStandardBox, ItemModeCustomDims, ItemModeEstimate:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for ItemMode
func (m *ItemMode) Scan(value any) error {
	if value == nil {
		*m = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*m = ItemMode(v)
	case []byte:
		*m = ItemMode(string(v))
	default:
		return fmt.Errorf("cannot scan %T into ItemMode", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for ItemMode
func (m ItemMode) Value() (driver.Value, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid ItemMode: %s", m)
	}
	return string(m), nil
}

// PickupZone represents the pickup-fee policy for a pledge
type PickupZone string

const (
	PickupZoneInCity    PickupZone = "in_city"
	PickupZoneOutOfCity PickupZone = "out_of_city"
)

// String returns the string representation of the zone
func (z PickupZone) String() string {
	return string(z)
}

// Valid checks if the zone is valid
func (z PickupZone) Valid() bool {
	return z == PickupZoneInCity || z == PickupZoneOutOfCity
}

// Scan implements the sql.Scanner interface for PickupZone
func (z *PickupZone) Scan(value any) error {
	if value == nil {
		*z = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*z = PickupZone(v)
	case []byte:
		*z = PickupZone(string(v))
	default:
		return fmt.Errorf("cannot scan %T into PickupZone", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for PickupZone
func (z PickupZone) Value() (driver.Value, error) {
	if !z.Valid() {
		return nil, fmt.Errorf("invalid PickupZone: %s", z)
	}
	return string(z), nil
}

// CubicInchesPerCubicFoot is the fixed conversion constant of the quotation
// engine. It is part of the engine's contract, not configuration.
const CubicInchesPerCubicFoot = 1728.0

// BoxDims holds the dimensions of a standard box in inches
type BoxDims struct {
	LengthIn float64
	WidthIn  float64
	HeightIn float64
}

// VolumeCubicInches returns the box volume in cubic inches
func (d BoxDims) VolumeCubicInches() float64 {
	return d.LengthIn * d.WidthIn * d.HeightIn
}

// StandardBoxes is the fixed lookup table of standard box codes (L x W x H in inches)
var StandardBoxes = map[string]BoxDims{
	"S":  {LengthIn: 18, WidthIn: 18, HeightIn: 18},
	"M":  {LengthIn: 24, WidthIn: 24, HeightIn: 24},
	"L":  {LengthIn: 24, WidthIn: 24, HeightIn: 48},
	"TV": {LengthIn: 18, WidthIn: 18, HeightIn: 48},
}

// EstimateCategoryFt3 maps rough-estimate size categories to default cubic feet
var EstimateCategoryFt3 = map[string]float64{
	"small":  2,
	"medium": 4,
	"large":  8,
}

// CargoDescription is the tagged union of the three cargo-description modes.
// The sealed interface forces the quotation engine to handle every mode
// exhaustively; adding a mode without teaching the engine about it is a
// compile-time error at the type switch default.
type CargoDescription interface {
	Mode() ItemMode
	cargoDescription()
}

// StandardBox describes cargo as one of the fixed box codes
type StandardBox struct {
	Code string
}

func (StandardBox) Mode() ItemMode    { return ItemModeStandardBox }
func (StandardBox) cargoDescription() {}

// CustomDimensions describes cargo by caller-supplied dimensions in inches
type CustomDimensions struct {
	LengthIn float64
	WidthIn  float64
	HeightIn float64
}

func (CustomDimensions) Mode() ItemMode    { return ItemModeCustomDims }
func (CustomDimensions) cargoDescription() {}

// RoughEstimate describes cargo by a coarse size category
type RoughEstimate struct {
	Category string
}

func (RoughEstimate) Mode() ItemMode    { return ItemModeEstimate }
func (RoughEstimate) cargoDescription() {}

// PickupSelection is the tagged union of the two pickup-fee policies
type PickupSelection interface {
	Zone() PickupZone
	pickupSelection()
}

// InCityPickup is a flat-fee stop inside the service city
type InCityPickup struct{}

func (InCityPickup) Zone() PickupZone { return PickupZoneInCity }
func (InCityPickup) pickupSelection() {}

// OutOfCityPickup is a base fee plus a per-box fee for remote pickups
type OutOfCityPickup struct {
	City string
}

func (OutOfCityPickup) Zone() PickupZone { return PickupZoneOutOfCity }
func (OutOfCityPickup) pickupSelection() {}

// Quote is the deterministic output of the quotation engine for a given
// cargo/pickup input. It is derived, never trusted from clients, and is
// persisted on the pledge at submission time.
type Quote struct {
	VolumeCubicInches float64 `json:"computed_in3"`
	VolumeCubicFeet   float64 `json:"computed_ft3"`
	ShippingCost      float64 `json:"est_shipping_cost"`
	PickupFee         float64 `json:"est_pickup_fee"`
	HeavySurcharge    float64 `json:"heavy_surcharge,omitempty"`
	Total             float64 `json:"est_total"`
}
