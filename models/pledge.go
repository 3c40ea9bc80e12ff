package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PledgeStatus represents the lifecycle state of a pledge
type PledgeStatus string

const (
	PledgeStatusPledged   PledgeStatus = "pledged"
	PledgeStatusConfirmed PledgeStatus = "confirmed"
	PledgeStatusWithdrawn PledgeStatus = "withdrawn"
	PledgeStatusShipped   PledgeStatus = "shipped"
)

// String returns the string representation of the status
func (s PledgeStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s PledgeStatus) Valid() bool {
	switch s {
	case PledgeStatusPledged, PledgeStatusConfirmed, PledgeStatusWithdrawn, PledgeStatusShipped:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for PledgeStatus
func (s *PledgeStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = PledgeStatus(v)
	case []byte:
		*s = PledgeStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into PledgeStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for PledgeStatus
func (s PledgeStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid PledgeStatus: %s", s)
	}
	return string(s), nil
}

// CanTransitionTo reports whether the status may move to the target status.
// Withdrawn and shipped are terminal.
func (s PledgeStatus) CanTransitionTo(target PledgeStatus) bool {
	switch s {
	case PledgeStatusPledged:
		return target == PledgeStatusConfirmed || target == PledgeStatusWithdrawn
	case PledgeStatusConfirmed:
		return target == PledgeStatusShipped || target == PledgeStatusWithdrawn
	default:
		return false
	}
}

// CountsTowardFill reports whether a pledge in this status occupies pool volume
func (s PledgeStatus) CountsTowardFill() bool {
	return s != PledgeStatusWithdrawn
}

// Pledge represents one submitter's space reservation in a pool, with the
// cargo description they gave and the quote computed for it at intake time
type Pledge struct {
	ID              uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID            uuid.UUID    `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`
	PoolID          uint         `gorm:"not null;uniqueIndex:uk_pledges_pool_email" json:"pool_id"`
	UserEmail       string       `gorm:"not null;size:255" json:"user_email"`
	EmailNormalized string       `gorm:"not null;size:255;uniqueIndex:uk_pledges_pool_email" json:"-"`
	UserName        string       `gorm:"not null;size:255" json:"user_name"`
	UserPhone       *string      `gorm:"size:20" json:"user_phone,omitempty"`
	PickupZone      PickupZone   `gorm:"not null;size:20" json:"pickup_zone"`
	PickupCity      *string      `gorm:"size:120" json:"pickup_city,omitempty"`
	ItemMode        ItemMode     `gorm:"not null;size:20" json:"item_mode"`
	StandardBoxCode *string      `gorm:"size:10" json:"standard_box_code,omitempty"`
	LengthIn        *float64     `json:"length_in,omitempty"`
	WidthIn         *float64     `json:"width_in,omitempty"`
	HeightIn        *float64     `json:"height_in,omitempty"`
	EstimateSize    *string      `gorm:"size:20" json:"estimate_size,omitempty"`
	Quantity        int          `gorm:"not null;default:1" json:"quantity"`
	WeightLb        *float64     `json:"weight_lb,omitempty"`
	ComputedIn3     float64      `gorm:"not null" json:"computed_in3"`
	ComputedFt3     float64      `gorm:"not null" json:"computed_ft3"`
	EstShippingCost float64      `gorm:"not null" json:"est_shipping_cost"`
	EstPickupFee    float64      `gorm:"not null" json:"est_pickup_fee"`
	HeavySurcharge  float64      `gorm:"not null;default:0" json:"heavy_surcharge"`
	EstTotal        float64      `gorm:"not null" json:"est_total"`
	IsInternalCargo *bool        `gorm:"default:false" json:"is_internal_cargo,omitempty"`
	Notes           *string      `gorm:"type:text" json:"notes,omitempty"`
	Status          PledgeStatus `gorm:"not null;default:'pledged'" json:"status"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       *time.Time   `json:"updated_at,omitempty"`

	// Relationships
	Pool *Pool `gorm:"foreignKey:PoolID" json:"pool,omitempty"`
}

// TableName returns the table name for Pledge
func (Pledge) TableName() string {
	return "pledges"
}

// NormalizeEmail lowercases and trims an email address for duplicate detection
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// BeforeCreate hook for Pledge
func (p *Pledge) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	if p.Status == "" {
		p.Status = PledgeStatusPledged
	}
	// The normalized column backs the composite unique index that makes
	// one-pledge-per-email-per-pool hold under concurrent submissions.
	if p.EmailNormalized == "" {
		p.EmailNormalized = NormalizeEmail(p.UserEmail)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	return nil
}

// CargoDescription reconstructs the tagged cargo description from the
// flattened storage columns
func (p *Pledge) CargoDescription() (CargoDescription, error) {
	switch p.ItemMode {
	case ItemModeStandardBox:
		if p.StandardBoxCode == nil {
			return nil, fmt.Errorf("pledge %s: standard_box mode without box code", p.UUID)
		}
		return StandardBox{Code: *p.StandardBoxCode}, nil
	case ItemModeCustomDims:
		if p.LengthIn == nil || p.WidthIn == nil || p.HeightIn == nil {
			return nil, fmt.Errorf("pledge %s: custom_dims mode with missing dimensions", p.UUID)
		}
		return CustomDimensions{LengthIn: *p.LengthIn, WidthIn: *p.WidthIn, HeightIn: *p.HeightIn}, nil
	case ItemModeEstimate:
		if p.EstimateSize == nil {
			return nil, fmt.Errorf("pledge %s: estimate mode without size category", p.UUID)
		}
		return RoughEstimate{Category: *p.EstimateSize}, nil
	default:
		return nil, fmt.Errorf("pledge %s: unknown item mode %q", p.UUID, p.ItemMode)
	}
}

// PickupSelection reconstructs the tagged pickup selection from the
// flattened storage columns
func (p *Pledge) PickupSelection() (PickupSelection, error) {
	switch p.PickupZone {
	case PickupZoneInCity:
		return InCityPickup{}, nil
	case PickupZoneOutOfCity:
		city := ""
		if p.PickupCity != nil {
			city = *p.PickupCity
		}
		return OutOfCityPickup{City: city}, nil
	default:
		return nil, fmt.Errorf("pledge %s: unknown pickup zone %q", p.UUID, p.PickupZone)
	}
}

// ApplyQuote copies the engine's computed figures onto the pledge
func (p *Pledge) ApplyQuote(q Quote) {
	p.ComputedIn3 = q.VolumeCubicInches
	p.ComputedFt3 = q.VolumeCubicFeet
	p.EstShippingCost = q.ShippingCost
	p.EstPickupFee = q.PickupFee
	p.HeavySurcharge = q.HeavySurcharge
	p.EstTotal = q.Total
}

// PledgeFilter represents filters for querying pledges
type PledgeFilter struct {
	ID              *uint         `json:"id,omitempty"`
	UUID            *uuid.UUID    `json:"uuid,omitempty"`
	PoolID          *uint         `json:"pool_id,omitempty"`
	EmailNormalized *string       `json:"email_normalized,omitempty"`
	Status          *PledgeStatus `json:"status,omitempty"`
	PickupZone      *PickupZone   `json:"pickup_zone,omitempty"`
	IsInternalCargo *bool         `json:"is_internal_cargo,omitempty"`
	CreatedAfter    *time.Time    `json:"created_after,omitempty"`
	CreatedBefore   *time.Time    `json:"created_before,omitempty"`
}
