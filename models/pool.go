package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PoolStatus represents the lifecycle state of a shipping pool
type PoolStatus string

const (
	PoolStatusCollecting PoolStatus = "collecting"
	PoolStatusAnnounced  PoolStatus = "announced"
	PoolStatusConfirmed  PoolStatus = "confirmed"
	PoolStatusLoading    PoolStatus = "loading"
	PoolStatusShipped    PoolStatus = "shipped"
	PoolStatusDelivered  PoolStatus = "delivered"
	PoolStatusClosed     PoolStatus = "closed"
)

// String returns the string representation of the status
func (s PoolStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s PoolStatus) Valid() bool {
	switch s {
	case PoolStatusCollecting, PoolStatusAnnounced, PoolStatusConfirmed,
		PoolStatusLoading, PoolStatusShipped, PoolStatusDelivered, PoolStatusClosed:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for PoolStatus
func (s *PoolStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = PoolStatus(v)
	case []byte:
		*s = PoolStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into PoolStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for PoolStatus
func (s PoolStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid PoolStatus: %s", s)
	}
	return string(s), nil
}

// Pool represents a pooled shipping container that accumulates pledges
// until it has enough volume to ship
type Pool struct {
	ID                   uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID                 uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`
	Slug                 string         `gorm:"uniqueIndex;not null;size:120" json:"slug"`
	Title                string         `gorm:"not null;size:255" json:"title"`
	DestinationCity      string         `gorm:"not null;size:120" json:"destination_city"`
	OriginRegion         *string        `gorm:"size:120" json:"origin_region,omitempty"`
	ContainerType        string         `gorm:"not null;size:60;default:'20ft'" json:"container_type"`
	UsableFt3            float64        `gorm:"not null" json:"usable_ft3"`
	AnnounceThresholdPct float64        `gorm:"not null;default:80" json:"announce_threshold_pct"`
	TargetShipCost       *float64       `json:"target_ship_cost,omitempty"`
	Status               PoolStatus     `gorm:"not null;default:'collecting'" json:"status"`
	IsPublic             *bool          `gorm:"default:true" json:"is_public"`
	ShipsAt              *time.Time     `json:"ships_at,omitempty"`
	CreatedAt            time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt            *time.Time     `json:"updated_at,omitempty"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Pledges []Pledge `gorm:"foreignKey:PoolID" json:"pledges,omitempty"`
}

// TableName returns the table name for Pool
func (Pool) TableName() string {
	return "pools"
}

// BeforeCreate hook for Pool
func (p *Pool) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	if p.Status == "" {
		p.Status = PoolStatusCollecting
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	return nil
}

// IsAcceptingPledges reports whether new pledges may be submitted to the pool.
// Only a collecting pool takes intake; every later lifecycle state is closed
// to new cargo.
func (p *Pool) IsAcceptingPledges() bool {
	return p.Status == PoolStatusCollecting
}

// IsVisible reports whether the pool appears on the public read surface
func (p *Pool) IsVisible() bool {
	return p.IsPublic == nil || *p.IsPublic
}

// PoolStats is the aggregate fill picture of a pool, computed from its
// active (non-withdrawn) pledges
type PoolStats struct {
	PledgeCount   int64   `json:"pledge_count"`
	PledgedFt3    float64 `json:"pledged_ft3"`
	InternalFt3   float64 `json:"internal_ft3"`
	PaidFt3       float64 `json:"paid_ft3"`
	FillPct       float64 `json:"fill_pct"`
	EstRevenue    float64 `json:"est_revenue"`
	RemainingFt3  float64 `json:"remaining_ft3"`
	AnnounceReady bool    `json:"announce_ready"`
}

// PoolFilter represents filters for querying pools
type PoolFilter struct {
	ID              *uint       `json:"id,omitempty"`
	UUID            *uuid.UUID  `json:"uuid,omitempty"`
	Slug            *string     `json:"slug,omitempty"`
	DestinationCity *string     `json:"destination_city,omitempty"`
	Status          *PoolStatus `json:"status,omitempty"`
	IsPublic        *bool       `json:"is_public,omitempty"`
	CreatedAfter    *time.Time  `json:"created_after,omitempty"`
	CreatedBefore   *time.Time  `json:"created_before,omitempty"`
}
