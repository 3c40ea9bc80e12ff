// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/link360/pool-api/app/dto"
	"github.com/link360/pool-api/models"
	"github.com/link360/pool-api/utils"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds all client-related information for audit logging and rate limiting
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToQuoteDTO converts an engine quote to its API representation
func ToQuoteDTO(q models.Quote) dto.QuoteDTO {
	return dto.QuoteDTO{
		ComputedIn3:     q.VolumeCubicInches,
		ComputedFt3:     q.VolumeCubicFeet,
		EstShippingCost: q.ShippingCost,
		EstPickupFee:    q.PickupFee,
		HeavySurcharge:  q.HeavySurcharge,
		EstTotal:        q.Total,
	}
}

// ToPledgeDTO converts a pledge model to PledgeDTO for API responses
func ToPledgeDTO(pledge models.Pledge) dto.PledgeDTO {
	out := dto.PledgeDTO{
		UUID:            pledge.UUID.String(),
		UserEmail:       pledge.UserEmail,
		UserName:        pledge.UserName,
		UserPhone:       pledge.UserPhone,
		PickupZone:      pledge.PickupZone.String(),
		PickupCity:      pledge.PickupCity,
		ItemMode:        pledge.ItemMode.String(),
		StandardBoxCode: pledge.StandardBoxCode,
		LengthIn:        pledge.LengthIn,
		WidthIn:         pledge.WidthIn,
		HeightIn:        pledge.HeightIn,
		EstimateSize:    pledge.EstimateSize,
		Quantity:        pledge.Quantity,
		WeightLb:        pledge.WeightLb,
		IsInternalCargo: utils.IsTrue(pledge.IsInternalCargo),
		Notes:           pledge.Notes,
		Status:          pledge.Status.String(),
		CreatedAt:       pledge.CreatedAt.Format(time.RFC3339),
		Quote: dto.QuoteDTO{
			ComputedIn3:     pledge.ComputedIn3,
			ComputedFt3:     pledge.ComputedFt3,
			EstShippingCost: pledge.EstShippingCost,
			EstPickupFee:    pledge.EstPickupFee,
			HeavySurcharge:  pledge.HeavySurcharge,
			EstTotal:        pledge.EstTotal,
		},
	}
	if pledge.Pool != nil {
		out.PoolUUID = pledge.Pool.UUID.String()
	}
	return out
}

// ToPoolDTO converts a pool model to PoolDTO for API responses
func ToPoolDTO(pool models.Pool, stats *models.PoolStats) dto.PoolDTO {
	out := dto.PoolDTO{
		UUID:                 pool.UUID.String(),
		Slug:                 pool.Slug,
		Title:                pool.Title,
		DestinationCity:      pool.DestinationCity,
		OriginRegion:         pool.OriginRegion,
		ContainerType:        pool.ContainerType,
		UsableFt3:            pool.UsableFt3,
		AnnounceThresholdPct: pool.AnnounceThresholdPct,
		Status:               pool.Status.String(),
		AcceptingPledges:     pool.IsAcceptingPledges(),
		CreatedAt:            pool.CreatedAt.Format(time.RFC3339),
	}
	if pool.ShipsAt != nil {
		shipsAt := pool.ShipsAt.Format(time.RFC3339)
		out.ShipsAt = &shipsAt
	}
	if stats != nil {
		out.Stats = &dto.PoolStatsDTO{
			PledgeCount:   stats.PledgeCount,
			PledgedFt3:    stats.PledgedFt3,
			FillPct:       stats.FillPct,
			RemainingFt3:  stats.RemainingFt3,
			AnnounceReady: stats.AnnounceReady,
		}
	}
	return out
}

// ToPricingSettingsDTO converts the pricing knobs to their API representation
func ToPricingSettingsDTO(cfg models.PricingConfig) dto.PricingSettingsDTO {
	return dto.PricingSettingsDTO{
		RatePerIn3:         cfg.RatePerIn3,
		InCityStopFee:      cfg.InCityStopFee,
		OutOfCityBaseFee:   cfg.OutOfCityBaseFee,
		OutOfCityPerBoxFee: cfg.OutOfCityPerBoxFee,
		SurchargeMode:      string(cfg.SurchargeMode),
		HeavyThresholdLb:   cfg.HeavyThresholdLb,
		HeavyFlatFee:       cfg.HeavyFlatFee,
		HeavyPerLbOverFee:  cfg.HeavyPerLbOverFee,
	}
}
