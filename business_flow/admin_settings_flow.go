package businessflow

import (
	"context"
	"log"

	"github.com/link360/pool-api/app/dto"
	"github.com/link360/pool-api/models"
	"github.com/link360/pool-api/repository"
	"github.com/link360/pool-api/utils"
	"gorm.io/gorm"
)

// AdminSettingsFlow defines the pricing settings operations
type AdminSettingsFlow interface {
	GetSettings(ctx context.Context) (*dto.PricingSettingsDTO, error)
	UpdateSettings(ctx context.Context, req *dto.PricingSettingsDTO, adminID uint, metadata *ClientMetadata) (*dto.UpdatePricingSettingsResponse, error)
}

// AdminSettingsFlowImpl implements the pricing settings operations
type AdminSettingsFlowImpl struct {
	settingsRepo repository.AdminSettingsRepository
	auditRepo    repository.AuditLogRepository
	pricing      PricingSource
	db           *gorm.DB
}

// NewAdminSettingsFlow creates a new admin settings flow instance
func NewAdminSettingsFlow(
	settingsRepo repository.AdminSettingsRepository,
	auditRepo repository.AuditLogRepository,
	pricing PricingSource,
	db *gorm.DB,
) AdminSettingsFlow {
	return &AdminSettingsFlowImpl{
		settingsRepo: settingsRepo,
		auditRepo:    auditRepo,
		pricing:      pricing,
		db:           db,
	}
}

// GetSettings returns the effective pricing knobs
func (s *AdminSettingsFlowImpl) GetSettings(ctx context.Context) (*dto.PricingSettingsDTO, error) {
	cfg, err := s.pricing.Current(ctx)
	if err != nil {
		return nil, NewBusinessError("SETTINGS_LOAD_FAILED", "failed to load pricing settings", err)
	}
	out := ToPricingSettingsDTO(cfg)
	return &out, nil
}

// UpdateSettings validates and persists new pricing knobs, then drops the
// cache so the next quote prices against them. The settings write and its
// audit record commit together.
func (s *AdminSettingsFlowImpl) UpdateSettings(ctx context.Context, req *dto.PricingSettingsDTO, adminID uint, metadata *ClientMetadata) (*dto.UpdatePricingSettingsResponse, error) {
	cfg := models.PricingConfig{
		RatePerIn3:         req.RatePerIn3,
		InCityStopFee:      req.InCityStopFee,
		OutOfCityBaseFee:   req.OutOfCityBaseFee,
		OutOfCityPerBoxFee: req.OutOfCityPerBoxFee,
		SurchargeMode:      models.SurchargeMode(req.SurchargeMode),
		HeavyThresholdLb:   req.HeavyThresholdLb,
		HeavyFlatFee:       req.HeavyFlatFee,
		HeavyPerLbOverFee:  req.HeavyPerLbOverFee,
	}
	if cfg.RatePerIn3 <= 0 {
		return nil, NewBusinessError("INVALID_SETTINGS", "rate_per_in3 must be positive", ErrInvalidPricingSettings)
	}
	if !cfg.SurchargeMode.Valid() {
		return nil, NewBusinessError("INVALID_SETTINGS", "unknown surcharge mode", ErrInvalidPricingSettings)
	}

	err := repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		row, err := s.settingsRepo.Latest(txCtx)
		if err != nil {
			return err
		}
		if row == nil {
			row = &models.AdminSettings{}
		}
		row.FromPricingConfig(cfg)
		row.UpdatedByAdminID = &adminID

		if row.ID == 0 {
			if err := s.settingsRepo.Save(txCtx, row); err != nil {
				return err
			}
		} else if err := s.settingsRepo.Update(txCtx, row); err != nil {
			return err
		}

		description := "pricing settings updated"
		entry := &models.AuditLog{
			AdminID:     &adminID,
			Action:      models.AuditActionPricingUpdated,
			Description: &description,
			Success:     utils.ToPtr(true),
		}
		if metadata != nil {
			entry.IPAddress = &metadata.IPAddress
			entry.UserAgent = &metadata.UserAgent
		}
		return s.auditRepo.Save(txCtx, entry)
	})
	if err != nil {
		return nil, NewBusinessError("SETTINGS_UPDATE_FAILED", "failed to update pricing settings", err)
	}

	s.pricing.Invalidate(ctx)
	log.Printf("pricing settings updated by admin %d", adminID)

	return &dto.UpdatePricingSettingsResponse{
		Message:  "Settings updated",
		Settings: ToPricingSettingsDTO(cfg),
	}, nil
}
