package businessflow

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/link360/pool-api/app/dto"
	"github.com/link360/pool-api/app/services"
	"github.com/link360/pool-api/models"
	"github.com/link360/pool-api/repository"
	"github.com/link360/pool-api/utils"
)

// PledgeFlow defines the pledge intake use cases
type PledgeFlow interface {
	SubmitPledge(ctx context.Context, req *dto.SubmitPledgeRequest, metadata *ClientMetadata) (*dto.SubmitPledgeResponse, error)
	PreviewQuote(ctx context.Context, req *dto.QuotePreviewRequest, metadata *ClientMetadata) (*dto.QuotePreviewResponse, error)
}

// PledgeFlowImpl implements the pledge intake orchestration
type PledgeFlowImpl struct {
	poolRepo      repository.PoolRepository
	pledgeRepo    repository.PledgeRepository
	auditRepo     repository.AuditLogRepository
	pricing       PricingSource
	notifier      services.PledgeNotifier
	pledgeLimiter *SlidingWindowLimiter
	quoteLimiter  *SlidingWindowLimiter
}

// NewPledgeFlow creates a new pledge flow instance
func NewPledgeFlow(
	poolRepo repository.PoolRepository,
	pledgeRepo repository.PledgeRepository,
	auditRepo repository.AuditLogRepository,
	pricing PricingSource,
	notifier services.PledgeNotifier,
	pledgeLimiter *SlidingWindowLimiter,
	quoteLimiter *SlidingWindowLimiter,
) PledgeFlow {
	return &PledgeFlowImpl{
		poolRepo:      poolRepo,
		pledgeRepo:    pledgeRepo,
		auditRepo:     auditRepo,
		pricing:       pricing,
		notifier:      notifier,
		pledgeLimiter: pledgeLimiter,
		quoteLimiter:  quoteLimiter,
	}
}

// SubmitPledge runs the full intake pipeline: rate limit, shape checks, pool
// gate, duplicate gate, authoritative re-quote, insert, then best-effort
// notifications. The quote the client saw is never trusted; whatever the
// engine computes here is what gets stored and returned.
func (s *PledgeFlowImpl) SubmitPledge(ctx context.Context, req *dto.SubmitPledgeRequest, metadata *ClientMetadata) (*dto.SubmitPledgeResponse, error) {
	if s.pledgeLimiter != nil && metadata != nil && !s.pledgeLimiter.Allow(metadata.IPAddress) {
		s.audit(ctx, nil, nil, models.AuditActionRateLimitExceeded,
			"pledge submission rejected by rate limiter", false, nil, metadata)
		return nil, ErrTooManyRequests
	}

	input, err := QuoteInputFromSpec(req.Cargo, req.PickupZone, req.PickupCity)
	if err != nil {
		return nil, err
	}

	pool, err := s.poolRepo.ByUUID(ctx, req.PoolID)
	if err != nil {
		return nil, NewBusinessError("POOL_LOOKUP_FAILED", "failed to look up pool", err)
	}
	if pool == nil {
		return nil, ErrPoolNotFound
	}
	if !pool.IsAcceptingPledges() {
		s.audit(ctx, nil, &pool.ID, models.AuditActionPledgeRejected,
			fmt.Sprintf("pool %s is %s, not collecting", pool.UUID, pool.Status), false, nil, metadata)
		return nil, ErrPoolNotAcceptingPledges
	}

	existing, err := s.pledgeRepo.ByPoolAndEmail(ctx, pool.ID, req.UserEmail)
	if err != nil {
		return nil, NewBusinessError("DUPLICATE_CHECK_FAILED", "failed to check for existing pledge", err)
	}
	if existing != nil {
		return nil, ErrDuplicatePledge
	}

	cfg, err := s.pricing.Current(ctx)
	if err != nil {
		return nil, NewBusinessError("PRICING_UNAVAILABLE", "failed to load pricing configuration", err)
	}
	quote, err := BuildQuote(input, cfg)
	if err != nil {
		return nil, err
	}

	pledge := s.buildPledge(req, pool, quote)
	if err := s.pledgeRepo.Save(ctx, pledge); err != nil {
		// The unique index on (pool_id, email_normalized) is the
		// authoritative duplicate gate; losing the insert race lands here.
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicatePledge
		}
		return nil, NewBusinessError("PLEDGE_SAVE_FAILED", "failed to save pledge", err)
	}

	s.audit(ctx, &pledge.ID, &pool.ID, models.AuditActionPledgeSubmitted,
		fmt.Sprintf("pledge %s accepted for pool %s (%.2f ft3)", pledge.UUID, pool.Slug, quote.VolumeCubicFeet),
		true, nil, metadata)

	s.notifyAsync(pledge, pool)

	return &dto.SubmitPledgeResponse{
		Message:    "Pledge received",
		PledgeUUID: pledge.UUID.String(),
		PoolUUID:   pool.UUID.String(),
		Status:     pledge.Status.String(),
		Quote:      ToQuoteDTO(quote),
	}, nil
}

// PreviewQuote prices a submission without persisting anything. It shares
// the exact BuildQuote path used at intake, so a preview and the stored
// quote can only differ if pricing changed in between.
func (s *PledgeFlowImpl) PreviewQuote(ctx context.Context, req *dto.QuotePreviewRequest, metadata *ClientMetadata) (*dto.QuotePreviewResponse, error) {
	if s.quoteLimiter != nil && metadata != nil && !s.quoteLimiter.Allow(metadata.IPAddress) {
		return nil, ErrTooManyRequests
	}

	cargo, err := CargoFromSpec(req.Cargo)
	if err != nil {
		return nil, err
	}
	// Previews have no pickup city yet; the zone alone decides the fee.
	var pickup models.PickupSelection
	switch models.PickupZone(req.PickupZone) {
	case models.PickupZoneInCity:
		pickup = models.InCityPickup{}
	case models.PickupZoneOutOfCity:
		pickup = models.OutOfCityPickup{}
	default:
		return nil, NewValidationError("pickup_zone", "pickup_zone must be in_city or out_of_city")
	}
	if req.Cargo.Quantity < 1 {
		return nil, NewValidationError("cargo.quantity", "quantity must be at least 1")
	}
	input := QuoteInput{
		Cargo:    cargo,
		Pickup:   pickup,
		Quantity: req.Cargo.Quantity,
		WeightLb: req.Cargo.WeightLb,
	}

	cfg, err := s.pricing.Current(ctx)
	if err != nil {
		return nil, NewBusinessError("PRICING_UNAVAILABLE", "failed to load pricing configuration", err)
	}
	quote, err := BuildQuote(input, cfg)
	if err != nil {
		return nil, err
	}

	return &dto.QuotePreviewResponse{Quote: ToQuoteDTO(quote)}, nil
}

// buildPledge flattens the request and quote into the storage model
func (s *PledgeFlowImpl) buildPledge(req *dto.SubmitPledgeRequest, pool *models.Pool, quote models.Quote) *models.Pledge {
	pledge := &models.Pledge{
		PoolID:          pool.ID,
		UserEmail:       req.UserEmail,
		EmailNormalized: models.NormalizeEmail(req.UserEmail),
		UserName:        req.UserName,
		UserPhone:       req.UserPhone,
		PickupZone:      models.PickupZone(req.PickupZone),
		PickupCity:      req.PickupCity,
		ItemMode:        models.ItemMode(req.Cargo.ItemMode),
		StandardBoxCode: req.Cargo.StandardBoxCode,
		LengthIn:        req.Cargo.LengthIn,
		WidthIn:         req.Cargo.WidthIn,
		HeightIn:        req.Cargo.HeightIn,
		EstimateSize:    req.Cargo.EstimateSize,
		Quantity:        req.Cargo.Quantity,
		WeightLb:        req.Cargo.WeightLb,
		Notes:           req.Notes,
		Status:          models.PledgeStatusPledged,
	}
	pledge.ApplyQuote(quote)
	return pledge
}

// notifyAsync sends the confirmation and admin notification off the request
// path. Failures are logged and audited, never surfaced to the submitter.
func (s *PledgeFlowImpl) notifyAsync(pledge *models.Pledge, pool *models.Pool) {
	if s.notifier == nil {
		return
	}
	go func() {
		nctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.notifier.SendPledgeConfirmation(nctx, pledge, pool); err != nil {
			log.Printf("pledge confirmation email failed for %s: %v", pledge.UUID, err)
			errMsg := err.Error()
			s.audit(nctx, &pledge.ID, &pool.ID, models.AuditActionNotificationFailed,
				"confirmation email failed", false, &errMsg, nil)
		}
		if err := s.notifier.NotifyAdminNewPledge(nctx, pledge, pool); err != nil {
			log.Printf("admin notification failed for %s: %v", pledge.UUID, err)
			errMsg := err.Error()
			s.audit(nctx, &pledge.ID, &pool.ID, models.AuditActionNotificationFailed,
				"admin notification failed", false, &errMsg, nil)
		}
	}()
}

// audit writes an audit row, logging instead of failing when it cannot
func (s *PledgeFlowImpl) audit(ctx context.Context, pledgeID, poolID *uint, action, description string, success bool, errorMsg *string, metadata *ClientMetadata) {
	if s.auditRepo == nil {
		return
	}

	entry := &models.AuditLog{
		PledgeID:     pledgeID,
		PoolID:       poolID,
		Action:       action,
		Description:  &description,
		Success:      utils.ToPtr(success),
		ErrorMessage: errorMsg,
	}
	if metadata != nil {
		entry.IPAddress = &metadata.IPAddress
		entry.UserAgent = &metadata.UserAgent
		if metadata.RequestID != "" {
			entry.RequestID = &metadata.RequestID
		}
	}

	if err := s.auditRepo.Save(ctx, entry); err != nil {
		log.Printf("audit log write failed (%s): %v", action, err)
	}
}
