package businessflow

import (
	"context"
	"fmt"
	"log"

	"github.com/link360/pool-api/app/dto"
	"github.com/link360/pool-api/models"
	"github.com/link360/pool-api/repository"
	"github.com/link360/pool-api/utils"
	"gorm.io/gorm"
)

// AdminPledgeFilter narrows the back-office pledge listing
type AdminPledgeFilter struct {
	PoolUUID *string
	Status   *string
	Limit    int
	Offset   int
}

// AdminPledgeFlow defines the back-office pledge operations
type AdminPledgeFlow interface {
	ListPledges(ctx context.Context, filter AdminPledgeFilter, metadata *ClientMetadata) (*dto.ListPledgesResponse, error)
	UpdatePledgeStatus(ctx context.Context, pledgeUUID string, req *dto.UpdatePledgeStatusRequest, adminID uint, metadata *ClientMetadata) (*dto.UpdatePledgeStatusResponse, error)
}

// AdminPledgeFlowImpl implements the back-office pledge operations
type AdminPledgeFlowImpl struct {
	poolRepo   repository.PoolRepository
	pledgeRepo repository.PledgeRepository
	auditRepo  repository.AuditLogRepository
	db         *gorm.DB
}

// NewAdminPledgeFlow creates a new admin pledge flow instance
func NewAdminPledgeFlow(
	poolRepo repository.PoolRepository,
	pledgeRepo repository.PledgeRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) AdminPledgeFlow {
	return &AdminPledgeFlowImpl{
		poolRepo:   poolRepo,
		pledgeRepo: pledgeRepo,
		auditRepo:  auditRepo,
		db:         db,
	}
}

// ListPledges returns pledges for the back office, optionally narrowed to a
// pool and status. When a pool is named, its fill stats ride along.
func (s *AdminPledgeFlowImpl) ListPledges(ctx context.Context, filter AdminPledgeFilter, metadata *ClientMetadata) (*dto.ListPledgesResponse, error) {
	modelFilter := models.PledgeFilter{}
	var pool *models.Pool

	if filter.PoolUUID != nil {
		var err error
		pool, err = s.poolRepo.ByUUID(ctx, *filter.PoolUUID)
		if err != nil {
			return nil, NewBusinessError("POOL_LOOKUP_FAILED", "failed to look up pool", err)
		}
		if pool == nil {
			return nil, ErrPoolNotFound
		}
		modelFilter.PoolID = &pool.ID
	}
	if filter.Status != nil {
		status := models.PledgeStatus(*filter.Status)
		if !status.Valid() {
			return nil, NewValidationError("status", "unknown pledge status")
		}
		modelFilter.Status = &status
	}

	pledges, err := s.pledgeRepo.ByFilter(ctx, modelFilter, "created_at DESC", filter.Limit, filter.Offset)
	if err != nil {
		return nil, NewBusinessError("PLEDGE_LIST_FAILED", "failed to list pledges", err)
	}

	out := &dto.ListPledgesResponse{Pledges: make([]dto.PledgeDTO, 0, len(pledges))}
	for _, pledge := range pledges {
		out.Pledges = append(out.Pledges, ToPledgeDTO(*pledge))
	}
	out.Total = len(out.Pledges)

	if pool != nil {
		stats, err := s.pledgeRepo.StatsByPool(ctx, pool)
		if err != nil {
			return nil, NewBusinessError("POOL_STATS_FAILED", "failed to aggregate pool stats", err)
		}
		out.Stats = &dto.AdminPoolStatsDTO{
			PoolStatsDTO: dto.PoolStatsDTO{
				PledgeCount:   stats.PledgeCount,
				PledgedFt3:    stats.PledgedFt3,
				FillPct:       stats.FillPct,
				RemainingFt3:  stats.RemainingFt3,
				AnnounceReady: stats.AnnounceReady,
			},
			InternalFt3: stats.InternalFt3,
			PaidFt3:     stats.PaidFt3,
			EstRevenue:  stats.EstRevenue,
		}
	}

	return out, nil
}

// UpdatePledgeStatus applies an operator's status change, enforcing the
// pledge state machine. The row update and the audit record commit together.
func (s *AdminPledgeFlowImpl) UpdatePledgeStatus(ctx context.Context, pledgeUUID string, req *dto.UpdatePledgeStatusRequest, adminID uint, metadata *ClientMetadata) (*dto.UpdatePledgeStatusResponse, error) {
	pledge, err := s.pledgeRepo.ByUUID(ctx, pledgeUUID)
	if err != nil {
		return nil, NewBusinessError("PLEDGE_LOOKUP_FAILED", "failed to look up pledge", err)
	}
	if pledge == nil {
		return nil, ErrPledgeNotFound
	}

	target := models.PledgeStatus(req.Status)
	if !target.Valid() {
		return nil, NewValidationError("status", "unknown pledge status")
	}
	if !pledge.Status.CanTransitionTo(target) {
		return nil, NewBusinessError("INVALID_STATUS_CHANGE",
			fmt.Sprintf("cannot move pledge from %s to %s", pledge.Status, target), ErrInvalidStatusChange)
	}

	previous := pledge.Status
	pledge.Status = target
	if req.IsInternalCargo != nil {
		pledge.IsInternalCargo = req.IsInternalCargo
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.pledgeRepo.Update(txCtx, pledge); err != nil {
			return err
		}
		description := fmt.Sprintf("pledge %s moved %s -> %s", pledge.UUID, previous, target)
		entry := &models.AuditLog{
			PledgeID:    &pledge.ID,
			PoolID:      &pledge.PoolID,
			AdminID:     &adminID,
			Action:      models.AuditActionPledgeStatusChanged,
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
		return nil, NewBusinessError("PLEDGE_UPDATE_FAILED", "failed to update pledge", err)
	}

	log.Printf("pledge %s status changed %s -> %s by admin %d", pledge.UUID, previous, target, adminID)

	return &dto.UpdatePledgeStatusResponse{
		Message: "Pledge updated",
		Pledge:  ToPledgeDTO(*pledge),
	}, nil
}
