package businessflow

import (
	"context"

	"github.com/link360/pool-api/app/dto"
	"github.com/link360/pool-api/models"
	"github.com/link360/pool-api/repository"
	"github.com/link360/pool-api/utils"
)

// PoolFlow defines the public pool read surface
type PoolFlow interface {
	ListPools(ctx context.Context, metadata *ClientMetadata) (*dto.ListPoolsResponse, error)
	GetPool(ctx context.Context, uuidStr string, metadata *ClientMetadata) (*dto.PoolDTO, error)
}

// PoolFlowImpl implements the pool read surface
type PoolFlowImpl struct {
	poolRepo   repository.PoolRepository
	pledgeRepo repository.PledgeRepository
}

// NewPoolFlow creates a new pool flow instance
func NewPoolFlow(poolRepo repository.PoolRepository, pledgeRepo repository.PledgeRepository) PoolFlow {
	return &PoolFlowImpl{
		poolRepo:   poolRepo,
		pledgeRepo: pledgeRepo,
	}
}

// ListPools returns the public pools, collecting ones first
func (s *PoolFlowImpl) ListPools(ctx context.Context, metadata *ClientMetadata) (*dto.ListPoolsResponse, error) {
	pools, err := s.poolRepo.ByFilter(ctx, models.PoolFilter{IsPublic: utils.ToPtr(true)},
		"CASE WHEN status = 'collecting' THEN 0 ELSE 1 END, created_at DESC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("POOL_LIST_FAILED", "failed to list pools", err)
	}

	out := &dto.ListPoolsResponse{Pools: make([]dto.PoolDTO, 0, len(pools))}
	for _, pool := range pools {
		stats, err := s.pledgeRepo.StatsByPool(ctx, pool)
		if err != nil {
			return nil, NewBusinessError("POOL_STATS_FAILED", "failed to aggregate pool stats", err)
		}
		out.Pools = append(out.Pools, ToPoolDTO(*pool, stats))
	}
	out.Total = len(out.Pools)
	return out, nil
}

// GetPool returns a single public pool with its fill stats
func (s *PoolFlowImpl) GetPool(ctx context.Context, uuidStr string, metadata *ClientMetadata) (*dto.PoolDTO, error) {
	pool, err := s.poolRepo.ByUUID(ctx, uuidStr)
	if err != nil {
		return nil, NewBusinessError("POOL_LOOKUP_FAILED", "failed to look up pool", err)
	}
	if pool == nil || !pool.IsVisible() {
		return nil, ErrPoolNotFound
	}

	stats, err := s.pledgeRepo.StatsByPool(ctx, pool)
	if err != nil {
		return nil, NewBusinessError("POOL_STATS_FAILED", "failed to aggregate pool stats", err)
	}

	out := ToPoolDTO(*pool, stats)
	return &out, nil
}
