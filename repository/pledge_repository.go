package repository

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"github.com/link360/pool-api/models"
	"github.com/link360/pool-api/utils"
	"gorm.io/gorm"
)

// uniqueViolationCode is the Postgres error code for unique constraint violations
const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether the error is a Postgres unique-index
// violation. The pledges table carries a composite unique index on
// (pool_id, email_normalized); a violation there means a concurrent
// submission won the duplicate race.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolationCode
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// PledgeRepositoryImpl implements PledgeRepository interface
type PledgeRepositoryImpl struct {
	*BaseRepository[models.Pledge, models.PledgeFilter]
}

// NewPledgeRepository creates a new pledge repository
func NewPledgeRepository(db *gorm.DB) PledgeRepository {
	return &PledgeRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Pledge, models.PledgeFilter](db),
	}
}

// ByUUID retrieves a pledge by UUID
func (r *PledgeRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.Pledge, error) {
	parsed, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}
	rows, err := r.ByFilter(ctx, models.PledgeFilter{UUID: &parsed}, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ByPoolAndEmail retrieves a pledge by pool and normalized email. The email
// is normalized here so callers never have to remember to do it.
func (r *PledgeRepositoryImpl) ByPoolAndEmail(ctx context.Context, poolID uint, email string) (*models.Pledge, error) {
	db := r.getDB(ctx)
	var pledge models.Pledge
	err := db.Where("pool_id = ? AND email_normalized = ?", poolID, models.NormalizeEmail(email)).
		Last(&pledge).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pledge, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *PledgeRepositoryImpl) applyFilter(query *gorm.DB, filter models.PledgeFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.PoolID != nil {
		query = query.Where("pool_id = ?", *filter.PoolID)
	}
	if filter.EmailNormalized != nil {
		query = query.Where("email_normalized = ?", *filter.EmailNormalized)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.PickupZone != nil {
		query = query.Where("pickup_zone = ?", *filter.PickupZone)
	}
	if filter.IsInternalCargo != nil {
		query = query.Where("is_internal_cargo = ?", *filter.IsInternalCargo)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves pledges based on filter criteria
func (r *PledgeRepositoryImpl) ByFilter(ctx context.Context, filter models.PledgeFilter, orderBy string, limit, offset int) ([]*models.Pledge, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Pledge{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Pledge
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByPool retrieves pledges for a specific pool with pagination
func (r *PledgeRepositoryImpl) ListByPool(ctx context.Context, poolID uint, limit, offset int) ([]*models.Pledge, error) {
	return r.ByFilter(ctx, models.PledgeFilter{PoolID: &poolID}, "created_at DESC", limit, offset)
}

// Update persists changes to an existing pledge
func (r *PledgeRepositoryImpl) Update(ctx context.Context, pledge *models.Pledge) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	pledge.UpdatedAt = utils.UTCNowPtr()

	err = db.Save(pledge).Error
	if err != nil {
		return err
	}

	return nil
}

// UpdateStatus updates only the status of a pledge
func (r *PledgeRepositoryImpl) UpdateStatus(ctx context.Context, id uint, status models.PledgeStatus) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Model(&models.Pledge{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": utils.UTCNow(),
		}).Error
	if err != nil {
		return err
	}

	return nil
}

// StatsByPool aggregates the fill picture of a pool from its non-withdrawn pledges
func (r *PledgeRepositoryImpl) StatsByPool(ctx context.Context, pool *models.Pool) (*models.PoolStats, error) {
	db := r.getDB(ctx)

	var agg struct {
		PledgeCount int64
		PledgedIn3  float64
		InternalIn3 float64
		EstRevenue  float64
	}
	err := db.Model(&models.Pledge{}).
		Select("COUNT(*) AS pledge_count, "+
			"COALESCE(SUM(computed_in3), 0) AS pledged_in3, "+
			"COALESCE(SUM(CASE WHEN is_internal_cargo THEN computed_in3 ELSE 0 END), 0) AS internal_in3, "+
			"COALESCE(SUM(CASE WHEN is_internal_cargo THEN 0 ELSE est_total END), 0) AS est_revenue").
		Where("pool_id = ? AND status <> ?", pool.ID, models.PledgeStatusWithdrawn).
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}

	pledgedFt3 := agg.PledgedIn3 / models.CubicInchesPerCubicFoot
	internalFt3 := agg.InternalIn3 / models.CubicInchesPerCubicFoot
	stats := &models.PoolStats{
		PledgeCount:  agg.PledgeCount,
		PledgedFt3:   pledgedFt3,
		InternalFt3:  internalFt3,
		PaidFt3:      pledgedFt3 - internalFt3,
		EstRevenue:   agg.EstRevenue,
		RemainingFt3: pool.UsableFt3 - pledgedFt3,
	}
	if pool.UsableFt3 > 0 {
		stats.FillPct = pledgedFt3 / pool.UsableFt3 * 100
		stats.AnnounceReady = stats.FillPct >= pool.AnnounceThresholdPct
	}
	return stats, nil
}
