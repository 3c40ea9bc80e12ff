package repository

import (
	"context"
	"errors"

	"github.com/link360/pool-api/models"
	"github.com/link360/pool-api/utils"
	"gorm.io/gorm"
)

// PoolRepositoryImpl implements PoolRepository interface
type PoolRepositoryImpl struct {
	*BaseRepository[models.Pool, models.PoolFilter]
}

// NewPoolRepository creates a new pool repository
func NewPoolRepository(db *gorm.DB) PoolRepository {
	return &PoolRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Pool, models.PoolFilter](db),
	}
}

// ByUUID retrieves a pool by UUID
func (r *PoolRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.Pool, error) {
	parsed, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}
	rows, err := r.ByFilter(ctx, models.PoolFilter{UUID: &parsed}, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// BySlug retrieves a pool by its URL slug
func (r *PoolRepositoryImpl) BySlug(ctx context.Context, slug string) (*models.Pool, error) {
	db := r.getDB(ctx)
	var pool models.Pool
	if err := db.Where("slug = ?", slug).Last(&pool).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pool, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *PoolRepositoryImpl) applyFilter(query *gorm.DB, filter models.PoolFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.Slug != nil {
		query = query.Where("slug = ?", *filter.Slug)
	}
	if filter.DestinationCity != nil {
		query = query.Where("destination_city = ?", *filter.DestinationCity)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.IsPublic != nil {
		query = query.Where("is_public = ?", *filter.IsPublic)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves pools based on filter criteria
func (r *PoolRepositoryImpl) ByFilter(ctx context.Context, filter models.PoolFilter, orderBy string, limit, offset int) ([]*models.Pool, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Pool{})

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

	var rows []*models.Pool
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateStatus updates only the status of a pool
func (r *PoolRepositoryImpl) UpdateStatus(ctx context.Context, id uint, status models.PoolStatus) error {
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

	err = db.Model(&models.Pool{}).
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
