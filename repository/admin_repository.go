package repository

import (
	"context"
	"errors"

	"github.com/link360/pool-api/models"
	"github.com/link360/pool-api/utils"
	"gorm.io/gorm"
)

// AdminRepositoryImpl implements AdminRepository interface
type AdminRepositoryImpl struct {
	*BaseRepository[models.Admin, models.AdminFilter]
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &AdminRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Admin, models.AdminFilter](db),
	}
}

// ByUsername retrieves an admin account by username
func (r *AdminRepositoryImpl) ByUsername(ctx context.Context, username string) (*models.Admin, error) {
	db := r.getDB(ctx)
	var admin models.Admin
	if err := db.Where("username = ?", username).Last(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

// UpdateLastLogin stamps the account's last successful login time
func (r *AdminRepositoryImpl) UpdateLastLogin(ctx context.Context, id uint) error {
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

	now := utils.UTCNow()
	err = db.Model(&models.Admin{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_login_at": now,
			"updated_at":    now,
		}).Error
	if err != nil {
		return err
	}

	return nil
}
