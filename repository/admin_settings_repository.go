package repository

import (
	"context"
	"errors"

	"github.com/link360/pool-api/models"
	"github.com/link360/pool-api/utils"
	"gorm.io/gorm"
)

// AdminSettingsRepositoryImpl implements AdminSettingsRepository interface
type AdminSettingsRepositoryImpl struct {
	*BaseRepository[models.AdminSettings, struct{}]
}

// NewAdminSettingsRepository creates a new admin settings repository
func NewAdminSettingsRepository(db *gorm.DB) AdminSettingsRepository {
	return &AdminSettingsRepositoryImpl{
		BaseRepository: NewBaseRepository[models.AdminSettings, struct{}](db),
	}
}

// Latest retrieves the most recent settings row, nil when none exists yet
func (r *AdminSettingsRepositoryImpl) Latest(ctx context.Context) (*models.AdminSettings, error) {
	db := r.getDB(ctx)
	var row models.AdminSettings
	if err := db.Order("id DESC").First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// Update persists changes to an existing settings row
func (r *AdminSettingsRepositoryImpl) Update(ctx context.Context, settings *models.AdminSettings) error {
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

	settings.UpdatedAt = utils.UTCNowPtr()

	err = db.Save(settings).Error
	if err != nil {
		return err
	}

	return nil
}
