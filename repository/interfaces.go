// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/link360/pool-api/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

// PoolRepository defines operations for shipping pools. The interface is
// kept narrow so intake flows can run against lightweight fakes in tests.
type PoolRepository interface {
	ByID(ctx context.Context, id uint) (*models.Pool, error)
	ByUUID(ctx context.Context, uuidStr string) (*models.Pool, error)
	BySlug(ctx context.Context, slug string) (*models.Pool, error)
	ByFilter(ctx context.Context, filter models.PoolFilter, orderBy string, limit, offset int) ([]*models.Pool, error)
	Save(ctx context.Context, pool *models.Pool) error
	UpdateStatus(ctx context.Context, id uint, status models.PoolStatus) error
}

// PledgeRepository defines operations for pledges
type PledgeRepository interface {
	ByID(ctx context.Context, id uint) (*models.Pledge, error)
	ByUUID(ctx context.Context, uuidStr string) (*models.Pledge, error)
	ByPoolAndEmail(ctx context.Context, poolID uint, email string) (*models.Pledge, error)
	ByFilter(ctx context.Context, filter models.PledgeFilter, orderBy string, limit, offset int) ([]*models.Pledge, error)
	ListByPool(ctx context.Context, poolID uint, limit, offset int) ([]*models.Pledge, error)
	Save(ctx context.Context, pledge *models.Pledge) error
	Update(ctx context.Context, pledge *models.Pledge) error
	UpdateStatus(ctx context.Context, id uint, status models.PledgeStatus) error
	StatsByPool(ctx context.Context, pool *models.Pool) (*models.PoolStats, error)
}

// AdminSettingsRepository defines operations for the pricing settings row
type AdminSettingsRepository interface {
	Latest(ctx context.Context) (*models.AdminSettings, error)
	Save(ctx context.Context, settings *models.AdminSettings) error
	Update(ctx context.Context, settings *models.AdminSettings) error
}

// AdminRepository defines operations for admin accounts
type AdminRepository interface {
	ByID(ctx context.Context, id uint) (*models.Admin, error)
	ByUsername(ctx context.Context, username string) (*models.Admin, error)
	Save(ctx context.Context, admin *models.Admin) error
	UpdateLastLogin(ctx context.Context, id uint) error
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Save(ctx context.Context, log *models.AuditLog) error
	SaveBatch(ctx context.Context, logs []*models.AuditLog) error
	ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error)
	ListByPledge(ctx context.Context, pledgeID uint, limit, offset int) ([]*models.AuditLog, error)
	ListFailedActions(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)
}
