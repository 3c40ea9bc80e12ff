package models

import (
	"encoding/json"
	"time"
)

// AuditLog records intake and back-office events for later review
type AuditLog struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	PledgeID     *uint           `gorm:"index:idx_audit_pledge_id" json:"pledge_id,omitempty"`
	Pledge       *Pledge         `gorm:"foreignKey:PledgeID;references:ID" json:"pledge,omitempty"`
	PoolID       *uint           `gorm:"index:idx_audit_pool_id" json:"pool_id,omitempty"`
	AdminID      *uint           `gorm:"index:idx_audit_admin_id" json:"admin_id,omitempty"`
	Action       string          `gorm:"size:60;not null;index:idx_audit_action" json:"action"`
	Description  *string         `gorm:"type:text" json:"description,omitempty"`
	IPAddress    *string         `gorm:"type:inet;index:idx_audit_ip_address" json:"ip_address,omitempty"`
	UserAgent    *string         `gorm:"type:text" json:"user_agent,omitempty"`
	RequestID    *string         `gorm:"size:255;index:idx_audit_request_id" json:"request_id,omitempty"`
	Metadata     json.RawMessage `gorm:"type:jsonb" json:"metadata,omitempty"`
	Success      *bool           `gorm:"default:true;index:idx_audit_success" json:"success"`
	ErrorMessage *string         `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time       `gorm:"default:CURRENT_TIMESTAMP;index:idx_audit_created_at" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}

// Audit action constants
const (
	AuditActionPledgeSubmitted     = "pledge_submitted"
	AuditActionPledgeRejected      = "pledge_rejected"
	AuditActionPledgeStatusChanged = "pledge_status_changed"
	AuditActionQuotePreviewed      = "quote_previewed"
	AuditActionRateLimitExceeded   = "rate_limit_exceeded"
	AuditActionAdminLoginSuccess   = "admin_login_success"
	AuditActionAdminLoginFailed    = "admin_login_failed"
	AuditActionPricingUpdated      = "pricing_settings_updated"
	AuditActionPoolStatusChanged   = "pool_status_changed"
	AuditActionNotificationFailed  = "notification_failed"
)

// AuditLogFilter represents filter criteria for audit log queries
type AuditLogFilter struct {
	ID            *uint
	PledgeID      *uint
	PoolID        *uint
	AdminID       *uint
	Action        *string
	Success       *bool
	IPAddress     *string
	RequestID     *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

func (a *AuditLog) IsFailed() bool {
	return a.Success != nil && !*a.Success
}

func (a *AuditLog) IsSecurityEvent() bool {
	securityActions := map[string]bool{
		AuditActionAdminLoginSuccess: true,
		AuditActionAdminLoginFailed:  true,
		AuditActionRateLimitExceeded: true,
		AuditActionPricingUpdated:    true,
	}
	return securityActions[a.Action]
}
