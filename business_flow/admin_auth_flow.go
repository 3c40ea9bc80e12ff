package businessflow

import (
	"context"
	"log"

	"github.com/link360/pool-api/app/dto"
	"github.com/link360/pool-api/app/services"
	"github.com/link360/pool-api/models"
	"github.com/link360/pool-api/repository"
	"github.com/link360/pool-api/utils"
	"golang.org/x/crypto/bcrypt"
)

// AdminAuthFlow represents the admin authentication flow used by handlers
type AdminAuthFlow interface {
	Login(ctx context.Context, req *dto.AdminLoginRequest, metadata *ClientMetadata) (*dto.AdminLoginResponse, error)
}

// AdminAuthFlowImpl provides admin credential verification and token issuance
type AdminAuthFlowImpl struct {
	adminRepo    repository.AdminRepository
	auditRepo    repository.AuditLogRepository
	tokenService services.TokenService
}

func NewAdminAuthFlow(
	adminRepo repository.AdminRepository,
	auditRepo repository.AuditLogRepository,
	tokenService services.TokenService,
) AdminAuthFlow {
	return &AdminAuthFlowImpl{
		adminRepo:    adminRepo,
		auditRepo:    auditRepo,
		tokenService: tokenService,
	}
}

// Login verifies credentials and returns a bearer token. Lookup failures and
// bad passwords both come back as ErrIncorrectPassword so the response does
// not reveal which usernames exist.
func (af *AdminAuthFlowImpl) Login(ctx context.Context, req *dto.AdminLoginRequest, metadata *ClientMetadata) (*dto.AdminLoginResponse, error) {
	if req == nil || len(req.Username) == 0 || len(req.Password) == 0 {
		return nil, NewBusinessError("ADMIN_LOGIN_VALIDATION_FAILED", "Admin login validation failed", ErrIncorrectPassword)
	}

	admin, err := af.adminRepo.ByUsername(ctx, req.Username)
	if err != nil {
		return nil, NewBusinessError("ADMIN_LOOKUP_FAILED", "Failed to lookup admin", err)
	}
	if admin == nil {
		af.auditLogin(ctx, nil, req.Username, false, metadata)
		return nil, ErrIncorrectPassword
	}
	if !admin.CanLogin() {
		af.auditLogin(ctx, &admin.ID, req.Username, false, metadata)
		return nil, ErrAdminInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		af.auditLogin(ctx, &admin.ID, req.Username, false, metadata)
		return nil, ErrIncorrectPassword
	}

	accessToken, _, err := af.tokenService.GenerateAdminTokens(admin.ID)
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate tokens", err)
	}

	if err := af.adminRepo.UpdateLastLogin(ctx, admin.ID); err != nil {
		log.Printf("failed to stamp admin last login: %v", err)
	}
	af.auditLogin(ctx, &admin.ID, req.Username, true, metadata)

	return &dto.AdminLoginResponse{
		Message:     "Login successful",
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   utils.AdminAccessTokenTTLSeconds,
	}, nil
}

func (af *AdminAuthFlowImpl) auditLogin(ctx context.Context, adminID *uint, username string, success bool, metadata *ClientMetadata) {
	if af.auditRepo == nil {
		return
	}

	action := models.AuditActionAdminLoginSuccess
	description := "admin login for " + username
	if !success {
		action = models.AuditActionAdminLoginFailed
		description = "failed admin login for " + username
	}

	entry := &models.AuditLog{
		AdminID:     adminID,
		Action:      action,
		Description: &description,
		Success:     utils.ToPtr(success),
	}
	if metadata != nil {
		entry.IPAddress = &metadata.IPAddress
		entry.UserAgent = &metadata.UserAgent
		if metadata.RequestID != "" {
			entry.RequestID = &metadata.RequestID
		}
	}

	if err := af.auditRepo.Save(ctx, entry); err != nil {
		log.Printf("audit log write failed (%s): %v", action, err)
	}
}
