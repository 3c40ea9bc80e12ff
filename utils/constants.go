package utils

import (
	"time"
)

// Token and session time constants
const (
	// AdminAccessTokenTTL is the time-to-live for admin access tokens (12 hours)
	AdminAccessTokenTTL = 12 * time.Hour

	// AdminAccessTokenTTLSeconds is the time-to-live for admin access tokens in seconds
	AdminAccessTokenTTLSeconds = 43200

	// AdminRefreshTokenTTL is the time-to-live for admin refresh tokens (7 days)
	AdminRefreshTokenTTL = 7 * 24 * time.Hour
)

// Rate limiting constants
const (
	// RateLimitWindow is the sliding window width for intake rate limiting
	RateLimitWindow = 60 * time.Second

	// MaxPledgesPerWindow is the per-IP ceiling for pledge submissions per window
	MaxPledgesPerWindow = 10

	// MaxQuotesPerWindow is the per-IP ceiling for quote previews per window
	MaxQuotesPerWindow = 30
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Cache keys
const (
	// PricingConfigCacheKey is the redis key holding the cached pricing settings row
	PricingConfigCacheKey = "pricing_config"
)
