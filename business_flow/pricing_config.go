package businessflow

import (
	"context"
	"encoding/json"
	"log"

	"github.com/link360/pool-api/config"
	"github.com/link360/pool-api/models"
	"github.com/link360/pool-api/repository"
	"github.com/link360/pool-api/utils"
	"github.com/redis/go-redis/v9"
)

// redisKey derives the namespaced cache key
func redisKey(cfg config.CacheConfig, key string) string {
	if cfg.RedisPrefix == "" {
		return key
	}
	return cfg.RedisPrefix + key
}

// PricingSource yields the pricing knobs the quotation engine runs with
type PricingSource interface {
	Current(ctx context.Context) (models.PricingConfig, error)
	Invalidate(ctx context.Context)
}

// CachedPricingSource reads pricing from the settings table through a Redis
// cache. A cache miss or a Redis outage falls through to the database; a
// missing settings row falls back to the configured fallback knobs, so
// quoting never fails for lack of configuration.
type CachedPricingSource struct {
	settingsRepo repository.AdminSettingsRepository
	rc           *redis.Client
	cacheConfig  *config.CacheConfig
	fallback     models.PricingConfig
}

// NewCachedPricingSource creates a new cache-backed pricing source. The
// fallback applies until the first settings row is written.
func NewCachedPricingSource(
	settingsRepo repository.AdminSettingsRepository,
	rc *redis.Client,
	cacheConfig *config.CacheConfig,
	fallback models.PricingConfig,
) PricingSource {
	return &CachedPricingSource{
		settingsRepo: settingsRepo,
		rc:           rc,
		cacheConfig:  cacheConfig,
		fallback:     fallback,
	}
}

// FallbackPricingConfig builds the pricing knobs used when no settings row
// exists yet: the compiled-in defaults overlaid with the operator's
// env-selected surcharge mode and threshold. A settings row written through
// the admin API overrides all of it.
func FallbackPricingConfig(intake config.IntakeConfig) models.PricingConfig {
	cfg := models.DefaultPricingConfig()
	cfg.SurchargeMode = models.SurchargeMode(intake.SurchargeMode)
	cfg.HeavyThresholdLb = intake.HeavyThresholdLb
	return cfg
}

func (s *CachedPricingSource) cacheEnabled() bool {
	return s.rc != nil && s.cacheConfig != nil && s.cacheConfig.Enabled
}

// Current returns the effective pricing knobs
func (s *CachedPricingSource) Current(ctx context.Context) (models.PricingConfig, error) {
	var cacheKey string
	if s.cacheEnabled() {
		cacheKey = redisKey(*s.cacheConfig, utils.PricingConfigCacheKey)
		if bs, err := s.rc.Get(ctx, cacheKey).Bytes(); err == nil && len(bs) > 0 {
			var cfg models.PricingConfig
			if err := json.Unmarshal(bs, &cfg); err == nil {
				return cfg, nil
			}
		}
	}

	row, err := s.settingsRepo.Latest(ctx)
	if err != nil {
		return models.PricingConfig{}, err
	}

	cfg := s.fallback
	if row != nil {
		cfg = row.ToPricingConfig()
	}

	if s.cacheEnabled() {
		if bs, err := json.Marshal(cfg); err == nil {
			if err := s.rc.Set(ctx, cacheKey, bs, s.cacheConfig.DefaultTTL).Err(); err != nil {
				log.Printf("pricing cache set failed: %v", err)
			}
		}
	}

	return cfg, nil
}

// Invalidate drops the cached knobs so the next read hits the database
func (s *CachedPricingSource) Invalidate(ctx context.Context) {
	if !s.cacheEnabled() {
		return
	}
	cacheKey := redisKey(*s.cacheConfig, utils.PricingConfigCacheKey)
	if err := s.rc.Del(ctx, cacheKey).Err(); err != nil {
		log.Printf("pricing cache invalidation failed: %v", err)
	}
}

// StaticPricingSource serves a fixed knob set; used in tests and as a
// fallback when the settings table is not wired
type StaticPricingSource struct {
	Config models.PricingConfig
}

func (s StaticPricingSource) Current(context.Context) (models.PricingConfig, error) {
	return s.Config, nil
}

func (s StaticPricingSource) Invalidate(context.Context) {}
