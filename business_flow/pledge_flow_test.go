package businessflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/link360/pool-api/app/dto"
	"github.com/link360/pool-api/models"
	"github.com/link360/pool-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakePoolRepo serves pools from memory
type fakePoolRepo struct {
	pools []*models.Pool
}

func (f *fakePoolRepo) ByID(_ context.Context, id uint) (*models.Pool, error) {
	for _, p := range f.pools {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePoolRepo) ByUUID(_ context.Context, uuidStr string) (*models.Pool, error) {
	for _, p := range f.pools {
		if p.UUID.String() == uuidStr {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePoolRepo) BySlug(_ context.Context, slug string) (*models.Pool, error) {
	for _, p := range f.pools {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePoolRepo) ByFilter(_ context.Context, filter models.PoolFilter, _ string, _, _ int) ([]*models.Pool, error) {
	out := make([]*models.Pool, 0, len(f.pools))
	for _, p := range f.pools {
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePoolRepo) Save(_ context.Context, pool *models.Pool) error {
	pool.ID = uint(len(f.pools) + 1)
	if pool.UUID == uuid.Nil {
		pool.UUID = uuid.New()
	}
	f.pools = append(f.pools, pool)
	return nil
}

func (f *fakePoolRepo) UpdateStatus(_ context.Context, id uint, status models.PoolStatus) error {
	for _, p := range f.pools {
		if p.ID == id {
			p.Status = status
		}
	}
	return nil
}

// fakePledgeRepo serves pledges from memory and can be primed to fail saves
type fakePledgeRepo struct {
	mu      sync.Mutex
	pledges []*models.Pledge
	saveErr error
}

func (f *fakePledgeRepo) ByID(_ context.Context, id uint) (*models.Pledge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.pledges {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePledgeRepo) ByUUID(_ context.Context, uuidStr string) (*models.Pledge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.pledges {
		if p.UUID.String() == uuidStr {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePledgeRepo) ByPoolAndEmail(_ context.Context, poolID uint, email string) (*models.Pledge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	normalized := models.NormalizeEmail(email)
	for _, p := range f.pledges {
		if p.PoolID == poolID && p.EmailNormalized == normalized {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePledgeRepo) ByFilter(_ context.Context, filter models.PledgeFilter, _ string, _, _ int) ([]*models.Pledge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Pledge, 0, len(f.pledges))
	for _, p := range f.pledges {
		if filter.PoolID != nil && p.PoolID != *filter.PoolID {
			continue
		}
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePledgeRepo) ListByPool(ctx context.Context, poolID uint, limit, offset int) ([]*models.Pledge, error) {
	return f.ByFilter(ctx, models.PledgeFilter{PoolID: &poolID}, "", limit, offset)
}

func (f *fakePledgeRepo) Save(_ context.Context, pledge *models.Pledge) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	pledge.ID = uint(len(f.pledges) + 1)
	if pledge.UUID == uuid.Nil {
		pledge.UUID = uuid.New()
	}
	if pledge.EmailNormalized == "" {
		pledge.EmailNormalized = models.NormalizeEmail(pledge.UserEmail)
	}
	f.pledges = append(f.pledges, pledge)
	return nil
}

func (f *fakePledgeRepo) Update(_ context.Context, pledge *models.Pledge) error {
	return nil
}

func (f *fakePledgeRepo) UpdateStatus(_ context.Context, id uint, status models.PledgeStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.pledges {
		if p.ID == id {
			p.Status = status
		}
	}
	return nil
}

func (f *fakePledgeRepo) StatsByPool(_ context.Context, pool *models.Pool) (*models.PoolStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &models.PoolStats{}
	for _, p := range f.pledges {
		if p.PoolID != pool.ID || !p.Status.CountsTowardFill() {
			continue
		}
		stats.PledgeCount++
		stats.PledgedFt3 += p.ComputedFt3
		if p.IsInternalCargo != nil && *p.IsInternalCargo {
			stats.InternalFt3 += p.ComputedFt3
		} else {
			stats.EstRevenue += p.EstTotal
		}
	}
	stats.PaidFt3 = stats.PledgedFt3 - stats.InternalFt3
	stats.RemainingFt3 = pool.UsableFt3 - stats.PledgedFt3
	if pool.UsableFt3 > 0 {
		stats.FillPct = stats.PledgedFt3 / pool.UsableFt3 * 100
		stats.AnnounceReady = stats.FillPct >= pool.AnnounceThresholdPct
	}
	return stats, nil
}

// fakeAuditRepo records entries in memory
type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*models.AuditLog
}

func (f *fakeAuditRepo) Save(_ context.Context, entry *models.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepo) SaveBatch(ctx context.Context, entries []*models.AuditLog) error {
	for _, e := range entries {
		if err := f.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeAuditRepo) ListByAction(_ context.Context, action string, _, _ int) ([]*models.AuditLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.AuditLog
	for _, e := range f.entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeAuditRepo) ListByPledge(_ context.Context, pledgeID uint, _, _ int) ([]*models.AuditLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.AuditLog
	for _, e := range f.entries {
		if e.PledgeID != nil && *e.PledgeID == pledgeID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeAuditRepo) ListFailedActions(_ context.Context, _, _ int) ([]*models.AuditLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.AuditLog
	for _, e := range f.entries {
		if e.IsFailed() {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeAuditRepo) countByAction(action string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.entries {
		if e.Action == action {
			n++
		}
	}
	return n
}

// fakeNotifier records notification calls and can be primed to fail
type fakeNotifier struct {
	mu            sync.Mutex
	confirmations int
	adminNotices  int
	err           error
}

func (f *fakeNotifier) SendPledgeConfirmation(_ context.Context, _ *models.Pledge, _ *models.Pool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmations++
	return f.err
}

func (f *fakeNotifier) NotifyAdminNewPledge(_ context.Context, _ *models.Pledge, _ *models.Pool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adminNotices++
	return f.err
}

func (f *fakeNotifier) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.confirmations, f.adminNotices
}

type pledgeFlowFixture struct {
	flow     PledgeFlow
	pool     *models.Pool
	pools    *fakePoolRepo
	pledges  *fakePledgeRepo
	audits   *fakeAuditRepo
	notifier *fakeNotifier
}

func newPledgeFlowFixture(t *testing.T) *pledgeFlowFixture {
	t.Helper()

	pool := &models.Pool{
		ID:                   1,
		UUID:                 uuid.New(),
		Slug:                 "accra-q1",
		Title:                "Accra Q1",
		DestinationCity:      "Accra",
		UsableFt3:            1000,
		AnnounceThresholdPct: 80,
		Status:               models.PoolStatusCollecting,
		IsPublic:             utils.ToPtr(true),
	}

	pools := &fakePoolRepo{pools: []*models.Pool{pool}}
	pledges := &fakePledgeRepo{}
	audits := &fakeAuditRepo{}
	notifier := &fakeNotifier{}

	flow := NewPledgeFlow(
		pools,
		pledges,
		audits,
		StaticPricingSource{Config: models.DefaultPricingConfig()},
		notifier,
		NewSlidingWindowLimiter(10, time.Minute),
		NewSlidingWindowLimiter(30, time.Minute),
	)

	return &pledgeFlowFixture{
		flow:     flow,
		pool:     pool,
		pools:    pools,
		pledges:  pledges,
		audits:   audits,
		notifier: notifier,
	}
}

func submitRequest(poolUUID string) *dto.SubmitPledgeRequest {
	return &dto.SubmitPledgeRequest{
		PoolID:     poolUUID,
		UserEmail:  "ama@example.com",
		UserName:   "Ama Mensah",
		PickupZone: "in_city",
		Cargo: dto.CargoSpec{
			ItemMode:        "standard_box",
			StandardBoxCode: utils.ToPtr("L"),
			Quantity:        1,
		},
	}
}

func testMetadata() *ClientMetadata {
	return NewClientMetadata("203.0.113.7", "test-agent")
}

func TestSubmitPledge(t *testing.T) {
	ctx := context.Background()

	t.Run("AcceptsAndQuotes", func(t *testing.T) {
		fx := newPledgeFlowFixture(t)

		resp, err := fx.flow.SubmitPledge(ctx, submitRequest(fx.pool.UUID.String()), testMetadata())
		require.NoError(t, err)

		assert.Equal(t, fx.pool.UUID.String(), resp.PoolUUID)
		assert.Equal(t, "pledged", resp.Status)
		assert.Equal(t, 27648.0, resp.Quote.ComputedIn3)
		assert.Equal(t, 400.90, resp.Quote.EstShippingCost)
		assert.Equal(t, 25.0, resp.Quote.EstPickupFee)
		assert.Equal(t, 425.90, resp.Quote.EstTotal)

		require.Len(t, fx.pledges.pledges, 1)
		stored := fx.pledges.pledges[0]
		assert.Equal(t, "ama@example.com", stored.EmailNormalized)
		assert.Equal(t, 425.90, stored.EstTotal)
		assert.Equal(t, 1, fx.audits.countByAction(models.AuditActionPledgeSubmitted))
	})

	t.Run("ClientQuoteIsIgnored", func(t *testing.T) {
		fx := newPledgeFlowFixture(t)

		req := submitRequest(fx.pool.UUID.String())
		req.ClientQuote = &dto.QuoteDTO{EstTotal: 1.00, EstShippingCost: 0.50}

		resp, err := fx.flow.SubmitPledge(ctx, req, testMetadata())
		require.NoError(t, err)

		// The engine recomputes; the browser's numbers never survive
		assert.Equal(t, 425.90, resp.Quote.EstTotal)
		assert.Equal(t, 425.90, fx.pledges.pledges[0].EstTotal)
	})

	t.Run("DuplicateEmailIsCaseInsensitive", func(t *testing.T) {
		fx := newPledgeFlowFixture(t)

		_, err := fx.flow.SubmitPledge(ctx, submitRequest(fx.pool.UUID.String()), testMetadata())
		require.NoError(t, err)

		req := submitRequest(fx.pool.UUID.String())
		req.UserEmail = "  AMA@Example.COM "
		_, err = fx.flow.SubmitPledge(ctx, req, testMetadata())
		require.Error(t, err)
		assert.True(t, IsDuplicatePledge(err))
		assert.Len(t, fx.pledges.pledges, 1)
	})

	t.Run("UniqueIndexRaceSurfacesAsDuplicate", func(t *testing.T) {
		fx := newPledgeFlowFixture(t)
		fx.pledges.saveErr = gorm.ErrDuplicatedKey

		_, err := fx.flow.SubmitPledge(ctx, submitRequest(fx.pool.UUID.String()), testMetadata())
		require.Error(t, err)
		assert.True(t, IsDuplicatePledge(err))
	})

	t.Run("PoolNotFound", func(t *testing.T) {
		fx := newPledgeFlowFixture(t)

		_, err := fx.flow.SubmitPledge(ctx, submitRequest(uuid.New().String()), testMetadata())
		require.Error(t, err)
		assert.True(t, IsPoolNotFound(err))
	})

	t.Run("PoolNotCollecting", func(t *testing.T) {
		fx := newPledgeFlowFixture(t)
		fx.pool.Status = models.PoolStatusAnnounced

		_, err := fx.flow.SubmitPledge(ctx, submitRequest(fx.pool.UUID.String()), testMetadata())
		require.Error(t, err)
		assert.True(t, IsPoolNotAcceptingPledges(err))
		assert.Equal(t, 1, fx.audits.countByAction(models.AuditActionPledgeRejected))
	})

	t.Run("ShapeCheckedBeforePoolGate", func(t *testing.T) {
		fx := newPledgeFlowFixture(t)
		fx.pool.Status = models.PoolStatusAnnounced

		// Malformed cargo against a closed pool: the shape check runs
		// first, so the submitter hears about their cargo, not the pool.
		req := submitRequest(fx.pool.UUID.String())
		req.Cargo.StandardBoxCode = nil

		_, err := fx.flow.SubmitPledge(ctx, req, testMetadata())
		require.Error(t, err)
		assert.True(t, IsInvalidSubmission(err))
		assert.False(t, IsPoolNotAcceptingPledges(err))
	})

	t.Run("OutOfCityRequiresCity", func(t *testing.T) {
		fx := newPledgeFlowFixture(t)

		req := submitRequest(fx.pool.UUID.String())
		req.PickupZone = "out_of_city"
		req.PickupCity = nil

		_, err := fx.flow.SubmitPledge(ctx, req, testMetadata())
		require.Error(t, err)
		assert.True(t, IsInvalidSubmission(err))
	})

	t.Run("RateLimited", func(t *testing.T) {
		fx := newPledgeFlowFixture(t)
		flow := NewPledgeFlow(
			fx.pools,
			fx.pledges,
			fx.audits,
			StaticPricingSource{Config: models.DefaultPricingConfig()},
			fx.notifier,
			NewSlidingWindowLimiter(1, time.Minute),
			NewSlidingWindowLimiter(1, time.Minute),
		)

		_, err := flow.SubmitPledge(ctx, submitRequest(fx.pool.UUID.String()), testMetadata())
		require.NoError(t, err)

		req := submitRequest(fx.pool.UUID.String())
		req.UserEmail = "second@example.com"
		_, err = flow.SubmitPledge(ctx, req, testMetadata())
		require.Error(t, err)
		assert.True(t, IsTooManyRequests(err))
		assert.Equal(t, 1, fx.audits.countByAction(models.AuditActionRateLimitExceeded))
	})

	t.Run("NotificationFailureDoesNotFailSubmission", func(t *testing.T) {
		fx := newPledgeFlowFixture(t)
		fx.notifier.err = errors.New("smtp unreachable")

		_, err := fx.flow.SubmitPledge(ctx, submitRequest(fx.pool.UUID.String()), testMetadata())
		require.NoError(t, err)

		// The notification goroutine runs off the request path
		assert.Eventually(t, func() bool {
			confirmations, adminNotices := fx.notifier.calls()
			return confirmations == 1 && adminNotices == 1 &&
				fx.audits.countByAction(models.AuditActionNotificationFailed) == 2
		}, 2*time.Second, 10*time.Millisecond)
	})
}

func TestPreviewQuote(t *testing.T) {
	ctx := context.Background()

	t.Run("MatchesIntakeQuote", func(t *testing.T) {
		fx := newPledgeFlowFixture(t)

		preview, err := fx.flow.PreviewQuote(ctx, &dto.QuotePreviewRequest{
			PickupZone: "in_city",
			Cargo: dto.CargoSpec{
				ItemMode:        "standard_box",
				StandardBoxCode: utils.ToPtr("L"),
				Quantity:        1,
			},
		}, testMetadata())
		require.NoError(t, err)

		submitted, err := fx.flow.SubmitPledge(ctx, submitRequest(fx.pool.UUID.String()), testMetadata())
		require.NoError(t, err)

		assert.Equal(t, preview.Quote, submitted.Quote)
	})

	t.Run("OutOfCityWithoutCity", func(t *testing.T) {
		fx := newPledgeFlowFixture(t)

		preview, err := fx.flow.PreviewQuote(ctx, &dto.QuotePreviewRequest{
			PickupZone: "out_of_city",
			Cargo: dto.CargoSpec{
				ItemMode:     "estimate",
				EstimateSize: utils.ToPtr("medium"),
				Quantity:     2,
			},
		}, testMetadata())
		require.NoError(t, err)

		// 25 base + 2 x 15
		assert.Equal(t, 55.0, preview.Quote.EstPickupFee)
	})

	t.Run("InvalidCargo", func(t *testing.T) {
		fx := newPledgeFlowFixture(t)

		_, err := fx.flow.PreviewQuote(ctx, &dto.QuotePreviewRequest{
			PickupZone: "in_city",
			Cargo: dto.CargoSpec{
				ItemMode: "standard_box",
				Quantity: 1,
			},
		}, testMetadata())
		require.Error(t, err)
		assert.True(t, IsInvalidSubmission(err))
	})
}
