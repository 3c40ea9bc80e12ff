// Package testing provides test utilities and database setup for testing the pledge intake system
package testing

import (
	"fmt"
	"math/rand"

	"github.com/link360/pool-api/models"
	"github.com/link360/pool-api/utils"
	"golang.org/x/crypto/bcrypt"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestPool creates a collecting pool with sensible container defaults
func (tf *TestFixtures) CreateTestPool() (*models.Pool, error) {
	n := rand.Intn(1000000)
	pool := &models.Pool{
		Slug:                 fmt.Sprintf("accra-%d", n),
		Title:                "Accra consolidation",
		DestinationCity:      "Accra",
		ContainerType:        "20ft",
		UsableFt3:            1000,
		AnnounceThresholdPct: 80,
		Status:               models.PoolStatusCollecting,
		IsPublic:             utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(pool).Error; err != nil {
		return nil, fmt.Errorf("failed to create test pool: %w", err)
	}
	return pool, nil
}

// CreateTestPledge creates a pledge against the pool with a standard medium box
func (tf *TestFixtures) CreateTestPledge(pool *models.Pool) (*models.Pledge, error) {
	n := rand.Intn(1000000)
	boxCode := "M"
	pledge := &models.Pledge{
		PoolID:          pool.ID,
		UserEmail:       fmt.Sprintf("pledger.%d@example.com", n),
		UserName:        "Ama Mensah",
		PickupZone:      models.PickupZoneInCity,
		ItemMode:        models.ItemModeStandardBox,
		StandardBoxCode: &boxCode,
		Quantity:        1,
		ComputedIn3:     13824,
		ComputedFt3:     8,
		EstShippingCost: 200.45,
		EstPickupFee:    25,
		EstTotal:        225.45,
		Status:          models.PledgeStatusPledged,
	}

	if err := tf.DB.DB.Create(pledge).Error; err != nil {
		return nil, fmt.Errorf("failed to create test pledge: %w", err)
	}
	return pledge, nil
}

// CreateTestAdminSettings seeds the pricing settings row with the defaults
func (tf *TestFixtures) CreateTestAdminSettings() (*models.AdminSettings, error) {
	settings := &models.AdminSettings{}
	settings.FromPricingConfig(models.DefaultPricingConfig())

	if err := tf.DB.DB.Create(settings).Error; err != nil {
		return nil, fmt.Errorf("failed to create test admin settings: %w", err)
	}
	return settings, nil
}

// CreateTestAdmin creates an active admin account with a known password
func (tf *TestFixtures) CreateTestAdmin(username, password string) (*models.Admin, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Admin{
		Username:     username,
		PasswordHash: string(hash),
		IsActive:     utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(admin).Error; err != nil {
		return nil, fmt.Errorf("failed to create test admin: %w", err)
	}
	return admin, nil
}
