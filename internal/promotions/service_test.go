package promotions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shoreline-studio/shop-backend/pkg/db/models"
	"github.com/shoreline-studio/shop-backend/pkg/enums"
)

func setupPromotionsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	promotions := `
CREATE TABLE IF NOT EXISTS promotions (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL,
  percent_off INTEGER NOT NULL,
  scope TEXT NOT NULL DEFAULT 'global',
  category_slugs TEXT,
  free_shipping INTEGER NOT NULL DEFAULT 0,
  enabled INTEGER NOT NULL DEFAULT 0,
  starts_at TEXT,
  ends_at TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	categories := `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  slug TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(promotions).Error)
	require.NoError(t, db.Exec(categories).Error)
	require.NoError(t, db.Exec("DELETE FROM promotions").Error)
	require.NoError(t, db.Exec("DELETE FROM categories").Error)
	return db
}

func strPtr(s string) *string { return &s }

func newService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), nil)
	require.NoError(t, err)
	return svc
}

func TestActiveAtNoPromotion(t *testing.T) {
	db := setupPromotionsTestDB(t)
	svc := newService(t, db)

	promo, err := svc.ActiveAt(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Nil(t, promo)
}

func TestActiveAtEnabledWithinWindow(t *testing.T) {
	db := setupPromotionsTestDB(t)
	svc := newService(t, db)

	require.NoError(t, db.Create(&models.Promotion{
		ID:         uuid.New(),
		Code:       "SPRING15",
		PercentOff: 15,
		Scope:      enums.PromotionScopeGlobal,
		Enabled:    true,
		StartsAt:   strPtr("2026-01-01T00:00:00Z"),
		EndsAt:     strPtr("2026-12-31T23:59:59Z"),
	}).Error)

	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	promo, err := svc.ActiveAt(context.Background(), now)
	require.NoError(t, err)
	require.NotNil(t, promo)
	assert.Equal(t, "SPRING15", promo.Code)
}

func TestActiveAtOutsideWindow(t *testing.T) {
	db := setupPromotionsTestDB(t)
	svc := newService(t, db)

	require.NoError(t, db.Create(&models.Promotion{
		ID:         uuid.New(),
		Code:       "EXPIRED",
		PercentOff: 10,
		Scope:      enums.PromotionScopeGlobal,
		Enabled:    true,
		EndsAt:     strPtr("2025-01-01T00:00:00Z"),
	}).Error)

	promo, err := svc.ActiveAt(context.Background(), time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, promo)
}

func TestActiveAtMalformedBoundFailsClosed(t *testing.T) {
	db := setupPromotionsTestDB(t)
	svc := newService(t, db)

	require.NoError(t, db.Create(&models.Promotion{
		ID:         uuid.New(),
		Code:       "BROKEN",
		PercentOff: 20,
		Scope:      enums.PromotionScopeGlobal,
		Enabled:    true,
		StartsAt:   strPtr("not-a-timestamp"),
	}).Error)

	promo, err := svc.ActiveAt(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Nil(t, promo)
}

func TestActiveAtPrefersMostRecentlyUpdated(t *testing.T) {
	db := setupPromotionsTestDB(t)
	svc := newService(t, db)

	older := time.Now().Add(-time.Hour)
	require.NoError(t, db.Create(&models.Promotion{
		ID:         uuid.New(),
		Code:       "STALE",
		PercentOff: 5,
		Scope:      enums.PromotionScopeGlobal,
		Enabled:    true,
		UpdatedAt:  older,
	}).Error)
	require.NoError(t, db.Create(&models.Promotion{
		ID:         uuid.New(),
		Code:       "FRESH",
		PercentOff: 25,
		Scope:      enums.PromotionScopeGlobal,
		Enabled:    true,
	}).Error)

	promo, err := svc.ActiveAt(context.Background(), time.Now())
	require.NoError(t, err)
	require.NotNil(t, promo)
	assert.Equal(t, "FRESH", promo.Code)
}

func TestEligibleForProductScopes(t *testing.T) {
	db := setupPromotionsTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Category{
		ID:   uuid.New(),
		Slug: "ceramics",
		Name: "Ceramics & Pottery",
	}).Error)

	global := &models.Promotion{Scope: enums.PromotionScopeGlobal}
	scoped := &models.Promotion{
		Scope:         enums.PromotionScopeCategories,
		CategorySlugs: []string{"ceramics"},
	}

	vase := &models.Product{Category: "ceramics"}
	vaseByName := &models.Product{Category: "Ceramics & Pottery"}
	print := &models.Product{Category: "prints"}

	ok, err := svc.EligibleForProduct(ctx, global, print)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.EligibleForProduct(ctx, scoped, vase)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.EligibleForProduct(ctx, scoped, vaseByName)
	require.NoError(t, err)
	assert.True(t, ok, "category display name should match")

	ok, err = svc.EligibleForProduct(ctx, scoped, print)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDiscountedCents(t *testing.T) {
	tests := []struct {
		name       string
		amount     int64
		percentOff int
		want       int64
	}{
		{"no discount", 1000, 0, 1000},
		{"full discount", 1000, 100, 0},
		{"round half up", 333, 15, 283},
		{"even split", 1000, 15, 850},
		{"one cent", 1, 50, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DiscountedCents(tt.amount, tt.percentOff))
		})
	}
}
