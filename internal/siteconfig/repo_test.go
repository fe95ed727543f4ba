package siteconfig

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newSiteConfigTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:siteconfig_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS site_config (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func TestSetCreatesAndOverwrites(t *testing.T) {
	repo := NewRepository(newSiteConfigTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "hero_title", "Autumn collection"))

	value, found, err := repo.Get(ctx, "hero_title")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Autumn collection", value)

	require.NoError(t, repo.Set(ctx, "hero_title", "Winter collection"))

	value, found, err = repo.Get(ctx, "hero_title")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Winter collection", value)
}

func TestGetMissingKey(t *testing.T) {
	repo := NewRepository(newSiteConfigTestDB(t))

	value, found, err := repo.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, value)
}

func TestAllReturnsEverySetting(t *testing.T) {
	repo := NewRepository(newSiteConfigTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "hero_title", "Autumn collection"))
	require.NoError(t, repo.Set(ctx, "shipping_notice", "Ships within 5 days"))

	settings, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"hero_title":      "Autumn collection",
		"shipping_notice": "Ships within 5 days",
	}, settings)
}
