package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github-dashboard-api/internal/models"
)

func TestOpen_MigratesCacheTable(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	require.True(t, db.Migrator().HasTable("cache_entries"))

	entry := models.CacheEntry{Key: "user:octocat", Value: []byte(`{}`), ExpiresAt: time.Now().Add(time.Minute).UnixMilli()}
	require.NoError(t, db.Create(&entry).Error)

	var got models.CacheEntry
	require.NoError(t, db.First(&got, "cache_key = ?", "user:octocat").Error)
	require.Equal(t, []byte(`{}`), got.Value)
}

func TestOpen_BadPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing-dir", "sub", "cache.db"))
	require.Error(t, err)
}
