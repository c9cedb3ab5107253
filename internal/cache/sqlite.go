package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github-dashboard-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLStore is a Store backed by the cache_entries table. Expired rows are
// misses until PurgeExpired removes them.
type SQLStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewSQLStore wraps an already migrated database handle.
func NewSQLStore(db *gorm.DB, logger *slog.Logger) *SQLStore {
	return &SQLStore{db: db, logger: logger}
}

// Get implements Store.Get.
func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, bool) {
	var e models.CacheEntry
	err := s.db.WithContext(ctx).Where("cache_key = ?", key).Take(&e).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("sqlite get failed", "key", key, "error", err)
		}
		return nil, false
	}
	if e.ExpiresAt != 0 && now().UnixMilli() > e.ExpiresAt {
		return nil, false
	}
	return e.Value, true
}

// Set implements Store.Set.
func (s *SQLStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	e := models.CacheEntry{Key: key, Value: value}
	if ttl > 0 {
		e.ExpiresAt = now().Add(ttl).UnixMilli()
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&e).Error
	if err != nil {
		s.logger.Warn("sqlite set failed", "key", key, "error", err)
	}
}

// Delete implements Store.Delete.
func (s *SQLStore) Delete(ctx context.Context, key string) {
	err := s.db.WithContext(ctx).Where("cache_key = ?", key).Delete(&models.CacheEntry{}).Error
	if err != nil {
		s.logger.Warn("sqlite delete failed", "key", key, "error", err)
	}
}

// PurgeExpired deletes every expired row and returns how many were removed.
func (s *SQLStore) PurgeExpired(ctx context.Context) int64 {
	res := s.db.WithContext(ctx).
		Where("expires_at <> 0 AND expires_at < ?", now().UnixMilli()).
		Delete(&models.CacheEntry{})
	if res.Error != nil {
		s.logger.Warn("sqlite purge failed", "error", res.Error)
		return 0
	}
	return res.RowsAffected
}

// Available implements Store.Available.
func (s *SQLStore) Available() bool { return true }

// Close implements Store.Close.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ Store = (*SQLStore)(nil)
