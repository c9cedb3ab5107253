package models

// CacheEntry is a row of the sqlite cache backend. ExpiresAt is unix
// milliseconds; zero means the entry never expires.
type CacheEntry struct {
	Key       string `gorm:"column:cache_key;primaryKey"`
	Value     []byte `gorm:"column:value;not null"`
	ExpiresAt int64  `gorm:"column:expires_at;index"`
}

// TableName specifies the table name for CacheEntry Model
func (CacheEntry) TableName() string {
	return "cache_entries"
}
