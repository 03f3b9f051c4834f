package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/wanderly/concierge/concierge/domain"
)

// --- Persistence Model ---

type cacheEntryModel struct {
	ID        string    `gorm:"primaryKey;column:id"`
	TableTag  string    `gorm:"column:table_tag;not null;index:idx_table_key"`
	Key       string    `gorm:"column:key;not null;index:idx_table_key"`
	Source    string    `gorm:"column:source"`
	Data      string    `gorm:"column:data;type:text"` // JSON payload
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index"`
}

func (cacheEntryModel) TableName() string { return "cache_entries" }

// GormEntryStore implements domain.EntryStore on a relational database.
// No uniqueness constraint exists on (table_tag, key); concurrent writers for
// the same key both succeed and produce duplicate rows, which is tolerated.
type GormEntryStore struct {
	db *gorm.DB
}

func NewGormEntryStore(db *gorm.DB) *GormEntryStore {
	return &GormEntryStore{db: db}
}

func (s *GormEntryStore) Init(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&cacheEntryModel{})
}

func (s *GormEntryStore) Insert(ctx context.Context, table, key string, entry domain.CacheEntry) error {
	model := cacheEntryModel{
		ID:        entry.ID,
		TableTag:  table,
		Key:       key,
		Source:    entry.Source,
		Data:      string(entry.Data),
		CreatedAt: entry.CreatedAt,
		ExpiresAt: entry.ExpiresAt,
	}
	return s.db.WithContext(ctx).Create(&model).Error
}

func (s *GormEntryStore) Query(ctx context.Context, table, key string) ([]domain.CacheEntry, error) {
	var models []cacheEntryModel
	err := s.db.WithContext(ctx).
		Where("table_tag = ? AND key = ?", table, key).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	entries := make([]domain.CacheEntry, 0, len(models))
	for _, m := range models {
		entries = append(entries, domain.CacheEntry{
			ID:        m.ID,
			Key:       m.Key,
			Source:    m.Source,
			Data:      []byte(m.Data),
			CreatedAt: m.CreatedAt,
			ExpiresAt: m.ExpiresAt,
		})
	}
	return entries, nil
}

func (s *GormEntryStore) Cleanup(ctx context.Context, table string) error {
	return s.db.WithContext(ctx).
		Where("table_tag = ? AND expires_at < ?", table, time.Now()).
		Delete(&cacheEntryModel{}).Error
}

// CountByTable returns live and expired row counts for the stats endpoint.
func (s *GormEntryStore) CountByTable(ctx context.Context, table string) (live int64, expired int64, err error) {
	now := time.Now()
	if err = s.db.WithContext(ctx).Model(&cacheEntryModel{}).
		Where("table_tag = ? AND expires_at >= ?", table, now).
		Count(&live).Error; err != nil {
		return 0, 0, err
	}
	if err = s.db.WithContext(ctx).Model(&cacheEntryModel{}).
		Where("table_tag = ? AND expires_at < ?", table, now).
		Count(&expired).Error; err != nil {
		return 0, 0, err
	}
	return live, expired, nil
}
