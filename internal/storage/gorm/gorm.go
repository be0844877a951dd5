// Package gormstorage implements storage.Medium on a SQL table through GORM.
// The same code serves SQLite and Postgres; only the *gorm.DB differs.
package gormstorage

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/colortour/hotspot-editor/internal/storage"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVEntry is one row of the key-value table.
type KVEntry struct {
	Name      string `gorm:"primaryKey;size:255"`
	Value     string `gorm:"type:text"`
	Size      int64
	UpdatedAt time.Time
}

// TableName pins the table name independent of GORM's naming strategy.
func (KVEntry) TableName() string {
	return "kv_entries"
}

// Dependencies holds all dependencies for the GORM medium.
type Dependencies struct {
	DB            *gorm.DB
	Logger        zerolog.Logger
	CapacityBytes int64
}

// Medium stores values in the kv_entries table. Capacity is enforced by
// summing the stored sizes inside the write transaction.
type Medium struct {
	deps Dependencies
	mu   sync.Mutex
}

// New creates a new GORM medium.
func New(deps Dependencies) *Medium {
	return &Medium{deps: deps}
}

// Init migrates the key-value table.
func (m *Medium) Init() error {
	if m.deps.DB == nil {
		return errors.New("gorm medium: no database")
	}
	if err := m.deps.DB.AutoMigrate(&KVEntry{}); err != nil {
		return fmt.Errorf("failed to auto-migrate KVEntry: %w", err)
	}
	m.deps.Logger.Debug().Str("table", KVEntry{}.TableName()).Msg("Key-value table ready")
	return nil
}

// Close is a no-op; the connection belongs to the database manager.
func (m *Medium) Close() error {
	return nil
}

// Get returns the value stored under key.
func (m *Medium) Get(key string) (string, bool, error) {
	var rows []KVEntry
	err := m.deps.DB.Where("name = ?", key).Limit(1).Find(&rows).Error
	if err != nil {
		return "", false, fmt.Errorf("reading %q: %w", key, err)
	}
	if len(rows) == 0 {
		return "", false, nil
	}
	return rows[0].Value, true, nil
}

// Set upserts value under key unless the table would grow past capacity.
func (m *Medium) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	size := int64(len(value))
	return m.deps.DB.Transaction(func(tx *gorm.DB) error {
		if m.deps.CapacityBytes > 0 {
			var others int64
			err := tx.Model(&KVEntry{}).
				Where("name <> ?", key).
				Select("COALESCE(SUM(size), 0)").
				Scan(&others).Error
			if err != nil {
				return fmt.Errorf("summing sizes: %w", err)
			}
			if others+size > m.deps.CapacityBytes {
				m.deps.Logger.Warn().
					Str("key", key).
					Int64("size", size).
					Int64("used", others).
					Int64("capacity", m.deps.CapacityBytes).
					Msg("Rejecting write over capacity")
				return fmt.Errorf("%w: writing %d bytes to %q would use %d of %d bytes",
					storage.ErrQuotaExceeded, size, key, others+size, m.deps.CapacityBytes)
			}
		}

		entry := KVEntry{Name: key, Value: value, Size: size, UpdatedAt: time.Now().UTC()}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "size", "updated_at"}),
		}).Create(&entry).Error
		if err != nil {
			return fmt.Errorf("writing %q: %w", key, err)
		}
		return nil
	})
}

// Remove deletes key; removing an absent key is not an error.
func (m *Medium) Remove(key string) error {
	if err := m.deps.DB.Where("name = ?", key).Delete(&KVEntry{}).Error; err != nil {
		return fmt.Errorf("removing %q: %w", key, err)
	}
	return nil
}

// Clear deletes every row of the table.
func (m *Medium) Clear() error {
	err := m.deps.DB.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&KVEntry{}).Error
	if err != nil {
		return fmt.Errorf("clearing %s: %w", KVEntry{}.TableName(), err)
	}
	m.deps.Logger.Info().Msg("Key-value table cleared")
	return nil
}

// Entries lists stored keys in lexical order.
func (m *Medium) Entries() ([]storage.Entry, error) {
	var rows []KVEntry
	err := m.deps.DB.Select("name", "size").Order("name").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	entries := make([]storage.Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, storage.Entry{Key: r.Name, Size: r.Size})
	}
	return entries, nil
}

// Capacity returns the configured byte limit.
func (m *Medium) Capacity() int64 {
	return m.deps.CapacityBytes
}
