// Package store persists the History and Sales collections as two JSON
// arrays under fixed keys in an on-device sqlite key-value table. Every
// operation is a full read or full overwrite of one collection; there is no
// locking against concurrent writers, which is acceptable for a single-user,
// single-device tool.
package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/batmedia/docpress/internal/models"
)

// Default collection keys. Earlier builds shipped with differently suffixed
// keys, so both are configurable.
const (
	DefaultHistoryKey = "docpress_history_final"
	DefaultSalesKey   = "docpress_sales_final"
)

type kvEntry struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string `gorm:"column:value;not null"`
}

func (kvEntry) TableName() string { return "kv_entries" }

// Options configures the collection keys; zero values use the defaults.
type Options struct {
	HistoryKey string
	SalesKey   string
}

// Store is the on-device record store.
type Store struct {
	db         *gorm.DB
	log        *zap.Logger
	historyKey string
	salesKey   string
}

// Open opens (creating if needed) the store at path. The schema is a single
// additive-only kv table, migrated in place.
func Open(path string, opts Options, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, fmt.Errorf("migrate store: %w", err)
	}
	s := &Store{db: db, log: log, historyKey: opts.HistoryKey, salesKey: opts.SalesKey}
	if s.historyKey == "" {
		s.historyKey = DefaultHistoryKey
	}
	if s.salesKey == "" {
		s.salesKey = DefaultSalesKey
	}
	return s, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) get(key string) (string, bool) {
	var e kvEntry
	if err := s.db.First(&e, "key = ?", key).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn("store read failed", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return e.Value, true
}

func (s *Store) put(key, value string) error {
	e := kvEntry{Key: key, Value: value}
	if err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&e).Error; err != nil {
		return fmt.Errorf("store write %s: %w", key, err)
	}
	return nil
}

// loadList reads one JSON collection. An absent key yields an empty list; a
// corrupt value also yields an empty list (fail safe, never crash the app)
// with a warning.
func loadList[T any](s *Store, key string) []T {
	raw, ok := s.get(key)
	if !ok || raw == "" {
		return nil
	}
	var list []T
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		s.log.Warn("stored collection is corrupt, starting empty", zap.String("key", key), zap.Error(err))
		return nil
	}
	return list
}

func saveList[T any](s *Store, key string, list []T) error {
	if list == nil {
		list = []T{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", key, err)
	}
	return s.put(key, string(data))
}

// LoadHistory returns all snapshots, newest first.
func (s *Store) LoadHistory() []models.Snapshot {
	return loadList[models.Snapshot](s, s.historyKey)
}

// SaveHistory overwrites the whole history collection.
func (s *Store) SaveHistory(list []models.Snapshot) error {
	return saveList(s, s.historyKey, list)
}

// AddSnapshot prepends a snapshot and persists the collection.
func (s *Store) AddSnapshot(snap models.Snapshot) error {
	list := append([]models.Snapshot{snap}, s.LoadHistory()...)
	return s.SaveHistory(list)
}

// FindSnapshot looks a snapshot up by its timestamp id.
func (s *Store) FindSnapshot(id int64) (models.Snapshot, bool) {
	for _, snap := range s.LoadHistory() {
		if snap.ID == id {
			return snap, true
		}
	}
	return models.Snapshot{}, false
}

// DeleteSnapshot removes exactly the snapshot with the given id, keeping the
// relative order of the rest.
func (s *Store) DeleteSnapshot(id int64) error {
	list := s.LoadHistory()
	kept := list[:0]
	for _, snap := range list {
		if snap.ID != id {
			kept = append(kept, snap)
		}
	}
	return s.SaveHistory(kept)
}

// LoadSales returns all sale records, newest first.
func (s *Store) LoadSales() []models.SaleRecord {
	return loadList[models.SaleRecord](s, s.salesKey)
}

// SaveSales overwrites the whole sales collection.
func (s *Store) SaveSales(list []models.SaleRecord) error {
	return saveList(s, s.salesKey, list)
}

// AddSaleRecord prepends a sale record and persists the collection.
func (s *Store) AddSaleRecord(rec models.SaleRecord) error {
	list := append([]models.SaleRecord{rec}, s.LoadSales()...)
	return s.SaveSales(list)
}
