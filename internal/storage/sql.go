package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Slot is one row of the kv_slots table.
type Slot struct {
	SlotKey   string    `gorm:"column:slot_key;primaryKey;size:191"`
	Value     string    `gorm:"column:value;type:longtext"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Slot) TableName() string { return "kv_slots" }

type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore wraps db without touching the schema; call Migrate once at startup.
func NewSQLStore(db *gorm.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Migrate() error {
	if err := s.db.AutoMigrate(&Slot{}); err != nil {
		return fmt.Errorf("migrate kv_slots: %w", err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var slot Slot
	err := s.db.WithContext(ctx).Where("slot_key = ?", key).Take(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query slot: %w", err)
	}
	return []byte(slot.Value), true, nil
}

func (s *SQLStore) Set(ctx context.Context, key string, data []byte) error {
	slot := Slot{SlotKey: key, Value: string(data), UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&slot).Error
	if err != nil {
		return fmt.Errorf("upsert slot: %w", err)
	}
	return nil
}
