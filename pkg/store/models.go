package store

import (
	"time"

	"gorm.io/datatypes"
)

// SlotModel is the GORM row holding one serialized slot.
type SlotModel struct {
	Key       string         `gorm:"primaryKey"`
	Value     datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time      `gorm:"not null"`
}

func (SlotModel) TableName() string { return "profile_slots" }

func slotToModel(key string, value []byte, now time.Time) SlotModel {
	return SlotModel{Key: key, Value: datatypes.JSON(value), UpdatedAt: now}
}

func slotFromModel(m SlotModel) []byte {
	return []byte(m.Value)
}
