package types

import (
  "time"
  "github.com/google/uuid"
)

// Addiction is a catalog row describing one trackable addiction type.
// The catalog is seeded from config, not user-editable.
type Addiction struct {
  ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  Slug          string          `gorm:"uniqueIndex;not null;column:slug" json:"slug"`
  Name          string          `gorm:"not null;column:name" json:"name"`
  Icon          string          `gorm:"column:icon" json:"icon"`
  Description   string          `gorm:"column:description" json:"description"`
  Active        bool            `gorm:"not null;default:true;column:active" json:"active"`
  CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
  UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`
}

func (Addiction) TableName() string {
  return "addiction"
}
