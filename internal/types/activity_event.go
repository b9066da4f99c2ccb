package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

// ActivityEvent records app-side usage events for the admin analytics
// views. Payload shape varies by type, kept as JSONB.
type ActivityEvent struct {
  ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  UserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
  User        *User           `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
  Type        string          `gorm:"not null;index;column:type" json:"type"`
  Data        datatypes.JSON  `gorm:"type:jsonb;column:data" json:"data,omitempty"`
  CreatedAt   time.Time       `gorm:"not null;index" json:"created_at"`
}

func (ActivityEvent) TableName() string {
  return "activity_event"
}
