package types

import (
  "time"
  "github.com/google/uuid"
)

type MoodLog struct {
  ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  UserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
  User        *User           `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
  Mood        int             `gorm:"not null;column:mood" json:"mood"`
  Note        *string         `gorm:"column:note" json:"note,omitempty"`
  CreatedAt   time.Time       `gorm:"not null;index" json:"created_at"`
}

func (MoodLog) TableName() string {
  return "mood_log"
}
