package types

import (
  "time"
  "github.com/google/uuid"
)

// CravingLog is immutable once created.
type CravingLog struct {
  ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  EnrollmentID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"enrollment_id"`
  Enrollment      *Enrollment     `gorm:"constraint:OnDelete:CASCADE;foreignKey:EnrollmentID;references:ID" json:"enrollment,omitempty"`
  UserID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
  Intensity       int             `gorm:"not null;column:intensity" json:"intensity"`
  Mood            *int            `gorm:"column:mood" json:"mood,omitempty"`
  Trigger         *string         `gorm:"column:trigger" json:"trigger,omitempty"`
  Note            *string         `gorm:"column:note" json:"note,omitempty"`
  CreatedAt       time.Time       `gorm:"not null;index" json:"created_at"`
}

func (CravingLog) TableName() string {
  return "craving_log"
}
