package types

import (
  "time"
  "github.com/google/uuid"
)

const (
  EventKindClean = "clean"
  EventKindSlip  = "slip"
)

// RecoveryEvent is the single append-only log of day events for an
// enrollment. A kind of "slip" resets the streak baseline and may carry
// the richer relapse detail fields; "clean" entries are informational
// and never move the baseline. UserID is denormalized so ownership can
// be enforced in the WHERE clause of every read and write.
type RecoveryEvent struct {
  ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  EnrollmentID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"enrollment_id"`
  Enrollment      *Enrollment     `gorm:"constraint:OnDelete:CASCADE;foreignKey:EnrollmentID;references:ID" json:"-"`
  UserID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
  Kind            string          `gorm:"not null;index;column:kind" json:"kind"`
  EventDate       time.Time       `gorm:"not null;index;column:event_date" json:"event_date"`
  Reason          *string         `gorm:"column:reason" json:"reason,omitempty"`
  Note            *string         `gorm:"column:note" json:"note,omitempty"`
  Severity        *int            `gorm:"column:severity" json:"severity,omitempty"`
  Trigger         *string         `gorm:"column:trigger" json:"trigger,omitempty"`
  MoodBefore      *int            `gorm:"column:mood_before" json:"mood_before,omitempty"`
  MoodAfter       *int            `gorm:"column:mood_after" json:"mood_after,omitempty"`
  DurationMinutes *int            `gorm:"column:duration_minutes" json:"duration_minutes,omitempty"`
  Learned         *string         `gorm:"column:learned" json:"learned,omitempty"`
  CreatedAt       time.Time       `gorm:"not null" json:"created_at"`
}

func (RecoveryEvent) TableName() string {
  return "recovery_event"
}
