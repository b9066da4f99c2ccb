package types

import (
  "time"
  "github.com/google/uuid"
)

// Enrollment is a user's opt-in tracking record for one addiction.
// Soft-deactivated on opt-out and reactivated on re-opt-in, never hard
// deleted while the user exists.
type Enrollment struct {
  ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  UserID        uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_enrollment_user_addiction" json:"user_id"`
  User          *User           `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
  AddictionID   uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_enrollment_user_addiction" json:"addiction_id"`
  Addiction     *Addiction      `gorm:"foreignKey:AddictionID;references:ID" json:"addiction,omitempty"`
  StartDate     time.Time       `gorm:"not null;column:start_date" json:"start_date"`
  Active        bool            `gorm:"not null;default:true;column:active" json:"active"`
  CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
  UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`
}

func (Enrollment) TableName() string {
  return "enrollment"
}
