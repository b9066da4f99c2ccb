package types

import (
  "time"
  "gorm.io/gorm"
  "github.com/google/uuid"
)

type Post struct {
  ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  UserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
  User        *User           `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
  Body        string          `gorm:"not null;column:body" json:"body"`
  Milestone   *int            `gorm:"column:milestone" json:"milestone,omitempty"`
  CreatedAt   time.Time       `gorm:"not null;index" json:"created_at"`
  UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
  DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Post) TableName() string {
  return "post"
}
