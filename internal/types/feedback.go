package types

import (
  "time"
  "github.com/google/uuid"
)

type Feedback struct {
  ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  UserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
  User        *User           `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
  Category    string          `gorm:"not null;column:category" json:"category"`
  Body        string          `gorm:"not null;column:body" json:"body"`
  Rating      *int            `gorm:"column:rating" json:"rating,omitempty"`
  CreatedAt   time.Time       `gorm:"not null;index" json:"created_at"`
}

func (Feedback) TableName() string {
  return "feedback"
}
