package types

import (
  "time"
  "gorm.io/gorm"
  "github.com/google/uuid"
)

type Comment struct {
  ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  PostID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"post_id"`
  Post        *Post           `gorm:"constraint:OnDelete:CASCADE;foreignKey:PostID;references:ID" json:"-"`
  UserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
  User        *User           `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
  Body        string          `gorm:"not null;column:body" json:"body"`
  CreatedAt   time.Time       `gorm:"not null;index" json:"created_at"`
  DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Comment) TableName() string {
  return "comment"
}
