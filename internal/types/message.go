package types

import (
  "time"
  "github.com/google/uuid"
)

type Message struct {
  ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  SenderID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"sender_id"`
  Sender        *User           `gorm:"constraint:OnDelete:CASCADE;foreignKey:SenderID;references:ID" json:"sender,omitempty"`
  RecipientID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"recipient_id"`
  Recipient     *User           `gorm:"constraint:OnDelete:CASCADE;foreignKey:RecipientID;references:ID" json:"-"`
  Body          string          `gorm:"not null;column:body" json:"body"`
  ReadAt        *time.Time      `gorm:"column:read_at" json:"read_at,omitempty"`
  CreatedAt     time.Time       `gorm:"not null;index" json:"created_at"`
}

func (Message) TableName() string {
  return "message"
}
