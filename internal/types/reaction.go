package types

import (
  "time"
  "github.com/google/uuid"
)

const (
  ReactionHeart    = "heart"
  ReactionStrength = "strength"
  ReactionHug      = "hug"
)

// One row per (post, user, kind); creating a duplicate is idempotent so
// optimistic clients can always converge after a retry.
type Reaction struct {
  ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  PostID      uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_reaction_post_user_kind" json:"post_id"`
  Post        *Post           `gorm:"constraint:OnDelete:CASCADE;foreignKey:PostID;references:ID" json:"-"`
  UserID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_reaction_post_user_kind" json:"user_id"`
  Kind        string          `gorm:"not null;uniqueIndex:idx_reaction_post_user_kind;column:kind" json:"kind"`
  CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
}

func (Reaction) TableName() string {
  return "reaction"
}
