package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/anchorhealth/anchor-backend/internal/logger"
  "github.com/anchorhealth/anchor-backend/internal/types"
)

type ReactionCount struct {
  PostID uuid.UUID `json:"post_id"`
  Kind   string    `json:"kind"`
  Count  int       `json:"count"`
}

type ReactionRepo interface {
  Upsert(ctx context.Context, tx *gorm.DB, reaction *types.Reaction) error
  Delete(ctx context.Context, tx *gorm.DB, userID, postID uuid.UUID, kind string) (int64, error)
  CountByPosts(ctx context.Context, tx *gorm.DB, postIDs []uuid.UUID) ([]ReactionCount, error)
  ListByUserAndPosts(ctx context.Context, tx *gorm.DB, userID uuid.UUID, postIDs []uuid.UUID) ([]*types.Reaction, error)
}

type reactionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewReactionRepo(db *gorm.DB, baseLog *logger.Logger) ReactionRepo {
  return &reactionRepo{db: db, log: baseLog.With("repo", "ReactionRepo")}
}

// Upsert is idempotent on (post, user, kind) so optimistic clients can
// retry without creating duplicates.
func (rr *reactionRepo) Upsert(ctx context.Context, tx *gorm.DB, reaction *types.Reaction) error {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  return transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}, {Name: "kind"}},
      DoNothing: true,
    }).
    Create(reaction).Error
}

// Delete of an absent reaction is a no-op, reported via rows affected.
func (rr *reactionRepo) Delete(ctx context.Context, tx *gorm.DB, userID, postID uuid.UUID, kind string) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  res := transaction.WithContext(ctx).
    Where("user_id = ? AND post_id = ? AND kind = ?", userID, postID, kind).
    Delete(&types.Reaction{})
  return res.RowsAffected, res.Error
}

func (rr *reactionRepo) CountByPosts(ctx context.Context, tx *gorm.DB, postIDs []uuid.UUID) ([]ReactionCount, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  var rows []ReactionCount
  if len(postIDs) == 0 {
    return rows, nil
  }
  if err := transaction.WithContext(ctx).
    Model(&types.Reaction{}).
    Select("post_id, kind, count(*) AS count").
    Where("post_id IN ?", postIDs).
    Group("post_id").
    Group("kind").
    Scan(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (rr *reactionRepo) ListByUserAndPosts(ctx context.Context, tx *gorm.DB, userID uuid.UUID, postIDs []uuid.UUID) ([]*types.Reaction, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  var results []*types.Reaction
  if len(postIDs) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("user_id = ? AND post_id IN ?", userID, postIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
