package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/anchorhealth/anchor-backend/internal/logger"
  "github.com/anchorhealth/anchor-backend/internal/types"
)

type CommentCount struct {
  PostID uuid.UUID `json:"post_id"`
  Count  int       `json:"count"`
}

type CommentRepo interface {
  Create(ctx context.Context, tx *gorm.DB, comments []*types.Comment) ([]*types.Comment, error)
  ListByPost(ctx context.Context, tx *gorm.DB, postID uuid.UUID) ([]*types.Comment, error)
  CountByPosts(ctx context.Context, tx *gorm.DB, postIDs []uuid.UUID) ([]CommentCount, error)
  DeleteOwned(ctx context.Context, tx *gorm.DB, userID, commentID uuid.UUID) (int64, error)
}

type commentRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewCommentRepo(db *gorm.DB, baseLog *logger.Logger) CommentRepo {
  return &commentRepo{db: db, log: baseLog.With("repo", "CommentRepo")}
}

func (cr *commentRepo) Create(ctx context.Context, tx *gorm.DB, comments []*types.Comment) ([]*types.Comment, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  if len(comments) == 0 {
    return []*types.Comment{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&comments).Error; err != nil {
    return nil, err
  }
  return comments, nil
}

func (cr *commentRepo) ListByPost(ctx context.Context, tx *gorm.DB, postID uuid.UUID) ([]*types.Comment, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  var results []*types.Comment
  if err := transaction.WithContext(ctx).
    Preload("User").
    Where("post_id = ?", postID).
    Order("created_at").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (cr *commentRepo) CountByPosts(ctx context.Context, tx *gorm.DB, postIDs []uuid.UUID) ([]CommentCount, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  var rows []CommentCount
  if len(postIDs) == 0 {
    return rows, nil
  }
  if err := transaction.WithContext(ctx).
    Model(&types.Comment{}).
    Select("post_id, count(*) AS count").
    Where("post_id IN ?", postIDs).
    Group("post_id").
    Scan(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (cr *commentRepo) DeleteOwned(ctx context.Context, tx *gorm.DB, userID, commentID uuid.UUID) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  res := transaction.WithContext(ctx).
    Where("id = ? AND user_id = ?", commentID, userID).
    Delete(&types.Comment{})
  return res.RowsAffected, res.Error
}
