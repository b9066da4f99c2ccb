package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/anchorhealth/anchor-backend/internal/logger"
  "github.com/anchorhealth/anchor-backend/internal/types"
)

type PostRepo interface {
  Create(ctx context.Context, tx *gorm.DB, posts []*types.Post) ([]*types.Post, error)
  GetByID(ctx context.Context, tx *gorm.DB, postID uuid.UUID) (*types.Post, error)
  List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Post, error)
  DeleteOwned(ctx context.Context, tx *gorm.DB, userID, postID uuid.UUID) (int64, error)
}

type postRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPostRepo(db *gorm.DB, baseLog *logger.Logger) PostRepo {
  return &postRepo{db: db, log: baseLog.With("repo", "PostRepo")}
}

func (pr *postRepo) Create(ctx context.Context, tx *gorm.DB, posts []*types.Post) ([]*types.Post, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  if len(posts) == 0 {
    return []*types.Post{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&posts).Error; err != nil {
    return nil, err
  }
  return posts, nil
}

func (pr *postRepo) GetByID(ctx context.Context, tx *gorm.DB, postID uuid.UUID) (*types.Post, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  var result types.Post
  if err := transaction.WithContext(ctx).
    Preload("User").
    Where("id = ?", postID).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (pr *postRepo) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Post, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  query := transaction.WithContext(ctx).Preload("User")
  if limit > 0 {
    query = query.Limit(limit)
  }
  if offset > 0 {
    query = query.Offset(offset)
  }
  var results []*types.Post
  if err := query.Order("created_at DESC").Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

// DeleteOwned soft deletes and reports rows affected so the caller can
// turn a non-owned id into a not-found.
func (pr *postRepo) DeleteOwned(ctx context.Context, tx *gorm.DB, userID, postID uuid.UUID) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  res := transaction.WithContext(ctx).
    Where("id = ? AND user_id = ?", postID, userID).
    Delete(&types.Post{})
  return res.RowsAffected, res.Error
}
