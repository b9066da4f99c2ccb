package repos

import (
  "context"
  "gorm.io/gorm"
  "github.com/anchorhealth/anchor-backend/internal/logger"
  "github.com/anchorhealth/anchor-backend/internal/types"
)

type FeedbackRepo interface {
  Create(ctx context.Context, tx *gorm.DB, feedback []*types.Feedback) ([]*types.Feedback, error)
  List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Feedback, error)
}

type feedbackRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) FeedbackRepo {
  return &feedbackRepo{db: db, log: baseLog.With("repo", "FeedbackRepo")}
}

func (fr *feedbackRepo) Create(ctx context.Context, tx *gorm.DB, feedback []*types.Feedback) ([]*types.Feedback, error) {
  transaction := tx
  if transaction == nil {
    transaction = fr.db
  }
  if len(feedback) == 0 {
    return []*types.Feedback{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&feedback).Error; err != nil {
    return nil, err
  }
  return feedback, nil
}

func (fr *feedbackRepo) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Feedback, error) {
  transaction := tx
  if transaction == nil {
    transaction = fr.db
  }
  query := transaction.WithContext(ctx).Preload("User")
  if limit > 0 {
    query = query.Limit(limit)
  }
  if offset > 0 {
    query = query.Offset(offset)
  }
  var results []*types.Feedback
  if err := query.Order("created_at DESC").Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
