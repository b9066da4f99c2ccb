package repos

import (
  "context"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/anchorhealth/anchor-backend/internal/logger"
  "github.com/anchorhealth/anchor-backend/internal/types"
)

type MoodLogRepo interface {
  Create(ctx context.Context, tx *gorm.DB, logs []*types.MoodLog) ([]*types.MoodLog, error)
  ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time, limit int) ([]*types.MoodLog, error)
}

type moodLogRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewMoodLogRepo(db *gorm.DB, baseLog *logger.Logger) MoodLogRepo {
  return &moodLogRepo{db: db, log: baseLog.With("repo", "MoodLogRepo")}
}

func (mr *moodLogRepo) Create(ctx context.Context, tx *gorm.DB, logs []*types.MoodLog) ([]*types.MoodLog, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  if len(logs) == 0 {
    return []*types.MoodLog{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&logs).Error; err != nil {
    return nil, err
  }
  return logs, nil
}

func (mr *moodLogRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time, limit int) ([]*types.MoodLog, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  query := transaction.WithContext(ctx).
    Where("user_id = ? AND created_at >= ?", userID, since)
  if limit > 0 {
    query = query.Limit(limit)
  }
  var results []*types.MoodLog
  if err := query.Order("created_at DESC").Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
