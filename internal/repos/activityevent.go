package repos

import (
  "context"
  "time"
  "gorm.io/gorm"
  "github.com/anchorhealth/anchor-backend/internal/logger"
  "github.com/anchorhealth/anchor-backend/internal/types"
)

type EventTypeCount struct {
  Type  string `json:"type"`
  Count int    `json:"count"`
}

type ActivityEventRepo interface {
  Create(ctx context.Context, tx *gorm.DB, events []*types.ActivityEvent) ([]*types.ActivityEvent, error)
  CountByTypeSince(ctx context.Context, tx *gorm.DB, since time.Time) ([]EventTypeCount, error)
}

type activityEventRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewActivityEventRepo(db *gorm.DB, baseLog *logger.Logger) ActivityEventRepo {
  return &activityEventRepo{db: db, log: baseLog.With("repo", "ActivityEventRepo")}
}

func (ar *activityEventRepo) Create(ctx context.Context, tx *gorm.DB, events []*types.ActivityEvent) ([]*types.ActivityEvent, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  if len(events) == 0 {
    return []*types.ActivityEvent{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&events).Error; err != nil {
    return nil, err
  }
  return events, nil
}

func (ar *activityEventRepo) CountByTypeSince(ctx context.Context, tx *gorm.DB, since time.Time) ([]EventTypeCount, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  var rows []EventTypeCount
  if err := transaction.WithContext(ctx).
    Model(&types.ActivityEvent{}).
    Select("type, count(*) AS count").
    Where("created_at >= ?", since).
    Group("type").
    Order("count DESC").
    Scan(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}
