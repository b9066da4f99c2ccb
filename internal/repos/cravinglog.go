package repos

import (
  "context"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/anchorhealth/anchor-backend/internal/logger"
  "github.com/anchorhealth/anchor-backend/internal/types"
)

type CravingLogRepo interface {
  Create(ctx context.Context, tx *gorm.DB, logs []*types.CravingLog) ([]*types.CravingLog, error)
  ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time, enrollmentID *uuid.UUID, limit int) ([]*types.CravingLog, error)
  CountSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error)
}

type cravingLogRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewCravingLogRepo(db *gorm.DB, baseLog *logger.Logger) CravingLogRepo {
  return &cravingLogRepo{db: db, log: baseLog.With("repo", "CravingLogRepo")}
}

func (cr *cravingLogRepo) Create(ctx context.Context, tx *gorm.DB, logs []*types.CravingLog) ([]*types.CravingLog, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  if len(logs) == 0 {
    return []*types.CravingLog{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&logs).Error; err != nil {
    return nil, err
  }
  return logs, nil
}

func (cr *cravingLogRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time, enrollmentID *uuid.UUID, limit int) ([]*types.CravingLog, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  query := transaction.WithContext(ctx).
    Preload("Enrollment").
    Preload("Enrollment.Addiction").
    Where("user_id = ? AND created_at >= ?", userID, since)
  if enrollmentID != nil {
    query = query.Where("enrollment_id = ?", *enrollmentID)
  }
  if limit > 0 {
    query = query.Limit(limit)
  }
  var results []*types.CravingLog
  if err := query.Order("created_at DESC").Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (cr *cravingLogRepo) CountSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.CravingLog{}).
    Where("created_at >= ?", since).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}
