package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/anchorhealth/anchor-backend/internal/logger"
  "github.com/anchorhealth/anchor-backend/internal/types"
)

type AddictionRepo interface {
  ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Addiction, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Addiction, error)
}

type addictionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewAddictionRepo(db *gorm.DB, baseLog *logger.Logger) AddictionRepo {
  return &addictionRepo{db: db, log: baseLog.With("repo", "AddictionRepo")}
}

func (ar *addictionRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Addiction, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  var results []*types.Addiction
  if err := transaction.WithContext(ctx).
    Where("active = ?", true).
    Order("name").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (ar *addictionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Addiction, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  var results []*types.Addiction
  if len(ids) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
