package repos

import (
  "context"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/anchorhealth/anchor-backend/internal/logger"
  "github.com/anchorhealth/anchor-backend/internal/types"
)

type SignupsPerDay struct {
  Day   string `json:"day"`
  Count int    `json:"count"`
}

type UserRepo interface {
  Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error)
  GetByEmails(ctx context.Context, tx *gorm.DB, userEmails []string) ([]*types.User, error)
  EmailExists(ctx context.Context, tx *gorm.DB, userEmail string) (bool, error)
  UpdateProfile(ctx context.Context, tx *gorm.DB, userID uuid.UUID, updates map[string]interface{}) error
  Delete(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
  Count(ctx context.Context, tx *gorm.DB) (int64, error)
  SignupsSince(ctx context.Context, tx *gorm.DB, since time.Time) ([]SignupsPerDay, error)
}

type userRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
  return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (ur *userRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
  transaction := tx
  if transaction == nil {
    transaction = ur.db
  }
  if len(users) == 0 {
    return []*types.User{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&users).Error; err != nil {
    return nil, err
  }
  return users, nil
}

func (ur *userRepo) GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error) {
  transaction := tx
  if transaction == nil {
    transaction = ur.db
  }
  var results []*types.User
  if len(userIDs) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("id IN ?", userIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (ur *userRepo) GetByEmails(ctx context.Context, tx *gorm.DB, userEmails []string) ([]*types.User, error) {
  transaction := tx
  if transaction == nil {
    transaction = ur.db
  }
  var results []*types.User
  if len(userEmails) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("email IN ?", userEmails).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (ur *userRepo) EmailExists(ctx context.Context, tx *gorm.DB, userEmail string) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = ur.db
  }
  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.User{}).
    Where("email = ?", userEmail).
    Count(&count).Error; err != nil {
    return false, err
  }
  return count > 0, nil
}

func (ur *userRepo) UpdateProfile(ctx context.Context, tx *gorm.DB, userID uuid.UUID, updates map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = ur.db
  }
  return transaction.WithContext(ctx).
    Model(&types.User{}).
    Where("id = ?", userID).
    Updates(updates).Error
}

func (ur *userRepo) Delete(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = ur.db
  }
  return transaction.WithContext(ctx).
    Unscoped().
    Where("id = ?", userID).
    Delete(&types.User{}).Error
}

func (ur *userRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = ur.db
  }
  var count int64
  if err := transaction.WithContext(ctx).Model(&types.User{}).Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}

func (ur *userRepo) SignupsSince(ctx context.Context, tx *gorm.DB, since time.Time) ([]SignupsPerDay, error) {
  transaction := tx
  if transaction == nil {
    transaction = ur.db
  }
  var rows []SignupsPerDay
  if err := transaction.WithContext(ctx).
    Model(&types.User{}).
    Select("date(created_at) AS day, count(*) AS count").
    Where("created_at >= ?", since).
    Group("date(created_at)").
    Order("day").
    Scan(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}
