package services

import (
  "context"
  "gorm.io/gorm"
  "github.com/google/uuid"
  "github.com/anchorhealth/anchor-backend/internal/apierr"
  "github.com/anchorhealth/anchor-backend/internal/logger"
  "github.com/anchorhealth/anchor-backend/internal/repos"
  "github.com/anchorhealth/anchor-backend/internal/requestdata"
  "github.com/anchorhealth/anchor-backend/internal/types"
)

type UserService interface {
  GetMe(ctx context.Context) (*types.User, error)
  UpdateProfile(ctx context.Context, firstName, lastName *string) (*types.User, error)
  DeleteAccount(ctx context.Context) error
}

type userService struct {
  db       *gorm.DB
  log      *logger.Logger
  userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
  return &userService{db: db, log: log.With("service", "UserService"), userRepo: userRepo}
}

func currentUserID(ctx context.Context) (uuid.UUID, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return uuid.Nil, apierr.Auth("No authenticated user in context")
  }
  return rd.UserID, nil
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
  userID, err := currentUserID(ctx)
  if err != nil {
    return nil, err
  }
  users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
  if err != nil {
    return nil, apierr.From(err)
  }
  if len(users) == 0 {
    return nil, apierr.NotFound("User not found")
  }
  return users[0], nil
}

func (us *userService) UpdateProfile(ctx context.Context, firstName, lastName *string) (*types.User, error) {
  userID, err := currentUserID(ctx)
  if err != nil {
    return nil, err
  }
  updates := map[string]interface{}{}
  if firstName != nil {
    if *firstName == "" {
      return nil, apierr.Validation("First name cannot be empty")
    }
    updates["first_name"] = *firstName
  }
  if lastName != nil {
    updates["last_name"] = *lastName
  }
  if len(updates) == 0 {
    return nil, apierr.Validation("No profile fields to update")
  }
  if err := us.userRepo.UpdateProfile(ctx, nil, userID, updates); err != nil {
    return nil, apierr.From(err)
  }
  return us.GetMe(ctx)
}

// DeleteAccount hard deletes the user row; log tables cascade through
// their foreign keys.
func (us *userService) DeleteAccount(ctx context.Context) error {
  userID, err := currentUserID(ctx)
  if err != nil {
    return err
  }
  return us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if err := us.userRepo.Delete(ctx, tx, userID); err != nil {
      return apierr.From(err)
    }
    return nil
  })
}
