package services

import (
  "context"
  "gorm.io/gorm"
  "github.com/google/uuid"
  "github.com/anchorhealth/anchor-backend/internal/apierr"
  "github.com/anchorhealth/anchor-backend/internal/logger"
  "github.com/anchorhealth/anchor-backend/internal/repos"
  "github.com/anchorhealth/anchor-backend/internal/types"
  "github.com/anchorhealth/anchor-backend/internal/utils"
)

type MoodService interface {
  LogMood(ctx context.Context, mood int, note *string) (*types.MoodLog, error)
  ListMoods(ctx context.Context, days, limit int) ([]*types.MoodLog, error)
}

type moodService struct {
  db       *gorm.DB
  log      *logger.Logger
  moodRepo repos.MoodLogRepo
}

func NewMoodService(db *gorm.DB, log *logger.Logger, moodRepo repos.MoodLogRepo) MoodService {
  return &moodService{db: db, log: log.With("service", "MoodService"), moodRepo: moodRepo}
}

func (ms *moodService) LogMood(ctx context.Context, mood int, note *string) (*types.MoodLog, error) {
  userID, err := currentUserID(ctx)
  if err != nil {
    return nil, err
  }
  if err := utils.ValidateRange("mood", mood, 1, 5); err != nil {
    return nil, err
  }
  row := &types.MoodLog{
    ID:     uuid.New(),
    UserID: userID,
    Mood:   mood,
    Note:   note,
  }
  if _, err := ms.moodRepo.Create(ctx, nil, []*types.MoodLog{row}); err != nil {
    return nil, apierr.From(err)
  }
  return row, nil
}

func (ms *moodService) ListMoods(ctx context.Context, days, limit int) ([]*types.MoodLog, error) {
  userID, err := currentUserID(ctx)
  if err != nil {
    return nil, err
  }
  logs, err := ms.moodRepo.ListByUser(ctx, nil, userID, windowStart(days), limit)
  if err != nil {
    return nil, apierr.From(err)
  }
  return logs, nil
}
