package services

import (
  "context"
  "errors"
  "gorm.io/gorm"
  "github.com/google/uuid"
  "github.com/anchorhealth/anchor-backend/internal/apierr"
  "github.com/anchorhealth/anchor-backend/internal/logger"
  "github.com/anchorhealth/anchor-backend/internal/normalization"
  "github.com/anchorhealth/anchor-backend/internal/repos"
  "github.com/anchorhealth/anchor-backend/internal/types"
  "github.com/anchorhealth/anchor-backend/internal/utils"
)

type LogCravingInput struct {
  EnrollmentID uuid.UUID
  Intensity    int
  Mood         *int
  Trigger      *string
  Note         *string
}

type CravingService interface {
  LogCraving(ctx context.Context, input LogCravingInput) (*types.CravingLog, error)
  ListCravings(ctx context.Context, days int, enrollmentID *uuid.UUID, limit int) ([]*types.CravingLog, error)
}

type cravingService struct {
  db             *gorm.DB
  log            *logger.Logger
  enrollmentRepo repos.EnrollmentRepo
  cravingRepo    repos.CravingLogRepo
}

func NewCravingService(
  db *gorm.DB,
  log *logger.Logger,
  enrollmentRepo repos.EnrollmentRepo,
  cravingRepo repos.CravingLogRepo,
) CravingService {
  return &cravingService{
    db:             db,
    log:            log.With("service", "CravingService"),
    enrollmentRepo: enrollmentRepo,
    cravingRepo:    cravingRepo,
  }
}

func (cs *cravingService) LogCraving(ctx context.Context, input LogCravingInput) (*types.CravingLog, error) {
  userID, err := currentUserID(ctx)
  if err != nil {
    return nil, err
  }
  if err := utils.ValidateRange("intensity", input.Intensity, 1, 10); err != nil {
    return nil, err
  }
  if input.Mood != nil {
    if err := utils.ValidateRange("mood", *input.Mood, 1, 5); err != nil {
      return nil, err
    }
  }
  if input.Trigger != nil {
    normalized := normalization.NormalizeTrigger(*input.Trigger)
    if normalized == "" {
      input.Trigger = nil
    } else {
      input.Trigger = &normalized
    }
  }

  var created *types.CravingLog
  err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    enrollment, err := cs.enrollmentRepo.GetOwned(ctx, tx, userID, input.EnrollmentID)
    if err != nil {
      if errors.Is(err, gorm.ErrRecordNotFound) {
        return apierr.NotFound("Enrollment not found")
      }
      return err
    }
    row := &types.CravingLog{
      ID:           uuid.New(),
      EnrollmentID: enrollment.ID,
      UserID:       enrollment.UserID,
      Intensity:    input.Intensity,
      Mood:         input.Mood,
      Trigger:      input.Trigger,
      Note:         input.Note,
    }
    if _, err := cs.cravingRepo.Create(ctx, tx, []*types.CravingLog{row}); err != nil {
      return err
    }
    created = row
    return nil
  })
  if err != nil {
    return nil, apierr.From(err)
  }
  return created, nil
}

func (cs *cravingService) ListCravings(ctx context.Context, days int, enrollmentID *uuid.UUID, limit int) ([]*types.CravingLog, error) {
  userID, err := currentUserID(ctx)
  if err != nil {
    return nil, err
  }
  logs, err := cs.cravingRepo.ListByUser(ctx, nil, userID, windowStart(days), enrollmentID, limit)
  if err != nil {
    return nil, apierr.From(err)
  }
  return logs, nil
}
