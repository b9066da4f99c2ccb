package services

import (
  "context"
  "encoding/json"
  "golang.org/x/sync/errgroup"
  "gorm.io/datatypes"
  "gorm.io/gorm"
  "github.com/google/uuid"
  "github.com/anchorhealth/anchor-backend/internal/apierr"
  "github.com/anchorhealth/anchor-backend/internal/logger"
  "github.com/anchorhealth/anchor-backend/internal/repos"
  "github.com/anchorhealth/anchor-backend/internal/types"
)

// AdminOverview is the aggregate dashboard for operators. Counts are
// app-wide, never per-user.
type AdminOverview struct {
  TotalUsers        int64                  `json:"total_users"`
  ActiveEnrollments int64                  `json:"active_enrollments"`
  SlipsLogged       int64                  `json:"slips_logged"`
  CravingsLogged    int64                  `json:"cravings_logged"`
  SignupsPerDay     []repos.SignupsPerDay  `json:"signups_per_day"`
  EventTypeCounts   []repos.EventTypeCount `json:"event_type_counts"`
}

type AdminService interface {
  Overview(ctx context.Context, days int) (*AdminOverview, error)
  ListFeedback(ctx context.Context, limit, offset int) ([]*types.Feedback, error)
  Track(ctx context.Context, eventType string, data map[string]interface{}) error
}

type adminService struct {
  db             *gorm.DB
  log            *logger.Logger
  userRepo       repos.UserRepo
  enrollmentRepo repos.EnrollmentRepo
  eventRepo      repos.RecoveryEventRepo
  cravingRepo    repos.CravingLogRepo
  feedbackRepo   repos.FeedbackRepo
  activityRepo   repos.ActivityEventRepo
}

func NewAdminService(
  db *gorm.DB,
  log *logger.Logger,
  userRepo repos.UserRepo,
  enrollmentRepo repos.EnrollmentRepo,
  eventRepo repos.RecoveryEventRepo,
  cravingRepo repos.CravingLogRepo,
  feedbackRepo repos.FeedbackRepo,
  activityRepo repos.ActivityEventRepo,
) AdminService {
  return &adminService{
    db:             db,
    log:            log.With("service", "AdminService"),
    userRepo:       userRepo,
    enrollmentRepo: enrollmentRepo,
    eventRepo:      eventRepo,
    cravingRepo:    cravingRepo,
    feedbackRepo:   feedbackRepo,
    activityRepo:   activityRepo,
  }
}

// Overview fans the independent aggregate queries out in parallel.
func (as *adminService) Overview(ctx context.Context, days int) (*AdminOverview, error) {
  since := windowStart(days)
  overview := &AdminOverview{}
  group, groupCtx := errgroup.WithContext(ctx)
  group.Go(func() error {
    count, err := as.userRepo.Count(groupCtx, nil)
    if err != nil {
      return err
    }
    overview.TotalUsers = count
    return nil
  })
  group.Go(func() error {
    count, err := as.enrollmentRepo.Count(groupCtx, nil, true)
    if err != nil {
      return err
    }
    overview.ActiveEnrollments = count
    return nil
  })
  group.Go(func() error {
    count, err := as.eventRepo.CountSlipsSince(groupCtx, nil, since)
    if err != nil {
      return err
    }
    overview.SlipsLogged = count
    return nil
  })
  group.Go(func() error {
    count, err := as.cravingRepo.CountSince(groupCtx, nil, since)
    if err != nil {
      return err
    }
    overview.CravingsLogged = count
    return nil
  })
  group.Go(func() error {
    rows, err := as.userRepo.SignupsSince(groupCtx, nil, since)
    if err != nil {
      return err
    }
    overview.SignupsPerDay = rows
    return nil
  })
  group.Go(func() error {
    rows, err := as.activityRepo.CountByTypeSince(groupCtx, nil, since)
    if err != nil {
      return err
    }
    overview.EventTypeCounts = rows
    return nil
  })
  if err := group.Wait(); err != nil {
    return nil, apierr.From(err)
  }
  if overview.SignupsPerDay == nil {
    overview.SignupsPerDay = []repos.SignupsPerDay{}
  }
  if overview.EventTypeCounts == nil {
    overview.EventTypeCounts = []repos.EventTypeCount{}
  }
  return overview, nil
}

func (as *adminService) ListFeedback(ctx context.Context, limit, offset int) ([]*types.Feedback, error) {
  feedback, err := as.feedbackRepo.List(ctx, nil, limit, offset)
  if err != nil {
    return nil, apierr.From(err)
  }
  return feedback, nil
}

// Track records a usage event for the current user.
func (as *adminService) Track(ctx context.Context, eventType string, data map[string]interface{}) error {
  userID, err := currentUserID(ctx)
  if err != nil {
    return err
  }
  if eventType == "" {
    return apierr.Validation("Event type is required")
  }
  var payload datatypes.JSON
  if len(data) > 0 {
    raw, err := json.Marshal(data)
    if err != nil {
      return apierr.Validation("Event data is not serializable")
    }
    payload = datatypes.JSON(raw)
  }
  event := &types.ActivityEvent{
    ID:     uuid.New(),
    UserID: userID,
    Type:   eventType,
    Data:   payload,
  }
  if _, err := as.activityRepo.Create(ctx, nil, []*types.ActivityEvent{event}); err != nil {
    return apierr.From(err)
  }
  return nil
}
