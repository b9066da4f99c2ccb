package services

import (
  "context"
  "errors"
  "time"
  "gorm.io/gorm"
  "github.com/google/uuid"
  "github.com/anchorhealth/anchor-backend/internal/apierr"
  "github.com/anchorhealth/anchor-backend/internal/insights"
  "github.com/anchorhealth/anchor-backend/internal/logger"
  "github.com/anchorhealth/anchor-backend/internal/normalization"
  "github.com/anchorhealth/anchor-backend/internal/repos"
  "github.com/anchorhealth/anchor-backend/internal/streak"
  "github.com/anchorhealth/anchor-backend/internal/types"
  "github.com/anchorhealth/anchor-backend/internal/utils"
)

const (
  defaultSlipSeverity = 3
  topTriggerLimit     = 5
)

// StreakInfo is the single-enrollment streak read.
type StreakInfo struct {
  EnrollmentID uuid.UUID  `json:"enrollment_id"`
  Days         int        `json:"days"`
  StartDate    time.Time  `json:"start_date"`
  LastSlip     *time.Time `json:"last_slip,omitempty"`
}

// StreakListEntry is one row of the batched streak listing.
type StreakListEntry struct {
  EnrollmentID  uuid.UUID `json:"enrollment_id"`
  StreakDays    int       `json:"streak_days"`
  StreakStart   time.Time `json:"streak_start"`
  AddictionName string    `json:"addiction_name"`
  Icon          string    `json:"icon"`
}

// LogEventInput carries both the lightweight day-log fields and the
// richer slip detail fields of the unified event log.
type LogEventInput struct {
  EnrollmentID    uuid.UUID
  AddictionID     *uuid.UUID
  Kind            string
  EventDate       *time.Time
  Reason          *string
  Note            *string
  Severity        *int
  Trigger         *string
  MoodBefore      *int
  MoodAfter       *int
  DurationMinutes *int
  Learned         *string
}

type SobrietyService interface {
  Enroll(ctx context.Context, addictionID uuid.UUID, startDate *time.Time) (*types.Enrollment, error)
  ListEnrollments(ctx context.Context) ([]*types.Enrollment, error)
  Deactivate(ctx context.Context, enrollmentID uuid.UUID) error
  LogEvent(ctx context.Context, input LogEventInput) (*types.RecoveryEvent, error)
  ListEvents(ctx context.Context, enrollmentID uuid.UUID, days int) ([]*types.RecoveryEvent, error)
  GetStreak(ctx context.Context, enrollmentID uuid.UUID) (*StreakInfo, error)
  ListStreaks(ctx context.Context) ([]StreakListEntry, error)
  SlipStats(ctx context.Context, days int, addictionID *uuid.UUID) (*insights.SlipStats, error)
}

type sobrietyService struct {
  db             *gorm.DB
  log            *logger.Logger
  enrollmentRepo repos.EnrollmentRepo
  eventRepo      repos.RecoveryEventRepo
}

func NewSobrietyService(
  db *gorm.DB,
  log *logger.Logger,
  enrollmentRepo repos.EnrollmentRepo,
  eventRepo repos.RecoveryEventRepo,
) SobrietyService {
  return &sobrietyService{
    db:             db,
    log:            log.With("service", "SobrietyService"),
    enrollmentRepo: enrollmentRepo,
    eventRepo:      eventRepo,
  }
}

// Enroll opts the user into tracking an addiction. A previously
// deactivated enrollment is reactivated in place, keeping its start
// date; an already active one is a conflict.
func (ss *sobrietyService) Enroll(ctx context.Context, addictionID uuid.UUID, startDate *time.Time) (*types.Enrollment, error) {
  userID, err := currentUserID(ctx)
  if err != nil {
    return nil, err
  }
  var enrollment *types.Enrollment
  err = ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    existing, err := ss.enrollmentRepo.GetByUserAndAddiction(ctx, tx, userID, addictionID)
    if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
      return err
    }
    if existing != nil {
      if existing.Active {
        return apierr.Conflict("Already tracking this addiction")
      }
      if _, err := ss.enrollmentRepo.SetActive(ctx, tx, userID, existing.ID, true); err != nil {
        return err
      }
      existing.Active = true
      enrollment = existing
      return nil
    }
    start := time.Now()
    if startDate != nil {
      start = *startDate
    }
    created := &types.Enrollment{
      ID:          uuid.New(),
      UserID:      userID,
      AddictionID: addictionID,
      StartDate:   start,
      Active:      true,
    }
    if _, err := ss.enrollmentRepo.Create(ctx, tx, []*types.Enrollment{created}); err != nil {
      return err
    }
    enrollment = created
    return nil
  })
  if err != nil {
    return nil, apierr.From(err)
  }
  return enrollment, nil
}

func (ss *sobrietyService) ListEnrollments(ctx context.Context) ([]*types.Enrollment, error) {
  userID, err := currentUserID(ctx)
  if err != nil {
    return nil, err
  }
  enrollments, err := ss.enrollmentRepo.ListByUser(ctx, nil, userID, false)
  if err != nil {
    return nil, apierr.From(err)
  }
  return enrollments, nil
}

func (ss *sobrietyService) Deactivate(ctx context.Context, enrollmentID uuid.UUID) error {
  userID, err := currentUserID(ctx)
  if err != nil {
    return err
  }
  affected, err := ss.enrollmentRepo.SetActive(ctx, nil, userID, enrollmentID, false)
  if err != nil {
    return apierr.From(err)
  }
  if affected == 0 {
    return apierr.NotFound("Enrollment not found")
  }
  return nil
}

// LogEvent appends one clean/slip event. The enrollment ownership check
// and the insert run in the same transaction, and the event row carries
// the owner id taken from that check, so a foreign enrollment can never
// be written to.
func (ss *sobrietyService) LogEvent(ctx context.Context, input LogEventInput) (*types.RecoveryEvent, error) {
  userID, err := currentUserID(ctx)
  if err != nil {
    return nil, err
  }
  if input.Kind != types.EventKindClean && input.Kind != types.EventKindSlip {
    return nil, apierr.Validation("status must be %q or %q", types.EventKindClean, types.EventKindSlip)
  }
  if input.Kind == types.EventKindSlip && input.Severity == nil {
    severity := defaultSlipSeverity
    input.Severity = &severity
  }
  if input.Severity != nil {
    if input.Kind != types.EventKindSlip {
      return nil, apierr.Validation("severity only applies to slip entries")
    }
    if err := utils.ValidateRange("severity", *input.Severity, 1, 5); err != nil {
      return nil, err
    }
  }
  if input.MoodBefore != nil {
    if err := utils.ValidateRange("mood_before", *input.MoodBefore, 1, 5); err != nil {
      return nil, err
    }
  }
  if input.MoodAfter != nil {
    if err := utils.ValidateRange("mood_after", *input.MoodAfter, 1, 5); err != nil {
      return nil, err
    }
  }
  if input.DurationMinutes != nil && *input.DurationMinutes < 0 {
    return nil, apierr.Validation("duration_minutes cannot be negative")
  }

  var event *types.RecoveryEvent
  err = ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    enrollment, err := ss.resolveEnrollment(ctx, tx, userID, input)
    if err != nil {
      return err
    }
    eventDate := time.Now()
    if input.EventDate != nil {
      eventDate = *input.EventDate
    }
    created := &types.RecoveryEvent{
      ID:              uuid.New(),
      EnrollmentID:    enrollment.ID,
      UserID:          enrollment.UserID,
      Kind:            input.Kind,
      EventDate:       eventDate,
      Reason:          input.Reason,
      Note:            input.Note,
      Severity:        input.Severity,
      Trigger:         input.Trigger,
      MoodBefore:      input.MoodBefore,
      MoodAfter:       input.MoodAfter,
      DurationMinutes: input.DurationMinutes,
      Learned:         input.Learned,
    }
    if _, err := ss.eventRepo.Create(ctx, tx, []*types.RecoveryEvent{created}); err != nil {
      return err
    }
    event = created
    return nil
  })
  if err != nil {
    return nil, apierr.From(err)
  }
  return event, nil
}

// resolveEnrollment accepts either an explicit enrollment id or an
// addiction id, which maps to the caller's active enrollment for that
// addiction. Both misses surface as a not-found to avoid leaking other
// users' enrollments.
func (ss *sobrietyService) resolveEnrollment(ctx context.Context, tx *gorm.DB, userID uuid.UUID, input LogEventInput) (*types.Enrollment, error) {
  if input.EnrollmentID != uuid.Nil {
    enrollment, err := ss.enrollmentRepo.GetOwned(ctx, tx, userID, input.EnrollmentID)
    if err != nil {
      if errors.Is(err, gorm.ErrRecordNotFound) {
        return nil, apierr.NotFound("Enrollment not found")
      }
      return nil, err
    }
    return enrollment, nil
  }
  if input.AddictionID == nil {
    return nil, apierr.Validation("enrollment_id or addiction_id is required")
  }
  enrollment, err := ss.enrollmentRepo.GetByUserAndAddiction(ctx, tx, userID, *input.AddictionID)
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, apierr.NotFound("No enrollment found for the given addiction")
    }
    return nil, err
  }
  if !enrollment.Active {
    return nil, apierr.NotFound("No active enrollment found for the given addiction")
  }
  return enrollment, nil
}

func (ss *sobrietyService) ListEvents(ctx context.Context, enrollmentID uuid.UUID, days int) ([]*types.RecoveryEvent, error) {
  userID, err := currentUserID(ctx)
  if err != nil {
    return nil, err
  }
  events, err := ss.eventRepo.ListByEnrollment(ctx, nil, userID, enrollmentID, windowStart(days))
  if err != nil {
    return nil, apierr.From(err)
  }
  return events, nil
}

func (ss *sobrietyService) GetStreak(ctx context.Context, enrollmentID uuid.UUID) (*StreakInfo, error) {
  userID, err := currentUserID(ctx)
  if err != nil {
    return nil, err
  }
  enrollment, err := ss.enrollmentRepo.GetOwned(ctx, nil, userID, enrollmentID)
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, apierr.NotFound("Enrollment not found")
    }
    return nil, apierr.From(err)
  }
  lastSlip, err := ss.eventRepo.LastSlipDate(ctx, nil, enrollment.ID)
  if err != nil {
    return nil, apierr.From(err)
  }
  return &StreakInfo{
    EnrollmentID: enrollment.ID,
    Days:         streak.Compute(time.Now(), enrollment.StartDate, lastSlip),
    StartDate:    enrollment.StartDate,
    LastSlip:     lastSlip,
  }, nil
}

// ListStreaks computes every active enrollment's streak from a single
// joined query.
func (ss *sobrietyService) ListStreaks(ctx context.Context) ([]StreakListEntry, error) {
  userID, err := currentUserID(ctx)
  if err != nil {
    return nil, err
  }
  rows, err := ss.enrollmentRepo.ListStreakRows(ctx, nil, userID)
  if err != nil {
    return nil, apierr.From(err)
  }
  now := time.Now()
  entries := make([]StreakListEntry, 0, len(rows))
  for _, row := range rows {
    entries = append(entries, StreakListEntry{
      EnrollmentID:  row.EnrollmentID,
      StreakDays:    streak.Compute(now, row.StartDate, row.LastSlip),
      StreakStart:   streak.EffectiveStart(row.StartDate, row.LastSlip),
      AddictionName: row.AddictionName,
      Icon:          row.Icon,
    })
  }
  return entries, nil
}

// SlipStats aggregates the user's slips over the window. The addiction
// filter applies to totals, severity and triggers; the by-addiction
// breakdown always spans the full window so multi-addiction users see
// the whole picture.
func (ss *sobrietyService) SlipStats(ctx context.Context, days int, addictionID *uuid.UUID) (*insights.SlipStats, error) {
  userID, err := currentUserID(ctx)
  if err != nil {
    return nil, err
  }
  rows, err := ss.eventRepo.ListSlipsByUser(ctx, nil, userID, windowStart(days))
  if err != nil {
    return nil, apierr.From(err)
  }
  all := make([]insights.SlipPoint, 0, len(rows))
  filtered := make([]insights.SlipPoint, 0, len(rows))
  for _, row := range rows {
    severity := defaultSlipSeverity
    if row.Severity != nil {
      severity = *row.Severity
    }
    trigger := ""
    if row.Trigger != nil {
      trigger = normalization.NormalizeTrigger(*row.Trigger)
    }
    point := insights.SlipPoint{
      At:          row.EventDate,
      Severity:    severity,
      Trigger:     trigger,
      AddictionID: row.AddictionID,
    }
    all = append(all, point)
    if addictionID == nil || row.AddictionID == *addictionID {
      filtered = append(filtered, point)
    }
  }
  stats := insights.ComputeSlipStats(filtered, topTriggerLimit)
  stats.ByAddiction = insights.ComputeSlipStats(all, 0).ByAddiction
  return &stats, nil
}

func windowStart(days int) time.Time {
  return time.Now().AddDate(0, 0, -days)
}
