package repos

import (
  "context"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/anchorhealth/anchor-backend/internal/logger"
  "github.com/anchorhealth/anchor-backend/internal/types"
)

// SlipRow is a slip event joined with its enrollment's addiction id,
// flattened for stats aggregation.
type SlipRow struct {
  EventDate   time.Time `json:"event_date"`
  Severity    *int      `json:"severity"`
  Trigger     *string   `json:"trigger"`
  AddictionID uuid.UUID `json:"addiction_id"`
}

type RecoveryEventRepo interface {
  Create(ctx context.Context, tx *gorm.DB, events []*types.RecoveryEvent) ([]*types.RecoveryEvent, error)
  LastSlipDate(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) (*time.Time, error)
  ListByEnrollment(ctx context.Context, tx *gorm.DB, userID, enrollmentID uuid.UUID, since time.Time) ([]*types.RecoveryEvent, error)
  ListSlipsByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]SlipRow, error)
  CountSlipsSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error)
}

type recoveryEventRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewRecoveryEventRepo(db *gorm.DB, baseLog *logger.Logger) RecoveryEventRepo {
  return &recoveryEventRepo{db: db, log: baseLog.With("repo", "RecoveryEventRepo")}
}

func (rr *recoveryEventRepo) Create(ctx context.Context, tx *gorm.DB, events []*types.RecoveryEvent) ([]*types.RecoveryEvent, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  if len(events) == 0 {
    return []*types.RecoveryEvent{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&events).Error; err != nil {
    return nil, err
  }
  return events, nil
}

func (rr *recoveryEventRepo) LastSlipDate(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) (*time.Time, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  var row struct {
    LastSlip *time.Time
  }
  if err := transaction.WithContext(ctx).
    Model(&types.RecoveryEvent{}).
    Select("MAX(event_date) AS last_slip").
    Where("enrollment_id = ? AND kind = ?", enrollmentID, types.EventKindSlip).
    Scan(&row).Error; err != nil {
    return nil, err
  }
  return row.LastSlip, nil
}

func (rr *recoveryEventRepo) ListByEnrollment(ctx context.Context, tx *gorm.DB, userID, enrollmentID uuid.UUID, since time.Time) ([]*types.RecoveryEvent, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  var results []*types.RecoveryEvent
  if err := transaction.WithContext(ctx).
    Where("enrollment_id = ? AND user_id = ? AND event_date >= ?", enrollmentID, userID, since).
    Order("event_date DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (rr *recoveryEventRepo) ListSlipsByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]SlipRow, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  var rows []SlipRow
  if err := transaction.WithContext(ctx).Raw(`
    SELECT
      r.event_date AS event_date,
      r.severity AS severity,
      r."trigger" AS "trigger",
      e.addiction_id AS addiction_id
    FROM recovery_event r
    JOIN enrollment e ON e.id = r.enrollment_id
    WHERE r.user_id = ? AND r.kind = ? AND r.event_date >= ?
    ORDER BY r.event_date DESC
  `, userID, types.EventKindSlip, since).Scan(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

// CountSlipsSince counts slip entries only; clean day-logs share the
// table but are not slips.
func (rr *recoveryEventRepo) CountSlipsSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.RecoveryEvent{}).
    Where("kind = ? AND created_at >= ?", types.EventKindSlip, since).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}
