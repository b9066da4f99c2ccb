package repos

import (
  "context"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/anchorhealth/anchor-backend/internal/logger"
  "github.com/anchorhealth/anchor-backend/internal/types"
)

// EnrollmentStreakRow is one row of the batched streak listing: the
// enrollment joined with its addiction metadata and the most recent
// slip date, fetched in a single query to avoid N+1 per enrollment.
type EnrollmentStreakRow struct {
  EnrollmentID  uuid.UUID  `json:"enrollment_id"`
  StartDate     time.Time  `json:"start_date"`
  AddictionID   uuid.UUID  `json:"addiction_id"`
  AddictionName string     `json:"addiction_name"`
  Icon          string     `json:"icon"`
  LastSlip      *time.Time `json:"last_slip"`
}

type EnrollmentRepo interface {
  Create(ctx context.Context, tx *gorm.DB, enrollments []*types.Enrollment) ([]*types.Enrollment, error)
  GetOwned(ctx context.Context, tx *gorm.DB, userID, enrollmentID uuid.UUID) (*types.Enrollment, error)
  GetByUserAndAddiction(ctx context.Context, tx *gorm.DB, userID, addictionID uuid.UUID) (*types.Enrollment, error)
  ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, activeOnly bool) ([]*types.Enrollment, error)
  SetActive(ctx context.Context, tx *gorm.DB, userID, enrollmentID uuid.UUID, active bool) (int64, error)
  ListStreakRows(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]EnrollmentStreakRow, error)
  Count(ctx context.Context, tx *gorm.DB, activeOnly bool) (int64, error)
}

type enrollmentRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
  return &enrollmentRepo{db: db, log: baseLog.With("repo", "EnrollmentRepo")}
}

func (er *enrollmentRepo) Create(ctx context.Context, tx *gorm.DB, enrollments []*types.Enrollment) ([]*types.Enrollment, error) {
  transaction := tx
  if transaction == nil {
    transaction = er.db
  }
  if len(enrollments) == 0 {
    return []*types.Enrollment{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&enrollments).Error; err != nil {
    return nil, err
  }
  return enrollments, nil
}

// GetOwned scopes the lookup by owner so a foreign enrollment id reads
// the same as an absent one.
func (er *enrollmentRepo) GetOwned(ctx context.Context, tx *gorm.DB, userID, enrollmentID uuid.UUID) (*types.Enrollment, error) {
  transaction := tx
  if transaction == nil {
    transaction = er.db
  }
  var result types.Enrollment
  if err := transaction.WithContext(ctx).
    Preload("Addiction").
    Where("id = ? AND user_id = ?", enrollmentID, userID).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (er *enrollmentRepo) GetByUserAndAddiction(ctx context.Context, tx *gorm.DB, userID, addictionID uuid.UUID) (*types.Enrollment, error) {
  transaction := tx
  if transaction == nil {
    transaction = er.db
  }
  var result types.Enrollment
  if err := transaction.WithContext(ctx).
    Where("user_id = ? AND addiction_id = ?", userID, addictionID).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (er *enrollmentRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, activeOnly bool) ([]*types.Enrollment, error) {
  transaction := tx
  if transaction == nil {
    transaction = er.db
  }
  query := transaction.WithContext(ctx).
    Preload("Addiction").
    Where("user_id = ?", userID)
  if activeOnly {
    query = query.Where("active = ?", true)
  }
  var results []*types.Enrollment
  if err := query.Order("created_at").Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (er *enrollmentRepo) SetActive(ctx context.Context, tx *gorm.DB, userID, enrollmentID uuid.UUID, active bool) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = er.db
  }
  res := transaction.WithContext(ctx).
    Model(&types.Enrollment{}).
    Where("id = ? AND user_id = ?", enrollmentID, userID).
    Updates(map[string]interface{}{"active": active, "updated_at": time.Now()})
  return res.RowsAffected, res.Error
}

func (er *enrollmentRepo) ListStreakRows(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]EnrollmentStreakRow, error) {
  transaction := tx
  if transaction == nil {
    transaction = er.db
  }
  var rows []EnrollmentStreakRow
  if err := transaction.WithContext(ctx).Raw(`
    SELECT
      e.id AS enrollment_id,
      e.start_date AS start_date,
      a.id AS addiction_id,
      a.name AS addiction_name,
      a.icon AS icon,
      (
        SELECT MAX(r.event_date)
        FROM recovery_event r
        WHERE r.enrollment_id = e.id AND r.kind = ?
      ) AS last_slip
    FROM enrollment e
    JOIN addiction a ON a.id = e.addiction_id
    WHERE e.user_id = ? AND e.active = ?
    ORDER BY e.created_at
  `, types.EventKindSlip, userID, true).Scan(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (er *enrollmentRepo) Count(ctx context.Context, tx *gorm.DB, activeOnly bool) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = er.db
  }
  query := transaction.WithContext(ctx).Model(&types.Enrollment{})
  if activeOnly {
    query = query.Where("active = ?", true)
  }
  var count int64
  if err := query.Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}
