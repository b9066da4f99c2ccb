package repos

import (
  "context"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/anchorhealth/anchor-backend/internal/logger"
  "github.com/anchorhealth/anchor-backend/internal/types"
)

type MessageRepo interface {
  Create(ctx context.Context, tx *gorm.DB, messages []*types.Message) ([]*types.Message, error)
  Conversation(ctx context.Context, tx *gorm.DB, userID, partnerID uuid.UUID, limit, offset int) ([]*types.Message, error)
  ListInvolving(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Message, error)
  MarkRead(ctx context.Context, tx *gorm.DB, recipientID, senderID uuid.UUID, readAt time.Time) (int64, error)
}

type messageRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewMessageRepo(db *gorm.DB, baseLog *logger.Logger) MessageRepo {
  return &messageRepo{db: db, log: baseLog.With("repo", "MessageRepo")}
}

func (mr *messageRepo) Create(ctx context.Context, tx *gorm.DB, messages []*types.Message) ([]*types.Message, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  if len(messages) == 0 {
    return []*types.Message{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&messages).Error; err != nil {
    return nil, err
  }
  return messages, nil
}

func (mr *messageRepo) Conversation(ctx context.Context, tx *gorm.DB, userID, partnerID uuid.UUID, limit, offset int) ([]*types.Message, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  query := transaction.WithContext(ctx).
    Preload("Sender").
    Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
      userID, partnerID, partnerID, userID)
  if limit > 0 {
    query = query.Limit(limit)
  }
  if offset > 0 {
    query = query.Offset(offset)
  }
  var results []*types.Message
  if err := query.Order("created_at DESC").Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

// ListInvolving returns the newest messages the user sent or received;
// the service folds them into per-partner conversation summaries.
func (mr *messageRepo) ListInvolving(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Message, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  query := transaction.WithContext(ctx).
    Preload("Sender").
    Where("sender_id = ? OR recipient_id = ?", userID, userID)
  if limit > 0 {
    query = query.Limit(limit)
  }
  var results []*types.Message
  if err := query.Order("created_at DESC").Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

// MarkRead only touches rows addressed to the recipient, so a user can
// never mark someone else's inbox.
func (mr *messageRepo) MarkRead(ctx context.Context, tx *gorm.DB, recipientID, senderID uuid.UUID, readAt time.Time) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  res := transaction.WithContext(ctx).
    Model(&types.Message{}).
    Where("recipient_id = ? AND sender_id = ? AND read_at IS NULL", recipientID, senderID).
    Update("read_at", readAt)
  return res.RowsAffected, res.Error
}
