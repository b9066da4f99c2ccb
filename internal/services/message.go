package services

import (
  "context"
  "strings"
  "time"
  "gorm.io/gorm"
  "github.com/google/uuid"
  "github.com/anchorhealth/anchor-backend/internal/apierr"
  "github.com/anchorhealth/anchor-backend/internal/logger"
  "github.com/anchorhealth/anchor-backend/internal/repos"
  "github.com/anchorhealth/anchor-backend/internal/sse"
  "github.com/anchorhealth/anchor-backend/internal/types"
)

const maxMessageBodyLen = 2000

// Publisher is the slice of the realtime bus this service needs.
// Delivery is best effort: a publish failure never fails the write.
type Publisher interface {
  Publish(ctx context.Context, msg sse.Message) error
}

// ConversationSummary is one row of the inbox view: the latest message
// exchanged with a partner plus the unread count from that partner.
type ConversationSummary struct {
  PartnerID   uuid.UUID      `json:"partner_id"`
  Partner     *types.User    `json:"partner,omitempty"`
  LastMessage *types.Message `json:"last_message"`
  UnreadCount int            `json:"unread_count"`
}

type MessageService interface {
  Send(ctx context.Context, recipientID uuid.UUID, body string) (*types.Message, error)
  Conversation(ctx context.Context, partnerID uuid.UUID, limit, offset int) ([]*types.Message, error)
  Conversations(ctx context.Context) ([]ConversationSummary, error)
  MarkRead(ctx context.Context, senderID uuid.UUID) (int64, error)
}

type messageService struct {
  db          *gorm.DB
  log         *logger.Logger
  userRepo    repos.UserRepo
  messageRepo repos.MessageRepo
  bus         Publisher
}

func NewMessageService(
  db *gorm.DB,
  log *logger.Logger,
  userRepo repos.UserRepo,
  messageRepo repos.MessageRepo,
  bus Publisher,
) MessageService {
  return &messageService{
    db:          db,
    log:         log.With("service", "MessageService"),
    userRepo:    userRepo,
    messageRepo: messageRepo,
    bus:         bus,
  }
}

func (ms *messageService) Send(ctx context.Context, recipientID uuid.UUID, body string) (*types.Message, error) {
  userID, err := currentUserID(ctx)
  if err != nil {
    return nil, err
  }
  body = strings.TrimSpace(body)
  if body == "" {
    return nil, apierr.Validation("Message body cannot be empty")
  }
  if len(body) > maxMessageBodyLen {
    return nil, apierr.Validation("Message body exceeds %d characters", maxMessageBodyLen)
  }
  if recipientID == userID {
    return nil, apierr.Validation("Cannot send a message to yourself")
  }
  recipients, err := ms.userRepo.GetByIDs(ctx, nil, []uuid.UUID{recipientID})
  if err != nil {
    return nil, apierr.From(err)
  }
  if len(recipients) == 0 {
    return nil, apierr.NotFound("Recipient not found")
  }
  message := &types.Message{
    ID:          uuid.New(),
    SenderID:    userID,
    RecipientID: recipientID,
    Body:        body,
  }
  if _, err := ms.messageRepo.Create(ctx, nil, []*types.Message{message}); err != nil {
    return nil, apierr.From(err)
  }
  if ms.bus != nil {
    err := ms.bus.Publish(ctx, sse.Message{
      Channel: sse.UserChannel(recipientID),
      Event:   sse.EventMessageReceived,
      Data:    message,
    })
    if err != nil {
      ms.log.Warn("Failed to publish message event", "error", err, "recipient_id", recipientID)
    }
  }
  return message, nil
}

func (ms *messageService) Conversation(ctx context.Context, partnerID uuid.UUID, limit, offset int) ([]*types.Message, error) {
  userID, err := currentUserID(ctx)
  if err != nil {
    return nil, err
  }
  messages, err := ms.messageRepo.Conversation(ctx, nil, userID, partnerID, limit, offset)
  if err != nil {
    return nil, apierr.From(err)
  }
  return messages, nil
}

// Conversations folds the user's recent messages into one summary row
// per partner, newest first.
func (ms *messageService) Conversations(ctx context.Context) ([]ConversationSummary, error) {
  userID, err := currentUserID(ctx)
  if err != nil {
    return nil, err
  }
  messages, err := ms.messageRepo.ListInvolving(ctx, nil, userID, 0)
  if err != nil {
    return nil, apierr.From(err)
  }
  byPartner := map[uuid.UUID]*ConversationSummary{}
  order := []uuid.UUID{}
  for _, message := range messages {
    partnerID := message.RecipientID
    if partnerID == userID {
      partnerID = message.SenderID
    }
    summary, ok := byPartner[partnerID]
    if !ok {
      summary = &ConversationSummary{PartnerID: partnerID, LastMessage: message}
      byPartner[partnerID] = summary
      order = append(order, partnerID)
    }
    if message.RecipientID == userID && message.ReadAt == nil {
      summary.UnreadCount++
    }
  }
  partnerIDs := make([]uuid.UUID, 0, len(order))
  for _, partnerID := range order {
    partnerIDs = append(partnerIDs, partnerID)
  }
  partners, err := ms.userRepo.GetByIDs(ctx, nil, partnerIDs)
  if err != nil {
    return nil, apierr.From(err)
  }
  partnerByID := map[uuid.UUID]*types.User{}
  for _, partner := range partners {
    partnerByID[partner.ID] = partner
  }
  summaries := make([]ConversationSummary, 0, len(order))
  for _, partnerID := range order {
    summary := byPartner[partnerID]
    summary.Partner = partnerByID[partnerID]
    summaries = append(summaries, *summary)
  }
  return summaries, nil
}

// MarkRead marks everything the given sender has sent to the current
// user as read, and tells the sender over the bus.
func (ms *messageService) MarkRead(ctx context.Context, senderID uuid.UUID) (int64, error) {
  userID, err := currentUserID(ctx)
  if err != nil {
    return 0, err
  }
  affected, err := ms.messageRepo.MarkRead(ctx, nil, userID, senderID, time.Now())
  if err != nil {
    return 0, apierr.From(err)
  }
  if affected > 0 && ms.bus != nil {
    err := ms.bus.Publish(ctx, sse.Message{
      Channel: sse.UserChannel(senderID),
      Event:   sse.EventMessageRead,
      Data:    map[string]interface{}{"reader_id": userID, "count": affected},
    })
    if err != nil {
      ms.log.Warn("Failed to publish read receipt", "error", err, "recipient_id", senderID)
    }
  }
  return affected, nil
}
