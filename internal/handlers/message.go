package handlers

import (
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/anchorhealth/anchor-backend/internal/apierr"
  "github.com/anchorhealth/anchor-backend/internal/services"
)

type MessageHandler struct {
  messageService services.MessageService
}

func NewMessageHandler(messageService services.MessageService) *MessageHandler {
  return &MessageHandler{messageService: messageService}
}

func (mh *MessageHandler) Send(c *gin.Context) {
  var req struct {
    RecipientID uuid.UUID `json:"recipient_id"`
    Body        string    `json:"body"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid request body"))
    return
  }
  if req.RecipientID == uuid.Nil {
    RespondError(c, apierr.Validation("recipient_id is required"))
    return
  }
  message, err := mh.messageService.Send(c.Request.Context(), req.RecipientID, req.Body)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, message)
}

func (mh *MessageHandler) Conversation(c *gin.Context) {
  partnerID, err := pathUUID(c, "partnerId")
  if err != nil {
    RespondError(c, err)
    return
  }
  limit := queryInt(c, "limit", defaultPageLimit, 1, maxPageLimit)
  offset := queryInt(c, "offset", 0, 0, 10000)
  messages, err := mh.messageService.Conversation(c.Request.Context(), partnerID, limit, offset)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"messages": messages})
}

func (mh *MessageHandler) Conversations(c *gin.Context) {
  summaries, err := mh.messageService.Conversations(c.Request.Context())
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"conversations": summaries})
}

func (mh *MessageHandler) MarkRead(c *gin.Context) {
  senderID, err := pathUUID(c, "partnerId")
  if err != nil {
    RespondError(c, err)
    return
  }
  count, err := mh.messageService.MarkRead(c.Request.Context(), senderID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"marked_read": count})
}
