package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/anchorhealth/anchor-backend/internal/logger"
  "github.com/anchorhealth/anchor-backend/internal/requestdata"
  "github.com/anchorhealth/anchor-backend/internal/sse"
)

// StreamHandler serves the long-lived event stream. Every connection is
// subscribed to the user's own channel; there are no client-selectable
// channels.
type StreamHandler struct {
  log *logger.Logger
  hub *sse.Hub
}

func NewStreamHandler(log *logger.Logger, hub *sse.Hub) *StreamHandler {
  return &StreamHandler{log: log.With("handler", "StreamHandler"), hub: hub}
}

func (sh *StreamHandler) Stream(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
    return
  }
  client := sh.hub.NewClient(rd.UserID)
  sh.hub.AddChannel(client, sse.UserChannel(rd.UserID))
  sh.log.Debug("stream open", "user_id", rd.UserID)

  sh.hub.ServeHTTP(c.Writer, c.Request, client)

  sh.hub.CloseClient(client)
  sh.log.Debug("stream closed", "user_id", rd.UserID)
}
