package handlers

import (
  "github.com/gin-gonic/gin"
  "github.com/anchorhealth/anchor-backend/internal/apierr"
  "github.com/anchorhealth/anchor-backend/internal/services"
)

type FeedbackHandler struct {
  feedbackService services.FeedbackService
}

func NewFeedbackHandler(feedbackService services.FeedbackService) *FeedbackHandler {
  return &FeedbackHandler{feedbackService: feedbackService}
}

func (fh *FeedbackHandler) Submit(c *gin.Context) {
  var req struct {
    Category string  `json:"category"`
    Body     string  `json:"body"`
    Rating   *int    `json:"rating"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid request body"))
    return
  }
  feedback, err := fh.feedbackService.Submit(c.Request.Context(), req.Category, req.Body, req.Rating)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, feedback)
}
