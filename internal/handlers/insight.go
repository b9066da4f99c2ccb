package handlers

import (
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/anchorhealth/anchor-backend/internal/apierr"
  "github.com/anchorhealth/anchor-backend/internal/services"
)

const (
  defaultTriggerLimit = 5
  maxTriggerLimit     = 10
)

type InsightHandler struct {
  insightService services.InsightService
}

func NewInsightHandler(insightService services.InsightService) *InsightHandler {
  return &InsightHandler{insightService: insightService}
}

func (ih *InsightHandler) CravingHeatmap(c *gin.Context) {
  days := queryInt(c, "days", defaultWindowDays, 1, maxWindowDays)
  var enrollmentID *uuid.UUID
  if raw := c.Query("enrollment_id"); raw != "" {
    parsed, err := uuid.Parse(raw)
    if err != nil {
      RespondError(c, apierr.Validation("enrollment_id must be a valid uuid"))
      return
    }
    enrollmentID = &parsed
  }
  heatmap, err := ih.insightService.CravingHeatmap(c.Request.Context(), days, enrollmentID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"heatmap": heatmap, "days": days})
}

func (ih *InsightHandler) Triggers(c *gin.Context) {
  days := queryInt(c, "days", defaultWindowDays, 1, maxWindowDays)
  limit := queryInt(c, "limit", defaultTriggerLimit, 1, maxTriggerLimit)
  report, err := ih.insightService.Triggers(c.Request.Context(), days, limit)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, report)
}

func (ih *InsightHandler) Patterns(c *gin.Context) {
  days := queryInt(c, "days", defaultWindowDays, 1, maxWindowDays)
  report, err := ih.insightService.Patterns(c.Request.Context(), days)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, report)
}

func (ih *InsightHandler) Summary(c *gin.Context) {
  days := queryInt(c, "days", defaultWindowDays, 1, maxWindowDays)
  summary, err := ih.insightService.Summary(c.Request.Context(), days)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, summary)
}
