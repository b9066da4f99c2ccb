package handlers

import (
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/anchorhealth/anchor-backend/internal/apierr"
  "github.com/anchorhealth/anchor-backend/internal/services"
)

type CravingHandler struct {
  cravingService services.CravingService
}

func NewCravingHandler(cravingService services.CravingService) *CravingHandler {
  return &CravingHandler{cravingService: cravingService}
}

func (ch *CravingHandler) LogCraving(c *gin.Context) {
  var req struct {
    EnrollmentID uuid.UUID `json:"enrollment_id"`
    Intensity    int       `json:"intensity"`
    Mood         *int      `json:"mood"`
    Trigger      *string   `json:"trigger"`
    Note         *string   `json:"note"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid request body"))
    return
  }
  if req.EnrollmentID == uuid.Nil {
    RespondError(c, apierr.Validation("enrollment_id is required"))
    return
  }
  entry, err := ch.cravingService.LogCraving(c.Request.Context(), services.LogCravingInput{
    EnrollmentID: req.EnrollmentID,
    Intensity:    req.Intensity,
    Mood:         req.Mood,
    Trigger:      req.Trigger,
    Note:         req.Note,
  })
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, entry)
}

func (ch *CravingHandler) ListCravings(c *gin.Context) {
  days := queryInt(c, "days", defaultWindowDays, 1, maxWindowDays)
  limit := queryInt(c, "limit", defaultPageLimit, 1, maxPageLimit)
  var enrollmentID *uuid.UUID
  if raw := c.Query("enrollment_id"); raw != "" {
    parsed, err := uuid.Parse(raw)
    if err != nil {
      RespondError(c, apierr.Validation("enrollment_id must be a valid uuid"))
      return
    }
    enrollmentID = &parsed
  }
  entries, err := ch.cravingService.ListCravings(c.Request.Context(), days, enrollmentID, limit)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"cravings": entries})
}
