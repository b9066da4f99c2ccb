package handlers

import (
  "time"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/anchorhealth/anchor-backend/internal/apierr"
  "github.com/anchorhealth/anchor-backend/internal/services"
  "github.com/anchorhealth/anchor-backend/internal/types"
)

const (
  defaultWindowDays = 30
  maxWindowDays     = 365
  defaultPageLimit  = 50
  maxPageLimit      = 100
)

type SobrietyHandler struct {
  sobrietyService services.SobrietyService
}

func NewSobrietyHandler(sobrietyService services.SobrietyService) *SobrietyHandler {
  return &SobrietyHandler{sobrietyService: sobrietyService}
}

func (sh *SobrietyHandler) Enroll(c *gin.Context) {
  var req struct {
    AddictionID uuid.UUID  `json:"addiction_id"`
    StartDate   *time.Time `json:"start_date"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid request body"))
    return
  }
  if req.AddictionID == uuid.Nil {
    RespondError(c, apierr.Validation("addiction_id is required"))
    return
  }
  enrollment, err := sh.sobrietyService.Enroll(c.Request.Context(), req.AddictionID, req.StartDate)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, enrollment)
}

func (sh *SobrietyHandler) ListEnrollments(c *gin.Context) {
  enrollments, err := sh.sobrietyService.ListEnrollments(c.Request.Context())
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"enrollments": enrollments})
}

func (sh *SobrietyHandler) Deactivate(c *gin.Context) {
  enrollmentID, err := pathUUID(c, "enrollmentId")
  if err != nil {
    RespondError(c, err)
    return
  }
  if err := sh.sobrietyService.Deactivate(c.Request.Context(), enrollmentID); err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"message": "enrollment deactivated"})
}

func (sh *SobrietyHandler) LogEvent(c *gin.Context) {
  sh.logEvent(c, "")
}

// LogSlip serves the slip-specific route, where the entry kind is
// implied rather than carried in the body.
func (sh *SobrietyHandler) LogSlip(c *gin.Context) {
  sh.logEvent(c, types.EventKindSlip)
}

func (sh *SobrietyHandler) logEvent(c *gin.Context, defaultStatus string) {
  var req struct {
    EnrollmentID    uuid.UUID  `json:"enrollment_id"`
    AddictionID     *uuid.UUID `json:"addiction_id"`
    Status          string     `json:"status"`
    EventDate       *time.Time `json:"event_date"`
    Reason          *string    `json:"reason"`
    Note            *string    `json:"note"`
    Severity        *int       `json:"severity"`
    Trigger         *string    `json:"trigger"`
    MoodBefore      *int       `json:"mood_before"`
    MoodAfter       *int       `json:"mood_after"`
    DurationMinutes *int       `json:"duration_minutes"`
    Learned         *string    `json:"learned"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid request body"))
    return
  }
  if req.EnrollmentID == uuid.Nil && req.AddictionID == nil {
    RespondError(c, apierr.Validation("enrollment_id or addiction_id is required"))
    return
  }
  if req.Status == "" {
    req.Status = defaultStatus
  }
  event, err := sh.sobrietyService.LogEvent(c.Request.Context(), services.LogEventInput{
    EnrollmentID:    req.EnrollmentID,
    AddictionID:     req.AddictionID,
    Kind:            req.Status,
    EventDate:       req.EventDate,
    Reason:          req.Reason,
    Note:            req.Note,
    Severity:        req.Severity,
    Trigger:         req.Trigger,
    MoodBefore:      req.MoodBefore,
    MoodAfter:       req.MoodAfter,
    DurationMinutes: req.DurationMinutes,
    Learned:         req.Learned,
  })
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, event)
}

func (sh *SobrietyHandler) ListEvents(c *gin.Context) {
  enrollmentID, err := pathUUID(c, "enrollmentId")
  if err != nil {
    RespondError(c, err)
    return
  }
  days := queryInt(c, "days", defaultWindowDays, 1, maxWindowDays)
  events, err := sh.sobrietyService.ListEvents(c.Request.Context(), enrollmentID, days)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"events": events})
}

func (sh *SobrietyHandler) GetStreak(c *gin.Context) {
  enrollmentID, err := pathUUID(c, "enrollmentId")
  if err != nil {
    RespondError(c, err)
    return
  }
  info, err := sh.sobrietyService.GetStreak(c.Request.Context(), enrollmentID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, info)
}

func (sh *SobrietyHandler) ListStreaks(c *gin.Context) {
  entries, err := sh.sobrietyService.ListStreaks(c.Request.Context())
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"streaks": entries})
}

func (sh *SobrietyHandler) SlipStats(c *gin.Context) {
  days := queryInt(c, "days", defaultWindowDays, 1, maxWindowDays)
  var addictionID *uuid.UUID
  if raw := c.Query("addiction_id"); raw != "" {
    parsed, err := uuid.Parse(raw)
    if err != nil {
      RespondError(c, apierr.Validation("addiction_id must be a valid uuid"))
      return
    }
    addictionID = &parsed
  }
  stats, err := sh.sobrietyService.SlipStats(c.Request.Context(), days, addictionID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, stats)
}
