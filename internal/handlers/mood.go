package handlers

import (
  "github.com/gin-gonic/gin"
  "github.com/anchorhealth/anchor-backend/internal/apierr"
  "github.com/anchorhealth/anchor-backend/internal/services"
)

type MoodHandler struct {
  moodService services.MoodService
}

func NewMoodHandler(moodService services.MoodService) *MoodHandler {
  return &MoodHandler{moodService: moodService}
}

func (mh *MoodHandler) LogMood(c *gin.Context) {
  var req struct {
    Mood int     `json:"mood"`
    Note *string `json:"note"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid request body"))
    return
  }
  entry, err := mh.moodService.LogMood(c.Request.Context(), req.Mood, req.Note)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, entry)
}

func (mh *MoodHandler) ListMoods(c *gin.Context) {
  days := queryInt(c, "days", defaultWindowDays, 1, maxWindowDays)
  limit := queryInt(c, "limit", defaultPageLimit, 1, maxPageLimit)
  entries, err := mh.moodService.ListMoods(c.Request.Context(), days, limit)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"moods": entries})
}
