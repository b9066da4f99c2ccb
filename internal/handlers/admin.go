package handlers

import (
  "github.com/gin-gonic/gin"
  "github.com/anchorhealth/anchor-backend/internal/apierr"
  "github.com/anchorhealth/anchor-backend/internal/services"
)

type AdminHandler struct {
  adminService services.AdminService
}

func NewAdminHandler(adminService services.AdminService) *AdminHandler {
  return &AdminHandler{adminService: adminService}
}

func (ah *AdminHandler) Overview(c *gin.Context) {
  days := queryInt(c, "days", defaultWindowDays, 1, maxWindowDays)
  overview, err := ah.adminService.Overview(c.Request.Context(), days)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, overview)
}

func (ah *AdminHandler) ListFeedback(c *gin.Context) {
  limit := queryInt(c, "limit", defaultPageLimit, 1, maxPageLimit)
  offset := queryInt(c, "offset", 0, 0, 10000)
  feedback, err := ah.adminService.ListFeedback(c.Request.Context(), limit, offset)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"feedback": feedback})
}

func (ah *AdminHandler) Track(c *gin.Context) {
  var req struct {
    Type string                 `json:"type"`
    Data map[string]interface{} `json:"data"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid request body"))
    return
  }
  if err := ah.adminService.Track(c.Request.Context(), req.Type, req.Data); err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, gin.H{"message": "event recorded"})
}
