package handlers

import (
  "github.com/gin-gonic/gin"
  "github.com/anchorhealth/anchor-backend/internal/services"
)

type AddictionHandler struct {
  addictionService services.AddictionService
}

func NewAddictionHandler(addictionService services.AddictionService) *AddictionHandler {
  return &AddictionHandler{addictionService: addictionService}
}

func (ah *AddictionHandler) ListCatalog(c *gin.Context) {
  addictions, err := ah.addictionService.ListCatalog(c.Request.Context())
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"addictions": addictions})
}
