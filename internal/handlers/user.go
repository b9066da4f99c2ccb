package handlers

import (
  "github.com/gin-gonic/gin"
  "github.com/anchorhealth/anchor-backend/internal/apierr"
  "github.com/anchorhealth/anchor-backend/internal/services"
)

type UserHandler struct {
  userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
  return &UserHandler{userService: userService}
}

func (uh *UserHandler) GetMe(c *gin.Context) {
  user, err := uh.userService.GetMe(c.Request.Context())
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, user)
}

func (uh *UserHandler) UpdateProfile(c *gin.Context) {
  var req struct {
    FirstName *string `json:"first_name"`
    LastName  *string `json:"last_name"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid request body"))
    return
  }
  user, err := uh.userService.UpdateProfile(c.Request.Context(), req.FirstName, req.LastName)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, user)
}

func (uh *UserHandler) DeleteAccount(c *gin.Context) {
  if err := uh.userService.DeleteAccount(c.Request.Context()); err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"message": "account deleted"})
}
