package handlers

import (
  "github.com/gin-gonic/gin"
  "github.com/anchorhealth/anchor-backend/internal/apierr"
  "github.com/anchorhealth/anchor-backend/internal/services"
  "github.com/anchorhealth/anchor-backend/internal/types"
)

type AuthHandler struct {
  authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
  return &AuthHandler{authService: authService}
}

func (ah *AuthHandler) Register(c *gin.Context) {
  var req struct {
    Email     string `json:"email"`
    FirstName string `json:"first_name"`
    LastName  string `json:"last_name"`
    Password  string `json:"password"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid request body"))
    return
  }
  user := types.User{
    Email:     req.Email,
    FirstName: req.FirstName,
    LastName:  req.LastName,
    Password:  req.Password,
  }
  if err := ah.authService.RegisterUser(c.Request.Context(), &user); err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, gin.H{"id": user.ID})
}

func (ah *AuthHandler) Login(c *gin.Context) {
  var req struct {
    Email    string `json:"email"`
    Password string `json:"password"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid request body"))
    return
  }
  pair, err := ah.authService.LoginUser(c.Request.Context(), req.Email, req.Password)
  if err != nil {
    RespondError(c, err)
    return
  }
  expiresIn := int(ah.authService.GetAccessTTL().Seconds())
  RespondOK(c, gin.H{
    "access_token":  pair.AccessToken,
    "refresh_token": pair.RefreshToken,
    "expires_in":    expiresIn,
  })
}

func (ah *AuthHandler) Refresh(c *gin.Context) {
  var req struct {
    RefreshToken string `json:"refresh_token"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid request body"))
    return
  }
  pair, err := ah.authService.RefreshUser(c.Request.Context(), req.RefreshToken)
  if err != nil {
    RespondError(c, err)
    return
  }
  expiresIn := int(ah.authService.GetAccessTTL().Seconds())
  RespondOK(c, gin.H{
    "access_token":  pair.AccessToken,
    "refresh_token": pair.RefreshToken,
    "expires_in":    expiresIn,
  })
}

func (ah *AuthHandler) Logout(c *gin.Context) {
  if err := ah.authService.LogoutUser(c.Request.Context()); err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"message": "logged out successfully"})
}
