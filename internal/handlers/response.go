package handlers

import (
  "errors"
  "net/http"
  "strconv"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/anchorhealth/anchor-backend/internal/apierr"
)

type APIError struct {
  Message string `json:"message"`
  Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
  Error APIError `json:"error"`
}

// RespondError maps the service error taxonomy onto HTTP statuses.
// Anything unclassified is a 500 with a generic message so internals
// never leak to clients.
func RespondError(c *gin.Context, err error) {
  var apiError *apierr.Error
  if errors.As(err, &apiError) && apiError.Status < http.StatusInternalServerError {
    c.JSON(apiError.Status, ErrorEnvelope{
      Error: APIError{Message: apiError.Error(), Code: apiError.Code},
    })
    return
  }
  c.JSON(http.StatusInternalServerError, ErrorEnvelope{
    Error: APIError{Message: "internal server error", Code: "internal"},
  })
}

func RespondOK(c *gin.Context, payload any) {
  c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
  c.JSON(http.StatusCreated, payload)
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, error) {
  id, err := uuid.Parse(c.Param(name))
  if err != nil {
    return uuid.Nil, apierr.Validation("%s must be a valid uuid", name)
  }
  return id, nil
}

// queryInt reads an integer query param, clamping to [min, max].
func queryInt(c *gin.Context, name string, defaultVal, min, max int) int {
  raw := c.Query(name)
  if raw == "" {
    return defaultVal
  }
  val, err := strconv.Atoi(raw)
  if err != nil {
    return defaultVal
  }
  if val < min {
    return min
  }
  if val > max {
    return max
  }
  return val
}
