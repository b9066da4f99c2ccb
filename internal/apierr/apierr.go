package apierr

import (
  "errors"
  "fmt"
  "net/http"

  "gorm.io/gorm"
)

type Error struct {
  Status int
  Code   string
  Err    error
}

func (e *Error) Error() string {
  if e == nil {
    return ""
  }
  if e.Err != nil {
    return e.Err.Error()
  }
  if e.Code != "" {
    return e.Code
  }
  if e.Status != 0 {
    return fmt.Sprintf("api error (%d)", e.Status)
  }
  return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
  return &Error{Status: status, Code: code, Err: err}
}

func Validation(format string, args ...interface{}) *Error {
  return New(http.StatusBadRequest, "validation_error", fmt.Errorf(format, args...))
}

// NotFound covers both absent resources and resources owned by someone
// else, so existence of other users' rows is never leaked.
func NotFound(format string, args ...interface{}) *Error {
  return New(http.StatusNotFound, "not_found", fmt.Errorf(format, args...))
}

func Auth(format string, args ...interface{}) *Error {
  return New(http.StatusUnauthorized, "auth_error", fmt.Errorf(format, args...))
}

func Conflict(format string, args ...interface{}) *Error {
  return New(http.StatusConflict, "conflict", fmt.Errorf(format, args...))
}

func Internal(err error) *Error {
  return New(http.StatusInternalServerError, "internal_error", err)
}

// From maps arbitrary errors to the taxonomy. Storage-layer sentinel
// errors collapse to NotFound/Conflict; anything unrecognized is an
// internal error.
func From(err error) *Error {
  if err == nil {
    return nil
  }
  var ae *Error
  if errors.As(err, &ae) {
    return ae
  }
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return NotFound("resource not found")
  }
  if errors.Is(err, gorm.ErrDuplicatedKey) {
    return Conflict("resource already exists")
  }
  return Internal(err)
}

func StatusOf(err error) int {
  if ae := From(err); ae != nil {
    return ae.Status
  }
  return http.StatusInternalServerError
}
