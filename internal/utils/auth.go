package utils

import (
  "net/mail"

  "golang.org/x/crypto/bcrypt"

  "github.com/anchorhealth/anchor-backend/internal/apierr"
)

func HashPassword(plain string) (string, error) {
  hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
  if err != nil {
    return "", apierr.Internal(err)
  }
  return string(hashed), nil
}

func CheckPassword(hashed, plain string) bool {
  return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

func ValidateEmail(email string) error {
  if email == "" {
    return apierr.Validation("An email is required")
  }
  if _, err := mail.ParseAddress(email); err != nil {
    return apierr.Validation("Invalid email address")
  }
  return nil
}

func ValidatePassword(password string) error {
  if password == "" {
    return apierr.Validation("A password is required")
  }
  if len(password) < 8 {
    return apierr.Validation("Password must be at least 8 characters")
  }
  return nil
}

// ValidateRange rejects out-of-range scale values outright rather than
// clamping them.
func ValidateRange(field string, val, min, max int) error {
  if val < min || val > max {
    return apierr.Validation("%s must be between %d and %d", field, min, max)
  }
  return nil
}
