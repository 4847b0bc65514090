package utils

import (
  "context"
  "fmt"
  "golang.org/x/crypto/bcrypt"
  "github.com/yungbote/roft-backend/internal/logger"
  "github.com/yungbote/roft-backend/internal/normalization"
  "github.com/yungbote/roft-backend/internal/types"
)

// SessionCookieName carries the access token between the browser and
// the backend.
const SessionCookieName = "roft_session"

func ValidateCredentials(ctx context.Context, username, password string) error {
  if normalization.ParseInputString(username) == "" {
    return fmt.Errorf("A username is required")
  }
  if password == "" {
    return fmt.Errorf("A password is required")
  }
  return nil
}

func HashPassword(ctx context.Context, log *logger.Logger, user *types.User) error {
  hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
  if err != nil {
    if log != nil {
      log.Error("Failed to hash password", "error", err)
    }
    return fmt.Errorf("Failed to hash password")
  }
  user.Password = string(hashedPassword)
  return nil
}

func CheckPassword(hashed, plain string) error {
  return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
