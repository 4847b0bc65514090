package services

import (
  "errors"
)

var (
  // ErrNoExamples means every candidate pool for the user is empty:
  // the user has annotated everything reachable from their filters.
  ErrNoExamples = errors.New("no examples available")

  ErrUsernameTaken      = errors.New("username already taken")
  ErrInvalidCredentials = errors.New("invalid username or password")
  ErrNotFound           = errors.New("not found")
)
