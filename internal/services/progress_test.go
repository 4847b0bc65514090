package services

import (
  "context"
  "testing"

  "github.com/google/uuid"
)

func TestMemoryProgressLifecycle(t *testing.T) {
  ctx := context.Background()
  svc := NewMemoryProgressService(3)
  userID := uuid.New()

  remaining, err := svc.Remaining(ctx, userID)
  if err != nil {
    t.Fatalf("Remaining: %v", err)
  }
  if remaining != 3 {
    t.Fatalf("fresh remaining = %d, want the batch size", remaining)
  }

  for want := 2; want >= 0; want-- {
    remaining, err = svc.Decrement(ctx, userID)
    if err != nil {
      t.Fatalf("Decrement: %v", err)
    }
    if remaining != want {
      t.Fatalf("remaining = %d, want %d", remaining, want)
    }
  }

  if err := svc.Reset(ctx, userID); err != nil {
    t.Fatalf("Reset: %v", err)
  }
  remaining, err = svc.Remaining(ctx, userID)
  if err != nil {
    t.Fatalf("Remaining after reset: %v", err)
  }
  if remaining != 3 {
    t.Fatalf("remaining after reset = %d, want 3", remaining)
  }
}

func TestMemoryProgressIsolatesUsers(t *testing.T) {
  ctx := context.Background()
  svc := NewMemoryProgressService(5)
  first := uuid.New()
  second := uuid.New()

  if _, err := svc.Decrement(ctx, first); err != nil {
    t.Fatalf("Decrement: %v", err)
  }
  remaining, err := svc.Remaining(ctx, second)
  if err != nil {
    t.Fatalf("Remaining: %v", err)
  }
  if remaining != 5 {
    t.Fatalf("second user remaining = %d, want untouched batch", remaining)
  }
}

func TestMemoryProgressDefaultsBatchSize(t *testing.T) {
  svc := NewMemoryProgressService(0)
  remaining, err := svc.Remaining(context.Background(), uuid.New())
  if err != nil {
    t.Fatalf("Remaining: %v", err)
  }
  if remaining != DefaultBatchSize {
    t.Fatalf("remaining = %d, want %d", remaining, DefaultBatchSize)
  }
}
