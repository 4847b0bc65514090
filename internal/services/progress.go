package services

import (
  "context"
  "errors"
  "fmt"
  "sync"
  "time"
  goredis "github.com/redis/go-redis/v9"
  "github.com/google/uuid"
  "github.com/yungbote/roft-backend/internal/logger"
  "github.com/yungbote/roft-backend/internal/utils"
)

// DefaultBatchSize groups trials for progress display. The counter has
// no effect on assignment.
const DefaultBatchSize = 10

// ProgressService tracks the per-user remaining-in-batch counter as an
// explicit value instead of ambient session state. A Redis backing is
// used when REDIS_ADDR is set so counters survive restarts; otherwise
// an in-process store serves single-node deployments and tests.
type ProgressService interface {
  Remaining(ctx context.Context, userID uuid.UUID) (int, error)
  Decrement(ctx context.Context, userID uuid.UUID) (int, error)
  Reset(ctx context.Context, userID uuid.UUID) error
}

func NewProgressService(log *logger.Logger, batchSize int) (ProgressService, error) {
  serviceLog := log.With("service", "ProgressService")
  if batchSize <= 0 {
    batchSize = DefaultBatchSize
  }

  addr := utils.GetEnv("REDIS_ADDR", "", log)
  if addr == "" {
    serviceLog.Info("REDIS_ADDR not set, using in-memory batch progress")
    return NewMemoryProgressService(batchSize), nil
  }

  rdb := goredis.NewClient(&goredis.Options{
    Addr:        addr,
    DialTimeout: 5 * time.Second,
  })
  ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
  defer cancel()
  if err := rdb.Ping(ctx).Err(); err != nil {
    _ = rdb.Close()
    return nil, fmt.Errorf("redis ping: %w", err)
  }
  serviceLog.Info("Using redis batch progress", "addr", addr)
  return &redisProgressService{log: serviceLog, rdb: rdb, batchSize: batchSize}, nil
}

type redisProgressService struct {
  log       *logger.Logger
  rdb       *goredis.Client
  batchSize int
}

func progressKey(userID uuid.UUID) string {
  return "roft:remaining:" + userID.String()
}

func (s *redisProgressService) Remaining(ctx context.Context, userID uuid.UUID) (int, error) {
  val, err := s.rdb.Get(ctx, progressKey(userID)).Int()
  if err != nil {
    if errors.Is(err, goredis.Nil) {
      return s.batchSize, nil
    }
    return 0, fmt.Errorf("redis get: %w", err)
  }
  return val, nil
}

func (s *redisProgressService) Decrement(ctx context.Context, userID uuid.UUID) (int, error) {
  key := progressKey(userID)
  if err := s.rdb.SetNX(ctx, key, s.batchSize, 0).Err(); err != nil {
    return 0, fmt.Errorf("redis setnx: %w", err)
  }
  val, err := s.rdb.Decr(ctx, key).Result()
  if err != nil {
    return 0, fmt.Errorf("redis decr: %w", err)
  }
  return int(val), nil
}

func (s *redisProgressService) Reset(ctx context.Context, userID uuid.UUID) error {
  if err := s.rdb.Set(ctx, progressKey(userID), s.batchSize, 0).Err(); err != nil {
    return fmt.Errorf("redis set: %w", err)
  }
  return nil
}

// NewMemoryProgressService is exported for tests and redis-less runs.
func NewMemoryProgressService(batchSize int) ProgressService {
  if batchSize <= 0 {
    batchSize = DefaultBatchSize
  }
  return &memoryProgressService{
    batchSize: batchSize,
    remaining: make(map[uuid.UUID]int),
  }
}

type memoryProgressService struct {
  mu        sync.Mutex
  batchSize int
  remaining map[uuid.UUID]int
}

func (s *memoryProgressService) Remaining(ctx context.Context, userID uuid.UUID) (int, error) {
  s.mu.Lock()
  defer s.mu.Unlock()
  if val, ok := s.remaining[userID]; ok {
    return val, nil
  }
  return s.batchSize, nil
}

func (s *memoryProgressService) Decrement(ctx context.Context, userID uuid.UUID) (int, error) {
  s.mu.Lock()
  defer s.mu.Unlock()
  val, ok := s.remaining[userID]
  if !ok {
    val = s.batchSize
  }
  val--
  s.remaining[userID] = val
  return val, nil
}

func (s *memoryProgressService) Reset(ctx context.Context, userID uuid.UUID) error {
  s.mu.Lock()
  defer s.mu.Unlock()
  s.remaining[userID] = s.batchSize
  return nil
}
