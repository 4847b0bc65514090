package services

import (
  "context"
  "fmt"
  "gorm.io/gorm"
  "github.com/yungbote/roft-backend/internal/logger"
  "github.com/yungbote/roft-backend/internal/repos"
  "github.com/yungbote/roft-backend/internal/utils"
)

// ProfileStats is the read-only per-user aggregate for the profile page.
type ProfileStats struct {
  Username    string   `json:"username"`
  IsTurker    bool     `json:"is_turker"`
  Points      int      `json:"points"`
  Total       int64    `json:"total"`
  Correct     int64    `json:"correct"`
  AvgDistance *float64 `json:"avg_distance"`
}

type StatsService interface {
  Leaderboard(ctx context.Context) ([]repos.LeaderboardRow, error)
  Profile(ctx context.Context, username string) (*ProfileStats, error)
}

type statsService struct {
  db             *gorm.DB
  log            *logger.Logger
  userRepo       repos.UserRepo
  profileRepo    repos.ProfileRepo
  annotationRepo repos.AnnotationRepo
}

func NewStatsService(
  db *gorm.DB,
  log *logger.Logger,
  userRepo repos.UserRepo,
  profileRepo repos.ProfileRepo,
  annotationRepo repos.AnnotationRepo,
) StatsService {
  serviceLog := log.With("service", "StatsService")
  return &statsService{
    db:             db,
    log:            serviceLog,
    userRepo:       userRepo,
    profileRepo:    profileRepo,
    annotationRepo: annotationRepo,
  }
}

// Leaderboard returns ranked (sanitized username, points) pairs.
// Attention-check annotations never count toward points.
func (s *statsService) Leaderboard(ctx context.Context) ([]repos.LeaderboardRow, error) {
  rows, err := s.annotationRepo.LeaderboardSums(ctx, nil)
  if err != nil {
    return nil, fmt.Errorf("Failed to compute leaderboard: %w", err)
  }
  for i := range rows {
    rows[i].Username = utils.SanitizeUsername(rows[i].Username)
  }
  return rows, nil
}

func (s *statsService) Profile(ctx context.Context, username string) (*ProfileStats, error) {
  users, uErr := s.userRepo.GetByUsernames(ctx, nil, []string{username})
  if uErr != nil {
    return nil, fmt.Errorf("Failed to load user %q: %w", username, uErr)
  }
  if len(users) == 0 {
    return nil, ErrNotFound
  }
  user := users[0]

  stats, sErr := s.annotationRepo.StatsByUser(ctx, nil, user.ID)
  if sErr != nil {
    return nil, fmt.Errorf("Failed to compute user stats: %w", sErr)
  }
  isTurker, tErr := s.profileRepo.IsTurker(ctx, nil, user.ID)
  if tErr != nil {
    return nil, fmt.Errorf("Failed to load profile: %w", tErr)
  }

  return &ProfileStats{
    Username:    user.Username,
    IsTurker:    isTurker,
    Points:      stats.Points,
    Total:       stats.Total,
    Correct:     stats.Correct,
    AvgDistance: stats.AvgDistance,
  }, nil
}
