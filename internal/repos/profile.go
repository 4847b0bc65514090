package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/yungbote/roft-backend/internal/logger"
  "github.com/yungbote/roft-backend/internal/types"
)

type ProfileRepo interface {
  Create(ctx context.Context, tx *gorm.DB, profiles []*types.Profile) ([]*types.Profile, error)
  GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.Profile, error)
  IsTurker(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (bool, error)
}

type profileRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
  repoLog := baseLog.With("repo", "ProfileRepo")
  return &profileRepo{db: db, log: repoLog}
}

func (pr *profileRepo) Create(ctx context.Context, tx *gorm.DB, profiles []*types.Profile) ([]*types.Profile, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }

  if len(profiles) == 0 {
    return []*types.Profile{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&profiles).Error; err != nil {
    return nil, err
  }
  return profiles, nil
}

func (pr *profileRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.Profile, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }

  var results []*types.Profile
  if len(userIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("user_id IN ?", userIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

// IsTurker reports false for users without a profile row, matching the
// lenient lookup the annotate flow needs.
func (pr *profileRepo) IsTurker(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (bool, error) {
  profiles, err := pr.GetByUserIDs(ctx, tx, []uuid.UUID{userID})
  if err != nil {
    return false, err
  }
  if len(profiles) == 0 {
    return false, nil
  }
  return profiles[0].IsTurker, nil
}
