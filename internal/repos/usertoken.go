package repos

import (
  "context"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/yungbote/roft-backend/internal/logger"
  "github.com/yungbote/roft-backend/internal/types"
)

type UserTokenRepo interface {
  Create(ctx context.Context, tx *gorm.DB, tokens []*types.UserToken) ([]*types.UserToken, error)
  GetByAccessTokens(ctx context.Context, tx *gorm.DB, accessTokens []string) ([]*types.UserToken, error)
  DeleteByAccessTokens(ctx context.Context, tx *gorm.DB, accessTokens []string) error
  DeleteExpiredByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, now time.Time) error
}

type userTokenRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
  repoLog := baseLog.With("repo", "UserTokenRepo")
  return &userTokenRepo{db: db, log: repoLog}
}

func (utr *userTokenRepo) Create(ctx context.Context, tx *gorm.DB, tokens []*types.UserToken) ([]*types.UserToken, error) {
  transaction := tx
  if transaction == nil {
    transaction = utr.db
  }

  if len(tokens) == 0 {
    return []*types.UserToken{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&tokens).Error; err != nil {
    return nil, err
  }
  return tokens, nil
}

func (utr *userTokenRepo) GetByAccessTokens(ctx context.Context, tx *gorm.DB, accessTokens []string) ([]*types.UserToken, error) {
  transaction := tx
  if transaction == nil {
    transaction = utr.db
  }

  var results []*types.UserToken
  if len(accessTokens) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("access_token IN ?", accessTokens).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (utr *userTokenRepo) DeleteByAccessTokens(ctx context.Context, tx *gorm.DB, accessTokens []string) error {
  transaction := tx
  if transaction == nil {
    transaction = utr.db
  }

  if len(accessTokens) == 0 {
    return nil
  }

  return transaction.WithContext(ctx).
    Where("access_token IN ?", accessTokens).
    Delete(&types.UserToken{}).Error
}

func (utr *userTokenRepo) DeleteExpiredByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, now time.Time) error {
  transaction := tx
  if transaction == nil {
    transaction = utr.db
  }

  return transaction.WithContext(ctx).
    Where("user_id = ? AND expires_at < ?", userID, now).
    Delete(&types.UserToken{}).Error
}
