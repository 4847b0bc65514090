package repos

import (
  "context"
  "gorm.io/gorm"
  "github.com/yungbote/roft-backend/internal/logger"
  "github.com/yungbote/roft-backend/internal/types"
)

type PromptRepo interface {
  Create(ctx context.Context, tx *gorm.DB, prompts []*types.Prompt) ([]*types.Prompt, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, promptIDs []uint) ([]*types.Prompt, error)
  IDExists(ctx context.Context, tx *gorm.DB, promptID uint) (bool, error)
}

type promptRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPromptRepo(db *gorm.DB, baseLog *logger.Logger) PromptRepo {
  repoLog := baseLog.With("repo", "PromptRepo")
  return &promptRepo{db: db, log: repoLog}
}

func (pr *promptRepo) Create(ctx context.Context, tx *gorm.DB, prompts []*types.Prompt) ([]*types.Prompt, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }

  if len(prompts) == 0 {
    return []*types.Prompt{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&prompts).Error; err != nil {
    return nil, err
  }
  return prompts, nil
}

func (pr *promptRepo) GetByIDs(ctx context.Context, tx *gorm.DB, promptIDs []uint) ([]*types.Prompt, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }

  var results []*types.Prompt
  if len(promptIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", promptIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (pr *promptRepo) IDExists(ctx context.Context, tx *gorm.DB, promptID uint) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.Prompt{}).
    Where("id = ?", promptID).
    Count(&count).Error; err != nil {
    return false, err
  }
  return count > 0, nil
}
