package repos

import (
  "context"
  "errors"
  "gorm.io/gorm"
  "github.com/yungbote/roft-backend/internal/logger"
  "github.com/yungbote/roft-backend/internal/types"
)

type FeedbackOptionRepo interface {
  Create(ctx context.Context, tx *gorm.DB, options []*types.FeedbackOption) ([]*types.FeedbackOption, error)
  ListDefaults(ctx context.Context, tx *gorm.DB) ([]*types.FeedbackOption, error)
  ListDefaultsByCategory(ctx context.Context, tx *gorm.DB, category string) ([]*types.FeedbackOption, error)
  GetByShortname(ctx context.Context, tx *gorm.DB, shortname string) (*types.FeedbackOption, error)
  GetByCategoryAndDescription(ctx context.Context, tx *gorm.DB, category, description string) (*types.FeedbackOption, error)
}

type feedbackOptionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewFeedbackOptionRepo(db *gorm.DB, baseLog *logger.Logger) FeedbackOptionRepo {
  repoLog := baseLog.With("repo", "FeedbackOptionRepo")
  return &feedbackOptionRepo{db: db, log: repoLog}
}

func (fr *feedbackOptionRepo) Create(ctx context.Context, tx *gorm.DB, options []*types.FeedbackOption) ([]*types.FeedbackOption, error) {
  transaction := tx
  if transaction == nil {
    transaction = fr.db
  }

  if len(options) == 0 {
    return []*types.FeedbackOption{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&options).Error; err != nil {
    return nil, err
  }
  return options, nil
}

func (fr *feedbackOptionRepo) ListDefaults(ctx context.Context, tx *gorm.DB) ([]*types.FeedbackOption, error) {
  transaction := tx
  if transaction == nil {
    transaction = fr.db
  }

  var results []*types.FeedbackOption
  if err := transaction.WithContext(ctx).
    Where("is_default = ?", true).
    Order("id ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (fr *feedbackOptionRepo) ListDefaultsByCategory(ctx context.Context, tx *gorm.DB, category string) ([]*types.FeedbackOption, error) {
  transaction := tx
  if transaction == nil {
    transaction = fr.db
  }

  var results []*types.FeedbackOption
  if err := transaction.WithContext(ctx).
    Where("is_default = ? AND category = ?", true, category).
    Order("id ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (fr *feedbackOptionRepo) GetByShortname(ctx context.Context, tx *gorm.DB, shortname string) (*types.FeedbackOption, error) {
  transaction := tx
  if transaction == nil {
    transaction = fr.db
  }

  var result types.FeedbackOption
  err := transaction.WithContext(ctx).
    Where("shortname = ?", shortname).
    First(&result).Error
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

// GetByCategoryAndDescription backs content-addressed dedup of lazily
// created "other" reasons: callers look up by normalized description
// before inserting a new option.
func (fr *feedbackOptionRepo) GetByCategoryAndDescription(ctx context.Context, tx *gorm.DB, category, description string) (*types.FeedbackOption, error) {
  transaction := tx
  if transaction == nil {
    transaction = fr.db
  }

  var result types.FeedbackOption
  err := transaction.WithContext(ctx).
    Where("category = ? AND description = ?", category, description).
    First(&result).Error
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}
