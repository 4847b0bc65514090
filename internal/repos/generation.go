package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/yungbote/roft-backend/internal/logger"
  "github.com/yungbote/roft-backend/internal/types"
)

type GenerationRepo interface {
  Create(ctx context.Context, tx *gorm.DB, generations []*types.Generation) ([]*types.Generation, error)
  GetByID(ctx context.Context, tx *gorm.DB, generationID uint) (*types.Generation, error)
  IDExists(ctx context.Context, tx *gorm.DB, generationID uint) (bool, error)
  AvailableIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, goal int, playlistID int) ([]uint, error)
  UnseenIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, playlistID int) ([]uint, error)
}

type generationRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewGenerationRepo(db *gorm.DB, baseLog *logger.Logger) GenerationRepo {
  repoLog := baseLog.With("repo", "GenerationRepo")
  return &generationRepo{db: db, log: repoLog}
}

func (gr *generationRepo) Create(ctx context.Context, tx *gorm.DB, generations []*types.Generation) ([]*types.Generation, error) {
  transaction := tx
  if transaction == nil {
    transaction = gr.db
  }

  if len(generations) == 0 {
    return []*types.Generation{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&generations).Error; err != nil {
    return nil, err
  }
  return generations, nil
}

func (gr *generationRepo) GetByID(ctx context.Context, tx *gorm.DB, generationID uint) (*types.Generation, error) {
  transaction := tx
  if transaction == nil {
    transaction = gr.db
  }

  var result types.Generation
  err := transaction.WithContext(ctx).
    Preload("Prompt").
    Where("id = ?", generationID).
    First(&result).Error
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (gr *generationRepo) IDExists(ctx context.Context, tx *gorm.DB, generationID uint) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = gr.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.Generation{}).
    Where("id = ?", generationID).
    Count(&count).Error; err != nil {
    return false, err
  }
  return count > 0, nil
}

// AvailableIDs returns generations the user has not annotated whose
// annotation count across all annotators sits in [1, goal], optionally
// restricted to a playlist. One query replaces the two sequential
// aggregates the assignment flow used to need.
func (gr *generationRepo) AvailableIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, goal int, playlistID int) ([]uint, error) {
  transaction := tx
  if transaction == nil {
    transaction = gr.db
  }

  seen := transaction.Model(&types.Annotation{}).
    Select("generation_id").
    Where("user_id = ?", userID)

  query := transaction.WithContext(ctx).
    Model(&types.Generation{}).
    Select("generation.id").
    Joins("JOIN annotation ON annotation.generation_id = generation.id").
    Where("generation.id NOT IN (?)", seen).
    Group("generation.id").
    Having("COUNT(annotation.id) BETWEEN 1 AND ?", goal)
  if playlistID >= 0 {
    query = query.Where("generation.id IN (SELECT generation_id FROM playlist_generation WHERE playlist_id = ?)", playlistID)
  }

  var ids []uint
  if err := query.Scan(&ids).Error; err != nil {
    return nil, err
  }
  return ids, nil
}

// UnseenIDs is the fallback pool: every generation the user has not
// annotated, regardless of annotation count.
func (gr *generationRepo) UnseenIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, playlistID int) ([]uint, error) {
  transaction := tx
  if transaction == nil {
    transaction = gr.db
  }

  seen := transaction.Model(&types.Annotation{}).
    Select("generation_id").
    Where("user_id = ?", userID)

  query := transaction.WithContext(ctx).
    Model(&types.Generation{}).
    Select("generation.id").
    Where("generation.id NOT IN (?)", seen)
  if playlistID >= 0 {
    query = query.Where("generation.id IN (SELECT generation_id FROM playlist_generation WHERE playlist_id = ?)", playlistID)
  }

  var ids []uint
  if err := query.Scan(&ids).Error; err != nil {
    return nil, err
  }
  return ids, nil
}
