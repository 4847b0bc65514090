package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/yungbote/roft-backend/internal/logger"
  "github.com/yungbote/roft-backend/internal/types"
)

// LeaderboardRow is one ranked entry of summed points for a user.
type LeaderboardRow struct {
  Username string `json:"username"`
  Points   int    `json:"points"`
}

// UserStats aggregates a user's non-attention-check annotations.
// AvgDistance is nil when the user has no scored annotations.
type UserStats struct {
  Points      int
  Total       int64
  Correct     int64
  AvgDistance *float64
}

type AnnotationRepo interface {
  Create(ctx context.Context, tx *gorm.DB, annotations []*types.Annotation) ([]*types.Annotation, error)
  AddReasons(ctx context.Context, tx *gorm.DB, annotation *types.Annotation, options []*types.FeedbackOption) error
  EarliestByUserAndGeneration(ctx context.Context, tx *gorm.DB, userID uuid.UUID, generationID uint) (*types.Annotation, error)
  CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, excludeAttentionChecks bool) (int64, error)
  CountByGeneration(ctx context.Context, tx *gorm.DB, generationID uint) (int64, error)
  LeaderboardSums(ctx context.Context, tx *gorm.DB) ([]LeaderboardRow, error)
  StatsByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*UserStats, error)
}

type annotationRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewAnnotationRepo(db *gorm.DB, baseLog *logger.Logger) AnnotationRepo {
  repoLog := baseLog.With("repo", "AnnotationRepo")
  return &annotationRepo{db: db, log: repoLog}
}

func (ar *annotationRepo) Create(ctx context.Context, tx *gorm.DB, annotations []*types.Annotation) ([]*types.Annotation, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }

  if len(annotations) == 0 {
    return []*types.Annotation{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&annotations).Error; err != nil {
    return nil, err
  }
  return annotations, nil
}

func (ar *annotationRepo) AddReasons(ctx context.Context, tx *gorm.DB, annotation *types.Annotation, options []*types.FeedbackOption) error {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }

  if len(options) == 0 {
    return nil
  }

  return transaction.WithContext(ctx).
    Model(annotation).
    Association("Reasons").
    Append(options)
}

// EarliestByUserAndGeneration returns the user's first annotation of the
// generation, or nil when the user has never annotated it. Review mode
// renders exactly this row's boundary.
func (ar *annotationRepo) EarliestByUserAndGeneration(ctx context.Context, tx *gorm.DB, userID uuid.UUID, generationID uint) (*types.Annotation, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }

  var result types.Annotation
  err := transaction.WithContext(ctx).
    Where("user_id = ? AND generation_id = ?", userID, generationID).
    Order("id ASC").
    First(&result).Error
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (ar *annotationRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, excludeAttentionChecks bool) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }

  query := transaction.WithContext(ctx).
    Model(&types.Annotation{}).
    Where("user_id = ?", userID)
  if excludeAttentionChecks {
    query = query.Where("attention_check = ?", false)
  }

  var count int64
  if err := query.Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}

func (ar *annotationRepo) CountByGeneration(ctx context.Context, tx *gorm.DB, generationID uint) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.Annotation{}).
    Where("generation_id = ?", generationID).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}

// LeaderboardSums ranks users by summed points over non-attention-check
// annotations, descending, dropping users with no points.
func (ar *annotationRepo) LeaderboardSums(ctx context.Context, tx *gorm.DB) ([]LeaderboardRow, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }

  var rows []LeaderboardRow
  err := transaction.WithContext(ctx).
    Model(&types.Annotation{}).
    Select(`"user".username AS username, SUM(annotation.points) AS points`).
    Joins(`JOIN "user" ON "user".id = annotation.user_id`).
    Where("annotation.attention_check = ?", false).
    Group(`"user".id, "user".username`).
    Having("SUM(annotation.points) > 0").
    Order("points DESC").
    Scan(&rows).Error
  if err != nil {
    return nil, err
  }
  return rows, nil
}

// StatsByUser computes points, total, "correct" count (same-match
// distance check against the generation's own distance from the prompt
// length) and average absolute distance for one user, skipping
// attention checks throughout.
func (ar *annotationRepo) StatsByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*UserStats, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }

  stats := &UserStats{}

  var pointsSum *int64
  if err := transaction.WithContext(ctx).
    Model(&types.Annotation{}).
    Select("SUM(points)").
    Where("user_id = ? AND attention_check = ?", userID, false).
    Scan(&pointsSum).Error; err != nil {
    return nil, err
  }
  if pointsSum != nil {
    stats.Points = int(*pointsSum)
  }

  if err := transaction.WithContext(ctx).
    Model(&types.Annotation{}).
    Where("user_id = ? AND attention_check = ?", userID, false).
    Count(&stats.Total).Error; err != nil {
    return nil, err
  }

  if err := transaction.WithContext(ctx).
    Model(&types.Annotation{}).
    Joins("JOIN generation ON generation.id = annotation.generation_id").
    Joins("JOIN prompt ON prompt.id = generation.prompt_id").
    Where("annotation.user_id = ? AND annotation.attention_check = ?", userID, false).
    Where("ABS(annotation.boundary - prompt.num_sentences) = ABS(generation.boundary - prompt.num_sentences)").
    Count(&stats.Correct).Error; err != nil {
    return nil, err
  }

  if err := transaction.WithContext(ctx).
    Model(&types.Annotation{}).
    Joins("JOIN generation ON generation.id = annotation.generation_id").
    Joins("JOIN prompt ON prompt.id = generation.prompt_id").
    Select("AVG(ABS(annotation.boundary - prompt.num_sentences))").
    Where("annotation.user_id = ? AND annotation.attention_check = ?", userID, false).
    Scan(&stats.AvgDistance).Error; err != nil {
    return nil, err
  }

  return stats, nil
}
