package services

import (
  "context"
  "crypto/sha256"
  "encoding/hex"
  "fmt"
  "strings"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/yungbote/roft-backend/internal/logger"
  "github.com/yungbote/roft-backend/internal/normalization"
  "github.com/yungbote/roft-backend/internal/repos"
  "github.com/yungbote/roft-backend/internal/types"
)

// SaveRequest carries one submitted boundary judgment. Flags maps
// default feedback-option shortnames to whether the annotator ticked
// them.
type SaveRequest struct {
  GenerationID   uint
  Boundary       int
  Points         int
  AttentionCheck bool
  Flags          map[string]bool
  OtherReason    string
}

type AnnotationService interface {
  Save(ctx context.Context, userID uuid.UUID, req SaveRequest) (int, error)
  DefaultShortnames(ctx context.Context) ([]string, error)
}

type annotationService struct {
  db             *gorm.DB
  log            *logger.Logger
  annotationRepo repos.AnnotationRepo
  generationRepo repos.GenerationRepo
  feedbackRepo   repos.FeedbackOptionRepo
  progress       ProgressService
  goal           int
}

func NewAnnotationService(
  db *gorm.DB,
  log *logger.Logger,
  annotationRepo repos.AnnotationRepo,
  generationRepo repos.GenerationRepo,
  feedbackRepo repos.FeedbackOptionRepo,
  progress ProgressService,
  goal int,
) AnnotationService {
  serviceLog := log.With("service", "AnnotationService")
  if goal <= 0 {
    goal = DefaultGoalNumAnnotations
  }
  return &annotationService{
    db:             db,
    log:            serviceLog,
    annotationRepo: annotationRepo,
    generationRepo: generationRepo,
    feedbackRepo:   feedbackRepo,
    progress:       progress,
    goal:           goal,
  }
}

// Save persists the annotation, its ticked default reasons and an
// optional free-text "other" reason in one transaction, then decrements
// the user's remaining-in-batch counter. The returned int is the new
// remaining count; it drives progress display only.
func (s *annotationService) Save(ctx context.Context, userID uuid.UUID, req SaveRequest) (int, error) {
  err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    exists, eErr := s.generationRepo.IDExists(ctx, tx, req.GenerationID)
    if eErr != nil {
      return fmt.Errorf("Failed to check generation %d: %w", req.GenerationID, eErr)
    }
    if !exists {
      return ErrNotFound
    }

    annotation := &types.Annotation{
      UserID:         userID,
      GenerationID:   req.GenerationID,
      Boundary:       req.Boundary,
      Points:         req.Points,
      AttentionCheck: req.AttentionCheck,
    }
    if _, cErr := s.annotationRepo.Create(ctx, tx, []*types.Annotation{annotation}); cErr != nil {
      return fmt.Errorf("Failed to create annotation: %w", cErr)
    }

    defaults, dErr := s.feedbackRepo.ListDefaults(ctx, tx)
    if dErr != nil {
      return fmt.Errorf("Failed to list default feedback options: %w", dErr)
    }
    var selected []*types.FeedbackOption
    for _, option := range defaults {
      if req.Flags[option.Shortname] {
        selected = append(selected, option)
      }
    }
    if aErr := s.annotationRepo.AddReasons(ctx, tx, annotation, selected); aErr != nil {
      return fmt.Errorf("Failed to attach feedback reasons: %w", aErr)
    }

    if strings.TrimSpace(req.OtherReason) != "" {
      option, oErr := s.otherReasonOption(ctx, tx, req.OtherReason)
      if oErr != nil {
        return oErr
      }
      if aErr := s.annotationRepo.AddReasons(ctx, tx, annotation, []*types.FeedbackOption{option}); aErr != nil {
        return fmt.Errorf("Failed to attach other reason: %w", aErr)
      }
    }

    count, cgErr := s.annotationRepo.CountByGeneration(ctx, tx, req.GenerationID)
    if cgErr != nil {
      return fmt.Errorf("Failed to count generation annotations: %w", cgErr)
    }
    if count > int64(s.goal) {
      // The quota is a soft preference; concurrent assignments can
      // overshoot it by a small margin.
      s.log.Warn("Generation exceeded its annotation goal", "generation_id", req.GenerationID, "count", count, "goal", s.goal)
    }
    return nil
  })
  if err != nil {
    return 0, err
  }

  remaining, rErr := s.progress.Decrement(ctx, userID)
  if rErr != nil {
    s.log.Warn("Failed to decrement batch progress", "error", rErr)
    remaining = 0
  }
  return remaining, nil
}

func (s *annotationService) DefaultShortnames(ctx context.Context) ([]string, error) {
  defaults, err := s.feedbackRepo.ListDefaults(ctx, nil)
  if err != nil {
    return nil, fmt.Errorf("Failed to list default feedback options: %w", err)
  }
  shortnames := make([]string, 0, len(defaults))
  for _, option := range defaults {
    shortnames = append(shortnames, option.Shortname)
  }
  return shortnames, nil
}

// otherReasonOption reuses an existing "other" option whose normalized
// description matches, creating one otherwise. The shortname is content
// addressed so repeated free text never fans out into duplicate rows.
func (s *annotationService) otherReasonOption(ctx context.Context, tx *gorm.DB, reason string) (*types.FeedbackOption, error) {
  normalized := normalization.CollapseWhitespace(reason)

  existing, gErr := s.feedbackRepo.GetByCategoryAndDescription(ctx, tx, "other", normalized)
  if gErr != nil {
    return nil, fmt.Errorf("Failed to look up other reason: %w", gErr)
  }
  if existing != nil {
    return existing, nil
  }

  option := &types.FeedbackOption{
    Shortname:   otherShortname(normalized),
    Category:    "other",
    Description: normalized,
    IsDefault:   false,
  }
  if _, cErr := s.feedbackRepo.Create(ctx, tx, []*types.FeedbackOption{option}); cErr != nil {
    return nil, fmt.Errorf("Failed to create other reason: %w", cErr)
  }
  s.log.Debug("Created new other feedback option", "shortname", option.Shortname)
  return option, nil
}

func otherShortname(normalized string) string {
  sum := sha256.Sum256([]byte(normalized))
  return "other-" + hex.EncodeToString(sum[:6])
}
