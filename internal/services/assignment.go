package services

import (
  "context"
  "fmt"
  "math/rand"
  "strings"
  "sync"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/yungbote/roft-backend/internal/logger"
  "github.com/yungbote/roft-backend/internal/repos"
  "github.com/yungbote/roft-backend/internal/types"
)

const (
  // DefaultGoalNumAnnotations is the desired number of annotations per
  // example. Each example is assigned to this many users before any
  // fresh example gets handed out.
  DefaultGoalNumAnnotations = 3
  // DefaultAttentionCheckRate is the fraction of all-human
  // presentations converted to attention checks for turkers.
  DefaultAttentionCheckRate = 0.5
  // MaxDisplaySentences caps how many continuation sentences a single
  // trial shows.
  MaxDisplaySentences = 9

  attentionCheckInstruction = " Please choose 'It's all human-written so far.' for every sentence in this example."
)

// Assignment is everything the annotate view needs for one trial.
type Assignment struct {
  Username         string
  PromptText       string
  TextID           uint
  Sentences        []string
  MaxSentences     int
  Boundary         int
  NumAnnotations   int64
  // PriorBoundary is the user's earlier answer in review mode, -1 when
  // this generation has not been annotated by the user yet.
  PriorBoundary    int
  AttentionCheck   bool
  PlaylistID       int
  FluencyReasons   []*types.FeedbackOption
  SubstanceReasons []*types.FeedbackOption
}

type AssignmentService interface {
  Next(ctx context.Context, userID uuid.UUID, playlistID int, qid int) (*Assignment, error)
}

type assignmentService struct {
  db             *gorm.DB
  log            *logger.Logger
  userRepo       repos.UserRepo
  profileRepo    repos.ProfileRepo
  generationRepo repos.GenerationRepo
  annotationRepo repos.AnnotationRepo
  feedbackRepo   repos.FeedbackOptionRepo
  goal           int
  checkRate      float64
  rngMu          sync.Mutex
  rng            *rand.Rand
}

// NewAssignmentService wires the selector. A nil rng gets a time-seeded
// source; tests inject a fixed seed to pin the attention-check coin.
func NewAssignmentService(
  db *gorm.DB,
  log *logger.Logger,
  userRepo repos.UserRepo,
  profileRepo repos.ProfileRepo,
  generationRepo repos.GenerationRepo,
  annotationRepo repos.AnnotationRepo,
  feedbackRepo repos.FeedbackOptionRepo,
  goal int,
  checkRate float64,
  rng *rand.Rand,
) AssignmentService {
  serviceLog := log.With("service", "AssignmentService")
  if goal <= 0 {
    goal = DefaultGoalNumAnnotations
  }
  if rng == nil {
    rng = rand.New(rand.NewSource(time.Now().UnixNano()))
  }
  return &assignmentService{
    db:             db,
    log:            serviceLog,
    userRepo:       userRepo,
    profileRepo:    profileRepo,
    generationRepo: generationRepo,
    annotationRepo: annotationRepo,
    feedbackRepo:   feedbackRepo,
    goal:           goal,
    checkRate:      checkRate,
    rng:            rng,
  }
}

// Next picks the generation to present. qid >= 0 bypasses selection and
// returns that generation directly (review mode, playlist cleared);
// otherwise the pick is uniform over partially-annotated unseen
// examples, falling back to all unseen examples when none are in range.
func (s *assignmentService) Next(ctx context.Context, userID uuid.UUID, playlistID int, qid int) (*Assignment, error) {
  var asg *Assignment
  err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    users, uErr := s.userRepo.GetByIDs(ctx, tx, []uuid.UUID{userID})
    if uErr != nil {
      return fmt.Errorf("Failed to load user: %w", uErr)
    }
    if len(users) == 0 {
      return ErrNotFound
    }
    user := users[0]

    var generation *types.Generation
    priorBoundary := -1

    if qid >= 0 {
      gen, gErr := s.generationRepo.GetByID(ctx, tx, uint(qid))
      if gErr != nil {
        return fmt.Errorf("Failed to load generation %d: %w", qid, gErr)
      }
      if gen == nil {
        return ErrNotFound
      }
      generation = gen
      playlistID = -1

      prior, pErr := s.annotationRepo.EarliestByUserAndGeneration(ctx, tx, userID, generation.ID)
      if pErr != nil {
        return fmt.Errorf("Failed to load prior annotation: %w", pErr)
      }
      if prior != nil {
        s.log.Debug("User revisiting an annotated example", "qid", qid, "user", user.Username)
        priorBoundary = prior.Boundary
      }
    } else {
      ids, aErr := s.generationRepo.AvailableIDs(ctx, tx, userID, s.goal, playlistID)
      if aErr != nil {
        return fmt.Errorf("Failed to compute available set: %w", aErr)
      }
      if len(ids) == 0 {
        s.log.Debug("No partially annotated examples in range, falling back to unseen set", "playlist", playlistID)
        ids, aErr = s.generationRepo.UnseenIDs(ctx, tx, userID, playlistID)
        if aErr != nil {
          return fmt.Errorf("Failed to compute unseen set: %w", aErr)
        }
      }
      if len(ids) == 0 {
        return ErrNoExamples
      }

      pick := ids[s.intn(len(ids))]
      gen, gErr := s.generationRepo.GetByID(ctx, tx, pick)
      if gErr != nil {
        return fmt.Errorf("Failed to load generation %d: %w", pick, gErr)
      }
      if gen == nil {
        return ErrNotFound
      }
      generation = gen
    }

    if generation.Prompt == nil {
      return fmt.Errorf("Generation %d has no prompt loaded", generation.ID)
    }

    promptSentences := types.SplitSentences(generation.Prompt.Body)
    generatedSentences := types.SplitSentences(generation.Body)
    if len(promptSentences) == 0 {
      return fmt.Errorf("Prompt %d has an empty body", generation.PromptID)
    }

    continuation := append([]string{}, promptSentences[1:]...)
    continuation = append(continuation, generatedSentences...)
    if len(continuation) > MaxDisplaySentences {
      continuation = continuation[:MaxDisplaySentences]
    }

    // Some corpora (recipes, most of all) carry meaningful newlines in
    // the first prompt sentence.
    promptText := strings.ReplaceAll(promptSentences[0], "\n", "<br/>")

    isTurker, tErr := s.profileRepo.IsTurker(ctx, tx, userID)
    if tErr != nil {
      return fmt.Errorf("Failed to load profile: %w", tErr)
    }

    attentionCheck := false
    if isTurker && generation.Boundary == len(generatedSentences) {
      if s.coin() {
        promptText += attentionCheckInstruction
        attentionCheck = true
      }
    }

    numAnnotations, cErr := s.annotationRepo.CountByUser(ctx, tx, userID, true)
    if cErr != nil {
      return fmt.Errorf("Failed to count user annotations: %w", cErr)
    }

    fluencyReasons, frErr := s.feedbackRepo.ListDefaultsByCategory(ctx, tx, "fluency")
    if frErr != nil {
      return fmt.Errorf("Failed to list fluency reasons: %w", frErr)
    }
    substanceReasons, srErr := s.feedbackRepo.ListDefaultsByCategory(ctx, tx, "substance")
    if srErr != nil {
      return fmt.Errorf("Failed to list substance reasons: %w", srErr)
    }

    asg = &Assignment{
      Username:         user.Username,
      PromptText:       promptText,
      TextID:           generation.ID,
      Sentences:        continuation,
      MaxSentences:     len(continuation),
      Boundary:         generation.Boundary,
      NumAnnotations:   numAnnotations,
      PriorBoundary:    priorBoundary,
      AttentionCheck:   attentionCheck,
      PlaylistID:       playlistID,
      FluencyReasons:   fluencyReasons,
      SubstanceReasons: substanceReasons,
    }
    return nil
  })
  if err != nil {
    return nil, err
  }
  return asg, nil
}

func (s *assignmentService) intn(n int) int {
  s.rngMu.Lock()
  defer s.rngMu.Unlock()
  return s.rng.Intn(n)
}

func (s *assignmentService) coin() bool {
  s.rngMu.Lock()
  defer s.rngMu.Unlock()
  return s.rng.Float64() < s.checkRate
}
