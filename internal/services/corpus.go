package services

import (
  "context"
  "fmt"
  "os"
  "gopkg.in/yaml.v3"
  "gorm.io/gorm"
  "github.com/yungbote/roft-backend/internal/logger"
  "github.com/yungbote/roft-backend/internal/repos"
  "github.com/yungbote/roft-backend/internal/types"
)

// CorpusSummary reports what a seed run inserted. Rows already present
// (matched by natural key) are skipped, so reruns are harmless.
type CorpusSummary struct {
  Prompts         int
  Generations     int
  Playlists       int
  FeedbackOptions int
}

type CorpusService interface {
  LoadFile(ctx context.Context, path string) (*CorpusSummary, error)
}

type corpusService struct {
  db           *gorm.DB
  log          *logger.Logger
  promptRepo   repos.PromptRepo
  generationRepo repos.GenerationRepo
  playlistRepo repos.PlaylistRepo
  feedbackRepo repos.FeedbackOptionRepo
}

func NewCorpusService(
  db *gorm.DB,
  log *logger.Logger,
  promptRepo repos.PromptRepo,
  generationRepo repos.GenerationRepo,
  playlistRepo repos.PlaylistRepo,
  feedbackRepo repos.FeedbackOptionRepo,
) CorpusService {
  serviceLog := log.With("service", "CorpusService")
  return &corpusService{
    db:             db,
    log:            serviceLog,
    promptRepo:     promptRepo,
    generationRepo: generationRepo,
    playlistRepo:   playlistRepo,
    feedbackRepo:   feedbackRepo,
  }
}

type corpusFile struct {
  Prompts         []corpusPrompt         `yaml:"prompts"`
  Generations     []corpusGeneration     `yaml:"generations"`
  Playlists       []corpusPlaylist       `yaml:"playlists"`
  FeedbackOptions []corpusFeedbackOption `yaml:"feedback_options"`
}

type corpusPrompt struct {
  ID        uint     `yaml:"id"`
  Sentences []string `yaml:"sentences"`
}

type corpusGeneration struct {
  ID        uint     `yaml:"id"`
  Prompt    uint     `yaml:"prompt"`
  Sentences []string `yaml:"sentences"`
  Boundary  int      `yaml:"boundary"`
}

type corpusPlaylist struct {
  Name        string `yaml:"name"`
  Description string `yaml:"description"`
  Details     string `yaml:"details"`
  Generations []uint `yaml:"generations"`
}

type corpusFeedbackOption struct {
  Shortname   string `yaml:"shortname"`
  Category    string `yaml:"category"`
  Description string `yaml:"description"`
}

func (s *corpusService) LoadFile(ctx context.Context, path string) (*CorpusSummary, error) {
  raw, err := os.ReadFile(path)
  if err != nil {
    return nil, fmt.Errorf("Failed to read corpus file: %w", err)
  }
  var file corpusFile
  if err := yaml.Unmarshal(raw, &file); err != nil {
    return nil, fmt.Errorf("Failed to parse corpus file: %w", err)
  }

  summary := &CorpusSummary{}
  err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    for _, p := range file.Prompts {
      exists, eErr := s.promptRepo.IDExists(ctx, tx, p.ID)
      if eErr != nil {
        return fmt.Errorf("Failed to check prompt %d: %w", p.ID, eErr)
      }
      if exists {
        continue
      }
      prompt := &types.Prompt{
        ID:           p.ID,
        Body:         types.JoinSentences(p.Sentences),
        NumSentences: len(p.Sentences),
      }
      if _, cErr := s.promptRepo.Create(ctx, tx, []*types.Prompt{prompt}); cErr != nil {
        return fmt.Errorf("Failed to create prompt %d: %w", p.ID, cErr)
      }
      summary.Prompts++
    }

    for _, g := range file.Generations {
      exists, eErr := s.generationRepo.IDExists(ctx, tx, g.ID)
      if eErr != nil {
        return fmt.Errorf("Failed to check generation %d: %w", g.ID, eErr)
      }
      if exists {
        continue
      }
      generation := &types.Generation{
        ID:       g.ID,
        PromptID: g.Prompt,
        Body:     types.JoinSentences(g.Sentences),
        Boundary: g.Boundary,
      }
      if _, cErr := s.generationRepo.Create(ctx, tx, []*types.Generation{generation}); cErr != nil {
        return fmt.Errorf("Failed to create generation %d: %w", g.ID, cErr)
      }
      summary.Generations++
    }

    for _, pl := range file.Playlists {
      existing, gErr := s.playlistRepo.GetByNames(ctx, tx, []string{pl.Name})
      if gErr != nil {
        return fmt.Errorf("Failed to check playlist %q: %w", pl.Name, gErr)
      }
      if len(existing) > 0 {
        continue
      }
      playlist := &types.Playlist{
        Name:        pl.Name,
        Description: pl.Description,
        Details:     pl.Details,
      }
      if _, cErr := s.playlistRepo.Create(ctx, tx, []*types.Playlist{playlist}); cErr != nil {
        return fmt.Errorf("Failed to create playlist %q: %w", pl.Name, cErr)
      }
      members := make([]*types.Generation, 0, len(pl.Generations))
      for _, genID := range pl.Generations {
        members = append(members, &types.Generation{ID: genID})
      }
      if aErr := s.playlistRepo.AddGenerations(ctx, tx, playlist, members); aErr != nil {
        return fmt.Errorf("Failed to fill playlist %q: %w", pl.Name, aErr)
      }
      summary.Playlists++
    }

    for _, fo := range file.FeedbackOptions {
      existing, gErr := s.feedbackRepo.GetByShortname(ctx, tx, fo.Shortname)
      if gErr != nil {
        return fmt.Errorf("Failed to check feedback option %q: %w", fo.Shortname, gErr)
      }
      if existing != nil {
        continue
      }
      option := &types.FeedbackOption{
        Shortname:   fo.Shortname,
        Category:    fo.Category,
        Description: fo.Description,
        IsDefault:   true,
      }
      if _, cErr := s.feedbackRepo.Create(ctx, tx, []*types.FeedbackOption{option}); cErr != nil {
        return fmt.Errorf("Failed to create feedback option %q: %w", fo.Shortname, cErr)
      }
      summary.FeedbackOptions++
    }
    return nil
  })
  if err != nil {
    return nil, err
  }

  s.log.Info("Corpus load complete",
    "prompts", summary.Prompts,
    "generations", summary.Generations,
    "playlists", summary.Playlists,
    "feedback_options", summary.FeedbackOptions)
  return summary, nil
}
