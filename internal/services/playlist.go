package services

import (
  "bytes"
  "context"
  "fmt"
  "github.com/yuin/goldmark"
  "gorm.io/gorm"
  "github.com/yungbote/roft-backend/internal/logger"
  "github.com/yungbote/roft-backend/internal/repos"
)

// PlaylistView is one playlist with its markdown fields rendered to HTML.
type PlaylistView struct {
  ID              uint   `json:"id"`
  Name            string `json:"name"`
  Description     string `json:"description"`
  Details         string `json:"details"`
  NumGenerations  int    `json:"num_generations"`
}

// PlaylistPage is the full play-page payload.
type PlaylistPage struct {
  Playlists []PlaylistView `json:"playlists"`
  Total     int            `json:"total"`
}

type PlaylistService interface {
  List(ctx context.Context) (*PlaylistPage, error)
}

type playlistService struct {
  db           *gorm.DB
  log          *logger.Logger
  playlistRepo repos.PlaylistRepo
  markdown     goldmark.Markdown
}

func NewPlaylistService(db *gorm.DB, log *logger.Logger, playlistRepo repos.PlaylistRepo) PlaylistService {
  serviceLog := log.With("service", "PlaylistService")
  return &playlistService{
    db:           db,
    log:          serviceLog,
    playlistRepo: playlistRepo,
    markdown:     goldmark.New(),
  }
}

func (s *playlistService) List(ctx context.Context) (*PlaylistPage, error) {
  playlists, err := s.playlistRepo.ListAll(ctx, nil)
  if err != nil {
    return nil, fmt.Errorf("Failed to list playlists: %w", err)
  }

  page := &PlaylistPage{Playlists: make([]PlaylistView, 0, len(playlists))}
  for _, playlist := range playlists {
    description, dErr := s.render(playlist.Description)
    if dErr != nil {
      return nil, dErr
    }
    details, dtErr := s.render(playlist.Details)
    if dtErr != nil {
      return nil, dtErr
    }
    page.Playlists = append(page.Playlists, PlaylistView{
      ID:             playlist.ID,
      Name:           playlist.Name,
      Description:    description,
      Details:        details,
      NumGenerations: len(playlist.Generations),
    })
    page.Total += len(playlist.Generations)
  }
  return page, nil
}

func (s *playlistService) render(src string) (string, error) {
  if src == "" {
    return "", nil
  }
  var buf bytes.Buffer
  if err := s.markdown.Convert([]byte(src), &buf); err != nil {
    return "", fmt.Errorf("Failed to render markdown: %w", err)
  }
  return buf.String(), nil
}
