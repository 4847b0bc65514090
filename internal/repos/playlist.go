package repos

import (
  "context"
  "errors"
  "gorm.io/gorm"
  "github.com/yungbote/roft-backend/internal/logger"
  "github.com/yungbote/roft-backend/internal/types"
)

type PlaylistRepo interface {
  Create(ctx context.Context, tx *gorm.DB, playlists []*types.Playlist) ([]*types.Playlist, error)
  ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Playlist, error)
  GetByID(ctx context.Context, tx *gorm.DB, playlistID uint) (*types.Playlist, error)
  GetByNames(ctx context.Context, tx *gorm.DB, names []string) ([]*types.Playlist, error)
  AddGenerations(ctx context.Context, tx *gorm.DB, playlist *types.Playlist, generations []*types.Generation) error
}

type playlistRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPlaylistRepo(db *gorm.DB, baseLog *logger.Logger) PlaylistRepo {
  repoLog := baseLog.With("repo", "PlaylistRepo")
  return &playlistRepo{db: db, log: repoLog}
}

func (plr *playlistRepo) Create(ctx context.Context, tx *gorm.DB, playlists []*types.Playlist) ([]*types.Playlist, error) {
  transaction := tx
  if transaction == nil {
    transaction = plr.db
  }

  if len(playlists) == 0 {
    return []*types.Playlist{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&playlists).Error; err != nil {
    return nil, err
  }
  return playlists, nil
}

func (plr *playlistRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Playlist, error) {
  transaction := tx
  if transaction == nil {
    transaction = plr.db
  }

  var results []*types.Playlist
  if err := transaction.WithContext(ctx).
    Preload("Generations").
    Order("id ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (plr *playlistRepo) GetByID(ctx context.Context, tx *gorm.DB, playlistID uint) (*types.Playlist, error) {
  transaction := tx
  if transaction == nil {
    transaction = plr.db
  }

  var result types.Playlist
  err := transaction.WithContext(ctx).
    Where("id = ?", playlistID).
    First(&result).Error
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (plr *playlistRepo) GetByNames(ctx context.Context, tx *gorm.DB, names []string) ([]*types.Playlist, error) {
  transaction := tx
  if transaction == nil {
    transaction = plr.db
  }

  var results []*types.Playlist
  if len(names) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("name IN ?", names).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (plr *playlistRepo) AddGenerations(ctx context.Context, tx *gorm.DB, playlist *types.Playlist, generations []*types.Generation) error {
  transaction := tx
  if transaction == nil {
    transaction = plr.db
  }

  if len(generations) == 0 {
    return nil
  }

  return transaction.WithContext(ctx).
    Model(playlist).
    Association("Generations").
    Append(generations)
}
