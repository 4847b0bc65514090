package services

import (
  "strings"
  "testing"

  "github.com/google/uuid"
  "go.uber.org/zap"
  "gorm.io/gorm"

  "github.com/yungbote/roft-backend/internal/db"
  "github.com/yungbote/roft-backend/internal/logger"
  "github.com/yungbote/roft-backend/internal/types"
)

func newTestLogger() *logger.Logger {
  return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// newTestDB opens a named in-memory sqlite database so every
// connection in gorm's pool sees the same data.
func newTestDB(t *testing.T) *gorm.DB {
  t.Helper()
  name := strings.ReplaceAll(t.Name(), "/", "_")
  gormDB, err := db.OpenSQLite("file:" + name + "?mode=memory&cache=shared")
  if err != nil {
    t.Fatalf("open sqlite: %v", err)
  }
  return gormDB
}

func createUser(t *testing.T, gormDB *gorm.DB, username string) *types.User {
  t.Helper()
  user := &types.User{ID: uuid.New(), Username: username, Password: "x"}
  if err := gormDB.Create(user).Error; err != nil {
    t.Fatalf("create user %s: %v", username, err)
  }
  return user
}

func createTurker(t *testing.T, gormDB *gorm.DB, username string) *types.User {
  t.Helper()
  user := createUser(t, gormDB, username)
  profile := &types.Profile{ID: uuid.New(), UserID: user.ID, IsTurker: true, Source: "mturk"}
  if err := gormDB.Create(profile).Error; err != nil {
    t.Fatalf("create profile for %s: %v", username, err)
  }
  return user
}

func createPrompt(t *testing.T, gormDB *gorm.DB, id uint, sentences ...string) *types.Prompt {
  t.Helper()
  prompt := &types.Prompt{
    ID:           id,
    Body:         types.JoinSentences(sentences),
    NumSentences: len(sentences),
  }
  if err := gormDB.Create(prompt).Error; err != nil {
    t.Fatalf("create prompt %d: %v", id, err)
  }
  return prompt
}

func createGeneration(t *testing.T, gormDB *gorm.DB, id uint, promptID uint, boundary int, sentences ...string) *types.Generation {
  t.Helper()
  generation := &types.Generation{
    ID:       id,
    PromptID: promptID,
    Body:     types.JoinSentences(sentences),
    Boundary: boundary,
  }
  if err := gormDB.Create(generation).Error; err != nil {
    t.Fatalf("create generation %d: %v", id, err)
  }
  return generation
}

func createAnnotation(t *testing.T, gormDB *gorm.DB, userID uuid.UUID, generationID uint, boundary, points int, attentionCheck bool) *types.Annotation {
  t.Helper()
  annotation := &types.Annotation{
    UserID:         userID,
    GenerationID:   generationID,
    Boundary:       boundary,
    Points:         points,
    AttentionCheck: attentionCheck,
  }
  if err := gormDB.Create(annotation).Error; err != nil {
    t.Fatalf("create annotation: %v", err)
  }
  return annotation
}

func createDefaultOption(t *testing.T, gormDB *gorm.DB, shortname, category string) *types.FeedbackOption {
  t.Helper()
  option := &types.FeedbackOption{
    Shortname:   shortname,
    Category:    category,
    Description: shortname,
    IsDefault:   true,
  }
  if err := gormDB.Create(option).Error; err != nil {
    t.Fatalf("create feedback option %s: %v", shortname, err)
  }
  return option
}

func createPlaylist(t *testing.T, gormDB *gorm.DB, name string, generations ...*types.Generation) *types.Playlist {
  t.Helper()
  playlist := &types.Playlist{Name: name, Description: "d", Details: "d"}
  if err := gormDB.Create(playlist).Error; err != nil {
    t.Fatalf("create playlist %s: %v", name, err)
  }
  if len(generations) > 0 {
    if err := gormDB.Model(playlist).Association("Generations").Append(generations); err != nil {
      t.Fatalf("fill playlist %s: %v", name, err)
    }
  }
  return playlist
}
