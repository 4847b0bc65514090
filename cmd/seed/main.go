package main

import (
  "context"
  "flag"
  "fmt"
  "os"
  "gorm.io/gorm"
  "github.com/yungbote/roft-backend/internal/db"
  "github.com/yungbote/roft-backend/internal/logger"
  "github.com/yungbote/roft-backend/internal/repos"
  "github.com/yungbote/roft-backend/internal/services"
)

// Loads a YAML corpus (prompts, generations, playlists, default
// feedback options) into the database. Reruns skip rows that already
// exist, so the seed file can grow over time.
func main() {
  var corpusPath string
  var sqlitePath string
  flag.StringVar(&corpusPath, "file", "corpus.yaml", "path to the corpus YAML file")
  flag.StringVar(&sqlitePath, "sqlite", "", "seed a sqlite database at this path instead of Postgres")
  flag.Parse()

  log, err := logger.New(os.Getenv("LOG_MODE"))
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  var gormDB *gorm.DB
  if sqlitePath != "" {
    gormDB, err = db.OpenSQLite(sqlitePath)
    if err != nil {
      log.Error("Sqlite init failed", "error", err)
      os.Exit(1)
    }
  } else {
    postgresService, pErr := db.NewPostgresService(log)
    if pErr != nil {
      log.Error("Postgres init failed", "error", pErr)
      os.Exit(1)
    }
    if mErr := postgresService.AutoMigrateAll(); mErr != nil {
      log.Error("Postgres auto migration failed", "error", mErr)
      os.Exit(1)
    }
    gormDB = postgresService.DB()
  }

  promptRepo := repos.NewPromptRepo(gormDB, log)
  generationRepo := repos.NewGenerationRepo(gormDB, log)
  playlistRepo := repos.NewPlaylistRepo(gormDB, log)
  feedbackRepo := repos.NewFeedbackOptionRepo(gormDB, log)
  corpusService := services.NewCorpusService(gormDB, log, promptRepo, generationRepo, playlistRepo, feedbackRepo)

  summary, err := corpusService.LoadFile(context.Background(), corpusPath)
  if err != nil {
    log.Error("Corpus load failed", "file", corpusPath, "error", err)
    os.Exit(1)
  }
  fmt.Printf("Seeded %d prompts, %d generations, %d playlists, %d feedback options\n",
    summary.Prompts, summary.Generations, summary.Playlists, summary.FeedbackOptions)
}
