package main

import (
  "fmt"
  "os"
  "time"
  "github.com/yungbote/roft-backend/internal/db"
  "github.com/yungbote/roft-backend/internal/handlers"
  "github.com/yungbote/roft-backend/internal/logger"
  "github.com/yungbote/roft-backend/internal/middleware"
  "github.com/yungbote/roft-backend/internal/repos"
  "github.com/yungbote/roft-backend/internal/server"
  "github.com/yungbote/roft-backend/internal/services"
  "github.com/yungbote/roft-backend/internal/utils"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Env
  log.Info("Loading environment variables from main...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
  refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
  goalNumAnnotations := utils.GetEnvAsInt("GOAL_NUM_ANNOTATIONS", services.DefaultGoalNumAnnotations, log)
  attentionCheckRate := utils.GetEnvAsFloat("ATTENTION_CHECK_RATE", services.DefaultAttentionCheckRate, log)
  batchSize := utils.GetEnvAsInt("BATCH_SIZE", services.DefaultBatchSize, log)

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  userRepo := repos.NewUserRepo(thePG, log)
  userTokenRepo := repos.NewUserTokenRepo(thePG, log)
  profileRepo := repos.NewProfileRepo(thePG, log)
  generationRepo := repos.NewGenerationRepo(thePG, log)
  annotationRepo := repos.NewAnnotationRepo(thePG, log)
  playlistRepo := repos.NewPlaylistRepo(thePG, log)
  feedbackRepo := repos.NewFeedbackOptionRepo(thePG, log)

  // Services
  log.Info("Setting up Services from main...")
  progressService, err := services.NewProgressService(log, batchSize)
  if err != nil {
    log.Error("Could not init ProgressService", "error", err)
    os.Exit(1)
  }
  authService := services.NewAuthService(thePG, log, userRepo, profileRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
  assignmentService := services.NewAssignmentService(thePG, log, userRepo, profileRepo, generationRepo, annotationRepo, feedbackRepo, goalNumAnnotations, attentionCheckRate, nil)
  annotationService := services.NewAnnotationService(thePG, log, annotationRepo, generationRepo, feedbackRepo, progressService, goalNumAnnotations)
  statsService := services.NewStatsService(thePG, log, userRepo, profileRepo, annotationRepo)
  playlistService := services.NewPlaylistService(thePG, log, playlistRepo)

  // Handlers
  log.Info("Setting up handlers from main...")
  authHandler := handlers.NewAuthHandler(log, authService)
  pageHandler := handlers.NewPageHandler(log, playlistService)
  statsHandler := handlers.NewStatsHandler(log, statsService)
  annotateHandler := handlers.NewAnnotateHandler(log, assignmentService, annotationService, progressService)

  // Middleware
  log.Info("Setting up middleware from main...")
  authMiddleware := middleware.NewAuthMiddleware(log, authService)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    AuthHandler:     authHandler,
    AuthMiddleware:  authMiddleware,
    PageHandler:     pageHandler,
    StatsHandler:    statsHandler,
    AnnotateHandler: annotateHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Error("Server failed", "error", err)
  }
}
