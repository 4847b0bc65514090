package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"
  "github.com/yungbote/roft-backend/internal/handlers"
  "github.com/yungbote/roft-backend/internal/middleware"
)

type RouterConfig struct {
  AuthHandler     *handlers.AuthHandler
  AuthMiddleware  *middleware.AuthMiddleware
  PageHandler     *handlers.PageHandler
  StatsHandler    *handlers.StatsHandler
  AnnotateHandler *handlers.AnnotateHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5174",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", handlers.HealthCheck)
  router.GET("/", cfg.PageHandler.Splash)
  router.GET("/join", cfg.AuthMiddleware.Identify(), cfg.PageHandler.Join)
  router.GET("/login", cfg.AuthHandler.LoginForm)
  router.POST("/login", cfg.AuthHandler.Login)
  router.POST("/signup", cfg.AuthHandler.Signup)
  router.GET("/logout", cfg.AuthHandler.Logout)
  router.GET("/leaderboard", cfg.StatsHandler.Leaderboard)

// ===============
// || Pages     ||
// ===============
  pages := router.Group("/")
  pages.Use(cfg.AuthMiddleware.RequirePage())
  pages.GET("/onboard", cfg.PageHandler.Onboard)
  pages.GET("/play", cfg.PageHandler.Play)
  pages.GET("/profile/:username", cfg.StatsHandler.Profile)
  pages.GET("/annotate", cfg.AnnotateHandler.Annotate)

// ===============
// || API       ||
// ===============
  api := router.Group("/")
  api.Use(cfg.AuthMiddleware.RequireAuth())
  api.POST("/save", cfg.AnnotateHandler.Save)

  return router
}
