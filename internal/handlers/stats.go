package handlers

import (
  "errors"
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/yungbote/roft-backend/internal/logger"
  "github.com/yungbote/roft-backend/internal/services"
)

type StatsHandler struct {
  log          *logger.Logger
  statsService services.StatsService
}

func NewStatsHandler(log *logger.Logger, statsService services.StatsService) *StatsHandler {
  return &StatsHandler{log: log.With("handler", "StatsHandler"), statsService: statsService}
}

func (sh *StatsHandler) Leaderboard(c *gin.Context) {
  rows, err := sh.statsService.Leaderboard(c.Request.Context())
  if err != nil {
    sh.log.Error("Failed to compute leaderboard", "error", err)
    c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
    return
  }
  c.JSON(http.StatusOK, gin.H{"sorted_usernames": rows})
}

func (sh *StatsHandler) Profile(c *gin.Context) {
  username := c.Param("username")
  stats, err := sh.statsService.Profile(c.Request.Context(), username)
  if err != nil {
    if errors.Is(err, services.ErrNotFound) {
      c.JSON(http.StatusNotFound, gin.H{"error": "no such user"})
      return
    }
    sh.log.Error("Failed to compute profile stats", "username", username, "error", err)
    c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
    return
  }
  c.JSON(http.StatusOK, stats)
}
