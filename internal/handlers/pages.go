package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/yungbote/roft-backend/internal/logger"
  "github.com/yungbote/roft-backend/internal/requestdata"
  "github.com/yungbote/roft-backend/internal/services"
)

type PageHandler struct {
  log             *logger.Logger
  playlistService services.PlaylistService
}

func NewPageHandler(log *logger.Logger, playlistService services.PlaylistService) *PageHandler {
  return &PageHandler{log: log.With("handler", "PageHandler"), playlistService: playlistService}
}

func (ph *PageHandler) Splash(c *gin.Context) {
  c.JSON(http.StatusOK, gin.H{"page": "splash"})
}

func (ph *PageHandler) Onboard(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  c.JSON(http.StatusOK, gin.H{"page": "onboard", "name": rd.Username})
}

// Join bounces authenticated visitors straight to /play; otherwise it
// echoes the error flags the auth redirects set.
func (ph *PageHandler) Join(c *gin.Context) {
  if rd := requestdata.GetRequestData(c.Request.Context()); rd != nil {
    c.Redirect(http.StatusFound, "/play")
    return
  }
  c.JSON(http.StatusOK, gin.H{
    "page":         "join",
    "login_error":  c.Query("login_error"),
    "signup_error": c.Query("signup_error"),
  })
}

func (ph *PageHandler) Play(c *gin.Context) {
  page, err := ph.playlistService.List(c.Request.Context())
  if err != nil {
    ph.log.Error("Failed to build play page", "error", err)
    c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
    return
  }
  c.JSON(http.StatusOK, gin.H{
    "page":      "play",
    "playlists": page.Playlists,
    "total":     page.Total,
  })
}
