package handlers

import (
  "errors"
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/yungbote/roft-backend/internal/logger"
  "github.com/yungbote/roft-backend/internal/services"
  "github.com/yungbote/roft-backend/internal/utils"
)

type AuthHandler struct {
  log         *logger.Logger
  authService services.AuthService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService) *AuthHandler {
  return &AuthHandler{log: log.With("handler", "AuthHandler"), authService: authService}
}

// LoginForm serves GET /login: the sign-in form lives on the join page.
func (ah *AuthHandler) LoginForm(c *gin.Context) {
  c.JSON(http.StatusOK, gin.H{"page": "join"})
}

func (ah *AuthHandler) Login(c *gin.Context) {
  username := c.PostForm("username")
  password := c.PostForm("password")

  accessToken, _, err := ah.authService.Login(c.Request.Context(), username, password)
  if err != nil {
    ah.log.Debug("Login failed", "username", username, "error", err)
    c.Redirect(http.StatusFound, "/join?login_error=True")
    return
  }
  ah.setSessionCookie(c, accessToken)
  c.Redirect(http.StatusFound, "/onboard")
}

func (ah *AuthHandler) Signup(c *gin.Context) {
  username := c.PostForm("username")
  password := c.PostForm("password")
  userSource := c.PostForm("user_source")

  _, err := ah.authService.Register(c.Request.Context(), username, password, userSource)
  if err != nil {
    if errors.Is(err, services.ErrUsernameTaken) {
      c.Redirect(http.StatusFound, "/join?signup_error=True")
      return
    }
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }

  accessToken, _, err := ah.authService.Login(c.Request.Context(), username, password)
  if err != nil {
    ah.log.Error("Post-signup login failed", "username", username, "error", err)
    c.Redirect(http.StatusFound, "/join?login_error=True")
    return
  }
  ah.setSessionCookie(c, accessToken)
  c.Redirect(http.StatusFound, "/onboard")
}

func (ah *AuthHandler) Logout(c *gin.Context) {
  if cookie, err := c.Cookie(utils.SessionCookieName); err == nil && cookie != "" {
    if lErr := ah.authService.Logout(c.Request.Context(), cookie); lErr != nil {
      ah.log.Warn("Failed to revoke session", "error", lErr)
    }
  }
  c.SetCookie(utils.SessionCookieName, "", -1, "/", "", false, true)
  c.Redirect(http.StatusFound, "/")
}

func (ah *AuthHandler) setSessionCookie(c *gin.Context, accessToken string) {
  maxAge := int(ah.authService.AccessTTL().Seconds())
  c.SetCookie(utils.SessionCookieName, accessToken, maxAge, "/", "", false, true)
}
