package middleware

import (
  "net/http"
  "strings"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/yungbote/roft-backend/internal/logger"
  "github.com/yungbote/roft-backend/internal/requestdata"
  "github.com/yungbote/roft-backend/internal/services"
  "github.com/yungbote/roft-backend/internal/utils"
)

type AuthMiddleware struct {
  log         *logger.Logger
  authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
  middlewareLogger := log.With("Middleware", "AuthMiddleware")
  return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

// Identify resolves the session token if one is present but never
// rejects the request. Pages like /join use it to notice an already
// authenticated visitor.
func (am *AuthMiddleware) Identify() gin.HandlerFunc {
  return func(c *gin.Context) {
    am.identify(c)
    c.Next()
  }
}

// RequireAuth aborts with 401 JSON when no valid session exists. Used
// on the API-style endpoints.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
  return func(c *gin.Context) {
    rd := am.identify(c)
    if rd == nil || rd.UserID == uuid.Nil {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
      return
    }
    c.Next()
  }
}

// RequirePage redirects unauthenticated visitors to the landing page,
// matching the page flow of the game.
func (am *AuthMiddleware) RequirePage() gin.HandlerFunc {
  return func(c *gin.Context) {
    rd := am.identify(c)
    if rd == nil || rd.UserID == uuid.Nil {
      c.Redirect(http.StatusFound, "/")
      c.Abort()
      return
    }
    c.Next()
  }
}

func (am *AuthMiddleware) identify(c *gin.Context) *requestdata.RequestData {
  tokenString := extractToken(c)
  if tokenString == "" {
    return nil
  }
  ctx, err := am.authService.ContextFromToken(c.Request.Context(), tokenString)
  if err != nil {
    am.log.Debug("Token rejected", "error", err)
    return nil
  }
  c.Request = c.Request.WithContext(ctx)
  return requestdata.GetRequestData(ctx)
}

func extractToken(c *gin.Context) string {
  if cookie, err := c.Cookie(utils.SessionCookieName); err == nil && cookie != "" {
    return cookie
  }
  if qToken := c.Query("token"); qToken != "" {
    return qToken
  }
  authHeader := c.GetHeader("Authorization")
  if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
    return authHeader[7:]
  }
  return ""
}
