package services

import (
  "context"
  "fmt"
  "time"
  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/yungbote/roft-backend/internal/logger"
  "github.com/yungbote/roft-backend/internal/normalization"
  "github.com/yungbote/roft-backend/internal/repos"
  "github.com/yungbote/roft-backend/internal/requestdata"
  "github.com/yungbote/roft-backend/internal/types"
  "github.com/yungbote/roft-backend/internal/utils"
)

type JWTClaims struct {
  jwt.RegisteredClaims
}

type AuthService interface {
  Register(ctx context.Context, username, password, source string) (*types.User, error)
  Login(ctx context.Context, username, password string) (string, string, error)
  Logout(ctx context.Context, accessToken string) error
  ContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
  AccessTTL() time.Duration
}

type authService struct {
  db             *gorm.DB
  log            *logger.Logger
  userRepo       repos.UserRepo
  profileRepo    repos.ProfileRepo
  userTokenRepo  repos.UserTokenRepo
  jwtSecretKey   string
  accessTTL      time.Duration
  refreshTTL     time.Duration
}

func NewAuthService(
  db *gorm.DB,
  log *logger.Logger,
  userRepo repos.UserRepo,
  profileRepo repos.ProfileRepo,
  userTokenRepo repos.UserTokenRepo,
  jwtSecretKey string,
  accessTTL time.Duration,
  refreshTTL time.Duration,
) AuthService {
  serviceLog := log.With("service", "AuthService")
  return &authService{
    db:            db,
    log:           serviceLog,
    userRepo:      userRepo,
    profileRepo:   profileRepo,
    userTokenRepo: userTokenRepo,
    jwtSecretKey:  jwtSecretKey,
    accessTTL:     accessTTL,
    refreshTTL:    refreshTTL,
  }
}

// Register creates the user and its Profile in one transaction. New
// users are never turkers; the source tag comes from the sign-up form.
func (as *authService) Register(ctx context.Context, username, password, source string) (*types.User, error) {
  username = normalization.ParseInputString(username)
  if vErr := utils.ValidateCredentials(ctx, username, password); vErr != nil {
    return nil, vErr
  }

  exists, err := as.userRepo.UsernameExists(ctx, nil, username)
  if err != nil {
    return nil, fmt.Errorf("Failed to check username: %w", err)
  }
  if exists {
    return nil, ErrUsernameTaken
  }

  user := &types.User{
    ID:       uuid.New(),
    Username: username,
    Password: password,
  }
  if hErr := utils.HashPassword(ctx, as.log, user); hErr != nil {
    return nil, hErr
  }

  err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if _, ucErr := as.userRepo.Create(ctx, tx, []*types.User{user}); ucErr != nil {
      return fmt.Errorf("Failed to create user: %w", ucErr)
    }
    profile := &types.Profile{
      ID:       uuid.New(),
      UserID:   user.ID,
      IsTurker: false,
      Source:   source,
    }
    if _, pcErr := as.profileRepo.Create(ctx, tx, []*types.Profile{profile}); pcErr != nil {
      return fmt.Errorf("Failed to create profile: %w", pcErr)
    }
    return nil
  })
  if err != nil {
    return nil, err
  }
  return user, nil
}

func (as *authService) Login(ctx context.Context, username, password string) (string, string, error) {
  username = normalization.ParseInputString(username)
  if vErr := utils.ValidateCredentials(ctx, username, password); vErr != nil {
    return "", "", vErr
  }

  users, usErr := as.userRepo.GetByUsernames(ctx, nil, []string{username})
  if usErr != nil {
    return "", "", fmt.Errorf("Error retrieving user by username: %w", usErr)
  }
  if len(users) == 0 {
    return "", "", ErrInvalidCredentials
  }

  user := users[0]
  if hErr := utils.CheckPassword(user.Password, password); hErr != nil {
    return "", "", ErrInvalidCredentials
  }

  var accessToken string
  var refreshToken string
  if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if dtErr := as.userTokenRepo.DeleteExpiredByUserID(ctx, tx, user.ID, time.Now()); dtErr != nil {
      return fmt.Errorf("Failed to delete expired user tokens: %w", dtErr)
    }
    tok, genErr := as.generateAccessToken(user)
    if genErr != nil {
      return fmt.Errorf("Generate access token error: %w", genErr)
    }
    accessToken = tok
    refreshToken = uuid.New().String()
    userToken := types.UserToken{
      ID:           uuid.New(),
      UserID:       user.ID,
      AccessToken:  accessToken,
      RefreshToken: refreshToken,
      ExpiresAt:    time.Now().Add(as.refreshTTL),
    }
    if _, ctErr := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{&userToken}); ctErr != nil {
      as.log.Warn("Create user token error", "error", ctErr)
      return fmt.Errorf("Create user token error: %w", ctErr)
    }
    return nil
  }); err != nil {
    return "", "", err
  }
  return accessToken, refreshToken, nil
}

func (as *authService) Logout(ctx context.Context, accessToken string) error {
  if accessToken == "" {
    return nil
  }
  return as.userTokenRepo.DeleteByAccessTokens(ctx, nil, []string{accessToken})
}

// ContextFromToken validates the JWT and its persisted token row, then
// stashes the caller's identity in the context for downstream handlers.
func (as *authService) ContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
  if tokenString == "" {
    return ctx, fmt.Errorf("Empty token")
  }
  parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
    return []byte(as.jwtSecretKey), nil
  })
  if err != nil {
    return ctx, fmt.Errorf("Failed to parse token: %w", err)
  }
  claims, ok := parsedToken.Claims.(*JWTClaims)
  if !ok || !parsedToken.Valid {
    return ctx, fmt.Errorf("Invalid or expired JWT token")
  }
  userID, err := uuid.Parse(claims.Subject)
  if err != nil {
    return ctx, fmt.Errorf("Invalid user id in token: %w", err)
  }

  foundTokens, ftErr := as.userTokenRepo.GetByAccessTokens(ctx, nil, []string{tokenString})
  if ftErr != nil {
    return ctx, fmt.Errorf("Failed to fetch user token: %w", ftErr)
  }
  if len(foundTokens) == 0 {
    return ctx, fmt.Errorf("Session has been revoked")
  }

  users, uErr := as.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
  if uErr != nil {
    return ctx, fmt.Errorf("Failed to load user: %w", uErr)
  }
  if len(users) == 0 {
    return ctx, fmt.Errorf("No user for token")
  }

  rd := &requestdata.RequestData{
    TokenString: tokenString,
    Username:    users[0].Username,
    UserID:      userID,
  }
  return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
  claims := JWTClaims{
    RegisteredClaims: jwt.RegisteredClaims{
      Subject:   user.ID.String(),
      ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
      IssuedAt:  jwt.NewNumericDate(time.Now()),
    },
  }
  token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
  return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) AccessTTL() time.Duration {
  return as.accessTTL
}
