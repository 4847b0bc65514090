package services

import (
  "context"
  "errors"
  "testing"
  "time"

  "gorm.io/gorm"

  "github.com/yungbote/roft-backend/internal/repos"
  "github.com/yungbote/roft-backend/internal/requestdata"
  "github.com/yungbote/roft-backend/internal/types"
)

func newAuthForTest(gormDB *gorm.DB) AuthService {
  log := newTestLogger()
  return NewAuthService(
    gormDB,
    log,
    repos.NewUserRepo(gormDB, log),
    repos.NewProfileRepo(gormDB, log),
    repos.NewUserTokenRepo(gormDB, log),
    "test-secret",
    time.Hour,
    24*time.Hour,
  )
}

func TestRegisterCreatesUserAndProfile(t *testing.T) {
  gormDB := newTestDB(t)
  svc := newAuthForTest(gormDB)

  user, err := svc.Register(context.Background(), "  Alice ", "password1", "organic")
  if err != nil {
    t.Fatalf("Register: %v", err)
  }
  if user.Username != "alice" {
    t.Fatalf("username = %q, want normalized lowercase", user.Username)
  }
  if user.Password == "password1" {
    t.Fatal("password stored in plaintext")
  }

  var profile types.Profile
  if err := gormDB.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
    t.Fatalf("load profile: %v", err)
  }
  if profile.IsTurker {
    t.Fatal("sign-up users must not be turkers")
  }
  if profile.Source != "organic" {
    t.Fatalf("source = %q, want organic", profile.Source)
  }
}

func TestRegisterDuplicateUsername(t *testing.T) {
  gormDB := newTestDB(t)
  svc := newAuthForTest(gormDB)

  if _, err := svc.Register(context.Background(), "alice", "password1", ""); err != nil {
    t.Fatalf("first Register: %v", err)
  }
  _, err := svc.Register(context.Background(), "ALICE", "password2", "")
  if !errors.Is(err, ErrUsernameTaken) {
    t.Fatalf("err = %v, want ErrUsernameTaken", err)
  }
}

func TestLoginWrongPassword(t *testing.T) {
  gormDB := newTestDB(t)
  svc := newAuthForTest(gormDB)

  if _, err := svc.Register(context.Background(), "alice", "password1", ""); err != nil {
    t.Fatalf("Register: %v", err)
  }
  _, _, err := svc.Login(context.Background(), "alice", "wrongpass")
  if !errors.Is(err, ErrInvalidCredentials) {
    t.Fatalf("err = %v, want ErrInvalidCredentials", err)
  }
  _, _, err = svc.Login(context.Background(), "nobody", "password1")
  if !errors.Is(err, ErrInvalidCredentials) {
    t.Fatalf("err = %v, want ErrInvalidCredentials for unknown user", err)
  }
}

func TestLoginTokenRoundtrip(t *testing.T) {
  gormDB := newTestDB(t)
  svc := newAuthForTest(gormDB)

  user, err := svc.Register(context.Background(), "alice", "password1", "")
  if err != nil {
    t.Fatalf("Register: %v", err)
  }
  accessToken, refreshToken, err := svc.Login(context.Background(), "alice", "password1")
  if err != nil {
    t.Fatalf("Login: %v", err)
  }
  if accessToken == "" || refreshToken == "" {
    t.Fatal("empty tokens")
  }

  ctx, err := svc.ContextFromToken(context.Background(), accessToken)
  if err != nil {
    t.Fatalf("ContextFromToken: %v", err)
  }
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    t.Fatal("no request data in context")
  }
  if rd.Username != "alice" || rd.UserID != user.ID {
    t.Fatalf("request data = %+v, want alice/%s", rd, user.ID)
  }
}

func TestLogoutRevokesToken(t *testing.T) {
  gormDB := newTestDB(t)
  svc := newAuthForTest(gormDB)

  if _, err := svc.Register(context.Background(), "alice", "password1", ""); err != nil {
    t.Fatalf("Register: %v", err)
  }
  accessToken, _, err := svc.Login(context.Background(), "alice", "password1")
  if err != nil {
    t.Fatalf("Login: %v", err)
  }
  if err := svc.Logout(context.Background(), accessToken); err != nil {
    t.Fatalf("Logout: %v", err)
  }
  // The JWT itself is still within its TTL; revocation comes from the
  // deleted token row.
  if _, err := svc.ContextFromToken(context.Background(), accessToken); err == nil {
    t.Fatal("revoked token still accepted")
  }
}

func TestContextFromTokenRejectsForgery(t *testing.T) {
  gormDB := newTestDB(t)
  svc := newAuthForTest(gormDB)

  if _, err := svc.ContextFromToken(context.Background(), ""); err == nil {
    t.Fatal("empty token accepted")
  }
  if _, err := svc.ContextFromToken(context.Background(), "not.a.jwt"); err == nil {
    t.Fatal("malformed token accepted")
  }
}

func TestValidationRejectsEmptyCredentials(t *testing.T) {
  gormDB := newTestDB(t)
  svc := newAuthForTest(gormDB)

  if _, err := svc.Register(context.Background(), "", "password1", ""); err == nil {
    t.Fatal("empty username accepted")
  }
  if _, err := svc.Register(context.Background(), "alice", "", ""); err == nil {
    t.Fatal("empty password accepted")
  }
}
