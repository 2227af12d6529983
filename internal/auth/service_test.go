package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/shopcore/shopcore-backend/pkg/auth"
	"github.com/shopcore/shopcore-backend/pkg/config"
	"github.com/shopcore/shopcore-backend/pkg/db/models"
	"github.com/shopcore/shopcore-backend/pkg/enums"
	pkgerrors "github.com/shopcore/shopcore-backend/pkg/errors"
	"github.com/shopcore/shopcore-backend/pkg/security"
)

func TestServiceLoginIssuesRoleClaim(t *testing.T) {
	password := "customer-secret"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "shopper@example.com",
		PasswordHash: mustHashPassword(t, password),
		Role:         enums.UserRoleCustomer,
		IsActive:     true,
	}
	cfg := testJWTConfig()

	svc, _, err := buildTestService(user, cfg)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != enums.UserRoleCustomer {
		t.Fatalf("expected customer role claim, got %s", claims.Role)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id claim %s, got %s", user.ID, claims.UserID)
	}
	if resp.RefreshToken == "" {
		t.Fatalf("expected refresh token to be set")
	}
	if resp.User == nil || resp.User.LastLoginAt == nil {
		t.Fatalf("expected last login to be recorded")
	}
}

func TestServiceLoginAdminRoleClaim(t *testing.T) {
	password := "admin-secret"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "admin@example.com",
		PasswordHash: mustHashPassword(t, password),
		Role:         enums.UserRoleAdmin,
		IsActive:     true,
	}
	cfg := testJWTConfig()

	svc, _, err := buildTestService(user, cfg)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != enums.UserRoleAdmin {
		t.Fatalf("expected admin role claim, got %s", claims.Role)
	}
}

func TestServiceLoginWrongPassword(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "shopper@example.com",
		PasswordHash: mustHashPassword(t, "right-password"),
		Role:         enums.UserRoleCustomer,
		IsActive:     true,
	}

	svc, _, err := buildTestService(user, testJWTConfig())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "wrong-password",
	})
	assertUnauthorized(t, err)
}

func TestServiceLoginInactiveUser(t *testing.T) {
	password := "inactive-secret"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "gone@example.com",
		PasswordHash: mustHashPassword(t, password),
		Role:         enums.UserRoleCustomer,
		IsActive:     false,
	}

	svc, _, err := buildTestService(user, testJWTConfig())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	assertUnauthorized(t, err)
}

func TestServiceLoginUnknownEmail(t *testing.T) {
	svc, _, err := buildTestService(nil, testJWTConfig())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assertUnauthorized(t, err)
}

func TestServiceRefreshRotatesSession(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()
	oldAccessID := uuid.NewString()

	accessToken, err := pkgAuth.MintAccessToken(cfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: userID,
		Role:   enums.UserRoleCustomer,
		JTI:    oldAccessID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	svc, sessionMgr, err := buildTestService(nil, cfg)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	sessionMgr.rotatedAccessID = uuid.NewString()
	sessionMgr.rotatedRefresh = "rotated-refresh"

	resp, err := svc.Refresh(context.Background(), accessToken, "refresh-token")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if sessionMgr.rotatedFrom != oldAccessID {
		t.Fatalf("expected rotation from %s, got %s", oldAccessID, sessionMgr.rotatedFrom)
	}
	if resp.RefreshToken != "rotated-refresh" {
		t.Fatalf("unexpected refresh token %q", resp.RefreshToken)
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse rotated token: %v", err)
	}
	if claims.ID != sessionMgr.rotatedAccessID {
		t.Fatalf("expected jti %s, got %s", sessionMgr.rotatedAccessID, claims.ID)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user id %s, got %s", userID, claims.UserID)
	}
}

func TestServiceLogoutRevokesSession(t *testing.T) {
	svc, sessionMgr, err := buildTestService(nil, testJWTConfig())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	accessID := uuid.NewString()
	if err := svc.Logout(context.Background(), accessID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if sessionMgr.revokedAccessID != accessID {
		t.Fatalf("expected revoke of %s, got %s", accessID, sessionMgr.revokedAccessID)
	}
}

func buildTestService(user *models.User, jwtCfg config.JWTConfig) (Service, *stubSessionManager, error) {
	sessionMgr := &stubSessionManager{refreshToken: "refresh-token"}
	svc, err := NewService(ServiceParams{
		UserRepo:       stubUserRepo{user: user},
		SessionManager: sessionMgr,
		JWTConfig:      jwtCfg,
	})
	return svc, sessionMgr, err
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "shopcore",
		ExpirationMinutes: 30,
	}
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected unauthorized error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

type stubUserRepo struct {
	user *models.User
	err  error
}

func (s stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.user == nil || s.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if s.user != nil && s.user.ID == id {
		s.user.LastLoginAt = &at
	}
	return nil
}

type stubSessionManager struct {
	refreshToken    string
	rotatedFrom     string
	rotatedAccessID string
	rotatedRefresh  string
	revokedAccessID string
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	return s.refreshToken, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	s.rotatedFrom = oldAccessID
	return s.rotatedAccessID, s.rotatedRefresh, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	s.revokedAccessID = accessID
	return nil
}
