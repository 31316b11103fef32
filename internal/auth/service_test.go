package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/mocharil/savora-backend/pkg/auth"
	"github.com/mocharil/savora-backend/pkg/config"
	"github.com/mocharil/savora-backend/pkg/db/models"
	"github.com/mocharil/savora-backend/pkg/enums"
	pkgerrors "github.com/mocharil/savora-backend/pkg/errors"
	"github.com/mocharil/savora-backend/pkg/security"
)

const testPassword = "rahasia-dapur"

type stubUserRepo struct {
	user            *models.User
	lastLoginCalled bool
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLoginCalled = true
	return nil
}

type stubSessionManager struct {
	accessID string
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	s.accessID = accessID
	return "refresh-" + accessID, nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "savora-test-secret",
		Issuer:            "savora-api",
		ExpirationMinutes: 15,
	}
}

func activeUser(t *testing.T) *models.User {
	t.Helper()
	hash, err := security.HashPassword(testPassword, config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.User{
		ID:           uuid.New(),
		StoreID:      uuid.New(),
		Email:        "admin@warung.test",
		PasswordHash: hash,
		Name:         "Admin Warung",
		Role:         enums.MemberRoleOutletAdmin,
		IsActive:     true,
	}
}

func newTestService(t *testing.T, repo *stubUserRepo, sessions *stubSessionManager) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	return svc
}

func TestLoginIssuesScopedToken(t *testing.T) {
	user := activeUser(t)
	repo := &stubUserRepo{user: user}
	sessions := &stubSessionManager{}
	svc := newTestService(t, repo, sessions)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Admin@Warung.test",
		Password: testPassword,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected token pair")
	}
	if !repo.lastLoginCalled {
		t.Fatal("expected last login stamp")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.StoreID != user.StoreID {
		t.Fatalf("token store scope mismatch: %s", claims.StoreID)
	}
	if claims.UserID != user.ID {
		t.Fatalf("token user mismatch: %s", claims.UserID)
	}
	if claims.ID != sessions.accessID {
		t.Fatal("refresh session must key off the token jti")
	}
	if resp.User == nil || resp.User.Email != user.Email {
		t.Fatal("expected user projection in response")
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo := &stubUserRepo{user: activeUser(t)}
	svc := newTestService(t, repo, &stubSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "admin@warung.test",
		Password: "wrong-password",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized got %v", err)
	}
	if typed.Message() != invalidCredentialsMessage {
		t.Fatalf("credential failures must not leak detail, got %q", typed.Message())
	}
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	svc := newTestService(t, &stubUserRepo{}, &stubSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@warung.test",
		Password: testPassword,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized got %v", err)
	}
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	user := activeUser(t)
	user.IsActive = false
	repo := &stubUserRepo{user: user}
	svc := newTestService(t, repo, &stubSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: testPassword,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized got %v", err)
	}
	if repo.lastLoginCalled {
		t.Fatal("inactive user must not be stamped")
	}
}
