package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mocharil/savora-backend/pkg/config"
	"github.com/mocharil/savora-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "savora-test-secret",
		Issuer:            "savora-api",
		ExpirationMinutes: 15,
	}
}

func testPayload() AccessTokenPayload {
	return AccessTokenPayload{
		UserID:  uuid.New(),
		StoreID: uuid.New(),
		Email:   "admin@warung.test",
		Role:    enums.MemberRoleOutletAdmin,
		JTI:     uuid.NewString(),
	}
}

func TestMintAndParseRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	payload := testPayload()

	token, err := MintAccessToken(cfg, time.Now().UTC(), payload)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.UserID != payload.UserID {
		t.Fatalf("user id mismatch: %s", claims.UserID)
	}
	if claims.StoreID != payload.StoreID {
		t.Fatalf("store id mismatch: %s", claims.StoreID)
	}
	if claims.Role != enums.MemberRoleOutletAdmin {
		t.Fatalf("role mismatch: %s", claims.Role)
	}
	if claims.ID != payload.JTI {
		t.Fatalf("jti mismatch: %s", claims.ID)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("issuer mismatch: %s", claims.Issuer)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now().UTC(), testPayload())
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	other := cfg
	other.Secret = "not-the-signing-secret"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected signature rejection")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	issuedAt := time.Now().UTC().Add(-time.Hour)
	token, err := MintAccessToken(cfg, issuedAt, testPayload())
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected expiry rejection")
	}
}

func TestParseAllowExpiredRecoversJTI(t *testing.T) {
	cfg := testJWTConfig()
	payload := testPayload()
	issuedAt := time.Now().UTC().Add(-time.Hour)
	token, err := MintAccessToken(cfg, issuedAt, payload)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	claims, err := ParseAccessTokenAllowExpired(cfg, token)
	if err != nil {
		t.Fatalf("expected expired token to parse, got %v", err)
	}
	if claims.ID != payload.JTI {
		t.Fatalf("jti mismatch: %s", claims.ID)
	}
}

func TestMintRejectsMissingScope(t *testing.T) {
	cfg := testJWTConfig()
	payload := testPayload()
	payload.StoreID = uuid.Nil

	if _, err := MintAccessToken(cfg, time.Now().UTC(), payload); err == nil {
		t.Fatal("expected store id rejection")
	}
}
