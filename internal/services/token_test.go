package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/gamehub-backend/internal/domain"
)

func TestTokenServiceRoundTrip(t *testing.T) {
	ts, err := NewTokenService("test-secret", 0)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	if ts.TTL() != DefaultTokenTTL {
		t.Fatalf("TTL: want=%s got=%s", DefaultTokenTTL, ts.TTL())
	}
	user := &types.User{ID: uuid.New(), Role: types.RoleAdmin}
	signed, claims, err := ts.Issue(user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if claims.ExpiresAt.Sub(claims.IssuedAt.Time) != 2*time.Hour {
		t.Fatalf("expiry window: got=%s", claims.ExpiresAt.Sub(claims.IssuedAt.Time))
	}
	rd, err := ts.Parse(signed)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if rd.UserID != user.ID || rd.Role != types.RoleAdmin || rd.TokenID != claims.ID {
		t.Fatalf("Parse: got=%+v", rd)
	}
}

func TestTokenServiceRejectsForeignAndExpiredTokens(t *testing.T) {
	issuer, _ := NewTokenService("secret-a", time.Hour)
	verifier, _ := NewTokenService("secret-b", time.Hour)
	signed, _, err := issuer.Issue(&types.User{ID: uuid.New(), Role: types.RoleUser})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifier.Parse(signed); err == nil {
		t.Fatalf("Parse with wrong secret: want error")
	}

	past := &tokenService{secret: []byte("secret-a"), ttl: time.Minute, now: func() time.Time { return time.Now().Add(-time.Hour) }}
	old, _, err := past.Issue(&types.User{ID: uuid.New()})
	if err != nil {
		t.Fatalf("Issue(past): %v", err)
	}
	if _, err := issuer.Parse(old); err == nil {
		t.Fatalf("Parse expired: want error")
	}
}

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	if _, err := NewTokenService("", time.Hour); err == nil {
		t.Fatalf("NewTokenService: want error for empty secret")
	}
}
