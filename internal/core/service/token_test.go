package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/adminpanel/identity-api/internal/core/domain"
)

func TestTokenIssuer_IssueAndParse(t *testing.T) {
	ti := NewTokenIssuer(testSecret, 30*time.Minute)
	user := &domain.User{ID: 42, Email: "a@b.co", Roles: []string{domain.RoleAdmin}}

	raw, exp, err := ti.Issue(user, "session-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if d := time.Until(exp); d <= 29*time.Minute || d > 30*time.Minute {
		t.Fatalf("unexpected expiry %s", exp)
	}

	claims, err := ti.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	id, err := claims.userID()
	if err != nil || id != 42 {
		t.Fatalf("expected subject 42, got %d (%v)", id, err)
	}
	if claims.ID != "session-1" || claims.Email != "a@b.co" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if len(claims.Roles) != 2 {
		t.Fatalf("expected normalised roles in token, got %v", claims.Roles)
	}
}

func TestTokenIssuer_Expired(t *testing.T) {
	ti := NewTokenIssuer(testSecret, time.Minute)
	raw, _, err := ti.Issue(&domain.User{ID: 1}, "sid")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	ti.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := ti.Parse(raw); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenIssuer_RejectsOtherAlgorithms(t *testing.T) {
	ti := NewTokenIssuer(testSecret, time.Hour)

	claims := jwt.MapClaims{"sub": "1", "jti": "sid", "exp": time.Now().Add(time.Hour).Unix()}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ti.Parse(raw); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected HS512 token to be rejected, got %v", err)
	}
}

func TestTokenIssuer_RequiresSessionAndExpiry(t *testing.T) {
	ti := NewTokenIssuer(testSecret, time.Hour)

	for name, claims := range map[string]jwt.MapClaims{
		"no jti": {"sub": "1", "exp": time.Now().Add(time.Hour).Unix()},
		"no exp": {"sub": "1", "jti": "sid"},
	} {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		if _, err := ti.Parse(raw); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}
