package jwt

import (
	"errors"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

func TestHMACService_IssueAndValidate(t *testing.T) {
	s := NewHMACService("secret", "https://id.example.com")

	tok, err := s.Issue(Claims{
		Email:            "ada@example.com",
		GivenName:        "Ada",
		OrgID:            "org_1",
		OrgRole:          "org:admin",
		RegisteredClaims: jwtlib.RegisteredClaims{Subject: "user_1"},
	}, time.Minute)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	c, err := s.ValidateToken(tok)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.Subject != "user_1" || c.Email != "ada@example.com" || c.OrgRole != "org:admin" {
		t.Fatalf("unexpected claims: %+v", c)
	}
}

func TestHMACService_Expired(t *testing.T) {
	s := NewHMACService("secret", "")
	past := time.Now().Add(-time.Hour)
	s.now = func() time.Time { return past }

	tok, err := s.Issue(Claims{RegisteredClaims: jwtlib.RegisteredClaims{Subject: "user_1"}}, time.Minute)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	s.now = time.Now
	if _, err := s.ValidateToken(tok); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestHMACService_RejectsForeignTokens(t *testing.T) {
	issuer := NewHMACService("other-secret", "")
	tok, err := issuer.Issue(Claims{RegisteredClaims: jwtlib.RegisteredClaims{Subject: "user_1"}}, time.Minute)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	s := NewHMACService("secret", "")
	if _, err := s.ValidateToken(tok); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}

	strict := NewHMACService("other-secret", "https://id.example.com")
	if _, err := strict.ValidateToken(tok); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected issuer mismatch to be invalid, got %v", err)
	}
}

func TestHMACService_IssueRequiresSubject(t *testing.T) {
	s := NewHMACService("secret", "")
	if _, err := s.Issue(Claims{}, time.Minute); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
