package security

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/baechuer/notepad-service/internal/domain"
)

func TestJWTSigner_SignAndVerify_Success(t *testing.T) {
	t.Parallel()

	s := NewJWTSigner("secret", "notepad")
	tok, err := s.SignAccessToken("u1", 2*time.Minute)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}
	if strings.Count(tok, ".") != 2 {
		t.Fatalf("expected 3 segments, got %q", tok)
	}

	claims, err := s.VerifyAccessToken(tok)
	if err != nil {
		t.Fatalf("verify err: %v", err)
	}
	if claims.UserID != "u1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Exp.IsZero() {
		t.Fatalf("expected exp to be set")
	}
}

func TestJWTSigner_PayloadCarriesIDClaim(t *testing.T) {
	t.Parallel()

	s := NewJWTSigner("secret", "")
	tok, err := s.SignAccessToken("42", time.Hour)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}

	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, mc); err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if mc["id"] != "42" {
		t.Fatalf("expected id claim 42, got %v", mc["id"])
	}
	if _, ok := mc["exp"]; !ok {
		t.Fatalf("expected exp claim")
	}
	if _, ok := mc["iat"]; !ok {
		t.Fatalf("expected iat claim")
	}
}

func TestJWTSigner_Verify_Expired_ReturnsTokenExpired(t *testing.T) {
	t.Parallel()

	s := NewJWTSigner("secret", "notepad")
	tok, err := s.SignAccessToken("u1", -1*time.Second)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}

	_, verr := s.VerifyAccessToken(tok)
	if !domain.Is(verr, "token_expired") {
		t.Fatalf("expected token_expired, got %v", verr)
	}
}

func TestJWTSigner_Verify_ClockPastTTL_ReturnsTokenExpired(t *testing.T) {
	t.Parallel()

	s := NewJWTSigner("secret", "")
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	tok, err := s.SignAccessToken("u1", 24*time.Hour)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}

	s.now = func() time.Time { return base.Add(23 * time.Hour) }
	if _, err := s.VerifyAccessToken(tok); err != nil {
		t.Fatalf("expected valid before ttl, got %v", err)
	}

	s.now = func() time.Time { return base.Add(25 * time.Hour) }
	if _, err := s.VerifyAccessToken(tok); !domain.Is(err, "token_expired") {
		t.Fatalf("expected token_expired, got %v", err)
	}
}

func TestJWTSigner_Verify_WrongSecret_ReturnsTokenInvalid(t *testing.T) {
	t.Parallel()

	s1 := NewJWTSigner("secret1", "notepad")
	s2 := NewJWTSigner("secret2", "notepad")

	tok, err := s1.SignAccessToken("u1", time.Minute)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}

	if _, verr := s2.VerifyAccessToken(tok); !domain.Is(verr, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", verr)
	}
}

func TestJWTSigner_Verify_WrongIssuer_ReturnsTokenInvalid(t *testing.T) {
	t.Parallel()

	tok, err := NewJWTSigner("secret", "other").SignAccessToken("u1", time.Minute)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}

	if _, verr := NewJWTSigner("secret", "notepad").VerifyAccessToken(tok); !domain.Is(verr, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", verr)
	}
}

func TestJWTSigner_Verify_AlgConfusion_Rejected(t *testing.T) {
	t.Parallel()

	claims := jwt.MapClaims{
		"id":  "u1",
		"iss": "notepad",
		"exp": time.Now().Add(time.Minute).Unix(),
		"iat": time.Now().Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	unsigned, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("unexpected signing err: %v", err)
	}

	s := NewJWTSigner("secret", "notepad")
	if _, verr := s.VerifyAccessToken(unsigned); !domain.Is(verr, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", verr)
	}
}

func TestJWTSigner_Verify_MissingID_ReturnsTokenInvalid(t *testing.T) {
	t.Parallel()

	claims := jwt.MapClaims{
		"exp": time.Now().Add(time.Minute).Unix(),
		"iat": time.Now().Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}

	s := NewJWTSigner("secret", "")
	if _, verr := s.VerifyAccessToken(signed); !domain.Is(verr, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", verr)
	}
}

func TestJWTSigner_Verify_Garbage_ReturnsTokenInvalid(t *testing.T) {
	t.Parallel()

	s := NewJWTSigner("secret", "notepad")
	if _, err := s.VerifyAccessToken("not.a.jwt"); !domain.Is(err, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", err)
	}
	if _, err := s.VerifyAccessToken(""); !domain.Is(err, "token_missing") {
		t.Fatalf("expected token_missing, got %v", err)
	}
}
