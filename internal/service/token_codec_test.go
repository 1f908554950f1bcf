package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"simple-microservice/internal/domain"
)

func testUser() domain.User {
	return domain.User{
		ID:           "u1",
		Email:        "a@x.com",
		PasswordHash: "secret-hash",
		FirstName:    "A",
		LastName:     "B",
	}
}

func TestTokenCodec_IssueVerify(t *testing.T) {
	clock := newFakeClock()
	codec := NewTokenCodec("secret", 15*time.Minute, WithClock(clock.Now))

	token, expiresAt, err := codec.Issue(ClaimsForUser(testUser()))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !expiresAt.Equal(clock.Now().Add(15 * time.Minute)) {
		t.Fatalf("unexpected expiry %v", expiresAt)
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Email != "a@x.com" || claims.UserID != "u1" || claims.FirstName != "A" || claims.LastName != "B" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if !claims.IssuedAt.Time.Equal(clock.Now()) || !claims.ExpiresAt.Time.Equal(expiresAt) {
		t.Fatalf("unexpected timestamps: iat=%v exp=%v", claims.IssuedAt, claims.ExpiresAt)
	}
}

func TestTokenCodec_ClaimsOmitPasswordHash(t *testing.T) {
	codec := NewTokenCodec("secret", time.Minute)
	token, _, err := codec.Issue(ClaimsForUser(testUser()))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected compact jws, got %q", token)
	}
	payload, err := jwt.NewParser().DecodeSegment(parts[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if strings.Contains(string(payload), "secret-hash") || strings.Contains(string(payload), "password") {
		t.Fatalf("payload leaks password data: %s", payload)
	}
}

func TestTokenCodec_WrongSecretIsBadSignature(t *testing.T) {
	clock := newFakeClock()
	issuer := NewTokenCodec("secret-a", time.Minute, WithClock(clock.Now))
	verifier := NewTokenCodec("secret-b", time.Minute, WithClock(clock.Now))

	token, _, err := issuer.Issue(ClaimsForUser(testUser()))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := verifier.Verify(token); !errors.Is(err, ErrTokenBadSignature) {
		t.Fatalf("expected ErrTokenBadSignature, got %v", err)
	}

	// Aun expirado, un secreto distinto se reporta como firma invalida.
	clock.Advance(time.Hour)
	_, err = verifier.Verify(token)
	if !errors.Is(err, ErrTokenBadSignature) {
		t.Fatalf("expected ErrTokenBadSignature for expired foreign token, got %v", err)
	}
	if errors.Is(err, ErrTokenExpired) || errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected only bad signature, got %v", err)
	}
}

func TestTokenCodec_Expired(t *testing.T) {
	clock := newFakeClock()
	codec := NewTokenCodec("secret", time.Minute, WithClock(clock.Now))

	token, _, err := codec.Issue(ClaimsForUser(testUser()))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	clock.Advance(59 * time.Second)
	if _, err := codec.Verify(token); err != nil {
		t.Fatalf("expected token valid before expiry, got %v", err)
	}

	clock.Advance(time.Second)
	if _, err := codec.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired at exp, got %v", err)
	}
}

func TestTokenCodec_Malformed(t *testing.T) {
	codec := NewTokenCodec("secret", time.Minute)

	for _, token := range []string{"", "   ", "not-a-token", "a.b.c"} {
		if _, err := codec.Verify(token); !errors.Is(err, ErrTokenMalformed) {
			t.Fatalf("expected ErrTokenMalformed for %q, got %v", token, err)
		}
	}
}

func TestTokenCodec_RequiresExpiration(t *testing.T) {
	claims := ClaimsForUser(testUser())
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	codec := NewTokenCodec("secret", time.Minute)
	if _, err := codec.Verify(signed); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed without exp, got %v", err)
	}
}

func TestTokenCodec_RejectsOtherAlgorithms(t *testing.T) {
	now := time.Now()
	claims := ClaimsForUser(testUser())
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(time.Minute))
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	codec := NewTokenCodec("secret", time.Minute)
	if _, err := codec.Verify(signed); !errors.Is(err, ErrTokenBadSignature) {
		t.Fatalf("expected ErrTokenBadSignature for HS512, got %v", err)
	}
}

func TestTokenCodec_EmptySecret(t *testing.T) {
	codec := NewTokenCodec("", time.Minute)

	if _, _, err := codec.Issue(ClaimsForUser(testUser())); !errors.Is(err, ErrSigningKeyMissing) {
		t.Fatalf("expected ErrSigningKeyMissing on issue, got %v", err)
	}
	if _, err := codec.Verify("a.b.c"); !errors.Is(err, ErrSigningKeyMissing) {
		t.Fatalf("expected ErrSigningKeyMissing on verify, got %v", err)
	}
	if IsTokenRejected(ErrSigningKeyMissing) {
		t.Fatalf("missing key must not be classified as a token rejection")
	}
}

func TestTokenCodec_DefaultTTL(t *testing.T) {
	if got := NewTokenCodec("secret", 0).TTL(); got != 15*time.Minute {
		t.Fatalf("expected default ttl 15m, got %v", got)
	}
}
