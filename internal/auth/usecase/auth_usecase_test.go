package usecase

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}
	return s
}

func TestValidateToken(t *testing.T) {
	uc := NewAuthUsecase(testSecret)
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	userID, err := uc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("userID = %q, want user-1", userID)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	uc := NewAuthUsecase(testSecret)
	token := signToken(t, "other-secret", jwt.MapClaims{"sub": "user-1"})

	if _, err := uc.ValidateToken(token); err == nil {
		t.Fatal("token signed with another secret must be rejected")
	}
}

func TestValidateToken_Expired(t *testing.T) {
	uc := NewAuthUsecase(testSecret)
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	if _, err := uc.ValidateToken(token); err == nil {
		t.Fatal("expired token must be rejected")
	}
}

func TestValidateToken_NoSubject(t *testing.T) {
	uc := NewAuthUsecase(testSecret)
	token := signToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	if _, err := uc.ValidateToken(token); err == nil {
		t.Fatal("token without a subject must be rejected")
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	uc := NewAuthUsecase(testSecret)
	if _, err := uc.ValidateToken("not-a-jwt"); err == nil {
		t.Fatal("malformed token must be rejected")
	}
}
