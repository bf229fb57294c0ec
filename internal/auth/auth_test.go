package auth

import (
	"testing"
	"time"

	"github.com/siwes-platform/logbook-service/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	user := &models.User{
		Email: "alice@example.com",
		Role:  models.RoleStudent,
	}
	user.ID = 42

	token, err := NewToken("secret", time.Minute, user, TokenTypeAccess)
	if err != nil {
		t.Fatalf("NewToken failed: %v", err)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("Expected user id 42, got %d", claims.UserID)
	}
	if claims.Role != models.RoleStudent {
		t.Errorf("Expected role student, got %s", claims.Role)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Errorf("Expected token type access, got %s", claims.TokenType)
	}
	if claims.Subject != "alice@example.com" {
		t.Errorf("Expected subject to be the email, got %s", claims.Subject)
	}
}

func TestParseTokenRejectsBadInput(t *testing.T) {
	user := &models.User{Email: "alice@example.com", Role: models.RoleStudent}
	user.ID = 1

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewToken("secret", time.Minute, user, TokenTypeAccess)
		if err != nil {
			t.Fatalf("NewToken failed: %v", err)
		}
		if _, err := ParseToken("other-secret", token); err == nil {
			t.Error("Expected signature verification to fail")
		}
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := NewToken("secret", -time.Minute, user, TokenTypeAccess)
		if err != nil {
			t.Fatalf("NewToken failed: %v", err)
		}
		if _, err := ParseToken("secret", token); err == nil {
			t.Error("Expected expired token to be rejected")
		}
	})

	t.Run("garbage input", func(t *testing.T) {
		if _, err := ParseToken("secret", "not.a.token"); err == nil {
			t.Error("Expected parse to fail")
		}
	})
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cretpass")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if err := CheckPassword(hash, "s3cretpass"); err != nil {
		t.Errorf("Expected matching password to verify, got %v", err)
	}
	if err := CheckPassword(hash, "wrong-pass"); err == nil {
		t.Error("Expected wrong password to be rejected")
	}
}
