package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rogerio-castellano/kitchen-stock/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Minute)

	token, err := m.GenerateToken(models.User{ID: 7, Username: "aigul", Role: models.RoleCook})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.UserID != 7 || id.Username != "aigul" || id.Role != models.RoleCook {
		t.Fatalf("unexpected identity: %+v", id)
	}
	if !id.HasRole(models.RoleAdmin, models.RoleCook) || id.HasRole(models.RoleManager) {
		t.Error("unexpected role check result")
	}
}

func TestParseTokenRejects(t *testing.T) {
	m := NewTokenManager("secret", time.Minute)
	user := models.User{ID: 1, Username: "admin", Role: models.RoleAdmin}

	expired, _ := NewTokenManager("secret", -time.Minute).GenerateToken(user)
	otherKey, _ := NewTokenManager("other", time.Minute).GenerateToken(user)
	badRole, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": 1, "role": "janitor", "exp": time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte("secret"))
	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": 1, "role": "admin",
	}).SignedString([]byte("secret"))

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expired},
		{"wrong key", otherKey},
		{"unknown role", badRole},
		{"no expiry", noExpiry},
		{"garbage", "not-a-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.ParseToken(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestPasswordCheck(t *testing.T) {
	hash, err := HashPassword("borscht")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword(hash, "borscht") {
		t.Error("expected password to match")
	}
	if CheckPassword(hash, "plov") {
		t.Error("expected wrong password to fail")
	}
}
