package web

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "test-secret-at-least-32-bytes-long!!"

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return s
}

func validClaims(sub string) Claims {
	return Claims{
		Email: "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestNewAuthenticator_MissingSecret(t *testing.T) {
	if _, err := NewAuthenticator("", "authenticated"); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestAuthenticator_Verify(t *testing.T) {
	a, err := NewAuthenticator(testSecret, "authenticated")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id := uuid.New()

	expired := validClaims(id.String())
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	noExpiry := validClaims(id.String())
	noExpiry.ExpiresAt = nil

	wrongAud := validClaims(id.String())
	wrongAud.Audience = jwt.ClaimStrings{"anon"}

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{"valid", signToken(t, testSecret, jwt.SigningMethodHS256, validClaims(id.String())), false},
		{"wrong secret", signToken(t, "other-secret", jwt.SigningMethodHS256, validClaims(id.String())), true},
		{"wrong algorithm", signToken(t, testSecret, jwt.SigningMethodHS512, validClaims(id.String())), true},
		{"expired", signToken(t, testSecret, jwt.SigningMethodHS256, expired), true},
		{"no expiry", signToken(t, testSecret, jwt.SigningMethodHS256, noExpiry), true},
		{"wrong audience", signToken(t, testSecret, jwt.SigningMethodHS256, wrongAud), true},
		{"subject not uuid", signToken(t, testSecret, jwt.SigningMethodHS256, validClaims("service-role")), true},
		{"garbage", "not.a.token", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := a.Verify(tt.token)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidToken) {
					t.Fatalf("expected ErrInvalidToken, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user.ID != id {
				t.Errorf("expected user %s, got %s", id, user.ID)
			}
			if user.Email != "user@example.com" {
				t.Errorf("expected email, got %q", user.Email)
			}
		})
	}
}

func TestAuthenticator_Middleware(t *testing.T) {
	a, err := NewAuthenticator(testSecret, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id := uuid.New()

	var got User
	handler := a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"invalid token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer " + signToken(t, testSecret, jwt.SigningMethodHS256, validClaims(id.String())), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, rec.Code)
			}
		})
	}

	if got.ID != id {
		t.Errorf("expected user %s in context, got %s", id, got.ID)
	}
}
