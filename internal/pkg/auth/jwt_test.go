package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/oguzk/campdir/internal/pkg/apperrors"
)

func newTestJWTService(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: exp,
		TokenIssuer:    "campdir.test",
	})
}

func TestSignAndValidateToken(t *testing.T) {
	svc := newTestJWTService(time.Hour)

	signed, expiresIn, err := svc.SignToken(42, "publisher")
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	if expiresIn != 3600 {
		t.Errorf("expected expiresIn 3600, got %d", expiresIn)
	}

	claims, err := svc.ValidateToken(signed)
	if err != nil {
		t.Fatalf("failed to validate freshly signed token: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected userID 42, got %d", claims.UserID)
	}
	if claims.Role != "publisher" {
		t.Errorf("expected role publisher, got %s", claims.Role)
	}
	if claims.Issuer != "campdir.test" {
		t.Errorf("expected issuer campdir.test, got %s", claims.Issuer)
	}
}

func TestValidateTokenFailureCauses(t *testing.T) {
	svc := newTestJWTService(time.Hour)

	expiredSvc := newTestJWTService(-time.Minute)
	expired, _, err := expiredSvc.SignToken(1, "user")
	if err != nil {
		t.Fatalf("failed to sign expired token: %v", err)
	}

	otherSvc := NewJWTService(JWTConfig{SecretKey: "other-secret", AccessTokenExp: time.Hour})
	forged, _, err := otherSvc.SignToken(1, "admin")
	if err != nil {
		t.Fatalf("failed to sign forged token: %v", err)
	}

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty token", "", apperrors.ErrTokenMalformed},
		{"garbage token", "not.a.jwt", apperrors.ErrTokenMalformed},
		{"expired token", expired, apperrors.ErrTokenExpired},
		{"wrong secret", forged, apperrors.ErrTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{"valid header", "Bearer abc.def.ghi", "abc.def.ghi", nil},
		{"missing header", "", "", apperrors.ErrTokenMissing},
		{"wrong scheme", "Basic abc", "", apperrors.ErrTokenMalformed},
		{"bare bearer", "Bearer ", "", apperrors.ErrTokenMalformed},
		{"no scheme", "abc.def.ghi", "", apperrors.ErrTokenMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := ExtractBearerToken(tt.header)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if token != tt.want {
				t.Errorf("expected token %q, got %q", tt.want, token)
			}
		})
	}
}
