package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestService(now time.Time) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: 24 * time.Hour,
		TokenIssuer:    "hostelhub.test",
	}).WithClock(func() time.Time { return now })
}

func TestGenerateAndValidateToken(t *testing.T) {
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestService(now)
	room := "A1"

	token, expiresIn, err := svc.GenerateToken(Subject{ID: "PFX2025001", Role: "student", Email: "ann@example.com", Name: "Ann", RoomNumber: &room})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if expiresIn != 86400 {
		t.Errorf("expiresIn = %d, want 86400", expiresIn)
	}

	claims, err := svc.ValidateAndExtractClaims(token)
	if err != nil {
		t.Fatalf("ValidateAndExtractClaims: %v", err)
	}
	if claims.ID != "PFX2025001" || claims.Role != "student" || claims.Email != "ann@example.com" || claims.Name != "Ann" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.RoomNumber == nil || *claims.RoomNumber != "A1" {
		t.Errorf("room_number claim = %v, want A1", claims.RoomNumber)
	}
	if claims.RegisteredClaims.ID == "" {
		t.Error("expected a jti")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	issued := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	token, _, err := newTestService(issued).GenerateToken(Subject{ID: "1", Role: "admin", Email: "a@example.com"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	later := newTestService(issued.Add(25 * time.Hour))
	if _, err := later.ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("err = %v, want ErrExpiredToken", err)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	now := time.Now()
	token, _, err := newTestService(now).GenerateToken(Subject{ID: "1", Role: "admin"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	other := NewJWTService(JWTConfig{SecretKey: "other", TokenIssuer: "hostelhub.test"})
	if _, err := other.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "bearer", header: "Bearer a.b.c", want: "a.b.c"},
		{name: "raw", header: "a.b.c", want: "a.b.c"},
		{name: "quoted", header: "\"Bearer a.b.c\"", want: "a.b.c"},
		{name: "empty", header: "", wantErr: true},
		{name: "not a jwt", header: "Bearer abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearerToken(tt.header)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	BcryptCost = 4
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "secret1" {
		t.Fatal("hash must not equal plaintext")
	}
	if !CheckPassword(hash, "secret1") {
		t.Error("expected password to match")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("expected mismatch for wrong password")
	}
	if CheckPassword("", "secret1") {
		t.Error("empty hash must never match")
	}
	if _, err := HashPassword(strings.Repeat("x", 73)); !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("73-byte password: err = %v, want ErrPasswordTooLong", err)
	}
}
