package hash

import (
	"errors"
	"strings"
	"testing"
)

func TestHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{
			name:     "valid password",
			password: "SecurePass123!",
		},
		{
			name:     "minimum length password",
			password: "Pass123!",
		},
		{
			name:     "password too short",
			password: "short",
			wantErr:  ErrPasswordTooShort,
		},
		{
			name:     "empty password",
			password: "",
			wantErr:  ErrPasswordTooShort,
		},
		{
			name:     "72 byte password",
			password: strings.Repeat("a", MaxPasswordBytes),
		},
		{
			name:     "multibyte password over 72 bytes",
			password: strings.Repeat("é", 40),
			wantErr:  ErrPasswordTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := Hash(tt.password)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Hash() error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("Hash() unexpected error = %v", err)
			}

			if hash == tt.password {
				t.Error("Hash() returned unhashed password")
			}

			if !strings.HasPrefix(hash, "$2a$12$") {
				t.Errorf("Hash() invalid bcrypt format, got = %s", hash[:10])
			}
		})
	}
}

func TestHashIsSalted(t *testing.T) {
	password := "SamePassword123!"

	hash1, err := Hash(password)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	hash2, err := Hash(password)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if hash1 == hash2 {
		t.Error("Hash() should generate different hashes for same password")
	}
}

func TestMatches(t *testing.T) {
	password := "MySecurePassword123!"
	hash, err := Hash(password)
	if err != nil {
		t.Fatalf("Failed to generate hash: %v", err)
	}

	tests := []struct {
		name           string
		hashedPassword string
		password       string
		want           bool
	}{
		{"correct password", hash, password, true},
		{"incorrect password", hash, "WrongPassword", false},
		{"empty password", hash, "", false},
		{"case sensitive", hash, strings.ToUpper(password), false},
		{"malformed hash", "not-a-bcrypt-hash", password, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.hashedPassword, tt.password); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func BenchmarkHash(b *testing.B) {
	password := "BenchmarkPassword123!"

	for i := 0; i < b.N; i++ {
		if _, err := Hash(password); err != nil {
			b.Fatalf("Hash() error = %v", err)
		}
	}
}
