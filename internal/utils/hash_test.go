package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "SecurePassword123!"

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword(testPassword)

	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, testPassword, hash)
	assert.Contains(t, hash, "$argon2id$")
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	hash1, err := HashPassword(testPassword)
	require.NoError(t, err)
	hash2, err := HashPassword(testPassword)
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2, "Same password must hash differently per salt")
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword(testPassword)
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"correct password", testPassword, true},
		{"wrong password", "WrongPassword456!", false},
		{"case sensitive", strings.ToLower(testPassword), false},
		{"trailing whitespace matters", testPassword + " ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, err := VerifyPassword(tt.password, hash)
			require.NoError(t, err)
			assert.Equal(t, tt.want, match)
		})
	}
}

func TestVerifyPassword_UnicodePassword(t *testing.T) {
	password := "Contraseña_ñ_ü_ç_ş"
	hash, err := HashPassword(password)
	require.NoError(t, err)

	match, err := VerifyPassword(password, hash)
	require.NoError(t, err)
	assert.True(t, match)
}

func TestVerifyPassword_InvalidHash(t *testing.T) {
	invalidHashes := []string{
		"",
		"plain-text-not-hash",
		"$invalid$format$",
		"$argon2id$v=19$m=65536",
	}

	for _, invalidHash := range invalidHashes {
		match, err := VerifyPassword(testPassword, invalidHash)
		assert.Error(t, err, "hash %q should be rejected", invalidHash)
		assert.False(t, match)
	}
}

func TestHashPassword_LongPassword(t *testing.T) {
	password := strings.Repeat("a", 1000)

	hash, err := HashPassword(password)
	require.NoError(t, err)

	match, err := VerifyPassword(password, hash)
	require.NoError(t, err)
	assert.True(t, match)
}

func BenchmarkHashPassword(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = HashPassword(testPassword)
	}
}
