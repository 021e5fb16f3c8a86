package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasherHashAndVerify(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost, 8)

	hash, err := hasher.Hash("SecurePass1")
	require.NoError(t, err)
	assert.NotEqual(t, "SecurePass1", hash)

	assert.True(t, hasher.Verify("SecurePass1", hash))
	assert.False(t, hasher.Verify("WrongPass1", hash))
}

func TestPasswordHasherHashesAreSalted(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost, 8)

	first, err := hasher.Hash("SecurePass1")
	require.NoError(t, err)
	second, err := hasher.Hash("SecurePass1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify("SecurePass1", first))
	assert.True(t, hasher.Verify("SecurePass1", second))
}

func TestPasswordHasherVerifyMalformedHash(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost, 8)
	assert.False(t, hasher.Verify("SecurePass1", "not-a-bcrypt-hash"))
}

func TestValidateStrengthOrder(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost, 8)

	tests := []struct {
		name     string
		password string
		valid    bool
		message  string
	}{
		{"valid", "SecurePass1", true, ""},
		{"too short wins over missing classes", "abc", false, "password must be at least 8 characters long"},
		{"missing uppercase", "alllower1", false, "password must contain at least one uppercase letter"},
		{"missing lowercase", "ALLUPPER1", false, "password must contain at least one lowercase letter"},
		{"missing digit", "NoDigitsHere", false, "password must contain at least one digit"},
		{"exactly minimum length", "Abcdefg1", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, message := hasher.ValidateStrength(tt.password)
			assert.Equal(t, tt.valid, valid)
			assert.Equal(t, tt.message, message)
		})
	}
}

func TestNewPasswordHasherClampsBadConfig(t *testing.T) {
	hasher := NewPasswordHasher(999, -1)

	// Out-of-range settings fall back to usable defaults.
	assert.Equal(t, 12, hasher.cost)
	assert.Equal(t, 8, hasher.minLength)
}
