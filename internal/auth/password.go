package auth

import (
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and verifies passwords and enforces strength rules.
type PasswordHasher struct {
	cost      int
	minLength int
}

// NewPasswordHasher builds a hasher with the given bcrypt cost and minimum
// password length. Out-of-range values fall back to the defaults.
func NewPasswordHasher(cost, minLength int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = 12
	}
	if minLength <= 0 {
		minLength = 8
	}
	return &PasswordHasher{cost: cost, minLength: minLength}
}

// Hash returns a salted bcrypt hash of the password. The output embeds the
// algorithm, cost and salt, so verification needs no extra state.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether the password matches the stored hash. A malformed
// hash yields false, never an error.
func (h *PasswordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidateStrength checks the password against the strength rules. Rules are
// evaluated in a fixed order (length, uppercase, lowercase, digit) and the
// first violation's message is returned.
func (h *PasswordHasher) ValidateStrength(password string) (bool, string) {
	if len(password) < h.minLength {
		return false, fmt.Sprintf("password must be at least %d characters long", h.minLength)
	}

	var hasUpper, hasLower, hasDigit bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsDigit(c):
			hasDigit = true
		}
	}

	if !hasUpper {
		return false, "password must contain at least one uppercase letter"
	}
	if !hasLower {
		return false, "password must contain at least one lowercase letter"
	}
	if !hasDigit {
		return false, "password must contain at least one digit"
	}
	return true, ""
}
