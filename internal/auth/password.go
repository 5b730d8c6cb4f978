package auth

import "golang.org/x/crypto/bcrypt"

// PasswordHasher wraps bcrypt with a configurable work factor so
// tests can run with a cheap cost while production uses a slow one.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a hasher; a cost outside bcrypt's valid
// range falls back to the library default.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash derives a salted digest from the plaintext password. Each call
// produces a different digest for the same input.
func (h *PasswordHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether the plaintext matches the stored digest. The
// salt and cost embedded in the digest drive the comparison; a
// malformed digest simply does not match.
func (h *PasswordHasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
