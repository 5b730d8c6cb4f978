package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashProducesSaltedDigests(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	first, err := h.Hash("secret1")
	require.NoError(t, err)
	second, err := h.Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, "secret1", first)
	// Same plaintext, different salt, different digest; both still
	// verify against the original password.
	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("secret1", first))
	assert.True(t, h.Verify("secret1", second))
}

func TestVerify(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	digest, err := h.Hash("secret1")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		digest   string
		want     bool
	}{
		{"correct password", "secret1", digest, true},
		{"wrong password", "wrong", digest, false},
		{"empty password", "", digest, false},
		{"malformed digest", "secret1", "not-a-bcrypt-digest", false},
		{"empty digest", "secret1", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, h.Verify(tt.password, tt.digest))
		})
	}
}

func TestNewPasswordHasherCostFallback(t *testing.T) {
	h := NewPasswordHasher(99)

	digest, err := h.Hash("secret1")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(digest))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
