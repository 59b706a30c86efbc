package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"portfolio-backend/internal/auth"
)

var fastParams = auth.Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLen: 16, KeyLen: 32}

func TestHashAndVerifyPassword(t *testing.T) {
	h, err := auth.HashPassword("secret", fastParams)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(h, "argon2id$v=19$m=1024,t=1,p=1$"))

	ok, err := auth.VerifyPassword("secret", h)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = auth.VerifyPassword("wrong", h)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = auth.VerifyPassword("", h)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPassword_Malformed(t *testing.T) {
	for _, encoded := range []string{
		"plain",
		"bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"argon2id$v=18$m=1024,t=1,p=1$c2FsdHNhbHRzYWx0$aGFzaGhhc2hoYXNoaGFzaA",
		"argon2id$v=19$m=1024,x=1,p=1$c2FsdHNhbHRzYWx0$aGFzaGhhc2hoYXNoaGFzaA",
	} {
		_, err := auth.VerifyPassword("secret", encoded)
		assert.ErrorIs(t, err, auth.ErrInvalidHash, encoded)
	}
}

func TestAdminSecret(t *testing.T) {
	s, err := auth.NewAdminSecretWithParams("hunter2", "", fastParams)
	require.NoError(t, err)
	assert.True(t, s.Matches("hunter2"))
	assert.False(t, s.Matches("hunter"))
	assert.False(t, s.Matches(" hunter2"))
	assert.False(t, s.Matches(""))

	h, err := auth.HashPassword("from-hash", fastParams)
	require.NoError(t, err)
	s, err = auth.NewAdminSecretWithParams("ignored", h, fastParams)
	require.NoError(t, err)
	assert.True(t, s.Matches("from-hash"))
	assert.False(t, s.Matches("ignored"))

	_, err = auth.NewAdminSecret("", "not-a-hash")
	assert.Error(t, err)
}
