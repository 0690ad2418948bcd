package password_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dilkhush-raj/hrms/internal/password"
)

func TestHashAndVerify(t *testing.T) {
	hasher := password.NewHasher(password.Default())

	hash, err := hasher.Hash("correct horse 1")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse 1", hash)
	require.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := hasher.Verify("correct horse 1", hash)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = hasher.Verify("wrong horse 1", hash)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHashUsesFreshSalt(t *testing.T) {
	hasher := password.NewHasher(password.Default())

	first, err := hasher.Hash("same input 9")
	require.NoError(t, err)
	second, err := hasher.Hash("same input 9")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	hasher := password.NewHasher(password.Default())

	_, err := hasher.Verify("anything", "not-a-hash")
	require.ErrorIs(t, err, password.ErrInvalidHash)
}
