package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("pw123", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "pw123", hash)

	assert.NoError(t, ComparePassword(hash, "pw123"))

	err = ComparePassword(hash, "wrong")
	require.Error(t, err)
	assert.True(t, IsMismatch(err))
}

func TestHashPassword_OutOfRangeCostUsesDefault(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("pw", 0)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestComparePassword_CorruptDigestIsNotMismatch(t *testing.T) {
	t.Parallel()

	err := ComparePassword("not-a-bcrypt-hash", "pw")
	require.Error(t, err)
	assert.False(t, IsMismatch(err))
}

func TestHashPassword_LongPasswords(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("p", 100)
	hash, err := HashPassword(long, bcrypt.MinCost)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, long))

	// passwords sharing the first 72 bytes must still differ
	err = ComparePassword(hash, strings.Repeat("p", 72)+"q")
	require.Error(t, err)
	assert.True(t, IsMismatch(err))
}
