package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashAndCompare(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("hunter2hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2hunter2", hash)

	assert.NoError(t, hasher.Compare(hash, "hunter2hunter2"))
	assert.Error(t, hasher.Compare(hash, "wrong"))
}

func TestPasswordHasherClampsCost(t *testing.T) {
	hasher := NewPasswordHasher(99)
	assert.Equal(t, bcrypt.DefaultCost, hasher.cost)

	hasher = NewPasswordHasher(0)
	assert.Equal(t, bcrypt.DefaultCost, hasher.cost)
}
