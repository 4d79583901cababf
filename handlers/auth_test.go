package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordForUser(t *testing.T) {
	hash, err := HashPasswordForUser("padraic", "secret")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("wrong")))
}

func TestHashPasswordForUserValidation(t *testing.T) {
	_, err := HashPasswordForUser("", "secret")
	assert.Error(t, err)
	_, err = HashPasswordForUser("padraic", "  ")
	assert.Error(t, err)
}
