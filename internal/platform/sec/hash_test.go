// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/signup/internal/platform/sec"
)

/*
TestHasher verifies salting and verification.
*/
func TestHasher(t *testing.T) {
	hasher := sec.NewHasher(bcrypt.MinCost)

	first, err := hasher.Hash("Secr3tPass")
	require.NoError(t, err)
	second, err := hasher.Hash("Secr3tPass")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NotContains(t, first, "Secr3tPass")
	assert.True(t, hasher.Verify("Secr3tPass", first))
	assert.True(t, hasher.Verify("Secr3tPass", second))
	assert.False(t, hasher.Verify("wrong", first))
	assert.False(t, hasher.Verify("Secr3tPass", "not-a-hash"))
}

/*
TestGenerateSecureToken checks length and uniqueness of random tokens.
*/
func TestGenerateSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	second, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)

	assert.Len(t, first, 43)
	assert.NotEqual(t, first, second)
}

/*
TestHashToken is deterministic and hides the input.
*/
func TestHashToken(t *testing.T) {
	assert.Equal(t, sec.HashToken("abc"), sec.HashToken("abc"))
	assert.NotEqual(t, sec.HashToken("abc"), sec.HashToken("abd"))
	assert.Len(t, sec.HashToken("abc"), 64)
}
