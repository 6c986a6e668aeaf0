// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func init() {
	PasswordCost = bcrypt.MinCost
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.NotContains(t, hash, "correct horse")
	assert.NoError(t, CheckPassword(hash, "correct horse"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong horse"), ErrPasswordMismatch)
}

func TestHashPassword_Salted(t *testing.T) {
	h1, err := HashPassword("same")
	require.NoError(t, err)
	h2, err := HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2, "two hashes of the same password must differ")
}

func TestCheckPassword_CorruptHash(t *testing.T) {
	err := CheckPassword("not-a-bcrypt-hash", "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPasswordMismatch)
}

func TestGeneratePassword(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		p, err := GeneratePassword()
		require.NoError(t, err)
		assert.Len(t, p, GeneratedPasswordLength)
		for _, c := range p {
			assert.True(t, strings.ContainsRune(base62Chars, c), "unexpected char %q", c)
		}
		assert.False(t, seen[p], "duplicate password generated")
		seen[p] = true
	}
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, 24*time.Hour)

	token, expires, err := issuer.Issue(42)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expires, time.Minute)

	userID, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestTokenVerify_Failures(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, 24*time.Hour)
	valid, _, err := issuer.Issue(7)
	require.NoError(t, err)

	expiredIssuer := NewTokenIssuer(testSecret, 24*time.Hour)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-25 * time.Hour) }
	expired, _, err := expiredIssuer.Issue(7)
	require.NoError(t, err)

	otherKey, _, err := NewTokenIssuer("ffffffffffffffffffffffffffffffff", time.Hour).Issue(7)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	// Change a character in the middle of the signature
	sigStart := strings.LastIndexByte(valid, '.') + 1
	pos := sigStart + (len(valid)-sigStart)/2
	replacement := "A"
	if valid[pos] == 'A' {
		replacement = "B"
	}
	tampered := valid[:pos] + replacement + valid[pos+1:]

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"expired", expired, ErrTokenExpired},
		{"signed with another key", otherKey, ErrTokenUnsigned},
		{"alg none", unsigned, ErrTokenUnsigned},
		{"tampered signature", tampered, ErrTokenUnsigned},
		{"garbage", "not.a.token", ErrTokenMalformed},
		{"empty", "", ErrTokenMalformed},
		{"missing user id", noUser, ErrTokenMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Verify(tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTokenSecretRotation(t *testing.T) {
	token, _, err := NewTokenIssuer(testSecret, time.Hour).Issue(1)
	require.NoError(t, err)

	rotated := NewTokenIssuer("abcdefabcdefabcdefabcdefabcdefab", time.Hour)
	_, err = rotated.Verify(token)
	assert.ErrorIs(t, err, ErrTokenUnsigned)
}
