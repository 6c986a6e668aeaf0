// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var ErrPasswordMismatch = errors.New("password does not match")

// PasswordCost is the bcrypt work factor. Tests lower it to bcrypt.MinCost.
var PasswordCost = bcrypt.DefaultCost

// GeneratedPasswordLength is the length of one-time credentials.
const GeneratedPasswordLength = 12

const base62Chars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// HashPassword returns a salted bcrypt hash of the raw password
func HashPassword(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a raw password with a stored hash
func CheckPassword(hash, raw string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	if err != nil {
		return fmt.Errorf("failed to compare password: %w", err)
	}
	return nil
}

// GeneratePassword creates a random one-time credential (0-9, a-z, A-Z)
func GeneratePassword() (string, error) {
	result := make([]byte, 0, GeneratedPasswordLength)
	buf := make([]byte, GeneratedPasswordLength*2)

	for len(result) < GeneratedPasswordLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		for _, b := range buf {
			// 248 is the largest multiple of 62 below 256; higher bytes would bias the alphabet
			if b >= 248 {
				continue
			}
			result = append(result, base62Chars[b%62])
			if len(result) == GeneratedPasswordLength {
				break
			}
		}
	}

	return string(result), nil
}
