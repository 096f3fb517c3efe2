// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

const (
	// SlugBaseMaxLen bounds the question-derived part of a slug
	SlugBaseMaxLen = 50
	// SlugSuffixLen is the length of the random slug suffix
	SlugSuffixLen = 8

	slugAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

var ErrInvalidToken = errors.New("invalid token format")

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateAdminToken creates the owner capability for a poll.
// Anyone holding it can manage the poll, so it is never shown publicly.
func GenerateAdminToken() string {
	return uuid.NewString()
}

// ValidateAdminToken checks that a token has the shape of an admin token
// before it is used in a lookup
func ValidateAdminToken(token string) error {
	if _, err := uuid.Parse(token); err != nil {
		return ErrInvalidToken
	}
	return nil
}

// GenerateBallotToken creates the token stored in the duplicate-vote cookie.
// One token is minted per accepted ballot, shared by all its vote rows.
func GenerateBallotToken() (string, error) {
	b := make([]byte, 32) // 256 bits of entropy
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate ballot token: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// GenerateSlug creates a URL slug from the question plus a random suffix.
// Uniqueness is enforced by the store, which calls this again on collision.
func GenerateSlug(question string) (string, error) {
	suffix, err := randomString(SlugSuffixLen, slugAlphabet)
	if err != nil {
		return "", fmt.Errorf("failed to generate slug: %w", err)
	}

	base := Slugify(question)
	if base == "" {
		return suffix, nil
	}
	return base + "-" + suffix, nil
}

// Slugify lower-cases text and collapses every run of non-alphanumeric
// characters into a single hyphen, truncated to SlugBaseMaxLen
func Slugify(text string) string {
	var sb strings.Builder
	pendingSep := false

	for _, r := range strings.ToLower(text) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingSep && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			pendingSep = false
			sb.WriteRune(r)
			continue
		}
		pendingSep = true
	}

	slug := sb.String()
	if len(slug) > SlugBaseMaxLen {
		slug = strings.TrimRight(slug[:SlugBaseMaxLen], "-")
	}
	return slug
}

func randomString(n int, alphabet string) (string, error) {
	limit := big.NewInt(int64(len(alphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out), nil
}
