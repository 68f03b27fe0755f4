package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// NewSessionToken returns a 64-char hex token from 32 random bytes.
// Possession of the raw token is the sole credential; only HashToken(t)
// is ever persisted.
func NewSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// HashToken is the one-way form a session token is stored under.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// RandomSuffix returns n hex chars for de-duplicating stored filenames.
func RandomSuffix(n int) (string, error) {
	buf := make([]byte, (n+1)/2)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf)[:n], nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SafeFilename strips anything outside [A-Za-z0-9._-] from a client
// supplied filename.
func SafeFilename(name string) string {
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")
	if name == "" {
		return "file"
	}
	return name
}

var nameSeparators = regexp.MustCompile(`[._-]+`)

// FullNameFromEmail guesses a display name from the address local part
// when registration omits one.
func FullNameFromEmail(email string) string {
	local := email
	if i := strings.IndexByte(email, '@'); i >= 0 {
		local = email[:i]
	}
	guess := nameSeparators.ReplaceAllString(local, " ")
	guess = strings.ToUpper(strings.TrimSpace(guess))
	if guess == "" {
		return "JABU STUDENT"
	}
	return guess
}
