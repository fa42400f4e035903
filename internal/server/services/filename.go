package services

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// maxNameBytes bounds the sanitised original-name part of a storage
// filename so the whole name stays under common filesystem limits.
const maxNameBytes = 128

// StorageFilename derives the blob name of an upload: the sanitised
// "{user}_{date}_{name}". The same inputs always give the same name, which
// is what makes a repeated upload of one file on one day a duplicate.
// It returns "" when nothing usable is left of originalName.
func StorageFilename(userID, date, originalName string) string {
	name := SanitizeFilename(originalName)
	if name == "" {
		return ""
	}
	if len(name) > maxNameBytes {
		ext := path.Ext(name)
		if len(ext) > 16 {
			ext = ""
		}
		name = name[:maxNameBytes-len(ext)] + ext
	}
	return userPrefix(userID) + "_" + date + "_" + name
}

// SanitizeFilename keeps the final path element of name, folds accents to
// ASCII, turns whitespace runs into "_" and drops everything outside
// [A-Za-z0-9._-]. Leading and trailing dots and underscores are trimmed so
// the result is never hidden or a dot directory.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = path.Base(name)
	if name == "/" || name == "." {
		return ""
	}

	name = strings.Join(strings.Fields(norm.NFKD.String(name)), "_")

	var b strings.Builder
	for _, r := range name {
		if r < unicode.MaxASCII && isSafe(r) {
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "._")
}

func isSafe(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' ||
		r == '_' || r == '.' || r == '-'
}

// userPrefix is userID when it is filename-safe and contains no "_", and a
// short hash of it otherwise. The prefix never contains "_", so the first
// "_" of a storage filename always ends it, and an id that itself looks
// like a hash is hashed again. Distinct users never share a prefix.
func userPrefix(userID string) string {
	if userID != "" && !strings.Contains(userID, "_") && !looksHashed(userID) {
		safe := true
		for _, r := range userID {
			if !isSafe(r) {
				safe = false
				break
			}
		}
		if safe {
			return userID
		}
	}
	sum := sha256.Sum256([]byte(userID))
	return "u" + hex.EncodeToString(sum[:8])
}

// looksHashed reports whether s has the "u" + 16 hex digits shape produced
// by userPrefix.
func looksHashed(s string) bool {
	if len(s) != 17 || s[0] != 'u' {
		return false
	}
	for _, r := range s[1:] {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			return false
		}
	}
	return true
}
