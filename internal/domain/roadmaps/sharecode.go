package roadmaps

import (
	"crypto/rand"
	"regexp"
)

// Share codes are 6 lowercase alphanumerics: 36^6 ≈ 2.2B combinations.
const (
	ShareCodeLength  = 6
	shareCodeCharset = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// ShareCodePattern validates the wire format of a share code.
var ShareCodePattern = regexp.MustCompile(`^[a-z0-9]{6}$`)

// NewShareCode draws a random 6-character lowercase alphanumeric code.
// Uniqueness is the database's job; callers retry on ErrShareCodeTaken.
func NewShareCode() string {
	b := make([]byte, ShareCodeLength)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing means the host is broken; panic matches
		// what uuid.New does in the same situation.
		panic(err)
	}
	for i := range b {
		b[i] = shareCodeCharset[int(b[i])%len(shareCodeCharset)]
	}
	return string(b)
}
