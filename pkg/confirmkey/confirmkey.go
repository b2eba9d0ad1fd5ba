package confirmkey

import (
	"crypto/rand"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"
)

// Length is the size of a confirmation key in hex characters.
const Length = sha1.Size * 2

// Generate returns a 40-character lowercase hex key derived from the current
// time, a random salt and the email address. Keys are unguessable and unique
// per call even for the same address.
func Generate(email string) (string, error) {
	salt := make([]byte, 20)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to read random salt: %w", err)
	}
	saltDigest := sha1.Sum(salt)

	h := sha1.New()
	fmt.Fprintf(h, "%d", time.Now().UnixNano())
	h.Write(saltDigest[:])
	h.Write([]byte(email))

	return hex.EncodeToString(h.Sum(nil)), nil
}
