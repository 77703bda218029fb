package id

import (
	"strings"

	"github.com/google/uuid"
)

// NewID32 returns a random (v4) UUID as exactly 32 lowercase hex characters,
// no separators. Fits the CHAR(32) public id columns.
func NewID32() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// IsUUID reports whether s parses as a UUID in any of the forms uuid.Parse
// accepts.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
