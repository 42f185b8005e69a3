package util

import (
	"strings"

	"github.com/google/uuid"
)

const guestIDPrefix = "guest_"

// NewGuestID mints a guest cart identifier. Shoppers normally generate these
// client-side on first cart interaction; the server mints one only for tools
// and tests.
func NewGuestID() string {
	return guestIDPrefix + uuid.NewString()
}

// IsGuestID reports whether s looks like a guest identifier
func IsGuestID(s string) bool {
	return strings.HasPrefix(s, guestIDPrefix) && len(s) > len(guestIDPrefix)
}
