package util

import (
	"fmt"
	"regexp"
)

// maxIDLength bounds owner and conversation identifiers.
const maxIDLength = 64

// validIDChars matches alphanumerics, hyphens, underscores, periods and @.
var validIDChars = regexp.MustCompile(`^[a-zA-Z0-9._@\-]+$`)

// ValidateID checks an owner or conversation identifier supplied on the
// command line:
//   - Not empty and at most 64 characters
//   - Only a-z, A-Z, 0-9, hyphens (-), underscores (_), periods (.) and @
//   - First character must be alphanumeric
func ValidateID(field, id string) error {
	if id == "" {
		return fmt.Errorf("%s must not be empty", field)
	}
	if len(id) > maxIDLength {
		return fmt.Errorf("%s must be at most %d characters, got %d", field, maxIDLength, len(id))
	}

	if !validIDChars.MatchString(id) {
		return fmt.Errorf("%s %q contains invalid characters (only a-z, A-Z, 0-9, -, _, . and @ are allowed)", field, id)
	}

	if !isAlphanumeric(id[0]) {
		return fmt.Errorf("%s must start with an alphanumeric character, got %q", field, string(id[0]))
	}

	return nil
}

func isAlphanumeric(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
