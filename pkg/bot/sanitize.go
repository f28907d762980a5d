package bot

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	// DefaultMaxInputSize is 64KB, comfortably above a chat message.
	DefaultMaxInputSize = 64 * 1024
	// EnvMaxInputSize is the environment variable to override the default
	EnvMaxInputSize = "LISTBOT_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// SanitizeInput trims surrounding whitespace, enforces a size limit and validates UTF-8.
// The text itself is returned as sent: control characters are list content too.
// A limit <= 0 falls back to the environment override or DefaultMaxInputSize.
func SanitizeInput(input string, limit int) (string, error) {
	input = strings.TrimSpace(input)

	limit = ResolveMaxInputSize(limit)
	if len(input) > limit {
		// Reject rather than truncate: a cut list would silently give a wrong result.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}

	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}
	return input, nil
}

// ResolveMaxInputSize returns limit when positive, else the LISTBOT_MAX_INPUT_SIZE
// override or DefaultMaxInputSize.
func ResolveMaxInputSize(limit int) int {
	if limit > 0 {
		return limit
	}
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
