// Package input validates markdown received from users before it is rendered.
package input

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxInputSize is 1 MiB.
	DefaultMaxInputSize = 1 << 20
	// EnvMaxInputSize is the environment variable to override the default.
	EnvMaxInputSize = "MDHTML_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// Sanitize applies Sanitizer with the configured size limit.
func Sanitize(input string) (string, error) {
	return SanitizeWithLimit(input, MaxInputSize())
}

// SanitizeWithLimit cleans user input by enforcing size limits,
// validating UTF-8, and stripping control characters other than
// newline, carriage return, tab and form feed. A limit <= 0 disables the
// size check.
func SanitizeWithLimit(input string, limit int) (string, error) {
	if limit > 0 && len(input) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}

	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	clean := true
	for _, r := range input {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

// Read reads at most limit bytes from r and sanitizes them.
// Oversized input is rejected, not truncated.
func Read(r io.Reader, limit int) (string, error) {
	if limit <= 0 {
		limit = MaxInputSize()
	}
	data, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return SanitizeWithLimit(string(data), limit)
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r' || r == '\f'
}

// MaxInputSize returns the size limit, honouring EnvMaxInputSize.
func MaxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
