package input_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tehbilly/intellij-markdown/internal/input"
)

func TestSanitizeWithLimit_Size(t *testing.T) {
	limit := 64

	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"Under Limit", limit - 1, false},
		{"Exact Limit", limit, false},
		{"Over Limit", limit + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := input.SanitizeWithLimit(strings.Repeat("a", tt.size), limit)
			if tt.wantErr {
				assert.ErrorIs(t, err, input.ErrInputTooLarge)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSanitize_ControlChars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Normal Text", "# Hello *World*", "# Hello *World*"},
		{"Safe Controls", "a\r\nb\tc\fd", "a\r\nb\tc\fd"},
		{"ANSI Code", "\x1b[31mRed\x1b[0m", "[31mRed[0m"},
		{"Null Byte", "Null\x00Byte", "NullByte"},
		{"Bell", "Ding\x07", "Ding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := input.Sanitize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSanitize_InvalidUTF8(t *testing.T) {
	_, err := input.Sanitize("bad \xff byte")
	assert.ErrorIs(t, err, input.ErrInvalidUTF8)
}

func TestMaxInputSize_Env(t *testing.T) {
	assert.Equal(t, input.DefaultMaxInputSize, input.MaxInputSize())

	t.Setenv(input.EnvMaxInputSize, "10")
	assert.Equal(t, 10, input.MaxInputSize())

	_, err := input.Sanitize(strings.Repeat("x", 11))
	assert.ErrorIs(t, err, input.ErrInputTooLarge)

	t.Setenv(input.EnvMaxInputSize, "garbage")
	assert.Equal(t, input.DefaultMaxInputSize, input.MaxInputSize())
}

func TestRead(t *testing.T) {
	got, err := input.Read(strings.NewReader("*hi*\x1b"), 16)
	require.NoError(t, err)
	assert.Equal(t, "*hi*", got)

	_, err = input.Read(strings.NewReader(strings.Repeat("y", 17)), 16)
	assert.ErrorIs(t, err, input.ErrInputTooLarge)
}
