// Package entity decodes backslash escapes and character references in literal
// markup text and escapes the result for inclusion in HTML.
package entity

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark/util"
)

// Options selects which decodings Replace and Decode perform.
type Options struct {
	// BackslashEscapes turns `\` followed by ASCII punctuation into the punctuation.
	BackslashEscapes bool
	// References turns numeric (&#65; &#x41;) and named (&copy;) references into characters.
	References bool
}

var (
	// All is the setting for ordinary content.
	All = Options{BackslashEscapes: true, References: true}
	// None keeps the text raw, e.g. inside code.
	None = Options{}
)

const (
	maxDecimalDigits = 7
	maxHexDigits     = 6
	specials         = "\\&<>\""
)

// Replace decodes raw according to opts and HTML-escapes the result.
// Malformed or unknown references are left as they are, so their '&' is escaped.
func Replace(raw string, opts Options) string {
	return convert(raw, opts, true)
}

// Decode decodes raw according to opts without escaping.
// Used for attribute material such as link destinations and info strings.
func Decode(raw string, opts Options) string {
	return convert(raw, opts, false)
}

// EscapeHTML escapes &, <, > and " without decoding anything.
func EscapeHTML(s string) string {
	return convert(s, None, true)
}

func convert(raw string, opts Options, escape bool) string {
	if !strings.ContainsAny(raw, specials) {
		return raw
	}

	var b strings.Builder
	b.Grow(len(raw))
	write := func(c byte) {
		if escape {
			if esc := util.EscapeHTMLByte(c); esc != nil {
				b.Write(esc)
				return
			}
		}
		b.WriteByte(c)
	}

	for i := 0; i < len(raw); {
		c := raw[i]
		switch {
		case c == '\\' && opts.BackslashEscapes && i+1 < len(raw) && util.IsPunct(raw[i+1]):
			write(raw[i+1])
			i += 2
		case c == '&' && opts.References:
			decoded, n, ok := reference(raw[i:])
			if !ok {
				write(c)
				i++
				continue
			}
			for j := 0; j < len(decoded); j++ {
				write(decoded[j])
			}
			i += n
		default:
			write(c)
			i++
		}
	}
	return b.String()
}

// reference decodes the character reference at the start of s (which begins with '&').
// It returns the decoded text and the number of bytes consumed.
func reference(s string) (string, int, bool) {
	if len(s) < 3 {
		return "", 0, false
	}
	if s[1] == '#' {
		return numericReference(s)
	}

	end := 1
	for end < len(s) && util.IsAlphaNumeric(s[end]) {
		end++
	}
	if end == 1 || end >= len(s) || s[end] != ';' {
		return "", 0, false
	}
	e, ok := util.LookUpHTML5EntityByName(s[1:end])
	if !ok {
		return "", 0, false
	}
	return string(e.Characters), end + 1, true
}

func numericReference(s string) (string, int, bool) {
	start, base, limit, digit := 2, 10, maxDecimalDigits, util.IsNumeric
	if len(s) > 2 && (s[2] == 'x' || s[2] == 'X') {
		start, base, limit, digit = 3, 16, maxHexDigits, util.IsHexDecimal
	}

	end := start
	for end < len(s) && digit(s[end]) {
		end++
	}
	digits := end - start
	if digits == 0 || digits > limit || end >= len(s) || s[end] != ';' {
		return "", 0, false
	}

	v, err := strconv.ParseUint(s[start:end], base, 32)
	if err != nil {
		return "", 0, false
	}
	return string(util.ToValidRune(rune(v))), end + 1, true
}
