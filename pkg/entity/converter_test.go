package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tehbilly/intellij-markdown/pkg/entity"
)

func TestReplace(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		opts entity.Options
		want string
	}{
		{name: "plain", raw: "hello", opts: entity.All, want: "hello"},
		{name: "html specials", raw: `a > b & "c" < d`, opts: entity.All, want: "a &gt; b &amp; &quot;c&quot; &lt; d"},
		{name: "backslash punctuation", raw: `\*not emphasis\*`, opts: entity.All, want: "*not emphasis*"},
		{name: "backslash non punctuation", raw: `\a\1`, opts: entity.All, want: `\a\1`},
		{name: "trailing backslash", raw: `end\`, opts: entity.All, want: `end\`},
		{name: "escaped ampersand stays literal", raw: `\&amp;`, opts: entity.All, want: "&amp;amp;"},
		{name: "escaped angle bracket", raw: `\<b\>`, opts: entity.All, want: "&lt;b&gt;"},
		{name: "named", raw: "&copy; 2024", opts: entity.All, want: "© 2024"},
		{name: "named special is re-escaped", raw: "&lt;tag&gt;", opts: entity.All, want: "&lt;tag&gt;"},
		{name: "amp", raw: "&amp;", opts: entity.All, want: "&amp;"},
		{name: "decimal", raw: "&#65;&#66;", opts: entity.All, want: "AB"},
		{name: "hex", raw: "&#x41;&#X42;", opts: entity.All, want: "AB"},
		{name: "nul becomes replacement", raw: "&#0;", opts: entity.All, want: "\uFFFD"},
		{name: "out of range becomes replacement", raw: "&#x110000;", opts: entity.All, want: "\uFFFD"},
		{name: "too many decimal digits", raw: "&#12345678;", opts: entity.All, want: "&amp;#12345678;"},
		{name: "too many hex digits", raw: "&#x1234567;", opts: entity.All, want: "&amp;#x1234567;"},
		{name: "unknown name", raw: "&bogus;", opts: entity.All, want: "&amp;bogus;"},
		{name: "missing semicolon", raw: "&copy 2024", opts: entity.All, want: "&amp;copy 2024"},
		{name: "empty reference", raw: "&;", opts: entity.All, want: "&amp;;"},
		{name: "empty numeric", raw: "&#;", opts: entity.All, want: "&amp;#;"},
		{name: "lone ampersand", raw: "a & b", opts: entity.All, want: "a &amp; b"},
		{name: "references disabled", raw: `&copy; \*`, opts: entity.Options{BackslashEscapes: true}, want: "&amp;copy; *"},
		{name: "escapes disabled", raw: `&copy; \*`, opts: entity.Options{References: true}, want: `© \*`},
		{name: "none", raw: `&copy; \* <x>`, opts: entity.None, want: `&amp;copy; \* &lt;x&gt;`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, entity.Replace(tt.raw, tt.opts))
		})
	}
}

func TestDecode(t *testing.T) {
	assert.Equal(t, "<x> & \"y\"", entity.Decode("&lt;x&gt; &amp; &quot;y&quot;", entity.All))
	assert.Equal(t, "/url(1)", entity.Decode(`/url\(1\)`, entity.All))
	assert.Equal(t, `/url\(1\)`, entity.Decode(`/url\(1\)`, entity.None))
}

func TestEscapeHTML(t *testing.T) {
	assert.Equal(t, "&lt;a href=&quot;x&quot;&gt;&amp;copy;", entity.EscapeHTML(`<a href="x">&copy;`))
	assert.Equal(t, `\*`, entity.EscapeHTML(`\*`))
}
