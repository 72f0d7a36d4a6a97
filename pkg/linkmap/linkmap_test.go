package linkmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tehbilly/intellij-markdown/pkg/ast"
	"github.com/tehbilly/intellij-markdown/pkg/linkmap"
)

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Foo", "foo"},
		{"[Foo Bar]", "foo bar"},
		{"  foo \t\n  bar ", "foo bar"},
		{"ΑΓΩ", "αγω"},
		{"[]", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, linkmap.NormalizeLabel(tt.in))
		})
	}
}

func TestLinkMap(t *testing.T) {
	m := linkmap.New(map[string]linkmap.Definition{
		"Foo": {Destination: "/foo"},
	})
	assert.Equal(t, 1, m.Len())

	def, ok := m.Get("[FOO]")
	require.True(t, ok)
	assert.Equal(t, "/foo", def.Destination)

	assert.False(t, m.Add("foo", linkmap.Definition{Destination: "/other"}), "first definition wins")
	assert.True(t, m.Add("Bar  Baz", linkmap.Definition{Destination: "/bar", Title: "B"}))
	assert.False(t, m.Add("  ", linkmap.Definition{}))

	assert.Equal(t, []string{"bar baz", "foo"}, m.Labels())

	_, ok = m.Get("missing")
	assert.False(t, ok)

	var nilMap *linkmap.LinkMap
	_, ok = nilMap.Get("foo")
	assert.False(t, ok)
	assert.Zero(t, nilMap.Len())
}

func TestBuild(t *testing.T) {
	src := "[One]: <my url> 'first'\n[two]: /two\n[ONE]: /ignored\n\n[three]: /a\\*b&amp;c (third)\n"
	root := ast.NewBuilder(src).
		Open(ast.LinkDefinition).
		Token(ast.LinkLabel, "[One]").Token(ast.LinkDestination, "<my url>").Token(ast.LinkTitle, "'first'").
		Close().
		Open(ast.LinkDefinition).
		Token(ast.LinkLabel, "[two]").Token(ast.LinkDestination, "/two").
		Close().
		Open(ast.LinkDefinition).
		Token(ast.LinkLabel, "[ONE]").Token(ast.LinkDestination, "/ignored").
		Close().
		Open(ast.BlockQuote).
		Open(ast.LinkDefinition).
		Token(ast.LinkLabel, "[three]").Token(ast.LinkDestination, `/a\*b&amp;c`).Token(ast.LinkTitle, "(third)").
		Close().
		Close().
		MustBuild()

	m, err := linkmap.Build(root, src)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Len())

	one, _ := m.Get("one")
	assert.Equal(t, linkmap.Definition{Destination: "my url", Title: "first"}, one)

	two, _ := m.Get("two")
	assert.Equal(t, linkmap.Definition{Destination: "/two"}, two)

	three, _ := m.Get("THREE")
	assert.Equal(t, linkmap.Definition{Destination: "/a*b&c", Title: "third"}, three)
}

func TestBuild_Errors(t *testing.T) {
	root := ast.New(ast.Document, 0, 3,
		ast.New(ast.LinkDefinition, 0, 3, ast.Leaf(ast.LinkLabel, 0, 30)),
	)
	_, err := linkmap.Build(root, "[a]")
	assert.ErrorIs(t, err, ast.ErrSpanOutOfRange)

	m, err := linkmap.Build(nil, "")
	require.NoError(t, err)
	assert.Zero(t, m.Len())
}
