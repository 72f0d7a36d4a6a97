package flavour_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tehbilly/intellij-markdown/pkg/ast"
	"github.com/tehbilly/intellij-markdown/pkg/flavour"
	"github.com/tehbilly/intellij-markdown/pkg/render"
)

type golden struct {
	name  string
	src   string
	build func(b *ast.Builder) *ast.Builder
	want  string
}

func runGolden(t *testing.T, f flavour.Flavour, tests []golden) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := tt.build(ast.NewBuilder(tt.src)).Build()
			require.NoError(t, err)

			html, err := render.Generate(tt.src, root, f)
			require.NoError(t, err)
			assert.Equal(t, tt.want, html)
		})
	}
}

func TestCommonMark(t *testing.T) {
	runGolden(t, flavour.CommonMark(), []golden{
		{
			name: "paragraph with inline markup",
			src:  "Hello *world* & **you**\nnext  \nline",
			build: func(b *ast.Builder) *ast.Builder {
				return b.Open(ast.Paragraph).
					Token(ast.Text, "Hello ").
					Open(ast.Emphasis).Skip("*").Token(ast.Text, "world").Skip("*").Close().
					Token(ast.Text, " & ").
					Open(ast.Strong).Skip("**").Token(ast.Text, "you").Skip("**").Close().
					Token(ast.EOL, "\n").
					Token(ast.Text, "next").
					Token(ast.HardLineBreak, "  \n").
					Token(ast.Text, "line").
					Close()
			},
			want: "<p>Hello <em>world</em> &amp; <strong>you</strong>\nnext<br />\nline</p>\n",
		},
		{
			name: "heading",
			src:  "## Title &amp; more",
			build: func(b *ast.Builder) *ast.Builder {
				return b.Open(ast.Heading2).Skip("## ").Token(ast.Text, "Title &amp; more").Close()
			},
			want: "<h2>Title &amp; more</h2>\n",
		},
		{
			name: "block quote hides markers",
			src:  "> quote\n> on",
			build: func(b *ast.Builder) *ast.Builder {
				return b.Open(ast.BlockQuote).
					Token(ast.BlockQuoteMarker, ">").
					Open(ast.Paragraph).
					Token(ast.Text, "quote").Token(ast.EOL, "\n").
					Token(ast.BlockQuoteMarker, ">").
					Token(ast.Text, "on").
					Close().
					Close()
			},
			want: "<blockquote>\n<p>quote\non</p>\n</blockquote>\n",
		},
		{
			name: "thematic break",
			src:  "***",
			build: func(b *ast.Builder) *ast.Builder {
				return b.Token(ast.ThematicBreak, "***")
			},
			want: "<hr />\n",
		},
		{
			name: "tight ordered list with start",
			src:  "3. one\n4. two",
			build: func(b *ast.Builder) *ast.Builder {
				return b.Open(ast.OrderedList).
					Open(ast.ListItem).Token(ast.ListNumber, "3.").
					Open(ast.TightParagraph).Token(ast.Text, "one").Close().
					Close().
					Open(ast.ListItem).Token(ast.ListNumber, "4.").
					Open(ast.TightParagraph).Token(ast.Text, "two").Close().
					Close().
					Close()
			},
			want: "<ol start=\"3\">\n<li>one</li>\n<li>two</li>\n</ol>\n",
		},
		{
			name: "ordered list starting at one",
			src:  "1) one",
			build: func(b *ast.Builder) *ast.Builder {
				return b.Open(ast.OrderedList).
					Open(ast.ListItem).Token(ast.ListNumber, "1)").
					Open(ast.TightParagraph).Token(ast.Text, "one").Close().
					Close().
					Close()
			},
			want: "<ol>\n<li>one</li>\n</ol>\n",
		},
		{
			name: "tight list with nested list",
			src:  "- a\n  - b",
			build: func(b *ast.Builder) *ast.Builder {
				return b.Open(ast.UnorderedList).
					Open(ast.ListItem).Token(ast.ListBullet, "-").
					Open(ast.TightParagraph).Token(ast.Text, "a").Close().
					Open(ast.UnorderedList).
					Open(ast.ListItem).Token(ast.ListBullet, "-").
					Open(ast.TightParagraph).Token(ast.Text, "b").Close().
					Close().
					Close().
					Close().
					Close()
			},
			want: "<ul>\n<li>a\n<ul>\n<li>b</li>\n</ul>\n</li>\n</ul>\n",
		},
		{
			name: "loose list",
			src:  "- a\n\n  b",
			build: func(b *ast.Builder) *ast.Builder {
				return b.Open(ast.UnorderedList).
					Open(ast.ListItem).Token(ast.ListBullet, "-").
					Open(ast.Paragraph).Token(ast.Text, "a").Close().
					Open(ast.Paragraph).Token(ast.Text, "b").Close().
					Close().
					Close()
			},
			want: "<ul>\n<li>\n<p>a</p>\n<p>b</p>\n</li>\n</ul>\n",
		},
		{
			name: "indented code trims four columns",
			src:  "    x < y\n\tz\n      w",
			build: func(b *ast.Builder) *ast.Builder {
				return b.Open(ast.CodeBlock).
					Token(ast.CodeLine, "    x < y").
					Token(ast.CodeLine, "\tz").
					Token(ast.CodeLine, "      w").
					Close()
			},
			want: "<pre><code>x &lt; y\nz\n  w\n</code></pre>\n",
		},
		{
			name: "code padding becomes leading spaces",
			src:  "\tbar\n\t\tbaz",
			build: func(b *ast.Builder) *ast.Builder {
				return b.Open(ast.CodeBlock).
					Empty(ast.CodePadding).Empty(ast.CodePadding).
					Token(ast.CodeLine, "\tbar").
					Token(ast.CodeLine, "\t\tbaz").
					Close()
			},
			want: "<pre><code>  bar\n\tbaz\n</code></pre>\n",
		},
		{
			name: "fenced code padding",
			src:  "```\n\tx\n```",
			build: func(b *ast.Builder) *ast.Builder {
				return b.Open(ast.CodeFence).
					Skip("```").
					Empty(ast.CodePadding).
					Token(ast.CodeLine, "\tx").
					Skip("```").
					Close()
			},
			want: "<pre><code> \tx\n</code></pre>\n",
		},
		{
			name: "fenced code keeps references literal",
			src:  "```go\nfmt.Println(\"&amp;\")\n```",
			build: func(b *ast.Builder) *ast.Builder {
				return b.Open(ast.CodeFence).
					Skip("```").Token(ast.FenceLang, "go").
					Token(ast.CodeLine, `fmt.Println("&amp;")`).
					Skip("```").
					Close()
			},
			want: "<pre><code class=\"language-go\">fmt.Println(&quot;&amp;amp;&quot;)\n</code></pre>\n",
		},
		{
			name: "code span",
			src:  "`a <b>\nc`",
			build: func(b *ast.Builder) *ast.Builder {
				return b.Open(ast.Paragraph).
					Open(ast.CodeSpan).
					Skip("`").Token(ast.Text, "a <b>").Token(ast.EOL, "\n").Token(ast.Text, "c").Skip("`").
					Close().
					Close()
			},
			want: "<p><code>a &lt;b&gt; c</code></p>\n",
		},
		{
			name: "html is raw",
			src:  "<div>\n*x*\n</div>\n\na <span>b</span>",
			build: func(b *ast.Builder) *ast.Builder {
				return b.Open(ast.HTMLBlock).
					Token(ast.HTMLLine, "<div>").Token(ast.HTMLLine, "*x*").Token(ast.HTMLLine, "</div>").
					Close().
					Open(ast.Paragraph).
					Token(ast.Text, "a ").Token(ast.InlineHTML, "<span>").Token(ast.Text, "b").Token(ast.InlineHTML, "</span>").
					Close()
			},
			want: "<div>\n*x*\n</div>\n<p>a <span>b</span></p>\n",
		},
		{
			name: "autolinks",
			src:  "<https://x.io/a b> <me@x.io>",
			build: func(b *ast.Builder) *ast.Builder {
				return b.Open(ast.Paragraph).
					Open(ast.AutoLink).Skip("<").Token(ast.URL, "https://x.io/a b").Skip(">").Close().
					Token(ast.Text, " ").
					Open(ast.AutoLink).Skip("<").Token(ast.URL, "me@x.io").Skip(">").Close().
					Close()
			},
			want: "<p><a href=\"https://x.io/a%20b\">https://x.io/a b</a> <a href=\"mailto:me@x.io\">me@x.io</a></p>\n",
		},
	})
}

func TestCommonMark_Links(t *testing.T) {
	src := "[x](/u?a=1&b=2 \"T\") [y][Ref] [ref] ![alt *e*](/i.png) [nope][missing] [](<my dest>)\n\n[ref]: /r 'R'"
	linkText := func(b *ast.Builder, text string) *ast.Builder {
		return b.Skip("[").Open(ast.LinkText).Token(ast.Text, text).Close().Skip("]")
	}

	b := ast.NewBuilder(src).Open(ast.Paragraph)
	b.Open(ast.InlineLink)
	linkText(b, "x").Skip("(").
		Token(ast.LinkDestination, "/u?a=1&b=2").Token(ast.LinkTitle, `"T"`).Skip(")").
		Close().
		Token(ast.Text, " ")

	b.Open(ast.FullReferenceLink)
	linkText(b, "y").Token(ast.LinkLabel, "[Ref]").
		Close().
		Token(ast.Text, " ")

	b.Open(ast.ShortReferenceLink)
	linkText(b, "ref").
		Close().
		Token(ast.Text, " ")

	b.Open(ast.Image).Skip("![").
		Open(ast.LinkText).
		Token(ast.Text, "alt ").
		Open(ast.Emphasis).Skip("*").Token(ast.Text, "e").Skip("*").Close().
		Close().
		Skip("](").Token(ast.LinkDestination, "/i.png").Skip(")").
		Close().
		Token(ast.Text, " ")

	b.Open(ast.FullReferenceLink)
	linkText(b, "nope").Token(ast.LinkLabel, "[missing]").
		Close().
		Token(ast.Text, " ")

	b.Open(ast.InlineLink).Skip("[").Open(ast.LinkText).Close().Skip("](").
		Token(ast.LinkDestination, "<my dest>").Skip(")").
		Close()
	b.Close()

	b.Open(ast.LinkDefinition).
		Token(ast.LinkLabel, "[ref]").Token(ast.LinkDestination, "/r").Token(ast.LinkTitle, "'R'").
		Close()

	root, err := b.Build()
	require.NoError(t, err)

	html, err := render.Generate(src, root, flavour.CommonMark())
	require.NoError(t, err)
	assert.Equal(t, "<p>"+
		`<a href="/u?a=1&amp;b=2" title="T">x</a> `+
		`<a href="/r" title="R">y</a> `+
		`<a href="/r" title="R">ref</a> `+
		`<img src="/i.png" alt="alt e" /> `+
		`[nope][missing] `+
		`<a href="my%20dest"></a>`+
		"</p>\n", html)
}
