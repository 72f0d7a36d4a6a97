package flavour

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark/util"

	"github.com/tehbilly/intellij-markdown/pkg/ast"
	"github.com/tehbilly/intellij-markdown/pkg/entity"
	"github.com/tehbilly/intellij-markdown/pkg/linkmap"
	"github.com/tehbilly/intellij-markdown/pkg/render"
)

// codeIndent is the indentation that turns a line into an indented code block.
const codeIndent = 4

type commonMark struct{}

// CommonMark returns the core dialect.
func CommonMark() Flavour { return commonMark{} }

func (commonMark) Name() string { return NameCommonMark }

func (commonMark) Strategies(links *linkmap.LinkMap) map[ast.Type]render.Strategy {
	l := &linker{links: links}
	s := map[ast.Type]render.Strategy{
		ast.Document:       render.StrategyFunc(content),
		ast.Paragraph:      wrap("<p>", "</p>\n"),
		ast.TightParagraph: render.StrategyFunc(content),
		ast.BlockQuote:     wrap("<blockquote>\n", "</blockquote>\n"),
		ast.UnorderedList:  wrap("<ul>\n", "</ul>\n"),
		ast.OrderedList:    render.StrategyFunc(orderedList),
		ast.ListItem:       render.StrategyFunc(listItem),
		ast.CodeBlock:      render.StrategyFunc(codeBlock),
		ast.CodeFence:      render.StrategyFunc(codeFence),
		ast.HTMLBlock:      render.StrategyFunc(htmlBlock),
		ast.LinkDefinition: render.StrategyFunc(nothing),
		ast.ThematicBreak:  markup("<hr />\n"),

		ast.Emphasis:           wrap("<em>", "</em>"),
		ast.Strong:             wrap("<strong>", "</strong>"),
		ast.CodeSpan:           render.StrategyFunc(codeSpan),
		ast.InlineLink:         render.StrategyFunc(l.link),
		ast.FullReferenceLink:  render.StrategyFunc(l.link),
		ast.ShortReferenceLink: render.StrategyFunc(l.link),
		ast.Image:              render.StrategyFunc(l.image),
		ast.AutoLink:           render.StrategyFunc(autoLink),
		ast.InlineHTML:         render.StrategyFunc(raw),
		ast.HTMLLine:           render.StrategyFunc(raw),
		ast.EOL:                markup("\n"),
		ast.HardLineBreak:      markup("<br />\n"),
	}
	for level := 1; level <= 6; level++ {
		tag := "h" + strconv.Itoa(level)
		s[ast.HeadingType(level)] = wrap("<"+tag+">", "</"+tag+">\n")
	}
	return s
}

func content(v *render.Visitor, _ string, n *ast.Node) error {
	return v.VisitChildren(n)
}

func wrap(open, end string) render.Strategy {
	return render.StrategyFunc(func(v *render.Visitor, source string, n *ast.Node) error {
		v.ConsumeHTML(open)
		if err := content(v, source, n); err != nil {
			return err
		}
		v.ConsumeHTML(end)
		return nil
	})
}

func markup(html string) render.Strategy {
	return render.StrategyFunc(func(v *render.Visitor, _ string, _ *ast.Node) error {
		v.ConsumeHTML(html)
		return nil
	})
}

func nothing(*render.Visitor, string, *ast.Node) error { return nil }

func raw(v *render.Visitor, source string, n *ast.Node) error {
	text, err := n.Text(source)
	if err != nil {
		return err
	}
	v.ConsumeHTML(text)
	return nil
}

// literal renders the node's source text as plain text.
func literal(v *render.Visitor, source string, n *ast.Node) error {
	text, err := n.Text(source)
	if err != nil {
		return err
	}
	v.ConsumeHTML(entity.Replace(text, entity.All))
	return nil
}

func orderedList(v *render.Visitor, source string, n *ast.Node) error {
	v.ConsumeHTML("<ol")
	if start := listStart(source, n); start != 1 {
		v.ConsumeHTML(` start="` + strconv.Itoa(start) + `"`)
	}
	v.ConsumeHTML(">\n")
	if err := content(v, source, n); err != nil {
		return err
	}
	v.ConsumeHTML("</ol>\n")
	return nil
}

func listStart(source string, list *ast.Node) int {
	item := list.FirstChild()
	if item == nil {
		return 1
	}
	number := item.Child(ast.ListNumber)
	if number == nil {
		return 1
	}
	text, err := number.Text(source)
	if err != nil {
		return 1
	}
	start, err := strconv.Atoi(strings.TrimRight(strings.TrimSpace(text), ".)"))
	if err != nil {
		return 1
	}
	return start
}

func listItem(v *render.Visitor, source string, n *ast.Node) error {
	blocks := make([]*ast.Node, 0, len(n.Children()))
	for _, child := range n.Children() {
		if t := child.Type(); t != ast.ListBullet && t != ast.ListNumber {
			blocks = append(blocks, child)
		}
	}

	v.ConsumeHTML("<li>")
	if len(blocks) > 0 && blocks[0].Type() != ast.TightParagraph {
		v.ConsumeHTML("\n")
	}
	for i, child := range blocks {
		if err := v.VisitNode(child); err != nil {
			return err
		}
		if child.Type() == ast.TightParagraph && i < len(blocks)-1 {
			v.ConsumeHTML("\n")
		}
	}
	v.ConsumeHTML("</li>\n")
	return nil
}

func codeBlock(v *render.Visitor, source string, n *ast.Node) error {
	v.ConsumeHTML("<pre><code>")
	if err := codeLines(v, source, n, codeIndent); err != nil {
		return err
	}
	v.ConsumeHTML("</code></pre>\n")
	return nil
}

// codeLines emits the CodeLine children of n with indent columns trimmed from
// each. CodePadding leaves before a line become leading spaces.
func codeLines(v *render.Visitor, source string, n *ast.Node, indent int) error {
	padding := 0
	for _, line := range n.Children() {
		if line.Type() == ast.CodePadding {
			padding++
			continue
		}
		if line.Type() != ast.CodeLine {
			continue
		}
		text, err := render.LeafText(source, line, entity.None)
		if err != nil {
			return err
		}
		v.ConsumeHTML(strings.Repeat(" ", padding))
		v.ConsumeHTML(render.TrimIndents(text, indent))
		v.ConsumeHTML("\n")
		padding = 0
	}
	return nil
}

func codeFence(v *render.Visitor, source string, n *ast.Node) error {
	v.ConsumeHTML("<pre><code")
	if info := n.Child(ast.FenceLang); info != nil {
		text, err := info.Text(source)
		if err != nil {
			return err
		}
		if fields := strings.Fields(text); len(fields) > 0 {
			v.ConsumeHTML(` class="language-` + entity.Replace(fields[0], entity.All) + `"`)
		}
	}
	v.ConsumeHTML(">")
	if err := codeLines(v, source, n, 0); err != nil {
		return err
	}
	v.ConsumeHTML("</code></pre>\n")
	return nil
}

func htmlBlock(v *render.Visitor, source string, n *ast.Node) error {
	for _, line := range n.Children() {
		if err := v.VisitLeaf(line); err != nil {
			return err
		}
		v.ConsumeHTML("\n")
	}
	return nil
}

func codeSpan(v *render.Visitor, source string, n *ast.Node) error {
	v.ConsumeHTML("<code>")
	for _, child := range n.Children() {
		switch child.Type() {
		case ast.EOL:
			v.ConsumeHTML(" ")
		default:
			text, err := render.LeafText(source, child, entity.None)
			if err != nil {
				return err
			}
			v.ConsumeHTML(text)
		}
	}
	v.ConsumeHTML("</code>")
	return nil
}

func autoLink(v *render.Visitor, source string, n *ast.Node) error {
	target := n.Child(ast.URL)
	if target == nil {
		return literal(v, source, n)
	}
	text, err := target.Text(source)
	if err != nil {
		return err
	}
	dest := text
	switch {
	case strings.HasPrefix(text, "www."):
		dest = "http://" + text
	case !strings.Contains(text, ":") && strings.Contains(text, "@"):
		dest = "mailto:" + text
	}
	v.ConsumeHTML(`<a href="` + href(dest) + `">` + entity.EscapeHTML(text) + "</a>")
	return nil
}

// href percent-encodes a destination and escapes it for an attribute value.
func href(dest string) string {
	return entity.EscapeHTML(string(util.URLEscape([]byte(dest), false)))
}

type linker struct {
	links *linkmap.LinkMap
}

// target resolves the destination of a link or image. Inline forms always resolve;
// reference forms resolve through the link map.
func (l *linker) target(source string, n *ast.Node) (linkmap.Definition, bool, error) {
	if dest := n.Child(ast.LinkDestination); dest != nil || n.Type() == ast.InlineLink {
		var def linkmap.Definition
		if dest != nil {
			text, err := dest.Text(source)
			if err != nil {
				return def, false, err
			}
			def.Destination = linkmap.Destination(text)
		}
		if title := n.Child(ast.LinkTitle); title != nil {
			text, err := title.Text(source)
			if err != nil {
				return def, false, err
			}
			def.Title = linkmap.Title(text)
		}
		return def, true, nil
	}

	label := n.Child(ast.LinkLabel)
	if label == nil {
		label = n.Child(ast.LinkText)
	}
	if label == nil {
		return linkmap.Definition{}, false, nil
	}
	text, err := label.Text(source)
	if err != nil {
		return linkmap.Definition{}, false, err
	}
	def, ok := l.links.Get(text)
	return def, ok, nil
}

func (l *linker) link(v *render.Visitor, source string, n *ast.Node) error {
	def, ok, err := l.target(source, n)
	if err != nil {
		return err
	}
	if !ok {
		return literal(v, source, n)
	}

	v.ConsumeHTML(`<a href="` + href(def.Destination) + `"`)
	if def.Title != "" {
		v.ConsumeHTML(` title="` + entity.EscapeHTML(def.Title) + `"`)
	}
	v.ConsumeHTML(">")
	if text := n.Child(ast.LinkText); text != nil {
		if err := content(v, source, text); err != nil {
			return err
		}
	}
	v.ConsumeHTML("</a>")
	return nil
}

func (l *linker) image(v *render.Visitor, source string, n *ast.Node) error {
	def, ok, err := l.target(source, n)
	if err != nil {
		return err
	}
	if !ok {
		return literal(v, source, n)
	}
	alt, err := plainText(source, n.Child(ast.LinkText))
	if err != nil {
		return err
	}

	v.ConsumeHTML(`<img src="` + href(def.Destination) + `" alt="` + alt + `"`)
	if def.Title != "" {
		v.ConsumeHTML(` title="` + entity.EscapeHTML(def.Title) + `"`)
	}
	v.ConsumeHTML(" />")
	return nil
}

// plainText flattens inline content to escaped text, dropping all markup.
func plainText(source string, n *ast.Node) (string, error) {
	var (
		b   strings.Builder
		err error
	)
	ast.Walk(n, func(node *ast.Node) bool {
		if err != nil {
			return false
		}
		switch node.Type() {
		case ast.Text:
			var text string
			text, err = render.LeafText(source, node, entity.All)
			b.WriteString(text)
		case ast.EOL, ast.HardLineBreak:
			b.WriteString(" ")
		}
		return true
	})
	return b.String(), err
}
