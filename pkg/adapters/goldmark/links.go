package goldmark

import (
	gast "github.com/yuin/goldmark/ast"

	"github.com/tehbilly/intellij-markdown/pkg/ast"
)

// link converts links and images. goldmark keeps only the resolved destination, so the
// form of the link is recovered from the source following the link text.
func (c *converter) link(n gast.Node, image bool) *ast.Node {
	opener := "["
	typ := ast.InlineLink
	if image {
		opener = "!["
		typ = ast.Image
	}

	start := c.index(opener, c.cursor)
	if start < 0 {
		return c.wrap(typ, c.children(n))
	}
	textStart := start + len(opener)
	c.seek(textStart)
	content := c.children(n)
	textEnd := c.index("]", c.cursor)
	if textEnd < 0 {
		return c.enclose(typ, start, c.cursor, content)
	}
	text := ast.New(ast.LinkText, textStart, textEnd, content...)
	c.seek(textEnd + 1)

	after := textEnd + 1
	if after < len(c.src) && c.src[after] == '(' {
		if tail, end, ok := c.inlineTail(after); ok {
			return c.enclose(typ, start, end, append([]*ast.Node{text}, tail...))
		}
	}

	if after+1 < len(c.src) && c.src[after] == '[' && c.src[after+1] == ']' {
		if !image {
			typ = ast.ShortReferenceLink
		}
		return c.enclose(typ, start, after+2, []*ast.Node{text})
	}

	if after < len(c.src) && c.src[after] == '[' {
		if closing := c.index("]", after); closing >= 0 {
			label := ast.Leaf(ast.LinkLabel, after, closing+1)
			labelText, _ := label.Text(c.src)
			if _, ok := c.links.Get(labelText); ok {
				if !image {
					typ = ast.FullReferenceLink
				}
				return c.enclose(typ, start, closing+1, []*ast.Node{text, label})
			}
		}
	}

	// A shortcut reference: the link text is the label.
	if !image {
		typ = ast.ShortReferenceLink
	}
	return c.enclose(typ, start, after, []*ast.Node{text})
}

// inlineTail reads "(destination "title")" starting at the opening parenthesis.
func (c *converter) inlineTail(open int) ([]*ast.Node, int, bool) {
	i := c.skipSpace(open + 1)

	destStart := i
	if i < len(c.src) && c.src[i] == '<' {
		closing := c.index(">", i)
		if closing < 0 {
			return nil, 0, false
		}
		i = closing + 1
	} else {
		depth := 0
	dest:
		for i < len(c.src) {
			switch c.src[i] {
			case '\\':
				if i+1 < len(c.src) {
					i++
				}
			case ' ', '\t', '\r', '\n':
				break dest
			case '(':
				depth++
			case ')':
				if depth == 0 {
					break dest
				}
				depth--
			}
			i++
		}
	}
	tail := []*ast.Node{ast.Leaf(ast.LinkDestination, destStart, i)}

	i = c.skipSpace(i)
	if i < len(c.src) {
		var closer byte
		switch c.src[i] {
		case '"':
			closer = '"'
		case '\'':
			closer = '\''
		case '(':
			closer = ')'
		}
		if closer != 0 {
			j := i + 1
			for j < len(c.src) && c.src[j] != closer {
				if c.src[j] == '\\' {
					j++
				}
				j++
			}
			if j >= len(c.src) {
				return nil, 0, false
			}
			tail = append(tail, ast.Leaf(ast.LinkTitle, i, j+1))
			i = c.skipSpace(j + 1)
		}
	}

	if i >= len(c.src) || c.src[i] != ')' {
		return nil, 0, false
	}
	return tail, i + 1, true
}

func (c *converter) skipSpace(i int) int {
	for i < len(c.src) {
		switch c.src[i] {
		case ' ', '\t', '\r', '\n':
			i++
		default:
			return i
		}
	}
	return i
}
