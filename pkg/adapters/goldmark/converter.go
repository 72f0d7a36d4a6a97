package goldmark

import (
	"strings"

	gast "github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/tehbilly/intellij-markdown/pkg/ast"
	"github.com/tehbilly/intellij-markdown/pkg/linkmap"
)

// codeIndent is the indentation goldmark strips from indented code lines.
const codeIndent = 4

// converter walks a goldmark tree in document order. cursor is the end of the last
// converted node; constructs goldmark does not record positions for are found by
// scanning forward from it.
type converter struct {
	source []byte
	src    string
	links  *linkmap.LinkMap
	cursor int
}

func (c *converter) children(n gast.Node) []*ast.Node {
	var out []*ast.Node
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		out = append(out, c.convert(child)...)
	}
	return out
}

func (c *converter) convert(n gast.Node) []*ast.Node {
	switch n := n.(type) {
	case *gast.Paragraph:
		return one(c.textBlock(ast.Paragraph, n))
	case *gast.TextBlock:
		return one(c.textBlock(ast.TightParagraph, n))
	case *gast.Heading:
		return one(c.textBlock(ast.HeadingType(n.Level), n))
	case *gast.Blockquote:
		return one(c.wrap(ast.BlockQuote, c.children(n)))
	case *gast.List:
		if n.IsOrdered() {
			return one(c.wrap(ast.OrderedList, c.children(n)))
		}
		return one(c.wrap(ast.UnorderedList, c.children(n)))
	case *gast.ListItem:
		return one(c.listItem(n))
	case *gast.CodeBlock:
		return one(c.codeBlock(n))
	case *gast.FencedCodeBlock:
		return one(c.fencedCode(n))
	case *gast.HTMLBlock:
		return one(c.htmlBlock(n))
	case *gast.ThematicBreak:
		return one(c.thematicBreak())
	case *gast.Text:
		return c.text(n)
	case *gast.String:
		return nil
	case *gast.CodeSpan:
		return one(c.codeSpan(n))
	case *gast.Emphasis:
		typ := ast.Emphasis
		if n.Level >= 2 {
			typ = ast.Strong
		}
		return one(c.delimited(typ, n, n.Level, 0))
	case *gast.Link:
		return one(c.link(n, false))
	case *gast.Image:
		return one(c.link(n, true))
	case *gast.AutoLink:
		return one(c.autoLink(n))
	case *gast.RawHTML:
		return one(c.rawHTML(n))
	case *east.Strikethrough:
		return one(c.delimited(ast.Strikethrough, n, 0, '~'))
	case *east.Table:
		return one(c.table(n))
	case *east.TableCell:
		return one(c.textBlock(ast.TableCell, n))
	case *east.TaskCheckBox:
		return one(c.taskCheckBox())
	default:
		typ := ast.Type(strings.ToUpper(n.Kind().String()))
		return one(c.wrap(typ, c.children(n)))
	}
}

func one(n *ast.Node) []*ast.Node {
	if n == nil {
		return nil
	}
	return []*ast.Node{n}
}

func (c *converter) seek(pos int) {
	if pos > c.cursor {
		c.cursor = pos
	}
}

// index finds s at or after from.
func (c *converter) index(s string, from int) int {
	if from < 0 || from > len(c.src) {
		return -1
	}
	i := strings.Index(c.src[from:], s)
	if i < 0 {
		return -1
	}
	return from + i
}

// lineEnd returns the position of the next line break at or after from, or the end of input.
func (c *converter) lineEnd(from int) int {
	if i := c.index("\n", from); i >= 0 {
		return i
	}
	return len(c.src)
}

// trimEOL drops a trailing line break from [start, stop).
func (c *converter) trimEOL(start, stop int) int {
	for stop > start && (c.src[stop-1] == '\n' || c.src[stop-1] == '\r') {
		stop--
	}
	return stop
}

// wrap builds a composite covering its children, or an empty node at the cursor.
func (c *converter) wrap(typ ast.Type, kids []*ast.Node) *ast.Node {
	if len(kids) == 0 {
		return ast.New(typ, c.cursor, c.cursor)
	}
	return c.enclose(typ, kids[0].Span().Start, kids[len(kids)-1].Span().End, kids)
}

// enclose builds a composite covering [start, end) and its children.
func (c *converter) enclose(typ ast.Type, start, end int, kids []*ast.Node) *ast.Node {
	if len(kids) > 0 {
		start = min(start, kids[0].Span().Start)
		end = max(end, kids[len(kids)-1].Span().End)
	}
	c.seek(end)
	return ast.New(typ, start, end, kids...)
}

// textBlock converts a block whose Lines hold its inline content.
func (c *converter) textBlock(typ ast.Type, n gast.Node) *ast.Node {
	lines := n.Lines()
	if lines == nil || lines.Len() == 0 {
		return c.wrap(typ, c.children(n))
	}
	first, last := lines.At(0), lines.At(lines.Len()-1)
	c.seek(first.Start)
	kids := c.children(n)
	return c.enclose(typ, first.Start, c.trimEOL(first.Start, last.Stop), kids)
}

func (c *converter) listItem(n *gast.ListItem) *ast.Node {
	list, ok := n.Parent().(*gast.List)
	if !ok {
		return c.wrap(ast.ListItem, c.children(n))
	}
	marker := c.listMarker(list)
	kids := c.children(n)
	if marker == nil {
		return c.wrap(ast.ListItem, kids)
	}
	kids = append([]*ast.Node{marker}, kids...)
	return c.enclose(ast.ListItem, marker.Span().Start, marker.Span().End, kids)
}

// listMarker finds the next list marker that starts the content of a line.
// Block quote markers and indentation may precede it.
func (c *converter) listMarker(list *gast.List) *ast.Node {
	atLineStart := c.onlyPrefixBefore(c.cursor)
	for i := c.cursor; i < len(c.src); i++ {
		switch ch := c.src[i]; ch {
		case '\n':
			atLineStart = true
			continue
		case ' ', '\t', '\r', '>':
			continue
		}
		if !atLineStart {
			continue
		}
		atLineStart = false
		if end, ok := c.matchMarker(i, list); ok {
			typ := ast.ListBullet
			if list.IsOrdered() {
				typ = ast.ListNumber
			}
			c.seek(end)
			return ast.Leaf(typ, i, end)
		}
	}
	return nil
}

func (c *converter) onlyPrefixBefore(pos int) bool {
	for i := pos - 1; i >= 0; i-- {
		switch c.src[i] {
		case '\n':
			return true
		case ' ', '\t', '>':
		default:
			return false
		}
	}
	return true
}

func (c *converter) matchMarker(i int, list *gast.List) (int, bool) {
	end := i
	if list.IsOrdered() {
		for end < len(c.src) && end-i < 9 && c.src[end] >= '0' && c.src[end] <= '9' {
			end++
		}
		if end == i {
			return 0, false
		}
	}
	if end >= len(c.src) || c.src[end] != list.Marker {
		return 0, false
	}
	end++
	if end < len(c.src) && !strings.ContainsRune(" \t\r\n", rune(c.src[end])) {
		return 0, false
	}
	return end, true
}

func (c *converter) codeBlock(n *gast.CodeBlock) *ast.Node {
	lines := n.Lines()
	kids := make([]*ast.Node, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		start := c.indentStart(seg.Start)
		if seg.Padding > 0 && seg.Start > 0 && c.src[seg.Start-1] == '\t' {
			// The tab is split between the container and the code indent.
			// The span takes the whole tab; the columns past the indent
			// become padding leaves.
			start = seg.Start - 1
			kids = append(kids, padding(start, seg.Padding)...)
		}
		kids = append(kids, ast.Leaf(ast.CodeLine, start, c.trimEOL(seg.Start, seg.Stop)))
	}
	return c.wrap(ast.CodeBlock, kids)
}

// indentStart walks back from pos over at most codeIndent columns of spaces and
// tabs, counting columns from the returned offset the way render.TrimIndents
// does. The span [start, pos) is the code indentation the renderer strips.
func (c *converter) indentStart(pos int) int {
	start := pos
	for p := pos - 1; p >= 0 && (c.src[p] == ' ' || c.src[p] == '\t'); p-- {
		w := columns(c.src[p:pos])
		if w > codeIndent {
			break
		}
		start = p
		if w == codeIndent {
			break
		}
	}
	return start
}

// padding returns n zero-width CodePadding leaves at pos.
func padding(pos, n int) []*ast.Node {
	out := make([]*ast.Node, 0, n)
	for k := 0; k < n; k++ {
		out = append(out, ast.Leaf(ast.CodePadding, pos, pos))
	}
	return out
}

// columns is the width of a run of spaces and tabs starting at column zero.
func columns(ws string) int {
	w := 0
	for i := 0; i < len(ws); i++ {
		if ws[i] == '\t' {
			w += codeIndent - w%codeIndent
		} else {
			w++
		}
	}
	return w
}

func (c *converter) fencedCode(n *gast.FencedCodeBlock) *ast.Node {
	var kids []*ast.Node

	bound := len(c.src)
	if n.Info != nil {
		bound = n.Info.Segment.Start
	} else if lines := n.Lines(); lines.Len() > 0 {
		bound = lines.At(0).Start
	}
	start := c.fenceStart(bound)

	if n.Info != nil {
		seg := n.Info.Segment
		kids = append(kids, ast.Leaf(ast.FenceLang, seg.Start, seg.Stop))
	}
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		kids = append(kids, padding(seg.Start, seg.Padding)...)
		kids = append(kids, ast.Leaf(ast.CodeLine, seg.Start, c.trimEOL(seg.Start, seg.Stop)))
	}

	end := start + 3
	if len(kids) > 0 {
		end = max(end, kids[len(kids)-1].Span().End)
	}
	end = c.fenceEnd(start, end)
	return c.enclose(ast.CodeFence, start, end, kids)
}

// fenceStart finds the opening fence before bound, falling back to the cursor.
func (c *converter) fenceStart(bound int) int {
	best := -1
	for _, fence := range []string{"```", "~~~"} {
		if i := c.index(fence, c.cursor); i >= 0 && i < bound && (best < 0 || i < best) {
			best = i
		}
	}
	if best < 0 {
		return min(c.cursor, bound)
	}
	return best
}

// fenceEnd extends end over a closing fence on the following line, if there is one.
func (c *converter) fenceEnd(start, end int) int {
	if start >= len(c.src) {
		return end
	}
	ch := c.src[start]
	if ch != '`' && ch != '~' {
		return end
	}
	i := c.lineEnd(end)
	if i >= len(c.src) {
		return end
	}
	i++
	for i < len(c.src) && strings.ContainsRune(" \t>", rune(c.src[i])) {
		i++
	}
	run := i
	for run < len(c.src) && c.src[run] == ch {
		run++
	}
	if run-i < 3 {
		return end
	}
	return run
}

func (c *converter) htmlBlock(n *gast.HTMLBlock) *ast.Node {
	lines := n.Lines()
	kids := make([]*ast.Node, 0, lines.Len()+1)
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		kids = append(kids, ast.Leaf(ast.HTMLLine, seg.Start, c.trimEOL(seg.Start, seg.Stop)))
	}
	if n.HasClosure() {
		seg := n.ClosureLine
		kids = append(kids, ast.Leaf(ast.HTMLLine, seg.Start, c.trimEOL(seg.Start, seg.Stop)))
	}
	return c.wrap(ast.HTMLBlock, kids)
}

// thematicBreak finds the next line consisting only of a break: three or more of
// '-', '*' or '_' with optional spaces between them.
func (c *converter) thematicBreak() *ast.Node {
	for pos := c.cursor; pos < len(c.src); {
		end := c.lineEnd(pos)
		start := pos
		for start < end && strings.ContainsRune(" \t>", rune(c.src[start])) {
			start++
		}
		stop := c.trimEOL(start, end)
		for stop > start && (c.src[stop-1] == ' ' || c.src[stop-1] == '\t') {
			stop--
		}
		if isBreak(c.src[start:stop]) {
			c.seek(stop)
			return ast.Leaf(ast.ThematicBreak, start, stop)
		}
		pos = end + 1
	}
	return ast.Leaf(ast.ThematicBreak, c.cursor, c.cursor)
}

func isBreak(line string) bool {
	if line == "" {
		return false
	}
	mark := line[0]
	if mark != '-' && mark != '*' && mark != '_' {
		return false
	}
	count := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case mark:
			count++
		case ' ', '\t':
		default:
			return false
		}
	}
	return count >= 3
}

func (c *converter) text(n *gast.Text) []*ast.Node {
	seg := n.Segment
	var out []*ast.Node

	stop := seg.Stop
	if n.IsRaw() {
		stop = c.trimEOL(seg.Start, seg.Stop)
	}
	if stop > seg.Start {
		out = append(out, ast.Leaf(ast.Text, seg.Start, stop))
	}
	c.seek(stop)

	switch {
	case n.IsRaw() && stop < seg.Stop:
		out = append(out, ast.Leaf(ast.EOL, stop, seg.Stop))
		c.seek(seg.Stop)
	case n.HardLineBreak():
		if nl := c.index("\n", seg.Stop); nl >= 0 {
			out = append(out, ast.Leaf(ast.HardLineBreak, seg.Stop, nl+1))
			c.seek(nl + 1)
		}
	case n.SoftLineBreak():
		if nl := c.index("\n", seg.Stop); nl >= 0 {
			out = append(out, ast.Leaf(ast.EOL, nl, nl+1))
			c.seek(nl + 1)
		}
	}
	return out
}

func (c *converter) codeSpan(n *gast.CodeSpan) *ast.Node {
	start := c.index("`", c.cursor)
	kids := c.children(n)
	if start < 0 || (len(kids) > 0 && start > kids[0].Span().Start) {
		return c.wrap(ast.CodeSpan, kids)
	}
	end := c.index("`", c.cursor)
	if end < 0 {
		return c.enclose(ast.CodeSpan, start, c.cursor, kids)
	}
	for end < len(c.src) && c.src[end] == '`' {
		end++
	}
	return c.enclose(ast.CodeSpan, start, end, kids)
}

// delimited converts emphasis-like nodes whose delimiters sit right next to their content.
// A positive width gives the delimiter length; otherwise runs of ch are measured.
func (c *converter) delimited(typ ast.Type, n gast.Node, width int, ch byte) *ast.Node {
	kids := c.children(n)
	if len(kids) == 0 {
		return c.wrap(typ, kids)
	}
	start, end := kids[0].Span().Start, kids[len(kids)-1].Span().End
	if width > 0 {
		start = max(0, start-width)
		end = min(len(c.src), end+width)
	} else {
		for start > 0 && c.src[start-1] == ch {
			start--
		}
		for end < len(c.src) && c.src[end] == ch {
			end++
		}
	}
	return c.enclose(typ, start, end, kids)
}

func (c *converter) autoLink(n *gast.AutoLink) *ast.Node {
	label := string(n.Label(c.source))
	i := c.index(label, c.cursor)
	if label == "" || i < 0 {
		return c.wrap(ast.AutoLink, nil)
	}
	url := ast.Leaf(ast.URL, i, i+len(label))
	start, end := i, i+len(label)
	if start > 0 && c.src[start-1] == '<' && end < len(c.src) && c.src[end] == '>' {
		start--
		end++
	}
	return c.enclose(ast.AutoLink, start, end, []*ast.Node{url})
}

func (c *converter) rawHTML(n *gast.RawHTML) *ast.Node {
	if n.Segments == nil || n.Segments.Len() == 0 {
		return nil
	}
	first, last := n.Segments.At(0), n.Segments.At(n.Segments.Len()-1)
	c.seek(last.Stop)
	return ast.Leaf(ast.InlineHTML, first.Start, last.Stop)
}

func (c *converter) taskCheckBox() *ast.Node {
	i := c.index("[", c.cursor)
	if i < 0 || i+3 > len(c.src) {
		return nil
	}
	c.seek(i + 3)
	return ast.Leaf(ast.TaskCheckBox, i, i+3)
}

func (c *converter) table(n *east.Table) *ast.Node {
	var kids []*ast.Node
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.(type) {
		case *east.TableHeader:
			kids = append(kids, c.wrap(ast.TableHeader, c.children(child)))
			if sep := c.tableSeparator(); sep != nil {
				kids = append(kids, sep)
			}
		case *east.TableRow:
			kids = append(kids, c.wrap(ast.TableRow, c.children(child)))
		}
	}
	return c.wrap(ast.Table, kids)
}

// tableSeparator locates the delimiter row on the line after the header.
func (c *converter) tableSeparator() *ast.Node {
	nl := c.index("\n", c.cursor)
	if nl < 0 {
		return nil
	}
	start := nl + 1
	end := c.trimEOL(start, c.lineEnd(start))
	for start < end && !strings.ContainsRune("|:-", rune(c.src[start])) {
		start++
	}
	for end > start && (c.src[end-1] == ' ' || c.src[end-1] == '\t') {
		end--
	}
	if start == end {
		return nil
	}
	c.seek(end)
	return ast.Leaf(ast.TableSeparator, start, end)
}
