package render

import (
	"strings"

	"github.com/tehbilly/intellij-markdown/pkg/ast"
	"github.com/tehbilly/intellij-markdown/pkg/entity"
)

const tabStop = 4

// LeafText returns the literal text of a leaf, decoded according to opts and HTML-escaped.
// Block quote markers are structural and always yield the empty string.
func LeafText(source string, node *ast.Node, opts entity.Options) (string, error) {
	if node.Type() == ast.BlockQuoteMarker {
		return "", nil
	}
	raw, err := node.Text(source)
	if err != nil {
		return "", err
	}
	return entity.Replace(raw, opts), nil
}

// TrimIndents removes up to indent columns of leading whitespace from every line.
// Tabs advance to the next multiple of four; when a tab overshoots the requested
// width the excess columns are written back as spaces.
func TrimIndents(text string, indent int) string {
	if indent <= 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))

	lastFlushed := 0
	for offset := 0; offset < len(text); offset++ {
		if offset != 0 && text[offset-1] != '\n' {
			continue
		}
		b.WriteString(text[lastFlushed:offset])

		eaten := 0
	eat:
		for eaten < indent && offset < len(text) {
			switch text[offset] {
			case ' ':
				eaten++
			case '\t':
				eaten += tabStop - eaten%tabStop
			default:
				break eat
			}
			offset++
		}
		if eaten > indent {
			b.WriteString(strings.Repeat(" ", eaten-indent))
		}
		lastFlushed = offset
	}
	if lastFlushed < len(text) {
		b.WriteString(text[lastFlushed:])
	}
	return b.String()
}
