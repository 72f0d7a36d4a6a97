package graph

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tehbilly/intellij-markdown/pkg/ast"
)

// maxLabel bounds the source excerpt shown on leaf nodes.
const maxLabel = 24

// Overlay selects nodes to highlight on the chart.
type Overlay struct {
	// Types highlights every node of these types.
	Types []ast.Type
	// Offset highlights the innermost node whose span contains it. Negative disables.
	Offset int
}

// GenerateMermaid produces a Mermaid flowchart of a syntax tree.
// It applies shapes by role:
// - Document: ((Circle))
// - Leaf token: [/Parallelogram/] labelled with its source excerpt
// - Element: [Rectangle]
// It also applies overlay styles if provided.
func GenerateMermaid(root *ast.Node, source string, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	ids := make(map[*ast.Node]string)
	var order []*ast.Node
	ast.Walk(root, func(n *ast.Node) bool {
		ids[n] = fmt.Sprintf("n%d", len(order))
		order = append(order, n)
		return true
	})

	for _, n := range order {
		id := ids[n]

		opener, closer := "[", "]"
		label := n.String()
		switch {
		case n.Type() == ast.Document:
			opener, closer = "((", "))"
		case len(n.Children()) == 0:
			opener, closer = "[/", "/]"
			if text, err := n.Text(source); err == nil && text != "" {
				label += " <br/> " + excerpt(text)
			}
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, label, closer))

		for _, ch := range n.Children() {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", id, ids[ch]))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef highlight fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		wanted := make(map[ast.Type]bool, len(overlay.Types))
		for _, t := range overlay.Types {
			wanted[t] = true
		}
		for _, n := range order {
			if wanted[n.Type()] {
				sb.WriteString(fmt.Sprintf("    class %s highlight;\n", ids[n]))
			}
		}

		if overlay.Offset >= 0 {
			if n := innermost(root, overlay.Offset); n != nil {
				sb.WriteString(fmt.Sprintf("    class %s current;\n", ids[n]))
			}
		}
	}

	return sb.String()
}

// innermost returns the deepest node whose span contains offset.
func innermost(root *ast.Node, offset int) *ast.Node {
	var found *ast.Node
	ast.Walk(root, func(n *ast.Node) bool {
		s := n.Span()
		if offset < s.Start || offset >= s.End {
			return false
		}
		found = n
		return true
	})
	return found
}

// excerpt makes source text safe for a quoted Mermaid label.
func excerpt(text string) string {
	if utf8.RuneCountInString(text) > maxLabel {
		runes := []rune(text)
		text = string(runes[:maxLabel]) + "…"
	}
	r := strings.NewReplacer(
		"\"", "#quot;",
		"\n", "⏎",
		"\t", "→",
	)
	return r.Replace(text)
}
