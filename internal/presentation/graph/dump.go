package graph

import (
	"fmt"
	"io"
	"strings"

	"github.com/tehbilly/intellij-markdown/pkg/ast"
)

// Dump writes an indented outline of the tree, one node per line.
// Leaves show their source text quoted.
func Dump(w io.Writer, root *ast.Node, source string) error {
	return dump(w, root, source, 0)
}

func dump(w io.Writer, n *ast.Node, source string, depth int) error {
	if n == nil {
		return nil
	}

	line := strings.Repeat("  ", depth) + n.String()
	if len(n.Children()) == 0 {
		text, err := n.Text(source)
		if err != nil {
			return err
		}
		line += fmt.Sprintf(" %q", text)
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}

	for _, ch := range n.Children() {
		if err := dump(w, ch, source, depth+1); err != nil {
			return err
		}
	}
	return nil
}
