package ast

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnbalanced is returned by Build when Open and Close calls do not match.
var ErrUnbalanced = errors.New("unbalanced builder frames")

// ErrTokenNotFound is returned by Build when a token or skipped text is not found
// at or after the cursor.
var ErrTokenNotFound = errors.New("token not found in source")

type frame struct {
	typ      Type
	start    int
	children []*Node
}

// Builder constructs a tree over a source string with a moving cursor.
// Tokens are located by searching forward from the cursor, so a tree can be
// described by the text of its leaves instead of hand-computed offsets.
//
//	root, err := ast.NewBuilder("a *b*").
//		Token(ast.Text, "a ").
//		Open(ast.Emphasis).Skip("*").Token(ast.Text, "b").Skip("*").Close().
//		Build()
type Builder struct {
	source string
	cursor int
	stack  []*frame
	err    error
}

// NewBuilder creates a builder whose root is a Document spanning the whole source.
func NewBuilder(source string) *Builder {
	return &Builder{
		source: source,
		stack:  []*frame{{typ: Document, start: 0}},
	}
}

// Open starts a composite node at the cursor.
func (b *Builder) Open(typ Type) *Builder {
	if b.err != nil {
		return b
	}
	b.stack = append(b.stack, &frame{typ: typ, start: b.cursor})
	return b
}

// Close ends the innermost composite node at the cursor.
func (b *Builder) Close() *Builder {
	if b.err != nil {
		return b
	}
	if len(b.stack) < 2 {
		b.err = fmt.Errorf("%w: close without open", ErrUnbalanced)
		return b
	}
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	b.add(New(top.typ, top.start, b.cursor, top.children...))
	return b
}

// Token adds a leaf covering the next occurrence of text and moves the cursor past it.
func (b *Builder) Token(typ Type, text string) *Builder {
	start, ok := b.find(text)
	if !ok {
		return b
	}
	b.cursor = start + len(text)
	b.add(Leaf(typ, start, b.cursor))
	return b
}

// Skip moves the cursor past the next occurrence of text without adding a node.
func (b *Builder) Skip(text string) *Builder {
	start, ok := b.find(text)
	if !ok {
		return b
	}
	b.cursor = start + len(text)
	return b
}

// Empty adds a zero-width leaf at the cursor.
func (b *Builder) Empty(typ Type) *Builder {
	if b.err != nil {
		return b
	}
	b.add(Leaf(typ, b.cursor, b.cursor))
	return b
}

// Append adds a prebuilt node to the innermost open node.
func (b *Builder) Append(n *Node) *Builder {
	if b.err != nil || n == nil {
		return b
	}
	b.add(n)
	if n.span.End > b.cursor {
		b.cursor = n.span.End
	}
	return b
}

// Build returns the finished tree.
func (b *Builder) Build() (*Node, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.stack) != 1 {
		return nil, fmt.Errorf("%w: %d open node(s)", ErrUnbalanced, len(b.stack)-1)
	}
	root := b.stack[0]
	return New(root.typ, 0, len(b.source), root.children...), nil
}

// MustBuild is like Build but panics on error. Intended for tests.
func (b *Builder) MustBuild() *Node {
	n, err := b.Build()
	if err != nil {
		panic(err)
	}
	return n
}

func (b *Builder) find(text string) (int, bool) {
	if b.err != nil {
		return 0, false
	}
	idx := strings.Index(b.source[b.cursor:], text)
	if idx < 0 {
		b.err = fmt.Errorf("%w: %q after offset %d", ErrTokenNotFound, text, b.cursor)
		return 0, false
	}
	return b.cursor + idx, true
}

func (b *Builder) add(n *Node) {
	top := b.stack[len(b.stack)-1]
	top.children = append(top.children, n)
}
