package ast

import (
	"errors"
	"fmt"
)

// ErrSpanOutOfRange is returned when a span does not fit inside the source text.
var ErrSpanOutOfRange = errors.New("span out of range")

// Span is a half-open [Start, End) byte range into the source text.
type Span struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Empty reports whether the span covers no bytes.
func (s Span) Empty() bool {
	return s.End <= s.Start
}

// Contains reports whether other lies entirely within s.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// Text resolves the span against source.
// Spans outside [0, len(source)] or with End < Start are reported, never truncated.
func (s Span) Text(source string) (string, error) {
	if s.Start < 0 || s.End < s.Start || s.End > len(source) {
		return "", fmt.Errorf("%w: [%d, %d) in source of length %d", ErrSpanOutOfRange, s.Start, s.End, len(source))
	}
	return source[s.Start:s.End], nil
}

func (s Span) String() string {
	return fmt.Sprintf("[%d, %d)", s.Start, s.End)
}

// Node is an immutable tree element.
type Node struct {
	typ      Type
	span     Span
	children []*Node
}

// New creates a node of the given type covering [start, end).
// The children slice is copied; nil children are skipped.
func New(typ Type, start, end int, children ...*Node) *Node {
	n := &Node{
		typ:  typ,
		span: Span{Start: start, End: end},
	}
	if len(children) > 0 {
		n.children = make([]*Node, 0, len(children))
		for _, ch := range children {
			if ch != nil {
				n.children = append(n.children, ch)
			}
		}
	}
	return n
}

// Leaf creates a node without children.
func Leaf(typ Type, start, end int) *Node {
	return New(typ, start, end)
}

func (n *Node) Type() Type { return n.typ }
func (n *Node) Span() Span { return n.span }

// Children returns the ordered children of n.
// The returned slice is shared with the node and must not be modified.
func (n *Node) Children() []*Node { return n.children }

// FirstChild returns the first child of n, or nil.
func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// LastChild returns the last child of n, or nil.
func (n *Node) LastChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[len(n.children)-1]
}

// Child returns the first direct child of the given type, or nil.
func (n *Node) Child(typ Type) *Node {
	for _, ch := range n.children {
		if ch.typ == typ {
			return ch
		}
	}
	return nil
}

// Text resolves the node's span against source.
func (n *Node) Text(source string) (string, error) {
	return n.span.Text(source)
}

func (n *Node) String() string {
	return fmt.Sprintf("%s%s", n.typ, n.span)
}
