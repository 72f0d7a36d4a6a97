package render

import (
	"fmt"
	"strings"

	"github.com/tehbilly/intellij-markdown/pkg/ast"
	"github.com/tehbilly/intellij-markdown/pkg/entity"
)

// Visitor carries the state of one render: the source text, the registry and the output.
// A Visitor must not be shared between concurrent renders.
type Visitor struct {
	source   string
	registry *Registry
	out      strings.Builder
	maxDepth int
	depth    int
}

// NewVisitor creates a visitor with an empty output. maxDepth <= 0 disables the depth guard.
func NewVisitor(source string, registry *Registry, maxDepth int) *Visitor {
	return &Visitor{
		source:   source,
		registry: registry,
		maxDepth: maxDepth,
	}
}

// Source returns the text all spans refer to.
func (v *Visitor) Source() string {
	return v.source
}

// ConsumeHTML appends s to the output. It is the only way markup enters the result.
func (v *Visitor) ConsumeHTML(s string) {
	v.out.WriteString(s)
}

// HTML returns everything consumed so far.
func (v *Visitor) HTML() string {
	return v.out.String()
}

// VisitNode renders a node that may have children.
// Without a registered strategy the children are visited in order and nothing else is
// emitted; a node without children falls back like a leaf.
func (v *Visitor) VisitNode(node *ast.Node) error {
	if err := v.enter(); err != nil {
		return err
	}
	defer v.leave()

	if s, ok := v.registry.Lookup(node.Type()); ok {
		return wrapStrategyError(node, s.ProcessNode(v, v.source, node))
	}
	if len(node.Children()) == 0 {
		return v.literal(node)
	}
	return v.VisitChildren(node)
}

// VisitLeaf renders a leaf node.
// Without a registered strategy the node's literal text is emitted through LeafText.
func (v *Visitor) VisitLeaf(node *ast.Node) error {
	if err := v.enter(); err != nil {
		return err
	}
	defer v.leave()

	if s, ok := v.registry.Lookup(node.Type()); ok {
		return wrapStrategyError(node, s.ProcessNode(v, v.source, node))
	}
	return v.literal(node)
}

// VisitChildren visits every child of node, left to right. Children without
// children of their own go through VisitLeaf, the rest through VisitNode.
func (v *Visitor) VisitChildren(node *ast.Node) error {
	for _, child := range node.Children() {
		visit := v.VisitNode
		if len(child.Children()) == 0 {
			visit = v.VisitLeaf
		}
		if err := visit(child); err != nil {
			return err
		}
	}
	return nil
}

func (v *Visitor) literal(node *ast.Node) error {
	text, err := LeafText(v.source, node, entity.All)
	if err != nil {
		return err
	}
	v.ConsumeHTML(text)
	return nil
}

func (v *Visitor) enter() error {
	v.depth++
	if v.maxDepth > 0 && v.depth > v.maxDepth {
		return fmt.Errorf("%w: limit %d", ErrMaxDepthExceeded, v.maxDepth)
	}
	return nil
}

func (v *Visitor) leave() {
	v.depth--
}
