package render

import (
	"github.com/tehbilly/intellij-markdown/pkg/ast"
	"github.com/tehbilly/intellij-markdown/pkg/linkmap"
)

// Strategy renders one kind of node.
// Returning an error aborts the whole render.
type Strategy interface {
	ProcessNode(v *Visitor, source string, node *ast.Node) error
}

// StrategyFunc adapts a plain function to Strategy.
type StrategyFunc func(v *Visitor, source string, node *ast.Node) error

// ProcessNode calls f.
func (f StrategyFunc) ProcessNode(v *Visitor, source string, node *ast.Node) error {
	return f(v, source, node)
}

// StrategyBuilder supplies the strategies of a dialect for one render.
type StrategyBuilder interface {
	Strategies(links *linkmap.LinkMap) map[ast.Type]Strategy
}

// StrategyBuilderFunc adapts a plain function to StrategyBuilder.
type StrategyBuilderFunc func(links *linkmap.LinkMap) map[ast.Type]Strategy

// Strategies calls f.
func (f StrategyBuilderFunc) Strategies(links *linkmap.LinkMap) map[ast.Type]Strategy {
	return f(links)
}
