package render

import (
	"errors"
	"fmt"

	"github.com/tehbilly/intellij-markdown/pkg/ast"
)

var (
	// ErrNilRoot is returned when a render is started without a tree.
	ErrNilRoot = errors.New("nil root node")
	// ErrMaxDepthExceeded is returned when nesting exceeds the configured limit.
	ErrMaxDepthExceeded = errors.New("maximum nesting depth exceeded")
)

// StrategyError records the node whose strategy failed.
// Only the innermost failure is wrapped; outer strategies pass it through unchanged.
type StrategyError struct {
	Type ast.Type
	Span ast.Span
	Err  error
}

func (e *StrategyError) Error() string {
	return fmt.Sprintf("render %s at %s: %v", e.Type, e.Span, e.Err)
}

func (e *StrategyError) Unwrap() error {
	return e.Err
}

func wrapStrategyError(node *ast.Node, err error) error {
	if err == nil {
		return nil
	}
	var se *StrategyError
	if errors.As(err, &se) {
		return err
	}
	return &StrategyError{Type: node.Type(), Span: node.Span(), Err: err}
}
