package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tehbilly/intellij-markdown/pkg/ast"
)

func TestSpan_Text(t *testing.T) {
	source := "hello world"

	tests := []struct {
		name    string
		span    ast.Span
		want    string
		wantErr bool
	}{
		{name: "whole source", span: ast.Span{Start: 0, End: 11}, want: "hello world"},
		{name: "inner", span: ast.Span{Start: 6, End: 11}, want: "world"},
		{name: "empty at end", span: ast.Span{Start: 11, End: 11}, want: ""},
		{name: "negative start", span: ast.Span{Start: -1, End: 3}, wantErr: true},
		{name: "end before start", span: ast.Span{Start: 4, End: 3}, wantErr: true},
		{name: "past end", span: ast.Span{Start: 6, End: 12}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.span.Text(source)
			if tt.wantErr {
				assert.ErrorIs(t, err, ast.ErrSpanOutOfRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_SkipsNilChildrenAndCopies(t *testing.T) {
	a := ast.Leaf(ast.Text, 0, 1)
	b := ast.Leaf(ast.Text, 1, 2)
	children := []*ast.Node{a, nil, b}

	n := ast.New(ast.Paragraph, 0, 2, children...)
	children[0] = b

	require.Len(t, n.Children(), 2)
	assert.Same(t, a, n.FirstChild())
	assert.Same(t, b, n.LastChild())
	assert.Equal(t, ast.Paragraph, n.Type())
	assert.Equal(t, ast.Span{Start: 0, End: 2}, n.Span())
}

func TestNode_Child(t *testing.T) {
	label := ast.Leaf(ast.LinkLabel, 0, 5)
	dest := ast.Leaf(ast.LinkDestination, 7, 10)
	def := ast.New(ast.LinkDefinition, 0, 10, label, dest)

	assert.Same(t, dest, def.Child(ast.LinkDestination))
	assert.Nil(t, def.Child(ast.LinkTitle))
	assert.Nil(t, ast.Leaf(ast.Text, 0, 0).FirstChild())
}

func TestHeadingType(t *testing.T) {
	assert.Equal(t, ast.Heading1, ast.HeadingType(1))
	assert.Equal(t, ast.Heading6, ast.HeadingType(6))
	assert.Equal(t, ast.Heading1, ast.HeadingType(0))
	assert.Equal(t, ast.Heading6, ast.HeadingType(9))

	assert.Equal(t, 3, ast.HeadingLevel(ast.Heading3))
	assert.Equal(t, 0, ast.HeadingLevel(ast.Paragraph))
}

func TestWalk_PreOrder(t *testing.T) {
	root := ast.NewBuilder("ab cd").
		Open(ast.Paragraph).
		Token(ast.Text, "ab").
		Open(ast.Emphasis).Token(ast.Text, "cd").Close().
		Close().
		MustBuild()

	var visited []ast.Type
	ast.Walk(root, func(n *ast.Node) bool {
		visited = append(visited, n.Type())
		return true
	})
	assert.Equal(t, []ast.Type{ast.Document, ast.Paragraph, ast.Text, ast.Emphasis, ast.Text}, visited)

	visited = nil
	ast.Walk(root, func(n *ast.Node) bool {
		visited = append(visited, n.Type())
		return n.Type() != ast.Paragraph
	})
	assert.Equal(t, []ast.Type{ast.Document, ast.Paragraph}, visited)

	assert.Len(t, ast.Find(root, ast.Text), 2)
}
