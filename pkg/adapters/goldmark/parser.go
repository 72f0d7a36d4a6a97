// Package goldmark builds span-based trees with the goldmark parser.
//
// goldmark does the markup parsing; this adapter only translates its nodes into ast.Node
// values whose spans point back into the original source, and collects the link
// reference definitions goldmark found into a link map.
package goldmark

import (
	"fmt"
	"sort"

	backend "github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/tehbilly/intellij-markdown/pkg/ast"
	"github.com/tehbilly/intellij-markdown/pkg/entity"
	"github.com/tehbilly/intellij-markdown/pkg/linkmap"
)

// Parser is safe for concurrent use.
type Parser struct {
	md         backend.Markdown
	gfm        bool
	extensions []backend.Extender
}

// Option configures a Parser.
type Option func(*Parser)

// WithoutGFM restricts parsing to CommonMark.
func WithoutGFM() Option {
	return func(p *Parser) {
		p.gfm = false
	}
}

// WithExtensions enables additional goldmark extensions.
// Nodes they introduce are kept with a type derived from their kind name.
func WithExtensions(exts ...backend.Extender) Option {
	return func(p *Parser) {
		p.extensions = append(p.extensions, exts...)
	}
}

// New creates a parser. GFM is enabled unless WithoutGFM is given.
func New(opts ...Option) *Parser {
	p := &Parser{gfm: true}
	for _, opt := range opts {
		opt(p)
	}
	exts := p.extensions
	if p.gfm {
		exts = append([]backend.Extender{extension.GFM}, exts...)
	}
	p.md = backend.New(backend.WithExtensions(exts...))
	return p
}

// Parse builds the tree and link map of source.
func (p *Parser) Parse(source string) (*ast.Node, *linkmap.LinkMap, error) {
	src := []byte(source)
	pctx := parser.NewContext()
	doc := p.md.Parser().Parse(text.NewReader(src), parser.WithContext(pctx))

	links := references(pctx)
	c := &converter{source: src, src: source, links: links}
	root := ast.New(ast.Document, 0, len(source), c.children(doc)...)

	if err := validate(root, source); err != nil {
		return nil, nil, err
	}
	return root, links, nil
}

// Parse builds the tree and link map of source with a default parser.
func Parse(source string, opts ...Option) (*ast.Node, *linkmap.LinkMap, error) {
	return New(opts...).Parse(source)
}

func references(pctx parser.Context) *linkmap.LinkMap {
	refs := pctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})

	links := linkmap.New(nil)
	for _, ref := range refs {
		links.Add(string(ref.Label()), linkmap.Definition{
			Destination: linkmap.Destination(string(ref.Destination())),
			Title:       entity.Decode(string(ref.Title()), entity.All),
		})
	}
	return links
}

func validate(root *ast.Node, source string) error {
	var err error
	ast.Walk(root, func(n *ast.Node) bool {
		if err != nil {
			return false
		}
		if _, spanErr := n.Text(source); spanErr != nil {
			err = fmt.Errorf("convert %s: %w", n.Type(), spanErr)
			return false
		}
		return true
	})
	return err
}
