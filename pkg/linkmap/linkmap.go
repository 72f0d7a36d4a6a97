// Package linkmap holds the reference definitions a document declares, keyed by
// normalized label, so reference links can be resolved while rendering.
package linkmap

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/tehbilly/intellij-markdown/pkg/ast"
	"github.com/tehbilly/intellij-markdown/pkg/entity"
)

// Definition is the target of a reference link.
type Definition struct {
	Destination string `json:"destination" yaml:"destination"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
}

// LinkMap is a read-only view of reference definitions once rendering starts.
type LinkMap struct {
	defs map[string]Definition
}

// New creates a map from label to definition. Labels are normalized; when two labels
// normalize to the same key the lexically smaller original label wins.
func New(defs map[string]Definition) *LinkMap {
	m := &LinkMap{defs: make(map[string]Definition, len(defs))}
	labels := make([]string, 0, len(defs))
	for label := range defs {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		m.Add(label, defs[label])
	}
	return m
}

// Add registers a definition unless the label is already defined.
// It reports whether the definition was stored.
func (m *LinkMap) Add(label string, def Definition) bool {
	key := NormalizeLabel(label)
	if key == "" {
		return false
	}
	if _, exists := m.defs[key]; exists {
		return false
	}
	m.defs[key] = def
	return true
}

// Get resolves a label as written in the document.
func (m *LinkMap) Get(label string) (Definition, bool) {
	if m == nil {
		return Definition{}, false
	}
	def, ok := m.defs[NormalizeLabel(label)]
	return def, ok
}

func (m *LinkMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.defs)
}

// Labels returns the normalized labels in sorted order.
func (m *LinkMap) Labels() []string {
	if m == nil {
		return nil
	}
	labels := make([]string, 0, len(m.defs))
	for label := range m.defs {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// NormalizeLabel strips the surrounding brackets, collapses runs of whitespace
// and applies Unicode case folding.
func NormalizeLabel(label string) string {
	label = strings.TrimSpace(label)
	label = strings.TrimPrefix(label, "[")
	label = strings.TrimSuffix(label, "]")
	label = strings.Join(strings.Fields(label), " ")
	if label == "" {
		return ""
	}
	return cases.Fold().String(label)
}

// Build collects the LinkDefinition nodes of a tree. The first definition of a label wins.
func Build(root *ast.Node, source string) (*LinkMap, error) {
	m := New(nil)
	if root == nil {
		return m, nil
	}

	var walkErr error
	ast.Walk(root, func(n *ast.Node) bool {
		if walkErr != nil {
			return false
		}
		if n.Type() != ast.LinkDefinition {
			return true
		}
		label, def, err := definition(n, source)
		if err != nil {
			walkErr = err
			return false
		}
		if label != "" {
			m.Add(label, def)
		}
		return false
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return m, nil
}

func definition(n *ast.Node, source string) (string, Definition, error) {
	var (
		label string
		def   Definition
	)
	for _, child := range n.Children() {
		text, err := child.Text(source)
		if err != nil {
			return "", Definition{}, err
		}
		switch child.Type() {
		case ast.LinkLabel:
			label = text
		case ast.LinkDestination:
			def.Destination = Destination(text)
		case ast.LinkTitle:
			def.Title = Title(text)
		}
	}
	return label, def, nil
}

// Destination removes angle brackets and decodes escapes and references.
// The result is raw text; escaping for HTML is left to the caller.
func Destination(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 2 && raw[0] == '<' && raw[len(raw)-1] == '>' {
		raw = raw[1 : len(raw)-1]
	}
	return entity.Decode(raw, entity.All)
}

// Title removes the title delimiters and decodes escapes and references.
func Title(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 2 {
		switch first, last := raw[0], raw[len(raw)-1]; {
		case first == '"' && last == '"',
			first == '\'' && last == '\'',
			first == '(' && last == ')':
			raw = raw[1 : len(raw)-1]
		}
	}
	return entity.Decode(raw, entity.All)
}
