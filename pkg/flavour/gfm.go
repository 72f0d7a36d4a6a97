package flavour

import (
	"strings"

	"github.com/tehbilly/intellij-markdown/pkg/ast"
	"github.com/tehbilly/intellij-markdown/pkg/linkmap"
	"github.com/tehbilly/intellij-markdown/pkg/render"
)

type gfm struct {
	base commonMark
}

// GFM returns the GitHub dialect: CommonMark plus strikethrough, tables and task lists.
func GFM() Flavour { return gfm{} }

func (gfm) Name() string { return NameGFM }

func (f gfm) Strategies(links *linkmap.LinkMap) map[ast.Type]render.Strategy {
	s := f.base.Strategies(links)
	s[ast.Strikethrough] = wrap("<del>", "</del>")
	s[ast.Table] = render.StrategyFunc(table)
	s[ast.TaskCheckBox] = render.StrategyFunc(taskCheckBox)
	return s
}

// Alignment of a table column.
type Alignment string

const (
	AlignNone   Alignment = ""
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// ParseAlignments reads the column alignments from a delimiter row such as "| :-- | :-: |".
func ParseAlignments(row string) []Alignment {
	row = strings.TrimSpace(row)
	row = strings.TrimPrefix(row, "|")
	row = strings.TrimSuffix(row, "|")
	if strings.TrimSpace(row) == "" {
		return nil
	}

	cells := strings.Split(row, "|")
	aligns := make([]Alignment, len(cells))
	for i, cell := range cells {
		cell = strings.TrimSpace(cell)
		left := strings.HasPrefix(cell, ":")
		right := len(cell) > 1 && strings.HasSuffix(cell, ":")
		switch {
		case left && right:
			aligns[i] = AlignCenter
		case left:
			aligns[i] = AlignLeft
		case right:
			aligns[i] = AlignRight
		}
	}
	return aligns
}

func table(v *render.Visitor, source string, n *ast.Node) error {
	var aligns []Alignment
	if sep := n.Child(ast.TableSeparator); sep != nil {
		text, err := sep.Text(source)
		if err != nil {
			return err
		}
		aligns = ParseAlignments(text)
	}

	v.ConsumeHTML("<table>\n")
	if header := n.Child(ast.TableHeader); header != nil {
		v.ConsumeHTML("<thead>\n")
		if err := tableRow(v, source, header, "th", aligns); err != nil {
			return err
		}
		v.ConsumeHTML("</thead>\n")
	}

	bodyOpen := false
	for _, row := range n.Children() {
		if row.Type() != ast.TableRow {
			continue
		}
		if !bodyOpen {
			v.ConsumeHTML("<tbody>\n")
			bodyOpen = true
		}
		if err := tableRow(v, source, row, "td", aligns); err != nil {
			return err
		}
	}
	if bodyOpen {
		v.ConsumeHTML("</tbody>\n")
	}
	v.ConsumeHTML("</table>\n")
	return nil
}

func tableRow(v *render.Visitor, source string, row *ast.Node, tag string, aligns []Alignment) error {
	v.ConsumeHTML("<tr>\n")
	col := 0
	for _, cell := range row.Children() {
		if cell.Type() != ast.TableCell {
			continue
		}
		v.ConsumeHTML("<" + tag)
		if col < len(aligns) && aligns[col] != AlignNone {
			v.ConsumeHTML(` align="` + string(aligns[col]) + `"`)
		}
		v.ConsumeHTML(">")
		if err := content(v, source, cell); err != nil {
			return err
		}
		v.ConsumeHTML("</" + tag + ">\n")
		col++
	}
	v.ConsumeHTML("</tr>\n")
	return nil
}

func taskCheckBox(v *render.Visitor, source string, n *ast.Node) error {
	text, err := n.Text(source)
	if err != nil {
		return err
	}
	if strings.ContainsAny(text, "xX") {
		v.ConsumeHTML(`<input checked="" disabled="" type="checkbox" /> `)
		return nil
	}
	v.ConsumeHTML(`<input disabled="" type="checkbox" /> `)
	return nil
}
