package ast

// Type tags the syntactic category of a node.
// Equality is plain value equality; the string is only used for diagnostics.
type Type string

func (t Type) String() string { return string(t) }

// Element types: composite nodes whose meaning comes from their children.
const (
	Document Type = "DOCUMENT"

	Paragraph      Type = "PARAGRAPH"
	TightParagraph Type = "TIGHT_PARAGRAPH" // paragraph inside a tight list item
	Heading1       Type = "HEADING_1"
	Heading2       Type = "HEADING_2"
	Heading3       Type = "HEADING_3"
	Heading4       Type = "HEADING_4"
	Heading5       Type = "HEADING_5"
	Heading6       Type = "HEADING_6"
	BlockQuote     Type = "BLOCK_QUOTE"
	UnorderedList  Type = "UNORDERED_LIST"
	OrderedList    Type = "ORDERED_LIST"
	ListItem       Type = "LIST_ITEM"
	CodeBlock      Type = "CODE_BLOCK"
	CodeFence      Type = "CODE_FENCE"
	HTMLBlock      Type = "HTML_BLOCK"
	LinkDefinition Type = "LINK_DEFINITION"

	Emphasis           Type = "EMPHASIS"
	Strong             Type = "STRONG"
	CodeSpan           Type = "CODE_SPAN"
	InlineLink         Type = "INLINE_LINK"
	FullReferenceLink  Type = "FULL_REFERENCE_LINK"
	ShortReferenceLink Type = "SHORT_REFERENCE_LINK"
	Image              Type = "IMAGE"
	AutoLink           Type = "AUTOLINK"
	LinkText           Type = "LINK_TEXT"

	// GFM
	Strikethrough Type = "STRIKETHROUGH"
	Table         Type = "TABLE"
	TableHeader   Type = "TABLE_HEADER"
	TableRow      Type = "TABLE_ROW"
	TableCell     Type = "TABLE_CELL"
)

// Token types: leaves whose meaning is their source text.
const (
	Text             Type = "TEXT"
	EOL              Type = "EOL"
	HardLineBreak    Type = "HARD_LINE_BREAK"
	BlockQuoteMarker Type = "BLOCK_QUOTE_MARKER" // the '>' prefix, never content
	ListBullet       Type = "LIST_BULLET"
	ListNumber       Type = "LIST_NUMBER"
	CodeLine         Type = "CODE_LINE"
	CodePadding      Type = "CODE_PADDING" // zero-width; one column of a split tab, rendered as a space
	FenceLang        Type = "FENCE_LANG"
	HTMLLine         Type = "HTML_LINE"
	InlineHTML       Type = "INLINE_HTML"
	ThematicBreak    Type = "THEMATIC_BREAK"
	LinkDestination  Type = "LINK_DESTINATION"
	LinkTitle        Type = "LINK_TITLE"
	LinkLabel        Type = "LINK_LABEL"
	URL              Type = "URL"

	// GFM
	TableSeparator Type = "TABLE_SEPARATOR"
	TaskCheckBox   Type = "TASK_CHECKBOX"
)

var headings = [...]Type{Heading1, Heading2, Heading3, Heading4, Heading5, Heading6}

// HeadingType returns the heading type for level 1..6.
// Levels outside that range are clamped.
func HeadingType(level int) Type {
	if level < 1 {
		level = 1
	}
	if level > len(headings) {
		level = len(headings)
	}
	return headings[level-1]
}

// HeadingLevel returns the level of a heading type, or 0 if t is not a heading.
func HeadingLevel(t Type) int {
	for i, h := range headings {
		if h == t {
			return i + 1
		}
	}
	return 0
}
