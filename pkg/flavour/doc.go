/*
Package flavour provides the markup dialects the renderer knows about.

A Flavour names a set of render strategies. CommonMark covers the core block and inline
constructs; GFM adds strikethrough, tables and task list check boxes on top of it.
Flavours are looked up by name through a process-wide registry seeded with both.

The strategies expect the tree shape produced by the goldmark adapter:

	DOCUMENT            blocks
	PARAGRAPH           inline content
	TIGHT_PARAGRAPH     inline content of a paragraph inside a tight list item
	HEADING_1..6        inline content
	BLOCK_QUOTE         BLOCK_QUOTE_MARKER* blocks
	ORDERED_LIST        LIST_ITEM+
	UNORDERED_LIST      LIST_ITEM+
	LIST_ITEM           (LIST_NUMBER | LIST_BULLET) blocks
	CODE_BLOCK          CODE_LINE*
	CODE_FENCE          FENCE_LANG? CODE_LINE*
	HTML_BLOCK          HTML_LINE*
	LINK_DEFINITION     LINK_LABEL LINK_DESTINATION LINK_TITLE?
	INLINE_LINK         LINK_TEXT LINK_DESTINATION? LINK_TITLE?
	FULL_REFERENCE_LINK LINK_TEXT LINK_LABEL
	SHORT_REFERENCE_LINK LINK_TEXT
	IMAGE               LINK_TEXT (LINK_DESTINATION LINK_TITLE? | LINK_LABEL)?
	AUTOLINK            URL
	EMPHASIS, STRONG    inline content
	CODE_SPAN           (TEXT | EOL)*
	TABLE               TABLE_HEADER TABLE_SEPARATOR TABLE_ROW*
	TABLE_HEADER        TABLE_CELL*
	TABLE_ROW           TABLE_CELL*

LINK_TEXT spans the text between the brackets. An image without a destination or label
is a short reference resolved by its LINK_TEXT.
*/
package flavour
