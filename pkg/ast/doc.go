/*
Package ast defines the span-based document tree consumed by the renderer.

A Node carries a Type tag, a Span into the original source text and an ordered list of
children. Nodes never copy source text: callers resolve a span against the source they
were built from with Span.Text.

# Types

Types are opaque comparable tags. The package declares the element types (composites
such as Paragraph or BlockQuote) and token types (leaves such as Text or CodeLine) used
by the bundled flavours; dialects are free to declare their own:

	const Spoiler ast.Type = "SPOILER"

Trees are immutable once built. Use New for single nodes or Builder for fluent
construction in tests and tree builders.
*/
package ast
