/*
Package markdown renders Markdown to HTML through a span-based syntax tree.

Parsing and rendering are separate steps. A parser (the goldmark adapter)
produces an immutable tree of typed nodes whose spans point into the original
source. A flavour maps node types to render strategies, and the render package
walks the tree, dispatching each node to its strategy and writing HTML into a
single output buffer. Nodes without a strategy fall back to rendering their
children, or their escaped text for leaves.

# Usage

For one-off conversions use the package-level Render:

	html, err := markdown.Render("# Hello\n\nSome *emphasis*.")

Long-running programs build an Engine, which adds a default flavour, an
optional render cache, Prometheus metrics and OpenTelemetry spans:

	eng, err := markdown.New(
		markdown.WithFlavour("commonmark"),
		markdown.WithCache(memory.NewCache(memory.WithTTL(time.Hour))),
	)
	if err != nil {
		log.Fatal(err)
	}
	html, err := eng.Render(ctx, source)

# Flavours

Two flavours are registered by default: "commonmark" and "gfm" (tables,
strikethrough, task lists and autolinks). Custom flavours implement
flavour.Flavour and are added with flavour.Register.
*/
package markdown
