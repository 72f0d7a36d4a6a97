/*
Package render turns a span-based ast.Node tree into HTML.

Rendering is type-indexed dispatch: a Registry maps node types to Strategy values and a
Visitor walks the tree in pre-order, handing each node to its strategy. A strategy owns
the node completely; it may emit markup with ConsumeHTML, recurse into some or all
children, reorder them or skip them. Types without a strategy fall back to default
behaviour:

  - VisitNode visits every child in order and emits nothing itself;
  - VisitLeaf, and VisitNode on a node without children, emit the node's literal
    text through LeafText.

VisitChildren sends childless children to VisitLeaf and the others to VisitNode.

The Generator wires a flavour's strategies, a link map and a fresh visitor together for a
single render. Renders are synchronous and share no mutable state, so registries and
trees may be reused across concurrent renders as long as each render has its own visitor.

Traversal is recursive and its depth follows the document's nesting depth. Extremely
nested input can exhaust the stack; WithMaxDepth turns that into an error instead.
*/
package render
