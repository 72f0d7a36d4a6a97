package ast

// WalkFunc is called for every node visited by Walk.
// Returning false skips the node's children.
type WalkFunc func(n *Node) bool

// Walk visits root and its descendants in pre-order, left to right.
func Walk(root *Node, fn WalkFunc) {
	if root == nil {
		return
	}
	if !fn(root) {
		return
	}
	for _, ch := range root.children {
		Walk(ch, fn)
	}
}

// Find returns every node of the given type in pre-order.
func Find(root *Node, typ Type) []*Node {
	var found []*Node
	Walk(root, func(n *Node) bool {
		if n.typ == typ {
			found = append(found, n)
		}
		return true
	})
	return found
}
