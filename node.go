package asmrgo

// Node is the abstract element of a class's tree model. Every concrete node
// variant (ValueNode, ListNode, NamedNode, and the composite member nodes
// built from them) implements Node.
//
// Invariant: if c appears in p.Children(), then c.Parent() == p. Nodes never
// belong to two parents; transplanting must go through CopyFrom or a list's
// InsertCopy, never by reassigning a child slice directly.
type Node interface {
	// Parent returns the node's parent, or nil if this is a tree root.
	Parent() Node

	// Children returns the node's ordered child view. Leaf value nodes
	// return nil. A NamedNode always returns exactly two children.
	Children() []Node

	// CopyFrom recursively replaces this node's content with a structural
	// deep copy of other. Both nodes must be the same concrete variant and
	// the owning gate must be open, or CopyFrom returns an error.
	CopyFrom(other Node) error

	// setParent is only called by the tree machinery (list/named
	// containers) when a node is attached under a new parent.
	setParent(Node)

	// cloneDetached returns a deep copy of the node with no parent, using
	// gate as the clone's owning modification gate. Used by CopyFrom,
	// InsertCopy, and copy captures.
	cloneDetached(gate *modificationGate) Node

	// gate returns the modification gate this node was constructed under.
	gate() *modificationGate
}

// base is embedded by every concrete node type and supplies the parent
// back-link and gate association common to all variants. It mirrors the
// teacher's convention of a small embedded struct carrying shared state
// (compare garland's Node.file back-reference) rather than a self-recursive
// generic parameter.
type base struct {
	parent Node
	g      *modificationGate
}

func (b *base) Parent() Node            { return b.parent }
func (b *base) setParent(p Node)        { b.parent = p }
func (b *base) gate() *modificationGate { return b.g }

func (b *base) checkMutable() error {
	if b.g == nil {
		return nil
	}
	return b.g.checkOpen()
}

// root walks parent back-links to the tree root, satisfying the "walking
// n.parent eventually reaches r" invariant relied on by index-path capture
// resolution.
func root(n Node) Node {
	for n.Parent() != nil {
		n = n.Parent()
	}
	return n
}

// indexPath computes the ordered list of child indices from the root down
// to n, the representation a ReferenceCapture stores at creation time.
func indexPath(n Node) []int {
	var path []int
	for p := n.Parent(); p != nil; n, p = p, p.Parent() {
		idx := childIndex(p, n)
		path = append([]int{idx}, path...)
	}
	return path
}

// childIndex finds n's position in p.Children(), or -1 if not found (which
// should not happen under the parent-consistency invariant).
func childIndex(p, n Node) int {
	for i, c := range p.Children() {
		if c == n {
			return i
		}
	}
	return -1
}

// resolvePath walks r's Children() along path, returning the node found or
// an error if any index is out of range.
func resolvePath(r Node, path []int) (Node, error) {
	cur := r
	for _, idx := range path {
		children := cur.Children()
		if idx < 0 || idx >= len(children) {
			return nil, ErrCaptureInvalidated
		}
		cur = children[idx]
	}
	return cur, nil
}
