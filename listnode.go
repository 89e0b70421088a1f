package asmrgo

// NodeList is implemented by every ListNode[T] regardless of its element
// type T, letting InsertCopy accept a list of a compatible element
// subtype rather than requiring an exact generic instantiation match.
type NodeList interface {
	Node
	Len() int
	NodeAt(i int) Node
}

// ListNode is an ordered, homogeneous sequence of child nodes.
type ListNode[T Node] struct {
	base
	children []T
}

// NewListNode constructs an empty, detached ListNode owned by gate.
func NewListNode[T Node](gate *modificationGate) *ListNode[T] {
	return &ListNode[T]{base: base{g: gate}}
}

// Len returns the number of elements.
func (l *ListNode[T]) Len() int { return len(l.children) }

// Get returns the element at index i.
func (l *ListNode[T]) Get(i int) T { return l.children[i] }

// NodeAt implements NodeList, returning the element at i as a Node.
func (l *ListNode[T]) NodeAt(i int) Node { return l.children[i] }

// Children returns the ordered child view.
func (l *ListNode[T]) Children() []Node {
	out := make([]Node, len(l.children))
	for i, c := range l.children {
		out[i] = c
	}
	return out
}

// CopyFrom implements Node: replaces this list's content with a deep copy
// of other's children. other must be a *ListNode[T] of the exact same
// element type; use InsertCopy for cross-subtype copying into an empty
// range.
func (l *ListNode[T]) CopyFrom(other Node) error {
	if err := l.checkMutable(); err != nil {
		return err
	}
	o, ok := other.(*ListNode[T])
	if !ok {
		return ErrVariantMismatch
	}
	l.children = l.children[:0]
	for _, c := range o.children {
		clone := c.cloneDetached(l.g).(T)
		clone.setParent(l)
		l.children = append(l.children, clone)
	}
	return nil
}

func (l *ListNode[T]) cloneDetached(gate *modificationGate) Node {
	clone := &ListNode[T]{base: base{g: gate}}
	clone.children = make([]T, len(l.children))
	for i, c := range l.children {
		cc := c.cloneDetached(gate).(T)
		cc.setParent(clone)
		clone.children[i] = cc
	}
	return clone
}

// Remove deletes the half-open range [startInclusive, endExclusive). It is
// a no-op if start == end.
func (l *ListNode[T]) Remove(startInclusive, endExclusive int) error {
	if err := l.checkMutable(); err != nil {
		return err
	}
	if startInclusive == endExclusive {
		return nil
	}
	if startInclusive < 0 || endExclusive > len(l.children) || startInclusive > endExclusive {
		return ErrIndexOutOfRange
	}
	l.children = append(l.children[:startInclusive], l.children[endExclusive:]...)
	return nil
}

// InsertCopy inserts deep copies of other's children at index, shifting
// existing children right. index must be in [0, Len()]. other may be a
// ListNode of a compatible element subtype; each cloned element is
// type-asserted to T and InsertCopy fails with ErrVariantMismatch if any
// element is not assignable.
func (l *ListNode[T]) InsertCopy(index int, other NodeList) error {
	if err := l.checkMutable(); err != nil {
		return err
	}
	if index < 0 || index > len(l.children) {
		return ErrIndexOutOfRange
	}
	n := other.Len()
	inserted := make([]T, n)
	for i := 0; i < n; i++ {
		clone := other.NodeAt(i).cloneDetached(l.g)
		typed, ok := clone.(T)
		if !ok {
			return ErrVariantMismatch
		}
		typed.setParent(l)
		inserted[i] = typed
	}
	tail := append([]T{}, l.children[index:]...)
	l.children = append(l.children[:index], inserted...)
	l.children = append(l.children, tail...)
	return nil
}

// Append inserts a single already-detached element at the end, taking
// ownership (setting its parent). It is a convenience used by tree
// construction helpers and is subject to the modification gate.
func (l *ListNode[T]) Append(elem T) error {
	if err := l.checkMutable(); err != nil {
		return err
	}
	elem.setParent(l)
	l.children = append(l.children, elem)
	return nil
}
