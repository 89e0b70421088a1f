package asmrgo

// NamedNode is a composite with exactly two children in fixed order: a
// ValueNode[string] name and a value of type V.
type NamedNode[V Node] struct {
	base
	name  *ValueNode[string]
	value V
}

// NewNamedNode constructs a detached NamedNode from an already-detached
// name and value, taking ownership of both.
func NewNamedNode[V Node](gate *modificationGate, name string, value V) *NamedNode[V] {
	n := &NamedNode[V]{base: base{g: gate}, name: NewValueNode(gate, name), value: value}
	n.name.setParent(n)
	value.setParent(n)
	return n
}

// Name returns the name child.
func (n *NamedNode[V]) Name() *ValueNode[string] { return n.name }

// Value returns the value child.
func (n *NamedNode[V]) Value() V { return n.value }

// Children always returns [name, value].
func (n *NamedNode[V]) Children() []Node {
	return []Node{n.name, n.value}
}

// CopyFrom implements Node.
func (n *NamedNode[V]) CopyFrom(other Node) error {
	if err := n.checkMutable(); err != nil {
		return err
	}
	o, ok := other.(*NamedNode[V])
	if !ok {
		return ErrVariantMismatch
	}
	if err := n.name.CopyFrom(o.name); err != nil {
		return err
	}
	return n.value.CopyFrom(o.value)
}

func (n *NamedNode[V]) cloneDetached(gate *modificationGate) Node {
	nameClone := n.name.cloneDetached(gate).(*ValueNode[string])
	valueClone := n.value.cloneDetached(gate).(V)
	clone := &NamedNode[V]{base: base{g: gate}, name: nameClone, value: valueClone}
	nameClone.setParent(clone)
	valueClone.setParent(clone)
	return clone
}
