package asmrgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamedNodeChildrenFixedOrder(t *testing.T) {
	gate := newModificationGate()
	restore := gate.open()
	defer restore()

	value := NewValueNode(gate, 7)
	named := NewNamedNode[*ValueNode[int]](gate, "answer", value)

	children := named.Children()
	require.Len(t, children, 2)
	assert.Same(t, Node(named.Name()), children[0])
	assert.Same(t, Node(named.Value()), children[1])
	assert.Equal(t, "answer", named.Name().Value())
	assert.Equal(t, 7, named.Value().Value())
}

func TestNamedNodeCopyFromAndCloneDetached(t *testing.T) {
	gate := newModificationGate()
	restore := gate.open()
	defer restore()

	original := NewNamedNode[*ValueNode[int]](gate, "count", NewValueNode(gate, 1))
	clone := original.cloneDetached(gate).(*NamedNode[*ValueNode[int]])

	assert.Nil(t, clone.Parent())
	require.NoError(t, clone.Value().SetValue(2))
	assert.Equal(t, 1, original.Value().Value())

	other := NewNamedNode[*ValueNode[int]](gate, "renamed", NewValueNode(gate, 99))
	require.NoError(t, original.CopyFrom(other))
	assert.Equal(t, "renamed", original.Name().Value())
	assert.Equal(t, 99, original.Value().Value())
}
