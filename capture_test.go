package asmrgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProcessor(t *testing.T, class *ClassNode) *Processor {
	t.Helper()
	p := NewProcessor(nil)
	p.AddClassTree(class)
	return p
}

func TestCopyNodeCaptureIsIndependentOfLaterEdits(t *testing.T) {
	gate := newModificationGate()
	restore := gate.open()

	field := NewFieldNode(gate, "count", "I")
	capture := NewCopyNodeCapture[*FieldNode](field)

	require.NoError(t, field.Name().SetValue("renamed"))
	restore()

	p := NewProcessor(nil)
	resolved, err := capture.Resolved(p)
	require.NoError(t, err)
	assert.Equal(t, "count", resolved.Name().Value())
}

func TestReferenceNodeCaptureResolvesLiveTree(t *testing.T) {
	gate := newModificationGate()
	restore := gate.open()
	class := NewClassNode(gate, "com/example/Widget", "java/lang/Object")
	field := NewFieldNode(gate, "count", "I")
	require.NoError(t, class.Fields().Append(field))
	restore()

	p := newTestProcessor(t, class)
	capture := NewReferenceNodeCapture[*FieldNode](field, "com/example/Widget")

	restore = gate.open()
	require.NoError(t, field.Name().SetValue("renamed"))
	restore()

	resolved, err := capture.Resolved(p)
	require.NoError(t, err)
	assert.Equal(t, "renamed", resolved.Name().Value())
}

func TestReferenceNodeCaptureInvalidatedAfterRemoval(t *testing.T) {
	gate := newModificationGate()
	restore := gate.open()
	class := NewClassNode(gate, "com/example/Widget", "java/lang/Object")
	f1 := NewFieldNode(gate, "a", "I")
	f2 := NewFieldNode(gate, "b", "I")
	require.NoError(t, class.Fields().Append(f1))
	require.NoError(t, class.Fields().Append(f2))
	restore()

	p := newTestProcessor(t, class)
	capture := NewReferenceNodeCapture[*FieldNode](f2, "com/example/Widget")

	restore = gate.open()
	require.NoError(t, class.Fields().Remove(1, 2))
	restore()

	_, err := capture.Resolved(p)
	assert.ErrorIs(t, err, ErrCaptureInvalidated)
}

func TestReferenceSliceCaptureNormalizesInclusivity(t *testing.T) {
	gate := newModificationGate()
	restore := gate.open()
	class := NewClassNode(gate, "com/example/Widget", "java/lang/Object")
	for _, name := range []string{"a", "b", "c", "d"} {
		require.NoError(t, class.Fields().Append(NewFieldNode(gate, name, "I")))
	}
	restore()

	p := newTestProcessor(t, class)

	// [1, 2] inclusive on both ends normalizes to [1, 3)
	capture := NewReferenceSliceCapture[*FieldNode](class.Fields(), "com/example/Widget", 1, 2, true, true)
	start, err := capture.StartNodeInclusive(p)
	require.NoError(t, err)
	end, err := capture.EndNodeExclusive(p)
	require.NoError(t, err)
	assert.Equal(t, 1, start)
	assert.Equal(t, 3, end)

	// (0, 3) exclusive-start, exclusive-end normalizes to [1, 3)
	capture2 := NewReferenceSliceCapture[*FieldNode](class.Fields(), "com/example/Widget", 0, 3, false, false)
	start2, err := capture2.StartNodeInclusive(p)
	require.NoError(t, err)
	end2, err := capture2.EndNodeExclusive(p)
	require.NoError(t, err)
	assert.Equal(t, 1, start2)
	assert.Equal(t, 3, end2)
}

func TestCopySliceCaptureBoundsChecked(t *testing.T) {
	gate := newModificationGate()
	restore := gate.open()
	defer restore()

	list := NewListNode[*ValueNode[int]](gate)
	require.NoError(t, list.Append(NewValueNode(gate, 1)))

	_, err := NewCopySliceCapture[*ValueNode[int]](list, 0, 5)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}
