package asmrgo

import "sync"

// NodeCapture is a handle to a single node captured during READ, either a
// detached snapshot (Copy) or a deferred path (Reference) resolved against
// the modified tree during WRITE.
type NodeCapture[T Node] interface {
	// Resolved returns the captured node: the snapshot itself for a copy
	// capture, or the live node found by walking the recorded index path
	// for a reference capture (only valid after computeResolved has run,
	// i.e. during WRITE).
	Resolved(p *Processor) (T, error)

	isReference() bool
}

// SliceCapture is the list analogue of NodeCapture: a handle to a half-open
// range within a ListNode.
type SliceCapture[T Node] interface {
	ResolvedList(p *Processor) (*ListNode[T], error)
	StartNodeInclusive(p *Processor) (int, error)
	EndNodeExclusive(p *Processor) (int, error)

	isReference() bool
}

// referenceCapture is implemented by both reference node and reference
// slice captures, letting the engine shard pending resolutions by owning
// class without knowing the captured element type.
type referenceCapture interface {
	className() string
	computeResolved(p *Processor) error
}

// ---- copy captures ----

// CopyNodeCapture owns a detached deep snapshot taken at construction time.
// It is independent of subsequent tree changes.
type CopyNodeCapture[T Node] struct {
	snapshot T
}

// NewCopyNodeCapture deep-clones node into a detached snapshot.
func NewCopyNodeCapture[T Node](node T) *CopyNodeCapture[T] {
	clone := node.cloneDetached(node.gate()).(T)
	return &CopyNodeCapture[T]{snapshot: clone}
}

func (c *CopyNodeCapture[T]) Resolved(p *Processor) (T, error) { return c.snapshot, nil }
func (c *CopyNodeCapture[T]) isReference() bool                { return false }

// CopySliceCapture stores the detached clone of a [start, end) range.
type CopySliceCapture[T Node] struct {
	snapshot *ListNode[T]
}

// NewCopySliceCapture deep-clones list[start:end] into a detached list.
func NewCopySliceCapture[T Node](list *ListNode[T], startInclusive, endExclusive int) (*CopySliceCapture[T], error) {
	if startInclusive < 0 || endExclusive > list.Len() || startInclusive > endExclusive {
		return nil, ErrIndexOutOfRange
	}
	snap := NewListNode[T](list.gate())
	for i := startInclusive; i < endExclusive; i++ {
		clone := list.Get(i).cloneDetached(list.gate()).(T)
		clone.setParent(snap)
		snap.children = append(snap.children, clone)
	}
	return &CopySliceCapture[T]{snapshot: snap}, nil
}

func (c *CopySliceCapture[T]) ResolvedList(p *Processor) (*ListNode[T], error) {
	return c.snapshot, nil
}
func (c *CopySliceCapture[T]) StartNodeInclusive(p *Processor) (int, error) { return 0, nil }
func (c *CopySliceCapture[T]) EndNodeExclusive(p *Processor) (int, error) {
	return c.snapshot.Len(), nil
}
func (c *CopySliceCapture[T]) isReference() bool { return false }

// ---- reference captures ----

// ReferenceNodeCapture remembers a path (owning class name + ordered
// ancestor indices from root) and resolves against the current tree at
// write time. Resolution is cached thereafter.
type ReferenceNodeCapture[T Node] struct {
	class string
	path  []int

	once     sync.Once
	resolved T
	err      error
}

// NewReferenceNodeCapture captures node's owning class and index path.
func NewReferenceNodeCapture[T Node](node T, ownerClass string) *ReferenceNodeCapture[T] {
	return &ReferenceNodeCapture[T]{class: ownerClass, path: indexPath(node)}
}

func (c *ReferenceNodeCapture[T]) className() string { return c.class }
func (c *ReferenceNodeCapture[T]) isReference() bool { return true }

func (c *ReferenceNodeCapture[T]) computeResolved(p *Processor) error {
	c.once.Do(func() {
		classNode, err := p.liveTree(c.class)
		if err != nil {
			c.err = err
			return
		}
		found, err := resolvePath(classNode, c.path)
		if err != nil {
			c.err = err
			return
		}
		typed, ok := found.(T)
		if !ok {
			c.err = ErrCaptureInvalidated
			return
		}
		c.resolved = typed
	})
	return c.err
}

// Resolved returns the live node. Only meaningful after computeResolved has
// run for this capture's class during WRITE.
func (c *ReferenceNodeCapture[T]) Resolved(p *Processor) (T, error) {
	if err := c.computeResolved(p); err != nil {
		var zero T
		return zero, err
	}
	return c.resolved, nil
}

// ReferenceSliceCapture is the reference analogue for a list range, with
// independent inclusivity per endpoint. Resolution normalizes the
// endpoints to the half-open form [startNodeInclusive, endNodeExclusive)
// by incrementing the start when startInclusive is false and incrementing
// the end when endInclusive is true.
type ReferenceSliceCapture[T Node] struct {
	class          string
	listPath       []int
	startIndex     int
	endIndex       int
	startInclusive bool
	endInclusive   bool

	once         sync.Once
	resolvedList *ListNode[T]
	err          error
}

// NewReferenceSliceCapture captures list's owning class, index path, and
// the requested (possibly not-yet-normalized) range.
func NewReferenceSliceCapture[T Node](list *ListNode[T], ownerClass string, startIndex, endIndex int, startInclusive, endInclusive bool) *ReferenceSliceCapture[T] {
	return &ReferenceSliceCapture[T]{
		class: ownerClass, listPath: indexPath(list),
		startIndex: startIndex, endIndex: endIndex,
		startInclusive: startInclusive, endInclusive: endInclusive,
	}
}

func (c *ReferenceSliceCapture[T]) className() string { return c.class }
func (c *ReferenceSliceCapture[T]) isReference() bool { return true }

func (c *ReferenceSliceCapture[T]) computeResolved(p *Processor) error {
	c.once.Do(func() {
		classNode, err := p.liveTree(c.class)
		if err != nil {
			c.err = err
			return
		}
		found, err := resolvePath(classNode, c.listPath)
		if err != nil {
			c.err = err
			return
		}
		typed, ok := found.(*ListNode[T])
		if !ok {
			c.err = ErrCaptureInvalidated
			return
		}
		c.resolvedList = typed
	})
	return c.err
}

func (c *ReferenceSliceCapture[T]) ResolvedList(p *Processor) (*ListNode[T], error) {
	if err := c.computeResolved(p); err != nil {
		return nil, err
	}
	return c.resolvedList, nil
}

func (c *ReferenceSliceCapture[T]) StartNodeInclusive(p *Processor) (int, error) {
	if err := c.computeResolved(p); err != nil {
		return 0, err
	}
	start := c.startIndex
	if !c.startInclusive {
		start++
	}
	if start < 0 || start > c.resolvedList.Len() {
		return 0, ErrCaptureInvalidated
	}
	return start, nil
}

func (c *ReferenceSliceCapture[T]) EndNodeExclusive(p *Processor) (int, error) {
	if err := c.computeResolved(p); err != nil {
		return 0, err
	}
	end := c.endIndex
	if c.endInclusive {
		end++
	}
	if end < 0 || end > c.resolvedList.Len() {
		return 0, ErrCaptureInvalidated
	}
	return end, nil
}
