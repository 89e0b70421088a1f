package asmrgo

// WriteCursor is the handle passed to a scheduled write's apply function.
// It is bound to exactly one class for its entire lifetime, replacing the
// pre-distillation implementation's thread-local "currently writing class"
// check with a value that structurally cannot address the wrong class:
// Substitute and SubstituteSlice reject any capture whose owning class
// differs from the cursor's.
type WriteCursor struct {
	p     *Processor
	class string
}

// ClassName returns the class this cursor is bound to.
func (w *WriteCursor) ClassName() string { return w.class }

// Substitute replaces the tree content addressed by target with a deep copy
// of replacement. target must be a reference capture owned by w's class.
func Substitute[T Node](w *WriteCursor, target NodeCapture[T], replacement T) error {
	rc, ok := any(target).(referenceCapture)
	if !ok {
		return ErrInvalidCaptureTarget
	}
	if rc.className() != w.class {
		return ErrWrongWritingClass
	}
	resolved, err := target.Resolved(w.p)
	if err != nil {
		return err
	}
	return resolved.CopyFrom(replacement)
}

// SubstituteSlice replaces the half-open range addressed by target with the
// contents of replacement, preserving replacement's element order.
func SubstituteSlice[T Node](w *WriteCursor, target SliceCapture[T], replacement *ListNode[T]) error {
	rc, ok := any(target).(referenceCapture)
	if !ok {
		return ErrInvalidCaptureTarget
	}
	if rc.className() != w.class {
		return ErrWrongWritingClass
	}
	list, err := target.ResolvedList(w.p)
	if err != nil {
		return err
	}
	start, err := target.StartNodeInclusive(w.p)
	if err != nil {
		return err
	}
	end, err := target.EndNodeExclusive(w.p)
	if err != nil {
		return err
	}
	if err := list.Remove(start, end); err != nil {
		return err
	}
	return list.InsertCopy(start, replacement)
}

// RemoveSlice deletes the half-open range addressed by target without
// inserting a replacement.
func RemoveSlice[T Node](w *WriteCursor, target SliceCapture[T]) error {
	rc, ok := any(target).(referenceCapture)
	if !ok {
		return ErrInvalidCaptureTarget
	}
	if rc.className() != w.class {
		return ErrWrongWritingClass
	}
	list, err := target.ResolvedList(w.p)
	if err != nil {
		return err
	}
	start, err := target.StartNodeInclusive(w.p)
	if err != nil {
		return err
	}
	end, err := target.EndNodeExclusive(w.p)
	if err != nil {
		return err
	}
	return list.Remove(start, end)
}
