package asmrgo

import "strings"

// TransformerHandle is passed to Transformer.Apply and Transformer.Read. It
// exposes exactly the operations legal in the calling phase; calling a
// method from the wrong phase records a PhaseError that aborts the round.
type TransformerHandle struct {
	p     *Processor
	id    string
	phase Phase

	err error
}

func (h *TransformerHandle) fail(op string, expected Phase) bool {
	if h.phase != expected {
		if h.err == nil {
			h.err = &PhaseError{Operation: op, Expected: expected, Actual: h.phase}
		}
		return true
	}
	return false
}

// ID returns the owning transformer's identifier.
func (h *TransformerHandle) ID() string { return h.id }

// DependsOnRound declares that this transformer must run in a round after
// otherID's. Legal only during Apply.
func (h *TransformerHandle) DependsOnRound(otherID string) {
	if h.fail("DependsOnRound", PhaseApply) {
		return
	}
	h.p.addRoundDependency(otherID, h.id)
}

// RunsBeforeRound declares that otherID must run in a round after this
// transformer's. Legal only during Apply.
func (h *TransformerHandle) RunsBeforeRound(otherID string) {
	if h.fail("RunsBeforeRound", PhaseApply) {
		return
	}
	h.p.addRoundDependency(h.id, otherID)
}

// ConfigValue returns a driver-supplied configuration value and whether it
// was present. Legal in either Apply or Read.
func (h *TransformerHandle) ConfigValue(key string) (string, bool) {
	h.p.mu.Lock()
	defer h.p.mu.Unlock()
	v, ok := h.p.config[key]
	return v, ok
}

// WithClass returns the current tree for className, loading it on first
// access. Legal only during Read.
func (h *TransformerHandle) WithClass(className string) (*ClassNode, error) {
	if h.fail("WithClass", PhaseRead) {
		return nil, h.err
	}
	node, err := h.p.liveTree(className)
	if err != nil {
		h.err = err
		return nil, err
	}
	return node, nil
}

// WithClasses returns every registered class whose name satisfies
// predicate, loading each on first access. Legal only during Read.
func (h *TransformerHandle) WithClasses(predicate func(className string) bool) (map[string]*ClassNode, error) {
	if h.fail("WithClasses", PhaseRead) {
		return nil, h.err
	}
	names := h.p.classNames()
	out := make(map[string]*ClassNode)
	for _, name := range names {
		if !predicate(name) {
			continue
		}
		node, err := h.p.liveTree(name)
		if err != nil {
			h.err = err
			return nil, err
		}
		out[name] = node
	}
	return out, nil
}

// WithClassesByPrefix is a WithClasses convenience matching class names by
// prefix, e.g. a package prefix such as "com/example/plugin/".
func (h *TransformerHandle) WithClassesByPrefix(prefix string) (map[string]*ClassNode, error) {
	return h.WithClasses(func(className string) bool {
		return strings.HasPrefix(className, prefix)
	})
}

// WithAllClasses returns every class registered with the processor,
// loading each on first access.
func (h *TransformerHandle) WithAllClasses() (map[string]*ClassNode, error) {
	return h.WithClasses(func(string) bool { return true })
}

// GetCommonSuperClass returns the closest common ancestor of a and b among
// the classes known to this processor.
func (h *TransformerHandle) GetCommonSuperClass(a, b string) string {
	return h.p.oracle.getCommonSuperClass(a, b)
}

// IsDerivedFrom reports whether sub is, or transitively extends or
// implements, ancestorName.
func (h *TransformerHandle) IsDerivedFrom(sub, ancestorName string) bool {
	return h.p.oracle.isDerivedFrom(sub, ancestorName)
}

// AddWrite schedules a write against a single captured node, applied during
// this round's WRITE step. target must be a reference capture (one derived
// from a node in the tree currently being read), not a copy capture: a copy
// capture's snapshot is detached and has nothing live to substitute into.
// dependsOn lists write ids, scoped to target's owning class, that must
// apply first.
func AddWrite[T Node](h *TransformerHandle, writeID string, target NodeCapture[T], dependsOn []string, apply func(cursor *WriteCursor, target NodeCapture[T]) error) {
	if h.fail("AddWrite", PhaseRead) {
		return
	}
	rc, ok := any(target).(referenceCapture)
	if !ok {
		h.err = ErrInvalidCaptureTarget
		return
	}
	for _, dep := range dependsOn {
		h.p.addWriteDependency(dep, writeID)
	}
	h.p.enqueueWrite(&pendingWrite{
		id:        writeID,
		class:     rc.className(),
		dependsOn: dependsOn,
		capture:   rc,
		origin:    h.id,
		apply: func(cursor *WriteCursor) error {
			return apply(cursor, target)
		},
	})
}

// AddWriteSlice is the SliceCapture analogue of AddWrite.
func AddWriteSlice[T Node](h *TransformerHandle, writeID string, target SliceCapture[T], dependsOn []string, apply func(cursor *WriteCursor, target SliceCapture[T]) error) {
	if h.fail("AddWriteSlice", PhaseRead) {
		return
	}
	rc, ok := any(target).(referenceCapture)
	if !ok {
		h.err = ErrInvalidCaptureTarget
		return
	}
	for _, dep := range dependsOn {
		h.p.addWriteDependency(dep, writeID)
	}
	h.p.enqueueWrite(&pendingWrite{
		id:        writeID,
		class:     rc.className(),
		dependsOn: dependsOn,
		capture:   rc,
		origin:    h.id,
		apply: func(cursor *WriteCursor) error {
			return apply(cursor, target)
		},
	})
}
