// Package asmrgo coordinates independently authored bytecode transformers
// over a corpus of classfiles. Transformers observe a tree model of the
// classes during a read phase and schedule edits; the processor applies
// those edits in dependency-ordered rounds so later transformers see the
// effects of earlier ones.
package asmrgo

import (
	"errors"
	"fmt"
)

// Phase errors
var (
	// ErrWrongPhase indicates an operation was invoked outside the phase
	// it is legal in.
	ErrWrongPhase = errors.New("operation not legal in current phase")

	// ErrWrongWritingClass indicates a mutation targeted a class other than
	// the one currently bound to the calling worker's write.
	ErrWrongWritingClass = errors.New("operation targets a class other than the one currently being written")
)

// Tree mutation errors
var (
	// ErrModificationForbidden indicates a mutator was invoked while the
	// modification gate is closed.
	ErrModificationForbidden = errors.New("tree modification is forbidden while the modification gate is closed")

	// ErrVariantMismatch indicates copyFrom was invoked between nodes of
	// incompatible variants.
	ErrVariantMismatch = errors.New("node variants do not match")

	// ErrIndexOutOfRange indicates a list index or range was outside the
	// list's current bounds.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Scheduling errors
var (
	// ErrCyclicDependency indicates the round or write scheduler could not
	// drain all nodes because a cycle exists. Fatal: aborts processing.
	ErrCyclicDependency = errors.New("cyclic dependency among transformers")
)

// Class lookup errors
var (
	// ErrUnknownClass indicates withClass/withClasses referenced a class
	// name not present in the processor's class set.
	ErrUnknownClass = errors.New("class not found")

	// ErrTypeNotPresent indicates a platform lookup for a subtype query
	// could not find the requested class.
	ErrTypeNotPresent = errors.New("type not present")

	// ErrNoReader indicates a class was registered from raw bytecode with a
	// nil Reader and needed to be parsed before any tree existed for it.
	ErrNoReader = errors.New("no Reader configured to parse this class's bytecode")
)

// Capture errors
var (
	// ErrInvalidCaptureTarget indicates addWrite received a copy capture
	// instead of a reference capture.
	ErrInvalidCaptureTarget = errors.New("write target must be a reference capture, not a copy capture")

	// ErrCaptureInvalidated indicates a reference capture's recorded index
	// path or slice bounds no longer resolve against the current tree,
	// because the tree was restructured after the capture was recorded.
	ErrCaptureInvalidated = errors.New("reference capture no longer resolves against the current tree")
)

// PhaseError reports an operation attempted outside its legal phase.
type PhaseError struct {
	Operation string
	Expected  Phase
	Actual    Phase
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s: expected phase %s, was in %s", e.Operation, e.Expected, e.Actual)
}

func (e *PhaseError) Unwrap() error { return ErrWrongPhase }

// CyclicDependencyError reports the transformer/anchor ids that could not
// be scheduled into a round because of a cyclic roundDependents graph.
type CyclicDependencyError struct {
	Unresolved []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic round dependency involving: %v", e.Unresolved)
}

func (e *CyclicDependencyError) Unwrap() error { return ErrCyclicDependency }

// UnknownClassError reports a class name absent from the processor.
type UnknownClassError struct {
	Name string
}

func (e *UnknownClassError) Error() string {
	return fmt.Sprintf("class not found: %s", e.Name)
}

func (e *UnknownClassError) Unwrap() error { return ErrUnknownClass }

// IOError wraps a failure to read a classfile's bytecode, e.g. because the
// backing jar entry or file was deleted mid-run.
type IOError struct {
	ClassName string
	Cause     error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("error reading class %q: %v", e.ClassName, e.Cause)
}

func (e *IOError) Unwrap() error { return e.Cause }
