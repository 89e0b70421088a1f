package asmrgo

import "sync"

// Phase identifies which stage of the processing pipeline is currently
// executing. Each phase-checked transformer-facing method (dependency
// declarations, WithClass/WithClasses, AddWrite/AddWriteSlice) is legal in
// exactly one phase; calling it from another phase is a PhaseError.
// ConfigValue, GetCommonSuperClass and IsDerivedFrom are not phase-checked.
type Phase int

const (
	// PhaseNone indicates no processing round is active.
	PhaseNone Phase = iota

	// PhaseApply runs each transformer's Apply hook sequentially, single
	// threaded, with the modification gate closed. Only dependency
	// declarations are legal.
	PhaseApply

	// PhaseRead runs a round's transformers' Read hooks in parallel, with
	// the modification gate closed. withClass/withClasses, capture
	// creation, and addWrite are legal.
	PhaseRead

	// PhaseWrite applies queued writes per class, with the modification
	// gate open. substitute and tree mutators are legal.
	PhaseWrite
)

func (p Phase) String() string {
	switch p {
	case PhaseApply:
		return "APPLY"
	case PhaseRead:
		return "READ"
	case PhaseWrite:
		return "WRITE"
	default:
		return "NONE"
	}
}

// modificationGate is the process-wide (per-Processor) permission flag
// controlling whether tree mutators may execute, gating writes across the
// whole tree rather than a single byte range.
//
// The gate is reference-counted rather than a plain boolean because
// distinct classes are written concurrently during WRITE: each class's
// goroutine calls open independently, and the gate must stay open until
// every concurrent opener has restored it. It is closed (count zero)
// during APPLY and READ, open during WRITE, and every open/close is
// restored on every exit path including panics.
type modificationGate struct {
	mu    sync.Mutex
	count int
}

func newModificationGate() *modificationGate {
	return &modificationGate{}
}

// IsOpen reports whether tree mutation is currently permitted.
func (g *modificationGate) IsOpen() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.count > 0
}

// checkOpen returns ErrModificationForbidden if the gate is closed.
func (g *modificationGate) checkOpen() error {
	if !g.IsOpen() {
		return ErrModificationForbidden
	}
	return nil
}

// open increments the gate's open count and returns a closure that
// decrements it back. Safe to call concurrently from independent
// goroutines writing independent classes. Callers should defer the
// returned function so the gate is restored on every exit path, including
// a panicking transformer; the closure is idempotent.
func (g *modificationGate) open() (restore func()) {
	g.mu.Lock()
	g.count++
	g.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			g.count--
			g.mu.Unlock()
		})
	}
}

// close forces the gate's open count to zero and returns a restore closure
// that puts the prior count back. Intended for single-threaded use at
// round boundaries, not for use alongside concurrent open callers.
func (g *modificationGate) close() (restore func()) {
	g.mu.Lock()
	was := g.count
	g.count = 0
	g.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			g.count = was
			g.mu.Unlock()
		})
	}
}
