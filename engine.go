package asmrgo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"weak"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// pendingWrite is one AddWrite registration, queued during READ and applied
// during WRITE in writeDependents order within its owning class.
type pendingWrite struct {
	id        string
	class     string
	dependsOn []string
	capture   referenceCapture // resolved up front, before any write in the class runs
	apply     func(*WriteCursor) error
	origin    string // transformer id that scheduled this write, for logging
}

// Processor coordinates a set of transformers over a set of classes: apply,
// then round-by-round read/write. A single Processor
// instance is not safe for use by more than one process() call at a time,
// but the internals fan work out across goroutines within one call.
type Processor struct {
	logger *zap.Logger
	config map[string]string

	gate *modificationGate

	mu      sync.Mutex
	classes map[string]*classProvider
	order   []string

	oracle *subtypeOracle

	transformers    []Transformer
	roundDependents map[string][]string
	writeDependents map[string][]string
	anchors         []string

	pendingMu sync.Mutex
	pending   map[string][]*pendingWrite

	conflictsMu    sync.Mutex
	writtenClasses map[string]bool

	// upToDate mirrors the pre-distillation source's trivial boolean
	// cache-validity flag: cleared by any class registration or explicit
	// InvalidateCache, set once Process completes a full pass.
	upToDate bool
}

// NewProcessor constructs an empty Processor. logger may be nil, in which
// case a no-op logger is used.
func NewProcessor(logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Processor{
		logger:          logger,
		config:          make(map[string]string),
		gate:            newModificationGate(),
		classes:         make(map[string]*classProvider),
		roundDependents: make(map[string][]string),
		writeDependents: make(map[string][]string),
		anchors:         append([]string(nil), defaultAnchors...),
		pending:         make(map[string][]*pendingWrite),
		writtenClasses:  make(map[string]bool),
	}
	p.oracle = newSubtypeOracle(p)
	return p
}

// AddClass registers a class from raw bytecode, parsed lazily via reader on
// first access.
func (p *Processor) AddClass(name string, bytecode []byte, reader Reader) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.classes[name]; !exists {
		p.order = append(p.order, name)
	}
	p.classes[name] = newClassProvider(bytesSource{data: bytecode}, reader, p.gate)
	p.upToDate = false
}

// AddClassTree registers a class that is already parsed, e.g. one built
// directly with NewClassNode by a test or an in-memory driver. The tree
// must have been constructed under this processor's gate.
func (p *Processor) AddClassTree(node *ClassNode) {
	name := node.Name().Value()
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.classes[name]; !exists {
		p.order = append(p.order, name)
	}
	cp := newClassProvider(bytesSource{}, nil, p.gate)
	cp.modifiedClass = node
	p.classes[name] = cp
	p.upToDate = false
}

// AddTransformer registers a transformer to run in every process() call.
func (p *Processor) AddTransformer(t Transformer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.transformers = append(p.transformers, t)
}

// SetAnchors overrides the default two-anchor milestone chain.
func (p *Processor) SetAnchors(anchors []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.anchors = append([]string(nil), anchors...)
}

// SetConfigValue stores a driver-supplied configuration value visible to
// transformers via TransformerHandle.ConfigValue.
func (p *Processor) SetConfigValue(key, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.config[key] = value
}

// GetConfigValue returns a driver-supplied configuration value and whether
// it was present. The driver-facing counterpart to TransformerHandle.ConfigValue.
func (p *Processor) GetConfigValue(key string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.config[key]
	return v, ok
}

// classNames returns a snapshot of every class name registered with p, in
// registration order.
func (p *Processor) classNames() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.order...)
}

// liveTree returns the current tree for className, loading it if necessary.
// Implements the method capture.go's reference captures call to resolve
// against the live (possibly already-modified) tree during WRITE.
func (p *Processor) liveTree(className string) (*ClassNode, error) {
	p.mu.Lock()
	cp, ok := p.classes[className]
	p.mu.Unlock()
	if !ok {
		return nil, &UnknownClassError{Name: className}
	}
	node, err := cp.Get()
	if err != nil {
		return nil, &IOError{ClassName: className, Cause: err}
	}
	return node, nil
}

// FindClassImmediately returns the pinned tree for className if one is
// pinned (a class registered with AddClassTree, or one a write has
// touched), else nil. Unlike liveTree, it never triggers a parse: a driver can use it to
// inspect what has changed so far without forcing every remaining class to
// load.
func (p *Processor) FindClassImmediately(className string) *ClassNode {
	p.mu.Lock()
	cp, ok := p.classes[className]
	p.mu.Unlock()
	if !ok {
		return nil
	}
	return cp.modifiedIfPresent()
}

// GetModifiedClassNames returns the names of every class that received at
// least one applied write, in registration order.
func (p *Processor) GetModifiedClassNames() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var names []string
	for _, name := range p.order {
		if p.writtenClasses[name] {
			names = append(names, name)
		}
	}
	return names
}

// addRoundDependency records that dependent must run in a strictly later
// round than dependency.
func (p *Processor) addRoundDependency(dependency, dependent string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.roundDependents[dependency] = append(p.roundDependents[dependency], dependent)
}

// addWriteDependency records that dependent must apply after dependency
// within their common class's write step.
func (p *Processor) addWriteDependency(dependency, dependent string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writeDependents[dependency] = append(p.writeDependents[dependency], dependent)
}

func (p *Processor) enqueueWrite(w *pendingWrite) {
	p.pendingMu.Lock()
	defer p.pendingMu.Unlock()
	p.pending[w.class] = append(p.pending[w.class], w)
}

// IsUpToDate reports whether the last Process call ran to completion with
// no class registration or InvalidateCache call since. When true, the next
// Process call is a no-op.
func (p *Processor) IsUpToDate() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.upToDate
}

// InvalidateCache clears the up-to-date flag, forcing the next Process call
// to run a full pass even if nothing else about the processor changed.
func (p *Processor) InvalidateCache() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.upToDate = false
}

// Process runs one full APPLY -> rounds(READ -> WRITE) pass over every
// registered transformer and class. If the processor is already up to
// date, Process returns nil immediately without running anything.
func (p *Processor) Process(ctx context.Context) error {
	p.mu.Lock()
	upToDate := p.upToDate
	p.mu.Unlock()
	if upToDate {
		p.logger.Debug("process: already up to date, skipping")
		return nil
	}

	runID := uuid.NewString()[:12]
	p.logger = p.logger.With(zap.String("run", runID))
	p.logger.Info("process starting", zap.Int("transformers", len(p.transformers)), zap.Int("classes", len(p.order)))

	applyHandle := func(t Transformer) *TransformerHandle {
		return &TransformerHandle{p: p, id: t.ID(), phase: PhaseApply}
	}
	for _, t := range p.transformers {
		h := applyHandle(t)
		t.Apply(h)
		if h.err != nil {
			return h.err
		}
	}

	p.mu.Lock()
	roundDeps := make(map[string][]string, len(p.roundDependents))
	for k, v := range p.roundDependents {
		roundDeps[k] = append([]string(nil), v...)
	}
	anchors := append([]string(nil), p.anchors...)
	transformers := append([]Transformer(nil), p.transformers...)
	p.mu.Unlock()

	rounds, err := computeRounds(transformers, roundDeps, anchors)
	if err != nil {
		return err
	}

	for i, round := range rounds {
		p.logger.Info("round starting", zap.Int("round", i), zap.Int("transformers", len(round)))
		if err := p.runRound(ctx, round); err != nil {
			return err
		}
	}

	p.mu.Lock()
	p.upToDate = true
	p.mu.Unlock()
	p.logger.Info("process complete", zap.Strings("modified", p.GetModifiedClassNames()))
	return nil
}

// runRound executes one round's READ phase in parallel, then applies every
// write scheduled during that round's WRITE phase.
func (p *Processor) runRound(ctx context.Context, round []Transformer) error {
	restore := p.gate.close()
	g, gctx := errgroup.WithContext(ctx)
	for _, t := range round {
		t := t
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			h := &TransformerHandle{p: p, id: t.ID(), phase: PhaseRead}
			t.Read(h)
			return h.err
		})
	}
	err := g.Wait()
	restore()
	if err != nil {
		return err
	}

	return p.runWritePhase(ctx)
}

// runWritePhase groups all currently pending writes by class and applies
// each class's writes concurrently, in per-class writeDependents order.
func (p *Processor) runWritePhase(ctx context.Context) error {
	p.pendingMu.Lock()
	byClass := p.pending
	p.pending = make(map[string][]*pendingWrite)
	p.pendingMu.Unlock()

	if len(byClass) == 0 {
		return nil
	}

	classNames := make([]string, 0, len(byClass))
	for name := range byClass {
		classNames = append(classNames, name)
	}
	sort.Strings(classNames)

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range classNames {
		name := name
		writes := byClass[name]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return p.applyClassWrites(name, writes)
		})
	}
	return g.Wait()
}

// applyClassWrites orders one class's pending writes by writeDependents and
// applies them in sequence with the modification gate open.
func (p *Processor) applyClassWrites(className string, writes []*pendingWrite) error {
	p.mu.Lock()
	cp := p.classes[className]
	writeDeps := make(map[string][]string, len(p.writeDependents))
	for k, v := range p.writeDependents {
		writeDeps[k] = append([]string(nil), v...)
	}
	p.mu.Unlock()
	if cp == nil {
		return &UnknownClassError{Name: className}
	}

	ids := make([]string, len(writes))
	for i, w := range writes {
		ids[i] = w.id
	}
	depths, ok := computeLayers(ids, writeDeps)
	if !ok {
		return &CyclicDependencyError{Unresolved: unresolvedIDs(ids, writeDeps)}
	}
	sort.SliceStable(writes, func(i, j int) bool {
		return depths[writes[i].id] < depths[writes[j].id]
	})

	if _, err := cp.pinModified(); err != nil {
		return err
	}

	// Resolve every one of this class's reference captures against the
	// now-pinned tree before any write applies, so a later write's target
	// never resolves against a tree an earlier write in the same class has
	// already restructured.
	for _, w := range writes {
		if w.capture != nil {
			if err := w.capture.computeResolved(p); err != nil {
				return err
			}
		}
	}

	restore := p.gate.open()
	defer restore()

	cursor := &WriteCursor{p: p, class: className}
	for _, w := range writes {
		if err := w.apply(cursor); err != nil {
			return fmt.Errorf("write %q on class %q (from %q): %w", w.id, className, w.origin, err)
		}
	}

	p.conflictsMu.Lock()
	if p.writtenClasses[className] {
		p.logger.Warn("class written by more than one round; last write wins",
			zap.String("class", className))
	}
	p.writtenClasses[className] = true
	p.conflictsMu.Unlock()

	p.oracle.invalidate(className)

	p.logger.Debug("class writes applied", zap.String("class", className), zap.Int("count", len(writes)))
	return nil
}

// InvalidateClassCache drops className's weak/modified state so the next
// access reparses from its BytecodeSource, and clears the processor's
// up-to-date flag. Intended for drivers that hold a Processor across
// multiple source revisions of a single class.
func (p *Processor) InvalidateClassCache(className string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if cp, ok := p.classes[className]; ok {
		cp.mu.Lock()
		cp.modifiedClass = nil
		cp.weakSnapshot = weak.Pointer[ClassNode]{}
		cp.mu.Unlock()
	}
	p.upToDate = false
}

// Close releases processor-held references. A Processor holds no external
// resources of its own; Close exists for symmetry with io.Closer-shaped
// drivers built around AddClass/AddJar.
func (p *Processor) Close() error { return nil }
