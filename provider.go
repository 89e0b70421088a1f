package asmrgo

import (
	"sync"
	"weak"
)

// BytecodeSource reproduces the raw bytecode for a single class, e.g. a jar
// entry or an in-memory byte slice. Reproducing rather than caching the raw
// bytes lets a provider be revived after its parsed tree is collected.
type BytecodeSource interface {
	Bytecode() ([]byte, error)
}

// bytesSource is the trivial BytecodeSource backing addClass.
type bytesSource struct{ data []byte }

func (b bytesSource) Bytecode() ([]byte, error) { return b.data, nil }

// Reader parses raw bytecode into a fresh, detached ClassNode. This is the
// external collaborator this module keeps out of scope: production use plugs in
// a real classfile parser; this module supplies a constructive tree-builder
// API (NewClassNode and friends) as the primary way tests populate trees,
// and a Reader only when a driver actually has bytecode to parse.
type Reader interface {
	ReadClass(gate *modificationGate, bytecode []byte) (*ClassNode, error)
}

// classProvider is the per-class slot backing lazy class loading: a lazy
// loader, a weak snapshot cache, and a strong "modified" tree once any
// write has touched the class. Access is serialized per provider with a
// plain mutex, mirroring findClassImmediately's
// `synchronized (classProvider)` in the pre-distillation source.
type classProvider struct {
	mu sync.Mutex

	source BytecodeSource
	reader Reader
	gate   *modificationGate

	weakSnapshot weak.Pointer[ClassNode]

	// modifiedClass, once set, is returned by every subsequent Get call
	// regardless of the weak snapshot's state. It pins the tree for the
	// remainder of processing.
	modifiedClass *ClassNode
}

func newClassProvider(source BytecodeSource, reader Reader, gate *modificationGate) *classProvider {
	return &classProvider{source: source, reader: reader, gate: gate}
}

// Get returns the modified tree if present; else the live weak snapshot if
// present; else reparses from bytecode with the modification gate open for
// the duration of the parse, restoring the prior gate state afterward.
func (p *classProvider) Get() (*ClassNode, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.getLocked()
}

func (p *classProvider) getLocked() (*ClassNode, error) {
	if p.modifiedClass != nil {
		return p.modifiedClass, nil
	}
	if v := p.weakSnapshot.Value(); v != nil {
		return v, nil
	}

	if p.reader == nil {
		return nil, ErrNoReader
	}

	bytecode, err := p.source.Bytecode()
	if err != nil {
		return nil, err
	}

	restore := p.gate.open()
	defer restore()

	node, err := p.reader.ReadClass(p.gate, bytecode)
	if err != nil {
		return nil, err
	}
	p.weakSnapshot = weak.Make(node)
	return node, nil
}

// pinModified promotes the currently visible tree to the strong, modified
// slot. Called at the start of each WRITE application for the class, once
// per round in which the class has pending writes.
func (p *classProvider) pinModified() (*ClassNode, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	node, err := p.getLocked()
	if err != nil {
		return nil, err
	}
	p.modifiedClass = node
	return node, nil
}

// modifiedIfPresent returns the pinned modified tree, or nil if none is
// pinned, without forcing a fresh parse. Used by FindClassImmediately.
func (p *classProvider) modifiedIfPresent() *ClassNode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.modifiedClass
}
