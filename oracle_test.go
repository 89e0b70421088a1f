package asmrgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classWithSuper(gate *modificationGate, name, super string, ifaces ...string) *ClassNode {
	restore := gate.open()
	defer restore()
	c := NewClassNode(gate, name, super)
	for _, i := range ifaces {
		_ = c.Interfaces().Append(NewValueNode(gate, i))
	}
	return c
}

func newOracleFixture(t *testing.T) *Processor {
	t.Helper()
	gate := newModificationGate()
	p := NewProcessor(nil)
	p.AddClassTree(classWithSuper(gate, "com/example/Base", ""))
	p.AddClassTree(classWithSuper(gate, "com/example/Mid", "com/example/Base"))
	p.AddClassTree(classWithSuper(gate, "com/example/LeafA", "com/example/Mid"))
	p.AddClassTree(classWithSuper(gate, "com/example/LeafB", "com/example/Mid"))
	p.AddClassTree(classWithSuper(gate, "com/example/Marker", "java/lang/Object"))
	p.AddClassTree(classWithSuper(gate, "com/example/Impl", "java/lang/Object", "com/example/Marker"))
	return p
}

func TestGetCommonSuperClassSiblings(t *testing.T) {
	p := newOracleFixture(t)
	got := p.oracle.getCommonSuperClass("com/example/LeafA", "com/example/LeafB")
	assert.Equal(t, "com/example/Mid", got)
}

func TestGetCommonSuperClassSame(t *testing.T) {
	p := newOracleFixture(t)
	got := p.oracle.getCommonSuperClass("com/example/LeafA", "com/example/LeafA")
	assert.Equal(t, "com/example/LeafA", got)
}

func TestGetCommonSuperClassUnrelated(t *testing.T) {
	p := newOracleFixture(t)
	got := p.oracle.getCommonSuperClass("com/example/LeafA", "com/example/Marker")
	assert.Equal(t, rootTypeName, got)
}

func TestGetCommonSuperClassFallsBackWhenEitherIsInterface(t *testing.T) {
	gate := newModificationGate()
	p := NewProcessor(nil)
	p.AddClassTree(classWithSuper(gate, "com/example/Base", ""))
	p.AddClassTree(classWithSuper(gate, "com/example/LeafA", "com/example/Base"))

	restore := gate.open()
	iface := NewClassNode(gate, "com/example/Marker", "java/lang/Object")
	require.NoError(t, iface.Modifiers().Append(NewValueNode(gate, AccInterface)))
	restore()
	p.AddClassTree(iface)

	got := p.oracle.getCommonSuperClass("com/example/LeafA", "com/example/Marker")
	assert.Equal(t, rootTypeName, got)
}

func TestIsDerivedFromTransitiveSuperclass(t *testing.T) {
	p := newOracleFixture(t)
	assert.True(t, p.oracle.isDerivedFrom("com/example/LeafA", "com/example/Base"))
	assert.False(t, p.oracle.isDerivedFrom("com/example/Base", "com/example/LeafA"))
}

func TestIsDerivedFromInterface(t *testing.T) {
	p := newOracleFixture(t)
	assert.True(t, p.oracle.isDerivedFrom("com/example/Impl", "com/example/Marker"))
}

func TestIsDerivedFromToleratesSuperclassCycle(t *testing.T) {
	gate := newModificationGate()
	p := NewProcessor(nil)
	p.AddClassTree(classWithSuper(gate, "com/example/CycleA", "com/example/CycleB"))
	p.AddClassTree(classWithSuper(gate, "com/example/CycleB", "com/example/CycleA"))

	assert.False(t, p.oracle.isDerivedFrom("com/example/CycleA", "com/example/Unrelated"))
}

func TestIsDerivedFromToleratesInterfaceCycle(t *testing.T) {
	gate := newModificationGate()
	p := NewProcessor(nil)
	p.AddClassTree(classWithSuper(gate, "com/example/IfaceA", "", "com/example/IfaceB"))
	p.AddClassTree(classWithSuper(gate, "com/example/IfaceB", "", "com/example/IfaceA"))

	assert.False(t, p.oracle.isDerivedFrom("com/example/IfaceA", "com/example/Unrelated"))
}

func TestInfoForCachesAcrossCalls(t *testing.T) {
	p := newOracleFixture(t)
	info1, err := p.oracle.infoFor("com/example/LeafA")
	require.NoError(t, err)
	info2, err := p.oracle.infoFor("com/example/LeafA")
	require.NoError(t, err)
	assert.Same(t, info1, info2)
}
