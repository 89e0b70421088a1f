package asmrgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModificationGateStartsClosed(t *testing.T) {
	g := newModificationGate()
	assert.False(t, g.IsOpen())
	assert.ErrorIs(t, g.checkOpen(), ErrModificationForbidden)
}

func TestModificationGateOpenRestoresPriorState(t *testing.T) {
	g := newModificationGate()
	restoreOuter := g.close()
	assert.False(t, g.IsOpen())

	restoreInner := g.open()
	assert.True(t, g.IsOpen())
	restoreInner()
	assert.False(t, g.IsOpen())

	restoreOuter()
	assert.False(t, g.IsOpen())
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "NONE", PhaseNone.String())
	assert.Equal(t, "APPLY", PhaseApply.String())
	assert.Equal(t, "READ", PhaseRead.String())
	assert.Equal(t, "WRITE", PhaseWrite.String())
}
