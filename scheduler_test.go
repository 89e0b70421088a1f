package asmrgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTransformer struct {
	id string
}

func (s *stubTransformer) ID() string                    { return s.id }
func (s *stubTransformer) Apply(h *TransformerHandle)     {}
func (s *stubTransformer) Read(h *TransformerHandle)      {}

func TestComputeRoundsOrdersByDependency(t *testing.T) {
	a := &stubTransformer{id: "a"}
	b := &stubTransformer{id: "b"}
	c := &stubTransformer{id: "c"}

	deps := map[string][]string{
		"a": {"b"},
		"b": {"c"},
	}
	rounds, err := computeRounds([]Transformer{a, b, c}, deps, nil)
	require.NoError(t, err)
	require.Len(t, rounds, 3)
	assert.Equal(t, "a", rounds[0][0].ID())
	assert.Equal(t, "b", rounds[1][0].ID())
	assert.Equal(t, "c", rounds[2][0].ID())
}

func TestComputeRoundsGroupsIndependentTransformers(t *testing.T) {
	a := &stubTransformer{id: "a"}
	b := &stubTransformer{id: "b"}

	rounds, err := computeRounds([]Transformer{a, b}, nil, nil)
	require.NoError(t, err)
	require.Len(t, rounds, 1)
	assert.Len(t, rounds[0], 2)
}

func TestComputeRoundsDetectsCycle(t *testing.T) {
	a := &stubTransformer{id: "a"}
	b := &stubTransformer{id: "b"}
	deps := map[string][]string{
		"a": {"b"},
		"b": {"a"},
	}
	_, err := computeRounds([]Transformer{a, b}, deps, nil)
	require.Error(t, err)
	var cycleErr *CyclicDependencyError
	require.ErrorAs(t, err, &cycleErr)
	assert.ElementsMatch(t, []string{"a", "b"}, cycleErr.Unresolved)
}

func TestComputeRoundsRespectsAnchorChain(t *testing.T) {
	a := &stubTransformer{id: "a"}
	b := &stubTransformer{id: "b"}

	deps := map[string][]string{
		"READ_VANILLA": {"a"},
		"a":            {"NO_WRITE"},
		"NO_WRITE":     {"b"},
	}
	rounds, err := computeRounds([]Transformer{a, b}, deps, defaultAnchors)
	require.NoError(t, err)
	require.Len(t, rounds, 2)
	assert.Equal(t, "a", rounds[0][0].ID())
	assert.Equal(t, "b", rounds[1][0].ID())
}

func TestComputeLayersEmptyGraph(t *testing.T) {
	depths, ok := computeLayers(nil, nil)
	assert.True(t, ok)
	assert.Empty(t, depths)
}
