package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/hivelab/internal/composition"
	hiveerrors "github.com/alexisbeaulieu97/hivelab/pkg/errors"
)

func diamond() *composition.Composition {
	return &composition.Composition{
		ID:   "diamond",
		Name: "Diamond",
		Elements: []composition.Instance{
			instance("x", "sink"),
			instance("x", "left"),
			instance("x", "right"),
			instance("x", "root"),
		},
		Connections: []composition.ConnectionRef{
			edge("root", "out", "left", "in"),
			edge("root", "out", "right", "in"),
			edge("left", "out", "sink", "a"),
			edge("right", "out", "sink", "b"),
		},
	}
}

func TestGraphOrderRespectsDependencies(t *testing.T) {
	t.Parallel()

	graph, err := BuildGraph(diamond())
	require.NoError(t, err)

	order, err := graph.Order()
	require.NoError(t, err)
	require.Equal(t, []string{"root", "left", "right", "sink"}, order)
}

func TestGraphLevels(t *testing.T) {
	t.Parallel()

	graph, err := BuildGraph(diamond())
	require.NoError(t, err)

	require.Equal(t, [][]string{{"root"}, {"left", "right"}, {"sink"}}, graph.Levels())
}

func TestGraphIgnoresDanglingAndRepeatedEdges(t *testing.T) {
	t.Parallel()

	comp := diamond()
	comp.Connections = append(comp.Connections,
		edge("root", "other", "left", "in2"),
		edge("ghost", "out", "sink", "c"),
	)

	graph, err := BuildGraph(comp)
	require.NoError(t, err)
	require.Len(t, graph.Nodes["left"].DependsOn, 1)
	require.Len(t, graph.Nodes["sink"].DependsOn, 2)
}

func TestGraphRejectsDuplicateNodes(t *testing.T) {
	t.Parallel()

	graph := NewGraph()
	_, err := graph.AddNode("a", "x")
	require.NoError(t, err)

	_, err = graph.AddNode("a", "x")
	var validationErr *hiveerrors.ValidationError
	require.ErrorAs(t, err, &validationErr)

	require.Error(t, graph.AddEdge("a", "missing"))
}

func TestGraphOrderEmpty(t *testing.T) {
	t.Parallel()

	graph, err := BuildGraph(nil)
	require.NoError(t, err)

	order, err := graph.Order()
	require.NoError(t, err)
	require.Empty(t, order)
	require.Empty(t, graph.Levels())
}
