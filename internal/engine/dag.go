package engine

import (
	"fmt"
	"sort"

	"github.com/alexisbeaulieu97/hivelab/internal/composition"
	hiveerrors "github.com/alexisbeaulieu97/hivelab/pkg/errors"
)

// Node represents an element instance in the dependency graph.
type Node struct {
	ID         string
	ElementID  string
	DependsOn  []*Node
	Dependents []*Node
}

// Graph is the implicit dependency graph of a composition: B depends on A
// when a connection feeds one of B's inputs from one of A's outputs.
type Graph struct {
	Nodes map[string]*Node
	// ids keeps insertion order so traversal is deterministic.
	ids []string
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{Nodes: make(map[string]*Node)}
}

// BuildGraph derives the dependency graph of comp. Connections referencing
// unknown instances are ignored.
func BuildGraph(comp *composition.Composition) (*Graph, error) {
	graph := NewGraph()
	if comp == nil {
		return graph, nil
	}

	for _, inst := range comp.Elements {
		if _, err := graph.AddNode(inst.InstanceID, inst.ElementID); err != nil {
			return nil, err
		}
	}

	for _, conn := range comp.Connections {
		if _, ok := graph.Nodes[conn.From.InstanceID]; !ok {
			continue
		}
		if _, ok := graph.Nodes[conn.To.InstanceID]; !ok {
			continue
		}
		if err := graph.AddEdge(conn.From.InstanceID, conn.To.InstanceID); err != nil {
			return nil, err
		}
	}

	return graph, nil
}

// AddNode inserts an instance as a vertex in the graph.
func (g *Graph) AddNode(instanceID, elementID string) (*Node, error) {
	if instanceID == "" {
		return nil, hiveerrors.NewValidationError("elements", "instance id cannot be empty", nil)
	}

	if g.Nodes == nil {
		g.Nodes = make(map[string]*Node)
	}

	if _, exists := g.Nodes[instanceID]; exists {
		return nil, hiveerrors.NewValidationError("elements", fmt.Sprintf("duplicate instance id %q", instanceID), nil)
	}

	node := &Node{ID: instanceID, ElementID: elementID}
	g.Nodes[instanceID] = node
	g.ids = append(g.ids, instanceID)
	return node, nil
}

// AddEdge records that to depends on from. Repeated edges between the same
// pair are stored once.
func (g *Graph) AddEdge(from, to string) error {
	source, ok := g.Nodes[from]
	if !ok {
		return hiveerrors.NewValidationError("connections", fmt.Sprintf("unknown source instance %q", from), nil)
	}

	target, ok := g.Nodes[to]
	if !ok {
		return hiveerrors.NewValidationError("connections", fmt.Sprintf("unknown target instance %q", to), nil)
	}

	for _, dep := range target.DependsOn {
		if dep == source {
			return nil
		}
	}

	source.Dependents = append(source.Dependents, target)
	target.DependsOn = append(target.DependsOn, source)
	return nil
}

type colour uint8

const (
	white colour = iota // unvisited
	grey                // in progress
	black               // done
)

// Order returns instance ids so that every instance follows the instances
// it depends on. Roots are visited in insertion order and dependencies in
// edge order. A cycle aborts the traversal with a CycleError naming the
// instance that was revisited.
func (g *Graph) Order() ([]string, error) {
	colours := make(map[string]colour, len(g.Nodes))
	order := make([]string, 0, len(g.Nodes))
	var stack []string

	var visit func(node *Node) error
	visit = func(node *Node) error {
		switch colours[node.ID] {
		case black:
			return nil
		case grey:
			idx := indexOf(stack, node.ID)
			path := append(append([]string{}, stack[idx:]...), node.ID)
			return hiveerrors.NewCycleError(node.ID, path)
		}

		colours[node.ID] = grey
		stack = append(stack, node.ID)

		for _, dep := range node.DependsOn {
			if err := visit(dep); err != nil {
				return err
			}
		}

		stack = stack[:len(stack)-1]
		colours[node.ID] = black
		order = append(order, node.ID)
		return nil
	}

	for _, id := range g.ids {
		if err := visit(g.Nodes[id]); err != nil {
			return nil, err
		}
	}

	return order, nil
}

// Levels groups instances into dependency depths using Kahn's algorithm:
// level 0 has no inputs from other instances, level n only depends on
// levels below n. Ids within a level are sorted. Call after Order has
// confirmed the graph is acyclic; instances on a cycle are left out.
func (g *Graph) Levels() [][]string {
	indegree := make(map[string]int, len(g.Nodes))
	for id, node := range g.Nodes {
		indegree[id] = len(node.DependsOn)
	}

	var queue []string
	for id, degree := range indegree {
		if degree == 0 {
			queue = append(queue, id)
		}
	}

	var levels [][]string
	for len(queue) > 0 {
		sort.Strings(queue)
		levels = append(levels, queue)

		var next []string
		for _, id := range queue {
			for _, dependent := range g.Nodes[id].Dependents {
				indegree[dependent.ID]--
				if indegree[dependent.ID] == 0 {
					next = append(next, dependent.ID)
				}
			}
		}
		queue = next
	}

	return levels
}

func indexOf(slice []string, target string) int {
	for i, v := range slice {
		if v == target {
			return i
		}
	}
	return -1
}
