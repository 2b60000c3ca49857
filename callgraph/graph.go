// Package callgraph derives a directed dependency graph over a contract's
// functions by scanning raw body text for references to other functions,
// declared modifiers and state variables. The graph is the locality input
// for domain clustering and carries detected cycles and critical paths.
package callgraph

import "faceter/model"

// EdgeKind is the closed set of dependency edge types.
type EdgeKind string

const (
	// EdgeCall links a function to another function it invokes.
	EdgeCall EdgeKind = "call"

	// EdgeModifier links a function to a modifier guarding it.
	EdgeModifier EdgeKind = "modifier"

	// EdgeStorage links a function to a state variable it touches.
	EdgeStorage EdgeKind = "storage"
)

// Edge is one typed dependency between a function and its target.
type Edge struct {
	From string   `json:"from"`
	To   string   `json:"to"`
	Kind EdgeKind `json:"kind"`
}

// Node is one function in the graph. Dependencies and Dependents cover
// call edges only; modifier and storage edges live in Graph.Edges.
type Node struct {
	Name         string              `json:"name"`
	Selector     model.Selector      `json:"selector"`
	Dependencies map[string]bool     `json:"dependencies"` // callees
	Dependents   map[string]bool     `json:"dependents"`   // callers
	Complexity   float64             `json:"complexity"`
	GasEstimate  uint64              `json:"gasEstimate"`
	Security     model.SecurityLevel `json:"security,omitempty"`
}

// Graph is the complete bidirectional call graph of one contract.
type Graph struct {
	Nodes map[string]*Node `json:"nodes"`
	Edges []Edge           `json:"edges"`

	// Cycles holds every detected call cycle as the ordered function-name
	// slice starting from the first repeated node.
	Cycles [][]string `json:"cycles,omitempty"`

	// CriticalPaths holds the longest acyclic walks from root functions,
	// at most ten, sorted descending by length. Only walks longer than
	// two functions are kept.
	CriticalPaths [][]string `json:"criticalPaths,omitempty"`
}

// Node returns the node for a function name, or nil.
func (g *Graph) Node(name string) *Node {
	return g.Nodes[name]
}

// Roots returns functions with no incoming call edges, in sorted order.
func (g *Graph) Roots() []string {
	roots := make([]string, 0, len(g.Nodes))
	for name, node := range g.Nodes {
		if len(node.Dependents) == 0 {
			roots = append(roots, name)
		}
	}
	sortStrings(roots)
	return roots
}

// Neighborhood returns the union of a node's callees and callers. This is
// the expansion frontier used by domain clustering.
func (g *Graph) Neighborhood(name string) []string {
	node := g.Nodes[name]
	if node == nil {
		return nil
	}
	seen := make(map[string]bool, len(node.Dependencies)+len(node.Dependents))
	out := make([]string, 0, len(node.Dependencies)+len(node.Dependents))
	for dep := range node.Dependencies {
		if !seen[dep] {
			seen[dep] = true
			out = append(out, dep)
		}
	}
	for dep := range node.Dependents {
		if !seen[dep] {
			seen[dep] = true
			out = append(out, dep)
		}
	}
	sortStrings(out)
	return out
}

// StorageTouches returns the names of state variables a function touches,
// derived from its storage edges.
func (g *Graph) StorageTouches(function string) []string {
	vars := make([]string, 0, 4)
	for _, e := range g.Edges {
		if e.From == function && e.Kind == EdgeStorage {
			vars = append(vars, e.To)
		}
	}
	return vars
}
