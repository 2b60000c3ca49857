package callgraph

import "sort"

// detectCycles runs a depth-first search with an explicit recursion stack
// over the call edges. Every back-edge closes a cycle, reported as the
// ordered function-name slice starting at the first repeated node.
// Identical cycles found from different entry points are deduplicated by
// their rotation-normalized form.
func detectCycles(g *Graph) [][]string {
	names := sortedNodeNames(g)

	visited := make(map[string]bool, len(names))
	onStack := make(map[string]bool, len(names))
	stack := make([]string, 0, len(names))
	seen := make(map[string]bool)
	cycles := make([][]string, 0)

	var visit func(name string)
	visit = func(name string) {
		visited[name] = true
		onStack[name] = true
		stack = append(stack, name)

		node := g.Nodes[name]
		for _, callee := range sortedKeys(node.Dependencies) {
			if !visited[callee] {
				visit(callee)
			} else if onStack[callee] {
				cycle := extractCycle(stack, callee)
				key := cycleKey(cycle)
				if !seen[key] {
					seen[key] = true
					cycles = append(cycles, cycle)
				}
			}
		}

		stack = stack[:len(stack)-1]
		onStack[name] = false
	}

	for _, name := range names {
		if !visited[name] {
			visit(name)
		}
	}
	return cycles
}

// extractCycle copies the stack suffix beginning at the repeated node.
func extractCycle(stack []string, repeated string) []string {
	for i, name := range stack {
		if name == repeated {
			cycle := make([]string, len(stack)-i)
			copy(cycle, stack[i:])
			return cycle
		}
	}
	return nil
}

// cycleKey normalizes a cycle under rotation so A->B->A and B->A->B
// collapse to one entry.
func cycleKey(cycle []string) string {
	if len(cycle) == 0 {
		return ""
	}
	min := 0
	for i := 1; i < len(cycle); i++ {
		if cycle[i] < cycle[min] {
			min = i
		}
	}
	key := ""
	for i := 0; i < len(cycle); i++ {
		key += cycle[(min+i)%len(cycle)] + "|"
	}
	return key
}

// maxCriticalPaths bounds how many walks the graph keeps.
const maxCriticalPaths = 10

// detectCriticalPaths extends the longest acyclic walk from every root
// function. A per-branch visited set prevents revisiting a node within one
// walk, so cycles are never expanded infinitely. Walks of length two or
// shorter carry no routing insight and are dropped; the ten longest
// survivors are kept, sorted descending by length.
func detectCriticalPaths(g *Graph) [][]string {
	paths := make([][]string, 0)
	for _, root := range g.Roots() {
		visited := map[string]bool{root: true}
		walk := longestWalk(g, root, visited)
		if len(walk) > 2 {
			paths = append(paths, walk)
		}
	}

	sort.SliceStable(paths, func(i, j int) bool {
		return len(paths[i]) > len(paths[j])
	})
	if len(paths) > maxCriticalPaths {
		paths = paths[:maxCriticalPaths]
	}
	return paths
}

// longestWalk returns the longest acyclic walk starting at name, given the
// nodes already on the current branch.
func longestWalk(g *Graph, name string, visited map[string]bool) []string {
	node := g.Nodes[name]
	best := []string(nil)
	for _, callee := range sortedKeys(node.Dependencies) {
		if visited[callee] {
			continue
		}
		visited[callee] = true
		walk := longestWalk(g, callee, visited)
		visited[callee] = false
		if len(walk) > len(best) {
			best = walk
		}
	}
	return append([]string{name}, best...)
}

func sortedNodeNames(g *Graph) []string {
	names := make([]string, 0, len(g.Nodes))
	for name := range g.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
