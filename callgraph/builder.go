package callgraph

import (
	"sort"

	facerrors "faceter/errors"
	"faceter/model"
)

// builtinKeywords are identifier tokens that never count as call-edge
// candidates: control flow, assertion/event builtins and collection
// primitives that read like calls in body text.
var builtinKeywords = map[string]bool{
	"if": true, "else": true, "for": true, "while": true, "do": true,
	"switch": true, "case": true, "break": true, "continue": true,
	"return": true, "try": true, "catch": true,
	"require": true, "assert": true, "revert": true, "emit": true,
	"push": true, "pop": true, "length": true, "keys": true, "values": true,
	"mapping": true, "new": true, "delete": true,
}

// controlFlowKeywords feed the complexity score.
var controlFlowKeywords = map[string]bool{
	"if": true, "else": true, "for": true, "while": true, "do": true,
	"switch": true, "case": true, "try": true, "catch": true,
}

// Build constructs the call graph for a validated contract model.
func Build(m *model.ContractModel) (*Graph, error) {
	if m == nil {
		return nil, facerrors.NewConfigError(facerrors.StageCallGraph, facerrors.ErrorGraphInput,
			"call graph builder received a nil contract model")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	g := &Graph{Nodes: make(map[string]*Node, len(m.Functions))}

	// First pass: one node per function.
	for i := range m.Functions {
		fn := &m.Functions[i]
		g.Nodes[fn.Name] = &Node{
			Name:         fn.Name,
			Selector:     fn.EffectiveSelector(),
			Dependencies: make(map[string]bool),
			Dependents:   make(map[string]bool),
			GasEstimate:  nodeGasEstimate(fn),
			Security:     fn.Security,
		}
	}

	modifierNames := make(map[string]bool, len(m.Modifiers))
	for i := range m.Modifiers {
		modifierNames[m.Modifiers[i].Name] = true
	}
	variableNames := make(map[string]bool, len(m.Variables))
	for i := range m.Variables {
		variableNames[m.Variables[i].Name] = true
	}

	// Second pass: scan each body for references and score complexity.
	for i := range m.Functions {
		fn := &m.Functions[i]
		node := g.Nodes[fn.Name]
		tokens := scanBody(fn.Body)

		node.Complexity = complexity(fn, tokens)

		// Declared modifiers are edges even when the body never names them.
		seenModifier := make(map[string]bool, len(fn.Modifiers))
		for _, mod := range fn.Modifiers {
			if !seenModifier[mod] {
				seenModifier[mod] = true
				g.Edges = append(g.Edges, Edge{From: fn.Name, To: mod, Kind: EdgeModifier})
			}
		}

		seenCall := make(map[string]bool)
		seenStorage := make(map[string]bool)
		for _, tok := range tokens {
			if tok.kind != "Ident" {
				continue
			}
			name := tok.value
			switch {
			case !builtinKeywords[name] && name != fn.Name && g.Nodes[name] != nil:
				if !seenCall[name] {
					seenCall[name] = true
					g.Edges = append(g.Edges, Edge{From: fn.Name, To: name, Kind: EdgeCall})
					node.Dependencies[name] = true
					g.Nodes[name].Dependents[fn.Name] = true
				}
			case modifierNames[name]:
				if !seenModifier[name] {
					seenModifier[name] = true
					g.Edges = append(g.Edges, Edge{From: fn.Name, To: name, Kind: EdgeModifier})
				}
			case variableNames[name]:
				if !seenStorage[name] {
					seenStorage[name] = true
					g.Edges = append(g.Edges, Edge{From: fn.Name, To: name, Kind: EdgeStorage})
				}
			}
		}
	}

	g.Cycles = detectCycles(g)
	g.CriticalPaths = detectCriticalPaths(g)
	return g, nil
}

// complexity scores a function from its interface and body shape:
// 1 base, 0.5 per parameter, 1 per modifier, 2 per control-flow keyword
// occurrence, plus the maximum brace nesting depth.
func complexity(fn *model.FunctionDescriptor, tokens []bodyToken) float64 {
	score := 1.0
	score += 0.5 * float64(len(fn.Parameters))
	score += 1.0 * float64(len(fn.Modifiers))

	depth, maxDepth := 0, 0
	for _, tok := range tokens {
		switch {
		case tok.kind == "Ident" && controlFlowKeywords[tok.value]:
			score += 2.0
		case tok.value == "{":
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
		case tok.value == "}":
			if depth > 0 {
				depth--
			}
		}
	}
	return score + float64(maxDepth)
}

// nodeGasEstimate prefers the front end's estimate and falls back to a
// coarse parameter-based figure so graph nodes are never unweighted.
func nodeGasEstimate(fn *model.FunctionDescriptor) uint64 {
	if fn.GasEstimate > 0 {
		return fn.GasEstimate
	}
	return 21000 + 800*uint64(len(fn.Parameters))
}

func sortStrings(s []string) {
	sort.Strings(s)
}
