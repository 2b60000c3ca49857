package report

import (
	"faceter/callgraph"
	"faceter/cluster"
	"faceter/simulate"
)

// RefactorPlan is the engine's top-level deliverable: the facet set, its
// shared components, the recommended strategy and the merged verdicts.
type RefactorPlan struct {
	Facets              []cluster.FacetCandidate `json:"facets"`
	SharedComponents    []string                 `json:"sharedComponents,omitempty"`
	DeploymentStrategy  Strategy                 `json:"deploymentStrategy"`
	EstimatedGasSavings uint64                   `json:"estimatedGasSavings"`
	Warnings            []string                 `json:"warnings,omitempty"`
	CallGraph           *callgraph.Graph         `json:"callGraph,omitempty"`
	Compatibility       *CompatibilityReport     `json:"compatibilityReport"`
	DeploymentPlan      *simulate.Plan           `json:"deploymentPlan,omitempty"`
}

// BuildRefactorPlan assembles the plan from the pipeline's artifacts.
func BuildRefactorPlan(g *callgraph.Graph, facets []cluster.FacetCandidate,
	compat *CompatibilityReport, plan *simulate.Plan) *RefactorPlan {

	rp := &RefactorPlan{
		Facets:              facets,
		SharedComponents:    sharedComponents(facets),
		EstimatedGasSavings: upgradeSavings(facets),
		CallGraph:           g,
		Compatibility:       compat,
		DeploymentPlan:      plan,
	}
	if compat != nil {
		rp.DeploymentStrategy = compat.Strategy
		rp.Warnings = compat.Warnings
	}
	return rp
}

// sharedComponents lists modifiers guarding members of more than one
// facet; those become shared library candidates in the decomposition.
func sharedComponents(facets []cluster.FacetCandidate) []string {
	usage := make(map[string]map[string]bool)
	for i := range facets {
		for j := range facets[i].Members {
			for _, mod := range facets[i].Members[j].Modifiers {
				if usage[mod] == nil {
					usage[mod] = make(map[string]bool)
				}
				usage[mod][facets[i].Name] = true
			}
		}
	}

	shared := make([]string, 0, len(usage))
	for i := range facets {
		for j := range facets[i].Members {
			for _, mod := range facets[i].Members[j].Modifiers {
				if len(usage[mod]) > 1 && !containsString(shared, mod) {
					shared = append(shared, mod)
				}
			}
		}
	}
	return shared
}

// upgradeSavings estimates the gas a future upgrade saves: redeploying the
// largest single facet instead of the whole monolith.
func upgradeSavings(facets []cluster.FacetCandidate) uint64 {
	var total, largest uint64
	for i := range facets {
		gas := simulate.DeployGas(&facets[i])
		total += gas
		if gas > largest {
			largest = gas
		}
	}
	if total <= largest {
		return 0
	}
	return total - largest
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
