package simulate

import (
	"time"

	"faceter/cluster"
)

const (
	factoryDeployGas    = 250000
	dispatcherDeployGas = 180000

	// blockGasTarget converts gas into a coarse wall-clock estimate:
	// one block per blockGasTarget gas, at secondsPerBlock each.
	blockGasTarget  = 8_000_000
	secondsPerBlock = 12
)

// PlanPhase is one ordered step of the full deployment plan.
type PlanPhase struct {
	Name          string        `json:"name"`
	DependsOn     []string      `json:"dependsOn,omitempty"`
	Gas           uint64        `json:"gas"`
	Rollback      string        `json:"rollback"`
	EstimatedTime time.Duration `json:"estimatedTime"`
}

// Plan is the full staged deployment plan for a facet set.
type Plan struct {
	Phases        []PlanPhase   `json:"phases"`
	TotalGas      uint64        `json:"totalGas"`
	EstimatedTime time.Duration `json:"estimatedTime"`
}

// BuildPlan lays out the five deployment phases in dependency order with
// per-phase gas totals and rollback actions.
func BuildPlan(facets []cluster.FacetCandidate) *Plan {
	var facetGas uint64
	for i := range facets {
		facetGas += DeployGas(&facets[i])
	}

	routes := BuildRoutes(facets)
	routeGas := uint64(commitGas + activateGas)
	routeGas += applyPerRoute * uint64(len(routes))

	phases := []PlanPhase{
		{
			Name:     "factory",
			Gas:      factoryDeployGas,
			Rollback: "abandon the factory; nothing references it yet",
		},
		{
			Name:      "dispatcher",
			DependsOn: []string{"factory"},
			Gas:       dispatcherDeployGas,
			Rollback:  "abandon the dispatcher and redeploy through the factory",
		},
		{
			Name:      "facets",
			DependsOn: []string{"factory"},
			Gas:       facetGas,
			Rollback:  "leave facets unreferenced; commit no routes against them",
		},
		{
			Name:      "routes",
			DependsOn: []string{"dispatcher", "facets"},
			Gas:       routeGas,
			Rollback:  "discard the pending root before activation",
		},
		{
			Name:      "activation",
			DependsOn: []string{"routes"},
			Gas:       activateGas,
			Rollback:  "pause the router and remove the activated routes",
		},
	}

	plan := &Plan{Phases: phases}
	for i := range phases {
		phases[i].EstimatedTime = timeEstimate(phases[i].Gas)
		plan.TotalGas += phases[i].Gas
		plan.EstimatedTime += phases[i].EstimatedTime
	}
	return plan
}

// timeEstimate converts gas into blocks, minimum one block per phase.
func timeEstimate(gas uint64) time.Duration {
	blocks := gas/blockGasTarget + 1
	return time.Duration(blocks) * secondsPerBlock * time.Second
}
