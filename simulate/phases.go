package simulate

import (
	"fmt"

	"faceter/cluster"
	"faceter/storage"
)

// Simulated gas costs. Chosen to mirror EVM magnitudes; only internal
// consistency matters for the dry run.
const (
	deployBaseGas    = 32000
	deployPerByteGas = 200

	commitGas     = 50000
	applyPerRoute = 25000
	activateGas   = 60000
	routeBatch    = 3

	isolationCheckGas = 5000

	integrityCallGas   = 2600
	integrityVerifyGas = 1800
	integrityMaxFuncs  = 3

	interactionLookupGas = 2600

	pauseGas        = 20000
	removeRoutesGas = 15000
	unpauseGas      = 20000
)

// Step is one unit of work inside a simulation phase.
type Step struct {
	Name    string `json:"name"`
	Detail  string `json:"detail,omitempty"`
	GasUsed uint64 `json:"gasUsed"`
	Success bool   `json:"success"`
}

// PhaseResult is the outcome of one simulation phase.
type PhaseResult struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Success     bool     `json:"success"`
	GasEstimate uint64   `json:"gasEstimate"`
	GasUsed     uint64   `json:"gasUsed"`
	Warnings    []string `json:"warnings,omitempty"`
	Steps       []Step   `json:"steps,omitempty"`
}

// DeployGas returns a facet's simulated deployment gas: the create base
// cost plus the per-byte code deposit.
func DeployGas(f *cluster.FacetCandidate) uint64 {
	return deployBaseGas + deployPerByteGas*uint64(f.EstimatedSize)
}

// Run dry-runs the full protocol: deployment, route commit/apply/activate,
// isolation checks, optional integrity verification, interaction tests and
// the emergency control path. Per-facet failures are warnings, never
// aborts; every phase always executes and reports.
func Run(facets []cluster.FacetCandidate, cfg Config) ([]PhaseResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	routes := BuildRoutes(facets)
	results := []PhaseResult{
		deploymentPhase(facets, cfg),
		routingPhase(routes),
		isolationPhase(facets),
	}
	if cfg.VerifyIntegrity {
		results = append(results, integrityPhase(facets))
	}
	results = append(results, interactionPhase(facets), emergencyPhase(routes))
	return results, nil
}

// deploymentPhase deploys each facet to its predicted address. A facet
// whose deployment gas exceeds the ceiling is flagged unsuccessful.
func deploymentPhase(facets []cluster.FacetCandidate, cfg Config) PhaseResult {
	phase := PhaseResult{
		Name:        "deployment",
		Description: "deterministic facet deployment against predicted addresses",
		Success:     true,
	}
	for i := range facets {
		f := &facets[i]
		gas := DeployGas(f)
		step := Step{
			Name:    "deploy " + f.Name,
			Detail:  fmt.Sprintf("predicted address %s", PredictAddress(f).Hex()),
			GasUsed: gas,
			Success: gas <= cfg.GasCeiling,
		}
		if !step.Success {
			phase.Success = false
			phase.Warnings = append(phase.Warnings, fmt.Sprintf(
				"%s: deployment gas %d exceeds ceiling %d", f.Name, gas, cfg.GasCeiling))
		}
		phase.GasUsed += gas
		phase.Steps = append(phase.Steps, step)
	}
	phase.GasEstimate = phase.GasUsed
	return phase
}

// routingPhase walks the three-phase manifest protocol: commit the pending
// root, apply routes in fixed-size batches, then activate.
func routingPhase(routes []Route) PhaseResult {
	phase := PhaseResult{
		Name:        "routing",
		Description: "manifest commit, batched route application, activation",
		Success:     true,
	}
	root := RouteRoot(routes)

	phase.Steps = append(phase.Steps, Step{
		Name:    "commit",
		Detail:  "pending root " + root.Hex(),
		GasUsed: commitGas,
		Success: true,
	})
	phase.GasUsed += commitGas

	for start := 0; start < len(routes); start += routeBatch {
		end := start + routeBatch
		if end > len(routes) {
			end = len(routes)
		}
		gas := applyPerRoute * uint64(end-start)
		phase.Steps = append(phase.Steps, Step{
			Name:    fmt.Sprintf("apply batch %d", start/routeBatch+1),
			Detail:  fmt.Sprintf("%d routes", end-start),
			GasUsed: gas,
			Success: true,
		})
		phase.GasUsed += gas
	}

	phase.Steps = append(phase.Steps, Step{
		Name:    "activate",
		Detail:  "root finalized",
		GasUsed: activateGas,
		Success: true,
	})
	phase.GasUsed += activateGas
	phase.GasEstimate = phase.GasUsed
	return phase
}

// isolationPhase confirms each facet's storage namespace derives a unique
// non-zero slot.
func isolationPhase(facets []cluster.FacetCandidate) PhaseResult {
	phase := PhaseResult{
		Name:        "isolation",
		Description: "diamond storage namespace isolation checks",
		Success:     true,
	}
	for _, p := range storage.GeneratePatterns(facets) {
		step := Step{
			Name:    "isolate " + p.Facet,
			Detail:  fmt.Sprintf("namespace %s at slot 0x%x", p.Namespace, p.Slot),
			GasUsed: isolationCheckGas,
			Success: p.Valid,
		}
		if !p.Valid {
			phase.Success = false
			phase.Warnings = append(phase.Warnings, p.Facet+": storage namespace is not isolated")
		}
		phase.GasUsed += isolationCheckGas
		phase.Steps = append(phase.Steps, step)
	}
	phase.GasEstimate = phase.GasUsed
	return phase
}

// integrityPhase spot-checks the first functions of each facet against
// their simulated content hashes.
func integrityPhase(facets []cluster.FacetCandidate) PhaseResult {
	phase := PhaseResult{
		Name:        "integrity",
		Description: "post-deployment code integrity verification",
		Success:     true,
	}
	for i := range facets {
		f := &facets[i]
		checked := len(f.Members)
		if checked > integrityMaxFuncs {
			checked = integrityMaxFuncs
		}
		for j := 0; j < checked; j++ {
			member := &f.Members[j]
			gas := uint64(integrityCallGas + integrityVerifyGas)
			phase.Steps = append(phase.Steps, Step{
				Name:    "verify " + f.Name + "." + member.Name,
				Detail:  "content hash " + pseudoHash32([]byte(member.Body)).Hex(),
				GasUsed: gas,
				Success: true,
			})
			phase.GasUsed += gas
		}
	}
	phase.GasEstimate = phase.GasUsed
	return phase
}

// interactionPhase routes one representative call through each facet.
func interactionPhase(facets []cluster.FacetCandidate) PhaseResult {
	phase := PhaseResult{
		Name:        "interaction",
		Description: "routed call smoke tests, one representative per facet",
		Success:     true,
	}
	for i := range facets {
		f := &facets[i]
		if len(f.Members) == 0 {
			continue
		}
		member := &f.Members[0]
		gas := interactionLookupGas + cluster.EstimateFunctionGas(member)
		phase.Steps = append(phase.Steps, Step{
			Name:    "call " + f.Name + "." + member.Name,
			Detail:  "selector " + member.EffectiveSelector().Hex(),
			GasUsed: gas,
			Success: true,
		})
		phase.GasUsed += gas
	}
	phase.GasEstimate = phase.GasUsed
	return phase
}

// emergencyPhase exercises the control path: pause, remove routes,
// unpause. A smoke test of the escape hatch, always reported successful.
func emergencyPhase(routes []Route) PhaseResult {
	phase := PhaseResult{
		Name:        "emergency",
		Description: "pause, route removal and recovery controls",
		Success:     true,
	}
	steps := []Step{
		{Name: "pause", Detail: "router halted", GasUsed: pauseGas, Success: true},
		{Name: "remove routes", Detail: fmt.Sprintf("%d routes cleared", len(routes)), GasUsed: removeRoutesGas, Success: true},
		{Name: "unpause", Detail: "router restored", GasUsed: unpauseGas, Success: true},
	}
	for _, s := range steps {
		phase.GasUsed += s.GasUsed
	}
	phase.Steps = steps
	phase.GasEstimate = phase.GasUsed
	return phase
}
