// Package faceter analyzes a monolithic smart contract's structure and
// computes a safe decomposition into independently deployable facets, each
// under a hard bytecode-size ceiling. It proves the decomposition's
// storage safety and dry-runs the staged deployment and routing protocol
// that will later apply it on-chain.
//
// The pipeline is strictly sequential: call graph, domain clustering,
// storage layout verification, deployment simulation, report aggregation.
// Each stage is a deterministic function of its predecessor's complete
// output; all artifacts are immutable snapshots, safe to share read-only
// across parallel analyses of independent contracts.
package faceter

import (
	"github.com/tliron/commonlog"

	"faceter/callgraph"
	"faceter/cluster"
	"faceter/model"
	"faceter/report"
	"faceter/simulate"
	"faceter/storage"
)

// Version of the analysis engine.
const Version = report.EngineVersion

var log = commonlog.GetLogger("faceter")

// Options configures one analysis run.
type Options struct {
	Cluster    cluster.Options
	Simulation simulate.Config
}

// DefaultOptions returns the standard caps, heuristics and simulation
// config.
func DefaultOptions() Options {
	return Options{
		Cluster:    cluster.DefaultOptions(),
		Simulation: simulate.DefaultConfig(),
	}
}

// BuildCallGraph derives the function dependency graph for a contract.
func BuildCallGraph(m *model.ContractModel) (*callgraph.Graph, error) {
	return callgraph.Build(m)
}

// Partition groups the contract's functions into facet candidates.
func Partition(m *model.ContractModel, g *callgraph.Graph, opts cluster.Options) ([]cluster.FacetCandidate, error) {
	return cluster.Partition(m, g, opts)
}

// CheckStorage verifies slot safety and generates the isolated layout.
func CheckStorage(facets []cluster.FacetCandidate) *storage.LayoutReport {
	return storage.Check(facets)
}

// Simulate dry-runs the deployment and routing protocol.
func Simulate(facets []cluster.FacetCandidate, cfg simulate.Config) ([]simulate.PhaseResult, error) {
	return simulate.Run(facets, cfg)
}

// Aggregate merges all validations into the compatibility report.
func Aggregate(m *model.ContractModel, facets []cluster.FacetCandidate,
	layout *storage.LayoutReport, phases []simulate.PhaseResult) *report.CompatibilityReport {
	return report.Aggregate(m, facets, layout, phases)
}

// Analyze runs the whole pipeline on one contract model and assembles the
// refactor plan. Structural input errors abort; detected conflicts and
// violations never do, they land in the report.
func Analyze(m *model.ContractModel, opts Options) (*report.RefactorPlan, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	log.Debugf("analyzing contract %s: %d functions, %d variables",
		m.Name, len(m.Functions), len(m.Variables))

	graph, err := callgraph.Build(m)
	if err != nil {
		return nil, err
	}
	log.Debugf("call graph: %d nodes, %d edges, %d cycles",
		len(graph.Nodes), len(graph.Edges), len(graph.Cycles))

	facets, err := cluster.Partition(m, graph, opts.Cluster)
	if err != nil {
		return nil, err
	}
	log.Debugf("partitioned into %d facet candidates", len(facets))

	layout := storage.Check(facets)
	log.Debugf("storage: %d conflicts, isolation %.0f%%, risk %s",
		len(layout.Conflicts), layout.IsolationScore, layout.FacetIsolation.RiskLevel)

	phases, err := simulate.Run(facets, opts.Simulation)
	if err != nil {
		return nil, err
	}
	deployPlan := simulate.BuildPlan(facets)

	compat := report.Aggregate(m, facets, layout, phases)
	log.Debugf("aggregated report %s: compatible=%t, gas score %d",
		compat.RunID, compat.Compatible, compat.GasScore)

	return report.BuildRefactorPlan(graph, facets, compat, deployPlan), nil
}
