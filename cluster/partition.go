package cluster

import (
	"fmt"
	"sort"

	"faceter/callgraph"
	facerrors "faceter/errors"
	"faceter/model"
)

// EIP-170 bounds any single deployed facet; the safe ceiling leaves
// headroom for compiler metadata and future patches.
const (
	EIP170Ceiling               = 24576
	SafeCeilingDefault          = 22000
	MaxFunctionsPerFacetDefault = 20
)

// Options configures one partitioning run.
type Options struct {
	MaxFunctionsPerFacet int
	MaxFacetSize         int // hard EIP-170 ceiling
	SafeFacetSize        int // working ceiling packing aims under

	// SkipStorageDomain disables consolidating storage-intensive
	// functions into a dedicated facet.
	SkipStorageDomain bool

	Heuristics Heuristics
}

// DefaultOptions returns the standard caps with the built-in heuristics.
func DefaultOptions() Options {
	return Options{
		MaxFunctionsPerFacet: MaxFunctionsPerFacetDefault,
		MaxFacetSize:         EIP170Ceiling,
		SafeFacetSize:        SafeCeilingDefault,
		Heuristics:           DefaultHeuristics(),
	}
}

// normalized fills zero fields with defaults so a partially specified
// Options value behaves predictably.
func (o Options) normalized() Options {
	if o.MaxFunctionsPerFacet <= 0 {
		o.MaxFunctionsPerFacet = MaxFunctionsPerFacetDefault
	}
	if o.MaxFacetSize <= 0 {
		o.MaxFacetSize = EIP170Ceiling
	}
	if o.SafeFacetSize <= 0 {
		o.SafeFacetSize = SafeCeilingDefault
	}
	if o.Heuristics.AdminKeywords == nil && o.Heuristics.StorageKeywords == nil {
		o.Heuristics = DefaultHeuristics()
	}
	return o
}

func (o Options) validate() error {
	if o.SafeFacetSize > o.MaxFacetSize {
		return facerrors.NewConfigError(facerrors.StageCluster, facerrors.ErrorBadClusterOptions,
			fmt.Sprintf("safe ceiling %d exceeds the hard ceiling %d", o.SafeFacetSize, o.MaxFacetSize))
	}
	return nil
}

// Partition groups the model's functions into facet candidates. Every
// function lands in exactly one facet; the only fatal condition is a
// single function whose own estimated size exceeds the working ceiling.
func Partition(m *model.ContractModel, g *callgraph.Graph, opts Options) ([]FacetCandidate, error) {
	opts = opts.normalized()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if g == nil {
		return nil, facerrors.NewConfigError(facerrors.StageCluster, facerrors.ErrorBadClusterOptions,
			"partitioning requires a complete call graph")
	}

	h := opts.Heuristics
	assigned := make(map[string]bool, len(m.Functions))

	// 1. Administrative functions form the critical-security domain.
	var adminMembers []model.FunctionDescriptor
	for i := range m.Functions {
		fn := m.Functions[i]
		if h.isAdmin(&fn) {
			adminMembers = append(adminMembers, fn)
			assigned[fn.Name] = true
		}
	}

	// 2. Remaining pure/view functions form the read-only domain.
	var viewMembers []model.FunctionDescriptor
	for i := range m.Functions {
		fn := m.Functions[i]
		if !assigned[fn.Name] && fn.Mutability.ReadOnly() {
			viewMembers = append(viewMembers, fn)
			assigned[fn.Name] = true
		}
	}

	// 3. Storage-intensive mutating functions are consolidated when more
	// than StorageClusterMin of them qualify.
	var storageMembers []model.FunctionDescriptor
	if !opts.SkipStorageDomain {
		var candidates []model.FunctionDescriptor
		for i := range m.Functions {
			fn := m.Functions[i]
			if !assigned[fn.Name] && h.isStorageIntensive(&fn) {
				candidates = append(candidates, fn)
			}
		}
		if len(candidates) > h.StorageClusterMin {
			storageMembers = candidates
			for i := range storageMembers {
				assigned[storageMembers[i].Name] = true
			}
		}
	}

	// 4. Remaining mutating functions cluster by breadth-first expansion
	// over call-graph neighborhoods, up to the function-count cap.
	coreClusters := clusterByLocality(m, g, assigned, opts.MaxFunctionsPerFacet)

	facets := make([]FacetCandidate, 0, len(coreClusters)+3)
	if len(adminMembers) > 0 {
		facets = append(facets, FacetCandidate{Name: "AdminFacet", Category: CategoryAdmin, Members: adminMembers})
	}
	if len(viewMembers) > 0 {
		facets = append(facets, FacetCandidate{Name: "ViewFacet", Category: CategoryView, Members: viewMembers})
	}
	for i, members := range coreClusters {
		facets = append(facets, FacetCandidate{
			Name:     fmt.Sprintf("CoreFacet%d", i+1),
			Category: CategoryCore,
			Members:  members,
		})
	}
	if len(storageMembers) > 0 {
		facets = append(facets, FacetCandidate{Name: "StorageFacet", Category: CategoryStorage, Members: storageMembers})
	}

	// Enforce the caps, then derive per-facet metadata.
	packed := make([]FacetCandidate, 0, len(facets))
	for _, f := range facets {
		split, err := repack(f, opts)
		if err != nil {
			return nil, err
		}
		packed = append(packed, split...)
	}

	finalize(packed, m, g, opts)
	return packed, nil
}

// clusterByLocality seeds a cluster from each unprocessed mutating
// function and grows it breadth-first over dependency and dependent edges
// until the neighborhood is exhausted or the count cap is reached.
func clusterByLocality(m *model.ContractModel, g *callgraph.Graph, assigned map[string]bool, limit int) [][]model.FunctionDescriptor {
	clusters := make([][]model.FunctionDescriptor, 0)

	for i := range m.Functions {
		seed := m.Functions[i].Name
		if assigned[seed] {
			continue
		}

		members := make([]model.FunctionDescriptor, 0, limit)
		queue := []string{seed}
		queued := map[string]bool{seed: true}

		for len(queue) > 0 && len(members) < limit {
			name := queue[0]
			queue = queue[1:]
			if assigned[name] {
				continue
			}
			assigned[name] = true
			members = append(members, *m.Function(name))

			for _, neighbor := range g.Neighborhood(name) {
				if queued[neighbor] || assigned[neighbor] {
					continue
				}
				fn := m.Function(neighbor)
				if fn == nil || fn.Mutability.ReadOnly() {
					continue
				}
				queued[neighbor] = true
				queue = append(queue, neighbor)
			}
		}

		clusters = append(clusters, members)
	}
	return clusters
}

// repack greedily splits a facet whose summed size exceeds the working
// ceiling or whose member count exceeds the cap, preserving the original
// member order. A single member already over the ceiling is fatal.
func repack(f FacetCandidate, opts Options) ([]FacetCandidate, error) {
	chunks := make([][]model.FunctionDescriptor, 0, 1)
	current := make([]model.FunctionDescriptor, 0, len(f.Members))
	size := facetOverhead

	for i := range f.Members {
		member := f.Members[i]
		memberSize := EstimateFunctionSize(&member)
		if memberSize > opts.SafeFacetSize {
			return nil, facerrors.NewSizeLimitExceeded(member.Name, memberSize, opts.SafeFacetSize)
		}

		if len(current) > 0 && (len(current) >= opts.MaxFunctionsPerFacet || size+memberSize > opts.SafeFacetSize) {
			chunks = append(chunks, current)
			current = make([]model.FunctionDescriptor, 0, len(f.Members)-i)
			size = facetOverhead
		}
		current = append(current, member)
		size += memberSize
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}

	if len(chunks) == 1 {
		f.Members = chunks[0]
		return []FacetCandidate{f}, nil
	}

	split := make([]FacetCandidate, 0, len(chunks))
	for i, members := range chunks {
		split = append(split, FacetCandidate{
			Name:     fmt.Sprintf("%s%d", f.Name, i+1),
			Category: f.Category,
			Members:  members,
		})
	}
	return split, nil
}

// finalize derives sizes, security ratings, storage footprints, tiers and
// inter-facet dependencies once membership is settled.
func finalize(facets []FacetCandidate, m *model.ContractModel, g *callgraph.Graph, opts Options) {
	memberFacet := make(map[string]string)
	adminFacet := ""
	for i := range facets {
		if adminFacet == "" && facets[i].Category == CategoryAdmin {
			adminFacet = facets[i].Name
		}
		for j := range facets[i].Members {
			memberFacet[facets[i].Members[j].Name] = facets[i].Name
		}
	}

	for i := range facets {
		f := &facets[i]
		f.EstimatedSize = estimateFacetSize(f.Members)
		f.Security = facetSecurity(f)
		f.Variables = storageFootprint(f, m, g)
		f.Tier = tierFor(f.EstimatedSize, opts.SafeFacetSize)
		f.Dependencies = facetDependencies(f, g, memberFacet, adminFacet, opts.Heuristics)
	}
}

func facetSecurity(f *FacetCandidate) model.SecurityLevel {
	level := model.SecurityLow
	for i := range f.Members {
		level = model.MaxSecurity(level, f.Members[i].Security)
	}
	if f.Category == CategoryAdmin {
		level = model.MaxSecurity(level, model.SecurityCritical)
	}
	return level
}

// storageFootprint collects the state variables the facet's members touch,
// from the graph's storage edges. Constants and immutables never occupy
// a slot and are excluded.
func storageFootprint(f *FacetCandidate, m *model.ContractModel, g *callgraph.Graph) []model.VariableDescriptor {
	seen := make(map[string]bool)
	vars := make([]model.VariableDescriptor, 0, 4)
	for i := range f.Members {
		for _, name := range g.StorageTouches(f.Members[i].Name) {
			if seen[name] {
				continue
			}
			seen[name] = true
			if v := m.Variable(name); v != nil && v.OccupiesStorage() {
				vars = append(vars, *v)
			}
		}
	}
	return vars
}

func tierFor(size, ceiling int) GasTier {
	switch {
	case size*3 <= ceiling:
		return TierCompact
	case size*3 <= ceiling*2:
		return TierStandard
	default:
		return TierHeavy
	}
}

// facetDependencies infers dependencies on other facets: an admin-domain
// dependency when a member carries an administrative guard, and a direct
// dependency wherever a member calls into another facet.
func facetDependencies(f *FacetCandidate, g *callgraph.Graph, memberFacet map[string]string, adminFacet string, h Heuristics) []string {
	deps := make(map[string]bool)

	if adminFacet != "" && f.Name != adminFacet {
		if f.Category == CategoryStorage {
			deps[adminFacet] = true
		}
		for i := range f.Members {
			for _, mod := range f.Members[i].Modifiers {
				if h.isAdminGuard(mod) {
					deps[adminFacet] = true
				}
			}
		}
	}

	for i := range f.Members {
		node := g.Node(f.Members[i].Name)
		if node == nil {
			continue
		}
		for callee := range node.Dependencies {
			if target, ok := memberFacet[callee]; ok && target != f.Name {
				deps[target] = true
			}
		}
	}

	out := make([]string, 0, len(deps))
	for dep := range deps {
		out = append(out, dep)
	}
	sort.Strings(out)
	return out
}
