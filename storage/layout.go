// Package storage proves the decomposition's storage safety: it detects
// slot collisions across facet candidates and generates the isolated
// diamond-storage layout that removes them.
package storage

import (
	"fmt"
	"sort"
	"strings"

	"faceter/cluster"
)

// Severity grades a storage conflict.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// RiskLevel summarizes the whole layout.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Claim records one facet's use of a storage slot.
type Claim struct {
	Facet    string `json:"facet"`
	Variable string `json:"variable"`
	Type     string `json:"type"`
	Size     int    `json:"size"`
}

// Conflict is a slot claimed by more than one facet.
type Conflict struct {
	Slot           int      `json:"slot"`
	Claims         []Claim  `json:"claims"`
	Severity       Severity `json:"severity"`
	Recommendation string   `json:"recommendation"`
}

// FacetIsolation summarizes whether facets share any automatic-layout
// slots.
type FacetIsolation struct {
	Isolated          bool      `json:"isolated"`
	OverlappingFacets []string  `json:"overlappingFacets,omitempty"`
	RiskLevel         RiskLevel `json:"riskLevel"`
}

// LayoutReport is the storage verifier's full output.
type LayoutReport struct {
	TotalSlots       int              `json:"totalSlots"`
	UsedSlots        int              `json:"usedSlots"`
	Conflicts        []Conflict       `json:"conflicts,omitempty"`
	DiamondPatterns  []DiamondPattern `json:"diamondPatterns"`
	FacetIsolation   FacetIsolation   `json:"facetIsolation"`
	IsolationScore   float64          `json:"isolationScore"` // percent of facets with a valid pattern
	ManifestReady    bool             `json:"manifestReady"`
	GasOptimizations []string         `json:"gasOptimizations,omitempty"`
	SecurityIssues   []string         `json:"securityIssues,omitempty"`
}

// privilegedKeywords escalate a conflict to critical when a claimant's
// variable name matches.
var privilegedKeywords = []string{"admin", "owner"}

// Check builds the slot-claimant multimap across every facet's storage
// footprint, grades the conflicts, and emits a diamond pattern per facet.
// Conflicts never abort: imperfect input still yields a usable report.
func Check(facets []cluster.FacetCandidate) *LayoutReport {
	usage := make(map[int][]Claim)
	maxSlot := -1
	for i := range facets {
		f := &facets[i]
		for j := range f.Variables {
			v := &f.Variables[j]
			usage[v.Slot] = append(usage[v.Slot], Claim{
				Facet:    f.Name,
				Variable: v.Name,
				Type:     v.Type,
				Size:     v.Size,
			})
			if v.Slot > maxSlot {
				maxSlot = v.Slot
			}
		}
	}

	report := &LayoutReport{
		TotalSlots: maxSlot + 1,
		UsedSlots:  len(usage),
	}

	slots := make([]int, 0, len(usage))
	for slot := range usage {
		slots = append(slots, slot)
	}
	sort.Ints(slots)

	overlapping := make(map[string]bool)
	for _, slot := range slots {
		claims := usage[slot]
		if countFacets(claims) < 2 {
			continue
		}
		conflict := gradeConflict(slot, claims)
		report.Conflicts = append(report.Conflicts, conflict)
		for _, c := range claims {
			overlapping[c.Facet] = true
		}
		if conflict.Severity == SeverityCritical {
			report.SecurityIssues = append(report.SecurityIssues,
				fmt.Sprintf("privileged variable shares slot %d across facets: %s", slot, claimSummary(claims)))
		}
	}

	report.DiamondPatterns = GeneratePatterns(facets)
	valid := 0
	for i := range report.DiamondPatterns {
		if report.DiamondPatterns[i].Valid {
			valid++
		}
	}
	if len(facets) > 0 {
		report.IsolationScore = 100 * float64(valid) / float64(len(facets))
	}

	report.FacetIsolation = FacetIsolation{
		Isolated:          len(report.Conflicts) == 0,
		OverlappingFacets: sortedNames(overlapping),
		RiskLevel:         riskLevel(report.Conflicts),
	}

	report.GasOptimizations = gasOptimizations(facets)
	report.ManifestReady = manifestReady(report, facets)
	return report
}

// countFacets counts distinct facets among a slot's claims; two variables
// of the same facet in one slot is ordinary packing, not a conflict.
func countFacets(claims []Claim) int {
	facets := make(map[string]bool, len(claims))
	for _, c := range claims {
		facets[c.Facet] = true
	}
	return len(facets)
}

// gradeConflict assigns severity: warning for two claimant facets, error
// beyond, critical whenever a privileged variable is involved. Claimants
// are counted as distinct facets, matching the conflict gate: a facet
// packing two variables into the slot is still one claimant.
func gradeConflict(slot int, claims []Claim) Conflict {
	severity := SeverityWarning
	if countFacets(claims) > 2 {
		severity = SeverityError
	}
	for _, c := range claims {
		name := strings.ToLower(c.Variable)
		for _, kw := range privilegedKeywords {
			if strings.Contains(name, kw) {
				severity = SeverityCritical
			}
		}
	}
	return Conflict{
		Slot:     slot,
		Claims:   claims,
		Severity: severity,
		Recommendation: fmt.Sprintf(
			"relocate slot %d claimants (%s) into per-facet diamond storage namespaces",
			slot, claimSummary(claims)),
	}
}

func claimSummary(claims []Claim) string {
	parts := make([]string, 0, len(claims))
	for _, c := range claims {
		parts = append(parts, c.Facet+"."+c.Variable)
	}
	return strings.Join(parts, ", ")
}

// riskLevel applies the ladder: critical conflict > more than two
// conflicts > any conflict > none.
func riskLevel(conflicts []Conflict) RiskLevel {
	for _, c := range conflicts {
		if c.Severity == SeverityCritical {
			return RiskCritical
		}
	}
	switch {
	case len(conflicts) > 2:
		return RiskHigh
	case len(conflicts) > 0:
		return RiskMedium
	}
	return RiskLow
}

// manifestReady gates route-manifest generation: full isolation, zero
// conflicts, and an explicit security classification on every facet.
func manifestReady(report *LayoutReport, facets []cluster.FacetCandidate) bool {
	if report.IsolationScore < 100 || len(report.Conflicts) > 0 {
		return false
	}
	for i := range facets {
		if facets[i].Security == "" {
			return false
		}
	}
	return len(facets) > 0
}

func gasOptimizations(facets []cluster.FacetCandidate) []string {
	out := make([]string, 0, 2)
	for i := range facets {
		f := &facets[i]
		packable := 0
		for j := range f.Variables {
			if f.Variables[j].Size > 0 && f.Variables[j].Size < 32 {
				packable++
			}
		}
		if packable >= 2 {
			out = append(out, fmt.Sprintf(
				"%s: %d sub-word variables could be packed into shared slots", f.Name, packable))
		}
		if f.Category == cluster.CategoryView && len(f.Variables) == 0 {
			out = append(out, fmt.Sprintf(
				"%s: stateless read-only facet, candidates for off-chain evaluation", f.Name))
		}
	}
	return out
}

func sortedNames(set map[string]bool) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
