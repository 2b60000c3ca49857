// Package report merges every validation into one pass/fail compatibility
// report with a recommended deployment strategy, and assembles the final
// refactor plan handed to downstream collaborators.
package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"faceter/cluster"
	facerrors "faceter/errors"
	"faceter/model"
	"faceter/simulate"
	"faceter/storage"
)

// EngineVersion is stamped into every generated report.
const EngineVersion = "0.1.0"

// Strategy is the recommended deployment ordering.
type Strategy string

const (
	StrategySequential Strategy = "sequential"
	StrategyParallel   Strategy = "parallel"
	StrategyMixed      Strategy = "mixed"
)

// Dimension is one pass/fail axis of the compatibility report.
type Dimension struct {
	Passed     bool     `json:"passed"`
	Violations []string `json:"violations,omitempty"`
}

// CompatibilityReport is the merged verdict over all validation axes.
type CompatibilityReport struct {
	RunID         string    `json:"runId"`
	GeneratedAt   time.Time `json:"generatedAt"`
	EngineVersion string    `json:"engineVersion"`
	Contract      string    `json:"contract"`

	Size              Dimension `json:"size"`
	Storage           Dimension `json:"storage"`
	SelectorCollision Dimension `json:"selectorCollision"`
	Diamond           Dimension `json:"diamond"`
	UpgradePath       Dimension `json:"upgradePath"`

	Compatible      bool     `json:"compatible"`
	GasScore        int      `json:"gasScore"` // 0-100
	Strategy        Strategy `json:"strategy"`
	Warnings        []string `json:"warnings,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// Aggregate merges the clustering, storage and simulation outputs into the
// final compatibility verdict.
func Aggregate(m *model.ContractModel, facets []cluster.FacetCandidate,
	layout *storage.LayoutReport, phases []simulate.PhaseResult) *CompatibilityReport {

	r := &CompatibilityReport{
		RunID:         uuid.NewString(),
		GeneratedAt:   time.Now().UTC(),
		EngineVersion: EngineVersion,
	}
	if m != nil {
		r.Contract = m.Name
	}

	r.Size = sizeDimension(facets)
	r.Storage = storageDimension(layout)
	r.SelectorCollision = selectorDimension(facets)
	r.Diamond = diamondDimension(layout)
	r.UpgradePath = upgradeDimension(facets)

	r.Compatible = r.Size.Passed && r.Storage.Passed && r.SelectorCollision.Passed &&
		r.Diamond.Passed && r.UpgradePath.Passed
	r.GasScore = gasScore(facets)
	r.Strategy = recommendStrategy(facets, layout)

	for _, phase := range phases {
		r.Warnings = append(r.Warnings, phase.Warnings...)
	}
	if layout != nil {
		r.Warnings = append(r.Warnings, layout.SecurityIssues...)
		for _, c := range layout.Conflicts {
			r.Recommendations = append(r.Recommendations, c.Recommendation)
		}
		r.Recommendations = append(r.Recommendations, layout.GasOptimizations...)
	}
	if !r.Compatible {
		r.Recommendations = append(r.Recommendations,
			"resolve the failing dimensions before committing a route manifest")
	}
	return r
}

func sizeDimension(facets []cluster.FacetCandidate) Dimension {
	d := Dimension{Passed: true}
	for i := range facets {
		f := &facets[i]
		if f.EstimatedSize > cluster.EIP170Ceiling {
			d.Passed = false
			d.Violations = append(d.Violations, fmt.Sprintf(
				"%s: estimated %d bytes exceeds the EIP-170 ceiling %d",
				f.Name, f.EstimatedSize, cluster.EIP170Ceiling))
		}
	}
	return d
}

func storageDimension(layout *storage.LayoutReport) Dimension {
	d := Dimension{Passed: true}
	if layout == nil {
		return d
	}
	for _, c := range layout.Conflicts {
		d.Passed = false
		conflict := facerrors.NewConflictDetected(facerrors.StageStorage, facerrors.ErrorSlotCollision,
			fmt.Sprintf("slot %d", c.Slot),
			fmt.Sprintf("claimed by multiple facets (%s)", c.Severity))
		d.Violations = append(d.Violations, conflict.Error())
	}
	return d
}

// selectorDimension fails when two distinct functions share a simulated
// selector; routing cannot dispatch both.
func selectorDimension(facets []cluster.FacetCandidate) Dimension {
	d := Dimension{Passed: true}
	owners := make(map[model.Selector]string)
	for i := range facets {
		for j := range facets[i].Members {
			member := &facets[i].Members[j]
			sel := member.EffectiveSelector()
			if owner, taken := owners[sel]; taken && owner != member.Name {
				d.Passed = false
				collision := facerrors.NewConflictDetected(facerrors.StageReport, facerrors.ErrorSelectorCollision,
					sel.Hex(), fmt.Sprintf("selector shared by %s and %s", owner, member.Name))
				d.Violations = append(d.Violations, collision.Error())
				continue
			}
			owners[sel] = member.Name
		}
	}
	return d
}

func diamondDimension(layout *storage.LayoutReport) Dimension {
	d := Dimension{Passed: true}
	if layout == nil {
		return d
	}
	for i := range layout.DiamondPatterns {
		p := &layout.DiamondPatterns[i]
		if !p.Valid {
			d.Passed = false
			d.Violations = append(d.Violations, p.Facet+": no valid diamond storage pattern")
		}
	}
	return d
}

// upgradeDimension blocks facets too close to the size ceiling to patch,
// and facets entangled with more than two others.
func upgradeDimension(facets []cluster.FacetCandidate) Dimension {
	d := Dimension{Passed: true}
	for i := range facets {
		f := &facets[i]
		if f.EstimatedSize*10 > cluster.SafeCeilingDefault*9 {
			d.Passed = false
			d.Violations = append(d.Violations, fmt.Sprintf(
				"%s: within 10%% of the safety ceiling, no headroom to upgrade", f.Name))
		}
		if len(f.Dependencies) > 2 {
			d.Passed = false
			d.Violations = append(d.Violations, fmt.Sprintf(
				"%s: %d cross-facet dependencies entangle upgrades", f.Name, len(f.Dependencies)))
		}
	}
	return d
}

// gasScore blends four signals, 25 points each: facet count near the
// target of five, the under-ceiling fraction, a single dominant
// critical-security facet, and an average dependency count near 1.5.
func gasScore(facets []cluster.FacetCandidate) int {
	if len(facets) == 0 {
		return 0
	}

	countScore := 25 - 5*abs(len(facets)-5)
	if countScore < 0 {
		countScore = 0
	}

	under := 0
	admins := 0
	deps := 0
	for i := range facets {
		if facets[i].EstimatedSize <= cluster.SafeCeilingDefault {
			under++
		}
		if facets[i].Category == cluster.CategoryAdmin {
			admins++
		}
		deps += len(facets[i].Dependencies)
	}
	underScore := 25 * under / len(facets)

	adminScore := 0
	if admins == 1 {
		adminScore = 25
	}

	avgDeps := float64(deps) / float64(len(facets))
	depScore := 25 - int(10*absFloat(avgDeps-1.5))
	if depScore < 0 {
		depScore = 0
	}

	return countScore + underScore + adminScore + depScore
}

// recommendStrategy: sequential when critical or oversized facets are the
// majority, parallel when the set is small and low-risk, mixed otherwise.
func recommendStrategy(facets []cluster.FacetCandidate, layout *storage.LayoutReport) Strategy {
	risky := 0
	for i := range facets {
		if facets[i].Security == model.SecurityCritical ||
			facets[i].EstimatedSize > cluster.SafeCeilingDefault {
			risky++
		}
	}
	if 2*risky > len(facets) {
		return StrategySequential
	}

	lowRisk := layout == nil || layout.FacetIsolation.RiskLevel == storage.RiskLow
	if len(facets) <= 3 && risky == 0 && lowRisk {
		return StrategyParallel
	}
	return StrategyMixed
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
