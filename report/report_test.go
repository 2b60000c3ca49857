package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faceter/cluster"
	"faceter/model"
	"faceter/simulate"
	"faceter/storage"
)

func lowRiskFacets() []cluster.FacetCandidate {
	return []cluster.FacetCandidate{
		{Name: "ViewFacet", Category: cluster.CategoryView, Security: model.SecurityLow,
			EstimatedSize: 3000, Members: []model.FunctionDescriptor{
				{Name: "totalSupply", Mutability: model.View},
			}},
		{Name: "CoreFacet1", Category: cluster.CategoryCore, Security: model.SecurityLow,
			EstimatedSize: 4000, Members: []model.FunctionDescriptor{
				{Name: "transfer", Mutability: model.NonPayable},
			}},
	}
}

func TestAggregateStampsMetadata(t *testing.T) {
	m := &model.ContractModel{Name: "Token"}
	facets := lowRiskFacets()

	r := Aggregate(m, facets, storage.Check(facets), nil)

	assert.NotEmpty(t, r.RunID)
	assert.False(t, r.GeneratedAt.IsZero())
	assert.Equal(t, EngineVersion, r.EngineVersion)
	assert.Equal(t, "Token", r.Contract)

	other := Aggregate(m, facets, storage.Check(facets), nil)
	assert.NotEqual(t, r.RunID, other.RunID, "each run gets its own identifier")
}

func TestSizeDimensionFlagsOversizedFacets(t *testing.T) {
	facets := lowRiskFacets()
	facets[0].EstimatedSize = cluster.EIP170Ceiling + 1

	r := Aggregate(nil, facets, nil, nil)
	assert.False(t, r.Size.Passed)
	require.Len(t, r.Size.Violations, 1)
	assert.Contains(t, r.Size.Violations[0], "EIP-170")
	assert.False(t, r.Compatible)
}

func TestSelectorCollisionDetection(t *testing.T) {
	shared := model.Selector{0xca, 0xfe, 0xba, 0xbe}
	facets := []cluster.FacetCandidate{
		{Name: "A", Category: cluster.CategoryCore, Security: model.SecurityLow,
			EstimatedSize: 3000, Members: []model.FunctionDescriptor{
				{Name: "mint", Selector: shared, Mutability: model.NonPayable},
			}},
		{Name: "B", Category: cluster.CategoryCore, Security: model.SecurityLow,
			EstimatedSize: 3000, Members: []model.FunctionDescriptor{
				{Name: "burn", Selector: shared, Mutability: model.NonPayable},
			}},
	}

	r := Aggregate(nil, facets, nil, nil)
	assert.False(t, r.SelectorCollision.Passed)
	require.Len(t, r.SelectorCollision.Violations, 1)
	assert.Contains(t, r.SelectorCollision.Violations[0], "F0301")
	assert.Contains(t, r.SelectorCollision.Violations[0], "mint")
	assert.Contains(t, r.SelectorCollision.Violations[0], "burn")
}

func TestStorageDimensionCarriesConflictCodes(t *testing.T) {
	facets := []cluster.FacetCandidate{
		{Name: "A", Category: cluster.CategoryCore, Security: model.SecurityLow, EstimatedSize: 3000,
			Variables: []model.VariableDescriptor{{Name: "x", Type: "uint256", Slot: 0, Size: 32}}},
		{Name: "B", Category: cluster.CategoryCore, Security: model.SecurityLow, EstimatedSize: 3000,
			Variables: []model.VariableDescriptor{{Name: "y", Type: "uint256", Slot: 0, Size: 32}}},
	}

	r := Aggregate(nil, facets, storage.Check(facets), nil)
	assert.False(t, r.Storage.Passed)
	require.Len(t, r.Storage.Violations, 1)
	assert.Contains(t, r.Storage.Violations[0], "F0300")
	assert.Contains(t, r.Storage.Violations[0], "slot 0")
}

func TestUpgradePathBlockers(t *testing.T) {
	facets := lowRiskFacets()
	facets[0].EstimatedSize = cluster.SafeCeilingDefault - 100 // within 10% of the ceiling
	facets[1].Dependencies = []string{"A", "B", "C"}

	r := Aggregate(nil, facets, nil, nil)
	assert.False(t, r.UpgradePath.Passed)
	assert.Len(t, r.UpgradePath.Violations, 2)
}

func TestGasScoreStaysInRange(t *testing.T) {
	assert.Equal(t, 0, gasScore(nil))

	facets := lowRiskFacets()
	score := gasScore(facets)
	assert.GreaterOrEqual(t, score, 0)
	assert.LessOrEqual(t, score, 100)

	// Five facets, all under the ceiling, one admin, deps near 1.5.
	ideal := []cluster.FacetCandidate{
		{Name: "AdminFacet", Category: cluster.CategoryAdmin, Security: model.SecurityCritical, EstimatedSize: 3000},
		{Name: "ViewFacet", Category: cluster.CategoryView, EstimatedSize: 3000, Dependencies: []string{"AdminFacet"}},
		{Name: "CoreFacet1", Category: cluster.CategoryCore, EstimatedSize: 3000, Dependencies: []string{"AdminFacet", "CoreFacet2"}},
		{Name: "CoreFacet2", Category: cluster.CategoryCore, EstimatedSize: 3000, Dependencies: []string{"AdminFacet", "CoreFacet1"}},
		{Name: "StorageFacet", Category: cluster.CategoryStorage, EstimatedSize: 3000, Dependencies: []string{"AdminFacet", "CoreFacet1"}},
	}
	assert.Greater(t, gasScore(ideal), 90)
}

func TestStrategySequentialWhenCriticalMajority(t *testing.T) {
	facets := []cluster.FacetCandidate{
		{Name: "AdminFacet", Category: cluster.CategoryAdmin, Security: model.SecurityCritical, EstimatedSize: 3000},
		{Name: "GovFacet", Category: cluster.CategoryAdmin, Security: model.SecurityCritical, EstimatedSize: 3000},
		{Name: "ViewFacet", Category: cluster.CategoryView, Security: model.SecurityLow, EstimatedSize: 3000},
	}

	r := Aggregate(nil, facets, storage.Check(facets), nil)
	assert.Equal(t, StrategySequential, r.Strategy)
}

func TestStrategyParallelForSmallLowRiskSets(t *testing.T) {
	facets := lowRiskFacets()
	r := Aggregate(nil, facets, storage.Check(facets), nil)
	assert.Equal(t, StrategyParallel, r.Strategy)
}

func TestStrategyMixedOtherwise(t *testing.T) {
	facets := lowRiskFacets()
	for i := 0; i < 3; i++ {
		facets = append(facets, cluster.FacetCandidate{
			Name: "Extra" + string(rune('A'+i)), Category: cluster.CategoryCore,
			Security: model.SecurityLow, EstimatedSize: 3000,
		})
	}

	r := Aggregate(nil, facets, storage.Check(facets), nil)
	assert.Equal(t, StrategyMixed, r.Strategy)
}

func TestWarningsFlowFromPhasesAndStorage(t *testing.T) {
	facets := lowRiskFacets()
	phases := []simulate.PhaseResult{
		{Name: "deployment", Warnings: []string{"CoreFacet1: deployment gas 3000000 exceeds ceiling 2000000"}},
	}

	r := Aggregate(nil, facets, storage.Check(facets), phases)
	require.NotEmpty(t, r.Warnings)
	assert.Contains(t, r.Warnings[0], "exceeds ceiling")
}

func TestBuildRefactorPlanSharedComponents(t *testing.T) {
	facets := []cluster.FacetCandidate{
		{Name: "A", Category: cluster.CategoryCore, EstimatedSize: 3000, Members: []model.FunctionDescriptor{
			{Name: "mint", Modifiers: []string{"onlyOwner", "whenNotPaused"}},
		}},
		{Name: "B", Category: cluster.CategoryCore, EstimatedSize: 3000, Members: []model.FunctionDescriptor{
			{Name: "burn", Modifiers: []string{"onlyOwner"}},
		}},
	}

	compat := Aggregate(nil, facets, nil, nil)
	plan := BuildRefactorPlan(nil, facets, compat, simulate.BuildPlan(facets))

	assert.Equal(t, []string{"onlyOwner"}, plan.SharedComponents,
		"only modifiers guarding more than one facet are shared components")
	assert.Equal(t, compat.Strategy, plan.DeploymentStrategy)
	assert.Positive(t, plan.EstimatedGasSavings)
	assert.NotNil(t, plan.DeploymentPlan)
}

func TestRenderSummaryMentionsFacetsAndVerdicts(t *testing.T) {
	facets := lowRiskFacets()
	compat := Aggregate(&model.ContractModel{Name: "Token"}, facets, storage.Check(facets), nil)
	plan := BuildRefactorPlan(nil, facets, compat, simulate.BuildPlan(facets))

	out := RenderSummary(plan)
	assert.Contains(t, out, "refactor plan for Token")
	assert.Contains(t, out, "ViewFacet")
	assert.Contains(t, out, "gas score")
	assert.Contains(t, out, "factory")
}
