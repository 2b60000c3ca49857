package cluster

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faceter/callgraph"
	facerrors "faceter/errors"
	"faceter/model"
)

func buildGraph(t *testing.T, m *model.ContractModel) *callgraph.Graph {
	t.Helper()
	g, err := callgraph.Build(m)
	require.NoError(t, err)
	return g
}

// Twenty-five getters under a twenty-function cap must split into exactly
// two read-only facets of twenty and five members.
func TestReadOnlyDomainSplitsAtFunctionCap(t *testing.T) {
	m := &model.ContractModel{Name: "Readers"}
	for i := 0; i < 25; i++ {
		m.Functions = append(m.Functions, model.FunctionDescriptor{
			Name:       fmt.Sprintf("getX%d", i),
			Mutability: model.Pure,
		})
	}

	facets, err := Partition(m, buildGraph(t, m), DefaultOptions())
	require.NoError(t, err)

	require.Len(t, facets, 2)
	assert.Equal(t, CategoryView, facets[0].Category)
	assert.Equal(t, CategoryView, facets[1].Category)
	assert.Len(t, facets[0].Members, 20)
	assert.Len(t, facets[1].Members, 5)
}

// A state-mutating function guarded by onlyOwner belongs to the
// administrative domain, not the core domain.
func TestAdminGuardRoutesToAdminDomain(t *testing.T) {
	m := &model.ContractModel{
		Name: "Fees",
		Functions: []model.FunctionDescriptor{
			{Name: "setFeeRecipient", Mutability: model.NonPayable,
				Parameters: []model.Parameter{{Name: "recipient", Type: "address"}},
				Modifiers:  []string{"onlyOwner"}},
			{Name: "collect", Mutability: model.NonPayable},
		},
	}

	facets, err := Partition(m, buildGraph(t, m), DefaultOptions())
	require.NoError(t, err)

	var admin *FacetCandidate
	for i := range facets {
		if facets[i].Category == CategoryAdmin {
			admin = &facets[i]
		}
	}
	require.NotNil(t, admin)
	assert.True(t, admin.HasMember("setFeeRecipient"))
	assert.Equal(t, model.SecurityCritical, admin.Security)

	for i := range facets {
		if facets[i].Category == CategoryCore {
			assert.False(t, facets[i].HasMember("setFeeRecipient"))
		}
	}
}

// Every function lands in exactly one facet.
func TestPartitionTotality(t *testing.T) {
	m := &model.ContractModel{
		Name: "Mixed",
		Functions: []model.FunctionDescriptor{
			{Name: "initialize", Mutability: model.NonPayable},
			{Name: "totalSupply", Mutability: model.View},
			{Name: "transfer", Mutability: model.NonPayable, Body: "_move(to, amount);"},
			{Name: "_move", Mutability: model.NonPayable},
			{Name: "mint", Mutability: model.NonPayable},
		},
	}

	facets, err := Partition(m, buildGraph(t, m), DefaultOptions())
	require.NoError(t, err)

	seen := make(map[string]int)
	for i := range facets {
		for _, name := range facets[i].MemberNames() {
			seen[name]++
		}
	}
	for _, fn := range m.FunctionNames() {
		assert.Equal(t, 1, seen[fn], "function %s must be in exactly one facet", fn)
	}
}

// Emitted facets respect the member-count and size caps.
func TestSizeBoundHolds(t *testing.T) {
	m := &model.ContractModel{Name: "Big"}
	for i := 0; i < 60; i++ {
		m.Functions = append(m.Functions, model.FunctionDescriptor{
			Name:       fmt.Sprintf("op%d", i),
			Mutability: model.NonPayable,
			CodeSize:   1500,
		})
	}

	opts := DefaultOptions()
	facets, err := Partition(m, buildGraph(t, m), opts)
	require.NoError(t, err)

	for i := range facets {
		assert.LessOrEqual(t, len(facets[i].Members), opts.MaxFunctionsPerFacet)
		assert.LessOrEqual(t, facets[i].EstimatedSize, opts.SafeFacetSize)
	}
}

func TestOversizedFunctionIsFatal(t *testing.T) {
	m := &model.ContractModel{
		Name: "Oversized",
		Functions: []model.FunctionDescriptor{
			{Name: "monolith", Mutability: model.NonPayable, CodeSize: 30000},
		},
	}

	facets, err := Partition(m, buildGraph(t, m), DefaultOptions())
	assert.Nil(t, facets)

	var sizeErr *facerrors.SizeLimitExceeded
	require.ErrorAs(t, err, &sizeErr)
	assert.Equal(t, "monolith", sizeErr.Function)
	assert.Equal(t, 30000, sizeErr.EstimatedSize)
}

// Connected mutating functions cluster together; disconnected ones seed
// separate core facets.
func TestLocalityClustering(t *testing.T) {
	m := &model.ContractModel{
		Name: "Local",
		Functions: []model.FunctionDescriptor{
			{Name: "deposit", Mutability: model.NonPayable, Body: "_credit(msg.sender, amount);"},
			{Name: "_credit", Mutability: model.NonPayable},
			{Name: "unrelated", Mutability: model.NonPayable},
		},
	}

	facets, err := Partition(m, buildGraph(t, m), DefaultOptions())
	require.NoError(t, err)

	var cores []FacetCandidate
	for i := range facets {
		if facets[i].Category == CategoryCore {
			cores = append(cores, facets[i])
		}
	}
	require.Len(t, cores, 2)
	assert.True(t, cores[0].HasMember("deposit"))
	assert.True(t, cores[0].HasMember("_credit"))
	assert.True(t, cores[1].HasMember("unrelated"))
}

func TestStorageIntensiveConsolidation(t *testing.T) {
	m := &model.ContractModel{
		Name: "Bulk",
		Functions: []model.FunctionDescriptor{
			{Name: "batchMint", Mutability: model.NonPayable},
			{Name: "bulkTransfer", Mutability: model.NonPayable},
			{Name: "massAirdrop", Mutability: model.NonPayable},
			{Name: "updateRegistry", Mutability: model.NonPayable},
			{Name: "swap", Mutability: model.NonPayable},
		},
	}

	facets, err := Partition(m, buildGraph(t, m), DefaultOptions())
	require.NoError(t, err)

	var storageFacet *FacetCandidate
	for i := range facets {
		if facets[i].Category == CategoryStorage {
			storageFacet = &facets[i]
		}
	}
	require.NotNil(t, storageFacet, "four storage-intensive functions exceed the consolidation threshold")
	assert.Len(t, storageFacet.Members, 4)
	assert.False(t, storageFacet.HasMember("swap"))
}

func TestStorageDomainDependsOnAdminDomain(t *testing.T) {
	m := &model.ContractModel{
		Name: "Bulk",
		Functions: []model.FunctionDescriptor{
			{Name: "setOwner", Mutability: model.NonPayable},
			{Name: "batchMint", Mutability: model.NonPayable},
			{Name: "bulkTransfer", Mutability: model.NonPayable},
			{Name: "massAirdrop", Mutability: model.NonPayable},
			{Name: "updateRegistry", Mutability: model.NonPayable},
		},
	}

	facets, err := Partition(m, buildGraph(t, m), DefaultOptions())
	require.NoError(t, err)

	for i := range facets {
		if facets[i].Category == CategoryStorage {
			assert.Contains(t, facets[i].Dependencies, "AdminFacet")
		}
	}
}

func TestVariableFootprintFollowsStorageEdges(t *testing.T) {
	m := &model.ContractModel{
		Name: "Vault",
		Functions: []model.FunctionDescriptor{
			{Name: "sweep", Mutability: model.NonPayable, Body: "total = 0;"},
		},
		Variables: []model.VariableDescriptor{
			{Name: "total", Type: "uint256", Slot: 0, Size: 32},
			{Name: "untouched", Type: "uint256", Slot: 1, Size: 32},
			{Name: "MAX", Type: "uint256", Slot: 2, Size: 32, Constant: true},
		},
	}

	facets, err := Partition(m, buildGraph(t, m), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, facets, 1)

	require.Len(t, facets[0].Variables, 1)
	assert.Equal(t, "total", facets[0].Variables[0].Name)
}

func TestHeuristicsLoadMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heuristics.yaml")
	content := "version: \"2\"\nadmin_keywords: [operator]\ncategory_overrides:\n  checkpoint: storage\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	h, err := LoadHeuristics(path)
	require.NoError(t, err)

	assert.Equal(t, "2", h.Version)
	assert.Equal(t, []string{"operator"}, h.AdminKeywords)
	assert.NotEmpty(t, h.StorageKeywords, "unset vocabularies keep their defaults")
	assert.Equal(t, CategoryStorage, h.CategoryOverrides["checkpoint"])

	fn := &model.FunctionDescriptor{Name: "setOperator"}
	assert.True(t, h.isAdmin(fn))
	assert.False(t, h.isAdmin(&model.FunctionDescriptor{Name: "setOwner"}),
		"the override table replaced the default admin vocabulary")
}

func TestOptionsValidation(t *testing.T) {
	m := &model.ContractModel{
		Name:      "Tiny",
		Functions: []model.FunctionDescriptor{{Name: "noop", Mutability: model.Pure}},
	}
	opts := Options{SafeFacetSize: 30000, MaxFacetSize: EIP170Ceiling}

	_, err := Partition(m, buildGraph(t, m), opts)
	var cfgErr *facerrors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, facerrors.ErrorBadClusterOptions, cfgErr.Code)
}
