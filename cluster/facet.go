// Package cluster groups a contract's functions into facet candidates
// under hard size and function-count caps, using the call graph for
// locality. The clustering policy is deterministic: functions are consumed
// in declaration order and each function lands in exactly one facet.
package cluster

import "faceter/model"

// FacetCategory is the closed set of facet domains.
type FacetCategory string

const (
	// CategoryAdmin holds privileged functions behind governance and
	// ownership controls.
	CategoryAdmin FacetCategory = "admin"

	// CategoryView holds pure and view functions.
	CategoryView FacetCategory = "view"

	// CategoryCore holds state-mutating business logic.
	CategoryCore FacetCategory = "core"

	// CategoryStorage holds storage-intensive bulk operations.
	CategoryStorage FacetCategory = "storage"
)

// GasTier coarsely ranks a facet's deployment weight.
type GasTier string

const (
	TierCompact  GasTier = "compact"
	TierStandard GasTier = "standard"
	TierHeavy    GasTier = "heavy"
)

// FacetCandidate is one proposed independently deployable module.
type FacetCandidate struct {
	Name          string                     `json:"name"`
	Category      FacetCategory              `json:"category"`
	Members       []model.FunctionDescriptor `json:"members"`
	Variables     []model.VariableDescriptor `json:"variables,omitempty"`
	EstimatedSize int                        `json:"estimatedSize"`
	Security      model.SecurityLevel        `json:"security"`
	Dependencies  []string                   `json:"dependencies,omitempty"`
	Tier          GasTier                    `json:"tier"`
}

// MemberNames returns the facet's member function names in order.
func (f *FacetCandidate) MemberNames() []string {
	names := make([]string, 0, len(f.Members))
	for i := range f.Members {
		names = append(names, f.Members[i].Name)
	}
	return names
}

// HasMember reports whether the facet contains the named function.
func (f *FacetCandidate) HasMember(name string) bool {
	for i := range f.Members {
		if f.Members[i].Name == name {
			return true
		}
	}
	return false
}

// SourceText concatenates member bodies. The deployment simulator hashes
// this as the facet's stand-in source for pseudo-address prediction.
func (f *FacetCandidate) SourceText() string {
	text := ""
	for i := range f.Members {
		text += f.Members[i].Signature() + "{" + f.Members[i].Body + "}"
	}
	return text
}
