package storage

import (
	"fmt"
	"hash/fnv"
	"strings"

	"faceter/cluster"
)

// NamespacePrefix anchors every derived storage namespace.
const NamespacePrefix = "diamond.storage."

// NamespaceVersion tags the layout generation so a future migration can
// derive fresh slots without colliding with the old ones.
const NamespaceVersion = "v1"

// DiamondPattern is the isolated storage layout generated for one facet:
// a namespace, the slot derived from it, and a struct skeleton with an
// accessor recovering the struct at that slot.
type DiamondPattern struct {
	Facet     string `json:"facet"`
	Namespace string `json:"namespace"`
	Slot      uint64 `json:"slot"`
	StructDef string `json:"structDef"`
	Valid     bool   `json:"valid"`
}

// DeriveNamespace builds the deterministic namespace for a facet name.
func DeriveNamespace(facetName string) string {
	return NamespacePrefix + strings.ToLower(facetName) + "." + NamespaceVersion
}

// DeriveSlot hashes a namespace into its storage slot. The minus one keeps
// derived slots clear of the zero-indexed automatic layout range even for
// degenerate hash values.
//
// The hash is FNV-1a, a dry-run stand-in: real diamond storage derives
// slots with keccak256, which belongs to the on-chain collaborator.
func DeriveSlot(namespace string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(namespace))
	return h.Sum64() - 1
}

// GeneratePatterns emits one diamond pattern per facet. A pattern is valid
// when its namespace is unique among the facets and its slot is non-zero.
func GeneratePatterns(facets []cluster.FacetCandidate) []DiamondPattern {
	namespaceCount := make(map[string]int, len(facets))
	for i := range facets {
		namespaceCount[DeriveNamespace(facets[i].Name)]++
	}

	patterns := make([]DiamondPattern, 0, len(facets))
	for i := range facets {
		f := &facets[i]
		ns := DeriveNamespace(f.Name)
		slot := DeriveSlot(ns)
		patterns = append(patterns, DiamondPattern{
			Facet:     f.Name,
			Namespace: ns,
			Slot:      slot,
			StructDef: structSkeleton(f, slot),
			Valid:     namespaceCount[ns] == 1 && slot != 0,
		})
	}
	return patterns
}

// structSkeleton renders the facet's storage struct and accessor. Only
// variables that actually occupy storage are listed; constants and
// immutables were already filtered out of the facet footprint.
func structSkeleton(f *cluster.FacetCandidate, slot uint64) string {
	var sb strings.Builder

	structName := f.Name + "Storage"
	fmt.Fprintf(&sb, "struct %s {\n", structName)
	if len(f.Variables) == 0 {
		sb.WriteString("    // no persistent state\n")
	}
	for i := range f.Variables {
		v := &f.Variables[i]
		fmt.Fprintf(&sb, "    %s %s;\n", v.Type, v.Name)
	}
	sb.WriteString("}\n\n")

	accessor := lowerFirst(structName)
	fmt.Fprintf(&sb, "function %s() internal pure returns (%s storage s) {\n", accessor, structName)
	fmt.Fprintf(&sb, "    bytes32 slot = bytes32(uint256(0x%x));\n", slot)
	sb.WriteString("    assembly {\n        s.slot := slot\n    }\n}\n")
	return sb.String()
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
