package cluster

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"faceter/model"
)

// Heuristics is the versioned vocabulary table driving domain
// classification. It is an explicit value passed into Partition; there is
// no mutable global registry, so two runs with the same table always
// classify identically.
type Heuristics struct {
	Version string `yaml:"version" json:"version"`

	// AdminKeywords route a function into the critical-security domain
	// when its name or a modifier name contains one of them.
	AdminKeywords []string `yaml:"admin_keywords" json:"adminKeywords"`

	// StorageKeywords mark storage-intensive bulk operations.
	StorageKeywords []string `yaml:"storage_keywords" json:"storageKeywords"`

	// StorageParamThreshold: a mutating function with more parameters than
	// this also counts as storage-intensive.
	StorageParamThreshold int `yaml:"storage_param_threshold" json:"storageParamThreshold"`

	// StorageClusterMin: the dedicated storage domain is only formed when
	// more than this many functions qualify.
	StorageClusterMin int `yaml:"storage_cluster_min" json:"storageClusterMin"`

	// CategoryOverrides maps protocol-specific keywords to a facet
	// category, checked before the built-in vocabularies. This replaces
	// the original system's pattern-frequency registry with a plain
	// configuration table.
	CategoryOverrides map[string]FacetCategory `yaml:"category_overrides,omitempty" json:"categoryOverrides,omitempty"`
}

// DefaultHeuristics returns the built-in vocabulary table.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		Version: "1",
		AdminKeywords: []string{
			"admin", "owner", "authorize", "pause", "unpause", "emergency",
			"upgrade", "initialize", "governance", "vote", "proposal",
			"timelock", "multisig",
		},
		StorageKeywords: []string{
			"store", "save", "update", "delete", "batch", "bulk", "mass",
		},
		StorageParamThreshold: 3,
		StorageClusterMin:     3,
	}
}

// LoadHeuristics reads a heuristics table from a yaml file. Absent fields
// fall back to the defaults so a table can override just one vocabulary.
func LoadHeuristics(path string) (Heuristics, error) {
	h := DefaultHeuristics()
	bs, err := os.ReadFile(path)
	if err != nil {
		return h, fmt.Errorf("loading heuristics table: %w", err)
	}
	if err := yaml.Unmarshal(bs, &h); err != nil {
		return h, fmt.Errorf("parsing heuristics table %s: %w", path, err)
	}
	if h.StorageParamThreshold <= 0 {
		h.StorageParamThreshold = 3
	}
	if h.StorageClusterMin <= 0 {
		h.StorageClusterMin = 3
	}
	return h, nil
}

// overrideCategory returns the category mapped to the first matching
// override keyword, or "".
func (h Heuristics) overrideCategory(fn *model.FunctionDescriptor) FacetCategory {
	name := strings.ToLower(fn.Name)
	for keyword, cat := range h.CategoryOverrides {
		if strings.Contains(name, strings.ToLower(keyword)) {
			return cat
		}
	}
	return ""
}

// isAdmin reports whether the function belongs in the administrative
// domain: its name or any modifier name intersects the admin vocabulary.
func (h Heuristics) isAdmin(fn *model.FunctionDescriptor) bool {
	if h.overrideCategory(fn) == CategoryAdmin {
		return true
	}
	if containsAny(fn.Name, h.AdminKeywords) {
		return true
	}
	for _, mod := range fn.Modifiers {
		if containsAny(mod, h.AdminKeywords) {
			return true
		}
	}
	return false
}

// isStorageIntensive reports whether a mutating function qualifies for the
// dedicated storage domain: a name-token hit or a wide parameter list.
func (h Heuristics) isStorageIntensive(fn *model.FunctionDescriptor) bool {
	if h.overrideCategory(fn) == CategoryStorage {
		return true
	}
	return containsAny(fn.Name, h.StorageKeywords) || len(fn.Parameters) > h.StorageParamThreshold
}

// isAdminGuard reports whether a modifier name looks like an access-control
// guard; facets whose members carry one depend on the admin domain.
func (h Heuristics) isAdminGuard(modifier string) bool {
	return containsAny(modifier, h.AdminKeywords)
}

func containsAny(name string, keywords []string) bool {
	lower := strings.ToLower(name)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
