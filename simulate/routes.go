package simulate

import (
	"github.com/ethereum/go-ethereum/common"

	"faceter/cluster"
	"faceter/model"
)

// Route is one simulated manifest entry mapping a selector to its facet.
type Route struct {
	Selector     model.Selector      `json:"selector"`
	FacetAddress common.Address      `json:"facetAddress"`
	CodeHash     common.Hash         `json:"codeHash"`
	Function     string              `json:"function"`
	GasEstimate  uint64              `json:"gasEstimate"`
	Security     model.SecurityLevel `json:"security,omitempty"`
}

// BuildRoutes produces one route per member function across all facets,
// in facet order then member order.
func BuildRoutes(facets []cluster.FacetCandidate) []Route {
	routes := make([]Route, 0, 32)
	for i := range facets {
		f := &facets[i]
		addr := PredictAddress(f)
		codeHash := PredictCodeHash(f)
		for j := range f.Members {
			member := &f.Members[j]
			routes = append(routes, Route{
				Selector:     member.EffectiveSelector(),
				FacetAddress: addr,
				CodeHash:     codeHash,
				Function:     member.Name,
				GasEstimate:  cluster.EstimateFunctionGas(member),
				Security:     f.Security,
			})
		}
	}
	return routes
}

// leafHash concatenates a route's wire fields and hashes them.
func leafHash(r *Route) common.Hash {
	data := make([]byte, 0, 4+common.AddressLength+common.HashLength)
	data = append(data, r.Selector[:]...)
	data = append(data, r.FacetAddress[:]...)
	data = append(data, r.CodeHash[:]...)
	return pseudoHash32(data)
}

// RouteRoot aggregates a route set into a single commitment root by
// iterative pairwise hashing, bottom-up: adjacent entries are paired and
// an odd leftover is carried forward unchanged. A placeholder for a real
// Merkle commitment scheme. The empty set aggregates to the zero hash.
func RouteRoot(routes []Route) common.Hash {
	if len(routes) == 0 {
		return common.Hash{}
	}

	level := make([]common.Hash, 0, len(routes))
	for i := range routes {
		level = append(level, leafHash(&routes[i]))
	}

	for len(level) > 1 {
		next := make([]common.Hash, 0, (len(level)+1)/2)
		for i := 0; i+1 < len(level); i += 2 {
			pair := make([]byte, 0, 2*common.HashLength)
			pair = append(pair, level[i][:]...)
			pair = append(pair, level[i+1][:]...)
			next = append(next, pseudoHash32(pair))
		}
		if len(level)%2 == 1 {
			next = append(next, level[len(level)-1])
		}
		level = next
	}
	return level[0]
}
