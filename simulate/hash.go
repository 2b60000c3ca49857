package simulate

import (
	"hash/fnv"

	"github.com/ethereum/go-ethereum/common"

	"faceter/cluster"
)

// pseudoHash32 fills a 32-byte hash by chaining FNV-1a rounds over the
// input with a round counter. Deterministic and fast; explicitly not a
// substitute for keccak256 content hashing.
func pseudoHash32(data []byte) common.Hash {
	var out common.Hash
	for round := byte(0); round < 4; round++ {
		h := fnv.New64a()
		h.Write(data)
		h.Write([]byte{round})
		copy(out[round*8:], h.Sum(nil))
	}
	return out
}

// PredictAddress derives the facet's simulation-only pseudo-address from
// its name and stand-in source text: the truncated 128-bit FNV digest plus
// a 32-bit tail. Real deterministic addressing (CREATE2 over init code)
// is owned by the external factory.
func PredictAddress(f *cluster.FacetCandidate) common.Address {
	seed := []byte(f.Name + f.SourceText())

	wide := fnv.New128a()
	wide.Write(seed)
	tail := fnv.New32a()
	tail.Write(seed)

	var addr common.Address
	copy(addr[:16], wide.Sum(nil))
	copy(addr[16:], tail.Sum(nil))
	return addr
}

// PredictCodeHash derives the facet's simulated deployed-code hash.
func PredictCodeHash(f *cluster.FacetCandidate) common.Hash {
	return pseudoHash32([]byte(f.SourceText()))
}
