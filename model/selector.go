package model

import (
	"encoding/hex"
	"hash/fnv"
)

// Selector is a 4-byte function dispatch identifier.
//
// Selectors produced by this engine are SIMULATION-ONLY: they are derived
// with FNV-1a over the canonical signature, not with the keccak-based
// derivation real dispatch uses. They are stable across runs, which is all
// the dry-run protocol needs; real selector computation belongs to the
// on-chain collaborator.
type Selector [4]byte

// Hex returns the selector as a 0x-prefixed hex string.
func (s Selector) Hex() string {
	return "0x" + hex.EncodeToString(s[:])
}

// IsZero reports whether the selector is unset.
func (s Selector) IsZero() bool {
	return s == Selector{}
}

// SimulatedSelector derives the dry-run selector for a function signature.
// Identical signatures always yield identical selectors.
func SimulatedSelector(name string, params []Parameter) Selector {
	f := FunctionDescriptor{Name: name, Parameters: params}
	h := fnv.New32a()
	h.Write([]byte(f.Signature()))
	var sel Selector
	copy(sel[:], h.Sum(nil))
	return sel
}

// EffectiveSelector returns the descriptor's selector, deriving the
// simulated one when the front end did not supply a value.
func (f *FunctionDescriptor) EffectiveSelector() Selector {
	if !f.Selector.IsZero() {
		return f.Selector
	}
	return SimulatedSelector(f.Name, f.Parameters)
}
