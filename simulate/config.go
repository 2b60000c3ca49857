// Package simulate dry-runs the staged deployment and routing protocol
// for a facet decomposition: deterministic address prediction, route
// commit/apply/activate, integrity checks and emergency controls, with
// gas accounting per phase.
//
// Everything here is simulation-only. Addresses, code hashes and route
// roots are derived with FNV-1a placeholders, not with CREATE2 or keccak;
// the real derivations belong to the on-chain factory and router.
package simulate

import (
	"fmt"

	facerrors "faceter/errors"
)

// Config bounds one simulation run.
type Config struct {
	// GasCeiling flags any facet whose simulated deployment gas exceeds
	// it. The flag is a warning; simulation always completes.
	GasCeiling uint64 `json:"gasCeiling"`

	// VerifyIntegrity enables the per-function integrity phase.
	VerifyIntegrity bool `json:"verifyIntegrity"`
}

// DefaultConfig returns a ceiling roomy enough for typical facets.
func DefaultConfig() Config {
	return Config{GasCeiling: 5_000_000, VerifyIntegrity: true}
}

// Validate rejects configurations the protocol cannot run under.
func (c Config) Validate() error {
	if c.GasCeiling == 0 {
		return facerrors.NewConfigError(facerrors.StageSimulate, facerrors.ErrorBadGasCeiling,
			fmt.Sprintf("gas ceiling must be positive, got %d", c.GasCeiling))
	}
	return nil
}
