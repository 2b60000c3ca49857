package model

import (
	"fmt"

	facerrors "faceter/errors"
)

// Validate checks the structural invariants every later stage relies on.
// It returns the first violation as a ModelError; a model that validates
// once stays valid, since snapshots are never mutated.
func (m *ContractModel) Validate() error {
	if m == nil {
		return facerrors.NewModelError(facerrors.ErrorMalformedModel, "", "contract model is nil")
	}
	if m.Name == "" {
		return facerrors.NewModelError(facerrors.ErrorMissingContractName, "name", "contract model has no name")
	}
	if len(m.Functions) == 0 {
		return facerrors.NewModelError(facerrors.ErrorNoFunctions, "functions", "contract model declares no functions")
	}

	seen := make(map[string]bool, len(m.Functions))
	for i := range m.Functions {
		fn := &m.Functions[i]
		if fn.Name == "" {
			return facerrors.NewModelError(facerrors.ErrorMalformedModel, "functions",
				fmt.Sprintf("function at index %d has no name", i))
		}
		if seen[fn.Name] {
			return facerrors.NewModelError(facerrors.ErrorDuplicateFunction, "functions",
				fmt.Sprintf("function %q is declared twice", fn.Name))
		}
		seen[fn.Name] = true

		if fn.Visibility != "" && !fn.Visibility.Valid() {
			return facerrors.NewModelError(facerrors.ErrorMalformedModel, "functions",
				fmt.Sprintf("function %q has unknown visibility %q", fn.Name, fn.Visibility))
		}
		if fn.Mutability != "" && !fn.Mutability.Valid() {
			return facerrors.NewModelError(facerrors.ErrorMalformedModel, "functions",
				fmt.Sprintf("function %q has unknown mutability %q", fn.Name, fn.Mutability))
		}
		for _, mod := range fn.Modifiers {
			if len(m.Modifiers) > 0 && !m.HasModifier(mod) {
				return facerrors.NewModelError(facerrors.ErrorUnknownModifier, "functions",
					fmt.Sprintf("function %q references undeclared modifier %q", fn.Name, mod))
			}
		}
	}

	for i := range m.Variables {
		v := &m.Variables[i]
		if v.Name == "" {
			return facerrors.NewModelError(facerrors.ErrorMalformedModel, "variables",
				fmt.Sprintf("variable at index %d has no name", i))
		}
		if v.Slot < 0 {
			return facerrors.NewModelError(facerrors.ErrorInvalidSlot, "variables",
				fmt.Sprintf("variable %q declares negative slot %d", v.Name, v.Slot))
		}
	}

	return nil
}
