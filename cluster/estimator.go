package cluster

import "faceter/model"

// Gas and size model constants. The figures are calibrated against typical
// EVM costs but only need to be internally consistent: the same model
// drives both facet packing and the deployment simulation, so relative
// weight matters more than absolute accuracy.
const (
	baseTxCost        = 21000
	readOnlyBase      = 2600 // pure/view calls never pay the full base
	payablePremium    = 9000
	mutatingIncrement = 5000
	paramGas          = 800
	modifierGas       = 2400
	bodyGasPerByte    = 6
	bodyGasCap        = 12000

	// sizeScale converts a gas estimate into an approximate bytecode
	// contribution; facetOverhead covers dispatch stubs and metadata
	// every deployed facet carries.
	sizeScale     = 10
	facetOverhead = 2000
)

// EstimateFunctionGas derives the engine's gas estimate for one function.
func EstimateFunctionGas(fn *model.FunctionDescriptor) uint64 {
	var gas uint64
	switch {
	case fn.Mutability.ReadOnly():
		gas = readOnlyBase
	case fn.Mutability == model.Payable:
		gas = baseTxCost + payablePremium
	default:
		gas = baseTxCost + mutatingIncrement
	}

	gas += paramGas * uint64(len(fn.Parameters))
	gas += modifierGas * uint64(len(fn.Modifiers))

	bodyTerm := uint64(len(fn.Body)) * bodyGasPerByte
	if bodyTerm > bodyGasCap {
		bodyTerm = bodyGasCap
	}
	return gas + bodyTerm
}

// EstimateFunctionSize derives a function's bytecode contribution. A
// front-end-supplied code size wins over the scaled gas figure.
func EstimateFunctionSize(fn *model.FunctionDescriptor) int {
	if fn.CodeSize > 0 {
		return fn.CodeSize
	}
	return int(EstimateFunctionGas(fn) / sizeScale)
}

// estimateFacetSize sums member contributions plus the per-facet
// deployment overhead.
func estimateFacetSize(members []model.FunctionDescriptor) int {
	size := facetOverhead
	for i := range members {
		size += EstimateFunctionSize(&members[i])
	}
	return size
}
