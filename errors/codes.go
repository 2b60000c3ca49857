package errors

// Error codes for the faceter analysis engine.
// These codes are used in error messages and report entries
// to provide consistent identification across the pipeline.
//
// Error code ranges:
// F0001-F0099: Contract model validation errors
// F0100-F0199: Call graph construction errors
// F0200-F0299: Clustering / size-limit errors
// F0300-F0399: Storage layout findings
// F0400-F0499: Simulation configuration errors
// F0500-F0599: Report aggregation findings

const (
	// F0001: Contract model is missing its name
	ErrorMissingContractName = "F0001"

	// F0002: Contract model declares no functions
	ErrorNoFunctions = "F0002"

	// F0003: Two functions share the same name
	ErrorDuplicateFunction = "F0003"

	// F0004: Variable declares a negative storage slot
	ErrorInvalidSlot = "F0004"

	// F0005: Function references an undeclared modifier
	ErrorUnknownModifier = "F0005"

	// F0006: Generic malformed-model error
	ErrorMalformedModel = "F0006"

	// F0100: Call graph received a nil or unvalidated model
	ErrorGraphInput = "F0100"

	// F0200: A single function exceeds the facet size ceiling
	ErrorFunctionOversized = "F0200"

	// F0201: Clustering options are internally inconsistent
	ErrorBadClusterOptions = "F0201"

	// F0300: Two or more facets claim the same storage slot
	ErrorSlotCollision = "F0300"

	// F0301: Two distinct functions share a simulated selector
	ErrorSelectorCollision = "F0301"

	// F0400: Simulation gas ceiling is non-positive
	ErrorBadGasCeiling = "F0400"
)
