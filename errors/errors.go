package errors

import "fmt"

// Stage identifies the pipeline stage an error originated from.
// Every abort carries its stage so callers can tell which invariant
// of which phase was violated.
type Stage string

const (
	StageModel     Stage = "model"
	StageCallGraph Stage = "callgraph"
	StageCluster   Stage = "cluster"
	StageStorage   Stage = "storage"
	StageSimulate  Stage = "simulate"
	StageReport    Stage = "report"
)

// ModelError reports a malformed or incomplete ContractModel.
// It is propagated immediately; the pipeline cannot recover from
// structural input problems.
type ModelError struct {
	Stage   Stage
	Code    string
	Field   string // the model field that failed validation
	Message string
}

func (e *ModelError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: [%s] %s: %s", e.Stage, e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: [%s] %s", e.Stage, e.Code, e.Message)
}

// NewModelError creates a model validation error for the given field.
func NewModelError(code, field, message string) *ModelError {
	return &ModelError{Stage: StageModel, Code: code, Field: field, Message: message}
}

// SizeLimitExceeded reports a single function whose estimated size already
// exceeds the facet size ceiling. Repacking cannot resolve this, so the
// decomposition is fatal for that function.
type SizeLimitExceeded struct {
	Stage         Stage
	Code          string
	Function      string
	EstimatedSize int
	Ceiling       int
}

func (e *SizeLimitExceeded) Error() string {
	return fmt.Sprintf("%s: [%s] function %q estimated at %d bytes exceeds the facet ceiling of %d bytes",
		e.Stage, e.Code, e.Function, e.EstimatedSize, e.Ceiling)
}

// NewSizeLimitExceeded creates the fatal oversized-function error.
func NewSizeLimitExceeded(function string, estimated, ceiling int) *SizeLimitExceeded {
	return &SizeLimitExceeded{
		Stage:         StageCluster,
		Code:          ErrorFunctionOversized,
		Function:      function,
		EstimatedSize: estimated,
		Ceiling:       ceiling,
	}
}

// ConfigError reports an invalid simulation or clustering configuration.
type ConfigError struct {
	Stage   Stage
	Code    string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: [%s] %s", e.Stage, e.Code, e.Message)
}

// NewConfigError creates a configuration error for the given stage.
func NewConfigError(stage Stage, code, message string) *ConfigError {
	return &ConfigError{Stage: stage, Code: code, Message: message}
}

// ConflictDetected records a storage slot or selector conflict. Conflicts
// never abort an analysis run; they are accumulated into report fields and
// only block the manifest-readiness gate. The type implements error so a
// conflict can still be surfaced directly when a caller wants one.
type ConflictDetected struct {
	Stage   Stage
	Code    string
	Subject string // slot number or selector the conflict is about
	Message string
}

func (e *ConflictDetected) Error() string {
	return fmt.Sprintf("%s: [%s] conflict on %s: %s", e.Stage, e.Code, e.Subject, e.Message)
}

// NewConflictDetected creates a non-fatal conflict record.
func NewConflictDetected(stage Stage, code, subject, message string) *ConflictDetected {
	return &ConflictDetected{Stage: stage, Code: code, Subject: subject, Message: message}
}
