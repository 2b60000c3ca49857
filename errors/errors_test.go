package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelErrorMessage(t *testing.T) {
	err := NewModelError(ErrorDuplicateFunction, "functions", `function "transfer" is declared twice`)
	assert.Equal(t, `model: [F0003] functions: function "transfer" is declared twice`, err.Error())

	fieldless := NewModelError(ErrorMalformedModel, "", "contract model is nil")
	assert.Equal(t, "model: [F0006] contract model is nil", fieldless.Error())
}

func TestSizeLimitExceededMessage(t *testing.T) {
	err := NewSizeLimitExceeded("migrateAll", 30000, 22000)
	assert.Equal(t, StageCluster, err.Stage)
	assert.Equal(t, ErrorFunctionOversized, err.Code)
	assert.Contains(t, err.Error(), "cluster: [F0200]")
	assert.Contains(t, err.Error(), `"migrateAll"`)
	assert.Contains(t, err.Error(), "30000")
	assert.Contains(t, err.Error(), "22000")
}

func TestConfigErrorCarriesStage(t *testing.T) {
	err := NewConfigError(StageSimulate, ErrorBadGasCeiling, "gas ceiling must be positive, got 0")
	assert.Equal(t, "simulate: [F0400] gas ceiling must be positive, got 0", err.Error())
}

func TestConflictDetectedMessage(t *testing.T) {
	err := NewConflictDetected(StageStorage, ErrorSlotCollision, "slot 1",
		"claimed by multiple facets (warning)")
	assert.Equal(t, "storage: [F0300] conflict on slot 1: claimed by multiple facets (warning)", err.Error())
}

// Taxonomy values survive %w wrapping and come back out through errors.As.
func TestErrorsAsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("partitioning failed: %w", NewSizeLimitExceeded("f", 25000, 22000))

	var sizeErr *SizeLimitExceeded
	require.True(t, stderrors.As(wrapped, &sizeErr))
	assert.Equal(t, "f", sizeErr.Function)
	assert.Equal(t, 25000, sizeErr.EstimatedSize)

	var modelErr *ModelError
	assert.False(t, stderrors.As(wrapped, &modelErr))

	var confErr *ConfigError
	wrappedConf := fmt.Errorf("simulation aborted: %w", NewConfigError(StageSimulate, ErrorBadGasCeiling, "zero ceiling"))
	require.True(t, stderrors.As(wrappedConf, &confErr))
	assert.Equal(t, StageSimulate, confErr.Stage)
}
