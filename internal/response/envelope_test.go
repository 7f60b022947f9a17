package response

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maltedev/ekatra-normalizer/internal/models"
)

func TestSuccess(t *testing.T) {
	b := NewBuilder("")
	p := &models.Product{ProductID: "P1"}

	env := b.Success(p, map[string]any{"dataType": "MIXED_STRUCTURE"}, "")

	assert.True(t, env.OK())
	assert.Equal(t, MessageSuccess, env.Message)
	assert.Same(t, p, env.Data)
	assert.Equal(t, DefaultSDKVersion, env.Metadata["sdkVersion"])
	assert.Equal(t, "MIXED_STRUCTURE", env.Metadata["dataType"])
}

func TestBuildExtrasOverrideBase(t *testing.T) {
	env := NewBuilder("3.1.0").Build(StatusSuccess, nil, map[string]any{"sdkVersion": "custom"}, "ok")
	assert.Equal(t, "custom", env.Metadata["sdkVersion"])
}

func TestErrorDropsData(t *testing.T) {
	env := NewBuilder("3.1.0").Build(StatusError, &models.Product{}, nil, "boom")
	assert.Nil(t, env.Data)
	assert.False(t, env.OK())
	assert.Equal(t, "3.1.0", env.Metadata["sdkVersion"])
}

func TestValidationFailureForcesFlags(t *testing.T) {
	b := NewBuilder("")
	result := models.NewValidationResult([]string{"Product ID is required"}, []string{"Add 'product_id' field to your data"})

	env := b.ValidationFailure(result, map[string]any{"canAutoTransform": true, "dataType": "MIXED_STRUCTURE"}, "")

	assert.Equal(t, StatusError, env.Status)
	assert.Nil(t, env.Data)
	assert.Equal(t, MessageValidationFailed, env.Message)
	assert.Equal(t, false, env.Metadata["canAutoTransform"])
	assert.Equal(t, true, env.Metadata["manualSetupRequired"])
	assert.Contains(t, env.Metadata, "maxQuantity")
	assert.Nil(t, env.Metadata["maxQuantity"])
	assert.Equal(t, "MIXED_STRUCTURE", env.Metadata["dataType"])

	got, ok := env.Validation()
	require.True(t, ok)
	assert.Equal(t, result, got)
}

func TestTransformationFailure(t *testing.T) {
	env := NewBuilder("").TransformationFailure("Input must be a JSON object", map[string]any{"inputType": "string"})

	assert.Equal(t, StatusError, env.Status)
	assert.Nil(t, env.Metadata["validation"])
	assert.Equal(t, true, env.Metadata["manualSetupRequired"])
	assert.Equal(t, "string", env.Metadata["inputType"])
}

func TestEnvelopeWireShape(t *testing.T) {
	env := NewBuilder("").Error("nope", nil)

	raw, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"error","data":null,"metadata":{"sdkVersion":"2.0.4"},"message":"nope"}`, string(raw))
}
