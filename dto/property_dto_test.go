package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdatePropertyRequest_NullClearsOptionalFields(t *testing.T) {
	var req UpdatePropertyRequest
	require.NoError(t, json.Unmarshal([]byte(`{"dpeValue":null,"features":null,"gesValue":25,"title":null}`), &req))

	patch := req.ToPatch()
	assert.True(t, patch.ClearDPEValue)
	assert.True(t, patch.ClearFeatures)
	assert.False(t, patch.ClearGESValue)
	require.NotNil(t, patch.GESValue)
	assert.Equal(t, 25, *patch.GESValue)
	assert.Nil(t, patch.Title)
}

func TestUpdatePropertyRequest_AbsentFieldsAreKept(t *testing.T) {
	var req UpdatePropertyRequest
	require.NoError(t, json.Unmarshal([]byte(`{"price":499000}`), &req))

	patch := req.ToPatch()
	assert.False(t, patch.ClearDPEValue)
	assert.False(t, patch.ClearGESValue)
	assert.False(t, patch.ClearFeatures)
	require.NotNil(t, patch.Price)
	assert.Equal(t, 499000, *patch.Price)
}

func TestUpdatePropertyRequest_TypeErrorsAreReported(t *testing.T) {
	var req UpdatePropertyRequest
	err := json.Unmarshal([]byte(`{"price":"cher"}`), &req)

	var typeError *json.UnmarshalTypeError
	require.ErrorAs(t, err, &typeError)
	assert.Equal(t, "price", typeError.Field)
}
