package serializer

import (
	"encoding/json"
	"testing"

	"github.com/astrotrack/astrotrack/internal/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_EmptyStillHasData(t *testing.T) {
	b, err := json.Marshal(List[string](nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":[],"count":0}`, string(b))
}

func TestValidationErr_Details(t *testing.T) {
	res := ValidationErr(validation.Errors{
		{Field: "abbreviation", Message: "must be at most 10 characters"},
		{Field: "name", Message: "is required"},
	})
	assert.False(t, res.Success)
	assert.Equal(t, "Validation failed", res.Error)
	assert.Contains(t, res.Details, "abbreviation")
	assert.Contains(t, res.Details, "name")
}

func TestDBErr_GenericBody(t *testing.T) {
	res := DBErr("")
	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"Internal server error"}`, string(b))
	assert.Equal(t, "Internal server error", res.Error)
}
