package utils

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserContext(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		ctx := WithUserID(context.Background(), 100)

		id, ok := GetUserIDFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, uint(100), id)
	})

	t.Run("EmptyContext", func(t *testing.T) {
		_, ok := GetUserIDFromContext(context.Background())
		assert.False(t, ok)
	})
}

func TestOperatorContext(t *testing.T) {
	assert.False(t, IsOperator(context.Background()))
	assert.True(t, IsOperator(WithOperator(context.Background())))
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	require.NoError(t, WriteError(w, "order not found", 404))

	assert.Equal(t, 404, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var res ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "order not found", res.Message)
}

func TestWriteValidationError(t *testing.T) {
	type payload struct {
		Carrier  string `validate:"required"`
		Quantity int    `validate:"gt=0"`
	}

	err := validator.New().Struct(payload{})
	require.Error(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, WriteValidationError(w, err))

	assert.Equal(t, 400, w.Code)

	var res ValidationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "required", res.Fields["Carrier"])
	assert.Equal(t, "gt", res.Fields["Quantity"])
}

func TestDecodeBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"carrier": "DHL"}`))

	var body struct {
		Carrier string `json:"carrier"`
	}
	require.NoError(t, DecodeBody(req, &body))
	assert.Equal(t, "DHL", body.Carrier)

	req = httptest.NewRequest("POST", "/", strings.NewReader(`{broken`))
	assert.Error(t, DecodeBody(req, &body))
}
