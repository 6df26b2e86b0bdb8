package validator

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type image struct {
	Hash string `json:"hash" validate:"required"`
}

type sortRequest struct {
	Images        []image `json:"images" validate:"required,max=2,dive"`
	PreferredType string  `json:"preferred_type" validate:"max=5"`
	Color         string  `json:"color,omitempty" validate:"omitempty,hexcolor"`
	ProductIDs    []int64 `json:"product_ids" validate:"omitempty,dive,gt=0"`
}

func validationError(t *testing.T, err error) *ValidationError {
	t.Helper()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
	return ve
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, Validate(sortRequest{Images: []image{{Hash: "a1"}}, Color: "#ff0000"}))
}

func TestValidate_FieldMessages(t *testing.T) {
	tests := []struct {
		name  string
		req   sortRequest
		field string
		msg   string
	}{
		{"missing images", sortRequest{}, "images", "is required"},
		{"too many images", sortRequest{Images: []image{{"a"}, {"b"}, {"c"}}}, "images", "must contain at most 2 items"},
		{"long string", sortRequest{Images: []image{{"a"}}, PreferredType: "lifestyle"}, "preferred_type", "must be at most 5 characters"},
		{"nested", sortRequest{Images: []image{{"a"}, {""}}}, "images[1].hash", "is required"},
		{"hex color", sortRequest{Images: []image{{"a"}}, Color: "red"}, "color", "must be a hex color"},
		{"positive ids", sortRequest{Images: []image{{"a"}}, ProductIDs: []int64{1, 0}}, "product_ids[1]", "must be greater than 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := validationError(t, Validate(tt.req))
			assert.Equal(t, tt.msg, ve.Fields()[tt.field], "fields: %v", ve.Fields())
			assert.Contains(t, ve.Error(), "field '"+tt.field+"'")
		})
	}
}

func TestValidate_NonStruct(t *testing.T) {
	err := Validate("promotion")
	require.Error(t, err)
	var ve *ValidationError
	assert.False(t, errors.As(err, &ve))
}

func TestDecodeAndValidate(t *testing.T) {
	newReq := func(body string) *http.Request {
		return httptest.NewRequest(http.MethodPost, "/api/v1/images/sort", strings.NewReader(body))
	}

	t.Run("valid", func(t *testing.T) {
		var dst sortRequest
		require.NoError(t, DecodeAndValidate(newReq(`{"images":[{"hash":"a1"}]}`), &dst))
		assert.Equal(t, "a1", dst.Images[0].Hash)
	})

	t.Run("malformed", func(t *testing.T) {
		err := DecodeAndValidate(newReq(`{"images":`), &sortRequest{})
		assert.ErrorContains(t, err, "decode request body")
	})

	t.Run("trailing data", func(t *testing.T) {
		err := DecodeAndValidate(newReq(`{"images":[{"hash":"a"}]} {"images":[]}`), &sortRequest{})
		assert.ErrorContains(t, err, "unexpected data")
	})

	t.Run("too large", func(t *testing.T) {
		body := `{"preferred_type":"` + strings.Repeat("x", maxBodyBytes) + `"}`
		err := DecodeAndValidate(newReq(body), &sortRequest{})
		assert.ErrorContains(t, err, "decode request body")
	})

	t.Run("invalid", func(t *testing.T) {
		err := DecodeAndValidate(newReq(`{"preferred_type":"x"}`), &sortRequest{})
		validationError(t, err)
	})
}
