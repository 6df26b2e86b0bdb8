package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/promotion-service/pkg/errors"
	"github.com/utafrali/promotion-service/pkg/logger"
	"github.com/utafrali/promotion-service/pkg/validator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, Response{Data: map[string]string{"id": "summer-sale"}})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"id":"summer-sale"}}`, rec.Body.String())
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"app error", apperrors.NotFound("promotion", "p-1"), http.StatusNotFound, "NOT_FOUND", "promotion with id p-1 not found"},
		{"wrapped app error", fmt.Errorf("get: %w", apperrors.InvalidInput("bad color")), http.StatusBadRequest, "INVALID_INPUT", "bad color"},
		{"sentinel", fmt.Errorf("basket: %w", apperrors.ErrNotFound), http.StatusNotFound, "NOT_FOUND", "resource not found"},
		{"rate limited", apperrors.RateLimited("slow down"), http.StatusTooManyRequests, "RATE_LIMITED", "slow down"},
		{"unknown", errors.New("pq: deadlock"), http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, httptest.NewRequest(http.MethodGet, "/api/v1/promotions", nil), tt.err, testLogger())

			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decode(t, rec)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMsg, resp.Error.Message)
			assert.Nil(t, resp.Data)
		})
	}
}

func TestWriteError_LogsInternalErrors(t *testing.T) {
	var buf bytes.Buffer
	fallback := slog.New(slog.NewTextHandler(&buf, nil))

	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodGet, "/x", nil), apperrors.NotFound("basket", "b"), fallback)
	assert.Empty(t, buf.String())

	WriteError(rec, httptest.NewRequest(http.MethodGet, "/x", nil), errors.New("boom"), fallback)
	assert.Contains(t, buf.String(), "request failed")
	assert.Contains(t, buf.String(), "boom")
}

func TestWriteError_PrefersRequestLogger(t *testing.T) {
	var scoped, fallback bytes.Buffer
	ctx := logger.NewContext(context.Background(), slog.New(slog.NewTextHandler(&scoped, nil)))
	req := httptest.NewRequest(http.MethodGet, "/x", nil).WithContext(ctx)

	WriteError(httptest.NewRecorder(), req, errors.New("boom"), slog.New(slog.NewTextHandler(&fallback, nil)))

	assert.Contains(t, scoped.String(), "boom")
	assert.Empty(t, fallback.String())
}

func TestWriteError_RequestID(t *testing.T) {
	ctx := logger.WithCorrelationID(context.Background(), "corr-123")
	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodGet, "/x", nil).WithContext(ctx), apperrors.ErrNotFound, testLogger())

	assert.Equal(t, "corr-123", decode(t, rec).Error.RequestID)

	rec = httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodGet, "/x", nil), apperrors.ErrNotFound, testLogger())
	assert.NotContains(t, rec.Body.String(), "request_id")
}

func TestWriteValidationError(t *testing.T) {
	type request struct {
		ProductIDs []int64 `json:"product_ids" validate:"required,min=1"`
	}

	t.Run("field errors", func(t *testing.T) {
		err := validator.Validate(request{})
		rec := httptest.NewRecorder()
		WriteValidationError(rec, err)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decode(t, rec)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
		assert.Equal(t, "is required", resp.Error.Fields["product_ids"])
	})

	t.Run("decode error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
		err := validator.DecodeAndValidate(req, &request{})
		rec := httptest.NewRecorder()
		WriteValidationError(rec, err)

		resp := decode(t, rec)
		assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
		assert.Contains(t, resp.Error.Message, "decode request body")
	})
}

func TestParseID(t *testing.T) {
	rec := httptest.NewRecorder()
	id, ok := ParseID(rec, "4711")
	assert.True(t, ok)
	assert.Equal(t, int64(4711), id)
	assert.Equal(t, 0, rec.Body.Len())

	for _, param := range []string{"", "abc", "0", "-3", "12x", "99999999999999999999"} {
		t.Run(param, func(t *testing.T) {
			rec := httptest.NewRecorder()
			id, ok := ParseID(rec, param)

			assert.False(t, ok)
			assert.Zero(t, id)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decode(t, rec)
			assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
			assert.Equal(t, "invalid id: "+param, resp.Error.Message)
		})
	}
}
