package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/chainsafe/htlc-relayer/pkg/app/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"service error", apperrors.BadRequestError(nil, "invalid limit"), http.StatusBadRequest, "invalid limit"},
		{"not found", apperrors.ResourceNotFoundError(nil, "missing"), http.StatusNotFound, "missing"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "Unexpected Service Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := HandleError(zap.NewNop(), func(http.ResponseWriter, *http.Request) error { return tt.err })

			rec := httptest.NewRecorder()
			h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.status, rec.Code)
			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body.ErrMsg)
			assert.Equal(t, tt.status, body.ErrMsgCode)
		})
	}
}

func TestHandleError_Success(t *testing.T) {
	h := HandleError(zap.NewNop(), func(w http.ResponseWriter, _ *http.Request) error {
		return WriteJSON(w, http.StatusOK, map[string]string{"status": "running"})
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"running"}`, rec.Body.String())
}
