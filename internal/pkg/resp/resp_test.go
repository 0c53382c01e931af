package resp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"chatrelay/internal/pkg/errs"
)

func TestRespondSuccess(t *testing.T) {
	req := require.New(t)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/health", nil)

	RespondSuccess(w, r, map[string]string{"status": "ok"})

	req.Equal(http.StatusOK, w.Code)
	req.Equal("application/json", w.Header().Get("Content-Type"))

	var body struct {
		Code    int               `json:"code"`
		Message string            `json:"message"`
		Data    map[string]string `json:"data"`
	}
	req.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	req.Equal(0, body.Code)
	req.Equal("success", body.Message)
	req.Equal("ok", body.Data["status"])
}

func TestRespondError(t *testing.T) {
	req := require.New(t)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/ws", nil)

	RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))

	req.Equal(http.StatusTooManyRequests, w.Code)

	var body JSONResponse
	req.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	req.Equal(errs.ErrRateLimitExceeded, body.Code)
	req.Nil(body.Data)
}

func TestRespondError_NilIsUnknown(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	RespondError(w, r, nil)

	require.Equal(t, http.StatusInternalServerError, w.Code)
}
