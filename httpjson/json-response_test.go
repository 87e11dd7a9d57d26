package httpjson_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/programme-lv/grievance/httpjson"
	"github.com/programme-lv/grievance/srvcerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func decode(t *testing.T, w *httptest.ResponseRecorder) httpjson.JsonResponse {
	t.Helper()
	var resp httpjson.JsonResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return resp
}

func TestWriteSuccessJson(t *testing.T) {
	w := httptest.NewRecorder()
	httpjson.WriteSuccessJson(w, map[string]int{"count": 3})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	resp := decode(t, w)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, map[string]any{"count": float64(3)}, resp.Data)
}

func TestHandleErrorServiceError(t *testing.T) {
	err := srvcerror.New("validation_failed", "bad input").
		SetHttpStatusCode(http.StatusBadRequest).
		SetFields(map[string][]string{"date": {"Please select a date"}})

	w := httptest.NewRecorder()
	httpjson.HandleError(discard, w, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "validation_failed", resp.ErrCode)
	assert.Equal(t, "bad input", resp.ErrMsg)
	assert.Equal(t, map[string][]string{"date": {"Please select a date"}}, resp.Fields)
}

func TestHandleErrorWrappedServiceError(t *testing.T) {
	inner := srvcerror.New("submission_failed", "try later").SetHttpStatusCode(http.StatusBadGateway)
	w := httptest.NewRecorder()
	httpjson.HandleError(discard, w, errors.Join(errors.New("context"), inner))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "submission_failed", decode(t, w).ErrCode)
}

func TestHandleErrorPlainError(t *testing.T) {
	w := httptest.NewRecorder()
	httpjson.HandleError(discard, w, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode(t, w)
	assert.Equal(t, srvcerror.ErrCodeInternalServerError, resp.ErrCode)
	assert.NotContains(t, w.Body.String(), "boom")
}
