package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONResponse(t *testing.T) {
	r := NewJSONResponse(map[string]string{"k": "v"})

	assert.True(t, r.Success)
	assert.NotNil(t, r.Data)
	assert.Empty(t, r.Error)
	assert.False(t, r.Timestamp.IsZero())
}

func TestNewErrorResponse(t *testing.T) {
	r := NewErrorResponse("api doc not found: 7")

	assert.False(t, r.Success)
	assert.Nil(t, r.Data)
	assert.Equal(t, "api doc not found: 7", r.Error)
}

func TestResponse_Write(t *testing.T) {
	tests := []struct {
		name     string
		response *Response
		status   int
	}{
		{"success", NewJSONResponse("ok"), http.StatusOK},
		{"error", NewErrorResponse("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.response.Write(w)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var decoded Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
			assert.Equal(t, tt.response.Success, decoded.Success)
			assert.Equal(t, tt.response.Error, decoded.Error)
		})
	}
}

func TestResponse_WriteWithStatus(t *testing.T) {
	w := httptest.NewRecorder()
	NewErrorResponse("not found").WriteWithStatus(w, http.StatusNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `"not found"`, mustField(t, w.Body.Bytes(), "error"))
}

func TestWriteJSON_Bare(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSON(w, http.StatusOK, []int{1, 2})

	assert.JSONEq(t, `[1,2]`, w.Body.String())
}

func mustField(t *testing.T, body []byte, key string) string {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &m))
	return string(m[key])
}
