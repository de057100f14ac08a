package httpc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"status":"(0,1,N)","echo":"` + in["command"] + `"}`))
	}))
	defer srv.Close()

	var out struct {
		Status string `json:"status"`
		Echo   string `json:"echo"`
	}
	err := PostJSON(context.Background(), Client, srv.URL, map[string]string{"command": "f"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "(0,1,N)", out.Status)
	assert.Equal(t, "f", out.Echo)
}

func TestPostJSON_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"robot: invalid command \"x\""}`))
	}))
	defer srv.Close()

	var out struct {
		Error string `json:"error"`
	}
	err := PostJSON(context.Background(), Client, srv.URL, map[string]string{"command": "x"}, &out)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
	assert.Contains(t, out.Error, "invalid command")
}

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`{"status":"(0,0,N)"}`))
	}))
	defer srv.Close()

	var out map[string]string
	require.NoError(t, GetJSON(context.Background(), NewClient(0), srv.URL, &out))
	assert.Equal(t, "(0,0,N)", out["status"])
}
