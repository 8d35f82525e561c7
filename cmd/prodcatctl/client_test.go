package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_DecodesSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"name":"Alpha","displayOrder":0}]`))
	}))
	defer srv.Close()

	var rows []ProductRow
	require.NoError(t, NewClient(srv.URL).Get(context.Background(), "/api/products", &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Alpha", rows[0].Name)
}

func TestClient_DeleteSendsCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "admin", body["username"])
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL).Delete(context.Background(), "/api/products/3",
		map[string]string{"username": "admin", "password": "pw"}, nil)
	assert.NoError(t, err)
}

func TestClient_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/plain" {
			http.Error(w, "bad gateway", http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"code":"CAT_FORBIDDEN","message":"only admins can delete products"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.Get(context.Background(), "/api/x", nil)
	assert.EqualError(t, err, "CAT_FORBIDDEN: only admins can delete products")

	err = c.Get(context.Background(), "/plain", nil)
	assert.EqualError(t, err, "HTTP 502: bad gateway")
}
